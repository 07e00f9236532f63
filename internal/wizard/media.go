package wizard

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/tessro/reel/internal/core"
)

// mediaExtensions lists the file extensions offered by the source picker.
var mediaExtensions = []string{
	".mp4", ".m4v", ".mkv", ".webm", ".mov", ".avi", ".ts", ".ogv", ".flv", ".wmv",
}

// maxDepth bounds how far below the root FindMedia descends.
const maxDepth = 2

// IsMedia returns true if the path has a known video extension.
func IsMedia(path string) bool {
	return lo.Contains(mediaExtensions, strings.ToLower(filepath.Ext(path)))
}

// FindMedia lists video files under dir, skipping hidden entries, sorted by path.
func FindMedia(dir string) ([]core.Source, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != dir && depth(dir, path) > maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if IsMedia(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return lo.Map(paths, func(p string, _ int) core.Source {
		return core.NewSource(p, "")
	}), nil
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// FilterSources returns the sources whose title or URI contains every
// whitespace-separated word of query, ignoring case.
func FilterSources(sources []core.Source, query string) []core.Source {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return sources
	}
	return lo.Filter(sources, func(s core.Source, _ int) bool {
		hay := strings.ToLower(s.Title + " " + s.URI)
		return lo.EveryBy(words, func(w string) bool {
			return strings.Contains(hay, w)
		})
	})
}
