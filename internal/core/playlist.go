package core

// Playlist is an ordered list of sources with a current position.
type Playlist struct {
	Sources      []Source `json:"sources"`
	CurrentIndex int      `json:"current_index"`
}

// Current returns the selected source, or nil if the playlist is empty.
func (p *Playlist) Current() *Source {
	if p == nil || len(p.Sources) == 0 || p.CurrentIndex < 0 || p.CurrentIndex >= len(p.Sources) {
		return nil
	}
	return &p.Sources[p.CurrentIndex]
}

// Upcoming returns sources after the current position.
func (p *Playlist) Upcoming() []Source {
	if p == nil || len(p.Sources) == 0 || p.CurrentIndex < 0 || p.CurrentIndex >= len(p.Sources)-1 {
		return nil
	}
	return p.Sources[p.CurrentIndex+1:]
}

// Select moves to index i. Out of range indexes are rejected.
func (p *Playlist) Select(i int) bool {
	if p == nil || i < 0 || i >= len(p.Sources) || i == p.CurrentIndex {
		return false
	}
	p.CurrentIndex = i
	return true
}

// Len returns the number of sources.
func (p *Playlist) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Sources)
}

// IsEmpty returns true if the playlist has no sources.
func (p *Playlist) IsEmpty() bool {
	return p.Len() == 0
}
