package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/reel/internal/core"
)

// PickerModel is the bubbletea model for the source picker. Typing filters
// the list; tab marks entries so several can be queued at once.
type PickerModel struct {
	input    textinput.Model
	sources  []core.Source
	filtered []core.Source
	marked   map[string]bool
	cursor   int
	chosen   []core.Source
	width    int
	height   int
}

// Styles for the source picker
var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	pickerItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	pickerSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("237"))

	pickerMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	pickerSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))
)

// NewPickerModel creates a picker over sources.
func NewPickerModel(sources []core.Source) PickerModel {
	ti := textinput.New()
	ti.Placeholder = "Filter videos..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	return PickerModel{
		input:    ti,
		sources:  sources,
		filtered: sources,
		marked:   make(map[string]bool),
		width:    80,
		height:   20,
	}
}

// Init initializes the model.
func (m PickerModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.chosen = nil
			return m, tea.Quit

		case "enter":
			m.chosen = m.selection()
			if len(m.chosen) > 0 {
				return m, tea.Quit
			}
			return m, nil

		case "tab":
			if m.cursor < len(m.filtered) {
				uri := m.filtered[m.cursor].URI
				m.marked[uri] = !m.marked[uri]
				if m.cursor < len(m.filtered)-1 {
					m.cursor++
				}
			}
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil

		case "home":
			m.cursor = 0
			return m, nil

		case "end":
			m.cursor = max(len(m.filtered)-1, 0)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)
		return m, nil
	}

	var cmd tea.Cmd
	prev := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.filtered = FilterSources(m.sources, m.input.Value())
		m.cursor = 0
	}
	return m, cmd
}

// selection returns the marked sources in list order, or the source under
// the cursor when nothing is marked.
func (m PickerModel) selection() []core.Source {
	var out []core.Source
	for _, s := range m.sources {
		if m.marked[s.URI] {
			out = append(out, s)
		}
	}
	if len(out) > 0 {
		return out
	}
	if m.cursor < len(m.filtered) {
		return []core.Source{m.filtered[m.cursor]}
	}
	return nil
}

// View renders the model.
func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(pickerTitleStyle.Render("🎬 Select Video"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case len(m.sources) == 0:
		b.WriteString(pickerSubtitleStyle.Render("No videos found"))
		b.WriteString("\n")
	case len(m.filtered) == 0:
		b.WriteString(pickerSubtitleStyle.Render("No matches"))
		b.WriteString("\n")
	default:
		maxRows := max(m.height-8, 5)
		start := 0
		if m.cursor >= maxRows {
			start = m.cursor - maxRows + 1
		}
		for i := start; i < len(m.filtered) && i < start+maxRows; i++ {
			s := m.filtered[i]
			mark := "  "
			if m.marked[s.URI] {
				mark = pickerMarkStyle.Render("✓ ")
			}
			line := mark + s.Title + " " + pickerSubtitleStyle.Render(s.URI)
			if i == m.cursor {
				b.WriteString(pickerSelectedStyle.Render("▸ " + line))
			} else {
				b.WriteString(pickerItemStyle.Render("  " + line))
			}
			b.WriteString("\n")
		}
		if rest := len(m.filtered) - start - maxRows; rest > 0 {
			b.WriteString(pickerSubtitleStyle.Render(fmt.Sprintf("  ...and %d more", rest)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(pickerSubtitleStyle.Render("↑/↓ navigate • tab mark • enter play • esc quit"))

	return b.String()
}

// Chosen returns the sources picked when the model quit, or nil if cancelled.
func (m PickerModel) Chosen() []core.Source {
	return m.chosen
}

// RunPicker runs the source picker and returns the chosen sources.
func RunPicker(sources []core.Source) ([]core.Source, error) {
	model := NewPickerModel(sources)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(PickerModel).Chosen(), nil
}
