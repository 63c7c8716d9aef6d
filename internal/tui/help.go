package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	sections := []struct {
		title string
		keys  [][2]string
	}{
		{
			"Library",
			[][2]string{
				{"↑/↓, k/j", "move selection"},
				{"enter", "play activity"},
				{"d", "delete activity"},
				{"r", "refresh"},
				{"q", "quit"},
			},
		},
		{
			"Player",
			[][2]string{
				{"space", "play / pause"},
				{"←/→", "skip one minute back / forward"},
				{"0-9", "seek to 0% .. 90%"},
				{"s, +", "cycle playback speed"},
				{"tab", "cycle color metric (speed, elevation, heart rate)"},
				{"l", "highlight next lap"},
				{"L", "clear lap highlight"},
				{"esc, q", "back to library"},
			},
		},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Help"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString(cardTitleStyle.Render(s.title))
		b.WriteString("\n")
		for _, k := range s.keys {
			b.WriteString(metricLabelStyle.Render(k[0]))
			b.WriteString(metricValueStyle.Render(k[1]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("esc to go back"))
	return b.String()
}
