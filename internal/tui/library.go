package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"trailplay/internal/config"
	"trailplay/internal/store"
)

// LibraryModel is the activity library screen model
type LibraryModel struct {
	store      *store.Store
	units      Units
	activities []store.ActivityRow
	cursor     int
	loading    bool
	err        error
	status     string
}

// NewLibraryModel creates a new library model
func NewLibraryModel(st *store.Store, cfg *config.Config) LibraryModel {
	return LibraryModel{
		store:   st,
		units:   NewUnits(cfg.Display),
		loading: true,
	}
}

// Init initializes the library screen
func (m LibraryModel) Init() tea.Cmd {
	return m.load
}

type libraryLoadedMsg struct {
	activities []store.ActivityRow
	err        error
}

type activityDeletedMsg struct {
	err error
}

func (m LibraryModel) load() tea.Msg {
	activities, err := m.store.ListActivities()
	return libraryLoadedMsg{activities: activities, err: err}
}

// Update handles messages
func (m LibraryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case libraryLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.activities = msg.activities
		if m.cursor >= len(m.activities) {
			m.cursor = len(m.activities) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}

	case activityDeletedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("delete failed: %v", msg.err)
			return m, nil
		}
		m.status = "activity deleted"
		m.loading = true
		return m, m.load

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.activities)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			return m, m.load
		case "d":
			if len(m.activities) > 0 {
				id := m.activities[m.cursor].ID
				st := m.store
				return m, func() tea.Msg {
					return activityDeletedMsg{err: st.DeleteActivity(id)}
				}
			}
		case "enter":
			if len(m.activities) > 0 {
				id := m.activities[m.cursor].ID
				return m, func() tea.Msg {
					return OpenPlayerMsg{ActivityID: id}
				}
			}
		}
	}
	return m, nil
}

// View renders the library screen
func (m LibraryModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("trailplay"))
	b.WriteString("\n")

	if m.loading {
		b.WriteString(statusStyle.Render("loading activities..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		return b.String()
	}
	if len(m.activities) == 0 {
		b.WriteString(statusStyle.Render("no activities yet; ingest one with: trailplay <file.json|file.gpx|file.fit>"))
		return b.String()
	}

	header := fmt.Sprintf("  %-30s %-8s %-12s %-10s %s", "NAME", "SOURCE", "DATE", "DISTANCE", "DURATION")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, a := range m.activities {
		name := a.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		row := fmt.Sprintf("  %-30s %-8s %-12s %-10s %s",
			name,
			a.Source,
			a.StartTime.Format("2006-01-02"),
			m.units.FormatDistance(a.Distance),
			formatClock(a.Duration),
		)
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(normalRowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	b.WriteString(helpStyle.Render("\n↑/↓ select · enter play · d delete · r refresh · ? help · q quit"))
	return b.String()
}
