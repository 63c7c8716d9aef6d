package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"trailplay/internal/config"
	"trailplay/internal/store"
)

// Screen identifiers
type Screen int

const (
	ScreenLibrary Screen = iota
	ScreenPlayer
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	library LibraryModel
	player  PlayerModel
	help    HelpModel

	// Dependencies
	store *store.Store
	cfg   *config.Config

	// Window dimensions
	width  int
	height int
}

// NewApp creates a new App with all dependencies
func NewApp(st *store.Store, cfg *config.Config) *App {
	return &App{
		screen:  ScreenLibrary,
		store:   st,
		cfg:     cfg,
		library: NewLibraryModel(st, cfg),
		help:    NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.library.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			// In the player q closes the activity, not the app.
			if a.screen == ScreenPlayer {
				a.screen = ScreenLibrary
				return a, a.library.Init()
			}
			if a.screen == ScreenHelp {
				a.screen = a.prevScreen
				return a, nil
			}
			return a, tea.Quit
		case "?":
			if a.screen != ScreenHelp {
				a.prevScreen = a.screen
				a.screen = ScreenHelp
			}
			return a, nil
		case "esc":
			switch a.screen {
			case ScreenHelp:
				a.screen = a.prevScreen
				return a, nil
			case ScreenPlayer:
				a.screen = ScreenLibrary
				return a, a.library.Init()
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case OpenPlayerMsg:
		a.player = NewPlayerModel(a.store, a.cfg, msg.ActivityID, a.width)
		a.screen = ScreenPlayer
		return a, a.player.Init()
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLibrary:
		var m tea.Model
		m, cmd = a.library.Update(msg)
		a.library = m.(LibraryModel)
	case ScreenPlayer:
		var m tea.Model
		m, cmd = a.player.Update(msg)
		a.player = m.(PlayerModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}
	return a, cmd
}

// View renders the current screen
func (a *App) View() string {
	switch a.screen {
	case ScreenPlayer:
		return a.player.View()
	case ScreenHelp:
		return a.help.View()
	}
	return a.library.View()
}

// OpenPlayerMsg asks the app to open an activity in the player.
type OpenPlayerMsg struct {
	ActivityID int64
}
