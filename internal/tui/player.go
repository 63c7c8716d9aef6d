package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"trailplay/internal/activity"
	"trailplay/internal/analysis"
	"trailplay/internal/colorscale"
	"trailplay/internal/config"
	"trailplay/internal/playback"
	"trailplay/internal/store"
)

// framePeriod is how often the player polls the engine while playing.
// It stays well under the fastest scaled tick (base 5 s at 16x is
// ~312 ms) so no step is rendered late.
const framePeriod = 50 * time.Millisecond

// PlayerModel is the activity playback screen model
type PlayerModel struct {
	store *store.Store
	cfg   *config.Config
	units Units

	activityID int64
	act        *activity.Activity
	engine     *playback.Engine
	efforts    map[float64]*analysis.BestEffort

	// gen guards the frame loop: every (re)start of playback bumps it,
	// and frames from an older generation are dropped, so a replaced
	// activity or a pause/resume never leaves two loops running.
	gen int

	metric colorscale.Metric

	viewport viewport.Model
	ready    bool
	width    int
	loading  bool
	err      error
}

// NewPlayerModel creates a player for one stored activity
func NewPlayerModel(st *store.Store, cfg *config.Config, activityID int64, width int) PlayerModel {
	return PlayerModel{
		store:      st,
		cfg:        cfg,
		units:      NewUnits(cfg.Display),
		activityID: activityID,
		metric:     colorscale.Speed,
		width:      width,
		loading:    true,
	}
}

// Init starts loading the activity
func (m PlayerModel) Init() tea.Cmd {
	return m.load
}

type playerLoadedMsg struct {
	act *activity.Activity
	err error
}

type frameMsg struct {
	gen int
}

func (m PlayerModel) load() tea.Msg {
	act, err := m.store.GetActivity(m.activityID)
	return playerLoadedMsg{act: act, err: err}
}

func (m PlayerModel) frameCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(framePeriod, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

// Update handles messages
func (m PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case playerLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.act = msg.act
		m.engine = playback.NewEngine(len(msg.act.Points))
		m.engine.SetBaseTick(m.cfg.BaseTick())
		m.efforts = analysis.FindBestEfforts(msg.act.Points)
		m.syncViewport()
		return m, nil

	case frameMsg:
		if msg.gen != m.gen || m.engine == nil {
			// Stale loop from before a pause, seek or reload.
			return m, nil
		}
		m.engine.Advance(time.Now())
		m.syncViewport()
		if m.engine.State() == playback.Playing {
			return m, m.frameCmd()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if !m.ready {
			// Reserve a line for the key help footer.
			m.viewport = viewport.New(msg.Width, msg.Height-2)
			// Default scroll keys collide with transport controls;
			// keep only the arrow and page keys.
			m.viewport.KeyMap = viewport.KeyMap{
				Up:       key.NewBinding(key.WithKeys("up")),
				Down:     key.NewBinding(key.WithKeys("down")),
				PageUp:   key.NewBinding(key.WithKeys("pgup")),
				PageDown: key.NewBinding(key.WithKeys("pgdown")),
			}
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 2
		}
		m.syncViewport()

	case tea.KeyMsg:
		if m.engine == nil {
			return m, nil
		}
		now := time.Now()
		switch msg.String() {
		case " ":
			m.engine.Toggle(now)
			if m.engine.State() == playback.Playing {
				m.gen++
				m.syncViewport()
				return m, m.frameCmd()
			}
		case "left":
			m.engine.SkipBack(time.Minute, now)
		case "right":
			m.engine.SkipForward(time.Minute, now)
		case "s", "+":
			m.engine.CycleSpeed()
		case "tab":
			m.metric = (m.metric + 1) % 3
		case "l":
			m.cycleLapHighlight()
		case "L":
			m.engine.ClearHighlight()
		case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
			m.engine.Seek(float64(msg.String()[0]-'0')*10, now)
		}
		m.syncViewport()
	}

	// Let the viewport handle scrolling keys.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// syncViewport re-renders the player content into the scroll region.
func (m *PlayerModel) syncViewport() {
	if m.ready && m.act != nil {
		m.viewport.SetContent(m.renderContent())
	}
}

// cycleLapHighlight highlights the next lap after the current highlight,
// wrapping back to none.
func (m *PlayerModel) cycleLapHighlight() {
	if m.act == nil || len(m.act.Laps) == 0 || len(m.act.Points) == 0 {
		return
	}

	next := 0
	if start, _, ok := m.engine.Highlight(); ok {
		for i, bounds := range m.lapBounds() {
			if bounds[0] == start {
				next = i + 1
				break
			}
		}
	}
	bounds := m.lapBounds()
	if next >= len(bounds) {
		m.engine.ClearHighlight()
		return
	}
	m.engine.HighlightSegment(bounds[next][0], bounds[next][1])
}

// lapBounds maps each lap to a point index range by cumulative duration.
func (m *PlayerModel) lapBounds() [][2]int {
	total := m.act.Summary.Duration
	if total <= 0 {
		return nil
	}
	last := len(m.act.Points) - 1

	bounds := make([][2]int, 0, len(m.act.Laps))
	var elapsed time.Duration
	for _, lap := range m.act.Laps {
		start := int(float64(elapsed) / float64(total) * float64(last))
		elapsed += lap.Duration
		end := int(float64(elapsed) / float64(total) * float64(last))
		if end > last {
			end = last
		}
		bounds = append(bounds, [2]int{start, end})
	}
	return bounds
}

// View renders the player screen
func (m PlayerModel) View() string {
	if m.loading {
		return statusStyle.Render("loading activity...")
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("error: %v", m.err))
	}
	if len(m.act.Points) == 0 {
		return statusStyle.Render("activity has no points")
	}

	footer := helpStyle.Render("space play/pause · ←/→ skip 1m · 0-9 seek · s speed · tab color · l laps · esc back")
	if !m.ready {
		return m.renderContent() + "\n" + footer
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m PlayerModel) renderContent() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.act.Name))
	b.WriteString("\n")
	b.WriteString(m.renderTransport())
	b.WriteString("\n")
	b.WriteString(m.renderProgressBar())
	b.WriteString("\n\n")
	b.WriteString(m.renderMetrics())
	b.WriteString("\n")
	b.WriteString(m.renderElevationChart())
	if chart := m.renderHRChart(); chart != "" {
		b.WriteString("\n")
		b.WriteString(chart)
	}
	if len(m.act.Laps) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderLaps())
	}
	if len(m.efforts) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderEfforts())
	}
	return b.String()
}

func (m PlayerModel) renderTransport() string {
	var state string
	switch m.engine.State() {
	case playback.Playing:
		state = playingStyle.Render("▶ playing")
	case playback.Paused:
		state = pausedStyle.Render("⏸ paused")
	default:
		state = stoppedStyle.Render("■ stopped")
	}

	p := m.currentPoint()
	position := formatClock(time.Duration(p.OffsetMs) * time.Millisecond)
	total := formatClock(m.act.Summary.Duration)

	return fmt.Sprintf("%s  %s / %s  %s  %s",
		state,
		metricValueStyle.Render(position),
		statusStyle.Render(total),
		statusStyle.Render(fmt.Sprintf("%gx", m.engine.Speed())),
		statusStyle.Render(metricName(m.metric)),
	)
}

// renderProgressBar draws the whole activity as one colored bar, each
// cell tinted by the selected metric, with the playback cursor inverted.
func (m PlayerModel) renderProgressBar() string {
	width := m.width - 4
	if width < 20 {
		width = 60
	}

	lo, hi := m.metricRange()
	cursorCell := int(m.engine.Progress() * float64(width-1))
	hlStart, hlEnd, highlighted := m.engine.Highlight()
	last := len(m.act.Points) - 1

	var b strings.Builder
	for cell := 0; cell < width; cell++ {
		idx := cell * last / (width - 1)
		hex := colorscale.HexFor(m.metricValue(&m.act.Points[idx]), lo, hi, m.metric)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
		if highlighted && (idx < hlStart || idx > hlEnd) {
			style = lipgloss.NewStyle().Foreground(mutedColor)
		}
		ch := "█"
		if cell == cursorCell {
			ch = "▮"
			style = style.Reverse(true)
		}
		b.WriteString(style.Render(ch))
	}
	return b.String()
}

func (m PlayerModel) renderMetrics() string {
	p := m.currentPoint()

	row := func(label, value string) string {
		return metricLabelStyle.Render(label) + metricValueStyle.Render(value) + "\n"
	}
	opt := func(v *float64, format func(float64) string) string {
		if v == nil {
			return "-"
		}
		return format(*v)
	}

	var b strings.Builder
	b.WriteString(row("Speed", opt(p.Speed, m.units.FormatSpeed)))
	hr := "-"
	if p.Heartrate != nil {
		hr = fmt.Sprintf("%d bpm", *p.Heartrate)
	}
	b.WriteString(row("Heart rate", hr))
	b.WriteString(row("Elevation", opt(p.Elevation, m.units.FormatElevation)))
	grade := "-"
	if p.Grade != nil {
		grade = fmt.Sprintf("%+.1f%%", *p.Grade)
	}
	b.WriteString(row("Grade", grade))
	b.WriteString(row("Distance", opt(p.Distance, m.units.FormatDistance)))
	cadence := "-"
	if p.Cadence != nil {
		cadence = fmt.Sprintf("%d spm", *p.Cadence)
	}
	b.WriteString(row("Cadence", cadence))
	b.WriteString(row("Temperature", opt(p.Temperature, m.units.FormatTemperature)))
	moving := "stopped"
	if p.Moving {
		moving = "moving"
	}
	b.WriteString(row("Status", moving))

	return cardStyle.Render(cardTitleStyle.Render("Now") + "\n" + strings.TrimRight(b.String(), "\n"))
}

func (m PlayerModel) renderElevationChart() string {
	var data []float64
	lastKnown := 0.0
	for i := range m.act.Points {
		if e := m.act.Points[i].Elevation; e != nil {
			lastKnown = m.units.elevationForChart(*e)
		}
		data = append(data, lastKnown)
	}
	if len(data) < 3 {
		return ""
	}

	// Downsample to the chart width so long activities stay readable.
	width := 60
	if len(data) > width {
		sampled := make([]float64, width)
		for i := range sampled {
			sampled[i] = data[i*(len(data)-1)/(width-1)]
		}
		data = sampled
	}

	chart := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(width),
	)
	return cardStyle.Render(cardTitleStyle.Render("Elevation") + "\n" + chart)
}

func (m PlayerModel) renderHRChart() string {
	var data []float64
	lastKnown := 0.0
	seen := false
	for i := range m.act.Points {
		if hr := m.act.Points[i].Heartrate; hr != nil {
			lastKnown = float64(*hr)
			seen = true
		}
		data = append(data, lastKnown)
	}
	if !seen || len(data) < 3 {
		return ""
	}

	width := 60
	if len(data) > width {
		sampled := make([]float64, width)
		for i := range sampled {
			sampled[i] = data[i*(len(data)-1)/(width-1)]
		}
		data = sampled
	}

	chart := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(width),
	)
	return cardStyle.Render(cardTitleStyle.Render("Heart rate") + "\n" + chart)
}

func (m PlayerModel) renderLaps() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-5s %-10s %-10s %-10s %s\n", "LAP", "TIME", "DISTANCE", "PACE", "HR"))
	for _, lap := range m.act.Laps {
		hr := "-"
		if lap.AvgHeartrate != nil {
			hr = fmt.Sprintf("%.0f", *lap.AvgHeartrate)
		}
		b.WriteString(fmt.Sprintf("%-5d %-10s %-10s %-10s %s\n",
			lap.Number,
			formatClock(lap.Duration),
			m.units.FormatDistance(lap.Distance),
			m.units.FormatPace(lap.Distance, lap.Duration.Seconds()),
			hr,
		))
	}
	return cardStyle.Render(cardTitleStyle.Render("Laps") + "\n" + strings.TrimRight(b.String(), "\n"))
}

func (m PlayerModel) renderEfforts() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-6s %-10s %s\n", "DIST", "TIME", "AVG HR"))
	for _, d := range analysis.EffortDistances {
		effort := m.efforts[d]
		if effort == nil {
			continue
		}
		hr := "-"
		if effort.AvgHeartrate > 0 {
			hr = fmt.Sprintf("%.0f", effort.AvgHeartrate)
		}
		b.WriteString(fmt.Sprintf("%-6s %-10s %s\n",
			analysis.EffortName(d),
			formatClock(time.Duration(effort.DurationMs)*time.Millisecond),
			hr,
		))
	}
	return cardStyle.Render(cardTitleStyle.Render("Best efforts") + "\n" + strings.TrimRight(b.String(), "\n"))
}

func (m PlayerModel) currentPoint() *activity.Point {
	idx := m.engine.Index()
	if idx > len(m.act.Points)-1 {
		idx = len(m.act.Points) - 1
	}
	return &m.act.Points[idx]
}

// metricValue extracts the selected metric from a point for coloring.
// Absent values come back NaN, which the scale maps to neutral gray.
func (m PlayerModel) metricValue(p *activity.Point) float64 {
	switch m.metric {
	case colorscale.Speed:
		return floatOrNaN(p.Speed)
	case colorscale.Elevation:
		return floatOrNaN(p.Elevation)
	case colorscale.Heartrate:
		if p.Heartrate == nil {
			return math.NaN()
		}
		return float64(*p.Heartrate)
	}
	return math.NaN()
}

// metricRange scans the activity once for the selected metric's min and
// max, the normalization bounds for the color scale.
func (m PlayerModel) metricRange() (lo, hi float64) {
	first := true
	for i := range m.act.Points {
		v := m.metricValue(&m.act.Points[i])
		if math.IsNaN(v) {
			continue
		}
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func metricName(m colorscale.Metric) string {
	switch m {
	case colorscale.Speed:
		return "speed"
	case colorscale.Elevation:
		return "elevation"
	case colorscale.Heartrate:
		return "heart rate"
	}
	return ""
}

func floatOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
