package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/daviddao/lockscope/internal/config"
	"github.com/daviddao/lockscope/internal/datasource"
	"github.com/daviddao/lockscope/internal/layout"
	"github.com/daviddao/lockscope/internal/protocol"
	"github.com/daviddao/lockscope/internal/scene"
	"github.com/daviddao/lockscope/internal/snapshot"
	"github.com/daviddao/lockscope/internal/store"
	"github.com/daviddao/lockscope/internal/viewport"
)

// chromeLines is the title bar plus the status bar.
const chromeLines = 2

// panFraction is the share of the canvas width one pan key moves.
const panFraction = 10

// --- Messages ---

type traceChangedMsg struct{}

type traceLoadedMsg struct {
	entries []protocol.Entry
	path    string
	err     error
}

type tickMsg struct{}

// --- Key bindings ---

type keyMap struct {
	Quit    key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Home    key.Binding
	Jump    key.Binding
	Reload  key.Binding
	Help    key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h/left", "earlier")),
	Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l/right", "later")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "row up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "row down")),
	Home:    key.NewBinding(key.WithKeys("0", "home"), key.WithHelp("0", "fit all")),
	Jump:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "jump to time")),
	Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Left, k.Right, k.Down, k.Up, k.Home, k.Jump, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ZoomIn, k.ZoomOut, k.Home, k.Jump},
		{k.Left, k.Right, k.Up, k.Down},
		{k.Reload, k.Help, k.Quit},
	}
}

// --- Model ---

type uiModel struct {
	store     *store.Store
	watcher   *datasource.Watcher
	memo      *layout.Memo
	tracePath string

	cfg     config.Config
	theme   scene.Theme
	metrics scene.Metrics
	log     zerolog.Logger

	groups  []layout.Group
	snap    *snapshot.Snapshot
	vp      viewport.Transform
	maxRows int
	laidOut bool

	width  int
	height int

	dragging     bool
	dragX, dragY int

	prompt    textinput.Model
	prompting bool

	help     help.Model
	showHelp bool

	notice   string
	loadErr  error
	lastLoad time.Time
}

func newModel(s *store.Store, w *datasource.Watcher, cfg config.Config, theme scene.Theme, log zerolog.Logger, tracePath string) uiModel {
	ti := textinput.New()
	ti.Prompt = "jump to time: "
	ti.Placeholder = "e.g. 1500"
	ti.CharLimit = 32

	m := uiModel{
		store:     s,
		watcher:   w,
		memo:      &layout.Memo{MaxVisible: cfg.MaxVisible},
		tracePath: tracePath,
		cfg:       cfg,
		theme:     theme,
		metrics:   cfg.Metrics(),
		log:       log,
		vp:        viewport.New(1, 0, viewport.Bounds{Begin: 0, End: 1}, cfg.ViewportOptions()),
		prompt:    ti,
		help:      help.New(),
		lastLoad:  time.Now(),
	}
	m.snap = snapshot.Build(s, s.Source(), nil, 1)
	return m
}

func (m uiModel) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m uiModel) canvasHeight() int {
	return max(0, m.height-chromeLines)
}

// relayout regroups the store for the current canvas and refits the
// viewport. A view showing the whole recording keeps showing all of it.
func (m *uiModel) relayout() {
	if m.width == 0 {
		return
	}
	fitted := !m.laidOut || m.vp.ScaleX <= m.vp.FitScale()

	h := m.canvasHeight()
	m.maxRows = layout.MaxRows(h, m.cfg.RowHeight)
	m.groups = m.memo.Groups(m.store, m.maxRows)
	m.vp.Resize(float64(m.width), float64(h))
	m.vp.SetBounds(layout.RecordingBounds(m.groups, m.vp.Width))
	if fitted {
		y := m.vp.Y
		m.vp.Home()
		m.vp.Y = y
	}
	m.snap = snapshot.Build(m.store, m.store.Source(), m.groups, m.vp.Width)
	m.laidOut = true
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		m.notice = ""

		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.ZoomIn):
			m.vp.Zoom(m.vp.Width/2, 1)

		case key.Matches(msg, keys.ZoomOut):
			m.vp.Zoom(m.vp.Width/2, -1)

		case key.Matches(msg, keys.Left):
			m.vp.Pan(m.vp.Width/panFraction, 0)

		case key.Matches(msg, keys.Right):
			m.vp.Pan(-m.vp.Width/panFraction, 0)

		case key.Matches(msg, keys.Up):
			m.vp.Scroll(-m.metrics.RowHeight)

		case key.Matches(msg, keys.Down):
			m.vp.Scroll(m.metrics.RowHeight)

		case key.Matches(msg, keys.Home):
			m.vp.Home()

		case key.Matches(msg, keys.Jump):
			m.prompting = true
			m.prompt.SetValue("")
			return m, m.prompt.Focus()

		case key.Matches(msg, keys.Reload):
			return m, m.loadTrace()

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.prompt.Width = max(0, msg.Width-len(m.prompt.Prompt)-1)
		m.relayout()

	case traceChangedMsg:
		m.log.Debug().Str("trace", m.tracePath).Msg("reload signalled")
		return m, m.loadTrace()

	case traceLoadedMsg:
		if msg.err != nil {
			m.loadErr = msg.err
			m.log.Warn().Err(msg.err).Str("trace", msg.path).Msg("trace rejected")
			return m, nil
		}
		gen := m.store.Replace(msg.entries, msg.path)
		m.loadErr = nil
		m.lastLoad = time.Now()
		m.relayout()
		m.log.Info().
			Str("trace", msg.path).
			Uint64("generation", gen).
			Int("entries", m.store.Len()).
			Int("groups", len(m.groups)).
			Msg("trace loaded")

	case tickMsg:
		return m, tickEvery()
	}

	return m, nil
}

func (m uiModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompting = false
		m.prompt.Blur()
		return m, nil
	case tea.KeyEnter:
		m.prompting = false
		m.prompt.Blur()
		raw := strings.TrimSpace(m.prompt.Value())
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			m.notice = fmt.Sprintf("not a time: %q", raw)
			return m, nil
		}
		m.vp.JumpTo(t)
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handleMouse zooms on the wheel and pans on left-drag. Rows are shifted by
// one for the title bar.
func (m *uiModel) handleMouse(msg tea.MouseMsg) {
	x, y := msg.X, msg.Y-1
	switch msg.Action {
	case tea.MouseActionPress:
		if y < 0 || y >= m.canvasHeight() {
			return
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.vp.Zoom(float64(x), 1)
		case tea.MouseButtonWheelDown:
			m.vp.Zoom(float64(x), -1)
		case tea.MouseButtonLeft:
			m.dragging = true
			m.dragX, m.dragY = x, y
		}
	case tea.MouseActionMotion:
		if !m.dragging {
			return
		}
		m.vp.Pan(float64(x-m.dragX), float64(y-m.dragY))
		m.dragX, m.dragY = x, y
	case tea.MouseActionRelease:
		m.dragging = false
	}
}

func (m uiModel) loadTrace() tea.Cmd {
	path := m.tracePath
	return func() tea.Msg {
		entries, err := datasource.Load(path)
		return traceLoadedMsg{entries: entries, path: path, err: err}
	}
}

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F08080")).
			Background(lipgloss.Color("#1E1E2E")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F08080")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#1E1E2E"))
)

// --- View rendering ---

func (m uiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(ansi.Truncate(m.renderTitleBar(), m.width, "…"))
	b.WriteRune('\n')
	if h := m.canvasHeight(); h > 0 {
		b.WriteString(m.renderCanvas(h))
		b.WriteRune('\n')
	}

	switch {
	case m.prompting:
		b.WriteString(m.prompt.View())
	case m.showHelp:
		b.WriteString(m.help.View(keys))
	default:
		b.WriteString(m.renderStatusBar())
	}
	return b.String()
}

func (m uiModel) renderCanvas(height int) string {
	vp := m.vp
	visible := m.memo.Visible(&vp)
	cmds := scene.Build(scene.Frame{
		View:    &vp,
		Groups:  visible,
		Grid:    vp.Grid(),
		MaxRows: m.maxRows,
		Theme:   m.theme,
		Metrics: m.metrics,
	})
	c := newCanvas(m.width, height)
	c.draw(cmds)
	return c.String()
}

func (m uiModel) renderTitleBar() string {
	title := titleStyle.Render("lockscope")
	name := dimStyle.Render(filepath.Base(m.tracePath))
	stats := fmt.Sprintf("%s entries | %s actors | %d groups",
		humanize.Comma(int64(m.snap.Entries)),
		humanize.Comma(int64(m.snap.Actors)),
		m.snap.Groups,
	)
	if m.snap.Warnings > 0 {
		stats += " | " + warnStyle.Render(fmt.Sprintf("%d deadlocked", m.snap.Warnings))
	}
	left := title + " " + name
	gap := strings.Repeat(" ", max(1, m.width-lipgloss.Width(left)-lipgloss.Width(stats)))
	return left + gap + stats
}

func (m uiModel) renderStatusBar() string {
	begin, end := m.vp.Window()
	left := fmt.Sprintf(" t %.0f..%.0f  x%.1f  grid %s",
		begin, end,
		m.vp.ScaleX/m.vp.FitScale(),
		humanize.Comma(int64(m.vp.GridInterval())),
	)
	if m.notice != "" {
		left += "  " + m.notice
	}

	var right string
	if m.loadErr != nil {
		right = errorStyle.Render("reload failed: "+m.loadErr.Error()) + " "
	} else {
		right = fmt.Sprintf("loaded %s ago | ?: help ", time.Since(m.lastLoad).Truncate(time.Second))
	}
	gap := strings.Repeat(" ", max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right)))
	return ansi.Truncate(statusBarStyle.Render(left+gap+right), m.width, "…")
}
