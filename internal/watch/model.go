package watch

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/elwarren/meshtastic-menubar/internal/device"
	"github.com/elwarren/meshtastic-menubar/internal/logger"
	"github.com/elwarren/meshtastic-menubar/internal/node"
	"github.com/elwarren/meshtastic-menubar/internal/ui"
)

// Key bindings.
const (
	KeyQuit    = "q"
	KeyQuitAlt = "ctrl+c"
	KeyRefresh = "r"
)

// DefaultTimeout bounds a single fetch when the config sets none.
const DefaultTimeout = 60 * time.Second

// SaveFunc persists a fetched table. Returned errors are shown but never
// stop the dashboard.
type SaveFunc func(ctx context.Context, at time.Time, t *node.Table) []error

// Options configures the dashboard.
type Options struct {
	Source   device.Source
	Interval time.Duration
	Timeout  time.Duration
	Save     SaveFunc
	// Now defaults to time.Now.
	Now func() time.Time
}

// Model is the Bubble Tea model for the node dashboard.
type Model struct {
	opts      Options
	indicator ui.FetchIndicator
	table     table.Model
	nodes     *node.Table
	rows      []ui.NodeRow
	lastErr   error
	saveErrs  []error
	fetching  bool
	width     int
	height    int
	quitting  bool
}

// tickMsg signals a periodic refresh.
type tickMsg time.Time

// fetchedMsg carries the outcome of one fetch.
type fetchedMsg struct {
	nodes    *node.Table
	err      error
	saveErrs []error
	at       time.Time
}

// NewModel creates a dashboard model.
func NewModel(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Minute
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return Model{
		opts:      opts,
		indicator: ui.NewFetchIndicator(),
		table:     ui.NodeTable(nil, 10),
	}
}

// Init triggers the first fetch and starts the refresh timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), func() tea.Msg { return tickMsg(m.opts.Now()) })
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case KeyQuit, KeyQuitAlt:
			m.quitting = true
			return m, tea.Quit
		case KeyRefresh:
			return m.startFetch()
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(m.tableHeight())

	case tickMsg:
		next, cmd := m.startFetch()
		return next, tea.Batch(cmd, m.tickCmd())

	case fetchedMsg:
		m.fetching = false
		m.lastErr = msg.err
		m.saveErrs = msg.saveErrs
		if msg.err == nil {
			m.nodes = msg.nodes
			m.rows = ui.NodeRows(msg.nodes, node.Order(msg.nodes), msg.at)
			cells := make([]table.Row, len(m.rows))
			for i, r := range m.rows {
				cells[i] = r.Cells()
			}
			m.table.SetRows(cells)
		}
		m.indicator.End(m.opts.Now(), msg.err, m.summary())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.indicator, cmd = m.indicator.Update(msg)
		return m, cmd
	}

	return m, nil
}

// startFetch kicks off a fetch unless one is already running.
func (m Model) startFetch() (Model, tea.Cmd) {
	if m.fetching {
		return m, nil
	}
	m.fetching = true
	spin := m.indicator.Begin(m.opts.Now())
	return m, tea.Batch(spin, m.fetchCmd())
}

func (m Model) fetchCmd() tea.Cmd {
	opts := m.opts
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
		defer cancel()

		at := opts.Now()
		nodes, err := opts.Source.FetchNodes(ctx)
		msg := fetchedMsg{nodes: nodes, err: err, at: at}
		if err == nil && opts.Save != nil {
			msg.saveErrs = opts.Save(ctx, at, nodes)
		}
		return msg
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) tableHeight() int {
	// title, indicator, blank, footer lines
	h := m.height - 6
	if h < 3 {
		h = 3
	}
	return h
}

// Nodes returns the most recently fetched table, or nil.
func (m Model) Nodes() *node.Table {
	return m.nodes
}

// Err returns the error from the most recent fetch.
func (m Model) Err() error {
	return m.lastErr
}

// Run shows the dashboard until the user quits.
func Run(opts Options) error {
	// Log lines written to stderr would tear the alt screen; save errors
	// are shown in the view instead.
	defer logger.SetOutput(io.Discard)()
	return startProgram(NewModel(opts))
}

// startProgram runs the dashboard on the terminal.
var startProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
