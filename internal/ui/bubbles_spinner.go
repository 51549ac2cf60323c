package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FetchFrames matches the standalone spinner's animation.
var FetchFrames = spinner.Spinner{
	Frames: spinnerFrames,
	FPS:    spinnerInterval,
}

// FetchState is the state of the most recent fetch shown by FetchIndicator.
type FetchState int

const (
	FetchIdle FetchState = iota
	FetchRunning
	FetchOK
	FetchFailed
)

// FetchIndicator is a Bubble Tea component showing whether a node fetch is in
// flight and how the last one ended. It is meant to be embedded in a larger
// model.
type FetchIndicator struct {
	spinner  spinner.Model
	State    FetchState
	Started  time.Time
	Finished time.Time
	Detail   string
}

// NewFetchIndicator creates an idle indicator.
func NewFetchIndicator() FetchIndicator {
	sp := spinner.New()
	sp.Spinner = FetchFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorSecondary)
	return FetchIndicator{spinner: sp}
}

// Begin marks a fetch as running and returns the tick command.
func (f *FetchIndicator) Begin(now time.Time) tea.Cmd {
	f.State = FetchRunning
	f.Started = now
	f.Detail = ""
	return f.spinner.Tick
}

// End records the outcome of the running fetch.
func (f *FetchIndicator) End(now time.Time, err error, detail string) {
	f.Finished = now
	f.Detail = detail
	if err != nil {
		f.State = FetchFailed
		return
	}
	f.State = FetchOK
}

// Update advances the animation while a fetch is running.
func (f FetchIndicator) Update(msg tea.Msg) (FetchIndicator, tea.Cmd) {
	if f.State != FetchRunning {
		return f, nil
	}
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		f.spinner, cmd = f.spinner.Update(tick)
		return f, cmd
	}
	return f, nil
}

// View renders the indicator.
func (f FetchIndicator) View() string {
	muted := lipgloss.NewStyle().Foreground(ColorMuted)

	switch f.State {
	case FetchRunning:
		return f.spinner.View() + " Asking the radio..."
	case FetchOK, FetchFailed:
		symbol := lipgloss.NewStyle().Foreground(ColorSuccess).Render(SymbolPass)
		if f.State == FetchFailed {
			symbol = lipgloss.NewStyle().Foreground(ColorError).Render(SymbolFail)
		}
		line := symbol + " " + f.Detail
		took := f.Finished.Sub(f.Started)
		return line + " " + muted.Render(formatDuration(took)+" at "+f.Finished.Format("15:04:05"))
	default:
		return muted.Render(SymbolPending + " Waiting")
	}
}
