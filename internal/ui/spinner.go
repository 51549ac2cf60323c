package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

const spinnerInterval = 100 * time.Millisecond

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Spinner shows progress on a single line while the radio is queried.
// When the writer is not a terminal the animation is suppressed and only
// the final line is written, so piped output stays clean.
type Spinner struct {
	mu       sync.Mutex
	w        io.Writer
	label    string
	animate  bool
	frame    int
	start    time.Time
	stop     chan struct{}
	done     chan struct{}
	running  bool
	lastLine int
}

// NewSpinner returns a spinner writing to w.
func NewSpinner(w io.Writer, label string) *Spinner {
	return &Spinner{w: w, label: label, animate: IsTerminal(w)}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.start = time.Now()
	if !s.animate {
		s.mu.Unlock()
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.drawLocked()
	s.mu.Unlock()

	go s.loop()
}

func (s *Spinner) loop() {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.drawLocked()
			s.mu.Unlock()
		}
	}
}

func (s *Spinner) halt() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
}

// Success stops the spinner and prints a pass line with the elapsed time.
func (s *Spinner) Success(detail string) {
	s.finish(SymbolPass, ColorSuccess, detail)
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(detail string) {
	s.finish(SymbolFail, ColorError, detail)
}

func (s *Spinner) finish(symbol string, color lipgloss.Color, detail string) {
	s.halt()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()

	line := lipgloss.NewStyle().Foreground(color).Render(symbol) + " " + s.label
	if detail != "" {
		line += ": " + detail
	}
	muted := lipgloss.NewStyle().Foreground(ColorMuted)
	fmt.Fprintln(s.w, line+" "+muted.Render(formatDuration(time.Since(s.start))))
}

func (s *Spinner) drawLocked() {
	s.clearLocked()
	symbol := lipgloss.NewStyle().Foreground(ColorSecondary).Render(spinnerFrames[s.frame])
	line := symbol + " " + s.label + "..."
	fmt.Fprint(s.w, line)
	s.lastLine = lipgloss.Width(line)
}

func (s *Spinner) clearLocked() {
	if s.lastLine == 0 {
		return
	}
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.lastLine)+"\r")
	s.lastLine = 0
}

// formatDuration formats a duration for display (e.g., "0.3s", "1.2s").
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
