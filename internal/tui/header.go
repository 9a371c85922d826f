package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/primefind/internal/format"
	"github.com/agbru/primefind/internal/orchestration"
)

// HeaderModel renders the top bar: title, version, run ID, state and elapsed
// time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	runID     string
	state     orchestration.State
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
	}
}

// SetState records the orchestrator state. Terminal states freeze the timer.
func (h *HeaderModel) SetState(runID string, s orchestration.State) {
	h.runID = runID
	h.state = s
	if s.Terminal() && h.endTime.IsZero() {
		h.endTime = time.Now()
	}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since the header was created, frozen once the
// run reaches a terminal state.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "Primefind Monitor"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := dimStyle.Render(" | ")

	parts := []string{titleStyle.Render(titleText)}
	if h.runID != "" {
		parts = append(parts, dimStyle.Render("run "+shortID(h.runID)), h.state.String())
	}
	parts = append(parts, elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed()))))

	row := strings.Join(parts, pipe)
	gap := max(h.width-2-lipgloss.Width(row), 0)
	return headerStyle.Width(h.width).Render(row + strings.Repeat(" ", gap))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FooterModel renders the key help and the run status.
type FooterModel struct {
	keymap KeyMap
	paused bool
	done   bool
	failed bool
	width  int
}

// NewFooterModel creates a footer for keymap.
func NewFooterModel(keymap KeyMap) FooterModel {
	return FooterModel{keymap: keymap}
}

func (f *FooterModel) SetPaused(p bool) { f.paused = p }
func (f *FooterModel) SetDone(d bool)   { f.done = d }
func (f *FooterModel) SetError(e bool)  { f.failed = e }
func (f *FooterModel) SetWidth(w int)   { f.width = w }

// Status returns the rendered status label.
func (f FooterModel) Status() string {
	switch {
	case f.failed:
		return statusErrorStyle.Render("ABORTED")
	case f.done:
		return statusDoneStyle.Render("DONE")
	case f.paused:
		return statusPausedStyle.Render("PAUSED")
	default:
		return statusRunningStyle.Render("RUNNING")
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	help := make([]string, 0, 4)
	for _, b := range f.keymap.ShortHelp() {
		h := b.Help()
		help = append(help, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	left := " " + strings.Join(help, "  ")
	status := f.Status() + " "
	gap := max(f.width-lipgloss.Width(left)-lipgloss.Width(status), 1)
	return left + strings.Repeat(" ", gap) + status
}
