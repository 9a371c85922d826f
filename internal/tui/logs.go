package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/agbru/primefind/internal/format"
	"github.com/agbru/primefind/internal/orchestration"
)

// MaxLogEntries bounds the number of lines kept by the logs panel.
const MaxLogEntries = 5000

type logKind int

const (
	logInfo logKind = iota
	logSuccess
	logError
)

type logEntry struct {
	at   time.Time
	text string
	kind logKind
}

// LogsModel is the scrollable panel showing sink output and run events.
type LogsModel struct {
	entries []logEntry
	// offset counts lines scrolled up from the bottom; 0 follows new lines.
	offset int
	width  int
	height int
}

// NewLogsModel creates an empty logs panel.
func NewLogsModel() LogsModel {
	return LogsModel{}
}

// SetSize updates dimensions.
func (l *LogsModel) SetSize(w, h int) {
	l.width = w
	l.height = h
}

func (l *LogsModel) add(kind logKind, text string) {
	l.entries = append(l.entries, logEntry{at: time.Now(), text: text, kind: kind})
	if over := len(l.entries) - MaxLogEntries; over > 0 {
		l.entries = l.entries[over:]
	}
	if l.offset > 0 {
		l.offset++
	}
}

// AddExecutionConfig logs the run about to start.
func (l *LogsModel) AddExecutionConfig(upper, threads int, division, printMode string) {
	l.add(logInfo, fmt.Sprintf("Searching [1, %s] with %d worker(s), %s division, %s print",
		format.FormatInt(upper), threads, division, printMode))
}

// AddLine logs one line of sink output.
func (l *LogsModel) AddLine(line string) {
	l.add(logInfo, line)
}

// AddResult logs the summary of a finalized run.
func (l *LogsModel) AddResult(res *orchestration.RunResult) {
	l.add(logSuccess, fmt.Sprintf("Run finalized: %s primes in %s",
		format.FormatInt(len(res.Primes)), format.FormatExecutionDuration(res.Duration)))
}

// AddError logs a failed run.
func (l *LogsModel) AddError(err error) {
	l.add(logError, "Run aborted: "+err.Error())
}

// Len returns the number of stored lines.
func (l LogsModel) Len() int { return len(l.entries) }

// Scroll moves the view by delta lines; positive values scroll up.
func (l *LogsModel) Scroll(delta int) {
	visible := max(l.height-2, 1)
	l.offset = min(max(l.offset+delta, 0), max(len(l.entries)-visible, 0))
}

// PageSize returns the number of visible lines.
func (l LogsModel) PageSize() int { return max(l.height-2, 1) }

// renderToHeight renders the panel with h total rows including borders.
func (l LogsModel) renderToHeight(h int) string {
	visible := max(h-2, 1)
	end := len(l.entries) - l.offset
	start := max(end-visible, 0)

	lines := make([]string, 0, visible)
	textWidth := max(l.width-13, 1)
	for _, e := range l.entries[start:end] {
		text := ansi.Truncate(e.text, textWidth, "…")
		style := logLineStyle
		switch e.kind {
		case logSuccess:
			style = logSuccessStyle
		case logError:
			style = logErrorStyle
		}
		lines = append(lines, logTimeStyle.Render(e.at.Format("15:04:05"))+" "+style.Render(text))
	}

	return panelStyle.
		Width(max(l.width-2, 0)).
		Height(visible).
		Render(strings.Join(lines, "\n"))
}
