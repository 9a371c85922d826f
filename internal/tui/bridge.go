package tui

import (
	"bytes"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/agbru/primefind/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program sender
}

// sender is the part of *tea.Program used by the bridge.
type sender interface {
	Send(msg tea.Msg)
}

// SetProgram sets the program reference (thread-safe).
func (r *programRef) SetProgram(p sender) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
// It is a no-op until SetProgram has been called.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter by
// forwarding aggregated updates as bubbletea messages.
type TUIProgressReporter struct {
	ref *programRef
}

// Verify interface compliance.
var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains the progress channel and sends PlanMsg, one
// ProgressMsg per update and a final ProgressDoneMsg.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, plan orchestration.RunPlan, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(plan)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	t.ref.Send(PlanMsg{Plan: plan})
	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{
			Worker:      ap.Worker,
			Examined:    ap.Examined,
			Fraction:    ap.Fraction,
			WorkersDone: ap.WorkersDone,
			ETA:         ap.ETA,
		})
	}
	t.ref.Send(ProgressDoneMsg{})
}

// sinkWriter turns sink output into SinkLineMsg, one per complete line.
// Colour sequences are stripped; the dashboard applies its own styles.
type sinkWriter struct {
	ref *programRef

	mu      sync.Mutex
	pending []byte
}

func (w *sinkWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		w.ref.Send(SinkLineMsg{Line: ansi.Strip(string(w.pending[:i]))})
		w.pending = w.pending[i+1:]
	}
	return len(p), nil
}

// stateObserver forwards orchestrator transitions as StateMsg.
func (r *programRef) stateObserver(runID string, s orchestration.State) {
	r.Send(StateMsg{RunID: runID, State: s})
}
