package tui

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	apperrors "github.com/agbru/primefind/internal/errors"
	"github.com/agbru/primefind/internal/orchestration"
	"github.com/agbru/primefind/internal/partition"
	"github.com/agbru/primefind/internal/sink"
	"github.com/agbru/primefind/internal/ui"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	ui.SetCurrentTheme(ui.NoColorTheme)
	initTUIStyles()
	os.Exit(m.Run())
}

func newTestModel() Model {
	m := NewModel(context.Background(), orchestration.RunConfig{
		UpperLimit: 30, Threads: 2, Division: partition.Queue, Print: sink.Immediate,
	}, "v1.0.0")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_InitialView(t *testing.T) {
	m := NewModel(context.Background(), orchestration.RunConfig{UpperLimit: 10, Threads: 1}, "dev")
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() before sizing = %q", got)
	}
	if m.logs.Len() != 1 {
		t.Errorf("expected the execution config to be logged, got %d lines", m.logs.Len())
	}

	m = newTestModel()
	view := m.View()
	for _, want := range []string{"Primefind Monitor v1.0.0", "Searching [1, 30] with 2 worker(s)", "RUNNING"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestModel_SinkLinesCountPrimes(t *testing.T) {
	m := newTestModel()
	m = update(t, m, SinkLineMsg{Line: "[IMMEDIATE] Worker 0 found prime: 2 at now"})
	m = update(t, m, SinkLineMsg{Line: "[IMMEDIATE] Worker 1 found prime: 3 at now"})
	m = update(t, m, SinkLineMsg{Line: "unrelated"})
	if m.primes != 2 || m.metrics.primes != 2 {
		t.Errorf("primes = %d / %d, want 2", m.primes, m.metrics.primes)
	}
	if m.logs.Len() != 4 {
		t.Errorf("logs = %d lines, want 4", m.logs.Len())
	}
}

func TestModel_ProgressIgnoredWhilePaused(t *testing.T) {
	m := newTestModel()
	m = update(t, m, PlanMsg{Plan: orchestration.RunPlan{Workers: 2, Candidates: 29}})
	m = update(t, m, ProgressMsg{Examined: 10, Fraction: 10.0 / 29})
	if m.metrics.examined != 10 {
		t.Fatalf("examined = %d, want 10", m.metrics.examined)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if !m.paused {
		t.Fatal("p should pause")
	}
	m = update(t, m, ProgressMsg{Examined: 20})
	if m.metrics.examined != 10 {
		t.Errorf("paused model applied progress: %d", m.metrics.examined)
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("footer should show PAUSED")
	}
}

func TestModel_RunComplete(t *testing.T) {
	m := newTestModel()
	m = update(t, m, PlanMsg{Plan: orchestration.RunPlan{Workers: 2, Candidates: 29}})
	m = update(t, m, StateMsg{RunID: "0123456789", State: orchestration.StateFinalized})
	m = update(t, m, RunCompleteMsg{Result: &orchestration.RunResult{
		Primes:   []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29},
		Duration: time.Millisecond,
	}})

	if !m.done || m.exitCode != apperrors.ExitSuccess || m.result == nil {
		t.Fatalf("done=%v exit=%d result=%v", m.done, m.exitCode, m.result)
	}
	if m.metrics.fraction != 1 || m.metrics.workersDone != 2 || m.metrics.primes != 10 {
		t.Errorf("metrics not completed: %+v", m.metrics)
	}
	view := m.View()
	for _, want := range []string{"DONE", "run 01234567 | finalized", "Run finalized: 10 primes"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}

	// Sampling stops once the run is over.
	if _, cmd := m.Update(TickMsg(time.Now())); cmd != nil {
		t.Error("tick after completion should not schedule more work")
	}
}

func TestModel_RunFailure(t *testing.T) {
	m := newTestModel()
	err := apperrors.WorkerError{Worker: 1, Candidate: 17, Cause: errors.New("boom")}
	m = update(t, m, RunCompleteMsg{Err: err, ExitCode: apperrors.ExitCodeFor(err)})

	if m.exitCode != apperrors.ExitErrorGeneric || m.result != nil {
		t.Errorf("exit=%d result=%v", m.exitCode, m.result)
	}
	view := m.View()
	if !strings.Contains(view, "ABORTED") || !strings.Contains(view, "Run aborted") {
		t.Error("view should report the aborted run")
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestModel_QuitBeforeCompletion(t *testing.T) {
	m := newTestModel()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
	fm := next.(Model)
	if fm.result != nil {
		t.Error("no result expected before RunCompleteMsg")
	}
	if fm.exitCode != apperrors.ExitInterrupted {
		t.Errorf("exitCode = %d, want %d", fm.exitCode, apperrors.ExitInterrupted)
	}

	fm = update(t, fm, RunCompleteMsg{Result: &orchestration.RunResult{}, ExitCode: apperrors.ExitSuccess})
	if fm.exitCode != apperrors.ExitSuccess {
		t.Errorf("exitCode after completion = %d, want %d", fm.exitCode, apperrors.ExitSuccess)
	}
}

func TestModel_SamplingMessages(t *testing.T) {
	m := newTestModel()
	m = update(t, m, MemStatsMsg{Alloc: 2048, HeapSys: 4096, NumGC: 3, NumGoroutine: 7})
	m = update(t, m, SysStatsMsg{CPUPercent: 40, MemPercent: 60})
	if m.metrics.alloc != 2048 || m.metrics.numGoroutine != 7 {
		t.Errorf("mem stats not applied: %+v", m.metrics)
	}
	if m.metrics.cpu.Last() != 40 || m.metrics.mem.Last() != 60 {
		t.Error("sys stats not recorded")
	}
	if _, cmd := m.Update(TickMsg(time.Now())); cmd == nil {
		t.Error("tick during a run should schedule sampling")
	}
}

func TestStartRunCmd(t *testing.T) {
	rec := &recorder{}
	ref := &programRef{}
	ref.SetProgram(rec)

	msg := startRunCmd(ref, context.Background(), orchestration.RunConfig{
		UpperLimit: 30, Threads: 2, Division: partition.Range, Print: sink.Batch,
	}, nil)()

	done, ok := msg.(RunCompleteMsg)
	if !ok || done.Err != nil {
		t.Fatalf("startRunCmd() = %#v", msg)
	}
	if len(done.Result.Primes) != 10 {
		t.Errorf("primes = %v", done.Result.Primes)
	}

	var lines []string
	var states []orchestration.State
	for _, m := range rec.messages() {
		switch m := m.(type) {
		case SinkLineMsg:
			lines = append(lines, m.Line)
		case StateMsg:
			states = append(states, m.State)
		}
	}
	if len(lines) == 0 || !strings.Contains(lines[len(lines)-1], "Total primes found: 10") {
		t.Errorf("sink lines = %q", lines)
	}
	if len(states) == 0 || states[len(states)-1] != orchestration.StateFinalized {
		t.Errorf("states = %v", states)
	}
}

func TestStartRunCmd_ConfigError(t *testing.T) {
	msg := startRunCmd(&programRef{}, context.Background(), orchestration.RunConfig{UpperLimit: 30}, nil)()
	done := msg.(RunCompleteMsg)
	if !apperrors.IsConfigError(done.Err) || done.ExitCode != apperrors.ExitErrorConfig {
		t.Errorf("RunCompleteMsg = %+v", done)
	}
}

func TestLogsModel_Scroll(t *testing.T) {
	l := NewLogsModel()
	l.SetSize(60, 5) // three visible lines
	for i := range 10 {
		l.AddLine(strings.Repeat("x", i+1))
	}
	l.Scroll(100)
	if l.offset != 7 {
		t.Errorf("offset = %d, want 7", l.offset)
	}
	l.AddLine("new")
	if l.offset != 8 {
		t.Errorf("scrolled view should stay put, offset = %d", l.offset)
	}
	l.Scroll(-100)
	if l.offset != 0 {
		t.Errorf("offset = %d, want 0", l.offset)
	}
	if view := l.renderToHeight(5); !strings.Contains(view, "new") {
		t.Error("bottom of the log should show the newest line")
	}
}

func TestLogsModel_Bounded(t *testing.T) {
	l := NewLogsModel()
	for range MaxLogEntries + 10 {
		l.AddLine("line")
	}
	if l.Len() != MaxLogEntries {
		t.Errorf("Len() = %d, want %d", l.Len(), MaxLogEntries)
	}
}

func TestHeader_FreezesOnTerminalState(t *testing.T) {
	h := NewHeaderModel("dev")
	h.SetState("id", orchestration.StateRunning)
	if !h.endTime.IsZero() {
		t.Fatal("running state should not freeze the timer")
	}
	h.SetState("id", orchestration.StateAborted)
	frozen := h.Elapsed()
	time.Sleep(2 * time.Millisecond)
	if h.Elapsed() != frozen {
		t.Error("elapsed time should be frozen after a terminal state")
	}
	if strings.Contains(h.View(), "dev") {
		t.Error("dev version should not be displayed")
	}
}

func TestDefaultKeyMap_AllBindingsDefined(t *testing.T) {
	km := DefaultKeyMap()
	for _, b := range append(km.ShortHelp(), km.PageUp, km.PageDown) {
		if !b.Enabled() || len(b.Keys()) == 0 {
			t.Errorf("binding %q has no keys", b.Help().Desc)
		}
		if b.Help().Key == "" {
			t.Errorf("binding %v has no help key", b.Keys())
		}
	}
}
