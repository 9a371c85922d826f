package tui

import (
	"context"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/primefind/internal/config"
	apperrors "github.com/agbru/primefind/internal/errors"
	"github.com/agbru/primefind/internal/metrics"
	"github.com/agbru/primefind/internal/orchestration"
	"github.com/agbru/primefind/internal/sysmon"
)

// Layout constants for the dashboard.
const (
	headerHeight          = 1
	footerHeight          = 1
	minBodyHeight         = 4
	LogsPanelWidthPercent = 60
	// SampleInterval is the period of memory and host sampling.
	SampleInterval = 500 * time.Millisecond
)

// primeLineMarker identifies immediate-mode discovery lines.
const primeLineMarker = "found prime:"

// ExecutionState holds the execution-related fields of a session.
type ExecutionState struct {
	ctx      context.Context
	runCfg   orchestration.RunConfig
	opts     []orchestration.Option
	result   *orchestration.RunResult
	done     bool
	exitCode int
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) logsWidth() int {
	return l.width * LogsPanelWidthPercent / 100
}

func (l LayoutManager) rightWidth() int {
	return l.width - l.logsWidth()
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header  HeaderModel
	logs    LogsModel
	metrics MetricsModel
	footer  FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	ref    *programRef
	paused bool
	primes int
}

// NewModel creates a dashboard that runs runCfg when started. opts are
// passed to the orchestrator in addition to the dashboard's own output,
// progress and state options.
func NewModel(ctx context.Context, runCfg orchestration.RunConfig, version string, opts ...orchestration.Option) Model {
	keymap := DefaultKeyMap()
	logs := NewLogsModel()
	logs.AddExecutionConfig(runCfg.UpperLimit, runCfg.Threads, runCfg.Division.String(), runCfg.Print.String())

	return Model{
		header:  NewHeaderModel(version),
		logs:    logs,
		metrics: NewMetricsModel(),
		footer:  NewFooterModel(keymap),
		keymap:  keymap,
		ExecutionState: ExecutionState{
			ctx:      ctx,
			runCfg:   runCfg,
			opts:     opts,
			// Replaced by RunCompleteMsg; quitting earlier keeps it.
			exitCode: apperrors.ExitInterrupted,
		},
		ref: &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), startRunCmd(m.ref, m.ctx, m.runCfg, m.opts))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case PlanMsg:
		m.metrics.SetPlan(msg.Plan)
		return m, nil

	case StateMsg:
		m.header.SetState(msg.RunID, msg.State)
		return m, nil

	case ProgressMsg:
		if !m.paused {
			m.metrics.UpdateProgress(msg)
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case SinkLineMsg:
		m.logs.AddLine(msg.Line)
		if strings.Contains(msg.Line, primeLineMarker) {
			m.primes++
			m.metrics.SetPrimes(m.primes)
		}
		return m, nil

	case RunCompleteMsg:
		m.done = true
		m.exitCode = msg.ExitCode
		m.result = msg.Result
		m.footer.SetDone(true)
		if msg.Err != nil {
			m.logs.AddError(msg.Err)
			m.footer.SetError(true)
			return m, nil
		}
		m.logs.AddResult(msg.Result)
		m.metrics.SetPrimes(len(msg.Result.Primes))
		m.metrics.Complete()
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(m.ctx), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.metrics.UpdateSysStats(msg)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
	case key.Matches(msg, m.keymap.Up):
		m.logs.Scroll(1)
	case key.Matches(msg, m.keymap.Down):
		m.logs.Scroll(-1)
	case key.Matches(msg, m.keymap.PageUp):
		m.logs.Scroll(m.logs.PageSize())
	case key.Matches(msg, m.keymap.PageDown):
		m.logs.Scroll(-m.logs.PageSize())
	}
	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	right := m.metrics.View()
	logs := m.logs.renderToHeight(max(lipgloss.Height(right), m.bodyHeight()))
	body := lipgloss.JoinHorizontal(lipgloss.Top, logs, right)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.logs.SetSize(m.logsWidth(), m.bodyHeight())
	m.metrics.SetSize(m.rightWidth(), m.bodyHeight())
}

// Run is the entry point of the dashboard mode. It returns the result of
// the run, nil when the run failed or the user quit first, and the exit
// code. Quitting before the run completes yields ExitInterrupted.
func Run(ctx context.Context, cfg config.AppConfig, version string, opts ...orchestration.Option) (*orchestration.RunResult, int) {
	runCfg, err := cfg.ToRunConfig()
	if err != nil {
		return nil, apperrors.ExitCodeFor(err)
	}

	// Rebuild styles from the ui theme selected by the caller.
	initTUIStyles()

	model := NewModel(ctx, runCfg, version, opts...)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.ExitInterrupted
		}
		return nil, apperrors.ExitErrorGeneric
	}
	if fm, ok := finalModel.(Model); ok {
		return fm.result, fm.exitCode
	}
	return nil, apperrors.ExitErrorGeneric
}

// startRunCmd returns a tea.Cmd that executes the search.
func startRunCmd(ref *programRef, ctx context.Context, runCfg orchestration.RunConfig, opts []orchestration.Option) tea.Cmd {
	return func() tea.Msg {
		all := append(append([]orchestration.Option(nil), opts...),
			orchestration.WithOutput(&sinkWriter{ref: ref}),
			orchestration.WithProgressReporter(&TUIProgressReporter{ref: ref}, io.Discard),
			orchestration.WithStateObserver(ref.stateObserver),
		)
		res, err := orchestration.New(all...).Run(ctx, runCfg)
		return RunCompleteMsg{Result: res, Err: err, ExitCode: apperrors.ExitCodeFor(err)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(SampleInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := metrics.NewMemoryCollector().Snapshot()
		return MemStatsMsg{
			Alloc:        s.HeapAlloc,
			HeapSys:      s.HeapSys,
			NumGC:        s.NumGC,
			PauseTotalNs: s.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

// sampleSysStatsCmd reads host CPU and memory usage.
func sampleSysStatsCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample(ctx)
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}
