package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/primefind/internal/format"
	"github.com/agbru/primefind/internal/orchestration"
)

// MetricsModel displays search progress, runtime memory and host usage.
type MetricsModel struct {
	bar progress.Model

	plan        orchestration.RunPlan
	examined    uint64
	fraction    float64
	workersDone int
	eta         time.Duration
	primes      int

	alloc        uint64
	heapSys      uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int

	// rate is the smoothed number of candidates examined per second.
	rate         float64
	lastExamined uint64
	lastUpdate   time.Time

	cpu *sampleWindow
	mem *sampleWindow

	width  int
	height int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		lastUpdate: time.Now(),
		cpu:        newSampleWindow(60),
		mem:        newSampleWindow(60),
	}
}

// SetSize updates dimensions and the sparkline capacity.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.bar.Width = max(w-20, 10)
	sparkWidth := max(w-16, 1)
	m.cpu.SetLimit(sparkWidth)
	m.mem.SetLimit(sparkWidth)
}

// SetPlan records the shape of the run.
func (m *MetricsModel) SetPlan(plan orchestration.RunPlan) {
	m.plan = plan
}

// UpdateProgress records an aggregated progress update and refreshes the
// examination rate.
func (m *MetricsModel) UpdateProgress(msg ProgressMsg) {
	m.examined = msg.Examined
	m.fraction = msg.Fraction
	m.workersDone = msg.WorkersDone
	m.eta = msg.ETA

	now := time.Now()
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt > 0.05 && m.examined >= m.lastExamined {
		instant := float64(m.examined-m.lastExamined) / dt
		if m.rate > 0 {
			m.rate = 0.7*m.rate + 0.3*instant
		} else {
			m.rate = instant
		}
		m.lastExamined = m.examined
		m.lastUpdate = now
	}
}

// SetPrimes records the number of primes reported so far.
func (m *MetricsModel) SetPrimes(n int) { m.primes = n }

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateSysStats appends a host usage sample.
func (m *MetricsModel) UpdateSysStats(msg SysStatsMsg) {
	m.cpu.Push(msg.CPUPercent)
	m.mem.Push(msg.MemPercent)
}

// Complete marks the search as fully examined.
func (m *MetricsModel) Complete() {
	m.fraction = 1
	m.eta = 0
	m.workersDone = m.plan.Workers
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows strings.Builder

	rows.WriteString(" " + m.bar.ViewAs(m.fraction) + " " + metricValueStyle.Render(fmt.Sprintf("%5.1f%%", m.fraction*100)))
	rows.WriteString("\n")

	colWidth := max((m.width-6)/2, 1)
	pairs := [][2]string{
		{
			formatMetricCol("Examined:", format.FormatNumberString(fmt.Sprint(m.examined))+"/"+format.FormatNumberString(fmt.Sprint(m.plan.Candidates)), colWidth),
			formatMetricCol("Workers:", fmt.Sprintf("%d/%d done", m.workersDone, m.plan.Workers), colWidth),
		},
		{
			formatMetricCol("Rate:", format.FormatNumberString(fmt.Sprintf("%.0f", m.rate))+"/s", colWidth),
			formatMetricCol("ETA:", format.FormatETA(m.eta), colWidth),
		},
		{
			formatMetricCol("Primes:", format.FormatInt(m.primes), colWidth),
			formatMetricCol("Goroutines:", fmt.Sprint(m.numGoroutine), colWidth),
		},
		{
			formatMetricCol("Heap:", format.FormatBytes(m.alloc)+" / "+format.FormatBytes(m.heapSys), colWidth),
			formatMetricCol("GC:", fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6), colWidth),
		},
	}
	for _, p := range pairs {
		rows.WriteString(p[0] + p[1] + "\n")
	}
	rows.WriteString(fmt.Sprintf(" %s %s %s\n", metricLabelStyle.Render("CPU"),
		cpuSparklineStyle.Render(m.cpu.Sparkline()), metricValueStyle.Render(fmt.Sprintf("%.0f%%", m.cpu.Last()))))
	rows.WriteString(fmt.Sprintf(" %s %s %s", metricLabelStyle.Render("MEM"),
		memSparklineStyle.Render(m.mem.Sparkline()), metricValueStyle.Render(fmt.Sprintf("%.0f%%", m.mem.Last()))))

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-11s", label)),
		metricValueStyle.Render(value))
	if visible := lipgloss.Width(cell); visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}
