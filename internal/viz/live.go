package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/samar-v/pulseopt/internal/experiment"
	"github.com/samar-v/pulseopt/internal/optim"
)

const historyCapacity = 600

// Done carries the finished run back into the UI loop.
type Done struct {
	Result *experiment.Result
	Err    error
}

type TickMsg time.Time

// Model watches an optimization running in another goroutine: it drains
// the progress channel on a timer and renders the fidelity error trace.
type Model struct {
	system     string
	fidErrTarg float64
	maxIter    int

	progress <-chan optim.Progress
	done     <-chan Done

	latest     optim.Progress
	errHistory []float64
	frame      int

	finished bool
	result   *experiment.Result
	runErr   error
}

func NewModel(system string, fidErrTarg float64, maxIter int, progress <-chan optim.Progress, done <-chan Done) Model {
	return Model{
		system:     system,
		fidErrTarg: fidErrTarg,
		maxIter:    maxIter,
		progress:   progress,
		done:       done,
		errHistory: make([]float64, 0, historyCapacity),
	}
}

// Result returns the finished run, if any, after the UI loop exits.
func (m Model) Result() (*experiment.Result, error) {
	return m.result, m.runErr
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case TickMsg:
		m.frame++
		m.drain()
		if m.finished {
			return m, tea.Quit
		}
		return m, tick()
	}
	return m, nil
}

// drain consumes everything buffered on the channels without blocking
// the render loop.
func (m *Model) drain() {
	for {
		select {
		case p, ok := <-m.progress:
			if !ok {
				m.progress = nil
				continue
			}
			m.latest = p
			m.errHistory = append(m.errHistory, p.BestErr)
			if len(m.errHistory) > historyCapacity {
				m.errHistory = m.errHistory[1:]
			}
		case d := <-m.done:
			m.finished = true
			m.result = d.Result
			m.runErr = d.Err
		default:
			return
		}
	}
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.system)) + "\n")

	status := StatusRunning.Render(AnimatedSpinner(m.frame) + " OPTIMIZING")
	if m.finished {
		if m.runErr != nil {
			status = StatusFailed.Render("FAILED: " + m.runErr.Error())
		} else {
			status = StatusDone.Render("DONE: " + m.result.Reason)
		}
	}
	s.WriteString(status + "\n\n")

	if len(m.errHistory) > 1 {
		chart := asciigraph.Plot(m.errHistory,
			asciigraph.Height(8),
			asciigraph.Width(50),
			asciigraph.Caption("fidelity error"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Iteration") + valueStyle.Render(fmt.Sprintf("%d", m.latest.Iteration)) + "\n")
	s.WriteString(labelStyle.Render("Func evals") + valueStyle.Render(fmt.Sprintf("%d", m.latest.FuncEvals)) + "\n")
	s.WriteString(labelStyle.Render("Best error") + valueStyle.Render(fmt.Sprintf("%.3e", m.latest.BestErr)) + "\n")
	s.WriteString(labelStyle.Render("Target") + valueStyle.Render(fmt.Sprintf("%.3e", m.fidErrTarg)) + "\n")
	s.WriteString(labelStyle.Render("Elapsed") + valueStyle.Render(m.latest.Elapsed.Round(time.Millisecond).String()) + "\n")

	if m.maxIter > 0 {
		pct := float64(m.latest.Iteration) / float64(m.maxIter)
		s.WriteString("\n" + ProgressBar(pct, 30) + "\n")
	}
	if len(m.errHistory) > 0 {
		s.WriteString(SparklineChart(m.errHistory, 30) + "\n")
	}

	s.WriteString(helpStyle.Render("Q:Quit"))
	return lipgloss.JoinHorizontal(lipgloss.Top, statsStyle.Render(s.String()))
}
