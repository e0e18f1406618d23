package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/kinfit/internal/estimator"
	"github.com/san-kum/kinfit/internal/kinetics"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// ProgressMsg carries one accepted optimizer step into the view.
type ProgressMsg estimator.ProgressUpdate

// DoneMsg ends the live view's updating phase.
type DoneMsg struct {
	Result *estimator.Result
	Err    error
}

// Model renders a running fit: current parameters, cost history on a
// log scale, and the final verdict once the solve ends.
type Model struct {
	latest  estimator.ProgressUpdate
	costLog []float64
	result  *estimator.Result
	err     error
	done    bool
}

func NewModel() Model {
	return Model{costLog: make([]float64, 0, historyCapacity)}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case ProgressMsg:
		m.latest = estimator.ProgressUpdate(msg)
		if len(m.costLog) < historyCapacity {
			m.costLog = append(m.costLog, math.Log10(math.Max(msg.Cost, 1e-300)))
		}
		return m, nil
	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("kinfit - live fit") + "\n")

	if len(m.costLog) > 1 {
		chart := asciigraph.Plot(m.costLog,
			asciigraph.Height(8),
			asciigraph.Width(50),
			asciigraph.Caption("log10 SSR"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("iteration") + valueStyle.Render(fmt.Sprintf("%d", m.latest.Iteration)) + "\n")
	s.WriteString(labelStyle.Render("cost") + valueStyle.Render(fmt.Sprintf("%.6g", m.latest.Cost)) + "\n")
	s.WriteString(labelStyle.Render("lambda") + valueStyle.Render(fmt.Sprintf("%.3g", m.latest.Lambda)) + "\n")

	names := kinetics.Names()
	for i, v := range m.latest.Params.Vector() {
		s.WriteString(labelStyle.Render(names[i]) + valueStyle.Render(fmt.Sprintf("%.4f", v)) + "\n")
	}

	if m.done {
		s.WriteString("\n")
		switch {
		case m.err != nil:
			s.WriteString(failStyle.Render(fmt.Sprintf("fit failed: %v", m.err)) + "\n")
		case m.result != nil && m.result.Converged():
			s.WriteString(doneStyle.Render(fmt.Sprintf("converged in %d iterations (SSR=%.5g)",
				m.result.Iterations, m.result.SSR)) + "\n")
		case m.result != nil:
			s.WriteString(failStyle.Render(fmt.Sprintf("did not converge: %s", m.result.Status)) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("q: quit"))
	return s.String()
}
