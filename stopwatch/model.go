// Package stopwatch provides the terminal stopwatch used to record observations.
package stopwatch

import (
	"fmt"
	"strings"
	"time"

	"smartmethods/domain/observation"
	"smartmethods/domain/standard"
	"smartmethods/domain/timing"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/stopwatch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const tickInterval = 10 * time.Millisecond

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	clockStyle   = lipgloss.NewStyle().Bold(true).Padding(1, 2).Border(lipgloss.RoundedBorder(), true)
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model records laps of a running stopwatch into the cycles of an observation store.
type Model struct {
	processName string
	params      standard.Params

	store *observation.Store
	sw    stopwatch.Model
	keys  keyMap
	help  help.Model

	// elapsed reads the stopwatch, replaced in tests
	elapsed func() time.Duration

	message string
}

func New(processName string, params standard.Params, store *observation.Store) *Model {
	if store == nil {
		store = observation.NewStore()
	}
	m := &Model{
		processName: processName,
		params:      params,
		store:       store,
		sw:          stopwatch.NewWithInterval(tickInterval),
		keys:        defaultKeyMap(),
		help:        help.New(),
	}
	m.elapsed = func() time.Duration { return m.sw.Elapsed() }
	return m
}

// Run blocks until the user finishes the session.
func Run(m *Model) error {
	_, err := tea.NewProgram(m).Run()
	return err
}

func (m *Model) Cycles() []observation.Cycle {
	return m.store.Cycles()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.sw, cmd = m.sw.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.message = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		return m.sw.Toggle()
	case key.Matches(msg, m.keys.Lap):
		return m.recordLap()
	case key.Matches(msg, m.keys.Reset):
		return m.sw.Reset()
	case key.Matches(msg, m.keys.Undo):
		cycle, _ := m.store.Cycle(m.store.Active())
		if len(cycle.Observations) == 0 {
			m.message = "nothing to drop in " + cycle.Name
			return nil
		}
		m.report(m.store.RemoveObservation(m.store.Active(), len(cycle.Observations)-1))
	case key.Matches(msg, m.keys.NewCycle):
		m.store.AddCycle()
	case key.Matches(msg, m.keys.NextCycle):
		m.report(m.store.SetActive((m.store.Active() + 1) % m.store.Len()))
	case key.Matches(msg, m.keys.RemoveCycle):
		m.report(m.store.RemoveCycle(m.store.Active()))
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

// recordLap appends the elapsed time to the active cycle, a running stopwatch keeps running from zero.
func (m *Model) recordLap() tea.Cmd {
	ms := m.elapsed().Milliseconds()
	if ms <= 0 {
		m.message = "start the stopwatch before recording"
		return nil
	}
	if err := m.store.AppendObservation(m.store.Active(), ms); err != nil {
		m.report(err)
		return nil
	}
	return m.sw.Reset()
}

func (m *Model) report(err error) {
	if err != nil {
		m.message = err.Error()
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	b := strings.Builder{}
	b.WriteString(titleStyle.Render(m.processName))
	b.WriteString("\n")
	b.WriteString(clockStyle.Render(timing.Format(m.elapsed().Milliseconds())))
	b.WriteString("\n")

	for i, c := range m.store.Cycles() {
		line := fmt.Sprintf("%s  %d obs", c.Name, len(c.Observations))
		if n := len(c.Observations); n > 0 {
			line += "  last " + timing.Format(c.Observations[n-1]) +
				"  std " + timing.FormatSeconds(standard.ComputeForCycle(c, m.params).Standard) + "s"
		}
		if i == m.store.Active() {
			b.WriteString(activeStyle.Render("> " + line))
		} else {
			b.WriteString(mutedStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	overall := standard.ComputeOverall(m.store.Cycles(), m.params)
	b.WriteString(summaryStyle.Render(fmt.Sprintf("standard time %ss  (rating %s%%, supplement %s%%)",
		timing.FormatSeconds(overall.Standard),
		timing.FormatSeconds(m.params.PerformanceRating), timing.FormatSeconds(m.params.SupplementPercentage))))
	b.WriteString("\n")

	if m.message != "" {
		b.WriteString(errorStyle.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
