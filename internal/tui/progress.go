// Package tui shows a live progress view while a pricing run executes.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mcprice/internal/montecarlo"
	"github.com/san-kum/mcprice/internal/report"
)

const barWidth = 40

var spinner = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type progressMsg struct{ done, total int }

type doneMsg struct {
	est *montecarlo.Estimate
	err error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	title  string
	done   int
	total  int
	frame  int
	start  time.Time
	now    time.Time
	cancel context.CancelFunc

	est      *montecarlo.Estimate
	err      error
	finished bool
	aborted  bool
}

func newModel(title string, total int, cancel context.CancelFunc) model {
	now := time.Now()
	return model{title: title, total: total, cancel: cancel, start: now, now: now}
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.aborted = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil
	case progressMsg:
		if msg.done > m.done {
			m.done = msg.done
		}
		m.total = msg.total
		return m, nil
	case tickMsg:
		m.frame++
		m.now = time.Time(msg)
		return m, tick()
	case doneMsg:
		m.est, m.err, m.finished = msg.est, msg.err, true
		if msg.err == nil {
			m.done = m.total
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	icon := spinner[m.frame%len(spinner)]
	if m.finished {
		icon = "✓"
		if m.err != nil {
			icon = "✗"
		}
	}
	b.WriteString(report.Title.Render(icon+" "+m.title) + "\n\n")
	b.WriteString(report.ProgressBar(m.done, m.total, barWidth))
	b.WriteString(report.Label.Render(fmt.Sprintf("  %d/%d", m.done, m.total)) + "\n")

	elapsed := m.now.Sub(m.start).Round(100 * time.Millisecond)
	b.WriteString(report.Subtle.Render(fmt.Sprintf("elapsed %s", elapsed)))
	if m.done > 0 && m.done < m.total {
		eta := time.Duration(float64(m.now.Sub(m.start)) * float64(m.total-m.done) / float64(m.done))
		b.WriteString(report.Subtle.Render(fmt.Sprintf("  eta %s", eta.Round(100*time.Millisecond))))
	}
	b.WriteString("\n")

	switch {
	case m.finished && m.err != nil:
		b.WriteString(report.Bad.Render("error: "+m.err.Error()) + "\n")
	case m.aborted:
		b.WriteString(report.Warn.Render("cancelling...") + "\n")
	case !m.finished:
		b.WriteString(report.Subtle.Render("q to cancel") + "\n")
	}
	return b.String()
}

// Work runs a pricing job, reporting progress through the supplied callback.
type Work func(ctx context.Context, progress func(done, total int)) (*montecarlo.Estimate, error)

// Run executes work behind a progress view written to out. Pressing q
// cancels the context passed to work.
func Run(ctx context.Context, out io.Writer, title string, total int, work Work) (*montecarlo.Estimate, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(title, total, cancel), tea.WithOutput(out))

	go func() {
		est, err := work(ctx, func(done, total int) {
			p.Send(progressMsg{done: done, total: total})
		})
		p.Send(doneMsg{est: est, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}
	m := final.(model)
	return m.est, m.err
}
