// Package progress shows a spinner on the terminal while a request is in
// flight.
package progress

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/aicall/cmd/aicall/internal/styles"
)

type doneMsg struct{}

type model struct {
	spin  spinner.Model
	label string
	done  bool
}

func newModel(label string) model {
	s := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(styles.SpinnerStyle),
	)
	return model{spin: s, label: label}
}

func (m model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.done {
		return ""
	}
	return m.spin.View() + " " + styles.DimStyle.Render(m.label)
}

// Run calls fn while a spinner labelled label animates on w, and returns fn's
// result once the spinner line has been cleared. The spinner never reads
// input; cancelling ctx stops it.
func Run[T any](ctx context.Context, w io.Writer, label string, fn func(context.Context) T) T {
	p := tea.NewProgram(newModel(label),
		tea.WithContext(ctx),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	out := make(chan T, 1)
	go func() {
		out <- fn(ctx)
		p.Send(doneMsg{})
	}()

	_, _ = p.Run()

	return <-out
}
