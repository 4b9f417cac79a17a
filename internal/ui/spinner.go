package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// SpinnerModel is the model for an interactive spinner
type SpinnerModel struct {
	spinner  spinner.Model
	message  string
	quitting bool
	done     bool
	result   string
	err      error
}

// NewSpinner creates a new spinner with a message
func NewSpinner(message string) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(PrimaryColor)
	return SpinnerModel{
		spinner: s,
		message: message,
	}
}

func (m SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case spinnerDoneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m SpinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return RenderStatus("error", m.err.Error()) + "\n"
		}
		return RenderStatus("success", m.result) + "\n"
	}
	if m.quitting {
		return RenderStatus("warning", m.message+" - interrupted") + "\n"
	}
	return "  " + m.spinner.View() + " " + WhiteStyle.Render(m.message) + "\n"
}

type spinnerDoneMsg struct {
	result string
	err    error
}

// RunWithSpinner runs fn while an animated spinner is shown on stdout and
// replaces it with the result line. When stdout is not a terminal the
// spinner is skipped and only the result line is printed.
func RunWithSpinner(message string, fn func() (string, error)) (string, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return runPlain(os.Stdout, fn)
	}

	p := tea.NewProgram(NewSpinner(message))
	var (
		result string
		err    error
	)
	go func() {
		result, err = fn()
		p.Send(spinnerDoneMsg{result: result, err: err})
	}()

	final, runErr := p.Run()
	if runErr != nil {
		return "", runErr
	}
	if m, ok := final.(SpinnerModel); ok && m.quitting {
		return "", fmt.Errorf("interrupted")
	}
	return result, err
}

func runPlain(w io.Writer, fn func() (string, error)) (string, error) {
	result, err := fn()
	if err != nil {
		fmt.Fprintln(w, RenderStatus("error", err.Error()))
		return "", err
	}
	fmt.Fprintln(w, RenderStatus("success", result))
	return result, nil
}
