package main

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/aspell-go/speller"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const maxHistory = 200

type entry struct {
	err    error
	input  string
	output string
}

type interactiveModel struct {
	shell   *shell
	input   textinput.Model
	history []entry
	height  int
}

func newInteractiveModel(sp *speller.Speller) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "word or command (help)"
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.Width = 60
	ti.Focus()

	return &interactiveModel{
		shell: &shell{sp: sp},
		input: ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				return m, nil
			}
			out, err := m.shell.exec(line)
			if stderrors.Is(err, errQuit) {
				return m, tea.Quit
			}
			m.history = append(m.history, entry{input: line, output: out, err: err})
			if len(m.history) > maxHistory {
				m.history = m.history[len(m.history)-maxHistory:]
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Aspell"))
	b.WriteString(" ")
	b.WriteString(m.shell.sp.Encoding())
	b.WriteString("\n\n")

	var lines []string
	for _, e := range m.history {
		lines = append(lines, promptStyle.Render("> "+e.input))
		switch {
		case e.err != nil:
			lines = append(lines, errorStyle.Render(fmt.Sprintf("Error: %v", e.err)))
		case e.output != "":
			lines = append(lines, strings.Split(resultStyle.Render(e.output), "\n")...)
		}
	}
	// Keep the prompt on screen: title, blank, input, blank, help.
	if room := m.height - 5; m.height > 0 && len(lines) > room {
		if room < 0 {
			room = 0
		}
		lines = lines[len(lines)-room:]
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter run • help commands • esc quit"))

	return b.String()
}

func runInteractive(sp *speller.Speller) error {
	p := tea.NewProgram(newInteractiveModel(sp), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
