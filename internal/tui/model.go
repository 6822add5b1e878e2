// Package tui implements the interactive chat surface over the
// advisor.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tanwee/prospectus/internal/advisor"
	"github.com/tanwee/prospectus/internal/session"
)

// AdvisorPort is the TUI-facing subset of the advisor.
type AdvisorPort interface {
	Answer(ctx context.Context, query string) (advisor.Result, error)
}

// answerTimeout bounds one question end to end, retrieval and
// synthesis included.
const answerTimeout = 60 * time.Second

// answerMsg carries an advisor result back into the update loop.
type answerMsg struct {
	question string
	result   advisor.Result
	err      error
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	advisor    AdvisorPort
	sess       *session.Session
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	status     string
	thinking   bool
	ready      bool
}

// New creates a chat model bound to an advisor and session.
func New(a AdvisorPort, sess *session.Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about a course and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		advisor:  a,
		sess:     sess,
		input:    ti,
		viewport: vp,
		status:   "Ready. Ctrl+C to quit.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + ih + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.thinking {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				break
			}
			m.input.Reset()
			m.thinking = true
			m.status = "Thinking..."
			m.transcript = append(m.transcript, questionStyle.Render("You: "+q))
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, m.ask(q)
		}

	case answerMsg:
		m.thinking = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.transcript = append(m.transcript, errorStyle.Render("Could not answer: "+msg.err.Error()))
		} else {
			m.status = "Ready. Ctrl+C to quit."
			m.transcript = append(m.transcript, answerStyle.Render(msg.result.Answer))
			if msg.result.Bundle.Degraded() {
				m.transcript = append(m.transcript, staleStyle.Render("Some details could not be verified live."))
			}
			m.sess.Record(msg.question, msg.result.Answer, msg.result.Bundle)
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// ask runs the advisor off the update loop.
func (m Model) ask(question string) tea.Cmd {
	query := m.sess.ContextualizeQuery(question)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), answerTimeout)
		defer cancel()

		result, err := m.advisor.Answer(ctx, query)
		return answerMsg{question: question, result: result, err: err}
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Prospectus Course Advisor")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "Ask about courses, fees, intakes or entry requirements."
	}
	return strings.Join(m.transcript, "\n\n")
}

var (
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle     = lipgloss.NewStyle()
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	staleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
