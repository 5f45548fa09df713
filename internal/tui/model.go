package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"contractrag/internal/domain"
)

// QAPort is the TUI-facing subset of the orchestrator.
type QAPort interface {
	AnswerQuestion(question string, topK int) (domain.AnswerResult, error)
	ChunkCount() int
}

// Model is the Bubble Tea model for the interactive Q&A session.
type Model struct {
	service  QAPort
	input    textinput.Model
	viewport viewport.Model
	status   string
	ready    bool
}

// New creates a new TUI model instance.
func New(service QAPort) Model {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "Ask about the contracts and press Enter"
	ti.Focus()
	ti.CharLimit = 500
	vp := viewport.New(0, 0)
	return Model{
		service:  service,
		input:    ti,
		viewport: vp,
		status:   fmt.Sprintf("Knowledge base loaded (%d chunks). Type a question.", service.ChunkCount()),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			result, err := m.service.AnswerQuestion(question, 0)
			if err != nil {
				m.status = "Error: " + err.Error()
				m.viewport.SetContent("")
			} else {
				m.status = fmt.Sprintf("Answered %q", question)
				m.viewport.SetContent(renderAnswer(result))
			}
			m.input.SetValue("")
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Contract Q&A")
	answer := answerBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + answer + "\n" + input + "\n" + status
}

func renderAnswer(result domain.AnswerResult) string {
	var b strings.Builder
	b.WriteString(answerStyle.Render(result.Answer))
	b.WriteString(fmt.Sprintf("\n\nConfidence: %.1f%%\n", result.Confidence*100))
	if len(result.Sources) > 0 {
		b.WriteString("Sources: " + strings.Join(result.Sources, ", ") + "\n")
	}
	if len(result.Context) > 0 {
		b.WriteString("\nRelevant excerpts:\n")
		for i, snippet := range result.Context {
			b.WriteString(fmt.Sprintf("%d. %s (similarity %.1f%%)\n   %s\n",
				i+1, snippet.Source, snippet.Similarity*100, snippet.Text))
		}
	}
	return b.String()
}

var (
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	answerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
