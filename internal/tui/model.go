// Package tui is the chat front-end: a question prompt, the generated
// answer, and a sources block citing the chunks the answer came from.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ragchat/internal/domain"
)

// RAGPort is the TUI-facing subset of the RAG service.
type RAGPort interface {
	Query(query string) ([]domain.RetrievalResult, error)
	Size() int
}

// answerMsg carries one completed ask round back into Update.
type answerMsg struct {
	question string
	answer   string
	results  []domain.RetrievalResult
	err      error
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	service   RAGPort
	generator domain.Generator

	input    textinput.Model
	viewport viewport.Model
	status   string
	summary  string
	thinking bool
	ready    bool
}

// New creates the chat model.
func New(service RAGPort, generator domain.Generator, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about your documents"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:   service,
		generator: generator,
		input:     ti,
		viewport:  vp,
		summary:   summary,
		status:    fmt.Sprintf("%d chunks indexed. Type a question and press Enter.", service.Size()),
	}
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and drives the ask round trip.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 3 + qh + 1 // header, summary, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		return m, nil

	case answerMsg:
		m.thinking = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Answered %q", msg.question)
		m.viewport.SetContent(m.renderAnswer(msg))
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.thinking {
				m.thinking = true
				m.status = "Thinking..."
				m.input.SetValue("")
				return m, m.ask(q)
			}
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("ragchat")
	summary := summaryStyle.Render(m.summary)
	answer := answerBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + summary + "\n" + answer + "\n" + input + "\n" + status
}

// ask runs retrieval and generation off the update loop.
func (m Model) ask(question string) tea.Cmd {
	service, generator := m.service, m.generator
	return func() tea.Msg {
		results, err := service.Query(question)
		if err != nil {
			return answerMsg{question: question, err: err}
		}
		answer, err := generator.Answer(context.Background(), question, results)
		if err != nil {
			return answerMsg{question: question, err: err}
		}
		return answerMsg{question: question, answer: answer, results: results}
	}
}

func (m Model) renderAnswer(msg answerMsg) string {
	var b strings.Builder
	b.WriteString(msg.answer)
	if len(msg.results) > 0 {
		b.WriteString("\n\n")
		b.WriteString(sourcesStyle.Render("Sources:"))
		b.WriteString("\n")
		for i, r := range msg.results {
			fmt.Fprintf(&b, "%d. %s (chunk %d, sim %.3f, rank %.3f)\n",
				i+1, r.Chunk.DocumentID, r.Chunk.Index, r.Similarity, r.Rerank)
		}
	} else {
		b.WriteString("\n\n")
		b.WriteString(sourcesStyle.Render("No relevant context found in the indexed documents."))
	}
	return b.String()
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	summaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sourcesStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
