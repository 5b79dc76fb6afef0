// This file implements the interactive chat interface using bubbletea.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitagent/cmd/gitagent/ui"
	"gitagent/internal/agent"
	"gitagent/internal/config"
	"gitagent/internal/ollama"
)

// predefinedPrompts are the canned requests offered as slash commands.
var predefinedPrompts = []struct {
	Command string
	Prompt  string
}{
	{"/status", "What is my current Git status?"},
	{"/commit", "Write a concise standard commit message"},
	{"/diff", "Show me the difference between my working directory and the last commit"},
	{"/undo", "Help me undo my last commit"},
	{"/push", "I want to push my changes to remote"},
	{"/pull", "Help me pull the latest changes from remote"},
	{"/concepts", "Explain Git concepts to me"},
}

type chatMessage struct {
	role    string // "user", "assistant", "confirm" or "error"
	content string
	time    time.Time
}

// confirmRequest is one pending approval for a mutating git operation.
type confirmRequest struct {
	prompt string
	reply  chan bool
}

// chatConfirmer bridges synchronous tool confirmations into the tea event
// loop. Confirm blocks the agent goroutine until the user answers in the
// interface.
type chatConfirmer struct {
	requests chan confirmRequest
}

func (c chatConfirmer) Confirm(prompt string) bool {
	req := confirmRequest{prompt: prompt, reply: make(chan bool, 1)}
	c.requests <- req
	return <-req.reply
}

// Messages for tea updates
type (
	responseMsg string
	errorMsg    error
	healthMsg   struct{ err error }
	confirmMsg  confirmRequest
)

// chatModel is the main model for the interactive chat interface.
type chatModel struct {
	// UI components
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    ui.Styles
	renderer  *glamour.TermRenderer

	// State
	history   []chatMessage
	isLoading bool
	width     int
	height    int
	ready     bool
	status    string
	healthy   bool
	cfg       config.Config

	// Session state
	sessionID string
	turnCount int
	logger    *zap.Logger

	// Pending tool confirmation, nil when none.
	confirms chan confirmRequest
	pending  *confirmRequest

	// Backend
	agent  *agent.Agent
	client *ollama.Client
}

// initChat initializes the interactive chat model.
func initChat(cfg config.Config) chatModel {
	styles := ui.DefaultStyles()
	if cfg.Theme == "dark" {
		styles = ui.NewStyles(ui.DarkTheme())
	}

	ti := textinput.New()
	ti.Placeholder = "Ask me anything about git... (Enter to send, Ctrl+C to exit)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 4096
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)
	vp.SetContent("")

	var renderer *glamour.TermRenderer
	if styles.Theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(80),
		)
	}

	sessionID := uuid.NewString()
	log := logger
	if log == nil {
		log = zap.NewNop()
	}
	sessionLog := log.With(zap.String("session_id", sessionID))

	confirms := make(chan confirmRequest)
	a, client := newBackend(cfg, chatConfirmer{requests: confirms}, sessionLog)

	return chatModel{
		textinput: ti,
		viewport:  vp,
		spinner:   sp,
		styles:    styles,
		renderer:  renderer,
		history:   []chatMessage{},
		status:    "Initializing GitAgent...",
		cfg:       cfg,
		sessionID: sessionID,
		logger:    sessionLog,
		confirms:  confirms,
		agent:     a,
		client:    client,
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.checkHealth(),
		waitConfirm(m.confirms),
	)
}

// checkHealth probes the Ollama server in the background.
func (m chatModel) checkHealth() tea.Cmd {
	client := m.client
	timeout := m.cfg.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return healthMsg{err: client.HealthCheck(ctx)}
	}
}

// waitConfirm surfaces the next tool confirmation request. Re-armed after
// each answer.
func waitConfirm(ch chan confirmRequest) tea.Cmd {
	return func() tea.Msg {
		return confirmMsg(<-ch)
	}
}

// processRequest runs the agent loop for one user request.
func (m chatModel) processRequest(input string) tea.Cmd {
	a := m.agent
	return func() tea.Msg {
		answer, err := a.Process(context.Background(), input)
		if err != nil {
			return errorMsg(err)
		}
		return responseMsg(answer)
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.pending != nil {
			return m.handleConfirmKey(msg)
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if !m.isLoading {
				return m.handleSubmit()
			}
		}

		if !m.isLoading {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 2
		inputHeight := 3

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - headerHeight - footerHeight - inputHeight
		}
		m.textinput.Width = msg.Width - 4

		if m.renderer != nil {
			m.renderer, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(msg.Width-8),
			)
		}
		m.refreshViewport()

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case healthMsg:
		if msg.err != nil {
			m.healthy = false
			m.status = fmt.Sprintf("Ollama connection failed: %v", msg.err)
			m.appendMessage("error", fmt.Sprintf("Failed to connect to Ollama at %s. Is it running?", m.cfg.OllamaBaseURL))
		} else {
			m.healthy = true
			m.status = "Ready - Ollama connected"
		}

	case confirmMsg:
		req := confirmRequest(msg)
		m.pending = &req
		m.status = "Awaiting confirmation"
		m.appendMessage("confirm", req.prompt+"  [y/N]")

	case responseMsg:
		m.isLoading = false
		m.status = "Ready"
		m.logger.Info("response received", zap.Int("turn", m.turnCount))
		m.appendMessage("assistant", string(msg))

	case errorMsg:
		m.isLoading = false
		m.status = "Ready"
		m.logger.Error("request failed", zap.Int("turn", m.turnCount), zap.Error(msg))
		m.appendMessage("error", msg.Error())
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

// handleConfirmKey answers the pending confirmation. y approves, n, enter
// and esc deny; anything else is ignored.
func (m chatModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var approved bool
	switch msg.String() {
	case "ctrl+c":
		m.pending.reply <- false
		return m, tea.Quit
	case "y", "Y":
		approved = true
	case "n", "N", "enter", "esc":
		approved = false
	default:
		return m, nil
	}

	m.logger.Info("confirmation answered",
		zap.Int("turn", m.turnCount),
		zap.Bool("approved", approved))
	m.pending.reply <- approved
	m.pending = nil
	m.status = "Processing..."

	return m, tea.Batch(m.spinner.Tick, waitConfirm(m.confirms))
}

// handleSubmit dispatches the typed input: slash commands expand to their
// canned prompt, /help and /config are answered locally, anything else
// goes to the agent.
func (m chatModel) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textinput.Value())
	if input == "" {
		return m, nil
	}
	m.textinput.Reset()

	switch input {
	case "/help":
		m.appendMessage("assistant", helpText())
		return m, nil
	case "/config":
		m.appendMessage("assistant", m.configText())
		return m, nil
	case "/quit", "/exit":
		return m, tea.Quit
	}

	for _, p := range predefinedPrompts {
		if input == p.Command {
			input = p.Prompt
			break
		}
	}

	m.appendMessage("user", input)
	m.turnCount++
	m.isLoading = true
	m.status = "Processing..."
	m.logger.Info("processing request", zap.Int("turn", m.turnCount))

	return m, tea.Batch(m.spinner.Tick, m.processRequest(input))
}

func (m *chatModel) appendMessage(role, content string) {
	m.history = append(m.history, chatMessage{role: role, content: content, time: time.Now()})
	m.refreshViewport()
}

func (m *chatModel) refreshViewport() {
	var b strings.Builder
	for _, msg := range m.history {
		switch msg.role {
		case "user":
			b.WriteString(m.styles.UserMsg.Render("You: ") + msg.content + "\n\n")
		case "confirm":
			b.WriteString(m.styles.Prompt.Render("Confirm: "+msg.content) + "\n\n")
		case "error":
			b.WriteString(m.styles.ErrorMsg.Render("Error: "+msg.content) + "\n\n")
		default:
			content := msg.content
			if m.renderer != nil {
				if rendered, err := m.renderer.Render(content); err == nil {
					content = strings.TrimSpace(rendered) + "\n"
				}
			}
			b.WriteString(m.styles.AgentMsg.Render("GitAgent: ") + "\n" + content + "\n")
		}
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func helpText() string {
	var b strings.Builder
	b.WriteString("Available commands:\n\n")
	for _, p := range predefinedPrompts {
		b.WriteString(fmt.Sprintf("- `%s` - %s\n", p.Command, p.Prompt))
	}
	b.WriteString("- `/config` - show configuration\n")
	b.WriteString("- `/help` - this help\n")
	b.WriteString("- `/quit` - exit\n")
	return b.String()
}

func (m chatModel) configText() string {
	return fmt.Sprintf(
		"**GitAgent configuration**\n\n"+
			"- Ollama URL: %s\n- Model: %s\n- Temperature: %g\n"+
			"- Max iterations: %d\n- Log level: %s\n- Config dir: %s\n"+
			"- Require confirmation: %t\n",
		m.cfg.OllamaBaseURL, m.cfg.OllamaModel, m.cfg.Temperature,
		m.cfg.MaxIterations, m.cfg.LogLevel, m.cfg.ConfigDir,
		m.cfg.RequireConfirmation)
}

// shortSession is the session ID prefix shown in the footer.
func (m chatModel) shortSession() string {
	if len(m.sessionID) < 8 {
		return m.sessionID
	}
	return m.sessionID[:8]
}

func (m chatModel) View() string {
	if !m.ready {
		return "Starting gitagent..."
	}

	title := m.styles.Title.Render("GitAgent")
	subtitle := m.styles.Subtitle.Render(fmt.Sprintf("AI-powered Git assistant · model: %s", m.cfg.OllamaModel))
	header := title + "  " + subtitle

	var statusLine string
	switch {
	case m.pending != nil:
		statusLine = m.styles.Prompt.Render("? ") + m.status + " (y/n)"
	case m.isLoading:
		statusLine = m.spinner.View() + " " + m.status
	case m.healthy:
		statusLine = m.styles.StatusOK.Render("● ") + m.status
	default:
		statusLine = m.styles.StatusBad.Render("● ") + m.status
	}

	help := m.styles.Help.Render(fmt.Sprintf(
		"session %s · turn %d · /help for commands · Ctrl+C to quit",
		m.shortSession(), m.turnCount))

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n%s",
		header,
		statusLine,
		m.viewport.View(),
		m.textinput.View(),
		help,
	)
}

// runChat starts the interactive chat interface.
func runChat() error {
	m := initChat(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface failed: %w", err)
	}
	return nil
}
