// ============================================================================
// galnotes - Galactic Notes Interpreter
// ============================================================================
//
// Package:     repl
// Description: Interactive interpreter built on Bubble Tea. Every entered line
//              is executed against one session; "quit" halts the session and
//              leaves the program.
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package repl

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/galnotes/foundation/galnotes"
)

// Meta commands handled by the REPL itself
const (
	CommandState = ":state"
	CommandClear = ":clear"
)

// Config holds the REPL configuration
type Config struct {
	Session     *galnotes.Session
	Context     context.Context
	Prompt      string
	HistorySize int
}

// DefaultConfig returns the default REPL configuration without a session
func DefaultConfig() Config {
	return Config{
		Context:     context.Background(),
		Prompt:      "> ",
		HistorySize: 100,
	}
}

// Model is the REPL model
type Model struct {
	input    textinput.Model
	viewport viewport.Model
	session  *galnotes.Session
	ctx      context.Context

	entries      []Entry
	inputHistory []string
	historyIndex int // -1 = new input
	historySize  int
	running      bool
	statements   int
	failures     int

	width  int
	height int
	ready  bool
}

// New creates a REPL model for the configured session
func New(cfg Config) Model {
	def := DefaultConfig()
	if cfg.Context == nil {
		cfg.Context = def.Context
	}
	if cfg.Prompt == "" {
		cfg.Prompt = def.Prompt
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = def.HistorySize
	}

	ti := textinput.New()
	ti.Prompt = cfg.Prompt
	ti.Placeholder = "how much is pish tegj glob glob ?"
	ti.Focus()

	return Model{
		input:        ti,
		session:      cfg.Session,
		ctx:          cfg.Context,
		historyIndex: -1,
		historySize:  cfg.HistorySize,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Entries returns the transcript
func (m Model) Entries() []Entry { return m.entries }

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 6
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = viewportHeight
		}
		m.input.Width = msg.Width - 6
		m.updateViewportContent()
		return m, nil

	case executeMsg:
		m.running = false
		m.statements++
		switch {
		case msg.err != nil:
			m.failures++
			m.addEntry(EntryError, msg.err.Error(), elapsed(msg.res))
		case msg.res.HasOutput:
			m.addEntry(EntryOutput, msg.res.Output, msg.res.Elapsed)
		}
		if msg.res != nil && msg.res.Halted {
			return m, tea.Quit
		}
		return m, nil

	case stateMsg:
		if msg.err != nil {
			m.addEntry(EntryError, msg.err.Error(), 0)
		} else {
			m.addEntry(EntryState, msg.dump, 0)
		}
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		input := strings.TrimSpace(m.input.Value())
		if input == "" {
			return m, nil
		}
		m.pushHistory(input)
		m.input.Reset()

		switch input {
		case CommandClear:
			m.entries = nil
			m.updateViewportContent()
			return m, nil
		case CommandState:
			return m, m.dumpState
		}

		m.addEntry(EntryInput, input, 0)
		m.running = true
		return m, m.execute(input)

	case tea.KeyUp:
		if len(m.inputHistory) > 0 {
			if m.historyIndex == -1 {
				m.historyIndex = len(m.inputHistory) - 1
			} else if m.historyIndex > 0 {
				m.historyIndex--
			}
			m.input.SetValue(m.inputHistory[m.historyIndex])
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.historyIndex != -1 {
			if m.historyIndex < len(m.inputHistory)-1 {
				m.historyIndex++
				m.input.SetValue(m.inputHistory[m.historyIndex])
				m.input.CursorEnd()
			} else {
				m.historyIndex = -1
				m.input.Reset()
			}
		}
		return m, nil

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) pushHistory(input string) {
	if len(m.inputHistory) == 0 || m.inputHistory[len(m.inputHistory)-1] != input {
		m.inputHistory = append(m.inputHistory, input)
		if len(m.inputHistory) > m.historySize {
			m.inputHistory = m.inputHistory[len(m.inputHistory)-m.historySize:]
		}
	}
	m.historyIndex = -1
}

func (m Model) execute(input string) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		res, err := session.Execute(ctx, input)
		return executeMsg{input: input, res: res, err: err}
	}
}

func (m Model) dumpState() tea.Msg {
	var buf bytes.Buffer
	err := m.session.Dump(&buf)
	return stateMsg{dump: strings.TrimRight(buf.String(), "\n"), err: err}
}

func (m *Model) addEntry(kind EntryKind, content string, took time.Duration) {
	m.entries = append(m.entries, Entry{
		Kind:      kind,
		Content:   content,
		Timestamp: time.Now(),
		Elapsed:   took,
	})
	m.updateViewportContent()
	m.viewport.GotoBottom()
}

func elapsed(res *galnotes.Result) time.Duration {
	if res == nil {
		return 0
	}
	return res.Elapsed
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Starting galnotes..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(InputBorderStyle.Width(m.width - 4).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderHeader() string {
	return LogoStyle.Render(Logo) + "  " + SubHeaderStyle.Render("Galactic notes interpreter")
}

func (m Model) renderStatusBar() string {
	status := StatusOKStyle.Render("ready")
	if m.running {
		status = StatusOKStyle.Render("running")
	}
	if m.session != nil && m.session.Halted() {
		status = StatusHaltedStyle.Render("halted")
	}

	id := ""
	if m.session != nil {
		id = m.session.ID()
		if len(id) > 8 {
			id = id[:8]
		}
	}
	info := fmt.Sprintf("session %s | %d statements | %d failed", id, m.statements, m.failures)
	return StatusBarStyle.Width(m.width).Render(status + "  " + info)
}

func (m Model) renderHelpBar() string {
	sep := HelpSepStyle.Render(" | ")
	return strings.Join([]string{
		RenderHelp("enter", "execute"),
		RenderHelp("up/down", "history"),
		RenderHelp(CommandState, "registers"),
		RenderHelp(CommandClear, "clear"),
		RenderHelp("quit", "end session"),
		RenderHelp("esc", "exit"),
	}, sep)
}

func (m *Model) updateViewportContent() {
	var content strings.Builder

	for _, e := range m.entries {
		switch e.Kind {
		case EntryInput:
			content.WriteString(InputStyle.Render("> " + e.Content))
		case EntryOutput:
			line := OutputStyle.Render(e.Content)
			if e.Elapsed > 0 {
				line += "  " + HelpDescStyle.Render(e.Elapsed.Round(time.Microsecond).String())
			}
			content.WriteString(line)
		case EntryError:
			content.WriteString(ErrorStyle.Render(e.Content))
		case EntryState:
			content.WriteString(StateStyle.Render(e.Content))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// Run starts the REPL
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
