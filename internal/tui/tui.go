package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/hanabi/internal/deck"
	"github.com/lox/hanabi/internal/game"
)

// TUIModel is the Bubble Tea model for a local game against bots. The engine
// runs the bots; the model only renders what playerID is allowed to see and
// submits their moves.
type TUIModel struct {
	engine   *game.Engine
	playerID string
	logger   *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	state       game.Snapshot
	status      string
	statusErr   bool
	changes     chan struct{}
	unsubscribe func()
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width       int
	height      int
	initialized bool
}

// recentDiscards is how many of the latest discards the sidebar lists
const recentDiscards = 8

// changeMsg tells the model the engine state moved on
type changeMsg struct{}

// NewTUIModel creates a model for playerID, who must be seated in engine.
func NewTUIModel(engine *game.Engine, playerID string, logger *log.Logger) *TUIModel {
	// Sized properly once WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "play 0, discard 2, hint bob red, hint bob 3, restart, quit"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &TUIModel{
		engine:      engine,
		playerID:    playerID,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		changes:     make(chan struct{}, 1),
		focusedPane: 1,
	}

	m.unsubscribe = engine.OnChange(func() {
		select {
		case m.changes <- struct{}{}:
		default:
			// A refresh is already pending
		}
	})
	m.refresh()
	return m
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForChange())
}

// waitForChange returns a command that blocks until the engine changes
func (m *TUIModel) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return changeMsg{}
	}
}

// refresh reloads this player's view of the game
func (m *TUIModel) refresh() {
	probe := m.engine.Snapshot()
	seat := probe.PlayerIndex(m.playerID)
	m.state = m.engine.VisibleState(seat)

	m.logViewport.SetContent(m.renderLogPane())
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case changeMsg:
		m.refresh()
		cmds = append(cmds, m.waitForChange())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if cmd := m.processCommand(input); cmd != nil {
					return m, cmd
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *TUIModel) quit() tea.Cmd {
	m.quitting = true
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

// processCommand submits typed input as a move. Errors are shown in the
// action pane rather than ending the game.
func (m *TUIModel) processCommand(input string) tea.Cmd {
	switch strings.ToLower(input) {
	case "":
		return nil
	case "quit", "q", "exit":
		return m.quit()
	}

	move, err := game.ParseMove(m.state, m.playerID, input)
	if err == nil {
		err = m.engine.PerformMove(move)
	}
	if err != nil {
		m.logger.Debug("Move rejected", "input", input, "error", err)
		m.setStatus(err.Error(), true)
		return nil
	}

	m.setStatus(move.String(), false)
	m.refresh()
	return nil
}

func (m *TUIModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// State returns the view currently on screen
func (m *TUIModel) State() game.Snapshot {
	return m.state
}

// Status returns the last command feedback and whether it was an error
func (m *TUIModel) Status() (string, bool) {
	return m.status, m.statusErr
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent) + 2

	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(1)).
		Width(max(m.width-2, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 30)
	paneHeight := max(m.height-actionHeight-2, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight
	m.logViewport.SetContent(m.renderLogPane())

	// Start at the newest entries once there is room to show them
	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(0)).
		Width(m.logViewport.Width).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func (m *TUIModel) borderColor(pane int) lipgloss.Color {
	if m.focusedPane == pane {
		return lipgloss.Color("#04B575")
	}
	return lipgloss.Color("#626262")
}

func (m *TUIModel) renderLogPane() string {
	lines := make([]string, len(m.state.LogLines))
	for i, line := range m.state.LogLines {
		lines[i] = GameLogStyle.Render(line)
	}
	return strings.Join(lines, "\n")
}

// renderSidebarPane shows the shared table: tokens, fireworks and hands
func (m *TUIModel) renderSidebarPane() string {
	s := m.state
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(fmt.Sprintf(" Turn %d  Score %d/%d ", s.Turn, s.Score(), game.MaxScore)))
	b.WriteString("\n\n")

	b.WriteString(WarningStyle.Render(fmt.Sprintf("Hints %d/%d  Strikes %d/%d", s.Hints, game.MaxHints, s.Strikes, game.MaxStrikes)))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Deck %d  Discarded %d", s.DeckCount, len(s.Discard))))
	b.WriteString("\n")
	if len(s.Discard) > 0 {
		recent := s.Discard[max(len(s.Discard)-recentDiscards, 0):]
		b.WriteString("Discards " + m.formatCards(recent))
		b.WriteString("\n")
	}
	if s.FinalTurnsRemaining != nil && !s.Finished {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Final round: %d turns left", *s.FinalTurnsRemaining)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fireworks := make([]string, 0, deck.NumColors)
	for _, c := range deck.Colors {
		fireworks = append(fireworks, CardStyle(c).Render(fmt.Sprintf("%s%d", colorLetter(c), s.Fireworks[c])))
	}
	b.WriteString("Fireworks " + strings.Join(fireworks, " "))
	b.WriteString("\n\n")

	for i, p := range s.Players {
		name := p.Name
		if p.IsBot {
			name += " (bot)"
		}
		if p.ID == m.playerID {
			name += " (you)"
		}
		if i == s.CurrentPlayerIndex && !s.Finished {
			b.WriteString(CurrentPlayerStyle.Render("> " + name))
		} else {
			b.WriteString(PlayerInfoStyle.Render("  " + name))
		}
		b.WriteString("\n    ")
		if p.ID == m.playerID {
			b.WriteString(m.formatKnown(p.KnownInfo))
		} else {
			b.WriteString(m.formatCards(p.Hand))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderActionPane renders own hand knowledge, feedback and the input
func (m *TUIModel) renderActionPane() string {
	var b strings.Builder
	s := m.state

	switch {
	case s.Finished:
		b.WriteString(SuccessStyle.Render(fmt.Sprintf("Game over: %s. Final score %d/%d.", s.Outcome, s.Score(), game.MaxScore)))
		b.WriteString(" Type restart to play again.")
	case m.isMyTurn():
		me, _ := s.Player(m.playerID)
		b.WriteString(HandInfoStyle.Render("Your turn. Your hand: " + m.formatKnown(me.KnownInfo)))
	default:
		current, _ := s.CurrentPlayer()
		b.WriteString(HandInfoStyle.Render("Waiting for " + current.Name + "..."))
	}
	b.WriteString("\n")

	if m.status != "" {
		if m.statusErr {
			b.WriteString(ErrorStyle.Render(m.status))
		} else {
			b.WriteString(InfoStyle.Render(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.actionInput.View())
	b.WriteString("\n")

	if m.focusedPane == 0 {
		b.WriteString(InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		b.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}

	return b.String()
}

func (m *TUIModel) isMyTurn() bool {
	current, ok := m.state.CurrentPlayer()
	return ok && !m.state.Finished && current.ID == m.playerID
}

// formatCards renders visible cards coloured by suit
func (m *TUIModel) formatCards(cards []deck.Card) string {
	formatted := make([]string, len(cards))
	for i, card := range cards {
		formatted[i] = CardStyle(card.Color).Render(colorLetter(card.Color) + card.Rank.String())
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// formatKnown renders what a player has been told about each slot, with
// slot numbers for typing moves
func (m *TUIModel) formatKnown(known []game.KnownInfo) string {
	formatted := make([]string, len(known))
	for i, k := range known {
		formatted[i] = fmt.Sprintf("%d:", i) + CardStyle(k.Color).Render(colorLetter(k.Color)+k.Rank.String())
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func colorLetter(c deck.Color) string {
	if !c.Valid() {
		return "?"
	}
	return strings.ToUpper(c.String()[:1])
}
