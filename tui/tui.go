// Package tui provides a Bubble Tea terminal UI for the custodian engine.
package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/custodian/engine"
	"github.com/nathoo/custodian/engine/errs"
	"github.com/nathoo/custodian/engine/parser"
	"github.com/nathoo/custodian/types"
)

// rawLine stores an unwrapped output line with its style, so we can
// re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	style    types.Style
	isInput  bool // echoed player input
	isSystem bool // front-end message, not engine output
}

// Model is the Bubble Tea model for the custodian TUI.
type Model struct {
	game *engine.Game
	out  *engine.Buffer

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine
	intro    []types.Line
	farewell []types.Line // output of the turn that ended the game

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
}

// gameOutputMsg carries one turn's output into the Update loop.
type gameOutputMsg struct {
	input  string       // echoed player input (empty for intro)
	lines  []types.Line // engine output
	system []string     // front-end messages
}

// New creates a TUI model wired to g. The game is started here so its
// opening narration is ready for Init.
func New(g *engine.Game) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	buf := &engine.Buffer{}
	g.SetSink(buf)
	g.Start()

	return Model{
		game:    g,
		out:     buf,
		input:   ti,
		history: NewHistory(100),
		intro:   buf.Drain(),
	}
}

// Run starts the Bubble Tea program. When the player quits through the
// game, the farewell is printed once the alternate screen is gone.
func Run(g *engine.Game) error {
	p := tea.NewProgram(New(g), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		for _, l := range m.farewell {
			fmt.Println(l.Text)
		}
	}
	return nil
}

// Init returns the initial command that shows the opening narration.
func (m Model) Init() tea.Cmd {
	intro := m.intro
	return tea.Batch(textinput.Blink, func() tea.Msg {
		return gameOutputMsg{lines: intro}
	})
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := max(m.height-2, 1) // 1 status bar + 1 input line

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(m.input.Value()); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			}
			return m, nil

		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case tea.MouseMsg:
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, vpCmd

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	return m, inputCmd
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)

	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{input: input, system: []string{"Nothing to repeat."}})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, system: output})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	out := m.game.HandleCommand(input)
	msg := gameOutputMsg{input: input, lines: m.out.Drain()}
	if m.trace {
		msg.system = formatTrace(out)
	}
	if m.game.Phase() == engine.PhaseEnded {
		m.farewell = msg.lines
		m.quitting = true
		return m, tea.Quit
	}
	m = m.appendOutput(msg)
	return m, nil
}

// appendOutput adds a turn to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, l := range msg.lines {
		m.rawLines = append(m.rawLines, rawLine{text: l.Text, style: l.Style})
	}
	for _, s := range msg.system {
		m.rawLines = append(m.rawLines, rawLine{text: s, isSystem: true})
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := max(m.width, 10)

	styled := make([]string, 0, len(m.rawLines))
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderStyled(wrapped, rl.style))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdHelp() []string {
	help := []string{
		"System:",
		"  /quit    Exit immediately",
		"  /help    Show this help",
		"  /state   Debug: dump current state",
		"  /trace   Toggle outcome tracing",
		"  again, g Repeat your last command",
		"",
	}
	help = append(help, parser.HelpText()...)
	return append(help, "", "Navigation: PgUp/PgDn to scroll, Up/Down for command history")
}

func (m *Model) cmdState() []string {
	st := m.game.State()
	output := []string{
		fmt.Sprintf("Phase: %s", m.game.Phase()),
		fmt.Sprintf("Moves: %d", st.Moves()),
		fmt.Sprintf("Location: %s", st.CurrentRoom()),
		fmt.Sprintf("Score: %d / %d", st.Score(), st.MaxScore()),
		fmt.Sprintf("Inventory: %v", st.Inventory.IDs()),
		fmt.Sprintf("RNG: seed %d, %d draws", m.game.Session.RNG.Seed(), m.game.Session.RNG.Position()),
	}
	if flags := st.Flags(); len(flags) > 0 {
		parts := make([]string, 0, len(flags))
		for _, k := range slices.Sorted(maps.Keys(flags)) {
			parts = append(parts, fmt.Sprintf("%s=%v", k, flags[k]))
		}
		output = append(output, "Flags: "+strings.Join(parts, " "))
	}
	return output
}

func formatTrace(out types.Outcome) []string {
	lines := []string{fmt.Sprintf("[trace] ok=%t", out.OK)}
	if out.Err != nil {
		lines = append(lines, fmt.Sprintf("[trace] %s: %v", errs.KindOf(out.Err), out.Err))
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
