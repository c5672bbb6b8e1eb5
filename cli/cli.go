// Package cli provides a plain line-oriented front end for the custodian
// engine: it reads one command per line and prints narrated output.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/nathoo/custodian/engine"
	"github.com/nathoo/custodian/engine/errs"
	"github.com/nathoo/custodian/types"
)

// DefaultWidth is the wrap column used by New.
const DefaultWidth = 80

// CLI handles terminal interaction with the player.
type CLI struct {
	Game      *engine.Game
	In        io.Reader
	Out       io.Writer
	Width     int  // wrap column; 0 disables wrapping
	Trace     bool // print outcome details after each turn
	EchoInput bool // echo each input line after the prompt (for script playback)
	lastCmd   string
}

// New creates a CLI wired to g on stdin/stdout.
func New(g *engine.Game) *CLI {
	return &CLI{
		Game:  g,
		In:    os.Stdin,
		Out:   os.Stdout,
		Width: DefaultWidth,
	}
}

// Run starts the game if needed and loops prompt, input, dispatch until the
// player quits or input runs out.
func (c *CLI) Run() error {
	c.Game.SetSink(engine.SinkFunc(c.emit))
	c.Game.Start()

	scanner := bufio.NewScanner(c.In)
	for c.Game.Phase() != engine.PhaseEnded {
		c.print("> ")
		if !scanner.Scan() {
			c.printLine("")
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Comment lines in script files.
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return nil
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		out := c.Game.HandleCommand(input)
		if c.Trace {
			c.printTrace(out)
		}
	}
	return scanner.Err()
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit    Exit immediately",
		"  /help    Show this help",
		"  /state   Debug: dump current state",
		"  /trace   Toggle outcome tracing",
		"  again, g Repeat your last command",
		"",
	}
	for _, line := range help {
		c.printLine(line)
	}
	c.Game.HandleCommand("help")
}

func (c *CLI) cmdState() {
	st := c.Game.State()
	c.printSystem(fmt.Sprintf("Phase: %s", c.Game.Phase()))
	c.printSystem(fmt.Sprintf("Moves: %d", st.Moves()))
	c.printSystem(fmt.Sprintf("Location: %s", st.CurrentRoom()))
	c.printSystem(fmt.Sprintf("Score: %d / %d", st.Score(), st.MaxScore()))
	c.printSystem(fmt.Sprintf("Inventory: %v", st.Inventory.IDs()))
	rng := c.Game.Session.RNG
	c.printSystem(fmt.Sprintf("RNG: seed %d, %d draws", rng.Seed(), rng.Position()))
	if flags := st.Flags(); len(flags) > 0 {
		parts := make([]string, 0, len(flags))
		for _, k := range slices.Sorted(maps.Keys(flags)) {
			parts = append(parts, fmt.Sprintf("%s=%v", k, flags[k]))
		}
		c.printSystem("Flags: " + strings.Join(parts, " "))
	}
}

func (c *CLI) printTrace(out types.Outcome) {
	c.printLine(fmt.Sprintf("[trace] ok=%t", out.OK))
	if out.Err != nil {
		c.printLine(fmt.Sprintf("[trace] %s: %v", errs.KindOf(out.Err), out.Err))
	}
}

// emit is the game's sink. Error lines are marked with "! ".
func (c *CLI) emit(line types.Line) {
	text := line.Text
	if line.Style == types.StyleError && text != "" {
		text = "! " + text
	}
	c.printLine(c.wrap(text))
}

func (c *CLI) wrap(text string) string {
	if c.Width <= 0 {
		return text
	}
	return wordwrap.String(text, c.Width)
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
