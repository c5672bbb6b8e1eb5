package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nathoo/custodian/engine"
	"github.com/nathoo/custodian/types"
	"github.com/pixil98/go-testutil"
)

// testDefs returns minimal game definitions for CLI testing.
func testDefs() *types.Defs {
	return &types.Defs{
		Game: types.GameDef{
			Title:   "Test Game",
			Author:  "Test",
			Version: "1.0",
			Start:   "hall",
			Intro:   "Welcome to the test.",
		},
		Rooms: []types.RoomDef{
			{
				ID:          "hall",
				Name:        "HALL",
				Description: "A grand hall.",
				Exits:       map[string]types.ExitDef{"north": {RoomID: "garden"}},
			},
			{
				ID:          "garden",
				Name:        "GARDEN",
				Description: "A peaceful garden.",
				Exits:       map[string]types.ExitDef{"south": {RoomID: "hall"}},
			},
		},
		Items: []types.ItemDef{
			{ID: "key", Name: "rusty key", Description: "An old key.", Takeable: true, StartingRoom: "hall"},
		},
	}
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	g, err := engine.New(testDefs(), engine.Options{})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	var out bytes.Buffer
	c := &CLI{
		Game: g,
		In:   strings.NewReader(input),
		Out:  &out,
	}
	return c, &out
}

func run(t *testing.T, c *CLI) {
	t.Helper()
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestCLI_IntroAndStartingRoom(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	run(t, c)

	output := out.String()
	if !strings.Contains(output, "Welcome to Test Game") {
		t.Error("expected banner in output")
	}
	if !strings.Contains(output, "Welcome to the test.") {
		t.Error("expected intro text in output")
	}
	if !strings.Contains(output, "A grand hall.") {
		t.Error("expected starting room description in output")
	}
}

func TestCLI_Navigation(t *testing.T) {
	c, out := newTestCLI(t, "go north\n/quit\n")
	run(t, c)

	if !strings.Contains(out.String(), "A peaceful garden.") {
		t.Error("expected garden description after going north")
	}
	testutil.AssertEqual(t, "room", c.Game.State().CurrentRoom(), "garden")
}

func TestCLI_QuitCommandEndsLoop(t *testing.T) {
	c, out := newTestCLI(t, "quit\nlook\n")
	run(t, c)

	testutil.AssertEqual(t, "phase", c.Game.Phase(), engine.PhaseEnded)
	output := out.String()
	if !strings.Contains(output, "Thanks for playing Test Game!") {
		t.Error("expected farewell")
	}
	// The trailing look must not run after quitting.
	testutil.AssertEqual(t, "descriptions", strings.Count(output, "A grand hall."), 1)
}

func TestCLI_EOFEndsLoop(t *testing.T) {
	c, _ := newTestCLI(t, "take key")
	run(t, c)

	testutil.AssertEqual(t, "carried", c.Game.State().Inventory.Has("key"), true)
	testutil.AssertEqual(t, "still running", c.Game.Running(), true)
}

func TestCLI_ErrorLinesMarked(t *testing.T) {
	c, out := newTestCLI(t, "take unicorn\n/quit\n")
	run(t, c)

	if !strings.Contains(out.String(), `! You don't see any "unicorn" here.`) {
		t.Errorf("expected marked error line, got:\n%s", out.String())
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	run(t, c)

	output := out.String()
	for _, want := range []string{"/quit", "/state", "INVENTORY (I)"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in help output", want)
		}
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	c, out := newTestCLI(t, "go north\nsave 2\nsouth\nload 2\n/quit\n")
	run(t, c)

	output := out.String()
	if !strings.Contains(output, "Game saved to slot 2.") {
		t.Error("expected save confirmation")
	}
	if !strings.Contains(output, "Game loaded from slot 2.") {
		t.Error("expected load confirmation")
	}
	testutil.AssertEqual(t, "room after load", c.Game.State().CurrentRoom(), "garden")
}

func TestCLI_LoadEmptySlot(t *testing.T) {
	c, out := newTestCLI(t, "load 3\n/quit\n")
	run(t, c)

	if !strings.Contains(out.String(), "! ") {
		t.Errorf("expected an error line, got:\n%s", out.String())
	}
	testutil.AssertEqual(t, "room", c.Game.State().CurrentRoom(), "hall")
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n/quit\n")
	run(t, c)

	if !strings.Contains(out.String(), "Unknown command: /bogus") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\ntake unicorn\n/trace\nlook\n/quit\n")
	run(t, c)

	output := out.String()
	if !strings.Contains(output, "Trace output enabled") {
		t.Error("expected trace enabled message")
	}
	if !strings.Contains(output, "Trace output disabled") {
		t.Error("expected trace disabled message")
	}
	if !strings.Contains(output, "[trace] not found:") {
		t.Errorf("expected error kind in trace, got:\n%s", output)
	}
	testutil.AssertEqual(t, "traced turns", strings.Count(output, "[trace] ok="), 1)
}

func TestCLI_StateCommand(t *testing.T) {
	c, out := newTestCLI(t, "take key\n/state\n/quit\n")
	run(t, c)

	output := out.String()
	for _, want := range []string{"[Location: hall]", "[Moves: ", "[Inventory: [key]]", "[Phase: running]"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in state output", want)
		}
	}
}

func TestCLI_SkipsBlankAndCommentLines(t *testing.T) {
	c, out := newTestCLI(t, "\n# take key\n\n/quit\n")
	c.EchoInput = true
	run(t, c)

	testutil.AssertEqual(t, "key untouched", c.Game.State().Inventory.Has("key"), false)
	if strings.Contains(out.String(), "# take key") {
		t.Error("comment lines should not be echoed")
	}
}

func TestCLI_EchoInput(t *testing.T) {
	c, out := newTestCLI(t, "inventory\n/quit\n")
	c.EchoInput = true
	run(t, c)

	if !strings.Contains(out.String(), "> inventory\n") {
		t.Errorf("expected echoed input after prompt, got:\n%s", out.String())
	}
}

func TestCLI_Again(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "again", input: "look\nagain\n/quit\n"},
		{name: "g", input: "look\ng\n/quit\n"},
		{name: "uppercase", input: "look\nAGAIN\n/quit\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := newTestCLI(t, tt.input)
			run(t, c)
			// Start, look and the repeat each describe the hall.
			testutil.AssertEqual(t, "descriptions", strings.Count(out.String(), "A grand hall."), 3)
		})
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, "again\n/quit\n")
	run(t, c)

	if !strings.Contains(out.String(), "Nothing to repeat") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
}

func TestCLI_Wrap(t *testing.T) {
	c := &CLI{Width: 12}
	got := c.wrap("the quick brown fox jumps")
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 12 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	testutil.AssertEqual(t, "unwrapped", (&CLI{}).wrap("the quick brown fox"), "the quick brown fox")
}
