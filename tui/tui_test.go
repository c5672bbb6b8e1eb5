package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nathoo/custodian/engine"
	"github.com/nathoo/custodian/types"
	"github.com/pixil98/go-testutil"
)

// testDefs returns minimal game definitions for TUI testing.
func testDefs() *types.Defs {
	return &types.Defs{
		Game: types.GameDef{
			Title:    "Test Game",
			Author:   "Test",
			Start:    "hall",
			Intro:    "Welcome to the test.",
			MaxScore: 50,
		},
		Rooms: []types.RoomDef{
			{
				ID:          "hall",
				Name:        "GREAT HALL",
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

func newTestModel(t *testing.T) Model {
	t.Helper()
	g, err := engine.New(testDefs(), engine.Options{})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return New(g)
}

// sized delivers a window size so the viewport exists.
func sized(t *testing.T, m Model, width, height int) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return next.(Model)
}

// submit types input and presses enter.
func submit(t *testing.T, m Model, input string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(input)
	next, cmd := m.handleEnter()
	return next.(Model), cmd
}

func rawText(m Model) string {
	texts := make([]string, len(m.rawLines))
	for i, rl := range m.rawLines {
		texts[i] = rl.text
	}
	return strings.Join(texts, "\n")
}

func TestNew_StartsGame(t *testing.T) {
	m := newTestModel(t)

	testutil.AssertEqual(t, "running", m.game.Running(), true)
	var intro []string
	for _, l := range m.intro {
		intro = append(intro, l.Text)
	}
	joined := strings.Join(intro, "\n")
	for _, want := range []string{"Welcome to Test Game", "Welcome to the test.", "A grand hall."} {
		if !strings.Contains(joined, want) {
			t.Errorf("intro missing %q", want)
		}
	}
	testutil.AssertEqual(t, "buffer drained", len(m.out.Lines()), 0)
}

func TestInit_DeliversIntro(t *testing.T) {
	m := sized(t, newTestModel(t), 80, 24)

	next, _ := m.Update(gameOutputMsg{lines: m.intro})
	m = next.(Model)
	if !strings.Contains(rawText(m), "GREAT HALL") {
		t.Errorf("expected room title in narrative, got:\n%s", rawText(m))
	}
	if !strings.Contains(m.View(), "A grand hall.") {
		t.Error("expected description in view")
	}
}

func TestHandleEnter_GameCommand(t *testing.T) {
	m := sized(t, newTestModel(t), 80, 24)

	m, cmd := submit(t, m, "take key")
	if cmd != nil {
		t.Error("game command should not return a tea command")
	}
	testutil.AssertEqual(t, "carried", m.game.State().Inventory.Has("key"), true)
	text := rawText(m)
	if !strings.Contains(text, "> take key") {
		t.Error("expected echoed input")
	}
	if !strings.Contains(text, "You take the rusty key.") {
		t.Errorf("expected take message, got:\n%s", text)
	}
	testutil.AssertEqual(t, "history", m.history.Len(), 1)
	testutil.AssertEqual(t, "input cleared", m.input.Value(), "")
}

func TestHandleEnter_EmptyInput(t *testing.T) {
	m := sized(t, newTestModel(t), 80, 24)
	before := len(m.rawLines)

	m, _ = submit(t, m, "   ")
	testutil.AssertEqual(t, "no output", len(m.rawLines), before)
	testutil.AssertEqual(t, "no history", m.history.Len(), 0)
}

func TestHandleEnter_Again(t *testing.T) {
	m := sized(t, newTestModel(t), 80, 24)

	m, _ = submit(t, m, "again")
	if !strings.Contains(rawText(m), "Nothing to repeat.") {
		t.Error("expected nothing to repeat")
	}

	m, _ = submit(t, m, "north")
	m, _ = submit(t, m, "g")
	testutil.AssertEqual(t, "repeat of north fails in garden", m.game.State().CurrentRoom(), "garden")
	testutil.AssertEqual(t, "moves", m.game.State().Moves() >= 1, true)
}

func TestHandleEnter_GameQuit(t *testing.T) {
	m := sized(t, newTestModel(t), 80, 24)

	m, cmd := submit(t, m, "quit")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	testutil.AssertEqual(t, "quitting", m.quitting, true)
	testutil.AssertEqual(t, "view empty", m.View(), "")
	if len(m.farewell) == 0 || !strings.Contains(m.farewell[0].Text, "Thanks for playing Test Game!") {
		t.Errorf("farewell = %v", m.farewell)
	}
}

func TestHandleEnter_MetaQuit(t *testing.T) {
	m := sized(t, newTestModel(t), 80, 24)

	m, cmd := submit(t, m, "/quit")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	testutil.AssertEqual(t, "quitting", m.quitting, true)
	testutil.AssertEqual(t, "no farewell", len(m.farewell), 0)
}

func TestHandleEnter_Trace(t *testing.T) {
	m := sized(t, newTestModel(t), 80, 24)

	m, _ = submit(t, m, "/trace")
	m, _ = submit(t, m, "take unicorn")
	text := rawText(m)
	if !strings.Contains(text, "[trace] ok=false") {
		t.Errorf("expected trace line, got:\n%s", text)
	}
	if !strings.Contains(text, "[trace] not found:") {
		t.Errorf("expected error kind, got:\n%s", text)
	}
}

func TestStatusBar(t *testing.T) {
	m := sized(t, newTestModel(t), 100, 24)

	bar := m.renderStatusBar()
	for _, want := range []string{"GREAT HALL", "Exits: north", "Score: 0/50", "Moves: 0"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar %q missing %q", bar, want)
		}
	}

	m, _ = submit(t, m, "take key")
	if bar := m.renderStatusBar(); !strings.Contains(bar, "Inv: rusty key") {
		t.Errorf("status bar %q missing inventory", bar)
	}

	narrow := sized(t, m, 60, 24)
	if bar := narrow.renderStatusBar(); !strings.Contains(bar, "Inv: 1") {
		t.Errorf("narrow status bar %q should show a count", bar)
	}
}

func TestView_Loading(t *testing.T) {
	m := newTestModel(t)
	testutil.AssertEqual(t, "before size", m.View(), "Loading...")
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{name: "fits", text: "short line", width: 20, want: "short line"},
		{name: "breaks", text: "the quick brown fox", width: 10, want: "the quick\nbrown fox"},
		{name: "no width", text: "the quick brown fox", width: 0, want: "the quick brown fox"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, "wrapped", wrap(tt.text, tt.width), tt.want)
		})
	}
}

func TestRenderStyled_KeepsText(t *testing.T) {
	styles := []types.Style{
		types.StylePlain, types.StyleSystem, types.StyleRoomTitle, types.StyleDescription,
		types.StyleItems, types.StyleExits, types.StyleError, types.StyleSuccess, types.StyleDialogue,
	}
	for _, s := range styles {
		if got := renderStyled("hello there", s); !strings.Contains(got, "hello there") {
			t.Errorf("style %q lost text: %q", s, got)
		}
	}
	if got := styledItems("You can see: mop, bucket."); !strings.Contains(got, "mop, bucket.") {
		t.Errorf("styledItems = %q", got)
	}
	if got := styledSystemMsg("Goodbye."); !strings.Contains(got, "[Goodbye.]") {
		t.Errorf("styledSystemMsg = %q", got)
	}
}

func TestHistory_PrevNext(t *testing.T) {
	h := NewHistory(10)
	h.Push("look")
	h.Push("take key")
	h.Push("north")

	got, ok := h.Prev("dr")
	testutil.AssertEqual(t, "prev ok", ok, true)
	testutil.AssertEqual(t, "newest", got, "north")
	got, _ = h.Prev("")
	testutil.AssertEqual(t, "second", got, "take key")
	got, _ = h.Prev("")
	testutil.AssertEqual(t, "oldest", got, "look")
	got, _ = h.Prev("")
	testutil.AssertEqual(t, "stays at oldest", got, "look")

	got, _ = h.Next()
	testutil.AssertEqual(t, "next", got, "take key")
	got, _ = h.Next()
	testutil.AssertEqual(t, "next", got, "north")
	got, ok = h.Next()
	testutil.AssertEqual(t, "draft ok", ok, true)
	testutil.AssertEqual(t, "draft", got, "dr")

	_, ok = h.Next()
	testutil.AssertEqual(t, "not navigating", ok, false)
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(10)
	_, ok := h.Prev("x")
	testutil.AssertEqual(t, "prev", ok, false)
	_, ok = h.Next()
	testutil.AssertEqual(t, "next", ok, false)
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(3)
	for _, c := range []string{"a", "b", "c", "d", "e"} {
		h.Push(c)
	}
	testutil.AssertEqual(t, "len", h.Len(), 3)

	var got []string
	for {
		s, _ := h.Prev("")
		if len(got) > 0 && got[len(got)-1] == s {
			break
		}
		got = append(got, s)
	}
	testutil.AssertEqual(t, "entries", strings.Join(got, ","), "e,d,c")
}

func TestHistory_NoConsecutiveDuplicates(t *testing.T) {
	h := NewHistory(10)
	h.Push("look")
	h.Push("look")
	h.Push("north")
	h.Push("look")
	testutil.AssertEqual(t, "len", h.Len(), 3)
}

func TestHistory_PushResets(t *testing.T) {
	h := NewHistory(10)
	h.Push("look")
	h.Push("north")
	h.Prev("")
	h.Prev("")

	h.Push("south")
	got, _ := h.Prev("")
	testutil.AssertEqual(t, "newest after push", got, "south")
}

func TestHandleMeta(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantQuit bool
		want     string
	}{
		{name: "quit", input: "/quit", wantQuit: true, want: "Goodbye."},
		{name: "exit", input: "/exit", wantQuit: true, want: "Goodbye."},
		{name: "help", input: "/help", want: "INVENTORY (I)"},
		{name: "state", input: "/state", want: "Location: hall"},
		{name: "unknown", input: "/bogus", want: "Unknown command: /bogus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			output, quit := m.handleMeta(tt.input)
			testutil.AssertEqual(t, "quit", quit, tt.wantQuit)
			if joined := strings.Join(output, "\n"); !strings.Contains(joined, tt.want) {
				t.Errorf("output %q missing %q", joined, tt.want)
			}
		})
	}
}

func TestHandleMeta_TraceToggle(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/trace")
	testutil.AssertEqual(t, "enabled", m.trace, true)
	testutil.AssertEqual(t, "message", output[0], "Trace output enabled.")

	output, _ = m.handleMeta("/trace")
	testutil.AssertEqual(t, "disabled", m.trace, false)
	testutil.AssertEqual(t, "message", output[0], "Trace output disabled.")
}
