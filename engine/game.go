// Package engine provides the Game orchestrator that wires parsed commands
// to entity hooks, state mutations and narrated output, one turn at a time.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nathoo/custodian/engine/errs"
	"github.com/nathoo/custodian/engine/inventory"
	"github.com/nathoo/custodian/engine/parser"
	"github.com/nathoo/custodian/engine/save"
	"github.com/nathoo/custodian/engine/state"
	"github.com/nathoo/custodian/engine/world"
	"github.com/nathoo/custodian/types"
)

// Phase is the lifecycle stage of a game.
type Phase int

const (
	PhaseIdle     Phase = iota // built, not started
	PhaseRunning               // accepting commands
	PhaseGameOver              // story concluded; only quit works
	PhaseEnded                 // player quit
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game over"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Flag keys owned by the engine.
const (
	FlagGameWon     = "game_won"
	FlagEndingShown = "ending_shown"
)

const rule = "═══════════════════════════════════════════"

// Options configures a Game. Zero values pick sensible defaults.
type Options struct {
	Store        save.Store       // default: in-memory
	Sink         Sink             // default: discard
	Logger       *slog.Logger     // default: discard
	Seed         int64            // RNG seed
	MaxInventory int              // overrides GameDef.MaxInventory when > 0
	Clock        func() time.Time // default: time.Now
}

// LoadHook re-applies world changes derived from flags after a saved game
// is restored. Saves only carry the state ledger, not entity mutations.
type LoadHook func(ctx world.Context)

// handler runs one verb. parseErr is whatever the parser reported
// alongside a recognized verb.
type handler func(g *Game, cmd types.Command, parseErr error) types.Outcome

// Game is a single interactive session.
type Game struct {
	Defs    *types.Defs
	Session *Session

	phase    Phase
	sink     Sink
	log      *slog.Logger
	handlers map[string]handler
	onLoad   LoadHook
}

// New builds the world from defs and returns an idle game. Hooks can be
// installed on g.World() before Start.
func New(defs *types.Defs, opts Options) (*Game, error) {
	w, err := world.Build(defs)
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}
	if w.Room(defs.Game.Start) == nil {
		return nil, fmt.Errorf("start room %q does not exist", defs.Game.Start)
	}

	if opts.Store == nil {
		opts.Store = save.NewMemoryStore()
	}
	if opts.Sink == nil {
		opts.Sink = discard{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	capacity := defs.Game.MaxInventory
	if opts.MaxInventory > 0 {
		capacity = opts.MaxInventory
	}

	id := uuid.New().String()
	stateOpts := []state.Option{
		state.WithMaxScore(defs.Game.MaxScore),
		state.WithSessionID(id),
		state.WithLogger(opts.Logger),
	}
	if opts.Clock != nil {
		stateOpts = append(stateOpts, state.WithClock(opts.Clock))
	}

	g := &Game{
		Defs: defs,
		Session: &Session{
			ID:    id,
			World: w,
			State: state.New(defs.Game.Start, inventory.New(capacity), opts.Store, stateOpts...),
			RNG:   NewRNG(opts.Seed),
		},
		sink: opts.Sink,
		log:  opts.Logger.With("session", id),
	}
	g.handlers = defaultHandlers()
	return g, nil
}

// SetLoadHook installs h to run after every successful load and returns
// the previous hook.
func (g *Game) SetLoadHook(h LoadHook) LoadHook {
	prev := g.onLoad
	g.onLoad = h
	return prev
}

// World returns the live entity graph.
func (g *Game) World() *world.World { return g.Session.World }

// State returns the session ledger.
func (g *Game) State() *state.GameState { return g.Session.State }

// Phase returns the current lifecycle stage.
func (g *Game) Phase() Phase { return g.phase }

// Running reports whether the game accepts gameplay commands.
func (g *Game) Running() bool { return g.phase == PhaseRunning }

// SetSink redirects output.
func (g *Game) SetSink(s Sink) {
	if s == nil {
		s = discard{}
	}
	g.sink = s
}

// Start moves the game from idle to running, prints the banner and looks
// around. Calling it again does nothing.
func (g *Game) Start() {
	if g.phase != PhaseIdle {
		return
	}
	g.phase = PhaseRunning
	g.log.Info("game started", "title", g.Defs.Game.Title, "start", g.Defs.Game.Start, "seed", g.Session.RNG.Seed())

	title := g.Defs.Game.Title
	if title == "" {
		title = "Untitled Adventure"
	}
	g.say(rule, types.StyleSystem)
	g.say("Welcome to "+title, types.StyleRoomTitle)
	if g.Defs.Game.Author != "" {
		g.say("by "+g.Defs.Game.Author, types.StyleSystem)
	}
	g.say(rule, types.StyleSystem)
	if g.Defs.Game.Intro != "" {
		g.say("", types.StylePlain)
		g.say(g.Defs.Game.Intro, types.StyleDescription)
	}
	g.say("", types.StylePlain)
	g.look()
}

// HandleCommand runs one turn.
func (g *Game) HandleCommand(input string) types.Outcome {
	switch g.phase {
	case PhaseIdle:
		return types.Outcome{Message: "Game not started."}
	case PhaseEnded:
		return types.Outcome{Message: "The game has ended."}
	}

	cmd, parseErr := parser.Parse(input)
	g.log.Debug("turn", "input", cmd.Raw, "verb", cmd.Verb, "noun", cmd.Noun, "target", cmd.Target)

	if g.phase == PhaseGameOver && cmd.Verb != "quit" {
		return g.notice("The game is over. Type QUIT to exit.")
	}

	if cmd.Verb == "" {
		return g.fail(parseErr)
	}

	h, ok := g.handlers[cmd.Verb]
	if !ok {
		err := errs.Newf(errs.KindInternal, "no handler for verb %q", cmd.Verb)
		g.log.Error("dispatch failed", "verb", cmd.Verb, "error", err)
		g.say("Something went wrong. Try another command.", types.StyleError)
		return types.Outcome{Message: err.Msg, Err: err}
	}

	out := h(g, cmd, parseErr)
	g.checkEnding()
	return out
}

// EndGame concludes the story immediately with message.
func (g *Game) EndGame(victory bool, message string) {
	if g.phase != PhaseRunning {
		return
	}
	st := g.State()
	if victory {
		st.SetFlag(FlagGameWon, true)
	}
	st.SetFlag(FlagEndingShown, true)

	heading := "GAME OVER"
	if victory {
		heading = "CONGRATULATIONS!"
	}
	g.say(rule, types.StyleSystem)
	g.say(heading, types.StyleRoomTitle)
	g.say(rule, types.StyleSystem)
	g.say(message, types.StyleDescription)
	g.say("", types.StylePlain)
	g.stats()
	g.phase = PhaseGameOver
	g.log.Info("game over", "victory", victory, "score", st.Score(), "moves", st.Moves())
}

// checkEnding plays the ending sequence the first time game_won is set.
func (g *Game) checkEnding() {
	st := g.State()
	if g.phase != PhaseRunning || !st.HasFlag(FlagGameWon) || st.HasFlag(FlagEndingShown) {
		return
	}
	st.SetFlag(FlagEndingShown, true)

	g.say("", types.StylePlain)
	g.say(rule, types.StyleSystem)
	ending := g.Defs.Game.Ending
	if len(ending) == 0 {
		ending = []string{"You have completed your mission. Well done."}
	}
	for _, para := range ending {
		g.say(para, types.StyleDescription)
		g.say("", types.StylePlain)
	}
	g.say(rule, types.StyleSystem)
	g.say("THE END", types.StyleRoomTitle)
	g.say(rule, types.StyleSystem)
	g.stats()
	g.say("Thank you for playing!", types.StyleRoomTitle)

	g.phase = PhaseGameOver
	g.log.Info("game won", "score", st.Score(), "moves", st.Moves(), "time", st.FormattedTime())
}

// stats prints final score, moves and play time.
func (g *Game) stats() {
	st := g.State()
	g.say(fmt.Sprintf("Final score: %d / %d", st.Score(), st.MaxScore()), types.StyleSystem)
	g.say(fmt.Sprintf("Moves: %d", st.Moves()), types.StyleSystem)
	g.say("Time: "+st.FormattedTime(), types.StyleSystem)
}

func (g *Game) say(text string, style types.Style) {
	g.sink.Emit(types.Line{Text: text, Style: style})
}

// succeed narrates a successful action.
func (g *Game) succeed(msg string, style types.Style) types.Outcome {
	g.say(msg, style)
	return types.Outcome{OK: true, Message: msg}
}

// notice narrates a message that is neither success nor error.
func (g *Game) notice(msg string) types.Outcome {
	g.say(msg, types.StyleDescription)
	return types.Outcome{Message: msg}
}

// fail narrates err and returns it as the outcome.
func (g *Game) fail(err error) types.Outcome {
	msg := errs.Message(err)
	switch errs.KindOf(err) {
	case errs.KindPersistence:
		g.log.Warn("persistence failure", "error", err)
	case errs.KindInternal, errs.KindUnknown:
		g.log.Error("engine error", "error", err)
	}
	g.say(msg, types.StyleError)
	return types.Outcome{Message: msg, Err: err}
}

// refuse narrates a rejected action. Nothing was mutated.
func (g *Game) refuse(kind errs.Kind, msg string) types.Outcome {
	return g.fail(errs.New(kind, msg))
}
