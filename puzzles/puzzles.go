// Package puzzles wires the Cosmic Custodian puzzle logic onto a built
// world. Content files declare rooms, items and characters; this package
// installs the hooks that make them interact.
//
// Every puzzle records its progress as a flag. The world changes a flag
// implies are applied by a sync function that both the hooks and Restore
// call, so a loaded game ends up with the same world as a played one.
package puzzles

import (
	"fmt"

	"github.com/nathoo/custodian/engine"
	"github.com/nathoo/custodian/engine/world"
	"github.com/pixil98/go-errors"
)

// Room IDs.
const (
	CargoBay      = "cargo-bay-7"
	CargoCorridor = "cargo-corridor"
	MainCorridor  = "main-corridor"
	MedicalBay    = "medical-bay"
	Bridge        = "bridge"
)

// Item IDs.
const (
	Mop                = "mop"
	KeycardCargo       = "keycard-cargo"
	KeycardEngineering = "keycard-engineering"
	Solvent            = "solvent"
	SmellingSalts      = "smelling-salts"
	Coffee             = "coffee"
	PersonalityChip    = "personality-chip"
)

// Character IDs.
const (
	Patchwell = "dr-patchwell"
	Dusty     = "dusty"
)

// Feature names used as use targets.
const (
	featureShelf     = "shelf"
	featureReader    = "reader"
	featureGoo       = "goo"
	featurePanel     = "panel"
	featureDiscoBall = "disco ball"
)

// Progress flags.
const (
	FlagKeycardDown     = "keycard_knocked_down"
	FlagBulkheadOpen    = "cargo_bulkhead_open"
	FlagGooDissolved    = "goo_dissolved"
	FlagPatchwellAwake  = "patchwell_awake"
	FlagCoffeeDelivered = "coffee_delivered"
	FlagLiftOpen        = "ballroom_lift_open"
	FlagChipFound       = "chip_found"
	FlagDustyRepaired   = "dusty_repaired"
)

// Character states.
const (
	stateUnconscious = "unconscious"
	stateAwake       = "awake"
	stateHelped      = "helped"
	stateCorrupted   = "corrupted"
	stateRepaired    = "repaired"
)

// Exits opened by puzzles.
var (
	bulkheadExit = exitRef{room: CargoCorridor, dir: "north"}
	gooExit      = exitRef{room: MainCorridor, dir: "west"}
	liftExit     = exitRef{room: Bridge, dir: "down"}
)

type exitRef struct {
	room string
	dir  string
}

// set applies a lock state to the exit if it exists.
func (e exitRef) set(ctx world.Context, open bool) {
	r := ctx.Room(e.room)
	if r == nil {
		return
	}
	if open {
		r.Unlock(e.dir)
	} else {
		r.Lock(e.dir)
	}
}

// itemText is the as-authored text of an item a puzzle rewrites.
type itemText struct {
	description string
	refusal     string
}

// Puzzles holds the installed puzzle set and the authored text it needs
// to put the world back when a load rewinds progress.
type Puzzles struct {
	w *world.World

	keycard itemText
	goo     string
}

// Install attaches the puzzle hooks to w. Every entity the puzzles touch
// must exist; missing ones are reported together.
func Install(w *world.World) (*Puzzles, error) {
	if err := check(w); err != nil {
		return nil, err
	}

	kc := w.ItemByID(KeycardCargo)
	p := &Puzzles{
		w:       w,
		keycard: itemText{description: kc.Description, refusal: kc.RefusalMessage},
		goo:     w.Room(MainCorridor).Features[featureGoo],
	}

	w.ItemByID(Mop).SetUseHook(p.useMop)
	kc.SetExamineHook(p.examineKeycard)
	kc.SetUseHook(p.useCargoKeycard)
	w.ItemByID(Solvent).SetUseHook(p.useSolvent)
	w.ItemByID(SmellingSalts).SetUseHook(p.useSalts)
	w.ItemByID(KeycardEngineering).SetUseHook(p.useEngineeringKeycard)
	w.ItemByID(PersonalityChip).SetUseHook(p.useChip)

	doc := w.Character(Patchwell)
	var next world.GiveHook
	next = doc.SetGiveHook(func(c *world.Character, itemID string, ctx world.Context) world.GiveResult {
		return p.giveToPatchwell(c, itemID, ctx, next)
	})

	return p, nil
}

func check(w *world.World) error {
	el := errors.NewErrorList()
	for _, id := range []string{CargoBay, CargoCorridor, MainCorridor, MedicalBay, Bridge} {
		if w.Room(id) == nil {
			el.Add(fmt.Errorf("puzzles: missing room %q", id))
		}
	}
	for _, id := range []string{Mop, KeycardCargo, KeycardEngineering, Solvent, SmellingSalts, Coffee, PersonalityChip} {
		if w.ItemByID(id) == nil {
			el.Add(fmt.Errorf("puzzles: missing item %q", id))
		}
	}
	for _, id := range []string{Patchwell, Dusty} {
		if w.Character(id) == nil {
			el.Add(fmt.Errorf("puzzles: missing character %q", id))
		}
	}
	return el.Err()
}

// Restore re-applies every flag-derived world change. It is meant to be
// installed with engine.Game.SetLoadHook.
func (p *Puzzles) Restore(ctx world.Context) {
	p.syncKeycard(ctx)
	bulkheadExit.set(ctx, ctx.HasFlag(FlagBulkheadOpen))
	p.syncGoo(ctx)
	p.syncPatchwell(ctx)
	if ctx.HasFlag(FlagCoffeeDelivered) {
		p.placeIfLost(ctx, KeycardEngineering, MedicalBay)
	}
	liftExit.set(ctx, ctx.HasFlag(FlagLiftOpen))
	p.syncChip(ctx)
	p.syncDusty(ctx)
}

// Cargo bay: knock the keycard off the shelf with the mop.

func (p *Puzzles) useMop(it *world.Item, target world.Target, ctx world.Context) world.Result {
	if target == nil {
		return world.Result{Message: "You wave your mop around experimentally. It feels good, but accomplishes nothing. Story of your life, really."}
	}
	switch target.TargetID() {
	case featureShelf, KeycardCargo:
		return p.knockDownKeycard(ctx)
	case featureDiscoBall:
		return p.knockDownChip(ctx)
	}
	return world.Result{Message: fmt.Sprintf(
		"You contemplate mopping the %s, but decide against it. There are bigger messes to deal with right now.",
		target.TargetName())}
}

func (p *Puzzles) knockDownKeycard(ctx world.Context) world.Result {
	if ctx.HasFlag(FlagKeycardDown) {
		return world.Result{Message: "You've already knocked down the keycard. No need to keep poking at the shelf."}
	}
	ctx.SetFlag(FlagKeycardDown, true)
	p.syncKeycard(ctx)
	ctx.AddScore(10, "keycard_puzzle")
	return world.Result{OK: true, Message: "You extend your trusty mop toward the high shelf with the practiced ease of " +
		"someone who has knocked things off high shelves professionally for 15 years.\n\n*THWACK*\n\n" +
		"The keycard clatters to the floor. The shelf looks slightly offended."}
}

func (p *Puzzles) syncKeycard(ctx world.Context) {
	kc := ctx.Item(KeycardCargo)
	if ctx.HasFlag(FlagKeycardDown) {
		kc.Takeable = true
		kc.Description = "The Cargo Keycard lies on the floor where it fell."
		kc.RefusalMessage = ""
		return
	}
	kc.Takeable = false
	kc.Description = p.keycard.description
	kc.RefusalMessage = p.keycard.refusal
}

func (p *Puzzles) examineKeycard(_ *world.Item, ctx world.Context) (string, bool) {
	if !ctx.HasFlag(FlagKeycardDown) {
		return "", false
	}
	return `The Cargo Keycard, no longer mocking you from its high perch. It's marked "CARGO" in faded letters.`, true
}

// Cargo corridor: swipe the keycard to open the bulkhead.

func (p *Puzzles) useCargoKeycard(it *world.Item, target world.Target, ctx world.Context) world.Result {
	if target == nil || target.TargetID() != featureReader {
		return world.Result{Message: "You wave the keycard around. Nothing beeps. It needs a card reader."}
	}
	if ctx.HasFlag(FlagBulkheadOpen) {
		return world.Result{Message: "The reader blinks green at you. The bulkhead is already open."}
	}
	ctx.SetFlag(FlagBulkheadOpen, true)
	bulkheadExit.set(ctx, true)
	ctx.AddScore(10, "bulkhead")
	return world.Result{OK: true, Message: "You swipe the keycard. The reader considers it, beeps grudgingly, and the " +
		"bulkhead to the north grinds open."}
}

// Main corridor: dissolve the goo sealing the science lab.

func (p *Puzzles) useSolvent(it *world.Item, target world.Target, ctx world.Context) world.Result {
	if target == nil || target.TargetID() != featureGoo {
		return world.Result{Message: "You give the bottle a shake. It sloshes menacingly. Better save it for something that deserves it."}
	}
	if ctx.HasFlag(FlagGooDissolved) {
		return world.Result{Message: "The goo is gone. Only a faint smell of burnt toast remains."}
	}
	ctx.SetFlag(FlagGooDissolved, true)
	p.syncGoo(ctx)
	ctx.AddScore(15, "goo")
	return world.Result{OK: true, Message: "You uncap the Universal Cleaning Solvent and pour. The goo shrieks " +
		"(goo should not be able to shriek) and dissolves into a harmless puddle. The door to the west slides open."}
}

func (p *Puzzles) syncGoo(ctx world.Context) {
	open := ctx.HasFlag(FlagGooDissolved)
	gooExit.set(ctx, open)
	r := ctx.Room(MainCorridor)
	if open {
		r.Features[featureGoo] = "A damp patch where the goo used to be. Spotless, if you say so yourself."
	} else {
		r.Features[featureGoo] = p.goo
	}
}

// Medical bay: wake Dr. Patchwell, then trade her coffee for her keycard.

func (p *Puzzles) useSalts(it *world.Item, target world.Target, ctx world.Context) world.Result {
	if target == nil || target.TargetID() != Patchwell {
		return world.Result{Message: "You take a cautious sniff of the smelling salts. Your eyes water. You are now extremely awake."}
	}
	if ctx.HasFlag(FlagPatchwellAwake) {
		return world.Result{Message: "Dr. Patchwell is already awake and glaring at the salts."}
	}
	ctx.SetFlag(FlagPatchwellAwake, true)
	p.syncPatchwell(ctx)
	ctx.AddScore(15, "patchwell_awake")
	return world.Result{OK: true, Message: "You wave the smelling salts under Dr. Patchwell's nose. She jolts upright, " +
		"coughing. \"Ugh... what happened? And why do I smell ammonia?\""}
}

func (p *Puzzles) giveToPatchwell(c *world.Character, itemID string, ctx world.Context, next world.GiveHook) world.GiveResult {
	if !ctx.HasFlag(FlagPatchwellAwake) {
		return world.GiveResult{Result: world.Result{
			Message: "Dr. Patchwell is out cold. She's in no state to accept anything."}}
	}
	switch itemID {
	case Coffee:
		if ctx.HasFlag(FlagCoffeeDelivered) {
			return world.GiveResult{Result: world.Result{Message: "\"One coffee is medicinal. Two is a diagnosis.\""}}
		}
		res := world.GiveResult{
			Result: world.Result{OK: true, Message: "Dr. Patchwell wraps both hands around the coffee and drinks " +
				"deeply. \"I needed that more than you know. Here, take this Engineering keycard. Chief Krix gave it " +
				"to me for emergencies.\""},
			Accepted: true,
		}
		if c.TakeGiveable(KeycardEngineering) {
			res.Item = ctx.Item(KeycardEngineering)
		}
		ctx.SetFlag(FlagCoffeeDelivered, true)
		p.syncPatchwell(ctx)
		ctx.AddScore(20, "coffee")
		return res
	case KeycardEngineering:
		if !ctx.HasFlag(FlagCoffeeDelivered) {
			return world.GiveResult{Result: world.Result{
				Message: "Dr. Patchwell pats her coat pocket protectively. \"Coffee first. Then we talk.\""}}
		}
	}
	return next(c, itemID, ctx)
}

func (p *Puzzles) syncPatchwell(ctx world.Context) {
	doc := ctx.Character(Patchwell)
	switch {
	case ctx.HasFlag(FlagCoffeeDelivered):
		doc.SetState(stateHelped)
		doc.TakeGiveable(KeycardEngineering)
	case ctx.HasFlag(FlagPatchwellAwake):
		doc.SetState(stateAwake)
		doc.AddGiveable(KeycardEngineering)
	default:
		doc.SetState(stateUnconscious)
		doc.AddGiveable(KeycardEngineering)
	}
}

// placeIfLost puts an item that is neither carried nor in any room into
// roomID. Saves do not record where dropped items lie.
func (p *Puzzles) placeIfLost(ctx world.Context, itemID, roomID string) {
	if ctx.HasItem(itemID) || p.w.RoomOf(itemID) != nil {
		return
	}
	if r := ctx.Room(roomID); r != nil {
		r.AddItem(ctx.Item(itemID))
	}
}

// Bridge: the Engineering keycard opens the lift down to the ballroom.

func (p *Puzzles) useEngineeringKeycard(it *world.Item, target world.Target, ctx world.Context) world.Result {
	if target == nil || target.TargetID() != featurePanel {
		return world.Result{Message: "The Engineering keycard needs an access panel."}
	}
	if ctx.HasFlag(FlagLiftOpen) {
		return world.Result{Message: "The lift panel already reads ACCESS GRANTED."}
	}
	ctx.SetFlag(FlagLiftOpen, true)
	liftExit.set(ctx, true)
	return world.Result{OK: true, Message: "The panel reads ENGINEERING ACCESS GRANTED. Somewhere below, a lift " +
		"starts playing smooth jazz."}
}

// Ballroom: knock DUSTY's backup chip out of the disco ball.

func (p *Puzzles) knockDownChip(ctx world.Context) world.Result {
	if ctx.HasFlag(FlagChipFound) {
		return world.Result{Message: "The disco ball spins sadly. It has nothing left to give."}
	}
	ctx.SetFlag(FlagChipFound, true)
	p.syncChip(ctx)
	ctx.AddScore(10, "chip_found")
	return world.Result{OK: true, Message: "You poke the disco ball with your mop. It wobbles, sparkles, and drops " +
		"a small chip labelled BACKUP PERSONALITY - DUSTY onto the dance floor."}
}

func (p *Puzzles) syncChip(ctx world.Context) {
	chip := ctx.Item(PersonalityChip)
	found := ctx.HasFlag(FlagChipFound)
	chip.Hidden = !found
	chip.Takeable = found
}

// Bridge: slot the chip into DUSTY to win.

func (p *Puzzles) useChip(it *world.Item, target world.Target, ctx world.Context) world.Result {
	if target == nil || target.TargetID() != Dusty {
		return world.Result{Message: "The chip is labelled DUSTY. It probably goes in DUSTY."}
	}
	if ctx.HasFlag(FlagDustyRepaired) {
		return world.Result{Message: "DUSTY is already back to normal. Installing a second personality seems unwise."}
	}
	ctx.SetFlag(FlagDustyRepaired, true)
	p.syncDusty(ctx)
	ctx.AddScore(20, "dusty_repaired")
	ctx.SetFlag(engine.FlagGameWon, true)
	return world.Result{OK: true, Message: "You slot the backup personality chip into DUSTY's terminal. The screen " +
		"flickers, the rhyming stops, and the station lurches as DUSTY fires the thrusters away from Blorgnax Prime."}
}

func (p *Puzzles) syncDusty(ctx world.Context) {
	state := stateCorrupted
	if ctx.HasFlag(FlagDustyRepaired) {
		state = stateRepaired
	}
	ctx.Character(Dusty).SetState(state)
}
