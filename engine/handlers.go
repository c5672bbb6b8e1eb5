package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/custodian/engine/errs"
	"github.com/nathoo/custodian/engine/inventory"
	"github.com/nathoo/custodian/engine/parser"
	"github.com/nathoo/custodian/engine/resolve"
	"github.com/nathoo/custodian/engine/save"
	"github.com/nathoo/custodian/engine/state"
	"github.com/nathoo/custodian/engine/world"
	"github.com/nathoo/custodian/types"
)

func defaultHandlers() map[string]handler {
	return map[string]handler{
		"look":      (*Game).doLook,
		"examine":   (*Game).doExamine,
		"take":      (*Game).doTake,
		"drop":      (*Game).doDrop,
		"use":       (*Game).doUse,
		"go":        (*Game).doGo,
		"inventory": (*Game).doInventory,
		"talk":      (*Game).doTalk,
		"give":      (*Game).doGive,
		"open":      (*Game).doOpenClose,
		"close":     (*Game).doOpenClose,
		"read":      (*Game).doRead,
		"push":      (*Game).doPushPull,
		"pull":      (*Game).doPushPull,
		"help":      (*Game).doHelp,
		"save":      (*Game).doSave,
		"load":      (*Game).doLoad,
		"quit":      (*Game).doQuit,
		"wait":      (*Game).doWait,
	}
}

// lookup resolves name against the player's current scope.
func (g *Game) lookup(name string) (resolve.Ref, bool) {
	return resolve.Scope{Inventory: g.State().Inventory, Room: g.Session.CurrentRoom()}.Resolve(name)
}

func notHere(name string) *errs.Error {
	return errs.Newf(errs.KindNotFound, "You don't see any %q here.", name)
}

func (g *Game) doLook(cmd types.Command, parseErr error) types.Outcome {
	if cmd.Noun != "" {
		return g.doExamine(cmd, parseErr)
	}
	return g.look()
}

func (g *Game) doExamine(cmd types.Command, parseErr error) types.Outcome {
	if parseErr != nil {
		return g.fail(parseErr)
	}
	r, ok := g.lookup(cmd.Noun)
	if !ok {
		return g.fail(notHere(cmd.Noun))
	}
	switch {
	case r.Item != nil:
		return g.succeed(r.Item.Examine(g.Session), types.StyleDescription)
	case r.Feature != nil:
		return g.succeed(r.Feature.Description, types.StyleDescription)
	default:
		desc := r.Char.Description
		if desc == "" {
			desc = fmt.Sprintf("You see nothing special about %s.", r.Char.Name)
		}
		return g.succeed(desc, types.StyleDescription)
	}
}

func (g *Game) doTake(cmd types.Command, parseErr error) types.Outcome {
	if parseErr != nil {
		return g.fail(parseErr)
	}
	inv := g.State().Inventory
	if inv.FindByName(cmd.Noun) != nil {
		return g.refuse(errs.KindInvalidState, "You already have that.")
	}
	room := g.Session.CurrentRoom()
	it := room.FindItem(cmd.Noun)
	if it == nil {
		if _, ok := g.lookup(cmd.Noun); ok {
			return g.refuse(errs.KindInvalidState, "You can't take that.")
		}
		return g.fail(notHere(cmd.Noun))
	}
	if inv.IsFull() {
		return g.fail(inventory.ErrFull)
	}

	res := it.Take(g.Session)
	if !res.OK {
		return g.refuse(errs.KindInvalidState, res.Message)
	}
	if err := inv.Add(it); err != nil {
		return g.fail(err)
	}
	if _, ok := room.RemoveItem(it.ID); !ok {
		inv.Remove(it.ID)
		return g.fail(errs.Newf(errs.KindInternal, "item %q vanished from %q", it.ID, room.ID))
	}
	msg := res.Message
	if msg == "" {
		msg = fmt.Sprintf("You take the %s.", it.Name)
	}
	return g.succeed(msg, types.StyleSuccess)
}

func (g *Game) doDrop(cmd types.Command, parseErr error) types.Outcome {
	if parseErr != nil {
		return g.fail(parseErr)
	}
	inv := g.State().Inventory
	it := inv.FindByName(cmd.Noun)
	if it == nil {
		return g.refuse(errs.KindNotFound, fmt.Sprintf("You're not carrying any %q.", cmd.Noun))
	}
	res := it.Drop(g.Session)
	if !res.OK {
		return g.refuse(errs.KindInvalidState, res.Message)
	}
	inv.Remove(it.ID)
	g.Session.CurrentRoom().AddItem(it)
	msg := res.Message
	if msg == "" {
		msg = fmt.Sprintf("You drop the %s.", it.Name)
	}
	return g.succeed(msg, types.StyleSuccess)
}

func (g *Game) doUse(cmd types.Command, parseErr error) types.Outcome {
	if parseErr != nil {
		return g.fail(parseErr)
	}
	r, ok := g.lookup(cmd.Noun)
	if !ok {
		return g.refuse(errs.KindNotFound, fmt.Sprintf("You don't have any %q.", cmd.Noun))
	}
	if r.Item == nil {
		return g.refuse(errs.KindInvalidState, "You can't use that.")
	}

	var target world.Target
	if cmd.Target != "" {
		tr, ok := g.lookup(cmd.Target)
		if !ok {
			return g.fail(notHere(cmd.Target))
		}
		target = tr.Target()
	}
	return g.useItem(r.Item, target)
}

func (g *Game) useItem(it *world.Item, target world.Target) types.Outcome {
	res := it.Use(target, g.Session)
	if !res.OK {
		return g.refuse(errs.KindInvalidState, res.Message)
	}
	return g.succeed(res.Message, types.StyleSuccess)
}

func (g *Game) doGo(cmd types.Command, parseErr error) types.Outcome {
	if parseErr != nil {
		return g.fail(parseErr)
	}
	room := g.Session.CurrentRoom()
	res := room.CanGo(cmd.Noun)
	if !res.CanGo {
		return g.refuse(errs.KindInvalidState, res.Message)
	}
	if g.World().Room(res.RoomID) == nil {
		return g.fail(errs.Newf(errs.KindInternal, "exit %s from %q leads to unknown room %q", cmd.Noun, room.ID, res.RoomID))
	}
	g.State().SetCurrentRoom(res.RoomID)
	return g.look()
}

func (g *Game) doInventory(types.Command, error) types.Outcome {
	return g.succeed(g.State().Inventory.Display(), types.StyleDescription)
}

func (g *Game) doTalk(cmd types.Command, parseErr error) types.Outcome {
	if parseErr != nil {
		return g.fail(parseErr)
	}
	c := g.Session.CurrentRoom().FindCharacter(cmd.Noun)
	if c == nil {
		if _, ok := g.lookup(cmd.Noun); ok {
			return g.refuse(errs.KindInvalidState, "You can't talk to that.")
		}
		return g.refuse(errs.KindNotFound, fmt.Sprintf("There's no %q here to talk to.", cmd.Noun))
	}
	return g.succeed(c.Talk(g.Session), types.StyleDialogue)
}

func (g *Game) doGive(cmd types.Command, parseErr error) types.Outcome {
	if parseErr != nil {
		return g.fail(parseErr)
	}
	if cmd.Target == "" {
		return g.refuse(errs.KindUserInput, fmt.Sprintf("Give the %s to whom?", cmd.Noun))
	}
	c := g.Session.CurrentRoom().FindCharacter(cmd.Target)
	if c == nil {
		return g.refuse(errs.KindNotFound, fmt.Sprintf("There's no %q here.", cmd.Target))
	}

	inv := g.State().Inventory
	var itemID string
	offered := false
	if it := inv.FindByName(cmd.Noun); it != nil {
		itemID, offered = it.ID, true
	} else {
		for _, id := range c.Giveable {
			if it := g.World().ItemByID(id); it != nil && it.Matches(cmd.Noun) {
				itemID = id
				break
			}
		}
	}
	if itemID == "" {
		return g.refuse(errs.KindNotFound, fmt.Sprintf("You don't have any %q.", cmd.Noun))
	}

	res := c.Give(itemID, g.Session)
	if !res.OK {
		return g.refuse(errs.KindInvalidState, res.Message)
	}
	// Accepted items leave before returned items arrive.
	var given *world.Item
	if res.Accepted && offered {
		given, _ = inv.Remove(itemID)
	}
	if res.Item != nil {
		if err := inv.Add(res.Item); err != nil {
			c.AddGiveable(res.Item.ID)
			if given != nil {
				_ = inv.Add(given)
			}
			return g.fail(err)
		}
		g.World().Detach(res.Item.ID)
	}
	return g.succeed(res.Message, types.StyleSuccess)
}

func (g *Game) doOpenClose(cmd types.Command, parseErr error) types.Outcome {
	if parseErr != nil {
		return g.fail(parseErr)
	}
	if _, ok := g.lookup(cmd.Noun); !ok {
		return g.fail(notHere(cmd.Noun))
	}
	return g.refuse(errs.KindInvalidState, fmt.Sprintf("You can't %s the %s.", cmd.Verb, cmd.Noun))
}

func (g *Game) doRead(cmd types.Command, parseErr error) types.Outcome {
	if parseErr != nil {
		return g.fail(parseErr)
	}
	r, ok := g.lookup(cmd.Noun)
	if !ok {
		return g.refuse(errs.KindNotFound, fmt.Sprintf("You don't see any %q to read.", cmd.Noun))
	}
	if r.Item != nil && r.Item.HasCustomUse() {
		return g.useItem(r.Item, nil)
	}
	return g.doExamine(cmd, nil)
}

func (g *Game) doPushPull(cmd types.Command, parseErr error) types.Outcome {
	if parseErr != nil {
		return g.fail(parseErr)
	}
	if _, ok := g.lookup(cmd.Noun); !ok {
		return g.fail(notHere(cmd.Noun))
	}
	return g.notice(fmt.Sprintf("You %s the %s, but nothing happens.", cmd.Verb, cmd.Noun))
}

func (g *Game) doHelp(types.Command, error) types.Outcome {
	for _, line := range parser.HelpText() {
		g.say(line, types.StyleSystem)
	}
	return types.Outcome{OK: true, Message: "help"}
}

func (g *Game) doWait(types.Command, error) types.Outcome {
	return g.notice("Time passes.")
}

func (g *Game) doSave(cmd types.Command, _ error) types.Outcome {
	slot, err := parseSlot(cmd.Noun)
	if err != nil {
		return g.fail(err)
	}
	if err := g.State().Save(slot); err != nil {
		return g.fail(err)
	}
	g.log.Info("game saved", "slot", slot)
	return g.succeed(fmt.Sprintf("Game saved to slot %d.", slot), types.StyleSuccess)
}

func (g *Game) doLoad(cmd types.Command, _ error) types.Outcome {
	slot, err := parseSlot(cmd.Noun)
	if err != nil {
		return g.fail(err)
	}
	st := g.State()
	info, err := st.SaveInfo(slot)
	if err != nil {
		return g.fail(err)
	}
	if g.World().Room(info.RoomID) == nil {
		return g.fail(fmt.Errorf("slot %d: unknown room %q: %w", slot, info.RoomID, save.ErrCorrupt))
	}
	before := st.Inventory.IDs()
	if err := st.Load(slot, g.World().ItemByID); err != nil {
		return g.fail(err)
	}
	g.resyncPlacement(before)
	if g.onLoad != nil {
		g.onLoad(g.Session)
	}

	if st.HasFlag(FlagEndingShown) {
		g.phase = PhaseGameOver
	} else {
		g.phase = PhaseRunning
	}
	g.log.Info("game loaded", "slot", slot, "room", st.CurrentRoom())
	out := g.succeed(fmt.Sprintf("Game loaded from slot %d.", slot), types.StyleSuccess)
	g.look()
	return out
}

// resyncPlacement keeps every item in exactly one place after a load:
// carried items leave their rooms, and items no longer carried return to
// their starting room.
func (g *Game) resyncPlacement(before []string) {
	w := g.World()
	inv := g.State().Inventory
	for _, id := range inv.IDs() {
		w.Detach(id)
	}
	for _, id := range before {
		if inv.Has(id) || w.RoomOf(id) != nil {
			continue
		}
		it := w.ItemByID(id)
		if it == nil || it.StartingRoom == "" {
			continue
		}
		if room := w.Room(it.StartingRoom); room != nil {
			room.AddItem(it)
		}
	}
}

func (g *Game) doQuit(types.Command, error) types.Outcome {
	title := g.Defs.Game.Title
	if title == "" {
		title = "this adventure"
	}
	msg := fmt.Sprintf("Thanks for playing %s!", title)
	g.say(msg, types.StyleSystem)
	g.stats()
	g.phase = PhaseEnded
	g.log.Info("game quit", "score", g.State().Score(), "moves", g.State().Moves())
	return types.Outcome{OK: true, Message: msg}
}

// parseSlot reads a save slot argument. Empty means slot 1.
func parseSlot(arg string) (int, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return 1, nil
	}
	arg = strings.TrimPrefix(arg, "slot ")
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > state.MaxSlot {
		return 0, errs.Newf(errs.KindUserInput, "Please specify a slot from 1 to %d.", state.MaxSlot)
	}
	return n, nil
}

// look narrates the current room.
func (g *Game) look() types.Outcome {
	room := g.Session.CurrentRoom()
	if room == nil {
		return g.fail(errs.Newf(errs.KindInternal, "current room %q does not exist", g.State().CurrentRoom()))
	}
	room.MarkVisited()
	g.say(room.Name, types.StyleRoomTitle)
	g.say(room.Description, types.StyleDescription)

	if items := room.VisibleItems(); len(items) > 0 {
		names := make([]string, len(items))
		for i, it := range items {
			names[i] = it.Name
		}
		g.say("You can see: "+strings.Join(names, ", ")+".", types.StyleItems)
	}
	if chars := room.Characters(); len(chars) > 0 {
		names := make([]string, len(chars))
		for i, c := range chars {
			names[i] = c.Name
		}
		verb := "is"
		if len(chars) > 1 {
			verb = "are"
		}
		g.say(fmt.Sprintf("%s %s here.", strings.Join(names, ", "), verb), types.StyleDescription)
	}
	if dirs := room.ExitDirections(); len(dirs) > 0 {
		g.say("Exits: "+strings.ToUpper(strings.Join(dirs, ", ")), types.StyleExits)
	}
	return types.Outcome{OK: true, Message: room.Name}
}
