package world

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nathoo/custodian/types"
)

// ExamineHook returns the text to show when the item is examined. A false
// second value falls back to the item's static text.
type ExamineHook func(it *Item, ctx Context) (string, bool)

// UseHook handles "use <item> [with <target>]". target is nil when the
// item is used by itself.
type UseHook func(it *Item, target Target, ctx Context) Result

// TakeHook decides whether the player may pick the item up.
type TakeHook func(it *Item, ctx Context) Result

// DropHook decides whether the player may put the item down.
type DropHook func(it *Item, ctx Context) Result

// Item is a thing the player can see, carry or use.
type Item struct {
	ID             string
	Name           string
	Aliases        []string
	Description    string
	ExamineText    string
	Takeable       bool
	RefusalMessage string
	UseWith        []string
	StartingRoom   string
	Hidden         bool
	State          map[string]any

	examine   ExamineHook
	use       UseHook
	take      TakeHook
	drop      DropHook
	customUse bool
}

// NewItem builds an item from its definition with default hooks.
func NewItem(def types.ItemDef) *Item {
	state := make(map[string]any, len(def.State))
	for k, v := range def.State {
		state[k] = v
	}
	return &Item{
		ID:             def.ID,
		Name:           def.Name,
		Aliases:        slices.Clone(def.Aliases),
		Description:    def.Description,
		ExamineText:    def.ExamineText,
		Takeable:       def.Takeable,
		RefusalMessage: def.RefusalMessage,
		UseWith:        slices.Clone(def.UseWith),
		StartingRoom:   def.StartingRoom,
		Hidden:         def.Hidden,
		State:          state,
		examine:        defaultExamine,
		use:            defaultUse,
		take:           defaultTake,
		drop:           defaultDrop,
	}
}

func (it *Item) TargetID() string   { return it.ID }
func (it *Item) TargetName() string { return it.Name }

// Matches reports whether name refers to this item by name, ID or alias.
func (it *Item) Matches(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	if strings.ToLower(it.Name) == name || strings.ToLower(it.ID) == name {
		return true
	}
	for _, a := range it.Aliases {
		if strings.ToLower(a) == name {
			return true
		}
	}
	return false
}

// CanUseWith reports whether targetID is in the static compatibility set.
func (it *Item) CanUseWith(targetID string) bool {
	return slices.Contains(it.UseWith, targetID)
}

// StaticText is the examine text without hooks: ExamineText, then
// Description, then a generic line.
func (it *Item) StaticText() string {
	switch {
	case it.ExamineText != "":
		return it.ExamineText
	case it.Description != "":
		return it.Description
	default:
		return fmt.Sprintf("You see nothing special about the %s.", it.Name)
	}
}

// Examine runs the examine hook.
func (it *Item) Examine(ctx Context) string {
	if text, ok := it.examine(it, ctx); ok {
		return text
	}
	return it.StaticText()
}

// Use runs the use hook.
func (it *Item) Use(target Target, ctx Context) Result { return it.use(it, target, ctx) }

// Take runs the take hook. A replaced hook supersedes the Takeable check.
func (it *Item) Take(ctx Context) Result { return it.take(it, ctx) }

// Drop runs the drop hook.
func (it *Item) Drop(ctx Context) Result { return it.drop(it, ctx) }

// HasCustomUse reports whether the use hook has been replaced.
func (it *Item) HasCustomUse() bool { return it.customUse }

// SetExamineHook replaces the examine hook and returns the previous one.
// nil restores the default.
func (it *Item) SetExamineHook(h ExamineHook) ExamineHook {
	prev := it.examine
	if h == nil {
		h = defaultExamine
	}
	it.examine = h
	return prev
}

// SetUseHook replaces the use hook and returns the previous one.
// nil restores the default.
func (it *Item) SetUseHook(h UseHook) UseHook {
	prev := it.use
	it.customUse = h != nil
	if h == nil {
		h = defaultUse
	}
	it.use = h
	return prev
}

// SetTakeHook replaces the take hook and returns the previous one.
// nil restores the default.
func (it *Item) SetTakeHook(h TakeHook) TakeHook {
	prev := it.take
	if h == nil {
		h = defaultTake
	}
	it.take = h
	return prev
}

// SetDropHook replaces the drop hook and returns the previous one.
// nil restores the default.
func (it *Item) SetDropHook(h DropHook) DropHook {
	prev := it.drop
	if h == nil {
		h = defaultDrop
	}
	it.drop = h
	return prev
}

func defaultExamine(*Item, Context) (string, bool) { return "", false }

func defaultUse(it *Item, target Target, _ Context) Result {
	if target == nil {
		return Result{Message: fmt.Sprintf("You're not sure how to use the %s by itself.", it.Name)}
	}
	if it.CanUseWith(target.TargetID()) {
		return Result{OK: true, Message: fmt.Sprintf("You use the %s with the %s.", it.Name, target.TargetName())}
	}
	return Result{Message: fmt.Sprintf("You can't use the %s with that.", it.Name)}
}

func defaultTake(it *Item, _ Context) Result {
	if !it.Takeable {
		msg := it.RefusalMessage
		if msg == "" {
			msg = "You can't take that."
		}
		return Result{Message: msg}
	}
	return Result{OK: true, Message: fmt.Sprintf("You take the %s.", it.Name)}
}

func defaultDrop(it *Item, _ Context) Result {
	return Result{OK: true, Message: fmt.Sprintf("You drop the %s.", it.Name)}
}
