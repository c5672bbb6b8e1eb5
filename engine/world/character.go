package world

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nathoo/custodian/types"
)

// TalkHook returns what the character says.
type TalkHook func(c *Character, ctx Context) string

// GiveHook handles "give <item> to <character>". itemID is either an item
// the player is offering or one the character can hand over.
type GiveHook func(c *Character, itemID string, ctx Context) GiveResult

// GiveResult is the outcome of a give hook.
type GiveResult struct {
	Result
	// Item, if set, is handed to the player.
	Item *Item
	// Accepted means the character keeps the offered item.
	Accepted bool
}

// Character is a non-player character.
type Character struct {
	ID           string
	Name         string
	Description  string
	Dialogue     map[string][]string
	Giveable     []string
	StartingRoom string

	state string
	talk  TalkHook
	give  GiveHook
}

// NewCharacter builds a character from its definition with default hooks.
func NewCharacter(def types.CharacterDef) *Character {
	dialogue := make(map[string][]string, len(def.Dialogue))
	for k, v := range def.Dialogue {
		dialogue[k] = slices.Clone(v)
	}
	state := def.State
	if state == "" {
		state = "default"
	}
	return &Character{
		ID:           def.ID,
		Name:         def.Name,
		Description:  def.Description,
		Dialogue:     dialogue,
		Giveable:     slices.Clone(def.Giveable),
		StartingRoom: def.StartingRoom,
		state:        state,
		talk:         defaultTalk,
		give:         defaultGive,
	}
}

func (c *Character) TargetID() string   { return c.ID }
func (c *Character) TargetName() string { return c.Name }

// State returns the dialogue state tag.
func (c *Character) State() string { return c.state }

// SetState changes the dialogue state tag. Talking never calls this.
func (c *Character) SetState(s string) { c.state = s }

// Matches reports whether name refers to this character: a substring of
// the display name or an exact ID.
func (c *Character) Matches(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(c.Name), name) || strings.ToLower(c.ID) == name
}

// Line picks the dialogue line for the current state, falling back to the
// "default" entry. Alternatives are chosen with ctx.Intn.
func (c *Character) Line(ctx Context) (string, bool) {
	lines, ok := c.Dialogue[c.state]
	if !ok || len(lines) == 0 {
		lines, ok = c.Dialogue["default"]
	}
	if !ok || len(lines) == 0 {
		return "", false
	}
	if len(lines) == 1 || ctx == nil {
		return lines[0], true
	}
	return lines[ctx.Intn(len(lines))], true
}

// HasGiveable reports whether the character can hand over itemID.
func (c *Character) HasGiveable(itemID string) bool {
	return slices.Contains(c.Giveable, itemID)
}

// TakeGiveable removes itemID from the giveable list.
func (c *Character) TakeGiveable(itemID string) bool {
	i := slices.Index(c.Giveable, itemID)
	if i < 0 {
		return false
	}
	c.Giveable = slices.Delete(c.Giveable, i, i+1)
	return true
}

// AddGiveable puts itemID back on the giveable list.
func (c *Character) AddGiveable(itemID string) {
	if !c.HasGiveable(itemID) {
		c.Giveable = append(c.Giveable, itemID)
	}
}

// Talk runs the talk hook.
func (c *Character) Talk(ctx Context) string { return c.talk(c, ctx) }

// Give runs the give hook.
func (c *Character) Give(itemID string, ctx Context) GiveResult { return c.give(c, itemID, ctx) }

// SetTalkHook replaces the talk hook and returns the previous one.
// nil restores the default.
func (c *Character) SetTalkHook(h TalkHook) TalkHook {
	prev := c.talk
	if h == nil {
		h = defaultTalk
	}
	c.talk = h
	return prev
}

// SetGiveHook replaces the give hook and returns the previous one.
// nil restores the default.
func (c *Character) SetGiveHook(h GiveHook) GiveHook {
	prev := c.give
	if h == nil {
		h = defaultGive
	}
	c.give = h
	return prev
}

func defaultTalk(c *Character, ctx Context) string {
	if line, ok := c.Line(ctx); ok {
		return line
	}
	return fmt.Sprintf("%s has nothing to say.", c.Name)
}

func defaultGive(c *Character, itemID string, ctx Context) GiveResult {
	if c.TakeGiveable(itemID) {
		it := ctx.Item(itemID)
		if it == nil {
			c.AddGiveable(itemID)
			return GiveResult{Result: Result{Message: fmt.Sprintf("%s doesn't have that to give.", c.Name)}}
		}
		return GiveResult{
			Result: Result{OK: true, Message: fmt.Sprintf("%s gives you the %s.", c.Name, it.Name)},
			Item:   it,
		}
	}
	if ctx.HasItem(itemID) {
		name := itemID
		if it := ctx.Item(itemID); it != nil {
			name = it.Name
		}
		return GiveResult{Result: Result{Message: fmt.Sprintf("%s doesn't seem interested in the %s.", c.Name, name)}}
	}
	return GiveResult{Result: Result{Message: fmt.Sprintf("%s doesn't have that to give.", c.Name)}}
}
