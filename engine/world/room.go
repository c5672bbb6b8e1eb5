package world

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/nathoo/custodian/types"
)

// Exit is a directed, optionally locked edge to another room. Lock state
// only changes through Room.Unlock and Room.Lock.
type Exit struct {
	RoomID        string
	Locked        bool
	RequiredKeyID string
	LockedMessage string
}

// GoResult is the answer to "can the player go this way?".
type GoResult struct {
	CanGo         bool
	RoomID        string
	Message       string
	Locked        bool
	RequiredKeyID string
}

// canonicalDirections fixes the order exits are listed in.
var canonicalDirections = []string{
	"north", "south", "east", "west",
	"northeast", "northwest", "southeast", "southwest",
	"up", "down", "in", "out",
}

// Room is a location in the world graph.
type Room struct {
	ID          string
	Name        string
	Description string
	Exits       map[string]*Exit
	Features    map[string]string
	State       map[string]any
	Visited     bool

	items      []*Item
	characters []*Character
}

// NewRoom builds a room from its definition. Items and characters are
// placed by Build.
func NewRoom(def types.RoomDef) *Room {
	r := &Room{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		Exits:       make(map[string]*Exit, len(def.Exits)),
		Features:    make(map[string]string, len(def.Features)),
		State:       make(map[string]any, len(def.State)),
	}
	for dir, e := range def.Exits {
		r.Exits[strings.ToLower(dir)] = &Exit{
			RoomID:        e.RoomID,
			Locked:        e.Locked,
			RequiredKeyID: e.RequiredKeyID,
			LockedMessage: e.LockedMessage,
		}
	}
	for name, desc := range def.Features {
		r.Features[strings.ToLower(name)] = desc
	}
	maps.Copy(r.State, def.State)
	return r
}

// CanGo checks the exit in dir without moving anyone.
func (r *Room) CanGo(dir string) GoResult {
	e, ok := r.Exits[dir]
	if !ok {
		return GoResult{Message: fmt.Sprintf("You can't go %s from here.", dir)}
	}
	if e.Locked {
		msg := e.LockedMessage
		if msg == "" {
			msg = fmt.Sprintf("The way %s is locked.", dir)
		}
		return GoResult{Message: msg, Locked: true, RequiredKeyID: e.RequiredKeyID}
	}
	return GoResult{CanGo: true, RoomID: e.RoomID}
}

// Unlock opens a locked exit. It reports whether anything changed.
func (r *Room) Unlock(dir string) bool {
	e, ok := r.Exits[dir]
	if !ok || !e.Locked {
		return false
	}
	e.Locked = false
	return true
}

// Lock closes an unlocked exit. It reports whether anything changed.
func (r *Room) Lock(dir string) bool {
	e, ok := r.Exits[dir]
	if !ok || e.Locked {
		return false
	}
	e.Locked = true
	return true
}

// ExitDirections lists exit directions in canonical order, followed by
// any nonstandard directions sorted alphabetically.
func (r *Room) ExitDirections() []string {
	dirs := make([]string, 0, len(r.Exits))
	for _, d := range canonicalDirections {
		if _, ok := r.Exits[d]; ok {
			dirs = append(dirs, d)
		}
	}
	var extra []string
	for d := range r.Exits {
		if !slices.Contains(canonicalDirections, d) {
			extra = append(extra, d)
		}
	}
	slices.Sort(extra)
	return append(dirs, extra...)
}

// AddItem places an item in the room. It reports false if the item is
// already here.
func (r *Room) AddItem(it *Item) bool {
	if r.HasItem(it.ID) {
		return false
	}
	r.items = append(r.items, it)
	return true
}

// RemoveItem takes an item out of the room.
func (r *Room) RemoveItem(id string) (*Item, bool) {
	i := slices.IndexFunc(r.items, func(it *Item) bool { return it.ID == id })
	if i < 0 {
		return nil, false
	}
	it := r.items[i]
	r.items = slices.Delete(r.items, i, i+1)
	return it, true
}

// HasItem reports whether the item is in the room.
func (r *Room) HasItem(id string) bool {
	return r.Item(id) != nil
}

// Item returns the item with the given ID if it is in the room.
func (r *Room) Item(id string) *Item {
	for _, it := range r.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// Items returns a copy of the room's items, hidden ones included.
func (r *Room) Items() []*Item {
	return slices.Clone(r.items)
}

// VisibleItems returns the items that are not hidden.
func (r *Room) VisibleItems() []*Item {
	var out []*Item
	for _, it := range r.items {
		if !it.Hidden {
			out = append(out, it)
		}
	}
	return out
}

// FindItem returns the first visible item matching name.
func (r *Room) FindItem(name string) *Item {
	for _, it := range r.items {
		if !it.Hidden && it.Matches(name) {
			return it
		}
	}
	return nil
}

// AddCharacter places a character in the room.
func (r *Room) AddCharacter(c *Character) bool {
	if r.Character(c.ID) != nil {
		return false
	}
	r.characters = append(r.characters, c)
	return true
}

// RemoveCharacter takes a character out of the room.
func (r *Room) RemoveCharacter(id string) (*Character, bool) {
	i := slices.IndexFunc(r.characters, func(c *Character) bool { return c.ID == id })
	if i < 0 {
		return nil, false
	}
	c := r.characters[i]
	r.characters = slices.Delete(r.characters, i, i+1)
	return c, true
}

// Character returns the character with the given ID if present.
func (r *Room) Character(id string) *Character {
	for _, c := range r.characters {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Characters returns a copy of the characters present.
func (r *Room) Characters() []*Character {
	return slices.Clone(r.characters)
}

// FindCharacter returns the first character matching name.
func (r *Room) FindCharacter(name string) *Character {
	for _, c := range r.characters {
		if c.Matches(name) {
			return c
		}
	}
	return nil
}

// Feature looks up a named feature.
func (r *Room) Feature(name string) (Feature, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	desc, ok := r.Features[key]
	if !ok {
		return Feature{}, false
	}
	return Feature{ID: key, Name: key, Description: desc}, true
}

// MarkVisited records a visit and reports whether it was the first.
func (r *Room) MarkVisited() bool {
	first := !r.Visited
	r.Visited = true
	return first
}
