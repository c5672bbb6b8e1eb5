// Package world holds the live entities of a session: rooms, items and
// characters, built once from definitions and mutated in place.
//
// Per-instance behavior lives in hook slots. Each entity carries one
// function-valued field per hook, initialised to a default closure.
// Content code replaces a hook with SetXHook, which returns the previous
// hook so a replacement can wrap and delegate to it.
package world

import (
	"fmt"
	"sort"

	"github.com/nathoo/custodian/types"
)

// Context is the mutable session handed to hooks.
type Context interface {
	SetFlag(key string, value any)
	Flag(key string, def any) any
	HasFlag(key string) bool
	AddScore(points int, reason string)

	Item(id string) *Item
	Room(id string) *Room
	Character(id string) *Character
	CurrentRoom() *Room
	HasItem(id string) bool

	// Intn returns a pseudo-random int in [0, n).
	Intn(n int) int
}

// Result is the outcome of an entity hook.
type Result struct {
	OK      bool
	Message string
}

// Target is anything an item can be used with.
type Target interface {
	TargetID() string
	TargetName() string
}

// Feature is a named, non-takeable point of interest in a room.
// It exists only for the duration of a command.
type Feature struct {
	ID          string
	Name        string
	Description string
}

func (f Feature) TargetID() string   { return f.ID }
func (f Feature) TargetName() string { return f.Name }

// World is the composition root for entities. It owns every room, item
// and character of a session.
type World struct {
	Rooms      map[string]*Room
	Items      map[string]*Item
	Characters map[string]*Character
}

// New returns an empty world.
func New() *World {
	return &World{
		Rooms:      map[string]*Room{},
		Items:      map[string]*Item{},
		Characters: map[string]*Character{},
	}
}

// Build constructs every entity from defs and places items and characters
// in their starting rooms. Unknown starting rooms are an error.
func Build(defs *types.Defs) (*World, error) {
	w := New()
	for _, rd := range defs.Rooms {
		if _, dup := w.Rooms[rd.ID]; dup {
			return nil, fmt.Errorf("duplicate room %q", rd.ID)
		}
		w.Rooms[rd.ID] = NewRoom(rd)
	}
	for _, id := range defs.Items {
		if _, dup := w.Items[id.ID]; dup {
			return nil, fmt.Errorf("duplicate item %q", id.ID)
		}
		it := NewItem(id)
		w.Items[it.ID] = it
		if it.StartingRoom == "" {
			continue
		}
		room, ok := w.Rooms[it.StartingRoom]
		if !ok {
			return nil, fmt.Errorf("item %q: unknown starting room %q", it.ID, it.StartingRoom)
		}
		room.AddItem(it)
	}
	for _, cd := range defs.Characters {
		if _, dup := w.Characters[cd.ID]; dup {
			return nil, fmt.Errorf("duplicate character %q", cd.ID)
		}
		c := NewCharacter(cd)
		w.Characters[c.ID] = c
		if c.StartingRoom == "" {
			continue
		}
		room, ok := w.Rooms[c.StartingRoom]
		if !ok {
			return nil, fmt.Errorf("character %q: unknown starting room %q", c.ID, c.StartingRoom)
		}
		room.AddCharacter(c)
	}
	return w, nil
}

// Room returns the room with the given ID, or nil.
func (w *World) Room(id string) *Room { return w.Rooms[id] }

// ItemByID returns the item with the given ID, or nil.
func (w *World) ItemByID(id string) *Item { return w.Items[id] }

// Character returns the character with the given ID, or nil.
func (w *World) Character(id string) *Character { return w.Characters[id] }

// RoomOf returns the room currently holding the item, or nil.
func (w *World) RoomOf(itemID string) *Room {
	for _, id := range w.roomIDs() {
		if w.Rooms[id].HasItem(itemID) {
			return w.Rooms[id]
		}
	}
	return nil
}

// Detach removes the item from whatever room holds it. It reports whether
// the item was placed anywhere.
func (w *World) Detach(itemID string) bool {
	room := w.RoomOf(itemID)
	if room == nil {
		return false
	}
	_, ok := room.RemoveItem(itemID)
	return ok
}

// roomIDs returns room IDs in sorted order for deterministic scans.
func (w *World) roomIDs() []string {
	ids := make([]string, 0, len(w.Rooms))
	for id := range w.Rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
