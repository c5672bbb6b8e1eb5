// Package resolve maps nouns from parsed commands to the entities the
// player can currently refer to.
package resolve

import (
	"github.com/nathoo/custodian/engine/inventory"
	"github.com/nathoo/custodian/engine/world"
)

// Ref is a resolved noun. Exactly one of Item, Feature or Char is set.
type Ref struct {
	Item    *world.Item
	Carried bool // Item came from the inventory
	Feature *world.Feature
	Char    *world.Character
}

// Target returns the referenced entity as a hook target.
func (r Ref) Target() world.Target {
	switch {
	case r.Item != nil:
		return r.Item
	case r.Feature != nil:
		return *r.Feature
	case r.Char != nil:
		return r.Char
	}
	return nil
}

// Scope is what the player can refer to: what they carry and the room
// they stand in. Room may be nil.
type Scope struct {
	Inventory *inventory.Inventory
	Room      *world.Room
}

// Resolve looks name up in the inventory, then the room's visible items,
// then its features, then the characters present. The first match wins.
func (s Scope) Resolve(name string) (Ref, bool) {
	if s.Inventory != nil {
		if it := s.Inventory.FindByName(name); it != nil {
			return Ref{Item: it, Carried: true}, true
		}
	}
	if s.Room == nil {
		return Ref{}, false
	}
	if it := s.Room.FindItem(name); it != nil {
		return Ref{Item: it}, true
	}
	if f, ok := s.Room.Feature(name); ok {
		return Ref{Feature: &f}, true
	}
	if c := s.Room.FindCharacter(name); c != nil {
		return Ref{Char: c}, true
	}
	return Ref{}, false
}
