package engine

import (
	"github.com/nathoo/custodian/engine/state"
	"github.com/nathoo/custodian/engine/world"
)

// Session bundles everything one playthrough mutates. It is the Context
// handed to entity hooks.
type Session struct {
	ID    string
	World *world.World
	State *state.GameState
	RNG   *RNG
}

var _ world.Context = (*Session)(nil)

func (s *Session) SetFlag(key string, value any)      { s.State.SetFlag(key, value) }
func (s *Session) Flag(key string, def any) any       { return s.State.Flag(key, def) }
func (s *Session) HasFlag(key string) bool            { return s.State.HasFlag(key) }
func (s *Session) AddScore(points int, reason string) { s.State.AddScore(points, reason) }

func (s *Session) Item(id string) *world.Item           { return s.World.ItemByID(id) }
func (s *Session) Room(id string) *world.Room           { return s.World.Room(id) }
func (s *Session) Character(id string) *world.Character { return s.World.Character(id) }
func (s *Session) HasItem(id string) bool               { return s.State.Inventory.Has(id) }

// CurrentRoom returns the room the player is standing in.
func (s *Session) CurrentRoom() *world.Room {
	return s.World.Room(s.State.CurrentRoom())
}

func (s *Session) Intn(n int) int { return s.RNG.Intn(n) }
