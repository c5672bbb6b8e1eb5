// Package state holds the session ledger: where the player is, what they
// carry, the flag bag, score and move count. It persists itself through an
// injected save.Store.
package state

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/nathoo/custodian/engine/errs"
	"github.com/nathoo/custodian/engine/inventory"
	"github.com/nathoo/custodian/engine/save"
	"github.com/nathoo/custodian/engine/world"
)

// Save slots are numbered 1..MaxSlot.
const MaxSlot = 3

// Resolver maps an item ID from a save back to a live item. It returns nil
// for IDs that no longer exist; those are skipped.
type Resolver func(id string) *world.Item

// GameState is the mutable ledger of one session.
type GameState struct {
	Inventory *inventory.Inventory

	currentRoom string
	flags       map[string]any
	score       int
	maxScore    int
	moves       int
	startTime   time.Time
	sessionID   string

	store save.Store
	now   func() time.Time
	log   *slog.Logger
}

// Option configures a GameState.
type Option func(*GameState)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *GameState) { s.now = now }
}

// WithMaxScore sets the declared maximum score. Display only.
func WithMaxScore(n int) Option {
	return func(s *GameState) { s.maxScore = n }
}

// WithLogger sets the logger used for load warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *GameState) { s.log = l }
}

// WithSessionID tags saves with a session identifier.
func WithSessionID(id string) Option {
	return func(s *GameState) { s.sessionID = id }
}

// New creates a fresh ledger positioned in startRoom.
func New(startRoom string, inv *inventory.Inventory, store save.Store, opts ...Option) *GameState {
	s := &GameState{
		Inventory:   inv,
		currentRoom: startRoom,
		flags:       map[string]any{},
		store:       store,
		now:         time.Now,
		log:         slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(s)
	}
	s.startTime = s.now()
	return s
}

// CurrentRoom returns the current room ID.
func (s *GameState) CurrentRoom() string { return s.currentRoom }

// SetCurrentRoom moves the player. This is the only thing that counts a move.
func (s *GameState) SetCurrentRoom(id string) {
	s.currentRoom = id
	s.moves++
}

func (s *GameState) Moves() int           { return s.moves }
func (s *GameState) Score() int           { return s.score }
func (s *GameState) MaxScore() int        { return s.maxScore }
func (s *GameState) StartTime() time.Time { return s.startTime }
func (s *GameState) SessionID() string    { return s.sessionID }

// SetFlag stores a value in the flag bag.
func (s *GameState) SetFlag(key string, value any) {
	s.flags[key] = value
}

// Flag returns the value for key, or def if it is absent.
func (s *GameState) Flag(key string, def any) any {
	if v, ok := s.flags[key]; ok {
		return v
	}
	return def
}

// HasFlag reports whether key holds a truthy value.
func (s *GameState) HasFlag(key string) bool {
	return truthy(s.flags[key])
}

// ClearFlag removes key from the flag bag.
func (s *GameState) ClearFlag(key string) {
	delete(s.flags, key)
}

// Flags returns a copy of the flag bag.
func (s *GameState) Flags() map[string]any {
	return maps.Clone(s.flags)
}

// AddScore awards points. A non-empty reason also sets "scored_<reason>".
// The flag is advisory: AddScore never checks it, so callers that must not
// double-award have to guard on it themselves.
func (s *GameState) AddScore(points int, reason string) {
	s.score += points
	if reason != "" {
		s.flags["scored_"+reason] = true
	}
}

// Elapsed is the play time since the session started.
func (s *GameState) Elapsed() time.Duration {
	return s.now().Sub(s.startTime)
}

// FormattedTime renders Elapsed as HH:MM:SS.
func (s *GameState) FormattedTime() string {
	return FormatDuration(s.Elapsed())
}

// FormatDuration renders d as HH:MM:SS.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}

// Reset returns the ledger to a fresh session in startRoom.
func (s *GameState) Reset(startRoom string) {
	s.currentRoom = startRoom
	s.flags = map[string]any{}
	s.score = 0
	s.moves = 0
	s.Inventory.Clear()
	s.startTime = s.now()
}

// Save writes the ledger to slot.
func (s *GameState) Save(slot int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	rec := &save.Record{
		Version:       save.Version,
		Timestamp:     s.now().UnixMilli(),
		CurrentRoomID: s.currentRoom,
		Inventory:     s.Inventory.IDs(),
		Flags:         maps.Clone(s.flags),
		MoveCount:     s.moves,
		StartTime:     s.startTime.UnixMilli(),
		Score:         s.score,
		SessionID:     s.sessionID,
	}
	data, err := save.Encode(rec)
	if err != nil {
		return errs.Wrap(errs.KindPersistence, err, "Could not save the game.")
	}
	if err := s.store.Put(save.Key(slot), data); err != nil {
		return errs.Wrap(errs.KindPersistence, err, "Could not save the game.")
	}
	return nil
}

// Load replaces the ledger with the contents of slot. The ledger is only
// touched once the record has been read and decoded successfully.
func (s *GameState) Load(slot int, resolve Resolver) error {
	rec, err := s.read(slot)
	if err != nil {
		return err
	}

	s.Inventory.Clear()
	for _, id := range rec.Inventory {
		it := resolve(id)
		if it == nil {
			continue
		}
		if err := s.Inventory.Add(it); err != nil {
			s.log.Warn("dropping saved item", "slot", slot, "item", id, "error", err)
		}
	}
	s.currentRoom = rec.CurrentRoomID
	s.flags = rec.Flags
	s.moves = rec.MoveCount
	s.score = rec.Score
	s.startTime = time.UnixMilli(rec.StartTime)
	return nil
}

// SlotInfo summarises a saved game.
type SlotInfo struct {
	Slot      int
	SavedAt   time.Time
	RoomID    string
	Score     int
	MoveCount int
}

// HasSave reports whether slot holds any data.
func (s *GameState) HasSave(slot int) bool {
	if checkSlot(slot) != nil {
		return false
	}
	_, ok, err := s.store.Get(save.Key(slot))
	return err == nil && ok
}

// SaveInfo describes the save in slot without loading it.
func (s *GameState) SaveInfo(slot int) (SlotInfo, error) {
	rec, err := s.read(slot)
	if err != nil {
		return SlotInfo{}, err
	}
	return SlotInfo{
		Slot:      slot,
		SavedAt:   time.UnixMilli(rec.Timestamp),
		RoomID:    rec.CurrentRoomID,
		Score:     rec.Score,
		MoveCount: rec.MoveCount,
	}, nil
}

// DeleteSave empties slot.
func (s *GameState) DeleteSave(slot int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if err := s.store.Delete(save.Key(slot)); err != nil {
		return errs.Wrap(errs.KindPersistence, err, "Could not delete the save.")
	}
	return nil
}

func (s *GameState) read(slot int) (*save.Record, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	data, ok, err := s.store.Get(save.Key(slot))
	if err != nil {
		return nil, errs.Wrap(errs.KindPersistence, err, "Could not read the save.")
	}
	if !ok {
		return nil, fmt.Errorf("slot %d: %w", slot, save.ErrNoSave)
	}
	rec, err := save.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("slot %d: %w", slot, err)
	}
	return rec, nil
}

func checkSlot(slot int) error {
	if slot < 1 || slot > MaxSlot {
		return errs.Newf(errs.KindUserInput, "Please choose a save slot from 1 to %d.", MaxSlot)
	}
	return nil
}

// truthy treats nil, false, zero numbers, empty strings and empty
// collections as unset.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case []string:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

// IsNoSave reports whether err means the slot was empty.
func IsNoSave(err error) bool { return errors.Is(err, save.ErrNoSave) }
