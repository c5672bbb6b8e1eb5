// Package save implements the persisted save record and the stores it is
// written to.
package save

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nathoo/custodian/engine/errs"
)

// Version is the current save format version.
const Version = 1

// KeyPrefix is prepended to the slot number to form a store key.
const KeyPrefix = "custodian-save-"

var (
	// ErrNoSave means the slot is empty.
	ErrNoSave = errs.New(errs.KindNotFound, "No saved game found in that slot.")
	// ErrCorrupt means the slot holds data that cannot be decoded.
	ErrCorrupt = errs.New(errs.KindPersistence, "That save is corrupted and can't be loaded.")
)

// Record is the JSON-serializable save format.
type Record struct {
	Version       int            `json:"version"`
	Timestamp     int64          `json:"timestamp"` // unix millis
	CurrentRoomID string         `json:"currentRoomId"`
	Inventory     []string       `json:"inventory"`
	Flags         map[string]any `json:"flags"`
	MoveCount     int            `json:"moveCount"`
	StartTime     int64          `json:"startTime"` // unix millis
	Score         int            `json:"score"`
	SessionID     string         `json:"sessionId,omitempty"`
}

// Key returns the store key for a slot.
func Key(slot int) string {
	return fmt.Sprintf("%s%d", KeyPrefix, slot)
}

// Encode serializes a record to JSON bytes.
func Encode(r *Record) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Decode deserializes JSON bytes into a record. Any failure, including an
// unknown version or a missing room, is reported as ErrCorrupt.
func Decode(data []byte) (*Record, error) {
	var r Record
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding save: %w: %w", ErrCorrupt, err)
	}
	if r.Version != Version {
		return nil, fmt.Errorf("save version %d: %w", r.Version, ErrCorrupt)
	}
	if r.CurrentRoomID == "" {
		return nil, fmt.Errorf("save has no current room: %w", ErrCorrupt)
	}
	// Ensure collections are never nil after load.
	if r.Flags == nil {
		r.Flags = map[string]any{}
	}
	for k, v := range r.Flags {
		r.Flags[k] = flagValue(v)
	}
	if r.Inventory == nil {
		r.Inventory = []string{}
	}
	return &r, nil
}

// flagValue turns decoded JSON numbers back into int when they are whole
// and float64 otherwise, recursing into lists and objects.
func flagValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return int(n)
		}
		f, _ := val.Float64()
		return f
	case []any:
		for i := range val {
			val[i] = flagValue(val[i])
		}
		return val
	case map[string]any:
		for k := range val {
			val[k] = flagValue(val[k])
		}
		return val
	default:
		return v
	}
}
