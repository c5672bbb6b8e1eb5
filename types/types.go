// Package types defines the shared data structures for the custodian engine.
// This package contains only type definitions. No logic, no methods.
package types

// Command is the parsed representation of a player command.
// Empty strings mean the part was absent.
type Command struct {
	Verb   string
	Noun   string // optional; opaque argument for no-noun verbs (e.g. save slot)
	Target string // optional
	Raw    string // trimmed original input
}

// Style is a presentational tag attached to an output line.
// Engine logic never branches on it.
type Style string

// Output styles.
const (
	StylePlain       Style = ""
	StyleSystem      Style = "system"
	StyleRoomTitle   Style = "room-title"
	StyleDescription Style = "description"
	StyleItems       Style = "items"
	StyleExits       Style = "exits"
	StyleError       Style = "error"
	StyleSuccess     Style = "success"
	StyleDialogue    Style = "dialogue"
)

// Line is one unit of narrated output.
type Line struct {
	Text  string
	Style Style
}

// Outcome is the structured result of a single turn.
type Outcome struct {
	OK      bool
	Message string
	Err     error // nil on success; classified by engine/errs
}

// ExitDef is a directed connection from a room.
// A plain exit only sets RoomID.
type ExitDef struct {
	RoomID        string
	Locked        bool
	RequiredKeyID string
	LockedMessage string
}

// RoomDef is the static definition of a room.
type RoomDef struct {
	ID          string
	Name        string
	Description string
	Exits       map[string]ExitDef // direction → edge
	Features    map[string]string  // feature name → description
	State       map[string]any
}

// ItemDef is the static definition of an item.
type ItemDef struct {
	ID             string
	Name           string
	Aliases        []string
	Description    string
	ExamineText    string
	Takeable       bool
	RefusalMessage string
	UseWith        []string
	StartingRoom   string // empty = unplaced
	Hidden         bool
	State          map[string]any
}

// CharacterDef is the static definition of a character.
type CharacterDef struct {
	ID           string
	Name         string
	Description  string
	State        string
	Dialogue     map[string][]string // state → one line, or alternatives picked at random
	Giveable     []string            // item IDs the character can hand over
	StartingRoom string
}

// GameDef holds game metadata.
type GameDef struct {
	Title        string
	Author       string
	Version      string
	Start        string // starting room ID
	Intro        string
	MaxScore     int
	MaxInventory int      // 0 = unlimited
	Ending       []string // ending sequence paragraphs
}

// Defs holds the complete static world definition.
// Slices keep content order so construction is deterministic.
type Defs struct {
	Game       GameDef
	Rooms      []RoomDef
	Items      []ItemDef
	Characters []CharacterDef
}
