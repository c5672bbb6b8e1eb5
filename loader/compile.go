// Package loader loads Lua game content into world definitions.
// The Lua VM is discarded after loading; no Lua runs during play.
package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/custodian/types"
	lua "github.com/yuin/gopher-lua"
)

// rawDef holds a Room, Item or Character table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or def if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an integer field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStrings reads a field that may be a single string or an array of strings.
func getStrings(tbl *lua.LTable, key string) []string {
	return toStrings(tbl.RawGetString(key))
}

func toStrings(v lua.LValue) []string {
	switch val := v.(type) {
	case lua.LString:
		return []string{string(val)}
	case *lua.LTable:
		var out []string
		for i := 1; i <= val.MaxN(); i++ {
			if s, ok := val.RawGetInt(i).(lua.LString); ok {
				out = append(out, string(s))
			}
		}
		return out
	default:
		return nil
	}
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Sequential integer keys from 1 make an array.
		if maxN := val.MaxN(); maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// tableToStringMap converts a Lua table to a map[string]string with
// lowercased keys. Non-string entries are skipped.
func tableToStringMap(tbl *lua.LTable) map[string]string {
	if tbl == nil {
		return nil
	}
	m := map[string]string{}
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		if vs, ok := v.(lua.LString); ok {
			m[strings.ToLower(string(ks))] = string(vs)
		}
	})
	return m
}

// tableToAnyMap converts a Lua table to a map[string]any.
func tableToAnyMap(tbl *lua.LTable) map[string]any {
	if tbl == nil {
		return nil
	}
	m := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

// compile converts the collected Lua tables into Defs. Definition order is
// preserved so the world is built the same way every run.
func compile(coll *collector) (*types.Defs, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}

	defs := &types.Defs{Game: compileGame(coll.game)}

	for _, raw := range coll.rooms {
		room, err := compileRoom(raw)
		if err != nil {
			return nil, err
		}
		defs.Rooms = append(defs.Rooms, room)
	}
	for _, raw := range coll.items {
		defs.Items = append(defs.Items, compileItem(raw))
	}
	for _, raw := range coll.characters {
		defs.Characters = append(defs.Characters, compileCharacter(raw))
	}
	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:        getString(tbl, "title"),
		Author:       getString(tbl, "author"),
		Version:      getString(tbl, "version"),
		Start:        getString(tbl, "start"),
		Intro:        getString(tbl, "intro"),
		MaxScore:     getInt(tbl, "max_score"),
		MaxInventory: getInt(tbl, "max_inventory"),
		Ending:       getStrings(tbl, "ending"),
	}
}

func compileRoom(raw rawDef) (types.RoomDef, error) {
	tbl := raw.table
	room := types.RoomDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Features:    tableToStringMap(getTable(tbl, "features")),
		State:       tableToAnyMap(getTable(tbl, "state")),
	}
	if room.Name == "" {
		room.Name = strings.ToUpper(raw.id)
	}

	exits := getTable(tbl, "exits")
	if exits == nil {
		return room, nil
	}
	room.Exits = map[string]types.ExitDef{}
	var err error
	exits.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		dir, ok := k.(lua.LString)
		if !ok {
			err = fmt.Errorf("room %q: exit keys must be directions", raw.id)
			return
		}
		var exit types.ExitDef
		exit, err = compileExit(raw.id, string(dir), v)
		room.Exits[strings.ToLower(string(dir))] = exit
	})
	return room, err
}

// compileExit accepts either a room id or a Locked{} table.
func compileExit(roomID, dir string, v lua.LValue) (types.ExitDef, error) {
	switch val := v.(type) {
	case lua.LString:
		return types.ExitDef{RoomID: string(val)}, nil
	case *lua.LTable:
		if val.RawGetString(lockedMarker) != lua.LTrue {
			return types.ExitDef{}, fmt.Errorf("room %q exit %q: use a room id or Locked{}", roomID, dir)
		}
		return types.ExitDef{
			RoomID:        getString(val, "room"),
			Locked:        true,
			RequiredKeyID: getString(val, "key"),
			LockedMessage: getString(val, "message"),
		}, nil
	default:
		return types.ExitDef{}, fmt.Errorf("room %q exit %q: unexpected %s", roomID, dir, v.Type())
	}
}

func compileItem(raw rawDef) types.ItemDef {
	tbl := raw.table
	item := types.ItemDef{
		ID:             raw.id,
		Name:           getString(tbl, "name"),
		Aliases:        getStrings(tbl, "aliases"),
		Description:    getString(tbl, "description"),
		ExamineText:    getString(tbl, "examine"),
		Takeable:       getBool(tbl, "takeable", true),
		RefusalMessage: getString(tbl, "refusal"),
		UseWith:        getStrings(tbl, "use_with"),
		StartingRoom:   getString(tbl, "location"),
		Hidden:         getBool(tbl, "hidden", false),
		State:          tableToAnyMap(getTable(tbl, "state")),
	}
	if item.Name == "" {
		item.Name = raw.id
	}
	if item.Description == "" {
		item.Description = "An item."
	}
	return item
}

func compileCharacter(raw rawDef) types.CharacterDef {
	tbl := raw.table
	c := types.CharacterDef{
		ID:           raw.id,
		Name:         getString(tbl, "name"),
		Description:  getString(tbl, "description"),
		State:        getString(tbl, "state"),
		Giveable:     getStrings(tbl, "gives"),
		StartingRoom: getString(tbl, "location"),
	}
	if c.Name == "" {
		c.Name = raw.id
	}
	if c.Description == "" {
		c.Description = "Someone is here."
	}
	if dlg := getTable(tbl, "dialogue"); dlg != nil {
		c.Dialogue = map[string][]string{}
		dlg.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				if lines := toStrings(v); len(lines) > 0 {
					c.Dialogue[string(ks)] = lines
				}
			}
		})
	}
	return c
}

// sortedLuaFiles returns .lua files with game.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
