package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// lockedMarker tags tables produced by Locked{} so exits can tell them
// apart from plain tables.
const lockedMarker = "__locked"

// registerAPI registers the content constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", start = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Room "id" { ... }, Item "id" { ... }, Character "id" { ... }
	L.SetGlobal("Room", curried(L, &coll.rooms))
	L.SetGlobal("Item", curried(L, &coll.items))
	L.SetGlobal("Character", curried(L, &coll.characters))

	// Locked { room = "...", key = "...", message = "..." } marks an exit
	// that starts locked.
	L.SetGlobal("Locked", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		tbl.RawSetString(lockedMarker, lua.LTrue)
		L.Push(tbl)
		return 1
	}))
}

// curried returns a constructor of the form Kind("id") { ... } that appends
// the definition to dst in call order.
func curried(L *lua.LState, dst *[]rawDef) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			*dst = append(*dst, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	})
}
