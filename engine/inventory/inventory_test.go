package inventory

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/custodian/engine/errs"
	"github.com/nathoo/custodian/engine/world"
	"github.com/nathoo/custodian/types"
	"github.com/pixil98/go-testutil"
)

func item(id, name string, aliases ...string) *world.Item {
	return world.NewItem(types.ItemDef{ID: id, Name: name, Aliases: aliases})
}

func TestInventory_Add(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		preload  []*world.Item
		add      *world.Item
		wantErr  error
		wantLen  int
	}{
		{"into empty", 0, nil, item("mop", "mop"), nil, 1},
		{"unlimited", 0, []*world.Item{item("a", "a"), item("b", "b")}, item("c", "c"), nil, 3},
		{"under capacity", 2, []*world.Item{item("a", "a")}, item("b", "b"), nil, 2},
		{"at capacity", 1, []*world.Item{item("a", "a")}, item("b", "b"), ErrFull, 1},
		{"duplicate", 0, []*world.Item{item("mop", "mop")}, item("mop", "mop"), ErrDuplicate, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := New(tt.capacity)
			for _, it := range tt.preload {
				if err := inv.Add(it); err != nil {
					t.Fatalf("preload: %v", err)
				}
			}
			before := strings.Join(inv.IDs(), ",")

			err := inv.Add(tt.add)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Add() error = %v, want %v", err, tt.wantErr)
			}
			testutil.AssertEqual(t, "len", inv.Len(), tt.wantLen)
			if err != nil {
				testutil.AssertEqual(t, "contents unchanged", strings.Join(inv.IDs(), ","), before)
			}
		})
	}
}

func TestInventory_ErrorKinds(t *testing.T) {
	testutil.AssertEqual(t, "full", errs.KindOf(ErrFull), errs.KindCapacity)
	testutil.AssertEqual(t, "duplicate", errs.KindOf(ErrDuplicate), errs.KindInvalidState)
}

func TestInventory_Remove(t *testing.T) {
	inv := New(0)
	mop := item("mop", "mop")
	_ = inv.Add(mop)
	_ = inv.Add(item("bucket", "bucket"))

	got, ok := inv.Remove("mop")
	testutil.AssertEqual(t, "removed", ok, true)
	testutil.AssertEqual(t, "same item", got == mop, true)
	testutil.AssertEqual(t, "has mop", inv.Has("mop"), false)
	testutil.AssertEqual(t, "ids", strings.Join(inv.IDs(), ","), "bucket")

	_, ok = inv.Remove("mop")
	testutil.AssertEqual(t, "remove missing", ok, false)
}

func TestInventory_FindByName(t *testing.T) {
	inv := New(0)
	_ = inv.Add(item("keycard-cargo", "Keycard", "card"))
	_ = inv.Add(item("solvent", "Cleaning Solvent", "solvent", "card"))

	tests := map[string]string{
		"keycard":          "keycard-cargo",
		"KEYCARD-CARGO":    "keycard-cargo",
		"card":             "keycard-cargo", // storage order wins
		"cleaning solvent": "solvent",
		"solvent":          "solvent",
	}
	for name, want := range tests {
		got := inv.FindByName(name)
		if got == nil {
			t.Errorf("FindByName(%q) = nil, want %s", name, want)
			continue
		}
		testutil.AssertEqual(t, name, got.ID, want)
	}
	testutil.AssertEqual(t, "missing", inv.FindByName("banana") == nil, true)
}

func TestInventory_Display(t *testing.T) {
	inv := New(0)
	testutil.AssertEqual(t, "empty", inv.Display(), "You are carrying nothing.")
	testutil.AssertEqual(t, "is empty", inv.IsEmpty(), true)

	_ = inv.Add(item("mop", "mop"))
	_ = inv.Add(item("bucket", "bucket"))
	testutil.AssertEqual(t, "two", inv.Display(), "You are carrying: mop, bucket.")

	inv.Clear()
	testutil.AssertEqual(t, "cleared", inv.Len(), 0)
}

func TestInventory_IsFull(t *testing.T) {
	inv := New(1)
	testutil.AssertEqual(t, "empty", inv.IsFull(), false)
	_ = inv.Add(item("a", "a"))
	testutil.AssertEqual(t, "full", inv.IsFull(), true)
	testutil.AssertEqual(t, "unlimited never full", New(0).IsFull(), false)
}
