// Package inventory holds the items the player is carrying.
package inventory

import (
	"slices"
	"strings"

	"github.com/nathoo/custodian/engine/errs"
	"github.com/nathoo/custodian/engine/world"
)

var (
	// ErrFull is returned by Add when the inventory is at capacity.
	ErrFull = errs.New(errs.KindCapacity, "Your inventory is full. You'll need to drop something first.")
	// ErrDuplicate is returned by Add when the item is already carried.
	ErrDuplicate = errs.New(errs.KindInvalidState, "You already have that.")
)

// Inventory is an ordered collection of items, unique by ID.
type Inventory struct {
	items    []*world.Item
	capacity int
}

// New returns an empty inventory. A capacity of 0 means unlimited.
func New(capacity int) *Inventory {
	return &Inventory{capacity: capacity}
}

// Capacity returns the maximum item count, 0 if unlimited.
func (inv *Inventory) Capacity() int { return inv.capacity }

// Add appends an item. Nothing changes on error.
func (inv *Inventory) Add(it *world.Item) error {
	if inv.IsFull() {
		return ErrFull
	}
	if inv.Has(it.ID) {
		return ErrDuplicate
	}
	inv.items = append(inv.items, it)
	return nil
}

// Remove takes the item out and returns it.
func (inv *Inventory) Remove(id string) (*world.Item, bool) {
	i := slices.IndexFunc(inv.items, func(it *world.Item) bool { return it.ID == id })
	if i < 0 {
		return nil, false
	}
	it := inv.items[i]
	inv.items = slices.Delete(inv.items, i, i+1)
	return it, true
}

// Has reports whether an item with this ID is carried.
func (inv *Inventory) Has(id string) bool {
	return inv.Get(id) != nil
}

// Get returns the carried item with this ID, or nil.
func (inv *Inventory) Get(id string) *world.Item {
	for _, it := range inv.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// FindByName returns the first carried item whose name, ID or alias
// matches, case-insensitively.
func (inv *Inventory) FindByName(name string) *world.Item {
	for _, it := range inv.items {
		if it.Matches(name) {
			return it
		}
	}
	return nil
}

// Display renders the player-facing inventory line.
func (inv *Inventory) Display() string {
	if len(inv.items) == 0 {
		return "You are carrying nothing."
	}
	return "You are carrying: " + strings.Join(inv.Names(), ", ") + "."
}

// Items returns a copy of the carried items in order.
func (inv *Inventory) Items() []*world.Item { return slices.Clone(inv.items) }

func (inv *Inventory) Len() int      { return len(inv.items) }
func (inv *Inventory) IsEmpty() bool { return len(inv.items) == 0 }
func (inv *Inventory) IsFull() bool  { return inv.capacity > 0 && len(inv.items) >= inv.capacity }
func (inv *Inventory) Clear()        { inv.items = nil }

// Names returns item display names in order.
func (inv *Inventory) Names() []string {
	names := make([]string, len(inv.items))
	for i, it := range inv.items {
		names[i] = it.Name
	}
	return names
}

// IDs returns item IDs in order.
func (inv *Inventory) IDs() []string {
	ids := make([]string, len(inv.items))
	for i, it := range inv.items {
		ids[i] = it.ID
	}
	return ids
}
