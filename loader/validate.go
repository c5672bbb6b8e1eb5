package loader

import (
	"fmt"
	"maps"
	"slices"

	"github.com/nathoo/custodian/types"
	"github.com/pixil98/go-errors"
)

// validate checks the compiled defs for referential integrity. Problems that
// would break play are returned as an aggregated error; content smells that
// the engine tolerates come back as warnings.
func validate(defs *types.Defs) ([]string, error) {
	el := errors.NewErrorList()
	var warnings []string

	if defs.Game.Title == "" {
		el.Add(fmt.Errorf("Game.title is required"))
	}
	if defs.Game.MaxScore < 0 {
		el.Add(fmt.Errorf("Game.max_score must not be negative"))
	}
	if defs.Game.MaxInventory < 0 {
		el.Add(fmt.Errorf("Game.max_inventory must not be negative"))
	}

	rooms := map[string]bool{}
	features := map[string]bool{}
	for _, r := range defs.Rooms {
		if rooms[r.ID] {
			el.Add(fmt.Errorf("duplicate room %q", r.ID))
		}
		rooms[r.ID] = true
		for name := range r.Features {
			features[name] = true
		}
	}
	items := map[string]bool{}
	for _, it := range defs.Items {
		if items[it.ID] {
			el.Add(fmt.Errorf("duplicate item %q", it.ID))
		}
		items[it.ID] = true
	}
	characters := map[string]bool{}
	for _, c := range defs.Characters {
		if characters[c.ID] {
			el.Add(fmt.Errorf("duplicate character %q", c.ID))
		}
		characters[c.ID] = true
	}

	if defs.Game.Start == "" {
		el.Add(fmt.Errorf("Game.start is required"))
	} else if !rooms[defs.Game.Start] {
		el.Add(fmt.Errorf("start room %q not found in defined rooms", defs.Game.Start))
	}

	for _, r := range defs.Rooms {
		for _, dir := range slices.Sorted(maps.Keys(r.Exits)) {
			exit := r.Exits[dir]
			if !rooms[exit.RoomID] {
				el.Add(fmt.Errorf("room %q exit %q points to undefined room %q", r.ID, dir, exit.RoomID))
			}
			if exit.RequiredKeyID != "" && !items[exit.RequiredKeyID] {
				el.Add(fmt.Errorf("room %q exit %q requires undefined item %q", r.ID, dir, exit.RequiredKeyID))
			}
			if !exit.Locked && exit.RequiredKeyID != "" {
				warnings = append(warnings, fmt.Sprintf("room %q exit %q names a key but is not locked", r.ID, dir))
			}
		}
	}

	given := map[string]bool{}
	for _, c := range defs.Characters {
		if c.StartingRoom != "" && !rooms[c.StartingRoom] {
			el.Add(fmt.Errorf("character %q location %q is not a defined room", c.ID, c.StartingRoom))
		}
		for _, id := range c.Giveable {
			if !items[id] {
				el.Add(fmt.Errorf("character %q gives undefined item %q", c.ID, id))
			}
			given[id] = true
		}
		state := c.State
		if state == "" {
			state = "default"
		}
		if len(c.Dialogue[state]) == 0 && len(c.Dialogue["default"]) == 0 {
			warnings = append(warnings, fmt.Sprintf("character %q has no dialogue for state %q", c.ID, state))
		}
	}

	for _, it := range defs.Items {
		if it.StartingRoom != "" && !rooms[it.StartingRoom] {
			el.Add(fmt.Errorf("item %q location %q is not a defined room", it.ID, it.StartingRoom))
		}
		if it.StartingRoom == "" && !given[it.ID] {
			warnings = append(warnings, fmt.Sprintf("item %q has no location and no character gives it", it.ID))
		}
		for _, ref := range it.UseWith {
			if !items[ref] && !features[ref] && !characters[ref] {
				warnings = append(warnings, fmt.Sprintf("item %q use_with %q matches no item, feature or character", it.ID, ref))
			}
		}
	}

	return warnings, el.Err()
}
