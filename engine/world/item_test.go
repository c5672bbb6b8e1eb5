package world

import (
	"testing"

	"github.com/nathoo/custodian/types"
	"github.com/pixil98/go-testutil"
)

func TestItem_Matches(t *testing.T) {
	it := NewItem(types.ItemDef{ID: "keycard-cargo", Name: "Keycard", Aliases: []string{"card", "key card"}})
	tests := map[string]bool{
		"keycard":       true,
		"KEYCARD":       true,
		"keycard-cargo": true,
		"card":          true,
		"key card":      true,
		"key":           false,
		"":              false,
	}
	for name, want := range tests {
		testutil.AssertEqual(t, "matches "+name, it.Matches(name), want)
	}
}

func TestItem_DefaultHooks(t *testing.T) {
	w, _ := Build(testDefs())
	ctx := newFakeCtx(w, "bay")
	mop := w.ItemByID("mop")
	crate := w.ItemByID("crate")
	shelf, _ := w.Room("bay").Feature("shelf")

	tests := []struct {
		name string
		got  Result
		want Result
	}{
		{"use alone", mop.Use(nil, ctx), Result{Message: "You're not sure how to use the mop by itself."}},
		{"use compatible", mop.Use(shelf, ctx), Result{OK: true, Message: "You use the mop with the shelf."}},
		{"use incompatible", mop.Use(crate, ctx), Result{Message: "You can't use the mop with that."}},
		{"take takeable", mop.Take(ctx), Result{OK: true, Message: "You take the mop."}},
		{"take refused", crate.Take(ctx), Result{Message: "Far too heavy."}},
		{"drop", mop.Drop(ctx), Result{OK: true, Message: "You drop the mop."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, "result", tt.got, tt.want)
		})
	}

	crate.RefusalMessage = ""
	testutil.AssertEqual(t, "generic refusal", crate.Take(ctx).Message, "You can't take that.")
}

func TestItem_Examine(t *testing.T) {
	it := NewItem(types.ItemDef{ID: "mop", Name: "mop", Description: "A mop."})
	testutil.AssertEqual(t, "description fallback", it.Examine(nil), "A mop.")

	it.ExamineText = "A well-loved mop."
	testutil.AssertEqual(t, "examine text", it.Examine(nil), "A well-loved mop.")

	bare := NewItem(types.ItemDef{ID: "x", Name: "widget"})
	testutil.AssertEqual(t, "generic", bare.Examine(nil), "You see nothing special about the widget.")
}

func TestItem_SetExamineHook(t *testing.T) {
	w, _ := Build(testDefs())
	ctx := newFakeCtx(w, "bay")
	it := NewItem(types.ItemDef{ID: "keycard", Name: "keycard", ExamineText: "A keycard."})

	it.SetExamineHook(func(it *Item, ctx Context) (string, bool) {
		if !ctx.HasFlag("keycard_knocked_down") {
			return "", false
		}
		return "It's on the floor now.", true
	})
	testutil.AssertEqual(t, "flag unset", it.Examine(ctx), "A keycard.")
	ctx.SetFlag("keycard_knocked_down", true)
	testutil.AssertEqual(t, "flag set", it.Examine(ctx), "It's on the floor now.")

	it.SetExamineHook(nil)
	testutil.AssertEqual(t, "restored", it.Examine(ctx), "A keycard.")
}

func TestItem_SetUseHook_WrapsPrevious(t *testing.T) {
	w, _ := Build(testDefs())
	ctx := newFakeCtx(w, "bay")
	mop := w.ItemByID("mop")
	shelf, _ := w.Room("bay").Feature("shelf")

	testutil.AssertEqual(t, "custom before", mop.HasCustomUse(), false)

	var prev UseHook
	prev = mop.SetUseHook(func(it *Item, target Target, ctx Context) Result {
		r := prev(it, target, ctx)
		if r.OK {
			ctx.AddScore(10, "keycard_puzzle")
			r.Message += " Something falls."
		}
		return r
	})

	got := mop.Use(shelf, ctx)
	testutil.AssertEqual(t, "wrapped", got, Result{OK: true, Message: "You use the mop with the shelf. Something falls."})
	testutil.AssertEqual(t, "score", ctx.score, 10)
	testutil.AssertEqual(t, "custom after", mop.HasCustomUse(), true)

	mop.SetUseHook(nil)
	testutil.AssertEqual(t, "custom reset", mop.HasCustomUse(), false)
}

func TestItem_SetTakeHook_SupersedesTakeable(t *testing.T) {
	w, _ := Build(testDefs())
	ctx := newFakeCtx(w, "bay")
	crate := w.ItemByID("crate")

	crate.SetTakeHook(func(it *Item, ctx Context) Result {
		return Result{OK: true, Message: "With a grunt, you lift it."}
	})
	testutil.AssertEqual(t, "take", crate.Take(ctx), Result{OK: true, Message: "With a grunt, you lift it."})

	mop := w.ItemByID("mop")
	mop.SetDropHook(func(it *Item, ctx Context) Result {
		return Result{Message: "You'd rather keep it."}
	})
	testutil.AssertEqual(t, "drop", mop.Drop(ctx).OK, false)
}
