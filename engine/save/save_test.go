package save

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/custodian/engine/errs"
	"github.com/pixil98/go-testutil"
)

func TestRoundTrip(t *testing.T) {
	rec := &Record{
		Version:       Version,
		Timestamp:     1700000000000,
		CurrentRoomID: "cargo-corridor",
		Inventory:     []string{"mop", "keycard-cargo"},
		Flags:         map[string]any{"keycard_knocked_down": true, "attempts": 3},
		MoveCount:     7,
		StartTime:     1699999990000,
		Score:         10,
	}

	data, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	testutil.AssertEqual(t, "room", got.CurrentRoomID, "cargo-corridor")
	testutil.AssertEqual(t, "moves", got.MoveCount, 7)
	testutil.AssertEqual(t, "score", got.Score, 10)
	testutil.AssertEqual(t, "timestamp", got.Timestamp, int64(1700000000000))
	testutil.AssertEqual(t, "inventory len", len(got.Inventory), 2)
	testutil.AssertEqual(t, "inventory[1]", got.Inventory[1], "keycard-cargo")
	testutil.AssertEqual(t, "bool flag", got.Flags["keycard_knocked_down"], any(true))
	testutil.AssertEqual(t, "number flag", got.Flags["attempts"], any(3))
}

func TestDecode_FlagNumbers(t *testing.T) {
	data := `{"version": 1, "currentRoomId": "bay", "flags": {
		"mopped": 3, "ratio": 0.5, "big": 1e3, "codes": [1, 2.5], "nested": {"n": 4}
	}}`
	got, err := Decode([]byte(data))
	if err != nil {
		t.Fatal(err)
	}

	testutil.AssertEqual(t, "whole", got.Flags["mopped"], any(3))
	testutil.AssertEqual(t, "fraction", got.Flags["ratio"], any(0.5))
	testutil.AssertEqual(t, "exponent", got.Flags["big"], any(float64(1000)))
	codes := got.Flags["codes"].([]any)
	testutil.AssertEqual(t, "list whole", codes[0], any(1))
	testutil.AssertEqual(t, "list fraction", codes[1], any(2.5))
	nested := got.Flags["nested"].(map[string]any)
	testutil.AssertEqual(t, "nested", nested["n"], any(4))
}

func TestEncode_FieldNames(t *testing.T) {
	data, err := Encode(&Record{Version: Version, CurrentRoomID: "bay"})
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"version"`, `"timestamp"`, `"currentRoomId"`, `"inventory"`, `"flags"`, `"moveCount"`, `"startTime"`, `"score"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("encoded record missing %s: %s", field, data)
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not json", "{{{", "decoding save"},
		{"wrong version", `{"version": 2, "currentRoomId": "bay"}`, "save version 2"},
		{"no room", `{"version": 1}`, "no current room"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			testutil.AssertErrorContains(t, err, tt.want)
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("error %v is not ErrCorrupt", err)
			}
			testutil.AssertEqual(t, "kind", errs.KindOf(err), errs.KindPersistence)
		})
	}
}

func TestDecode_NilCollections(t *testing.T) {
	got, err := Decode([]byte(`{"version": 1, "currentRoomId": "bay"}`))
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, "flags non-nil", got.Flags != nil, true)
	testutil.AssertEqual(t, "inventory non-nil", got.Inventory != nil, true)
}

func TestKey(t *testing.T) {
	testutil.AssertEqual(t, "key", Key(2), "custodian-save-2")
}

func testStore(t *testing.T, s Store) {
	t.Helper()

	_, ok, err := s.Get("slot")
	if err != nil {
		t.Fatalf("Get on empty store: %v", err)
	}
	testutil.AssertEqual(t, "empty", ok, false)

	if err := s.Put("slot", []byte("one")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("slot", []byte("two")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	data, ok, err := s.Get("slot")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "data", string(data), "two")

	if err := s.Delete("slot"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, ok, _ = s.Get("slot")
	testutil.AssertEqual(t, "deleted", ok, false)
	if err := s.Delete("slot"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStore_CopiesData(t *testing.T) {
	s := NewMemoryStore()
	buf := []byte("abc")
	_ = s.Put("k", buf)
	buf[0] = 'x'
	data, _, _ := s.Get("k")
	testutil.AssertEqual(t, "data", string(data), "abc")
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saves")
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	testutil.AssertEqual(t, "dir", s.Dir(), dir)
	testStore(t, s)
}

func TestFileStore_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	if err := s.Put(Key(1), []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "custodian-save-1.json")); err != nil {
		t.Errorf("save file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "custodian-save-1.json.tmp")); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestFileStore_RejectsBadKeys(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	for _, key := range []string{"", "..", "../escape", `a\b`} {
		if err := s.Put(key, []byte("x")); err == nil {
			t.Errorf("Put(%q) should fail", key)
		}
	}
}
