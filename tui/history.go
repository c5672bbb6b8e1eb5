package tui

// History keeps submitted commands for Up/Down recall. While navigating,
// the line being typed is kept as a draft and handed back when the player
// moves past the newest entry.
type History struct {
	entries []string
	max     int
	pos     int // len(entries) when not navigating
	draft   string
}

// NewHistory creates a history holding at most max entries.
func NewHistory(max int) *History {
	return &History{
		entries: make([]string, 0, max),
		max:     max,
	}
}

// Push records cmd and stops navigation. Consecutive duplicates are kept once.
func (h *History) Push(cmd string) {
	if n := len(h.entries); n == 0 || h.entries[n-1] != cmd {
		h.entries = append(h.entries, cmd)
		if len(h.entries) > h.max {
			h.entries = h.entries[len(h.entries)-h.max:]
		}
	}
	h.Reset()
}

// Prev steps to the next older entry. current is saved as the draft when
// navigation starts. It returns false when history is empty.
func (h *History) Prev(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if !h.navigating() {
		h.draft = current
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.entries[h.pos], true
}

// Next steps to the next newer entry, returning the draft after the newest.
// It returns false when not navigating.
func (h *History) Next() (string, bool) {
	if !h.navigating() {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.pos], true
}

// Reset stops navigation and forgets the draft.
func (h *History) Reset() {
	h.pos = len(h.entries)
	h.draft = ""
}

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

func (h *History) navigating() bool { return h.pos < len(h.entries) }
