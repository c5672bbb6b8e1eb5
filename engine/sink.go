package engine

import (
	"strings"

	"github.com/nathoo/custodian/types"
)

// Sink receives narrated output, one line at a time, in order.
type Sink interface {
	Emit(line types.Line)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(line types.Line)

func (f SinkFunc) Emit(line types.Line) { f(line) }

// Buffer is a Sink that collects lines until drained.
type Buffer struct {
	lines []types.Line
}

func (b *Buffer) Emit(line types.Line) {
	b.lines = append(b.lines, line)
}

// Lines returns the collected lines without draining them.
func (b *Buffer) Lines() []types.Line {
	return append([]types.Line(nil), b.lines...)
}

// Drain returns the collected lines and empties the buffer.
func (b *Buffer) Drain() []types.Line {
	out := b.lines
	b.lines = nil
	return out
}

// String joins the collected line texts with newlines.
func (b *Buffer) String() string {
	texts := make([]string, len(b.lines))
	for i, l := range b.lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}

type discard struct{}

func (discard) Emit(types.Line) {}
