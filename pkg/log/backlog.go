package log

import (
	"fmt"
	"io"
	"sync"
)

// DefaultBacklogSize is used when [NewBacklog] is given a non-positive size.
const DefaultBacklogSize = 100

// Backlog is an [io.Writer] that keeps the most recent writes in memory.
// It holds log output while a full-screen UI owns the terminal, so the
// output can be replayed once the UI exits.
type Backlog struct {
	lines [][]byte
	start int
	size  int
	mu    sync.Mutex
}

// NewBacklog creates a [Backlog] that keeps up to size writes.
func NewBacklog(size int) *Backlog {
	if size <= 0 {
		size = DefaultBacklogSize
	}

	return &Backlog{lines: make([][]byte, size)}
}

// Write stores a copy of p, dropping the oldest write when full.
func (b *Backlog) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	line := make([]byte, len(p))
	copy(line, p)

	b.mu.Lock()
	defer b.mu.Unlock()

	idx := (b.start + b.size) % len(b.lines)
	b.lines[idx] = line

	if b.size < len(b.lines) {
		b.size++
	} else {
		b.start = (b.start + 1) % len(b.lines)
	}

	return len(p), nil
}

// Lines returns copies of the stored writes, oldest first.
func (b *Backlog) Lines() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([][]byte, 0, b.size)
	for i := range b.size {
		line := b.lines[(b.start+i)%len(b.lines)]
		out = append(out, append([]byte(nil), line...))
	}

	return out
}

// Len returns the number of stored writes.
func (b *Backlog) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.size
}

// WriteTo replays the stored writes to w, oldest first.
func (b *Backlog) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, line := range b.Lines() {
		n, err := w.Write(line)
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("replay backlog: %w", err)
		}
	}

	return total, nil
}
