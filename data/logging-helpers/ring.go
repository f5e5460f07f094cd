package logginghelpers

import (
	"bytes"
	"sync"
)

// Ring keeps the last few written lines in memory
// it is fine for old lines to be lost, the full logs still go to stdout
type Ring struct {
	mu    sync.Mutex
	lines [][]byte
	size  int
	next  int
	full  bool
}

func NewRing(size int) *Ring {
	if size <= 0 {
		size = 1
	}
	return &Ring{
		lines: make([][]byte, size),
		size:  size,
	}
}

// Write stores every line of b as its own entry
func (r *Ring) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range bytes.Split(bytes.TrimRight(b, "\n"), []byte("\n")) {
		r.lines[r.next] = bytes.Clone(line)
		r.next = (r.next + 1) % r.size
		if r.next == 0 {
			r.full = true
		}
	}
	return len(b), nil
}

// Lines returns the stored lines oldest first
func (r *Ring) Lines() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([][]byte, r.next)
		copy(out, r.lines[:r.next])
		return out
	}
	out := make([][]byte, 0, r.size)
	out = append(out, r.lines[r.next:]...)
	out = append(out, r.lines[:r.next]...)
	return out
}
