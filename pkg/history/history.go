// Package history keeps the ordered log of successful evaluations.
package history

import "fmt"

// Entry records one successful evaluation. Entries are never modified after
// they are appended; they have no identity beyond their position.
type Entry struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%s = %s", e.Expression, e.Result)
}

// IndexError reports a removal outside the current bounds of the log.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("history index %d out of range [0, %d)", e.Index, e.Len)
}

// Log is an append-only sequence of entries that can be trimmed by index or
// cleared. When a capacity is set the oldest entry is evicted to make room.
// A Log is not safe for concurrent use.
type Log struct {
	entries  []Entry
	capacity int
}

// New creates a log holding at most capacity entries; zero means unbounded.
func New(capacity int) *Log {
	if capacity < 0 {
		capacity = 0
	}
	return &Log{capacity: capacity}
}

// Append adds e at the end, evicting the oldest entry if the log is full.
func (l *Log) Append(e Entry) {
	if l.capacity > 0 && len(l.entries) >= l.capacity {
		n := len(l.entries) - l.capacity + 1
		l.entries = append(l.entries[:0], l.entries[n:]...)
	}
	l.entries = append(l.entries, e)
}

// RemoveAt deletes the entry at index i. The relative order of the remaining
// entries is preserved.
func (l *Log) RemoveAt(i int) error {
	if i < 0 || i >= len(l.entries) {
		return &IndexError{Index: i, Len: len(l.entries)}
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return nil
}

// Clear removes every entry.
func (l *Log) Clear() {
	l.entries = nil
}

// List returns a snapshot copy of the entries, oldest first.
func (l *Log) List() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Cap returns the configured capacity; zero means unbounded.
func (l *Log) Cap() int { return l.capacity }
