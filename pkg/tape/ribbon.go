// Package tape implements the growable ribbon of a single-tape Turing machine.
//
// The ribbon is conceptually infinite in both directions. It is stored as a
// finite slice that grows on demand: reading past the right end appends a blank,
// and moving left of cell 0 inserts a blank at the front and renumbers the cells.
package tape

import (
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Ribbon is a mutable tape. It is not safe for concurrent use.
type Ribbon struct {
	// cells[front:] holds the tape; the prefix is spare room for front insertions.
	cells []domain.Symbol
	front int
	blank domain.Symbol
}

// New creates a ribbon holding input, one symbol per cell.
func New(input string, blank domain.Symbol) *Ribbon {
	cells := make([]domain.Symbol, 0, len(input))
	for _, r := range input {
		cells = append(cells, domain.Symbol(r))
	}
	return &Ribbon{cells: cells, blank: blank}
}

// Len returns the number of materialized cells.
func (r *Ribbon) Len() int {
	return len(r.cells) - r.front
}

// Read returns the symbol at pos. Reading past the right end extends the
// ribbon with blanks up to and including pos.
func (r *Ribbon) Read(pos int) domain.Symbol {
	for pos >= r.Len() {
		r.cells = append(r.cells, r.blank)
	}
	return r.cells[r.front+pos]
}

// Write replaces the symbol at pos. Out-of-range positions are ignored and
// reported by the return value.
func (r *Ribbon) Write(pos int, sym domain.Symbol) bool {
	if pos < 0 || pos >= r.Len() {
		return false
	}
	r.cells[r.front+pos] = sym
	return true
}

// Move shifts the head from pos in dir and returns the new position.
// Moving left of cell 0 inserts exactly one blank at the front and returns 0.
func (r *Ribbon) Move(pos int, dir domain.Direction) int {
	pos += dir.Offset()
	if pos < 0 {
		r.prepend()
		pos = 0
	}
	return pos
}

func (r *Ribbon) prepend() {
	if r.front == 0 {
		room := r.Len()
		if room < 8 {
			room = 8
		}
		grown := make([]domain.Symbol, room+len(r.cells), room+cap(r.cells))
		copy(grown[room:], r.cells)
		r.cells = grown
		r.front = room
	}
	r.front--
	r.cells[r.front] = r.blank
}

// String returns the materialized cells, blanks included.
func (r *Ribbon) String() string {
	var b strings.Builder
	b.Grow(r.Len())
	for _, s := range r.cells[r.front:] {
		b.WriteRune(rune(s))
	}
	return b.String()
}

// Trimmed returns the ribbon contents without leading and trailing blanks.
func (r *Ribbon) Trimmed() string {
	return Trim(r.String(), r.blank)
}

// Trim drops leading and trailing blank symbols. Interior blanks are kept.
func Trim(s string, blank domain.Symbol) string {
	return strings.Trim(s, string(blank))
}
