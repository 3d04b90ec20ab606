// Package shape specializes object fields by storage location.
//
// Objects that assign the same fields in the same order share a Shape, and
// through it share one storage Location per field. A Location starts with the
// kind of the first value written to it and can only be generalized to
// Boxed. Generalizing mutates the Location in place, so every object using it
// sees the new kind without migration; each object always has a reference
// slot allocated next to its primitive slot, which is where boxed values go.
package shape

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/funvibe/adaptive/internal/profile"
	"github.com/funvibe/adaptive/internal/value"
	"github.com/rs/zerolog/log"
)

// Boxed is the universal location kind.
const Boxed = value.Ref

// LocationID is a handle into a Table.
type LocationID int32

// Location describes where one field lives in every object of a shape.
type Location struct {
	name string
	slot int
	kind atomic.Uint32 // value.Kind
}

func (l *Location) Name() string    { return l.name }
func (l *Location) Slot() int       { return l.slot }
func (l *Location) Kind() value.Kind { return value.Kind(l.kind.Load()) }
func (l *Location) String() string  { return fmt.Sprintf("%s@%d:%s", l.name, l.slot, l.Kind()) }

// Kind is the subset of value kinds a Location can specialize to.
type Kind = value.Kind

// KindOf returns the location kind that stores k without boxing.
func KindOf(k value.Kind) Kind {
	if k.IsPrimitive() {
		return k
	}
	return Boxed
}

// Table owns every Location; shapes refer to them by id.
type Table struct {
	mu   sync.RWMutex
	locs []*Location

	rootOnce sync.Once
	root     *Shape
}

func NewTable() *Table {
	return &Table{}
}

// Root returns the table's empty shape. Objects started from it share
// transitions, and so locations, with every other user of the table.
func (t *Table) Root() *Shape {
	t.rootOnce.Do(func() { t.root = NewRoot(t) })
	return t.root
}

func (t *Table) add(name string, slot int, kind Kind) LocationID {
	t.mu.Lock()
	defer t.mu.Unlock()
	loc := &Location{name: name, slot: slot}
	loc.kind.Store(uint32(kind))
	t.locs = append(t.locs, loc)
	return LocationID(len(t.locs) - 1)
}

// Location resolves a handle.
func (t *Table) Location(id LocationID) *Location {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.locs[id]
}

// Len is the number of locations ever created.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.locs)
}

// Generalize promotes id to Boxed. It returns false if it already was.
func (t *Table) Generalize(id LocationID) bool {
	loc := t.Location(id)
	for {
		old := loc.Kind()
		if old == Boxed {
			return false
		}
		if loc.kind.CompareAndSwap(uint32(old), uint32(Boxed)) {
			log.Debug().
				Str("field", loc.name).
				Int("slot", loc.slot).
				Stringer("from", old).
				Msg("storage location generalized")
			profile.Record(profile.FieldGeneralized)
			return true
		}
	}
}
