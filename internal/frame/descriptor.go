// Package frame implements per-scope variable slots whose kind is
// speculated from the values written to them.
//
// A Descriptor is shared by every activation of a lexical scope and records
// the speculative kind of each slot. A Frame is one activation: it stores raw
// bits for primitives, boxed objects for everything else, and a tag per slot
// saying which representation is actually held.
package frame

import (
	"sync"
	"sync/atomic"

	"github.com/funvibe/adaptive/internal/profile"
	"github.com/funvibe/adaptive/internal/value"
	"github.com/rs/zerolog/log"
)

// SlotID indexes a slot in its Descriptor.
type SlotID int

const NoSlot SlotID = -1

type slot struct {
	name string
	kind atomic.Uint32 // value.Kind
}

// Descriptor is the slot table of a lexical scope.
type Descriptor struct {
	mu    sync.RWMutex
	name  string
	slots []*slot
	index map[string]SlotID
}

func NewDescriptor(name string) *Descriptor {
	return &Descriptor{name: name, index: make(map[string]SlotID)}
}

func (d *Descriptor) Name() string { return d.name }

// Declare adds name with kind Illegal. Declaring an existing name returns its slot.
func (d *Descriptor) Declare(name string) SlotID {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.index[name]; ok {
		return id
	}
	id := SlotID(len(d.slots))
	d.slots = append(d.slots, &slot{name: name})
	d.index[name] = id
	return id
}

// Lookup returns the slot for name or NoSlot.
func (d *Descriptor) Lookup(name string) SlotID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if id, ok := d.index[name]; ok {
		return id
	}
	return NoSlot
}

// Size is the number of declared slots.
func (d *Descriptor) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.slots)
}

func (d *Descriptor) get(id SlotID) *slot {
	d.mu.RLock()
	s := d.slots[id]
	d.mu.RUnlock()
	return s
}

// SlotName returns the identifier declared for id.
func (d *Descriptor) SlotName(id SlotID) string {
	return d.get(id).name
}

// Kind returns the current speculative kind of id.
func (d *Descriptor) Kind(id SlotID) value.Kind {
	return value.Kind(d.get(id).kind.Load())
}

// Widen joins the slot kind with k. It returns the resulting kind and
// whether the slot changed.
func (d *Descriptor) Widen(id SlotID, k value.Kind) (value.Kind, bool) {
	s := d.get(id)
	for {
		old := value.Kind(s.kind.Load())
		next := Join(old, k)
		if next == old {
			return old, false
		}
		if s.kind.CompareAndSwap(uint32(old), uint32(next)) {
			log.Debug().
				Str("scope", d.name).
				Str("slot", s.name).
				Stringer("from", old).
				Stringer("to", next).
				Msg("slot kind widened")
			profile.Record(profile.SlotWidened)
			if next == value.Ref {
				profile.Record(profile.SlotGeneralized)
			}
			return next, true
		}
	}
}

// Generalize moves id straight to the Object kind.
func (d *Descriptor) Generalize(id SlotID) bool {
	_, changed := d.Widen(id, value.Ref)
	return changed
}
