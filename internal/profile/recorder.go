// Package profile counts speculation events (widenings, generalizations,
// inline-cache hits and misses) and persists per-run snapshots.
//
// Subsystems report through the package-level Record function, which
// forwards to the currently installed Recorder. Counting is lock-free so it
// can sit on slow paths that may run concurrently.
package profile

import (
	"sync/atomic"
)

// Event identifies one kind of speculation event.
type Event uint8

const (
	SlotWidened Event = iota
	SlotRespecialized
	SlotGeneralized
	ShapeTransition
	FieldGeneralized
	StorageGeneralized
	CallCacheMiss
	CallCacheHit
	CallInvalidated
	CallInlined
	CallInlinedHit
	CallGeneric
	numEvents
)

var eventNames = [numEvents]string{
	SlotWidened:        "slot_widened",
	SlotRespecialized:  "slot_respecialized",
	SlotGeneralized:    "slot_generalized",
	ShapeTransition:    "shape_transition",
	FieldGeneralized:   "field_generalized",
	StorageGeneralized: "storage_generalized",
	CallCacheMiss:      "call_cache_miss",
	CallCacheHit:       "call_cache_hit",
	CallInvalidated:    "call_invalidated",
	CallInlined:        "call_inlined",
	CallInlinedHit:     "call_inlined_hit",
	CallGeneric:        "call_generic",
}

func (e Event) String() string {
	if e < numEvents {
		return eventNames[e]
	}
	return "unknown"
}

// Events lists every event in declaration order.
func Events() []Event {
	out := make([]Event, numEvents)
	for i := range out {
		out[i] = Event(i)
	}
	return out
}

// Recorder holds one counter per event.
type Recorder struct {
	counts [numEvents]atomic.Int64
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Record(e Event) {
	if r == nil || e >= numEvents {
		return
	}
	r.counts[e].Add(1)
}

func (r *Recorder) Count(e Event) int64 {
	if r == nil || e >= numEvents {
		return 0
	}
	return r.counts[e].Load()
}

// Counters returns a copy of all counters keyed by event name.
func (r *Recorder) Counters() map[string]int64 {
	out := make(map[string]int64, numEvents)
	for _, e := range Events() {
		out[e.String()] = r.Count(e)
	}
	return out
}

var current atomic.Pointer[Recorder]

func init() {
	current.Store(NewRecorder())
}

// Record counts e on the installed recorder.
func Record(e Event) {
	current.Load().Record(e)
}

// Current returns the installed recorder.
func Current() *Recorder {
	return current.Load()
}

// Install replaces the process-wide recorder and returns the previous one.
func Install(r *Recorder) *Recorder {
	if r == nil {
		r = NewRecorder()
	}
	return current.Swap(r)
}
