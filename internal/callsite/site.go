// Package callsite implements the self-specializing call node: a per-site
// inline cache guarded by an Assumption, optional splicing of the cached
// callee's body, and a terminal generic state.
package callsite

import (
	"sync/atomic"

	"github.com/funvibe/adaptive/internal/frame"
	"github.com/funvibe/adaptive/internal/profile"
	"github.com/funvibe/adaptive/internal/value"
	"github.com/rs/zerolog/log"
)

type State uint8

const (
	Uninitialized State = iota
	Cached
	Inlined
	Megamorphic
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Cached:
		return "Cached"
	case Inlined:
		return "Inlined"
	case Megamorphic:
		return "Megamorphic"
	}
	return "unknown"
}

// Host is the call expression a Site specializes. The evaluator's call
// node implements it.
type Host interface {
	// Resolve evaluates the callee. guard is nil when the callee's
	// identity is not protected by any assumption; such a site never
	// caches.
	Resolve(f *frame.Frame) (callee value.Value, guard *Assumption, err error)
	// Arguments evaluates the arguments left to right.
	Arguments(f *frame.Frame) ([]value.Value, error)
	// Invoke performs an ordinary call.
	Invoke(callee value.Value, args []value.Value) (value.Value, error)
	// Inline returns a private copy of the callee's body, or false when
	// the callee cannot be spliced.
	Inline(callee value.Value) (Body, bool)
	// RunInlined executes a body previously returned by Inline.
	RunInlined(callee value.Value, body Body, args []value.Value) (value.Value, error)
}

// Body is a callee body spliced into a call site. Only the Host that
// produced it knows its representation.
type Body any

// InlinePolicy decides when a cached site splices its target.
type InlinePolicy struct {
	Enabled   bool
	Threshold int64
}

// ShouldInline reports whether a site that has been called n times while
// cached should inline.
func (p InlinePolicy) ShouldInline(n int64) bool {
	return p.Enabled && n > p.Threshold
}

// state is immutable once published.
type state struct {
	kind   State
	target value.Value
	guard  *Assumption
	body   Body
}

var (
	uninitialized = &state{kind: Uninitialized}
	megamorphic   = &state{kind: Megamorphic}
)

type Stats struct {
	State         State
	CallCount     int64
	Hits          int64
	Misses        int64
	Invalidations int64
	InlinedCalls  int64
}

type Site struct {
	name   string
	policy InlinePolicy

	current atomic.Pointer[state]

	calls         atomic.Int64
	hits          atomic.Int64
	misses        atomic.Int64
	invalidations atomic.Int64
	inlinedCalls  atomic.Int64
}

func NewSite(name string, policy InlinePolicy) *Site {
	s := &Site{name: name, policy: policy}
	s.current.Store(uninitialized)
	return s
}

func (s *Site) Name() string         { return s.name }
func (s *Site) Policy() InlinePolicy { return s.policy }
func (s *Site) State() State         { return s.current.Load().kind }

// Target returns the cached callee, if any.
func (s *Site) Target() (value.Value, bool) {
	st := s.current.Load()
	if st.kind == Cached || st.kind == Inlined {
		return st.target, true
	}
	return value.Value{}, false
}

// CallCount is the number of calls made through the cache since the last
// reset.
func (s *Site) CallCount() int64 { return s.calls.Load() }

func (s *Site) ResetCallCount() { s.calls.Store(0) }

func (s *Site) Stats() Stats {
	return Stats{
		State:         s.State(),
		CallCount:     s.calls.Load(),
		Hits:          s.hits.Load(),
		Misses:        s.misses.Load(),
		Invalidations: s.invalidations.Load(),
		InlinedCalls:  s.inlinedCalls.Load(),
	}
}

// Execute performs the call at this site, specializing or generalizing
// the site as a side effect.
func (s *Site) Execute(h Host, f *frame.Frame) (value.Value, error) {
	st := s.current.Load()
	switch st.kind {
	case Cached, Inlined:
		if st.guard.IsValid() {
			return s.dispatch(st, h, f)
		}
		s.generalize(st.guard)
		return s.generic(h, f)
	case Megamorphic:
		return s.generic(h, f)
	default:
		return s.initialize(st, h, f)
	}
}

func (s *Site) initialize(st *state, h Host, f *frame.Frame) (value.Value, error) {
	callee, guard, err := h.Resolve(f)
	if err != nil {
		return value.Value{}, err
	}
	args, err := h.Arguments(f)
	if err != nil {
		return value.Value{}, err
	}
	s.misses.Add(1)
	profile.Record(profile.CallCacheMiss)

	next := megamorphic
	if guard != nil && guard.IsValid() {
		next = &state{kind: Cached, target: callee, guard: guard}
	}
	if s.current.CompareAndSwap(st, next) {
		log.Debug().Str("site", s.name).Str("state", next.kind.String()).Msg("call site specialized")
		if next.kind == Cached {
			s.calls.Add(1)
		}
	}
	return h.Invoke(callee, args)
}

func (s *Site) dispatch(st *state, h Host, f *frame.Frame) (value.Value, error) {
	args, err := h.Arguments(f)
	if err != nil {
		return value.Value{}, err
	}
	s.hits.Add(1)
	n := s.calls.Add(1)

	if st.kind == Cached && s.policy.ShouldInline(n) && s.Inline(h) {
		st = s.current.Load()
	}
	if st.kind == Inlined {
		s.inlinedCalls.Add(1)
		profile.Record(profile.CallInlinedHit)
		return h.RunInlined(st.target, st.body, args)
	}
	profile.Record(profile.CallCacheHit)
	return h.Invoke(st.target, args)
}

func (s *Site) generic(h Host, f *frame.Frame) (value.Value, error) {
	callee, _, err := h.Resolve(f)
	if err != nil {
		return value.Value{}, err
	}
	args, err := h.Arguments(f)
	if err != nil {
		return value.Value{}, err
	}
	profile.Record(profile.CallGeneric)
	return h.Invoke(callee, args)
}

// generalize moves the site to Megamorphic after its guard failed. The
// loop retries only while a racing publisher installed another state
// under the same dead guard.
func (s *Site) generalize(dead *Assumption) {
	for {
		cur := s.current.Load()
		if cur.kind == Megamorphic {
			return
		}
		if cur.guard != dead && cur.guard != nil && cur.guard.IsValid() {
			return
		}
		if s.current.CompareAndSwap(cur, megamorphic) {
			s.invalidations.Add(1)
			profile.Record(profile.CallInvalidated)
			log.Debug().Str("site", s.name).Str("from", cur.kind.String()).Msg("call site generalized")
			return
		}
	}
}

// Inline splices the cached target's body into the site. It is a no-op
// unless the policy is enabled and the site is Cached under a valid guard.
func (s *Site) Inline(h Host) bool {
	cur := s.current.Load()
	if !s.policy.Enabled || cur.kind != Cached || !cur.guard.IsValid() {
		return false
	}
	body, ok := h.Inline(cur.target)
	if !ok {
		return false
	}
	next := &state{kind: Inlined, target: cur.target, guard: cur.guard, body: body}
	if !s.current.CompareAndSwap(cur, next) {
		return false
	}
	profile.Record(profile.CallInlined)
	log.Debug().Str("site", s.name).Int64("calls", s.calls.Load()).Msg("call site inlined")
	return true
}
