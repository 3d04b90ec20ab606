package callsite

import (
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// ErrInvalidated is returned by Assumption.Check once the assumption no
// longer holds.
var ErrInvalidated = errors.New("callsite: assumption invalidated")

// Assumption is a flag that starts valid and can only be invalidated.
// Readers may check it without locking: a racing invalidation is observed
// either now or on the next check.
type Assumption struct {
	name    string
	invalid atomic.Bool
}

func NewAssumption(name string) *Assumption {
	return &Assumption{name: name}
}

func (a *Assumption) Name() string { return a.name }

func (a *Assumption) IsValid() bool { return !a.invalid.Load() }

func (a *Assumption) Check() error {
	if a.invalid.Load() {
		return ErrInvalidated
	}
	return nil
}

// Invalidate flips the assumption. It reports whether this call did it.
func (a *Assumption) Invalidate() bool {
	if a.invalid.CompareAndSwap(false, true) {
		log.Debug().Str("assumption", a.name).Msg("assumption invalidated")
		return true
	}
	return false
}
