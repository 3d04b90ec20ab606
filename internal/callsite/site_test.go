package callsite

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/funvibe/adaptive/internal/frame"
	"github.com/funvibe/adaptive/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fn struct {
	name string
	base int32
}

func (f *fn) Type() value.ObjectType { return value.FUNCTION_OBJ }
func (f *fn) Inspect() string        { return "<fn " + f.name + ">" }
func (f *fn) Hash() uint32           { return uint32(f.base) }

func (f *fn) call(args []value.Value) value.Value {
	sum := f.base
	for _, a := range args {
		sum += a.AsInt()
	}
	return value.IntVal(sum)
}

type fnBody struct{ f *fn }

// testHost calls a global function by name with fixed arguments.
type testHost struct {
	scope    *Scope
	callee   string
	args     []value.Value
	noGuard  bool
	invokes  atomic.Int64
	splices  atomic.Int64
	resolves atomic.Int64
}

func (h *testHost) Resolve(*frame.Frame) (value.Value, *Assumption, error) {
	h.resolves.Add(1)
	v, guard, ok := h.scope.Lookup(h.callee)
	if !ok {
		return value.Value{}, nil, fmt.Errorf("undefined: %s", h.callee)
	}
	if h.noGuard {
		guard = nil
	}
	return v, guard, nil
}

func (h *testHost) Arguments(*frame.Frame) ([]value.Value, error) { return h.args, nil }

func (h *testHost) Invoke(callee value.Value, args []value.Value) (value.Value, error) {
	h.invokes.Add(1)
	return callee.Ref.(*fn).call(args), nil
}

func (h *testHost) Inline(callee value.Value) (Body, bool) {
	h.splices.Add(1)
	return fnBody{f: callee.Ref.(*fn)}, true
}

func (h *testHost) RunInlined(_ value.Value, body Body, args []value.Value) (value.Value, error) {
	return body.(fnBody).f.call(args), nil
}

func newHost(base int32) *testHost {
	scope := NewScope("globals")
	scope.Set("f", value.RefVal(&fn{name: "f", base: base}))
	return &testHost{scope: scope, callee: "f", args: []value.Value{value.IntVal(1)}}
}

func TestCacheHitsAfterFirstCall(t *testing.T) {
	h := newHost(10)
	site := NewSite("f()", InlinePolicy{})
	for i := 0; i < 5; i++ {
		v, err := site.Execute(h, nil)
		require.NoError(t, err)
		assert.Equal(t, int32(11), v.AsInt())
	}
	st := site.Stats()
	assert.Equal(t, Cached, st.State)
	assert.Equal(t, int64(1), st.Misses)
	assert.Equal(t, int64(4), st.Hits)
	assert.Equal(t, int64(5), st.CallCount)
	assert.Equal(t, int64(1), h.resolves.Load())

	target, ok := site.Target()
	require.True(t, ok)
	assert.Equal(t, "<fn f>", target.Inspect())

	site.ResetCallCount()
	assert.Zero(t, site.CallCount())
}

func TestRebindingInvalidates(t *testing.T) {
	h := newHost(10)
	site := NewSite("f()", InlinePolicy{})
	for i := 0; i < 5; i++ {
		_, err := site.Execute(h, nil)
		require.NoError(t, err)
	}
	old := h.scope.Unmodified()
	h.scope.Set("f", value.RefVal(&fn{name: "g", base: 100}))
	assert.False(t, old.IsValid())
	assert.ErrorIs(t, old.Check(), ErrInvalidated)
	assert.True(t, h.scope.Unmodified().IsValid())

	v, err := site.Execute(h, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(101), v.AsInt())
	assert.Equal(t, Megamorphic, site.State())
	assert.Equal(t, int64(1), site.Stats().Invalidations)

	// terminal: a fresh assumption does not bring the cache back
	for i := 0; i < 3; i++ {
		_, err := site.Execute(h, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, Megamorphic, site.State())
	assert.Equal(t, int64(1), site.Stats().Misses)
	_, ok := site.Target()
	assert.False(t, ok)
}

func TestNewBindingKeepsAssumption(t *testing.T) {
	scope := NewScope("globals")
	scope.Set("a", value.IntVal(1))
	before := scope.Unmodified()
	scope.Set("b", value.IntVal(2))
	assert.Same(t, before, scope.Unmodified())
	assert.Equal(t, []string{"a", "b"}, scope.Names())
	scope.Set("a", value.IntVal(3))
	assert.NotSame(t, before, scope.Unmodified())
	v, ok := scope.Get("a")
	require.True(t, ok)
	assert.Equal(t, int32(3), v.AsInt())
}

func TestUnguardedCalleeGoesGeneric(t *testing.T) {
	h := newHost(1)
	h.noGuard = true
	site := NewSite("f()", InlinePolicy{Enabled: true})
	for i := 0; i < 3; i++ {
		_, err := site.Execute(h, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, Megamorphic, site.State())
	assert.Equal(t, int64(1), site.Stats().Misses)
	assert.Zero(t, site.Stats().Invalidations)
	assert.Equal(t, int64(3), h.resolves.Load())
}

func TestResolveErrorLeavesSiteUninitialized(t *testing.T) {
	h := newHost(1)
	h.callee = "missing"
	site := NewSite("missing()", InlinePolicy{})
	_, err := site.Execute(h, nil)
	assert.Error(t, err)
	assert.Equal(t, Uninitialized, site.State())
}

func TestInliningAfterThreshold(t *testing.T) {
	h := newHost(5)
	site := NewSite("f()", InlinePolicy{Enabled: true, Threshold: 3})
	for i := 0; i < 6; i++ {
		v, err := site.Execute(h, nil)
		require.NoError(t, err)
		assert.Equal(t, int32(6), v.AsInt())
	}
	st := site.Stats()
	assert.Equal(t, Inlined, st.State)
	assert.Equal(t, int64(3), st.InlinedCalls)
	assert.Equal(t, int64(1), h.splices.Load())
	assert.Equal(t, int64(3), h.invokes.Load())

	h.scope.Set("f", value.RefVal(&fn{name: "h", base: 0}))
	v, err := site.Execute(h, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v.AsInt())
	assert.Equal(t, Megamorphic, site.State())
}

func TestInliningDisabled(t *testing.T) {
	h := newHost(5)
	site := NewSite("f()", InlinePolicy{Enabled: false, Threshold: 0})
	for i := 0; i < 50; i++ {
		_, err := site.Execute(h, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, Cached, site.State())
	assert.False(t, site.Inline(h))
	assert.Zero(t, h.splices.Load())
}

func TestExplicitInline(t *testing.T) {
	h := newHost(2)
	site := NewSite("f()", InlinePolicy{Enabled: true, Threshold: 1000})
	assert.False(t, site.Inline(h), "nothing cached yet")
	_, err := site.Execute(h, nil)
	require.NoError(t, err)
	assert.True(t, site.Inline(h))
	assert.False(t, site.Inline(h))
	assert.Equal(t, Inlined, site.State())
}

func TestConcurrentExecute(t *testing.T) {
	h := newHost(10)
	site := NewSite("f()", InlinePolicy{Enabled: true, Threshold: 50})

	var wg sync.WaitGroup
	var bad atomic.Int64
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				if g == 0 && i == 250 {
					h.scope.Set("f", value.RefVal(&fn{name: "g", base: 20}))
				}
				v, err := site.Execute(h, nil)
				if err != nil || (v.AsInt() != 11 && v.AsInt() != 21) {
					bad.Add(1)
				}
			}
		}(g)
	}
	wg.Wait()

	assert.Zero(t, bad.Load())
	v, err := site.Execute(h, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(21), v.AsInt())
	assert.Equal(t, Megamorphic, site.State())
	assert.Equal(t, int64(1), site.Stats().Invalidations)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Uninitialized", Uninitialized.String())
	assert.Equal(t, "Megamorphic", Megamorphic.String())
	assert.Equal(t, "unknown", State(42).String())
}
