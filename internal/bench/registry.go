// Package bench holds the bundled programs used to exercise speculation
// end to end. Each program is built as a fresh tree on every call, because
// trees carry their own speculation state.
package bench

import (
	"sort"

	"github.com/funvibe/adaptive/internal/ast"
)

// Program is a bundled program and the printed form of its result.
type Program struct {
	Name        string
	Description string
	Want        string
	build       func() []ast.Node
}

// Build returns a new, unspecialized tree.
func (p *Program) Build() *ast.Program {
	return ast.NewProgram(p.Name, p.build()...)
}

var registry = map[string]*Program{}

func register(p *Program) {
	if _, dup := registry[p.Name]; dup {
		panic("bench: duplicate program " + p.Name)
	}
	registry[p.Name] = p
}

// All returns the bundled programs sorted by name.
func All() []*Program {
	out := make([]*Program, 0, len(registry))
	for _, p := range registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func Get(name string) (*Program, bool) {
	p, ok := registry[name]
	return p, ok
}

// Names returns the program names in order.
func Names() []string {
	all := All()
	out := make([]string, len(all))
	for i, p := range all {
		out[i] = p.Name
	}
	return out
}
