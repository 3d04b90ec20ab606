package prettyprinter

import (
	"io"
	"testing"

	"github.com/funvibe/adaptive/internal/ast"
	"github.com/funvibe/adaptive/internal/evaluator"
	"github.com/funvibe/adaptive/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fibProgram() *ast.Program {
	n := func() *ast.Ident { return ast.Name("n") }
	return ast.NewProgram("fib",
		ast.Def("fib", []string{"n"},
			ast.NewIf(ast.Bin(n(), ast.OpLt, ast.Int(2)), []ast.Node{ast.Ret(n())}),
			ast.Ret(ast.Bin(
				ast.CallName("fib", ast.Bin(n(), ast.OpSub, ast.Int(1))),
				ast.OpAdd,
				ast.CallName("fib", ast.Bin(n(), ast.OpSub, ast.Int(2))),
			)),
		),
		ast.Ret(ast.CallName("fib", ast.Int(10))),
	)
}

func TestPrintProgram(t *testing.T) {
	want := `def fib(n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)
return fib(10)
`
	assert.Equal(t, want, Print(fibProgram()))
}

func TestPrintAnnotatedAfterRun(t *testing.T) {
	p := fibProgram()
	e := evaluator.New(evaluator.Options{Out: io.Discard})
	v, err := e.Run(p)
	require.NoError(t, err)
	require.Equal(t, int32(55), v.AsInt())

	want := `def fib(n):
    if n<Int> < 2:
        return n<Int>
    return fib(n<Int> - 1)<Cached> + fib(n<Int> - 2)<Cached>
return fib(10)<Cached>
`
	assert.Equal(t, want, PrintAnnotated(p))
}

func TestParentheses(t *testing.T) {
	a, b, c := ast.Name("a"), ast.Name("b"), ast.Name("c")
	tests := []struct {
		node ast.Node
		want string
	}{
		{ast.Bin(ast.Bin(a, ast.OpAdd, b), ast.OpMul, c), "(a + b) * c"},
		{ast.Bin(a, ast.OpAdd, ast.Bin(b, ast.OpMul, c)), "a + b * c"},
		{ast.Bin(ast.Bin(a, ast.OpSub, b), ast.OpSub, c), "a - b - c"},
		{ast.Bin(a, ast.OpSub, ast.Bin(b, ast.OpSub, c)), "a - (b - c)"},
		{ast.Bin(ast.Bin(a, ast.OpLt, b), ast.OpLt, c), "(a < b) < c"},
		{ast.Not(ast.Bin(a, ast.OpAnd, b)), "not (a and b)"},
		{ast.Bin(ast.Not(a), ast.OpOr, b), "not a or b"},
		{ast.Neg(ast.Bin(a, ast.OpAdd, b)), "-(a + b)"},
		{ast.Attr(ast.Bin(a, ast.OpAdd, b), "x"), "(a + b).x"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want+"\n", Print(tt.node))
		})
	}
}

func TestPrintStatements(t *testing.T) {
	xs := func() *ast.Ident { return ast.Name("xs") }
	p := ast.NewProgram("stmts",
		ast.Set("xs", ast.TypedList(value.Int)),
		ast.Set("ys", ast.List(ast.Int(1), ast.Double(2), ast.String("s"), ast.Bool(true))),
		ast.Method(xs(), "append", ast.Int(3)),
		ast.SetAt(xs(), ast.Int(0), ast.Long(7)),
		ast.Set("zs", ast.SliceOf(xs(), nil, nil, ast.Int(2))),
		ast.Set("ws", ast.SliceOf(xs(), ast.Int(1), nil, nil)),
		ast.Set("o", ast.Object()),
		ast.SetField(ast.Name("o"), "x", ast.Double(0.5)),
		ast.NewWhile(ast.Bool(false)),
		ast.NewIf(ast.Name("a"), []ast.Node{ast.Ret(ast.Int(1))},
			ast.NewIf(ast.Name("b"), []ast.Node{ast.Ret(ast.Int(2))}, ast.Ret(ast.Int(3)))),
		ast.Def("noop", nil),
	)
	want := `xs = []<Int>
ys = [1, 2.0, "s", true]
xs.append(3)
xs[0] = 7
zs = xs[::2]
ws = xs[1:]
o = object()
o.x = 0.5
while false:
    pass
if a:
    return 1
elif b:
    return 2
else:
    return 3
def noop():
    pass
`
	assert.Equal(t, want, Print(p))
}
