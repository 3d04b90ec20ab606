package bench

import (
	"github.com/funvibe/adaptive/internal/ast"
	"github.com/funvibe/adaptive/internal/value"
)

func init() {
	register(&Program{
		Name:        "fib",
		Description: "doubly recursive fibonacci; two monomorphic call sites",
		Want:        "17711",
		build:       fib,
	})
	register(&Program{
		Name:        "queens",
		Description: "counts 8-queens solutions over an Int list",
		Want:        "92",
		build:       queens,
	})
	register(&Program{
		Name:        "numeric",
		Description: "an Int accumulator widens to Double; a second call keeps it unboxed",
		Want:        "[4950.5, 45.5]",
		build:       numeric,
	})
	register(&Program{
		Name:        "factorial",
		Description: "Int arithmetic overflowing into Long",
		Want:        "2432902008176640000",
		build:       factorial,
	})
	register(&Program{
		Name:        "shapes",
		Description: "objects sharing a shape; one Double field generalizes the location",
		Want:        "136.5",
		build:       shapes,
	})
	register(&Program{
		Name:        "lists",
		Description: "Int list storage sorted, then generalized by a Double append",
		Want:        "[21, 2.5, 0, 0, 19]",
		build:       lists,
	})
	register(&Program{
		Name:        "rebind",
		Description: "a cached callee is rebound between two runs of the same loop",
		Want:        "[50, 100]",
		build:       rebind,
	})
}

func name(n string) *ast.Ident { return ast.Name(n) }

func add(l, r ast.Node) *ast.Binary { return ast.Bin(l, ast.OpAdd, r) }
func sub(l, r ast.Node) *ast.Binary { return ast.Bin(l, ast.OpSub, r) }
func mul(l, r ast.Node) *ast.Binary { return ast.Bin(l, ast.OpMul, r) }
func lt(l, r ast.Node) *ast.Binary  { return ast.Bin(l, ast.OpLt, r) }
func eq(l, r ast.Node) *ast.Binary  { return ast.Bin(l, ast.OpEq, r) }

func inc(v string) *ast.Assign { return ast.Set(v, add(name(v), ast.Int(1))) }

func then(body ...ast.Node) []ast.Node { return body }

// loop runs body with v counting from 0 while v < limit.
func loop(v string, limit ast.Node, body ...ast.Node) []ast.Node {
	body = append(body, inc(v))
	return []ast.Node{
		ast.Set(v, ast.Int(0)),
		ast.NewWhile(lt(name(v), limit), body...),
	}
}

func fib() []ast.Node {
	return []ast.Node{
		ast.Def("fib", []string{"n"},
			ast.NewIf(lt(name("n"), ast.Int(2)), then(ast.Ret(name("n")))),
			ast.Ret(add(
				ast.CallName("fib", sub(name("n"), ast.Int(1))),
				ast.CallName("fib", sub(name("n"), ast.Int(2))),
			)),
		),
		ast.Ret(ast.CallName("fib", ast.Int(22))),
	}
}

func queens() []ast.Node {
	safe := ast.Def("safe", []string{"cols", "row", "col"},
		append(loop("i", name("row"),
			ast.Set("c", ast.At(name("cols"), name("i"))),
			ast.NewIf(eq(name("c"), name("col")), then(ast.Ret(ast.Bool(false)))),
			ast.NewIf(eq(ast.CallName("abs", sub(name("c"), name("col"))), sub(name("row"), name("i"))),
				then(ast.Ret(ast.Bool(false)))),
		), ast.Ret(ast.Bool(true)))...,
	)
	place := ast.Def("place", []string{"cols", "row", "n"},
		append([]ast.Node{
			ast.NewIf(eq(name("row"), name("n")), then(ast.Ret(ast.Int(1)))),
			ast.Set("count", ast.Int(0)),
		}, append(loop("col", name("n"),
			ast.NewIf(ast.CallName("safe", name("cols"), name("row"), name("col")), then(
				ast.SetAt(name("cols"), name("row"), name("col")),
				ast.Set("count", add(name("count"),
					ast.CallName("place", name("cols"), add(name("row"), ast.Int(1)), name("n")))),
			)),
		), ast.Ret(name("count")))...)...,
	)
	entry := ast.Def("solve", []string{"n"},
		append(append([]ast.Node{ast.Set("cols", ast.TypedList(value.Int))},
			loop("i", name("n"), ast.Method(name("cols"), "append", ast.Int(0)))...),
			ast.Ret(ast.CallName("place", name("cols"), ast.Int(0), name("n"))))...,
	)
	return []ast.Node{safe, place, entry, ast.Ret(ast.CallName("solve", ast.Int(8)))}
}

func numeric() []ast.Node {
	accumulate := ast.Def("accumulate", []string{"n"},
		append(append([]ast.Node{ast.Set("acc", ast.Int(0))},
			loop("i", name("n"),
				ast.NewIf(eq(name("i"), ast.Bin(name("n"), ast.OpFloorDiv, ast.Int(2))),
					then(ast.Set("acc", add(name("acc"), ast.Double(0.5))))),
				ast.Set("acc", add(name("acc"), name("i"))),
			)...),
			ast.Ret(name("acc")))...,
	)
	return []ast.Node{
		accumulate,
		ast.Ret(ast.List(
			ast.CallName("accumulate", ast.Int(100)),
			ast.CallName("accumulate", ast.Int(10)),
		)),
	}
}

func factorial() []ast.Node {
	return []ast.Node{
		ast.Def("fact", []string{"n"},
			ast.Set("acc", ast.Int(1)),
			ast.Set("i", ast.Int(2)),
			ast.NewWhile(ast.Bin(name("i"), ast.OpLtEq, name("n")),
				ast.Set("acc", mul(name("acc"), name("i"))),
				inc("i"),
			),
			ast.Ret(name("acc")),
		),
		ast.Ret(ast.CallName("fact", ast.Int(20))),
	}
}

func shapes() []ast.Node {
	point := ast.Def("point", []string{"x", "y"},
		ast.Set("p", ast.Object()),
		ast.SetField(name("p"), "x", name("x")),
		ast.SetField(name("p"), "y", name("y")),
		ast.Ret(name("p")),
	)
	sum := []ast.Node{ast.Set("pts", ast.List())}
	sum = append(sum, loop("i", ast.Int(10),
		ast.Method(name("pts"), "append", ast.CallName("point", name("i"), mul(name("i"), ast.Int(2)))),
	)...)
	sum = append(sum,
		ast.Method(name("pts"), "append", ast.CallName("point", ast.Double(0.5), ast.Int(1))),
		ast.Set("total", ast.Int(0)),
	)
	sum = append(sum, loop("i", ast.CallName("len", name("pts")),
		ast.Set("p", ast.At(name("pts"), name("i"))),
		ast.Set("total", add(add(name("total"), ast.Attr(name("p"), "x")), ast.Attr(name("p"), "y"))),
	)...)
	sum = append(sum, ast.Ret(name("total")))
	return []ast.Node{
		point,
		ast.Def("sum", nil, sum...),
		ast.Ret(ast.CallName("sum")),
	}
}

func lists() []ast.Node {
	body := []ast.Node{ast.Set("xs", ast.TypedList(value.Int))}
	body = append(body, loop("i", ast.Int(20),
		ast.Method(name("xs"), "append", ast.Bin(mul(name("i"), ast.Int(7)), ast.OpMod, ast.Int(20))),
	)...)
	body = append(body,
		ast.Method(name("xs"), "sort"),
		ast.Method(name("xs"), "append", ast.Double(2.5)),
		ast.Method(name("xs"), "reverse"),
		ast.Set("ys", ast.SliceOf(name("xs"), nil, nil, ast.Int(2))),
		ast.Ret(ast.List(
			ast.CallName("len", name("xs")),
			ast.At(name("xs"), ast.Int(0)),
			ast.At(name("ys"), ast.Int(-1)),
			ast.CallName("min", name("ys")),
			ast.CallName("max", name("xs")),
		)),
	)
	return []ast.Node{
		ast.Def("shuffle", nil, body...),
		ast.Ret(ast.CallName("shuffle")),
	}
}

func rebind() []ast.Node {
	step := func(by int32) *ast.Assign {
		return ast.Def("step", []string{"x"}, ast.Ret(add(name("x"), ast.Int(by))))
	}
	drive := ast.Def("drive", []string{"n"},
		append(append([]ast.Node{ast.Set("s", ast.Int(0))},
			loop("i", name("n"), ast.Set("s", ast.CallName("step", name("s"))))...),
			ast.Ret(name("s")))...,
	)
	return []ast.Node{
		step(1),
		drive,
		ast.Set("first", ast.CallName("drive", ast.Int(50))),
		step(2),
		ast.Set("second", ast.CallName("drive", ast.Int(50))),
		ast.Ret(ast.List(name("first"), name("second"))),
	}
}
