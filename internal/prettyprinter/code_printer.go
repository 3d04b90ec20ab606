package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/adaptive/internal/ast"
	"github.com/funvibe/adaptive/internal/value"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
const (
	precLowest = iota
	precOr
	precAnd
	precNot
	precCompare
	precSum
	precProduct
	precUnary
	precPostfix
)

var operatorPrecedence = map[ast.Operator]int{
	ast.OpOr:       precOr,
	ast.OpAnd:      precAnd,
	ast.OpEq:       precCompare,
	ast.OpNotEq:    precCompare,
	ast.OpLt:       precCompare,
	ast.OpLtEq:     precCompare,
	ast.OpGt:       precCompare,
	ast.OpGtEq:     precCompare,
	ast.OpAdd:      precSum,
	ast.OpSub:      precSum,
	ast.OpMul:      precProduct,
	ast.OpDiv:      precProduct,
	ast.OpFloorDiv: precProduct,
	ast.OpMod:      precProduct,
}

func getPrecedence(op ast.Operator) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return precPostfix
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int

	// Annotate appends the speculation state of readers and call sites:
	// x<Int>, p.y<Boxed>, f(1)<Cached>.
	Annotate bool
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders n as source text.
func Print(n ast.Node) string {
	p := NewCodePrinter()
	p.Print(n)
	return p.String()
}

// PrintAnnotated renders n with its current speculation state.
func PrintAnnotated(n ast.Node) string {
	p := &CodePrinter{Annotate: true}
	p.Print(n)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) Print(n ast.Node) {
	switch n := n.(type) {
	case *ast.Program:
		p.printStatements(n.Body)
	case *ast.Block:
		p.printStatements(n.Body)
	default:
		p.printStatement(n)
	}
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) line(s string) {
	p.writeIndent()
	p.buf.WriteString(s)
	p.buf.WriteByte('\n')
}

func (p *CodePrinter) block(nodes []ast.Node) {
	p.indent++
	p.printStatements(nodes)
	p.indent--
}

func (p *CodePrinter) printStatements(nodes []ast.Node) {
	if len(nodes) == 0 {
		p.line("pass")
		return
	}
	for _, n := range nodes {
		p.printStatement(n)
	}
}

func (p *CodePrinter) printStatement(n ast.Node) {
	switch s := n.(type) {
	case *ast.Assign:
		if fn, ok := s.Value.(*ast.Function); ok && fn.Name == s.Name {
			p.printFunction(fn)
			return
		}
		p.line(s.Name + " = " + p.expr(s.Value, precLowest))
	case *ast.Function:
		p.printFunction(s)
	case *ast.Return:
		if s.Value == nil {
			p.line("return")
			return
		}
		p.line("return " + p.expr(s.Value, precLowest))
	case *ast.If:
		p.printIf(s, "if ")
	case *ast.While:
		p.line("while " + p.expr(s.Cond, precLowest) + ":")
		p.block(s.Body.Body)
	case *ast.SetAttr:
		p.line(p.expr(s.Object, precPostfix) + "." + s.Name + " = " + p.expr(s.Value, precLowest))
	case *ast.SetIndex:
		p.line(p.expr(s.Target, precPostfix) + "[" + p.expr(s.Index, precLowest) + "] = " + p.expr(s.Value, precLowest))
	case *ast.Block:
		p.printStatements(s.Body)
	case *ast.Program:
		p.printStatements(s.Body)
	default:
		p.line(p.expr(n, precLowest))
	}
}

func (p *CodePrinter) printFunction(fn *ast.Function) {
	p.line("def " + fn.Name + "(" + strings.Join(fn.Params, ", ") + "):")
	p.block(fn.Body.Body)
}

// printIf folds an else branch holding a single if into elif.
func (p *CodePrinter) printIf(n *ast.If, keyword string) {
	p.line(keyword + p.expr(n.Cond, precLowest) + ":")
	p.block(n.Then.Body)
	if n.Else == nil {
		return
	}
	if len(n.Else.Body) == 1 {
		if elif, ok := n.Else.Body[0].(*ast.If); ok {
			p.printIf(elif, "elif ")
			return
		}
	}
	p.line("else:")
	p.block(n.Else.Body)
}

// expr prints an expression, adding parentheses only if needed
func (p *CodePrinter) expr(n ast.Node, parentPrec int) string {
	switch e := n.(type) {
	case nil:
		return ""
	case *ast.Literal:
		return literal(e.Value)
	case *ast.Ident:
		return e.Name + p.kind(e.Kind())
	case *ast.Binary:
		prec := getPrecedence(e.Op)
		left := prec
		if prec == precCompare {
			// a < b < c would read as a chain
			left = prec + 1
		}
		s := p.expr(e.Left, left) + " " + string(e.Op) + " " + p.expr(e.Right, prec+1)
		return parens(s, prec < parentPrec)
	case *ast.Unary:
		if e.Op == ast.OpNot {
			return parens("not "+p.expr(e.Operand, precNot), precNot < parentPrec)
		}
		return parens(string(e.Op)+p.expr(e.Operand, precUnary), precUnary < parentPrec)
	case *ast.Call:
		s := p.expr(e.Callee, precPostfix) + "(" + p.exprs(e.Args) + ")"
		if p.Annotate {
			if site := e.Site(); site != nil {
				s += "<" + site.State().String() + ">"
			}
		}
		return s
	case *ast.NewObject:
		return "object()"
	case *ast.GetAttr:
		return p.expr(e.Object, precPostfix) + "." + e.Name + p.kind(e.Kind())
	case *ast.ListLiteral:
		s := "[" + p.exprs(e.Elements) + "]"
		if e.ElementKind != value.Illegal {
			s += "<" + e.ElementKind.String() + ">"
		}
		return s
	case *ast.Index:
		return p.expr(e.Target, precPostfix) + "[" + p.expr(e.Index, precLowest) + "]"
	case *ast.Slice:
		s := p.expr(e.Target, precPostfix) + "[" + p.expr(e.Start, precLowest) + ":" + p.expr(e.Stop, precLowest)
		if e.Step != nil {
			s += ":" + p.expr(e.Step, precLowest)
		}
		return s + "]"
	case *ast.MethodCall:
		return p.expr(e.Receiver, precPostfix) + "." + e.Method + "(" + p.exprs(e.Args) + ")"
	case *ast.Function:
		return "<function " + e.Name + ">"
	}
	return n.String()
}

func (p *CodePrinter) exprs(nodes []ast.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = p.expr(n, precLowest)
	}
	return strings.Join(parts, ", ")
}

func (p *CodePrinter) kind(k value.Kind) string {
	if !p.Annotate || k == value.Illegal {
		return ""
	}
	return "<" + k.String() + ">"
}

func parens(s string, need bool) string {
	if need {
		return "(" + s + ")"
	}
	return s
}

// literal keeps doubles distinguishable from ints.
func literal(v value.Value) string {
	if v.Kind != value.Double {
		return v.Inspect()
	}
	s := strconv.FormatFloat(v.AsDouble(), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}
