package kaleido

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// ValueLookup maps parameter names to their lowered values. A fresh lookup
// is built for each function being lowered; nothing carries over.
type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]value.Value),
	}
}

func (l *ValueLookup) Get(id string) (value.Value, bool) {
	val, ok := l.vals[id]
	return val, ok
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

// Codegen lowers AST nodes into calls against a Builder. It holds the
// per-function symbol table, so a Codegen serves one lowering at a time.
type Codegen struct {
	builder Builder
	values  *ValueLookup
}

func NewCodegen(builder Builder) *Codegen {
	return &Codegen{
		builder: builder,
		values:  NewValueLookup(),
	}
}

// Expr lowers an expression node and returns the value holding its result.
func (g *Codegen) Expr(e Expr) (value.Value, error) {
	switch e := e.(type) {
	case *NumberLit:
		return g.builder.Constant(e.Value), nil
	case *VariableRef:
		v, ok := g.values.Get(e.Name)
		if !ok {
			return nil, fmt.Errorf("unknown variable name '%s'", e.Name)
		}

		return v, nil
	case *BinaryExpr:
		return g.binaryExpr(e)
	case *CallExpr:
		return g.callExpr(e)
	default:
		return nil, fmt.Errorf("unexpected expression node %T", e)
	}
}

func (g *Codegen) binaryExpr(e *BinaryExpr) (value.Value, error) {
	l, err := g.Expr(e.LHS)
	if err != nil {
		return nil, err
	}

	r, err := g.Expr(e.RHS)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "+":
		return g.builder.Add(l, r), nil
	case "-":
		return g.builder.Sub(l, r), nil
	case "*":
		return g.builder.Mul(l, r), nil
	case "/":
		return g.builder.Div(l, r), nil
	case "<":
		// The comparison yields an i1; the language only has doubles.
		return g.builder.BoolToFloat(g.builder.Less(l, r)), nil
	default:
		// Reachable only if the precedence table admits an operator this
		// switch does not.
		return nil, fmt.Errorf("invalid binary operator '%s'", e.Op)
	}
}

func (g *Codegen) callExpr(e *CallExpr) (value.Value, error) {
	callee := g.builder.Lookup(e.Callee)
	if callee == nil {
		return nil, fmt.Errorf("unknown function '%s' referenced", e.Callee)
	}

	if len(callee.Params) != len(e.Args) {
		return nil, fmt.Errorf("incorrect number of arguments passed to '%s': want %d, got %d",
			e.Callee, len(callee.Params), len(e.Args))
	}

	args := make([]value.Value, len(e.Args))
	for i, arg := range e.Args {
		v, err := g.Expr(arg)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	return g.builder.Call(callee, args), nil
}

// Prototype declares a double(double...) function for the prototype's
// mangled name. Parameter names are set on the declaration so a later body
// can bind them.
func (g *Codegen) Prototype(p *Prototype) *ir.Func {
	return g.builder.Declare(p.Name, p.Params)
}

// Function lowers a complete definition. An existing declaration with the
// same mangled name and no body is reused, which is how an extern-style
// forward reference gets its definition. On any failure the function is
// erased from the module before the error propagates; the module never
// holds a half-built function.
func (g *Codegen) Function(def *FuncDef) (*ir.Func, error) {
	f := g.builder.Lookup(def.Proto.Name)
	if f == nil {
		f = g.Prototype(def.Proto)
	}

	if len(f.Blocks) > 0 {
		return nil, fmt.Errorf("function '%s' cannot be redefined", f.Name())
	}

	g.builder.EnterEntry(f)

	g.values = NewValueLookup()
	for _, param := range f.Params {
		g.values.Set(param.Name(), param)
	}

	ret, err := g.Expr(def.Body)
	if err != nil {
		g.builder.Erase(f)
		return nil, err
	}

	g.builder.Return(ret)

	if err := g.builder.Verify(f); err != nil {
		g.builder.Erase(f)
		return nil, err
	}

	return f, nil
}
