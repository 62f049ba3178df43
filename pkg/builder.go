package kaleido

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Builder is the IR construction surface the lowering generator drives.
// Every value in the language is a double, so none of the operations take
// types. The only implementation is LLVMBuilder; the interface exists so
// lowering can be exercised against a recording fake.
type Builder interface {
	Constant(v float64) value.Value
	Add(l, r value.Value) value.Value
	Sub(l, r value.Value) value.Value
	Mul(l, r value.Value) value.Value
	Div(l, r value.Value) value.Value
	Less(l, r value.Value) value.Value
	BoolToFloat(v value.Value) value.Value

	Declare(name string, params []string) *ir.Func
	Lookup(name string) *ir.Func
	Call(callee *ir.Func, args []value.Value) value.Value
	EnterEntry(f *ir.Func)
	Return(v value.Value)
	Verify(f *ir.Func) error
	Erase(f *ir.Func)
	Module() *ir.Module
}

// LLVMBuilder backs the Builder surface with an llir/llvm module. The block
// field is the current insertion point; EnterEntry moves it.
type LLVMBuilder struct {
	mod   *ir.Module
	block *ir.Block
}

func NewLLVMBuilder() *LLVMBuilder {
	mod := ir.NewModule()
	mod.SourceFilename = "kaleido"

	return &LLVMBuilder{
		mod: mod,
	}
}

func (b *LLVMBuilder) Constant(v float64) value.Value {
	return constant.NewFloat(types.Double, v)
}

func (b *LLVMBuilder) Add(l, r value.Value) value.Value {
	return b.block.NewFAdd(l, r)
}

func (b *LLVMBuilder) Sub(l, r value.Value) value.Value {
	return b.block.NewFSub(l, r)
}

func (b *LLVMBuilder) Mul(l, r value.Value) value.Value {
	return b.block.NewFMul(l, r)
}

func (b *LLVMBuilder) Div(l, r value.Value) value.Value {
	return b.block.NewFDiv(l, r)
}

// Less emits an unordered less-than comparison. The i1 result must go
// through BoolToFloat before it can feed another arithmetic instruction.
func (b *LLVMBuilder) Less(l, r value.Value) value.Value {
	return b.block.NewFCmp(enum.FPredULT, l, r)
}

func (b *LLVMBuilder) BoolToFloat(v value.Value) value.Value {
	return b.block.NewUIToFP(v, types.Double)
}

// Declare adds a function of type double(double...) to the module, one
// parameter per name. It does not give the function a body.
func (b *LLVMBuilder) Declare(name string, params []string) *ir.Func {
	irParams := make([]*ir.Param, len(params))
	for i, param := range params {
		irParams[i] = ir.NewParam(param, types.Double)
	}

	return b.mod.NewFunc(name, types.Double, irParams...)
}

// Lookup finds a function by exact name, or nil.
func (b *LLVMBuilder) Lookup(name string) *ir.Func {
	for _, f := range b.mod.Funcs {
		if f.Name() == name {
			return f
		}
	}

	return nil
}

func (b *LLVMBuilder) Call(callee *ir.Func, args []value.Value) value.Value {
	return b.block.NewCall(callee, args...)
}

// EnterEntry gives f an entry block and makes it the insertion point.
func (b *LLVMBuilder) EnterEntry(f *ir.Func) {
	b.block = f.NewBlock("entry")
}

func (b *LLVMBuilder) Return(v value.Value) {
	b.block.NewRet(v)
}

// Verify checks the structural invariants llir does not enforce on its own:
// the function belongs to the module, has a body, and every block ends in a
// terminator.
func (b *LLVMBuilder) Verify(f *ir.Func) error {
	if b.Lookup(f.Name()) != f {
		return fmt.Errorf("function '%s' is not part of the module", f.Name())
	}

	if len(f.Blocks) == 0 {
		return fmt.Errorf("function '%s' has no body", f.Name())
	}

	for _, block := range f.Blocks {
		if block.Term == nil {
			return fmt.Errorf("function '%s' has an unterminated block", f.Name())
		}
	}

	return nil
}

// Erase removes f from the module. Erasing a function that is not present
// is a no-op.
func (b *LLVMBuilder) Erase(f *ir.Func) {
	for i, candidate := range b.mod.Funcs {
		if candidate == f {
			b.mod.Funcs = append(b.mod.Funcs[:i], b.mod.Funcs[i+1:]...)
			return
		}
	}
}

func (b *LLVMBuilder) Module() *ir.Module {
	return b.mod
}
