// Package ssa implements the lowered IR of §3.6 and the recursive
// lowerer of §4.5: basic blocks with block-parameter phi nodes,
// instructions operating on densely-numbered SSA variables.
package ssa

import (
	"github.com/sunholo/corec/internal/ident"
	"github.com/sunholo/corec/internal/pool"
)

// VarID is a dense, function-local SSA variable handle.
type VarID uint32

// BlockID is a dense, function-local basic block handle.
type BlockID uint32

// LitKind tags a literal Value's payload.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitStr
	LitChar
	LitUnit
)

// Value is the right-hand side of a Let instruction: a literal, a bare
// variable reference (used to give an aliased identifier its own fresh
// SSA ID, §4.5 "Identifier"), or a primitive operator application.
type Value interface{ isValue() }

type Literal struct {
	Kind     LitKind
	IntVal   int64
	FloatVal float64
	BoolVal  bool
	StrVal   string
	CharVal  rune
}

func (Literal) isValue() {}

// VarRef aliases an existing variable under a fresh ID.
type VarRef struct{ Var VarID }

func (VarRef) isValue() {}

// PrimOp applies a built-in binary or unary operator to operand
// variables.
type PrimOp struct {
	Op   string
	Args []VarID
}

func (PrimOp) isValue() {}

// Instr is one instruction of a block body (§3.6).
type Instr interface{ isInstr() }

type Let struct {
	Dst   VarID
	Ty    pool.Idx
	Value Value
}

func (Let) isInstr() {}

type Apply struct {
	Dst      VarID
	Ty       pool.Idx
	FuncName ident.Name
	Args     []VarID
}

func (Apply) isInstr() {}

type Project struct {
	Dst   VarID
	Ty    pool.Idx
	Value VarID
	Field int
}

func (Project) isInstr() {}

type Construct struct {
	Dst  VarID
	Ty   pool.Idx
	Ctor ident.Name
	Args []VarID
}

func (Construct) isInstr() {}

type RcInc struct {
	Var   VarID
	Count int
}

func (RcInc) isInstr() {}

type RcDec struct{ Var VarID }

func (RcDec) isInstr() {}

type IsShared struct {
	Dst VarID
	Var VarID
}

func (IsShared) isInstr() {}

// Reset/Reuse are introduced by arcopt's detection pass (§4.6) and
// erased by its expansion pass (§4.7); the lowerer itself never emits
// them directly.
type Reset struct {
	Var   VarID
	Token VarID
}

func (Reset) isInstr() {}

type Reuse struct {
	Token VarID
	Dst   VarID
	Ty    pool.Idx
	Ctor  ident.Name
	Args  []VarID
}

func (Reuse) isInstr() {}

type Set struct {
	Var   VarID
	Field int
	Value VarID
}

func (Set) isInstr() {}

type SetTag struct {
	Var VarID
	Tag int
}

func (SetTag) isInstr() {}

// Terminator ends a block (§3.6).
type Terminator interface{ isTerm() }

type Return struct{ Value VarID }

func (Return) isTerm() {}

type Jump struct {
	Target BlockID
	Args   []VarID
}

func (Jump) isTerm() {}

type Branch struct {
	Cond       VarID
	Then, Else BlockID
}

func (Branch) isTerm() {}

// Block is one basic block: a block ID, entry parameters (phi nodes),
// a body, and a terminator. Term is nil only transiently, while the
// builder is still filling the block in.
type Block struct {
	ID     BlockID
	Params []VarID
	Body   []Instr
	Term   Terminator
}

// Func is one lowered function: a dense block array plus a dense
// per-variable type array (§3.6 "Variable IDs are stable within a
// function").
type Func struct {
	Name       ident.Name
	Params     []VarID
	ReturnType pool.Idx
	Blocks     []Block
	VarTypes   []pool.Idx
}

// VarType returns v's recorded type.
func (f *Func) VarType(v VarID) pool.Idx { return f.VarTypes[v] }

// Fresh allocates a new SSA variable of type ty against f directly,
// for post-construction passes (arcopt) that no longer hold the
// Builder that built f.
func (f *Func) Fresh(ty pool.Idx) VarID {
	id := VarID(len(f.VarTypes))
	f.VarTypes = append(f.VarTypes, ty)
	return id
}

// NewBlockAppend allocates a fresh, empty, unterminated block directly
// against f, for post-construction passes (arcopt) that no longer hold
// the Builder that built f.
func (f *Func) NewBlockAppend() BlockID {
	id := BlockID(len(f.Blocks))
	f.Blocks = append(f.Blocks, Block{ID: id})
	return id
}

// LoweredProgram is §6.2's "Lowered IR function set": one Func per
// source function, plus every lambda extracted from any of them.
type LoweredProgram struct {
	Funcs   []*Func
	Lambdas []*Func
}
