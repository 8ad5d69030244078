// Package canon is the canonical-AST arena CONTRACT of §3.4/§6.1: a
// densely packed arena of expression nodes, each with a kind tag,
// source span, and attached type index, with side arenas for
// variable-arity lists addressed by (start, length) ranges. The core
// only ever reads this arena; it never allocates new canonical nodes.
//
// This package also ships an in-memory reference implementation (the
// Arena type below) standing in for the external canonicalizer, the
// same way the teacher's internal/ast/internal/core stand in for a
// canonicalizer feeding internal/eval — it exists so the core is
// runnable end to end within this repository and so tests can build
// fixtures without a real front end.
package canon

import (
	"github.com/sunholo/corec/internal/dtree"
	"github.com/sunholo/corec/internal/ident"
	"github.com/sunholo/corec/internal/pool"
)

// ExprID addresses one node in the arena's dense expression sequence.
type ExprID uint32

// NoExpr is the sentinel "no expression" ID, used for optional slots
// (an if with no else branch, a break with no value, a block with no
// trailing result expression).
const NoExpr ExprID = 1<<32 - 1

// DecisionTreeID addresses a pre-compiled decision tree (§3.4: "the
// canonicalizer runs pattern compilation eagerly and stores the
// result, which the lowerer retrieves by ID").
type DecisionTreeID uint32

// FuncID addresses one top-level function definition.
type FuncID uint32

// ExprKind tags the shape of one arena cell.
type ExprKind uint8

const (
	LitInt ExprKind = iota
	LitFloat
	LitBool
	LitStr
	LitChar
	LitUnit
	Ident
	Binary
	Unary
	Block
	If
	Loop
	For
	Break
	Continue
	Return
	Assign
	Match
	Call
	Lambda
	Tuple
	StructLit
	VariantLit
	FieldAccess
	Await // unsupported per §9; the SSA lowerer rejects it with E4001
)

// StmtKind tags one statement inside a Block.
type StmtKind uint8

const (
	ExprStmt StmtKind = iota
	LetStmt
)

// Stmt is one statement of a Block's body.
type Stmt struct {
	Kind    StmtKind
	Name    ident.Name // LetStmt only
	Mutable bool       // LetStmt only
	Value   ExprID
}

// FieldInit is one (name, value) pair of a struct or enum-variant
// literal.
type FieldInit struct {
	Name  ident.Name
	Value ExprID
}

// MatchArmDef is one surface match arm, before decision-tree
// compilation: a flattened pattern, an optional guard, and a body.
type MatchArmDef struct {
	Pattern  dtree.FlatPattern
	HasGuard bool
	Guard    ExprID
	Body     ExprID
}

// expr is the arena's packed cell. Only the fields relevant to Kind are
// meaningful; this mirrors the tagged-union style of internal/pool's
// cell table, generalized with named fields since canon's payloads are
// too heterogeneous for a fixed (tag, a, b, c, d) layout to stay
// readable.
type expr struct {
	kind ExprKind
	span Span
	typ  pool.Idx

	intVal   int64
	floatVal float64
	boolVal  bool
	strVal   string
	charVal  rune

	name ident.Name // Ident, Assign target, FieldAccess field, StructLit/VariantLit type/variant name

	op string // Binary/Unary operator spelling

	a, b, c ExprID // generic operand slots, meaning depends on kind
	list    []ExprID

	stmts []Stmt

	matchTree DecisionTreeID
	armBodies []ExprID

	params   []ident.Name
	captures []ident.Name

	fields []FieldInit

	forGuard ExprID // For with no guard: NoExpr
}

// Func is a top-level function definition, the unit the SSA lowerer
// consumes one at a time.
type Func struct {
	Name       ident.Name
	Params     []ident.Name
	ParamTypes []pool.Idx
	ReturnType pool.Idx
	Body       ExprID
}

// Arena is the in-memory reference canonical AST.
type Arena struct {
	exprs []expr
	trees []dtree.Node
	funcs []Func
}

// NewArena creates an empty arena.
func NewArena() *Arena { return &Arena{} }

func (a *Arena) push(e expr) ExprID {
	if e.typ == 0 {
		e.typ = pool.None
	}
	id := ExprID(len(a.exprs))
	a.exprs = append(a.exprs, e)
	return id
}

// Kind, Span, Type are the universal per-node accessors of §3.4.
func (a *Arena) Kind(id ExprID) ExprKind { return a.exprs[id].kind }
func (a *Arena) Span(id ExprID) Span     { return a.exprs[id].span }
func (a *Arena) Type(id ExprID) pool.Idx { return a.exprs[id].typ }

// SetType overwrites id's inference-variable type slot with the
// resolved ground type, per §3.4 ("attached type index, initially
// inference variables, overwritten after inference").
func (a *Arena) SetType(id ExprID, ty pool.Idx) { a.exprs[id].typ = ty }

// Literals

func (a *Arena) PushLitInt(v int64, sp Span) ExprID {
	return a.push(expr{kind: LitInt, span: sp, intVal: v})
}
func (a *Arena) PushLitFloat(v float64, sp Span) ExprID {
	return a.push(expr{kind: LitFloat, span: sp, floatVal: v})
}
func (a *Arena) PushLitBool(v bool, sp Span) ExprID {
	return a.push(expr{kind: LitBool, span: sp, boolVal: v})
}
func (a *Arena) PushLitStr(v string, sp Span) ExprID {
	return a.push(expr{kind: LitStr, span: sp, strVal: v})
}
func (a *Arena) PushLitChar(v rune, sp Span) ExprID {
	return a.push(expr{kind: LitChar, span: sp, charVal: v})
}
func (a *Arena) PushLitUnit(sp Span) ExprID { return a.push(expr{kind: LitUnit, span: sp}) }

func (a *Arena) LitInt(id ExprID) int64     { return a.exprs[id].intVal }
func (a *Arena) LitFloat(id ExprID) float64 { return a.exprs[id].floatVal }
func (a *Arena) LitBool(id ExprID) bool     { return a.exprs[id].boolVal }
func (a *Arena) LitStr(id ExprID) string    { return a.exprs[id].strVal }
func (a *Arena) LitChar(id ExprID) rune     { return a.exprs[id].charVal }

// Ident

func (a *Arena) PushIdent(name ident.Name, sp Span) ExprID {
	return a.push(expr{kind: Ident, span: sp, name: name})
}
func (a *Arena) IdentName(id ExprID) ident.Name { return a.exprs[id].name }

// Binary / Unary

func (a *Arena) PushBinary(op string, lhs, rhs ExprID, sp Span) ExprID {
	return a.push(expr{kind: Binary, span: sp, op: op, a: lhs, b: rhs})
}
func (a *Arena) PushUnary(op string, operand ExprID, sp Span) ExprID {
	return a.push(expr{kind: Unary, span: sp, op: op, a: operand})
}
func (a *Arena) BinaryOp(id ExprID) string          { return a.exprs[id].op }
func (a *Arena) BinaryLHS(id ExprID) ExprID         { return a.exprs[id].a }
func (a *Arena) BinaryRHS(id ExprID) ExprID         { return a.exprs[id].b }
func (a *Arena) UnaryOp(id ExprID) string           { return a.exprs[id].op }
func (a *Arena) UnaryOperand(id ExprID) ExprID      { return a.exprs[id].a }

// Block

func (a *Arena) PushBlock(stmts []Stmt, result ExprID, sp Span) ExprID {
	return a.push(expr{kind: Block, span: sp, stmts: stmts, a: result})
}
func (a *Arena) BlockStmts(id ExprID) []Stmt  { return a.exprs[id].stmts }
func (a *Arena) BlockResult(id ExprID) ExprID { return a.exprs[id].a }

// If

func (a *Arena) PushIf(cond, then, els ExprID, sp Span) ExprID {
	return a.push(expr{kind: If, span: sp, a: cond, b: then, c: els})
}
func (a *Arena) IfCond(id ExprID) ExprID { return a.exprs[id].a }
func (a *Arena) IfThen(id ExprID) ExprID { return a.exprs[id].b }
func (a *Arena) IfElse(id ExprID) ExprID { return a.exprs[id].c }

// Loop

func (a *Arena) PushLoop(body ExprID, sp Span) ExprID {
	return a.push(expr{kind: Loop, span: sp, a: body})
}
func (a *Arena) LoopBody(id ExprID) ExprID { return a.exprs[id].a }

// For: iterates a (start, end) range bound to an induction variable
// name, with an optional guard expression tested each iteration before
// the body (§4.5 "For").

func (a *Arena) PushFor(induction ident.Name, start, end, guard, body ExprID, sp Span) ExprID {
	return a.push(expr{kind: For, span: sp, name: induction, a: start, b: end, c: body, forGuard: guard})
}
func (a *Arena) ForInduction(id ExprID) ident.Name { return a.exprs[id].name }
func (a *Arena) ForStart(id ExprID) ExprID         { return a.exprs[id].a }
func (a *Arena) ForEnd(id ExprID) ExprID           { return a.exprs[id].b }
func (a *Arena) ForBody(id ExprID) ExprID          { return a.exprs[id].c }
func (a *Arena) ForGuard(id ExprID) ExprID         { return a.exprs[id].forGuard }

// Break / Continue / Return

func (a *Arena) PushBreak(value ExprID, sp Span) ExprID {
	return a.push(expr{kind: Break, span: sp, a: value})
}
func (a *Arena) BreakValue(id ExprID) ExprID { return a.exprs[id].a }

func (a *Arena) PushContinue(sp Span) ExprID { return a.push(expr{kind: Continue, span: sp}) }

func (a *Arena) PushReturn(value ExprID, sp Span) ExprID {
	return a.push(expr{kind: Return, span: sp, a: value})
}
func (a *Arena) ReturnValue(id ExprID) ExprID { return a.exprs[id].a }

// Assign: rebinds a name. Field/index assignment is lowered by the
// caller into a setter Call before ever reaching PushAssign (§4.5:
// "Assignment to field/index lowers to a call to a conventional setter
// function").

func (a *Arena) PushAssign(name ident.Name, value ExprID, sp Span) ExprID {
	return a.push(expr{kind: Assign, span: sp, name: name, a: value})
}
func (a *Arena) AssignName(id ExprID) ident.Name { return a.exprs[id].name }
func (a *Arena) AssignValue(id ExprID) ExprID    { return a.exprs[id].a }

// Call

func (a *Arena) PushCall(callee ExprID, args []ExprID, sp Span) ExprID {
	return a.push(expr{kind: Call, span: sp, a: callee, list: args})
}
func (a *Arena) CallCallee(id ExprID) ExprID  { return a.exprs[id].a }
func (a *Arena) CallArgs(id ExprID) []ExprID  { return a.exprs[id].list }

// Lambda

func (a *Arena) PushLambda(params, captures []ident.Name, body ExprID, sp Span) ExprID {
	return a.push(expr{kind: Lambda, span: sp, params: params, captures: captures, a: body})
}
func (a *Arena) LambdaParams(id ExprID) []ident.Name   { return a.exprs[id].params }
func (a *Arena) LambdaCaptures(id ExprID) []ident.Name { return a.exprs[id].captures }
func (a *Arena) LambdaBody(id ExprID) ExprID           { return a.exprs[id].a }

// Tuple

func (a *Arena) PushTuple(elems []ExprID, sp Span) ExprID {
	return a.push(expr{kind: Tuple, span: sp, list: elems})
}
func (a *Arena) TupleElems(id ExprID) []ExprID { return a.exprs[id].list }

// StructLit / VariantLit / FieldAccess

func (a *Arena) PushStructLit(typeName ident.Name, fields []FieldInit, sp Span) ExprID {
	return a.push(expr{kind: StructLit, span: sp, name: typeName, fields: fields})
}
func (a *Arena) StructLitName(id ExprID) ident.Name    { return a.exprs[id].name }
func (a *Arena) StructLitFields(id ExprID) []FieldInit { return a.exprs[id].fields }

func (a *Arena) PushVariantLit(variantName ident.Name, fields []FieldInit, sp Span) ExprID {
	return a.push(expr{kind: VariantLit, span: sp, name: variantName, fields: fields})
}
func (a *Arena) VariantLitName(id ExprID) ident.Name    { return a.exprs[id].name }
func (a *Arena) VariantLitFields(id ExprID) []FieldInit { return a.exprs[id].fields }

func (a *Arena) PushFieldAccess(base ExprID, field ident.Name, sp Span) ExprID {
	return a.push(expr{kind: FieldAccess, span: sp, a: base, name: field})
}
func (a *Arena) FieldAccessBase(id ExprID) ExprID     { return a.exprs[id].a }
func (a *Arena) FieldAccessField(id ExprID) ident.Name { return a.exprs[id].name }

// Await: accepted into the arena (the canonical AST "contains Await ...
// forms", §9) but always rejected by the SSA lowerer with E4001.

func (a *Arena) PushAwait(operand ExprID, sp Span) ExprID {
	return a.push(expr{kind: Await, span: sp, a: operand})
}

// Match compiles arms into a decision tree via dtree.Compile and stores
// both the tree and the per-arm bodies, matching §3.4's "pre-compiled
// decision trees ... retrieved by ID" contract.
func (a *Arena) PushMatch(scrutinee ExprID, arms []MatchArmDef, sp Span) ExprID {
	rows := make([]dtree.Row, len(arms))
	bodies := make([]ExprID, len(arms))
	for i, arm := range arms {
		rows[i] = dtree.Row{
			Patterns: []dtree.FlatPattern{arm.Pattern},
			Arm:      i,
			HasGuard: arm.HasGuard,
			Guard:    dtree.ExprRef(arm.Guard),
		}
		bodies[i] = arm.Body
	}
	tree := dtree.Compile(dtree.Matrix{Rows: rows, Paths: []dtree.Path{{}}})
	treeID := DecisionTreeID(len(a.trees))
	a.trees = append(a.trees, tree)

	return a.push(expr{kind: Match, span: sp, a: scrutinee, matchTree: treeID, armBodies: bodies})
}

func (a *Arena) MatchScrutinee(id ExprID) ExprID       { return a.exprs[id].a }
func (a *Arena) MatchArmBody(id ExprID, arm int) ExprID { return a.exprs[id].armBodies[arm] }
func (a *Arena) DecisionTree(id DecisionTreeID) dtree.Node { return a.trees[id] }
func (a *Arena) MatchTree(id ExprID) DecisionTreeID    { return a.exprs[id].matchTree }

// Functions

func (a *Arena) AddFunc(f Func) FuncID {
	id := FuncID(len(a.funcs))
	a.funcs = append(a.funcs, f)
	return id
}
func (a *Arena) Func(id FuncID) Func { return a.funcs[id] }
func (a *Arena) Funcs() []Func       { return a.funcs }
