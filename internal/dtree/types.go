// Package dtree implements the decision-tree pattern-match compiler of
// §3.5/§4.4: turning a pattern matrix into a switch/leaf/guard tree.
// Grounded on the teacher's internal/dtree (LeafNode/SwitchNode/FailNode
// plus a matrix-specialization compiler), generalized to cover
// or-patterns, struct/tuple decomposition, and guard chaining that the
// teacher's version does not implement.
package dtree

import "github.com/sunholo/corec/internal/ident"

// ExprRef is an opaque reference to a guard expression living in the
// external canonical arena (§6.1). dtree never interprets it — only
// carries it through to the Guard node for the SSA lowerer to resolve.
type ExprRef uint32

// PathKind identifies how a PathInstruction reaches a sub-value.
type PathKind uint8

const (
	TupleElem PathKind = iota
	StructField
	VariantPayload
)

// PathInstruction is one step of a scrutinee path (§3.5).
type PathInstruction struct {
	Kind    PathKind
	Index   int
	Variant ident.Name // only meaningful for VariantPayload
}

// Path is a full scrutinee path from the root.
type Path []PathInstruction

func extend(p Path, instr PathInstruction) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = instr
	return out
}

// PatternKind is the shape of one flattened pattern (§4.4 "Flattened
// pattern kinds").
type PatternKind uint8

const (
	Wildcard PatternKind = iota
	Binding
	Bool
	Int
	Str
	Variant
	Tuple
	Struct
	Or
)

// StructFieldPattern is one (field_name, pattern) pair of a Struct
// pattern.
type StructFieldPattern struct {
	Name    ident.Name
	Pattern FlatPattern
}

// FlatPattern is one column's pattern in a pattern-matrix row.
type FlatPattern struct {
	Kind PatternKind

	Name ident.Name // Binding

	BoolVal bool   // Bool
	IntVal  int64  // Int
	StrVal  string // Str

	VariantName  ident.Name // Variant
	VariantIndex int        // Variant: the enum's declared tag order
	Fields       []FlatPattern

	Elements []FlatPattern // Tuple
	Struct   []StructFieldPattern

	Alternatives []FlatPattern // Or
}

// BindingPair is a (name, scrutinee-path) pair a Leaf instructs the lowerer
// to bind (§3.5).
type BindingPair struct {
	Name ident.Name
	Path Path
}

// Row is one row of a pattern matrix (§4.4 Input).
type Row struct {
	Patterns []FlatPattern
	Arm      int
	HasGuard bool
	Guard    ExprRef
	// Bound accumulates (name, path) pairs for Binding patterns already
	// eliminated from earlier column specializations, per §4.4 Input's
	// "binding list accumulator".
	Bound []BindingPair
}

// Matrix is the decision-tree compiler's input: a list of rows sharing
// one scrutinee path per column.
type Matrix struct {
	Rows  []Row
	Paths []Path
}

// Node is a compiled decision-tree node (§3.5): Leaf, Switch, Guard, or
// Fail.
type Node interface{ isNode() }

// Leaf matches exactly one arm.
type Leaf struct {
	ArmIndex int
	Bindings []BindingPair
}

func (Leaf) isNode() {}

// TestKind is the kind of equality test a Switch performs.
type TestKind uint8

const (
	TestBool TestKind = iota
	TestInt
	TestStr
	TestEnumTag
)

// TestValue identifies one Switch edge's discriminant.
type TestValue struct {
	Kind         TestKind
	Bool         bool
	Int          int64
	Str          string
	Variant      ident.Name
	VariantIndex int
}

// Edge is one (test-value, subtree) pair of a Switch.
type Edge struct {
	Value   TestValue
	Subtree Node
}

// Switch tests the value at Path and dispatches to the matching Edge,
// or Default if no edge matches and Default is non-nil.
type Switch struct {
	Path    Path
	Kind    TestKind
	Edges   []Edge
	Default Node
}

func (Switch) isNode() {}

// Guard wraps a leaf with a run-time guard expression: Bindings must be
// bound before evaluating Expr; if Expr is falsy, OnFail is tried
// instead (§4.4: "wrap the leaf in Guard"). Bindings is the same list a
// plain Leaf for this row would have carried — kept on Guard directly,
// rather than as a nested Leaf child, because the guard expression
// itself must see those bindings before the arm is considered matched.
type Guard struct {
	ArmIndex int
	Expr     ExprRef
	Bindings []BindingPair
	OnFail   Node
}

func (Guard) isNode() {}

// Fail means no arm matched (§3.5: "used only when the matrix is
// incomplete").
type Fail struct{}

func (Fail) isNode() {}
