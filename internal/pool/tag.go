// Package pool implements the type pool: a process-lifetime,
// hash-consed, index-addressed store of every type term the inference
// engine produces. Equal structural types always share one index.
package pool

// Tag identifies the shape of an interned cell.
type Tag uint8

const (
	// Primitives. Their Idx values are fixed sentinels (IntIdx…OrderingIdx in pool.go)
	// so primitive classification never touches the cell table.
	Int Tag = iota
	Float
	Bool
	Char
	Byte
	Str
	Unit
	Never
	Error
	Duration
	Size
	Ordering

	// Single-child containers.
	Option
	Range
	Set
	Channel
	List

	// Two-child containers.
	Result
	Map

	// Variable-arity.
	Tuple
	Function
	Struct
	Enum
	Applied

	// References.
	Named
	Alias

	// Variables.
	Var
	BoundVar
	RigidVar

	// Polymorphic.
	Scheme

	// Special.
	Projection
	ModuleNs
	Infer
	SelfType
)

var tagNames = [...]string{
	Int: "Int", Float: "Float", Bool: "Bool", Char: "Char", Byte: "Byte",
	Str: "Str", Unit: "Unit", Never: "Never", Error: "Error",
	Duration: "Duration", Size: "Size", Ordering: "Ordering",
	Option: "Option", Range: "Range", Set: "Set", Channel: "Channel", List: "List",
	Result: "Result", Map: "Map",
	Tuple: "Tuple", Function: "Function", Struct: "Struct", Enum: "Enum", Applied: "Applied",
	Named: "Named", Alias: "Alias",
	Var: "Var", BoundVar: "BoundVar", RigidVar: "RigidVar",
	Scheme:     "Scheme",
	Projection: "Projection", ModuleNs: "ModuleNs", Infer: "Infer", SelfType: "SelfType",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "Tag(?)"
}

// IsPrimitive reports whether t is one of the twelve sentinel primitives.
func (t Tag) IsPrimitive() bool {
	return t <= Ordering
}
