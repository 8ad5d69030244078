package dtree

import (
	"fmt"

	"github.com/sunholo/corec/internal/ident"
)

// Compile builds a decision tree from m, per the §4.4 algorithm.
func Compile(m Matrix) Node {
	return compile(m.Rows, m.Paths)
}

func compile(rows []Row, paths []Path) Node {
	if len(rows) == 0 {
		return Fail{}
	}

	if isAllWildcard(rows[0], len(paths)) {
		leaf := buildLeaf(rows[0], paths)
		if rows[0].HasGuard {
			return Guard{
				ArmIndex: rows[0].Arm,
				Expr:     rows[0].Guard,
				Bindings: leaf.Bindings,
				OnFail:   compile(rows[1:], paths),
			}
		}
		return leaf
	}

	col := pickColumn(rows, paths)
	if isSingleConstructorCompound(rows, col) {
		newRows, newPaths := decomposeColumn(rows, paths, col)
		return compile(newRows, newPaths)
	}
	return buildSwitch(rows, paths, col)
}

func isAllWildcard(row Row, ncols int) bool {
	for i := 0; i < ncols; i++ {
		k := row.Patterns[i].Kind
		if k != Wildcard && k != Binding {
			return false
		}
	}
	return true
}

func buildLeaf(row Row, paths []Path) Leaf {
	bindings := append([]BindingPair(nil), row.Bound...)
	for i, pat := range row.Patterns {
		if pat.Kind == Binding {
			bindings = append(bindings, BindingPair{Name: pat.Name, Path: paths[i]})
		}
	}
	return Leaf{ArmIndex: row.Arm, Bindings: bindings}
}

// ctorKey returns a string uniquely identifying pat's head constructor,
// used both to count distinct constructors (pick-column heuristic) and
// to group rows into switch edges.
func ctorKey(pat FlatPattern) string {
	switch pat.Kind {
	case Bool:
		return fmt.Sprintf("b:%v", pat.BoolVal)
	case Int:
		return fmt.Sprintf("i:%d", pat.IntVal)
	case Str:
		return fmt.Sprintf("s:%q", pat.StrVal)
	case Variant:
		return fmt.Sprintf("v:%d", pat.VariantIndex)
	case Tuple:
		return "tuple"
	case Struct:
		return "struct"
	default:
		return ""
	}
}

// pickColumn implements the §4.4 "most distinct constructors; leftmost
// on tie" heuristic.
func pickColumn(rows []Row, paths []Path) int {
	best, bestCount := -1, -1
	for col := 0; col < len(paths); col++ {
		seen := make(map[string]struct{})
		nonWildcard := false
		for _, row := range rows {
			pat := row.Patterns[col]
			switch pat.Kind {
			case Wildcard, Binding:
				continue
			case Or:
				nonWildcard = true
				for _, alt := range pat.Alternatives {
					seen[ctorKey(alt)] = struct{}{}
				}
			default:
				nonWildcard = true
				seen[ctorKey(pat)] = struct{}{}
			}
		}
		if !nonWildcard {
			continue
		}
		if len(seen) > bestCount {
			bestCount = len(seen)
			best = col
		}
	}
	return best
}

// isSingleConstructorCompound reports whether col's non-wildcard
// patterns are all Tuple, or all Struct — a shape with exactly one
// constructor, decomposed in place rather than switched on (§4.4 step
// 4).
func isSingleConstructorCompound(rows []Row, col int) bool {
	kind := PatternKind(255)
	for _, row := range rows {
		pat := row.Patterns[col]
		if pat.Kind == Wildcard || pat.Kind == Binding {
			continue
		}
		if pat.Kind != Tuple && pat.Kind != Struct {
			return false
		}
		if kind == 255 {
			kind = pat.Kind
		} else if kind != pat.Kind {
			return false
		}
	}
	return kind != 255
}

func removeCol(patterns []FlatPattern, col int) []FlatPattern {
	out := make([]FlatPattern, 0, len(patterns)-1)
	out = append(out, patterns[:col]...)
	out = append(out, patterns[col+1:]...)
	return out
}

func insertCols(patterns []FlatPattern, col int, sub []FlatPattern) []FlatPattern {
	out := make([]FlatPattern, 0, len(patterns)-1+len(sub))
	out = append(out, patterns[:col]...)
	out = append(out, sub...)
	out = append(out, patterns[col+1:]...)
	return out
}

func removePath(paths []Path, col int) []Path {
	out := make([]Path, 0, len(paths)-1)
	out = append(out, paths[:col]...)
	out = append(out, paths[col+1:]...)
	return out
}

func insertPaths(paths []Path, col int, sub []Path) []Path {
	out := make([]Path, 0, len(paths)-1+len(sub))
	out = append(out, paths[:col]...)
	out = append(out, sub...)
	out = append(out, paths[col+1:]...)
	return out
}

// decomposeColumn expands a single-constructor Tuple/Struct column in
// place (§4.4 step 4): the column is replaced by its sub-fields,
// prefixing the path with TupleElem(i)/StructField(i).
func decomposeColumn(rows []Row, paths []Path, col int) ([]Row, []Path) {
	n := 0
	kind := PatternKind(255)
	for _, row := range rows {
		pat := row.Patterns[col]
		if pat.Kind == Tuple {
			kind = Tuple
			if len(pat.Elements) > n {
				n = len(pat.Elements)
			}
		} else if pat.Kind == Struct {
			kind = Struct
			if len(pat.Struct) > n {
				n = len(pat.Struct)
			}
		}
	}

	subPaths := make([]Path, n)
	for i := 0; i < n; i++ {
		pk := TupleElem
		if kind == Struct {
			pk = StructField
		}
		subPaths[i] = extend(paths[col], PathInstruction{Kind: pk, Index: i})
	}
	newPaths := insertPaths(paths, col, subPaths)

	newRows := make([]Row, len(rows))
	for i, row := range rows {
		pat := row.Patterns[col]
		var sub []FlatPattern
		bound := row.Bound
		switch pat.Kind {
		case Wildcard:
			sub = wildcards(n)
		case Binding:
			bound = append(append([]BindingPair(nil), bound...), BindingPair{Name: pat.Name, Path: paths[col]})
			sub = wildcards(n)
		case Tuple:
			sub = padWildcards(pat.Elements, n)
		case Struct:
			sub = make([]FlatPattern, n)
			for j := 0; j < n; j++ {
				if j < len(pat.Struct) {
					sub[j] = pat.Struct[j].Pattern
				} else {
					sub[j] = FlatPattern{Kind: Wildcard}
				}
			}
		default:
			sub = wildcards(n)
		}
		newRows[i] = Row{
			Patterns: insertCols(row.Patterns, col, sub),
			Arm:      row.Arm,
			HasGuard: row.HasGuard,
			Guard:    row.Guard,
			Bound:    bound,
		}
	}
	return newRows, newPaths
}

func wildcards(n int) []FlatPattern {
	out := make([]FlatPattern, n)
	for i := range out {
		out[i] = FlatPattern{Kind: Wildcard}
	}
	return out
}

func padWildcards(pats []FlatPattern, n int) []FlatPattern {
	if len(pats) >= n {
		return pats
	}
	out := append([]FlatPattern(nil), pats...)
	for len(out) < n {
		out = append(out, FlatPattern{Kind: Wildcard})
	}
	return out
}

// buildSwitch partitions rows by their head constructor in col (§4.4
// step 5), preserving first-seen edge order.
func buildSwitch(rows []Row, paths []Path, col int) Node {
	testKind := inferTestKind(rows, col)

	type group struct {
		key      string
		value    TestValue
		rows     []Row
		subPaths []Path // only meaningful for TestEnumTag
	}
	var order []string
	groups := make(map[string]*group)
	var defaultRows []Row

	addToGroup := func(pat FlatPattern, row Row, bound []BindingPair) {
		key := ctorKey(pat)
		g, ok := groups[key]
		if !ok {
			g = &group{key: key, value: testValueOf(pat)}
			if testKind == TestEnumTag {
				g.subPaths = make([]Path, len(pat.Fields))
				for i := range pat.Fields {
					g.subPaths[i] = extend(paths[col], PathInstruction{Kind: VariantPayload, Index: i, Variant: pat.VariantName})
				}
			}
			groups[key] = g
			order = append(order, key)
		}
		var newPatterns []FlatPattern
		if testKind == TestEnumTag {
			newPatterns = insertCols(row.Patterns, col, padWildcards(pat.Fields, len(g.subPaths)))
		} else {
			newPatterns = removeCol(row.Patterns, col)
		}
		g.rows = append(g.rows, Row{
			Patterns: newPatterns,
			Arm:      row.Arm,
			HasGuard: row.HasGuard,
			Guard:    row.Guard,
			Bound:    bound,
		})
	}

	addDefault := func(row Row, bound []BindingPair) {
		defaultRows = append(defaultRows, Row{
			Patterns: removeCol(row.Patterns, col),
			Arm:      row.Arm,
			HasGuard: row.HasGuard,
			Guard:    row.Guard,
			Bound:    bound,
		})
	}

	for _, row := range rows {
		pat := row.Patterns[col]
		switch pat.Kind {
		case Wildcard:
			addDefault(row, row.Bound)
		case Binding:
			addDefault(row, append(append([]BindingPair(nil), row.Bound...), BindingPair{Name: pat.Name, Path: paths[col]}))
		case Or:
			for _, alt := range pat.Alternatives {
				if alt.Kind == Wildcard {
					addDefault(row, row.Bound)
				} else {
					addToGroup(alt, row, row.Bound)
				}
			}
		default:
			addToGroup(pat, row, row.Bound)
		}
	}

	edges := make([]Edge, 0, len(order))
	for _, key := range order {
		g := groups[key]
		var subtree Node
		if testKind == TestEnumTag {
			subtree = compile(g.rows, insertPaths(paths, col, g.subPaths))
		} else {
			subtree = compile(g.rows, removePath(paths, col))
		}
		edges = append(edges, Edge{Value: g.value, Subtree: subtree})
	}

	var def Node
	if len(defaultRows) > 0 {
		def = compile(defaultRows, removePath(paths, col))
	}

	return Switch{Path: paths[col], Kind: testKind, Edges: edges, Default: def}
}

func inferTestKind(rows []Row, col int) TestKind {
	for _, row := range rows {
		switch row.Patterns[col].Kind {
		case Bool:
			return TestBool
		case Int:
			return TestInt
		case Str:
			return TestStr
		case Variant:
			return TestEnumTag
		case Or:
			for _, alt := range row.Patterns[col].Alternatives {
				switch alt.Kind {
				case Bool:
					return TestBool
				case Int:
					return TestInt
				case Str:
					return TestStr
				case Variant:
					return TestEnumTag
				}
			}
		}
	}
	return TestEnumTag
}

func testValueOf(pat FlatPattern) TestValue {
	switch pat.Kind {
	case Bool:
		return TestValue{Kind: TestBool, Bool: pat.BoolVal}
	case Int:
		return TestValue{Kind: TestInt, Int: pat.IntVal}
	case Str:
		return TestValue{Kind: TestStr, Str: pat.StrVal}
	case Variant:
		return TestValue{Kind: TestEnumTag, Variant: pat.VariantName, VariantIndex: pat.VariantIndex}
	default:
		return TestValue{}
	}
}

// Wildcard/Binding-only helper constructors for building matrices in
// callers and tests.
func WildcardPattern() FlatPattern           { return FlatPattern{Kind: Wildcard} }
func BindingPattern(name ident.Name) FlatPattern { return FlatPattern{Kind: Binding, Name: name} }
