package pool

import (
	"fmt"
	"strings"

	"github.com/sunholo/corec/internal/ident"
)

var primitiveNames = [...]string{
	Int: "Int", Float: "Float", Bool: "Bool", Char: "Char", Byte: "Byte",
	Str: "Str", Unit: "Unit", Never: "Never", Error: "Error",
	Duration: "Duration", Size: "Size", Ordering: "Ordering",
}

// FormatType renders idx for diagnostics without an interner, so
// identifiers print as `#<name-handle>` placeholders. Link chains
// resolve transparently; Unbound and Rigid variables print with a
// stable per-id label so repeated formatting of the same pool is
// deterministic (§4.1 algorithm notes).
func (p *Pool) FormatType(idx Idx) string {
	return p.formatType(idx, nil)
}

// FormatTypeResolved renders idx using interner to spell out Named,
// struct/enum, and variable names instead of opaque handles.
func (p *Pool) FormatTypeResolved(idx Idx, interner *ident.Interner) string {
	return p.formatType(idx, interner)
}

func (p *Pool) name(n ident.Name, interner *ident.Interner) string {
	if interner == nil {
		return fmt.Sprintf("#%d", n)
	}
	return interner.Lookup(n)
}

func (p *Pool) formatType(idx Idx, interner *ident.Interner) string {
	if idx == None {
		return "<none>"
	}
	c := p.cells[idx]
	switch c.tag {
	case Int, Float, Bool, Char, Byte, Str, Unit, Never, Error, Duration, Size, Ordering:
		return primitiveNames[c.tag]
	case Option:
		return "Option<" + p.formatType(p.OptionInner(idx), interner) + ">"
	case Range:
		return "Range<" + p.formatType(p.RangeElem(idx), interner) + ">"
	case Set:
		return "Set<" + p.formatType(p.SetElem(idx), interner) + ">"
	case Channel:
		return "Channel<" + p.formatType(p.ChannelElem(idx), interner) + ">"
	case List:
		return "List<" + p.formatType(p.ListElem(idx), interner) + ">"
	case Result:
		return "Result<" + p.formatType(p.ResultOk(idx), interner) + ", " + p.formatType(p.ResultErr(idx), interner) + ">"
	case Map:
		return "Map<" + p.formatType(p.MapKey(idx), interner) + ", " + p.formatType(p.MapValue(idx), interner) + ">"
	case Tuple:
		elems := p.TupleElems(idx)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = p.formatType(e, interner)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case Function:
		params := p.FunctionParams(idx)
		parts := make([]string, len(params))
		for i, e := range params {
			parts[i] = p.formatType(e, interner)
		}
		return "fn(" + strings.Join(parts, ", ") + ") -> " + p.formatType(p.FunctionReturn(idx), interner)
	case Struct:
		return p.name(p.StructName(idx), interner)
	case Enum:
		return p.name(p.EnumName(idx), interner)
	case Applied:
		args := p.AppliedArgs(idx)
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = p.formatType(a, interner)
		}
		return p.formatType(p.AppliedCtor(idx), interner) + "<" + strings.Join(parts, ", ") + ">"
	case Named:
		return p.name(p.NamedName(idx), interner)
	case Alias:
		return p.name(p.AliasName(idx), interner)
	case Var:
		st := p.VarState(idx)
		if st.Kind == VarLink {
			return p.formatType(st.Target, interner)
		}
		return fmt.Sprintf("'t%d", st.ID)
	case RigidVar:
		st := p.VarState(idx)
		if st.Name != ident.Empty {
			return p.name(st.Name, interner)
		}
		return fmt.Sprintf("'r%d", st.ID)
	case BoundVar:
		st := p.VarState(idx)
		if st.Name != ident.Empty {
			return p.name(st.Name, interner)
		}
		return fmt.Sprintf("'b%d", st.ID)
	case Scheme:
		bound := p.SchemeBound(idx)
		parts := make([]string, len(bound))
		for i, b := range bound {
			parts[i] = p.formatType(b, interner)
		}
		return "forall " + strings.Join(parts, " ") + ". " + p.formatType(p.SchemeBody(idx), interner)
	case Projection:
		return p.formatType(p.ProjectionBase(idx), interner) + "::" + p.name(p.ProjectionAssoc(idx), interner)
	case ModuleNs:
		return p.name(p.ModuleNsName(idx), interner)
	case Infer:
		return "_"
	case SelfType:
		return "Self"
	default:
		return fmt.Sprintf("<tag %d>", c.tag)
	}
}
