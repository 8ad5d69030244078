package pool

import (
	"fmt"
	"strings"

	"github.com/sunholo/corec/internal/ident"
)

// Idx is an opaque handle into the pool. Equal terms always share one Idx.
type Idx uint32

// None is the sentinel "no type" index — used by slots that may be
// absent (e.g. an untyped placeholder). It never denotes Scalar/...
// itself; callers that need "the absence of a type classifies as
// Scalar" (per §4.2 step 1) compare against None explicitly.
const None Idx = 1<<32 - 1

type cell struct {
	tag  Tag
	a, b, c, d uint32
}

type fieldSlot struct {
	name ident.Name
	ty   Idx
}

type variantSlot struct {
	name        ident.Name
	fieldsStart uint32
	fieldsLen   uint32
}

// Pool is the process-lifetime type-term store. It is append-only: once
// a cell is interned its tag and payload never change (§3.1 invariant).
// The only mutations permitted after interning are updating a Var's
// state (Link during unification, GeneralizeVar during generalization)
// and registering a Named resolution.
type Pool struct {
	interner *ident.Interner

	cells []cell

	idxSlots     []Idx
	fieldSlots   []fieldSlot
	variantSlots []variantSlot

	compoundIndex map[string]Idx
	namedTable    map[ident.Name]Idx

	resolutions map[Idx]Idx

	varStates []VarState
	nextVarID uint32
}

// New creates a pool with the twelve primitives pre-interned at their
// sentinel indices and bound to interner for Named-type bookkeeping.
func New(interner *ident.Interner) *Pool {
	p := &Pool{
		interner:      interner,
		cells:         make([]cell, 0, 256),
		compoundIndex: make(map[string]Idx, 256),
		namedTable:    make(map[ident.Name]Idx, 64),
		resolutions:   make(map[Idx]Idx, 64),
	}
	for t := Int; t <= Ordering; t++ {
		p.cells = append(p.cells, cell{tag: t})
	}
	return p
}

// Sentinel primitive indices, stable across sessions per §3.1.
const (
	IntIdx      = Idx(Int)
	FloatIdx    = Idx(Float)
	BoolIdx     = Idx(Bool)
	CharIdx     = Idx(Char)
	ByteIdx     = Idx(Byte)
	StrIdx      = Idx(Str)
	UnitIdx     = Idx(Unit)
	NeverIdx    = Idx(Never)
	ErrorIdx    = Idx(Error)
	DurationIdx = Idx(Duration)
	SizeIdx     = Idx(Size)
	OrderingIdx = Idx(Ordering)
)

// IntrinsicPrimitive returns the sentinel index for a primitive tag.
// Panics if t is not a primitive tag — this is a pure function of t and
// never consults the cell table (§8.3 boundary case).
func IntrinsicPrimitive(t Tag) Idx {
	if !t.IsPrimitive() {
		panic(fmt.Sprintf("pool: %s is not a primitive tag", t))
	}
	return Idx(t)
}

// Tag returns the tag of an interned index.
func (p *Pool) Tag(idx Idx) Tag {
	return p.cells[idx].tag
}

func (p *Pool) push(c cell) Idx {
	idx := Idx(len(p.cells))
	p.cells = append(p.cells, c)
	return idx
}

// internCompound hash-conses a compound cell by a byte key built from its
// tag and normalized payload, per §4.1's "interning keys compound types
// by (tag, normalized payload)" algorithm note.
func (p *Pool) internCompound(key string, build func() cell) Idx {
	if idx, ok := p.compoundIndex[key]; ok {
		return idx
	}
	idx := p.push(build())
	p.compoundIndex[key] = idx
	return idx
}

func compoundKey(tag Tag, parts ...uint32) string {
	var b strings.Builder
	b.WriteByte(byte(tag))
	for _, part := range parts {
		b.WriteByte(byte(part))
		b.WriteByte(byte(part >> 8))
		b.WriteByte(byte(part >> 16))
		b.WriteByte(byte(part >> 24))
	}
	return b.String()
}

// normalize follows Link chains on Var cells so that hash-consing and
// formatting see the current unification result rather than a stale
// variable reference.
func (p *Pool) normalize(idx Idx) Idx {
	for {
		c := p.cells[idx]
		if c.tag != Var {
			return idx
		}
		st := p.varStates[c.a]
		if st.Kind != VarLink {
			return idx
		}
		idx = st.Target
	}
}

// Single-child containers

func (p *Pool) singleChild(tag Tag, inner Idx) Idx {
	inner = p.normalize(inner)
	key := compoundKey(tag, uint32(inner))
	return p.internCompound(key, func() cell { return cell{tag: tag, a: uint32(inner)} })
}

func (p *Pool) Option(inner Idx) Idx  { return p.singleChild(Option, inner) }
func (p *Pool) RangeOf(inner Idx) Idx { return p.singleChild(Range, inner) }
func (p *Pool) SetOf(inner Idx) Idx   { return p.singleChild(Set, inner) }
func (p *Pool) Channel(inner Idx) Idx { return p.singleChild(Channel, inner) }
func (p *Pool) ListOf(inner Idx) Idx  { return p.singleChild(List, inner) }

func (p *Pool) childOf(idx Idx) Idx { return Idx(p.cells[idx].a) }

func (p *Pool) OptionInner(idx Idx) Idx  { return p.childOf(idx) }
func (p *Pool) RangeElem(idx Idx) Idx    { return p.childOf(idx) }
func (p *Pool) SetElem(idx Idx) Idx      { return p.childOf(idx) }
func (p *Pool) ChannelElem(idx Idx) Idx  { return p.childOf(idx) }
func (p *Pool) ListElem(idx Idx) Idx     { return p.childOf(idx) }

// Two-child containers

func (p *Pool) Result(ok, err Idx) Idx {
	ok, err = p.normalize(ok), p.normalize(err)
	key := compoundKey(Result, uint32(ok), uint32(err))
	return p.internCompound(key, func() cell { return cell{tag: Result, a: uint32(ok), b: uint32(err)} })
}

func (p *Pool) ResultOk(idx Idx) Idx  { return Idx(p.cells[idx].a) }
func (p *Pool) ResultErr(idx Idx) Idx { return Idx(p.cells[idx].b) }

func (p *Pool) MapOf(key, value Idx) Idx {
	key, value = p.normalize(key), p.normalize(value)
	k := compoundKey(Map, uint32(key), uint32(value))
	return p.internCompound(k, func() cell { return cell{tag: Map, a: uint32(key), b: uint32(value)} })
}

func (p *Pool) MapKey(idx Idx) Idx   { return Idx(p.cells[idx].a) }
func (p *Pool) MapValue(idx Idx) Idx { return Idx(p.cells[idx].b) }

// Variable-arity

func (p *Pool) pushSlots(elems []Idx) (start, length uint32) {
	start = uint32(len(p.idxSlots))
	for _, e := range elems {
		p.idxSlots = append(p.idxSlots, p.normalize(e))
	}
	return start, uint32(len(elems))
}

func (p *Pool) Tuple(elems []Idx) Idx {
	normalized := make([]uint32, len(elems))
	for i, e := range elems {
		normalized[i] = uint32(p.normalize(e))
	}
	key := compoundKey(Tuple, normalized...)
	return p.internCompound(key, func() cell {
		start, length := p.pushSlots(elems)
		return cell{tag: Tuple, a: start, b: length}
	})
}

func (p *Pool) TupleElems(idx Idx) []Idx {
	c := p.cells[idx]
	return p.idxSlots[c.a : c.a+c.b]
}

// Function interns a function type. params are argument types; ret is
// the return type.
func (p *Pool) Function(params []Idx, ret Idx) Idx {
	ret = p.normalize(ret)
	normalized := make([]uint32, 0, len(params)+1)
	for _, e := range params {
		normalized = append(normalized, uint32(p.normalize(e)))
	}
	normalized = append(normalized, uint32(ret))
	key := compoundKey(Function, normalized...)
	return p.internCompound(key, func() cell {
		start, length := p.pushSlots(params)
		return cell{tag: Function, a: start, b: length, c: uint32(ret)}
	})
}

func (p *Pool) FunctionParams(idx Idx) []Idx {
	c := p.cells[idx]
	return p.idxSlots[c.a : c.a+c.b]
}

func (p *Pool) FunctionReturn(idx Idx) Idx {
	return Idx(p.cells[idx].c)
}

// StructField is one field of a struct type.
type StructField struct {
	Name ident.Name
	Type Idx
}

func (p *Pool) StructType(name ident.Name, fields []StructField) Idx {
	normalized := make([]uint32, 0, len(fields)*2+1)
	normalized = append(normalized, uint32(name))
	for _, f := range fields {
		normalized = append(normalized, uint32(f.Name), uint32(p.normalize(f.Type)))
	}
	key := compoundKey(Struct, normalized...)
	return p.internCompound(key, func() cell {
		start := uint32(len(p.fieldSlots))
		for _, f := range fields {
			p.fieldSlots = append(p.fieldSlots, fieldSlot{name: f.Name, ty: p.normalize(f.Type)})
		}
		return cell{tag: Struct, a: uint32(name), b: start, c: uint32(len(fields))}
	})
}

func (p *Pool) StructName(idx Idx) ident.Name { return ident.Name(p.cells[idx].a) }

func (p *Pool) StructFields(idx Idx) []StructField {
	c := p.cells[idx]
	slots := p.fieldSlots[c.b : c.b+c.c]
	out := make([]StructField, len(slots))
	for i, s := range slots {
		out[i] = StructField{Name: s.name, Type: s.ty}
	}
	return out
}

// EnumVariant is one variant of an enum type, with zero or more
// (possibly named, possibly positional) payload fields.
type EnumVariant struct {
	Name   ident.Name
	Fields []StructField
}

func (p *Pool) EnumType(name ident.Name, variants []EnumVariant) Idx {
	normalized := make([]uint32, 0, 1+len(variants)*4)
	normalized = append(normalized, uint32(name))
	for _, v := range variants {
		normalized = append(normalized, uint32(v.Name))
		for _, f := range v.Fields {
			normalized = append(normalized, uint32(f.Name), uint32(p.normalize(f.Type)))
		}
	}
	key := compoundKey(Enum, normalized...)
	return p.internCompound(key, func() cell {
		vStart := uint32(len(p.variantSlots))
		for _, v := range variants {
			fStart := uint32(len(p.fieldSlots))
			for _, f := range v.Fields {
				p.fieldSlots = append(p.fieldSlots, fieldSlot{name: f.Name, ty: p.normalize(f.Type)})
			}
			p.variantSlots = append(p.variantSlots, variantSlot{
				name:        v.Name,
				fieldsStart: fStart,
				fieldsLen:   uint32(len(v.Fields)),
			})
		}
		return cell{tag: Enum, a: uint32(name), b: vStart, c: uint32(len(variants))}
	})
}

func (p *Pool) EnumName(idx Idx) ident.Name { return ident.Name(p.cells[idx].a) }

func (p *Pool) EnumVariants(idx Idx) []EnumVariant {
	c := p.cells[idx]
	slots := p.variantSlots[c.b : c.b+c.c]
	out := make([]EnumVariant, len(slots))
	for i, s := range slots {
		fieldSlots := p.fieldSlots[s.fieldsStart : s.fieldsStart+s.fieldsLen]
		fields := make([]StructField, len(fieldSlots))
		for j, fs := range fieldSlots {
			fields[j] = StructField{Name: fs.name, Type: fs.ty}
		}
		out[i] = EnumVariant{Name: s.name, Fields: fields}
	}
	return out
}

// Applied interns a type-constructor application, e.g. `List<T>` spelled
// out as a generic applied to one argument before monomorphization.
func (p *Pool) Applied(ctor Idx, args []Idx) Idx {
	ctor = p.normalize(ctor)
	normalized := make([]uint32, 0, len(args)+1)
	normalized = append(normalized, uint32(ctor))
	for _, a := range args {
		normalized = append(normalized, uint32(p.normalize(a)))
	}
	key := compoundKey(Applied, normalized...)
	return p.internCompound(key, func() cell {
		start, length := p.pushSlots(args)
		return cell{tag: Applied, a: uint32(ctor), b: start, c: length}
	})
}

func (p *Pool) AppliedCtor(idx Idx) Idx { return Idx(p.cells[idx].a) }
func (p *Pool) AppliedArgs(idx Idx) []Idx {
	c := p.cells[idx]
	return p.idxSlots[c.b : c.b+c.c]
}

// References

// Named interns (or returns the existing) reference cell for name. A
// Named cell by itself carries no resolution; call SetResolution to bind
// it to the type it refers to (struct/enum/alias target), mirroring the
// canonicalizer resolving forward references.
func (p *Pool) Named(name ident.Name) Idx {
	if idx, ok := p.namedTable[name]; ok {
		return idx
	}
	idx := p.push(cell{tag: Named, a: uint32(name)})
	p.namedTable[name] = idx
	return idx
}

func (p *Pool) NamedName(idx Idx) ident.Name { return ident.Name(p.cells[idx].a) }

// SetResolution registers the type that a Named index resolves to.
func (p *Pool) SetResolution(named, target Idx) {
	p.resolutions[named] = target
}

// Resolve follows a Named or Alias reference to its target. ok is false
// if a Named reference has not yet been bound by SetResolution.
func (p *Pool) Resolve(idx Idx) (Idx, bool) {
	switch p.cells[idx].tag {
	case Alias:
		return Idx(p.cells[idx].b), true
	case Named:
		target, ok := p.resolutions[idx]
		return target, ok
	default:
		return idx, true
	}
}

func (p *Pool) Alias(name ident.Name, target Idx) Idx {
	target = p.normalize(target)
	key := compoundKey(Alias, uint32(name), uint32(target))
	return p.internCompound(key, func() cell { return cell{tag: Alias, a: uint32(name), b: uint32(target)} })
}

func (p *Pool) AliasName(idx Idx) ident.Name { return ident.Name(p.cells[idx].a) }
func (p *Pool) AliasTarget(idx Idx) Idx      { return Idx(p.cells[idx].b) }

// Scheme

// Scheme interns a polymorphic type scheme ∀ bound. body. Schemes are
// not hash-consed: two calls with equal arguments produce distinct
// indices, since each let-binding's scheme is a fresh quantification
// site in diagnostics.
func (p *Pool) Scheme(body Idx, bound []Idx) Idx {
	start, length := p.pushSlots(bound)
	idx := p.push(cell{tag: Scheme, a: uint32(p.normalize(body)), b: start, c: length})
	return idx
}

func (p *Pool) SchemeBody(idx Idx) Idx { return Idx(p.cells[idx].a) }
func (p *Pool) SchemeBound(idx Idx) []Idx {
	c := p.cells[idx]
	return p.idxSlots[c.b : c.b+c.c]
}

// Special forms

func (p *Pool) Projection(base Idx, assoc ident.Name) Idx {
	base = p.normalize(base)
	key := compoundKey(Projection, uint32(base), uint32(assoc))
	return p.internCompound(key, func() cell {
		return cell{tag: Projection, a: uint32(base), b: uint32(assoc)}
	})
}

func (p *Pool) ProjectionBase(idx Idx) Idx          { return Idx(p.cells[idx].a) }
func (p *Pool) ProjectionAssoc(idx Idx) ident.Name  { return ident.Name(p.cells[idx].b) }

func (p *Pool) ModuleNs(name ident.Name) Idx {
	key := compoundKey(ModuleNs, uint32(name))
	return p.internCompound(key, func() cell { return cell{tag: ModuleNs, a: uint32(name)} })
}

func (p *Pool) ModuleNsName(idx Idx) ident.Name { return ident.Name(p.cells[idx].a) }

func (p *Pool) Infer() Idx {
	key := compoundKey(Infer)
	return p.internCompound(key, func() cell { return cell{tag: Infer} })
}

func (p *Pool) SelfType() Idx {
	key := compoundKey(SelfType)
	return p.internCompound(key, func() cell { return cell{tag: SelfType} })
}
