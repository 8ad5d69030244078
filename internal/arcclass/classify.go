// Package arcclass classifies pool types by their reference-counting
// needs: Scalar (stored by value), DefiniteRef (always heap-allocated),
// or PossibleRef (conservatively heap — unresolved names and type
// variables). Grounded on the classifier in
// _examples/original_source/compiler/ori_arc/src/classify.rs.
package arcclass

import (
	"sync"

	"github.com/sunholo/corec/internal/pool"
)

// Class is the three-way ARC classification of §3.7.
type Class uint8

const (
	Scalar Class = iota
	PossibleRef
	DefiniteRef
)

func (c Class) String() string {
	switch c {
	case Scalar:
		return "Scalar"
	case PossibleRef:
		return "PossibleRef"
	case DefiniteRef:
		return "DefiniteRef"
	default:
		return "Class(?)"
	}
}

// dominate implements the combination rule of §4.2 step 6:
// DefiniteRef dominates PossibleRef dominates Scalar.
func dominate(a, b Class) Class {
	if a > b {
		return a
	}
	return b
}

// Classifier memoizes classification results over a *pool.Pool. Its
// public surface is read-only (Classify/NeedsRC/IsScalar never need a
// pointer receiver from the caller's point of view), but it privately
// mutates a memo table and a cycle-detection set — the interior
// mutability design note of §9: "owns a private memo map and a
// 'currently classifying' set; mutation is private."
type Classifier struct {
	pool *pool.Pool

	mu          sync.Mutex
	memo        map[pool.Idx]Class
	classifying map[pool.Idx]struct{}
}

// New creates a Classifier bound to p. p is read-only from the
// classifier's point of view; only the inference phase mutates it.
func New(p *pool.Pool) *Classifier {
	return &Classifier{
		pool:        p,
		memo:        make(map[pool.Idx]Class),
		classifying: make(map[pool.Idx]struct{}),
	}
}

// Classify returns the ARC class of idx, per the §4.2 algorithm.
func (c *Classifier) Classify(idx pool.Idx) Class {
	if idx == pool.None {
		return Scalar
	}
	if idx <= pool.OrderingIdx {
		// Primitive sentinel: its index equals its tag, so this path
		// never reads the pool's cell table.
		cls, _ := classifyPrimitive(pool.Tag(idx))
		return cls
	}

	tag := c.pool.Tag(idx)
	if cls, ok := classifyPrimitive(tag); ok {
		return cls
	}

	c.mu.Lock()
	if cls, ok := c.memo[idx]; ok {
		c.mu.Unlock()
		return cls
	}
	if _, ok := c.classifying[idx]; ok {
		// Self-referential type: requires run-time indirection.
		c.mu.Unlock()
		return DefiniteRef
	}
	c.classifying[idx] = struct{}{}
	c.mu.Unlock()

	cls := c.classifyByTag(idx, tag)

	c.mu.Lock()
	delete(c.classifying, idx)
	c.memo[idx] = cls
	c.mu.Unlock()

	return cls
}

// classifyPrimitive is the fast path of §4.2 step 2 / §8.3: a pure
// function of the tag, never touching the memo table or pool payload.
func classifyPrimitive(tag pool.Tag) (Class, bool) {
	switch tag {
	case pool.Int, pool.Float, pool.Bool, pool.Char, pool.Byte,
		pool.Unit, pool.Never, pool.Error, pool.Duration, pool.Size, pool.Ordering:
		return Scalar, true
	case pool.Str:
		return DefiniteRef, true
	default:
		return Scalar, false
	}
}

func (c *Classifier) classifyByTag(idx pool.Idx, tag pool.Tag) Class {
	switch tag {
	case pool.List, pool.Map, pool.Set, pool.Channel, pool.Function:
		return DefiniteRef

	case pool.Option:
		return c.Classify(c.pool.OptionInner(idx))
	case pool.Range:
		return c.Classify(c.pool.RangeElem(idx))

	case pool.Result:
		return c.classifyChildren(c.pool.ResultOk(idx), c.pool.ResultErr(idx))

	case pool.Tuple:
		return c.classifyChildren(c.pool.TupleElems(idx)...)

	case pool.Struct:
		fields := c.pool.StructFields(idx)
		types := make([]pool.Idx, len(fields))
		for i, f := range fields {
			types[i] = f.Type
		}
		return c.classifyChildren(types...)

	case pool.Enum:
		variants := c.pool.EnumVariants(idx)
		var types []pool.Idx
		for _, v := range variants {
			for _, f := range v.Fields {
				types = append(types, f.Type)
			}
		}
		return c.classifyChildren(types...)

	case pool.Named, pool.Applied, pool.Alias:
		resolved, ok := c.resolveTarget(idx, tag)
		if !ok {
			return PossibleRef
		}
		return c.Classify(resolved)

	case pool.Var, pool.BoundVar, pool.RigidVar,
		pool.Scheme, pool.Projection, pool.ModuleNs, pool.Infer, pool.SelfType:
		return PossibleRef

	default:
		return PossibleRef
	}
}

func (c *Classifier) resolveTarget(idx pool.Idx, tag pool.Tag) (pool.Idx, bool) {
	if tag == pool.Applied {
		return c.pool.Resolve(c.pool.AppliedCtor(idx))
	}
	return c.pool.Resolve(idx)
}

// classifyChildren implements the §4.2 step 6 combination rule:
// short-circuit on the first DefiniteRef, otherwise track whether any
// child was PossibleRef.
func (c *Classifier) classifyChildren(children ...pool.Idx) Class {
	result := Scalar
	for _, child := range children {
		cls := c.Classify(child)
		if cls == DefiniteRef {
			return DefiniteRef
		}
		result = dominate(result, cls)
	}
	return result
}

// NeedsRC reports whether values of this type require reference
// counting at run time.
func (c *Classifier) NeedsRC(idx pool.Idx) bool {
	return c.Classify(idx) != Scalar
}

// IsScalar reports whether idx classifies as Scalar.
func (c *Classifier) IsScalar(idx pool.Idx) bool {
	return c.Classify(idx) == Scalar
}
