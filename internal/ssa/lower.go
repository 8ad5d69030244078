package ssa

import (
	"github.com/sunholo/corec/internal/canon"
	"github.com/sunholo/corec/internal/diag"
	"github.com/sunholo/corec/internal/dtree"
	"github.com/sunholo/corec/internal/ident"
	"github.com/sunholo/corec/internal/pool"
)

// Lowerer walks a canonical function and produces its lowered-IR
// function plus every lambda extracted along the way (§4.5, §6.2).
type Lowerer struct {
	arena   *canon.Arena
	pool    *pool.Pool
	lambdas []*Func
	errs    []*diag.Report
}

// NewLowerer creates a lowerer over arena, resolving types against p.
func NewLowerer(arena *canon.Arena, p *pool.Pool) *Lowerer {
	return &Lowerer{arena: arena, pool: p}
}

// Errors returns the non-fatal lowering diagnostics accumulated across
// every Lower call (§7: "Lowering errors ... are logged as non-fatal
// problems").
func (l *Lowerer) Errors() []*diag.Report { return l.errs }

// Lambdas returns every lambda extracted so far, in extraction order.
func (l *Lowerer) Lambdas() []*Func { return l.lambdas }

func (l *Lowerer) unsupported(kind string, sp canon.Span) {
	l.errs = append(l.errs, diag.New(diag.E4001UnsupportedExpr, "ssa", "unsupported expression kind: "+kind).WithSpan(sp))
}

// Lower lowers one top-level function.
func (l *Lowerer) Lower(fn canon.Func) *Func {
	b := NewBuilder()
	scope := NewScope()

	params := make([]VarID, len(fn.Params))
	for i, name := range fn.Params {
		ty := pool.None
		if i < len(fn.ParamTypes) {
			ty = fn.ParamTypes[i]
		}
		v := b.AddParam(b.Current(), ty)
		scope.Bind(name, v, false)
		params[i] = v
	}

	result := l.lowerExpr(b, scope, nil, fn.Body)
	if !b.Terminated() {
		b.Terminate(Return{Value: result})
	}

	f := b.Func()
	f.Name = fn.Name
	f.Params = params
	f.ReturnType = fn.ReturnType
	return f
}

// unitValue materializes a fresh Unit-typed variable, used wherever an
// expression is statically known to produce no value (§4.5 "Block ...
// returns Unit if the block has no result").
func (l *Lowerer) unitValue(b *Builder) VarID {
	return b.Let(pool.UnitIdx, Literal{Kind: LitUnit})
}

func (l *Lowerer) lowerExpr(b *Builder, scope *Scope, loop *loopContext, id canon.ExprID) VarID {
	if id == canon.NoExpr {
		return l.unitValue(b)
	}
	a := l.arena
	ty := a.Type(id)

	switch a.Kind(id) {
	case canon.LitInt:
		return b.Let(ty, Literal{Kind: LitInt, IntVal: a.LitInt(id)})
	case canon.LitFloat:
		return b.Let(ty, Literal{Kind: LitFloat, FloatVal: a.LitFloat(id)})
	case canon.LitBool:
		return b.Let(ty, Literal{Kind: LitBool, BoolVal: a.LitBool(id)})
	case canon.LitStr:
		return b.Let(ty, Literal{Kind: LitStr, StrVal: a.LitStr(id)})
	case canon.LitChar:
		return b.Let(ty, Literal{Kind: LitChar, CharVal: a.LitChar(id)})
	case canon.LitUnit:
		return b.Let(ty, Literal{Kind: LitUnit})

	case canon.Ident:
		name := a.IdentName(id)
		v, _, ok := scope.Lookup(name)
		if !ok {
			l.unsupported("unresolved identifier", a.Span(id))
			return l.unitValue(b)
		}
		// §4.5: every expression produces a fresh variable ID, even a
		// bare identifier reference.
		return b.Let(ty, VarRef{Var: v})

	case canon.Binary:
		lhs := l.lowerExpr(b, scope, loop, a.BinaryLHS(id))
		rhs := l.lowerExpr(b, scope, loop, a.BinaryRHS(id))
		return b.Let(ty, PrimOp{Op: a.BinaryOp(id), Args: []VarID{lhs, rhs}})

	case canon.Unary:
		operand := l.lowerExpr(b, scope, loop, a.UnaryOperand(id))
		return b.Let(ty, PrimOp{Op: a.UnaryOp(id), Args: []VarID{operand}})

	case canon.Block:
		return l.lowerBlock(b, scope, loop, id)

	case canon.If:
		return l.lowerIf(b, scope, loop, id)

	case canon.Loop:
		return l.lowerLoop(b, scope, loop, id)

	case canon.For:
		return l.lowerFor(b, scope, loop, id)

	case canon.Break:
		return l.lowerBreak(b, scope, loop, id)

	case canon.Continue:
		l.lowerContinue(b, scope, loop, a.Span(id))
		return l.unitValue(b)

	case canon.Return:
		val := l.lowerExpr(b, scope, loop, a.ReturnValue(id))
		b.Terminate(Return{Value: val})
		return val

	case canon.Assign:
		val := l.lowerExpr(b, scope, loop, a.AssignValue(id))
		scope.Rebind(a.AssignName(id), val)
		return val

	case canon.Call:
		return l.lowerCall(b, scope, loop, id)

	case canon.Lambda:
		return l.lowerLambda(b, scope, id)

	case canon.Tuple:
		elems := a.TupleElems(id)
		args := make([]VarID, len(elems))
		for i, e := range elems {
			args[i] = l.lowerExpr(b, scope, loop, e)
		}
		dst := b.Fresh(ty)
		b.Emit(Construct{Dst: dst, Ty: ty, Ctor: ident.Empty, Args: args})
		return dst

	case canon.StructLit:
		fields := a.StructLitFields(id)
		args := make([]VarID, len(fields))
		for i, f := range fields {
			args[i] = l.lowerExpr(b, scope, loop, f.Value)
		}
		dst := b.Fresh(ty)
		b.Emit(Construct{Dst: dst, Ty: ty, Ctor: a.StructLitName(id), Args: args})
		return dst

	case canon.VariantLit:
		fields := a.VariantLitFields(id)
		args := make([]VarID, len(fields))
		for i, f := range fields {
			args[i] = l.lowerExpr(b, scope, loop, f.Value)
		}
		dst := b.Fresh(ty)
		b.Emit(Construct{Dst: dst, Ty: ty, Ctor: a.VariantLitName(id), Args: args})
		return dst

	case canon.FieldAccess:
		baseID := a.FieldAccessBase(id)
		base := l.lowerExpr(b, scope, loop, baseID)
		dst := b.Fresh(ty)
		b.Emit(Project{Dst: dst, Ty: ty, Value: base, Field: l.fieldIndexOf(a.Type(baseID), a.FieldAccessField(id))})
		return dst

	case canon.Match:
		return l.lowerMatch(b, scope, loop, id)

	case canon.Await:
		l.unsupported("await", a.Span(id))
		return l.unitValue(b)

	default:
		l.unsupported("unknown expression kind", a.Span(id))
		return l.unitValue(b)
	}
}

// fieldIndexOf resolves a FieldAccess's named field to a positional
// index within the base value's struct type. Falls back to 0 when the
// base type isn't a struct (inference error already reported upstream;
// lowering continues per §7's accumulate-and-continue policy).
func (l *Lowerer) fieldIndexOf(baseTy pool.Idx, field ident.Name) int {
	if baseTy == pool.None || l.pool.Tag(baseTy) != pool.Struct {
		return 0
	}
	for i, f := range l.pool.StructFields(baseTy) {
		if f.Name == field {
			return i
		}
	}
	return 0
}

// lowerBlock creates a child scope, lowers statements in order, and
// returns the result expression's value or Unit (§4.5 "Block").
func (l *Lowerer) lowerBlock(b *Builder, scope *Scope, loop *loopContext, id canon.ExprID) VarID {
	a := l.arena
	child := scope.Child()
	for _, stmt := range a.BlockStmts(id) {
		if b.Terminated() {
			break
		}
		switch stmt.Kind {
		case canon.LetStmt:
			v := l.lowerExpr(b, child, loop, stmt.Value)
			child.Bind(stmt.Name, v, stmt.Mutable)
		case canon.ExprStmt:
			l.lowerExpr(b, child, loop, stmt.Value)
		}
	}
	result := a.BlockResult(id)
	if b.Terminated() {
		return l.unitValue(b)
	}
	if result == canon.NoExpr {
		return l.unitValue(b)
	}
	return l.lowerExpr(b, child, loop, result)
}

// lowerIf creates then/else/merge blocks, lowers the condition, emits a
// Branch, and lowers each arm in a clone of the pre-branch scope,
// adding a block parameter to merge for every mutable name plus the
// expression's own value (§4.5 "If").
func (l *Lowerer) lowerIf(b *Builder, scope *Scope, loop *loopContext, id canon.ExprID) VarID {
	a := l.arena
	ty := a.Type(id)
	cond := l.lowerExpr(b, scope, loop, a.IfCond(id))

	thenBlk := b.NewBlock()
	elseBlk := b.NewBlock()
	mergeBlk := b.NewBlock()
	b.Terminate(Branch{Cond: cond, Then: thenBlk, Else: elseBlk})

	mutNames := scope.MutableNames()
	mergeParams := make([]VarID, 0, len(mutNames)+1)
	resultParam := b.AddParam(mergeBlk, ty)
	mergeParams = append(mergeParams, resultParam)
	paramFor := make(map[ident.Name]VarID, len(mutNames))
	for _, name := range mutNames {
		v, _, _ := scope.Lookup(name)
		p := b.AddParam(mergeBlk, b.Func().VarTypes[v])
		paramFor[name] = p
	}

	lowerArm := func(blk BlockID, armExpr canon.ExprID) {
		b.SetCurrent(blk)
		armScope := scope.Clone()
		val := l.lowerExpr(b, armScope, loop, armExpr)
		if b.Terminated() {
			return
		}
		args := make([]VarID, 0, len(mutNames)+1)
		args = append(args, val)
		for _, name := range mutNames {
			v, _, _ := armScope.Lookup(name)
			args = append(args, v)
		}
		b.Terminate(Jump{Target: mergeBlk, Args: args})
	}

	lowerArm(thenBlk, a.IfThen(id))
	lowerArm(elseBlk, a.IfElse(id))

	b.SetCurrent(mergeBlk)
	for _, name := range mutNames {
		scope.Rebind(name, paramFor[name])
	}
	return resultParam
}

// lowerLoop creates a header and exit block; every mutable name gets a
// header parameter, break targets exit, continue/fallthrough targets
// the header (§4.5 "Loop").
func (l *Lowerer) lowerLoop(b *Builder, scope *Scope, parent *loopContext, id canon.ExprID) VarID {
	a := l.arena
	ty := a.Type(id)
	header := b.NewBlock()
	exit := b.NewBlock()

	mutNames := scope.MutableNames()
	entryArgs := make([]VarID, len(mutNames))
	for i, name := range mutNames {
		v, _, _ := scope.Lookup(name)
		entryArgs[i] = v
	}
	b.Terminate(Jump{Target: header, Args: entryArgs})

	b.SetCurrent(header)
	headerScope := scope.Clone()
	for _, name := range mutNames {
		v, _, _ := headerScope.Lookup(name)
		p := b.AddParam(header, b.Func().VarTypes[v])
		headerScope.Rebind(name, p)
	}
	resultParam := b.AddParam(exit, ty)

	lc := &loopContext{parent: parent, exit: exit, header: header, mutableNames: mutNames}
	l.lowerExpr(b, headerScope, lc, a.LoopBody(id))
	if !b.Terminated() {
		args := make([]VarID, len(mutNames))
		for i, name := range mutNames {
			v, _, _ := headerScope.Lookup(name)
			args[i] = v
		}
		b.Terminate(Jump{Target: header, Args: args})
	}

	b.SetCurrent(exit)
	return resultParam
}

func (l *Lowerer) lowerBreak(b *Builder, scope *Scope, loop *loopContext, id canon.ExprID) VarID {
	a := l.arena
	if loop == nil {
		l.unsupported("break outside loop", a.Span(id))
		return l.unitValue(b)
	}
	val := l.lowerExpr(b, scope, loop, a.BreakValue(id))
	b.Terminate(Jump{Target: loop.exit, Args: []VarID{val}})
	return val
}

// lowerContinue jumps back to the loop header (or, for a For loop, to
// its latch block, which loopContext.header is set to), forwarding each
// mutable name's current value from scope (§4.5 "continue terminates
// with Jump(header, [current mutable values])").
func (l *Lowerer) lowerContinue(b *Builder, scope *Scope, loop *loopContext, sp canon.Span) {
	if loop == nil {
		l.unsupported("continue outside loop", sp)
		return
	}
	args := make([]VarID, len(loop.mutableNames))
	for i, name := range loop.mutableNames {
		v, _, _ := scope.Lookup(name)
		args[i] = v
	}
	b.Terminate(Jump{Target: loop.header, Args: args})
}

// lowerFor lowers a range iteration: the header carries the induction
// variable as a parameter, optionally gated by a guard, with a latch
// that increments and jumps back (§4.5 "For").
func (l *Lowerer) lowerFor(b *Builder, scope *Scope, parent *loopContext, id canon.ExprID) VarID {
	a := l.arena
	start := l.lowerExpr(b, scope, parent, a.ForStart(id))
	end := l.lowerExpr(b, scope, parent, a.ForEnd(id))

	header := b.NewBlock()
	body := b.NewBlock()
	latch := b.NewBlock()
	normalExit := b.NewBlock()
	exit := b.NewBlock()

	inductionTy := b.Func().VarTypes[start]
	b.Terminate(Jump{Target: header, Args: []VarID{start}})

	b.SetCurrent(header)
	iv := b.AddParam(header, inductionTy)
	inBounds := b.Let(pool.BoolIdx, PrimOp{Op: "<", Args: []VarID{iv, end}})
	resultParam := b.AddParam(exit, pool.UnitIdx)

	bodyScope := scope.Clone()
	bodyScope.Bind(a.ForInduction(id), iv, false)

	guard := a.ForGuard(id)
	if guard == canon.NoExpr {
		b.Terminate(Branch{Cond: inBounds, Then: body, Else: normalExit})
	} else {
		gateBlk := b.NewBlock()
		b.Terminate(Branch{Cond: inBounds, Then: gateBlk, Else: normalExit})
		b.SetCurrent(gateBlk)
		guardVal := l.lowerExpr(b, bodyScope, parent, guard)
		b.Terminate(Branch{Cond: guardVal, Then: body, Else: latch})
	}

	b.SetCurrent(normalExit)
	normalUnit := l.unitValue(b)
	b.Terminate(Jump{Target: exit, Args: []VarID{normalUnit}})

	lc := &loopContext{parent: parent, exit: exit, header: latch}
	b.SetCurrent(body)
	l.lowerExpr(b, bodyScope, lc, a.ForBody(id))
	if !b.Terminated() {
		b.Terminate(Jump{Target: latch})
	}

	b.SetCurrent(latch)
	one := b.Let(inductionTy, Literal{Kind: LitInt, IntVal: 1})
	next := b.Let(inductionTy, PrimOp{Op: "+", Args: []VarID{iv, one}})
	b.Terminate(Jump{Target: header, Args: []VarID{next}})

	b.SetCurrent(exit)
	return resultParam
}

func (l *Lowerer) lowerCall(b *Builder, scope *Scope, loop *loopContext, id canon.ExprID) VarID {
	a := l.arena
	ty := a.Type(id)
	argExprs := a.CallArgs(id)
	args := make([]VarID, len(argExprs))
	for i, e := range argExprs {
		args[i] = l.lowerExpr(b, scope, loop, e)
	}
	calleeID := a.CallCallee(id)
	var funcName ident.Name
	if a.Kind(calleeID) == canon.Ident {
		funcName = a.IdentName(calleeID)
	} else {
		l.lowerExpr(b, scope, loop, calleeID)
	}
	dst := b.Fresh(ty)
	b.Emit(Apply{Dst: dst, Ty: ty, FuncName: funcName, Args: args})
	return dst
}

// lowerLambda extracts the body into a fresh lowered function, with
// captures threaded through as extra leading parameters, and emits a
// Construct of the closure value at the call site (§4.5 "Lambda
// extraction").
func (l *Lowerer) lowerLambda(b *Builder, scope *Scope, id canon.ExprID) VarID {
	a := l.arena
	params := a.LambdaParams(id)
	captures := a.LambdaCaptures(id)

	lb := NewBuilder()
	lambdaScope := NewScope()
	capVars := make([]VarID, len(captures))
	for i, name := range captures {
		v, _, ok := scope.Lookup(name)
		if !ok {
			l.unsupported("unresolved capture", a.Span(id))
			continue
		}
		capVars[i] = v
		p := lb.AddParam(lb.Current(), b.Func().VarTypes[v])
		lambdaScope.Bind(name, p, false)
	}
	for _, name := range params {
		p := lb.AddParam(lb.Current(), pool.None)
		lambdaScope.Bind(name, p, false)
	}

	result := l.lowerExpr(lb, lambdaScope, nil, a.LambdaBody(id))
	if !lb.Terminated() {
		lb.Terminate(Return{Value: result})
	}
	fn := lb.Func()
	l.lambdas = append(l.lambdas, fn)

	callArgs := make([]VarID, 0, len(captures)+1)
	callArgs = append(callArgs, capVars...)
	dst := b.Fresh(a.Type(id))
	b.Emit(Construct{Dst: dst, Ty: a.Type(id), Ctor: ident.Empty, Args: callArgs})
	return dst
}

// lowerMatch retrieves the pre-compiled decision tree from the arena
// (§6.1) and emits it, binding each leaf's paths via Project and
// jumping to the arm body (§4.5 "Match").
func (l *Lowerer) lowerMatch(b *Builder, scope *Scope, loop *loopContext, id canon.ExprID) VarID {
	a := l.arena
	ty := a.Type(id)
	scrutinee := l.lowerExpr(b, scope, loop, a.MatchScrutinee(id))
	tree := a.DecisionTree(a.MatchTree(id))

	merge := b.NewBlock()
	resultParam := b.AddParam(merge, ty)

	l.emitDecisionNode(b, scope, loop, scrutinee, tree, a, id, merge)

	b.SetCurrent(merge)
	return resultParam
}

func (l *Lowerer) emitDecisionNode(b *Builder, scope *Scope, loop *loopContext, scrutinee VarID, node dtree.Node, a *canon.Arena, matchID canon.ExprID, merge BlockID) {
	switch n := node.(type) {
	case dtree.Fail:
		l.unsupported("non-exhaustive match", a.Span(matchID))
		val := l.unitValue(b)
		b.Terminate(Jump{Target: merge, Args: []VarID{val}})

	case dtree.Leaf:
		armScope := scope.Child()
		l.bindLeaf(b, armScope, scrutinee, n)
		body := a.MatchArmBody(matchID, n.ArmIndex)
		val := l.lowerExpr(b, armScope, loop, body)
		if !b.Terminated() {
			b.Terminate(Jump{Target: merge, Args: []VarID{val}})
		}

	case dtree.Guard:
		armScope := scope.Child()
		l.bindLeaf(b, armScope, scrutinee, dtree.Leaf{ArmIndex: n.ArmIndex, Bindings: n.Bindings})
		guardVal := l.lowerExpr(b, armScope, loop, canon.ExprID(n.Expr))
		passBlk, failBlk := b.NewBlock(), b.NewBlock()
		b.Terminate(Branch{Cond: guardVal, Then: passBlk, Else: failBlk})

		b.SetCurrent(passBlk)
		body := a.MatchArmBody(matchID, n.ArmIndex)
		val := l.lowerExpr(b, armScope, loop, body)
		if !b.Terminated() {
			b.Terminate(Jump{Target: merge, Args: []VarID{val}})
		}

		b.SetCurrent(failBlk)
		l.emitDecisionNode(b, scope, loop, scrutinee, n.OnFail, a, matchID, merge)

	case dtree.Switch:
		val := l.projectPath(b, scrutinee, n.Path)
		for _, edge := range n.Edges {
			edgeBlk := b.NewBlock()
			cont := b.NewBlock()
			cond := b.Let(pool.BoolIdx, PrimOp{Op: testOp(n.Kind), Args: []VarID{val, l.testLiteral(b, edge.Value)}})
			b.Terminate(Branch{Cond: cond, Then: edgeBlk, Else: cont})
			b.SetCurrent(edgeBlk)
			l.emitDecisionNode(b, scope, loop, scrutinee, edge.Subtree, a, matchID, merge)
			b.SetCurrent(cont)
		}
		if n.Default != nil {
			l.emitDecisionNode(b, scope, loop, scrutinee, n.Default, a, matchID, merge)
		} else {
			// A nil Default means the switch has edges only for the
			// constructors the matrix saw (dtree.Compile does not know
			// the scrutinee type's full constructor set). The remaining
			// block is reached when none of those edge tests succeeds;
			// it jumps to the merge block with a placeholder Unit. No
			// diagnostic is reported and no trap is emitted here: a
			// match that omits a constructor does not produce a
			// dtree.Fail node.
			v := l.unitValue(b)
			b.Terminate(Jump{Target: merge, Args: []VarID{v}})
		}
	}
}

func testOp(k dtree.TestKind) string {
	if k == dtree.TestEnumTag {
		return "tag=="
	}
	return "=="
}

func (l *Lowerer) testLiteral(b *Builder, v dtree.TestValue) VarID {
	switch v.Kind {
	case dtree.TestBool:
		return b.Let(pool.BoolIdx, Literal{Kind: LitBool, BoolVal: v.Bool})
	case dtree.TestInt:
		return b.Let(pool.IntIdx, Literal{Kind: LitInt, IntVal: v.Int})
	case dtree.TestStr:
		return b.Let(pool.StrIdx, Literal{Kind: LitStr, StrVal: v.Str})
	default:
		return b.Let(pool.IntIdx, Literal{Kind: LitInt, IntVal: int64(v.VariantIndex)})
	}
}

// projectPath walks path, emitting a Project per step.
func (l *Lowerer) projectPath(b *Builder, root VarID, path dtree.Path) VarID {
	cur := root
	for _, step := range path {
		dst := b.Fresh(pool.None)
		b.Emit(Project{Dst: dst, Ty: pool.None, Value: cur, Field: step.Index})
		cur = dst
	}
	return cur
}

func (l *Lowerer) bindLeaf(b *Builder, scope *Scope, scrutinee VarID, leaf dtree.Leaf) {
	for _, bind := range leaf.Bindings {
		v := l.projectPath(b, scrutinee, bind.Path)
		scope.Bind(bind.Name, v, false)
	}
}
