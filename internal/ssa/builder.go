package ssa

import "github.com/sunholo/corec/internal/pool"

// Builder accumulates a single Func under construction: the current
// block, the next fresh block/variable IDs, and the per-variable type
// table (§4.5: "a mutable builder (current block, next block ID,
// per-variable types)").
type Builder struct {
	f   *Func
	cur BlockID
}

// NewBuilder starts a function with one empty entry block (block 0)
// and no variables; parameters are added afterwards with AddParam.
func NewBuilder() *Builder {
	b := &Builder{f: &Func{}}
	b.NewBlock()
	return b
}

// Func returns the function built so far. Callers should only read it
// after lowering completes.
func (b *Builder) Func() *Func { return b.f }

// Fresh allocates a new SSA variable of type ty, recording its type in
// the function's dense variable-type array.
func (b *Builder) Fresh(ty pool.Idx) VarID {
	id := VarID(len(b.f.VarTypes))
	b.f.VarTypes = append(b.f.VarTypes, ty)
	return id
}

// NewBlock allocates a fresh, empty, unterminated block and returns its
// ID. It does not switch the builder's current block.
func (b *Builder) NewBlock() BlockID {
	id := BlockID(len(b.f.Blocks))
	b.f.Blocks = append(b.f.Blocks, Block{ID: id})
	return id
}

// SetCurrent switches the block subsequent Emit/Terminate calls target.
func (b *Builder) SetCurrent(id BlockID) { b.cur = id }

// Current returns the block subsequent Emit/Terminate calls target.
func (b *Builder) Current() BlockID { return b.cur }

// AddParam appends a block parameter to block id and returns its fresh
// variable ID.
func (b *Builder) AddParam(id BlockID, ty pool.Idx) VarID {
	v := b.Fresh(ty)
	blk := &b.f.Blocks[id]
	blk.Params = append(blk.Params, v)
	return v
}

// Terminated reports whether the current block already has a
// terminator — §4.5's "termination handling": once true, no further
// Emit/Terminate calls should be issued against it.
func (b *Builder) Terminated() bool {
	return b.f.Blocks[b.cur].Term != nil
}

// Emit appends instr to the current block's body. No-op if the current
// block is already terminated (a nested break/return already ended it).
func (b *Builder) Emit(instr Instr) {
	if b.Terminated() {
		return
	}
	blk := &b.f.Blocks[b.cur]
	blk.Body = append(blk.Body, instr)
}

// Terminate sets the current block's terminator, unless it already has
// one.
func (b *Builder) Terminate(term Terminator) {
	if b.Terminated() {
		return
	}
	blk := &b.f.Blocks[b.cur]
	blk.Term = term
}

// Let emits a Let instruction and returns its fresh destination.
func (b *Builder) Let(ty pool.Idx, value Value) VarID {
	dst := b.Fresh(ty)
	b.Emit(Let{Dst: dst, Ty: ty, Value: value})
	return dst
}
