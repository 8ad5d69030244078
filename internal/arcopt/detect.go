// Package arcopt implements Reset/Reuse detection (§4.6) and expansion
// (§4.7): after RC insertion, pair an RcDec with a later same-type
// Construct so the backend can reuse the decremented cell's storage
// in place when it turns out to be uniquely owned.
//
// Grounded on internal/arcclass (this module's own ARC classifier,
// itself a direct port of the original Rust classifier) combined with
// a straightforward two-bitset forward scan, the shape the teacher
// uses for its own single-pass peephole rewrites over its typed-core
// IR in internal/eval.
package arcopt

import (
	"github.com/sunholo/corec/internal/arcclass"
	"github.com/sunholo/corec/internal/ssa"
)

// Pair is one detected (RcDec, Construct) pair within a single block.
type Pair struct {
	Block     ssa.BlockID
	DecIdx    int
	ConstrIdx int
	Var       ssa.VarID
	Dst       ssa.VarID
	Token     ssa.VarID
}

// DetectAndRewrite scans every block of f for valid Reset/Reuse pairs
// (§4.6 "Pair validity") and rewrites each one in place: the RcDec
// becomes a Reset, the Construct becomes a Reuse sharing a freshly
// allocated reuse-token variable of the same type.
func DetectAndRewrite(f *ssa.Func, classifier *arcclass.Classifier) []Pair {
	var pairs []Pair
	for bi := range f.Blocks {
		pairs = append(pairs, detectBlock(f, ssa.BlockID(bi), classifier)...)
	}
	return pairs
}

func detectBlock(f *ssa.Func, blockID ssa.BlockID, classifier *arcclass.Classifier) []Pair {
	blk := &f.Blocks[blockID]
	body := blk.Body
	pairedDec := make([]bool, len(body))
	pairedConstr := make([]bool, len(body))
	var pairs []Pair

	for i, instr := range body {
		dec, ok := instr.(ssa.RcDec)
		if !ok || pairedDec[i] {
			continue
		}
		x := dec.Var
		xTy := f.VarTypes[x]

		for j := i + 1; j < len(body); j++ {
			cand := body[j]
			if construct, ok := cand.(ssa.Construct); ok && !pairedConstr[j] {
				if construct.Ty == xTy && classifier.NeedsRC(construct.Ty) && !containsVar(construct.Args, x) {
					token := f.Fresh(xTy)
					pairedDec[i] = true
					pairedConstr[j] = true
					pairs = append(pairs, Pair{
						Block: blockID, DecIdx: i, ConstrIdx: j,
						Var: x, Dst: construct.Dst, Token: token,
					})
					body[i] = ssa.Reset{Var: x, Token: token}
					body[j] = ssa.Reuse{Token: token, Dst: construct.Dst, Ty: construct.Ty, Ctor: construct.Ctor, Args: construct.Args}
					break
				}
			}
			if usesVar(cand, x) {
				// An intervening use that isn't the matching Construct
				// invalidates this RcDec as a candidate (§4.6 condition
				// 3) — stop scanning forward for it.
				break
			}
		}
	}
	return pairs
}

func containsVar(args []ssa.VarID, x ssa.VarID) bool {
	for _, a := range args {
		if a == x {
			return true
		}
	}
	return false
}
