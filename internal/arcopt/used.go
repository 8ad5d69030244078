package arcopt

import "github.com/sunholo/corec/internal/ssa"

// usedVars returns the variables instr reads, excluding any variable it
// defines (its Dst, or Reset's Token, or Reuse's Dst) — used by
// detection's "no intervening use" check (§4.6 condition 3).
func usedVars(instr ssa.Instr) []ssa.VarID {
	switch v := instr.(type) {
	case ssa.Let:
		switch val := v.Value.(type) {
		case ssa.VarRef:
			return []ssa.VarID{val.Var}
		case ssa.PrimOp:
			return val.Args
		default:
			return nil
		}
	case ssa.Apply:
		return v.Args
	case ssa.Project:
		return []ssa.VarID{v.Value}
	case ssa.Construct:
		return v.Args
	case ssa.RcInc:
		return []ssa.VarID{v.Var}
	case ssa.RcDec:
		return []ssa.VarID{v.Var}
	case ssa.IsShared:
		return []ssa.VarID{v.Var}
	case ssa.Reset:
		return []ssa.VarID{v.Var}
	case ssa.Reuse:
		return append([]ssa.VarID{v.Token}, v.Args...)
	case ssa.Set:
		return []ssa.VarID{v.Var, v.Value}
	case ssa.SetTag:
		return []ssa.VarID{v.Var}
	default:
		return nil
	}
}

func usesVar(instr ssa.Instr, x ssa.VarID) bool {
	for _, v := range usedVars(instr) {
		if v == x {
			return true
		}
	}
	return false
}
