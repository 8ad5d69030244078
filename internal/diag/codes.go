package diag

// Error codes, per §6.3: E2xxx for type checking, E4xxx for ARC. The
// taxonomy is exactly the one spec.md names; codes not explicitly
// enumerated there are filled in from the error kinds §7 lists, in the
// teacher's PAR/MOD/TC-prefix numbering style (internal/errors/codes.go).
const (
	// Type checking (E2xxx)
	E2001TypeMismatch       = "E2001"
	E2002UnknownIdentifier  = "E2002"
	E2003ArityMismatch      = "E2003"
	E2004OccursCheck        = "E2004"
	E2005AmbiguousType      = "E2005"
	E2006NonExhaustiveMatch = "E2006"
	E2007RigidMismatch      = "E2007"
	E2008UnsatisfiedBound   = "E2008"
	E2009MissingAssocType   = "E2009"
	E2010CoherenceViolation = "E2010"
	E2015DefaultOrdering    = "E2015"
	E2017TooManyTypeArgs    = "E2017"

	// ARC (E4xxx)
	E4001UnsupportedExpr  = "E4001"
	E4002ClosureSelfCapture = "E4002"
	E4003ReuseInvariant   = "E4003"
)

// Info is structured metadata about an error code.
type Info struct {
	Code        string
	Phase       string
	Category    string
	Description string
}

// Registry maps every code above to its Info.
var Registry = map[string]Info{
	E2001TypeMismatch:       {E2001TypeMismatch, "infer", "type", "Type mismatch"},
	E2002UnknownIdentifier:  {E2002UnknownIdentifier, "infer", "scope", "Unknown identifier or field"},
	E2003ArityMismatch:      {E2003ArityMismatch, "infer", "arity", "Arity mismatch"},
	E2004OccursCheck:        {E2004OccursCheck, "infer", "unification", "Occurs check failed (infinite type)"},
	E2005AmbiguousType:      {E2005AmbiguousType, "infer", "defaulting", "Ambiguous type"},
	E2006NonExhaustiveMatch: {E2006NonExhaustiveMatch, "dtree", "pattern", "Non-exhaustive match"},
	E2007RigidMismatch:      {E2007RigidMismatch, "infer", "unification", "Rigid type variable mismatch"},
	E2008UnsatisfiedBound:   {E2008UnsatisfiedBound, "registry", "trait", "Unsatisfied trait bound"},
	E2009MissingAssocType:   {E2009MissingAssocType, "registry", "trait", "Missing associated type binding"},
	E2010CoherenceViolation: {E2010CoherenceViolation, "registry", "trait", "Coherence violation"},
	E2015DefaultOrdering:    {E2015DefaultOrdering, "registry", "trait", "Defaulted type parameter out of order"},
	E2017TooManyTypeArgs:    {E2017TooManyTypeArgs, "infer", "arity", "Too many type arguments"},

	E4001UnsupportedExpr:    {E4001UnsupportedExpr, "ssa", "lowering", "Unsupported expression kind"},
	E4002ClosureSelfCapture: {E4002ClosureSelfCapture, "ssa", "lowering", "Closure captures itself"},
	E4003ReuseInvariant:     {E4003ReuseInvariant, "arcopt", "reuse", "Reset/Reuse invariant violated"},
}

// Lookup returns the Info for a code.
func Lookup(code string) (Info, bool) {
	info, ok := Registry[code]
	return info, ok
}

// IsTypeError reports whether code belongs to the E2xxx family.
func IsTypeError(code string) bool {
	info, ok := Lookup(code)
	return ok && len(code) > 0 && code[0] == 'E' && info.Phase != "ssa" && info.Phase != "arcopt"
}

// IsARCError reports whether code belongs to the E4xxx family.
func IsARCError(code string) bool {
	info, ok := Lookup(code)
	return ok && (info.Phase == "ssa" || info.Phase == "arcopt")
}
