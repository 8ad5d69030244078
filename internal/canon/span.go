package canon

// Span is a half-open byte range into the original source text, carried
// by every canonical node and instruction for diagnostics (§3.4, §3.6).
type Span struct {
	Start  uint32
	Length uint32
}

// Zero is the span used when no source location is available (e.g. a
// synthesized node introduced by lowering).
var Zero = Span{}

func (s Span) End() uint32 { return s.Start + s.Length }
