// Package diag is the structured diagnostic sink the core reports
// errors through (§6.1, §6.3, §7). Adapted from the teacher's
// internal/errors/report.go: a Report carries a code, phase, message,
// optional span and structured data, wrapped as an error via
// ReportError so it survives errors.As unwrapping.
package diag

import (
	"encoding/json"
	"errors"

	"github.com/sunholo/corec/internal/canon"
)

// Report is the canonical structured error type for the core.
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *canon.Span    `json:"span,omitempty"`
	Labels  []Label        `json:"labels,omitempty"`
	Notes   []string       `json:"notes,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// Label attaches a message to a secondary span, e.g. pointing at the
// earlier of two conflicting impls in a coherence violation.
type Label struct {
	Span    canon.Span `json:"span"`
	Message string     `json:"message"`
}

// Fix is a suggested remedy: either free text, or a concrete
// replacement of a span with new text (§6.1).
type Fix struct {
	Suggestion  string      `json:"suggestion"`
	ReplaceSpan *canon.Span `json:"replace_span,omitempty"`
	Replacement string      `json:"replacement,omitempty"`
}

// ReportError wraps a Report as an error so structured reports survive
// errors.As() unwrapping across phase boundaries.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as an error. Call sites propagate errors
// produced by the core's phases as WrapReport(report).
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// New builds a Report for code in phase, defaulting Schema to the
// core's schema string.
func New(code, phase, message string) *Report {
	return &Report{Schema: SchemaV1, Code: code, Phase: phase, Message: message}
}

// WithSpan attaches a primary span.
func (r *Report) WithSpan(s canon.Span) *Report {
	r.Span = &s
	return r
}

// WithData merges k into the report's structured data.
func (r *Report) WithData(k string, v any) *Report {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[k] = v
	return r
}

// WithLabel appends a secondary (span, message) label.
func (r *Report) WithLabel(s canon.Span, message string) *Report {
	r.Labels = append(r.Labels, Label{Span: s, Message: message})
	return r
}

// WithNote appends a free-text note.
func (r *Report) WithNote(note string) *Report {
	r.Notes = append(r.Notes, note)
	return r
}

// WithFix attaches a suggested fix.
func (r *Report) WithFix(f Fix) *Report {
	r.Fix = &f
	return r
}

// SchemaV1 identifies the wire shape of Report for consumers of the
// diagnostic-sink contract.
const SchemaV1 = "corec.diagnostic/v1"

// ToJSON renders the report as JSON, compact or indented.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
