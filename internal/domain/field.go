package domain

import (
	"strconv"
	"strings"
)

// NumericKind selects the parser applied to a numeric column.
type NumericKind int

const (
	// KindFloat parses values as float64. Every column in the standard
	// IEM schema uses this kind.
	KindFloat NumericKind = iota
	// KindInt parses values as int.
	KindInt
)

// FieldState classifies the outcome of normalizing a raw token.
type FieldState int

const (
	// FieldValue means the token parsed successfully; Value holds the result.
	FieldValue FieldState = iota
	// FieldMissing means the token was a recognized missing-value sentinel.
	FieldMissing
	// FieldTrace means the token was the trace marker "T"; Value is 0.
	FieldTrace
	// FieldMalformed means a non-sentinel token failed to parse. The raw
	// string is preserved for audit; no error surfaces.
	FieldMalformed
)

// NormalizedField is the result of normalizing one raw scalar token.
// Value is non-nil only for FieldValue and FieldTrace states.
type NormalizedField struct {
	Raw   string
	State FieldState
	Value any // float64 or int depending on NumericKind
}

// IsTrace reports whether the field carried the trace marker.
func (f NormalizedField) IsTrace() bool { return f.State == FieldTrace }

// ValueOrNil returns the parsed value, or nil when the field is missing
// or malformed. Suitable for direct JSON embedding.
func (f NormalizedField) ValueOrNil() any {
	if f.State == FieldValue || f.State == FieldTrace {
		return f.Value
	}
	return nil
}

// IsMissing reports whether a raw token is one of the missing-value
// sentinels used in IEM/ASOS CSV exports: empty, "M", "NA", or "None"
// after trimming surrounding whitespace.
func IsMissing(raw string) bool {
	switch strings.TrimSpace(raw) {
	case "", "M", "NA", "None":
		return true
	}
	return false
}

// isTraceToken reports whether a raw token is the trace marker "T",
// used for precipitation and snow depth amounts too small to measure.
func isTraceToken(raw string) bool {
	return strings.TrimSpace(raw) == "T"
}

// Normalize converts a raw scalar token into a NormalizedField per the
// IEM missing/trace conventions:
//
//	M, NA, None, ""  → FieldMissing, nil value
//	T                → FieldTrace, zero value
//	parseable        → FieldValue with the parsed value
//	anything else    → FieldMalformed, nil value, raw preserved
//
// Normalize never fails; a malformed field degrades to "value unknown"
// rather than aborting row processing.
func Normalize(raw string, kind NumericKind) NormalizedField {
	if IsMissing(raw) {
		return NormalizedField{Raw: raw, State: FieldMissing}
	}

	trimmed := strings.TrimSpace(raw)
	if isTraceToken(trimmed) {
		return NormalizedField{Raw: raw, State: FieldTrace, Value: zeroFor(kind)}
	}

	value, ok := parseNumeric(trimmed, kind)
	if !ok {
		return NormalizedField{Raw: raw, State: FieldMalformed}
	}
	return NormalizedField{Raw: raw, State: FieldValue, Value: value}
}

// zeroFor returns the zero value for a kind. Falls back to the untyped
// integer 0 for kinds this package does not know, so trace handling can
// never fail.
func zeroFor(kind NumericKind) any {
	switch kind {
	case KindFloat:
		return 0.0
	case KindInt:
		return 0
	default:
		return 0
	}
}

func parseNumeric(s string, kind NumericKind) (any, bool) {
	switch kind {
	case KindInt:
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, false
		}
		return v, true
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		return v, true
	}
}
