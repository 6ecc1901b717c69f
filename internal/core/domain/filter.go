package domain

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxValueLength is the longest value, in characters, kept as a record.
const DefaultMaxValueLength = 25

// DropReason explains why a harvested value was not emitted.
type DropReason string

// Drop reasons.
const (
	// DropNone means the value is kept.
	DropNone DropReason = ""

	// DropEmpty means the value is empty after trimming.
	DropEmpty DropReason = "empty"

	// DropTooLong means the value exceeds the maximum length after trimming.
	DropTooLong DropReason = "too_long"
)

// ValueFilter keeps short, non-empty values: 0 < length <= MaxLength.
// Long values are typically free text and are poor lexical anchors.
type ValueFilter struct {
	// MaxLength is the inclusive upper bound, in characters.
	MaxLength int
}

// NewValueFilter returns a filter with the given bound, or the default bound if max < 1.
func NewValueFilter(maxLength int) ValueFilter {
	if maxLength < 1 {
		maxLength = DefaultMaxValueLength
	}
	return ValueFilter{MaxLength: maxLength}
}

// Normalise trims leading and trailing whitespace from a raw value.
func (f ValueFilter) Normalise(raw string) string {
	return strings.TrimSpace(raw)
}

// Check returns the drop reason for an already trimmed value.
// Length is counted in characters, not bytes.
func (f ValueFilter) Check(value string) DropReason {
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		return DropEmpty
	case n > f.MaxLength:
		return DropTooLong
	default:
		return DropNone
	}
}

// Keep reports whether an already trimmed value survives the filter.
func (f ValueFilter) Keep(value string) bool {
	return f.Check(value) == DropNone
}
