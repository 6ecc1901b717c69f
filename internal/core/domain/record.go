package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// RecordSeparator joins table, column and ordinal in a record id.
// It is chosen to be unlikely inside SQL identifiers.
const RecordSeparator = "-**-"

// Record is the {id, contents} unit consumed by the search engine.
// The JSON field names are fixed by the engine's collection format.
type Record struct {
	ID       string `json:"id"`
	Contents string `json:"contents"`
}

// RecordKey is the decoded form of a record id.
type RecordKey struct {
	Table   string
	Column  string
	Ordinal int
}

// ID returns the lowercased record id for the key.
func (k RecordKey) ID() string {
	return NewRecordID(k.Table, k.Column, k.Ordinal)
}

// String implements fmt.Stringer.
func (k RecordKey) String() string {
	return fmt.Sprintf("%s.%s[%d]", k.Table, k.Column, k.Ordinal)
}

// NewRecordID builds the record id for a value at ordinal within table.column.
// The ordinal is the value's position in the unfiltered harvest order.
func NewRecordID(table, column string, ordinal int) string {
	return strings.ToLower(table + RecordSeparator + column + RecordSeparator + strconv.Itoa(ordinal))
}

// ParseRecordID decodes a record id back into its table, column and ordinal.
// Table and column come back lowercased, as they were encoded.
func ParseRecordID(id string) (RecordKey, error) {
	parts := strings.Split(id, RecordSeparator)
	if len(parts) != 3 {
		return RecordKey{}, fmt.Errorf("%w: %q has %d parts", ErrInvalidRecordID, id, len(parts))
	}
	if parts[0] == "" || parts[1] == "" {
		return RecordKey{}, fmt.Errorf("%w: %q has an empty name", ErrInvalidRecordID, id)
	}
	ordinal, err := strconv.Atoi(parts[2])
	if err != nil || ordinal < 0 {
		return RecordKey{}, fmt.Errorf("%w: %q has a bad ordinal", ErrInvalidRecordID, id)
	}
	return RecordKey{Table: parts[0], Column: parts[1], Ordinal: ordinal}, nil
}

// ValidateName rejects identifiers that would make record ids ambiguous.
func ValidateName(name string) error {
	if strings.Contains(name, RecordSeparator) {
		return fmt.Errorf("%w: %q", ErrSeparatorInName, name)
	}
	return nil
}
