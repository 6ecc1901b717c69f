package domain

// Corpus is the ordered record collection extracted from one database.
// It is staging state: written once, handed to the engine, then discarded.
type Corpus struct {
	// DatabaseID identifies the database the records came from.
	DatabaseID string

	// Records are in table order, then column order, then harvest order.
	Records []Record

	// Columns holds one outcome per enumerated column, in the same order.
	Columns []ColumnOutcome
}

// Len returns the number of records.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}

// Dropped returns the number of values filtered out for the given reason.
func (c *Corpus) Dropped(reason DropReason) int {
	if c == nil {
		return 0
	}
	total := 0
	for i := range c.Columns {
		switch reason {
		case DropEmpty:
			total += c.Columns[i].DroppedEmpty
		case DropTooLong:
			total += c.Columns[i].DroppedTooLong
		}
	}
	return total
}

// FailedColumns returns the outcomes of columns that could not be harvested.
func (c *Corpus) FailedColumns() []ColumnOutcome {
	if c == nil {
		return nil
	}
	var failed []ColumnOutcome
	for i := range c.Columns {
		if c.Columns[i].Err != nil {
			failed = append(failed, c.Columns[i])
		}
	}
	return failed
}
