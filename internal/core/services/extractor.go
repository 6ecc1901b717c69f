package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/valueindex/internal/core/domain"
	"github.com/custodia-labs/valueindex/internal/core/ports/driven"
	"github.com/custodia-labs/valueindex/internal/logger"
)

// Extractor turns one database into a corpus of short distinct values.
//
// Tables are enumerated in catalog order, columns in catalog order, and
// values in the order the distinct query returns them. Each column is
// harvested independently: a failing column is logged and skipped.
type Extractor struct {
	filter     domain.ValueFilter
	skipTables []string
}

// NewExtractor creates an extractor from extract settings.
func NewExtractor(settings domain.ExtractSettings) *Extractor {
	return &Extractor{
		filter:     domain.NewValueFilter(settings.MaxValueLength),
		skipTables: settings.SkipTables,
	}
}

// Extract builds the corpus for databaseID from reader.
// It returns an error only when the schema cannot be enumerated or ctx is done.
func (e *Extractor) Extract(ctx context.Context, databaseID string, reader driven.DatabaseReader) (*domain.Corpus, error) {
	tables, err := reader.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list tables: %w", domain.ErrSchemaIntrospection, err)
	}

	corpus := &domain.Corpus{DatabaseID: databaseID}

	// Lowercased id prefixes already harvested, mapped to the column that owns them.
	// SQLite folds only ASCII case, so "Été" and "été" are distinct tables
	// that would otherwise share ids.
	owners := make(map[string]string)

	for _, table := range tables {
		if domain.IsBookkeepingTable(table.Name, e.skipTables) {
			logger.Debug("Skipping bookkeeping table %s", table.Name)
			continue
		}

		columns, err := reader.Columns(ctx, table.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: list columns of %s: %w", domain.ErrSchemaIntrospection, table.Name, err)
		}

		logger.Debug("Table %s: %d columns", table.Name, len(columns))
		tableErr := domain.ValidateName(table.Name)

		for _, column := range columns {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			outcome := domain.ColumnOutcome{Table: table.Name, Column: column.Name}
			nameErr := tableErr
			if nameErr == nil {
				nameErr = domain.ValidateName(column.Name)
			}
			if nameErr == nil {
				nameErr = claimPrefix(owners, table.Name, column.Name)
			}
			if nameErr != nil {
				outcome.Err = nameErr
				logger.Warn("Skipping column %s.%s: %v", table.Name, column.Name, nameErr)
				corpus.Columns = append(corpus.Columns, outcome)
				continue
			}

			values, err := reader.DistinctValues(ctx, table.Name, column.Name)
			if err != nil {
				outcome.Err = fmt.Errorf("%w: %s.%s: %w", domain.ErrColumnQuery, table.Name, column.Name, err)
				logger.Warn("Skipping column %s.%s: %v", table.Name, column.Name, err)
				corpus.Columns = append(corpus.Columns, outcome)
				continue
			}

			corpus.Records = e.assign(corpus.Records, &outcome, values)
			corpus.Columns = append(corpus.Columns, outcome)
		}
	}

	return corpus, nil
}

// claimPrefix reserves the lowercased id prefix of table.column, failing with
// ErrNameCollision if another column already produced it.
func claimPrefix(owners map[string]string, table, column string) error {
	prefix := strings.ToLower(table + domain.RecordSeparator + column + domain.RecordSeparator)
	if owner, taken := owners[prefix]; taken {
		return fmt.Errorf("%w: %s.%s and %s", domain.ErrNameCollision, table, column, owner)
	}
	owners[prefix] = table + "." + column
	return nil
}

// assign filters the harvested values of one column and appends a record
// for each survivor. The ordinal in the id is the value's position in the
// unfiltered harvest, so ordinals of kept values may have gaps.
func (e *Extractor) assign(records []domain.Record, outcome *domain.ColumnOutcome, values []string) []domain.Record {
	outcome.Harvested = len(values)

	for ordinal, raw := range values {
		value := e.filter.Normalise(raw)

		switch e.filter.Check(value) {
		case domain.DropEmpty:
			outcome.DroppedEmpty++
			continue
		case domain.DropTooLong:
			outcome.DroppedTooLong++
			continue
		}

		key := domain.RecordKey{Table: outcome.Table, Column: outcome.Column, Ordinal: ordinal}
		records = append(records, domain.Record{ID: key.ID(), Contents: value})
		outcome.Kept++
	}

	return records
}
