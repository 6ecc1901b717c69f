package services

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/valueindex/internal/core/domain"
	"github.com/custodia-labs/valueindex/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockReader implements driven.DatabaseReader over in-memory tables.
type mockReader struct {
	tables     []domain.Table
	columns    map[string][]domain.Column
	values     map[string][]string // keyed "table.column"
	tablesErr  error
	columnsErr map[string]error
	valuesErr  map[string]error
	queried    []string
	closed     bool
}

func newMockReader() *mockReader {
	return &mockReader{
		columns:    make(map[string][]domain.Column),
		values:     make(map[string][]string),
		columnsErr: make(map[string]error),
		valuesErr:  make(map[string]error),
	}
}

// addTable registers a table whose columns hold the given values, in order.
func (m *mockReader) addTable(name string, columns []string, values ...[]string) *mockReader {
	m.tables = append(m.tables, domain.Table{Name: name})
	for i, c := range columns {
		m.columns[name] = append(m.columns[name], domain.Column{Table: name, Name: c, Position: i})
		if i < len(values) {
			m.values[name+"."+c] = values[i]
		}
	}
	return m
}

func (m *mockReader) Tables(_ context.Context) ([]domain.Table, error) {
	if m.tablesErr != nil {
		return nil, m.tablesErr
	}
	return m.tables, nil
}

func (m *mockReader) Columns(_ context.Context, table string) ([]domain.Column, error) {
	if err := m.columnsErr[table]; err != nil {
		return nil, err
	}
	return m.columns[table], nil
}

func (m *mockReader) DistinctValues(_ context.Context, table, column string) ([]string, error) {
	key := table + "." + column
	m.queried = append(m.queried, key)
	if err := m.valuesErr[key]; err != nil {
		return nil, err
	}
	return m.values[key], nil
}

func (m *mockReader) Close() error {
	m.closed = true
	return nil
}

// mockOpener implements driven.DatabaseOpener.
type mockOpener struct {
	readers map[string]*mockReader // keyed by path
	err     error
	opened  []string
}

func (m *mockOpener) Open(_ context.Context, path string) (driven.DatabaseReader, error) {
	m.opened = append(m.opened, path)
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.readers[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// mockStager implements driven.Stager.
type mockStager struct {
	acquireErr error
	writeErr   error
	releaseErr error
	acquired   int
	stages     []*mockStage
}

func (m *mockStager) Acquire(_ context.Context) (driven.Stage, error) {
	if m.acquireErr != nil {
		return nil, m.acquireErr
	}
	m.acquired++
	st := &mockStage{stager: m}
	m.stages = append(m.stages, st)
	return st, nil
}

// released counts stages released at least once.
func (m *mockStager) released() int {
	n := 0
	for _, st := range m.stages {
		if st.releases > 0 {
			n++
		}
	}
	return n
}

// mockStage implements driven.Stage.
type mockStage struct {
	stager   *mockStager
	written  *domain.Corpus
	releases int
}

func (s *mockStage) Dir() string  { return "staging" }
func (s *mockStage) Path() string { return "staging/contents.json" }

func (s *mockStage) Write(_ context.Context, corpus *domain.Corpus) error {
	if s.stager.writeErr != nil {
		return s.stager.writeErr
	}
	s.written = corpus
	return nil
}

func (s *mockStage) Release() error {
	s.releases++
	return s.stager.releaseErr
}

// mockIndexer implements driven.IndexBuilder.
type mockIndexer struct {
	requests []driven.IndexRequest
	err      error
	failFor  map[string]error // keyed by OutputDir
}

func (m *mockIndexer) Build(_ context.Context, req driven.IndexRequest) error {
	m.requests = append(m.requests, req)
	if err := m.failFor[req.OutputDir]; err != nil {
		return err
	}
	return m.err
}

// mockMetrics implements driven.MetricsRecorder.
type mockMetrics struct {
	outcomes []domain.DatabaseOutcome
	indexed  []error
}

func (m *mockMetrics) ObserveDatabase(outcome domain.DatabaseOutcome) {
	m.outcomes = append(m.outcomes, outcome)
}

func (m *mockMetrics) ObserveIndexing(_ time.Duration, err error) {
	m.indexed = append(m.indexed, err)
}

// stepClock returns a clock advancing by one second per call.
func stepClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

var errBoom = errors.New("boom")
