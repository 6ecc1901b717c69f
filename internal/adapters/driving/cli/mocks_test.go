package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/valueindex/internal/core/domain"
	"github.com/custodia-labs/valueindex/internal/core/ports/driven"
	"github.com/custodia-labs/valueindex/internal/core/ports/driving"
)

// mockIndexOrchestrator implements driving.IndexOrchestrator for testing.
type mockIndexOrchestrator struct {
	report   *domain.RunReport
	allErr   error
	oneErr   error
	builtAll int
	builtOne []string
}

func (m *mockIndexOrchestrator) BuildAll(
	_ context.Context,
	root, dest string,
	observer driving.Observer,
) (*domain.RunReport, error) {
	m.builtAll++
	if m.allErr != nil {
		return nil, m.allErr
	}
	report := m.report
	if report == nil {
		report = &domain.RunReport{RunID: "run-1", Root: root, Dest: dest}
	}
	for _, outcome := range report.Databases {
		observer.NotifyStarted(outcome.Database)
		observer.NotifyFinished(outcome)
	}
	return report, nil
}

func (m *mockIndexOrchestrator) BuildOne(_ context.Context, _, dest, id string) (domain.DatabaseOutcome, error) {
	m.builtOne = append(m.builtOne, id)
	if m.oneErr != nil {
		return domain.DatabaseOutcome{}, m.oneErr
	}
	return domain.DatabaseOutcome{
		Database: domain.DatabaseRef{ID: id, IndexPath: dest + "/" + id},
		Records:  2,
	}, nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.Settings
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	s := m.settings
	return &s, nil
}

// mockMetricsExporter implements MetricsExporter for testing.
type mockMetricsExporter struct {
	paths []string
	err   error
}

func (m *mockMetricsExporter) WriteTextfile(path string) error {
	m.paths = append(m.paths, path)
	return m.err
}

// mockWatcher implements driven.DatabaseWatcher, emitting ids then closing.
type mockWatcher struct {
	ids    []string
	errs   []error
	closed bool
}

func (m *mockWatcher) Watch(_ context.Context) (<-chan string, <-chan error, error) {
	ids := make(chan string, len(m.ids))
	errs := make(chan error, len(m.errs))
	for _, err := range m.errs {
		errs <- err
	}
	for _, id := range m.ids {
		ids <- id
	}
	close(errs)
	close(ids)
	return ids, errs, nil
}

func (m *mockWatcher) Close() error {
	m.closed = true
	return nil
}

var _ driven.DatabaseWatcher = (*mockWatcher)(nil)

// setupServices installs mocks and restores the previous services afterwards.
func setupServices(orch driving.IndexOrchestrator) func() {
	oldOrch, oldSettings, oldMetrics, oldWatcher := indexOrchestrator, settingsService, metricsExporter, watcherFactory
	oldOnly, oldInitial := buildOnly, watchInitial
	indexOrchestrator = orch
	settingsService = nil
	metricsExporter = nil
	watcherFactory = nil
	return func() {
		indexOrchestrator, settingsService, metricsExporter, watcherFactory = oldOrch, oldSettings, oldMetrics, oldWatcher
		buildOnly, watchInitial = oldOnly, oldInitial
		rootCmd.SetArgs(nil)
	}
}

var errRootUnreadable = errors.New("listing database root: permission denied")
