package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/valueindex/internal/core/domain"
)

func sampleReport() *domain.RunReport {
	return &domain.RunReport{
		RunID: "run-42",
		Databases: []domain.DatabaseOutcome{
			{Database: domain.DatabaseRef{ID: "academic"}, Records: 120},
			{
				Database: domain.DatabaseRef{ID: "car_1"},
				Stage:    domain.StageIndex,
				Err:      domain.ErrIndexerFailed,
			},
			{
				Database: domain.DatabaseRef{ID: "world"},
				Records:  30,
				Columns:  []domain.ColumnOutcome{{Table: "t", Column: "c", Err: domain.ErrColumnQuery}},
			},
		},
		Skipped: []string{"tables.json"},
	}
}

func TestBuildCmd_Use(t *testing.T) {
	assert.Equal(t, "build <db-root> <index-root>", buildCmd.Use)
}

func TestBuildCmd_Short(t *testing.T) {
	assert.Equal(t, "Build one value index per database", buildCmd.Short)
}

func TestBuildCmd_RequiresTwoArgs(t *testing.T) {
	cleanup := setupServices(&mockIndexOrchestrator{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"build", "dbs"})

	err := rootCmd.Execute()

	assert.Error(t, err)
}

func TestBuildCmd_BuildsAll(t *testing.T) {
	orch := &mockIndexOrchestrator{report: sampleReport()}
	cleanup := setupServices(orch)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"build", "dbs", "indexes"})

	err := rootCmd.Execute()

	require.NoError(t, err, "failed databases do not fail the command")
	assert.Equal(t, 1, orch.builtAll)
	out := buf.String()
	assert.Contains(t, out, "Building indexes for dbs...")
	assert.Contains(t, out, "academic: 120 records indexed")
	assert.Contains(t, out, "car_1: failed (index)")
	assert.Contains(t, out, "Run run-42")
	assert.Contains(t, out, "2 indexed")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "skipped: tables.json")
}

func TestBuildCmd_Only(t *testing.T) {
	orch := &mockIndexOrchestrator{}
	cleanup := setupServices(orch)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"build", "dbs", "indexes", "--only", "world"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Zero(t, orch.builtAll)
	assert.Equal(t, []string{"world"}, orch.builtOne)
	assert.Contains(t, buf.String(), "world: 2 records indexed")
}

func TestBuildCmd_OnlyUnknownDatabase(t *testing.T) {
	cleanup := setupServices(&mockIndexOrchestrator{oneErr: domain.ErrNotFound})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"build", "dbs", "indexes", "--only", "nope"})

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuildCmd_UnusableRoot(t *testing.T) {
	cleanup := setupServices(&mockIndexOrchestrator{allErr: errRootUnreadable})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"build", "dbs", "indexes"})

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "build failed")
}

func TestBuildCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupServices(nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"build", "dbs", "indexes"})

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "index service not configured")
}

func TestBuildCmd_ExportsMetrics(t *testing.T) {
	cleanup := setupServices(&mockIndexOrchestrator{})
	defer cleanup()

	settings := domain.DefaultSettings()
	settings.Metrics.Textfile = "/tmp/valueindex.prom"
	settingsService = &mockSettingsService{settings: settings}
	exporter := &mockMetricsExporter{}
	metricsExporter = exporter

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"build", "dbs", "indexes"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, []string{"/tmp/valueindex.prom"}, exporter.paths)
}

func TestBuildCmd_NoMetricsWithoutTextfile(t *testing.T) {
	cleanup := setupServices(&mockIndexOrchestrator{})
	defer cleanup()

	settingsService = &mockSettingsService{settings: domain.DefaultSettings()}
	exporter := &mockMetricsExporter{}
	metricsExporter = exporter

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"build", "dbs", "indexes"})

	require.NoError(t, rootCmd.Execute())
	assert.Empty(t, exporter.paths)
}

func TestRenderSummary_Plain(t *testing.T) {
	out := renderSummary(sampleReport(), false)

	assert.Equal(t, "Run run-42\n"+
		"  2 indexed  1 failed  150 records\n"+
		"  skipped: tables.json\n"+
		"  car_1 [index]: indexing engine failed\n"+
		"  world: 1 columns skipped\n", out)
}

func TestRenderSummary_Styled(t *testing.T) {
	out := renderSummary(sampleReport(), true)

	assert.Contains(t, out, "Run run-42")
	assert.Contains(t, out, "car_1 [index]")
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, isTerminal(new(bytes.Buffer)))
}
