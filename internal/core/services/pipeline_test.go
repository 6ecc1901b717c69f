package services

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/valueindex/internal/adapters/driven/indexer/pyserini"
	"github.com/custodia-labs/valueindex/internal/adapters/driven/staging"
	"github.com/custodia-labs/valueindex/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/valueindex/internal/core/domain"
	"github.com/custodia-labs/valueindex/internal/core/ports/driving"
)

// copyEngine stands in for pyserini: it copies the staged corpus into the index directory.
const copyEngine = `while [ $# -gt 0 ]; do
  case "$1" in
    --input) in="$2"; shift ;;
    --index) out="$2"; shift ;;
  esac
  shift
done
mkdir -p "$out" && cp "$in/contents.json" "$out/contents.json"`

type pipeline struct {
	root       string
	dest       string
	stagingDir string
	builder    *Builder
}

// newPipeline wires the real sqlite, staging and indexer adapters around a shell engine.
func newPipeline(t *testing.T, engine string) *pipeline {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	settings := domain.DefaultSettings()
	settings.Staging.Dir = filepath.Join(t.TempDir(), "temp_db_index")
	settings.Indexer.Command = "sh"
	settings.Indexer.Args = []string{"-c", engine, "engine"}

	stager, err := staging.NewStager(settings.Staging)
	require.NoError(t, err)

	return &pipeline{
		root:       t.TempDir(),
		dest:       filepath.Join(t.TempDir(), "indexes"),
		stagingDir: settings.Staging.Dir,
		builder: NewBuilder(
			sqlite.NewOpener(settings.Extract.SkipTables),
			NewExtractor(settings.Extract),
			stager,
			pyserini.New(settings.Indexer),
			settings.Indexer.Threads,
		),
	}
}

// addDatabase creates <root>/<id>/<id>.sqlite by running stmts.
func (p *pipeline) addDatabase(t *testing.T, id string, stmts ...string) {
	t.Helper()
	dir := filepath.Join(p.root, id)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	db, err := sql.Open("sqlite", filepath.Join(dir, id+".sqlite"))
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
}

func (p *pipeline) buildAll(t *testing.T) *domain.RunReport {
	t.Helper()
	o := NewOrchestrator(p.builder, ".sqlite", fixedRunID)
	report, err := o.BuildAll(context.Background(), p.root, p.dest, driving.Observer{})
	require.NoError(t, err)
	return report
}

func TestPipeline_CountryExample(t *testing.T) {
	p := newPipeline(t, copyEngine)
	p.addDatabase(t, "world",
		`CREATE TABLE country (code TEXT, name TEXT)`,
		`INSERT INTO country VALUES ('US', 'United States'), ('FR', 'France')`,
	)
	require.NoError(t, os.WriteFile(filepath.Join(p.root, "tables.json"), []byte("[]"), 0o644))

	report := p.buildAll(t)

	require.Len(t, report.Databases, 1)
	require.NoError(t, report.Err())
	assert.Equal(t, 4, report.Records())

	data, err := os.ReadFile(filepath.Join(p.dest, "world", "contents.json"))
	require.NoError(t, err)
	assert.Equal(t, `[
  {
    "id": "country-**-code-**-0",
    "contents": "US"
  },
  {
    "id": "country-**-code-**-1",
    "contents": "FR"
  },
  {
    "id": "country-**-name-**-0",
    "contents": "United States"
  },
  {
    "id": "country-**-name-**-1",
    "contents": "France"
  }
]`, string(data))

	assert.NoFileExists(t, filepath.Join(p.stagingDir, "contents.json"))
}

func TestPipeline_FailedEngineLeavesNoArtifact(t *testing.T) {
	p := newPipeline(t, `echo "lucene exploded" >&2; exit 2`)
	p.addDatabase(t, "world",
		`CREATE TABLE country (code TEXT)`,
		`INSERT INTO country VALUES ('US')`,
	)

	report := p.buildAll(t)

	require.Len(t, report.Databases, 1)
	outcome := report.Databases[0]
	assert.Equal(t, domain.StageIndex, outcome.Stage)
	assert.ErrorIs(t, outcome.Err, domain.ErrIndexerFailed)
	assert.Contains(t, outcome.Err.Error(), "lucene exploded")
	assert.NoError(t, outcome.CleanupErr)
	assert.NoFileExists(t, filepath.Join(p.stagingDir, "contents.json"))
}

func TestPipeline_CaseCollidingTablesStillIndex(t *testing.T) {
	p := newPipeline(t, copyEngine)
	p.addDatabase(t, "intl",
		`CREATE TABLE "Été" (code TEXT)`,
		`CREATE TABLE "été" (code TEXT)`,
		`CREATE TABLE good (code TEXT)`,
		`INSERT INTO "Été" VALUES ('FR')`,
		`INSERT INTO "été" VALUES ('BE')`,
		`INSERT INTO good VALUES ('US')`,
	)

	report := p.buildAll(t)

	require.Len(t, report.Databases, 1)
	outcome := report.Databases[0]
	require.True(t, outcome.OK(), "unexpected failure: %v", outcome.Err)
	assert.Equal(t, 2, outcome.Records)
	assert.Equal(t, 1, outcome.FailedColumns())

	data, err := os.ReadFile(filepath.Join(p.dest, "intl", "contents.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id": "good-**-code-**-0"`)
	assert.Contains(t, string(data), `"id": "\u00e9t\u00e9-**-code-**-0"`)
	assert.Contains(t, string(data), `"contents": "FR"`)
	assert.NotContains(t, string(data), `"contents": "BE"`)
}

func TestPipeline_OneBadDatabaseDoesNotStopTheRun(t *testing.T) {
	p := newPipeline(t, copyEngine)
	p.addDatabase(t, "a", `CREATE TABLE t (c TEXT)`, `INSERT INTO t VALUES ('x')`)
	require.NoError(t, os.MkdirAll(filepath.Join(p.root, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(p.root, "b", "b.sqlite"), []byte("not a database"), 0o644))
	p.addDatabase(t, "c", `CREATE TABLE t (c TEXT)`, `INSERT INTO t VALUES ('y')`)

	report := p.buildAll(t)

	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, 1, report.Failed())
	assert.FileExists(t, filepath.Join(p.dest, "a", "contents.json"))
	assert.FileExists(t, filepath.Join(p.dest, "c", "contents.json"))
	assert.NoDirExists(t, filepath.Join(p.dest, "b"))
}
