package pyserini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/custodia-labs/valueindex/internal/core/domain"
	"github.com/custodia-labs/valueindex/internal/core/ports/driven"
	"github.com/custodia-labs/valueindex/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driven.IndexBuilder = (*Indexer)(nil)

// stderrTailSize bounds how much engine stderr is kept for error reports.
const stderrTailSize = 2048

// Indexer invokes `python -m pyserini.index.lucene` (or a configured
// equivalent) over a staged JsonCollection directory.
type Indexer struct {
	settings domain.IndexerSettings
}

// New creates an indexer from indexer settings.
func New(settings domain.IndexerSettings) *Indexer {
	return &Indexer{settings: settings}
}

// Command returns the executable and the full argument list for req.
func (ix *Indexer) Command(req driven.IndexRequest) (string, []string) {
	args := make([]string, 0, len(ix.settings.Args)+13)
	args = append(args, ix.settings.Args...)
	args = append(args,
		"--collection", ix.settings.Collection,
		"--input", req.InputDir,
		"--index", req.OutputDir,
		"--generator", ix.settings.Generator,
		"--threads", strconv.Itoa(req.Threads),
	)
	if ix.settings.StorePositions {
		args = append(args, "--storePositions")
	}
	if ix.settings.StoreDocvectors {
		args = append(args, "--storeDocvectors")
	}
	if ix.settings.StoreRaw {
		args = append(args, "--storeRaw")
	}
	return ix.settings.Command, args
}

// Build runs the engine and waits for it to exit.
func (ix *Indexer) Build(ctx context.Context, req driven.IndexRequest) error {
	if req.InputDir == "" || req.OutputDir == "" {
		return fmt.Errorf("%w: index input and output directories are required", domain.ErrInvalidInput)
	}
	if req.Threads < 1 {
		return fmt.Errorf("%w: threads must be positive, got %d", domain.ErrInvalidInput, req.Threads)
	}

	name, args := ix.Command(req)
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexerUnavailable, err)
	}

	stderr := &tailBuffer{limit: stderrTailSize}
	cmd := exec.CommandContext(ctx, name, args...)
	if logger.IsVerbose() {
		cmd.Stdout = &lineLogger{prefix: "indexer: "}
	}
	cmd.Stderr = stderr

	logger.Debug("Running %s %s", name, strings.Join(args, " "))
	err := cmd.Run()
	if err == nil {
		logger.Debug("Indexer exited with status 0 for %s", req.OutputDir)
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexerFailed, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: %s exited with status %d: %s",
			domain.ErrIndexerFailed, name, exitErr.ExitCode(), stderr.String())
	}
	return fmt.Errorf("%w: starting %s: %w", domain.ErrIndexerFailed, name, err)
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = b.buf[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	s := strings.TrimSpace(string(b.buf))
	if s == "" {
		return "no stderr output"
	}
	return s
}

// lineLogger forwards engine output to the debug log one line at a time.
type lineLogger struct {
	prefix  string
	pending []byte
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.pending = append(l.pending, p...)
	for {
		i := bytes.IndexByte(l.pending, '\n')
		if i < 0 {
			break
		}
		if line := strings.TrimSpace(string(l.pending[:i])); line != "" {
			logger.Debug("%s%s", l.prefix, line)
		}
		l.pending = l.pending[i+1:]
	}
	return len(p), nil
}
