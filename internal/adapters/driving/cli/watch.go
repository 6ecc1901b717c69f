package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/valueindex/internal/core/ports/driving"
	"github.com/custodia-labs/valueindex/internal/logger"
)

var watchInitial bool

var watchCmd = &cobra.Command{
	Use:   "watch <db-root> <index-root>",
	Short: "Rebuild indexes as databases change",
	Long: `Watches db-root and rebuilds the index of a database whenever its
database file is created or written. Every rebuild is a full pass over
that database. Stops on interrupt.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchInitial, "initial", true, "build every database before watching")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if indexOrchestrator == nil {
		return errors.New("index service not configured")
	}
	if watcherFactory == nil {
		return errors.New("watcher not configured")
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	root, dest := args[0], args[1]

	if watchInitial {
		report, err := indexOrchestrator.BuildAll(ctx, root, dest, driving.Observer{})
		if err != nil {
			return fmt.Errorf("initial build failed: %w", err)
		}
		cmd.Print(renderSummary(report, isTerminal(cmd.OutOrStdout())))
	}

	w, err := watcherFactory(root)
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	defer w.Close()

	ids, errs, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Printf("Watching %s for changes...\n", root)
	for {
		select {
		case id, ok := <-ids:
			if !ok {
				return nil
			}
			cmd.Printf("Rebuilding %s...\n", id)
			outcome, err := indexOrchestrator.BuildOne(ctx, root, dest, id)
			if err != nil {
				logger.Warn("Rebuild of %s skipped: %v", id, err)
				continue
			}
			printOutcome(cmd, outcome)
			exportMetrics()
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("Watcher error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}
