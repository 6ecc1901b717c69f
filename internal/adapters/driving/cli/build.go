package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/valueindex/internal/core/domain"
	"github.com/custodia-labs/valueindex/internal/core/ports/driving"
	"github.com/custodia-labs/valueindex/internal/logger"
)

var buildOnly string

var buildCmd = &cobra.Command{
	Use:   "build <db-root> <index-root>",
	Short: "Build one value index per database",
	Long: `Builds a value index for every database directory under db-root.
Each database <db-root>/<id>/<id>.sqlite gets its index at <index-root>/<id>.
A failing database is reported and skipped; the remaining databases are
still indexed.`,
	Args: cobra.ExactArgs(2),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildOnly, "only", "", "build only the database with this id")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if indexOrchestrator == nil {
		return errors.New("index service not configured")
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	root, dest := args[0], args[1]
	defer exportMetrics()

	if buildOnly != "" {
		cmd.Printf("Building index for %s...\n", buildOnly)
		outcome, err := indexOrchestrator.BuildOne(ctx, root, dest, buildOnly)
		if err != nil {
			return fmt.Errorf("build failed: %w", err)
		}
		printOutcome(cmd, outcome)
		return nil
	}

	cmd.Printf("Building indexes for %s...\n", root)
	report, err := indexOrchestrator.BuildAll(ctx, root, dest, driving.Observer{
		Finished: func(outcome domain.DatabaseOutcome) { printOutcome(cmd, outcome) },
	})
	if report != nil {
		cmd.Print(renderSummary(report, isTerminal(cmd.OutOrStdout())))
	}
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return nil
}

func printOutcome(cmd *cobra.Command, outcome domain.DatabaseOutcome) {
	if outcome.OK() {
		cmd.Printf("  %s: %d records indexed\n", outcome.Database.ID, outcome.Records)
		return
	}
	cmd.Printf("  %s: failed (%s)\n", outcome.Database.ID, outcome.Stage)
}

// exportMetrics writes the metrics textfile if one is configured.
func exportMetrics() {
	if metricsExporter == nil || settingsService == nil {
		return
	}
	settings, err := settingsService.Get()
	if err != nil || settings.Metrics.Textfile == "" {
		return
	}
	if err := metricsExporter.WriteTextfile(settings.Metrics.Textfile); err != nil {
		logger.Warn("Failed to export metrics: %v", err)
		return
	}
	logger.Debug("Metrics written to %s", settings.Metrics.Textfile)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
