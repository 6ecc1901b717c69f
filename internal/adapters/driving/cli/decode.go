package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/valueindex/internal/core/domain"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <record-id>...",
	Short: "Show the table, column and ordinal of record ids",
	Long: `Decodes record ids of the form table-**-column-**-ordinal, as returned
by a search over a value index, back into the table, column and ordinal
they were built from.`,
	Args:             cobra.MinimumNArgs(1),
	PersistentPreRun: noSetup,
	RunE:             runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	for _, id := range args {
		key, err := domain.ParseRecordID(id)
		if err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}
		cmd.Printf("%s\t%s\n", id, key)
	}
	return nil
}
