package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the vector index from stored records",
	Long: `Re-chunk and re-embed every record already under the storage directory.
No catalogue requests are made. Records without stored metadata are skipped.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	svc, err := ingestService(cmd.Context())
	if err != nil {
		return err
	}

	stats, err := svc.Reindex(cmd.Context())
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	printStats(cmd, stats)
	return nil
}
