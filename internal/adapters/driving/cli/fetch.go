package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/willa/internal/core/ports/driving"
)

var (
	fetchTindID string
	fetchQuery  string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Ingest catalogue records",
	Long: `Fetch records from the TIND catalogue, store their metadata and files
under the storage directory, and add their text to the vector index.

With --tind-id a single record is ingested and any failure is fatal.
With --query every search hit is ingested; failed records are logged and
counted without stopping the run.`,
	Example: `  willa fetch --tind-id 103806
  willa fetch --query '336__a:"Audio"'`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchTindID, "tind-id", "", "catalogue ID of one record")
	fetchCmd.Flags().StringVar(&fetchQuery, "query", "", "catalogue search query")
	fetchCmd.MarkFlagsMutuallyExclusive("tind-id", "query")
	fetchCmd.MarkFlagsOneRequired("tind-id", "query")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	svc, err := ingestService(cmd.Context())
	if err != nil {
		return err
	}

	var stats *driving.IngestStats
	if fetchTindID != "" {
		stats, err = svc.FetchOne(cmd.Context(), fetchTindID)
	} else {
		stats, err = svc.FetchAllFromSearch(cmd.Context(), fetchQuery)
	}
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	printStats(cmd, stats)
	return nil
}

func printStats(cmd *cobra.Command, stats *driving.IngestStats) {
	if stats == nil {
		stats = &driving.IngestStats{}
	}
	cmd.Printf("Ingested %d record(s): %d file(s), %d chunk(s)\n", stats.Records, stats.Files, stats.Chunks)
	if stats.Failed > 0 {
		cmd.Printf("%d record(s) failed; run with --verbose for details\n", stats.Failed)
	}
}
