package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate content index statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&indexPath, "index", "", "content index path (default: veridex.db)")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	pipeline, closeStore, err := openPipeline(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	stats, err := pipeline.Stats()
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	fmt.Printf("Total content:    %d\n", stats.TotalContent)
	fmt.Printf("High trust:       %d\n", stats.HighTrustCount)
	fmt.Printf("With transcript:  %d\n", stats.WithTranscriptCount)
	fmt.Printf("Average score:    %.3f\n", stats.AverageScore)

	return nil
}
