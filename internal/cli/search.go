package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchMinScore float64
	searchLimit    int
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List indexed content at or above a credibility score",
	Long: `Search queries the content index for rows at or above the minimum
score, ordered by score then date descending.

Example:
  veridex search --min-score 0.7
  veridex search --min-score 0.5 --limit 50`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0.7, "minimum credibility score")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum rows returned")
	searchCmd.Flags().StringVar(&indexPath, "index", "", "content index path (default: veridex.db)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	pipeline, closeStore, err := openPipeline(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	rows, err := pipeline.SearchHighTrust(searchMinScore, searchLimit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if len(rows) == 0 {
		fmt.Println("No matching content.")
		return nil
	}

	for _, row := range rows {
		date := "-"
		if row.Date != nil {
			date = row.Date.Format("2006-01-02")
		}
		fmt.Printf("%.3f  %-6s  %s  %s\n", row.Total, row.TrustLevel, date, row.URL)
		if row.Title != "" {
			fmt.Printf("              %s\n", row.Title)
		}
	}

	return nil
}
