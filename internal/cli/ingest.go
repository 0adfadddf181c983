package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veridex/internal/cache"
	"github.com/ppiankov/veridex/internal/fetch"
	"github.com/ppiankov/veridex/internal/ingest"
	"github.com/ppiankov/veridex/internal/model"
	"github.com/ppiankov/veridex/internal/score"
)

var (
	ingestTitle      string
	ingestTopic      string
	ingestDate       string
	ingestSourceType string
	ingestAuthor     string
	ingestChannel    string
	ingestVerified   bool
	ingestLicense    string
	transcriptFile   string
	ingestTimeout    time.Duration
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <url>",
	Short: "Fetch, score, and index a single URL",
	Long: `Ingest fetches a page (robots-aware, cached), extracts its visible
text, scores it for credibility, and indexes it by URL. Re-ingesting an
already-indexed URL is a no-op.

High- and medium-trust content is additionally published as a Markdown
note when a vault directory is configured.

Example:
  veridex ingest https://www.theiet.org/wiring-regulations --topic regulation
  veridex ingest https://youtu.be/abc --transcript-file talk.txt --verified
  veridex ingest https://example.com/guide --vault ~/vault --llm --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "content title (default: page <title>)")
	ingestCmd.Flags().StringVar(&ingestTopic, "topic", "fundamental", "topic type (regulation, standard, fundamental, tool, practice)")
	ingestCmd.Flags().StringVar(&ingestDate, "date", "", "publication date (YYYY-MM-DD, default: Last-Modified header)")
	ingestCmd.Flags().StringVar(&ingestSourceType, "source-type", "", "source tag (youtube, archive, arxiv, institutional, publisher)")
	ingestCmd.Flags().StringVar(&ingestAuthor, "author", "", "content author")
	ingestCmd.Flags().StringVar(&ingestChannel, "channel", "", "publishing channel")
	ingestCmd.Flags().BoolVar(&ingestVerified, "verified", false, "source is verified")
	ingestCmd.Flags().StringVar(&ingestLicense, "license", "", "content license")
	ingestCmd.Flags().StringVar(&transcriptFile, "transcript-file", "", "file with a transcript to ingest alongside the page text")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 2*time.Minute, "overall ingest timeout")

	addStorageFlags(ingestCmd)
	addLLMFlags(ingestCmd)
}

func addStorageFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&indexPath, "index", "", "content index path (default: veridex.db)")
	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "ledger path (default: veridex-ledger.jsonl)")
	cmd.Flags().StringVar(&vaultDir, "vault", "", "vault directory for Markdown notes (empty disables)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable fetch cache (force fresh fetch)")
	cmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")
}

func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "append an AI summary section to vault notes (never affects scoring)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "model for note summaries")
	cmd.Flags().StringVar(&llmBaseURL, "llm-base-url", "", "OpenAI-compatible API base URL (e.g. a local Ollama server)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	cfg := buildConfig()

	pipeline, closeStore, err := openPipeline(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	req, err := buildRequest(ctx, cfg, url)
	if err != nil {
		return err
	}

	content := pipeline.Ingest(ctx, req)
	if content == nil {
		fmt.Println("Not ingested (duplicate or failed; see trial log on stderr).")
		return nil
	}

	printContent(content)
	return nil
}

// buildRequest fetches the page and assembles the pipeline request
func buildRequest(ctx context.Context, cfg *model.Config, url string) (ingest.Request, error) {
	var fetchCache cache.Cache
	if cfg.Cache.Enabled {
		fetchCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	fetcher := fetch.NewFetcher(cfg.HTTP, fetchCache)

	if verbose {
		fmt.Fprintf(os.Stderr, "Fetching: %s\n", url)
	}

	result, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return ingest.Request{}, fmt.Errorf("fetch: %w", err)
	}
	if verbose && result.FromCache {
		fmt.Fprintln(os.Stderr, "Served from cache")
	}

	title := ingestTitle
	if title == "" {
		title = result.Title
	}

	date := result.LastModified
	if ingestDate != "" {
		parsed, err := time.Parse("2006-01-02", ingestDate)
		if err != nil {
			return ingest.Request{}, fmt.Errorf("parse date: %w", err)
		}
		date = &parsed
	}

	var transcript string
	if transcriptFile != "" {
		data, err := os.ReadFile(transcriptFile)
		if err != nil {
			return ingest.Request{}, fmt.Errorf("read transcript: %w", err)
		}
		transcript = string(data)
	}

	return ingest.Request{
		URL:        url,
		Title:      title,
		Text:       result.Text,
		Transcript: transcript,
		Date:       date,
		Topic:      model.ParseTopicType(ingestTopic),
		Metadata: score.Metadata{
			SourceType: ingestSourceType,
			Author:     ingestAuthor,
			Channel:    ingestChannel,
			Verified:   ingestVerified,
			License:    ingestLicense,
		},
	}, nil
}

func printContent(content *model.IngestContent) {
	fmt.Printf("Ingested: %s\n", content.Source.URL)
	fmt.Printf("  id:          %s\n", content.ID)
	fmt.Printf("  title:       %s\n", content.Source.Title)
	fmt.Printf("  domain:      %s\n", content.Source.Domain)
	fmt.Printf("  credibility: %.3f (%s)\n", content.Score.Total, content.Score.TrustLevel)
	fmt.Printf("    source     %.3f\n", content.Score.SourceScore)
	fmt.Printf("    transcript %.3f\n", content.Score.TranscriptQuality)
	fmt.Printf("    consensus  %.3f\n", content.Score.ConsensusScore)
	fmt.Printf("    citations  %.3f\n", content.Score.CitationDensity)
	fmt.Printf("    freshness  %.3f\n", content.Score.FreshnessScore)
	if content.VaultNote != "" {
		fmt.Printf("  vault note:  %s\n", content.VaultNote)
	}
	if len(content.KeyTerms) > 0 {
		fmt.Printf("  key terms:   %v\n", content.KeyTerms)
	}
}
