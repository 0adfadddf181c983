package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veridex/internal/cache"
	"github.com/ppiankov/veridex/internal/fetch"
	"github.com/ppiankov/veridex/internal/ingest"
	"github.com/ppiankov/veridex/internal/model"
	"github.com/ppiankov/veridex/internal/worker"
)

var (
	concurrency  int
	batchTimeout time.Duration
	batchTopic   string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Ingest multiple URLs from a file in parallel",
	Long: `Batch reads URLs from a file (one per line, # comments allowed) and
ingests them concurrently with per-domain rate limiting. Duplicate URLs
are skipped; failures are logged and do not stop the batch.

Example:
  veridex batch urls.txt
  veridex batch urls.txt --concurrency 8 --topic regulation --vault ~/vault`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchTopic, "topic", "fundamental", "topic type applied to every URL")

	addStorageFlags(batchCmd)
	addLLMFlags(batchCmd)
}

// ingestJob fetches and ingests one URL
type ingestJob struct {
	url      string
	topic    model.TopicType
	fetcher  *fetch.Fetcher
	pipeline *ingest.Pipeline
	limiter  *worker.Limiter
}

// ingestResult reports one batch outcome
type ingestResult struct {
	url      string
	ingested bool
	err      error
}

func (r *ingestResult) GetError() error { return r.err }

func (j *ingestJob) Execute(ctx context.Context) worker.Result {
	if err := j.limiter.Wait(ctx, j.url); err != nil {
		return &ingestResult{url: j.url, err: err}
	}

	fetched, err := j.fetcher.Fetch(ctx, j.url)
	if err != nil {
		return &ingestResult{url: j.url, err: err}
	}

	content := j.pipeline.Ingest(ctx, ingest.Request{
		URL:   j.url,
		Title: fetched.Title,
		Text:  fetched.Text,
		Date:  fetched.LastModified,
		Topic: j.topic,
	})

	return &ingestResult{url: j.url, ingested: content != nil}
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	urls, err := readURLFile(file)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", file)
	}

	cfg := buildConfig()

	pipeline, closeStore, err := openPipeline(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var fetchCache cache.Cache
	if cfg.Cache.Enabled {
		fetchCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}
	fetcher := fetch.NewFetcher(cfg.HTTP, fetchCache)
	limiter := worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst)
	topic := model.ParseTopicType(batchTopic)

	if verbose {
		fmt.Fprintf(os.Stderr, "Batch: %d URLs, %d workers\n", len(urls), concurrency)
	}

	jobs := make([]worker.Job, len(urls))
	for i, url := range urls {
		jobs[i] = &ingestJob{
			url:      url,
			topic:    topic,
			fetcher:  fetcher,
			pipeline: pipeline,
			limiter:  limiter,
		}
	}

	results := worker.NewPool(concurrency).Run(ctx, jobs)

	var ingested, skipped, failed int
	for _, res := range results {
		if res == nil {
			skipped++ // cancelled before starting
			continue
		}
		r := res.(*ingestResult)
		switch {
		case r.err != nil:
			failed++
			fmt.Fprintf(os.Stderr, "failed  %s: %v\n", r.url, r.err)
		case r.ingested:
			ingested++
		default:
			skipped++
		}
	}

	fmt.Printf("Batch complete: %d ingested, %d skipped, %d failed (of %d)\n",
		ingested, skipped, failed, len(urls))
	return nil
}

// readURLFile reads one URL per line, ignoring blanks and # comments
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url file: %w", err)
	}

	return urls, nil
}
