package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/ppiankov/veridex/internal/ingest"
	"github.com/ppiankov/veridex/internal/llm"
	"github.com/ppiankov/veridex/internal/model"
)

// Flags shared by the ingest and batch commands
var (
	indexPath   string
	ledgerPath  string
	vaultDir    string
	llmEnabled  bool
	llmModel    string
	llmBaseURL  string
	noCache     bool
	insecureTLS bool
)

// buildConfig merges defaults with config-file values and shared flags
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("index.path"); v != "" {
		cfg.Index.Path = v
	}
	if v := viper.GetString("ledger.path"); v != "" {
		cfg.Ledger.Path = v
	}
	if v := viper.GetString("vault.dir"); v != "" {
		cfg.Vault.Dir = v
	}
	if v := viper.GetInt("concurrency.workers"); v > 0 {
		cfg.Concurrency.Workers = v
	}
	if v := viper.GetFloat64("concurrency.requests_per_second"); v > 0 {
		cfg.Concurrency.RequestsPerSecond = v
	}

	if indexPath != "" {
		cfg.Index.Path = indexPath
	}
	if ledgerPath != "" {
		cfg.Ledger.Path = ledgerPath
	}
	if vaultDir != "" {
		cfg.Vault.Dir = vaultDir
	}
	cfg.Cache.Enabled = !noCache
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.Output.Verbose = verbose

	if llmEnabled {
		cfg.LLM.Model = llmModel
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		cfg.LLM.BaseURL = llmBaseURL
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}

	return cfg
}

// openPipeline builds the full pipeline from config. The returned
// closer releases the index connection.
func openPipeline(cfg *model.Config) (*ingest.Pipeline, func() error, error) {
	store, err := ingest.OpenStore(cfg.Index.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open index: %w", err)
	}

	opts := []ingest.Option{
		ingest.WithVault(cfg.Vault.Dir),
		ingest.WithTrialLogger(ingest.NewTrialLogger(os.Stderr)),
	}

	if llmEnabled {
		summarizer, err := llm.NewSummarizer(cfg.LLM)
		if err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("configure llm: %w", err)
		}
		opts = append(opts, ingest.WithSummarizer(summarizer))
	}

	pipeline := ingest.NewPipeline(store, ingest.NewLedger(cfg.Ledger.Path), cfg.Weights, opts...)
	return pipeline, store.Close, nil
}
