package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbt245/scrape-from-bhancockio/internal/classify"
	"github.com/pbt245/scrape-from-bhancockio/internal/config"
	"github.com/pbt245/scrape-from-bhancockio/internal/crawl"
	"github.com/pbt245/scrape-from-bhancockio/internal/export"
	"github.com/pbt245/scrape-from-bhancockio/internal/extract"
	"github.com/pbt245/scrape-from-bhancockio/internal/llm"
	"github.com/pbt245/scrape-from-bhancockio/internal/match"
	"github.com/pbt245/scrape-from-bhancockio/internal/observability"
	"github.com/pbt245/scrape-from-bhancockio/internal/pipeline"
)

var (
	flagConfig   string
	flagURL      string
	flagSelector string
	flagJD       string
	flagAPIKey   string
	flagWorkers  int
	flagPages    int
	flagBrowser  bool
	flagVerbose  bool
	flagCSVOut   string
	flagJSONOut  string
)

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Path to config file (default: cvscout.yaml in working directory)")
	rootCmd.Flags().StringVar(&flagURL, "url", "", "Scrape this URL instead of the configured primary source")
	rootCmd.Flags().StringVar(&flagSelector, "selector", "", "CSS selector for candidate blocks (used with --url; defaults to body)")
	rootCmd.Flags().StringVar(&flagJD, "jd", "", "Path to job description file (default: job_description.txt if present)")
	rootCmd.Flags().StringVar(&flagAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	rootCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Number of concurrent candidate workers (overrides config)")
	rootCmd.Flags().IntVar(&flagPages, "pages", 0, "Maximum pages to scrape (overrides config)")
	rootCmd.Flags().BoolVar(&flagBrowser, "browser", false, "Render pages in a headless browser for JS-heavy sites")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.Flags().StringVar(&flagCSVOut, "csv-out", "", "CSV output path (overrides config)")
	rootCmd.Flags().StringVar(&flagJSONOut, "json-out", "", "JSON output path (overrides config)")
}

func runScrape(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)

	apiKey := flagAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key)")
	}

	logger, err := newLogger(flagVerbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	llmConfig := llm.DefaultConfig()
	llmConfig.Temperature = cfg.Temperature
	client, err := llm.NewClient(ctx, llmConfig, apiKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	sourceURL, selector := resolveSource(cfg)
	logger.Info("scraping source",
		zap.String("url", sourceURL),
		zap.String("selector", selector),
		zap.Int("page_limit", cfg.PageLimit))

	fetchOpts := crawl.DefaultOptions()
	fetchOpts.UseBrowser = cfg.UseBrowser
	fetcher := crawl.NewFetcher(fetchOpts)

	blocks, err := fetcher.Fetch(ctx, sourceURL, selector, cfg.PageLimit)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		logger.Warn("no candidate blocks found, nothing to do")
		return nil
	}
	logger.Info("fetched candidate blocks", zap.Int("count", len(blocks)))

	jobDescription := loadJobDescription(cfg, logger)

	vocab := cfg.Vocabularies()
	runner := pipeline.New(
		extract.New(client, vocab),
		classify.New(client, vocab),
		match.New(client, vocab),
		logger,
	)

	records, summary, runErr := runner.Run(ctx, blocks, pipeline.Options{
		JobDescription: jobDescription,
		Workers:        cfg.Workers,
	})

	// The summary is reported even when the run aborted.
	printer := observability.NewPrinter(os.Stdout)
	printer.PrintSummary(summary.Attempted, summary.Extracted, summary.Dropped, summary.Exported)

	if runErr != nil {
		// Abort without touching output files from previous runs.
		return runErr
	}

	if len(records) == 0 {
		logger.Warn("no candidates survived processing, outputs not written")
		return nil
	}

	if err := export.WriteCSVFile(cfg.OutputCSV, records); err != nil {
		return err
	}
	if err := export.WriteJSONFile(cfg.OutputJSON, records); err != nil {
		return err
	}
	logger.Info("exports written",
		zap.String("csv", cfg.OutputCSV),
		zap.String("json", cfg.OutputJSON))

	printer.PrintTopCandidates(records)

	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	if flagPages > 0 {
		cfg.PageLimit = flagPages
	}
	if flagBrowser {
		cfg.UseBrowser = true
	}
	if flagCSVOut != "" {
		cfg.OutputCSV = flagCSVOut
	}
	if flagJSONOut != "" {
		cfg.OutputJSON = flagJSONOut
	}
	if flagJD != "" {
		cfg.JDFile = flagJD
	}
}

// resolveSource picks the explicit --url/--selector pair when given,
// otherwise the configured primary source.
func resolveSource(cfg *config.Config) (string, string) {
	if flagURL != "" {
		selector := flagSelector
		if selector == "" {
			selector = "body"
		}
		return flagURL, selector
	}
	src := cfg.Sources[cfg.PrimarySource]
	return src.BaseURL, src.CSSSelector
}

// loadJobDescription reads the JD file when present. A missing implicit
// file just disables the matching stage.
func loadJobDescription(cfg *config.Config, logger *zap.Logger) string {
	data, err := os.ReadFile(cfg.JDFile)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read job description file", zap.String("path", cfg.JDFile), zap.Error(err))
		} else {
			logger.Info("no job description file found, skipping JD matching", zap.String("path", cfg.JDFile))
		}
		return ""
	}
	logger.Info("loaded job description for matching", zap.String("path", cfg.JDFile))
	return string(data)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	return cfg.Build()
}
