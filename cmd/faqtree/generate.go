package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/convexo/faqtree/internal/config"
	"github.com/convexo/faqtree/internal/database"
	applog "github.com/convexo/faqtree/internal/log"
	"github.com/convexo/faqtree/internal/model"
	"github.com/convexo/faqtree/internal/pipeline"
	"github.com/convexo/faqtree/internal/report"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [start-url...]",
		Short: "Crawl a website and generate a chatbot dialogue tree",
		Long: `Generate crawls a website starting from the given URL, extracts FAQ
question/answer pairs and navigation structure, and assembles them into
a chatbot dialogue tree.

Examples:
  # Generate a tree for a single site
  faqtree generate https://shop.example.com/faq

  # Generate trees for several sites concurrently
  faqtree generate https://a.example.com https://b.example.com

  # Read start URLs from a file, one per line
  faqtree generate --list sites.txt

  # Keep only billing questions and write Markdown
  faqtree generate --category billing --markdown https://shop.example.com/faq

  # Write the tree to a file instead of stdout
  faqtree generate -o tree.json https://shop.example.com/faq

Configuration file (.faqtree) example:
  defaults:
    maxDepth: 1
  sites:
    https://shop.example.com/faq:
      categories:
        - billing
        - shipping`,
		Args: cobra.ArbitraryArgs,
		RunE: runGenerateCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum crawl recursion depth (0 fetches only the start URL)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each page fetch")
	cmd.Flags().StringSliceP("category", "C", nil,
		"Keep only questions containing this keyword (repeatable)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")

	// Batch flags
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of sites processed in parallel")
	cmd.Flags().StringP("list", "l", "",
		"Read start URLs from a file, one per line")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .faqtree in current or home directory)")

	// Output flags
	cmd.Flags().BoolP("json", "j", false,
		"Output compact JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output a Markdown summary (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the document to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().String("db-dir", "",
		"Directory for the SQLite store (default: XDG data directory)")
	cmd.Flags().Bool("no-db", false,
		"Skip persisting generated documents to the local store")

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := applog.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runGenerate(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Categories, err = cmd.Flags().GetStringSlice("category")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Collect start URLs from positional arguments and the optional list file
	cfg.StartURLs = args

	listPath, err := cmd.Flags().GetString("list")
	if err != nil {
		return nil, err
	}
	if listPath != "" {
		listed, err := readStartURLList(listPath)
		if err != nil {
			return nil, err
		}
		cfg.StartURLs = append(cfg.StartURLs, listed...)
	}

	return cfg, nil
}

// readStartURLList reads start URLs from a file, one per line.
// Blank lines and lines starting with '#' are skipped.
func readStartURLList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list: %w", err)
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
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}

	return urls, nil
}

// runGenerate executes the generation run.
func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting generation",
		"sites", cfg.StartURLs,
		"maxDepth", cfg.MaxDepth,
		"concurrency", cfg.Concurrency,
		"saveToDB", cfg.SaveToDB,
	)

	var store *database.Store
	if cfg.SaveToDB {
		var err error
		store, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	client := &http.Client{Timeout: cfg.Timeout}

	if len(cfg.StartURLs) > 1 && cfg.Concurrency > 1 {
		return runBatchGenerate(ctx, cfg, client, store, logger)
	}

	return runSequentialGenerate(ctx, cfg, client, store, logger)
}

// runSequentialGenerate processes start URLs one at a time.
func runSequentialGenerate(ctx context.Context, cfg *config.Config, client *http.Client, store *database.Store, logger *slog.Logger) error {
	for _, startURL := range cfg.StartURLs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		siteConfig := cfg.SiteConfigs.GetSiteConfig(startURL)
		p := createPipelineForSite(client, logger, cfg, siteConfig, store)

		build := pipeline.NewBuild(startURL)

		fmt.Fprintf(os.Stderr, "Generating tree for %s...\n", startURL)
		startTime := time.Now()

		if err := p.Execute(ctx, build); err != nil {
			logger.Error("generation failed", "site", startURL, "error", err)
			fmt.Fprintf(os.Stderr, "Generation error for %s: %v\n", startURL, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Fprintf(os.Stderr, "Generation completed in %s\n\n", elapsed.Round(time.Millisecond))

		if err := outputDocument(cfg, build.Document); err != nil {
			logger.Error("output failed", "site", startURL, "error", err)
		}
	}

	return nil
}

// runBatchGenerate processes multiple start URLs concurrently using the
// BatchProcessor.
func runBatchGenerate(ctx context.Context, cfg *config.Config, client *http.Client, store *database.Store, logger *slog.Logger) error {
	fmt.Fprintf(os.Stderr, "Starting batch generation of %d sites (concurrency: %d)...\n\n",
		len(cfg.StartURLs), cfg.Concurrency)

	startTime := time.Now()

	// Batch mode applies the config file defaults to every site; per-site
	// overrides would need per-site pipeline creation.
	if len(cfg.SiteConfigs.Sites) > 0 {
		logger.Warn("batch processing uses default site config only; site-specific configs are ignored",
			"siteCount", len(cfg.SiteConfigs.Sites))
		fmt.Fprintf(os.Stderr, "Warning: Site-specific configurations are ignored in batch mode. Use sequential mode (--concurrency 1) to apply per-site settings.\n\n")
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return createPipelineForSite(client, logger, cfg, cfg.SiteConfigs.Defaults, store)
		},
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.StartURLs, func(build *pipeline.Build, index int) {
		mu.Lock()
		defer mu.Unlock()

		if build.Err != nil {
			fmt.Fprintf(os.Stderr, "[%d/%d] Generation failed: %s: %v\n",
				index+1, len(cfg.StartURLs), build.StartURL, build.Err)
			return
		}

		fmt.Fprintf(os.Stderr, "[%d/%d] Generation completed: %s\n",
			index+1, len(cfg.StartURLs), build.StartURL)

		if err := outputDocument(cfg, build.Document); err != nil {
			logger.Error("output failed", "site", build.StartURL, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Fprintf(os.Stderr, "\nBatch generation completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// createPipelineForSite creates a pipeline with the given configuration.
func createPipelineForSite(client *http.Client, logger *slog.Logger, cfg *config.Config, siteConfig config.SiteConfig, store *database.Store) *pipeline.Pipeline {
	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
	}

	// Site-specific settings override the global flags
	maxDepth := cfg.MaxDepth
	if siteConfig.MaxDepth > 0 {
		maxDepth = siteConfig.MaxDepth
	}
	userAgent := cfg.UserAgent
	if siteConfig.UserAgent != "" {
		userAgent = siteConfig.UserAgent
	}
	categories := cfg.Categories
	if len(siteConfig.Categories) > 0 {
		categories = siteConfig.Categories
	}

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineMaxDepth(maxDepth),
		pipeline.WithPipelineUserAgent(userAgent),
		pipeline.WithPipelineMaxBodySize(cfg.MaxBodySize),
		pipeline.WithPipelineLogger(logger),
	}
	if len(categories) > 0 {
		configOpts = append(configOpts, pipeline.WithPipelineCategories(categories))
	}
	if store != nil {
		configOpts = append(configOpts, pipeline.WithPipelineStore(store))
	}

	return pipeline.DefaultPipeline(client, pipelineOpts, configOpts...)
}

// outputDocument renders the document in the requested format.
func outputDocument(cfg *config.Config, doc *model.TreeDocument) error {
	if doc == nil {
		return pipeline.ErrNoDocument
	}

	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(doc)
		return err
	}

	// Compact JSON output
	if cfg.JSONReport {
		writer := report.NewJSONWriter(output)
		_, err := writer.Write(doc)
		return err
	}

	// Pretty JSON (default)
	writer := report.NewJSONWriter(output, report.WithPrettyPrint())
	_, err := writer.Write(doc)
	return err
}
