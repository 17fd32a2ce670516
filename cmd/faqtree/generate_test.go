package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/convexo/faqtree/internal/config"
	"github.com/convexo/faqtree/internal/model"
	"github.com/convexo/faqtree/internal/tree"
)

// TestNewGenerateCmd tests the generate command creation.
func TestNewGenerateCmd(t *testing.T) {
	t.Parallel()

	cmd := NewGenerateCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "generate [start-url...]" {
			t.Errorf("expected use 'generate [start-url...]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has depth flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("depth")
		if flag == nil {
			t.Fatal("expected depth flag")
		}
		if flag.Shorthand != "d" {
			t.Errorf("expected shorthand 'd', got %q", flag.Shorthand)
		}
	})

	t.Run("has timeout flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("timeout")
		if flag == nil {
			t.Fatal("expected timeout flag")
		}
		if flag.Shorthand != "t" {
			t.Errorf("expected shorthand 't', got %q", flag.Shorthand)
		}
	})

	t.Run("has category flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("category")
		if flag == nil {
			t.Fatal("expected category flag")
		}
		if flag.Shorthand != "C" {
			t.Errorf("expected shorthand 'C', got %q", flag.Shorthand)
		}
	})

	t.Run("has concurrency flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("concurrency")
		if flag == nil {
			t.Fatal("expected concurrency flag")
		}
		if flag.Shorthand != "b" {
			t.Errorf("expected shorthand 'b', got %q", flag.Shorthand)
		}
	})

	t.Run("has list flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("list")
		if flag == nil {
			t.Fatal("expected list flag")
		}
		if flag.Shorthand != "l" {
			t.Errorf("expected shorthand 'l', got %q", flag.Shorthand)
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})

	t.Run("has json and markdown flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("json") == nil {
			t.Error("expected json flag")
		}
		if cmd.Flags().Lookup("markdown") == nil {
			t.Error("expected markdown flag")
		}
	})

	t.Run("has persistence flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("db-dir") == nil {
			t.Error("expected db-dir flag")
		}
		if cmd.Flags().Lookup("no-db") == nil {
			t.Error("expected no-db flag")
		}
	})
}

// TestBuildConfig tests config construction from flags.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults from flags", func(t *testing.T) {
		t.Parallel()

		cmd := NewGenerateCmd()
		cfg, err := buildConfig(cmd, []string{"https://example.com/faq"})
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}

		if len(cfg.StartURLs) != 1 || cfg.StartURLs[0] != "https://example.com/faq" {
			t.Errorf("StartURLs = %v", cfg.StartURLs)
		}
		if cfg.MaxDepth != config.DefaultMaxDepth {
			t.Errorf("MaxDepth = %d, want %d", cfg.MaxDepth, config.DefaultMaxDepth)
		}
		if cfg.UserAgent != config.DefaultUserAgent {
			t.Errorf("UserAgent = %q, want %q", cfg.UserAgent, config.DefaultUserAgent)
		}
		if !cfg.SaveToDB {
			t.Error("SaveToDB must default to true")
		}
		if cfg.DBDir == "" {
			t.Error("DBDir must default to the XDG data directory")
		}
	})

	t.Run("flag overrides", func(t *testing.T) {
		t.Parallel()

		cmd := NewGenerateCmd()
		mustSetFlag(t, cmd, "depth", "2")
		mustSetFlag(t, cmd, "category", "billing")
		mustSetFlag(t, cmd, "no-db", "true")
		mustSetFlag(t, cmd, "db-dir", "/tmp/faqtree-test")

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}

		if cfg.MaxDepth != 2 {
			t.Errorf("MaxDepth = %d, want 2", cfg.MaxDepth)
		}
		if len(cfg.Categories) != 1 || cfg.Categories[0] != "billing" {
			t.Errorf("Categories = %v", cfg.Categories)
		}
		if cfg.SaveToDB {
			t.Error("SaveToDB must be false with --no-db")
		}
		if cfg.DBDir != "/tmp/faqtree-test" {
			t.Errorf("DBDir = %q", cfg.DBDir)
		}
	})

	t.Run("explicit missing config file errors", func(t *testing.T) {
		t.Parallel()

		cmd := NewGenerateCmd()
		mustSetFlag(t, cmd, "config", filepath.Join(t.TempDir(), "nope.yaml"))

		if _, err := buildConfig(cmd, []string{"https://example.com"}); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})

	t.Run("list file appends start urls", func(t *testing.T) {
		t.Parallel()

		listPath := filepath.Join(t.TempDir(), "sites.txt")
		content := "https://a.example.com\n\n# comment\nhttps://b.example.com\n"
		if err := os.WriteFile(listPath, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewGenerateCmd()
		mustSetFlag(t, cmd, "list", listPath)

		cfg, err := buildConfig(cmd, []string{"https://c.example.com"})
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}

		want := []string{"https://c.example.com", "https://a.example.com", "https://b.example.com"}
		if len(cfg.StartURLs) != len(want) {
			t.Fatalf("StartURLs = %v, want %v", cfg.StartURLs, want)
		}
		for i := range want {
			if cfg.StartURLs[i] != want[i] {
				t.Errorf("StartURLs[%d] = %q, want %q", i, cfg.StartURLs[i], want[i])
			}
		}
	})

	t.Run("missing list file errors", func(t *testing.T) {
		t.Parallel()

		cmd := NewGenerateCmd()
		mustSetFlag(t, cmd, "list", filepath.Join(t.TempDir(), "nope.txt"))

		if _, err := buildConfig(cmd, nil); err == nil {
			t.Error("expected error for missing list file")
		}
	})
}

// mustSetFlag sets a flag value or fails the test.
func mustSetFlag(t *testing.T, cmd *cobra.Command, name, value string) {
	t.Helper()
	if err := cmd.Flags().Set(name, value); err != nil {
		t.Fatalf("failed to set flag %s: %v", name, err)
	}
}

// TestOutputDocument tests document rendering.
func TestOutputDocument(t *testing.T) {
	doc := tree.NewAssembler().Assemble(
		model.NewRecordSet[model.FAQRecord](),
		model.NewRecordSet[model.NavigationRecord](),
	)

	t.Run("pretty JSON to file", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "nested", "tree.json")
		cfg := config.NewConfig()
		cfg.ReportFile = outPath

		if err := outputDocument(cfg, doc); err != nil {
			t.Fatalf("outputDocument() error = %v", err)
		}

		data, err := os.ReadFile(outPath) //nolint:gosec // Test-owned path
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}

		var decoded model.TreeDocument
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Contract.Product != model.ContractProduct {
			t.Errorf("Contract.Product = %q", decoded.Contract.Product)
		}
		if !strings.Contains(string(data), "\n  ") {
			t.Error("default output must be indented")
		}
	})

	t.Run("compact JSON to file", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "tree.json")
		cfg := config.NewConfig()
		cfg.ReportFile = outPath
		cfg.JSONReport = true

		if err := outputDocument(cfg, doc); err != nil {
			t.Fatalf("outputDocument() error = %v", err)
		}

		data, err := os.ReadFile(outPath) //nolint:gosec // Test-owned path
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if strings.Contains(string(data), "\n  ") {
			t.Error("compact output must not be indented")
		}
	})

	t.Run("markdown to file", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "tree.md")
		cfg := config.NewConfig()
		cfg.ReportFile = outPath
		cfg.MarkdownReport = true

		if err := outputDocument(cfg, doc); err != nil {
			t.Fatalf("outputDocument() error = %v", err)
		}

		data, err := os.ReadFile(outPath) //nolint:gosec // Test-owned path
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.Contains(string(data), "# Dialogue Tree") {
			t.Errorf("markdown output missing title: %q", string(data))
		}
	})

	t.Run("nil document errors", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.ReportFile = filepath.Join(t.TempDir(), "tree.json")

		if err := outputDocument(cfg, nil); err == nil {
			t.Error("expected error for nil document")
		}
	})
}

// TestReadStartURLList tests the URL list parser.
func TestReadStartURLList(t *testing.T) {
	t.Parallel()

	t.Run("skips blanks and comments", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "sites.txt")
		content := "# header\nhttps://a.example.com\n\n  \nhttps://b.example.com  \n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		urls, err := readStartURLList(path)
		if err != nil {
			t.Fatalf("readStartURLList() error = %v", err)
		}
		if len(urls) != 2 || urls[0] != "https://a.example.com" || urls[1] != "https://b.example.com" {
			t.Errorf("urls = %v", urls)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := readStartURLList(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
