package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/storeport/backend/config"
	"github.com/storeport/backend/internal/domain"
	"github.com/storeport/backend/internal/infrastructure/site"
	"github.com/storeport/backend/internal/infrastructure/store"
	"github.com/storeport/backend/internal/usecase"
)

var version = "dev"

var (
	outputFile string
	forceFetch bool
	asJSON     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "storeport",
		Short:   "Export storefront product pages as import-ready CSV",
		Version: version,
		Long: `storeport fetches a product page from the configured storefront,
extracts and normalizes the product data, classifies it into the
target taxonomy and writes the import CSV.`,
		SilenceUsage: true,
	}

	scrapeCmd := &cobra.Command{
		Use:   "scrape [URL]",
		Short: "Fetch one product page and write its import CSV",
		Example: `  # Write the CSV to a file
  storeport scrape -o product.csv https://www.modavera.com/elbise-p-1234567

  # Refetch even when the store holds a fresh record
  storeport scrape --force https://www.modavera.com/elbise-p-1234567

  # Inspect the extracted record instead of the CSV
  storeport scrape --json https://www.modavera.com/elbise-p-1234567`,
		Args: cobra.ExactArgs(1),
		RunE: runScrape,
	}
	scrapeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (default stdout)")
	scrapeCmd.Flags().BoolVar(&forceFetch, "force", false, "Skip the store and refetch the live page")
	scrapeCmd.Flags().BoolVar(&asJSON, "json", false, "Print the extracted record as JSON instead of CSV")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recently exported product URLs",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the record store and the history",
		Args:  cobra.NoArgs,
		RunE:  runReset,
	}

	rootCmd.AddCommand(scrapeCmd, historyCmd, resetCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildService wires the pipeline the same way the server does. Log output
// goes to stderr, so piping the CSV from stdout stays clean.
func buildService() (*usecase.ExportService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var productStore domain.ProductStore
	switch cfg.Store.Type {
	case "sqlite":
		db, err := store.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		productStore, err = store.NewSQLiteStore(db, cfg.Store.TTL)
		if err != nil {
			return nil, err
		}
	default:
		productStore = store.NewMemoryStore(cfg.Store.TTL)
	}

	siteClient := site.NewClient(site.Config{
		BaseURL:           cfg.Site.BaseURL,
		UserAgent:         cfg.Site.UserAgent,
		Timeout:           cfg.Site.RequestTimeout,
		MaxRetries:        cfg.Site.MaxRetries,
		RequestsPerMinute: cfg.Site.RequestsPerMinute,
	})

	extractor := usecase.NewExtractService(usecase.ExtractConfig{
		KeepTrailingImage: cfg.Export.KeepTrailingImage,
	})
	classifier := usecase.NewCategoryClassifier(nil)
	serializer := usecase.NewCsvSerializer(cfg.Export.Vendor)

	return usecase.NewExportService(productStore, siteClient, extractor, classifier, serializer), nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	service, err := buildService()
	if err != nil {
		return err
	}

	result, err := service.Export(cmd.Context(), args[0], forceFetch)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outputFile, err)
		}
		defer f.Close()
		out = f
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Record)
	}

	if err := usecase.WriteCSV(out, result.Rows); err != nil {
		return err
	}
	if outputFile != "" {
		fmt.Fprintf(os.Stderr, "wrote %d rows to %s\n", len(result.Rows), outputFile)
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	service, err := buildService()
	if err != nil {
		return err
	}

	urls, err := service.History(cmd.Context())
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		fmt.Println("no exports recorded")
		return nil
	}
	for _, u := range urls {
		fmt.Println(u)
	}
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	service, err := buildService()
	if err != nil {
		return err
	}

	if err := service.Reset(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("store cleared")
	return nil
}
