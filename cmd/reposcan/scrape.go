package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aptveritas/reposcan/pkg/model"
	"github.com/aptveritas/reposcan/pkg/scrape"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <base-url>",
	Short: "Scrape a repository into a structured package listing",
	Long: `Scrape verifies the repository (unless --mode is set to "false") and
walks every suite it finds, printing the resulting packages.`,
	Args: cobra.ExactArgs(1),
	Example: `  reposcan scrape http://archive.ubuntu.com/ubuntu --format=json
  reposcan scrape http://deb.example.test --flat --mode=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape(args[0])
	},
}

func runScrape(baseURL string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	base, fetcher, nav, err := openRepository(baseURL, cfg)
	if err != nil {
		return fmt.Errorf("opening repository: %w", err)
	}

	mode := cfg.Mode
	if strings.EqualFold(string(mode), "false") {
		mode = ""
	}

	repo, err := scrape.Scrape(context.Background(), fetcher, nav, base, scrape.Options{
		Flat: cfg.Flat,
		Mode: mode,
	})
	if err != nil {
		return fmt.Errorf("scraping repository: %w", err)
	}

	return outputRepository(repo, options.format)
}

func outputRepository(repo model.Repository, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(repo)
	case "tsv":
		for _, pkg := range allPackages(repo) {
			fmt.Printf("%s\t%s\t%s\t%s\n", pkg.Name, pkg.Version, pkg.Architecture, pkg.URL)
		}
		return nil
	case "text":
		fallthrough
	default:
		for _, pkg := range allPackages(repo) {
			fmt.Printf("%s %s (%s)\n", pkg.Name, pkg.Version, pkg.Architecture)
		}
		return nil
	}
}

// allPackages flattens every package a scraped Repository holds, across
// both its flat and non-flat suite forms.
func allPackages(repo model.Repository) []model.Package {
	var out []model.Package
	for _, suite := range repo.Suites {
		for _, component := range suite.Components {
			out = append(out, component.Packages...)
		}
	}
	for _, flatSuite := range repo.FlatSuites {
		out = append(out, flatSuite.Package)
	}
	return out
}
