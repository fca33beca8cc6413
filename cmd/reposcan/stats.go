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

var statsCmd = &cobra.Command{
	Use:   "stats <base-url>",
	Short: "Show repository statistics",
	Long: `Display statistics about the repository including total number of
packages, total size, and breakdowns by architecture and component.`,
	Args: cobra.ExactArgs(1),
	Example: `  reposcan stats http://archive.ubuntu.com/ubuntu
  reposcan stats http://deb.example.test --flat --format=json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(args[0])
	},
}

// RepositoryStats summarizes a scraped Repository, grouped the way the
// teacher's apt-look stats command grouped a live Release/Packages walk.
type RepositoryStats struct {
	BaseURL string `json:"base_url"`
	Flat    bool   `json:"flat"`
	Suites  int    `json:"suites"`

	Packages struct {
		Total          int            `json:"total"`
		TotalSize      int64          `json:"total_size_bytes"`
		ByArchitecture map[string]int `json:"by_architecture"`
		ByComponent    map[string]int `json:"by_component"`
		BySection      map[string]int `json:"by_section"`
	} `json:"packages"`
}

func runStats(baseURL string) error {
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

	stats := calculateStats(repo)
	return outputStats(stats, options.format)
}

func calculateStats(repo model.Repository) RepositoryStats {
	stats := RepositoryStats{BaseURL: repo.URL, Flat: repo.Flat}
	stats.Packages.ByArchitecture = make(map[string]int)
	stats.Packages.ByComponent = make(map[string]int)
	stats.Packages.BySection = make(map[string]int)

	stats.Suites = len(repo.Suites) + len(repo.FlatSuites)

	for _, suite := range repo.Suites {
		for _, component := range suite.Components {
			for _, pkg := range component.Packages {
				accumulate(&stats, pkg, component.Name)
			}
		}
	}
	for _, flatSuite := range repo.FlatSuites {
		accumulate(&stats, flatSuite.Package, "")
	}

	return stats
}

func accumulate(stats *RepositoryStats, pkg model.Package, component string) {
	stats.Packages.Total++
	stats.Packages.TotalSize += pkg.Size
	if pkg.Architecture != "" {
		stats.Packages.ByArchitecture[pkg.Architecture]++
	}
	if component != "" {
		stats.Packages.ByComponent[component]++
	}
	if pkg.Section != "" {
		stats.Packages.BySection[pkg.Section]++
	}
}

func outputStats(stats RepositoryStats, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	case "tsv":
		fmt.Printf("base_url\t%s\n", stats.BaseURL)
		fmt.Printf("flat\t%t\n", stats.Flat)
		fmt.Printf("suites\t%d\n", stats.Suites)
		fmt.Printf("total_packages\t%d\n", stats.Packages.Total)
		fmt.Printf("total_size_bytes\t%d\n", stats.Packages.TotalSize)
		return nil
	case "text":
		fallthrough
	default:
		fmt.Printf("Repository Statistics\n")
		fmt.Printf("======================\n\n")
		fmt.Printf("Base URL: %s\n", stats.BaseURL)
		fmt.Printf("Flat: %t\n", stats.Flat)
		fmt.Printf("Suites: %d\n\n", stats.Suites)
		fmt.Printf("Total Packages: %d\n", stats.Packages.Total)
		fmt.Printf("Total Size: %d bytes\n", stats.Packages.TotalSize)
		if len(stats.Packages.ByArchitecture) > 0 {
			fmt.Printf("\nBy Architecture:\n")
			for arch, count := range stats.Packages.ByArchitecture {
				fmt.Printf("  %s: %d\n", arch, count)
			}
		}
		if len(stats.Packages.ByComponent) > 0 {
			fmt.Printf("\nBy Component:\n")
			for component, count := range stats.Packages.ByComponent {
				fmt.Printf("  %s: %d\n", component, count)
			}
		}
		return nil
	}
}
