package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aptveritas/reposcan/pkg/model"
	"github.com/aptveritas/reposcan/pkg/scrape"
)

var latestCmd = &cobra.Command{
	Use:   "latest <base-url>",
	Short: "Show the latest version of each package",
	Long: `Scrape the repository and print the newest version found for each
(name, architecture) pair, using Debian version comparison rules.`,
	Args: cobra.ExactArgs(1),
	Example: `  reposcan latest http://archive.ubuntu.com/ubuntu
  reposcan latest http://deb.example.test --flat`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLatest(args[0])
	},
}

// packageKey identifies a package independent of version, the same
// (name, architecture) pairing the teacher's latest.go dedupes on.
type packageKey struct {
	Name         string
	Architecture string
}

func runLatest(baseURL string) error {
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

	latest := make(map[packageKey]model.Package)
	for _, pkg := range allPackages(repo) {
		key := packageKey{Name: pkg.Name, Architecture: pkg.Architecture}
		if existing, ok := latest[key]; !ok || pkg.Newer(existing) {
			latest[key] = pkg
		}
	}

	packages := make([]model.Package, 0, len(latest))
	for _, pkg := range latest {
		packages = append(packages, pkg)
	}
	sort.Slice(packages, func(i, j int) bool {
		if packages[i].Name != packages[j].Name {
			return packages[i].Name < packages[j].Name
		}
		return packages[i].Architecture < packages[j].Architecture
	})

	for _, pkg := range packages {
		fmt.Printf("%s %s (%s)\n", pkg.Name, pkg.Version, pkg.Architecture)
	}

	return nil
}
