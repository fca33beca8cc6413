package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aptveritas/reposcan/pkg/hashverify"
	"github.com/aptveritas/reposcan/pkg/manifest"
	"github.com/aptveritas/reposcan/pkg/navigator"
	"github.com/aptveritas/reposcan/pkg/sigverify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <base-url> [suite]",
	Short: "Verify a repository's signatures and package hashes",
	Long: `Verify checks Release/InRelease signatures (when --public-key is given)
and every file hash chain Release and its Packages indexes declare,
applying the configured hash-verification mode to missing or mismatched
files.`,
	Args: cobra.RangeArgs(1, 2),
	Example: `  reposcan verify http://archive.ubuntu.com/ubuntu jammy --public-key ubuntu.gpg
  reposcan verify http://deb.example.test --flat --mode raise_important_only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(args)
	},
}

func runVerify(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	base, fetcher, nav, err := openRepository(args[0], cfg)
	if err != nil {
		return fmt.Errorf("opening repository: %w", err)
	}

	ctx := context.Background()

	suites, err := resolveSuites(ctx, nav, cfg.Flat, args)
	if err != nil {
		return fmt.Errorf("discovering suites: %w", err)
	}

	if key := publicKeyInput(cfg); key != nil {
		log.Info().Msg("verifying Release signatures")
		if err := sigverify.VerifyAll(ctx, fetcher, base, suites, cfg.Flat, key); err != nil {
			return fmt.Errorf("signature verification failed: %w", err)
		}
	} else {
		log.Warn().Msg("no --public-key given, skipping signature verification")
	}

	log.Info().Str("mode", string(cfg.Mode)).Msg("verifying package hashes")
	if err := hashverify.Verify(ctx, fetcher, nav, base, cfg.Flat, cfg.Mode); err != nil {
		return fmt.Errorf("hash verification failed: %w", err)
	}

	hits, misses := fetcher.Stats().Counts()
	log.Info().Int64("cache_hits", hits).Int64("cache_misses", misses).
		Msg("verification complete")

	return nil
}

// resolveSuites returns the suites to operate on: the one named on the
// command line, if any, or every suite the navigator can discover.
func resolveSuites(ctx context.Context, nav navigator.Navigator, flat bool, args []string) ([]string, error) {
	if len(args) == 2 {
		return []string{args[1]}, nil
	}
	if flat {
		return manifest.GetSuitesFlat(ctx, nav)
	}
	return manifest.GetSuites(ctx, nav)
}
