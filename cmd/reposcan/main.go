package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aptveritas/reposcan/pkg/config"
	"github.com/aptveritas/reposcan/pkg/hashverify"
)

var options struct {
	format     string
	configPath string
	mode       string
	flat       bool
	publicKey  string
	timeout    time.Duration
}

var rootCmd = &cobra.Command{
	Use:   "reposcan",
	Short: "Verify and explore Debian APT repositories without system configuration",
	Long: `reposcan fetches a remote APT repository tree, verifies its signatures
and package hashes, and can report on the packages it finds — without
requiring /etc/apt configuration.`,
	Example: `  reposcan verify http://archive.ubuntu.com/ubuntu jammy
  reposcan scrape http://archive.ubuntu.com/ubuntu --format=json
  reposcan latest http://archive.ubuntu.com/ubuntu`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&options.format, "format", "f", "text",
		"Output format (text, json, tsv)")
	rootCmd.PersistentFlags().StringVarP(&options.configPath, "config", "c", "",
		"Path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&options.mode, "mode", "m", "",
		"Hash verification mode (overrides config); empty means use config default")
	rootCmd.PersistentFlags().BoolVar(&options.flat, "flat", false,
		"Treat the repository as a flat repository (overrides config)")
	rootCmd.PersistentFlags().StringVar(&options.publicKey, "public-key", "",
		"Path to an armored OpenPGP public key trusted to sign Release files")
	rootCmd.PersistentFlags().DurationVar(&options.timeout, "timeout", 0,
		"HTTP fetch timeout (overrides config)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		validFormats := []string{"text", "json", "tsv"}
		for _, f := range validFormats {
			if options.format == f {
				return nil
			}
		}
		return fmt.Errorf("invalid format '%s'. Valid formats: %s",
			options.format, strings.Join(validFormats, ", "))
	}

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(latestCmd)
}

// loadConfig builds a config.Config from the persistent flags, layering
// CLI overrides on top of whatever --config names.
func loadConfig() (config.Config, error) {
	var opts []config.Option
	skipVerification := strings.EqualFold(options.mode, "false")
	if options.mode != "" && !skipVerification {
		mode, err := hashverify.ParseMode(options.mode)
		if err != nil {
			return config.Config{}, err
		}
		opts = append(opts, config.WithMode(mode))
	}
	if options.flat {
		opts = append(opts, config.WithFlat(true))
	}
	if options.publicKey != "" {
		opts = append(opts, config.WithPublicKey(options.publicKey))
	}
	if options.timeout != 0 {
		opts = append(opts, config.WithTimeout(options.timeout))
	}
	cfg, err := config.Load(options.configPath, opts...)
	if err != nil {
		return config.Config{}, err
	}
	if skipVerification {
		// "false" is not a verification mode; it is set after validation so
		// the scraping subcommands can recognise it and skip verification.
		cfg.Mode = hashverify.Mode("false")
	}
	return cfg, nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: false,
	})
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Msgf("%v", err)
	}
}
