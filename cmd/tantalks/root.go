package main

import (
	"fmt"
	"os"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/eringen/tantalks"
	"github.com/eringen/tantalks/content"
	"github.com/eringen/tantalks/kv"
)

var (
	configPath string
	verbose    bool

	logger = log.New("tantalks")
)

var rootCmd = &cobra.Command{
	Use:   "tantalks",
	Short: "Content service for a podcast and blog site",
	Long: `tantalks serves the JSON API behind a podcast and blog site, renders
post pages, the RSS feed and the sitemap, and manages admin accounts and
content imports from the command line.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetLevel(log.INFO)
		if verbose {
			logger.SetLevel(log.DEBUG)
		}
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./tantalks.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func loadConfig() (tantalks.SiteConfig, error) {
	cfg, err := tantalks.LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	logger.Debugf("store %s at %s", cfg.StoreDriver, cfg.DatabasePath)
	return cfg, nil
}

// openRepository opens the configured store. The caller closes it.
func openRepository(cfg tantalks.SiteConfig) (kv.Store, *content.Repository, error) {
	store, err := kv.Open(cfg.StoreDriver, cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return store, content.New(store, content.WithLogger(logger)), nil
}
