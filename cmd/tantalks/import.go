package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/tantalks/importer"
)

var importActor string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load content from files",
}

var importPostsCmd = &cobra.Command{
	Use:   "posts <dir>",
	Short: "Import markdown files with front matter as blog posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, repo, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		im := importer.New(repo, importActor, importer.WithLogger(logger))
		res, err := im.ImportPosts(cmd.Context(), args[0])
		logger.Infof("posts: %d created, %d skipped", len(res.Created), len(res.Skipped))
		return err
	},
}

var importSeedCmd = &cobra.Command{
	Use:   "seed <file.toml>",
	Short: "Apply a TOML seed file (profile, episodes, posts)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, repo, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		im := importer.New(repo, importActor, importer.WithLogger(logger))
		res, err := im.ImportSeed(cmd.Context(), args[0])
		logger.Infof("episodes: %d created, %d skipped; posts: %d created, %d skipped",
			len(res.Episodes.Created), len(res.Episodes.Skipped), len(res.Posts.Created), len(res.Posts.Skipped))
		return err
	},
}

func init() {
	importCmd.PersistentFlags().StringVar(&importActor, "actor", "cli", "actor id recorded as createdBy")
	importCmd.AddCommand(importPostsCmd, importSeedCmd)
	rootCmd.AddCommand(importCmd)
}
