package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"recipesearch/internal/config"
	"recipesearch/internal/extract"
	"recipesearch/internal/index"
	logpkg "recipesearch/internal/logger"
	"recipesearch/internal/scanner"
)

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Scan a recipe directory once and print index statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env := resolveEnv()

		cfg, err := config.Load(env)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		root := cfg.Recipes.Dir
		if len(args) == 1 {
			if root, err = filepath.Abs(args[0]); err != nil {
				return err
			}
		}

		logger, err := logpkg.New(env, cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		// One-shot scans skip the Redis cache; they run in dev and CI where
		// there is nothing to warm.
		maxFileSize := int64(cfg.Recipes.MaxFileSizeMB) * 1024 * 1024
		sc := scanner.New(extract.NewPDF(), nil, maxFileSize, logger)

		fmt.Printf("Indexing %s...\n", root)

		docs, stats, err := sc.Scan(context.Background(), root)
		if err != nil {
			return err
		}
		snap := index.Build(docs)

		fmt.Printf("\nDone in %s\n", stats.Elapsed.Round(time.Millisecond))
		fmt.Printf("  Documents:  %d indexed, %d failed\n", stats.Indexed, stats.Failed)
		fmt.Printf("  Categories: %d\n", len(snap.Categories()))

		return nil
	},
}
