package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"recipesearch/internal/config"
)

var flagEnv string

var rootCmd = &cobra.Command{
	Use:   "recipesearch",
	Short: "Fuzzy full-text search over a directory of recipe PDFs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnv, "config-env", "", "config environment (overrides ENV, default local)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(indexCmd)
}

// resolveEnv picks the config environment: --config-env beats ENV.
func resolveEnv() string {
	if flagEnv != "" {
		return flagEnv
	}
	return config.GetEnv()
}

func main() {
	// Optional .env for local development; real deployments use the environment.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
