package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SeanTater/llm-pareto/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pareto",
	Short: "Curated LLM catalog with Pareto frontier analysis",
	Long:  "Maintains a citation-backed catalog of language model attributes across sharded JSON files and computes best-tradeoff frontiers over cost, parameters, and benchmark scores.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
