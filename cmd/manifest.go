package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Rebuild manifest.json from the model shards on disk",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("curate"); err != nil {
			return err
		}

		m, err := catalogStore().RebuildManifest(time.Now())
		if err != nil {
			return err
		}

		fmt.Printf("Manifest rebuilt: %d model file(s), last_updated %s\n", len(m.ModelFiles), m.LastUpdated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)
}
