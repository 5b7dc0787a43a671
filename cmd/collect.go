package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/SeanTater/llm-pareto/internal/collect"
	"github.com/SeanTater/llm-pareto/internal/curate"
	"github.com/SeanTater/llm-pareto/internal/extract"
	"github.com/SeanTater/llm-pareto/internal/fetcher"
	"github.com/SeanTater/llm-pareto/pkg/anthropic"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch provider pricing pages and merge extracted prices into the catalog",
	Long:  "Fetches every page in the source registry, extracts pricing rows with the Anthropic API, converts each provider's rows into an add-models change-set, and runs it through the standard validate/plan/apply path. A failing provider is skipped, never fatal.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("collect"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		dryRun, _ := cmd.Flags().GetBool("dry-run")

		sources, err := collect.LoadSources(cfg.Collect.SourcesFile)
		if err != nil {
			return err
		}

		st := catalogStore()
		cat, err := st.Load()
		if err != nil {
			return err
		}
		// New models get a name and guessed family; known ids only get
		// their pricing refreshed.
		existing := make(map[string]bool)
		for _, e := range cat.Models() {
			existing[e.Record.ID] = true
		}

		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent:    cfg.Fetch.UserAgent,
			Timeout:      time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries:   cfg.Fetch.Retries,
			RatePerHost:  rate.Limit(cfg.Fetch.RatePerHost),
			BurstPerHost: cfg.Fetch.BurstPerHost,
		})
		ex := extract.New(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model, int64(cfg.Anthropic.MaxTokens))

		results := collect.Run(ctx, f, ex, sources, cfg.Collect.MaxConcurrentSources)

		collected := time.Now()
		var processed, rejected, failed int
		for _, res := range results {
			if res.Err != nil {
				failed++
				continue
			}

			raw, err := json.Marshal(collect.BuildChangeSet(res.Source, res.Rows, existing, collected))
			if err != nil {
				return eris.Wrapf(err, "encode %s change-set", res.Source.Provider)
			}

			fmt.Printf("== %s ==\n", res.Source.Provider)
			out, err := curate.AddModels(st, raw, curate.Options{DryRun: dryRun})
			if err != nil {
				return err
			}
			printOutcome(os.Stdout, out)
			recordApplyRun(ctx, out, "collect:"+res.Source.Provider)

			if out.Status == curate.StatusRejected {
				rejected++
			} else {
				processed++
			}
		}

		action := "applied"
		if dryRun {
			action = "reported"
		}
		fmt.Printf("\nCollect finished: %d %s, %d rejected, %d failed (of %d sources)\n",
			processed, action, rejected, failed, len(results))

		if processed == 0 && failed+rejected > 0 {
			return eris.New("collect: no source produced a usable change-set")
		}
		return nil
	},
}

func init() {
	collectCmd.Flags().Bool("dry-run", false, "extract and plan, but write nothing")
	rootCmd.AddCommand(collectCmd)
}
