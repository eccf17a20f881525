package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"loom/internal/config"
	"loom/internal/logging"
	"loom/internal/pipeline"
	"loom/internal/store"
)

func newEncodeCommand(ctx *commandContext) *cobra.Command {
	var workers int
	var category string
	var rights string
	var noVerify bool

	cmd := &cobra.Command{
		Use:   "encode <file...>",
		Short: "Encode text files into the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.Workflow.Workers = workers
			}
			if noVerify {
				cfg.Workflow.Verify = "off"
			}

			sources := make([]string, 0, len(args))
			for _, arg := range args {
				path, err := config.ExpandPath(arg)
				if err != nil {
					return fmt.Errorf("resolve source %q: %w", arg, err)
				}
				sources = append(sources, path)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				manager, err := pipeline.NewManager(cfg, st, logger)
				if err != nil {
					return err
				}
				summary, err := manager.Run(cmd.Context(), pipeline.Batch{
					Sources:  sources,
					Category: category,
					Rights:   rights,
				})
				if err != nil {
					return err
				}
				printEncodeSummary(cmd, summary)
				if summary.Failed > 0 {
					return fmt.Errorf("%d of %d documents failed", summary.Failed, len(summary.Results))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent encoders for this batch (0 uses the configured count)")
	cmd.Flags().StringVar(&category, "category", "", "Document category scoping the address counter")
	cmd.Flags().StringVar(&rights, "rights", "", "Rights note recorded with each document")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip the round-trip verification stage")
	return cmd
}

func printEncodeSummary(cmd *cobra.Command, summary *pipeline.Summary) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	rows := make([][]string, 0, len(summary.Results))
	for _, res := range summary.Results {
		if res.Err != nil {
			continue
		}
		status := "skipped"
		if res.Report != nil {
			status = colorizeVerify(string(res.Report.Status), colorize)
		}
		rows = append(rows, []string{
			res.Document.Address.String(),
			res.Source,
			fmt.Sprintf("%d", res.Tokens),
			status,
		})
	}
	if len(rows) > 0 {
		tbl := renderTable(
			[]string{"Document", "Source", "Tokens", "Verify"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
		)
		fmt.Fprintln(out, tbl)
	}
	for _, res := range summary.Results {
		if res.Err != nil {
			fmt.Fprintf(out, "failed: %s: %v\n", res.Source, res.Err)
		}
	}
	fmt.Fprintf(out, "Encoded %d of %d documents in %s\n",
		summary.Completed, len(summary.Results), summary.Elapsed.Round(time.Millisecond))
}
