package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"loom/internal/config"
	"loom/internal/scan"
	"loom/internal/store"
	"loom/internal/token"
	"loom/internal/verify"
	"loom/internal/vocab"
)

type verifyOutcome struct {
	Address    string `json:"address"`
	Title      string `json:"title"`
	Stored     string `json:"stored_status"`
	Replayed   string `json:"replayed_status"`
	Tokens     int    `json:"tokens"`
	PathUnique bool   `json:"path_unique"`
	Error      string `json:"error,omitempty"`
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var verifyAll bool
	var sourcePath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "verify [address]",
		Short: "Replay stored documents and check their integrity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verifyAll == (len(args) == 1) {
				return errors.New("name one document address or pass --all")
			}
			if sourcePath != "" && verifyAll {
				return errors.New("--source applies to a single document")
			}

			snapshot, err := ctx.loadSnapshot()
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				docs, err := targetDocuments(cmd, st, args, verifyAll)
				if err != nil {
					return err
				}

				original := ""
				if sourcePath != "" {
					path, err := config.ExpandPath(sourcePath)
					if err != nil {
						return fmt.Errorf("resolve source path: %w", err)
					}
					raw, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("read source: %w", err)
					}
					original = scan.Normalize(string(raw))
				}

				outcomes := make([]verifyOutcome, 0, len(docs))
				failures := 0
				for _, doc := range docs {
					outcome := replayDocument(cmd, st, snapshot, doc, original)
					if outcome.Error != "" || verify.Status(outcome.Replayed) == verify.StatusFail {
						failures++
					}
					outcomes = append(outcomes, outcome)
				}

				if asJSON {
					if err := writeJSON(cmd, outcomes); err != nil {
						return err
					}
				} else {
					printVerifyOutcomes(cmd, outcomes)
				}
				if failures > 0 {
					return fmt.Errorf("%d of %d documents failed verification", failures, len(outcomes))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&verifyAll, "all", false, "Verify every stored document")
	cmd.Flags().StringVar(&sourcePath, "source", "", "Compare the rendered text against this source file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")
	return cmd
}

func targetDocuments(cmd *cobra.Command, st *store.Store, args []string, all bool) ([]*store.Document, error) {
	if all {
		docs, err := st.ListDocuments(cmd.Context())
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, errors.New("library holds no documents")
		}
		return docs, nil
	}
	addr, err := token.Parse(args[0])
	if err != nil {
		return nil, fmt.Errorf("document address %q: %w", args[0], err)
	}
	doc, err := st.GetDocument(cmd.Context(), addr)
	if err != nil {
		return nil, err
	}
	return []*store.Document{doc}, nil
}

func replayDocument(cmd *cobra.Command, st *store.Store, snapshot *vocab.Snapshot, doc *store.Document, original string) verifyOutcome {
	outcome := verifyOutcome{
		Address: doc.Address.String(),
		Title:   doc.Title,
		Stored:  doc.VerifyStatus,
	}

	g, err := st.LoadGraph(cmd.Context(), doc.ID)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}
	report, err := verify.Stored(verify.StoredInput{
		Graph:        g,
		Original:     original,
		Snapshot:     snapshot,
		IndentWidths: doc.IndentWidths,
	})
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Replayed = string(report.Status)
	outcome.Tokens = report.TokensChecked
	outcome.PathUnique = report.PathUnique
	return outcome
}

func printVerifyOutcomes(cmd *cobra.Command, outcomes []verifyOutcome) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		replayed := o.Replayed
		if o.Error != "" {
			replayed = "error"
		}
		rows = append(rows, []string{
			o.Address,
			o.Title,
			colorizeVerify(o.Stored, colorize),
			colorizeVerify(replayed, colorize),
			fmt.Sprintf("%d", o.Tokens),
			yesNo(o.PathUnique),
		})
	}
	tbl := renderTable(
		[]string{"Document", "Title", "Stored", "Replayed", "Tokens", "Path unique"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
	fmt.Fprintln(out, tbl)

	for _, o := range outcomes {
		if o.Error != "" {
			fmt.Fprintf(out, "error: %s: %s\n", o.Address, o.Error)
		}
	}
}
