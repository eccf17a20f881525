package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"loom/internal/config"
	"loom/internal/decode"
	"loom/internal/render"
	"loom/internal/store"
	"loom/internal/token"
)

func newDecodeCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "decode <address>",
		Short: "Decode a stored document back to text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := token.Parse(args[0])
			if err != nil {
				return fmt.Errorf("document address %q: %w", args[0], err)
			}

			snapshot, err := ctx.loadSnapshot()
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				doc, err := st.GetDocument(cmd.Context(), addr)
				if err != nil {
					return err
				}
				if doc.VocabVersion != snapshot.Version() {
					fmt.Fprintf(cmd.ErrOrStderr(),
						"warning: current vocabulary %.12s differs from encode-time %.12s; unknown words will not render\n",
						snapshot.Version(), doc.VocabVersion)
				}

				g, err := st.LoadGraph(cmd.Context(), doc.ID)
				if err != nil {
					return err
				}
				seq, err := decode.Ranked(g)
				if err != nil {
					return err
				}
				text, err := render.Render(seq, render.Options{
					Snapshot:     snapshot,
					IndentWidths: doc.IndentWidths,
				})
				if err != nil {
					return err
				}

				if outputPath == "" {
					fmt.Fprint(cmd.OutOrStdout(), text)
					return nil
				}
				target, err := resolveExportPath(outputPath, doc)
				if err != nil {
					return err
				}
				if err := os.WriteFile(target, []byte(text), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", target, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Decoded %s to %s\n", doc.Address, target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to this file, or into this directory under a title-derived name")
	return cmd
}

// resolveExportPath expands the -o argument. A directory target gets a
// filename derived from the document title, falling back to the address.
func resolveExportPath(path string, doc *store.Document) (string, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	info, err := os.Stat(expanded)
	if err == nil && info.IsDir() {
		name := exportFileName(doc.Title)
		if name == "" {
			name = exportFileName(doc.Address.String())
		}
		return filepath.Join(expanded, name+".txt"), nil
	}
	return expanded, nil
}

var exportNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// exportFileName strips filesystem-unsafe characters from a title.
func exportFileName(title string) string {
	return strings.TrimSpace(exportNameReplacer.Replace(strings.TrimSpace(title)))
}
