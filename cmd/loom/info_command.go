package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"loom/internal/config"
	"loom/internal/store"
	"loom/internal/token"
)

type documentInfo struct {
	Address      string      `json:"address"`
	Title        string      `json:"title"`
	Category     string      `json:"category"`
	Rights       string      `json:"rights,omitempty"`
	SourceSHA256 string      `json:"source_sha256"`
	VocabVersion string      `json:"vocab_version"`
	Tokens       int64       `json:"tokens"`
	Hubs         int64       `json:"hubs"`
	Bonds        int64       `json:"bonds"`
	Edges        int64       `json:"edges"`
	IndentWidths map[int]int `json:"indent_widths,omitempty"`
	VerifyStatus string      `json:"verify_status,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <address>",
		Short: "Show a stored document's provenance and graph shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := token.Parse(args[0])
			if err != nil {
				return fmt.Errorf("document address %q: %w", args[0], err)
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				doc, err := st.GetDocument(cmd.Context(), addr)
				if err != nil {
					return err
				}
				info := documentInfo{
					Address:      doc.Address.String(),
					Title:        doc.Title,
					Category:     doc.Category,
					Rights:       doc.Rights,
					SourceSHA256: doc.SourceSHA256,
					VocabVersion: doc.VocabVersion,
					Tokens:       doc.TokenCount,
					Hubs:         doc.HubCount,
					Bonds:        doc.BondCount,
					Edges:        doc.EdgeCount,
					IndentWidths: doc.IndentWidths,
					VerifyStatus: doc.VerifyStatus,
					CreatedAt:    doc.CreatedAt,
					UpdatedAt:    doc.UpdatedAt,
				}
				if asJSON {
					return writeJSON(cmd, info)
				}
				printDocumentInfo(cmd, info)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit document details as JSON")
	return cmd
}

func printDocumentInfo(cmd *cobra.Command, info documentInfo) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Document "+info.Address, colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderDetailLine("Title", info.Title))
	fmt.Fprintln(out, renderDetailLine("Category", info.Category))
	if info.Rights != "" {
		fmt.Fprintln(out, renderDetailLine("Rights", info.Rights))
	}
	fmt.Fprintln(out, renderDetailLine("Source digest", info.SourceSHA256))
	fmt.Fprintln(out, renderDetailLine("Vocabulary", info.VocabVersion))
	fmt.Fprintln(out, renderDetailLine("Verify", colorizeVerify(info.VerifyStatus, colorize)))
	fmt.Fprintln(out, renderDetailLine("Encoded", info.CreatedAt.Local().Format(time.RFC1123)))
	fmt.Fprintln(out)

	for _, line := range renderSectionHeader("Graph", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderDetailLine("Tokens", humanize.Comma(info.Tokens)))
	fmt.Fprintln(out, renderDetailLine("Hubs", humanize.Comma(info.Hubs)))
	fmt.Fprintln(out, renderDetailLine("Bonds", humanize.Comma(info.Bonds)))
	fmt.Fprintln(out, renderDetailLine("Edges", humanize.Comma(info.Edges)))
	if len(info.IndentWidths) > 0 {
		fmt.Fprintln(out, renderDetailLine("Indent levels", fmt.Sprintf("%d", len(info.IndentWidths))))
	}
}
