package main

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"loom/internal/config"
	"loom/internal/store"
)

type libraryStatus struct {
	Path      string           `json:"path"`
	Documents int64            `json:"documents"`
	Hubs      int64            `json:"hubs"`
	Bonds     int64            `json:"bonds"`
	Edges     int64            `json:"edges"`
	FileBytes int64            `json:"file_bytes"`
	Verify    map[string]int64 `json:"verify_statuses"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show library statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				stats, err := st.LibraryStats(cmd.Context())
				if err != nil {
					return err
				}
				docs, err := st.ListDocuments(cmd.Context())
				if err != nil {
					return err
				}
				byStatus := make(map[string]int64)
				for _, doc := range docs {
					status := doc.VerifyStatus
					if status == "" {
						status = "unverified"
					}
					byStatus[status]++
				}

				status := libraryStatus{
					Path:      st.Path(),
					Documents: stats.Documents,
					Hubs:      stats.Hubs,
					Bonds:     stats.Bonds,
					Edges:     stats.Edges,
					FileBytes: stats.FileBytes,
					Verify:    byStatus,
				}
				if asJSON {
					return writeJSON(cmd, status)
				}
				printLibraryStatus(cmd, status)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit statistics as JSON")
	return cmd
}

func printLibraryStatus(cmd *cobra.Command, status libraryStatus) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Library", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderDetailLine("Store", status.Path))
	fmt.Fprintln(out, renderDetailLine("Documents", humanize.Comma(status.Documents)))
	fmt.Fprintln(out, renderDetailLine("Hubs", humanize.Comma(status.Hubs)))
	fmt.Fprintln(out, renderDetailLine("Bonds", humanize.Comma(status.Bonds)))
	fmt.Fprintln(out, renderDetailLine("Edges", humanize.Comma(status.Edges)))
	fmt.Fprintln(out, renderDetailLine("File size", humanize.IBytes(uint64(status.FileBytes))))
	fmt.Fprintln(out)

	for _, line := range renderSectionHeader("Verification", colorize) {
		fmt.Fprintln(out, line)
	}
	if len(status.Verify) == 0 {
		fmt.Fprintln(out, "Library is empty")
		return
	}
	statuses := make([]string, 0, len(status.Verify))
	for s := range status.Verify {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []string{
			colorizeVerify(s, colorize),
			humanize.Comma(status.Verify[s]),
		})
	}
	tbl := renderTable([]string{"Status", "Documents"}, rows, []columnAlignment{alignLeft, alignRight})
	fmt.Fprintln(out, tbl)
}
