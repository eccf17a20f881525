package main

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"loom/internal/token"
)

type vocabInfo struct {
	Version string           `json:"version"`
	Entries int              `json:"entries"`
	Source  string           `json:"source"`
	Counts  map[string]int64 `json:"namespace_counts"`
}

func newVocabCommand(ctx *commandContext) *cobra.Command {
	vocabCmd := &cobra.Command{
		Use:   "vocab",
		Short: "Inspect the vocabulary snapshot",
	}
	vocabCmd.AddCommand(newVocabInfoCommand(ctx))
	return vocabCmd
}

func newVocabInfoCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show snapshot version and entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			snapshot, err := ctx.loadSnapshot()
			if err != nil {
				return err
			}

			source := "embedded core wordlist"
			if cfg.Vocabulary.WordlistPath != "" {
				source = cfg.Vocabulary.WordlistPath
			}
			counts := make(map[string]int64)
			for ns, n := range snapshot.Counts() {
				counts[namespaceName(ns)] = int64(n)
			}
			info := vocabInfo{
				Version: snapshot.Version(),
				Entries: snapshot.Len(),
				Source:  source,
				Counts:  counts,
			}
			if asJSON {
				return writeJSON(cmd, info)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Vocabulary", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderDetailLine("Version", info.Version))
			fmt.Fprintln(out, renderDetailLine("Source", info.Source))
			fmt.Fprintln(out, renderDetailLine("Entries", humanize.Comma(int64(info.Entries))))

			names := make([]string, 0, len(info.Counts))
			for name := range info.Counts {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintln(out, renderDetailLine(name, humanize.Comma(info.Counts[name])))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit snapshot details as JSON")
	return cmd
}

func namespaceName(ns token.Namespace) string {
	switch ns {
	case token.NamespaceWord:
		return "Words"
	case token.NamespacePunct:
		return "Punctuation"
	case token.NamespaceStruct:
		return "Structural"
	case token.NamespaceChar:
		return "Characters"
	case token.NamespaceDocument:
		return "Documents"
	default:
		return string(ns)
	}
}
