package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show the loom version",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			version := "devel"
			goVersion := ""
			if info, ok := debug.ReadBuildInfo(); ok {
				if info.Main.Version != "" && info.Main.Version != "(devel)" {
					version = info.Main.Version
				}
				goVersion = info.GoVersion
			}
			if goVersion != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "loom %s (%s)\n", version, goVersion)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "loom %s\n", version)
			}
			return nil
		},
	}
}
