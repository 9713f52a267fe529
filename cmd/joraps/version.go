package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LoohanZinho/joraps/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(*cobra.Command, []string) {
			info := version.Get()
			fmt.Printf("joraps %s\n", info)
			if info.BuildTime != "" {
				fmt.Printf("  built:  %s\n", info.BuildTime)
			}
			fmt.Printf("  go:     %s\n", info.GoVersion)
		},
	}
}
