package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "redconnect",
		Short:         "Red Connect blood donation web client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	serve := NewServeCommand()
	root.AddCommand(serve, NewVersionCommand())
	// A bare invocation serves, matching the old single-purpose binary.
	root.RunE = serve.RunE

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "redconnect %s\n", version)
		},
	}
}
