package commands

import (
	"fmt"

	"github.com/prometheus/common/version"
	"github.com/spf13/cobra"

	constants "beszeltrmnl/config"
)

// GetCurrentVersion returns the version stamped at build time via
// -ldflags "-X github.com/prometheus/common/version.Version=...", falling
// back to the service version.
func GetCurrentVersion() string {
	if version.Version != "" {
		return version.Version
	}
	return constants.SERVICE_VERSION
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			if verbose {
				fmt.Fprintln(cmd.OutOrStdout(), version.Print(constants.BINARY_NAME))
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "v%s\n", GetCurrentVersion())
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "Include revision, branch and build details")

	return cmd
}
