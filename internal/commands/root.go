package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	constants "beszeltrmnl/config"
)

// NewRootCmd builds the command tree. Without a subcommand the service runs,
// matching "beszeltrmnl serve".
func NewRootCmd() *cobra.Command {
	serveCmd := NewServeCmd()

	rootCmd := &cobra.Command{
		Use:   constants.BINARY_NAME,
		Short: "Bridge Beszel system metrics to a TRMNL e-ink display",
		Long: `beszeltrmnl reads the latest active system from a Beszel hub (PocketBase),
reshapes it into a fixed metrics document and serves it on /metrics in the
merge_variables format TRMNL private plugins expect. When PRIVATE_PLUGIN_URL
is set, every served document is also pushed to the plugin webhook.`,
		SilenceUsage:       true,
		DisableSuggestions: true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "v%s\n", GetCurrentVersion())
				return nil
			}
			return serveCmd.RunE(cmd, args)
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(NewFetchCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewAuthCmd())
	rootCmd.AddCommand(NewServiceCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}
