package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"beszeltrmnl/internal/config"
	"beszeltrmnl/internal/metrics"
	"beszeltrmnl/internal/pocketbase"
	"beszeltrmnl/internal/relay"
	"beszeltrmnl/internal/ui"
)

type fetchOptions struct {
	json  bool
	relay bool
}

// NewFetchCmd creates the fetch command
func NewFetchCmd() *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the latest active system once and print it",
		Long: `Authenticate, fetch the most recent system whose status is "up" and
print the metrics document, without starting the HTTP service.

Examples:
  beszeltrmnl fetch            # Styled summary
  beszeltrmnl fetch --json     # The exact /metrics response body
  beszeltrmnl fetch --relay    # Also push it to PRIVATE_PLUGIN_URL`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRuntimeConfig()
			if err != nil {
				return err
			}
			return runFetch(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the merge_variables envelope as JSON")
	cmd.Flags().BoolVar(&opts.relay, "relay", false, "Also POST the envelope to PRIVATE_PLUGIN_URL")

	return cmd
}

func runFetch(ctx context.Context, w io.Writer, cfg *config.Config, opts fetchOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	sender := relay.NewSender(cfg.PluginURL)
	if opts.relay && !sender.Enabled() {
		return errors.New("--relay needs PRIVATE_PLUGIN_URL to be set")
	}

	client := pocketbase.NewClient(cfg.PocketBaseURL)
	var env metrics.Envelope
	fetch := func() (string, error) {
		if err := client.Authenticate(ctx, cfg.PocketBaseEmail, cfg.PocketBasePassword); err != nil {
			return "", err
		}
		rec, err := client.FetchLatestUp(ctx)
		if err != nil {
			return "", err
		}
		env = metrics.Wrap(metrics.FromRecord(rec, time.Now()))
		return "Fetched " + env.MergeVariables.Data.SystemName, nil
	}

	if opts.json {
		if _, err := fetch(); err != nil {
			return err
		}
	} else if _, err := ui.RunWithSpinner("Fetching latest system from PocketBase", fetch); err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(env); err != nil {
			return err
		}
	} else {
		fmt.Fprint(w, ui.RenderDocument(env.MergeVariables.Data))
	}

	if opts.relay {
		if err := sender.Deliver(ctx, env); err != nil {
			return fmt.Errorf("relay failed: %w", err)
		}
	}
	return nil
}
