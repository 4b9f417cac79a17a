package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"beszeltrmnl/internal/config"
	"beszeltrmnl/internal/credentials"
	"beszeltrmnl/internal/logger"
	"beszeltrmnl/internal/ui"
)

// secretStore is where a PocketBase password saved by "auth login" lives.
// Tests replace it with a credentials.MockStore.
var secretStore = credentials.DefaultStore

// loadRuntimeConfig loads .env and the environment, fills the password from
// the keyring when unset, points the logger at LOG_FILE and validates.
func loadRuntimeConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger.Configure(cfg.LogFile, cfg.Debug)

	if err := cfg.ResolvePassword(secretStore()); err != nil {
		logger.Warning("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the configuration the service would run with.

Values come from defaults, then .env in the working directory, then the
environment. The PocketBase password is never printed.`,
	}
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print configuration with the password masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			passwordSource := "environment"
			if cfg.PocketBasePassword == "" {
				passwordSource = "keyring"
				if err := cfg.ResolvePassword(secretStore()); err != nil {
					logger.Warning("%v", err)
				}
			}
			renderConfig(cmd.OutOrStdout(), cfg, passwordSource)
			return nil
		},
	}
}

func renderConfig(w io.Writer, cfg *config.Config, passwordSource string) {
	password := "(not set)"
	if cfg.PocketBasePassword != "" {
		password = cfg.MaskedPassword() + " (" + passwordSource + ")"
	}
	relay := "disabled"
	if cfg.RelayEnabled() {
		relay = cfg.PluginURL
	}

	fmt.Fprintln(w, ui.RenderBanner())
	fmt.Fprint(w, ui.RenderSection("Configuration", []ui.Row{
		{Key: "PORT", Value: strconv.Itoa(cfg.Port)},
		{Key: "POCKETBASE_URL", Value: orNotSet(cfg.PocketBaseURL)},
		{Key: "POCKETBASE_EMAIL", Value: orNotSet(cfg.PocketBaseEmail)},
		{Key: "POCKETBASE_PASSWORD", Value: password},
		{Key: "PRIVATE_PLUGIN_URL", Value: relay},
		{Key: "PROMETHEUS_ADDR", Value: orNotSet(cfg.PrometheusAddr)},
		{Key: "OTLP_ENDPOINT", Value: orNotSet(cfg.OTLPEndpoint)},
		{Key: "LOG_FILE", Value: orNotSet(cfg.LogFile)},
		{Key: "DEBUG", Value: strconv.FormatBool(cfg.Debug)},
	}))

	if missing := cfg.Missing(); len(missing) > 0 {
		fmt.Fprintln(w, ui.RenderStatus("warning", "Missing: "+strings.Join(missing, ", ")))
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(w, ui.RenderStatus("error", err.Error()))
	} else {
		fmt.Fprintln(w, ui.RenderStatus("success", "Configuration is valid"))
	}
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
