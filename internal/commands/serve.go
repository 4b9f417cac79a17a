package commands

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	constants "beszeltrmnl/config"
	"beszeltrmnl/internal/config"
	"beszeltrmnl/internal/logger"
	"beszeltrmnl/internal/pocketbase"
	"beszeltrmnl/internal/relay"
	"beszeltrmnl/internal/server"
	"beszeltrmnl/internal/service"
	"beszeltrmnl/internal/telemetry"
)

// exit is os.Exit, swapped out in tests.
var exit = os.Exit

// NewServeCmd creates the serve command. It is also what the root command runs.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve Beszel metrics for TRMNL over HTTP",
		Long: `Start the HTTP service.

The listener comes up immediately on 0.0.0.0:$PORT; authentication against
PocketBase happens in the background afterwards. If it fails the service
keeps running and /metrics answers with errors until it is restarted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRuntimeConfig()
			if err != nil {
				return err
			}
			return Serve(cmd.Context(), cfg)
		},
	}
}

// Serve runs the service until ctx is canceled or a termination signal arrives.
// A signal exits the process immediately with status 0.
func Serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer close(sigChan)
	defer signal.Stop(sigChan)
	go handleSignals(sigChan, exit)

	a, err := start(ctx, cfg)
	if err != nil {
		return err
	}
	return a.run(ctx)
}

// app is a started service: listeners bound, readiness logged.
type app struct {
	cfg       *config.Config
	client    *pocketbase.Client
	telemetry *telemetry.Recorder
	api       *server.Listener
	prom      *server.Listener
	shutdown  func(context.Context) error
}

func start(ctx context.Context, cfg *config.Config) (*app, error) {
	rec := telemetry.New()
	a := &app{cfg: cfg, telemetry: rec}

	if cfg.OTLPEndpoint != "" {
		provider, err := rec.StartOTLP(ctx, cfg.OTLPEndpoint)
		if err != nil {
			logger.Warning("OTLP export disabled: %v", err)
		} else {
			a.shutdown = provider.Shutdown
			logger.Info("Exporting telemetry via OTLP to %s", cfg.OTLPEndpoint)
		}
	}

	a.client = pocketbase.NewClient(cfg.PocketBaseURL)
	logger.Info("Connecting to PocketBase at: %s", cfg.PocketBaseURL)

	sender := relay.NewSender(cfg.PluginURL, relay.WithTelemetry(rec))
	api := &server.API{Store: a.client, Relay: sender, Telemetry: rec}

	l, err := server.Listen(cfg.ListenAddr(), api.Routes())
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddr(), err)
	}
	a.api = l

	url := "http://" + displayAddr(cfg.ListenAddr(), l.Addr())
	logger.Success("TRMNL Beszel API server running on %s", url)
	logger.Info("Metrics endpoint: %s%s", url, constants.METRICS_PATH)
	if sender.Enabled() {
		logger.Info("Relaying metrics to TRMNL plugin")
	} else {
		logger.Debug("PRIVATE_PLUGIN_URL not set, relay disabled")
	}

	if cfg.PrometheusAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET "+constants.METRICS_PATH, rec.Handler())
		prom, err := server.Listen(cfg.PrometheusAddr, mux)
		if err != nil {
			_ = l.Close()
			a.close()
			return nil, fmt.Errorf("failed to listen on %s: %w", cfg.PrometheusAddr, err)
		}
		a.prom = prom
		logger.Info("Prometheus telemetry: http://%s%s", displayAddr(cfg.PrometheusAddr, prom.Addr()), constants.METRICS_PATH)
	}

	service.NotifyReady()
	service.NotifyStatus("Serving metrics")
	return a, nil
}

// run authenticates in the background and serves until ctx ends.
func (a *app) run(ctx context.Context) error {
	defer a.close()

	g, gctx := errgroup.WithContext(ctx)
	go a.authenticate(gctx)

	g.Go(func() error { return a.api.Serve(gctx) })
	if a.prom != nil {
		g.Go(func() error { return a.prom.Serve(gctx) })
	}
	return g.Wait()
}

// authenticate establishes the PocketBase session once. Failure leaves the
// service running in degraded mode.
func (a *app) authenticate(ctx context.Context) {
	if missing := a.cfg.Missing(); len(missing) > 0 {
		logger.Warning("Missing PocketBase settings: %s", strings.Join(missing, ", "))
	}

	err := a.client.Authenticate(ctx, a.cfg.PocketBaseEmail, a.cfg.PocketBasePassword)
	a.telemetry.SetAuthenticated(err == nil)
	if err != nil {
		logger.Warning("Server started without PocketBase connection")
		logger.Warning("   The service will continue to run but metrics endpoint will return errors")
		logger.Warning("   Check PocketBase URL and credentials")
	}
}

func (a *app) close() {
	if a.shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.OTLP_SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		logger.Debug("OTLP shutdown: %v", err)
	}
	a.shutdown = nil
}

// handleSignals exits on the first SIGINT or SIGTERM. There is no drain.
func handleSignals(sigChan <-chan os.Signal, exitFn func(int)) {
	sig, ok := <-sigChan
	if !ok {
		return
	}
	logger.Info("Received %s, shutting down", signalName(sig))
	service.NotifyStopping()
	exitFn(0)
}

func signalName(sig os.Signal) string {
	switch sig {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return sig.String()
}

// displayAddr keeps the configured host but takes the port from the bound
// address, so ":0" in tests shows the real port.
func displayAddr(configured string, bound net.Addr) string {
	host, _, err := net.SplitHostPort(configured)
	if err != nil {
		return bound.String()
	}
	_, port, err := net.SplitHostPort(bound.String())
	if err != nil {
		return bound.String()
	}
	return net.JoinHostPort(host, port)
}
