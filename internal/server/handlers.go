// Package server is the HTTP surface: a static service descriptor on / and
// the fetch-transform-respond pipeline on /metrics.
package server

import (
	"context"
	"net/http"
	"time"

	constants "beszeltrmnl/config"
	"beszeltrmnl/internal/encoding"
	"beszeltrmnl/internal/logger"
	"beszeltrmnl/internal/metrics"
	"beszeltrmnl/internal/pocketbase"
	"beszeltrmnl/internal/telemetry"
)

// Store fetches the record served on /metrics.
type Store interface {
	FetchLatestUp(ctx context.Context) (*pocketbase.SystemRecord, error)
}

// Relay forwards a successful envelope without blocking the caller.
type Relay interface {
	Enabled() bool
	Send(env metrics.Envelope) <-chan error
}

// Descriptor is the body of GET /.
type Descriptor struct {
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Endpoints Endpoints `json:"endpoints"`
}

type Endpoints struct {
	Metrics string `json:"metrics"`
}

// API serves the HTTP surface. Store is required; Relay and Telemetry are optional.
type API struct {
	Store     Store
	Relay     Relay
	Telemetry *telemetry.Recorder
	Now       func() time.Time
}

// Routes returns the router. Only GET is accepted; other methods get 405.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", a.Root)
	mux.HandleFunc("GET "+constants.METRICS_PATH, a.Metrics)
	return withRequestID(mux)
}

// Root serves the static service descriptor. It never touches the store.
func (a *API) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Descriptor{
		Service:   constants.SERVICE_NAME,
		Version:   constants.SERVICE_VERSION,
		Endpoints: Endpoints{Metrics: constants.METRICS_PATH},
	})
}

// Metrics fetches the latest active system, transforms it, starts the
// relay and responds. Every failure becomes the 500 error envelope.
func (a *API) Metrics(w http.ResponseWriter, r *http.Request) {
	id := RequestID(r.Context())
	format := encoding.Negotiate(r.Header.Get("Accept"))

	start := time.Now()
	rec, err := a.Store.FetchLatestUp(r.Context())
	a.Telemetry.ObserveFetch(time.Since(start), err)
	if err != nil {
		logger.Error("Error fetching system metrics: %v", err)
		logger.Error("Error in %s endpoint (request %s): %v", constants.METRICS_PATH, id, err)
		a.Telemetry.ObserveRequest(telemetry.OutcomeError)
		a.write(w, format, http.StatusInternalServerError, metrics.ErrorBody{
			Success: false,
			Error:   constants.METRICS_ERROR_LABEL,
			Message: err.Error(),
		})
		return
	}

	env := metrics.Wrap(metrics.FromRecord(rec, a.now()))
	logger.Debug("Serving metrics for system %s (request %s)", env.MergeVariables.Data.SystemID, id)

	if a.Relay != nil && a.Relay.Enabled() {
		a.Relay.Send(env)
	}

	a.Telemetry.ObserveRequest(telemetry.OutcomeSuccess)
	a.write(w, format, http.StatusOK, env)
}

func (a *API) write(w http.ResponseWriter, format encoding.Format, status int, v any) {
	if err := encoding.Write(w, format, status, v); err != nil {
		logger.Warning("Failed to write response: %v", err)
	}
}

func (a *API) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	_ = encoding.Write(w, encoding.JSON, code, v)
}
