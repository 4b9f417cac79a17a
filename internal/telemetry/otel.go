package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	constants "beszeltrmnl/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// =============================================================================
// OTLP Setup
// =============================================================================

// StartOTLP builds an OTLP/HTTP metrics exporter for endpoint, installs it
// as the global meter provider and attaches r's instruments to it. The
// caller shuts the returned provider down on exit.
//
// endpoint is either host:port or a full URL.
func (r *Recorder) StartOTLP(ctx context.Context, endpoint string) (*sdkmetric.MeterProvider, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("OTLP endpoint is empty")
	}

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithRetry(otlpmetrichttp.RetryConfig{
			Enabled:         true,
			InitialInterval: 5 * time.Second,
			MaxInterval:     30 * time.Second,
			MaxElapsedTime:  2 * time.Minute,
		}),
		otlpmetrichttp.WithTimeout(constants.OTLP_EXPORT_TIMEOUT),
	}
	if strings.Contains(endpoint, "://") {
		opts = append(opts, otlpmetrichttp.WithEndpointURL(endpoint))
	} else {
		opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		if strings.HasPrefix(endpoint, "localhost") || strings.HasPrefix(endpoint, "127.0.0.1") {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	hostname, _ := os.Hostname()

	// Built without resource.Default() to avoid schema URL conflicts.
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(constants.BINARY_NAME),
		semconv.ServiceVersion(constants.SERVICE_VERSION),
		semconv.HostName(hostname),
		attribute.String("os.type", runtime.GOOS),
	)

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter,
				sdkmetric.WithInterval(constants.OTLP_EXPORT_INTERVAL),
			),
		),
	)
	otel.SetMeterProvider(provider)

	if err := r.EnableOTel(provider); err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}
	return provider, nil
}

// EnableOTel registers the OTel counterparts of the Prometheus instruments
// on provider. Subsequent observations are recorded on both.
func (r *Recorder) EnableOTel(provider metric.MeterProvider) error {
	if r == nil {
		return nil
	}
	meter := provider.Meter(constants.OTEL_METER_NAME,
		metric.WithInstrumentationVersion(constants.SERVICE_VERSION),
	)
	inst, err := newOTelInstruments(meter)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	r.mu.Lock()
	r.otel = inst
	r.mu.Unlock()
	return nil
}

// =============================================================================
// Instruments
// =============================================================================

type otelInstruments struct {
	requests      metric.Int64Counter
	fetchDuration metric.Float64Histogram
	relays        metric.Int64Counter
	authenticated atomic.Int64
}

func newOTelInstruments(meter metric.Meter) (*otelInstruments, error) {
	o := &otelInstruments{}
	var err error

	o.requests, err = meter.Int64Counter(
		"beszeltrmnl.metrics.requests",
		metric.WithDescription("Requests served on the metrics endpoint"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	o.fetchDuration, err = meter.Float64Histogram(
		"beszeltrmnl.pocketbase.fetch.duration",
		metric.WithDescription("Latency of PocketBase system record fetches"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	o.relays, err = meter.Int64Counter(
		"beszeltrmnl.relay.deliveries",
		metric.WithDescription("TRMNL plugin relay attempts"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, err
	}

	_, err = meter.Int64ObservableGauge(
		"beszeltrmnl.pocketbase.authenticated",
		metric.WithDescription("1 when a PocketBase session is held"),
		metric.WithInt64Callback(func(_ context.Context, obs metric.Int64Observer) error {
			obs.Observe(o.authenticated.Load())
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (o *otelInstruments) addRequest(outcome string) {
	o.requests.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (o *otelInstruments) recordFetch(d time.Duration, outcome string) {
	o.fetchDuration.Record(context.Background(), d.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (o *otelInstruments) addRelay(outcome string) {
	o.relays.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (o *otelInstruments) setAuthenticated(ok bool) {
	if ok {
		o.authenticated.Store(1)
		return
	}
	o.authenticated.Store(0)
}
