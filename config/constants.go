package constants

import "time"

// Service descriptor served on GET /
const (
	SERVICE_NAME    = "TRMNL Beszel System Metrics API"
	SERVICE_VERSION = "1.0.0"
	BINARY_NAME     = "beszeltrmnl"
)

// HTTP surface
const (
	ROOT_PATH    = "/"
	METRICS_PATH = "/metrics"

	DEFAULT_PORT        = 3000
	DEFAULT_LISTEN_HOST = "0.0.0.0"
)

// PocketBase (Beszel hub) endpoints and query shape
const (
	PB_AUTH_COLLECTION    = "users"
	PB_SYSTEMS_COLLECTION = "systems"
	PB_AUTH_PATH          = "/api/collections/" + PB_AUTH_COLLECTION + "/auth-with-password"
	PB_RECORDS_PATH       = "/api/collections/" + PB_SYSTEMS_COLLECTION + "/records"
	PB_SORT_NEWEST        = "-created"
	PB_STATUS_UP          = "up"
	PB_PAGE_SIZE          = 1
)

// TRMNL private plugin webhook
const (
	// PLUGIN_URL_PLACEHOLDER is the value shipped in the sample .env; it disables the relay.
	PLUGIN_URL_PLACEHOLDER = "your-plugin-url-here"
)

// HTTP headers
const (
	HEADER_USER_AGENT = "beszeltrmnl/" + SERVICE_VERSION
	HEADER_REQUEST_ID = "X-Request-Id"
)

// Metrics document defaults
const (
	DEFAULT_UNKNOWN        = "Unknown"
	DEFAULT_UNKNOWN_STATUS = "unknown"
)

// Error envelope
const (
	METRICS_ERROR_LABEL = "Failed to process system metrics"
)

// Credentials stored in the OS keyring
const (
	KEYRING_SERVICE      = "beszeltrmnl"
	KEYRING_PASSWORD_KEY = "pocketbase-password"
)

// Configuration files
const (
	DOTENV_FILE = ".env"
)

// Telemetry
const (
	METRICS_NAMESPACE = "beszeltrmnl"
	OTEL_METER_NAME   = "beszeltrmnl/telemetry"

	OTLP_EXPORT_INTERVAL  = 30 * time.Second
	OTLP_EXPORT_TIMEOUT   = 30 * time.Second
	OTLP_SHUTDOWN_TIMEOUT = 5 * time.Second
)

// systemd / service manager
const (
	SERVICE_DESCRIPTION = "TRMNL Beszel system metrics bridge"
)
