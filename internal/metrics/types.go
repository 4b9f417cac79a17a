// Package metrics turns a Beszel system record into the fixed-shape
// document served on /metrics and relayed to the TRMNL plugin.
package metrics

// =============================================================================
// Document
// =============================================================================

// Document is the metrics document. Every field is always present in the
// encoded output; missing source values are replaced by defaults.
type Document struct {
	Timestamp   string    `json:"timestamp" cbor:"timestamp"`
	SystemID    string    `json:"system_id" cbor:"system_id"`
	SystemName  string    `json:"system_name" cbor:"system_name"`
	HostInfo    HostInfo  `json:"host_info" cbor:"host_info"`
	CPU         CPU       `json:"cpu" cbor:"cpu"`
	Memory      Memory    `json:"memory" cbor:"memory"`
	Disk        Disk      `json:"disk" cbor:"disk"`
	Network     Network   `json:"network" cbor:"network"`
	Uptime      Uptime    `json:"uptime" cbor:"uptime"`
	LoadStats   LoadStats `json:"load_stats" cbor:"load_stats"`
	Status      string    `json:"status" cbor:"status"`
	Port        string    `json:"port" cbor:"port"`
	LastUpdated string    `json:"last_updated" cbor:"last_updated"`
}

// HostInfo identifies the monitored host and its agent.
type HostInfo struct {
	Hostname      string `json:"hostname" cbor:"hostname"`
	Kernel        string `json:"kernel" cbor:"kernel"`
	CPUModel      string `json:"cpu_model" cbor:"cpu_model"`
	BeszelVersion string `json:"beszel_version" cbor:"beszel_version"`
}

// CPU contains usage and topology.
type CPU struct {
	UsagePercent float64 `json:"usage_percent" cbor:"usage_percent"`
	Cores        float64 `json:"cores" cbor:"cores"`
	Threads      float64 `json:"threads" cbor:"threads"`
	LoadAvg      LoadAvg `json:"load_avg" cbor:"load_avg"`
}

// LoadAvg holds the individual load averages and the raw array as reported.
type LoadAvg struct {
	Load1m    float64   `json:"load_1m" cbor:"load_1m"`
	Load5m    float64   `json:"load_5m" cbor:"load_5m"`
	Load15m   float64   `json:"load_15m" cbor:"load_15m"`
	LoadArray []float64 `json:"load_array" cbor:"load_array"`
}

// Memory only carries a percentage; Beszel does not report totals.
type Memory struct {
	UsagePercent float64 `json:"usage_percent" cbor:"usage_percent"`
}

type Disk struct {
	UsagePercent float64 `json:"usage_percent" cbor:"usage_percent"`
	Temperature  float64 `json:"temperature" cbor:"temperature"`
}

type Network struct {
	BandwidthBits float64 `json:"bandwidth_bits" cbor:"bandwidth_bits"`
	BytesTotal    float64 `json:"bytes_total" cbor:"bytes_total"`
}

type Uptime struct {
	Seconds   float64 `json:"seconds" cbor:"seconds"`
	Formatted string  `json:"formatted" cbor:"formatted"`
}

type LoadStats struct {
	OperatingSystem float64 `json:"operating_system" cbor:"operating_system"`
	ContainerCount  float64 `json:"container_count" cbor:"container_count"`
}

// =============================================================================
// Envelope
// =============================================================================

// Envelope is the TRMNL merge-variables wrapper. It is both the /metrics
// success body and the relay payload.
type Envelope struct {
	MergeVariables MergeVariables `json:"merge_variables" cbor:"merge_variables"`
}

type MergeVariables struct {
	Data Document `json:"data" cbor:"data"`
}

// Wrap puts doc into an Envelope.
func Wrap(doc Document) Envelope {
	return Envelope{MergeVariables: MergeVariables{Data: doc}}
}

// ErrorBody is the /metrics failure body.
type ErrorBody struct {
	Success bool   `json:"success" cbor:"success"`
	Error   string `json:"error" cbor:"error"`
	Message string `json:"message" cbor:"message"`
}
