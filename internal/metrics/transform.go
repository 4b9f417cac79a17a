package metrics

import (
	"fmt"
	"math"
	"time"

	constants "beszeltrmnl/config"
	"beszeltrmnl/internal/pocketbase"
)

// TimestampLayout is RFC 3339 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FromRecord builds the metrics document for rec as observed at now.
// It never fails: any missing or unusable field takes its default.
func FromRecord(rec *pocketbase.SystemRecord, now time.Time) Document {
	if rec == nil {
		rec = &pocketbase.SystemRecord{}
	}
	info := rec.Info
	uptime := info.Uptime.Or(0)

	return Document{
		Timestamp:  now.UTC().Format(TimestampLayout),
		SystemID:   orString(rec.ID, constants.DEFAULT_UNKNOWN),
		SystemName: orString(rec.Name, constants.DEFAULT_UNKNOWN),
		HostInfo: HostInfo{
			Hostname:      info.Hostname.Or(constants.DEFAULT_UNKNOWN),
			Kernel:        info.Kernel.Or(constants.DEFAULT_UNKNOWN),
			CPUModel:      info.CPUModel.Or(constants.DEFAULT_UNKNOWN),
			BeszelVersion: info.AgentVersion.Or(constants.DEFAULT_UNKNOWN),
		},
		CPU: CPU{
			UsagePercent: info.CPU.Or(0),
			Cores:        info.Cores.Or(0),
			Threads:      info.Threads.Or(0),
			LoadAvg: LoadAvg{
				Load1m:    info.Load1.Or(0),
				Load5m:    info.Load5.Or(0),
				Load15m:   info.Load15.Or(0),
				LoadArray: loadArray(info.LoadAvg),
			},
		},
		Memory: Memory{UsagePercent: info.MemPercent.Or(0)},
		Disk: Disk{
			UsagePercent: info.DiskPercent.Or(0),
			Temperature:  info.DiskTemp.Or(0),
		},
		Network: Network{
			BandwidthBits: info.Bandwidth.Or(0),
			BytesTotal:    info.Bytes.Or(0),
		},
		Uptime: Uptime{
			Seconds:   uptime,
			Formatted: FormatUptime(uptime),
		},
		LoadStats: LoadStats{
			OperatingSystem: info.OS.Or(0),
			ContainerCount:  info.Containers.Or(0),
		},
		Status:      orString(rec.Status, constants.DEFAULT_UNKNOWN_STATUS),
		Port:        rec.Port.Or(constants.DEFAULT_UNKNOWN_STATUS),
		LastUpdated: orString(rec.Updated, orString(rec.Created, constants.DEFAULT_UNKNOWN)),
	}
}

// FormatUptime renders seconds as "{d}d {h}h {m}m {s}s". Negative and
// non-finite input is treated as zero.
func FormatUptime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	days := math.Floor(seconds / 86400)
	hours := math.Floor(math.Mod(seconds, 86400) / 3600)
	minutes := math.Floor(math.Mod(seconds, 3600) / 60)
	secs := math.Floor(math.Mod(seconds, 60))
	return fmt.Sprintf("%.0fd %.0fh %.0fm %.0fs", days, hours, minutes, secs)
}

// loadArray always returns a non-nil slice so it encodes as [].
func loadArray(la pocketbase.LooseNumbers) []float64 {
	out := make([]float64, len(la))
	copy(out, la)
	return out
}

func orString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
