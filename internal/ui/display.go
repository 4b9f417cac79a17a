package ui

import (
	"fmt"
	"strings"

	"beszeltrmnl/internal/metrics"
	"beszeltrmnl/pkg/utils"
)

// Row is one key/value line inside a section.
type Row struct {
	Key   string
	Value string
}

// RenderSection renders rows inside a titled box. Keys are padded to the
// longest key so values line up.
func RenderSection(title string, rows []Row) string {
	width := 0
	for _, r := range rows {
		if len(r.Key) > width {
			width = len(r.Key)
		}
	}

	var b strings.Builder
	b.WriteString(RenderSectionStart(title))
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(RenderKeyValue(fmt.Sprintf("%-*s", width, r.Key), r.Value))
		b.WriteByte('\n')
	}
	b.WriteString(RenderSectionEnd())
	b.WriteByte('\n')
	return b.String()
}

// RenderDocument renders a metrics document for the terminal.
func RenderDocument(doc metrics.Document) string {
	var b strings.Builder

	b.WriteString(RenderSection("System", []Row{
		{"Name", doc.SystemName},
		{"ID", doc.SystemID},
		{"Status", doc.Status},
		{"Port", doc.Port},
		{"Last updated", doc.LastUpdated},
	}))
	b.WriteString(RenderSection("Host", []Row{
		{"Hostname", doc.HostInfo.Hostname},
		{"Kernel", doc.HostInfo.Kernel},
		{"CPU model", doc.HostInfo.CPUModel},
		{"Beszel agent", doc.HostInfo.BeszelVersion},
		{"Uptime", doc.Uptime.Formatted},
	}))

	load := doc.CPU.LoadAvg
	b.WriteString(RenderSection("Resources", []Row{
		{"CPU", usage(doc.CPU.UsagePercent)},
		{"Cores / threads", fmt.Sprintf("%.0f / %.0f", doc.CPU.Cores, doc.CPU.Threads)},
		{"Load", fmt.Sprintf("%.2f %.2f %.2f", load.Load1m, load.Load5m, load.Load15m)},
		{"Memory", usage(doc.Memory.UsagePercent)},
		{"Disk", usage(doc.Disk.UsagePercent)},
		{"Disk temperature", fmt.Sprintf("%.1f°C", doc.Disk.Temperature)},
		{"Network", utils.FormatBytes(int64(doc.Network.BytesTotal))},
		{"Containers", fmt.Sprintf("%.0f", doc.LoadStats.ContainerCount)},
	}))

	b.WriteString(MutedStyle.Render("  fetched at " + doc.Timestamp))
	b.WriteByte('\n')
	return b.String()
}

func usage(percent float64) string {
	return RenderProgressBar(percent, 20) + " " + utils.FormatPercentage(percent)
}
