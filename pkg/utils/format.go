package utils

import (
	"fmt"
	"math"
)

// FormatPercentage formats a float as percentage
func FormatPercentage(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	return fmt.Sprintf("%.1f%%", value)
}

// FormatBytes formats a byte count into a human readable size. Negative
// counts are shown as 0 B.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < 0 {
		bytes = 0
	}
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
