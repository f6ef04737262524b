package format

import (
	"fmt"
)

// FormatBytes returns a human-readable byte size (e.g. "1.5 MB").
func Bytes(b int64) string {
	const unit = 1024
	if b < unit {
		return Itoa64(b) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// Number formats an int with K/M suffixes for display (e.g. 1500 → "1.5K").
func Number(n int) string {
	if n >= 1000000 {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	} else if n >= 1000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}

// Itoa formats an int as a string.
func Itoa(i int) string {
	return fmt.Sprintf("%d", i)
}

// Itoa64 formats an int64 as a string.
func Itoa64(i int64) string {
	return fmt.Sprintf("%d", i)
}

// Truncate returns s truncated to max characters with "..." suffix.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
