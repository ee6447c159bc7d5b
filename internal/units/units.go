// Package units renders byte counts and transfer rates for log output.
package units

import (
	"fmt"
	"time"
)

const prefixes = "KMGTPE"

// Size renders n bytes with binary prefixes: "512 B", "1.5 KiB", "3.0 MiB".
func Size(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v, i := float64(n)/1024, 0
	for v >= 1024 && i < len(prefixes)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %ciB", v, prefixes[i])
}

// Rate renders n bytes moved in d as a per-second figure. Precision shrinks
// as the leading digits grow.
func Rate(n int64, d time.Duration) string {
	if n <= 0 || d <= 0 {
		return "0 B/s"
	}
	v := float64(n) / d.Seconds()
	unit := "B/s"
	for i := 0; v >= 1024 && i < len(prefixes); i++ {
		v /= 1024
		unit = string(prefixes[i]) + "iB/s"
	}
	switch {
	case unit == "B/s":
		return fmt.Sprintf("%.0f %s", v, unit)
	case v < 10:
		return fmt.Sprintf("%.2f %s", v, unit)
	case v < 100:
		return fmt.Sprintf("%.1f %s", v, unit)
	default:
		return fmt.Sprintf("%.0f %s", v, unit)
	}
}
