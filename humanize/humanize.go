// Package humanize formats byte counts and rates for CLI output.
package humanize

import "fmt"

func BPS(bps uint64) string {
	switch {
	case bps > (1024 * 1024):
		return fmt.Sprintf("%.f MiB/s", float64(bps)/1024/1024)
	case bps > 1024:
		return fmt.Sprintf("%.f KiB/s", float64(bps)/1024)
	default:
		return fmt.Sprintf("%d B/s", bps)
	}
}

func Bytes(bytes uint64) string {
	switch {
	case bytes > (1024 * 1024):
		return fmt.Sprintf("%.1f MiB", float64(bytes)/1024/1024)
	case bytes > 1024:
		return fmt.Sprintf("%.f KiB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// Sectors formats a sector count together with its byte size,
// e.g. "2880 sectors (1.4 MiB)".
func Sectors(sectors int, sectorSize int) string {
	return fmt.Sprintf("%d sectors (%s)", sectors, Bytes(uint64(sectors)*uint64(sectorSize)))
}
