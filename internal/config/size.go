package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSize parses a human-readable size string into bytes.
// Supports: 100, 100B, 100K, 100M, 100G, 100T and the KB/MB/GB/TB and
// KiB/MiB/GiB/TiB spellings (case-insensitive). Uses powers of 1024.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	upper := strings.ToUpper(s)
	upper = strings.TrimSuffix(upper, "IB")
	if len(upper) > 1 && strings.HasSuffix(upper, "B") && strings.ContainsAny(upper[len(upper)-2:len(upper)-1], "KMGT") {
		upper = upper[:len(upper)-1]
	}
	if upper == "" {
		return 0, fmt.Errorf("invalid size: %q", s)
	}

	multiplier := int64(1)
	numStr := upper
	switch upper[len(upper)-1] {
	case 'B':
		numStr = upper[:len(upper)-1]
	case 'K':
		multiplier = 1 << 10
		numStr = upper[:len(upper)-1]
	case 'M':
		multiplier = 1 << 20
		numStr = upper[:len(upper)-1]
	case 'G':
		multiplier = 1 << 30
		numStr = upper[:len(upper)-1]
	case 'T':
		multiplier = 1 << 40
		numStr = upper[:len(upper)-1]
	}

	if numStr == "" {
		return 0, fmt.Errorf("invalid size: %q", s)
	}

	if n, err := strconv.ParseInt(numStr, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative size: %q", s)
		}
		return n * multiplier, nil
	}

	f, err := strconv.ParseFloat(numStr, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid size: %q", s)
	}
	return int64(f * float64(multiplier)), nil
}

// FormatSize renders n in the largest unit that divides it exactly, so the
// result parses back to n: 81920 -> "80K", 1000 -> "1000".
func FormatSize(n int64) string {
	if n <= 0 {
		return strconv.FormatInt(n, 10)
	}
	for _, u := range []struct {
		suffix string
		shift  uint
	}{{"T", 40}, {"G", 30}, {"M", 20}, {"K", 10}} {
		if n%(1<<u.shift) == 0 {
			return strconv.FormatInt(n>>u.shift, 10) + u.suffix
		}
	}
	return strconv.FormatInt(n, 10)
}
