// Package timeutil parses expiry strings and renders human-readable
// durations for run summaries.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var expiryToken = regexp.MustCompile(`([0-9]+)([smhdw])`)

var unitSeconds = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 60 * 60,
	"d": 60 * 60 * 24,
	"w": 60 * 60 * 24 * 7,
}

// ParseExpiry sums every `<integer><unit>` token in s, with units of
// seconds, minutes, hours, days and weeks. The literal "never" parses as
// a negative duration, meaning cache indefinitely. Unrecognized text
// contributes nothing, so an absent or unparseable expiry sums to zero,
// which a caller comparing against elapsed wall-clock time treats as
// already expired.
func ParseExpiry(s string) time.Duration {
	if strings.TrimSpace(s) == "never" {
		return -1
	}
	var seconds int64
	for _, token := range expiryToken.FindAllStringSubmatch(s, -1) {
		n, err := strconv.ParseInt(token[1], 10, 64)
		if err != nil {
			continue
		}
		seconds += n * unitSeconds[token[2]]
	}
	return time.Duration(seconds) * time.Second
}

// Humanize renders a duration as abbreviated week/day/hour/minute/second
// segments, e.g. "1m 32s". Sub-second durations render as "0s".
func Humanize(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d.Round(time.Second) / time.Second)
	units := []struct {
		suffix string
		size   int64
	}{
		{"w", 60 * 60 * 24 * 7},
		{"d", 60 * 60 * 24},
		{"h", 60 * 60},
		{"m", 60},
		{"s", 1},
	}
	var parts []string
	for _, u := range units {
		if seconds >= u.size {
			parts = append(parts, fmt.Sprintf("%d%s", seconds/u.size, u.suffix))
			seconds %= u.size
		}
	}
	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}
