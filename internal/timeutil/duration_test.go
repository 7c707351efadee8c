package timeutil_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/awkspace/runfile/internal/timeutil"
)

func TestParseExpiry(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"5m", 5 * time.Minute},
		{"1h30m", 90 * time.Minute},
		{"1d", 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
		{"1d12h", 36 * time.Hour},
		{"", 0},
		{"garbage", 0},
		{"10", 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, timeutil.ParseExpiry(tc.in))
		})
	}
}

func TestParseExpiry_Never(t *testing.T) {
	assert.Negative(t, timeutil.ParseExpiry("never"))
}

func TestHumanize(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{400 * time.Millisecond, "0s"},
		{92 * time.Second, "1m 32s"},
		{time.Hour + 5*time.Second, "1h 5s"},
		{25 * time.Hour, "1d 1h"},
		{8 * 24 * time.Hour, "1w 1d"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, timeutil.Humanize(tc.in))
		})
	}
}
