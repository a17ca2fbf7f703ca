package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	require.Equal(t, 90*time.Minute, ParseDuration("1h30m", time.Hour))
	require.Equal(t, time.Hour, ParseDuration("nonsense", time.Hour))
	require.Equal(t, time.Hour, ParseDuration("", time.Hour))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-01")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("01/02/2026")
	require.Error(t, err)
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2026, time.May, 15, 13, 45, 12, 999, time.UTC)
	require.Equal(t, time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC), DateOnly(in))
}
