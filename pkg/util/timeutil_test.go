package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalDateCrossesMidnight(t *testing.T) {
	ts := time.Date(2024, 6, 1, 20, 30, 0, 0, time.UTC)
	require.Equal(t, "2024-06-01", LocalDate(ts, nil))
	require.Equal(t, "2024-06-02", LocalDate(ts, time.FixedZone("JST", 9*60*60)))
}

func TestResolveZone(t *testing.T) {
	fallback := time.FixedZone("fallback", 3600)

	require.Equal(t, "UTC", ResolveZone("UTC", 0, fallback).String())
	require.Equal(t, 7200, offsetOf(ResolveZone("Nowhere/Invalid", 7200, fallback)))
	require.Equal(t, fallback, ResolveZone("", 0, fallback))
	require.Equal(t, time.UTC, ResolveZone("", 0, nil))
}

func offsetOf(loc *time.Location) int {
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	return offset
}

func TestNowUTC(t *testing.T) {
	before := time.Now()
	now := NowUTC()
	require.Equal(t, time.UTC, now.Location())
	require.False(t, now.Before(before.Truncate(time.Second)))
}
