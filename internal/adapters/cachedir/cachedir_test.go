package cachedir

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestFormatEpoch(t *testing.T) {
	// Wednesday 2024-01-03 is ISO week 1 of ISO year 2024
	day := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		format string
		want   string
	}{
		{"YW", "202401"},
		{"Ymd", "20240103"},
		{"yW", "2401"},
		{"oW", "202401"},
		{"Y-m", "2024-01"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, FormatEpoch(tc.format, day), "format %q", tc.format)
	}

	// calendar year vs ISO year diverge around new year:
	// 2023-01-01 is a Sunday belonging to ISO week 52 of ISO year 2022
	edge := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "202352", FormatEpoch("YW", edge))
	require.Equal(t, "202252", FormatEpoch("oW", edge))
}

func TestPutGetRoundTrip(t *testing.T) {
	s, err := New(t.TempDir(), WithClock(fixedClock(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, err)

	payload := []byte(`{"v":1,"record":{"company_id":"73263753"}}`)
	require.NoError(t, s.Put("bas", "73263753", payload))

	got, ok := s.Get("bas", "73263753")
	require.True(t, ok)
	require.Equal(t, payload, got)

	// entry file carries kind, key and epoch
	_, err = os.Stat(filepath.Join(s.Dir(), "bas_73263753_202401.json"))
	require.NoError(t, err)
}

func TestGetMissesAcrossEpochs(t *testing.T) {
	dir := t.TempDir()

	week1, err := New(dir, WithClock(fixedClock(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, err)
	require.NoError(t, week1.Put("bas", "123", []byte("old")))

	week2, err := New(dir, WithClock(fixedClock(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, err)

	_, ok := week2.Get("bas", "123")
	require.False(t, ok, "a new epoch must be a cache miss")

	// the stale file is abandoned, not deleted
	_, err = os.Stat(filepath.Join(dir, "bas_123_202401.json"))
	require.NoError(t, err)
}

func TestGetTreatsMissingAsMiss(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, ok := s.Get("tax", "nope")
	require.False(t, ok)
}

func TestPutRawOnlyInDebug(t *testing.T) {
	clock := WithClock(fixedClock(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)))

	quiet, err := New(t.TempDir(), clock)
	require.NoError(t, err)
	quiet.PutRaw("bas", "1", []byte("body"))
	entries, err := os.ReadDir(quiet.Dir())
	require.NoError(t, err)
	require.Empty(t, entries, "raw file written without debug")

	loud, err := New(t.TempDir(), clock, WithDebug(true))
	require.NoError(t, err)
	loud.PutRaw("bas", "1", []byte("body"))
	raw, err := os.ReadFile(filepath.Join(loud.Dir(), "bas_raw_1_202401.raw"))
	require.NoError(t, err)
	require.Equal(t, []byte("body"), raw)
}

func TestNoPartialFilesLeftBehind(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Put("find", "abc", []byte("data")))

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), ".part")
	}
}
