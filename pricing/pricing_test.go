package pricing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/rustyeddy/datatrader/market"
)

var px = market.MustParse

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func writeXZ(t *testing.T, dir, name, content string) {
	t.Helper()

	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	w, err := xz.NewWriter(f)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{"01.02.2016 00:00:01.358", time.Date(2016, 2, 1, 0, 0, 1, 358_000_000, time.UTC)},
		{"01.02.2016 00:00:02", time.Date(2016, 2, 1, 0, 0, 2, 0, time.UTC)},
		{"2016-02-01", time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"2016-02-01T10:00:00Z", time.Date(2016, 2, 1, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTime(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), got)
		})
	}

	_, err := parseTime("yesterday")
	assert.Error(t, err)
}

func TestInRange(t *testing.T) {
	t.Parallel()

	d := func(day int) time.Time { return time.Date(2016, 1, day, 0, 0, 0, 0, time.UTC) }

	assert.True(t, inRange(d(5), time.Time{}, time.Time{}))
	assert.True(t, inRange(d(5), d(5), d(6)))
	assert.False(t, inRange(d(6), d(5), d(6)))
	assert.False(t, inRange(d(4), d(5), time.Time{}))
}

func TestOpenCSVMissing(t *testing.T) {
	t.Parallel()

	_, err := openCSV(t.TempDir(), "NOPE")
	assert.ErrorIs(t, err, ErrNoData)
}
