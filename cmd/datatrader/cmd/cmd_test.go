package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/datatrader/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append(args, "--env", filepath.Join(t.TempDir(), "missing.env")))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestConfigInitThenValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")

	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Strategy: buy_and_hold")
}

func TestRunBacktest(t *testing.T) {
	data := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(data, "SPY.csv"), []byte(`Date,Open,High,Low,Close,Adj Close,Volume
2016-01-04,200.49,201.03,198.59,201.02,190.00,222353500
2016-01-05,201.40,201.90,200.05,201.36,200.00,110845800
`), 0o644))

	outDir := t.TempDir()
	cfg := config.Default()
	cfg.Data.CSVDir = data
	cfg.Journal.OutputDir = outDir
	cfg.Journal.OrgReport = filepath.Join(outDir, "report.org")
	cfg.Statistics.Save = true
	cfg.Statistics.OutputFile = filepath.Join(outDir, "stats.yaml")
	cfg.Log.Level = "error"
	path := filepath.Join(outDir, "session.yaml")
	require.NoError(t, cfg.SaveToFile(path))

	out, err := execute(t, "run", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Backtest complete.")
	assert.Contains(t, out, "Sharpe Ratio:")
	assert.FileExists(t, filepath.Join(outDir, "stats.yaml"))
	assert.FileExists(t, filepath.Join(outDir, "report.org"))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "datatrader version")
}
