package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/datatrader/config"
	"github.com/rustyeddy/datatrader/internal/util"
	"github.com/rustyeddy/datatrader/session"
	"github.com/rustyeddy/datatrader/statistics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a trading session from a config file",
	Long: `Run a backtest or live session using settings from a configuration file.

The config names the price data, strategy, sizer, risk manager and
journals. When the session ends the equity statistics are printed and,
if configured, saved as YAML and summarised in an Org report.

Example:
  datatrader run -f examples/spy_buy_and_hold.yaml`,
	RunE: runRun,
}

var (
	runConfigPath string
	runTesting    bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().BoolVar(&runTesting, "testing", false, "skip saving statistics and reports")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := util.NewLogger(cfg.Log.Level, cmd.ErrOrStderr())
	if cfg.Log.Console {
		log = util.NewConsoleLogger(cfg.Log.Level, cmd.ErrOrStderr())
	}

	s, err := session.FromConfig(cfg, log)
	if err != nil {
		return fmt.Errorf("build session: %w", err)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Running %s session %s (%s)\n", s.Type, cfg.Session.Title, s.RunID)

	r, err := s.StartTrading(ctx)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	if s.Type == session.Live {
		fmt.Fprintln(out, "Live session complete.")
	} else {
		fmt.Fprintln(out, "Backtest complete.")
	}
	fmt.Fprintf(out, "Sharpe Ratio: %0.2f\n", r.Sharpe)
	fmt.Fprintf(out, "Max Drawdown: %0.2f%%\n", r.MaxDrawdownPct)
	fmt.Fprintln(out)
	statistics.Print(out, cfg.Session.Title, r)

	if runTesting {
		return nil
	}

	if cfg.Statistics.Save {
		path := cfg.Statistics.OutputFile
		if path == "" {
			path = filepath.Join(cfg.Journal.OutputDir, statistics.FileName(time.Now()))
		}
		if err := statistics.Save(path, r); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nStatistics saved to: %s\n", path)
	}

	if cfg.Journal.OrgReport != "" {
		if err := s.Report(r).WriteOrg(cfg.Journal.OrgReport); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "Report written to: %s\n", cfg.Journal.OrgReport)
	}
	return nil
}
