package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/datatrader/journal"
	"github.com/rustyeddy/datatrader/market"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the fill journal",
	Long: `Query and display records from a SQLite journal.

Subcommands:
  fill    - Get details of a specific fill by ID
  fills   - List fills, optionally for one day
  equity  - Print the recorded equity curve

Examples:
  datatrader journal fill <fill-id>
  datatrader journal fills --day 2016-01-05
  datatrader journal equity`,
}

var journalFillCmd = &cobra.Command{
	Use:   "fill <fill-id>",
	Short: "Get details of a specific fill",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalFill,
}

var journalFillsCmd = &cobra.Command{
	Use:   "fills",
	Short: "List fills",
	Args:  cobra.NoArgs,
	RunE:  runJournalFills,
}

var journalEquityCmd = &cobra.Command{
	Use:   "equity",
	Short: "Print the equity curve",
	Args:  cobra.NoArgs,
	RunE:  runJournalEquity,
}

var (
	journalDBPath string
	journalDay    string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalFillCmd)
	journalCmd.AddCommand(journalFillsCmd)
	journalCmd.AddCommand(journalEquityCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./out/datatrader.sqlite", "path to SQLite journal DB")
	journalFillsCmd.Flags().StringVar(&journalDay, "day", "", "only fills on this day (YYYY-MM-DD, UTC)")
}

func runJournalFill(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.GetFill(args[0])
	if err != nil {
		return fmt.Errorf("get fill: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatFillOrg(rec))
	return nil
}

func runJournalFills(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	var recs []journal.FillRecord
	if journalDay == "" {
		recs, err = j.ListFills()
	} else {
		start, end, derr := dayBounds(time.UTC, journalDay)
		if derr != nil {
			return fmt.Errorf("date: %w", derr)
		}
		recs, err = j.ListFillsBetween(start, end)
	}
	if err != nil {
		return fmt.Errorf("query fills: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatFillsOrg(recs))
	return nil
}

func runJournalEquity(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	snaps, err := j.ListEquity()
	if err != nil {
		return fmt.Errorf("query equity: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-25s %14s %14s %6s\n", "time", "cash", "equity", "open")
	for _, s := range snaps {
		fmt.Fprintf(out, "%-25s %14s %14s %6d\n", s.Time.Format(time.RFC3339),
			market.Format(s.Cash, 2), market.Format(s.Equity, 2), s.OpenPositions)
	}
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1), nil
}
