package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ad-metrics/internal/report"
	"github.com/pable/go-ad-metrics/internal/storage"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Show a stored match with repaired ownership and synergy",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "also print the ability lists as stored, before repair")
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseMatchID(args[0])
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cat, snap, err := loadReference(db)
	if err != nil {
		return err
	}
	lm, err := loadMatch(db, id, cat)
	if err != nil {
		return err
	}
	if lm == nil {
		fmt.Fprintf(os.Stderr, "No match found with id %d\n", id)
		return nil
	}

	report.PrintMatchHeader(os.Stdout, lm.Match, hashOf(lm), snap)
	if showRaw {
		fmt.Fprintf(os.Stdout, "--- As stored ---\n\n")
		report.PrintPlayerTable(os.Stdout, lm.Raw, cat, snap, lm.Timeline.Order())
		fmt.Fprintf(os.Stdout, "\n--- Repaired ---\n\n")
	}
	report.PrintPlayerTable(os.Stdout, lm.Match, cat, snap, lm.Timeline.Order())
	fmt.Fprintln(os.Stdout)
	report.PrintRepairLog(os.Stdout, lm.Repair, lm.Match, cat)
	return nil
}
