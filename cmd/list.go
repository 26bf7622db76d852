package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ad-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'admetrics parse <match.json>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-7s  %5s  %-14s  %s\n",
		"MATCH", "WINNER", "PICKS", "HASH", "IMPORTED")
	fmt.Fprintf(os.Stdout, "%-12s  %-7s  %5s  %-14s  %s\n",
		"────────────", "───────", "─────", "──────────────", "───────────────────")
	for _, m := range matches {
		winner := "Dire"
		if m.RadiantWin {
			winner = "Radiant"
		}
		hash := m.Hash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		fmt.Fprintf(os.Stdout, "%-12d  %-7s  %5d  %-14s  %s\n",
			m.MatchID, winner, m.PickCount, hash, m.ImportedAt)
	}
	return nil
}
