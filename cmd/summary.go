package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-ad-metrics/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about the database: stored match count,
import date range, side win split, loaded aggregate tables and the most
played heroes.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Matches stored   : %d\n", ov.TotalMatches)
	if ov.TotalMatches > 0 {
		fmt.Fprintf(os.Stdout, "  Import range     : %s → %s\n", ov.EarliestImport, ov.LatestImport)
		fmt.Fprintf(os.Stdout, "  Radiant wins     : %d (%.0f%%)\n",
			ov.RadiantWins, 100*float64(ov.RadiantWins)/float64(ov.TotalMatches))
	}
	fmt.Fprintf(os.Stdout, "  Players seen     : %d\n", ov.UniquePlayers)

	fmt.Fprintf(os.Stdout, "\n--- Aggregate Tables ---\n\n")
	st := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	st.Header("TABLE", "ROWS")
	st.Append("ability stats", fmt.Sprintf("%d", ov.AbilityStats))
	st.Append("pair stats", fmt.Sprintf("%d", ov.PairStats))
	st.Append("  qualifying pairs", fmt.Sprintf("%d", ov.QualifyingPairs))
	st.Append("shift stats", fmt.Sprintf("%d", ov.ShiftStats))
	st.Append("aghs stats", fmt.Sprintf("%d", ov.AghsStats))
	st.Append("abilities", fmt.Sprintf("%d", ov.Abilities))
	st.Append("heroes", fmt.Sprintf("%d", ov.Heroes))
	st.Render()

	if ov.TotalMatches == 0 {
		fmt.Fprintln(os.Stdout, "\nNo matches stored yet. Run 'admetrics parse <match.json>' to add one.")
		return nil
	}

	cat, err := db.LoadCatalog()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	heroes, err := db.GetTopHeroes(10)
	if err != nil {
		return fmt.Errorf("get top heroes: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Most Played Heroes ---\n\n")
	ht := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	ht.Header("HERO", "MATCHES", "WINS", "WIN%")
	for _, h := range heroes {
		ht.Append(
			cat.HeroName(h.HeroID),
			fmt.Sprintf("%d", h.Matches),
			fmt.Sprintf("%d", h.Wins),
			fmt.Sprintf("%.0f%%", 100*float64(h.Wins)/float64(h.Matches)),
		)
	}
	ht.Render()
	return nil
}
