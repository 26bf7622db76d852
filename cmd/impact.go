package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ad-metrics/internal/aggregator"
	"github.com/pable/go-ad-metrics/internal/charts"
	"github.com/pable/go-ad-metrics/internal/report"
	"github.com/pable/go-ad-metrics/internal/storage"
)

var (
	impactSort string
	impactAsc  bool
	impactHTML string
)

var impactCmd = &cobra.Command{
	Use:   "impact <match-id>",
	Short: "Show per-player role and impact profiles",
	Long: `Sum each player's per-ability stat shifts and Aghanim upgrade rates.
Columns: kills, deaths, assists, ka, gpm, xpm, damage, healing, scepter, shard.
Cells are colored by min-max position within their column; lower is better
for deaths.`,
	Args: cobra.ExactArgs(1),
	RunE: runImpact,
}

func init() {
	impactCmd.Flags().StringVar(&impactSort, "sort", "", "column to sort by (descending)")
	impactCmd.Flags().BoolVar(&impactAsc, "asc", false, "sort ascending instead")
	impactCmd.Flags().StringVar(&impactHTML, "html", "", "write an HTML bar chart per column to this file")
}

func runImpact(cmd *cobra.Command, args []string) error {
	id, err := parseMatchID(args[0])
	if err != nil {
		return err
	}

	var sort aggregator.SortState
	if impactSort != "" {
		col, err := aggregator.ParseColumn(impactSort)
		if err != nil {
			return err
		}
		sort = sort.Toggle(col)
		if impactAsc {
			sort = sort.Toggle(col)
		}
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

	rows := aggregator.Aggregate(lm.Match, snap, cat, lm.Timeline.Order())
	report.PrintMatchHeader(os.Stdout, lm.Match, hashOf(lm), snap)
	report.PrintImpactTable(os.Stdout, aggregator.SortRows(rows, sort), sort, cat)

	if impactHTML != "" {
		config := charts.DefaultChartConfig()
		config.Title = fmt.Sprintf("Match %d impact", id)
		err := charts.WriteFile(impactHTML, func(w io.Writer) error {
			return charts.RenderImpactPage(w, rows, cat, config)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "\nChart written to %s\n", impactHTML)
	}
	return nil
}
