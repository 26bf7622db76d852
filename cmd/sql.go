package cmd

import (
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-ad-metrics/internal/storage"
)

var sqlJSON bool

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  matches(match_id, hash, radiant_win, pick_count, imported_at, payload)
  match_players(match_id, team, slot, account_id, name, hero_id, kills, deaths,
    assists, gpm, xpm)
  ability_stats(ability_id, winrate, num_picks, avg_pick_position)
  ability_pair_stats(ability_low, ability_high, winrate, num_picks)
  ability_shift_stats(ability_id, kills_shift, deaths_shift, kill_assist_shift,
    gpm_shift, xpm_shift, dmg_shift, healing_shift)
  aghs_stats(ability_id, total_games, scepter_total, scepter_winrate, shard_total, ...)
  abilities(ability_id, name, short_name, is_ultimate, owner_hero, has_scepter, has_shard)
  heroes(hero_id, name, picture)

Note: innate abilities are stored as negative ids (-hero_id). Pair rows always
have ability_low < ability_high.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func init() {
	sqlCmd.Flags().BoolVar(&sqlJSON, "json", false, "print rows as a JSON array of objects")
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if sqlJSON {
		return printRowsJSON(cols, rows)
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}


// printRowsJSON writes rows as objects keyed by column name. NULL cells
// become JSON null.
func printRowsJSON(cols []string, rows [][]string) error {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]any, len(cols))
		for i, c := range cols {
			if row[i] == "NULL" {
				obj[c] = nil
				continue
			}
			obj[c] = row[i]
		}
		out = append(out, obj)
	}
	enc := jsoniter.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
