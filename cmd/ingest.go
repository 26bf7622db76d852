package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-ad-metrics/internal/parser"
	"github.com/pable/go-ad-metrics/internal/storage"
)

var (
	ingestAbilities string
	ingestPairs     string
	ingestShifts    string
	ingestAghs      string
	ingestCatalog   string
	ingestHeroes    string
)

// ingestCmd replaces aggregate statistics and catalog tables from JSON exports.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load aggregate ability statistics and the ability/hero catalog",
	Long: `Replace the stored aggregate tables from JSON exports (optionally .zst).
Every flag is optional; only the tables whose file is given are replaced.
Each replacement is a single transaction.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestAbilities, "abilities", "", "ability stats file")
	ingestCmd.Flags().StringVar(&ingestPairs, "pairs", "", "ability pair stats file")
	ingestCmd.Flags().StringVar(&ingestShifts, "shifts", "", "ability shift stats file")
	ingestCmd.Flags().StringVar(&ingestAghs, "aghs", "", "Aghanim's Scepter/Shard stats file")
	ingestCmd.Flags().StringVar(&ingestCatalog, "ability-catalog", "", "ability catalog file")
	ingestCmd.Flags().StringVar(&ingestHeroes, "heroes", "", "hero catalog file")
}

// ingestStep loads one file and replaces one table, returning the row count.
type ingestStep struct {
	name string
	path string
	run  func(db *storage.DB, path string) (int, error)
}

func runIngest(cmd *cobra.Command, args []string) error {
	steps := []ingestStep{
		{"ability stats", ingestAbilities, func(db *storage.DB, path string) (int, error) {
			stats, err := parser.ParseAbilityStats(path)
			if err != nil {
				return 0, err
			}
			return len(stats), db.ReplaceAbilityStats(stats)
		}},
		{"pair stats", ingestPairs, func(db *storage.DB, path string) (int, error) {
			stats, err := parser.ParsePairStats(path)
			if err != nil {
				return 0, err
			}
			return len(stats), db.ReplacePairStats(stats)
		}},
		{"shift stats", ingestShifts, func(db *storage.DB, path string) (int, error) {
			stats, err := parser.ParseShiftStats(path)
			if err != nil {
				return 0, err
			}
			return len(stats), db.ReplaceShiftStats(stats)
		}},
		{"aghs stats", ingestAghs, func(db *storage.DB, path string) (int, error) {
			stats, err := parser.ParseAghsStats(path)
			if err != nil {
				return 0, err
			}
			return len(stats), db.ReplaceAghsStats(stats)
		}},
		{"ability catalog", ingestCatalog, func(db *storage.DB, path string) (int, error) {
			abilities, err := parser.ParseAbilityCatalog(path)
			if err != nil {
				return 0, err
			}
			return len(abilities), db.ReplaceAbilities(abilities)
		}},
		{"hero catalog", ingestHeroes, func(db *storage.DB, path string) (int, error) {
			heroes, err := parser.ParseHeroCatalog(path)
			if err != nil {
				return 0, err
			}
			return len(heroes), db.ReplaceHeroes(heroes)
		}},
	}

	requested := false
	for _, s := range steps {
		if s.path != "" {
			requested = true
		}
	}
	if !requested {
		return fmt.Errorf("nothing to ingest: pass at least one of --abilities, --pairs, --shifts, --aghs, --ability-catalog, --heroes")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	l := log.WithField("component", "ingest")
	for _, s := range steps {
		if s.path == "" {
			continue
		}
		n, err := s.run(db, s.path)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", s.name, err)
		}
		l.WithField("table", s.name).WithField("rows", n).Debug("replaced")
		fmt.Fprintf(os.Stdout, "Loaded %d %s from %s\n", n, s.name, s.path)
	}
	return nil
}
