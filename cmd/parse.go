package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/parser"
	"github.com/pable/go-ad-metrics/internal/report"
	"github.com/pable/go-ad-metrics/internal/storage"
)

var parseForce bool

var parseCmd = &cobra.Command{
	Use:   "parse <match.json[.zst]>...",
	Short: "Import match payloads and show them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().BoolVarP(&parseForce, "force", "f", false, "re-import matches that are already stored")
}

func runParse(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
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

	for _, path := range args {
		fmt.Fprintf(os.Stdout, "Parsing %s...\n", path)
		lm, cached, err := importMatch(db, path, cat, parseForce)
		if err != nil {
			return err
		}
		if cached {
			fmt.Fprintf(os.Stdout, "Match %d already stored — showing cached results.\n", lm.Match.MatchID)
		}
		report.PrintMatchHeader(os.Stdout, lm.Match, hashOf(lm), snap)
		report.PrintPlayerTable(os.Stdout, lm.Match, cat, snap, lm.Timeline.Order())
		report.PrintRepairLog(os.Stdout, lm.Repair, lm.Match, cat)
	}
	return nil
}

// importMatch parses one payload and stores it unless it is already stored
// and force is off. It returns the stored match either way, and whether the
// stored copy predates this call.
func importMatch(db *storage.DB, path string, cat *catalog.Catalog, force bool) (*loadedMatch, bool, error) {
	m, hash, err := parser.ParseMatch(path)
	if err != nil {
		return nil, false, fmt.Errorf("parse match: %w", err)
	}

	exists, err := db.MatchExists(m.MatchID)
	if err != nil {
		return nil, false, fmt.Errorf("check match: %w", err)
	}
	cached := exists && !force
	if !cached {
		if err := db.InsertMatch(m, hash); err != nil {
			return nil, false, fmt.Errorf("insert match: %w", err)
		}
		log.WithField("component", "parse").WithField("match", m.MatchID).Info("match stored")
	}

	lm, err := loadMatch(db, m.MatchID, cat)
	if err != nil {
		return nil, false, err
	}
	if lm == nil {
		return nil, false, fmt.Errorf("match %d missing after import", m.MatchID)
	}
	return lm, cached, nil
}
