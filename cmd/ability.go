package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/model"
	"github.com/pable/go-ad-metrics/internal/report"
	"github.com/pable/go-ad-metrics/internal/storage"
	"github.com/pable/go-ad-metrics/internal/synergy"
)

var abilityTop int

// abilityCmd prints the aggregate profile of one or more abilities.
var abilityCmd = &cobra.Command{
	Use:   "ability <id|name> [<id|name>...]",
	Short: "Show an ability's statistics and best synergy partners",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAbility,
}

func init() {
	abilityCmd.Flags().IntVar(&abilityTop, "top", 0, "number of partners to list (default from config)")
}

func runAbility(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cat, snap, err := loadReference(db)
	if err != nil {
		return err
	}

	n := abilityTop
	if n <= 0 {
		n = cfg.Replay.TopN
	}
	for _, arg := range args {
		id, err := resolveAbility(cat, arg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		report.PrintAbilityProfile(os.Stdout, id, cat, snap, synergy.TopPartners(snap, id, n))
	}
	return nil
}

// resolveAbility accepts a numeric id or a full or short ability name.
func resolveAbility(cat *catalog.Catalog, arg string) (model.AbilityID, error) {
	if v, err := strconv.Atoi(arg); err == nil {
		if v == 0 {
			return 0, fmt.Errorf("invalid ability id %q", arg)
		}
		return model.AbilityID(v), nil
	}

	var matches []model.AbilityID
	for id, a := range cat.Abilities {
		if strings.EqualFold(a.Name, arg) || strings.EqualFold(a.ShortName, arg) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("no ability named %q", arg)
	case 1:
		return matches[0], nil
	default:
		sort.Slice(matches, func(i, j int) bool { return matches[i] < matches[j] })
		return 0, fmt.Errorf("ability name %q is ambiguous: ids %v", arg, matches)
	}
}
