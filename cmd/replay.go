package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-ad-metrics/internal/charts"
	"github.com/pable/go-ad-metrics/internal/draft"
	"github.com/pable/go-ad-metrics/internal/report"
	"github.com/pable/go-ad-metrics/internal/storage"
)

var (
	replayStep   int
	replayPlayer string
	replayTop    int
	replayHTML   string
)

var replayCmd = &cobra.Command{
	Use:   "replay <match-id>",
	Short: "Show the draft state of a match at a given pick",
	Long: `Replay a stored draft up to pick N (0 = empty draft, -1 = final state)
and show every player's partial draft, the best undrafted pairs and abilities,
and suggestions for one player (the player on the clock by default).`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().IntVar(&replayStep, "step", -1, "pick number to replay to (-1 = final)")
	replayCmd.Flags().StringVar(&replayPlayer, "player", "", "show suggestions for this player name")
	replayCmd.Flags().IntVar(&replayTop, "top", 0, "rows per pool ranking (default from config)")
	replayCmd.Flags().StringVar(&replayHTML, "html", "", "write a team synergy progression chart to this HTML file")
}

func runReplay(cmd *cobra.Command, args []string) error {
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

	step := replayStep
	if !cmd.Flags().Changed("step") {
		step = cfg.Replay.DefaultStep
	}
	cur := draft.NewCursor(lm.Timeline.Len())
	if step < 0 {
		cur = cur.JumpToEnd()
	} else {
		cur = cur.Seek(step)
	}
	st := lm.Timeline.At(cur.Step())

	topN := replayTop
	if topN <= 0 {
		topN = cfg.Replay.TopN
	}

	report.PrintMatchHeader(os.Stdout, lm.Match, hashOf(lm), snap)
	report.PrintDraftState(os.Stdout, st, lm.Timeline.Order(), cat, snap)
	report.PrintPoolRankings(os.Stdout, st, cat, snap, topN)

	ref, ok := st.OnClockPlayer, !st.Done
	if replayPlayer != "" {
		ref, ok = findPlayer(st, replayPlayer)
		if !ok {
			return fmt.Errorf("no player named %q in match %d", replayPlayer, id)
		}
	}
	if ok {
		report.PrintPlayerSuggestions(os.Stdout, st, ref, cat, snap, cfg.Replay.SynergyEntries, cfg.Replay.TotalEntries)
	}

	if replayHTML != "" {
		config := charts.DefaultChartConfig()
		config.Title = fmt.Sprintf("Match %d team synergy", id)
		err := charts.WriteFile(replayHTML, func(w io.Writer) error {
			return charts.RenderSynergyTimeline(w, charts.Progression(lm.Timeline, snap), config)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "\nChart written to %s\n", replayHTML)
	}
	return nil
}

// findPlayer matches a player by display name, case-insensitively.
func findPlayer(st draft.State, name string) (draft.PlayerRef, bool) {
	for _, ps := range st.Players() {
		if strings.EqualFold(ps.Player.DisplayName(), name) {
			return ps.Ref, true
		}
	}
	return draft.PlayerRef{}, false
}
