package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/draft"
	"github.com/pable/go-ad-metrics/internal/model"
	"github.com/pable/go-ad-metrics/internal/synergy"
)

// FormatNeeds renders remaining slots as e.g. "2S 1U 0I".
func FormatNeeds(n draft.Needs) string {
	return fmt.Sprintf("%dS %dU %dI", n.Spell, n.Ultimate, n.Innate)
}

// StepLine is the one-line status of a draft step.
func StepLine(st draft.State, cat *catalog.Catalog) string {
	line := fmt.Sprintf("Step %d/%d", st.Step, st.Total)
	if st.HasLast {
		owner := "unowned"
		if st.Last.Owned {
			if ps := st.Player(st.Last.Owner); ps != nil {
				owner = ps.Player.DisplayName()
			}
		}
		line += fmt.Sprintf("  |  Last: #%d %s → %s", st.Last.PickOrder, cat.AbilityName(st.Last.AbilityID), owner)
	}
	if st.Done {
		line += "  |  Draft complete"
	} else {
		who := "—"
		if ps := st.Player(st.OnClockPlayer); ps != nil {
			who = ps.Player.DisplayName()
		}
		line += fmt.Sprintf("  |  On the clock: %s seat %d (%s)", st.OnClock.Team, st.OnClock.Seat+1, who)
	}
	return line
}

// PrintDraftState prints every player's partial draft at a step, in seat
// order. The player on the clock is marked with ">".
func PrintDraftState(w io.Writer, st draft.State, order draft.Order, cat *catalog.Catalog, snap *model.Snapshot) {
	fmt.Fprintf(w, "\n%s\n\n", StepLine(st, cat))

	table := newTable(w)
	table.Header(" ", "SEAT", "TEAM", "NAME", "HERO", "PICKED", "NEEDS", "SYN")
	for _, ref := range SeatedRefs(order) {
		ps := st.Player(ref)
		if ps == nil {
			continue
		}
		marker := " "
		if !st.Done && ref == st.OnClockPlayer {
			marker = ">"
		}
		picked := "—"
		if len(ps.Picked) > 0 {
			picked = AbilityList(cat, ps.PickedIDs())
		}
		syn, ok := synergy.PlayerSynergy(snap, ps.PickedIDs())
		table.Append(
			marker,
			strconv.Itoa(ps.Seat+1),
			ref.Team.String(),
			ps.Player.DisplayName(),
			cat.HeroName(ps.Player.Hero),
			picked,
			FormatNeeds(ps.Needs),
			FormatSynergy(syn, ok),
		)
	}
	table.Render()

	for _, pk := range st.Unowned {
		fmt.Fprintf(w, "  warning: pick #%d %s is in no final ability list\n", pk.PickOrder, cat.AbilityName(pk.AbilityID))
	}
}

// PrintPoolRankings prints the pool-wide best pairs, best cross-hero pairs
// and best single abilities still available at a step.
func PrintPoolRankings(w io.Writer, st draft.State, cat *catalog.Catalog, snap *model.Snapshot, topN int) {
	fmt.Fprintf(w, "\n--- Best Pairs (%d undrafted) ---\n\n", len(st.Pool))
	PrintPairTable(w, synergy.BestPairs(snap, st.Pool, topN), cat)

	fmt.Fprintf(w, "\n--- Best Cross-Hero Pairs ---\n\n")
	PrintPairTable(w, synergy.BestCrossHeroPairs(snap, cat, st.Pool, topN), cat)

	fmt.Fprintf(w, "\n--- Best Abilities ---\n\n")
	PrintAbilityTable(w, synergy.BestAbilities(snap, st.Pool, topN), cat)
}

// PlayerSuggestions is the merged suggestion list for one player, or nil
// when the player is unknown or fully drafted.
func PlayerSuggestions(st draft.State, ref draft.PlayerRef, snap *model.Snapshot, maxSynergy, total int) []synergy.Candidate {
	ps := st.Player(ref)
	if ps == nil || ps.Needs.Total() == 0 {
		return nil
	}
	return synergy.Suggest(snap, ps.Picked, ps.Needs, st.Pool, maxSynergy, total)
}

// PrintPlayerSuggestions prints the merged suggestion list for one player.
func PrintPlayerSuggestions(w io.Writer, st draft.State, ref draft.PlayerRef, cat *catalog.Catalog, snap *model.Snapshot, maxSynergy, total int) {
	ps := st.Player(ref)
	if ps == nil {
		return
	}
	fmt.Fprintf(w, "\n--- Suggestions for %s (%s, needs %s) ---\n\n",
		ps.Player.DisplayName(), cat.HeroName(ps.Player.Hero), FormatNeeds(ps.Needs))
	if ps.Needs.Total() == 0 {
		fmt.Fprintln(w, "  (draft complete for this player)")
		return
	}
	PrintSuggestionTable(w, PlayerSuggestions(st, ref, snap, maxSynergy, total), cat)
}
