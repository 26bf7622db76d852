package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/draft"
	"github.com/pable/go-ad-metrics/internal/model"
	"github.com/pable/go-ad-metrics/internal/synergy"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// FormatSynergy renders a synergy delta in percentage points, or "—" when unknown.
func FormatSynergy(v float64, ok bool) string {
	if !ok {
		return "—"
	}
	return fmt.Sprintf("%+.2f%%", v*100)
}

// FormatWinrate renders a 0..1 win rate as a percentage.
func FormatWinrate(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// PrintMatchHeader prints a summary header for the match with both sides'
// log-weighted synergy.
func PrintMatchHeader(w io.Writer, m *model.Match, hash string, snap *model.Snapshot) {
	radiant, rok := synergy.TeamSynergy(snap, m.Radiant)
	dire, dok := synergy.TeamSynergy(snap, m.Dire)
	if len(hash) > 12 {
		hash = hash[:12]
	}
	if hash == "" {
		hash = "—"
	}
	fmt.Fprintf(w, "\nMatch: %d  |  Winner: %s  |  Picks: %d  |  Synergy: Radiant %s – Dire %s  |  Hash: %s\n\n",
		m.MatchID, m.Winner(), len(m.Picks), FormatSynergy(radiant, rok), FormatSynergy(dire, dok), hash)
}

// SeatedRefs returns both sides' players in draft-seat order, Radiant first.
func SeatedRefs(o draft.Order) []draft.PlayerRef {
	refs := make([]draft.PlayerRef, 0, len(o.RadiantSeats)+len(o.DireSeats))
	for _, idx := range o.RadiantSeats {
		refs = append(refs, draft.PlayerRef{Team: model.TeamRadiant, Index: idx})
	}
	for _, idx := range o.DireSeats {
		refs = append(refs, draft.PlayerRef{Team: model.TeamDire, Index: idx})
	}
	return refs
}

// AbilityList renders ability short names in list order.
func AbilityList(cat *catalog.Catalog, ids []model.AbilityID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = cat.ShortName(id)
	}
	return strings.Join(names, ", ")
}

// PrintPlayerTable prints the final drafts in seat order. Players whose
// innate does not belong to their hero are marked with "!".
func PrintPlayerTable(w io.Writer, m *model.Match, cat *catalog.Catalog, snap *model.Snapshot, order draft.Order) {
	table := newTable(w)
	table.Header(" ", "SEAT", "TEAM", "NAME", "HERO", "ABILITIES", "K", "D", "A", "GPM", "XPM", "DMG", "SYN")

	for _, ref := range SeatedRefs(order) {
		p := m.Side(ref.Team)[ref.Index]
		marker := " "
		if innate, ok := p.Innate(); !ok || innate.InnateHero() != p.Hero {
			marker = "!"
		}
		syn, ok := synergy.PlayerSynergy(snap, p.Abilities)
		table.Append(
			marker,
			strconv.Itoa(order.Rank(ref)+1),
			ref.Team.String(),
			p.DisplayName(),
			cat.HeroName(p.Hero),
			AbilityList(cat, p.Abilities),
			strconv.Itoa(p.Kills),
			strconv.Itoa(p.Deaths),
			strconv.Itoa(p.Assists),
			strconv.Itoa(p.GPM),
			strconv.Itoa(p.XPM),
			strconv.Itoa(p.HeroDamage),
			FormatSynergy(syn, ok),
		)
	}
	table.Render()
}

// PrintRepairLog prints the ownership swaps applied to a match and the
// mismatches left after repair. m is the repaired match.
func PrintRepairLog(w io.Writer, res draft.RepairResult, m *model.Match, cat *catalog.Catalog) {
	if len(res.Swaps) == 0 && len(res.Unresolved) == 0 {
		fmt.Fprintln(w, "Ownership: consistent, no repair needed.")
		return
	}
	name := func(ref draft.PlayerRef) string {
		p := m.Side(ref.Team)[ref.Index]
		return fmt.Sprintf("%s %s (%s)", ref.Team, p.DisplayName(), cat.HeroName(p.Hero))
	}
	for _, s := range res.Swaps {
		fmt.Fprintf(w, "Ownership: pass %d swapped ability lists of %s and %s (innate of %s)\n",
			s.Pass, name(s.A), name(s.B), cat.HeroName(s.InnateHero))
	}
	for _, u := range res.Unresolved {
		innate := "no innate"
		if u.InnateHero != 0 {
			innate = "innate of " + cat.HeroName(u.InnateHero)
		}
		fmt.Fprintf(w, "Ownership: %s still holds %s\n", name(u.Player), innate)
	}
}

// sampleFlag grades a pair's sample size.
func sampleFlag(n int) string {
	switch {
	case n >= 100:
		return "OK"
	case n >= 30:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// wilsonCI computes the 95% Wilson score confidence interval for a proportion.
// Returns (lo, hi) as fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}

// PrintPairTable prints ranked ability pairs.
func PrintPairTable(w io.Writer, pairs []synergy.Pair, cat *catalog.Catalog) {
	if len(pairs) == 0 {
		fmt.Fprintln(w, "  (no qualifying pairs)")
		return
	}
	table := newTable(w)
	table.Header("#", "ABILITY A", "ABILITY B", "PAIR WR", "EXPECTED", "SYNERGY", "PICKS", "SAMPLE")
	for i, p := range pairs {
		table.Append(
			strconv.Itoa(i+1),
			cat.AbilityName(p.A),
			cat.AbilityName(p.B),
			FormatWinrate(p.Winrate),
			FormatWinrate(p.Expected),
			FormatSynergy(p.Synergy, true),
			strconv.Itoa(p.NumPicks),
			sampleFlag(p.NumPicks),
		)
	}
	table.Render()
}

// PrintAbilityTable prints ranked single abilities.
func PrintAbilityTable(w io.Writer, cands []synergy.Candidate, cat *catalog.Catalog) {
	if len(cands) == 0 {
		fmt.Fprintln(w, "  (no abilities with statistics)")
		return
	}
	table := newTable(w)
	table.Header("#", "ABILITY", "SLOT", "WR", "PICKS")
	for i, c := range cands {
		table.Append(
			strconv.Itoa(i+1),
			cat.AbilityName(c.Ref.ID),
			c.Ref.Kind.String(),
			FormatWinrate(c.Winrate),
			strconv.Itoa(c.NumPicks),
		)
	}
	table.Render()
}

// PrintSuggestionTable prints a merged suggestion list. Synergy entries name
// the picked ability they pair with.
func PrintSuggestionTable(w io.Writer, cands []synergy.Candidate, cat *catalog.Catalog) {
	if len(cands) == 0 {
		fmt.Fprintln(w, "  (nothing to suggest)")
		return
	}
	table := newTable(w)
	table.Header("#", "ABILITY", "SLOT", "WR", "SYNERGY", "WITH")
	for i, c := range cands {
		with := "—"
		if c.HasSynergy {
			with = cat.AbilityName(c.Partner)
		}
		wr := "—"
		if c.HasWinrate {
			wr = FormatWinrate(c.Winrate)
		}
		table.Append(
			strconv.Itoa(i+1),
			cat.AbilityName(c.Ref.ID),
			c.Ref.Kind.String(),
			wr,
			FormatSynergy(c.Synergy, c.HasSynergy),
			with,
		)
	}
	table.Render()
}

// PrintAbilityProfile prints one ability's aggregate record and its best
// synergy partners.
func PrintAbilityProfile(w io.Writer, id model.AbilityID, cat *catalog.Catalog, snap *model.Snapshot, partners []synergy.Pair) {
	if snap == nil {
		snap = model.NewSnapshot()
	}
	ref := cat.Resolve(id)
	fmt.Fprintf(w, "\n=== %s ===\n\n", cat.AbilityName(id))
	fmt.Fprintf(w, "  Id       : %d\n", id)
	fmt.Fprintf(w, "  Slot     : %s\n", ref.Kind)
	if hero, ok := cat.Owner(id); ok {
		fmt.Fprintf(w, "  Hero     : %s\n", cat.HeroName(hero))
	}

	if st, ok := snap.Abilities[id]; ok {
		lo, hi := wilsonCI(int(math.Round(st.Winrate*float64(st.NumPicks))), st.NumPicks)
		fmt.Fprintf(w, "  Win rate : %s  (95%% CI %s – %s)\n", FormatWinrate(st.Winrate), FormatWinrate(lo), FormatWinrate(hi))
		fmt.Fprintf(w, "  Picks    : %d\n", st.NumPicks)
		fmt.Fprintf(w, "  Avg pick : %.1f\n", st.AvgPickPosition)
	} else {
		fmt.Fprintln(w, "  Win rate : —")
	}

	if sh, ok := snap.Shifts[id]; ok {
		fmt.Fprintf(w, "  Shifts   : K %+.2f  D %+.2f  A %+.2f  GPM %+.0f  XPM %+.0f  DMG %+.0f  HEAL %+.0f\n",
			sh.Kills, sh.Deaths, sh.Assists(), sh.GPM, sh.XPM, sh.Damage, sh.Healing)
	}
	if ag, ok := snap.Aghs[id]; ok {
		if rate, ok := ag.ScepterRate(); ok && cat.HasScepter(id) {
			fmt.Fprintf(w, "  Scepter  : %.0f%% of %d games, %s win rate\n", rate*100, ag.TotalGames, FormatWinrate(ag.Scepter.Winrate))
		}
		if rate, ok := ag.ShardRate(); ok && cat.HasShard(id) {
			fmt.Fprintf(w, "  Shard    : %.0f%% of %d games, %s win rate\n", rate*100, ag.TotalGames, FormatWinrate(ag.Shard.Winrate))
		}
	}

	fmt.Fprintf(w, "\n--- Top Partners ---\n\n")
	if len(partners) == 0 {
		fmt.Fprintln(w, "  (no qualifying pairs)")
		return
	}
	table := newTable(w)
	table.Header("#", "PARTNER", "PAIR WR", "95% CI", "EXPECTED", "SYNERGY", "PICKS", "SAMPLE")
	for i, p := range partners {
		lo, hi := wilsonCI(int(math.Round(p.Winrate*float64(p.NumPicks))), p.NumPicks)
		table.Append(
			strconv.Itoa(i+1),
			cat.AbilityName(p.Partner(id)),
			FormatWinrate(p.Winrate),
			fmt.Sprintf("%.0f–%.0f%%", lo*100, hi*100),
			FormatWinrate(p.Expected),
			FormatSynergy(p.Synergy, true),
			strconv.Itoa(p.NumPicks),
			sampleFlag(p.NumPicks),
		)
	}
	table.Render()
}
