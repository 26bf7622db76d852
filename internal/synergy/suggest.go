package synergy

import (
	"sort"

	"github.com/pable/go-ad-metrics/internal/model"
)

// Suggestion list sizes used by the draft replay.
const (
	MaxSynergySuggestions = 3
	SuggestionCount       = 5
)

// SlotFilter reports whether a slot kind is still wanted by a player.
// draft.Needs satisfies it.
type SlotFilter interface {
	Wants(model.SlotKind) bool
}

// Candidate is one suggested pool ability.
type Candidate struct {
	Ref        model.AbilityRef
	Winrate    float64
	HasWinrate bool
	NumPicks   int

	// Set for synergy suggestions only.
	HasSynergy bool
	Synergy    float64
	Partner    model.AbilityID
	Pair       Pair
}

// BestAbilities ranks pool abilities with a known win rate, best first.
func BestAbilities(s *model.Snapshot, pool []model.AbilityRef, n int) []Candidate {
	return truncate(bestAbilities(s, pool, nil), n)
}

// PlayerBestAbilities ranks pool abilities of the slot kinds the player still
// needs by raw win rate.
func PlayerBestAbilities(s *model.Snapshot, pool []model.AbilityRef, want SlotFilter) []Candidate {
	return bestAbilities(s, pool, want)
}

func bestAbilities(s *model.Snapshot, pool []model.AbilityRef, want SlotFilter) []Candidate {
	var out []Candidate
	for _, r := range pool {
		if want != nil && !want.Wants(r.Kind) {
			continue
		}
		if s == nil {
			continue
		}
		st, ok := s.Abilities[r.ID]
		if !ok {
			continue
		}
		out = append(out, Candidate{Ref: r, Winrate: st.Winrate, HasWinrate: true, NumPicks: st.NumPicks})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Winrate != out[j].Winrate {
			return out[i].Winrate > out[j].Winrate
		}
		return out[i].Ref.ID < out[j].Ref.ID
	})
	return out
}

// PlayerSuggestions finds pool abilities of a still-needed kind that form a
// qualifying pair with something the player already picked. Each candidate
// keeps its best pairing; only strictly positive synergies are returned,
// best first.
func PlayerSuggestions(s *model.Snapshot, picked []model.AbilityRef, want SlotFilter, pool []model.AbilityRef) []Candidate {
	best := make(map[model.AbilityID]Candidate)
	for _, c := range pool {
		if want != nil && !want.Wants(c.Kind) {
			continue
		}
		for _, p := range picked {
			pair, ok := Score(s, p.ID, c.ID)
			if !ok {
				continue
			}
			prev, seen := best[c.ID]
			if seen && prev.Synergy >= pair.Synergy {
				continue
			}
			wr, known := s.Winrate(c.ID)
			best[c.ID] = Candidate{
				Ref:        c,
				Winrate:    wr,
				HasWinrate: known,
				NumPicks:   pair.NumPicks,
				HasSynergy: true,
				Synergy:    pair.Synergy,
				Partner:    p.ID,
				Pair:       pair,
			}
		}
	}

	out := make([]Candidate, 0, len(best))
	for _, c := range best {
		if c.Synergy > 0 {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Synergy != out[j].Synergy {
			return out[i].Synergy > out[j].Synergy
		}
		return out[i].Ref.ID < out[j].Ref.ID
	})
	return out
}

// Merge shows up to maxSynergy synergy suggestions, then fills the list up
// to total with best-ability entries not already listed.
func Merge(synergies, best []Candidate, maxSynergy, total int) []Candidate {
	out := make([]Candidate, 0, total)
	listed := make(map[model.AbilityID]bool)
	for _, c := range synergies {
		if len(out) >= min(maxSynergy, total) {
			break
		}
		out = append(out, c)
		listed[c.Ref.ID] = true
	}
	for _, c := range best {
		if len(out) >= total {
			break
		}
		if listed[c.Ref.ID] {
			continue
		}
		out = append(out, c)
		listed[c.Ref.ID] = true
	}
	return out
}

// Suggest is the merged per-player list. Non-positive sizes fall back to
// MaxSynergySuggestions and SuggestionCount.
func Suggest(s *model.Snapshot, picked []model.AbilityRef, want SlotFilter, pool []model.AbilityRef, maxSynergy, total int) []Candidate {
	if maxSynergy <= 0 {
		maxSynergy = MaxSynergySuggestions
	}
	if total <= 0 {
		total = SuggestionCount
	}
	return Merge(
		PlayerSuggestions(s, picked, want, pool),
		PlayerBestAbilities(s, pool, want),
		maxSynergy,
		total,
	)
}
