// Package synergy scores ability pairs against their independent win rates
// and ranks what is still available in a draft pool.
package synergy

import (
	"math"
	"sort"

	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/model"
)

// DefaultTopN is the length of the pool-wide ranked lists.
const DefaultTopN = 10

// defaultWinrate stands in for an ability with no aggregate record.
const defaultWinrate = 0.5

// Pair is a scored, qualifying ability pair. A and B are canonical (A < B).
type Pair struct {
	A, B     model.AbilityID
	Winrate  float64
	NumPicks int
	Expected float64
	Synergy  float64
}

// Score returns the synergy of (a, b): the pair win rate minus the mean of
// the two independent win rates. ok is false when the pair is unknown or
// below the confidence floor.
func Score(s *model.Snapshot, a, b model.AbilityID) (Pair, bool) {
	if a == b {
		return Pair{}, false
	}
	ps, ok := s.Pair(a, b)
	if !ok || !ps.Qualifies() {
		return Pair{}, false
	}
	if a > b {
		a, b = b, a
	}
	expected := (winrateOr(s, a) + winrateOr(s, b)) / 2
	return Pair{
		A:        a,
		B:        b,
		Winrate:  ps.Winrate,
		NumPicks: ps.NumPicks,
		Expected: expected,
		Synergy:  ps.Winrate - expected,
	}, true
}

func winrateOr(s *model.Snapshot, id model.AbilityID) float64 {
	if wr, ok := s.Winrate(id); ok {
		return wr
	}
	return defaultWinrate
}

// Weighted is the ln(numPicks)-weighted mean synergy of pairs. ok is false
// when no pair carries weight.
func Weighted(pairs []Pair) (float64, bool) {
	var sum, weights float64
	for _, p := range pairs {
		if p.NumPicks < model.MinPairPicks {
			continue
		}
		w := math.Log(float64(p.NumPicks))
		sum += p.Synergy * w
		weights += w
	}
	if weights == 0 {
		return 0, false
	}
	return sum / weights, true
}

// PairsWithin returns every qualifying pair inside one ability set.
func PairsWithin(s *model.Snapshot, abilities []model.AbilityID) []Pair {
	var out []Pair
	for i := 0; i < len(abilities); i++ {
		for j := i + 1; j < len(abilities); j++ {
			if p, ok := Score(s, abilities[i], abilities[j]); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

// PlayerSynergy is the weighted synergy of one player's final ability set.
func PlayerSynergy(s *model.Snapshot, abilities []model.AbilityID) (float64, bool) {
	return Weighted(PairsWithin(s, abilities))
}

// TeamSynergy pools every player's qualifying in-set pairs and weights them
// together.
func TeamSynergy(s *model.Snapshot, players []model.Player) (float64, bool) {
	var pairs []Pair
	for _, p := range players {
		pairs = append(pairs, PairsWithin(s, p.Abilities)...)
	}
	return Weighted(pairs)
}

// BestPairs ranks every qualifying pair inside the pool by pair win rate.
func BestPairs(s *model.Snapshot, pool []model.AbilityRef, n int) []Pair {
	return bestPairs(s, pool, n, nil)
}

// BestCrossHeroPairs is BestPairs restricted to abilities from different
// heroes. Pairs are only rejected when both owners are known and equal.
func BestCrossHeroPairs(s *model.Snapshot, cat *catalog.Catalog, pool []model.AbilityRef, n int) []Pair {
	return bestPairs(s, pool, n, func(a, b model.AbilityID) bool {
		ha, okA := cat.Owner(a)
		hb, okB := cat.Owner(b)
		return !(okA && okB && ha == hb)
	})
}

func bestPairs(s *model.Snapshot, pool []model.AbilityRef, n int, keep func(a, b model.AbilityID) bool) []Pair {
	var out []Pair
	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			a, b := pool[i].ID, pool[j].ID
			if keep != nil && !keep(a, b) {
				continue
			}
			if p, ok := Score(s, a, b); ok {
				out = append(out, p)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Winrate != out[j].Winrate {
			return out[i].Winrate > out[j].Winrate
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return truncate(out, n)
}

// TopPartners ranks every qualifying partner of one ability by synergy.
func TopPartners(s *model.Snapshot, id model.AbilityID, n int) []Pair {
	if s == nil {
		return nil
	}
	var out []Pair
	for k := range s.Pairs {
		var other model.AbilityID
		switch id {
		case k.Low():
			other = k.High()
		case k.High():
			other = k.Low()
		default:
			continue
		}
		if p, ok := Score(s, id, other); ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Synergy != out[j].Synergy {
			return out[i].Synergy > out[j].Synergy
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return truncate(out, n)
}

// Partner returns the member of p that is not id.
func (p Pair) Partner(id model.AbilityID) model.AbilityID {
	if p.A == id {
		return p.B
	}
	return p.A
}

func truncate[T any](xs []T, n int) []T {
	if n > 0 && len(xs) > n {
		return xs[:n]
	}
	return xs
}
