package draft

import "github.com/pable/go-ad-metrics/internal/model"

// Swap records one exchange of ability lists between two players.
type Swap struct {
	Pass       int
	A, B       PlayerRef
	InnateHero model.HeroID // hero encoded by A's innate before the swap
}

// PlayerRef addresses a player by side and index in that side's list.
type PlayerRef struct {
	Team  model.Team
	Index int
}

// Mismatch is a player whose innate does not match their hero after repair.
type Mismatch struct {
	Player     PlayerRef
	Hero       model.HeroID
	InnateHero model.HeroID // 0 when the player has no innate entry
}

// RepairResult is the corrected copy of both sides plus what was done.
type RepairResult struct {
	Radiant    []model.Player
	Dire       []model.Player
	Swaps      []Swap
	Unresolved []Mismatch
	Passes     int
}

// RepairOptions controls how many passes Repair makes.
// MaxPasses == 1 is a single pass; MaxPasses <= 0 repeats until no swap
// happens, bounded by the number of players.
type RepairOptions struct {
	MaxPasses int
}

// DefaultRepairOptions repeats passes until the assignment is stable.
func DefaultRepairOptions() RepairOptions { return RepairOptions{MaxPasses: 0} }

// Repair undoes upstream swaps of ability lists between players, using the
// hero innate inside each list as ground truth. The inputs are not modified.
//
// For every player whose innate encodes a different hero, the player holding
// that hero is looked up and the two full ability lists are exchanged. A
// single pass swaps unconditionally. When passes repeat, the exchange is
// skipped if the partner is already consistent: it could not fix the current
// player and would only move spells around, so every swap then strictly
// increases the number of consistent players and the loop terminates.
func Repair(radiant, dire []model.Player, opts RepairOptions) RepairResult {
	res := RepairResult{
		Radiant: clonePlayers(radiant),
		Dire:    clonePlayers(dire),
	}

	refs := make([]PlayerRef, 0, len(radiant)+len(dire))
	for i := range res.Radiant {
		refs = append(refs, PlayerRef{Team: model.TeamRadiant, Index: i})
	}
	for i := range res.Dire {
		refs = append(refs, PlayerRef{Team: model.TeamDire, Index: i})
	}
	get := func(r PlayerRef) *model.Player {
		if r.Team == model.TeamRadiant {
			return &res.Radiant[r.Index]
		}
		return &res.Dire[r.Index]
	}

	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = len(refs) + 1
	}
	guard := maxPasses > 1

	for pass := 1; pass <= maxPasses; pass++ {
		res.Passes = pass
		swapped := false
		for _, ref := range refs {
			p := get(ref)
			innate, ok := p.Innate()
			if !ok {
				continue
			}
			innateHero := innate.InnateHero()
			if innateHero == p.Hero {
				continue
			}
			for _, other := range refs {
				if other == ref {
					continue
				}
				q := get(other)
				if q.Hero != innateHero {
					continue
				}
				if guard && consistent(*q) {
					break
				}
				p.Abilities, q.Abilities = q.Abilities, p.Abilities
				res.Swaps = append(res.Swaps, Swap{Pass: pass, A: ref, B: other, InnateHero: innateHero})
				swapped = true
				break
			}
		}
		if !swapped {
			break
		}
	}

	for _, ref := range refs {
		p := get(ref)
		if consistent(*p) {
			continue
		}
		innate, _ := p.Innate()
		res.Unresolved = append(res.Unresolved, Mismatch{
			Player:     ref,
			Hero:       p.Hero,
			InnateHero: innate.InnateHero(),
		})
	}
	return res
}

// RepairMatch applies Repair to a match and returns a corrected copy.
func RepairMatch(m *model.Match, opts RepairOptions) (*model.Match, RepairResult) {
	res := Repair(m.Radiant, m.Dire, opts)
	out := *m
	out.Radiant = res.Radiant
	out.Dire = res.Dire
	out.Picks = append([]model.Pick(nil), m.Picks...)
	out.IgnoredSpells = append([]model.AbilityID(nil), m.IgnoredSpells...)
	return &out, res
}

// consistent reports whether the player's innate matches their hero.
func consistent(p model.Player) bool {
	innate, ok := p.Innate()
	return ok && innate.InnateHero() == p.Hero
}

func clonePlayers(ps []model.Player) []model.Player {
	out := make([]model.Player, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}
