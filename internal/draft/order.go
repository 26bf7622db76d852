// Package draft reconstructs the Ability Draft timeline of a match: it
// repairs swapped ownership, derives the snake turn order and first-pick
// ranks, and computes per-player partial drafts at any step.
package draft

import (
	"math"
	"sort"

	"github.com/pable/go-ad-metrics/internal/model"
)

// TeamSize is the number of seats per side.
const TeamSize = 5

// PhaseLength is the number of consecutive picks before the order reverses.
const PhaseLength = 2 * TeamSize

// Turn is the side and seat whose pick it is.
type Turn struct {
	Team model.Team
	Seat int // 0-based seat within the side
}

// PickingInfo returns the seat on the clock for a 1-based pick number.
// Even phases run Radiant 0, Dire 0, Radiant 1 ... Dire 4; odd phases run
// Dire 4, Radiant 4, Dire 3 ... Radiant 0. Pick 0 (and anything below) is the
// not-started sentinel and maps to Radiant seat 0.
func PickingInfo(pick int) Turn {
	if pick <= 0 {
		return Turn{Team: model.TeamRadiant, Seat: 0}
	}
	idx := pick - 1
	phase := idx / PhaseLength
	pos := idx % PhaseLength
	if phase%2 == 0 {
		t := Turn{Team: model.TeamRadiant, Seat: pos / 2}
		if pos%2 == 1 {
			t.Team = model.TeamDire
		}
		return t
	}
	t := Turn{Team: model.TeamDire, Seat: TeamSize - 1 - pos/2}
	if pos%2 == 1 {
		t.Team = model.TeamRadiant
	}
	return t
}

// NoPick is the first-pick value of a player with no matched pick.
const NoPick = math.MaxInt

// FirstPick returns the earliest pick order among picks that landed in the
// player's final ability list, or NoPick.
func FirstPick(p model.Player, picks []model.Pick) int {
	first := NoPick
	for _, pk := range picks {
		if pk.PickOrder < first && p.HasAbility(pk.AbilityID) {
			first = pk.PickOrder
		}
	}
	return first
}

// SeatOrder returns the indices of players sorted by first pick, so that
// SeatOrder(...)[seat] is the player drafting from that seat. Players without
// a matched pick sort last; ties keep list order.
func SeatOrder(players []model.Player, picks []model.Pick) []int {
	firsts := make([]int, len(players))
	order := make([]int, len(players))
	for i, p := range players {
		firsts[i] = FirstPick(p, picks)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return firsts[order[a]] < firsts[order[b]]
	})
	return order
}

// Ranks inverts SeatOrder: Ranks(...)[i] is player i's first-pick rank.
func Ranks(players []model.Player, picks []model.Pick) []int {
	order := SeatOrder(players, picks)
	ranks := make([]int, len(players))
	for seat, idx := range order {
		ranks[idx] = seat
	}
	return ranks
}

// Order is the draft-order metadata of a match.
type Order struct {
	RadiantSeats []int // seat -> index into Radiant
	DireSeats    []int // seat -> index into Dire
	RadiantRanks []int // index into Radiant -> seat
	DireRanks    []int // index into Dire -> seat
}

// NewOrder derives seat order for both sides of a (repaired) match.
func NewOrder(m *model.Match) Order {
	return Order{
		RadiantSeats: SeatOrder(m.Radiant, m.Picks),
		DireSeats:    SeatOrder(m.Dire, m.Picks),
		RadiantRanks: Ranks(m.Radiant, m.Picks),
		DireRanks:    Ranks(m.Dire, m.Picks),
	}
}

// PlayerAt resolves a turn to a player reference; false if the side has no
// player in that seat.
func (o Order) PlayerAt(t Turn) (PlayerRef, bool) {
	seats := o.RadiantSeats
	if t.Team == model.TeamDire {
		seats = o.DireSeats
	}
	if t.Seat < 0 || t.Seat >= len(seats) {
		return PlayerRef{}, false
	}
	return PlayerRef{Team: t.Team, Index: seats[t.Seat]}, true
}

// Rank returns a player's first-pick rank.
func (o Order) Rank(ref PlayerRef) int {
	ranks := o.RadiantRanks
	if ref.Team == model.TeamDire {
		ranks = o.DireRanks
	}
	if ref.Index < 0 || ref.Index >= len(ranks) {
		return NoPick
	}
	return ranks[ref.Index]
}
