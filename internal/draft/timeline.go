package draft

import (
	"sort"

	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/model"
)

// Composition is a player's target draft: spells, ultimates and innates.
type Composition struct {
	Spells    int
	Ultimates int
	Innates   int
}

// StandardComposition is 3 spells + 1 ultimate + 1 hero innate.
func StandardComposition() Composition {
	return Composition{Spells: 3, Ultimates: 1, Innates: 1}
}

// Total is the number of slots per player.
func (c Composition) Total() int { return c.Spells + c.Ultimates + c.Innates }

// Target returns the slot count for a kind.
func (c Composition) Target(k model.SlotKind) int {
	switch k {
	case model.SlotSpell:
		return c.Spells
	case model.SlotUltimate:
		return c.Ultimates
	case model.SlotInnate:
		return c.Innates
	default:
		return 0
	}
}

// Needs is how many slots of each kind a player still has to fill.
type Needs struct {
	Spell    int
	Ultimate int
	Innate   int
}

// Of returns the remaining count for a kind.
func (n Needs) Of(k model.SlotKind) int {
	switch k {
	case model.SlotSpell:
		return n.Spell
	case model.SlotUltimate:
		return n.Ultimate
	case model.SlotInnate:
		return n.Innate
	default:
		return 0
	}
}

// Wants reports whether the player still needs a slot of this kind.
func (n Needs) Wants(k model.SlotKind) bool { return n.Of(k) > 0 }

// Total is the number of slots still open.
func (n Needs) Total() int { return n.Spell + n.Ultimate + n.Innate }

// NeedsFor computes max(0, target - picked) per kind.
func NeedsFor(picked []model.AbilityRef, comp Composition) Needs {
	var have [3]int
	for _, r := range picked {
		if r.Kind >= 0 && int(r.Kind) < len(have) {
			have[r.Kind]++
		}
	}
	remaining := func(k model.SlotKind) int {
		return max(0, comp.Target(k)-have[k])
	}
	return Needs{
		Spell:    remaining(model.SlotSpell),
		Ultimate: remaining(model.SlotUltimate),
		Innate:   remaining(model.SlotInnate),
	}
}

// ResolvedPick is a recorded pick with its slot kind and owning player.
type ResolvedPick struct {
	model.Pick
	Ref   model.AbilityRef
	Owner PlayerRef
	Owned bool
}

// Timeline is the immutable, pre-resolved draft of one repaired match.
// States are recomputed from scratch for every step.
type Timeline struct {
	match *model.Match
	order Order
	comp  Composition
	picks []ResolvedPick
	pool  []model.AbilityRef
}

// NewTimeline resolves the picks of a repaired match once.
func NewTimeline(m *model.Match, cat *catalog.Catalog, comp Composition) *Timeline {
	owners := make(map[model.AbilityID]PlayerRef)
	for i, p := range m.Radiant {
		for _, id := range p.Abilities {
			owners[id] = PlayerRef{Team: model.TeamRadiant, Index: i}
		}
	}
	for i, p := range m.Dire {
		for _, id := range p.Abilities {
			owners[id] = PlayerRef{Team: model.TeamDire, Index: i}
		}
	}

	picks := make([]ResolvedPick, len(m.Picks))
	for i, pk := range m.Picks {
		owner, ok := owners[pk.AbilityID]
		picks[i] = ResolvedPick{Pick: pk, Ref: cat.Resolve(pk.AbilityID), Owner: owner, Owned: ok}
	}
	sort.SliceStable(picks, func(a, b int) bool { return picks[a].PickOrder < picks[b].PickOrder })

	ignored := make(map[model.AbilityID]bool, len(m.IgnoredSpells))
	for _, id := range m.IgnoredSpells {
		ignored[id] = true
	}
	seen := make(map[model.AbilityID]bool)
	var pool []model.AbilityRef
	add := func(id model.AbilityID) {
		if id == 0 || seen[id] || ignored[id] {
			return
		}
		seen[id] = true
		pool = append(pool, cat.Resolve(id))
	}
	for _, p := range m.Players() {
		for _, id := range p.Abilities {
			add(id)
		}
	}
	for _, pk := range picks {
		add(pk.AbilityID)
	}
	sort.Slice(pool, func(a, b int) bool { return pool[a].ID < pool[b].ID })

	return &Timeline{match: m, order: NewOrder(m), comp: comp, picks: picks, pool: pool}
}

// Len is the number of picks N; valid steps are 0..N.
func (t *Timeline) Len() int { return len(t.picks) }

// Match returns the repaired match the timeline was built from.
func (t *Timeline) Match() *model.Match { return t.match }

// Order returns the seat order of both sides.
func (t *Timeline) Order() Order { return t.order }

// Picks returns the resolved picks in pick order.
func (t *Timeline) Picks() []ResolvedPick { return t.picks }

// Composition returns the per-player slot target.
func (t *Timeline) Composition() Composition { return t.comp }

// PlayerState is one player's partial draft at a step.
type PlayerState struct {
	Ref    PlayerRef
	Player model.Player
	Seat   int
	Picked []model.AbilityRef // in pick order
	Needs  Needs
}

// PickedIDs returns the ids of the abilities picked so far.
func (ps PlayerState) PickedIDs() []model.AbilityID {
	out := make([]model.AbilityID, len(ps.Picked))
	for i, r := range ps.Picked {
		out[i] = r.ID
	}
	return out
}

// State is the draft as of a step.
type State struct {
	Step    int
	Total   int
	Radiant []PlayerState // aligned with the match's Radiant list
	Dire    []PlayerState // aligned with the match's Dire list

	// OnClock is the seat about to pick; meaningless when Done.
	OnClock       Turn
	OnClockPlayer PlayerRef
	Done          bool

	Last    ResolvedPick
	HasLast bool

	Picked  map[model.AbilityID]bool
	Pool    []model.AbilityRef // undrafted abilities, by id
	Unowned []ResolvedPick     // picks that landed in no final list
}

// Player returns the state of one player, or nil.
func (s State) Player(ref PlayerRef) *PlayerState {
	side := s.Radiant
	if ref.Team == model.TeamDire {
		side = s.Dire
	}
	if ref.Index < 0 || ref.Index >= len(side) {
		return nil
	}
	return &side[ref.Index]
}

// Players returns all player states, Radiant first.
func (s State) Players() []PlayerState {
	out := make([]PlayerState, 0, len(s.Radiant)+len(s.Dire))
	out = append(out, s.Radiant...)
	return append(out, s.Dire...)
}

// InPool reports whether an ability is still undrafted.
func (s State) InPool(id model.AbilityID) bool {
	for _, r := range s.Pool {
		if r.ID == id {
			return true
		}
	}
	return false
}

// At computes the draft state after the first step picks. Out-of-range steps
// are clamped to [0, N].
func (t *Timeline) At(step int) State {
	n := len(t.picks)
	step = clamp(step, 0, n)

	st := State{
		Step:    step,
		Total:   n,
		Radiant: t.playerStates(model.TeamRadiant, t.match.Radiant),
		Dire:    t.playerStates(model.TeamDire, t.match.Dire),
		Picked:  make(map[model.AbilityID]bool, step),
	}

	for _, pk := range t.picks[:step] {
		st.Picked[pk.AbilityID] = true
		if !pk.Owned {
			st.Unowned = append(st.Unowned, pk)
			continue
		}
		if ps := st.Player(pk.Owner); ps != nil {
			ps.Picked = append(ps.Picked, pk.Ref)
		}
	}
	for i := range st.Radiant {
		st.Radiant[i].Needs = NeedsFor(st.Radiant[i].Picked, t.comp)
	}
	for i := range st.Dire {
		st.Dire[i].Needs = NeedsFor(st.Dire[i].Picked, t.comp)
	}

	for _, r := range t.pool {
		if !st.Picked[r.ID] {
			st.Pool = append(st.Pool, r)
		}
	}

	if step > 0 {
		st.Last, st.HasLast = t.picks[step-1], true
	}
	if step >= n {
		st.Done = true
	} else {
		st.OnClock = PickingInfo(step + 1)
		st.OnClockPlayer, _ = t.order.PlayerAt(st.OnClock)
	}
	return st
}

func (t *Timeline) playerStates(team model.Team, players []model.Player) []PlayerState {
	out := make([]PlayerState, len(players))
	for i, p := range players {
		ref := PlayerRef{Team: team, Index: i}
		out[i] = PlayerState{Ref: ref, Player: p, Seat: t.order.Rank(ref)}
	}
	return out
}

// Cursor is the step pointer of a draft replay. Every transition returns a
// new cursor clamped to [0, total]; none is invalid.
type Cursor struct {
	step  int
	total int
}

// NewCursor returns a cursor at step 0 over total picks.
func NewCursor(total int) Cursor { return Cursor{total: max(0, total)} }

// Step returns the current step.
func (c Cursor) Step() int { return c.step }

// Total returns N.
func (c Cursor) Total() int { return c.total }

// AtStart reports whether the cursor is at step 0.
func (c Cursor) AtStart() bool { return c.step == 0 }

// AtEnd reports whether the cursor is at step N.
func (c Cursor) AtEnd() bool { return c.step == c.total }

func (c Cursor) Advance() Cursor     { return c.Seek(c.step + 1) }
func (c Cursor) Retreat() Cursor     { return c.Seek(c.step - 1) }
func (c Cursor) JumpToStart() Cursor { return c.Seek(0) }
func (c Cursor) JumpToEnd() Cursor   { return c.Seek(c.total) }

// Seek moves to clamp(k, 0, total).
func (c Cursor) Seek(k int) Cursor {
	c.step = clamp(k, 0, c.total)
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
