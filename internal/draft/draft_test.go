package draft

import (
	"reflect"
	"sort"
	"testing"

	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/model"
)

// abilitiesFor returns the canonical five abilities of a test hero, in the
// order they are drafted: three spells, the ultimate, then the innate.
func abilitiesFor(hero model.HeroID) []model.AbilityID {
	base := model.AbilityID(1000 + int(hero)*10)
	return []model.AbilityID{base + 1, base + 2, base + 3, base + 4, model.InnateOf(hero)}
}

// makeCatalog flags every test hero's fourth ability as its ultimate.
func makeCatalog() *catalog.Catalog {
	c := catalog.New()
	for h := model.HeroID(1); h <= 10; h++ {
		ids := abilitiesFor(h)
		for i, id := range ids[:4] {
			c.Abilities[id] = catalog.Ability{ID: id, OwnerHero: h, IsUltimate: i == 3}
		}
		c.Heroes[h] = catalog.Hero{ID: h}
	}
	return c
}

// makeMatch builds a consistent 50-pick match: Radiant seat i plays hero i+1,
// Dire seat i plays hero i+6, and every pick follows PickingInfo.
func makeMatch() *model.Match {
	m := &model.Match{MatchID: 1}
	for i := 0; i < TeamSize; i++ {
		rh := model.HeroID(i + 1)
		dh := model.HeroID(i + 6)
		m.Radiant = append(m.Radiant, model.Player{Name: "r", Team: model.TeamRadiant, Hero: rh, Abilities: abilitiesFor(rh)})
		m.Dire = append(m.Dire, model.Player{Name: "d", Team: model.TeamDire, Hero: dh, Abilities: abilitiesFor(dh)})
	}
	for n := 1; n <= 50; n++ {
		turn := PickingInfo(n)
		phase := (n - 1) / PhaseLength
		hero := model.HeroID(turn.Seat + 1)
		if turn.Team == model.TeamDire {
			hero += TeamSize
		}
		m.Picks = append(m.Picks, model.Pick{AbilityID: abilitiesFor(hero)[phase], PickOrder: n})
	}
	return m
}

// ---- PickingInfo ----

func TestPickingInfo(t *testing.T) {
	cases := []struct {
		pick int
		team model.Team
		seat int
	}{
		{0, model.TeamRadiant, 0},
		{-3, model.TeamRadiant, 0},
		{1, model.TeamRadiant, 0},
		{2, model.TeamDire, 0},
		{3, model.TeamRadiant, 1},
		{9, model.TeamRadiant, 4},
		{10, model.TeamDire, 4},
		{11, model.TeamDire, 4},
		{12, model.TeamRadiant, 4},
		{19, model.TeamDire, 0},
		{20, model.TeamRadiant, 0},
		{21, model.TeamRadiant, 0},
		{50, model.TeamDire, 4},
		{55, model.TeamDire, 2},
	}
	for _, tc := range cases {
		got := PickingInfo(tc.pick)
		if got.Team != tc.team || got.Seat != tc.seat {
			t.Errorf("PickingInfo(%d) = (%v, %d), want (%v, %d)", tc.pick, got.Team, got.Seat, tc.team, tc.seat)
		}
	}
}

func TestPickingInfoPhaseCoversEverySeatOnce(t *testing.T) {
	for phase := 0; phase < 5; phase++ {
		seen := make(map[Turn]int)
		for n := phase*PhaseLength + 1; n <= (phase+1)*PhaseLength; n++ {
			seen[PickingInfo(n)]++
		}
		if len(seen) != PhaseLength {
			t.Errorf("phase %d: %d distinct turns, want %d", phase, len(seen), PhaseLength)
		}
	}
}

// ---- First-pick ranks ----

func TestSeatOrder(t *testing.T) {
	players := []model.Player{
		{Abilities: []model.AbilityID{10, 11}},
		{Abilities: []model.AbilityID{20}},
		{Abilities: []model.AbilityID{30}}, // never picked
		{Abilities: []model.AbilityID{40, 41}},
	}
	picks := []model.Pick{
		{AbilityID: 41, PickOrder: 1},
		{AbilityID: 20, PickOrder: 2},
		{AbilityID: 11, PickOrder: 3},
		{AbilityID: 10, PickOrder: 8},
		{AbilityID: 40, PickOrder: 9},
	}
	if got := FirstPick(players[0], picks); got != 3 {
		t.Errorf("FirstPick(player0) = %d, want 3", got)
	}
	if got := FirstPick(players[2], picks); got != NoPick {
		t.Errorf("FirstPick(player2) = %d, want NoPick", got)
	}
	if got, want := SeatOrder(players, picks), []int{3, 1, 0, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("SeatOrder = %v, want %v", got, want)
	}
	if got, want := Ranks(players, picks), []int{2, 1, 3, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("Ranks = %v, want %v", got, want)
	}
}

// ---- Ownership repair ----

func TestRepairSpecExample(t *testing.T) {
	// B plays hero 5 but holds hero 7's innate; C plays hero 7 and holds B's.
	a := model.Player{Hero: 1, Abilities: []model.AbilityID{100, -1}}
	b := model.Player{Hero: 5, Abilities: []model.AbilityID{200, -7}}
	c := model.Player{Hero: 7, Abilities: []model.AbilityID{300, -5}}

	res := Repair([]model.Player{a, b}, []model.Player{c}, RepairOptions{MaxPasses: 1})
	if len(res.Swaps) != 1 {
		t.Fatalf("expected 1 swap, got %d", len(res.Swaps))
	}
	if !reflect.DeepEqual(res.Radiant[1].Abilities, []model.AbilityID{300, -5}) {
		t.Errorf("B abilities = %v", res.Radiant[1].Abilities)
	}
	if !reflect.DeepEqual(res.Dire[0].Abilities, []model.AbilityID{200, -7}) {
		t.Errorf("C abilities = %v", res.Dire[0].Abilities)
	}
	if len(res.Unresolved) != 0 {
		t.Errorf("unexpected unresolved: %+v", res.Unresolved)
	}
	// Inputs untouched.
	if !reflect.DeepEqual(b.Abilities, []model.AbilityID{200, -7}) {
		t.Error("Repair mutated its input")
	}
}

func TestRepairNoPartnerLeavesMismatch(t *testing.T) {
	b := model.Player{Hero: 5, Abilities: []model.AbilityID{200, -7}}
	res := Repair([]model.Player{b}, nil, DefaultRepairOptions())
	if len(res.Swaps) != 0 {
		t.Errorf("expected no swaps, got %+v", res.Swaps)
	}
	if len(res.Unresolved) != 1 || res.Unresolved[0].InnateHero != 7 || res.Unresolved[0].Hero != 5 {
		t.Errorf("unexpected unresolved: %+v", res.Unresolved)
	}
	if !reflect.DeepEqual(res.Radiant[0].Abilities, b.Abilities) {
		t.Error("unmatched player must be left as-is")
	}
}

func TestRepairIdempotent(t *testing.T) {
	m := makeMatch()
	// Swap two players' lists across sides, plus a three-way rotation.
	m.Radiant[0].Abilities, m.Dire[3].Abilities = m.Dire[3].Abilities, m.Radiant[0].Abilities
	r1, r2, r3 := m.Radiant[1].Abilities, m.Radiant[2].Abilities, m.Dire[0].Abilities
	m.Radiant[1].Abilities, m.Radiant[2].Abilities, m.Dire[0].Abilities = r2, r3, r1

	for _, opts := range []RepairOptions{{MaxPasses: 1}, DefaultRepairOptions()} {
		first := Repair(m.Radiant, m.Dire, opts)
		second := Repair(first.Radiant, first.Dire, opts)
		if len(second.Swaps) != 0 {
			t.Errorf("passes=%d: second repair swapped %d times", opts.MaxPasses, len(second.Swaps))
		}
		if !reflect.DeepEqual(first.Radiant, second.Radiant) || !reflect.DeepEqual(first.Dire, second.Dire) {
			t.Errorf("passes=%d: repair is not idempotent", opts.MaxPasses)
		}
		if len(first.Unresolved) != 0 {
			t.Errorf("passes=%d: unresolved %+v", opts.MaxPasses, first.Unresolved)
		}
		want := makeMatch()
		if !reflect.DeepEqual(first.Radiant, want.Radiant) || !reflect.DeepEqual(first.Dire, want.Dire) {
			t.Errorf("passes=%d: repair did not restore the original lists", opts.MaxPasses)
		}
	}
}

func TestRepairFixedPointSkipsConsistentPartner(t *testing.T) {
	a := model.Player{Hero: 1, Abilities: []model.AbilityID{10, -2}}
	b := model.Player{Hero: 2, Abilities: []model.AbilityID{20, -1}}
	c := model.Player{Hero: 3, Abilities: []model.AbilityID{30, -2}} // duplicate innate

	res := Repair([]model.Player{a, b, c}, nil, DefaultRepairOptions())
	if len(res.Swaps) != 1 {
		t.Fatalf("expected exactly one productive swap, got %+v", res.Swaps)
	}
	if !reflect.DeepEqual(res.Radiant[1].Abilities, []model.AbilityID{10, -2}) {
		t.Errorf("B abilities = %v", res.Radiant[1].Abilities)
	}
	if len(res.Unresolved) != 1 || res.Unresolved[0].Player.Index != 2 {
		t.Errorf("expected C unresolved, got %+v", res.Unresolved)
	}
	if res.Passes != 2 {
		t.Errorf("expected 2 passes, got %d", res.Passes)
	}
}

func TestRepairMatchCopies(t *testing.T) {
	m := makeMatch()
	m.Radiant[0].Abilities, m.Radiant[1].Abilities = m.Radiant[1].Abilities, m.Radiant[0].Abilities
	fixed, res := RepairMatch(m, DefaultRepairOptions())
	if len(res.Swaps) != 1 {
		t.Fatalf("expected 1 swap, got %d", len(res.Swaps))
	}
	if fixed.Radiant[0].Abilities[0] != abilitiesFor(1)[0] {
		t.Error("repaired copy not corrected")
	}
	if m.Radiant[0].Abilities[0] != abilitiesFor(2)[0] {
		t.Error("original match was mutated")
	}
}

// ---- Stepper ----

func TestTimelineStart(t *testing.T) {
	tl := NewTimeline(makeMatch(), makeCatalog(), StandardComposition())
	st := tl.At(0)
	if st.Step != 0 || st.Total != 50 || st.Done {
		t.Fatalf("unexpected state header: %+v", st)
	}
	for _, ps := range st.Players() {
		if len(ps.Picked) != 0 {
			t.Errorf("player %+v has picks at step 0", ps.Ref)
		}
		if ps.Needs != (Needs{Spell: 3, Ultimate: 1, Innate: 1}) {
			t.Errorf("player %+v needs %+v at step 0", ps.Ref, ps.Needs)
		}
	}
	if st.OnClock != (Turn{Team: model.TeamRadiant, Seat: 0}) {
		t.Errorf("OnClock = %+v", st.OnClock)
	}
	if len(st.Pool) != 50 {
		t.Errorf("pool size = %d, want 50", len(st.Pool))
	}
	if st.HasLast {
		t.Error("no last pick at step 0")
	}
}

func TestTimelineEndMatchesFinalSets(t *testing.T) {
	m := makeMatch()
	tl := NewTimeline(m, makeCatalog(), StandardComposition())
	st := tl.At(50)
	if !st.Done || len(st.Pool) != 0 {
		t.Fatalf("expected finished draft, got done=%v pool=%d", st.Done, len(st.Pool))
	}
	for _, ps := range st.Players() {
		got := ps.PickedIDs()
		want := append([]model.AbilityID(nil), ps.Player.Abilities...)
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
		if !reflect.DeepEqual(got, want) {
			t.Errorf("player %+v: picked %v, want %v", ps.Ref, got, want)
		}
		if ps.Needs.Total() != 0 {
			t.Errorf("player %+v still needs %+v", ps.Ref, ps.Needs)
		}
	}
}

func TestTimelineNeedsTrackComposition(t *testing.T) {
	tl := NewTimeline(makeMatch(), makeCatalog(), StandardComposition())
	for step := 0; step <= tl.Len(); step++ {
		st := tl.At(step)
		for _, ps := range st.Players() {
			n := ps.Needs
			if n.Spell < 0 || n.Ultimate < 0 || n.Innate < 0 {
				t.Fatalf("step %d: negative needs %+v", step, n)
			}
			if n.Total() != 5-len(ps.Picked) {
				t.Fatalf("step %d: needs %+v with %d picked", step, n, len(ps.Picked))
			}
		}
		if len(st.Pool) != 50-step {
			t.Fatalf("step %d: pool %d", step, len(st.Pool))
		}
	}
}

func TestTimelineReversePhase(t *testing.T) {
	tl := NewTimeline(makeMatch(), makeCatalog(), StandardComposition())
	st := tl.At(11)
	d4 := st.Player(PlayerRef{Team: model.TeamDire, Index: 4})
	if len(d4.Picked) != 2 {
		t.Fatalf("Dire seat 4 should have 2 picks after pick 11, has %d", len(d4.Picked))
	}
	if st.OnClock != (Turn{Team: model.TeamRadiant, Seat: 4}) {
		t.Errorf("OnClock after 11 = %+v", st.OnClock)
	}
	if st.OnClockPlayer != (PlayerRef{Team: model.TeamRadiant, Index: 4}) {
		t.Errorf("OnClockPlayer after 11 = %+v", st.OnClockPlayer)
	}
	if !st.HasLast || st.Last.PickOrder != 11 || st.Last.Owner != (PlayerRef{Team: model.TeamDire, Index: 4}) {
		t.Errorf("Last = %+v", st.Last)
	}
}

func TestTimelineSlotKinds(t *testing.T) {
	tl := NewTimeline(makeMatch(), makeCatalog(), StandardComposition())
	// After phase 3 every player has three spells and the ultimate.
	st := tl.At(40)
	for _, ps := range st.Players() {
		if ps.Needs != (Needs{Innate: 1}) {
			t.Errorf("player %+v needs %+v at step 40", ps.Ref, ps.Needs)
		}
	}
}

func TestTimelineClampsAndUnowned(t *testing.T) {
	m := makeMatch()
	m.Picks = append(m.Picks, model.Pick{AbilityID: 9999, PickOrder: 51})
	m.IgnoredSpells = []model.AbilityID{8888}
	tl := NewTimeline(m, makeCatalog(), StandardComposition())

	if st := tl.At(-5); st.Step != 0 {
		t.Errorf("At(-5).Step = %d", st.Step)
	}
	st := tl.At(1000)
	if st.Step != 51 || !st.Done {
		t.Errorf("At(1000) = step %d done %v", st.Step, st.Done)
	}
	if len(st.Unowned) != 1 || st.Unowned[0].AbilityID != 9999 {
		t.Errorf("Unowned = %+v", st.Unowned)
	}
	if tl.At(0).InPool(8888) {
		t.Error("ignored spells are not draftable")
	}
	if !tl.At(0).InPool(9999) {
		t.Error("unowned pick should be in the pool before it is picked")
	}
}

func TestCursor(t *testing.T) {
	c := NewCursor(50)
	if !c.AtStart() || c.Step() != 0 {
		t.Fatal("new cursor must start at 0")
	}
	if c.Retreat().Step() != 0 {
		t.Error("Retreat at 0 must clamp")
	}
	c = c.Advance().Advance()
	if c.Step() != 2 {
		t.Errorf("Step = %d, want 2", c.Step())
	}
	if c.JumpToEnd().Step() != 50 || !c.JumpToEnd().AtEnd() {
		t.Error("JumpToEnd must land on N")
	}
	if c.JumpToEnd().Advance().Step() != 50 {
		t.Error("Advance at N must clamp")
	}
	if c.Seek(77).Step() != 50 || c.Seek(-1).Step() != 0 || c.Seek(13).Step() != 13 {
		t.Error("Seek must clamp to [0, N]")
	}
	if c.JumpToStart().Step() != 0 {
		t.Error("JumpToStart must land on 0")
	}
	if c.Step() != 2 {
		t.Error("transitions must not mutate the receiver")
	}
}
