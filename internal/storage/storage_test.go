package storage

import (
	"testing"

	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func makeMatch(id int64, radiantWin bool) *model.Match {
	return &model.Match{
		MatchID:    id,
		RadiantWin: radiantWin,
		Radiant: []model.Player{
			{AccountID: 11, Name: "Alice", Team: model.TeamRadiant, Hero: 5, Abilities: []model.AbilityID{100, 101, -5}, Kills: 9, GPM: 600, Items: []int{1}},
		},
		Dire: []model.Player{
			{AccountID: 22, Name: "Bob", Team: model.TeamDire, Hero: 7, Abilities: []model.AbilityID{200, -7}, Deaths: 4},
		},
		Picks: []model.Pick{
			{AbilityID: 100, PickOrder: 1},
			{AbilityID: 200, PickOrder: 2},
			{AbilityID: 101, PickOrder: 3},
		},
		IgnoredSpells: []model.AbilityID{300},
	}
}

func TestMatchInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertMatch(makeMatch(42, true), "abc123"); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	exists, err := db.MatchExists(42)
	if err != nil {
		t.Fatalf("MatchExists: %v", err)
	}
	if !exists {
		t.Error("expected match to exist after insert")
	}

	exists2, _ := db.MatchExists(43)
	if exists2 {
		t.Error("expected non-existent match to not exist")
	}
}

func TestGetMatchRoundTrip(t *testing.T) {
	db := openMemDB(t)

	in := makeMatch(42, true)
	if err := db.InsertMatch(in, "abc123"); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	got, err := db.GetMatch(42)
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored match")
	}
	if got.MatchID != 42 || !got.RadiantWin || len(got.Picks) != 3 || len(got.IgnoredSpells) != 1 {
		t.Errorf("header mismatch: %+v", got)
	}
	alice := got.Radiant[0]
	if alice.Name != "Alice" || alice.Hero != 5 || alice.Kills != 9 || alice.GPM != 600 || alice.Team != model.TeamRadiant {
		t.Errorf("Alice mismatch: %+v", alice)
	}
	if id, ok := alice.Innate(); !ok || id != -5 {
		t.Errorf("Alice innate: %v %v", id, ok)
	}

	missing, err := db.GetMatch(7)
	if err != nil {
		t.Fatalf("GetMatch missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown match")
	}

	s, err := db.GetMatchSummary(42)
	if err != nil || s == nil {
		t.Fatalf("GetMatchSummary: %v %v", s, err)
	}
	if s.Hash != "abc123" || s.PickCount != 3 || s.ImportedAt == "" {
		t.Errorf("summary mismatch: %+v", s)
	}
}

func TestListMatches(t *testing.T) {
	db := openMemDB(t)

	for _, id := range []int64{10, 20} {
		if err := db.InsertMatch(makeMatch(id, id == 20), "h"); err != nil {
			t.Fatalf("InsertMatch: %v", err)
		}
	}

	list, err := db.ListMatches()
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(list))
	}
	// Same import second: ties fall back to match id DESC.
	if list[0].MatchID != 20 || !list[0].RadiantWin {
		t.Errorf("expected match 20 first, got %+v", list[0])
	}
}

func TestInsertIdempotency(t *testing.T) {
	db := openMemDB(t)

	m := makeMatch(5, false)
	db.InsertMatch(m, "h")
	// Second insert should not error (INSERT OR REPLACE).
	if err := db.InsertMatch(m, "h"); err != nil {
		t.Errorf("second InsertMatch should succeed (idempotent): %v", err)
	}
	ov, err := db.GetOverview()
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if ov.TotalMatches != 1 || ov.UniquePlayers != 2 {
		t.Errorf("overview after re-insert: %+v", ov)
	}
}

func TestStatsRoundTrip(t *testing.T) {
	db := openMemDB(t)

	abilities := map[model.AbilityID]model.AbilityStat{
		100: {Winrate: 0.55, NumPicks: 900, AvgPickPosition: 11.5},
		-5:  {Winrate: 0.48, NumPicks: 300},
	}
	pairs := map[model.PairKey]model.PairStat{
		model.MakePairKey(100, -5):  {Winrate: 0.61, NumPicks: 40},
		model.MakePairKey(100, 101): {Winrate: 0.50, NumPicks: 4},
	}
	shifts := map[model.AbilityID]model.ShiftStat{
		100: {Kills: 1.2, Deaths: -0.4, KillAssist: 3, GPM: 25, XPM: 10, Damage: 900, Healing: 50},
	}
	aghs := map[model.AbilityID]model.AghsStat{
		100: {TotalGames: 200, Scepter: model.UpgradeStat{Wins: 30, Losses: 10, Total: 40, Winrate: 0.75}, Shard: model.UpgradeStat{Total: 20}},
	}

	if err := db.ReplaceAbilityStats(abilities); err != nil {
		t.Fatalf("ReplaceAbilityStats: %v", err)
	}
	if err := db.ReplacePairStats(pairs); err != nil {
		t.Fatalf("ReplacePairStats: %v", err)
	}
	if err := db.ReplaceShiftStats(shifts); err != nil {
		t.Fatalf("ReplaceShiftStats: %v", err)
	}
	if err := db.ReplaceAghsStats(aghs); err != nil {
		t.Fatalf("ReplaceAghsStats: %v", err)
	}

	snap, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(snap.Abilities) != 2 || snap.Abilities[100].AvgPickPosition != 11.5 {
		t.Errorf("abilities: %+v", snap.Abilities)
	}
	if p, ok := snap.Pair(-5, 100); !ok || p.NumPicks != 40 || p.Winrate != 0.61 {
		t.Errorf("pair lookup: %+v %v", p, ok)
	}
	if snap.Shifts[100] != shifts[100] {
		t.Errorf("shift: got %+v, want %+v", snap.Shifts[100], shifts[100])
	}
	if snap.Aghs[100] != aghs[100] {
		t.Errorf("aghs: got %+v, want %+v", snap.Aghs[100], aghs[100])
	}

	ov, err := db.GetOverview()
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if ov.PairStats != 2 || ov.QualifyingPairs != 1 || ov.AbilityStats != 2 {
		t.Errorf("overview: %+v", ov)
	}

	// Replacing drops rows not in the new set.
	if err := db.ReplaceAbilityStats(map[model.AbilityID]model.AbilityStat{7: {Winrate: 0.5, NumPicks: 1}}); err != nil {
		t.Fatalf("ReplaceAbilityStats: %v", err)
	}
	again, _ := db.LoadAbilityStats()
	if len(again) != 1 {
		t.Errorf("expected replacement to leave 1 row, got %d", len(again))
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	db := openMemDB(t)

	abilities := []catalog.Ability{
		{ID: 5003, Name: "Chain Frost", ShortName: "frost", IsUltimate: true, OwnerHero: 31, HasScepter: true},
		{ID: 5001, Name: "Frost Blast", OwnerHero: 31, HasShard: true},
	}
	heroes := []catalog.Hero{{ID: 31, Name: "Lich", Picture: "lich"}}
	if err := db.ReplaceAbilities(abilities); err != nil {
		t.Fatalf("ReplaceAbilities: %v", err)
	}
	if err := db.ReplaceHeroes(heroes); err != nil {
		t.Fatalf("ReplaceHeroes: %v", err)
	}

	cat, err := db.LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if cat.Abilities[5003] != abilities[0] || cat.Abilities[5001] != abilities[1] {
		t.Errorf("abilities: %+v", cat.Abilities)
	}
	if cat.HeroName(31) != "Lich" {
		t.Errorf("hero name: %q", cat.HeroName(31))
	}
	if r := cat.Resolve(5003); r.Kind != model.SlotUltimate {
		t.Errorf("5003 should resolve to an ultimate, got %v", r.Kind)
	}
}

func TestTopHeroes(t *testing.T) {
	db := openMemDB(t)
	db.InsertMatch(makeMatch(1, true), "a")
	db.InsertMatch(makeMatch(2, false), "b")

	heroes, err := db.GetTopHeroes(10)
	if err != nil {
		t.Fatalf("GetTopHeroes: %v", err)
	}
	if len(heroes) != 2 {
		t.Fatalf("expected 2 heroes, got %d", len(heroes))
	}
	for _, h := range heroes {
		if h.Matches != 2 || h.Wins != 1 {
			t.Errorf("hero %d: matches=%d wins=%d", h.HeroID, h.Matches, h.Wins)
		}
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	db.InsertMatch(makeMatch(9, true), "h")

	cols, rows, err := db.QueryRaw("SELECT match_id, radiant_win, NULL AS empty FROM matches")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 3 || cols[2] != "empty" {
		t.Errorf("columns: %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "9" || rows[0][1] != "1" || rows[0][2] != "NULL" {
		t.Errorf("rows: %v", rows)
	}

	if _, _, err := db.QueryRaw("SELECT * FROM nope"); err == nil {
		t.Error("expected error for unknown table")
	}
}
