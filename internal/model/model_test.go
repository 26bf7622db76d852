package model

import "testing"

func TestPairKeySymmetric(t *testing.T) {
	cases := [][2]AbilityID{
		{5003, 5004},
		{-12, 5003},
		{-7, -120},
		{1, 2147483647},
	}
	for _, c := range cases {
		k1 := MakePairKey(c[0], c[1])
		k2 := MakePairKey(c[1], c[0])
		if k1 != k2 {
			t.Errorf("MakePairKey(%d,%d) != MakePairKey(%d,%d)", c[0], c[1], c[1], c[0])
		}
		lo, hi := c[0], c[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		if k1.Low() != lo || k1.High() != hi {
			t.Errorf("key %d decodes to (%d,%d), want (%d,%d)", k1, k1.Low(), k1.High(), lo, hi)
		}
	}
}

func TestPairKeyDistinct(t *testing.T) {
	if MakePairKey(-1, 2) == MakePairKey(1, 2) {
		t.Error("negative and positive ids must not collide")
	}
}

func TestInnateEncoding(t *testing.T) {
	id := InnateOf(74)
	if id != -74 || !id.IsInnate() || id.InnateHero() != 74 {
		t.Errorf("InnateOf(74) = %d", id)
	}
	if AbilityID(5003).InnateHero() != 0 {
		t.Error("spell ids have no innate hero")
	}
	ref := HeroInnate(74)
	if ref.Hero() != 74 || ref.Kind != SlotInnate {
		t.Errorf("HeroInnate(74) = %+v", ref)
	}
	if Spell(5003).Hero() != 0 {
		t.Error("spell refs have no hero")
	}
}

func TestPlayerInnate(t *testing.T) {
	p := Player{Hero: 7, Abilities: []AbilityID{5003, -7, 5004}}
	id, ok := p.Innate()
	if !ok || id != -7 {
		t.Errorf("Innate() = %d, %v", id, ok)
	}
	if _, ok := (Player{Abilities: []AbilityID{1, 2}}).Innate(); ok {
		t.Error("expected no innate")
	}
}

func TestPlayerCloneIsDeep(t *testing.T) {
	p := Player{Abilities: []AbilityID{1, 2}, Items: []int{3}}
	c := p.Clone()
	c.Abilities[0] = 99
	c.Items[0] = 99
	if p.Abilities[0] != 1 || p.Items[0] != 3 {
		t.Error("Clone shares backing arrays")
	}
}

func TestAghsRates(t *testing.T) {
	a := AghsStat{TotalGames: 200, Scepter: UpgradeStat{Total: 50}, Shard: UpgradeStat{Total: 20}}
	if r, ok := a.ScepterRate(); !ok || r != 0.25 {
		t.Errorf("ScepterRate = %v, %v", r, ok)
	}
	if r, ok := a.ShardRate(); !ok || r != 0.1 {
		t.Errorf("ShardRate = %v, %v", r, ok)
	}
	if _, ok := (AghsStat{}).ScepterRate(); ok {
		t.Error("zero games must be unknown")
	}
}

func TestSnapshotNilSafe(t *testing.T) {
	var s *Snapshot
	if _, ok := s.Pair(1, 2); ok {
		t.Error("nil snapshot pair lookup must miss")
	}
	if _, ok := s.Winrate(1); ok {
		t.Error("nil snapshot winrate lookup must miss")
	}
}
