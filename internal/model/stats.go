package model

// MinPairPicks is the confidence floor: pair statistics with fewer samples
// are unknown, never zero.
const MinPairPicks = 10

// PairKey is the canonical composite key of an unordered ability pair: the
// numerically lower id in the high 32 bits, the higher id in the low 32 bits.
type PairKey uint64

// MakePairKey canonicalises (a, b) so that MakePairKey(a, b) == MakePairKey(b, a).
func MakePairKey(a, b AbilityID) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey(uint64(uint32(int32(a)))<<32 | uint64(uint32(int32(b))))
}

// Low returns the numerically lower ability of the pair.
func (k PairKey) Low() AbilityID { return AbilityID(int32(uint32(k >> 32))) }

// High returns the numerically higher ability of the pair.
func (k PairKey) High() AbilityID { return AbilityID(int32(uint32(k))) }

// AbilityStat is the aggregate record of one ability across historical matches.
type AbilityStat struct {
	Winrate         float64
	NumPicks        int
	AvgPickPosition float64
}

// PairStat is the aggregate record of two abilities drafted by the same player.
type PairStat struct {
	Winrate  float64
	NumPicks int
}

// Qualifies reports whether the pair meets the confidence floor.
func (p PairStat) Qualifies() bool { return p.NumPicks >= MinPairPicks }

// ShiftStat holds per-game deltas attributable to having an ability.
type ShiftStat struct {
	Kills      float64
	Deaths     float64
	KillAssist float64
	GPM        float64
	XPM        float64
	Damage     float64
	Healing    float64
}

// Assists is the assist delta derived from kill+assist minus kills.
func (s ShiftStat) Assists() float64 { return s.KillAssist - s.Kills }

// UpgradeStat is the outcome block for games where an Aghanim upgrade was bought.
type UpgradeStat struct {
	Wins    int
	Losses  int
	Total   int
	Winrate float64
}

// AghsStat is the Aghanim's Scepter/Shard record for one ability.
type AghsStat struct {
	TotalGames int
	Scepter    UpgradeStat
	Shard      UpgradeStat
}

// ScepterRate is the share of games with the ability where Scepter was bought.
func (a AghsStat) ScepterRate() (float64, bool) {
	if a.TotalGames <= 0 {
		return 0, false
	}
	return float64(a.Scepter.Total) / float64(a.TotalGames), true
}

// ShardRate is the share of games with the ability where Shard was bought.
func (a AghsStat) ShardRate() (float64, bool) {
	if a.TotalGames <= 0 {
		return 0, false
	}
	return float64(a.Shard.Total) / float64(a.TotalGames), true
}

// Snapshot bundles the precomputed aggregate maps consumed by the analyses.
type Snapshot struct {
	Abilities map[AbilityID]AbilityStat
	Pairs     map[PairKey]PairStat
	Shifts    map[AbilityID]ShiftStat
	Aghs      map[AbilityID]AghsStat
}

// NewSnapshot returns a snapshot with empty, non-nil maps.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Abilities: make(map[AbilityID]AbilityStat),
		Pairs:     make(map[PairKey]PairStat),
		Shifts:    make(map[AbilityID]ShiftStat),
		Aghs:      make(map[AbilityID]AghsStat),
	}
}

// Pair looks up the pair statistic for (a, b) in either order.
func (s *Snapshot) Pair(a, b AbilityID) (PairStat, bool) {
	if s == nil {
		return PairStat{}, false
	}
	p, ok := s.Pairs[MakePairKey(a, b)]
	return p, ok
}

// Winrate returns the ability's aggregate win rate if known.
func (s *Snapshot) Winrate(id AbilityID) (float64, bool) {
	if s == nil {
		return 0, false
	}
	st, ok := s.Abilities[id]
	return st.Winrate, ok
}
