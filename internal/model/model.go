package model

import "fmt"

// Team represents which side a player drafted for.
type Team int

const (
	TeamUnknown Team = 0
	TeamRadiant Team = 1
	TeamDire    Team = 2
)

func (t Team) String() string {
	switch t {
	case TeamRadiant:
		return "Radiant"
	case TeamDire:
		return "Dire"
	default:
		return "?"
	}
}

// Opponent returns the other side.
func (t Team) Opponent() Team {
	switch t {
	case TeamRadiant:
		return TeamDire
	case TeamDire:
		return TeamRadiant
	default:
		return TeamUnknown
	}
}

// AbilityID is the raw, sign-encoded identifier used by the stats API.
// Positive values are spells or ultimates; negative values are hero innates
// whose magnitude is the owning hero's id. Zero is invalid.
type AbilityID int

// HeroID identifies a hero.
type HeroID int

// IsInnate reports whether the id encodes a hero innate slot.
func (id AbilityID) IsInnate() bool { return id < 0 }

// InnateHero returns the hero encoded by a negative id, or 0 for spells.
func (id AbilityID) InnateHero() HeroID {
	if id < 0 {
		return HeroID(-id)
	}
	return 0
}

// InnateOf returns the ability id of hero's innate slot.
func InnateOf(hero HeroID) AbilityID { return AbilityID(-hero) }

// SlotKind is the draft slot an ability fills.
type SlotKind int

const (
	SlotSpell SlotKind = iota
	SlotUltimate
	SlotInnate
)

func (k SlotKind) String() string {
	switch k {
	case SlotSpell:
		return "spell"
	case SlotUltimate:
		return "ultimate"
	case SlotInnate:
		return "innate"
	default:
		return "?"
	}
}

// AbilityRef is an ability id resolved once into its slot kind.
type AbilityRef struct {
	ID   AbilityID
	Kind SlotKind
}

// Spell, Ultimate and HeroInnate build resolved refs.
func Spell(id AbilityID) AbilityRef    { return AbilityRef{ID: id, Kind: SlotSpell} }
func Ultimate(id AbilityID) AbilityRef { return AbilityRef{ID: id, Kind: SlotUltimate} }
func HeroInnate(hero HeroID) AbilityRef {
	return AbilityRef{ID: InnateOf(hero), Kind: SlotInnate}
}

// Hero returns the hero of an innate ref, or 0.
func (r AbilityRef) Hero() HeroID {
	if r.Kind != SlotInnate {
		return 0
	}
	return r.ID.InnateHero()
}

func (r AbilityRef) String() string {
	return fmt.Sprintf("%s(%d)", r.Kind, r.ID)
}

// Pick is one entry of the recorded draft history.
type Pick struct {
	AbilityID AbilityID
	PickOrder int // 1-based
}

// Player is one of the ten match participants with their final draft.
type Player struct {
	AccountID int64
	Name      string
	Team      Team
	Hero      HeroID
	Abilities []AbilityID

	Kills       int
	Deaths      int
	Assists     int
	GPM         int
	XPM         int
	HeroDamage  int
	HeroHealing int
	Items       []int
}

// Innate returns the player's first hero-innate entry.
func (p Player) Innate() (AbilityID, bool) {
	for _, id := range p.Abilities {
		if id.IsInnate() {
			return id, true
		}
	}
	return 0, false
}

// HasAbility reports whether id is in the player's final ability list.
func (p Player) HasAbility(id AbilityID) bool {
	for _, a := range p.Abilities {
		if a == id {
			return true
		}
	}
	return false
}

// DisplayName returns the player name or a placeholder.
func (p Player) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.AccountID != 0 {
		return fmt.Sprintf("#%d", p.AccountID)
	}
	return "anonymous"
}

// Clone returns a deep copy of the player's slices.
func (p Player) Clone() Player {
	c := p
	c.Abilities = append([]AbilityID(nil), p.Abilities...)
	c.Items = append([]int(nil), p.Items...)
	return c
}

// Match is one match payload as served by the stats API.
type Match struct {
	MatchID       int64
	RadiantWin    bool
	Radiant       []Player
	Dire          []Player
	Picks         []Pick
	IgnoredSpells []AbilityID
}

// Side returns the player list for a team.
func (m *Match) Side(t Team) []Player {
	switch t {
	case TeamRadiant:
		return m.Radiant
	case TeamDire:
		return m.Dire
	default:
		return nil
	}
}

// Players returns all players, Radiant first.
func (m *Match) Players() []Player {
	out := make([]Player, 0, len(m.Radiant)+len(m.Dire))
	out = append(out, m.Radiant...)
	out = append(out, m.Dire...)
	return out
}

// Winner returns the winning side.
func (m *Match) Winner() Team {
	if m.RadiantWin {
		return TeamRadiant
	}
	return TeamDire
}

// MatchSummary is the stored header for a match.
type MatchSummary struct {
	MatchID    int64
	Hash       string // sha256 of the imported file
	RadiantWin bool
	PickCount  int
	ImportedAt string
}
