package parser

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/model"
)

type (
	wireAbilityStat struct {
		AbilityID       int     `json:"abilityId"`
		Winrate         float64 `json:"winrate"`
		NumPicks        int     `json:"numPicks"`
		AvgPickPosition float64 `json:"avgPickPosition"`
	}
	wirePairStat struct {
		AbilityIDOne int     `json:"abilityIdOne"`
		AbilityIDTwo int     `json:"abilityIdTwo"`
		Winrate      float64 `json:"winrate"`
		NumPicks     int     `json:"numPicks"`
	}
	wireShiftStat struct {
		AbilityID       int     `json:"abilityId"`
		KillsShift      float64 `json:"killsShift"`
		DeathsShift     float64 `json:"deathsShift"`
		KillAssistShift float64 `json:"killAssistShift"`
		GPMShift        float64 `json:"gpmShift"`
		XPMShift        float64 `json:"xpmShift"`
		DmgShift        float64 `json:"dmgShift"`
		HealingShift    float64 `json:"healingShift"`
	}
	wireUpgrade struct {
		Wins    int     `json:"wins"`
		Losses  int     `json:"losses"`
		Total   int     `json:"total"`
		Winrate float64 `json:"winrate"`
	}
	wireAghsStat struct {
		AbilityID   int         `json:"abilityId"`
		TotalGames  int         `json:"totalGames"`
		AghsScepter wireUpgrade `json:"aghsScepter"`
		AghsShard   wireUpgrade `json:"aghsShard"`
	}
	wireAbility struct {
		ID          int    `json:"id"`
		Name        string `json:"name"`
		ShortName   string `json:"shortName"`
		IsUltimate  bool   `json:"isUltimate"`
		OwnerHeroID int    `json:"ownerHeroId"`
		HasScepter  bool   `json:"hasScepter"`
		HasShard    bool   `json:"hasShard"`
	}
	wireHero struct {
		ID      int    `json:"id"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
)

// ParseAbilityStats reads an ability statistics dump.
func ParseAbilityStats(path string) (map[model.AbilityID]model.AbilityStat, error) {
	var rows []wireAbilityStat
	if err := decodeFile(path, "ability stats", &rows); err != nil {
		return nil, err
	}
	return convertAbilityStats(rows)
}

// DecodeAbilityStats decodes an ability statistics dump from r.
func DecodeAbilityStats(r io.Reader) (map[model.AbilityID]model.AbilityStat, error) {
	var rows []wireAbilityStat
	if err := jsoniter.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode ability stats: %w", err)
	}
	return convertAbilityStats(rows)
}

func convertAbilityStats(rows []wireAbilityStat) (map[model.AbilityID]model.AbilityStat, error) {
	out := make(map[model.AbilityID]model.AbilityStat, len(rows))
	for i, r := range rows {
		if r.AbilityID == 0 {
			return nil, fmt.Errorf("ability stats row %d: zero ability id", i)
		}
		out[model.AbilityID(r.AbilityID)] = model.AbilityStat{
			Winrate:         r.Winrate,
			NumPicks:        r.NumPicks,
			AvgPickPosition: r.AvgPickPosition,
		}
	}
	return out, nil
}

// ParsePairStats reads a pair statistics dump. Pairs are canonicalised; when
// the same pair appears twice the larger sample wins.
func ParsePairStats(path string) (map[model.PairKey]model.PairStat, error) {
	var rows []wirePairStat
	if err := decodeFile(path, "pair stats", &rows); err != nil {
		return nil, err
	}
	return convertPairStats(rows)
}

// DecodePairStats decodes a pair statistics dump from r.
func DecodePairStats(r io.Reader) (map[model.PairKey]model.PairStat, error) {
	var rows []wirePairStat
	if err := jsoniter.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode pair stats: %w", err)
	}
	return convertPairStats(rows)
}

func convertPairStats(rows []wirePairStat) (map[model.PairKey]model.PairStat, error) {
	out := make(map[model.PairKey]model.PairStat, len(rows))
	for i, r := range rows {
		if r.AbilityIDOne == 0 || r.AbilityIDTwo == 0 {
			return nil, fmt.Errorf("pair stats row %d: zero ability id", i)
		}
		if r.AbilityIDOne == r.AbilityIDTwo {
			return nil, fmt.Errorf("pair stats row %d: ability %d paired with itself", i, r.AbilityIDOne)
		}
		key := model.MakePairKey(model.AbilityID(r.AbilityIDOne), model.AbilityID(r.AbilityIDTwo))
		if prev, ok := out[key]; ok && prev.NumPicks >= r.NumPicks {
			continue
		}
		out[key] = model.PairStat{Winrate: r.Winrate, NumPicks: r.NumPicks}
	}
	return out, nil
}

// ParseShiftStats reads an ability impact-shift dump.
func ParseShiftStats(path string) (map[model.AbilityID]model.ShiftStat, error) {
	var rows []wireShiftStat
	if err := decodeFile(path, "shift stats", &rows); err != nil {
		return nil, err
	}
	return convertShiftStats(rows)
}

// DecodeShiftStats decodes an ability impact-shift dump from r.
func DecodeShiftStats(r io.Reader) (map[model.AbilityID]model.ShiftStat, error) {
	var rows []wireShiftStat
	if err := jsoniter.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode shift stats: %w", err)
	}
	return convertShiftStats(rows)
}

func convertShiftStats(rows []wireShiftStat) (map[model.AbilityID]model.ShiftStat, error) {
	out := make(map[model.AbilityID]model.ShiftStat, len(rows))
	for i, r := range rows {
		if r.AbilityID == 0 {
			return nil, fmt.Errorf("shift stats row %d: zero ability id", i)
		}
		out[model.AbilityID(r.AbilityID)] = model.ShiftStat{
			Kills:      r.KillsShift,
			Deaths:     r.DeathsShift,
			KillAssist: r.KillAssistShift,
			GPM:        r.GPMShift,
			XPM:        r.XPMShift,
			Damage:     r.DmgShift,
			Healing:    r.HealingShift,
		}
	}
	return out, nil
}

// ParseAghsStats reads an Aghanim upgrade statistics dump.
func ParseAghsStats(path string) (map[model.AbilityID]model.AghsStat, error) {
	var rows []wireAghsStat
	if err := decodeFile(path, "aghs stats", &rows); err != nil {
		return nil, err
	}
	return convertAghsStats(rows)
}

// DecodeAghsStats decodes an Aghanim upgrade statistics dump from r.
func DecodeAghsStats(r io.Reader) (map[model.AbilityID]model.AghsStat, error) {
	var rows []wireAghsStat
	if err := jsoniter.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode aghs stats: %w", err)
	}
	return convertAghsStats(rows)
}

func convertAghsStats(rows []wireAghsStat) (map[model.AbilityID]model.AghsStat, error) {
	out := make(map[model.AbilityID]model.AghsStat, len(rows))
	upgrade := func(u wireUpgrade) model.UpgradeStat {
		return model.UpgradeStat{Wins: u.Wins, Losses: u.Losses, Total: u.Total, Winrate: u.Winrate}
	}
	for i, r := range rows {
		if r.AbilityID == 0 {
			return nil, fmt.Errorf("aghs stats row %d: zero ability id", i)
		}
		out[model.AbilityID(r.AbilityID)] = model.AghsStat{
			TotalGames: r.TotalGames,
			Scepter:    upgrade(r.AghsScepter),
			Shard:      upgrade(r.AghsShard),
		}
	}
	return out, nil
}

// ParseAbilityCatalog reads the static ability list.
func ParseAbilityCatalog(path string) ([]catalog.Ability, error) {
	var rows []wireAbility
	if err := decodeFile(path, "ability catalog", &rows); err != nil {
		return nil, err
	}
	return convertAbilities(rows)
}

// DecodeAbilityCatalog decodes the static ability list from r.
func DecodeAbilityCatalog(r io.Reader) ([]catalog.Ability, error) {
	var rows []wireAbility
	if err := jsoniter.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode ability catalog: %w", err)
	}
	return convertAbilities(rows)
}

func convertAbilities(rows []wireAbility) ([]catalog.Ability, error) {
	out := make([]catalog.Ability, 0, len(rows))
	for i, r := range rows {
		if r.ID <= 0 {
			return nil, fmt.Errorf("ability catalog row %d: invalid id %d", i, r.ID)
		}
		out = append(out, catalog.Ability{
			ID:         model.AbilityID(r.ID),
			Name:       r.Name,
			ShortName:  r.ShortName,
			IsUltimate: r.IsUltimate,
			OwnerHero:  model.HeroID(r.OwnerHeroID),
			HasScepter: r.HasScepter,
			HasShard:   r.HasShard,
		})
	}
	return out, nil
}

// ParseHeroCatalog reads the static hero list.
func ParseHeroCatalog(path string) ([]catalog.Hero, error) {
	var rows []wireHero
	if err := decodeFile(path, "hero catalog", &rows); err != nil {
		return nil, err
	}
	return convertHeroes(rows)
}

// DecodeHeroCatalog decodes the static hero list from r.
func DecodeHeroCatalog(r io.Reader) ([]catalog.Hero, error) {
	var rows []wireHero
	if err := jsoniter.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode hero catalog: %w", err)
	}
	return convertHeroes(rows)
}

func convertHeroes(rows []wireHero) ([]catalog.Hero, error) {
	out := make([]catalog.Hero, 0, len(rows))
	for i, r := range rows {
		if r.ID <= 0 {
			return nil, fmt.Errorf("hero catalog row %d: invalid id %d", i, r.ID)
		}
		out = append(out, catalog.Hero{ID: model.HeroID(r.ID), Name: r.Name, Picture: r.Picture})
	}
	return out, nil
}
