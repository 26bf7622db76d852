// Package parser decodes match payloads and aggregate statistic dumps from
// JSON files, optionally zstd-compressed.
package parser

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-ad-metrics/internal/model"
)

// Wire shapes of the match payload.
type (
	wirePick struct {
		AbilityID int `json:"abilityId"`
		PickOrder int `json:"pickOrder"`
	}
	wireIgnored struct {
		AbilityID int `json:"abilityId"`
	}
	wirePlayer struct {
		AccountID   int64  `json:"accountId"`
		Name        string `json:"name"`
		Hero        int    `json:"hero"`
		Abilities   []int  `json:"abilities"`
		Kills       int    `json:"kills"`
		Deaths      int    `json:"deaths"`
		Assists     int    `json:"assists"`
		GPM         int    `json:"gpm"`
		XPM         int    `json:"xpm"`
		HeroDamage  int    `json:"heroDamage"`
		HeroHealing int    `json:"heroHealing"`
		Items       []int  `json:"items"`
	}
	wireMatch struct {
		MatchID       int64         `json:"matchId"`
		RadiantWin    bool          `json:"radiantWin"`
		Radiant       []wirePlayer  `json:"radiant"`
		Dire          []wirePlayer  `json:"dire"`
		Picks         []wirePick    `json:"picks"`
		IgnoredSpells []wireIgnored `json:"ignoredSpells"`
	}
)

// ParseMatch reads the match payload at path and returns it together with the
// sha256 of the file, used as an idempotency key.
func ParseMatch(path string) (*model.Match, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open match: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, "", fmt.Errorf("hash match: %w", err)
	}
	hash := fmt.Sprintf("%x", h.Sum(nil))

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("seek match: %w", err)
	}

	r, closeFn, err := wrap(path, f)
	if err != nil {
		return nil, "", err
	}
	defer closeFn()

	m, err := DecodeMatch(r)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return m, hash, nil
}

// DecodeMatch decodes and validates one match payload.
func DecodeMatch(r io.Reader) (*model.Match, error) {
	var w wireMatch
	if err := jsoniter.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("decode match: %w", err)
	}

	m := &model.Match{
		MatchID:    w.MatchID,
		RadiantWin: w.RadiantWin,
		Radiant:    convertPlayers(w.Radiant, model.TeamRadiant),
		Dire:       convertPlayers(w.Dire, model.TeamDire),
	}
	for _, p := range w.Picks {
		m.Picks = append(m.Picks, model.Pick{AbilityID: model.AbilityID(p.AbilityID), PickOrder: p.PickOrder})
	}
	for _, ig := range w.IgnoredSpells {
		m.IgnoredSpells = append(m.IgnoredSpells, model.AbilityID(ig.AbilityID))
	}

	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

func convertPlayers(in []wirePlayer, team model.Team) []model.Player {
	out := make([]model.Player, len(in))
	for i, p := range in {
		abilities := make([]model.AbilityID, len(p.Abilities))
		for j, id := range p.Abilities {
			abilities[j] = model.AbilityID(id)
		}
		out[i] = model.Player{
			AccountID:   p.AccountID,
			Name:        p.Name,
			Team:        team,
			Hero:        model.HeroID(p.Hero),
			Abilities:   abilities,
			Kills:       p.Kills,
			Deaths:      p.Deaths,
			Assists:     p.Assists,
			GPM:         p.GPM,
			XPM:         p.XPM,
			HeroDamage:  p.HeroDamage,
			HeroHealing: p.HeroHealing,
			Items:       p.Items,
		}
	}
	return out
}

// Validate rejects zero ability ids and pick orders that are not a
// permutation of 1..N.
func Validate(m *model.Match) error {
	if m.MatchID == 0 {
		return fmt.Errorf("match id missing")
	}
	for _, p := range m.Players() {
		for _, id := range p.Abilities {
			if id == 0 {
				return fmt.Errorf("player %s: zero ability id", p.DisplayName())
			}
		}
	}
	for _, id := range m.IgnoredSpells {
		if id == 0 {
			return fmt.Errorf("ignored spells: zero ability id")
		}
	}

	orders := make([]int, len(m.Picks))
	for i, pk := range m.Picks {
		if pk.AbilityID == 0 {
			return fmt.Errorf("pick order %d: zero ability id", pk.PickOrder)
		}
		orders[i] = pk.PickOrder
	}
	sort.Ints(orders)
	for i, o := range orders {
		if i > 0 && o == orders[i-1] {
			return fmt.Errorf("duplicate pick order %d", o)
		}
		if o != i+1 {
			return fmt.Errorf("non-contiguous pick order %d (expected %d)", o, i+1)
		}
	}
	return nil
}

// wrap returns a reader over f, decompressing .zst files.
func wrap(path string, f io.Reader) (io.Reader, func(), error) {
	if !strings.HasSuffix(strings.ToLower(path), ".zst") {
		return f, func() {}, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, nil, fmt.Errorf("zstd reader: %w", err)
	}
	return dec, dec.Close, nil
}

// decodeFile opens path and decodes its JSON content into v.
func decodeFile(path, what string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", what, err)
	}
	defer f.Close()

	r, closeFn, err := wrap(path, f)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := jsoniter.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s %s: %w", what, path, err)
	}
	return nil
}
