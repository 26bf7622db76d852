// Package catalog holds the static ability and hero lookups. Every lookup
// degrades to a placeholder when the id is unknown.
package catalog

import (
	"fmt"

	"github.com/pable/go-ad-metrics/internal/model"
)

// Ability is the static description of a draftable ability.
type Ability struct {
	ID         model.AbilityID
	Name       string
	ShortName  string
	IsUltimate bool
	OwnerHero  model.HeroID
	HasScepter bool
	HasShard   bool
}

// Hero is the static description of a hero.
type Hero struct {
	ID      model.HeroID
	Name    string
	Picture string
}

// Catalog indexes abilities and heroes by id.
type Catalog struct {
	Abilities map[model.AbilityID]Ability
	Heroes    map[model.HeroID]Hero
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		Abilities: make(map[model.AbilityID]Ability),
		Heroes:    make(map[model.HeroID]Hero),
	}
}

// Ability looks up an ability. Innate ids are never in the ability table.
func (c *Catalog) Ability(id model.AbilityID) (Ability, bool) {
	if c == nil {
		return Ability{}, false
	}
	a, ok := c.Abilities[id]
	return a, ok
}

// Hero looks up a hero.
func (c *Catalog) Hero(id model.HeroID) (Hero, bool) {
	if c == nil {
		return Hero{}, false
	}
	h, ok := c.Heroes[id]
	return h, ok
}

// HeroName returns the hero's name or "Hero #id".
func (c *Catalog) HeroName(id model.HeroID) string {
	if h, ok := c.Hero(id); ok && h.Name != "" {
		return h.Name
	}
	return fmt.Sprintf("Hero #%d", id)
}

// AbilityName returns a display label for any ability id, including innates.
func (c *Catalog) AbilityName(id model.AbilityID) string {
	if id.IsInnate() {
		return c.HeroName(id.InnateHero()) + " (innate)"
	}
	if a, ok := c.Ability(id); ok {
		if a.Name != "" {
			return a.Name
		}
		if a.ShortName != "" {
			return a.ShortName
		}
	}
	return fmt.Sprintf("Ability #%d", id)
}

// ShortName prefers the compact label for narrow tables.
func (c *Catalog) ShortName(id model.AbilityID) string {
	if !id.IsInnate() {
		if a, ok := c.Ability(id); ok && a.ShortName != "" {
			return a.ShortName
		}
	}
	return c.AbilityName(id)
}

// Owner returns the hero an ability originates from. Innates belong to their
// own hero. The second result is false when the owner is unknown.
func (c *Catalog) Owner(id model.AbilityID) (model.HeroID, bool) {
	if id.IsInnate() {
		return id.InnateHero(), true
	}
	if a, ok := c.Ability(id); ok && a.OwnerHero != 0 {
		return a.OwnerHero, true
	}
	return 0, false
}

// Resolve classifies a raw id into its slot kind. Unknown positive ids are
// treated as spells.
func (c *Catalog) Resolve(id model.AbilityID) model.AbilityRef {
	if id.IsInnate() {
		return model.HeroInnate(id.InnateHero())
	}
	if a, ok := c.Ability(id); ok && a.IsUltimate {
		return model.Ultimate(id)
	}
	return model.Spell(id)
}

// ResolveAll resolves a list of ids in order.
func (c *Catalog) ResolveAll(ids []model.AbilityID) []model.AbilityRef {
	out := make([]model.AbilityRef, len(ids))
	for i, id := range ids {
		out[i] = c.Resolve(id)
	}
	return out
}

// HasScepter reports whether the ability offers a Scepter upgrade.
func (c *Catalog) HasScepter(id model.AbilityID) bool {
	a, ok := c.Ability(id)
	return ok && a.HasScepter
}

// HasShard reports whether the ability offers a Shard upgrade.
func (c *Catalog) HasShard(id model.AbilityID) bool {
	a, ok := c.Ability(id)
	return ok && a.HasShard
}
