package catalog

import (
	"testing"

	"github.com/pable/go-ad-metrics/internal/model"
)

func testCatalog() *Catalog {
	c := New()
	c.Abilities[5003] = Ability{ID: 5003, Name: "Mana Break", ShortName: "Break", OwnerHero: 1}
	c.Abilities[5006] = Ability{ID: 5006, Name: "Mana Void", IsUltimate: true, OwnerHero: 1, HasScepter: true}
	c.Heroes[1] = Hero{ID: 1, Name: "Anti-Mage"}
	return c
}

func TestResolve(t *testing.T) {
	c := testCatalog()
	cases := []struct {
		id   model.AbilityID
		want model.SlotKind
	}{
		{5003, model.SlotSpell},
		{5006, model.SlotUltimate},
		{-1, model.SlotInnate},
		{9999, model.SlotSpell},
	}
	for _, tc := range cases {
		if got := c.Resolve(tc.id); got.Kind != tc.want || got.ID != tc.id {
			t.Errorf("Resolve(%d) = %v, want kind %v", tc.id, got, tc.want)
		}
	}
}

func TestNamesFallBack(t *testing.T) {
	c := testCatalog()
	if got := c.AbilityName(5003); got != "Mana Break" {
		t.Errorf("AbilityName(5003) = %q", got)
	}
	if got := c.ShortName(5003); got != "Break" {
		t.Errorf("ShortName(5003) = %q", got)
	}
	if got := c.AbilityName(42); got != "Ability #42" {
		t.Errorf("AbilityName(42) = %q", got)
	}
	if got := c.AbilityName(-1); got != "Anti-Mage (innate)" {
		t.Errorf("AbilityName(-1) = %q", got)
	}
	if got := c.HeroName(77); got != "Hero #77" {
		t.Errorf("HeroName(77) = %q", got)
	}

	var nilCat *Catalog
	if got := nilCat.AbilityName(5003); got != "Ability #5003" {
		t.Errorf("nil catalog AbilityName = %q", got)
	}
}

func TestOwner(t *testing.T) {
	c := testCatalog()
	if h, ok := c.Owner(5006); !ok || h != 1 {
		t.Errorf("Owner(5006) = %d, %v", h, ok)
	}
	if h, ok := c.Owner(-14); !ok || h != 14 {
		t.Errorf("Owner(-14) = %d, %v", h, ok)
	}
	if _, ok := c.Owner(42); ok {
		t.Error("unknown ability must have unknown owner")
	}
	if !c.HasScepter(5006) || c.HasShard(5006) {
		t.Error("upgrade flags not read from catalog")
	}
}
