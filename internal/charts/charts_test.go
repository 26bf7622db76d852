package charts

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pable/go-ad-metrics/internal/aggregator"
	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/draft"
	"github.com/pable/go-ad-metrics/internal/model"
)

func makeMatch() (*model.Match, *catalog.Catalog, *model.Snapshot) {
	cat := catalog.New()
	cat.Heroes[5] = catalog.Hero{ID: 5, Name: "Crystal Maiden"}
	cat.Heroes[7] = catalog.Hero{ID: 7, Name: "Earthshaker"}
	cat.Abilities[100] = catalog.Ability{ID: 100, Name: "Frostbite", OwnerHero: 5}
	cat.Abilities[101] = catalog.Ability{ID: 101, Name: "Arcane Aura", OwnerHero: 5}
	cat.Abilities[200] = catalog.Ability{ID: 200, Name: "Echo Slam", IsUltimate: true, OwnerHero: 7}

	m := &model.Match{
		MatchID: 1,
		Radiant: []model.Player{{Name: "alpha", Team: model.TeamRadiant, Hero: 5, Abilities: []model.AbilityID{100, 101, -5}}},
		Dire:    []model.Player{{Name: "bravo", Team: model.TeamDire, Hero: 7, Abilities: []model.AbilityID{200, -7}}},
		Picks: []model.Pick{
			{AbilityID: 100, PickOrder: 1},
			{AbilityID: 200, PickOrder: 2},
			{AbilityID: 101, PickOrder: 3},
		},
	}

	snap := model.NewSnapshot()
	snap.Abilities[100] = model.AbilityStat{Winrate: 0.5, NumPicks: 100}
	snap.Abilities[101] = model.AbilityStat{Winrate: 0.5, NumPicks: 100}
	snap.Pairs[model.MakePairKey(100, 101)] = model.PairStat{Winrate: 0.6, NumPicks: 50}
	snap.Shifts[100] = model.ShiftStat{Kills: 1.25, GPM: 30}
	return m, cat, snap
}

func TestProgression(t *testing.T) {
	m, cat, snap := makeMatch()
	tl := draft.NewTimeline(m, cat, draft.StandardComposition())
	p := Progression(tl, snap)

	if len(p.Steps) != 4 {
		t.Fatalf("want 4 points (steps 0..3), got %d", len(p.Steps))
	}
	for step := 0; step < 3; step++ {
		if p.Radiant[step].OK {
			t.Errorf("step %d: radiant synergy should be unknown before the pair is drafted", step)
		}
	}
	last := p.Radiant[3]
	if !last.OK || last.Value < 0.099 || last.Value > 0.101 {
		t.Errorf("final radiant synergy: %+v", last)
	}
	for step, pt := range p.Dire {
		if pt.OK {
			t.Errorf("step %d: dire has no qualifying pair", step)
		}
	}
}

func TestRenderSynergyTimeline(t *testing.T) {
	m, cat, snap := makeMatch()
	tl := draft.NewTimeline(m, cat, draft.StandardComposition())

	config := DefaultChartConfig()
	config.Title = "Match 1 synergy"
	var buf bytes.Buffer
	if err := RenderSynergyTimeline(&buf, Progression(tl, snap), config); err != nil {
		t.Fatalf("RenderSynergyTimeline: %v", err)
	}
	if !strings.Contains(buf.String(), "Match 1 synergy") {
		t.Error("rendered chart missing title")
	}
}

func TestRenderImpactPage_WritesFile(t *testing.T) {
	m, cat, snap := makeMatch()
	rows := aggregator.Aggregate(m, snap, cat, draft.NewOrder(m))

	config := DefaultChartConfig()
	config.Title = "Impact"
	path := filepath.Join(t.TempDir(), "impact.html")
	err := WriteFile(path, func(w io.Writer) error {
		return RenderImpactPage(w, rows, cat, config)
	})
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	out := string(data)
	for _, want := range []string{"SCEPTER", "GPM", "Crystal Maiden"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q", want)
		}
	}
}

func TestWriteFile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "chart.html")
	err := WriteFile(path, func(io.Writer) error { return nil })
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
