package cmd

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/draft"
	"github.com/pable/go-ad-metrics/internal/model"
	"github.com/pable/go-ad-metrics/internal/storage"
)

// loadedMatch is a stored match after ownership repair, ready to replay.
type loadedMatch struct {
	Summary  *model.MatchSummary
	Raw      *model.Match
	Match    *model.Match // repaired
	Repair   draft.RepairResult
	Timeline *draft.Timeline
}

func parseMatchID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid match id %q", arg)
	}
	return id, nil
}

// loadReference reads the catalog and the aggregate snapshot.
func loadReference(db *storage.DB) (*catalog.Catalog, *model.Snapshot, error) {
	cat, err := db.LoadCatalog()
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	snap, err := db.LoadSnapshot()
	if err != nil {
		return nil, nil, fmt.Errorf("load snapshot: %w", err)
	}
	log.WithFields(logrus.Fields{
		"abilities": len(cat.Abilities),
		"heroes":    len(cat.Heroes),
		"pairs":     len(snap.Pairs),
	}).Debug("reference data loaded")
	return cat, snap, nil
}

// loadMatch fetches a stored match, repairs ability ownership and builds its
// timeline. Returns nil, nil when the match is not stored.
func loadMatch(db *storage.DB, id int64, cat *catalog.Catalog) (*loadedMatch, error) {
	raw, err := db.GetMatch(id)
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	summary, err := db.GetMatchSummary(id)
	if err != nil {
		return nil, fmt.Errorf("get match summary: %w", err)
	}
	return prepareMatch(raw, summary, cat), nil
}

// prepareMatch repairs a decoded match and builds its timeline.
func prepareMatch(raw *model.Match, summary *model.MatchSummary, cat *catalog.Catalog) *loadedMatch {
	m, res := draft.RepairMatch(raw, draft.DefaultRepairOptions())
	logRepair(m, res, cat)
	return &loadedMatch{
		Summary:  summary,
		Raw:      raw,
		Match:    m,
		Repair:   res,
		Timeline: draft.NewTimeline(m, cat, draft.StandardComposition()),
	}
}

func logRepair(m *model.Match, res draft.RepairResult, cat *catalog.Catalog) {
	l := log.WithFields(logrus.Fields{"component": "repair", "match": m.MatchID})
	for _, s := range res.Swaps {
		l.WithFields(logrus.Fields{
			"pass":   s.Pass,
			"a":      m.Side(s.A.Team)[s.A.Index].DisplayName(),
			"b":      m.Side(s.B.Team)[s.B.Index].DisplayName(),
			"innate": cat.HeroName(s.InnateHero),
		}).Debug("swapped ability lists")
	}
	for _, u := range res.Unresolved {
		l.WithFields(logrus.Fields{
			"player": m.Side(u.Player.Team)[u.Player.Index].DisplayName(),
			"hero":   cat.HeroName(u.Hero),
		}).Warn("innate still mismatched after repair")
	}
	if len(res.Swaps) > 0 {
		l.WithField("swaps", len(res.Swaps)).Info("ability ownership repaired")
	}
}

func hashOf(lm *loadedMatch) string {
	if lm.Summary == nil {
		return ""
	}
	return lm.Summary.Hash
}
