// Package aggregator sums per-ability impact statistics over each player's
// final ability set into a sortable role profile.
package aggregator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/draft"
	"github.com/pable/go-ad-metrics/internal/model"
)

// Column is one sortable figure of an impact row.
type Column int

const (
	ColKills Column = iota
	ColDeaths
	ColAssists
	ColKillAssist
	ColGPM
	ColXPM
	ColDamage
	ColHealing
	ColScepter
	ColShard

	NumColumns = int(ColShard) + 1
)

var columnNames = [NumColumns]string{
	"kills", "deaths", "assists", "ka", "gpm", "xpm", "damage", "healing", "scepter", "shard",
}

var columnHeaders = [NumColumns]string{
	"K Δ", "D Δ", "A Δ", "K+A Δ", "GPM Δ", "XPM Δ", "DMG Δ", "HEAL Δ", "SCEPTER", "SHARD",
}

// Columns returns every column in display order.
func Columns() []Column {
	out := make([]Column, NumColumns)
	for i := range out {
		out[i] = Column(i)
	}
	return out
}

// String returns the column's short name, as accepted by ParseColumn.
func (c Column) String() string {
	if c < 0 || int(c) >= NumColumns {
		return fmt.Sprintf("column(%d)", int(c))
	}
	return columnNames[c]
}

// Header is the table heading for the column.
func (c Column) Header() string {
	if c < 0 || int(c) >= NumColumns {
		return c.String()
	}
	return columnHeaders[c]
}

// Invert reports whether lower values are better in this column.
func (c Column) Invert() bool { return c == ColDeaths }

// IsRate reports whether the column holds an upgrade pick rate rather than a delta.
func (c Column) IsRate() bool { return c == ColScepter || c == ColShard }

// ParseColumn resolves a column by its short name.
func ParseColumn(name string) (Column, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range columnNames {
		if n == name {
			return Column(i), nil
		}
	}
	return 0, fmt.Errorf("unknown column %q (want one of %s)", name, strings.Join(columnNames[:], ", "))
}

// Row is one player's aggregate role profile.
type Row struct {
	Ref    draft.PlayerRef
	Player model.Player
	Rank   int // first-pick rank within the side

	Values [NumColumns]float64

	// Abilities that contributed shift data, and how many carry each upgrade.
	ShiftCovered int
	ScepterCount int
	ShardCount   int
}

// Value returns the row's figure for a column.
func (r Row) Value(c Column) float64 {
	if c < 0 || int(c) >= NumColumns {
		return 0
	}
	return r.Values[c]
}

// HasUpgrade reports whether any ability in the set offers the upgrade the
// rate column refers to.
func (r Row) HasUpgrade(c Column) bool {
	switch c {
	case ColScepter:
		return r.ScepterCount > 0
	case ColShard:
		return r.ShardCount > 0
	default:
		return false
	}
}

// Aggregate builds one row per player, Radiant first, in default order.
// Abilities without shift data contribute nothing. Upgrade rates are summed
// only over abilities the catalog flags as offering that upgrade.
func Aggregate(m *model.Match, s *model.Snapshot, cat *catalog.Catalog, order draft.Order) []Row {
	if m == nil {
		return nil
	}
	rows := make([]Row, 0, len(m.Radiant)+len(m.Dire))
	for _, team := range []model.Team{model.TeamRadiant, model.TeamDire} {
		for i, p := range m.Side(team) {
			ref := draft.PlayerRef{Team: team, Index: i}
			rows = append(rows, aggregatePlayer(ref, p, order.Rank(ref), s, cat))
		}
	}
	return SortRows(rows, SortState{})
}

func aggregatePlayer(ref draft.PlayerRef, p model.Player, rank int, s *model.Snapshot, cat *catalog.Catalog) Row {
	row := Row{Ref: ref, Player: p, Rank: rank}
	if s == nil {
		return row
	}
	for _, id := range p.Abilities {
		if sh, ok := s.Shifts[id]; ok {
			row.ShiftCovered++
			row.Values[ColKills] += sh.Kills
			row.Values[ColDeaths] += sh.Deaths
			row.Values[ColAssists] += sh.Assists()
			row.Values[ColKillAssist] += sh.KillAssist
			row.Values[ColGPM] += sh.GPM
			row.Values[ColXPM] += sh.XPM
			row.Values[ColDamage] += sh.Damage
			row.Values[ColHealing] += sh.Healing
		}

		ag, hasAghs := s.Aghs[id]
		if cat.HasScepter(id) {
			row.ScepterCount++
			if rate, ok := ag.ScepterRate(); hasAghs && ok {
				row.Values[ColScepter] += rate
			}
		}
		if cat.HasShard(id) {
			row.ShardCount++
			if rate, ok := ag.ShardRate(); hasAghs && ok {
				row.Values[ColShard] += rate
			}
		}
	}
	return row
}

// SortState is the table's active sort. The zero value means no explicit sort.
type SortState struct {
	Column Column
	Active bool
	Desc   bool
}

// Toggle applies a click on a column header: a new column sorts descending,
// the active column flips direction.
func (s SortState) Toggle(c Column) SortState {
	if !s.Active || s.Column != c {
		return SortState{Column: c, Active: true, Desc: true}
	}
	s.Desc = !s.Desc
	return s
}

// String describes the sort for status lines.
func (s SortState) String() string {
	if !s.Active {
		return "default (side, draft rank)"
	}
	dir := "asc"
	if s.Desc {
		dir = "desc"
	}
	return s.Column.String() + " " + dir
}

// SortRows returns a sorted copy of rows. Without an active sort rows are
// ordered by side, then first-pick rank; that order also breaks ties.
func SortRows(rows []Row, s SortState) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if s.Active {
			va, vb := a.Value(s.Column), b.Value(s.Column)
			if va != vb {
				if s.Desc {
					return va > vb
				}
				return va < vb
			}
		}
		return defaultLess(a, b)
	})
	return out
}

func defaultLess(a, b Row) bool {
	if a.Ref.Team != b.Ref.Team {
		return a.Ref.Team < b.Ref.Team
	}
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.Ref.Index < b.Ref.Index
}

// deadZone is the distance from the midpoint below which no tone is applied.
const deadZone = 0.1

// Tone is the highlight of one cell.
type Tone int

const (
	ToneNone Tone = iota
	ToneGood
	ToneBad
)

// Shade is the relative coloring of one cell.
type Shade struct {
	Norm     float64 // min-max normalised, already inverted where lower is better
	Tone     Tone
	Strength float64 // 0..1 distance from the midpoint, scaled
}

// Gradient min-max normalises values and assigns a tone to each. When every
// value is equal no cell is highlighted.
func Gradient(values []float64, invert bool) []Shade {
	out := make([]Shade, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		for i := range out {
			out[i] = Shade{Norm: 0.5}
		}
		return out
	}
	for i, v := range values {
		norm := (v - lo) / (hi - lo)
		if invert {
			norm = 1 - norm
		}
		sh := Shade{Norm: norm}
		dist := math.Abs(norm - 0.5)
		if dist >= deadZone {
			sh.Strength = dist * 2
			if norm > 0.5 {
				sh.Tone = ToneGood
			} else {
				sh.Tone = ToneBad
			}
		}
		out[i] = sh
	}
	return out
}

// ColumnShades runs Gradient over one column of rows, using the column's
// invert flag.
func ColumnShades(rows []Row, c Column) []Shade {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.Value(c)
	}
	return Gradient(values, c.Invert())
}
