package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/pable/go-ad-metrics/internal/aggregator"
	"github.com/pable/go-ad-metrics/internal/catalog"
)

var (
	cGood       = color.New(color.FgGreen)
	cGoodStrong = color.New(color.FgGreen, color.Bold)
	cBad        = color.New(color.FgRed)
	cBadStrong  = color.New(color.FgRed, color.Bold)
)

// FormatImpact renders one impact cell without color.
func FormatImpact(r aggregator.Row, c aggregator.Column) string {
	v := r.Value(c)
	switch c {
	case aggregator.ColScepter, aggregator.ColShard:
		if !r.HasUpgrade(c) {
			return "—"
		}
		return fmt.Sprintf("%.0f%%", v*100)
	case aggregator.ColGPM, aggregator.ColXPM, aggregator.ColDamage, aggregator.ColHealing:
		return fmt.Sprintf("%+.0f", v)
	default:
		return fmt.Sprintf("%+.2f", v)
	}
}

// paint colors a cell by its gradient shade.
func paint(s string, sh aggregator.Shade) string {
	strong := sh.Strength >= 0.6
	switch sh.Tone {
	case aggregator.ToneGood:
		if strong {
			return cGoodStrong.Sprint(s)
		}
		return cGood.Sprint(s)
	case aggregator.ToneBad:
		if strong {
			return cBadStrong.Sprint(s)
		}
		return cBad.Sprint(s)
	default:
		return s
	}
}

// PrintImpactTable prints the per-player role profile with min-max
// coloring per column. The sorted column's header carries an arrow.
func PrintImpactTable(w io.Writer, rows []aggregator.Row, sort aggregator.SortState, cat *catalog.Catalog) {
	cols := aggregator.Columns()
	shades := make([][]aggregator.Shade, len(cols))
	for i, c := range cols {
		shades[i] = aggregator.ColumnShades(rows, c)
	}

	header := []any{"SEAT", "TEAM", "NAME", "HERO"}
	for _, c := range cols {
		h := c.Header()
		if sort.Active && sort.Column == c {
			if sort.Desc {
				h += " ↓"
			} else {
				h += " ↑"
			}
		}
		header = append(header, h)
	}

	table := newTable(w)
	table.Header(header...)
	for ri, r := range rows {
		cells := []any{
			strconv.Itoa(r.Rank + 1),
			r.Ref.Team.String(),
			r.Player.DisplayName(),
			cat.HeroName(r.Player.Hero),
		}
		for ci, c := range cols {
			cells = append(cells, paint(FormatImpact(r, c), shades[ci][ri]))
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "Sorted by: %s\n", sort)
}
