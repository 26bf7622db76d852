// Package charts renders draft analyses as interactive HTML charts.
package charts

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pable/go-ad-metrics/internal/aggregator"
	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/draft"
	"github.com/pable/go-ad-metrics/internal/model"
	"github.com/pable/go-ad-metrics/internal/synergy"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title    string
	Subtitle string
	Width    string // e.g. "900px"
	Height   string
	Theme    string
	Colors   []string
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "400px",
		Theme:  "light",
		Colors: []string{"#3BA272", "#EE6666", "#5470C6", "#FAC858"},
	}
}

func (c ChartConfig) globals(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  c.Width,
			Height: c.Height,
			Theme:  c.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
		charts.WithColorsOpts(opts.Colors(c.Colors)),
	}
}

// playerLabel is the x-axis label of an impact row.
func playerLabel(r aggregator.Row, cat *catalog.Catalog) string {
	return fmt.Sprintf("%s %s (%s)", r.Ref.Team, r.Player.DisplayName(), cat.HeroName(r.Player.Hero))
}

// ImpactBar builds one bar chart of a single impact column across rows.
func ImpactBar(rows []aggregator.Row, c aggregator.Column, cat *catalog.Catalog, config ChartConfig) *charts.Bar {
	bar := charts.NewBar()
	subtitle := "summed per-ability shift"
	if c.IsRate() {
		subtitle = "summed upgrade pick rate"
	}
	if c.Invert() {
		subtitle += ", lower is better"
	}
	bar.SetGlobalOptions(config.globals(c.Header(), subtitle)...)

	labels := make([]string, len(rows))
	radiant := make([]opts.BarData, len(rows))
	dire := make([]opts.BarData, len(rows))
	for i, r := range rows {
		labels[i] = playerLabel(r, cat)
		// Split by side so each team gets its own color; the other side's slot is empty.
		if r.Ref.Team == model.TeamRadiant {
			radiant[i] = opts.BarData{Value: r.Value(c)}
			dire[i] = opts.BarData{Value: "-"}
		} else {
			radiant[i] = opts.BarData{Value: "-"}
			dire[i] = opts.BarData{Value: r.Value(c)}
		}
	}

	bar.SetXAxis(labels).
		AddSeries("Radiant", radiant, charts.WithBarChartOpts(opts.BarChart{Stack: "side"})).
		AddSeries("Dire", dire, charts.WithBarChartOpts(opts.BarChart{Stack: "side"})).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)
	return bar
}

// RenderImpactPage writes one bar chart per impact column to w.
func RenderImpactPage(w io.Writer, rows []aggregator.Row, cat *catalog.Catalog, config ChartConfig) error {
	page := components.NewPage()
	page.PageTitle = config.Title
	for _, c := range aggregator.Columns() {
		page.AddCharts(ImpactBar(rows, c, cat, config))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render impact page: %w", err)
	}
	return nil
}

// SynergyProgression is each side's log-weighted synergy after every step.
type SynergyProgression struct {
	Steps   []int
	Radiant []Point
	Dire    []Point
}

// Point is one value on a progression line. OK is false where no
// qualifying pair exists yet.
type Point struct {
	Value float64
	OK    bool
}

// Progression replays a timeline and records both sides' synergy per step.
func Progression(tl *draft.Timeline, snap *model.Snapshot) SynergyProgression {
	var p SynergyProgression
	for step := 0; step <= tl.Len(); step++ {
		st := tl.At(step)
		p.Steps = append(p.Steps, step)
		p.Radiant = append(p.Radiant, sideSynergy(snap, st.Radiant))
		p.Dire = append(p.Dire, sideSynergy(snap, st.Dire))
	}
	return p
}

func sideSynergy(snap *model.Snapshot, players []draft.PlayerState) Point {
	var pairs []synergy.Pair
	for _, ps := range players {
		pairs = append(pairs, synergy.PairsWithin(snap, ps.PickedIDs())...)
	}
	v, ok := synergy.Weighted(pairs)
	return Point{Value: v, OK: ok}
}

// RenderSynergyTimeline writes a two-line chart of team synergy by step.
func RenderSynergyTimeline(w io.Writer, p SynergyProgression, config ChartConfig) error {
	line := charts.NewLine()
	line.SetGlobalOptions(config.globals(config.Title, "log-weighted team synergy, percentage points")...)

	labels := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		labels[i] = fmt.Sprintf("%d", s)
	}
	series := func(points []Point) []opts.LineData {
		out := make([]opts.LineData, len(points))
		for i, pt := range points {
			if pt.OK {
				out[i] = opts.LineData{Value: pt.Value * 100}
			} else {
				out[i] = opts.LineData{Value: "-"}
			}
		}
		return out
	}

	line.SetXAxis(labels).
		AddSeries("Radiant", series(p.Radiant)).
		AddSeries("Dire", series(p.Dire)).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:       opts.Bool(false),
				ConnectNulls: opts.Bool(true),
			}),
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// WriteFile creates outputPath and hands it to render.
func WriteFile(outputPath string, render func(io.Writer) error) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()
	return render(f)
}
