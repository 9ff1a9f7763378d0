package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mswell/internal/ad"
	"github.com/san-kum/mswell/internal/hydraulics"
	"github.com/san-kum/mswell/internal/msw"
)

const (
	plotHeight = 12
	plotWidth  = 60
)

// EmulsionCurve samples the emulsion viscosity in cP over water liquid
// fractions 0..1.
func EmulsionCurve(icd hydraulics.EmulsionParams, waterViscosity, oilViscosity float64, points int) ([]float64, error) {
	if points < 2 {
		points = 2
	}
	out := make([]float64, points)
	for i := range out {
		x := float64(i) / float64(points-1)
		mu, err := hydraulics.EmulsionViscosity(ad.Float(x), ad.Float(waterViscosity), ad.Float(1-x), ad.Float(oilViscosity), icd)
		if err != nil {
			return nil, err
		}
		out[i] = mu.Value() * 1e3
	}
	return out, nil
}

// FrictionCurve samples the friction factor over log-spaced Reynolds numbers
// from reMin to reMax.
func FrictionCurve(diameter, roughness, reMin, reMax float64, points int) ([]float64, error) {
	if points < 2 {
		points = 2
	}
	const mu = 1e-3
	area := math.Pi * diameter * diameter / 4
	out := make([]float64, points)
	for i := range out {
		re := reMin * math.Pow(reMax/reMin, float64(i)/float64(points-1))
		w := re * area * mu / diameter
		f, err := hydraulics.FrictionFactor(area, diameter, ad.Float(w), roughness, ad.Float(mu))
		if err != nil {
			return nil, err
		}
		out[i] = f.Value()
	}
	return out, nil
}

func plot(data []float64, caption string, height, width int) string {
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption))
}

// EmulsionPlot charts [EmulsionCurve].
func EmulsionPlot(icd hydraulics.SICD, waterViscosity, oilViscosity float64) (string, error) {
	data, err := EmulsionCurve(icd, waterViscosity, oilViscosity, plotWidth)
	if err != nil {
		return "", err
	}
	caption := fmt.Sprintf("emulsion viscosity [cP] vs water fraction (critical %.2f, width %.2f)",
		icd.CriticalWaterCut, icd.WidthTransition)
	return plot(data, caption, plotHeight, plotWidth), nil
}

// FrictionPlot charts [FrictionCurve] for Re 500..1e6.
func FrictionPlot(diameter, roughness float64) (string, error) {
	data, err := FrictionCurve(diameter, roughness, 500, 1e6, plotWidth)
	if err != nil {
		return "", err
	}
	caption := fmt.Sprintf("friction factor vs log Re (d=%.3g m, roughness=%.3g m)", diameter, roughness)
	return plot(data, caption, plotHeight, plotWidth), nil
}

// ProfilePlot charts the pressure of each segment from top to bottom in bar.
func ProfilePlot(r *msw.Result) string {
	bar := make([]float64, len(r.Pressures))
	for i, p := range r.Pressures {
		bar[i] = p / 1e5
	}
	if len(bar) == 1 {
		bar = append(bar, bar[0])
	}
	return plot(bar, fmt.Sprintf("%s pressure [bar] by segment", r.Well), plotHeight, plotWidth)
}

// Summary renders one line per solved well.
func Summary(results []*msw.Result) string {
	var s strings.Builder
	s.WriteString(headerStyle().Render("WELLS") + "\n")
	header := fmt.Sprintf("%-14s %8s %6s %12s %12s %10s", "well", "segments", "iter", "bhp [bar]", "rate [kg/s]", "residual")
	s.WriteString(labelStyle().Width(0).Render(header) + "\n")
	for _, r := range results {
		line := fmt.Sprintf("%-14s %8d %6d %12.3f %12.4f %10.2e",
			r.Well, len(r.Segments), r.Iterations, r.BottomPressure()/1e5, r.Rates[0], r.Residual)
		s.WriteString(valueStyle().Render(line) + "\n")
	}
	return panelStyle().Render(strings.TrimRight(s.String(), "\n"))
}

// Segments renders the per-segment state of one well.
func Segments(r *msw.Result) string {
	rows := []string{fmt.Sprintf("%-10s %14s %12s %14s", "segment", "pressure [bar]", "rate [kg/s]", "drop [bar]")}
	for i, name := range r.Segments {
		rows = append(rows, fmt.Sprintf("%-10s %14.4f %12.4f %14.5f",
			name, r.Pressures[i]/1e5, r.Rates[i], r.Drops[i]/1e5))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle().Render(strings.ToUpper(r.Well)),
		valueStyle().Render(strings.Join(rows, "\n")))
}
