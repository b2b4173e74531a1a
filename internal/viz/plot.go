package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/larvasim/internal/sim"
)

// Series extracts one scalar per frame.
type Series func(f sim.Frame) float64

// Known plot series by CLI name.
var SeriesByName = map[string]Series{
	"com_x":  func(f sim.Frame) float64 { return f.CenterOfMass.X },
	"com_z":  func(f sim.Frame) float64 { return f.CenterOfMass.Z },
	"head_x": func(f sim.Frame) float64 { return f.HeadX },
	"energy": func(f sim.Frame) float64 { return f.Energy },
}

// Plot renders one series over the recorded frames as an ASCII line graph.
func Plot(frames []sim.Frame, series Series, caption string, width, height int) string {
	if len(frames) == 0 {
		return "no frames recorded"
	}
	data := make([]float64, len(frames))
	for i, f := range frames {
		data[i] = series(f)
	}
	return asciigraph.Plot(data,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
}

// PlotTensions renders every joint tension as a separate colored series.
func PlotTensions(frames []sim.Frame, width, height int) string {
	if len(frames) == 0 || len(frames[0].Tensions) == 0 {
		return "no tensions recorded"
	}
	joints := len(frames[0].Tensions)
	data := make([][]float64, joints)
	for j := range data {
		data[j] = make([]float64, len(frames))
		for i, f := range frames {
			data[j][i] = f.Tensions[j]
		}
	}
	return asciigraph.PlotMany(data,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption("joint tensions"),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue,
			asciigraph.Yellow, asciigraph.Cyan, asciigraph.Magenta),
	)
}

// ListSeries returns the plottable series names for help output.
func ListSeries() string {
	names := make([]string, 0, len(SeriesByName))
	for name := range SeriesByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Sparkline is a compact one-line summary used in list output.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	ticks := []rune("▁▂▃▄▅▆▇█")
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		return strings.Repeat(string(ticks[0]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int((v - min) / (max - min) * float64(len(ticks)-1))
		b.WriteRune(ticks[idx])
	}
	return b.String()
}

// FormatMetrics renders a metric map as aligned rows.
func FormatMetrics(metrics map[string]float64) string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  %-18s %12.6f\n", name, metrics[name])
	}
	return b.String()
}
