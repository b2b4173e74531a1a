package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/larvasim/internal/sim"
	"github.com/san-kum/larvasim/internal/viz"
)

// CanvasToSVG converts a braille canvas to an SVG dot rendering.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// BodyToSVG renders the side view of a frame: ground line, couplings and
// somite discs.
func BodyToSVG(f sim.Frame, radius float64, width, height int) string {
	if len(f.Positions) == 0 {
		return ""
	}

	minX, maxX := f.Positions[0].X, f.Positions[0].X
	for _, p := range f.Positions {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
	}
	minX -= 4 * radius
	maxX += 4 * radius
	spanX := maxX - minX
	spanZ := spanX * float64(height) / float64(width)

	toPx := func(x, z float64) (float64, float64) {
		px := (x - minX) / spanX * float64(width)
		py := float64(height) - (z+radius)/spanZ*float64(height)
		return px, py
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	_, groundY := toPx(minX, 0)
	sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#555555" stroke-width="1"/>
`, groundY, width, groundY))

	sb.WriteString(`<g stroke="#00ff00" stroke-width="1.5" fill="none">` + "\n")
	for i := 1; i < len(f.Positions); i++ {
		x0, y0 := toPx(f.Positions[i-1].X, f.Positions[i-1].Z)
		x1, y1 := toPx(f.Positions[i].X, f.Positions[i].Z)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, x0, y0, x1, y1))
	}
	sb.WriteString("</g>\n")

	pxRadius := radius / spanX * float64(width)
	sb.WriteString(`<g fill="#00cc66">` + "\n")
	for _, p := range f.Positions {
		cx, cy := toPx(p.X, p.Z)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, pxRadius))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the center-of-mass path of a run.
func TrajectoryToSVG(frames []sim.Frame, width, height int, strokeColor string) string {
	if len(frames) < 2 {
		return ""
	}

	minX, maxX := frames[0].CenterOfMass.X, frames[0].CenterOfMass.X
	minZ, maxZ := frames[0].CenterOfMass.Z, frames[0].CenterOfMass.Z
	for _, f := range frames {
		p := f.CenterOfMass
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Z < minZ {
			minZ = p.Z
		}
		if p.Z > maxZ {
			maxZ = p.Z
		}
	}

	rangeX := maxX - minX
	rangeZ := maxZ - minZ
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeZ == 0 {
		rangeZ = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minZ -= rangeZ * 0.1
	maxZ += rangeZ * 0.1
	rangeX = maxX - minX
	rangeZ = maxZ - minZ

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, f := range frames {
		x := (f.CenterOfMass.X - minX) / rangeX * float64(width)
		y := float64(height) - (f.CenterOfMass.Z-minZ)/rangeZ*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
