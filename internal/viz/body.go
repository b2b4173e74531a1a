package viz

import (
	"math"

	"github.com/san-kum/larvasim/internal/caterpillar"
	"github.com/san-kum/larvasim/internal/sim"
)

// BodyView renders the side (x-z) view of the body onto a braille canvas:
// somites as discs, couplings as lines, terrain as the ground profile. The
// view window follows the center of mass.
type BodyView struct {
	canvas  *Canvas
	terrain *caterpillar.Terrain
	radius  float64 // somite radius in world units

	// world units covered by the window
	spanX float64
	spanZ float64
}

func NewBodyView(width, height int, terrain *caterpillar.Terrain, radius float64) *BodyView {
	if terrain == nil {
		terrain = caterpillar.FlatTerrain()
	}
	return &BodyView{
		canvas:  NewCanvas(width, height),
		terrain: terrain,
		radius:  radius,
		spanX:   3.0,
		spanZ:   1.5,
	}
}

// Render draws the frame and returns the canvas text.
func (v *BodyView) Render(f sim.Frame) string {
	v.canvas.Clear()

	subW := float64(v.canvas.Width * 2)
	subH := float64(v.canvas.Height * 4)

	// window centered on the center of mass, ground near the bottom
	left := f.CenterOfMass.X - v.spanX/2
	bottom := -0.2

	toPx := func(x, z float64) (int, int) {
		px := (x - left) / v.spanX * subW
		py := subH - (z-bottom)/v.spanZ*subH
		return int(math.Round(px)), int(math.Round(py))
	}

	// ground profile sampled across the window
	samples := int(subW)
	prevX, prevY := -1, -1
	for i := 0; i <= samples; i++ {
		wx := left + float64(i)/float64(samples)*v.spanX
		gx, gy := toPx(wx, v.terrain.HeightAt(wx))
		if prevX >= 0 {
			v.canvas.DrawLine(prevX, prevY, gx, gy)
		}
		prevX, prevY = gx, gy
	}

	// couplings, then somites on top
	pxRadius := int(math.Round(v.radius / v.spanX * subW))
	for i := 1; i < len(f.Positions); i++ {
		x0, y0 := toPx(f.Positions[i-1].X, f.Positions[i-1].Z)
		x1, y1 := toPx(f.Positions[i].X, f.Positions[i].Z)
		v.canvas.DrawLine(x0, y0, x1, y1)
	}
	for _, p := range f.Positions {
		cx, cy := toPx(p.X, p.Z)
		v.canvas.DrawCircle(cx, cy, pxRadius)
	}

	return v.canvas.String()
}
