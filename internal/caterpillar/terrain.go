package caterpillar

import "fmt"

// Terrain is a stepwise height field over the x axis. Each section is
// represented by its start point and height; the first section always
// starts at 0 with height 0 (flat ground) unless overridden.
type Terrain struct {
	startPoints []float64
	heights     []float64
}

// FlatTerrain returns the default flat ground at height 0.
func FlatTerrain() *Terrain {
	return &Terrain{startPoints: []float64{0}, heights: []float64{0}}
}

// NewTerrain builds a terrain from section start points and heights, both in
// ascending x order. Sections before the first start point use the first
// height.
func NewTerrain(sections map[float64]float64) (*Terrain, error) {
	t := FlatTerrain()
	// map iteration order is undefined; Set keeps the slices sorted
	for start, height := range sections {
		if err := t.Set(start, height); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Set inserts a section beginning at startPoint with the given height.
func (t *Terrain) Set(startPoint, height float64) error {
	if startPoint < 0 {
		return fmt.Errorf("terrain: start point cannot be negative, got %g", startPoint)
	}
	// keep startPoints sorted ascending
	i := len(t.startPoints)
	for i > 0 && t.startPoints[i-1] > startPoint {
		i--
	}
	t.startPoints = append(t.startPoints, 0)
	t.heights = append(t.heights, 0)
	copy(t.startPoints[i+1:], t.startPoints[i:])
	copy(t.heights[i+1:], t.heights[i:])
	t.startPoints[i] = startPoint
	t.heights[i] = height
	return nil
}

// HeightAt returns the ground height at horizontal position x.
func (t *Terrain) HeightAt(x float64) float64 {
	if x < t.startPoints[0] {
		return t.heights[0]
	}
	for i, start := range t.startPoints {
		if start > x {
			return t.heights[i-1]
		}
	}
	return t.heights[len(t.heights)-1]
}

// OnGround reports whether the somite rests on the section below it.
func (t *Terrain) OnGround(s *Somite) bool {
	return s.OnGround(t.HeightAt(s.Position().X))
}

// BlocksForward reports whether the somite faces a rising step it cannot
// pass: the section just ahead is higher than the somite's top.
func (t *Terrain) BlocksForward(s *Somite) bool {
	ahead := s.Position().X + s.Radius()
	return t.HeightAt(ahead) > s.Position().Z+s.Radius()
}
