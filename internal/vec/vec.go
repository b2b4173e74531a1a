// Package vec provides the 3D vector arithmetic used throughout the engine.
package vec

import (
	"fmt"
	"math"
)

// Vec3 is a 3D vector. The simulation convention is x forward along the
// body axis, y lateral, z up.
type Vec3 struct {
	X, Y, Z float64
}

func New(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func Zero() Vec3 { return Vec3{} }

func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(w Vec3) float64 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Horizontal returns the projection onto the ground plane.
func (v Vec3) Horizontal() Vec3 { return Vec3{X: v.X, Y: v.Y} }

// IsFinite reports whether all components are finite.
func (v Vec3) IsFinite() bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) String() string {
	return fmt.Sprintf("(x:%g, y:%g, z:%g)", v.X, v.Y, v.Z)
}
