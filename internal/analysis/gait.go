package analysis

import (
	"math"

	"github.com/san-kum/larvasim/internal/sim"
)

// Report summarizes the gait of a recorded run.
type Report struct {
	// Frequency is the dominant oscillation frequency of the center-of-mass
	// height, in Hz. Zero when the body never oscillates.
	Frequency float64
	// Synchrony is the mean Kuramoto order parameter of the phase
	// oscillators, in [0, 1].
	Synchrony float64
	// StrideLength is the net forward travel per gait cycle. Zero when no
	// dominant frequency was found.
	StrideLength float64
}

// Analyze builds a gait report from a recorded frame series. The frames must
// be evenly spaced; frameDt is the time between consecutive frames.
func Analyze(frames []sim.Frame, frameDt float64) Report {
	if len(frames) < 2 || frameDt <= 0 {
		return Report{}
	}

	height := make([]float64, len(frames))
	for i, f := range frames {
		height[i] = f.CenterOfMass.Z
	}

	freq, _ := DominantFrequency(height, frameDt)
	rep := Report{
		Frequency: freq,
		Synchrony: MeanSynchrony(frames),
	}
	if freq > 0 {
		travel := frames[len(frames)-1].CenterOfMass.X - frames[0].CenterOfMass.X
		elapsed := float64(len(frames)-1) * frameDt
		rep.StrideLength = travel / (freq * elapsed)
	}
	return rep
}

// DominantFrequency returns the strongest non-DC frequency of a scalar series
// and its spectral magnitude. The series is mean-detrended and truncated to a
// power-of-2 length before transforming. Returns zeros when the series is too
// short or has no oscillatory content.
func DominantFrequency(signal []float64, dt float64) (freq, power float64) {
	n := pow2Floor(len(signal))
	if n < 4 || dt <= 0 {
		return 0, 0
	}

	mean := 0.0
	for _, v := range signal[:n] {
		mean += v
	}
	mean /= float64(n)

	detrended := make([]float64, n)
	for i, v := range signal[:n] {
		detrended[i] = v - mean
	}

	ps := PowerSpectrum(detrended)
	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if best == 0 || ps[best] == 0 {
		return 0, 0
	}
	return float64(best) / (float64(n) * dt), ps[best]
}

// OrderParameter returns the Kuramoto order parameter of a phase set: 1 when
// all phases coincide, near 0 for a uniform spread.
func OrderParameter(phases []float64) float64 {
	if len(phases) == 0 {
		return 0
	}
	var sumSin, sumCos float64
	for _, p := range phases {
		sumSin += math.Sin(p)
		sumCos += math.Cos(p)
	}
	n := float64(len(phases))
	return math.Hypot(sumCos/n, sumSin/n)
}

// MeanSynchrony averages the order parameter over all frames that carry
// phase samples.
func MeanSynchrony(frames []sim.Frame) float64 {
	var sum float64
	var count int
	for _, f := range frames {
		if len(f.Phases) == 0 {
			continue
		}
		sum += OrderParameter(f.Phases)
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func pow2Floor(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	if n < 1 {
		return 0
	}
	return p
}
