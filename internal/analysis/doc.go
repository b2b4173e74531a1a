// Package analysis provides gait analysis tools for recorded runs.
//
// The package works on frame series produced by the sim runner:
//
//   - [DominantFrequency]: strongest oscillation frequency of a scalar series
//   - [PowerSpectrum]: magnitude spectrum via radix-2 FFT
//   - [OrderParameter]: Kuramoto synchrony of a phase set
//   - [Report]: summary of frequency, synchrony and stride for one run
//
// # Gait Characterization
//
// A coordinated gait shows a sharp spectral peak in the center-of-mass
// height series and an order parameter close to one:
//
//	rep := analysis.Analyze(frames, dt)
//	if rep.Synchrony > 0.9 {
//	    // Oscillators are phase locked
//	}
package analysis
