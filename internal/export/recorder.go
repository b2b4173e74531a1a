// Package export turns recorded runs into artifacts: JSON documents and
// SVG renderings.
package export

import (
	"github.com/san-kum/larvasim/internal/sim"
)

// Recorder is an observer that retains every Nth frame of a run.
type Recorder struct {
	every  int
	frames []sim.Frame
}

func NewRecorder(every int) *Recorder {
	if every <= 0 {
		every = sim.DefaultRecordEvery
	}
	return &Recorder{every: every}
}

func (r *Recorder) OnStep(f sim.Frame) {
	if f.Step%r.every == 0 {
		r.frames = append(r.frames, f)
	}
}

func (r *Recorder) Frames() []sim.Frame { return r.frames }

func (r *Recorder) Reset() { r.frames = r.frames[:0] }
