package export

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/san-kum/larvasim/internal/sim"
	"github.com/san-kum/larvasim/internal/vec"
)

// Document is the JSON form of a recorded run.
type Document struct {
	RunID     string             `json:"run_id"`
	Preset    string             `json:"preset,omitempty"`
	Driver    string             `json:"driver"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Segments  int                `json:"segments"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
	Frames    []FrameRecord      `json:"frames"`
}

// FrameRecord flattens a frame for serialization: positions as [x, y, z]
// triples in somite order.
type FrameRecord struct {
	Time          float64      `json:"time"`
	Positions     [][3]float64 `json:"positions"`
	Phases        []float64    `json:"phases,omitempty"`
	GripperPhases []float64    `json:"gripper_phases,omitempty"`
	Tensions      []float64    `json:"tensions,omitempty"`
	FrictionsX    []float64    `json:"frictions_x,omitempty"`
	Energy        float64      `json:"energy"`
}

// NewDocument assembles a document from a finished run.
func NewDocument(runID, preset, driver string, dt float64, segments int, result *sim.Result) Document {
	doc := Document{
		RunID:     runID,
		Preset:    preset,
		Driver:    driver,
		Timestamp: time.Now().UTC(),
		Dt:        dt,
		Duration:  result.FinalTime,
		Segments:  segments,
		Steps:     result.StepsTaken,
		Metrics:   result.Metrics,
		Frames:    make([]FrameRecord, 0, len(result.Frames)),
	}
	for _, f := range result.Frames {
		doc.Frames = append(doc.Frames, recordFrame(f))
	}
	return doc
}

func recordFrame(f sim.Frame) FrameRecord {
	rec := FrameRecord{
		Time:          f.Time,
		Positions:     make([][3]float64, len(f.Positions)),
		Phases:        f.Phases,
		GripperPhases: f.GripperPhases,
		Tensions:      f.Tensions,
		FrictionsX:    f.FrictionsX,
		Energy:        f.Energy,
	}
	for i, p := range f.Positions {
		rec.Positions[i] = [3]float64{p.X, p.Y, p.Z}
	}
	return rec
}

// WriteJSON stores the document at path with indentation.
func WriteJSON(path string, doc Document) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return EncodeJSON(file, doc)
}

// EncodeJSON writes the document to w.
func EncodeJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ToFrames reconstructs frame snapshots from a loaded document, for
// plotting and re-rendering stored runs.
func (d Document) ToFrames() []sim.Frame {
	frames := make([]sim.Frame, 0, len(d.Frames))
	for _, rec := range d.Frames {
		f := sim.Frame{
			Time:          rec.Time,
			Positions:     make([]vec.Vec3, len(rec.Positions)),
			Phases:        rec.Phases,
			GripperPhases: rec.GripperPhases,
			Tensions:      rec.Tensions,
			FrictionsX:    rec.FrictionsX,
			Energy:        rec.Energy,
		}
		for i, p := range rec.Positions {
			f.Positions[i] = vec.New(p[0], p[1], p[2])
		}
		if n := len(f.Positions); n > 0 {
			sum := vec.Zero()
			for _, p := range f.Positions {
				sum = sum.Add(p)
			}
			f.CenterOfMass = sum.Scale(1 / float64(n))
			f.HeadX = f.Positions[n-1].X
		}
		frames = append(frames, f)
	}
	return frames
}

// ReadJSON loads a document back from disk.
func ReadJSON(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}
