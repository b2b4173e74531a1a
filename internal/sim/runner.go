package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/larvasim/internal/caterpillar"
)

// Runner drives one caterpillar through a fixed-step run, feeding metrics
// and observers along the way.
type Runner struct {
	body    *caterpillar.Caterpillar
	driver  Driver
	metrics []Metric
	obs     []Observer
}

func New(body *caterpillar.Caterpillar, driver Driver) *Runner {
	return &Runner{
		body:    body,
		driver:  driver,
		metrics: make([]Metric, 0),
		obs:     make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.obs = append(r.obs, o) }

// Run executes the configured number of steps. On context cancellation the
// partial result is returned together with the context error; a stepping
// error aborts the run with the frames collected so far intact.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	recordEvery := cfg.RecordEvery
	if recordEvery <= 0 {
		recordEvery = DefaultRecordEvery
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Frames:  make([]Frame, 0, steps/recordEvery+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	startX := r.body.CenterOfMass().X
	result.Frames = append(result.Frames, r.snapshot())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			r.finish(result, startX)
			return result, ctx.Err()
		default:
		}

		if err := r.driver.Advance(r.body, cfg.Dt); err != nil {
			r.finish(result, startX)
			return result, fmt.Errorf("run aborted at step %d: %w", i, err)
		}

		frame := r.snapshot()
		for _, m := range r.metrics {
			m.Observe(frame)
		}
		for _, o := range r.obs {
			o.OnStep(frame)
		}
		if r.body.StepCount()%recordEvery == 0 {
			result.Frames = append(result.Frames, frame)
		}
		result.StepsTaken++
	}

	r.finish(result, startX)
	return result, nil
}

// RunWithCallback steps until the duration elapses or the callback returns
// false. Intended for interactive consumers that pace themselves.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	steps := int(cfg.Duration / cfg.Dt)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := r.driver.Advance(r.body, cfg.Dt); err != nil {
			return fmt.Errorf("run aborted at step %d: %w", i, err)
		}
		if !callback(r.snapshot()) {
			return nil
		}
	}
	return nil
}

// Body exposes the driven caterpillar for callers that need direct reads
// between runs.
func (r *Runner) Body() *caterpillar.Caterpillar { return r.body }

func (r *Runner) snapshot() Frame {
	return Frame{
		Step:          r.body.StepCount(),
		Time:          r.body.Time(),
		Positions:     r.body.SomitePositions(),
		Phases:        r.body.SomitePhases(),
		GripperPhases: r.body.GripperPhases(),
		Tensions:      r.body.Tensions(),
		FrictionsX:    r.body.FrictionsX(),
		CenterOfMass:  r.body.CenterOfMass(),
		HeadX:         r.body.HeadPosition().X,
		Energy:        r.body.Energy(),
	}
}

func (r *Runner) finish(result *Result, startX float64) {
	result.FinalTime = r.body.Time()
	result.Displacement = r.body.CenterOfMass().X - startX
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
