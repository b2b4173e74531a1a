package sim

import (
	"context"
	"sync"

	"github.com/san-kum/larvasim/internal/caterpillar"
)

// RunSpec describes one run of an ensemble. BuildBody is a factory because
// a caterpillar is single-owner mutable state and cannot be shared between
// concurrent runs.
type RunSpec struct {
	Name      string
	BuildBody func() (*caterpillar.Caterpillar, error)
	Driver    Driver
	Metrics   func() []Metric
}

// Ensemble runs independent gait variants concurrently and collects their
// results by name.
type Ensemble struct {
	specs []RunSpec
}

func NewEnsemble(specs ...RunSpec) *Ensemble {
	return &Ensemble{specs: specs}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) (map[string]*Result, error) {
	results := make([]*Result, len(e.specs))
	errs := make([]error, len(e.specs))

	var wg sync.WaitGroup
	for i := range e.specs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			spec := e.specs[idx]

			body, err := spec.BuildBody()
			if err != nil {
				errs[idx] = err
				return
			}
			runner := New(body, spec.Driver)
			if spec.Metrics != nil {
				for _, m := range spec.Metrics() {
					runner.AddMetric(m)
				}
			}
			results[idx], errs[idx] = runner.Run(ctx, cfg)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	byName := make(map[string]*Result, len(e.specs))
	for i, spec := range e.specs {
		byName[spec.Name] = results[i]
	}
	return byName, nil
}
