package generator

import (
	"fmt"

	"github.com/stwalsh4118/desiverse/api/internal/config"
	"github.com/stwalsh4118/desiverse/api/internal/reference"
)

// FromConfig loads the reference tables named by cfg, or the shipped ones,
// and returns them with the options cfg asks for.
func FromConfig(cfg config.GeneratorConfig) (*reference.Tables, []Option, error) {
	tables := reference.Default()
	if cfg.ReferenceFile != "" {
		t, err := reference.Load(cfg.ReferenceFile)
		if err != nil {
			return nil, nil, err
		}
		tables = t
	}

	period := Period{
		StartYear:     cfg.StartYear,
		EndYear:       cfg.EndYear,
		ProjectedYear: cfg.ProjectedYear,
	}
	if err := period.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid generator period: %w", err)
	}

	opts := []Option{
		WithPeriod(period),
		WithClampNegative(cfg.ClampNegative),
	}
	if cfg.Seed != 0 {
		opts = append(opts, WithSeed(cfg.Seed))
	}
	return tables, opts, nil
}
