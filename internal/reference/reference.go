// Package reference holds the static geography the dataset generator draws
// from: states with their regions, coordinates, popularity and art forms,
// month multipliers per region and growth factors per year.
package reference

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/desiverse/api/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed reference.yaml
var embedded []byte

// MonthsPerYear is the number of seasonal multipliers every region carries.
const MonthsPerYear = 12

// Period is the year range the shipped tables describe.
type Period struct {
	StartYear     int `yaml:"start_year" validate:"gte=1900,lte=2100"`
	EndYear       int `yaml:"end_year" validate:"gtefield=StartYear,lte=2100"`
	ProjectedYear int `yaml:"projected_year" validate:"omitempty,gtfield=EndYear,lte=2100"`
}

// Tables is an immutable set of reference tables. Callers must not modify the
// slices and maps it returns.
type Tables struct {
	Period      Period               `yaml:"period"`
	States      []models.State       `yaml:"states" validate:"required,min=1,dive"`
	Seasonality map[string][]float64 `yaml:"seasonality" validate:"dive,len=12,dive,gt=0"`
	Growth      map[int]float64      `yaml:"growth" validate:"dive,gt=0"`

	index map[string]int
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultErr    error

	validate = validator.New()
)

// ErrDuplicateState is returned when a state name appears twice.
var ErrDuplicateState = errors.New("duplicate state")

// Default returns the tables shipped with the binary. They are parsed once.
func Default() *Tables {
	defaultOnce.Do(func() {
		defaultTables, defaultErr = Parse(embedded)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("reference: embedded tables are invalid: %v", defaultErr))
	}
	return defaultTables
}

// Load reads and validates tables from a YAML file.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference file %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid reference file %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates tables from YAML.
func Parse(data []byte) (*Tables, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var t Tables
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to decode reference tables: %w", err)
	}
	if err := validate.Struct(&t); err != nil {
		return nil, fmt.Errorf("failed to validate reference tables: %w", err)
	}

	t.index = make(map[string]int, len(t.States))
	for i, s := range t.States {
		if _, ok := t.index[s.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateState, s.Name)
		}
		t.index[s.Name] = i
	}
	return &t, nil
}

// New builds tables from in-memory values, typically test fixtures. Unlike
// Parse it does not validate, so fixtures may leave out regions, popularity
// or art forms to exercise the generator's fallbacks.
func New(states []models.State, seasonality map[string][]float64, growth map[int]float64) *Tables {
	t := &Tables{
		States:      states,
		Seasonality: seasonality,
		Growth:      growth,
		index:       make(map[string]int, len(states)),
	}
	for i, s := range states {
		t.index[s.Name] = i
	}
	return t
}

// State looks up a state by name.
func (t *Tables) State(name string) (models.State, bool) {
	i, ok := t.index[name]
	if !ok {
		return models.State{}, false
	}
	return t.States[i], true
}

// StateNames returns state names in table order.
func (t *Tables) StateNames() []string {
	names := make([]string, 0, len(t.States))
	for _, s := range t.States {
		names = append(names, s.Name)
	}
	return names
}

// Regions returns the sorted set of regions assigned to states.
func (t *Tables) Regions() []string {
	seen := make(map[string]struct{})
	for _, s := range t.States {
		if s.Region != "" {
			seen[s.Region] = struct{}{}
		}
	}
	regions := make([]string, 0, len(seen))
	for r := range seen {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}

// HasRegion reports whether any state belongs to region.
func (t *Tables) HasRegion(region string) bool {
	for _, s := range t.States {
		if s.Region == region {
			return true
		}
	}
	return false
}
