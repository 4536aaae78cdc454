// Package generator synthesizes the heritage tourism dataset.
//
// For every year, month and state (in that nesting order) it draws a base
// visit count from a Gamma distribution scaled by the state's popularity,
// applies the regional month multiplier, the year growth factor and a normal
// noise term, picks one of the state's art forms, and derives funding from
// the visits with a uniform ratio, a premium in the projected year and a
// second noise term.
package generator

import (
	"math/rand/v2"

	"github.com/stwalsh4118/desiverse/api/internal/models"
	"github.com/stwalsh4118/desiverse/api/internal/reference"
	"gonum.org/v1/gonum/stat/distuv"
)

// Fallbacks for states missing from a reference table.
const (
	FallbackRegion     = "Other"
	FallbackPopularity = 1.0
	FallbackSeasonal   = 1.0
	FallbackGrowth     = 1.0
	FallbackArtForm    = "Traditional Dance"
)

// ProjectedPremium scales funding in the projected year.
const ProjectedPremium = 1.12

const (
	gammaShape        = 10.0
	popularityScale   = 10000.0
	visitNoiseSigma   = 0.1
	fundingNoiseSigma = 0.2
	fundingRatioMin   = 0.5
	fundingRatioMax   = 2.0
)

// Generator produces datasets from a set of reference tables. A Generator is
// not safe for concurrent use because it owns a single random stream.
type Generator struct {
	tables *reference.Tables
	period Period
	clamp  bool

	rng     *rand.Rand
	normal  distuv.Normal
	uniform distuv.Uniform
	src     rand.Source
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource sets the random source. Tests pass a seeded rand.NewPCG.
func WithSource(src rand.Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.src = src
		}
	}
}

// WithSeed seeds a PCG source so output is reproducible.
func WithSeed(seed uint64) Option {
	return WithSource(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// WithPeriod overrides the period from the reference tables.
func WithPeriod(p Period) Option {
	return func(g *Generator) {
		g.period = p
	}
}

// WithClampNegative controls whether negative visit and funding values are
// floored at zero. Clamping is on by default.
func WithClampNegative(clamp bool) Option {
	return func(g *Generator) {
		g.clamp = clamp
	}
}

// New returns a Generator over tables. Without WithSource the generator
// seeds itself from the runtime entropy source.
func New(tables *reference.Tables, opts ...Option) *Generator {
	g := &Generator{
		tables: tables,
		period: Period{
			StartYear:     tables.Period.StartYear,
			EndYear:       tables.Period.EndYear,
			ProjectedYear: tables.Period.ProjectedYear,
		},
		clamp: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.src == nil {
		g.src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	g.rng = rand.New(g.src)
	g.normal = distuv.Normal{Mu: 0, Sigma: 1, Src: g.src}
	g.uniform = distuv.Uniform{Min: fundingRatioMin, Max: fundingRatioMax, Src: g.src}
	return g
}

// Period returns the period the generator covers.
func (g *Generator) Period() Period {
	return g.period
}

// GenerateDataset builds a dataset from the shipped tables over the default
// period with an unseeded source.
func GenerateDataset() []models.TourismRecord {
	return New(reference.Default()).Generate()
}

// Generate produces one record per (year, month, state), ordered by year,
// then month, then state in table order.
func (g *Generator) Generate() []models.TourismRecord {
	years := g.period.Years()
	months := g.period.MonthList()
	records := make([]models.TourismRecord, 0, len(years)*len(months)*len(g.tables.States))

	for _, year := range years {
		growth := g.growth(year)
		projected := g.period.ProjectedYear != 0 && year == g.period.ProjectedYear

		for _, month := range months {
			for _, state := range g.tables.States {
				records = append(records, g.record(state, year, month, growth, projected))
			}
		}
	}
	return records
}

func (g *Generator) record(state models.State, year, month int, growth float64, projected bool) models.TourismRecord {
	region := state.Region
	if region == "" {
		region = FallbackRegion
	}

	popularity := state.Popularity
	if popularity <= 0 {
		popularity = FallbackPopularity
	}

	base := distuv.Gamma{Alpha: gammaShape, Beta: 1 / (popularity * popularityScale), Src: g.src}.Rand()
	visits := int64(base * g.seasonal(region, month) * growth * (1 + visitNoiseSigma*g.normal.Rand()))
	artForm := g.artForm(state)

	funding := float64(visits) * g.uniform.Rand()
	if projected {
		funding *= ProjectedPremium
	}
	fundingReceived := int64(funding * (1 + fundingNoiseSigma*g.normal.Rand()))

	if g.clamp {
		visits = max(visits, 0)
		fundingReceived = max(fundingReceived, 0)
	}

	return models.TourismRecord{
		State:           state.Name,
		ArtForm:         artForm,
		TouristVisits:   visits,
		Month:           month,
		Year:            year,
		Region:          region,
		FundingReceived: fundingReceived,
		Latitude:        state.Latitude,
		Longitude:       state.Longitude,
	}
}

func (g *Generator) seasonal(region string, month int) float64 {
	multipliers, ok := g.tables.Seasonality[region]
	if !ok || month < 1 || month > len(multipliers) {
		return FallbackSeasonal
	}
	return multipliers[month-1]
}

func (g *Generator) growth(year int) float64 {
	if f, ok := g.tables.Growth[year]; ok {
		return f
	}
	return FallbackGrowth
}

func (g *Generator) artForm(state models.State) string {
	if len(state.ArtForms) == 0 {
		return FallbackArtForm
	}
	return state.ArtForms[g.rng.IntN(len(state.ArtForms))]
}
