// Package analytics aggregates tourism records into the summaries shown on
// the dashboard and written by the exporter.
package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/stwalsh4118/desiverse/api/internal/models"
	"gonum.org/v1/gonum/stat"
)

// Group is the aggregate of all records sharing the same dimension values.
type Group struct {
	Dimensions []Dimension `json:"dimensions"`
	Key        []string    `json:"key"`
	Visits     int64       `json:"tourist_visits"`
	Funding    int64       `json:"funding_received"`
	Count      int         `json:"records"`
	States     int         `json:"states"`
	ArtForms   int         `json:"art_forms"`

	indexes []int
}

// Label joins the key values with " / ".
func (g Group) Label() string {
	return strings.Join(g.Key, " / ")
}

// Stats summarises one measure within a group. Std is the sample standard
// deviation and is zero for groups with a single record.
type Stats struct {
	Sum  float64 `json:"sum"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Description holds per-group statistics for visits and funding.
type Description struct {
	Dimensions []Dimension `json:"dimensions"`
	Key        []string    `json:"key"`
	Count      int         `json:"records"`
	Visits     Stats       `json:"tourist_visits"`
	Funding    Stats       `json:"funding_received"`
}

// SortBy selects the ordering applied by SortGroups.
type SortBy string

const (
	SortByKey    SortBy = "key"
	SortByVisits SortBy = "visits"
)

// GroupBy groups records by the given dimensions, keeping groups in order of
// first appearance. With no dimensions every record falls in one group.
func GroupBy(records []models.TourismRecord, dims ...Dimension) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)

	for i, r := range records {
		key := make([]string, len(dims))
		for j, d := range dims {
			key[j] = d.Value(r)
		}
		id := strings.Join(key, "\x00")

		gi, ok := index[id]
		if !ok {
			gi = len(groups)
			index[id] = gi
			groups = append(groups, Group{Dimensions: dims, Key: key})
		}
		groups[gi].indexes = append(groups[gi].indexes, i)
	}

	for i := range groups {
		aggregate(&groups[i], records)
	}
	return groups
}

func aggregate(g *Group, records []models.TourismRecord) {
	states := make(map[string]struct{})
	artForms := make(map[string]struct{})
	for _, i := range g.indexes {
		r := records[i]
		g.Visits += r.TouristVisits
		g.Funding += r.FundingReceived
		states[r.State] = struct{}{}
		artForms[r.ArtForm] = struct{}{}
	}
	g.Count = len(g.indexes)
	g.States = len(states)
	g.ArtForms = len(artForms)
}

// Describe computes visit and funding statistics per group.
func Describe(records []models.TourismRecord, dims ...Dimension) []Description {
	groups := GroupBy(records, dims...)
	out := make([]Description, 0, len(groups))

	for _, g := range groups {
		visits := make([]float64, len(g.indexes))
		funding := make([]float64, len(g.indexes))
		for j, i := range g.indexes {
			visits[j] = float64(records[i].TouristVisits)
			funding[j] = float64(records[i].FundingReceived)
		}
		out = append(out, Description{
			Dimensions: g.Dimensions,
			Key:        g.Key,
			Count:      g.Count,
			Visits:     describe(visits),
			Funding:    describe(funding),
		})
	}
	return out
}

func describe(x []float64) Stats {
	if len(x) == 0 {
		return Stats{}
	}
	s := Stats{Min: x[0], Max: x[0]}
	for _, v := range x {
		s.Sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean, s.Std = stat.MeanStdDev(x, nil)
	if math.IsNaN(s.Std) {
		s.Std = 0
	}
	return s
}

// Correlation returns the Pearson correlation between visits and funding.
// It is zero when either measure has no variance.
func Correlation(records []models.TourismRecord) float64 {
	if len(records) < 2 {
		return 0
	}
	visits := make([]float64, len(records))
	funding := make([]float64, len(records))
	for i, r := range records {
		visits[i] = float64(r.TouristVisits)
		funding[i] = float64(r.FundingReceived)
	}
	c := stat.Correlation(visits, funding, nil)
	if math.IsNaN(c) {
		return 0
	}
	return c
}

// SortGroups orders groups in place. SortByKey compares dimension values in
// their natural order; SortByVisits puts the busiest group first.
func SortGroups(groups []Group, by SortBy) {
	switch by {
	case SortByVisits:
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].Visits > groups[j].Visits
		})
	default:
		sort.SliceStable(groups, func(i, j int) bool {
			return compareKeys(groups[i].Dimensions, groups[i].Key, groups[j].Key) < 0
		})
	}
}

// SortDescriptions orders descriptions by key.
func SortDescriptions(descs []Description) {
	sort.SliceStable(descs, func(i, j int) bool {
		return compareKeys(descs[i].Dimensions, descs[i].Key, descs[j].Key) < 0
	})
}

func compareKeys(dims []Dimension, a, b []string) int {
	for i, d := range dims {
		if c := d.compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Totals sums visits and funding over all records.
func Totals(records []models.TourismRecord) (visits, funding int64) {
	for _, r := range records {
		visits += r.TouristVisits
		funding += r.FundingReceived
	}
	return visits, funding
}
