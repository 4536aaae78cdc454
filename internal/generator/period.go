package generator

import (
	"fmt"
	"slices"

	"github.com/stwalsh4118/desiverse/api/internal/reference"
)

// Period selects the years and months a dataset covers.
type Period struct {
	StartYear     int
	EndYear       int
	ProjectedYear int   // 0 disables the projected year
	Months        []int // empty means January through December
}

// DefaultPeriod is the range described by the shipped reference tables:
// 2020 through 2024 plus the projected year 2025.
func DefaultPeriod() Period {
	p := reference.Default().Period
	return Period{StartYear: p.StartYear, EndYear: p.EndYear, ProjectedYear: p.ProjectedYear}
}

// Years returns the historical years followed by the projected year. An
// inverted range has no historical years.
func (p Period) Years() []int {
	years := make([]int, 0, max(0, p.EndYear-p.StartYear+2))
	for y := p.StartYear; y <= p.EndYear; y++ {
		years = append(years, y)
	}
	if p.ProjectedYear != 0 && p.ProjectedYear > p.EndYear {
		years = append(years, p.ProjectedYear)
	}
	return years
}

// MonthList returns the configured months in ascending order without
// repeats, or all twelve. The result never aliases p.Months.
func (p Period) MonthList() []int {
	if len(p.Months) > 0 {
		months := slices.Clone(p.Months)
		slices.Sort(months)
		return slices.Compact(months)
	}
	months := make([]int, reference.MonthsPerYear)
	for i := range months {
		months[i] = i + 1
	}
	return months
}

// Validate checks that the period describes a non-empty range of real months.
func (p Period) Validate() error {
	if p.EndYear < p.StartYear {
		return fmt.Errorf("end year %d is before start year %d", p.EndYear, p.StartYear)
	}
	if p.ProjectedYear != 0 && p.ProjectedYear <= p.EndYear {
		return fmt.Errorf("projected year %d must be after end year %d", p.ProjectedYear, p.EndYear)
	}
	seen := make(map[int]bool, len(p.Months))
	for _, m := range p.Months {
		if m < 1 || m > reference.MonthsPerYear {
			return fmt.Errorf("month %d is out of range", m)
		}
		if seen[m] {
			return fmt.Errorf("month %d is listed more than once", m)
		}
		seen[m] = true
	}
	return nil
}

// Size is the number of records a dataset over this period holds for the
// given number of states.
func (p Period) Size(states int) int {
	return len(p.Years()) * len(p.MonthList()) * states
}
