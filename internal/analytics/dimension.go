package analytics

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/stwalsh4118/desiverse/api/internal/models"
)

// Dimension is a record attribute records can be grouped by.
type Dimension string

const (
	DimState   Dimension = "state"
	DimRegion  Dimension = "region"
	DimArtForm Dimension = "art_form"
	DimYear    Dimension = "year"
	DimMonth   Dimension = "month"
	DimSeason  Dimension = "season"
)

// Dimensions lists every supported dimension.
var Dimensions = []Dimension{DimState, DimRegion, DimArtForm, DimYear, DimMonth, DimSeason}

// ErrUnknownDimension is returned by ParseDimension.
var ErrUnknownDimension = errors.New("unknown dimension")

// ParseDimension converts a name such as "region" or "art_form" to a Dimension.
func ParseDimension(name string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(Dimensions, d) {
		return "", fmt.Errorf("%w: %q", ErrUnknownDimension, name)
	}
	return d, nil
}

// Value returns the record's value for the dimension.
func (d Dimension) Value(r models.TourismRecord) string {
	switch d {
	case DimState:
		return r.State
	case DimRegion:
		return r.Region
	case DimArtForm:
		return r.ArtForm
	case DimYear:
		return strconv.Itoa(r.Year)
	case DimMonth:
		return strconv.Itoa(r.Month)
	case DimSeason:
		return string(models.SeasonOf(r.Month))
	default:
		return ""
	}
}

// compare orders two values of the dimension: numerically for year and
// month, in calendar order for seasons, lexically otherwise.
func (d Dimension) compare(a, b string) int {
	switch d {
	case DimYear, DimMonth:
		x, errX := strconv.Atoi(a)
		y, errY := strconv.Atoi(b)
		if errX == nil && errY == nil {
			return x - y
		}
	case DimSeason:
		return slices.Index(models.Seasons, models.Season(a)) - slices.Index(models.Seasons, models.Season(b))
	}
	return strings.Compare(a, b)
}
