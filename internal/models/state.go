package models

// State describes a state or union territory in the reference geography.
type State struct {
	Name       string   `json:"name" yaml:"name" validate:"required"`
	Region     string   `json:"region" yaml:"region"`
	Latitude   float64  `json:"latitude" yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64  `json:"longitude" yaml:"longitude" validate:"gte=-180,lte=180"`
	Popularity float64  `json:"popularity" yaml:"popularity" validate:"gte=0"`
	ArtForms   []string `json:"art_forms" yaml:"art_forms" validate:"dive,required"`
}

// Season buckets a calendar month the way the dashboard's seasonal panel does.
type Season string

const (
	SeasonWinter  Season = "Winter"
	SeasonSpring  Season = "Spring"
	SeasonSummer  Season = "Summer"
	SeasonMonsoon Season = "Monsoon"
	SeasonAutumn  Season = "Autumn"
)

// Seasons lists the seasons in display order.
var Seasons = []Season{SeasonWinter, SeasonSpring, SeasonSummer, SeasonMonsoon, SeasonAutumn}

// SeasonOf returns the season for a month in 1..12. Out of range months fall
// back to Winter.
func SeasonOf(month int) Season {
	switch month {
	case 3, 4:
		return SeasonSpring
	case 5, 6, 7:
		return SeasonSummer
	case 8, 9:
		return SeasonMonsoon
	case 10, 11:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}
