package models

import "fmt"

// TourismRecord is one synthetic observation of tourist activity for a state
// in a given month. It maps to a row of heritage_tourism_data.
type TourismRecord struct {
	State           string  `json:"state" db:"state"`
	ArtForm         string  `json:"art_form" db:"art_form"`
	TouristVisits   int64   `json:"tourist_visits" db:"tourist_visits"`
	Month           int     `json:"month" db:"month"`
	Year            int     `json:"year" db:"year"`
	Region          string  `json:"region" db:"region"`
	FundingReceived int64   `json:"funding_received" db:"funding_received"`
	Latitude        float64 `json:"latitude" db:"latitude"`
	Longitude       float64 `json:"longitude" db:"longitude"`
}

// Key returns the (state, year, month) identity of the record.
func (r TourismRecord) Key() RecordKey {
	return RecordKey{State: r.State, Year: r.Year, Month: r.Month}
}

// RecordKey identifies a record within a dataset. A generated dataset holds
// exactly one record per key.
type RecordKey struct {
	State string
	Year  int
	Month int
}

// String renders the key as "state|year|month".
func (k RecordKey) String() string {
	return fmt.Sprintf("%s|%d|%d", k.State, k.Year, k.Month)
}

// Columns is the column order used by the tabular file and the database table.
var Columns = []string{
	"state",
	"art_form",
	"tourist_visits",
	"month",
	"year",
	"region",
	"funding_received",
	"latitude",
	"longitude",
}
