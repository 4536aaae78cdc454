package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/desiverse/api/internal/models"
)

const selectPrefix = "SELECT DISTINCT state, art_form, tourist_visits, month, year, region, " +
	"funding_received, latitude, longitude FROM heritage_tourism_data"

func TestBuildListQuery(t *testing.T) {
	tests := []struct {
		name      string
		filter    Filter
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "no filter",
			filter:    Filter{},
			wantQuery: selectPrefix + " ORDER BY year, month, state",
			wantArgs:  nil,
		},
		{
			name:      "year range",
			filter:    Filter{StartYear: 2021, EndYear: 2023},
			wantQuery: selectPrefix + " WHERE year >= $1 AND year <= $2 ORDER BY year, month, state",
			wantArgs:  []any{2021, 2023},
		},
		{
			name:   "all fields",
			filter: Filter{StartYear: 2020, EndYear: 2025, Regions: []string{"North", "South"}, States: []string{"Kerala"}},
			wantQuery: selectPrefix +
				" WHERE year >= $1 AND year <= $2 AND region = ANY($3) AND state = ANY($4) ORDER BY year, month, state",
			wantArgs: []any{2020, 2025, []string{"North", "South"}, []string{"Kerala"}},
		},
		{
			name:      "states only",
			filter:    Filter{States: []string{"Goa", "Punjab"}},
			wantQuery: selectPrefix + " WHERE state = ANY($1) ORDER BY year, month, state",
			wantArgs:  []any{[]string{"Goa", "Punjab"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListQuery(tt.filter)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestCopySource(t *testing.T) {
	records := []models.TourismRecord{
		{State: "Kerala", ArtForm: "Kathakali", TouristVisits: 120, Month: 1, Year: 2020,
			Region: "South", FundingReceived: 60, Latitude: 10.8505, Longitude: 76.2711},
		{State: "Goa", ArtForm: "Dekhni", TouristVisits: 90, Month: 2, Year: 2020,
			Region: "West", FundingReceived: 45, Latitude: 15.2993, Longitude: 74.124},
	}

	src := copySource(records)

	var rows [][]any
	for src.Next() {
		values, err := src.Values()
		require.NoError(t, err)
		rows = append(rows, values)
	}
	require.NoError(t, src.Err())
	require.Len(t, rows, 2)

	assert.Len(t, rows[0], len(models.Columns))
	assert.Equal(t, []any{"Goa", "Dekhni", int64(90), 2, 2020, "West", int64(45), 15.2993, 74.124}, rows[1])
}

func TestNewTourismRepository(t *testing.T) {
	assert.NotNil(t, NewTourismRepository(nil))
}
