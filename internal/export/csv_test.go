package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/desiverse/api/internal/generator"
	"github.com/stwalsh4118/desiverse/api/internal/models"
	"github.com/stwalsh4118/desiverse/api/internal/reference"
)

func TestWriteCSV_HeaderAndRow(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []models.TourismRecord{{
		State:           "Jammu and Kashmir",
		ArtForm:         "Rauf Dance",
		TouristVisits:   125000,
		Month:           11,
		Year:            2025,
		Region:          "North",
		FundingReceived: 170321,
		Latitude:        33.7782,
		Longitude:       76.5762,
	}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "state,art_form,tourist_visits,month,year,region,funding_received,latitude,longitude", lines[0])
	assert.Equal(t, "Jammu and Kashmir,Rauf Dance,125000,11,2025,North,170321,33.7782,76.5762", lines[1])
}

func TestReadCSV_GeneratedDataset(t *testing.T) {
	records := generator.New(reference.Default(), generator.WithSeed(21)).Generate()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestReadCSV_QuotedFields(t *testing.T) {
	in := "state,art_form,tourist_visits,month,year,region,funding_received,latitude,longitude\n" +
		"\"Goa, North\",\"Dekni \"\"Dance\"\"\",10,1,2020,West,5,15.2993,74.124\n"

	got, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Goa, North", got[0].State)
	assert.Equal(t, `Dekni "Dance"`, got[0].ArtForm)
}

func TestReadCSV_Errors(t *testing.T) {
	const header = "state,art_form,tourist_visits,month,year,region,funding_received,latitude,longitude\n"

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "read csv header"},
		{"wrong header", "a,b,c,d,e,f,g,h,i\n", "unexpected csv header"},
		{"short row", header + "Goa,Dance,1\n", "read csv line 2"},
		{"bad visits", header + "Goa,Dance,many,1,2020,West,5,1,1\n", "tourist_visits"},
		{"bad month", header + "Goa,Dance,1,13,2020,West,5,1,1\n", "month"},
		{"bad latitude", header + "Goa,Dance,1,1,2020,West,5,north,1\n", "latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	got, err := ReadCSV(strings.NewReader(strings.Join(models.Columns, ",") + "\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}
