package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/stwalsh4118/desiverse/api/internal/models"
)

// ErrHeaderMismatch is returned when a CSV file's header is not the record
// column order.
var ErrHeaderMismatch = errors.New("unexpected csv header")

// WriteCSV writes records with a header row in models.Columns order.
func WriteCSV(w io.Writer, records []models.TourismRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(recordRow(r)); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.Key(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes records to path, creating or truncating it.
func WriteCSVFile(path string, records []models.TourismRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return WriteCSV(f, records)
}

// ReadCSV parses records written by WriteCSV.
func ReadCSV(r io.Reader) ([]models.TourismRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(models.Columns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if !slices.Equal(header, models.Columns) {
		return nil, fmt.Errorf("%w: %v", ErrHeaderMismatch, header)
	}

	records := make([]models.TourismRecord, 0)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("parse csv line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadCSVFile parses the records stored at path.
func ReadCSVFile(path string) ([]models.TourismRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

func recordRow(r models.TourismRecord) []string {
	return []string{
		r.State,
		r.ArtForm,
		strconv.FormatInt(r.TouristVisits, 10),
		strconv.Itoa(r.Month),
		strconv.Itoa(r.Year),
		r.Region,
		strconv.FormatInt(r.FundingReceived, 10),
		formatFloat(r.Latitude),
		formatFloat(r.Longitude),
	}
}

func parseRow(row []string) (models.TourismRecord, error) {
	var (
		rec models.TourismRecord
		err error
	)
	rec.State = row[0]
	rec.ArtForm = row[1]
	if rec.TouristVisits, err = strconv.ParseInt(row[2], 10, 64); err != nil {
		return rec, fmt.Errorf("tourist_visits: %w", err)
	}
	if rec.Month, err = strconv.Atoi(row[3]); err != nil {
		return rec, fmt.Errorf("month: %w", err)
	}
	if rec.Month < 1 || rec.Month > 12 {
		return rec, fmt.Errorf("month: %d out of range", rec.Month)
	}
	if rec.Year, err = strconv.Atoi(row[4]); err != nil {
		return rec, fmt.Errorf("year: %w", err)
	}
	rec.Region = row[5]
	if rec.FundingReceived, err = strconv.ParseInt(row[6], 10, 64); err != nil {
		return rec, fmt.Errorf("funding_received: %w", err)
	}
	if rec.Latitude, err = strconv.ParseFloat(row[7], 64); err != nil {
		return rec, fmt.Errorf("latitude: %w", err)
	}
	if rec.Longitude, err = strconv.ParseFloat(row[8], 64); err != nil {
		return rec, fmt.Errorf("longitude: %w", err)
	}
	return rec, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
