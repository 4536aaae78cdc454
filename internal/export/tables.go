package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/stwalsh4118/desiverse/api/internal/analytics"
	"github.com/stwalsh4118/desiverse/api/internal/models"
)

// Table is a named summary ready to be written as CSV or as a sheet.
type Table struct {
	Name     string
	Category string
	Header   []string
	Rows     [][]any
}

// Categories of the export tree, in the order they are listed in metadata.
const (
	CategoryTourism   = "tourism"
	CategoryHeritage  = "heritage"
	CategoryArtForms  = "art_forms"
	CategoryAnalytics = "analytics"
	CategoryRaw       = "raw"
)

var categories = []string{CategoryTourism, CategoryHeritage, CategoryArtForms, CategoryAnalytics, CategoryRaw}

var categoryDirs = map[string]string{
	CategoryTourism:   "tourism_data",
	CategoryHeritage:  "heritage_data",
	CategoryArtForms:  "art_forms_data",
	CategoryAnalytics: "analytics_data",
	CategoryRaw:       "raw_data",
}

// SummaryTables builds every summary the exporter writes.
func SummaryTables(records []models.TourismRecord) []Table {
	return []Table{
		yearlySummary(records),
		sumTable("regional_analysis", CategoryTourism, records, analytics.DimYear, analytics.DimRegion),
		sumTable("state_analysis", CategoryTourism, records, analytics.DimYear, analytics.DimState),
		sumTable("monthly_trends", CategoryTourism, records, analytics.DimYear, analytics.DimMonth),
		sumTable("art_form_analysis", CategoryArtForms, records, analytics.DimYear, analytics.DimArtForm),
		sumTable("art_forms_by_region", CategoryArtForms, records, analytics.DimRegion, analytics.DimArtForm),
		sumTable("art_forms_by_state", CategoryArtForms, records, analytics.DimState, analytics.DimArtForm),
		correlationTable(records),
		seasonalAnalysis(records),
		growthMetrics(records),
	}
}

func yearlySummary(records []models.TourismRecord) Table {
	groups := analytics.GroupBy(records, analytics.DimYear)
	analytics.SortGroups(groups, analytics.SortByKey)

	t := Table{
		Name:     "yearly_summary",
		Category: CategoryTourism,
		Header:   []string{"year", "tourist_visits", "funding_received", "state", "art_form"},
	}
	for _, g := range groups {
		t.Rows = append(t.Rows, []any{keyValue(analytics.DimYear, g.Key[0]), g.Visits, g.Funding, g.States, g.ArtForms})
	}
	return t
}

func sumTable(name, category string, records []models.TourismRecord, dims ...analytics.Dimension) Table {
	groups := analytics.GroupBy(records, dims...)
	analytics.SortGroups(groups, analytics.SortByKey)

	t := Table{Name: name, Category: category}
	for _, d := range dims {
		t.Header = append(t.Header, string(d))
	}
	t.Header = append(t.Header, "tourist_visits", "funding_received")

	for _, g := range groups {
		row := make([]any, 0, len(dims)+2)
		for i, d := range dims {
			row = append(row, keyValue(d, g.Key[i]))
		}
		t.Rows = append(t.Rows, append(row, g.Visits, g.Funding))
	}
	return t
}

func correlationTable(records []models.TourismRecord) Table {
	c := analytics.Correlation(records)
	return Table{
		Name:     "correlation_analysis",
		Category: CategoryAnalytics,
		Header:   []string{"", "tourist_visits", "funding_received"},
		Rows: [][]any{
			{"tourist_visits", 1.0, c},
			{"funding_received", c, 1.0},
		},
	}
}

func seasonalAnalysis(records []models.TourismRecord) Table {
	descs := analytics.Describe(records, analytics.DimYear, analytics.DimMonth)
	analytics.SortDescriptions(descs)

	t := Table{
		Name:     "seasonal_analysis",
		Category: CategoryAnalytics,
		Header: []string{
			"year", "month",
			"tourist_visits_mean", "tourist_visits_std", "tourist_visits_min", "tourist_visits_max",
			"funding_received_mean", "funding_received_std", "funding_received_min", "funding_received_max",
		},
	}
	for _, d := range descs {
		t.Rows = append(t.Rows, []any{
			keyValue(analytics.DimYear, d.Key[0]), keyValue(analytics.DimMonth, d.Key[1]),
			d.Visits.Mean, d.Visits.Std, d.Visits.Min, d.Visits.Max,
			d.Funding.Mean, d.Funding.Std, d.Funding.Min, d.Funding.Max,
		})
	}
	return t
}

func growthMetrics(records []models.TourismRecord) Table {
	descs := analytics.Describe(records, analytics.DimYear)
	analytics.SortDescriptions(descs)

	t := Table{
		Name:     "growth_metrics",
		Category: CategoryAnalytics,
		Header: []string{
			"year",
			"tourist_visits_sum", "tourist_visits_mean", "tourist_visits_std",
			"funding_received_sum", "funding_received_mean", "funding_received_std",
		},
	}
	for _, d := range descs {
		t.Rows = append(t.Rows, []any{
			keyValue(analytics.DimYear, d.Key[0]),
			d.Visits.Sum, d.Visits.Mean, d.Visits.Std,
			d.Funding.Sum, d.Funding.Mean, d.Funding.Std,
		})
	}
	return t
}

// keyValue turns numeric dimension values back into integers so they are
// written as numbers in the workbook.
func keyValue(d analytics.Dimension, v string) any {
	if d == analytics.DimYear || d == analytics.DimMonth {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return v
}

// WriteCSV writes the table with its header row.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write %s header: %w", t.Name, err)
	}
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("write %s row: %w", t.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatFloat(x)
	default:
		return fmt.Sprint(x)
	}
}
