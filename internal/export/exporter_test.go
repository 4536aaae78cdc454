package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/desiverse/api/internal/generator"
	"github.com/stwalsh4118/desiverse/api/internal/reference"
	"github.com/xuri/excelize/v2"
)

func TestExportAll_WritesTree(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2025, time.March, 4, 9, 30, 15, 0, time.UTC)))
	defer SetClock(nil)

	dir := t.TempDir()
	records := generator.New(reference.Default(), generator.WithSeed(31)).Generate()

	res, err := NewExporter(dir).ExportAll(records)
	require.NoError(t, err)

	const ts = "20250304_093015"
	assert.Equal(t, ts, res.Timestamp)
	assert.Equal(t, filepath.Join(dir, "project_data_"+ts), res.BaseDir)

	for _, rel := range []string{
		"raw_data/complete_dataset_" + ts + ".csv",
		"tourism_data/yearly_summary_" + ts + ".csv",
		"tourism_data/regional_analysis_" + ts + ".csv",
		"tourism_data/state_analysis_" + ts + ".csv",
		"tourism_data/monthly_trends_" + ts + ".csv",
		"art_forms_data/art_form_analysis_" + ts + ".csv",
		"art_forms_data/art_forms_by_region_" + ts + ".csv",
		"art_forms_data/art_forms_by_state_" + ts + ".csv",
		"analytics_data/correlation_analysis_" + ts + ".csv",
		"analytics_data/seasonal_analysis_" + ts + ".csv",
		"analytics_data/growth_metrics_" + ts + ".csv",
		"analytics_data/summary_" + ts + ".xlsx",
		"metadata_" + ts + ".json",
	} {
		assert.FileExists(t, filepath.Join(res.BaseDir, rel))
	}
	assert.DirExists(t, filepath.Join(res.BaseDir, "heritage_data"))
	assert.Len(t, res.Files, 13)

	raw, err := ReadCSVFile(filepath.Join(res.BaseDir, "raw_data", "complete_dataset_"+ts+".csv"))
	require.NoError(t, err)
	assert.Equal(t, records, raw)
}

func TestExportAll_Metadata(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)))
	defer SetClock(nil)

	records := generator.New(reference.Default(), generator.WithSeed(32)).Generate()
	res, err := NewExporter(t.TempDir()).ExportAll(records)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(res.BaseDir, res.MetadataFile))
	require.NoError(t, err)

	var meta Metadata
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, "20250102_030405", meta.ExportTimestamp)
	assert.Equal(t, []string{"tourism", "heritage", "art_forms", "analytics", "raw"}, meta.DataCategories)
	assert.Equal(t, len(records), meta.TotalRecords)
	assert.Equal(t, DateRange{StartYear: 2020, EndYear: 2025}, meta.DateRange)
	assert.Equal(t, []string{"Central", "East", "North", "Northeast", "South", "West"}, meta.RegionsCovered)
	assert.Len(t, meta.StatesCovered, 31)
	assert.True(t, strings.HasPrefix(meta.StatesCovered[0], "Andhra"))
	assert.Contains(t, meta.HeritageExports, "skipped")
}

func TestExportAll_YearlySummary(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)))
	defer SetClock(nil)

	records := generator.New(reference.Default(), generator.WithSeed(33)).Generate()
	res, err := NewExporter(t.TempDir()).ExportAll(records)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(res.Categories[CategoryTourism], "yearly_summary_"+res.Timestamp+".csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "year,tourist_visits,funding_received,state,art_form", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2020,"))
	assert.True(t, strings.HasPrefix(lines[6], "2025,"))
	assert.True(t, strings.HasSuffix(lines[1], ",31,"+lastField(lines[1])))
}

func TestExportAll_Workbook(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)))
	defer SetClock(nil)

	records := generator.New(reference.Default(), generator.WithSeed(34)).Generate()
	res, err := NewExporter(t.TempDir()).ExportAll(records)
	require.NoError(t, err)

	f, err := excelize.OpenFile(res.Workbook)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Equal(t, "yearly_summary", sheets[0])
	assert.Contains(t, sheets, "growth_metrics")
	assert.Len(t, sheets, len(SummaryTables(records)))

	rows, err := f.GetRows("regional_analysis")
	require.NoError(t, err)
	assert.Equal(t, []string{"year", "region", "tourist_visits", "funding_received"}, rows[0])
	assert.Len(t, rows, 1+6*6)
}

func TestExportAll_BadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := NewExporter(file).ExportAll(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create export directory")
}

func TestSummaryTables_Correlation(t *testing.T) {
	records := generator.New(reference.Default(), generator.WithSeed(35)).Generate()

	var corr Table
	for _, tbl := range SummaryTables(records) {
		if tbl.Name == "correlation_analysis" {
			corr = tbl
		}
	}
	require.Len(t, corr.Rows, 2)
	assert.Equal(t, 1.0, corr.Rows[0][1])
	assert.Equal(t, corr.Rows[0][2], corr.Rows[1][1])
}

func lastField(line string) string {
	parts := strings.Split(line, ",")
	return parts[len(parts)-1]
}
