// Package export writes the tourism dataset and its summaries to disk: the
// raw CSV, per-category summary CSVs, an XLSX workbook of the summaries and
// a metadata JSON file, all under one timestamped directory.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jonboulle/clockwork"
	"github.com/stwalsh4118/desiverse/api/internal/models"
)

// TimestampFormat names export directories and files.
const TimestampFormat = "20060102_150405"

const heritageSkipped = "heritage_site column not found, heritage exports skipped."

// clock is a package-level time source so tests can freeze export timestamps.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Metadata describes an export run.
type Metadata struct {
	ExportTimestamp string    `json:"export_timestamp"`
	DataCategories  []string  `json:"data_categories"`
	TotalRecords    int       `json:"total_records"`
	DateRange       DateRange `json:"date_range"`
	RegionsCovered  []string  `json:"regions_covered"`
	StatesCovered   []string  `json:"states_covered"`
	ArtFormsCovered []string  `json:"art_forms_covered"`
	HeritageExports string    `json:"heritage_exports"`
}

// DateRange is the span of years in an export.
type DateRange struct {
	StartYear int `json:"start_year"`
	EndYear   int `json:"end_year"`
}

// Result lists what ExportAll wrote.
type Result struct {
	BaseDir      string            `json:"base_directory"`
	Timestamp    string            `json:"timestamp"`
	Categories   map[string]string `json:"categories"`
	MetadataFile string            `json:"metadata_file"`
	Workbook     string            `json:"workbook"`
	Files        []string          `json:"files"`
}

// Exporter writes export trees below a root directory.
type Exporter struct {
	dir string
}

// NewExporter returns an Exporter rooted at dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// ExportAll writes the full export tree for records.
func (e *Exporter) ExportAll(records []models.TourismRecord) (*Result, error) {
	ts := clock.Now().Format(TimestampFormat)
	base := filepath.Join(e.dir, "project_data_"+ts)

	res := &Result{
		BaseDir:    base,
		Timestamp:  ts,
		Categories: make(map[string]string, len(categories)),
	}
	for _, c := range categories {
		dir := filepath.Join(base, categoryDirs[c])
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create export directory %s: %w", dir, err)
		}
		res.Categories[c] = dir
	}

	raw := filepath.Join(res.Categories[CategoryRaw], fmt.Sprintf("complete_dataset_%s.csv", ts))
	if err := WriteCSVFile(raw, records); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, raw)

	tables := SummaryTables(records)
	for _, t := range tables {
		path := filepath.Join(res.Categories[t.Category], fmt.Sprintf("%s_%s.csv", t.Name, ts))
		if err := writeTableFile(path, t); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
	}

	res.Workbook = filepath.Join(res.Categories[CategoryAnalytics], fmt.Sprintf("summary_%s.xlsx", ts))
	if err := WriteWorkbook(res.Workbook, tables); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, res.Workbook)

	res.MetadataFile = fmt.Sprintf("metadata_%s.json", ts)
	meta := BuildMetadata(records, ts)
	if err := writeJSON(filepath.Join(base, res.MetadataFile), meta); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, filepath.Join(base, res.MetadataFile))

	return res, nil
}

// BuildMetadata summarises the coverage of records.
func BuildMetadata(records []models.TourismRecord, ts string) Metadata {
	meta := Metadata{
		ExportTimestamp: ts,
		DataCategories:  append([]string(nil), categories...),
		TotalRecords:    len(records),
		HeritageExports: heritageSkipped,
	}

	regions := make(map[string]struct{})
	states := make(map[string]struct{})
	artForms := make(map[string]struct{})
	for i, r := range records {
		if i == 0 || r.Year < meta.DateRange.StartYear {
			meta.DateRange.StartYear = r.Year
		}
		if i == 0 || r.Year > meta.DateRange.EndYear {
			meta.DateRange.EndYear = r.Year
		}
		regions[r.Region] = struct{}{}
		states[r.State] = struct{}{}
		artForms[r.ArtForm] = struct{}{}
	}

	meta.RegionsCovered = sortedKeys(regions)
	meta.StatesCovered = sortedKeys(states)
	meta.ArtFormsCovered = sortedKeys(artForms)
	return meta
}

func writeTableFile(path string, t Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return t.WriteCSV(f)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
