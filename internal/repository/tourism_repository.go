package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/desiverse/api/internal/database"
	"github.com/stwalsh4118/desiverse/api/internal/models"
)

// TableName is the table holding the dataset.
const TableName = "heritage_tourism_data"

// Filter narrows a listing. Zero values mean no constraint on that field.
type Filter struct {
	StartYear int
	EndYear   int
	Regions   []string
	States    []string
}

// TourismRepository defines data access for the tourism dataset.
type TourismRepository interface {
	// ReplaceAll swaps the stored dataset for records in one transaction.
	// It returns the number of rows written.
	ReplaceAll(ctx context.Context, records []models.TourismRecord) (int64, error)

	// Append bulk-loads records without touching existing rows.
	Append(ctx context.Context, records []models.TourismRecord) (int64, error)

	// List returns the distinct records matching filter ordered by year,
	// month and state. Returns an empty slice when nothing matches.
	List(ctx context.Context, filter Filter) ([]models.TourismRecord, error)

	// Count returns the number of stored rows.
	Count(ctx context.Context) (int64, error)
}

// tourismRepository is the pgx implementation of TourismRepository.
type tourismRepository struct {
	db *database.Database
}

// NewTourismRepository creates a new instance of TourismRepository.
func NewTourismRepository(db *database.Database) TourismRepository {
	return &tourismRepository{db: db}
}

func (r *tourismRepository) ReplaceAll(ctx context.Context, records []models.TourismRecord) (int64, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+TableName); err != nil {
		return 0, fmt.Errorf("failed to truncate %s: %w", TableName, err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{TableName}, models.Columns, copySource(records))
	if err != nil {
		return 0, fmt.Errorf("failed to copy records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit dataset replace: %w", err)
	}
	return n, nil
}

func (r *tourismRepository) Append(ctx context.Context, records []models.TourismRecord) (int64, error) {
	n, err := r.db.Pool.CopyFrom(ctx, pgx.Identifier{TableName}, models.Columns, copySource(records))
	if err != nil {
		return 0, fmt.Errorf("failed to copy records: %w", err)
	}
	return n, nil
}

func (r *tourismRepository) List(ctx context.Context, filter Filter) ([]models.TourismRecord, error) {
	query, args := buildListQuery(filter)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tourism records: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TourismRecord])
	if err != nil {
		return nil, fmt.Errorf("failed to scan tourism records: %w", err)
	}

	if records == nil {
		records = []models.TourismRecord{}
	}
	return records, nil
}

func (r *tourismRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.Pool.QueryRow(ctx, "SELECT count(*) FROM "+TableName).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tourism records: %w", err)
	}
	return n, nil
}

// buildListQuery renders the listing query and its positional arguments.
func buildListQuery(filter Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.StartYear != 0 {
		add("year >= $%d", filter.StartYear)
	}
	if filter.EndYear != 0 {
		add("year <= $%d", filter.EndYear)
	}
	if len(filter.Regions) > 0 {
		add("region = ANY($%d)", filter.Regions)
	}
	if len(filter.States) > 0 {
		add("state = ANY($%d)", filter.States)
	}

	var b strings.Builder
	b.WriteString("SELECT DISTINCT ")
	b.WriteString(strings.Join(models.Columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(TableName)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY year, month, state")

	return b.String(), args
}

func copySource(records []models.TourismRecord) pgx.CopyFromSource {
	return pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		r := records[i]
		return []any{
			r.State,
			r.ArtForm,
			r.TouristVisits,
			r.Month,
			r.Year,
			r.Region,
			r.FundingReceived,
			r.Latitude,
			r.Longitude,
		}, nil
	})
}
