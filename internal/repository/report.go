package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matthewru/hd-mobile/internal/models"
	"github.com/matthewru/hd-mobile/internal/service"
	"github.com/redis/go-redis/v9"
)

const reportListCacheKey = "reports:list"

type ReportRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewReportRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.ReportRepository {
	return &ReportRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// Create inserts a new report. A non-zero ID (the client's optimistic
// millisecond id) is kept; a zero ID lets the database assign one.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID != 0 {
		query := `
			INSERT INTO reports (id, descriptor, location, confirm_bool, probability)
			VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326), $5, $6)
			RETURNING id, created_at, updated_at;
		`
		err := r.db.QueryRow(ctx, query,
			report.ID,
			report.Descriptor,
			report.Longitude,
			report.Latitude,
			report.Confirm,
			report.Probability,
		).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO reports (descriptor, location, confirm_bool, probability)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326), $4, $5)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		report.Descriptor,
		report.Longitude,
		report.Latitude,
		report.Confirm,
		report.Probability,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetByID returns a report by its id.
func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*models.Report, error) {
	report := &models.Report{}
	query := `
		SELECT
			id,
			descriptor,
			ST_Y(location::geometry) as latitude,
			ST_X(location::geometry) as longitude,
			confirm_bool,
			probability,
			created_at,
			updated_at
		FROM reports
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.Descriptor,
		&report.Latitude,
		&report.Longitude,
		&report.Confirm,
		&report.Probability,
		&report.CreatedAt,
		&report.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("report %d: %w", id, service.ErrReportNotFound)
		}
		return nil, fmt.Errorf("failed to get report by id: %w", err)
	}
	return report, nil
}

// Confirm sets the tri-state confirmation flag on a report.
func (r *ReportRepository) Confirm(ctx context.Context, id int64, confirm bool) error {
	query := `
		UPDATE reports SET
			confirm_bool = $1,
			updated_at = NOW()
		WHERE id = $2;
	`
	cmdTag, err := r.db.Exec(ctx, query, confirm, id)
	if err != nil {
		return fmt.Errorf("failed to confirm report: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("report %d: %w", id, service.ErrReportNotFound)
	}
	return nil
}

// Delete removes a report permanently.
func (r *ReportRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM reports WHERE id = $1;`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("report %d: %w", id, service.ErrReportNotFound)
	}
	return nil
}

// ListReports returns all reports, newest first.
func (r *ReportRepository) ListReports(ctx context.Context) ([]*models.Report, error) {
	query := `
		SELECT
			id,
			descriptor,
			ST_Y(location::geometry) as latitude,
			ST_X(location::geometry) as longitude,
			confirm_bool,
			probability,
			created_at,
			updated_at
		FROM reports
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*models.Report, 0)
	for rows.Next() {
		report := &models.Report{}
		err := rows.Scan(
			&report.ID,
			&report.Descriptor,
			&report.Latitude,
			&report.Longitude,
			&report.Confirm,
			&report.Probability,
			&report.CreatedAt,
			&report.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error in list iteration: %w", err)
	}
	return reports, nil
}

// GetReportListFromCache returns the cached report list, or nil on a miss.
func (r *ReportRepository) GetReportListFromCache(ctx context.Context) ([]*models.Report, error) {
	val, err := r.redisClient.Get(ctx, reportListCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report list from cache: %w", err)
	}

	reports := make([]*models.Report, 0)
	if err := json.Unmarshal(val, &reports); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report list from cache: %w", err)
	}
	return reports, nil
}

// SetReportListCache stores the report list in Redis.
func (r *ReportRepository) SetReportListCache(ctx context.Context, reports []*models.Report) error {
	val, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("failed to marshal report list for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, reportListCacheKey, val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set report list in cache: %w", err)
	}
	return nil
}

// InvalidateReportListCache drops the cached report list.
func (r *ReportRepository) InvalidateReportListCache(ctx context.Context) error {
	if err := r.redisClient.Del(ctx, reportListCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate report list cache: %w", err)
	}
	return nil
}
