package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matthewru/hd-mobile/internal/alert"
	"github.com/matthewru/hd-mobile/internal/config"
	"github.com/matthewru/hd-mobile/internal/mapgrid"
	"github.com/matthewru/hd-mobile/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrReportNotFound is returned when a report id does not exist.
var ErrReportNotFound = errors.New("report not found")

// ReportRepository defines the contract for report persistence.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id int64) (*models.Report, error)
	Confirm(ctx context.Context, id int64, confirm bool) error
	Delete(ctx context.Context, id int64) error
	ListReports(ctx context.Context) ([]*models.Report, error)
	GetReportListFromCache(ctx context.Context) ([]*models.Report, error)
	SetReportListCache(ctx context.Context, reports []*models.Report) error
	InvalidateReportListCache(ctx context.Context) error
}

// ReportService defines the contract for report business logic.
type ReportService interface {
	CreateReport(ctx context.Context, report *models.Report) error
	ListReports(ctx context.Context) ([]*models.Report, error)
	ConfirmReport(ctx context.Context, id int64, confirm bool) error
	DeleteReport(ctx context.Context, id int64) error
	MapMarkers(ctx context.Context, vp mapgrid.Viewport, center mapgrid.Point) ([]mapgrid.Cluster, error)
}

type reportService struct {
	repo      ReportRepository
	logger    *logrus.Logger
	cfg       *config.Config
	publisher alert.Publisher
}

func NewReportService(repo ReportRepository, logger *logrus.Logger, cfg *config.Config, publisher alert.Publisher) ReportService {
	return &reportService{
		repo:      repo,
		logger:    logger,
		cfg:       cfg,
		publisher: publisher,
	}
}

// CreateReport stores a new incident report. A zero ID means the server
// assigns one; a non-zero ID comes from an optimistic client-side record.
func (s *reportService) CreateReport(ctx context.Context, report *models.Report) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "CreateReport",
	})
	log.Info("Attempting to create a new report")

	if err := s.repo.Create(ctx, report); err != nil {
		log.WithError(err).Error("Failed to create report in repository")
		return fmt.Errorf("service: could not create report: %w", err)
	}

	if err := s.repo.InvalidateReportListCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate report list cache")
	}

	log.WithField("report_id", report.ID).Info("Report created successfully")
	return nil
}

// ListReports returns all reports, newest first, using the cache when warm.
func (s *reportService) ListReports(ctx context.Context) ([]*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "ListReports",
	})

	cached, err := s.repo.GetReportListFromCache(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to read report list cache")
	}
	if cached != nil {
		log.WithField("count", len(cached)).Debug("Report list served from cache")
		return cached, nil
	}

	reports, err := s.repo.ListReports(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list reports from repository")
		return nil, fmt.Errorf("service: could not list reports: %w", err)
	}

	if err := s.repo.SetReportListCache(ctx, reports); err != nil {
		log.WithError(err).Warn("Failed to cache report list")
	}

	log.WithField("count", len(reports)).Info("Reports listed successfully")
	return reports, nil
}

// ConfirmReport sets the tri-state confirmation flag. Confirming a report as a
// hazard queues a dispatch alert for the law-enforcement webhook.
func (s *reportService) ConfirmReport(ctx context.Context, id int64, confirm bool) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "ConfirmReport",
		"report_id": id,
	})
	log.Info("Attempting to confirm report")

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to confirm a non-existent report")
		return fmt.Errorf("service: report %d not found for confirm: %w", id, err)
	}

	if err := s.repo.Confirm(ctx, id, confirm); err != nil {
		log.WithError(err).Error("Failed to confirm report in repository")
		return fmt.Errorf("service: could not confirm report: %w", err)
	}

	if err := s.repo.InvalidateReportListCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate report list cache")
	}

	if confirm {
		event := alert.Event{
			ReportID:    report.ID,
			Latitude:    report.Latitude,
			Longitude:   report.Longitude,
			Descriptor:  report.Descriptor,
			Probability: report.Probability,
			Timestamp:   time.Now().UTC(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			// Alert delivery is best-effort; the confirmation itself stands.
			log.WithError(err).Error("Failed to publish dispatch alert")
		}
	}

	log.WithField("confirm", confirm).Info("Report confirmed successfully")
	return nil
}

// DeleteReport removes a report permanently.
func (s *reportService) DeleteReport(ctx context.Context, id int64) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "DeleteReport",
		"report_id": id,
	})
	log.Info("Attempting to delete report")

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		log.WithError(err).Warn("Attempted to delete a non-existent report")
		return fmt.Errorf("service: report %d not found for delete: %w", id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete report in repository")
		return fmt.Errorf("service: could not delete report: %w", err)
	}

	if err := s.repo.InvalidateReportListCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate report list cache")
	}

	log.Info("Report deleted successfully")
	return nil
}

// MapMarkers aggregates report coordinates into viewport-sized clusters for
// the monitoring dashboard heatmap.
func (s *reportService) MapMarkers(ctx context.Context, vp mapgrid.Viewport, center mapgrid.Point) ([]mapgrid.Cluster, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "MapMarkers",
	})

	reports, err := s.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not load reports for map: %w", err)
	}

	aggr := mapgrid.NewAggregator(vp, center)
	for _, r := range reports {
		if vp.Contains(r.Latitude, r.Longitude) {
			aggr.AddPoint(r.Latitude, r.Longitude)
		}
	}

	clusters := aggr.Clusters()
	log.WithField("clusters", len(clusters)).Info("Map markers aggregated")
	return clusters, nil
}
