package service_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	alertmocks "github.com/matthewru/hd-mobile/internal/alert/mocks"
	"github.com/matthewru/hd-mobile/internal/config"
	"github.com/matthewru/hd-mobile/internal/models"
	. "github.com/matthewru/hd-mobile/internal/service"
	"github.com/matthewru/hd-mobile/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestReportService builds a service instance backed by mocks.
func newTestReportService(t *testing.T) (ReportService, *mocks.MockReportRepository, *alertmocks.MockPublisher) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockReportRepository(ctrl)
	publisherMock := alertmocks.NewMockPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // silence logs in tests

	cfg := &config.Config{}

	svc := NewReportService(repoMock, logger, cfg, publisherMock)
	return svc, repoMock, publisherMock
}

func TestCreateReport_Success(t *testing.T) {
	svc, repoMock, _ := newTestReportService(t)
	ctx := context.Background()
	report := &models.Report{
		Descriptor:  "Car swerving between lanes",
		Latitude:    37.7,
		Longitude:   -122.4,
		Probability: 55,
	}

	repoMock.EXPECT().
		Create(ctx, report).
		DoAndReturn(func(_ context.Context, r *models.Report) error {
			r.ID = 42
			return nil
		}).
		Times(1)
	repoMock.EXPECT().
		InvalidateReportListCache(ctx).
		Return(nil).
		Times(1)

	err := svc.CreateReport(ctx, report)

	require.NoError(t, err)
	assert.Equal(t, int64(42), report.ID)
}

func TestCreateReport_RepositoryError(t *testing.T) {
	svc, repoMock, _ := newTestReportService(t)
	ctx := context.Background()
	report := &models.Report{Descriptor: "test"}

	repoMock.EXPECT().
		Create(ctx, report).
		Return(fmt.Errorf("db down")).
		Times(1)

	err := svc.CreateReport(ctx, report)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not create report")
}

func TestListReports_FromCache(t *testing.T) {
	svc, repoMock, _ := newTestReportService(t)
	ctx := context.Background()
	expected := []*models.Report{
		{ID: 1, Descriptor: "cached report"},
	}

	repoMock.EXPECT().
		GetReportListFromCache(ctx).
		Return(expected, nil).
		Times(1)

	reports, err := svc.ListReports(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, reports)
}

func TestListReports_FromDB(t *testing.T) {
	svc, repoMock, _ := newTestReportService(t)
	ctx := context.Background()
	expected := []*models.Report{
		{ID: 2, Descriptor: "db report"},
	}

	// cache miss
	repoMock.EXPECT().
		GetReportListFromCache(ctx).
		Return(nil, nil).
		Times(1)
	repoMock.EXPECT().
		ListReports(ctx).
		Return(expected, nil).
		Times(1)
	repoMock.EXPECT().
		SetReportListCache(ctx, expected).
		Return(nil).
		Times(1)

	reports, err := svc.ListReports(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, reports)
}

func TestListReports_DBError(t *testing.T) {
	svc, repoMock, _ := newTestReportService(t)
	ctx := context.Background()

	repoMock.EXPECT().
		GetReportListFromCache(ctx).
		Return(nil, nil).
		Times(1)
	repoMock.EXPECT().
		ListReports(ctx).
		Return(nil, fmt.Errorf("db down")).
		Times(1)

	reports, err := svc.ListReports(ctx)

	require.Error(t, err)
	assert.Nil(t, reports)
}

func TestConfirmReport_HazardPublishesAlert(t *testing.T) {
	svc, repoMock, publisherMock := newTestReportService(t)
	ctx := context.Background()
	existing := &models.Report{
		ID:          7,
		Descriptor:  "Driver ran a red light",
		Latitude:    37.7,
		Longitude:   -122.4,
		Probability: 61,
	}

	repoMock.EXPECT().
		GetByID(ctx, int64(7)).
		Return(existing, nil).
		Times(1)
	repoMock.EXPECT().
		Confirm(ctx, int64(7), true).
		Return(nil).
		Times(1)
	repoMock.EXPECT().
		InvalidateReportListCache(ctx).
		Return(nil).
		Times(1)
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Return(nil).
		Times(1)

	err := svc.ConfirmReport(ctx, 7, true)

	require.NoError(t, err)
}

func TestConfirmReport_SafeDoesNotPublish(t *testing.T) {
	svc, repoMock, publisherMock := newTestReportService(t)
	ctx := context.Background()
	existing := &models.Report{ID: 7}

	repoMock.EXPECT().
		GetByID(ctx, int64(7)).
		Return(existing, nil).
		Times(1)
	repoMock.EXPECT().
		Confirm(ctx, int64(7), false).
		Return(nil).
		Times(1)
	repoMock.EXPECT().
		InvalidateReportListCache(ctx).
		Return(nil).
		Times(1)
	publisherMock.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Times(0)

	err := svc.ConfirmReport(ctx, 7, false)

	require.NoError(t, err)
}

func TestConfirmReport_NotFound(t *testing.T) {
	svc, repoMock, _ := newTestReportService(t)
	ctx := context.Background()

	repoMock.EXPECT().
		GetByID(ctx, int64(99)).
		Return(nil, fmt.Errorf("report 99: %w", ErrReportNotFound)).
		Times(1)

	err := svc.ConfirmReport(ctx, 99, true)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestConfirmReport_PublishFailureIsNotFatal(t *testing.T) {
	svc, repoMock, publisherMock := newTestReportService(t)
	ctx := context.Background()
	existing := &models.Report{ID: 7}

	repoMock.EXPECT().GetByID(ctx, int64(7)).Return(existing, nil).Times(1)
	repoMock.EXPECT().Confirm(ctx, int64(7), true).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateReportListCache(ctx).Return(nil).Times(1)
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Return(fmt.Errorf("queue unavailable")).
		Times(1)

	err := svc.ConfirmReport(ctx, 7, true)

	require.NoError(t, err)
}

func TestDeleteReport_Success(t *testing.T) {
	svc, repoMock, _ := newTestReportService(t)
	ctx := context.Background()

	repoMock.EXPECT().
		GetByID(ctx, int64(5)).
		Return(&models.Report{ID: 5}, nil).
		Times(1)
	repoMock.EXPECT().
		Delete(ctx, int64(5)).
		Return(nil).
		Times(1)
	repoMock.EXPECT().
		InvalidateReportListCache(ctx).
		Return(nil).
		Times(1)

	err := svc.DeleteReport(ctx, 5)

	require.NoError(t, err)
}

func TestDeleteReport_NotFound(t *testing.T) {
	svc, repoMock, _ := newTestReportService(t)
	ctx := context.Background()

	repoMock.EXPECT().
		GetByID(ctx, int64(99)).
		Return(nil, fmt.Errorf("report 99: %w", ErrReportNotFound)).
		Times(1)

	err := svc.DeleteReport(ctx, 99)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReportNotFound)
}
