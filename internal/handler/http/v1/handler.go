package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/matthewru/hd-mobile/internal/config"
	"github.com/matthewru/hd-mobile/internal/mapgrid"
	"github.com/matthewru/hd-mobile/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	reportService service.ReportService
	authService   service.AuthService
	logger        *logrus.Logger
	validate      *validator.Validate
	cfg           *config.Config
}

func NewHandler(reportService service.ReportService, authService service.AuthService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		reportService: reportService,
		authService:   authService,
		logger:        logger,
		validate:      validator.New(),
		cfg:           cfg,
	}
}

// @Summary Submit a new report
// @Description Submit a new impaired-driving incident report tied to a map coordinate. Requires a Bearer token.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param report body CreateReportRequest true "Report submission"
// @Success 201 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports [post]
func (h *Handler) createReport(c *gin.Context) {
	var input CreateReportRequest
	log := h.logger.WithField("method", "createReport")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	model := DTOToReportModel(input)
	if err := h.reportService.CreateReport(c.Request.Context(), model); err != nil {
		log.WithError(err).Error("Failed to create report in service")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToReportResponse(model))
}

// @Summary List reports
// @Description Get every current report for the map dashboards, newest first. Requires a Bearer token.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ReportListResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports [get]
func (h *Handler) listReports(c *gin.Context) {
	log := h.logger.WithField("method", "listReports")

	reports, err := h.reportService.ListReports(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list reports from service")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ReportListResponse{
		Status:  "success",
		Reports: ModelsToReportResponses(reports),
	})
}

// @Summary Confirm a report
// @Description Mark a report as a confirmed hazard (true) or confirmed safe (false). Requires a Bearer token.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param report_id path int true "Report ID"
// @Param confirmation body ConfirmReportRequest true "Confirmation request"
// @Success 200 {object} map[string]string "Acknowledgement"
// @Failure 400 {object} map[string]string "Invalid report ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports/confirm/{report_id} [put]
func (h *Handler) confirmReport(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("report_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid report ID"})
		return
	}
	log := h.logger.WithField("method", "confirmReport").WithField("report_id", id)

	var input ConfirmReportRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if err := h.reportService.ConfirmReport(c.Request.Context(), id, *input.ConfirmBool); err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			log.WithError(err).Warn("Report not found for confirm")
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "report not found"})
			return
		}
		log.WithError(err).Error("Failed to confirm report in service")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// @Summary Delete a report
// @Description Remove a report permanently. Requires a Bearer token.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param report_id path int true "Report ID"
// @Success 200 {object} map[string]string "Acknowledgement"
// @Failure 400 {object} map[string]string "Invalid report ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports/{report_id} [delete]
func (h *Handler) deleteReport(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("report_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid report ID"})
		return
	}
	log := h.logger.WithField("method", "deleteReport").WithField("report_id", id)

	if err := h.reportService.DeleteReport(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			log.WithError(err).Warn("Report not found for delete")
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "report not found"})
			return
		}
		log.WithError(err).Error("Failed to delete report in service")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// @Summary Get aggregated map markers
// @Description Aggregate report coordinates inside a viewport into heatmap clusters. Requires a Bearer token.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lat_min query number true "Viewport minimum latitude"
// @Param lat_max query number true "Viewport maximum latitude"
// @Param lon_min query number true "Viewport minimum longitude"
// @Param lon_max query number true "Viewport maximum longitude"
// @Param lat query number true "Viewport center latitude"
// @Param lon query number true "Viewport center longitude"
// @Success 200 {object} MapMarkersResponse
// @Failure 400 {object} map[string]string "Invalid viewport"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports/map [get]
func (h *Handler) mapMarkers(c *gin.Context) {
	log := h.logger.WithField("method", "mapMarkers")

	vp, center, err := parseViewport(c)
	if err != nil {
		log.WithError(err).Warn("Invalid viewport query")
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid viewport"})
		return
	}

	clusters, err := h.reportService.MapMarkers(c.Request.Context(), vp, center)
	if err != nil {
		log.WithError(err).Error("Failed to aggregate map markers in service")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, MapMarkersResponse{
		Status:  "success",
		Markers: ClustersToMapMarkers(clusters),
	})
}

func parseViewport(c *gin.Context) (mapgrid.Viewport, mapgrid.Point, error) {
	var vp mapgrid.Viewport
	var center mapgrid.Point
	var err error

	parse := func(name string, dst *float64) {
		if err != nil {
			return
		}
		*dst, err = strconv.ParseFloat(c.Query(name), 64)
	}
	parse("lat_min", &vp.LatMin)
	parse("lat_max", &vp.LatMax)
	parse("lon_min", &vp.LonMin)
	parse("lon_max", &vp.LonMax)
	parse("lat", &center.Lat)
	parse("lon", &center.Lon)
	return vp, center, err
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
