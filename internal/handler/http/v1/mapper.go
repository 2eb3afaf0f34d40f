package v1

import (
	"github.com/matthewru/hd-mobile/internal/mapgrid"
	"github.com/matthewru/hd-mobile/internal/models"
)

// DTOToReportModel converts a submission request into the domain model.
func DTOToReportModel(dto CreateReportRequest) *models.Report {
	return &models.Report{
		ID:          dto.ReportID,
		Descriptor:  dto.Descriptor,
		Latitude:    dto.Latitude,
		Longitude:   dto.Longitude,
		Confirm:     dto.ConfirmBool,
		Probability: dto.Probability,
	}
}

// ModelToReportResponse converts a domain model into the response DTO.
func ModelToReportResponse(model *models.Report) *ReportResponse {
	return &ReportResponse{
		ReportID:    model.ID,
		Descriptor:  model.Descriptor,
		Latitude:    model.Latitude,
		Longitude:   model.Longitude,
		ConfirmBool: model.Confirm,
		Probability: model.Probability,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// ModelsToReportResponses converts a slice of models into response DTOs.
func ModelsToReportResponses(models []*models.Report) []*ReportResponse {
	responses := make([]*ReportResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToReportResponse(model)
	}
	return responses
}

// ClustersToMapMarkers converts aggregated cells into response DTOs.
func ClustersToMapMarkers(clusters []mapgrid.Cluster) []MapMarker {
	markers := make([]MapMarker, len(clusters))
	for i, c := range clusters {
		markers[i] = MapMarker{
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			Count:     c.Count,
		}
	}
	return markers
}

// ModelToUserResponse converts a user model into the response DTO.
func ModelToUserResponse(model *models.User) *UserResponse {
	return &UserResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
	}
}
