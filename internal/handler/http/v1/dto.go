package v1

import (
	"time"

	"github.com/google/uuid"
)

// CreateReportRequest is the submission payload from the reporting modal.
// ReportID is optional: an optimistic client sends its locally generated
// millisecond id, otherwise the server assigns one. Probability is accepted
// as-is and only used for marker coloring.
type CreateReportRequest struct {
	ReportID    int64   `json:"report_id,omitempty"`
	Descriptor  string  `json:"descriptor" validate:"required,min=1,max=500"`
	Latitude    float64 `json:"latitude" validate:"required,latitude"`
	Longitude   float64 `json:"longitude" validate:"required,longitude"`
	ConfirmBool *bool   `json:"confirm_bool"`
	Probability int     `json:"probability"`
}

// ConfirmReportRequest sets the tri-state confirmation flag on a report.
type ConfirmReportRequest struct {
	ReportID    int64 `json:"report_id"`
	ConfirmBool *bool `json:"confirm_bool" validate:"required"`
}

// ReportResponse is the wire form of a single report.
type ReportResponse struct {
	ReportID    int64     `json:"report_id"`
	Descriptor  string    `json:"descriptor"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	ConfirmBool *bool     `json:"confirm_bool"`
	Probability int       `json:"probability"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReportListResponse wraps the report list the dashboards render.
type ReportListResponse struct {
	Status  string            `json:"status"`
	Reports []*ReportResponse `json:"reports"`
}

// MapMarkersResponse carries aggregated heatmap clusters for a viewport.
type MapMarkersResponse struct {
	Status  string      `json:"status"`
	Markers []MapMarker `json:"markers"`
}

type MapMarker struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int64   `json:"count"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=community officer"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the wire form of a user.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Status string        `json:"status"`
	User   *UserResponse `json:"user"`
	Token  string        `json:"token"`
}
