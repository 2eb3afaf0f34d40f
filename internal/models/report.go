package models

import (
	"time"
)

// Report is a single crowd-sourced incident report. Confirm is tri-state:
// nil means unconfirmed, true means confirmed-hazard, false means confirmed-safe.
type Report struct {
	ID          int64     `json:"report_id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Descriptor  string    `json:"descriptor"`
	Confirm     *bool     `json:"confirm_bool"`
	Probability int       `json:"probability"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Confirmed reports true if the report has been confirmed as a hazard.
func (r *Report) Confirmed() bool {
	return r.Confirm != nil && *r.Confirm
}
