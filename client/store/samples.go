package store

import (
	"github.com/matthewru/hd-mobile/client"
)

func boolPtr(b bool) *bool { return &b }

// SampleReports returns the fixed fallback set shown when the reports
// endpoint is unreachable. Coordinates cluster around downtown San
// Francisco, matching the default map region.
func SampleReports() []*client.Report {
	return []*client.Report{
		{ID: 1, Latitude: 37.78825, Longitude: -122.4324, Descriptor: "Car swerving between lanes", Confirm: nil, Probability: 68},
		{ID: 2, Latitude: 37.78525, Longitude: -122.4284, Descriptor: "Driver ran a red light at speed", Confirm: boolPtr(true), Probability: 55},
		{ID: 3, Latitude: 37.79125, Longitude: -122.4364, Descriptor: "Vehicle stopped in traffic lane", Confirm: nil, Probability: 47},
		{ID: 4, Latitude: 37.78325, Longitude: -122.4404, Descriptor: "Erratic braking near crosswalk", Confirm: nil, Probability: 38},
		{ID: 5, Latitude: 37.79425, Longitude: -122.4264, Descriptor: "Possible impaired driver reported by passerby", Confirm: boolPtr(false), Probability: 33},
	}
}
