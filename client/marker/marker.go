// Package marker derives the display color tier for a report marker. The
// mapping is a stateless lookup evaluated at render time.
package marker

// Color tiers, from highest alarm to lowest.
const (
	ColorConfirmed = "#8B0000" // confirmed hazard, fixed dark tone
	ColorSevere    = "#FF0000" // probability >= 65
	ColorHigh      = "#FF4500" // probability >= 50
	ColorElevated  = "#FFA500" // probability >= 40
	ColorLow       = "#FFD700"
	ColorSafe      = "#2E8B57" // confirmed safe
)

// Color maps a report's tri-state confirmation flag and probability score to
// a display color. Confirmation overrides probability; unconfirmed reports
// tier by threshold.
func Color(confirm *bool, probability int) string {
	if confirm != nil {
		if *confirm {
			return ColorConfirmed
		}
		return ColorSafe
	}
	switch {
	case probability >= 65:
		return ColorSevere
	case probability >= 50:
		return ColorHigh
	case probability >= 40:
		return ColorElevated
	default:
		return ColorLow
	}
}

// AlarmLevel orders tiers for display sorting: higher means more urgent.
func AlarmLevel(confirm *bool, probability int) int {
	switch Color(confirm, probability) {
	case ColorConfirmed:
		return 5
	case ColorSevere:
		return 4
	case ColorHigh:
		return 3
	case ColorElevated:
		return 2
	case ColorLow:
		return 1
	default:
		return 0
	}
}
