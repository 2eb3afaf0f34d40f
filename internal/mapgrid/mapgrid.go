// Package mapgrid clusters report coordinates into S2 cells sized to the
// requested map viewport, so the monitoring dashboard can draw heatmap
// circles instead of thousands of raw markers.
package mapgrid

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Viewport is the visible map region in degrees.
type Viewport struct {
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
}

// Contains reports whether the coordinate falls inside the viewport.
func (vp Viewport) Contains(lat, lon float64) bool {
	return lat >= vp.LatMin && lat <= vp.LatMax && lon >= vp.LonMin && lon <= vp.LonMax
}

// Point is a map coordinate in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Cluster is one aggregated heatmap circle.
type Cluster struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int64   `json:"count"`
}

type cellUnit struct {
	cnt      int64
	origCell s2.CellID
}

// Aggregator buckets points by S2 parent cell at a viewport-derived level.
type Aggregator struct {
	level int
	cells map[s2.CellID]*cellUnit
}

const (
	expectedCells = 160
	minLevel      = 6
	maxLevel      = 16
)

func cellBaseLevel(vp Viewport, center Point) int {
	minLL := s2.LatLngFromDegrees(vp.LatMin, vp.LonMin)
	maxLL := s2.LatLngFromDegrees(vp.LatMax, vp.LonMax)

	rect := s2.Rect{
		Lat: r1.Interval{
			Lo: minLL.Lat.Radians(),
			Hi: maxLL.Lat.Radians()},
		Lng: s1.Interval{
			Lo: minLL.Lng.Radians(),
			Hi: maxLL.Lng.Radians()},
	}

	vpArea := rect.Area()

	centerCell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(center.Lat, center.Lon))

	for lv := maxLevel; lv >= minLevel; lv-- {
		cc := s2.CellFromCellID(centerCell.Parent(lv))
		if vpArea/cc.ApproxArea() < expectedCells {
			return lv
		}
	}
	return minLevel // viewport is large enough to use the coarsest level
}

func NewAggregator(vp Viewport, center Point) *Aggregator {
	return &Aggregator{
		level: cellBaseLevel(vp, center),
		cells: make(map[s2.CellID]*cellUnit),
	}
}

// AddPoint buckets one report coordinate.
func (a *Aggregator) AddPoint(lat, lon float64) {
	pc := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lon))
	parent := pc.Parent(a.level)
	if _, ok := a.cells[parent]; !ok {
		a.cells[parent] = &cellUnit{}
	}
	a.cells[parent].cnt++
	a.cells[parent].origCell = pc
}

// Clusters returns the aggregated circles. A cell holding a single report
// keeps the report's exact coordinate instead of the cell center.
func (a *Aggregator) Clusters() []Cluster {
	r := make([]Cluster, 0, len(a.cells))
	for c, unit := range a.cells {
		ll := c.LatLng()
		if unit.cnt == 1 {
			ll = unit.origCell.LatLng()
		}
		r = append(r, Cluster{
			Latitude:  ll.Lat.Degrees(),
			Longitude: ll.Lng.Degrees(),
			Count:     unit.cnt,
		})
	}
	return r
}
