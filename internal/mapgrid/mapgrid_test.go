package mapgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sfViewport() (Viewport, Point) {
	vp := Viewport{
		LatMin: 37.70,
		LatMax: 37.82,
		LonMin: -122.52,
		LonMax: -122.35,
	}
	center := Point{Lat: 37.76, Lon: -122.44}
	return vp, center
}

func TestViewportContains(t *testing.T) {
	vp, _ := sfViewport()

	assert.True(t, vp.Contains(37.76, -122.44))
	assert.False(t, vp.Contains(40.0, -122.44))
	assert.False(t, vp.Contains(37.76, -120.0))
}

func TestAggregator_SinglePointKeepsCoordinate(t *testing.T) {
	vp, center := sfViewport()
	aggr := NewAggregator(vp, center)

	aggr.AddPoint(37.78825, -122.4324)

	clusters := aggr.Clusters()
	require.Len(t, clusters, 1)
	assert.Equal(t, int64(1), clusters[0].Count)
	assert.InDelta(t, 37.78825, clusters[0].Latitude, 1e-6)
	assert.InDelta(t, -122.4324, clusters[0].Longitude, 1e-6)
}

func TestAggregator_NearbyPointsMerge(t *testing.T) {
	vp, center := sfViewport()
	aggr := NewAggregator(vp, center)

	// points a few meters apart land in the same cell
	aggr.AddPoint(37.78825, -122.4324)
	aggr.AddPoint(37.78826, -122.43241)
	aggr.AddPoint(37.78824, -122.43239)

	clusters := aggr.Clusters()
	require.Len(t, clusters, 1)
	assert.Equal(t, int64(3), clusters[0].Count)
}

func TestAggregator_DistantPointsStaySeparate(t *testing.T) {
	vp, center := sfViewport()
	aggr := NewAggregator(vp, center)

	aggr.AddPoint(37.705, -122.51)
	aggr.AddPoint(37.815, -122.36)

	clusters := aggr.Clusters()
	assert.Len(t, clusters, 2)
}

func TestAggregator_TotalCountPreserved(t *testing.T) {
	vp, center := sfViewport()
	aggr := NewAggregator(vp, center)

	points := []Point{
		{37.78, -122.43}, {37.78, -122.43}, {37.71, -122.50},
		{37.81, -122.36}, {37.75, -122.44},
	}
	for _, p := range points {
		aggr.AddPoint(p.Lat, p.Lon)
	}

	var total int64
	for _, c := range aggr.Clusters() {
		total += c.Count
	}
	assert.Equal(t, int64(len(points)), total)
}
