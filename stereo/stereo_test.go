package stereo_test

import (
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/require"

	"github.com/nimbusrv/rv/stereo"
)

const epsilon = 1e-4

func TestGeoToStereoReferencePoints(t *testing.T) {
	cases := []struct {
		name        string
		lat, lon    float64
		wantX, wantY float64
	}{
		{"central-germany", 51, 9, 469.5, 599.5},
		{"grid-origin", 55.862143, 1.4445428, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := stereo.GeoToStereo(s2.LatLngFromDegrees(tc.lat, tc.lon))
			require.InDelta(t, tc.wantX, got.X, epsilon)
			require.InDelta(t, tc.wantY, got.Y, epsilon)
		})
	}
}

func TestStereoToGeoReferencePoints(t *testing.T) {
	cases := []struct {
		name         string
		x, y         float64
		wantLat, wantLon float64
	}{
		{"central-germany", 469.5, 599.5, 51, 9},
		{"grid-origin", 0, 0, 55.862143, 1.4445428},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := stereo.StereoToGeo(stereo.Coordinates{X: tc.x, Y: tc.y})
			require.InDelta(t, tc.wantLat, got.Lat.Degrees(), epsilon)
			require.InDelta(t, tc.wantLon, got.Lng.Degrees(), epsilon)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	points := []s2.LatLng{
		s2.LatLngFromDegrees(51, 9),
		s2.LatLngFromDegrees(55.862143, 1.4445428),
		s2.LatLngFromDegrees(48.5, 11.2),
		s2.LatLngFromDegrees(54.1, -3.0),
	}

	for _, g := range points {
		stereoCoords := stereo.GeoToStereo(g)
		back := stereo.StereoToGeo(stereoCoords)

		require.InDelta(t, g.Lat.Degrees(), back.Lat.Degrees(), epsilon)
		require.InDelta(t, g.Lng.Degrees(), back.Lng.Degrees(), epsilon)
	}
}
