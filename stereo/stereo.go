// Package stereo converts between geographic coordinates and the polar
// stereographic projection the DWD composite radar grid is laid out on.
//
// The math follows the RADOLAN grid documentation
// (https://docs.wradlib.org/en/stable/notebooks/radolan/radolan_grid.html);
// geographic coordinates are represented with s2.LatLng rather than a
// bespoke struct so this package composes with anything else in the
// ecosystem that already speaks s2.
package stereo

import (
	"math"

	"github.com/golang/geo/s2"
)

const (
	radiusOfEarthKM             = 6370.040
	longitudeOfProjectionOrigin = 10.0
	latitudeOfTrueScale         = 60.0
	offsetX                     = 542.9621669218564
	offsetY                     = -3609.144724265575
)

// Coordinates is a point on the DWD radar grid's stereographic plane, in
// kilometers from the grid origin.
type Coordinates struct {
	X float64
	Y float64
}

// GeoToStereo projects a geographic coordinate onto the DWD grid plane.
func GeoToStereo(g s2.LatLng) Coordinates {
	lat := g.Lat.Radians()
	lon := g.Lng.Degrees()

	scale := radiusOfEarthKM * (1 + sinDeg(latitudeOfTrueScale)) / (1 + math.Sin(lat)) * math.Cos(lat)
	dLon := toRadians(longitudeOfProjectionOrigin - lon)

	return Coordinates{
		X: -scale*math.Sin(dLon) + offsetX,
		Y: scale*math.Cos(dLon) + offsetY,
	}
}

// StereoToGeo inverts GeoToStereo, recovering a geographic coordinate from
// a point on the DWD grid plane.
func StereoToGeo(c Coordinates) s2.LatLng {
	dx := c.X - offsetX
	dy := c.Y - offsetY

	lon := toDegrees(math.Atan(dx/dy)) + longitudeOfProjectionOrigin

	term1 := radiusOfEarthKM * radiusOfEarthKM * math.Pow(1+sinDeg(latitudeOfTrueScale), 2)
	term2 := dx*dx + dy*dy
	lat := toDegrees(math.Asin((term1 - term2) / (term1 + term2)))

	return s2.LatLngFromDegrees(lat, lon)
}

func sinDeg(deg float64) float64    { return math.Sin(toRadians(deg)) }
func toRadians(deg float64) float64 { return deg * math.Pi / 180 }
func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }
