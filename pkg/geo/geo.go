// Package geo provides the great-circle math used to place targets and
// stations relative to each other.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by every distance calculation
const EarthRadiusMeters = 6371000.0

// Position is a WGS84 coordinate in decimal degrees
type Position struct {
	Latitude  float64 `yaml:"lat" json:"lat" koanf:"lat"`
	Longitude float64 `yaml:"lon" json:"lon" koanf:"lon"`
}

// Track is a chronological path. The first element is the launch position and
// the last element is the current position.
type Track []Position

// String formats the position the way reports print coordinates
func (p Position) String() string {
	return fmt.Sprintf("%.4f, %.4f", p.Latitude, p.Longitude)
}

// Launch returns the first point of the track
func (t Track) Launch() (Position, bool) {
	if len(t) == 0 {
		return Position{}, false
	}
	return t[0], true
}

// Current returns the last point of the track
func (t Track) Current() (Position, bool) {
	if len(t) == 0 {
		return Position{}, false
	}
	return t[len(t)-1], true
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func toDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// DistanceMeters returns the haversine great-circle distance between a and b
func DistanceMeters(a, b Position) float64 {
	phi1 := toRadians(a.Latitude)
	phi2 := toRadians(b.Latitude)
	dPhi := toRadians(b.Latitude - a.Latitude)
	dLambda := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// BearingDegrees returns the initial bearing from one position to another,
// normalized into [0, 360). Coincident positions yield 0.
func BearingDegrees(from, to Position) float64 {
	phi1 := toRadians(from.Latitude)
	phi2 := toRadians(to.Latitude)
	dLambda := toRadians(to.Longitude - from.Longitude)

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)

	bearing := math.Mod(toDegrees(math.Atan2(y, x))+360.0, 360.0)
	// Mod can return 360 for tiny negative inputs
	if bearing >= 360.0 {
		bearing -= 360.0
	}
	return bearing
}

// HeadingFromTrack returns the bearing of the final track segment, or 0 when
// the track has fewer than two points.
func HeadingFromTrack(track Track) float64 {
	if len(track) < 2 {
		return 0
	}
	return BearingDegrees(track[len(track)-2], track[len(track)-1])
}
