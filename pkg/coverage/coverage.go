// Package coverage works out which stations have targets inside their
// coverage radius and which targets fall inside any station's coverage.
package coverage

import (
	"github.com/picogrid/drone-risk-engine/pkg/geo"
	"github.com/picogrid/drone-risk-engine/pkg/models"
)

// DefaultRadiusMeters is the coverage radius shared by every station
const DefaultRadiusMeters = 30000.0

// Contact is one station/target pair inside coverage
type Contact struct {
	StationID      string
	TargetID       string
	DistanceMeters float64
}

// InRange reports whether a distance lies inside the radius. The boundary is inclusive.
func InRange(distanceMeters, radiusMeters float64) bool {
	return distanceMeters <= radiusMeters
}

// Contacts returns every station/target pair within radius, ordered by station
// then target as given.
func Contacts(stations []models.Station, targets []*models.Target, radiusMeters float64) []Contact {
	var contacts []Contact
	for _, station := range stations {
		for _, target := range targets {
			d := geo.DistanceMeters(station.Position, target.Position())
			if InRange(d, radiusMeters) {
				contacts = append(contacts, Contact{
					StationID:      station.ID,
					TargetID:       target.ID,
					DistanceMeters: d,
				})
			}
		}
	}
	return contacts
}

// EngagedStations returns the ids of stations with at least one target within
// radius, in station order.
func EngagedStations(stations []models.Station, targets []*models.Target, radiusMeters float64) []string {
	engaged := make([]string, 0, len(stations))
	for _, station := range stations {
		for _, target := range targets {
			if InRange(geo.DistanceMeters(station.Position, target.Position()), radiusMeters) {
				engaged = append(engaged, station.ID)
				break
			}
		}
	}
	return engaged
}

// CoveredTargets returns the ids of targets within radius of at least one
// station, in target order.
func CoveredTargets(stations []models.Station, targets []*models.Target, radiusMeters float64) []string {
	covered := make([]string, 0, len(targets))
	for _, target := range targets {
		for _, station := range stations {
			if InRange(geo.DistanceMeters(station.Position, target.Position()), radiusMeters) {
				covered = append(covered, target.ID)
				break
			}
		}
	}
	return covered
}
