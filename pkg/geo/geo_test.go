package geo

import (
	"math"
	"testing"
)

const tolerance = 1e-6

func TestDistanceMeters(t *testing.T) {
	london := Position{Latitude: 51.5074, Longitude: -0.1278}
	paris := Position{Latitude: 48.8566, Longitude: 2.3522}

	tests := []struct {
		name string
		a, b Position
		want float64
		tol  float64
	}{
		{name: "same point", a: london, b: london, want: 0, tol: 0},
		{name: "one degree of longitude on the equator", a: Position{0, 0}, b: Position{0, 1}, want: 111194.93, tol: 0.01},
		{name: "london to paris", a: london, b: paris, want: 343556, tol: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Expected distance %.2f, got %.2f", tt.want, got)
			}
		})
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	points := []Position{
		{Latitude: 51.5074, Longitude: -0.1278},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 37.7749, Longitude: -122.4194},
		{Latitude: 0, Longitude: 0},
	}

	for i := range points {
		for j := range points {
			ab := DistanceMeters(points[i], points[j])
			ba := DistanceMeters(points[j], points[i])
			if math.Abs(ab-ba) > tolerance {
				t.Errorf("Expected symmetric distance for %v/%v, got %f and %f", points[i], points[j], ab, ba)
			}
			if i == j && ab != 0 {
				t.Errorf("Expected zero distance for identical points, got %f", ab)
			}
		}
	}
}

func TestBearingDegrees(t *testing.T) {
	tests := []struct {
		name     string
		from, to Position
		want     float64
	}{
		{name: "due east", from: Position{0, 0}, to: Position{0, 1}, want: 90},
		{name: "due north", from: Position{0, 0}, to: Position{1, 0}, want: 0},
		{name: "due south", from: Position{1, 0}, to: Position{0, 0}, want: 180},
		{name: "due west", from: Position{0, 1}, to: Position{0, 0}, want: 270},
		{name: "coincident", from: Position{45, 7}, to: Position{45, 7}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BearingDegrees(tt.from, tt.to)
			if math.Abs(got-tt.want) > tolerance {
				t.Errorf("Expected bearing %.4f, got %.4f", tt.want, got)
			}
			if got < 0 || got >= 360 {
				t.Errorf("Bearing %f outside [0, 360)", got)
			}
		})
	}
}

func TestHeadingFromTrack(t *testing.T) {
	if got := HeadingFromTrack(nil); got != 0 {
		t.Errorf("Expected heading 0 for empty track, got %f", got)
	}

	if got := HeadingFromTrack(Track{{Latitude: 10, Longitude: 10}}); got != 0 {
		t.Errorf("Expected heading 0 for single point track, got %f", got)
	}

	got := HeadingFromTrack(Track{{0, 0}, {0, 1}})
	if math.Abs(got-90) > tolerance {
		t.Errorf("Expected heading 90, got %f", got)
	}

	// only the final segment counts
	got = HeadingFromTrack(Track{{0, 0}, {0, 1}, {1, 1}})
	if math.Abs(got-0) > tolerance {
		t.Errorf("Expected heading 0 from last segment, got %f", got)
	}
}

func TestTrackEndpoints(t *testing.T) {
	track := Track{{1, 2}, {3, 4}, {5, 6}}

	launch, ok := track.Launch()
	if !ok || launch != (Position{1, 2}) {
		t.Errorf("Expected launch {1 2}, got %v", launch)
	}

	current, ok := track.Current()
	if !ok || current != (Position{5, 6}) {
		t.Errorf("Expected current {5 6}, got %v", current)
	}

	if _, ok := Track(nil).Current(); ok {
		t.Errorf("Expected no current position for empty track")
	}
}

func TestPositionString(t *testing.T) {
	p := Position{Latitude: 51.50741, Longitude: -0.12776}
	if got := p.String(); got != "51.5074, -0.1278" {
		t.Errorf("Expected '51.5074, -0.1278', got '%s'", got)
	}
}
