package rules

import (
	"errors"
	"math"
	"testing"
)

func TestHaversineKMKnownDistances(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{name: "same_point", lat1: 10, lon1: 10, lat2: 10, lon2: 10, want: 0, tolerance: 1e-9},
		{name: "tenth_degree_diagonal", lat1: 0, lon1: 0, lat2: 0.1, lon2: 0.1, want: 15.72, tolerance: 0.05},
		{name: "ten_degree_diagonal", lat1: 0, lon1: 0, lat2: 10, lon2: 10, want: 1568.5, tolerance: 1},
		{name: "one_degree_equator", lat1: 0, lon1: 0, lat2: 0, lon2: 1, want: 111.19, tolerance: 0.05},
		{name: "across_antimeridian", lat1: 0, lon1: 179.9, lat2: 0, lon2: -179.9, want: 22.24, tolerance: 0.05},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := HaversineKM(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
			if math.Abs(got-tc.want) > tc.tolerance {
				t.Fatalf("unexpected distance: got %.4f want %.4f±%.2f", got, tc.want, tc.tolerance)
			}
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	if err := ValidateCoordinates(53.9, 27.5); err != nil {
		t.Fatalf("valid coordinates rejected: %v", err)
	}
	for _, pair := range [][2]float64{{91, 0}, {0, 181}, {math.NaN(), 0}, {0, math.Inf(1)}} {
		if err := ValidateCoordinates(pair[0], pair[1]); !errors.Is(err, ErrInvalidCoordinates) {
			t.Fatalf("expected invalid coordinates for %v, got %v", pair, err)
		}
	}
}

func TestBoundingBoxContainsEveryPointWithinRadius(t *testing.T) {
	centers := [][2]float64{{0, 0}, {53.9, 27.5}, {-33.8, 151.2}, {0, 179.95}, {89.9, 0}}
	radius := 50.0

	for _, c := range centers {
		box := BoundingBox(c[0], c[1], radius)
		for bearing := 0.0; bearing < 360; bearing += 15 {
			lat, lon := destination(c[0], c[1], bearing, radius*0.999)
			if !box.Contains(lat, lon) {
				t.Fatalf("box around %v misses point %.4f,%.4f at bearing %.0f: %+v", c, lat, lon, bearing, box)
			}
		}
	}
}

func TestBoundingBoxExcludesFarPoint(t *testing.T) {
	box := BoundingBox(0, 0, 50)
	if box.Contains(10, 10) {
		t.Fatalf("box for 50km must not contain a point ~1500km away")
	}
	if box.WrapsLon {
		t.Fatalf("box at the origin must not wrap longitude")
	}
}

func TestBoundingBoxWrapsAntimeridian(t *testing.T) {
	box := BoundingBox(0, 179.9, 50)
	if !box.WrapsLon {
		t.Fatalf("expected wrapped longitude range, got %+v", box)
	}
	if !box.Contains(0, -179.9) {
		t.Fatalf("wrapped box must contain a point just across the antimeridian")
	}
}

func destination(lat, lon, bearingDeg, distKM float64) (float64, float64) {
	angular := distKM / EarthRadiusKM
	brg := toRad(bearingDeg)
	lat1 := toRad(lat)
	lon1 := toRad(lon)
	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angular) + math.Cos(lat1)*math.Sin(angular)*math.Cos(brg))
	lon2 := lon1 + math.Atan2(math.Sin(brg)*math.Sin(angular)*math.Cos(lat1), math.Cos(angular)-math.Sin(lat1)*math.Sin(lat2))
	lonDeg := toDeg(lon2)
	for lonDeg > 180 {
		lonDeg -= 360
	}
	for lonDeg < -180 {
		lonDeg += 360
	}
	return toDeg(lat2), lonDeg
}
