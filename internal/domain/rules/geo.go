package rules

import (
	"errors"
	"math"
)

const EarthRadiusKM = 6371.0

var ErrInvalidCoordinates = errors.New("invalid coordinates")

func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return ErrInvalidCoordinates
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// HaversineKM is the great-circle distance between two points in kilometers.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKM * c
}

// Box is a lat/lon rectangle that contains every point within a radius of
// its center. When WrapsLon is set the longitude range crosses the
// antimeridian and matches lon >= MinLon OR lon <= MaxLon.
type Box struct {
	MinLat   float64
	MaxLat   float64
	MinLon   float64
	MaxLon   float64
	WrapsLon bool
}

func BoundingBox(lat, lon, radiusKM float64) Box {
	angular := radiusKM / EarthRadiusKM
	latRad := toRad(lat)
	minLat := latRad - angular
	maxLat := latRad + angular

	if minLat <= -math.Pi/2 || maxLat >= math.Pi/2 {
		return Box{
			MinLat: math.Max(toDeg(minLat), -90),
			MaxLat: math.Min(toDeg(maxLat), 90),
			MinLon: -180,
			MaxLon: 180,
		}
	}

	dLon := math.Asin(math.Sin(angular) / math.Cos(latRad))
	minLon := toRad(lon) - dLon
	maxLon := toRad(lon) + dLon

	box := Box{
		MinLat: toDeg(minLat),
		MaxLat: toDeg(maxLat),
		MinLon: toDeg(minLon),
		MaxLon: toDeg(maxLon),
	}
	if box.MinLon < -180 {
		box.MinLon += 360
		box.WrapsLon = true
	}
	if box.MaxLon > 180 {
		box.MaxLon -= 360
		box.WrapsLon = true
	}
	return box
}

func (b Box) Contains(lat, lon float64) bool {
	if lat < b.MinLat || lat > b.MaxLat {
		return false
	}
	if b.WrapsLon {
		return lon >= b.MinLon || lon <= b.MaxLon
	}
	return lon >= b.MinLon && lon <= b.MaxLon
}

func toRad(v float64) float64 { return v * math.Pi / 180 }

func toDeg(v float64) float64 { return v * 180 / math.Pi }
