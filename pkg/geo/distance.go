package geo

import (
	"math"

	"github.com/lintang-b-s/lanemap/pkg/util"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

const earthRadiusM = 6371000.0

// HaversineDistance. great-circle distance between a and b in meters.
func HaversineDistance(a, b Coordinate) float64 {
	latA, latB := util.DegreeToRadians(a.Lat), util.DegreeToRadians(b.Lat)
	dLat := latB - latA
	dLon := util.DegreeToRadians(b.Lon - a.Lon)

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(latA)*math.Cos(latB)*math.Pow(math.Sin(dLon/2), 2)
	return 2 * earthRadiusM * math.Asin(math.Min(1, math.Sqrt(h)))
}
