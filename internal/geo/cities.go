// Package geo resolves which supported cities lie within a search radius.
package geo

import (
	"math"
	"sort"
)

const earthRadiusKm = 6371.0

// Coord is a latitude/longitude pair in degrees.
type Coord struct {
	Lat float64
	Lon float64
}

// Cities is the fixed coordinate table of supported cities.
var Cities = map[string]Coord{
	"Москва":          {55.7558, 37.6173},
	"Санкт-Петербург": {59.9343, 30.3351},
	"Новосибирск":     {55.0302, 82.9204},
	"Екатеринбург":    {56.8389, 60.6057},
	"Казань":          {55.7961, 49.1064},
	"Нижний Новгород": {56.3269, 44.0065},
	"Челябинск":       {55.1599, 61.4026},
	"Самара":          {53.1959, 50.1002},
	"Омск":            {54.9833, 73.3667},
	"Ростов-на-Дону":  {47.2214, 39.7114},
	"Томск":           {56.4846, 84.9482},
}

// Known reports whether city is in the table.
func Known(city string) bool {
	_, ok := Cities[city]
	return ok
}

// Distance returns the great-circle distance in km, or +Inf when either
// city is unknown.
func Distance(a, b string) float64 {
	ca, okA := Cities[a]
	cb, okB := Cities[b]
	if !okA || !okB {
		return math.Inf(1)
	}
	return Haversine(ca, cb)
}

// Haversine returns the great-circle distance between two points in km.
func Haversine(a, b Coord) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// NearbyCities lists the other table cities within radiusKm of city, sorted
// by name. An unknown city has no neighbours.
func NearbyCities(city string, radiusKm float64) []string {
	if !Known(city) {
		return nil
	}
	var out []string
	for other := range Cities {
		if other == city {
			continue
		}
		if Distance(city, other) <= radiusKm {
			out = append(out, other)
		}
	}
	sort.Strings(out)
	return out
}

// SearchArea is the requester's own city followed by its neighbours.
func SearchArea(city string, radiusKm float64) []string {
	return append([]string{city}, NearbyCities(city, radiusKm)...)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
