package domain

import "math"

// EarthRadiusMeters is the sphere radius shared with the map projection
// (spherical Mercator). Distances computed with it stay consistent with
// on-screen geometry at the cost of a small absolute error versus the
// WGS84 mean radius.
const EarthRadiusMeters = 6378137.0

// Immutable geographic coordinates (longitude, latitude) in decimal
// degrees, WGS84.
type GeoPoint struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (g GeoPoint) CoordsToList() []float64 { return []float64{g.Lon, g.Lat} }

// Planar coordinates in the map rendering projection (spherical
// Mercator, meters). Derived from GeoPoint; never persisted.
type ProjectedPoint struct {
	X float64
	Y float64
}

// Distance returns the great-circle distance between two geographic
// points in meters, using the haversine formula on the projection
// sphere. Commutative; zero for identical points.
func Distance(a, b GeoPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// DistanceCentimeters returns the distance between two geographic
// points in centimeters, the unit operators see while drawing.
func DistanceCentimeters(a, b GeoPoint) float64 {
	return Distance(a, b) * 100
}

// ToProjected converts geographic coordinates to spherical Mercator.
func ToProjected(g GeoPoint) ProjectedPoint {
	x := EarthRadiusMeters * g.Lon * math.Pi / 180
	y := EarthRadiusMeters * math.Log(math.Tan(math.Pi/4+g.Lat*math.Pi/360))
	return ProjectedPoint{X: x, Y: y}
}

// ToGeographic converts spherical Mercator coordinates back to
// geographic decimal degrees. Inverse of ToProjected up to
// floating-point error.
func ToGeographic(p ProjectedPoint) GeoPoint {
	lon := p.X / EarthRadiusMeters * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(p.Y/EarthRadiusMeters)) - math.Pi/2) * 180 / math.Pi
	return GeoPoint{Lon: lon, Lat: lat}
}

// ProjectedDistanceCentimeters reports the geodesic distance between
// two projected points. The points are taken back to geographic
// coordinates first so the readout is a ground distance, not a
// distorted planar one.
func ProjectedDistanceCentimeters(a, b ProjectedPoint) float64 {
	return DistanceCentimeters(ToGeographic(a), ToGeographic(b))
}
