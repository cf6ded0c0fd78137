package services

import "rtk-console-service/internal/domain"

// SegmentDistancesCentimeters returns the geodesic length of each
// consecutive segment, in the centimeter unit shown on segment labels.
// A single point has no segments.
func SegmentDistancesCentimeters(points []domain.GeoPoint) []float64 {
	if len(points) < 2 {
		return nil
	}

	segments := make([]float64, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		segments = append(segments, domain.DistanceCentimeters(points[i], points[i+1]))
	}
	return segments
}

// TotalDistanceCentimeters accumulates the full trail length.
func TotalDistanceCentimeters(points []domain.GeoPoint) float64 {
	total := 0.0
	for _, s := range SegmentDistancesCentimeters(points) {
		total += s
	}
	return total
}
