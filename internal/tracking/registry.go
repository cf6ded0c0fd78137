// Package tracking reconciles live rover positions against map
// markers keyed by device MAC.
package tracking

import "rtk-console-service/internal/domain"

// Feature is one renderable marker owned by the map layer. Updating
// its position in place preserves the feature identity, so listeners
// attached to it survive and the marker moves without flicker.
type Feature interface {
	SetPosition(p domain.ProjectedPoint)
	Position() domain.ProjectedPoint
}

// Layer is the map-rendering capability the registry attaches new
// markers to.
type Layer interface {
	AddMarker(mac string, p domain.ProjectedPoint) Feature
}

// Marker is one live rover position on the map.
type Marker struct {
	MAC      string
	Feature  Feature
	Position domain.GeoPoint
}

// Registry holds at most one marker per MAC and reconciles each
// incoming position against it: update in place when present, create
// otherwise. Markers are never removed implicitly; a rover that stops
// reporting simply freezes at its last known position.
//
// The registry is written by exactly one event-stream consumer and has
// no internal locking. It is not safe for multi-writer use; add
// external synchronization before introducing a second mutation path.
type Registry struct {
	layer   Layer
	markers map[string]*Marker
}

func NewRegistry(layer Layer) *Registry {
	return &Registry{
		layer:   layer,
		markers: make(map[string]*Marker),
	}
}

// Upsert moves the marker for mac to g, creating it on first sight.
// The underlying feature is never re-created.
func (r *Registry) Upsert(mac string, g domain.GeoPoint) *Marker {
	projected := domain.ToProjected(g)

	if m, ok := r.markers[mac]; ok {
		m.Feature.SetPosition(projected)
		m.Position = g
		return m
	}

	m := &Marker{
		MAC:      mac,
		Feature:  r.layer.AddMarker(mac, projected),
		Position: g,
	}
	r.markers[mac] = m
	return m
}

// Get returns the marker for mac, or nil when the rover has never
// reported a position.
func (r *Registry) Get(mac string) *Marker {
	return r.markers[mac]
}

// Len reports how many rovers currently have a marker.
func (r *Registry) Len() int { return len(r.markers) }
