// Package maplayer provides an in-process vector layer: the minimal
// rendering capability the marker registry needs, without a real map
// widget behind it. The console prints from it; tests inspect it.
package maplayer

import (
	"rtk-console-service/internal/domain"
	"rtk-console-service/internal/tracking"
)

type feature struct {
	mac string
	pos domain.ProjectedPoint
}

func (f *feature) SetPosition(p domain.ProjectedPoint) { f.pos = p }

func (f *feature) Position() domain.ProjectedPoint { return f.pos }

// VectorLayer collects marker features in insertion order.
type VectorLayer struct {
	features []*feature
}

func NewVectorLayer() *VectorLayer {
	return &VectorLayer{}
}

func (l *VectorLayer) AddMarker(mac string, p domain.ProjectedPoint) tracking.Feature {
	f := &feature{mac: mac, pos: p}
	l.features = append(l.features, f)
	return f
}

// FeatureCount reports how many marker features the layer holds.
func (l *VectorLayer) FeatureCount() int { return len(l.features) }
