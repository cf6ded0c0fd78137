package services

import (
	"context"
	"errors"
	"testing"

	"rtk-console-service/internal/codec"
	"rtk-console-service/internal/domain"
)

func TestSaveTrailPersistsWireEncoding(t *testing.T) {
	repo := newMemTrailRepo()

	g := domain.NewPathGeometry(
		domain.ToProjected(domain.GeoPoint{Lon: -112.074, Lat: 33.4484}),
		domain.ToProjected(domain.GeoPoint{Lon: -112.075, Lat: 33.449}),
	)

	rec, err := SaveTrail(context.Background(), repo, "  perimeter  ", g)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if rec.Name != "perimeter" {
		t.Fatalf("name = %q, want trimmed", rec.Name)
	}

	points, err := codec.DecodeWire(rec.Name, rec.TrailPoints)
	if err != nil {
		t.Fatalf("persisted payload does not decode: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("decoded %d points, want 2", len(points))
	}
}

func TestSaveTrailRejectsInvalidInput(t *testing.T) {
	repo := newMemTrailRepo()
	g := domain.NewPointGeometry(domain.ProjectedPoint{})

	var invalid *domain.InvalidInputError

	_, err := SaveTrail(context.Background(), repo, "   ", g)
	if !errors.As(err, &invalid) || invalid.Field != "name" {
		t.Fatalf("empty name: err = %v", err)
	}

	_, err = SaveTrail(context.Background(), repo, "empty", domain.NewEmptyGeometry(domain.KindPath))
	if !errors.As(err, &invalid) || invalid.Field != "trail_points" {
		t.Fatalf("empty geometry: err = %v", err)
	}

	_, err = SaveTrail(context.Background(), repo, "nil", nil)
	if !errors.As(err, &invalid) {
		t.Fatalf("nil geometry: err = %v", err)
	}

	if len(repo.trails) != 0 {
		t.Fatal("rejected input must not reach the store")
	}
}

func TestSaveTrailPointsRejectsEmptyList(t *testing.T) {
	repo := newMemTrailRepo()

	var invalid *domain.InvalidInputError
	_, err := SaveTrailPoints(context.Background(), repo, "empty", nil)
	if !errors.As(err, &invalid) || invalid.Field != "trail_points" {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadTrailsIsolatesMalformedPayloads(t *testing.T) {
	repo := newMemTrailRepo()
	ctx := context.Background()

	if _, err := repo.CreateTrail(ctx, "good", `[["-112.074", "33.4484"], ["-112.075", "33.449"]]`); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateTrail(ctx, "bad", `{{{`); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateTrail(ctx, "legacy", `[['-112.08', '33.45']]`); err != nil {
		t.Fatal(err)
	}

	loaded, failures, err := LoadTrails(ctx, repo)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("loaded %d trails, want 2", len(loaded))
	}
	if loaded[0].Trail.Name != "good" || loaded[0].Geometry.Kind() != domain.KindPath {
		t.Fatalf("first loaded = %+v", loaded[0].Trail)
	}
	if len(loaded[0].Trail.Points) != 2 {
		t.Fatalf("decoded points = %+v", loaded[0].Trail.Points)
	}
	if loaded[1].Trail.Name != "legacy" || loaded[1].Geometry.Kind() != domain.KindPoint {
		t.Fatalf("second loaded = %+v", loaded[1].Trail)
	}

	if len(failures) != 1 || failures[0].Record.Name != "bad" {
		t.Fatalf("failures = %+v", failures)
	}
	var malformed *domain.MalformedTrailError
	if !errors.As(failures[0].Err, &malformed) {
		t.Fatalf("failure error %T is not MalformedTrailError", failures[0].Err)
	}
}
