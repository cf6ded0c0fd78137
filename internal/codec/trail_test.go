package codec

import (
	"errors"
	"math"
	"testing"

	"rtk-console-service/internal/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	points := []domain.GeoPoint{
		{Lon: -112.074, Lat: 33.4484},
		{Lon: -112.0741, Lat: 33.4485},
		{Lon: -112.0742, Lat: 33.4486},
	}

	wire, err := EncodeWire(points)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	back, err := DecodeWire("demo", wire)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(back) != len(points) {
		t.Fatalf("decoded %d points, want %d", len(back), len(points))
	}
	for i := range points {
		if math.Abs(back[i].Lon-points[i].Lon) > 1e-12 ||
			math.Abs(back[i].Lat-points[i].Lat) > 1e-12 {
			t.Errorf("point %d = %+v, want %+v", i, back[i], points[i])
		}
	}
}

func TestDecodeWireSingleQuoteLegacy(t *testing.T) {
	payload := `[['-112.074', '33.4484'], ['-112.0741', '33.4485']]`

	points, err := DecodeWire("legacy", payload)
	if err != nil {
		t.Fatalf("decode legacy payload: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("decoded %d points, want 2", len(points))
	}
	if points[0].Lon != -112.074 || points[0].Lat != 33.4484 {
		t.Fatalf("first point = %+v", points[0])
	}
}

func TestDecodeWireBareNumbers(t *testing.T) {
	points, err := DecodeWire("numeric", `[[-112.074, 33.4484]]`)
	if err != nil {
		t.Fatalf("decode numeric payload: %v", err)
	}
	if points[0].Lon != -112.074 || points[0].Lat != 33.4484 {
		t.Fatalf("point = %+v", points[0])
	}
}

func TestDecodeWireMalformed(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"not json", "not a trail"},
		{"empty array", "[]"},
		{"short pair", `[["-112.074"]]`},
		{"long pair", `[["-112.074", "33.4484", "7"]]`},
		{"bad coordinate", `[["-112.074", "north"]]`},
		{"wrong type", `[[true, false]]`},
	}

	for _, c := range cases {
		_, err := DecodeWire("broken", c.payload)
		if err == nil {
			t.Errorf("%s: expected error", c.name)
			continue
		}

		var malformed *domain.MalformedTrailError
		if !errors.As(err, &malformed) {
			t.Errorf("%s: error %T is not MalformedTrailError", c.name, err)
			continue
		}
		if malformed.TrailName != "broken" {
			t.Errorf("%s: trail name = %q", c.name, malformed.TrailName)
		}
	}
}

func TestDecodeSinglePairIsPoint(t *testing.T) {
	g, err := Decode("pin", `[["-112.074", "33.4484"]]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.Kind() != domain.KindPoint {
		t.Fatalf("kind = %v, want point", g.Kind())
	}
	if g.Len() != 1 {
		t.Fatalf("len = %d, want 1", g.Len())
	}
}

func TestDecodeMultiplePairsIsPath(t *testing.T) {
	g, err := Decode("route", `[["-112.074", "33.4484"], ["-112.0741", "33.4485"]]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.Kind() != domain.KindPath {
		t.Fatalf("kind = %v, want path", g.Kind())
	}
}

func TestEncodeGeometryPreservesOrder(t *testing.T) {
	a := domain.GeoPoint{Lon: 10, Lat: 50}
	b := domain.GeoPoint{Lon: 10.001, Lat: 50.001}
	g := domain.NewPathGeometry(domain.ToProjected(a), domain.ToProjected(b))

	points := Encode(g)
	if len(points) != 2 {
		t.Fatalf("encoded %d points, want 2", len(points))
	}
	if math.Abs(points[0].Lon-a.Lon) > 1e-9 || math.Abs(points[1].Lat-b.Lat) > 1e-9 {
		t.Fatalf("points = %+v", points)
	}
}
