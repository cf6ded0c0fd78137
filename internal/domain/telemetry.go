package domain

import "regexp"

// TelemetryRecord is the latest known state pushed by a rover. It is
// transient; no history is retained. Latitude/longitude are nil until
// the receiver has a position fix, and a record without both never
// creates or moves a marker.
type TelemetryRecord struct {
	MAC        string              `json:"mac"`
	FixStatus  string              `json:"fix_status"`
	Latitude   *float64            `json:"latitude"`
	Longitude  *float64            `json:"longitude"`
	LatRaw     string              `json:"lat_raw"`
	LonRaw     string              `json:"lon_raw"`
	Speed      *float64            `json:"speed"`
	Course     *float64            `json:"course"`
	TimeUTC    string              `json:"time_utc"`
	LastUpdate string              `json:"last_update"`
	// Satellites in use, keyed by constellation code. Slot lists may
	// contain empty-string placeholders that must be filtered before
	// counting.
	SatellitesInUse map[string][]string `json:"su"`
}

// DecimalCoordinates returns the record's position as a GeoPoint, or
// false when either coordinate is missing.
func (r *TelemetryRecord) DecimalCoordinates() (GeoPoint, bool) {
	if r.Latitude == nil || r.Longitude == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Lon: *r.Longitude, Lat: *r.Latitude}, true
}

var satSlotUsed = regexp.MustCompile(`\w`)

// UsedSatellites filters out empty placeholder slots, returning only
// the satellite identifiers actually contributing to the fix.
func UsedSatellites(slots []string) []string {
	used := make([]string, 0, len(slots))
	for _, s := range slots {
		if satSlotUsed.MatchString(s) {
			used = append(used, s)
		}
	}
	return used
}

// TotalSatellitesInUse counts used satellites across all
// constellations.
func (r *TelemetryRecord) TotalSatellitesInUse() int {
	total := 0
	for _, slots := range r.SatellitesInUse {
		total += len(UsedSatellites(slots))
	}
	return total
}

// FormatUTCTime renders a GPRMC HHMMSS.sss timestamp as HH:MM:SS UTC.
// Inputs too short to split are returned unchanged.
func FormatUTCTime(t string) string {
	if t == "" {
		return ""
	}
	if len(t) < 6 {
		return t
	}
	return t[0:2] + ":" + t[2:4] + ":" + t[4:6] + " UTC"
}
