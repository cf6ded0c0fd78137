package domain

// Trail is a named, ordered sequence of geographic points defining a
// path for a rover to follow. The id is assigned by the store; name is
// unique and non-empty. Once listed, a trail changes only via full
// replace or delete.
type Trail struct {
	ID     int
	Name   string
	Points []GeoPoint
}
