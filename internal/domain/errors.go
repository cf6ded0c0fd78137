package domain

import "fmt"

// MalformedTrailError reports a persisted trail payload that cannot be
// parsed into coordinate pairs. It is isolated to the one trail being
// loaded; other trails and the live marker system are unaffected.
type MalformedTrailError struct {
	TrailName string
	Cause     error
}

func (e *MalformedTrailError) Error() string {
	if e.TrailName != "" {
		return fmt.Sprintf("malformed trail %q: %v", e.TrailName, e.Cause)
	}
	return fmt.Sprintf("malformed trail: %v", e.Cause)
}

func (e *MalformedTrailError) Unwrap() error { return e.Cause }

// InvalidInputError reports an operator-supplied value rejected before
// any network or storage call is issued.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
