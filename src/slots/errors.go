package slots

import "fmt"

// ShapeError reports a calendar document or center that is missing data the
// aggregation depends on.
type ShapeError struct {
	Path   string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("malformed calendar data at %s: %s", e.Path, e.Reason)
}

func missing(path string) *ShapeError {
	return &ShapeError{Path: path, Reason: "required field is missing"}
}
