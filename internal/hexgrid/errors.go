package hexgrid

import "fmt"

// InvalidCoordinateError indicates a latitude/longitude pair outside the
// WGS84 domain (or a non-finite value).
type InvalidCoordinateError struct {
	Lat float64
	Lon float64
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate: lat=%v lon=%v", e.Lat, e.Lon)
}

// InvalidResolutionError indicates a resolution outside the supported 0-15 range.
type InvalidResolutionError struct {
	Resolution int
}

func (e *InvalidResolutionError) Error() string {
	return fmt.Sprintf("invalid resolution %d: must be between %d and %d",
		e.Resolution, MinResolution, MaxResolution)
}

// UnknownCellError indicates an identifier that does not name a valid cell.
type UnknownCellError struct {
	ID string
}

func (e *UnknownCellError) Error() string {
	return fmt.Sprintf("unknown cell identifier %q", e.ID)
}
