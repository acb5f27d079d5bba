package domain

import "fmt"

// Coordinate bounds for a valid WGS-84 position.
const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// Submitted severity bounds.
const (
	MinSeverity = 1
	MaxSeverity = 5
)

// ValidateSubmission checks a raw report against the intake constraints.
// Violations are reported as ErrInvalidArgument; no defaulting or clamping
// is applied.
func ValidateSubmission(s Submission) error {
	if s.EventType == "" {
		return fmt.Errorf("event_type is required: %w", ErrInvalidArgument)
	}
	if !ValidEventType(s.EventType) {
		return fmt.Errorf("event_type %q is not recognized: %w", s.EventType, ErrInvalidArgument)
	}
	if s.Latitude < minLatitude || s.Latitude > maxLatitude {
		return fmt.Errorf("latitude %v out of range: %w", s.Latitude, ErrInvalidArgument)
	}
	if s.Longitude < minLongitude || s.Longitude > maxLongitude {
		return fmt.Errorf("longitude %v out of range: %w", s.Longitude, ErrInvalidArgument)
	}
	if s.Severity < MinSeverity || s.Severity > MaxSeverity {
		return fmt.Errorf("severity %d out of range: %w", s.Severity, ErrInvalidArgument)
	}
	return nil
}
