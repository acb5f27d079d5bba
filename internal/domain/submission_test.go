package domain_test

import (
	"errors"
	"testing"

	"github.com/couchcryptid/disaster-events-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() domain.Submission {
	return domain.Submission{
		EventType:   domain.EventFlood,
		Latitude:    30.1,
		Longitude:   79.2,
		Description: "water rising",
		Severity:    3,
		Online:      true,
	}
}

func TestValidateSubmission_Valid(t *testing.T) {
	require.NoError(t, domain.ValidateSubmission(validSubmission()))
}

func TestValidateSubmission_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Submission)
	}{
		{"empty type", func(s *domain.Submission) { s.EventType = "" }},
		{"unknown type", func(s *domain.Submission) { s.EventType = "snow" }},
		{"latitude too low", func(s *domain.Submission) { s.Latitude = -90.5 }},
		{"latitude too high", func(s *domain.Submission) { s.Latitude = 91 }},
		{"longitude too low", func(s *domain.Submission) { s.Longitude = -180.1 }},
		{"longitude too high", func(s *domain.Submission) { s.Longitude = 181 }},
		{"severity too low", func(s *domain.Submission) { s.Severity = 0 }},
		{"severity too high", func(s *domain.Submission) { s.Severity = 6 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			tt.mutate(&sub)
			err := domain.ValidateSubmission(sub)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
		})
	}
}

func TestValidateSubmission_BoundaryCoordinates(t *testing.T) {
	sub := validSubmission()
	sub.Latitude = -90
	sub.Longitude = 180
	assert.NoError(t, domain.ValidateSubmission(sub))

	sub.Latitude = 90
	sub.Longitude = -180
	assert.NoError(t, domain.ValidateSubmission(sub))
}

func TestValidEventType(t *testing.T) {
	for _, et := range []domain.EventType{
		domain.EventFlood, domain.EventEarthquake, domain.EventFire,
		domain.EventLandslide, domain.EventStorm, domain.EventOther,
	} {
		assert.True(t, domain.ValidEventType(et), string(et))
	}
	assert.False(t, domain.ValidEventType("tsunami"))
	assert.False(t, domain.ValidEventType(""))
}
