package domain_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/couchcryptid/disaster-events-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

type stubGeocoder struct {
	result domain.GeocodingResult
	err    error
}

func (s *stubGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	return s.result, s.err
}

func TestEnrichWithGeocoding_NilGeocoder(t *testing.T) {
	event := domain.Event{Latitude: 30.1, Longitude: 79.2}
	enriched := domain.EnrichWithGeocoding(context.Background(), event, nil, slog.Default())
	assert.Empty(t, enriched.GeoSource)
	assert.Empty(t, enriched.PlaceName)
}

func TestEnrichWithGeocoding_Success(t *testing.T) {
	geocoder := &stubGeocoder{result: domain.GeocodingResult{
		FormattedAddress: "Chamoli, Uttarakhand, India",
		PlaceName:        "Chamoli",
		Confidence:       0.9,
	}}

	event := domain.Event{Latitude: 30.1, Longitude: 79.2}
	enriched := domain.EnrichWithGeocoding(context.Background(), event, geocoder, slog.Default())
	assert.Equal(t, "reverse", enriched.GeoSource)
	assert.Equal(t, "Chamoli", enriched.PlaceName)
	assert.Equal(t, "Chamoli, Uttarakhand, India", enriched.FormattedAddress)
}

func TestEnrichWithGeocoding_FailureIsNonFatal(t *testing.T) {
	geocoder := &stubGeocoder{err: errors.New("api down")}

	event := domain.Event{Latitude: 30.1, Longitude: 79.2}
	enriched := domain.EnrichWithGeocoding(context.Background(), event, geocoder, slog.Default())
	assert.Equal(t, "failed", enriched.GeoSource)
	assert.Empty(t, enriched.PlaceName)
	// Everything else is untouched.
	assert.Equal(t, 30.1, enriched.Latitude)
}

func TestEnrichWithGeocoding_EmptyResult(t *testing.T) {
	geocoder := &stubGeocoder{}
	event := domain.Event{Latitude: 30.1, Longitude: 79.2}
	enriched := domain.EnrichWithGeocoding(context.Background(), event, geocoder, slog.Default())
	assert.Equal(t, "original", enriched.GeoSource)
}

func TestEnrichWithGeocoding_NullIsland(t *testing.T) {
	geocoder := &stubGeocoder{result: domain.GeocodingResult{FormattedAddress: "Atlantic Ocean"}}
	enriched := domain.EnrichWithGeocoding(context.Background(), domain.Event{}, geocoder, slog.Default())
	assert.Equal(t, "original", enriched.GeoSource)
	assert.Empty(t, enriched.FormattedAddress)
}
