package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding attempts to attach place details to an event via
// reverse geocoding. If geocoder is nil or the lookup fails, the event is
// returned with GeoSource set accordingly (graceful degradation); a
// geocoding failure never fails the intake.
func EnrichWithGeocoding(ctx context.Context, event Event, geocoder Geocoder, logger *slog.Logger) Event {
	if geocoder == nil {
		return event
	}
	if event.Latitude == 0 && event.Longitude == 0 {
		// (0, 0) is the null island sentinel for missing coordinates.
		event.GeoSource = "original"
		return event
	}

	result, err := geocoder.ReverseGeocode(ctx, event.Latitude, event.Longitude)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"event_type", event.EventType,
			"lat", event.Latitude,
			"lon", event.Longitude,
			"error", err,
		)
		event.GeoSource = "failed"
		return event
	}
	if result.FormattedAddress == "" {
		event.GeoSource = "original"
		return event
	}

	event.FormattedAddress = result.FormattedAddress
	event.PlaceName = result.PlaceName
	event.GeoSource = "reverse"
	return event
}
