package domain

// EventType classifies a disaster report.
type EventType string

// The closed set of event types accepted at intake.
const (
	EventFlood      EventType = "flood"
	EventEarthquake EventType = "earthquake"
	EventFire       EventType = "fire"
	EventLandslide  EventType = "landslide"
	EventStorm      EventType = "storm"
	EventOther      EventType = "other"
)

// ValidEventType reports whether t is one of the accepted event types.
func ValidEventType(t EventType) bool {
	switch t {
	case EventFlood, EventEarthquake, EventFire, EventLandslide, EventStorm, EventOther:
		return true
	default:
		return false
	}
}

// Submission is a raw disaster report before intake enrichment. It is what
// the form collaborator and the remote report feed hand to the enricher.
type Submission struct {
	EventType   EventType `json:"event_type"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Description string    `json:"description"`
	Severity    int       `json:"severity"`
	Online      bool      `json:"online"`
}

// Event is the stored disaster report. The ID is assigned by the backing
// store at creation and is unique only within that store.
type Event struct {
	ID          string    `json:"id"`
	EventType   EventType `json:"event_type"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Description string    `json:"description"`
	Severity    int       `json:"severity"`
	Online      bool      `json:"online"`

	// PredictedSeverity is written asynchronously by the external severity
	// model. Nil until the first prediction lands.
	PredictedSeverity *float64 `json:"predicted_severity,omitempty"`

	// ProcessedDescription is the normalized description written by the
	// description processor. Empty until first processing; the submitted
	// Description is never overwritten.
	ProcessedDescription string `json:"processed_description,omitempty"`

	// CreationTimestampIndia is attached exactly once at creation.
	CreationTimestampIndia string `json:"creationTimestampIndia"`

	// Geocoding enrichment fields.
	PlaceName        string `json:"place_name,omitempty"`
	FormattedAddress string `json:"formatted_address,omitempty"`
	GeoSource        string `json:"geo_source,omitempty"` // "reverse", "original", "failed"
}

// SeverityAlert is the durable record produced when a predicted severity
// crosses the escalation threshold.
type SeverityAlert struct {
	EventID      string  `json:"event_id"`
	Severity     float64 `json:"severity"`
	DispatchedAt string  `json:"dispatched_at"` // RFC 3339
}
