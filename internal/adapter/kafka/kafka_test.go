package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/disaster-events-service/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeAlert(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)

	msg, err := serializeAlert("ev-1", 4.7, now)
	require.NoError(t, err)

	assert.Equal(t, []byte("ev-1"), msg.Key)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "predicted_severity", msg.Headers[0].Key)
	assert.Equal(t, []byte("4.7"), msg.Headers[0].Value)
	assert.Equal(t, "dispatched_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-04-26T15:10:00Z"), msg.Headers[1].Value)

	var roundtrip domain.SeverityAlert
	require.NoError(t, json.Unmarshal(msg.Value, &roundtrip))

	expected := domain.SeverityAlert{
		EventID:      "ev-1",
		Severity:     4.7,
		DispatchedAt: "2024-04-26T15:10:00Z",
	}
	if diff := cmp.Diff(expected, roundtrip); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestSerializeAlert_IntegerSeverity(t *testing.T) {
	msg, err := serializeAlert("ev-2", 5, time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []byte("5"), msg.Headers[0].Value)
}
