// Package sqlite provides the relational event store backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/couchcryptid/disaster-events-service/internal/domain"
	"github.com/couchcryptid/disaster-events-service/internal/store"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
  id                       INTEGER PRIMARY KEY AUTOINCREMENT,
  event_type               TEXT    NOT NULL,
  latitude                 REAL    NOT NULL,
  longitude                REAL    NOT NULL,
  description              TEXT    NOT NULL,
  severity                 INTEGER NOT NULL,
  online                   INTEGER NOT NULL,
  predicted_severity       REAL,
  processed_description    TEXT    NOT NULL DEFAULT '',
  creation_timestamp_india TEXT    NOT NULL,
  place_name               TEXT    NOT NULL DEFAULT '',
  formatted_address        TEXT    NOT NULL DEFAULT '',
  geo_source               TEXT    NOT NULL DEFAULT ''
)`

// Store persists events in SQLite. IDs are the table's integer rowids
// rendered as strings.
type Store struct {
	sqlDB *sql.DB
	feed  *store.SeverityFeed

	// severityMu serializes predicted-severity updates so the feed sees
	// changes in commit order.
	severityMu sync.Mutex
}

// Open opens the SQLite event store and applies the schema. The feed may be
// nil when severity changes need not be observed (tests, tooling).
func Open(path string, feed *store.SeverityFeed) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, feed: feed}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping reports whether the store is reachable. Used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// CreateEvent inserts one event and returns it with the assigned rowid.
func (s *Store) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO events (
		   event_type, latitude, longitude, description, severity, online,
		   predicted_severity, processed_description, creation_timestamp_india,
		   place_name, formatted_address, geo_source
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(event.EventType),
		event.Latitude,
		event.Longitude,
		event.Description,
		event.Severity,
		event.Online,
		nullFloat(event.PredictedSeverity),
		event.ProcessedDescription,
		event.CreationTimestampIndia,
		event.PlaceName,
		event.FormattedAddress,
		event.GeoSource,
	)
	if err != nil {
		return domain.Event{}, fmt.Errorf("create event: %w: %w", domain.ErrStoreUnavailable, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Event{}, fmt.Errorf("create event id: %w: %w", domain.ErrStoreUnavailable, err)
	}
	event.ID = strconv.FormatInt(id, 10)
	return event, nil
}

// GetEvent returns one event by id.
func (s *Store) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	rowid, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		// Non-numeric ids belong to the realtime store.
		return domain.Event{}, domain.ErrNotFound
	}

	row := s.sqlDB.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, rowid)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Event{}, domain.ErrNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return event, nil
}

// FetchAll returns every event in insertion order.
func (s *Store) FetchAll(ctx context.Context) ([]domain.Event, error) {
	rows, err := s.sqlDB.QueryContext(ctx, selectColumns+` ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("fetch all events: %w: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("fetch all events: %w: %w", domain.ErrStoreUnavailable, err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch all events: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return events, nil
}

// UpdateProcessedDescription writes the normalized description.
func (s *Store) UpdateProcessedDescription(ctx context.Context, id, processed string) error {
	rowid, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return domain.ErrNotFound
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE events SET processed_description = ? WHERE id = ?`, processed, rowid)
	if err != nil {
		return fmt.Errorf("update processed description: %w: %w", domain.ErrStoreUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update processed description: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePredictedSeverity writes a new prediction and publishes the change.
// Updates are serialized on a store mutex held through commit and publish:
// the read of the previous value, the write, and the feed publish all happen
// under it, so the published previous/new pairs reflect the applied order
// even for concurrent updates to the same event.
func (s *Store) UpdatePredictedSeverity(ctx context.Context, id string, value float64) error {
	rowid, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return domain.ErrNotFound
	}

	s.severityMu.Lock()
	defer s.severityMu.Unlock()

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update predicted severity: %w: %w", domain.ErrStoreUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var previous sql.NullFloat64
	err = tx.QueryRowContext(ctx,
		`SELECT predicted_severity FROM events WHERE id = ?`, rowid).Scan(&previous)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update predicted severity: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE events SET predicted_severity = ? WHERE id = ?`, value, rowid); err != nil {
		return fmt.Errorf("update predicted severity: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update predicted severity: %w: %w", domain.ErrStoreUnavailable, err)
	}

	if s.feed != nil {
		change := store.SeverityChange{EventID: id, New: value}
		if previous.Valid {
			prev := previous.Float64
			change.Previous = &prev
		}
		s.feed.Publish(change)
	}
	return nil
}

const selectColumns = `SELECT id, event_type, latitude, longitude, description,
       severity, online, predicted_severity, processed_description,
       creation_timestamp_india, place_name, formatted_address, geo_source
  FROM events`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (domain.Event, error) {
	var event domain.Event
	var rowid int64
	var eventType string
	var predicted sql.NullFloat64
	if err := row.Scan(
		&rowid,
		&eventType,
		&event.Latitude,
		&event.Longitude,
		&event.Description,
		&event.Severity,
		&event.Online,
		&predicted,
		&event.ProcessedDescription,
		&event.CreationTimestampIndia,
		&event.PlaceName,
		&event.FormattedAddress,
		&event.GeoSource,
	); err != nil {
		return domain.Event{}, err
	}
	event.ID = strconv.FormatInt(rowid, 10)
	event.EventType = domain.EventType(eventType)
	if predicted.Valid {
		v := predicted.Float64
		event.PredictedSeverity = &v
	}
	return event, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

var _ store.EventStore = (*Store)(nil)
