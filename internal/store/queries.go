package store

import (
	"fmt"
	"time"
)

// Append records one operation in the journal.
func (s *Store) Append(event *Event) error {
	query := `
		INSERT INTO operations (op, alias, detail, timestamp)
		VALUES (?, ?, ?, ?)
	`

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.Exec(query,
		event.Op,
		event.Alias,
		event.Detail,
		ts.UTC().Format(time.RFC3339),
	)

	if err != nil {
		return fmt.Errorf("failed to append %s event for %s: %w", event.Op, event.Alias, wrapSchemaErr(err))
	}

	return nil
}

// Recent returns the newest n events, most recent first.
func (s *Store) Recent(n int) ([]*Event, error) {
	query := `
		SELECT id, op, alias, detail, timestamp
		FROM operations
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent events: %w", wrapSchemaErr(err))
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var event Event
		var timestamp string

		err := rows.Scan(
			&event.ID,
			&event.Op,
			&event.Alias,
			&event.Detail,
			&timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}

		event.Timestamp, err = time.Parse(time.RFC3339, timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp for event %d: %w", event.ID, err)
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// ForAlias returns every event recorded for an alias, most recent first.
func (s *Store) ForAlias(name string) ([]*Event, error) {
	query := `
		SELECT id, op, alias, detail, timestamp
		FROM operations
		WHERE alias = ?
		ORDER BY id DESC
	`

	rows, err := s.db.Query(query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get events for %s: %w", name, wrapSchemaErr(err))
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var event Event
		var timestamp string

		err := rows.Scan(
			&event.ID,
			&event.Op,
			&event.Alias,
			&event.Detail,
			&timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}

		event.Timestamp, err = time.Parse(time.RFC3339, timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp for event %d: %w", event.ID, err)
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// EventCount returns the total number of journaled operations.
func (s *Store) EventCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM operations").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get event count: %w", wrapSchemaErr(err))
	}
	return count, nil
}
