package database

import (
	"context"
	"fmt"
)

var _ EventRepository = (*EventRepo)(nil)

// EventRepo handles database operations for company events
type EventRepo struct {
	db *DB
}

func NewEventRepository(db *DB) *EventRepo {
	return &EventRepo{db: db}
}

// GetByCompany returns all events for a company ordered by event date, newest
// first. Events without a date sort last.
func (r *EventRepo) GetByCompany(ctx context.Context, companyID string) ([]CompanyEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, company_id, event_type, title, COALESCE(description, ''),
		       COALESCE(event_date, ''), amount, COALESCE(source_url, ''), metadata, created_at
		FROM company_events
		WHERE company_id = ?
		ORDER BY event_date DESC
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company events: %w", err)
	}
	defer rows.Close()

	var events []CompanyEvent
	for rows.Next() {
		var event CompanyEvent
		var metadata string
		err := rows.Scan(
			&event.ID, &event.CompanyID, &event.EventType, &event.Title, &event.Description,
			&event.EventDate, &event.Amount, &event.SourceURL, &metadata, &event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		event.Metadata = unmarshalMap(metadata)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}
