package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/slot_finder/internal/model"
	"github.com/Freeeeeet/slot_finder/internal/repository/base"
)

// EventRepository читает события и их встречи из PostgreSQL
type EventRepository struct {
	*base.Repository
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{Repository: base.NewRepository(pool)}
}

func (r *EventRepository) Name() string {
	return "postgres"
}

// LoadEvents получает все события вместе со встречами.
// Событие без встреч возвращается с пустым списком.
func (r *EventRepository) LoadEvents(ctx context.Context) ([]model.Event, error) {
	query := `
		SELECT e.id, e.title, m.start_time, m.end_time
		FROM events e
		LEFT JOIN meetings m ON m.event_id = e.id
		ORDER BY e.id, m.start_time, m.id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	defer rows.Close()

	events := make([]model.Event, 0)
	lastID := int64(-1)

	for rows.Next() {
		var (
			eventID   int64
			title     string
			startTime *time.Time
			endTime   *time.Time
		)

		if err := rows.Scan(&eventID, &title, &startTime, &endTime); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		if eventID != lastID {
			events = append(events, model.Event{
				ID:       strconv.FormatInt(eventID, 10),
				Title:    title,
				Meetings: []model.Meeting{},
			})
			lastID = eventID
		}

		// LEFT JOIN: у события может не быть встреч
		if startTime == nil || endTime == nil {
			continue
		}

		current := &events[len(events)-1]
		current.Meetings = append(current.Meetings, model.Meeting{
			StartTime: startTime.Format(time.RFC3339),
			EndTime:   endTime.Format(time.RFC3339),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// CountMeetings считает встречи в базе
func (r *EventRepository) CountMeetings(ctx context.Context) (int64, error) {
	var count int64

	err := r.QueryRow(ctx, `SELECT COUNT(*) FROM meetings`).Scan(&count)
	if err != nil {
		if base.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count meetings: %w", err)
	}

	return count, nil
}
