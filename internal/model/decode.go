package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotArray = errors.New("expected a JSON array")

// DecodeSchedules разбирает JSON-массив расписаний
func DecodeSchedules(data []byte) ([]Schedule, error) {
	if err := requireArray(data); err != nil {
		return nil, fmt.Errorf("decode schedules: %w", err)
	}

	var schedules []Schedule
	if err := json.Unmarshal(data, &schedules); err != nil {
		return nil, fmt.Errorf("decode schedules: %w", err)
	}

	return schedules, nil
}

// DecodeEvents разбирает JSON-массив событий. Пустой массив допустим.
func DecodeEvents(data []byte) ([]Event, error) {
	if err := requireArray(data); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	return events, nil
}

func requireArray(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return ErrNotArray
	}
	return nil
}
