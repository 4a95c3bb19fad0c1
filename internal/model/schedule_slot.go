package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// SlotTimeLayout формат времени слотов в ответе (YYYY-MM-DD HH:MM:SS)
const SlotTimeLayout = "2006-01-02 15:04:05"

type SlotStatus string

const (
	SlotStatusFree SlotStatus = "free"
	SlotStatusBusy SlotStatus = "busy"
)

// Slot отрезок фиксированной длины внутри окна расписания
type Slot struct {
	StartTime time.Time
	EndTime   time.Time
	Available bool
}

// Status возвращает статус слота для отображения
func (s Slot) Status() SlotStatus {
	if s.Available {
		return SlotStatusFree
	}
	return SlotStatusBusy
}

// slotJSON формат слота на проводе: available сериализуется как 0/1
type slotJSON struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available int    `json:"available"`
}

func (s Slot) MarshalJSON() ([]byte, error) {
	available := 0
	if s.Available {
		available = 1
	}

	return json.Marshal(slotJSON{
		StartTime: s.StartTime.Format(SlotTimeLayout),
		EndTime:   s.EndTime.Format(SlotTimeLayout),
		Available: available,
	})
}

func (s *Slot) UnmarshalJSON(data []byte) error {
	var raw slotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode slot: %w", err)
	}

	start, err := time.ParseInLocation(SlotTimeLayout, raw.StartTime, time.UTC)
	if err != nil {
		return fmt.Errorf("decode slot start: %w", err)
	}

	end, err := time.ParseInLocation(SlotTimeLayout, raw.EndTime, time.UTC)
	if err != nil {
		return fmt.Errorf("decode slot end: %w", err)
	}

	s.StartTime = start
	s.EndTime = end
	s.Available = raw.Available != 0

	return nil
}
