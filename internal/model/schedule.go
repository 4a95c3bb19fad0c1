package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	FieldStartTime = "startTime"
	FieldEndTime   = "endTime"
	FieldSlots     = "slots"
	FieldError     = "error"
)

// Schedule запрошенное окно поиска слотов.
// Хранит все поля входного объекта как есть и в исходном порядке,
// чтобы вернуть их без изменений.
type Schedule struct {
	keys   []string
	fields map[string]json.RawMessage
}

// NewSchedule создаёт расписание из двух временных меток
func NewSchedule(startTime, endTime string) Schedule {
	start, _ := json.Marshal(startTime)
	end, _ := json.Marshal(endTime)

	return Schedule{
		keys: []string{FieldStartTime, FieldEndTime},
		fields: map[string]json.RawMessage{
			FieldStartTime: start,
			FieldEndTime:   end,
		},
	}
}

// StartTime возвращает значение startTime (пустая строка если поля нет)
func (s Schedule) StartTime() string {
	return s.stringField(FieldStartTime)
}

// EndTime возвращает значение endTime (пустая строка если поля нет)
func (s Schedule) EndTime() string {
	return s.stringField(FieldEndTime)
}

// Field возвращает сырое значение произвольного поля
func (s Schedule) Field(name string) (json.RawMessage, bool) {
	value, ok := s.fields[name]
	return value, ok
}

// Keys возвращает имена полей в порядке входного объекта
func (s Schedule) Keys() []string {
	return append([]string(nil), s.keys...)
}

// stringField декодирует строковое поле; не-строковое значение возвращается как JSON-текст,
// чтобы разбор времени упал с понятным значением
func (s Schedule) stringField(name string) string {
	raw, ok := s.fields[name]
	if !ok {
		return ""
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return string(raw)
	}
	return value
}

// UnmarshalJSON читает объект по токенам, чтобы запомнить порядок ключей.
// Повторный ключ заменяет значение и остаётся на первой позиции.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("schedule must be a JSON object, got null")
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode schedule: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode schedule: expected object, got %v", tok)
	}

	keys := make([]string, 0)
	fields := make(map[string]json.RawMessage)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode schedule: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode schedule: expected key, got %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode schedule field %q: %w", key, err)
		}

		if _, seen := fields[key]; !seen {
			keys = append(keys, key)
		}
		fields[key] = value
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode schedule: %w", err)
	}

	s.keys = keys
	s.fields = fields
	return nil
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	return writeObject(s.keys, s.fields, nil)
}

// ScheduleResult расписание с посчитанными слотами.
// Err заполняется, если окно не удалось разобрать.
type ScheduleResult struct {
	Schedule Schedule
	Slots    []Slot
	Err      error
}

// MarshalJSON пишет поля расписания в исходном порядке.
// slots и error заменяют входные поля с теми же именами на их месте,
// иначе добавляются в конец.
func (r ScheduleResult) MarshalJSON() ([]byte, error) {
	slots := r.Slots
	if slots == nil {
		slots = []Slot{}
	}

	rawSlots, err := json.Marshal(slots)
	if err != nil {
		return nil, fmt.Errorf("encode slots: %w", err)
	}

	computed := map[string]json.RawMessage{FieldSlots: rawSlots}
	extra := []string{FieldSlots}

	if r.Err != nil {
		rawErr, err := json.Marshal(r.Err.Error())
		if err != nil {
			return nil, fmt.Errorf("encode error: %w", err)
		}
		computed[FieldError] = rawErr
		extra = append(extra, FieldError)
	}

	keys := r.Schedule.keys
	for _, key := range extra {
		if _, ok := r.Schedule.fields[key]; !ok {
			keys = append(keys[:len(keys):len(keys)], key)
		}
	}

	return writeObject(keys, r.Schedule.fields, computed)
}

// writeObject собирает JSON-объект по списку ключей; значения из override важнее fields
func writeObject(keys []string, fields, override map[string]json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, key := range keys {
		value, ok := override[key]
		if !ok {
			value = fields[key]
		}

		name, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("encode key %q: %w", key, err)
		}

		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
