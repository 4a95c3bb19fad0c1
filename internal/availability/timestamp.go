package availability

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// ErrMalformedTimestamp метка времени не разбирается
var ErrMalformedTimestamp = errors.New("malformed timestamp")

var errEmptyTimestamp = errors.New("empty value")

// MalformedTimestampError описывает поле, которое не удалось разобрать
type MalformedTimestampError struct {
	Field string
	Value string
	Err   error
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("%s: %s=%q: %v", ErrMalformedTimestamp, e.Field, e.Value, e.Err)
}

func (e *MalformedTimestampError) Is(target error) bool {
	return target == ErrMalformedTimestamp
}

func (e *MalformedTimestampError) Unwrap() error {
	return e.Err
}

// ParseTimestamp разбирает метку времени. Значения без зоны считаются UTC.
func ParseTimestamp(field, value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, &MalformedTimestampError{
			Field: field,
			Value: value,
			Err:   errEmptyTimestamp,
		}
	}

	parsed, err := cast.ToTimeInDefaultLocationE(trimmed, time.UTC)
	if err != nil {
		return time.Time{}, &MalformedTimestampError{
			Field: field,
			Value: value,
			Err:   err,
		}
	}

	return parsed, nil
}
