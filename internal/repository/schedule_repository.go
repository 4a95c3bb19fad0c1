package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_finder/internal/model"
)

// FileScheduleRepository читает запрошенные расписания из JSON-файла
type FileScheduleRepository struct {
	path string
}

func NewFileScheduleRepository(path string) *FileScheduleRepository {
	return &FileScheduleRepository{path: path}
}

// LoadSchedules возвращает расписания в порядке файла
func (r *FileScheduleRepository) LoadSchedules(ctx context.Context) ([]model.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := readSource(r.path, ErrMissingInputSource)
	if err != nil {
		return nil, err
	}

	schedules, err := model.DecodeSchedules(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMissingInputSource, r.path, err)
	}

	return schedules, nil
}
