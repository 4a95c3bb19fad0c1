package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Freeeeeet/slot_finder/internal/model"
)

// FileEventRepository читает события из JSON-файла
type FileEventRepository struct {
	path string
}

func NewFileEventRepository(path string) *FileEventRepository {
	return &FileEventRepository{path: path}
}

func (r *FileEventRepository) Name() string {
	return "file:" + r.path
}

// LoadEvents читает файл целиком при каждом вызове
func (r *FileEventRepository) LoadEvents(ctx context.Context) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := readSource(r.path, ErrMissingEventsSource)
	if err != nil {
		return nil, err
	}

	events, err := model.DecodeEvents(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMissingEventsSource, r.path, err)
	}

	return events, nil
}

// readSource читает файл, отсутствие файла превращается в missing-ошибку
func readSource(path string, missing error) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", missing)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", missing, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}
