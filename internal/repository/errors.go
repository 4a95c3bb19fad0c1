package repository

import "errors"

var (
	// ErrMissingEventsSource источник событий отсутствует (пустой список событий не ошибка)
	ErrMissingEventsSource = errors.New("events source is missing")
	// ErrMissingInputSource источник расписаний отсутствует
	ErrMissingInputSource = errors.New("input source is missing")
)
