package state

import "time"

// UserState текущее состояние диалога пользователя
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Ждём окно поиска слотов следующим сообщением
	StateAwaitingWindow UserState = "awaiting_window"
)

// DefaultTTL через сколько брошенный диалог забывается
const DefaultTTL = 10 * time.Minute

// UserData состояние пользователя и момент последнего изменения
type UserData struct {
	State     UserState
	UpdatedAt time.Time
}
