package state

import (
	"sync"
	"time"
)

// Manager управляет состояниями диалогов.
// Состояние старше ttl считается сброшенным.
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
	ttl    time.Duration
	now    func() time.Time
}

// NewManager создаёт менеджер; ttl <= 0 означает DefaultTTL
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Manager{
		states: make(map[int64]*UserData),
		ttl:    ttl,
		now:    time.Now,
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	userData, exists := sm.states[telegramID]
	if !exists || sm.expired(userData) {
		return StateNone
	}
	return userData.State
}

// SetState устанавливает состояние пользователя
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.states, telegramID)
		return
	}

	sm.states[telegramID] = &UserData{
		State:     state,
		UpdatedAt: sm.now(),
	}
}

// ClearState очищает состояние пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// Cleanup удаляет просроченные состояния и возвращает их количество
func (sm *Manager) Cleanup() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for telegramID, userData := range sm.states {
		if sm.expired(userData) {
			delete(sm.states, telegramID)
			removed++
		}
	}
	return removed
}

// Len количество хранимых состояний
func (sm *Manager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.states)
}

func (sm *Manager) expired(userData *UserData) bool {
	return sm.now().Sub(userData.UpdatedAt) > sm.ttl
}
