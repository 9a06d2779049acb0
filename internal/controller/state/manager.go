package state

import (
	"sync"
)

// Manager управляет состояниями пользователей
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session // chatID -> Session
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

// State получает текущее состояние пользователя
func (sm *Manager) State(chatID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if session, exists := sm.sessions[chatID]; exists {
		return session.State
	}
	return StateNone
}

// SetState устанавливает состояние пользователя, сохраняя черновик
func (sm *Manager) SetState(chatID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		// Если состояние None, удаляем запись целиком
		delete(sm.sessions, chatID)
		return
	}

	if session, exists := sm.sessions[chatID]; exists {
		session.State = state
	} else {
		sm.sessions[chatID] = &Session{State: state}
	}
}

// Update атомарно изменяет черновик пользователя. Если записи нет,
// она создаётся со StateNone.
func (sm *Manager) Update(chatID int64, fn func(d *Draft)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[chatID]
	if !exists {
		session = &Session{State: StateNone}
		sm.sessions[chatID] = session
	}
	fn(&session.Draft)
}

// Draft возвращает копию черновика пользователя
func (sm *Manager) Draft(chatID int64) Draft {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if session, exists := sm.sessions[chatID]; exists {
		return session.Draft
	}
	return Draft{}
}

// Is проверяет, что пользователь всё ещё в ожидаемом состоянии.
// Используется перед применением результата долгого вызова: диалог
// мог быть отменён, пока ходили во внешний календарь.
func (sm *Manager) Is(chatID int64, state UserState) bool {
	return sm.State(chatID) == state
}

// Clear очищает состояние и черновик пользователя
func (sm *Manager) Clear(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, chatID)
}
