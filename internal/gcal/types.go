// Package gcal — шлюз к внешнему календарю (Google Calendar).
// Календарь является единственным источником правды о занятости врачей;
// никаких резервирований или блокировок он не предоставляет.
package gcal

import (
	"context"
	"time"
)

// BusyInterval — занятый промежуток, возвращённый календарём.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Event — событие календаря в том объёме, который нужен боту.
type Event struct {
	ID          string
	Summary     string
	Description string
	HTMLLink    string
	Start       time.Time
}

// EventInput — данные для создания события.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// Calendar — интерфейс внешнего календаря, который потребляют сервисы.
// В тестах заменяется фейком.
type Calendar interface {
	// BusyIntervals возвращает занятые промежутки календаря в окне [from, to).
	BusyIntervals(ctx context.Context, calendarID string, from, to time.Time) ([]BusyInterval, error)

	// CreateEvent создаёт событие с напоминаниями и возвращает его ID и ссылку.
	CreateEvent(ctx context.Context, calendarID string, input EventInput) (*Event, error)

	// DeleteEvent удаляет событие. Ответ "не найдено" считается успехом.
	DeleteEvent(ctx context.Context, calendarID, eventID string) error

	// SearchEvents ищет события по текстовому фильтру в окне [from, to).
	// Результаты advisory: вызывающий обязан перепроверить совпадение.
	SearchEvents(ctx context.Context, calendarID string, from, to time.Time, query string) ([]Event, error)
}
