package service

import (
	"context"
	"time"

	"github.com/jmrodev/telegram-bot/internal/config"
	"github.com/jmrodev/telegram-bot/internal/gcal"
	"github.com/jmrodev/telegram-bot/internal/schedule"
	"go.uber.org/zap"
)

// AvailabilityService вычисляет свободные слоты врача на день.
type AvailabilityService struct {
	cal    gcal.Calendar
	cfg    *config.Config
	logger *zap.Logger

	// Now подменяется в тестах.
	Now func() time.Time
}

func NewAvailabilityService(cal gcal.Calendar, cfg *config.Config, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		cal:    cal,
		cfg:    cfg,
		logger: logger,
		Now:    time.Now,
	}
}

// AvailableSlots возвращает свободные слоты врача на дату в хронологическом
// порядке. Контракт: пустой список (не ошибка) когда слотов нет, при любом
// сбое внешнего вызова или невалидной ссылке на врача — вызывающие ветвятся
// по пустоте, а не по типу ошибки.
//
// Алгоритм: занятые интервалы из календаря, полная сетка слотов приёмных
// часов, минус прошедшие слоты, минус слоты, пересекающие занятое время.
// Слот отбрасывается, если его пересекает ХОТЬ ОДИН занятый интервал.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, doctor config.Doctor, date time.Time) []schedule.Slot {
	if doctor.CalendarID == "" {
		s.logger.Error("AvailableSlots called with empty calendar ID",
			zap.String("doctor", doctor.Name))
		return nil
	}

	day := date.In(s.cfg.Timezone)
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), s.cfg.OfficeStartHour, 0, 0, 0, s.cfg.Timezone)
	dayEnd := time.Date(day.Year(), day.Month(), day.Day(), s.cfg.OfficeEndHour, 0, 0, 0, s.cfg.Timezone)

	busy, err := s.cal.BusyIntervals(ctx, doctor.CalendarID, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("Failed to fetch busy intervals",
			zap.String("doctor", doctor.Name),
			zap.String("calendar_id", doctor.CalendarID),
			zap.Error(err))
		return nil
	}

	now := s.Now()
	grid := schedule.Grid(day, s.cfg.OfficeStartHour, s.cfg.OfficeEndHour, s.cfg.SlotDuration)

	available := make([]schedule.Slot, 0, len(grid))
	for _, slot := range grid {
		// Прошедшее время не бронируется, даже "сегодня"
		if !slot.End.After(now) {
			continue
		}
		if slotBusy(slot, busy) {
			continue
		}
		available = append(available, slot)
	}

	s.logger.Info("Availability computed",
		zap.String("doctor", doctor.Name),
		zap.String("date", day.Format("2006-01-02")),
		zap.Int("busy_intervals", len(busy)),
		zap.Int("available", len(available)))

	return available
}

func slotBusy(slot schedule.Slot, busy []gcal.BusyInterval) bool {
	for _, b := range busy {
		if schedule.Overlaps(slot.Start, slot.End, b.Start, b.End) {
			return true
		}
	}
	return false
}

// SlotLabels форматирует слоты для кнопок ("HH:MM").
func SlotLabels(slots []schedule.Slot) []string {
	labels := make([]string, len(slots))
	for i, s := range slots {
		labels[i] = s.Label()
	}
	return labels
}
