package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmrodev/telegram-bot/internal/config"
	"github.com/jmrodev/telegram-bot/internal/gcal"
	"github.com/jmrodev/telegram-bot/internal/model"
	"github.com/jmrodev/telegram-bot/internal/schedule"
	"go.uber.org/zap"
)

// searchHorizonDays — окно поиска будущих приёмов пациента.
const searchHorizonDays = 60

// OrphanAlert описывает осиротевший перенос: старое событие удалено,
// новое создать не удалось.
type OrphanAlert struct {
	IncidentID string
	ChatID     int64
	Doctor     config.Doctor
	OldEventID string
	NewStart   time.Time
	Reason     string
}

// Escalator — канал эскалации к оператору.
type Escalator interface {
	RescheduleOrphaned(ctx context.Context, alert OrphanAlert)
}

// AppointmentService — поиск приёмов пациента и транзакции
// записи/отмены/переноса поверх внешнего календаря.
type AppointmentService struct {
	cal          gcal.Calendar
	availability *AvailabilityService
	cfg          *config.Config
	escalator    Escalator
	logger       *zap.Logger

	// Now подменяется в тестах.
	Now func() time.Time
}

func NewAppointmentService(
	cal gcal.Calendar,
	availability *AvailabilityService,
	cfg *config.Config,
	escalator Escalator,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		cal:          cal,
		availability: availability,
		cfg:          cfg,
		escalator:    escalator,
		logger:       logger,
		Now:          time.Now,
	}
}

// ExistingAppointment возвращает самый ранний будущий приём пациента у
// врача, либо nil. Это point-in-time проверка инварианта "один активный
// приём на врача", а не блокировка: между проверкой и созданием события
// возможна гонка, от которой дополнительно защищает только ре-валидация
// доступности перед записью.
func (s *AppointmentService) ExistingAppointment(ctx context.Context, doctor config.Doctor, chatID int64) (*model.Appointment, error) {
	now := s.Now()
	events, err := s.cal.SearchEvents(ctx, doctor.CalendarID, now, now.AddDate(0, 0, searchHorizonDays), model.PatientTag(chatID))
	if err != nil {
		return nil, fmt.Errorf("search appointments for doctor %s: %w", doctor.Name, err)
	}

	for _, ev := range events {
		// Поиск календаря advisory: перепроверяем метку локально
		if !model.HasPatientTag(ev.Description, chatID) {
			continue
		}
		if !ev.Start.After(now) {
			continue
		}
		return &model.Appointment{
			EventID:  ev.ID,
			Doctor:   doctor,
			Start:    ev.Start,
			Summary:  ev.Summary,
			HTMLLink: ev.HTMLLink,
		}, nil
	}
	return nil, nil
}

// PatientAppointments возвращает все будущие приёмы пациента по всем
// врачам в хронологическом порядке.
func (s *AppointmentService) PatientAppointments(ctx context.Context, chatID int64) ([]model.Appointment, error) {
	var appointments []model.Appointment
	for _, doctor := range s.cfg.Doctors {
		appt, err := s.ExistingAppointment(ctx, doctor, chatID)
		if err != nil {
			return nil, err
		}
		if appt != nil {
			appointments = append(appointments, *appt)
		}
	}

	sort.Slice(appointments, func(i, j int) bool {
		return appointments[i].Start.Before(appointments[j].Start)
	})
	return appointments, nil
}

// BookingRequest — подтверждённый пациентом выбор для записи.
type BookingRequest struct {
	ChatID      int64
	PatientName string
	Username    string
	Doctor      config.Doctor
	Date        time.Time
	TimeLabel   string // "HH:MM"
}

// Book выполняет транзакцию записи. Инвариант "один приём на врача"
// перепроверяется здесь же: между выбором врача и подтверждением часа
// проходит время, за которое приём мог появиться. Затем доступность
// пересчитывается заново и выбранный слот обязан присутствовать в свежем
// результате — единственная защита от двойной записи двумя пациентами,
// у внешнего календаря нет атомарного "reserve".
//
// При ErrSlotTaken возвращается свежий список слотов для показа пациенту.
// Неудавшаяся запись не повторяется: слепой retry может создать дубль.
func (s *AppointmentService) Book(ctx context.Context, req BookingRequest) (*model.Appointment, []schedule.Slot, error) {
	existing, err := s.ExistingAppointment(ctx, req.Doctor, req.ChatID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	if existing != nil {
		s.logger.Warn("Booking rejected, patient already has an appointment",
			zap.Int64("chat_id", req.ChatID),
			zap.String("doctor", req.Doctor.Name),
			zap.String("event_id", existing.EventID))
		return nil, nil, fmt.Errorf("%w: %s", ErrAlreadyBooked, existing.EventID)
	}

	fresh := s.availability.AvailableSlots(ctx, req.Doctor, req.Date)

	var chosen *schedule.Slot
	for i := range fresh {
		if fresh[i].Label() == req.TimeLabel {
			chosen = &fresh[i]
			break
		}
	}
	if chosen == nil {
		s.logger.Warn("Slot vanished between selection and confirmation",
			zap.Int64("chat_id", req.ChatID),
			zap.String("doctor", req.Doctor.Name),
			zap.String("time", req.TimeLabel))
		return nil, fresh, fmt.Errorf("%w: %s %s", ErrSlotTaken, req.Date.Format("2006-01-02"), req.TimeLabel)
	}

	created, err := s.cal.CreateEvent(ctx, req.Doctor.CalendarID, gcal.EventInput{
		Summary:     model.EventSummary(req.PatientName, req.Doctor.Name),
		Description: model.EventDescription(req.ChatID, req.Username),
		Start:       chosen.Start,
		End:         chosen.End,
	})
	if err != nil {
		s.logger.Error("Failed to create appointment event",
			zap.Int64("chat_id", req.ChatID),
			zap.String("doctor", req.Doctor.Name),
			zap.Error(err))
		return nil, nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}

	s.logger.Info("Appointment booked",
		zap.Int64("chat_id", req.ChatID),
		zap.String("doctor", req.Doctor.Name),
		zap.String("event_id", created.ID),
		zap.Time("start", chosen.Start))

	return &model.Appointment{
		EventID:  created.ID,
		Doctor:   req.Doctor,
		Start:    chosen.Start,
		Summary:  created.Summary,
		HTMLLink: created.HTMLLink,
	}, fresh, nil
}

// Cancel удаляет приём. "Уже нет такого события" — успех (идемпотентность
// обеспечивает шлюз календаря).
func (s *AppointmentService) Cancel(ctx context.Context, doctor config.Doctor, eventID string) error {
	if err := s.cal.DeleteEvent(ctx, doctor.CalendarID, eventID); err != nil {
		s.logger.Error("Failed to cancel appointment",
			zap.String("doctor", doctor.Name),
			zap.String("event_id", eventID),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrCancelFailed, err)
	}

	s.logger.Info("Appointment cancelled",
		zap.String("doctor", doctor.Name),
		zap.String("event_id", eventID))
	return nil
}

// RescheduleRequest — подтверждённый пациентом перенос приёма.
type RescheduleRequest struct {
	ChatID      int64
	PatientName string
	Username    string
	Doctor      config.Doctor
	OldEventID  string
	NewDate     time.Time
	NewTime     string // "HH:MM"
}

// Reschedule выполняет строго последовательный delete-then-create: внешний
// календарь не умеет атомарно переносить событие.
//
//  1. Удаляем старое событие. Сбой -> ErrRescheduleAborted, исходный приём
//     считается нетронутым, больше ничего не делаем.
//  2. Создаём новое событие. Сбой после успешного удаления ->
//     ErrReschedulePartial: у пациента не осталось приёма. Осиротевшее
//     состояние логируется и эскалируется секретарю с incident ID для
//     ручной сверки; автоповторов нет.
func (s *AppointmentService) Reschedule(ctx context.Context, req RescheduleRequest) (*model.Appointment, error) {
	newStart, err := s.slotStart(req.NewDate, req.NewTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	newEnd := newStart.Add(s.cfg.SlotDuration)

	if err := s.cal.DeleteEvent(ctx, req.Doctor.CalendarID, req.OldEventID); err != nil {
		s.logger.Error("Reschedule: failed to delete original event, aborting",
			zap.Int64("chat_id", req.ChatID),
			zap.String("doctor", req.Doctor.Name),
			zap.String("event_id", req.OldEventID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrRescheduleAborted, err)
	}

	created, err := s.cal.CreateEvent(ctx, req.Doctor.CalendarID, gcal.EventInput{
		Summary:     model.EventSummary(req.PatientName, req.Doctor.Name),
		Description: model.EventDescription(req.ChatID, req.Username),
		Start:       newStart,
		End:         newEnd,
	})
	if err != nil {
		alert := OrphanAlert{
			IncidentID: uuid.NewString(),
			ChatID:     req.ChatID,
			Doctor:     req.Doctor,
			OldEventID: req.OldEventID,
			NewStart:   newStart,
			Reason:     err.Error(),
		}
		s.logger.Error("Reschedule orphaned: old event deleted, new event failed",
			zap.String("incident_id", alert.IncidentID),
			zap.Int64("chat_id", req.ChatID),
			zap.String("doctor", req.Doctor.Name),
			zap.String("old_event_id", req.OldEventID),
			zap.Time("new_start", newStart),
			zap.Error(err))
		if s.escalator != nil {
			s.escalator.RescheduleOrphaned(ctx, alert)
		}
		return nil, fmt.Errorf("%w: %v", ErrReschedulePartial, err)
	}

	s.logger.Info("Appointment rescheduled",
		zap.Int64("chat_id", req.ChatID),
		zap.String("doctor", req.Doctor.Name),
		zap.String("old_event_id", req.OldEventID),
		zap.String("new_event_id", created.ID),
		zap.Time("new_start", newStart))

	return &model.Appointment{
		EventID:  created.ID,
		Doctor:   req.Doctor,
		Start:    newStart,
		Summary:  created.Summary,
		HTMLLink: created.HTMLLink,
	}, nil
}

func (s *AppointmentService) slotStart(date time.Time, label string) (time.Time, error) {
	hour, minute, err := schedule.ParseClock(label)
	if err != nil {
		return time.Time{}, err
	}
	day := date.In(s.cfg.Timezone)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, s.cfg.Timezone), nil
}
