package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jmrodev/telegram-bot/internal/config"
	"github.com/jmrodev/telegram-bot/internal/controller/keyboards"
	"github.com/jmrodev/telegram-bot/internal/controller/state"
	"github.com/jmrodev/telegram-bot/internal/gcal"
	"github.com/jmrodev/telegram-bot/internal/model"
	"github.com/jmrodev/telegram-bot/internal/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testChatID int64 = 111222333

var testNow = time.Date(2026, 4, 14, 12, 0, 0, 0, time.UTC) // martes

func wedAt(h, m int) time.Time {
	return time.Date(2026, 4, 15, h, m, 0, 0, time.UTC)
}

// fakeMessenger записывает отправленные сообщения
type fakeMessenger struct {
	sent []*bot.SendMessageParams
}

func (f *fakeMessenger) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.sent = append(f.sent, params)
	return &models.Message{ID: len(f.sent)}, nil
}

func (f *fakeMessenger) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent, "expected at least one sent message")
	return f.sent[len(f.sent)-1].Text
}

// fakeSink записывает эскалации секретарю
type fakeSink struct {
	relayed   []string
	forwarded []int
}

func (f *fakeSink) RelayMessage(ctx context.Context, from *models.User, text string) error {
	f.relayed = append(f.relayed, text)
	return nil
}

func (f *fakeSink) ForwardDocument(ctx context.Context, from *models.User, fromChatID int64, messageID int) error {
	f.forwarded = append(f.forwarded, messageID)
	return nil
}

// fakeCal — фейк календаря для сквозных тестов обработчиков.
// onBusy позволяет вклиниться посреди внешнего вызова.
type fakeCal struct {
	busy      []gcal.BusyInterval
	onBusy    func()
	events    map[string][]gcal.Event
	searchErr error
	created   []gcal.EventInput
	deleted   []string
}

func (f *fakeCal) BusyIntervals(ctx context.Context, calendarID string, from, to time.Time) ([]gcal.BusyInterval, error) {
	if f.onBusy != nil {
		f.onBusy()
	}
	return f.busy, nil
}

func (f *fakeCal) CreateEvent(ctx context.Context, calendarID string, input gcal.EventInput) (*gcal.Event, error) {
	f.created = append(f.created, input)
	return &gcal.Event{ID: "ev-new", Summary: input.Summary, Start: input.Start}, nil
}

func (f *fakeCal) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	f.deleted = append(f.deleted, eventID)
	return nil
}

func (f *fakeCal) SearchEvents(ctx context.Context, calendarID string, from, to time.Time, query string) ([]gcal.Event, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.events[calendarID], nil
}

type testEnv struct {
	h    *Handlers
	tg   *fakeMessenger
	sm   *state.Manager
	cal  *fakeCal
	sink *fakeSink
	cfg  *config.Config
}

func newTestEnv() *testEnv {
	return newTestEnvIn(time.UTC)
}

func newTestEnvIn(tz *time.Location) *testEnv {
	cfg := &config.Config{
		Doctors: []config.Doctor{
			{Name: "Dr. Pérez", CalendarID: "perez@group.calendar.google.com"},
			{Name: "Dra. Gómez", CalendarID: "gomez@group.calendar.google.com"},
		},
		Timezone:        tz,
		OfficeStartHour: 9,
		OfficeEndHour:   18,
		SlotDuration:    30 * time.Minute,
	}

	logger := zap.NewNop()
	cal := &fakeCal{events: map[string][]gcal.Event{}}
	tg := &fakeMessenger{}
	sink := &fakeSink{}
	sm := state.NewManager()

	availability := service.NewAvailabilityService(cal, cfg, logger)
	availability.Now = func() time.Time { return testNow }
	appointments := service.NewAppointmentService(cal, availability, cfg, nil, logger)
	appointments.Now = func() time.Time { return testNow }

	h := NewHandlers(tg, cfg, appointments, availability, sink, sm, logger)
	h.Now = func() time.Time { return testNow }

	return &testEnv{h: h, tg: tg, sm: sm, cal: cal, sink: sink, cfg: cfg}
}

func textUpdate(text string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			ID:   1,
			Text: text,
			Chat: models.Chat{ID: testChatID},
			From: &models.User{ID: testChatID, FirstName: "Juan", LastName: "García", Username: "juang"},
		},
	}
}

func (e *testEnv) say(text string) {
	e.h.HandleTextMessage(context.Background(), nil, textUpdate(text))
}

func TestBookingHappyPath(t *testing.T) {
	env := newTestEnv()

	env.say(keyboards.BtnTurnoSolicitar)
	require.Equal(t, state.StateBookingDoctor, env.sm.State(testChatID))
	require.Contains(t, env.tg.lastText(t), "doctor")

	env.say("Dr. Pérez")
	require.Equal(t, state.StateBookingDay, env.sm.State(testChatID))

	env.say("Miércoles")
	require.Equal(t, state.StateBookingTime, env.sm.State(testChatID))
	require.Contains(t, env.tg.lastText(t), "Horarios libres")

	env.say("09:30")
	require.Equal(t, state.StateNone, env.sm.State(testChatID))
	require.Contains(t, env.tg.lastText(t), "Turno confirmado")

	require.Len(t, env.cal.created, 1)
	created := env.cal.created[0]
	require.Equal(t, "Turno Juan García con Dr. Pérez", created.Summary)
	require.True(t, model.HasPatientTag(created.Description, testChatID))
	require.Equal(t, wedAt(9, 30), created.Start)
}

func TestBookingUnknownDoctorReprompts(t *testing.T) {
	env := newTestEnv()

	env.say(keyboards.BtnTurnoSolicitar)
	env.say("Dr. House")

	// Невалидный ввод не двигает диалог
	require.Equal(t, state.StateBookingDoctor, env.sm.State(testChatID))
	require.Contains(t, env.tg.lastText(t), "de la lista")
}

func TestBookingInvalidDayReprompts(t *testing.T) {
	env := newTestEnv()

	env.say(keyboards.BtnTurnoSolicitar)
	env.say("Dr. Pérez")
	env.say("mañana")

	require.Equal(t, state.StateBookingDay, env.sm.State(testChatID))
	require.Contains(t, env.tg.lastText(t), "de la lista")
}

func TestBookingAlreadyBookedWithDoctor(t *testing.T) {
	env := newTestEnv()
	env.cal.events["perez@group.calendar.google.com"] = []gcal.Event{
		{ID: "ev-1", Description: model.EventDescription(testChatID, "juang"), Start: wedAt(10, 0)},
	}

	env.say(keyboards.BtnTurnoSolicitar)
	env.say("Dr. Pérez")

	// Диалог остаётся на выборе врача, события нет
	require.Equal(t, state.StateBookingDoctor, env.sm.State(testChatID))
	last := env.tg.lastText(t)
	require.Contains(t, last, "Ya tenés un turno")
	require.Contains(t, last, "15/04/2026 10:00")
	require.Empty(t, env.cal.created)
}

func TestBookingLookupFailureRetainsState(t *testing.T) {
	env := newTestEnv()
	env.cal.searchErr = errors.New("calendar unavailable")

	env.say(keyboards.BtnTurnoSolicitar)
	env.say("Dr. Pérez")

	// Сбой чтения: извинение и повторный выбор, диалог на месте
	require.Equal(t, state.StateBookingDoctor, env.sm.State(testChatID))
	require.Contains(t, env.tg.lastText(t), "servicio")
}

func TestBookingResolvesDayInClinicTimezone(t *testing.T) {
	tz, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	env := newTestEnvIn(tz)

	env.say(keyboards.BtnTurnoSolicitar)
	env.say("Dr. Pérez")
	env.say("Miércoles")
	require.Equal(t, state.StateBookingTime, env.sm.State(testChatID))

	env.say("09:30")
	require.Len(t, env.cal.created, 1)

	// Среда по часам консультория, а не сервера
	start := env.cal.created[0].Start.In(tz)
	require.Equal(t, time.Wednesday, start.Weekday())
	require.Equal(t, 15, start.Day())
	require.Equal(t, 9, start.Hour())
	require.Equal(t, 30, start.Minute())
}

func TestBookingNoSlotsOffersAnotherDay(t *testing.T) {
	env := newTestEnv()
	env.cal.busy = []gcal.BusyInterval{{Start: wedAt(9, 0), End: wedAt(18, 0)}}

	env.say(keyboards.BtnTurnoSolicitar)
	env.say("Dr. Pérez")
	env.say("Miércoles")

	require.Equal(t, state.StateBookingDay, env.sm.State(testChatID))
	require.Contains(t, env.tg.lastText(t), "No quedan horarios")
}

func TestBookingSlotTakenOnConfirm(t *testing.T) {
	env := newTestEnv()

	env.say(keyboards.BtnTurnoSolicitar)
	env.say("Dr. Pérez")
	env.say("Miércoles")

	// Слот занимают между показом списка и подтверждением
	env.cal.busy = []gcal.BusyInterval{{Start: wedAt(9, 30), End: wedAt(10, 0)}}
	env.say("09:30")

	require.Equal(t, state.StateBookingTime, env.sm.State(testChatID))
	require.Contains(t, env.tg.lastText(t), "se acaba de ocupar")
	require.Empty(t, env.cal.created)

	// Другой час из свежего списка проходит
	env.say("10:00")
	require.Equal(t, state.StateNone, env.sm.State(testChatID))
	require.Len(t, env.cal.created, 1)
}

func TestCancelDuringConfirmDoesNotReviveSession(t *testing.T) {
	env := newTestEnv()

	env.say(keyboards.BtnTurnoSolicitar)
	env.say("Dr. Pérez")
	env.say("Miércoles")
	require.Equal(t, state.StateBookingTime, env.sm.State(testChatID))

	// Отмена приходит, пока запись ходит в календарь, и к этому моменту
	// день целиком занят
	env.cal.busy = []gcal.BusyInterval{{Start: wedAt(9, 0), End: wedAt(18, 0)}}
	env.cal.onBusy = func() { env.sm.Clear(testChatID) }

	sentBefore := len(env.tg.sent)
	env.say("09:30")

	// Отменённая сессия не воскресает на шаге выбора дня
	require.Equal(t, state.StateNone, env.sm.State(testChatID))
	require.Len(t, env.tg.sent, sentBefore)
	require.Empty(t, env.cal.created)
}

func TestBusySessionRejectsNewAction(t *testing.T) {
	env := newTestEnv()

	env.say(keyboards.BtnTurnoSolicitar)
	env.say(keyboards.BtnTurnoEliminar)

	require.Equal(t, state.StateBookingDoctor, env.sm.State(testChatID))
	require.Contains(t, env.tg.lastText(t), "acción en curso")
}

func TestCancelActionResetsDialog(t *testing.T) {
	env := newTestEnv()

	env.say(keyboards.BtnTurnoSolicitar)
	env.say(keyboards.BtnCancelarAccion)

	require.Equal(t, state.StateNone, env.sm.State(testChatID))
	require.Contains(t, env.tg.lastText(t), "Acción cancelada")
}

func TestMenuFallback(t *testing.T) {
	env := newTestEnv()

	env.say("hola buenas")
	require.Contains(t, env.tg.lastText(t), "No entendí")
	require.Equal(t, state.StateNone, env.sm.State(testChatID))
}

func TestStartCancelListsAppointments(t *testing.T) {
	env := newTestEnv()
	env.cal.events["perez@group.calendar.google.com"] = []gcal.Event{
		{ID: "ev-1", Description: model.EventDescription(testChatID, "juang"), Start: wedAt(10, 0)},
	}
	env.cal.events["gomez@group.calendar.google.com"] = []gcal.Event{
		{ID: "ev-2", Description: model.EventDescription(testChatID, "juang"), Start: wedAt(9, 0)},
	}

	env.say(keyboards.BtnTurnoEliminar)

	require.Equal(t, state.StateCancelSelect, env.sm.State(testChatID))
	draft := env.sm.Draft(testChatID)
	require.Len(t, draft.Options, 2)
	// Хронологический порядок по всем врачам
	require.Equal(t, "ev-2", draft.Options[0].EventID)
	require.Equal(t, "ev-1", draft.Options[1].EventID)
}

func TestStartCancelNoAppointments(t *testing.T) {
	env := newTestEnv()

	env.say(keyboards.BtnTurnoEliminar)

	require.Equal(t, state.StateNone, env.sm.State(testChatID))
	require.Contains(t, env.tg.lastText(t), "No encontré turnos")
}

func TestEditNewDayAndTimeSteps(t *testing.T) {
	env := newTestEnv()
	env.sm.SetState(testChatID, state.StateEditNewDay)
	env.sm.Update(testChatID, func(d *state.Draft) {
		d.Doctor = env.cfg.Doctors[0]
		d.EventID = "ev-old"
		d.OriginalDisplay = "15/04/2026 10:00"
	})

	env.say("Jueves")
	require.Equal(t, state.StateEditNewTime, env.sm.State(testChatID))

	env.say("11:00")
	require.Equal(t, state.StateEditFinalConfirm, env.sm.State(testChatID))
	require.Contains(t, env.tg.lastText(t), "¿Confirmás el cambio?")

	draft := env.sm.Draft(testChatID)
	require.Equal(t, "Jueves", draft.NewDay)
	require.Equal(t, "11:00", draft.NewTime)
	// Перенос ещё не выполнялся
	require.Empty(t, env.cal.deleted)
	require.Empty(t, env.cal.created)
}

func TestCancelActionMidEditKeepsOriginal(t *testing.T) {
	env := newTestEnv()
	env.sm.SetState(testChatID, state.StateEditNewTime)
	env.sm.Update(testChatID, func(d *state.Draft) {
		d.Doctor = env.cfg.Doctors[0]
		d.EventID = "ev-old"
		d.NewDay = "Jueves"
	})

	env.say(keyboards.BtnCancelarAccion)

	require.Equal(t, state.StateNone, env.sm.State(testChatID))
	require.Equal(t, state.Draft{}, env.sm.Draft(testChatID))
	// Исходное событие никто не трогал
	require.Empty(t, env.cal.deleted)
	require.Empty(t, env.cal.created)
}

func TestSecretaryDialog(t *testing.T) {
	env := newTestEnv()

	env.say(keyboards.BtnTurnoSecretaria)
	require.Equal(t, state.StateTalkingToSecretary, env.sm.State(testChatID))

	env.say("Necesito cambiar mi obra social")
	require.Equal(t, []string{"Necesito cambiar mi obra social"}, env.sink.relayed)
	// Состояние сохраняется: можно писать ещё
	require.Equal(t, state.StateTalkingToSecretary, env.sm.State(testChatID))

	env.say(keyboards.BtnCancelarAccion)
	require.Equal(t, state.StateNone, env.sm.State(testChatID))
}

func TestAttachmentForwardedToSecretary(t *testing.T) {
	env := newTestEnv()

	update := textUpdate("")
	update.Message.ID = 42
	update.Message.Photo = []models.PhotoSize{{FileID: "photo-1"}}
	env.h.HandleTextMessage(context.Background(), nil, update)

	require.Equal(t, []int{42}, env.sink.forwarded)
	require.Contains(t, env.tg.lastText(t), "secretaría")
}

func TestCommandsIgnoredByTextHandler(t *testing.T) {
	env := newTestEnv()
	env.sm.SetState(testChatID, state.StateBookingDoctor)

	env.say("/start")

	// Команды обрабатываются отдельными хендлерами
	require.Empty(t, env.tg.sent)
	require.Equal(t, state.StateBookingDoctor, env.sm.State(testChatID))
}
