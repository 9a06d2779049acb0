package gcal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Client реализует Calendar поверх Google Calendar API v3.
type Client struct {
	svc      *calendar.Service
	timezone *time.Location
	logger   *zap.Logger
}

// NewClient аутентифицируется по сервис-аккаунту и создаёт клиент.
func NewClient(ctx context.Context, credentialsFile string, timezone *time.Location, logger *zap.Logger) (*Client, error) {
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	logger.Info("✅ Google Calendar service authenticated")

	return &Client{
		svc:      svc,
		timezone: timezone,
		logger:   logger,
	}, nil
}

// BusyIntervals выполняет freeBusy-запрос. Интервалы с нечитаемыми
// временными метками заменяются на всё окно запроса: перекрыть лишнее
// безопаснее, чем молча предложить занятый слот.
func (c *Client) BusyIntervals(ctx context.Context, calendarID string, from, to time.Time) ([]BusyInterval, error) {
	req := &calendar.FreeBusyRequest{
		TimeMin:  from.Format(time.RFC3339),
		TimeMax:  to.Format(time.RFC3339),
		TimeZone: c.timezone.String(),
		Items:    []*calendar.FreeBusyRequestItem{{Id: calendarID}},
	}

	resp, err := c.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query for %s: %w", calendarID, err)
	}

	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("freebusy response missing calendar %s", calendarID)
	}

	return parseBusyPeriods(from, to, c.timezone, cal.Busy, c.logger.With(
		zap.String("calendar_id", calendarID))), nil
}

// parseBusyPeriods конвертирует периоды ответа freeBusy в интервалы.
// Период с нечитаемой меткой времени заменяется на всё окно [from, to]:
// перекрыть лишнее безопаснее, чем молча предложить занятый слот.
func parseBusyPeriods(from, to time.Time, loc *time.Location, periods []*calendar.TimePeriod, logger *zap.Logger) []BusyInterval {
	intervals := make([]BusyInterval, 0, len(periods))
	for _, period := range periods {
		start, errStart := time.Parse(time.RFC3339, period.Start)
		end, errEnd := time.Parse(time.RFC3339, period.End)
		if errStart != nil || errEnd != nil {
			logger.Warn("Unparsable busy interval, blocking whole window",
				zap.String("start", period.Start),
				zap.String("end", period.End))
			intervals = append(intervals, BusyInterval{Start: from, End: to})
			continue
		}
		intervals = append(intervals, BusyInterval{
			Start: start.In(loc),
			End:   end.In(loc),
		})
	}
	return intervals
}

// CreateEvent создаёт событие с popup-напоминаниями за час и за сутки.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*Event, error) {
	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: c.timezone.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: c.timezone.String(),
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: 60},
				{Method: "popup", Minutes: 1440},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := c.svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("insert event into %s: %w", calendarID, err)
	}

	c.logger.Info("Calendar event created",
		zap.String("calendar_id", calendarID),
		zap.String("event_id", created.Id))

	return &Event{
		ID:          created.Id,
		Summary:     created.Summary,
		Description: created.Description,
		HTMLLink:    created.HtmlLink,
		Start:       input.Start,
	}, nil
}

// DeleteEvent удаляет событие. 404/410 означает, что события уже нет —
// с точки зрения вызывающего это успех.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	err := c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == 404 || apiErr.Code == 410) {
			c.logger.Warn("Event already gone, treating delete as success",
				zap.String("calendar_id", calendarID),
				zap.String("event_id", eventID))
			return nil
		}
		return fmt.Errorf("delete event %s from %s: %w", eventID, calendarID, err)
	}

	c.logger.Info("Calendar event deleted",
		zap.String("calendar_id", calendarID),
		zap.String("event_id", eventID))
	return nil
}

// SearchEvents ищет события по текстовому фильтру. События без времени
// начала (целодневные) пропускаются.
func (c *Client) SearchEvents(ctx context.Context, calendarID string, from, to time.Time, query string) ([]Event, error) {
	resp, err := c.svc.Events.List(calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		Q(query).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events in %s: %w", calendarID, err)
	}

	events := make([]Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Start == nil || item.Start.DateTime == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			c.logger.Warn("Skipping event with unparsable start",
				zap.String("calendar_id", calendarID),
				zap.String("event_id", item.Id),
				zap.String("start", item.Start.DateTime))
			continue
		}
		events = append(events, Event{
			ID:          item.Id,
			Summary:     item.Summary,
			Description: item.Description,
			HTMLLink:    item.HtmlLink,
			Start:       start.In(c.timezone),
		})
	}

	return events, nil
}
