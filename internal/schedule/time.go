// Package schedule содержит арифметику дат и слотов: разрешение дня недели,
// сетка слотов в приёмные часы и строгий тест пересечения интервалов.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ErrInvalidWeekday = errors.New("invalid weekday name")

// weekdays — испанские названия дней в нормализованном виде (без акцентов).
var weekdays = map[string]time.Weekday{
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
	"domingo":   time.Sunday,
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Lunes",
	time.Tuesday:   "Martes",
	time.Wednesday: "Miércoles",
	time.Thursday:  "Jueves",
	time.Friday:    "Viernes",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeWeekday приводит ввод пользователя к канонической форме:
// нижний регистр, без акцентов ("Miércoles" -> "miercoles").
func NormalizeWeekday(name string) string {
	stripped, _, err := transform.String(stripAccents, strings.TrimSpace(name))
	if err != nil {
		stripped = name
	}
	return strings.ToLower(stripped)
}

// ParseWeekday распознаёт испанское название дня недели.
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdays[NormalizeWeekday(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
	}
	return wd, nil
}

// WeekdayName возвращает испанское название дня недели.
func WeekdayName(wd time.Weekday) string {
	return weekdayNames[wd]
}

// NextWeekdayDate возвращает дату ближайшего дня недели с указанным именем,
// считая от now. Сегодняшний день подходит, если имя совпадает.
func NextWeekdayDate(now time.Time, name string) (time.Time, error) {
	wd, err := ParseWeekday(name)
	if err != nil {
		return time.Time{}, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := (int(wd) - int(today.Weekday()) + 7) % 7
	return today.AddDate(0, 0, days), nil
}

// Slot — кандидат на приём фиксированной длительности.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Label возвращает время начала слота в формате HH:MM.
func (s Slot) Label() string {
	return s.Start.Format("15:04")
}

// Grid строит последовательные непересекающиеся слоты, покрывающие
// [startHour, endHour) указанной даты. Неполный последний слот, который
// вышел бы за endHour, отбрасывается целиком, а не урезается.
func Grid(date time.Time, startHour, endHour int, slotDuration time.Duration) []Slot {
	if slotDuration <= 0 {
		return nil
	}

	loc := date.Location()
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), startHour, 0, 0, 0, loc)
	dayEnd := time.Date(date.Year(), date.Month(), date.Day(), endHour, 0, 0, 0, loc)

	var slots []Slot
	for cur := dayStart; cur.Before(dayEnd); cur = cur.Add(slotDuration) {
		end := cur.Add(slotDuration)
		if end.After(dayEnd) {
			break
		}
		slots = append(slots, Slot{Start: cur, End: end})
	}
	return slots
}

// Overlaps — строгий тест пересечения: интервалы, которые лишь касаются
// (end == start), НЕ пересекаются.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ParseClock проверяет ввод времени вида "HH:MM".
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}
