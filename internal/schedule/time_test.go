package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input string
		want  time.Weekday
	}{
		{"Lunes", time.Monday},
		{"lunes", time.Monday},
		{"  MARTES  ", time.Tuesday},
		{"Miércoles", time.Wednesday},
		{"miercoles", time.Wednesday},
		{"Sábado", time.Saturday},
		{"sabado", time.Saturday},
		{"Domingo", time.Sunday},
	}

	for _, tt := range tests {
		got, err := ParseWeekday(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		require.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestParseWeekdayInvalid(t *testing.T) {
	for _, input := range []string{"", "Monday", "lune", "miércoles y jueves", "123"} {
		_, err := ParseWeekday(input)
		require.Error(t, err, "input %q", input)
		require.True(t, errors.Is(err, ErrInvalidWeekday))
	}
}

func TestNextWeekdayDate(t *testing.T) {
	// Среда 15:00
	now := time.Date(2026, 4, 15, 15, 0, 0, 0, time.UTC)
	require.Equal(t, time.Wednesday, now.Weekday())

	// Совпадающий день недели — сегодня, не через неделю
	got, err := NextWeekdayDate(now, "Miércoles")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), got)

	// Завтра
	got, err = NextWeekdayDate(now, "Jueves")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 4, 16, 0, 0, 0, 0, time.UTC), got)

	// Перенос через выходные
	got, err = NextWeekdayDate(now, "lunes")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC), got)

	_, err = NextWeekdayDate(now, "ayer")
	require.Error(t, err)
}

func TestGrid(t *testing.T) {
	date := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)

	slots := Grid(date, 9, 18, 30*time.Minute)
	require.Len(t, slots, 18)

	// Слоты смежные и не выходят за конец приёмных часов
	for i, s := range slots {
		require.Equal(t, 30*time.Minute, s.End.Sub(s.Start))
		if i > 0 {
			require.Equal(t, slots[i-1].End, s.Start)
		}
	}
	require.Equal(t, time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC), slots[0].Start)
	require.Equal(t, time.Date(2026, 4, 15, 18, 0, 0, 0, time.UTC), slots[len(slots)-1].End)
}

func TestGridDropsPartialSlot(t *testing.T) {
	date := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)

	// 9:00-10:00 по 45 минут: второй слот вышел бы за 10:00
	slots := Grid(date, 9, 10, 45*time.Minute)
	require.Len(t, slots, 1)
	require.Equal(t, "09:00", slots[0].Label())
}

func TestGridInvalidDuration(t *testing.T) {
	date := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	require.Empty(t, Grid(date, 9, 18, 0))
	require.Empty(t, Grid(date, 9, 18, -time.Minute))
}

func TestOverlaps(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 4, 15, h, m, 0, 0, time.UTC)
	}

	// Частичное пересечение
	require.True(t, Overlaps(at(9, 0), at(9, 30), at(9, 15), at(9, 45)))
	// Вложенность
	require.True(t, Overlaps(at(9, 0), at(10, 0), at(9, 15), at(9, 30)))
	// Касание концами — НЕ пересечение
	require.False(t, Overlaps(at(9, 0), at(9, 30), at(9, 30), at(10, 0)))
	require.False(t, Overlaps(at(9, 30), at(10, 0), at(9, 0), at(9, 30)))
	// Непересекающиеся
	require.False(t, Overlaps(at(9, 0), at(9, 30), at(11, 0), at(11, 30)))
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("09:30")
	require.NoError(t, err)
	require.Equal(t, 9, h)
	require.Equal(t, 30, m)

	h, m, err = ParseClock(" 17:00 ")
	require.NoError(t, err)
	require.Equal(t, 17, h)
	require.Equal(t, 0, m)

	for _, input := range []string{"", "9", "25:00", "09:61", "mañana", "09.30"} {
		_, _, err := ParseClock(input)
		require.Error(t, err, "input %q", input)
	}
}
