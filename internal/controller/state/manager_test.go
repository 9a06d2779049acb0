package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManagerStateLifecycle(t *testing.T) {
	sm := NewManager()

	require.Equal(t, StateNone, sm.State(1))

	sm.SetState(1, StateBookingDoctor)
	require.Equal(t, StateBookingDoctor, sm.State(1))
	require.True(t, sm.Is(1, StateBookingDoctor))
	require.False(t, sm.Is(1, StateBookingDay))

	// Чужое состояние не задето
	require.Equal(t, StateNone, sm.State(2))

	// StateNone удаляет запись вместе с черновиком
	sm.Update(1, func(d *Draft) { d.Day = "Lunes" })
	sm.SetState(1, StateNone)
	require.Equal(t, StateNone, sm.State(1))
	require.Equal(t, Draft{}, sm.Draft(1))
}

func TestManagerDraft(t *testing.T) {
	sm := NewManager()

	sm.SetState(1, StateBookingDay)
	sm.Update(1, func(d *Draft) {
		d.Day = "Martes"
		d.NewTime = "09:30"
	})

	draft := sm.Draft(1)
	require.Equal(t, "Martes", draft.Day)
	require.Equal(t, "09:30", draft.NewTime)

	// Draft возвращает копию: изменение копии не влияет на хранимое
	draft.Day = "Jueves"
	require.Equal(t, "Martes", sm.Draft(1).Day)

	// Update переживает смену состояния
	sm.SetState(1, StateBookingTime)
	require.Equal(t, "Martes", sm.Draft(1).Day)
}

func TestManagerClear(t *testing.T) {
	sm := NewManager()

	sm.SetState(1, StateTalkingToSecretary)
	sm.Update(1, func(d *Draft) { d.EventID = "ev-1" })

	sm.Clear(1)
	require.Equal(t, StateNone, sm.State(1))
	require.Equal(t, Draft{}, sm.Draft(1))
}

func TestManagerConcurrentAccess(t *testing.T) {
	sm := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			sm.SetState(chatID, StateBookingDoctor)
			sm.Update(chatID, func(d *Draft) { d.Day = "Lunes" })
			_ = sm.State(chatID)
			_ = sm.Draft(chatID)
			sm.Clear(chatID)
		}(int64(i % 5))
	}
	wg.Wait()
}
