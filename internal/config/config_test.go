package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDoctors(t *testing.T) {
	doctors, err := ParseDoctors("Dr. Pérez=perez@group.calendar.google.com; Dra. Gómez=gomez@group.calendar.google.com")
	require.NoError(t, err)
	require.Equal(t, []Doctor{
		{Name: "Dr. Pérez", CalendarID: "perez@group.calendar.google.com"},
		{Name: "Dra. Gómez", CalendarID: "gomez@group.calendar.google.com"},
	}, doctors)
}

func TestParseDoctorsTrailingSeparator(t *testing.T) {
	doctors, err := ParseDoctors("Dr. Pérez=perez@example.com;")
	require.NoError(t, err)
	require.Len(t, doctors, 1)
}

func TestParseDoctorsInvalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		";;",
		"Dr. Pérez",
		"=perez@example.com",
		"Dr. Pérez=",
	} {
		_, err := ParseDoctors(raw)
		require.Error(t, err, "raw %q", raw)
	}
}

func TestParseDoctorsRejectsDuplicates(t *testing.T) {
	// Имя и календарь должны оставаться взаимно однозначными
	_, err := ParseDoctors("Dr. Pérez=a@example.com;Dr. Pérez=b@example.com")
	require.Error(t, err)

	_, err = ParseDoctors("Dr. Pérez=a@example.com;Dra. Gómez=a@example.com")
	require.Error(t, err)
}

func TestDoctorLookups(t *testing.T) {
	cfg := &Config{Doctors: []Doctor{
		{Name: "Dr. Pérez", CalendarID: "perez@example.com"},
		{Name: "Dra. Gómez", CalendarID: "gomez@example.com"},
	}}

	d, ok := cfg.DoctorByName("Dra. Gómez")
	require.True(t, ok)
	require.Equal(t, "gomez@example.com", d.CalendarID)

	_, ok = cfg.DoctorByName("Dr. Nadie")
	require.False(t, ok)

	d, ok = cfg.DoctorByCalendar("perez@example.com")
	require.True(t, ok)
	require.Equal(t, "Dr. Pérez", d.Name)

	_, ok = cfg.DoctorByCalendar("nadie@example.com")
	require.False(t, ok)

	require.Equal(t, []string{"Dr. Pérez", "Dra. Gómez"}, cfg.DoctorNames())
}
