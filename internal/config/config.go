package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Doctor связывает отображаемое имя врача с его Google-календарём.
// Маппинг фиксируется при старте процесса; порядок следует DOCTORS.
type Doctor struct {
	Name       string
	CalendarID string
}

type Config struct {
	TelegramToken   string
	CredentialsFile string
	Environment     string

	Doctors  []Doctor
	Timezone *time.Location

	OfficeStartHour int
	OfficeEndHour   int
	SlotDuration    time.Duration

	// Чат секретаря: сюда уходят сообщения пациентов, загруженные
	// документы и алерты о неконсистентных переносах. 0 = только логи.
	SecretaryChatID int64
}

const (
	defaultTimezone        = "America/Argentina/Buenos_Aires"
	defaultOfficeStartHour = 9
	defaultOfficeEndHour   = 18
	defaultSlotMinutes     = 30
)

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		CredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		Environment:     os.Getenv("ENV"),
		OfficeStartHour: defaultOfficeStartHour,
		OfficeEndHour:   defaultOfficeEndHour,
		SlotDuration:    defaultSlotMinutes * time.Minute,
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS_FILE is required but not set")
	}

	doctors, err := ParseDoctors(os.Getenv("DOCTORS"))
	if err != nil {
		return nil, err
	}
	cfg.Doctors = doctors

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = defaultTimezone
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
	}
	cfg.Timezone = loc

	if v := os.Getenv("OFFICE_START_HOUR"); v != "" {
		if cfg.OfficeStartHour, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid OFFICE_START_HOUR %q: %w", v, err)
		}
	}
	if v := os.Getenv("OFFICE_END_HOUR"); v != "" {
		if cfg.OfficeEndHour, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid OFFICE_END_HOUR %q: %w", v, err)
		}
	}
	if cfg.OfficeStartHour >= cfg.OfficeEndHour {
		return nil, fmt.Errorf("office hours are empty: start %d, end %d", cfg.OfficeStartHour, cfg.OfficeEndHour)
	}

	if v := os.Getenv("SLOT_DURATION_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("invalid SLOT_DURATION_MINUTES %q", v)
		}
		cfg.SlotDuration = time.Duration(minutes) * time.Minute
	}

	if v := os.Getenv("SECRETARY_CHAT_ID"); v != "" {
		if cfg.SecretaryChatID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid SECRETARY_CHAT_ID %q: %w", v, err)
		}
	}

	log.Printf("Config loaded: %d doctors, office %02d:00-%02d:00, slots %s\n",
		len(cfg.Doctors), cfg.OfficeStartHour, cfg.OfficeEndHour, cfg.SlotDuration)

	return cfg, nil
}

// ParseDoctors разбирает значение вида
// "Dr. Pérez=perez@group.calendar.google.com;Dra. Gómez=gomez@...".
func ParseDoctors(raw string) ([]Doctor, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("DOCTORS is required but not set")
	}

	var doctors []Doctor
	seenNames := make(map[string]bool)
	seenCals := make(map[string]bool)

	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, calendarID, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		calendarID = strings.TrimSpace(calendarID)
		if !ok || name == "" || calendarID == "" {
			return nil, fmt.Errorf("invalid DOCTORS entry %q, expected Name=calendarID", pair)
		}
		// Маппинг имя↔календарь должен оставаться биективным
		if seenNames[name] {
			return nil, fmt.Errorf("duplicate doctor name %q in DOCTORS", name)
		}
		if seenCals[calendarID] {
			return nil, fmt.Errorf("duplicate calendar ID %q in DOCTORS", calendarID)
		}
		seenNames[name] = true
		seenCals[calendarID] = true
		doctors = append(doctors, Doctor{Name: name, CalendarID: calendarID})
	}

	if len(doctors) == 0 {
		return nil, fmt.Errorf("DOCTORS contains no valid entries")
	}
	return doctors, nil
}

// DoctorByName ищет врача по отображаемому имени.
func (c *Config) DoctorByName(name string) (Doctor, bool) {
	for _, d := range c.Doctors {
		if d.Name == name {
			return d, true
		}
	}
	return Doctor{}, false
}

// DoctorByCalendar ищет врача по ID календаря.
func (c *Config) DoctorByCalendar(calendarID string) (Doctor, bool) {
	for _, d := range c.Doctors {
		if d.CalendarID == calendarID {
			return d, true
		}
	}
	return Doctor{}, false
}

// DoctorNames возвращает имена врачей в порядке конфигурации.
func (c *Config) DoctorNames() []string {
	names := make([]string, len(c.Doctors))
	for i, d := range c.Doctors {
		names[i] = d.Name
	}
	return names
}
