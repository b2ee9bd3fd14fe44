package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config es el único objeto de configuración del proceso. Se carga del
// entorno al arrancar (godotenv en main); nada de credenciales sueltas
// por los módulos.
type Config struct {
	Port        string
	DatabaseURL string

	RabbitUser string
	RabbitPass string
	RabbitHost string
	RabbitPort string

	AgendaBaseURL      string
	AgendaClientID     string
	AgendaClientSecret string
	AgendaMemberID     string
	AgendaAreaID       string
	AgendaActivityID   string

	SlotCacheDir       string
	ReservaDedupWindow time.Duration

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string
	OpsEmail string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RabbitUser: getenv("RABBITMQ_USER", "guest"),
		RabbitPass: getenv("RABBITMQ_PASS", "guest"),
		RabbitHost: getenv("RABBITMQ_HOST", "localhost"),
		RabbitPort: getenv("RABBITMQ_PORT", "5672"),

		AgendaBaseURL:      os.Getenv("AGENDA_BASE_URL"),
		AgendaClientID:     os.Getenv("AGENDA_CLIENT_ID"),
		AgendaClientSecret: os.Getenv("AGENDA_CLIENT_SECRET"),
		AgendaMemberID:     os.Getenv("AGENDA_MEMBER_ID"),
		AgendaAreaID:       os.Getenv("AGENDA_AREA_ID"),
		AgendaActivityID:   os.Getenv("AGENDA_ACTIVITY_ID"),

		SlotCacheDir: os.Getenv("SLOT_CACHE_DIR"),

		MailHost: os.Getenv("MAIL_HOST"),
		MailUser: os.Getenv("MAIL_USER"),
		MailPass: os.Getenv("MAIL_PASS"),
		MailFrom: getenv("MAIL_FROM", "no-responder@citasalud.es"),
		OpsEmail: os.Getenv("OPS_ALERT_EMAIL"),
	}

	cfg.MailPort = getenvInt("MAIL_PORT", 587)

	// Ventana de deduplicación de reservas, en segundos. El valor no
	// estaba fijado en ningún sitio en los scripts originales; 60 s es
	// el ancla y es configurable.
	cfg.ReservaDedupWindow = time.Duration(getenvInt("RESERVA_DEDUP_WINDOW", 60)) * time.Second

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL es obligatorio")
	}
	if cfg.AgendaBaseURL == "" {
		return nil, errors.New("AGENDA_BASE_URL es obligatorio")
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
