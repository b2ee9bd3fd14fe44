package usecase

import (
	"strings"
	"time"
)

// FechaDeseada es el resultado de parsear el campo fechaDeseada del
// dialer, que llega en formatos variopintos según la versión del front.
type FechaDeseada struct {
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM, vacío si solo vino fecha
	EndTime   string // HH:MM, solo en el formato rango
}

var formatosFecha = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// ParseFechaDeseada acepta:
//
//	YYYY-MM-DD
//	DD/MM/YYYY y DD-MM-YYYY
//	YYYY-MM-DD HH:MM
//	YYYY-MM-DD HH:MM-HH:MM  (rango: primera hora inicio, última fin)
func ParseFechaDeseada(raw string) (FechaDeseada, error) {
	raw = strings.TrimSpace(raw)

	if fecha, hora, ok := strings.Cut(raw, " "); ok {
		d, err := time.Parse("2006-01-02", fecha)
		if err != nil {
			return FechaDeseada{}, &DomainError{
				Code:    CodeValidationError,
				Message: "fechaDeseada no reconocida: " + raw,
			}
		}
		out := FechaDeseada{Date: d.Format("2006-01-02")}
		inicio, fin, esRango := strings.Cut(hora, "-")
		if err := validaHora(inicio); err != nil {
			return FechaDeseada{}, err
		}
		out.StartTime = inicio
		if esRango {
			if err := validaHora(fin); err != nil {
				return FechaDeseada{}, err
			}
			out.EndTime = fin
		}
		return out, nil
	}

	for _, layout := range formatosFecha {
		if d, err := time.Parse(layout, raw); err == nil {
			return FechaDeseada{Date: d.Format("2006-01-02")}, nil
		}
	}
	return FechaDeseada{}, &DomainError{
		Code:    CodeValidationError,
		Message: "fechaDeseada no reconocida: " + raw,
	}
}

func validaHora(hhmm string) error {
	if _, err := time.Parse("15:04", hhmm); err != nil {
		return &DomainError{
			Code:    CodeValidationError,
			Message: "hora no reconocida: " + hhmm,
		}
	}
	return nil
}

// EsDeManana decide si una hora HH:MM cae en el turno de mañana. El
// corte mañana/tarde está en las 14:00.
func EsDeManana(hhmm string) bool {
	return hhmm < "14:00"
}

// CumplePreferencia comprueba si una hora de inicio encaja con la
// preferencia del cliente ("morning" / "afternoon"). Preferencia
// desconocida o vacía no filtra nada.
func CumplePreferencia(startTime, preferencia string) bool {
	switch preferencia {
	case "morning":
		return EsDeManana(startTime)
	case "afternoon":
		return !EsDeManana(startTime)
	}
	return true
}
