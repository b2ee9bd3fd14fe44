package entity

import (
	"context"
	"errors"
	"time"
)

// Status nivel 1 — categorías terminales de una llamada.
const (
	StatusCitaAgendada  = "Cita Agendada"
	StatusVolverALlamar = "Volver a llamar"
	StatusNoInteresado  = "No Interesado"
	StatusNumeroErroneo = "Numero erroneo"
)

// Ciclo de vida del lead (lead_status).
const (
	LeadStatusOpen     = "open"
	LeadStatusClosed   = "closed"
	LeadStatusSelected = "selected"
)

var ErrLeadNotFound = errors.New("lead no encontrado")

type Lead struct {
	ID              int64      `json:"id"`
	PhoneCanonical  string     `json:"phone_canonical"`
	Phone2Canonical string     `json:"phone2_canonical,omitempty"`
	Nombre          string     `json:"nombre,omitempty"`
	Apellidos       string     `json:"apellidos,omitempty"`
	CodigoPostal    string     `json:"codigo_postal,omitempty"`
	Delegacion      string     `json:"delegacion,omitempty"`
	FechaNacimiento string     `json:"fecha_nacimiento,omitempty"`
	Sexo            string     `json:"sexo,omitempty"`
	StatusLevel1    *string    `json:"status_level_1,omitempty"`
	StatusLevel2    *string    `json:"status_level_2,omitempty"`
	Cita            *time.Time `json:"cita,omitempty"`
	CallAttempts    int        `json:"call_attempts_count"`
	LastCallAttempt *time.Time `json:"last_call_attempt,omitempty"`
	LeadStatus      string     `json:"lead_status"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// nivel2Permitido lista los sub-estados válidos para cada status nivel 1.
// Un nivel 2 fuera de la lista de su nivel 1 es un bug de clasificación.
var nivel2Permitido = map[string][]string{
	StatusCitaAgendada: {"Con Pack", "Sin Pack"},
	StatusVolverALlamar: {
		"no disponible cliente", "buzón", "no contesta", "cortado", "llamar más tarde",
	},
	StatusNoInteresado: {
		"No da motivos", "No da motivos de rechazo", "Ya es cliente",
		"Ya tiene seguro", "Descontento con seguro", "Otro",
	},
	StatusNumeroErroneo: {},
}

// Nivel2Valido comprueba que el par (nivel1, nivel2) no mezcla categorías.
// Nivel 2 vacío siempre es válido (se guarda como NULL).
func Nivel2Valido(nivel1, nivel2 string) bool {
	if nivel2 == "" {
		return true
	}
	for _, v := range nivel2Permitido[nivel1] {
		if v == nivel2 {
			return true
		}
	}
	return false
}

// OutcomeChange es lo que el gateway escribe sobre el lead. Campos vacíos
// se guardan como NULL (nunca string vacía, ver bug histórico de los scripts).
type OutcomeChange struct {
	StatusLevel1 string
	StatusLevel2 string
	// SoloIntento: no tocar los status, solo registrar el intento de llamada.
	SoloIntento bool
}

type OutcomeResult struct {
	LeadID  int64
	Updated bool
}

type LeadRepositoryInterface interface {
	FindByPhone(ctx context.Context, phoneCanonical string) (*Lead, error)
	ApplyOutcome(ctx context.Context, phoneCanonical string, change OutcomeChange) (*OutcomeResult, error)
	// SetCita fija la cita y fuerza status_level_1 = Cita Agendada en la misma sentencia.
	SetCita(ctx context.Context, leadID int64, cita time.Time) error
	FixSelectedStatus(ctx context.Context) (int64, error)
}
