package entity

import "time"

// SlotCandidate es un hueco reservable ofrecido por la agenda externa.
// Identidad: (start_date, start_time, resource_id).
type SlotCandidate struct {
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	StartTime  string `json:"start_time"` // HH:MM
	EndTime    string `json:"end_time"`   // HH:MM
	ResourceID string `json:"resource_id"`
	ActivityID string `json:"activity_id"`
	AreaID     string `json:"area_id"`
}

// SlotCacheEntry es el último resultado de disponibilidad consultado para
// un teléfono. Se sobreescribe en cada consulta, una entrada por teléfono.
type SlotCacheEntry struct {
	PhoneCanonical string          `json:"phone_canonical"`
	Slots          []SlotCandidate `json:"slots"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ReservationRequest es el contrato de alta de reserva contra la agenda.
// EndTime es opcional: si va vacío el upstream aplica su duración por
// defecto y NO debemos inventarnos una.
type ReservationRequest struct {
	MemberID           string   `json:"member_id"`
	ResourceID         string   `json:"resource_id"`
	ActivityID         string   `json:"activity_id"`
	StartTime          string   `json:"start_time"` // YYYY-MM-DD HH:MM
	EndTime            string   `json:"end_time,omitempty"`
	CommunicationPhone string   `json:"communication_phone"`
	Tags               []string `json:"tags"`
}

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationConflict  ReservationStatus = "CONFLICT"
	ReservationRejected  ReservationStatus = "REJECTED"
)

type ReservationOutcome struct {
	Status        ReservationStatus `json:"status"`
	AppointmentID string            `json:"appointment_id,omitempty"`
	Reason        string            `json:"reason,omitempty"`
}
