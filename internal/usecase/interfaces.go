package usecase

import (
	"context"

	"github.com/xavierca1/citasalud/internal/entity"
	"github.com/xavierca1/citasalud/internal/infra/queue"
)

// SlotCacheInterface: caché por teléfono del último resultado de
// disponibilidad. Get devuelve (nil, nil) si no hay entrada; cualquier
// fallo de lectura se trata como "no hay" (la caché es best-effort).
type SlotCacheInterface interface {
	Put(phoneCanonical string, slots []entity.SlotCandidate) error
	Get(phoneCanonical string) (*entity.SlotCacheEntry, error)
}

// AgendaClientInterface: API externa de disponibilidad y reservas.
type AgendaClientInterface interface {
	GetAvailabilities(ctx context.Context, areaID, activityID, startDate string) ([]entity.SlotCandidate, error)
	CreateReservation(ctx context.Context, req entity.ReservationRequest) (*entity.ReservationOutcome, error)
}

type ReconciliationProducerInterface interface {
	PublishReconciliation(ctx context.Context, payload queue.ReconciliationPayload) error
}

// EmailService avisa a operaciones cuando un lead queda con cita agendada
// pero sin cita real en la agenda.
type EmailService interface {
	SendAlertaReserva(phoneCanonical, fecha, motivo string) error
}
