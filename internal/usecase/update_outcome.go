package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/citasalud/internal/entity"
	"github.com/xavierca1/citasalud/internal/infra/queue"
	"github.com/xavierca1/citasalud/internal/phone"
)

type UpdateOutcomeOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LeadID  int64  `json:"lead_id"`
}

// UpdateOutcomeUseCase procesa el resultado de una llamada del dialer:
// canoniza el teléfono, clasifica, persiste y — si el resultado es
// positivo — intenta enganchar la cita contra la agenda externa.
type UpdateOutcomeUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	Cache    SlotCacheInterface
	Agenda   AgendaClientInterface
	Registry *ReservaRegistry
	Producer ReconciliationProducerInterface
	Email    EmailService

	// Parámetros fijos de la agenda (vienen de config).
	MemberID   string
	AreaID     string
	ActivityID string
}

func NewUpdateOutcomeUseCase(
	leadRepo entity.LeadRepositoryInterface,
	cache SlotCacheInterface,
	agenda AgendaClientInterface,
	registry *ReservaRegistry,
	producer ReconciliationProducerInterface,
	email EmailService,
	memberID, areaID, activityID string,
) *UpdateOutcomeUseCase {
	return &UpdateOutcomeUseCase{
		LeadRepo:   leadRepo,
		Cache:      cache,
		Agenda:     agenda,
		Registry:   registry,
		Producer:   producer,
		Email:      email,
		MemberID:   memberID,
		AreaID:     areaID,
		ActivityID: activityID,
	}
}

func (uc *UpdateOutcomeUseCase) Execute(ctx context.Context, payload OutcomePayload) (*UpdateOutcomeOutput, error) {
	canon, err := phone.Canonicalise(payload.Phone())
	if err != nil {
		return nil, &DomainError{
			Code:    CodeInvalidPhone,
			Message: "Teléfono inválido: se necesitan al menos 9 dígitos",
		}
	}

	cls := Classify(payload)

	change := entity.OutcomeChange{
		StatusLevel1: cls.StatusLevel1,
		StatusLevel2: cls.StatusLevel2,
		SoloIntento:  cls.Empty(),
	}

	res, err := uc.LeadRepo.ApplyOutcome(ctx, canon, change)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &DomainError{
				Code:    CodeNotFound,
				Message: "No existe ningún lead con ese teléfono",
			}
		}
		log.Printf("❌ Error al persistir resultado (tel %s): %v", canon, err)
		return nil, &TechnicalError{
			Code:    CodeInternalError,
			Message: "error al persistir el resultado",
		}
	}

	// La reserva es best-effort: si falla, el lead queda "Cita Agendada"
	// sin cita y lo cuadra el worker de reconciliación.
	if cls.WantsReservation && payload.FechaDeseada != "" && payload.PreferenciaMT != "" {
		uc.intentaReserva(ctx, canon, res.LeadID, payload.FechaDeseada, payload.PreferenciaMT, true)
	}

	return &UpdateOutcomeOutput{
		Success: true,
		Message: "Resultado registrado",
		LeadID:  res.LeadID,
	}, nil
}

// ReattemptReservation es el camino que usa el worker de reconciliación.
// No vuelve a encolar en caso de fallo: devuelve error y el worker decide
// (Nack → DLQ).
func (uc *UpdateOutcomeUseCase) ReattemptReservation(ctx context.Context, payload queue.ReconciliationPayload) error {
	return uc.intentaReserva(ctx, payload.PhoneCanonical, payload.LeadID,
		payload.FechaDeseada, payload.PreferenciaMT, false)
}

func (uc *UpdateOutcomeUseCase) intentaReserva(ctx context.Context, canon string, leadID int64, fechaDeseada, preferencia string, encolar bool) error {
	fecha, err := ParseFechaDeseada(fechaDeseada)
	if err != nil {
		return uc.reservaFallida(ctx, canon, leadID, fechaDeseada, preferencia,
			"fecha deseada no reconocida", encolar)
	}

	slot, err := uc.buscaSlot(ctx, canon, fecha, preferencia)
	if err != nil || slot == nil {
		motivo := "sin disponibilidad para la fecha pedida"
		if err != nil {
			motivo = "fallo al consultar disponibilidad: " + err.Error()
		}
		return uc.reservaFallida(ctx, canon, leadID, fechaDeseada, preferencia, motivo, encolar)
	}

	key := IdempotencyKey(canon, slot.StartDate, slot.StartTime, slot.ResourceID)

	outcome, cached := uc.Registry.Cached(key)
	if !cached {
		outcome, err = uc.Agenda.CreateReservation(ctx, entity.ReservationRequest{
			MemberID:           uc.MemberID,
			ResourceID:         slot.ResourceID,
			ActivityID:         slot.ActivityID,
			StartTime:          slot.StartDate + " " + slot.StartTime,
			CommunicationPhone: canon,
			Tags:               []string{"televenta"},
		})
		if err != nil {
			return uc.reservaFallida(ctx, canon, leadID, fechaDeseada, preferencia,
				"fallo de la agenda: "+err.Error(), encolar)
		}
		uc.Registry.Store(key, outcome)
	}

	if outcome.Status != entity.ReservationConfirmed {
		motivo := string(outcome.Status)
		if outcome.Reason != "" {
			motivo += ": " + outcome.Reason
		}
		return uc.reservaFallida(ctx, canon, leadID, fechaDeseada, preferencia, motivo, encolar)
	}

	cita, err := time.ParseInLocation("2006-01-02 15:04", slot.StartDate+" "+slot.StartTime, time.Local)
	if err != nil {
		return uc.reservaFallida(ctx, canon, leadID, fechaDeseada, preferencia,
			"hora de cita no parseable", encolar)
	}
	if err := uc.LeadRepo.SetCita(ctx, leadID, cita); err != nil {
		log.Printf("⚠️ CRITICAL: cita %s confirmada en agenda pero no guardada en BD (lead %d): %v",
			outcome.AppointmentID, leadID, err)
		return err
	}

	log.Printf("✅ Cita %s confirmada para lead %d (%s %s)",
		outcome.AppointmentID, leadID, slot.StartDate, slot.StartTime)
	return nil
}

// buscaSlot devuelve el primer hueco de la fecha pedida que encaja con la
// preferencia mañana/tarde. Primero tira de caché; si la entrada no cubre
// esa fecha (o no existe), re-consulta la agenda UNA vez y re-escribe la caché.
func (uc *UpdateOutcomeUseCase) buscaSlot(ctx context.Context, canon string, fecha FechaDeseada, preferencia string) (*entity.SlotCandidate, error) {
	if entry, err := uc.Cache.Get(canon); err == nil && entry != nil {
		if slot := eligeSlot(entry.Slots, fecha, preferencia); slot != nil {
			return slot, nil
		}
	}

	slots, err := uc.Agenda.GetAvailabilities(ctx, uc.AreaID, uc.ActivityID, fecha.Date)
	if err != nil {
		return nil, err
	}
	if err := uc.Cache.Put(canon, slots); err != nil {
		log.Printf("⚠️ No se pudo escribir la caché de slots para %s: %v", canon, err)
	}

	return eligeSlot(slots, fecha, preferencia), nil
}

func eligeSlot(slots []entity.SlotCandidate, fecha FechaDeseada, preferencia string) *entity.SlotCandidate {
	// Si el dialer mandó hora exacta, esa manda sobre la preferencia.
	if fecha.StartTime != "" {
		for i := range slots {
			if slots[i].StartDate == fecha.Date && slots[i].StartTime == fecha.StartTime {
				return &slots[i]
			}
		}
	}
	for i := range slots {
		if slots[i].StartDate == fecha.Date && CumplePreferencia(slots[i].StartTime, preferencia) {
			return &slots[i]
		}
	}
	return nil
}

func (uc *UpdateOutcomeUseCase) reservaFallida(ctx context.Context, canon string, leadID int64, fechaDeseada, preferencia, motivo string, encolar bool) error {
	log.Printf("⚠️ Reserva fallida para lead %d (tel %s): %s", leadID, canon, motivo)

	if encolar && uc.Producer != nil {
		err := uc.Producer.PublishReconciliation(ctx, queue.ReconciliationPayload{
			MessageID:      uuid.New().String(),
			LeadID:         leadID,
			PhoneCanonical: canon,
			FechaDeseada:   fechaDeseada,
			PreferenciaMT:  preferencia,
			Motivo:         motivo,
			Origin:         "OUTCOME_INTAKE",
			IntentadoEn:    time.Now(),
		})
		if err != nil {
			log.Printf("⚠️ No se pudo encolar la reconciliación: %v", err)
		}
	}

	if uc.Email != nil {
		go func() {
			if err := uc.Email.SendAlertaReserva(canon, fechaDeseada, motivo); err != nil {
				log.Printf("⚠️ No se pudo enviar el aviso a operaciones: %v", err)
			}
		}()
	}

	return &TechnicalError{Code: CodeUpstreamError, Message: motivo}
}
