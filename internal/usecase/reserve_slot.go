package usecase

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/xavierca1/citasalud/internal/entity"
	"github.com/xavierca1/citasalud/internal/phone"
)

// ReservarInput es lo que manda el front al confirmar un hueco que se le
// ofreció antes. El bloque availability puede venir incompleto; lo que
// falte se hidrata desde la caché de slots.
type ReservarInput struct {
	UserInfo     ReservaUserInfo     `json:"user_info"`
	Availability ReservaAvailability `json:"availability"`
}

type ReservaUserInfo struct {
	Phone string `json:"phone"`
}

type ReservaAvailability struct {
	StartDate  string `json:"start_date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime,omitempty"`
	ResourceID string `json:"resourceid"`
	ActivityID string `json:"activityid,omitempty"`
	AreaID     string `json:"areaid,omitempty"`
}

type ReservarOutput struct {
	Success       bool   `json:"success"`
	AppointmentID string `json:"appointment_id"`
}

type ReserveSlotUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	Cache    SlotCacheInterface
	Agenda   AgendaClientInterface
	Registry *ReservaRegistry

	MemberID string
}

func NewReserveSlotUseCase(
	leadRepo entity.LeadRepositoryInterface,
	cache SlotCacheInterface,
	agenda AgendaClientInterface,
	registry *ReservaRegistry,
	memberID string,
) *ReserveSlotUseCase {
	return &ReserveSlotUseCase{
		LeadRepo: leadRepo,
		Cache:    cache,
		Agenda:   agenda,
		Registry: registry,
		MemberID: memberID,
	}
}

func (uc *ReserveSlotUseCase) Execute(ctx context.Context, input ReservarInput) (*ReservarOutput, error) {
	// Canonizar ANTES de construir cualquier clave. La clave de
	// idempotencia y la caché cuelgan del teléfono canónico, no del
	// formato que mande el front.
	canon, err := phone.Canonicalise(input.UserInfo.Phone)
	if err != nil {
		return nil, &DomainError{
			Code:    CodeInvalidPhone,
			Message: "Teléfono inválido: se necesitan al menos 9 dígitos",
		}
	}

	av := input.Availability
	if av.StartDate == "" || av.StartTime == "" || av.ResourceID == "" {
		return nil, &DomainError{
			Code:    CodeValidationError,
			Message: "Faltan datos del hueco: start_date, startTime y resourceid son obligatorios",
		}
	}

	key := IdempotencyKey(canon, av.StartDate, av.StartTime, av.ResourceID)
	if outcome, ok := uc.Registry.Cached(key); ok {
		return uc.mapOutcome(ctx, canon, av, outcome, true)
	}

	lead, err := uc.LeadRepo.FindByPhone(ctx, canon)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &DomainError{
				Code:    CodeNotFound,
				Message: "No existe ningún lead con ese teléfono",
			}
		}
		return nil, &TechnicalError{Code: CodeInternalError, Message: "error al buscar el lead"}
	}

	// La caché es best-effort: si no hay entrada se reserva con el
	// bloque availability tal cual llegó.
	if entry, cerr := uc.Cache.Get(canon); cerr == nil && entry != nil {
		for _, s := range entry.Slots {
			if s.StartDate == av.StartDate && s.StartTime == av.StartTime && s.ResourceID == av.ResourceID {
				if av.ActivityID == "" {
					av.ActivityID = s.ActivityID
				}
				if av.EndTime == "" {
					av.EndTime = s.EndTime
				}
				break
			}
		}
	}

	outcome, err := uc.Agenda.CreateReservation(ctx, entity.ReservationRequest{
		MemberID:           uc.MemberID,
		ResourceID:         av.ResourceID,
		ActivityID:         av.ActivityID,
		StartTime:          av.StartDate + " " + av.StartTime,
		EndTime:            endTimeCompleto(av),
		CommunicationPhone: canon,
		Tags:               []string{"televenta", "lead-" + strconv.FormatInt(lead.ID, 10)},
	})
	if err != nil {
		return nil, err
	}
	uc.Registry.Store(key, outcome)

	return uc.mapOutcome(ctx, canon, av, outcome, false)
}

// endTimeCompleto: el upstream espera end_time con fecha. Si el front no
// mandó hora de fin, se deja vacío y el upstream aplica su duración por
// defecto (NUNCA inventarse una).
func endTimeCompleto(av ReservaAvailability) string {
	if av.EndTime == "" {
		return ""
	}
	return av.StartDate + " " + av.EndTime
}

func (uc *ReserveSlotUseCase) mapOutcome(ctx context.Context, canon string, av ReservaAvailability, outcome *entity.ReservationOutcome, cached bool) (*ReservarOutput, error) {
	switch outcome.Status {
	case entity.ReservationConfirmed:
		// En el camino cacheado la cita ya quedó escrita la primera vez.
		if !cached {
			if cita, err := time.ParseInLocation("2006-01-02 15:04", av.StartDate+" "+av.StartTime, time.Local); err == nil {
				if lead, lerr := uc.LeadRepo.FindByPhone(ctx, canon); lerr == nil {
					if serr := uc.LeadRepo.SetCita(ctx, lead.ID, cita); serr != nil {
						log.Printf("⚠️ CRITICAL: cita %s confirmada pero no guardada en BD: %v",
							outcome.AppointmentID, serr)
					}
				}
			}
		}
		return &ReservarOutput{Success: true, AppointmentID: outcome.AppointmentID}, nil

	case entity.ReservationConflict:
		return nil, &DomainError{
			Code:    CodeReservationConflict,
			Message: "El hueco ya no está disponible",
		}

	case entity.ReservationRejected:
		return nil, &DomainError{
			Code:    CodeUpstreamError,
			Message: "La agenda rechazó la reserva: " + outcome.Reason,
		}

	default:
		return nil, &TechnicalError{
			Code:    CodeUpstreamError,
			Message: "error de la agenda externa",
		}
	}
}
