package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/citasalud/internal/entity"
	"github.com/xavierca1/citasalud/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByPhone(ctx context.Context, phoneCanonical string) (*entity.Lead, error) {
	args := m.Called(ctx, phoneCanonical)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ApplyOutcome(ctx context.Context, phoneCanonical string, change entity.OutcomeChange) (*entity.OutcomeResult, error) {
	args := m.Called(ctx, phoneCanonical, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OutcomeResult), args.Error(1)
}

func (m *MockLeadRepository) SetCita(ctx context.Context, leadID int64, cita time.Time) error {
	args := m.Called(ctx, leadID, cita)
	return args.Error(0)
}

func (m *MockLeadRepository) FixSelectedStatus(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockSlotCache
type MockSlotCache struct {
	mock.Mock
}

func (m *MockSlotCache) Put(phoneCanonical string, slots []entity.SlotCandidate) error {
	args := m.Called(phoneCanonical, slots)
	return args.Error(0)
}

func (m *MockSlotCache) Get(phoneCanonical string) (*entity.SlotCacheEntry, error) {
	args := m.Called(phoneCanonical)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SlotCacheEntry), args.Error(1)
}

// MockAgendaClient
type MockAgendaClient struct {
	mock.Mock
}

func (m *MockAgendaClient) GetAvailabilities(ctx context.Context, areaID, activityID, startDate string) ([]entity.SlotCandidate, error) {
	args := m.Called(ctx, areaID, activityID, startDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SlotCandidate), args.Error(1)
}

func (m *MockAgendaClient) CreateReservation(ctx context.Context, req entity.ReservationRequest) (*entity.ReservationOutcome, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReservationOutcome), args.Error(1)
}

// MockReconciliationProducer
type MockReconciliationProducer struct {
	mock.Mock
}

func (m *MockReconciliationProducer) PublishReconciliation(ctx context.Context, payload queue.ReconciliationPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// ============ TESTS ============

func nuevoUpdateOutcomeUC(repo *MockLeadRepository, cache *MockSlotCache, agenda *MockAgendaClient, producer *MockReconciliationProducer) *UpdateOutcomeUseCase {
	var p ReconciliationProducerInterface
	if producer != nil {
		p = producer
	}
	return NewUpdateOutcomeUseCase(
		repo, cache, agenda, NewReservaRegistry(time.Minute), p, nil,
		"member-1", "area-1", "act-1",
	)
}

// Escenario S1: "No interesado" con código otros
func TestUpdateOutcomeNoInteresado(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)

	repo.On("ApplyOutcome", ctx, "630474787", entity.OutcomeChange{
		StatusLevel1: entity.StatusNoInteresado,
		StatusLevel2: "No da motivos",
	}).Return(&entity.OutcomeResult{LeadID: 42, Updated: true}, nil)

	uc := nuevoUpdateOutcomeUC(repo, new(MockSlotCache), new(MockAgendaClient), nil)

	out, err := uc.Execute(ctx, OutcomePayload{
		Telefono:        "630474787",
		NoInteresado:    true,
		CodigoNoInteres: "otros",
	})

	assert.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, int64(42), out.LeadID)
	repo.AssertExpectations(t)
}

// Escenario S2: "Volver a llamar" por interrupción
func TestUpdateOutcomeVolverALlamar(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)

	repo.On("ApplyOutcome", ctx, "615029152", entity.OutcomeChange{
		StatusLevel1: entity.StatusVolverALlamar,
		StatusLevel2: "no disponible cliente",
	}).Return(&entity.OutcomeResult{LeadID: 7, Updated: true}, nil)

	uc := nuevoUpdateOutcomeUC(repo, new(MockSlotCache), new(MockAgendaClient), nil)

	out, err := uc.Execute(ctx, OutcomePayload{
		Telefono:           "615029152",
		VolverALlamar:      true,
		CodigoVolverLlamar: "interrupcion",
	})

	assert.NoError(t, err)
	assert.True(t, out.Success)
	repo.AssertExpectations(t)
}

func TestUpdateOutcomeTelefonoInvalido(t *testing.T) {
	uc := nuevoUpdateOutcomeUC(new(MockLeadRepository), new(MockSlotCache), new(MockAgendaClient), nil)

	_, err := uc.Execute(context.Background(), OutcomePayload{Telefono: "1234"})

	domErr, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeInvalidPhone, domErr.Code)
}

func TestUpdateOutcomeLeadNoEncontrado(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	repo.On("ApplyOutcome", ctx, "630474787", mock.Anything).Return(nil, entity.ErrLeadNotFound)

	uc := nuevoUpdateOutcomeUC(repo, new(MockSlotCache), new(MockAgendaClient), nil)

	_, err := uc.Execute(ctx, OutcomePayload{Telefono: "630474787", NoInteresado: true})

	domErr, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, domErr.Code)
}

// El teléfono llega con prefijo internacional: se persiste y se reserva
// con el canónico.
func TestUpdateOutcomeCanonizaTelefono(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)

	repo.On("ApplyOutcome", ctx, "673213075", mock.Anything).
		Return(&entity.OutcomeResult{LeadID: 9, Updated: true}, nil)

	uc := nuevoUpdateOutcomeUC(repo, new(MockSlotCache), new(MockAgendaClient), nil)

	_, err := uc.Execute(ctx, OutcomePayload{Telefono: "+34 673 213 075", NoInteresado: true})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

// Escenario S3/S4: cita agendada → consulta disponibilidad, reserva y fija cita
func TestUpdateOutcomeConReserva(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	cache := new(MockSlotCache)
	agenda := new(MockAgendaClient)

	repo.On("ApplyOutcome", ctx, "673213075", entity.OutcomeChange{
		StatusLevel1: entity.StatusCitaAgendada,
		StatusLevel2: "Sin Pack",
	}).Return(&entity.OutcomeResult{LeadID: 11, Updated: true}, nil)

	// sin caché previa → consulta la agenda
	cache.On("Get", "673213075").Return(nil, nil)
	slots := []entity.SlotCandidate{
		{StartDate: "2025-09-26", StartTime: "16:00", EndTime: "16:30", ResourceID: "res-2", ActivityID: "act-1", AreaID: "area-1"},
		{StartDate: "2025-09-26", StartTime: "10:30", EndTime: "11:00", ResourceID: "res-1", ActivityID: "act-1", AreaID: "area-1"},
	}
	agenda.On("GetAvailabilities", ctx, "area-1", "act-1", "2025-09-26").Return(slots, nil)
	cache.On("Put", "673213075", slots).Return(nil)

	// preferencia morning → elige el de las 10:30
	agenda.On("CreateReservation", ctx, mock.MatchedBy(func(req entity.ReservationRequest) bool {
		return req.StartTime == "2025-09-26 10:30" && req.ResourceID == "res-1" && req.EndTime == ""
	})).Return(&entity.ReservationOutcome{
		Status:        entity.ReservationConfirmed,
		AppointmentID: "apt-55",
	}, nil)

	citaEsperada, _ := time.ParseInLocation("2006-01-02 15:04", "2025-09-26 10:30", time.Local)
	repo.On("SetCita", ctx, int64(11), citaEsperada).Return(nil)

	uc := nuevoUpdateOutcomeUC(repo, cache, agenda, nil)

	out, err := uc.Execute(ctx, OutcomePayload{
		Telefono:      "673213075",
		FechaDeseada:  "26-09-2025",
		PreferenciaMT: "morning",
		CallResult:    "Cita agendada",
	})

	assert.NoError(t, err)
	assert.True(t, out.Success)
	repo.AssertExpectations(t)
	agenda.AssertExpectations(t)
	cache.AssertExpectations(t)
}

// La reserva falla → el resultado queda registrado igualmente y se
// encola la reconciliación.
func TestUpdateOutcomeReservaFallidaEncola(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	cache := new(MockSlotCache)
	agenda := new(MockAgendaClient)
	producer := new(MockReconciliationProducer)

	repo.On("ApplyOutcome", ctx, "673213075", mock.Anything).
		Return(&entity.OutcomeResult{LeadID: 11, Updated: true}, nil)

	cache.On("Get", "673213075").Return(nil, nil)
	// la agenda no tiene nada ese día
	agenda.On("GetAvailabilities", ctx, "area-1", "act-1", "2025-09-26").
		Return([]entity.SlotCandidate{}, nil)
	cache.On("Put", "673213075", mock.Anything).Return(nil)

	producer.On("PublishReconciliation", ctx, mock.MatchedBy(func(p queue.ReconciliationPayload) bool {
		return p.LeadID == 11 && p.PhoneCanonical == "673213075" && p.Origin == "OUTCOME_INTAKE"
	})).Return(nil)

	uc := nuevoUpdateOutcomeUC(repo, cache, agenda, producer)

	out, err := uc.Execute(ctx, OutcomePayload{
		Telefono:      "673213075",
		FechaDeseada:  "2025-09-26",
		PreferenciaMT: "morning",
		Interesado:    true,
	})

	// el intake responde OK: el lead quedó "Cita Agendada" sin cita
	assert.NoError(t, err)
	assert.True(t, out.Success)
	producer.AssertExpectations(t)
	repo.AssertNotCalled(t, "SetCita", mock.Anything, mock.Anything, mock.Anything)
}

// El camino del worker de reconciliación no re-encola al fallar.
func TestReattemptReservationNoReencola(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	cache := new(MockSlotCache)
	agenda := new(MockAgendaClient)
	producer := new(MockReconciliationProducer)

	cache.On("Get", "673213075").Return(nil, nil)
	agenda.On("GetAvailabilities", ctx, "area-1", "act-1", "2025-09-26").
		Return([]entity.SlotCandidate{}, nil)
	cache.On("Put", "673213075", mock.Anything).Return(nil)

	uc := nuevoUpdateOutcomeUC(repo, cache, agenda, producer)

	err := uc.ReattemptReservation(ctx, queue.ReconciliationPayload{
		LeadID:         11,
		PhoneCanonical: "673213075",
		FechaDeseada:   "2025-09-26",
		PreferenciaMT:  "morning",
	})

	assert.Error(t, err)
	producer.AssertNotCalled(t, "PublishReconciliation", mock.Anything, mock.Anything)
}
