package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/citasalud/internal/entity"
	"github.com/xavierca1/citasalud/internal/phone"
)

// La clave es estable: mismo teléfono (en cualquier formato, una vez
// canonizado) + mismo hueco = misma clave.
func TestIdempotencyKeyEstable(t *testing.T) {
	c1, _ := phone.Canonicalise("+34629203315")
	c2, _ := phone.Canonicalise("34629203315")

	k1 := IdempotencyKey(c1, "2025-09-26", "10:30", "res-1")
	k2 := IdempotencyKey(c2, "2025-09-26", "10:30", "res-1")
	assert.Equal(t, k1, k2)

	// cualquier componente distinto cambia la clave
	assert.NotEqual(t, k1, IdempotencyKey(c1, "2025-09-27", "10:30", "res-1"))
	assert.NotEqual(t, k1, IdempotencyKey(c1, "2025-09-26", "11:00", "res-1"))
	assert.NotEqual(t, k1, IdempotencyKey(c1, "2025-09-26", "10:30", "res-2"))
}

func TestReservaRegistryCache(t *testing.T) {
	reg := NewReservaRegistry(time.Minute)

	_, ok := reg.Cached("clave")
	assert.False(t, ok)

	outcome := &entity.ReservationOutcome{
		Status:        entity.ReservationConfirmed,
		AppointmentID: "apt-1",
	}
	reg.Store("clave", outcome)

	cached, ok := reg.Cached("clave")
	assert.True(t, ok)
	assert.Equal(t, outcome, cached)
}

func TestReservaRegistryVentana(t *testing.T) {
	reg := NewReservaRegistry(30 * time.Millisecond)

	reg.Store("clave", &entity.ReservationOutcome{Status: entity.ReservationConflict})

	_, ok := reg.Cached("clave")
	assert.True(t, ok)

	time.Sleep(50 * time.Millisecond)

	// fuera de ventana: el resultado ya no se reutiliza
	_, ok = reg.Cached("clave")
	assert.False(t, ok)
}
