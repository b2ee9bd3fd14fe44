package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/citasalud/internal/entity"
)

func TestSlotCacheRoundtrip(t *testing.T) {
	c, err := NewSlotCache(t.TempDir())
	assert.NoError(t, err)

	slots := []entity.SlotCandidate{
		{StartDate: "2025-09-26", StartTime: "10:30", EndTime: "11:00", ResourceID: "res-1", ActivityID: "act-1", AreaID: "area-1"},
		{StartDate: "2025-09-26", StartTime: "16:00", EndTime: "16:30", ResourceID: "res-2", ActivityID: "act-1", AreaID: "area-1"},
	}

	assert.NoError(t, c.Put("629203315", slots))

	entry, err := c.Get("629203315")
	assert.NoError(t, err)
	assert.NotNil(t, entry)
	assert.Equal(t, "629203315", entry.PhoneCanonical)
	assert.Equal(t, slots, entry.Slots)
	assert.False(t, entry.CreatedAt.IsZero())

	// el fichero cuelga del teléfono canónico
	_, err = os.Stat(filepath.Join(c.Dir, "slots_629203315.json"))
	assert.NoError(t, err)
}

// Put sobreescribe la entrada completa: la consulta anterior no se mezcla
// con la nueva.
func TestSlotCacheSobreescribe(t *testing.T) {
	c, _ := NewSlotCache(t.TempDir())

	assert.NoError(t, c.Put("629203315", []entity.SlotCandidate{
		{StartDate: "2025-09-26", StartTime: "10:30", ResourceID: "res-1"},
	}))
	assert.NoError(t, c.Put("629203315", []entity.SlotCandidate{
		{StartDate: "2025-09-27", StartTime: "09:00", ResourceID: "res-9"},
	}))

	entry, err := c.Get("629203315")
	assert.NoError(t, err)
	assert.Len(t, entry.Slots, 1)
	assert.Equal(t, "2025-09-27", entry.Slots[0].StartDate)
}

func TestSlotCacheMiss(t *testing.T) {
	c, _ := NewSlotCache(t.TempDir())

	entry, err := c.Get("615029152")
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

// Una entrada corrupta en disco es un miss, nunca un error.
func TestSlotCacheEntradaCorrupta(t *testing.T) {
	c, _ := NewSlotCache(t.TempDir())

	path := filepath.Join(c.Dir, "slots_615029152.json")
	assert.NoError(t, os.WriteFile(path, []byte("{esto no es json"), 0o644))

	entry, err := c.Get("615029152")
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestSlotCacheDirPorDefecto(t *testing.T) {
	c, err := NewSlotCache("")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(os.TempDir(), "citasalud-slots"), c.Dir)
}

// Teléfonos distintos no pisan la entrada del otro.
func TestSlotCachePorTelefono(t *testing.T) {
	c, _ := NewSlotCache(t.TempDir())

	assert.NoError(t, c.Put("629203315", []entity.SlotCandidate{{StartDate: "2025-09-26"}}))
	assert.NoError(t, c.Put("615029152", []entity.SlotCandidate{{StartDate: "2025-09-27"}}))

	a, _ := c.Get("629203315")
	b, _ := c.Get("615029152")
	assert.Equal(t, "2025-09-26", a.Slots[0].StartDate)
	assert.Equal(t, "2025-09-27", b.Slots[0].StartDate)
}
