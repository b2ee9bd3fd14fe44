package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xavierca1/citasalud/internal/entity"
)

// SlotCache guarda en disco el último resultado de disponibilidad por
// teléfono. Es local a la réplica y best-effort: una entrada que falta o
// no parsea se trata como miss y se re-consulta la agenda.
//
// El nombre del fichero sale EXCLUSIVAMENTE del teléfono canónico de 9
// dígitos. Con el teléfono sin canonizar llegamos a tener dos ficheros
// para el mismo cliente.
type SlotCache struct {
	Dir string
}

func NewSlotCache(dir string) (*SlotCache, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "citasalud-slots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("no se pudo crear el directorio de caché: %w", err)
	}
	return &SlotCache{Dir: dir}, nil
}

func (c *SlotCache) path(phoneCanonical string) string {
	return filepath.Join(c.Dir, "slots_"+phoneCanonical+".json")
}

// Put escribe la entrada de forma atómica (fichero temporal + rename):
// dos escritores concurrentes para el mismo teléfono dejan la versión
// del último, nunca un fichero a medias.
func (c *SlotCache) Put(phoneCanonical string, slots []entity.SlotCandidate) error {
	entry := entity.SlotCacheEntry{
		PhoneCanonical: phoneCanonical,
		Slots:          slots,
		CreatedAt:      time.Now(),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.Dir, "slots_*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), c.path(phoneCanonical))
}

// Get devuelve (nil, nil) si no hay entrada o no se puede leer.
func (c *SlotCache) Get(phoneCanonical string) (*entity.SlotCacheEntry, error) {
	data, err := os.ReadFile(c.path(phoneCanonical))
	if err != nil {
		return nil, nil
	}

	var entry entity.SlotCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Entrada corrupta: miss. Se sobreescribirá en el próximo Put.
		return nil, nil
	}
	return &entry, nil
}
