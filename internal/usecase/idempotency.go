package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/xavierca1/citasalud/internal/entity"
)

// IdempotencyKey identifica una reserva de forma estable: mismo teléfono
// + mismo hueco = misma clave, venga el teléfono en el formato que venga
// (por eso SIEMPRE se construye sobre el canónico).
func IdempotencyKey(phoneCanonical, startDate, startTime, resourceID string) string {
	h := sha256.Sum256([]byte(phoneCanonical + "|" + startDate + "|" + startTime + "|" + resourceID))
	return hex.EncodeToString(h[:])
}

// ReservaRegistry guarda en memoria el resultado de cada reserva durante
// una ventana corta. Un reintento con la misma clave dentro de la ventana
// devuelve el resultado cacheado en vez de volver a pegar al upstream.
// Es por-réplica y best-effort: la deduplicación fuerte la da la clave
// estable, no este registro.
type ReservaRegistry struct {
	mu      sync.Mutex
	entries map[string]*reservaEntry
	window  time.Duration
}

type reservaEntry struct {
	outcome *entity.ReservationOutcome
	at      time.Time
}

func NewReservaRegistry(window time.Duration) *ReservaRegistry {
	if window <= 0 {
		window = 60 * time.Second
	}
	r := &ReservaRegistry{
		entries: make(map[string]*reservaEntry),
		window:  window,
	}

	go r.cleanup()
	return r
}

// Cached devuelve el resultado previo si la clave sigue dentro de la ventana.
func (r *ReservaRegistry) Cached(key string) (*entity.ReservationOutcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.at) > r.window {
		delete(r.entries, key)
		return nil, false
	}
	return e.outcome, true
}

func (r *ReservaRegistry) Store(key string, outcome *entity.ReservationOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = &reservaEntry{outcome: outcome, at: time.Now()}
}

func (r *ReservaRegistry) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for key, e := range r.entries {
			if now.Sub(e.at) > r.window*2 {
				delete(r.entries, key)
			}
		}
		r.mu.Unlock()
	}
}
