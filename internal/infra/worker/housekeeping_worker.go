package worker

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/citasalud/internal/entity"
)

// HousekeepingWorker pasa periódicamente la escoba por la tabla de leads:
// los que la UI de selección dejó en "selected" pero ya tienen resultado
// terminal vuelven a "open". Sustituye al par de scripts fix/undo que
// corrían por cron.
type HousekeepingWorker struct {
	repo         entity.LeadRepositoryInterface
	tickInterval time.Duration
}

func NewHousekeepingWorker(repo entity.LeadRepositoryInterface) *HousekeepingWorker {
	return &HousekeepingWorker{
		repo:         repo,
		tickInterval: 5 * time.Minute,
	}
}

func (w *HousekeepingWorker) Start(ctx context.Context) {
	log.Println("🧹 Housekeeping de leads iniciado (cada 5 min)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.run(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Housekeeping de leads parado")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *HousekeepingWorker) run(ctx context.Context) {
	n, err := w.repo.FixSelectedStatus(ctx)
	if err != nil {
		log.Printf("❌ Error en fix de leads 'selected': %v", err)
		return
	}
	if n > 0 {
		log.Printf("✅ %d lead(s) devueltos de 'selected' a 'open'", n)
	}
}
