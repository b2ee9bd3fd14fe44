package handlers

import (
	"log"
	"net/http"

	"github.com/xavierca1/citasalud/internal/infra/http/middleware"
	"github.com/xavierca1/citasalud/internal/phone"
	"github.com/xavierca1/citasalud/internal/usecase"
)

// SlotsHandler: GET /api/obtener_slots?areaId=..&activityId=..&startDate=..
// Proxy de disponibilidad para el front. Si además viene ?phone=, el
// resultado se deja en la caché de slots de ese teléfono para que la
// reserva posterior pueda hidratarse de ahí.
type SlotsHandler struct {
	Agenda usecase.AgendaClientInterface
	Cache  usecase.SlotCacheInterface
}

func NewSlotsHandler(agenda usecase.AgendaClientInterface, cache usecase.SlotCacheInterface) *SlotsHandler {
	return &SlotsHandler{Agenda: agenda, Cache: cache}
}

func (h *SlotsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	areaID := r.URL.Query().Get("areaId")
	activityID := r.URL.Query().Get("activityId")
	startDate := r.URL.Query().Get("startDate")

	if areaID == "" || activityID == "" || startDate == "" {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidationError,
			"areaId, activityId y startDate son obligatorios")
		return
	}

	slots, err := h.Agenda.GetAvailabilities(r.Context(), areaID, activityID, startDate)
	if err != nil {
		middleware.RecordUpstreamError("agenda")
		writeError(w, err)
		return
	}

	if raw := r.URL.Query().Get("phone"); raw != "" {
		if canon, perr := phone.Canonicalise(raw); perr == nil {
			if cerr := h.Cache.Put(canon, slots); cerr != nil {
				log.Printf("⚠️ No se pudo cachear los slots de %s: %v", canon, cerr)
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"slots":   slots,
	})
}
