package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/xavierca1/citasalud/internal/infra/http/middleware"
	"github.com/xavierca1/citasalud/internal/usecase"
)

type ReservaExecutor interface {
	Execute(ctx context.Context, input usecase.ReservarInput) (*usecase.ReservarOutput, error)
}

// ReservationHandler: POST /api/reservar. Lo llama el front para
// confirmar un hueco que ya se le ofreció.
type ReservationHandler struct {
	ReserveSlotUC ReservaExecutor
}

func NewReservationHandler(uc ReservaExecutor) *ReservationHandler {
	return &ReservationHandler{ReserveSlotUC: uc}
}

func (h *ReservationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.ReservarInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidationError, "JSON inválido")
		return
	}

	output, err := h.ReserveSlotUC.Execute(r.Context(), input)
	if err != nil {
		middleware.RecordReservation("error")
		writeError(w, err)
		return
	}

	middleware.RecordReservation("ok")
	writeJSON(w, http.StatusOK, output)
}
