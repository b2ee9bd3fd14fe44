package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/xavierca1/citasalud/internal/infra/http/middleware"
	"github.com/xavierca1/citasalud/internal/usecase"
)

type OutcomeExecutor interface {
	Execute(ctx context.Context, payload usecase.OutcomePayload) (*usecase.UpdateOutcomeOutput, error)
}

// OutcomeHandler: POST /api/actualizar_resultado. Lo llama el dialer al
// terminar cada llamada.
type OutcomeHandler struct {
	UpdateOutcomeUC OutcomeExecutor
}

func NewOutcomeHandler(uc OutcomeExecutor) *OutcomeHandler {
	return &OutcomeHandler{UpdateOutcomeUC: uc}
}

func (h *OutcomeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var payload usecase.OutcomePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidationError, "JSON inválido")
		return
	}

	output, err := h.UpdateOutcomeUC.Execute(r.Context(), payload)
	if err != nil {
		middleware.RecordOutcome("error")
		writeError(w, err)
		return
	}

	middleware.RecordOutcome("ok")
	writeJSON(w, http.StatusOK, output)
}
