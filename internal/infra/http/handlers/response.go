package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/citasalud/internal/infra/integration/agenda"
	"github.com/xavierca1/citasalud/internal/usecase"
)

type errorResponse struct {
	Success   bool   `json:"success"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Success:   false,
		ErrorCode: code,
		Message:   message,
	})
}

var statusPorCodigo = map[string]int{
	usecase.CodeInvalidPhone:        http.StatusBadRequest,
	usecase.CodeValidationError:     http.StatusBadRequest,
	usecase.CodeNotFound:            http.StatusNotFound,
	usecase.CodeReservationConflict: http.StatusConflict,
	usecase.CodeUpstreamError:       http.StatusBadGateway,
	usecase.CodeUpstreamUnavailable: http.StatusServiceUnavailable,
	usecase.CodeInternalError:       http.StatusInternalServerError,
}

// writeError mapea errores tipados a HTTP. El mensaje de un DomainError
// es apto para el usuario; de todo lo demás solo sale un genérico y el
// detalle se queda en el log (nunca stack traces al cliente).
func writeError(w http.ResponseWriter, err error) {
	var domErr *usecase.DomainError
	if errors.As(err, &domErr) {
		status, ok := statusPorCodigo[domErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		writeErrorResponse(w, status, domErr.Code, domErr.Message)
		return
	}

	var techErr *usecase.TechnicalError
	if errors.As(err, &techErr) {
		status, ok := statusPorCodigo[techErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		log.Printf("❌ Error técnico: %v", err)
		writeErrorResponse(w, status, techErr.Code, "Ha ocurrido un error, inténtelo de nuevo más tarde")
		return
	}

	if errors.Is(err, agenda.ErrUpstreamUnavailable) {
		writeErrorResponse(w, http.StatusServiceUnavailable, usecase.CodeUpstreamUnavailable,
			"La agenda externa no está disponible")
		return
	}

	var stErr *agenda.StatusError
	if errors.As(err, &stErr) {
		log.Printf("❌ Error de la agenda externa: %v", err)
		writeErrorResponse(w, http.StatusBadGateway, usecase.CodeUpstreamError,
			"La agenda externa ha devuelto un error")
		return
	}

	log.Printf("❌ Error no tipado: %v", err)
	writeErrorResponse(w, http.StatusInternalServerError, usecase.CodeInternalError,
		"Ha ocurrido un error, inténtelo de nuevo más tarde")
}
