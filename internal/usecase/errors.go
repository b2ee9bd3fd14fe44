package usecase

// Códigos de error que la capa HTTP traduce a status codes.
const (
	CodeInvalidPhone        = "INVALID_PHONE"
	CodeNotFound            = "NOT_FOUND"
	CodeValidationError     = "VALIDATION_ERROR"
	CodeUpstreamError       = "UPSTREAM_ERROR"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeReservationConflict = "RESERVATION_CONFLICT"
	CodeInternalError       = "INTERNAL_ERROR"
)

// DomainError: error de negocio, seguro para devolver al cliente.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError: fallo de infraestructura. El mensaje va al log, nunca
// al cliente tal cual.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
