package phone

import (
	"errors"
	"strings"
)

// ErrInvalidPhone: el número no tiene suficientes dígitos para obtener
// una clave canónica.
var ErrInvalidPhone = errors.New("teléfono inválido: se necesitan al menos 9 dígitos")

// Canonicalise reduce cualquier formato de teléfono a la clave canónica
// de 9 dígitos: quita todo lo que no sea dígito y se queda con los 9
// últimos. "+34 629 203 315", "34629203315" y "629203315" producen la
// misma clave. Es idempotente.
//
// Toda clave de lookup y todo nombre de fichero de caché DEBE salir de
// aquí: dos formatos del mismo número generando dos claves fue un bug
// real en producción.
func Canonicalise(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 9 {
		return "", ErrInvalidPhone
	}
	return digits[len(digits)-9:], nil
}
