package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCanonicaliseEquivalencia - mismo número en cualquier formato, misma clave
func TestCanonicaliseEquivalencia(t *testing.T) {
	formatos := []string{
		"+34 629 203 315",
		"+34629203315",
		"34629203315",
		"629203315",
		"629-203-315",
		"(629) 203 315",
	}

	for _, f := range formatos {
		canon, err := Canonicalise(f)
		assert.NoError(t, err, f)
		assert.Equal(t, "629203315", canon, f)
	}
}

func TestCanonicaliseIdempotente(t *testing.T) {
	canon, err := Canonicalise("+34 630 474 787")
	assert.NoError(t, err)
	assert.Len(t, canon, 9)

	otraVez, err := Canonicalise(canon)
	assert.NoError(t, err)
	assert.Equal(t, canon, otraVez)
}

func TestCanonicaliseSiempreNueveDigitos(t *testing.T) {
	casos := []string{
		"0034 615 029 152",
		"615029152",
		"+34-615-02-91-52",
		"whatsapp: +34615029152",
	}

	for _, c := range casos {
		canon, err := Canonicalise(c)
		assert.NoError(t, err, c)
		assert.Len(t, canon, 9, c)
		for _, r := range canon {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}

func TestCanonicaliseInvalido(t *testing.T) {
	casos := []string{
		"",
		"12345678", // 8 dígitos
		"telefono",
		"+34 1234",
	}

	for _, c := range casos {
		_, err := Canonicalise(c)
		assert.ErrorIs(t, err, ErrInvalidPhone, c)
	}
}
