package usecase

import "github.com/xavierca1/citasalud/internal/entity"

// OutcomePayload es lo que manda el dialer tras cada llamada. Todos los
// campos son opcionales; el teléfono lo valida el intake, no el clasificador.
type OutcomePayload struct {
	Telefono    string `json:"telefono"`
	PhoneNumber string `json:"phoneNumber"` // alias que usa el dialer viejo

	NoInteresado  bool `json:"noInteresado"`
	VolverALlamar bool `json:"volverALlamar"`
	NumeroErroneo bool `json:"numeroErroneo"`
	Interesado    bool `json:"interesado"`
	ConPack       bool `json:"conPack"`

	CallResult         string `json:"callResult"`
	CodigoNoInteres    string `json:"codigoNoInteres"`
	RazonNoInteres     string `json:"razonNoInteres"`
	CodigoVolverLlamar string `json:"codigoVolverLlamar"`
	RazonVolverLlamar  string `json:"razonVolverLlamar"`

	FechaDeseada  string `json:"fechaDeseada"`
	PreferenciaMT string `json:"preferenciaMT"` // morning | afternoon
}

// Phone devuelve el teléfono venga en el campo que venga.
func (p OutcomePayload) Phone() string {
	if p.Telefono != "" {
		return p.Telefono
	}
	return p.PhoneNumber
}

// Classification es el resultado del clasificador. Nivel 1/2 vacíos
// significan "no tocar el status, solo registrar el intento".
type Classification struct {
	StatusLevel1     string
	StatusLevel2     string
	WantsReservation bool
}

func (c Classification) Empty() bool {
	return c.StatusLevel1 == ""
}

// Motivos cerrados de "No Interesado" por código del dialer.
var motivosNoInteres = map[string]string{
	"otros":        "No da motivos",
	"cliente":      "Ya es cliente",
	"tiene_seguro": "Ya tiene seguro",
	"descontento":  "Descontento con seguro",
}

// Sub-motivos de "Volver a llamar" por código del dialer.
var motivosVolverLlamar = map[string]string{
	"interrupcion":     "no disponible cliente",
	"buzon":            "buzón",
	"no_contesta":      "no contesta",
	"cortado":          "cortado",
	"llamar_mas_tarde": "llamar más tarde",
}

// Classify mapea el payload del dialer al par (status_level_1,
// status_level_2) con prioridad fija: los resultados negativos pisan a
// las señales positivas, gana la primera regla que aplica. Nunca falla:
// códigos desconocidos caen al motivo por defecto de su categoría.
//
// Ojo con conPack: por defecto es Sin Pack. Que venga fechaDeseada NO
// implica Con Pack (ese bug llegó a producción).
func Classify(p OutcomePayload) Classification {
	switch {
	case p.NumeroErroneo:
		return Classification{StatusLevel1: entity.StatusNumeroErroneo}

	case p.NoInteresado:
		motivo, ok := motivosNoInteres[p.CodigoNoInteres]
		if !ok {
			motivo = "No da motivos"
		}
		return Classification{
			StatusLevel1: entity.StatusNoInteresado,
			StatusLevel2: motivo,
		}

	case p.VolverALlamar:
		motivo, ok := motivosVolverLlamar[p.CodigoVolverLlamar]
		if !ok {
			motivo = "no disponible cliente"
		}
		return Classification{
			StatusLevel1: entity.StatusVolverALlamar,
			StatusLevel2: motivo,
		}

	case p.Interesado || p.CallResult == "Cita agendada" ||
		(p.FechaDeseada != "" && p.PreferenciaMT != ""):
		pack := "Sin Pack"
		if p.ConPack {
			pack = "Con Pack"
		}
		return Classification{
			StatusLevel1:     entity.StatusCitaAgendada,
			StatusLevel2:     pack,
			WantsReservation: true,
		}
	}

	// Sin señal clara: solo metadata (intento de llamada).
	return Classification{}
}
