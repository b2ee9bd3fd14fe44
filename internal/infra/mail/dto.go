package mail

type AlertaReservaData struct {
	Telefono     string
	FechaDeseada string
	Motivo       string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	OpsEmail string
}
