package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from, opsEmail string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		OpsEmail: opsEmail,
	}
}

var alertaTmpl = template.Must(template.New("alerta").Parse(
	`Un lead ha quedado en "Cita Agendada" sin cita real en la agenda.

Teléfono:      {{.Telefono}}
Fecha deseada: {{.FechaDeseada}}
Motivo:        {{.Motivo}}

Hay un reintento automático en cola; si vuelve a fallar, revisar la DLQ
y agendar la cita a mano.
`))

// SendAlertaReserva avisa a operaciones de una reserva fallida tras un
// resultado positivo. Best-effort: quien llama no debe bloquearse por esto.
func (s *EmailSender) SendAlertaReserva(phoneCanonical, fecha, motivo string) error {
	data := AlertaReservaData{
		Telefono:     phoneCanonical,
		FechaDeseada: fecha,
		Motivo:       motivo,
	}

	var body bytes.Buffer
	if err := alertaTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("error al montar el aviso: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.OpsEmail)
	m.SetHeader("Subject", fmt.Sprintf("⚠️ Reserva fallida para el teléfono %s", phoneCanonical))
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("error al enviar email SMTP: %w", err)
	}

	return nil
}
