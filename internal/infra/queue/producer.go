package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ReconciliationPayload: un lead quedó marcado "Cita Agendada" pero la
// reserva contra la agenda falló. El consumidor reintenta la reserva una
// vez; si vuelve a fallar el mensaje acaba en la DLQ y lo cuadra operaciones.
type ReconciliationPayload struct {
	MessageID      string    `json:"message_id"`
	LeadID         int64     `json:"lead_id"`
	PhoneCanonical string    `json:"phone_canonical"`
	FechaDeseada   string    `json:"fecha_deseada"`
	PreferenciaMT  string    `json:"preferencia_mt"`
	Motivo         string    `json:"motivo"`
	Origin         string    `json:"origin"`
	IntentadoEn    time.Time `json:"intentado_en"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishReconciliation(ctx context.Context, payload ReconciliationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error al serializar payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensaje durable en disco
		},
	)
	if err != nil {
		return fmt.Errorf("fallo al publicar en RabbitMQ: %w", err)
	}

	return nil
}
