package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ReservaReattempter define el contrato del reintento de reserva. Lo
// implementa el caso de uso; el worker no sabe nada de base de datos.
type ReservaReattempter interface {
	ReattemptReservation(ctx context.Context, payload ReconciliationPayload) error
}

type Worker struct {
	Channel  *amqp.Channel
	Reservas ReservaReattempter
}

func NewWorker(ch *amqp.Channel, reservas ReservaReattempter) *Worker {
	return &Worker{
		Channel:  ch,
		Reservas: reservas,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // cola
		"",        // consumer
		false,     // auto-ack (manual, más seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Fallo al registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload ReconciliationPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON inválido: %s", err)
				// Mensaje malformado: fuera, sin requeue, que no atasque la cola.
				d.Nack(false, false)
				continue
			}

			log.Printf("⚙️ [WORKER] Reintentando reserva para lead %d (tel %s, fecha %s)",
				payload.LeadID, payload.PhoneCanonical, payload.FechaDeseada)

			if err := w.Reservas.ReattemptReservation(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] Reintento fallido: %s", err)
				// Sin requeue: el tope es un reintento, después DLQ.
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] Cita enganchada para lead %d", payload.LeadID)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker de reconciliación escuchando en la cola '%s'", queueName)
	<-forever
}
