package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/citasalud/internal/config"
	"github.com/xavierca1/citasalud/internal/infra/cache"
	"github.com/xavierca1/citasalud/internal/infra/database"
	"github.com/xavierca1/citasalud/internal/infra/http/handlers"
	ownmw "github.com/xavierca1/citasalud/internal/infra/http/middleware"
	"github.com/xavierca1/citasalud/internal/infra/integration/agenda"
	"github.com/xavierca1/citasalud/internal/infra/mail"
	"github.com/xavierca1/citasalud/internal/infra/queue"
	"github.com/xavierca1/citasalud/internal/infra/worker"
	"github.com/xavierca1/citasalud/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Error de configuración: salida con código 1.
		log.Fatalf("❌ Configuración inválida: %v", err)
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ No se pudo conectar a Postgres: %v", err)
	}
	defer db.Close()

	// 1. Repositorio y caché
	leadRepo := database.NewLeadRepository(db)

	slotCache, err := cache.NewSlotCache(cfg.SlotCacheDir)
	if err != nil {
		log.Fatalf("❌ Caché de slots: %v", err)
	}

	// 2. Cliente de la agenda externa y registro de idempotencia
	agendaClient := agenda.NewClient(cfg.AgendaBaseURL, cfg.AgendaClientID, cfg.AgendaClientSecret)
	registry := usecase.NewReservaRegistry(cfg.ReservaDedupWindow)

	// 3. RabbitMQ (opcional: sin cola se sirve igual, sin reconciliación)
	var producer usecase.ReconciliationProducerInterface
	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
	if err != nil {
		log.Printf("⚠️ RabbitMQ no disponible, reconciliación desactivada: %v", err)
		rabbitMQ = nil
	} else {
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	}

	// 4. Email de avisos a operaciones (opcional)
	var alertas usecase.EmailService
	if cfg.MailHost != "" && cfg.OpsEmail != "" {
		alertas = mail.NewEmailSender(
			cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass,
			cfg.MailFrom, cfg.OpsEmail,
		)
	}

	// 5. Casos de uso
	updateOutcomeUC := usecase.NewUpdateOutcomeUseCase(
		leadRepo, slotCache, agendaClient, registry, producer, alertas,
		cfg.AgendaMemberID, cfg.AgendaAreaID, cfg.AgendaActivityID,
	)
	reserveSlotUC := usecase.NewReserveSlotUseCase(
		leadRepo, slotCache, agendaClient, registry, cfg.AgendaMemberID,
	)

	// 6. Workers
	if rabbitMQ != nil {
		reconWorker := queue.NewWorker(rabbitMQ.Ch, updateOutcomeUC)
		go reconWorker.Start(queue.QueueName)
	}

	housekeeping := worker.NewHousekeepingWorker(leadRepo)
	go housekeeping.Start(context.Background())

	// 7. Handlers
	outcomeHandler := handlers.NewOutcomeHandler(updateOutcomeUC)
	reservationHandler := handlers.NewReservationHandler(reserveSlotUC)
	slotsHandler := handlers.NewSlotsHandler(agendaClient, slotCache)

	var rabbitConn *amqp091.Connection
	if rabbitMQ != nil {
		rabbitConn = rabbitMQ.Conn
	}
	statusHandler := handlers.NewStatusHandler(db, rabbitConn)

	// 8. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(ownmw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Post("/api/actualizar_resultado", outcomeHandler.Handle)
	r.Post("/api/reservar", reservationHandler.Handle)
	r.Get("/api/obtener_slots", slotsHandler.Handle)
	r.Get("/api/status", statusHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	addr := ":" + cfg.Port
	log.Printf("🔥 CitaSalud escuchando en %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("❌ Servidor HTTP caído: %v", err)
	}
}
