package main

import (
	"context"

	"mensa/internal/reservations/handler"
	"mensa/internal/reservations/repository"
	"mensa/internal/reservations/service"
	"mensa/internal/reservations/validator"
	"mensa/pkg/app"
	"mensa/pkg/config"
	mongotx "mensa/pkg/db/mongo"
	"mensa/pkg/kafka"
	kafka_config "mensa/pkg/kafka/config"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")
	reservationService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewReservationHandler(reservationService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ReservationService {
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	packageRepo := repository.NewMongoPackageRepository(cfg)
	studentRepo := repository.NewMongoStudentRepository(cfg)
	employeeRepo := repository.NewMongoEmployeeRepository(cfg)
	txManager := mongotx.NewTransactionManager(cfg.Client.Mongo)

	if err := packageRepo.EnsureIndexes(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to ensure package indexes", "error", err)
	}

	var events service.EventPublisher
	if cfg.KafkaEnabled {
		producer, err := kafka.NewProducer(kafka_config.Load(), cfg.EventTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		events = producer
		cfg.Log.Info("Kafka event publishing enabled", "topic", cfg.EventTopic)
	}

	reservationService := service.NewReservationService(
		packageRepo,
		studentRepo,
		employeeRepo,
		reservationValidator,
		txManager,
		events,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}
