package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/agendafacil/agendafacil-backend/internal/api"
	"github.com/agendafacil/agendafacil-backend/internal/auth"
	"github.com/agendafacil/agendafacil-backend/internal/booking"
	"github.com/agendafacil/agendafacil-backend/internal/client"
	"github.com/agendafacil/agendafacil-backend/internal/notification/whatsapp"
	"github.com/agendafacil/agendafacil-backend/internal/pkg/storage"
	"github.com/agendafacil/agendafacil-backend/internal/professional"
	"github.com/agendafacil/agendafacil-backend/internal/servicetype"
	"github.com/agendafacil/agendafacil-backend/internal/timeslot"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	DBPool            *pgxpool.Pool
	JWTSecret         string
	JWTTTL            time.Duration
	BcryptCost        int
	Storage           storage.Storage
	CountryCode       string
	BookingWindowDays int
	Logger            *zap.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Professional module
	professionalRepo := professional.NewPgxRepository(cfg.DBPool)
	professionalService := professional.NewService(professionalRepo, passwordHasher, cfg.Storage)

	// Client module
	clientRepo := client.NewPgxRepository(cfg.DBPool)
	clientService := client.NewService(clientRepo)

	// ServiceType module
	serviceTypeRepo := servicetype.NewPgxRepository(cfg.DBPool)
	serviceTypeService := servicetype.NewService(serviceTypeRepo)

	// TimeSlot module
	timeSlotRepo := timeslot.NewPgxRepository(cfg.DBPool)
	timeSlotService := timeslot.NewService(timeSlotRepo)

	// Notification dispatcher
	notifier := whatsapp.NewDispatcher(cfg.CountryCode, cfg.Logger)

	// Booking module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(
		bookingRepo,
		timeSlotService,
		serviceTypeService,
		professionalService,
		clientService,
		notifier,
		cfg.Logger,
	)

	router := api.NewRouter(api.Config{
		IsProduction:      cfg.IsProduction,
		ProdOrigins:       cfg.ProdOrigins,
		CountryCode:       cfg.CountryCode,
		BookingWindowDays: cfg.BookingWindowDays,

		ProfessionalService: professionalService,
		ClientService:       clientService,
		ServiceTypeService:  serviceTypeService,
		TimeSlotService:     timeSlotService,
		BookingService:      bookingService,

		JWTManager: jwtManager,
		Logger:     cfg.Logger,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
