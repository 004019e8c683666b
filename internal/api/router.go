package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agendafacil/agendafacil-backend/internal/auth"
	"github.com/agendafacil/agendafacil-backend/internal/booking"
	bookingHttp "github.com/agendafacil/agendafacil-backend/internal/booking/http"
	"github.com/agendafacil/agendafacil-backend/internal/client"
	clientHttp "github.com/agendafacil/agendafacil-backend/internal/client/http"
	"github.com/agendafacil/agendafacil-backend/internal/professional"
	professionalHttp "github.com/agendafacil/agendafacil-backend/internal/professional/http"
	"github.com/agendafacil/agendafacil-backend/internal/servicetype"
	servicetypeHttp "github.com/agendafacil/agendafacil-backend/internal/servicetype/http"
	"github.com/agendafacil/agendafacil-backend/internal/timeslot"
	timeslotHttp "github.com/agendafacil/agendafacil-backend/internal/timeslot/http"
)

// Config holds everything the router needs.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	CountryCode       string
	BookingWindowDays int

	ProfessionalService professional.Service
	ClientService       client.Service
	ServiceTypeService  servicetype.Service
	TimeSlotService     timeslot.Service
	BookingService      booking.Service

	JWTManager *auth.JWTManager
	Logger     *zap.Logger
}

// NewRouter assembles middleware (CORS, logging, recovery) and registers
// routes for every module under /v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestLogger(cfg.Logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	professionalHandler := professionalHttp.NewHandler(cfg.ProfessionalService, cfg.JWTManager)
	clientHandler := clientHttp.NewHandler(cfg.ClientService, cfg.BookingService)
	serviceTypeHandler := servicetypeHttp.NewHandler(cfg.ServiceTypeService)
	timeSlotHandler := timeslotHttp.NewHandler(cfg.TimeSlotService, cfg.BookingWindowDays)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.CountryCode)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		professionalHttp.RegisterRoutes(v1, professionalHandler, authMiddleware)
		clientHttp.RegisterRoutes(v1, clientHandler)
		servicetypeHttp.RegisterRoutes(v1, serviceTypeHandler, authMiddleware)
		timeslotHttp.RegisterRoutes(v1, timeSlotHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
	}

	return r
}
