package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/controllers"
	"github.com/yeremiapane/reservation-app/floor"
	"github.com/yeremiapane/reservation-app/middlewares"
	"github.com/yeremiapane/reservation-app/services"
	"gorm.io/gorm"
)

// Options wires the router. Hub and Events may be nil.
type Options struct {
	DB     *gorm.DB
	Config *config.Config
	Hub    *floor.Hub
	Events floor.Publisher
}

func SetupRouter(opts Options) *gin.Engine {
	cfg := opts.Config
	events := opts.Events
	switch {
	case events != nil:
	case opts.Hub != nil:
		events = opts.Hub
	default:
		events = floor.Nop{}
	}

	r := gin.Default()
	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.BodyLimit(middlewares.MaxBodyBytes))
	if cfg.RateLimitRPS > 0 {
		r.Use(middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).RateLimit())
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	policy := services.BookingPolicy{
		ClosedWeekdays: cfg.Booking.ClosedDays,
		OpensAt:        cfg.Booking.OpensAt,
		LastSeating:    cfg.Booking.LastSeating,
		RequireFuture:  cfg.Booking.RequireFuture,
		Location:       cfg.Location,
	}
	reservationCtrl := controllers.NewReservationController(
		services.NewReservationService(opts.DB, policy, cfg.StrictTransitions), events)
	tableCtrl := controllers.NewTableController(services.NewTableService(opts.DB), events)

	staff := r.Group("/")
	if cfg.AuthEnabled() {
		authCtrl := controllers.NewAuthController(cfg.StaffJWTSecret, cfg.StaffPasswordHash, cfg.TokenTTL)
		r.POST("/auth/login", authCtrl.Login)
		staff.Use(middlewares.StaffAuth([]byte(cfg.StaffJWTSecret)))
	}

	reservations := staff.Group("/reservations")
	{
		reservations.GET("", reservationCtrl.ListReservations)
		reservations.POST("", reservationCtrl.CreateReservation)
		reservations.GET("/sheet", reservationCtrl.DailySheet)
		reservations.GET("/:reservation_id", reservationCtrl.GetReservation)
		reservations.PUT("/:reservation_id", reservationCtrl.UpdateReservation)
		reservations.PUT("/:reservation_id/status", reservationCtrl.UpdateReservationStatus)
	}

	tables := staff.Group("/tables")
	{
		tables.GET("", tableCtrl.GetAllTables)
		tables.POST("", tableCtrl.CreateTable)
		tables.GET("/:table_id", tableCtrl.GetTable)
		tables.PUT("/:table_id/seat", tableCtrl.SeatTable)
		tables.DELETE("/:table_id/seat", tableCtrl.FinishTable)
	}

	if opts.Hub != nil {
		ws := r.Group("/ws")
		if cfg.AuthEnabled() {
			ws.Use(middlewares.WebSocketAuth([]byte(cfg.StaffJWTSecret)))
		}
		ws.GET("", controllers.FloorHandler(opts.Hub))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return r
}
