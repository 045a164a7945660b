package router

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/controllers"
	"github.com/yeremiapane/reservation-app/identity"
	"github.com/yeremiapane/reservation-app/middlewares"
	"github.com/yeremiapane/reservation-app/repository"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
	"github.com/yeremiapane/reservation-app/views"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, auth *identity.Manager, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply security middlewares
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	r.Use(middlewares.NewRateLimiter(cfg.RateLimit, 1).RateLimit())
	r.Use(middlewares.IdentityMiddleware(auth))

	// Inisialisasi service & controller
	reservationSvc := services.NewReservationService(repository.NewReservationRepository(db))
	reservationSvc.OnReadFailure = func(op string, err error) {
		utils.InfoLogger.WithField("op", op).Warn("Serving an empty reservation list after a read failure")
	}

	pages := controllers.NewPages(template.Must(views.Templates()), auth.Enabled())
	reservationCtrl := controllers.NewReservationController(reservationSvc, pages)
	authCtrl := controllers.NewAuthController(auth, pages)
	systemCtrl := controllers.NewSystemController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", systemCtrl.Ping)

	r.GET("/", reservationCtrl.ListReservations)
	r.GET("/reservation/:id", reservationCtrl.ShowReservation)

	api := r.Group("/api")
	{
		api.GET("/test-db", systemCtrl.TestDB)
		api.GET("/reservations", reservationCtrl.ListReservationsAPI)
		api.GET("/reservations/:id", reservationCtrl.GetReservationAPI)
	}

	// Rate limiter untuk login
	signIn := r.Group("/auth")
	signIn.Use(middlewares.NewStrictRateLimiter(5, time.Minute))
	{
		signIn.GET("/login", authCtrl.Login)
		signIn.GET("/callback", authCtrl.Callback)
	}
	r.POST("/auth/logout", authCtrl.Logout)
	r.GET("/auth/status", authCtrl.Status)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	writes := r.Group("/")
	writes.Use(middlewares.RequirePrincipal())
	{
		writes.GET("/add-reservation", reservationCtrl.NewReservationForm)
		writes.GET("/reservation/:id/edit", reservationCtrl.EditReservationForm)
	}

	audited := writes.Group("/")
	audited.Use(middlewares.AuditLogger())
	{
		audited.POST("/add-reservation", reservationCtrl.CreateReservation)
		audited.POST("/reservation/:id/edit", reservationCtrl.UpdateReservation)
		audited.POST("/reservation/:id/delete", reservationCtrl.DeleteReservation)
		audited.POST("/api/reservations", reservationCtrl.CreateReservationAPI)
	}

	return r
}
