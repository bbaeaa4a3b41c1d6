package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rentgear/rentgear-backend/api/controllers"
	"github.com/rentgear/rentgear-backend/api/middleware"
	authsvc "github.com/rentgear/rentgear-backend/internal/auth"
	reservationsvc "github.com/rentgear/rentgear-backend/internal/reservations"
	toolsvc "github.com/rentgear/rentgear-backend/internal/tools"
	"github.com/rentgear/rentgear-backend/pkg/config"
	"github.com/rentgear/rentgear-backend/pkg/db"
	"github.com/rentgear/rentgear-backend/pkg/enums"
	"github.com/rentgear/rentgear-backend/pkg/logger"
	"github.com/rentgear/rentgear-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	authService authsvc.Service,
	toolService toolsvc.Service,
	reservationService reservationsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.CORS(),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	r.Get("/ping", controllers.Ping())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.Register(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(authService, logg))
	})

	// Catalog and availability reads are public so the storefront can render
	// without a session.
	r.Route("/api/v1/tools", func(r chi.Router) {
		r.Get("/", controllers.ListTools(toolService, logg))
		r.Get("/{toolID}", controllers.GetTool(toolService, logg))
		r.Get("/{toolID}/availability", controllers.CheckAvailability(reservationService, logg))
		r.Get("/{toolID}/calendar", controllers.Calendar(reservationService, logg))
	})

	r.Route("/api/v1/reservations", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Post("/", controllers.CreateReservation(reservationService, logg))
		r.Post("/batch", controllers.CreateReservationBatch(reservationService, logg))
		r.Get("/", controllers.ListMyReservations(reservationService, logg))
		r.Get("/{reservationID}", controllers.GetReservation(reservationService, logg))
		r.Post("/{reservationID}/cancel", controllers.CancelReservation(reservationService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/tools", func(r chi.Router) {
			r.Get("/", controllers.ListTools(toolService, logg))
			r.Post("/", controllers.CreateTool(toolService, logg))
			r.Patch("/{toolID}", controllers.UpdateTool(toolService, logg))
			r.Delete("/{toolID}", controllers.DeleteTool(toolService, logg))
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Get("/", controllers.ListAllReservations(reservationService, logg))
			r.Route("/{reservationID}", func(r chi.Router) {
				r.Post("/deliver", controllers.DeliverReservation(reservationService, logg))
				r.Post("/return", controllers.ReturnReservation(reservationService, logg))
				r.Post("/cancel", controllers.CancelReservation(reservationService, logg))
				r.Post("/archive", controllers.ArchiveReservation(reservationService, logg))
				r.Post("/restore", controllers.RestoreReservation(reservationService, logg))
			})
		})
	})

	return r
}
