package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/logging"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/oracle"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/service"
)

// Deps agrupa lo que necesitan los handlers.
type Deps struct {
	Auth         *service.AuthService
	Users        *service.UserService
	Movies       *service.MovieService
	Ratings      *service.RatingService
	Recommend    *service.RecommendService
	Oracles      *oracle.Registry
	CacheBackend string
	JWTSecret    string
	CORSOrigins  []string
}

func NewRouter(d Deps) http.Handler {
	authH := NewAuthHandler(d.Auth)
	userH := NewUserHandler(d.Users)
	movieH := NewMovieHandler(d.Movies)
	ratingH := NewRatingHandler(d.Ratings)
	recH := NewRecommendHandler(d.Recommend)
	adminH := NewAdminHandler(d.Recommend, d.CacheBackend)
	healthH := NewHealthHandler(d.Oracles)

	r := chi.NewRouter()
	r.Use(logging.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", logging.RequestIDHeader},
		ExposedHeaders:   []string{logging.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", healthH.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/login", authH.Login)

	r.Get("/users", userH.List)
	r.Post("/users/new", userH.Create)
	r.Get("/movies", movieH.List)
	r.Get("/popular-movies", movieH.Popular)

	r.Route("/user/{userId}", func(r chi.Router) {
		r.Get("/ratings", userH.Ratings)
		r.Post("/rate", ratingH.Rate)

		// HTTP normal
		r.Get("/recommendations/{kind}", recH.GetRecommendations)

		// WebSocket
		r.Get("/ws/recommendations/{kind}", recH.GetRecommendationsWS)
	})

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	r.Group(func(r chi.Router) {
		r.Use(JWTAuth(d.JWTSecret))

		r.Post("/auth/logout", authH.Logout)

		// ---- Endpoints solo ADMIN ----
		r.Group(func(r chi.Router) {
			r.Use(AdminOnly())
			MountAdminRoutes(r, adminH)
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
