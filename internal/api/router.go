package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"proximity-analysis-service/internal/api/handlers"
	"proximity-analysis-service/internal/ports"
	"proximity-analysis-service/internal/services"
)

type RouterDeps struct {
	Clients        ports.ClientRepository
	Providers      ports.ProviderRepository
	Rankings       ports.RankingRepository
	Engine         *services.Engine
	Log            *zap.Logger
	AllowedOrigins []string
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(deps.Log))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	clientHandler := &handlers.ClientHandler{Repo: deps.Clients, Log: deps.Log}
	providerHandler := &handlers.ProviderHandler{Repo: deps.Providers, Log: deps.Log}
	rankingHandler := &handlers.RankingHandler{Rankings: deps.Rankings, Engine: deps.Engine, Log: deps.Log}
	statisticsHandler := &handlers.StatisticsHandler{Engine: deps.Engine, Log: deps.Log}

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", clientHandler.List)
			r.Get("/{id}", clientHandler.GetByID)
			r.Get("/uf/{uf}", clientHandler.ListByUF)
		})

		r.Route("/providers", func(r chi.Router) {
			r.Get("/", providerHandler.List)
			r.Get("/{id}", providerHandler.GetByID)
			r.Get("/uf/{uf}", providerHandler.ListByUF)
		})

		r.Route("/rankings", func(r chi.Router) {
			r.Get("/", rankingHandler.ListAll)
			r.Get("/client/{id}", rankingHandler.ListByClient)
		})

		r.Get("/analysis/client/{id}", rankingHandler.Analysis)

		r.Route("/calculate", func(r chi.Router) {
			r.Post("/client/{id}", rankingHandler.CalculateClient)
			r.Post("/all", rankingHandler.CalculateAll)
		})

		r.Get("/statistics", statisticsHandler.Get)
	})

	return r
}
