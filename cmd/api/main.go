package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angushq/prospect-sync/internal/config"
	"github.com/angushq/prospect-sync/internal/infra/http/handlers"
	"github.com/angushq/prospect-sync/internal/infra/http/middleware"
	"github.com/angushq/prospect-sync/internal/infra/integration/crm"
	"github.com/angushq/prospect-sync/internal/infra/integration/recordstore"
	"github.com/angushq/prospect-sync/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// 1. Integration clients
	store := recordstore.NewClient(
		cfg.StoreAPIKey, cfg.StoreBaseURL, cfg.StoreBaseID,
		cfg.ProspectsTable, cfg.ResponsesTable, cfg.OperatorsTable,
	)
	crmClient := crm.NewClient(
		cfg.CRMAPIKey, cfg.CRMLocationID, cfg.CRMBaseURL,
		crm.EncoderFor(cfg.CRMFieldEncoding),
	)

	// 2. UseCases
	assigner := usecase.NewOperatorAssigner(store, cfg.RosterCacheTTL)
	resolver := usecase.NewIdentityResolver(store, assigner)
	submitUC := usecase.NewSubmitSurveyUseCase(
		store, crmClient, resolver,
		cfg.PreSyncDelay, cfg.BookingURLTemplate,
	)

	// 3. Handlers
	submitHandler := handlers.NewSubmitHandler(submitUC)
	healthHandler := handlers.NewHealthHandler(cfg)

	// 4. Router
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Post("/submit", submitHandler.Handle)
	r.Get("/health", healthHandler.Handle)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	log.Printf("🚀 Prospect sync service listening on %s", cfg.Port)
	http.ListenAndServe(cfg.Port, r)
}
