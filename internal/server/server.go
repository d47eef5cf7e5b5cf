package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"eshop-catalog/internal/config"
	"eshop-catalog/internal/database"
	"eshop-catalog/internal/metrics"
	custommiddleware "eshop-catalog/internal/middleware"
	"eshop-catalog/internal/repository"
	"eshop-catalog/internal/service"
	"eshop-catalog/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// LivenessMessage is the body of GET /
const LivenessMessage = "E-shop server is running..."

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  database.Service
}

// NewServer wires the catalog routes around an already opened store
func NewServer(cfg *config.Config, logger *zap.Logger, store database.Service, productRepo repository.ProductRepository, m *metrics.Metrics) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.MetricsMiddleware(m))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigin))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(LivenessMessage))
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		health := store.Health(ctx)
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})

	router.Method(http.MethodGet, "/metrics", m.Handler())

	productService := service.NewProductService(
		repository.NewInstrumentedProductRepository(productRepo, m),
	)
	productHandler := transport.NewProductHandler(productService, logger)
	productHandler.RegisterRoutes(router)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		store:  store,
	}
}

// Close releases the store handle
func (s *Server) Close(ctx context.Context) error {
	s.logger.Info("Closing server resources")

	if s.store != nil {
		if err := s.store.Close(ctx); err != nil {
			s.logger.Error("Failed to close store", zap.Error(err))
			return err
		}
	}

	return nil
}
