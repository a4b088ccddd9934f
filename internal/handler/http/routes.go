package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withMetrics)
	router.Use(withBodyLimit)
	router.Use(withGZip)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/api/version", h.getServerVersion)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Get("/api/auth/params", h.params)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/payments", h.listPayments)
		r.Post("/api/payments", h.createPayment)
		r.Patch("/api/payments/{id}", h.commitRecord)

		r.Get("/api/encryption/status", h.encryptionStatus)
		r.Post("/api/encryption/mark-migrated", h.markMigrated)
		r.With(h.withRateLimit).Post("/api/encryption/prepare-migration", h.prepareMigration)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
