package api

import (
	"github.com/go-chi/chi"
)

func (a *Server) SetupRoutes(r *chi.Mux) {
	handlers := a.handlers
	r.Get("/healthcheck", registerHandler(handlers.HealthCheck))

	r.Post("/v1/transfers", registerHandler(handlers.RegisterTransfer))
	r.Get("/v1/transfer", registerHandler(handlers.GetTransfer))
	r.Get("/v1/transfers", registerHandler(handlers.GetTransfers))
	r.Get("/v1/transfers/next-amount", registerHandler(handlers.GetNextAmount))
}
