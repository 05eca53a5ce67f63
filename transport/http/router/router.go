package router

import (
	"conroom/internal/handlers/occupancy"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Occupancy occupancy.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Occupancy.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
