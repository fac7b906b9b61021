package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"knockknock/internal/api/handlers"
	"knockknock/internal/api/middleware"
)

type Dependencies struct {
	WebhookHandler   *handlers.WebhookHandler
	HealthHandler    *handlers.HealthHandler
	APIKeyMiddleware *middleware.APIKeyMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	router.GET("/healthz", wrap(deps.HealthHandler.Check))

	router.POST("/webhooks/angi/leads",
		chain(deps.WebhookHandler.HandleLead, deps.APIKeyMiddleware.Handle))

	return router
}

// chain applies middlewares right to left around handler.
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		handler(w, r)
	}
}
