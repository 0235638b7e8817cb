package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	authHandler "github.com/propertypilot/backend/internal/handler/auth"
	"github.com/propertypilot/backend/internal/handler/invoke"
	"github.com/propertypilot/backend/internal/handler/stream"
	middlewarePkg "github.com/propertypilot/backend/internal/middleware"
	"github.com/propertypilot/backend/internal/service/agents"
	"github.com/propertypilot/backend/pkg/utils"
)

// Deps carries the wired services the router exposes over HTTP.
type Deps struct {
	Invoke *invoke.Handler
	Auth   *authHandler.Handler
	Agents *agents.System
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	deps.Invoke.RegisterRoutes(r)

	r.Route("/auth", func(auth chi.Router) {
		deps.Auth.RegisterRoutes(auth)
	})

	streamHandler := stream.New(deps.Agents)

	r.Route("/api", func(api chi.Router) {
		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			location := r.URL.Query().Get("location")
			if location == "" {
				location = "Austin, TX"
			}

			maxPrice := 500000.0
			if raw := r.URL.Query().Get("max_price"); raw != "" {
				parsed, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					utils.RespondError(w, http.StatusBadRequest, "max_price must be a number")
					return
				}
				maxPrice = parsed
			}

			if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, location, maxPrice); err != nil {
				log.Printf("[stream] error handling request: %v", err)
			}
		})
	})

	return r
}
