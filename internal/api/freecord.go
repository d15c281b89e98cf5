// Package api is the HTTP transport over the chat rule layer. It parses
// requests into primitive arguments, extracts the bearer token from the
// Authorization header, and renders rule-layer Result triples as JSON:
// failed results become 4xx responses keyed on the outcome message,
// structural errors become 5xx.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/Universe-Development/Freecord/internal/chat"
	"github.com/Universe-Development/Freecord/internal/config"
	"github.com/Universe-Development/Freecord/internal/database"
	"github.com/gorilla/handlers"
)

type App struct {
	log   *log.Logger
	chat  chat.ChatService
	store *database.Store
	mux   *http.Server
}

func NewApp(mux *http.ServeMux, logger *log.Logger, svc chat.ChatService, store *database.Store, cfg *config.Config) *App {
	a := &App{
		log:   logger,
		chat:  svc,
		store: store,
	}

	mux.HandleFunc("GET /healthz", a.healthCheck)
	mux.HandleFunc("POST /api/users", a.createUser)
	mux.HandleFunc("GET /api/users", a.authMiddleware(a.listUsers))
	mux.HandleFunc("GET /api/users/{id}", a.authMiddleware(a.getUser))
	mux.HandleFunc("POST /api/servers", a.authMiddleware(a.createServer))
	mux.HandleFunc("GET /api/servers", a.authMiddleware(a.listServers))
	mux.HandleFunc("GET /api/me/servers", a.authMiddleware(a.memberServers))
	mux.HandleFunc("GET /api/servers/{id}/members", a.authMiddleware(a.listMembers))
	mux.HandleFunc("POST /api/servers/{id}/channels", a.authMiddleware(a.createChannel))
	mux.HandleFunc("POST /api/servers/{id}/invites", a.authMiddleware(a.createInvite))
	mux.HandleFunc("POST /api/join", a.authMiddleware(a.joinServer))
	mux.HandleFunc("POST /api/channels/{id}/messages", a.authMiddleware(a.sendMessage))
	mux.HandleFunc("GET /api/channels/{id}/messages", a.authMiddleware(a.getMessages))
	mux.HandleFunc("POST /api/dms/{userId}", a.authMiddleware(a.sendDirectMessage))
	mux.HandleFunc("GET /api/dms/{userId}", a.authMiddleware(a.getDirectMessages))

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept", "Authorization"}),
		handlers.AllowCredentials(),
	)(mux)

	h = a.errorHandler(h)

	a.mux = &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	return a
}

func (a *App) Start() error {
	a.log.Printf("starting server on %s\n", a.mux.Addr)
	return a.mux.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.log.Println("shutting down HTTP server...")
	if err := a.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}

func (a *App) healthCheck(w http.ResponseWriter, _ *http.Request) {
	a.writeJson(w, http.StatusOK, a.store.GetInfo())
}
