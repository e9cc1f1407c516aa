// Package server is the HTTP boundary: it translates requests into domain
// service calls and domain errors into status codes. No business rules live
// here.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/media"
	"github.com/tallyhq/tally/internal/service"
)

// Server wires the REST routes to the domain services.
type Server struct {
	cfg      config.Config
	users    *service.UserService
	groups   *service.GroupService
	expenses *service.ExpenseService
	avatars  media.AvatarStore
	router   chi.Router
}

// New creates the Server and registers all routes.
func New(cfg config.Config, users *service.UserService, groups *service.GroupService,
	expenses *service.ExpenseService, avatars media.AvatarStore) *Server {
	s := &Server{
		cfg:      cfg,
		users:    users,
		groups:   groups,
		expenses: expenses,
		avatars:  avatars,
	}
	s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(corsHandler(s.cfg.CORSAllowOrigins))
	r.Use(metricsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(s.cfg.MediaRoot))))

	r.Post("/signup", s.handleSignup)
	r.Post("/login", s.handleLogin)
	r.Get("/users", s.handleListUsers)
	r.Get("/users/{userID}", s.handleGetUser)
	r.Put("/users/{userID}", s.handleUpdateUser)
	r.Post("/users/{userID}/avatar", s.handleUploadAvatar)
	r.Get("/users/{userID}/groups", s.handleListUserGroups)

	r.Post("/groups", s.handleCreateGroup)
	r.Get("/groups/{groupID}", s.handleGetGroup)
	r.Post("/groups/{groupID}/members", s.handleAddMember)

	r.Post("/groups/{groupID}/expenses", s.handleAddExpense)
	r.Put("/groups/{groupID}/expenses/{expenseID}", s.handleUpdateExpense)
	r.Delete("/groups/{groupID}/expenses/{expenseID}", s.handleDeleteExpense)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"storage": s.cfg.StorageMode(),
	})
}
