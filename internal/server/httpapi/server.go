// Package httpapi exposes the authentication, account, and exam-session
// operations over HTTP. Routing is handled by chi; all protected routes sit
// behind the bearer-token middleware, which re-resolves the caller's identity
// on every request.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/dmitrijs2005/cfsexam/internal/logging"
	"github.com/dmitrijs2005/cfsexam/internal/server/auth"
	"github.com/dmitrijs2005/cfsexam/internal/server/config"
	"github.com/dmitrijs2005/cfsexam/internal/server/exam"
	"github.com/dmitrijs2005/cfsexam/internal/server/users"
)

type Server struct {
	address     string
	logger      logging.Logger
	users       *users.Service
	guard       *auth.Guard
	exams       *exam.Store
	yearFrom    int
	yearTo      int
	corsAllowed []string
}

func NewServer(cfg *config.Config, l logging.Logger, us *users.Service, guard *auth.Guard, store *exam.Store) *Server {
	return &Server{
		address:     cfg.EndpointAddrHTTP,
		logger:      l.With("module", "http_server"),
		users:       us,
		guard:       guard,
		exams:       store,
		yearFrom:    cfg.ExamYearFrom,
		yearTo:      cfg.ExamYearTo,
		corsAllowed: cfg.CORSAllowedOrigins,
	}
}

// Router assembles the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.corsAllowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)

	r.Get("/health", s.handleHealth)
	r.Post("/auth/token", s.handleToken)
	r.Post("/users", s.handleCreateUser)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/users/me", s.handleGetMe)
		r.Put("/users/me", s.handleUpdateMe)
		r.Get("/users/{id}", s.handleGetUser)
		r.Delete("/users/{id}", s.handleDeleteUser)

		r.Route("/exams/{year}", func(r chi.Router) {
			r.Get("/", s.handleGetExam)
			r.Get("/pages/{index}", s.handleGetPage)
			r.Post("/answers", s.handleSelectAnswer)
			r.Post("/verify", s.handleVerifyAnswer)
			r.Post("/reset", s.handleResetExam)
		})
	})

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{Addr: s.address, Handler: s.Router()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
