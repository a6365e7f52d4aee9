package api

import (
	"net/http"
	"time"

	handlers "tracker/src/api/handlers"
	"tracker/src/api/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

type ServerOptions struct {
	TokenAuth      *jwtauth.JWTAuth
	Logger         *logrus.Logger
	LoginPath      string
	AllowedOrigins []string
}

type Server struct {
	Router  *chi.Mux
	Handler *handlers.Handler
	opts    ServerOptions
}

func NewServer(handler *handlers.Handler, opts ServerOptions) *Server {
	if opts.LoginPath == "" {
		opts.LoginPath = "/login"
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	server := &Server{
		Router:  chi.NewRouter(),
		Handler: handler,
		opts:    opts,
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(chimiddleware.RequestID)
	s.Router.Use(middleware.RequestLogger(s.opts.Logger))
	s.Router.Use(chimiddleware.Recoverer)
	if len(s.opts.AllowedOrigins) > 0 {
		s.Router.Use(cors.New(cors.Options{
			AllowedOrigins:   s.opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler)
	}

	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Group(func(r chi.Router) {
		r.Use(middleware.Identity(s.opts.TokenAuth))
		r.Use(middleware.RequireLogin(s.opts.LoginPath))

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.Handler.GetTransactions)
			r.Post("/", s.Handler.CreateTransaction)
			r.Get("/byCategory", s.Handler.GetTransactionsByCategory)
			r.Get("/categories", s.Handler.GetCategories)
			r.Post("/categories/rename", s.Handler.RenameCategory)
			r.Get("/summary", s.Handler.GetSummary)
			r.Get("/export", s.Handler.ExportTransactions)
		})

		r.Route("/transaction", func(r chi.Router) {
			r.Post("/remove/{transactionId}", s.Handler.RemoveTransaction)
			r.Get("/complete/{itemId}", s.Handler.CompleteTransaction)
			r.Get("/edit/{itemId}", s.Handler.GetTransactionForEdit)
		})

		r.Post("/transact/updateTransaction", s.Handler.UpdateTransaction)
	})
}

func NewHTTPServer(server *Server, port string) *http.Server {
	if port == "" {
		port = "8000"
	}
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      server,
	}
	return httpServer
}
