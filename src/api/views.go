package api

import (
	"net/http"

	"portfolio-tracker/src/api/handlers"
	"portfolio-tracker/src/api/middlewares"
	"portfolio-tracker/src/auth"
	"portfolio-tracker/src/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Router   *chi.Mux
	Handler  *handlers.Handler
	Verifier auth.TokenVerifier
	Logger   *logrus.Logger
	CORS     config.CORSConfig
}

func NewServer(handler *handlers.Handler, verifier auth.TokenVerifier, logger *logrus.Logger, corsCfg config.CORSConfig) *Server {
	server := &Server{
		Router:   chi.NewRouter(),
		Handler:  handler,
		Verifier: verifier,
		Logger:   logger,
		CORS:     corsCfg,
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(middlewares.RequestLogger(s.Logger))
	s.Router.Use(newCORS(s.CORS).Handler)

	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Route("/api", func(r chi.Router) {
		r.Use(middlewares.Authenticate(s.Verifier))

		r.Get("/private", s.Handler.GetPrivate)
		r.Get("/search", s.Handler.Search)
		r.Get("/news", s.Handler.GetNews)

		r.Route("/holdings", func(r chi.Router) {
			r.Get("/", s.Handler.GetHoldings)
			r.Post("/", s.Handler.CreateHolding)
			r.Delete("/{id}", s.Handler.DeleteHolding)
		})
	})
}

func newCORS(cfg config.CORSConfig) *cors.Cors {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{middlewares.RequestIDHeader},
		MaxAge:         300,
	})
}

func NewHTTPServer(server *Server, cfg config.ServiceConfig) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Handler:      server,
	}
}
