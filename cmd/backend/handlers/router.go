package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/hairizuan-noorazman/std-generator/caption"
	"github.com/hairizuan-noorazman/std-generator/logger"
	"github.com/hairizuan-noorazman/std-generator/session"
	"github.com/hairizuan-noorazman/std-generator/stdgen"
	"github.com/hairizuan-noorazman/std-generator/storage"
)

// RouterConfig holds the dependencies of the HTTP surface.
type RouterConfig struct {
	SessionManager *session.Manager
	Pipeline       *stdgen.Pipeline
	Factory        stdgen.GeneratorFactory
	DefaultAPIKey  string
	Captioner      caption.Captioner
	Storage        storage.BlobStorage
	CookieName     string
	CookieSecret   string
	CookieSecure   bool
	CookieMaxAge   time.Duration
	Version        string
	Logger         logger.Logger
}

// NewRouter wires all routes.
func NewRouter(cfg RouterConfig) *mux.Router {
	credentials := NewCredentials(cfg.Factory, cfg.DefaultAPIKey)
	sessionMiddleware := NewSessionMiddleware(
		cfg.SessionManager,
		cfg.CookieSecret,
		cfg.CookieName,
		cfg.CookieSecure,
		cfg.CookieMaxAge,
		cfg.Logger,
	)

	uiHandler := NewUIHandler(cfg.Pipeline.Catalog(), cfg.Version, cfg.Logger)
	sessionHandler := NewSessionHandler(cfg.SessionManager, credentials, cfg.Logger)
	generateHandler := NewGenerateHandler(cfg.SessionManager, cfg.Pipeline, credentials, cfg.Logger)
	uploadHandler := NewUploadHandler(cfg.SessionManager, cfg.Captioner, cfg.Storage, credentials, cfg.Logger)

	router := mux.NewRouter()

	// Public routes
	router.HandleFunc("/health", NewHealthHandler(cfg.SessionManager, cfg.Version)).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/models", generateHandler.Models).Methods(http.MethodGet)
	router.Handle("/", sessionMiddleware.Handler(http.HandlerFunc(uiHandler.Index))).Methods(http.MethodGet)

	// Session-bound routes
	sessionRouter := router.PathPrefix("/api/v1/session").Subrouter()
	sessionRouter.Use(sessionMiddleware.Handler)

	sessionRouter.HandleFunc("", sessionHandler.Get).Methods(http.MethodGet)
	sessionRouter.HandleFunc("/credentials", sessionHandler.SetCredentials).Methods(http.MethodPut)
	sessionRouter.HandleFunc("/spec-file", uploadHandler.SpecFile).Methods(http.MethodPost)
	sessionRouter.HandleFunc("/images", uploadHandler.AddImages).Methods(http.MethodPost)
	sessionRouter.HandleFunc("/images", uploadHandler.ClearImages).Methods(http.MethodDelete)
	sessionRouter.HandleFunc("/generate", generateHandler.Generate).Methods(http.MethodPost)
	sessionRouter.HandleFunc("/testcases/selected", sessionHandler.SelectAll).Methods(http.MethodPut)
	sessionRouter.HandleFunc("/testcases/{index}/selected", sessionHandler.SetSelected).Methods(http.MethodPut)
	sessionRouter.HandleFunc("/export.csv", sessionHandler.Export).Methods(http.MethodGet)

	return router
}
