// Package api Vehicle Catalog API
//
// REST interface over the catalog services. Reads are open; every
// mutating route requires a bearer token when auth is enabled.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"autocatalog/config"
	"autocatalog/core"
	"autocatalog/service"
)

// rateLimiterEntry holds a rate limiter with last seen time
type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// BrandCatalog interface for brand operations
type BrandCatalog interface {
	FindByID(ctx context.Context, id int64) (*core.Brand, error)
	FindAll(ctx context.Context, req core.PageRequest) (*core.Page[core.Brand], error)
	Create(ctx context.Context, name string) (*core.Brand, error)
	Update(ctx context.Context, id int64, name string) (*core.Brand, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryCatalog interface for category operations
type CategoryCatalog interface {
	FindByID(ctx context.Context, id int64) (*core.Category, error)
	FindAll(ctx context.Context, req core.PageRequest) (*core.Page[core.Category], error)
	Create(ctx context.Context, name string) (*core.Category, error)
	Update(ctx context.Context, id int64, name string) (*core.Category, error)
	Delete(ctx context.Context, id int64) error
}

// EngineCatalog interface for engine operations
type EngineCatalog interface {
	FindByID(ctx context.Context, id int64) (*core.Engine, error)
	FindAll(ctx context.Context, req core.PageRequest) (*core.Page[core.Engine], error)
	Create(ctx context.Context, name string, capacity float64, engineType core.EngineType) (*core.Engine, error)
	Update(ctx context.Context, id int64, name string, capacity float64, engineType core.EngineType) (*core.Engine, error)
	Delete(ctx context.Context, id int64) error
}

// ModelCatalog interface for model operations
type ModelCatalog interface {
	FindByID(ctx context.Context, id int64) (*core.Model, error)
	FindAll(ctx context.Context, req core.PageRequest, filters core.ModelFilters) (*core.Page[core.Model], error)
	Create(ctx context.Context, input service.ModelInput) (*core.Model, error)
	Update(ctx context.Context, id int64, input service.ModelInput) (*core.Model, error)
	Delete(ctx context.Context, id int64) error
}

// CarCatalog interface for car operations
type CarCatalog interface {
	FindByID(ctx context.Context, id int64) (*core.Car, error)
	FindAll(ctx context.Context, req core.PageRequest, filters core.CarFilters) (*core.Page[core.Car], error)
	Create(ctx context.Context, input service.CarInput) (*core.Car, error)
	Update(ctx context.Context, id int64, input service.CarInput, expectedVersion int64) (*core.Car, error)
	Delete(ctx context.Context, id int64) error
}

// IdentityProvider interface for delegated registration and login
type IdentityProvider interface {
	Register(ctx context.Context, email, password string) error
	Authenticate(ctx context.Context, email, password string) (string, error)
}

// API holds the API server
type API struct {
	router         *mux.Router
	server         *http.Server
	brands         BrandCatalog
	categories     CategoryCatalog
	engines        EngineCatalog
	models         ModelCatalog
	cars           CarCatalog
	identity       IdentityProvider
	config         *config.Config
	logger         *zap.SugaredLogger
	validate       *validator.Validate
	rateLimiters   map[string]*rateLimiterEntry
	rateLimitersMu sync.Mutex
	stopCh         chan struct{}
}

// NewAPI creates a new API server
func NewAPI(brands BrandCatalog, categories CategoryCatalog, engines EngineCatalog, models ModelCatalog, cars CarCatalog, identity IdentityProvider, cfg *config.Config, logger *zap.SugaredLogger) *API {
	api := &API{
		router:       mux.NewRouter(),
		brands:       brands,
		categories:   categories,
		engines:      engines,
		models:       models,
		cars:         cars,
		identity:     identity,
		config:       cfg,
		logger:       logger,
		validate:     newValidator(),
		rateLimiters: make(map[string]*rateLimiterEntry),
		stopCh:       make(chan struct{}),
	}
	api.setupRoutes()
	go api.cleanupRateLimiters()
	return api
}

// Router exposes the configured router, used by handler tests.
func (a *API) Router() http.Handler {
	return a.router
}

// setupRoutes sets up the API routes
func (a *API) setupRoutes() {
	a.router.Use(a.corsMiddleware)
	a.router.Use(a.rateLimitMiddleware)
	a.router.Use(a.requestLoggingMiddleware)

	v1 := a.router.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/brands", a.listBrands).Methods("GET")
	v1.HandleFunc("/brands/{id}", a.getBrand).Methods("GET")
	v1.HandleFunc("/brands", a.requireAuth(a.createBrand)).Methods("POST")
	v1.HandleFunc("/brands/{id}", a.requireAuth(a.updateBrand)).Methods("PUT")
	v1.HandleFunc("/brands/{id}", a.requireAuth(a.deleteBrand)).Methods("DELETE")

	v1.HandleFunc("/categories", a.listCategories).Methods("GET")
	v1.HandleFunc("/categories/{id}", a.getCategory).Methods("GET")
	v1.HandleFunc("/categories", a.requireAuth(a.createCategory)).Methods("POST")
	v1.HandleFunc("/categories/{id}", a.requireAuth(a.updateCategory)).Methods("PUT")
	v1.HandleFunc("/categories/{id}", a.requireAuth(a.deleteCategory)).Methods("DELETE")

	v1.HandleFunc("/engines", a.listEngines).Methods("GET")
	v1.HandleFunc("/engines/{id}", a.getEngine).Methods("GET")
	v1.HandleFunc("/engines", a.requireAuth(a.createEngine)).Methods("POST")
	v1.HandleFunc("/engines/{id}", a.requireAuth(a.updateEngine)).Methods("PUT")
	v1.HandleFunc("/engines/{id}", a.requireAuth(a.deleteEngine)).Methods("DELETE")

	v1.HandleFunc("/models", a.listModels).Methods("GET")
	v1.HandleFunc("/models/{id}", a.getModel).Methods("GET")
	v1.HandleFunc("/models", a.requireAuth(a.createModel)).Methods("POST")
	v1.HandleFunc("/models/{id}", a.requireAuth(a.updateModel)).Methods("PUT")
	v1.HandleFunc("/models/{id}", a.requireAuth(a.deleteModel)).Methods("DELETE")

	v1.HandleFunc("/cars", a.listCars).Methods("GET")
	v1.HandleFunc("/cars/{id}", a.getCar).Methods("GET")
	v1.HandleFunc("/cars", a.requireAuth(a.createCar)).Methods("POST")
	v1.HandleFunc("/cars/{id}", a.requireAuth(a.updateCar)).Methods("PUT")
	v1.HandleFunc("/cars/{id}", a.requireAuth(a.deleteCar)).Methods("DELETE")

	v1.HandleFunc("/auth/register", a.register).Methods("POST")
	v1.HandleFunc("/auth/authenticate", a.authenticate).Methods("POST")

	a.router.HandleFunc("/health", a.healthCheck).Methods("GET")
	a.router.Handle("/metrics", promhttp.Handler())
}

// Start starts the API server
func (a *API) Start(addr string) error {
	a.server = &http.Server{
		Addr:         addr,
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.API.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.API.WriteTimeout) * time.Second,
	}
	return a.server.ListenAndServe()
}

// Stop stops the API server
func (a *API) Stop(ctx context.Context) error {
	close(a.stopCh)
	if a.server != nil {
		return a.server.Shutdown(ctx)
	}
	return nil
}

// healthCheck godoc reports service liveness.
func (a *API) healthCheck(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
