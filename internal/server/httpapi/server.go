// Package httpapi exposes the recipe services as a JSON HTTP API routed
// with gorilla/mux.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/recipeapi/internal/logging"
	"github.com/dmitrijs2005/recipeapi/internal/server/services"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 5 * time.Second

// Services groups the business services the handlers call into.
type Services struct {
	Users       *services.UserService
	Tags        *services.TagService
	Ingredients *services.IngredientService
	Recipes     *services.RecipeService
}

// HealthFunc reports whether the storage backend is reachable.
type HealthFunc func(ctx context.Context) error

type HTTPServer struct {
	address     string
	users       *services.UserService
	tags        *services.TagService
	ingredients *services.IngredientService
	recipes     *services.RecipeService
	logger      logging.Logger
	limiter     *rate.Limiter
	health      HealthFunc
	router      *mux.Router
}

// NewHTTPServer builds the server and its routes. A non-positive rps
// disables rate limiting.
func NewHTTPServer(a string, l logging.Logger, svc Services, rps float64, burst int, health HealthFunc) *HTTPServer {
	s := &HTTPServer{
		address:     a,
		users:       svc.Users,
		tags:        svc.Tags,
		ingredients: svc.Ingredients,
		recipes:     svc.Recipes,
		logger:      l.With("module", "http_server"),
		health:      health,
	}
	if rps > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	s.router = s.routes()
	return s
}

// Handler returns the routed handler with all middleware applied.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.recoverMiddleware, s.logMiddleware, s.rateLimitMiddleware)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.")
	})

	r.HandleFunc("/health", s.healthCheck).Methods(http.MethodGet)

	// Routes are registered flat on r: a PathPrefix subrouter loses the
	// method mismatch of an earlier route and answers 404 instead of 405.
	protected := func(h http.HandlerFunc) http.Handler { return s.authMiddleware(h) }

	r.HandleFunc("/api/user/create/", s.createUser).Methods(http.MethodPost)
	r.HandleFunc("/api/user/token/", s.createToken).Methods(http.MethodPost)
	r.HandleFunc("/api/user/token/refresh/", s.refreshToken).Methods(http.MethodPost)

	r.Handle("/api/user/me/", protected(s.getMe)).Methods(http.MethodGet)
	r.Handle("/api/user/me/", protected(s.updateMe)).Methods(http.MethodPut, http.MethodPatch)

	r.Handle("/api/recipe/tags/", protected(s.listTags)).Methods(http.MethodGet)
	r.Handle("/api/recipe/tags/", protected(s.createTag)).Methods(http.MethodPost)
	r.Handle("/api/recipe/tags/{id:[0-9]+}/", protected(s.updateTag)).Methods(http.MethodPut, http.MethodPatch)
	r.Handle("/api/recipe/tags/{id:[0-9]+}/", protected(s.deleteTag)).Methods(http.MethodDelete)

	r.Handle("/api/recipe/ingredients/", protected(s.listIngredients)).Methods(http.MethodGet)
	r.Handle("/api/recipe/ingredients/", protected(s.createIngredient)).Methods(http.MethodPost)
	r.Handle("/api/recipe/ingredients/{id:[0-9]+}/", protected(s.updateIngredient)).Methods(http.MethodPut, http.MethodPatch)
	r.Handle("/api/recipe/ingredients/{id:[0-9]+}/", protected(s.deleteIngredient)).Methods(http.MethodDelete)

	r.Handle("/api/recipe/recipes/", protected(s.listRecipes)).Methods(http.MethodGet)
	r.Handle("/api/recipe/recipes/", protected(s.createRecipe)).Methods(http.MethodPost)
	r.Handle("/api/recipe/recipes/{id:[0-9]+}/", protected(s.retrieveRecipe)).Methods(http.MethodGet)
	r.Handle("/api/recipe/recipes/{id:[0-9]+}/", protected(s.updateRecipe)).Methods(http.MethodPut, http.MethodPatch)
	r.Handle("/api/recipe/recipes/{id:[0-9]+}/", protected(s.deleteRecipe)).Methods(http.MethodDelete)
	r.Handle("/api/recipe/recipes/{id:[0-9]+}/upload-image/", protected(s.uploadImage)).Methods(http.MethodPost)
	r.Handle("/api/recipe/recipes/{id:[0-9]+}/card.pdf", protected(s.recipeCard)).Methods(http.MethodGet)

	return r
}

func (s *HTTPServer) healthCheck(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.Error(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
