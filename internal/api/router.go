package api

import (
	"net/http"

	"github.com/civicreach/audience-manager/internal/api/handler"
	"github.com/civicreach/audience-manager/internal/api/middleware"
	"github.com/civicreach/audience-manager/internal/domain"
	"github.com/civicreach/audience-manager/internal/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(store storage.Storage, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.ContentType)

		for _, kind := range domain.Kinds() {
			mountFamily(r, store, kind)
		}

		// Filter tag catalog
		tagHandler := handler.NewTagHandler(store)
		r.Get("/filters", tagHandler.List)
		r.Post("/filters", tagHandler.Create)
		r.Delete("/filters", tagHandler.Delete)

		// Onboarding wizard submission
		onboardingHandler := handler.NewOnboardingHandler(store)
		r.Post("/onboarding", onboardingHandler.Submit)
		r.Get("/onboarding", onboardingHandler.Get)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// mountFamily registers the full endpoint set of one record family. Routes
// are registered flat so collection paths work without a trailing slash.
func mountFamily(r chi.Router, store storage.Storage, kind domain.Kind) {
	base := "/" + kind.Path()

	recordHandler := handler.NewRecordHandler(store, kind)
	r.Get(base, recordHandler.List)
	r.Post(base, recordHandler.Create)
	r.Get(base+"/{id}", recordHandler.Get)
	r.Put(base+"/{id}", recordHandler.Update)
	r.Delete(base+"/{id}", recordHandler.Delete)

	groupHandler := handler.NewFilterGroupHandler(store, kind)
	r.Post(base+"/{id}/filter-groups", groupHandler.Create)
	r.Put(base+"/{id}/filter-groups/{groupId}", groupHandler.Update)
	r.Delete(base+"/{id}/filter-groups/{groupId}", groupHandler.Delete)

	filterHandler := handler.NewFilterHandler(store, kind)
	r.Post(base+"/{id}/filters", filterHandler.Create)
	r.Put(base+"/{id}/filters/{filterId}", filterHandler.Update)
	r.Delete(base+"/{id}/filters/{filterId}", filterHandler.Delete)
}
