package api

import (
	"delivery-tracking-service/internal/api/handlers"
	"delivery-tracking-service/internal/ports"
	"delivery-tracking-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Deps are the wired services and ports the HTTP layer exposes.
type Deps struct {
	Engine   *services.TrackingEngine
	Selector *services.RouteSelector
	Tracker  *services.Tracker
	Repo     ports.DeliveryRepository
	Live     ports.LiveStatusCache
	Alerts   ports.AlertSource
	Geo      ports.GeospatialProvider

	AlertRadiusM int
	Registry     *prometheus.Registry
	Log          zerolog.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(d Deps) http.Handler {
	validate := validator.New()

	delivery := &handlers.DeliveryHandler{Engine: d.Engine, Repo: d.Repo, Validate: validate, Log: d.Log}
	routes := &handlers.RouteHandler{Selector: d.Selector, Repo: d.Repo, Log: d.Log}
	geo := &handlers.GeoHandler{Geo: d.Geo, Log: d.Log}
	alerts := &handlers.AlertHandler{Source: d.Alerts, DefaultRadiusM: d.AlertRadiusM, Log: d.Log}
	live := &handlers.LiveHandler{Live: d.Live, Engine: d.Engine, Repo: d.Repo, Log: d.Log}
	plan := &handlers.RoutePlanHandler{Repo: d.Repo, Log: d.Log}
	tracking := &handlers.TrackingHandler{Tracker: d.Tracker, Repo: d.Repo, Log: d.Log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(requestLogger(d.Log))

	r.Get("/health", handlers.Health(d.Log))
	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/partners/{partnerID}", func(r chi.Router) {
		r.Get("/delivery", delivery.Active)
		r.Get("/deliveries", delivery.History)
		r.Get("/route-plan", plan.Plan)
	})

	r.Route("/deliveries/{orderID}", func(r chi.Router) {
		r.Post("/progress", delivery.Progress)
		r.Post("/complete", delivery.Complete)
		r.Post("/cancel", delivery.Cancel)
		r.Post("/notify", delivery.Notify)

		r.Get("/routes", routes.List)
		r.Post("/routes/{routeID}/select", routes.Select)

		r.Get("/live", live.Get)

		r.Post("/tracking/start", tracking.Start)
		r.Post("/tracking/stop", tracking.Stop)
		r.Get("/tracking", tracking.Status)
	})

	r.Get("/geocode", geo.Geocode)
	r.Get("/geocode/reverse", geo.ReverseGeocode)
	r.Get("/staticmap", geo.StaticMap)
	r.Get("/alerts", alerts.List)

	return r
}
