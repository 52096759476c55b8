package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"giftlist/internal/docstore"
	"giftlist/internal/handlers"
	"giftlist/internal/middleware"
	"giftlist/internal/preview"
	"giftlist/internal/wishlist"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(store docstore.Store, service *wishlist.Service) {
	auth := middleware.NewAuthMiddleware(s.Sessions, service)

	authHandler := handlers.NewAuthHandler(service, s.Sessions)
	itemHandler := handlers.NewItemHandler(service)
	eventsHandler := handlers.NewEventsHandler(service)
	reservationHandler := handlers.NewReservationHandler(service)
	userHandler := handlers.NewUserHandler(service)
	previewHandler := handlers.NewPreviewHandler(preview.NewFetcher())
	probeHandler := handlers.NewProbeHandler(store)

	api := s.App.Group("/api")

	// Session routes
	api.Post("/login", authHandler.Login)
	api.Post("/logout", authHandler.Logout)
	api.Get("/me", auth.RequireAuth, authHandler.Me)
	api.Put("/profile/pin", auth.RequireAuth, authHandler.ChangePIN)

	// Family directory
	api.Get("/users", auth.RequireAuth, userHandler.List)

	// Wishlists
	api.Get("/lists/:owner", auth.RequireAuth, itemHandler.List)
	api.Get("/lists/:owner/events", auth.RequireAuth, eventsHandler.List)
	api.Post("/lists/:owner/items", auth.RequireAuth, itemHandler.Create)
	api.Post("/lists/:owner/reorder", auth.RequireAuth, itemHandler.Reorder)

	// Items
	api.Put("/items/:id", auth.RequireAuth, itemHandler.Update)
	api.Delete("/items/:id", auth.RequireAuth, itemHandler.Delete)
	api.Post("/items/:id/reserve", auth.RequireAuth, itemHandler.Reserve)
	api.Post("/items/:id/release", auth.RequireAuth, itemHandler.Release)

	// Gifts the viewer is giving
	api.Get("/my-gifts", auth.RequireAuth, reservationHandler.MyGifts)
	api.Get("/my-gifts/events", auth.RequireAuth, eventsHandler.MyGifts)

	// Link previews
	api.Get("/link-preview", auth.RequireAuth, previewHandler.Lookup)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
