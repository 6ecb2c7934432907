package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/saiinfotech/catalog-be/internal/api/handlers"
	"github.com/saiinfotech/catalog-be/internal/auth"
	"github.com/saiinfotech/catalog-be/internal/images"
	"github.com/saiinfotech/catalog-be/internal/services"
	"github.com/saiinfotech/catalog-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	tokens *auth.Auth,
	userService services.UserServiceProvider,
	productService services.ProductServiceProvider,
	eventService services.EventServiceProvider,
	uploader images.Uploader,
	hub *websocket.Hub,
	adminUsername, adminPassword string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, eventService, tokens, adminUsername, adminPassword)
	productHandler := handlers.NewProductHandler(productService, eventService)
	eventHandler := handlers.NewEventHandler(eventService)
	uploadHandler := handlers.NewUploadHandler(uploader, eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	requireAuth := tokens.Middleware()

	r.Route("/api", func(r chi.Router) {
		// Live feed for the admin dashboard
		r.Get("/ws", wsHandler.Serve)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/setup", authHandler.Setup)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.Me)
				r.Post("/change-password", authHandler.ChangePassword)
			})
		})

		// Public storefront endpoints
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.GetAll)
			r.Get("/featured", productHandler.GetFeatured)
			r.Get("/{id}", productHandler.Get)
		})

		// Admin-only endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/stats", productHandler.GetStats)
			r.Get("/events", eventHandler.GetRecent)
			r.Route("/products", func(r chi.Router) {
				r.Post("/", productHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", productHandler.Update)
					r.Delete("/", productHandler.Delete)
				})
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/upload", uploadHandler.Upload)
		})
	})

	return r
}
