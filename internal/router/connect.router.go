package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"connect-service/internal/handler"
	"connect-service/pkg/middleware"
)

func SetupRoutes(
	r chi.Router,
	authHandler *handler.AuthHandler,
	friendHandler *handler.FriendHandler,
	groupHandler *handler.GroupHandler,
	chatHandler *handler.ChatHandler,
	auth *middleware.AuthMiddleware,
	rdb *redis.Client,
) chi.Router {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimiter(rdb, 100, time.Minute, time.Minute, "global_connect"))

	r.Route("/api/v1", func(api chi.Router) {

		// ---------------- Public ----------------
		api.Group(func(pub chi.Router) {
			pub.Get("/auth/health", authHandler.Health)
			pub.With(middleware.RateLimiter(rdb, 10, 30*time.Second, time.Minute, "connect_auth")).
				Post("/auth/signup", authHandler.Signup)
			pub.With(middleware.RateLimiter(rdb, 10, 30*time.Second, time.Minute, "connect_auth")).
				Post("/auth/login", authHandler.Login)
			pub.Post("/auth/logout", authHandler.Logout)
		})

		// ---------------- Authenticated ----------------
		api.Group(func(priv chi.Router) {
			priv.Use(auth.Require())

			priv.Post("/auth/onboarding", authHandler.Onboard)
			priv.Get("/auth/me", authHandler.Me)

			priv.Route("/users", func(u chi.Router) {
				u.Get("/", friendHandler.Recommend)
				u.Get("/friends", friendHandler.ListFriends)
				u.Post("/friend-request/{id}", friendHandler.SendRequest)
				u.Put("/friend-request/{id}/accept", friendHandler.AcceptRequest)
				u.Get("/friend-requests", friendHandler.ListRequests)
				u.Get("/friend-requests/outgoing", friendHandler.ListOutgoing)
			})

			priv.Route("/groups", func(g chi.Router) {
				g.Post("/", groupHandler.Create)
				g.Get("/", groupHandler.List)
				g.Get("/{id}", groupHandler.Get)
				g.Post("/{id}/join", groupHandler.Join)
				g.Post("/{id}/leave", groupHandler.Leave)
				g.Put("/{id}", groupHandler.Update)
				g.Delete("/{id}", groupHandler.Delete)
				g.Delete("/{id}/member/{userId}", groupHandler.RemoveMember)
			})

			priv.Get("/chat/token", chatHandler.StreamToken)
		})
	})

	return r
}
