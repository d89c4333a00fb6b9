package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"yard-tracking-backend/config"
	"yard-tracking-backend/internal/mw"
	"yard-tracking-backend/internal/notification"
	"yard-tracking-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, webpushOptions *webpush.Options, notifier *notification.WorkerPool) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, cfg.Auth, webpushOptions, notifier)

	rps := cfg.Server.RateLimitPerSec
	if rps <= 0 {
		rps = 10
	}
	rateLimiter := mw.RateLimiter(rate.Limit(rps), 5)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)

		// GET /api/vapid_public_key
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		authed := api.Group("")
		authed.Use(mw.RequireAuth(cfg.Auth))
		{
			authed.POST("/vehicles", handler.RegisterVehicle)
			authed.GET("/vehicles", caching, handler.ListVehicles)
			authed.GET("/vehicles/search", handler.SearchVehicle)
			authed.DELETE("/vehicles/:id", handler.DeleteVehicle)

			authed.POST("/locations", handler.RegisterLocation)
			authed.GET("/locations/search", handler.SearchLocation)
			authed.DELETE("/locations/:id", handler.DeleteLocation)

			authed.POST("/history", handler.CreateHistory)
			authed.GET("/history", handler.ListHistory)
			// "/history/all" must be registered before "/history/:id".
			authed.DELETE("/history/all", handler.ClearHistory)
			authed.DELETE("/history/:id", handler.DeleteHistory)
			authed.PUT("/history/:id/location", handler.UpdateHistoryLocation)

			authed.GET("/subscriptions", handler.GetSubscription)
			authed.PUT("/subscriptions", handler.PutSubscription)
			authed.DELETE("/subscriptions", handler.DeleteSubscription)
		}
	}

	return r
}
