package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"yard-tracking-backend/config"
	"yard-tracking-backend/internal/notification"
	"yard-tracking-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	authCfg  config.AuthConfig
	webpush  *webpush.Options
	notifier *notification.WorkerPool
}

// NewHandler creates a new API handler. The notifier may be nil when push
// notifications are not configured.
func NewHandler(s store.Store, authCfg config.AuthConfig, webpushOptions *webpush.Options, notifier *notification.WorkerPool) *Handler {
	return &Handler{
		store:    s,
		authCfg:  authCfg,
		webpush:  webpushOptions,
		notifier: notifier,
	}
}

// abortStoreError translates store errors into the API status mapping:
// 404 for missing entities, 409 for vanished referents, 500 otherwise.
func abortStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "referenced entity no longer exists"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
