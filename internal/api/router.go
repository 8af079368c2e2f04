// Package api exposes the discovery session over HTTP.
package api

import (
	"context"

	"github.com/NischalAcharya060/GearZone-sub001/internal/discovery"
	"github.com/NischalAcharya060/GearZone-sub001/internal/identity"
	"github.com/NischalAcharya060/GearZone-sub001/internal/notification"
	notificationRepository "github.com/NischalAcharya060/GearZone-sub001/internal/repository/notification"

	"github.com/gin-gonic/gin"
)

// Identity is the writable side of the identity provider.
type Identity interface {
	Current() string
	Set(ctx context.Context, id string)
}

type Watcher interface {
	State() notification.State
	Subscribe(chan<- notification.Signal)
	Unsubscribe(chan<- notification.Signal)
}

type Dependencies struct {
	Session       *discovery.Session
	Identity      Identity
	Verifier      identity.Verifier
	Watcher       Watcher
	Notifications notificationRepository.IRepository
	// Payment routes are left out when nil.
	Payment interface{ Register(gin.IRoutes) }
}

func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog())
	SetupRoutes(r, deps)
	return r
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	handlers := NewHandlers(deps)

	v1 := r.Group("/api")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.HEAD("/health", handlers.HealthCheck)

		// Catalog
		v1.GET("/products", handlers.GetProducts)
		v1.POST("/catalog/refresh", handlers.RefreshCatalog)
		v1.GET("/categories", handlers.GetCategories)
		v1.GET("/banners", handlers.GetBanners)
		v1.GET("/ratings", handlers.GetRatings)

		// Session
		v1.PUT("/session", handlers.SignIn)
		v1.DELETE("/session", handlers.SignOut)

		// Notifications
		v1.GET("/notifications/unread", handlers.GetUnread)
		v1.GET("/notifications/stream", handlers.StreamNotifications)
		v1.POST("/notifications/:id/read", handlers.MarkNotificationAsRead)
	}

	if deps.Payment != nil {
		deps.Payment.Register(r)
	}
}
