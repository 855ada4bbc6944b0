// Package api exposes a network.Store over HTTP.
package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamenet/backend/internal/graph"
	"gamenet/backend/internal/network"
)

// Mirror receives a copy of the network after every successful change
type Mirror interface {
	SyncNetwork(ctx context.Context, n *network.Network) (*graph.SyncResult, error)
}

// Handler serves the network API
type Handler struct {
	store  *network.Store
	mirror Mirror
	logger *zap.Logger

	syncMu sync.Mutex
}

// NewHandler creates a handler over store. mirror may be nil.
func NewHandler(store *network.Store, mirror Mirror, log *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		mirror: mirror,
		logger: log,
	}
}

// NewRouter builds the Gin engine with logging, recovery and CORS
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(h.logger))
	router.Use(gin.Recovery())
	router.Use(cors())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/users", h.listUsers)
		api.POST("/users", h.addUser)
		api.GET("/users/:name", h.getUser)
		api.GET("/users/:name/connections", h.getConnections)
		api.POST("/users/:name/connections", h.addConnection)
		api.GET("/users/:name/games", h.getGames)
		api.GET("/users/:name/secondary", h.getSecondaryConnections)

		api.GET("/network", h.getNetwork)
		api.PUT("/network", h.replaceNetwork)
		api.GET("/network/dangling", h.getDangling)
	}

	return router
}
