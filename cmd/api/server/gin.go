package server

import (
	"net/http"
	"time"

	ginhandler "auth-service/internal/adapter/gin/handler"
	ginrouter "auth-service/internal/adapter/gin/router"

	"go.uber.org/zap"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(handler *ginhandler.AuthHandler, addr string, l *zap.Logger) *http.Server {
	router := ginrouter.SetupRouter(handler, l)

	l.Info("Gin REST API configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
