//go:build !lambda
// +build !lambda

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cyphera/cyphera-tax/apps/api/server"
	"github.com/cyphera/cyphera-tax/libs/go/constants"
	"github.com/cyphera/cyphera-tax/libs/go/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

//go:generate swag init -g main.go -d ./,../../handlers,../../../../libs/go/types/api -o ../../docs

// @title           Cyphera Tax API
// @version         1.0
// @description     Progressive income tax schedules fetched from published bracket tables, with exact decimal tax calculation.

// @host      localhost:8000
// @BasePath  /api/v1
func main() {
	err := godotenv.Load("../../.env")
	if err != nil {
		// Variables may be set directly in the environment.
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	server.InitializeHandlers()
	defer func() { _ = logger.Sync() }()

	r := gin.New()
	server.InitializeRoutes(r)

	port := os.Getenv(constants.APIPortEnvVar)
	if port == "" {
		port = "8000"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Error starting server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", zap.Error(err))
	}
	server.Shutdown()
}
