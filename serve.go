package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/utpal74/ai-task-scheduler/common"
	"github.com/utpal74/ai-task-scheduler/config"
	"github.com/utpal74/ai-task-scheduler/handlers"
	"github.com/utpal74/ai-task-scheduler/logger"
	"github.com/utpal74/ai-task-scheduler/routes"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.GetLogger(cfg.Env)
	defer log.Sync()
	ctx := logger.WithLogger(context.Background(), log)

	// Create a new context with a timeout for connecting to the backing services
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	a, err := bootstrap(connectCtx, cfg, log)
	cancel()
	common.FailOnError(ctx, "bootstrap", err)

	router := setupRouter(a)
	startServer(ctx, router, cfg.Port)

	a.close(ctx)
	return nil
}

func setupRouter(a *app) *gin.Engine {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestLogger(a.logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", handlers.IdentityHeader},
		AllowCredentials: true,
	}))

	routes.SetupRoutes(router,
		handlers.NewTaskHandler(a.tasks),
		handlers.NewSummaryHandler(a.summaries, a.notifier),
		handlers.NewAuthHandler(a.provider, a.store, a.states),
		handlers.HealthHandler(a.store),
	)

	return router
}

func newServer(router *gin.Engine, port string) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func startServer(ctx context.Context, router *gin.Engine, port string) {
	log := logger.FromCtx(ctx)
	srv := newServer(router, port)

	go func() {
		log.Info("Server listening", zap.String("port", port))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			common.FailOnError(ctx, "listen", err, zap.String("addr", srv.Addr))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server with a timeout of 10 seconds
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	common.FailOnError(ctx, "shutdown", srv.Shutdown(shutdownCtx))
	log.Info("Server exiting")
}
