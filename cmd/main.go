package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"printshop/internal/config"
	"printshop/internal/handlers"
	"printshop/internal/logger"
	"printshop/internal/repository"
	"printshop/internal/repository/db"
	"printshop/internal/server"
	"printshop/internal/service"
)

// @title                       Print Shop API
// @version                     1.0
// @description                 Stock, printers, budgets and sliced-file analysis for a 3D printing shop.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load configs/config.yml + PRINTSHOP_* env
	cfg, err := config.Load()
	if err != nil {
		logger.Get("info").Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	// open DB
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, cfg)
	apiHandler := handlers.NewHandler(services, log, cfg.Uploads.MaxBytes)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Server, apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, cfg.Server, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, cfg config.ServerConfig, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", cfg.Port)
		if err := srv.Run(cfg, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, cfg config.ServerConfig, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
