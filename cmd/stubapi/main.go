package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"talentify-client/internal/config"
	"talentify-client/internal/pkg/logger"
	"talentify-client/internal/stubapi"
	"talentify-client/internal/tracer"
)

func main() {
	// 1. Load configuration
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	// 2. Tracer
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, cfg.App.OtelEndpoint, "talentify-stubapi", sysLogger)
	defer shutdownTracer(context.Background())

	// 3. Sandbox server
	srv, err := stubapi.New(stubapi.Config{
		JWTSecret: cfg.Stub.JWTSecret,
		OTPTTL:    cfg.Stub.OTPTTL,
		UploadDir: cfg.Stub.UploadDir,
	}, sysLogger)
	if err != nil {
		log.Fatalf("Unable to start sandbox backend: %v", err)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		sysLogger.Info("StubAPI", "Shutting down sandbox backend", nil)
		_ = srv.Shutdown()
	}()

	// 4. Run
	if err := srv.Listen(":" + cfg.Stub.Port); err != nil {
		log.Fatal(err)
	}
}
