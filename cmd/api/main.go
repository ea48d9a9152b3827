package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Exavo-ai/exavo-rag/internal/app"
	"github.com/Exavo-ai/exavo-rag/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer application.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return application.Server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return application.Server.Shutdown(shutdownCtx)
	})

	log.Println("exavo-rag is running; DB connected and bootstrapped.")
	if err := g.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Println("shutdown complete")
}
