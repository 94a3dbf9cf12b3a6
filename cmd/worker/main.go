package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/feedback-insights/internal/bootstrap"
	"github.com/kirillkom/feedback-insights/internal/config"
	"github.com/kirillkom/feedback-insights/internal/observability/metrics"
)

const serviceName = "feedback-worker"

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, serviceName, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Error("metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	app.Logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeFeedbackReceived(ctx, func(handlerCtx context.Context, feedbackID string) error {
		enrichCtx, cancel := context.WithTimeout(handlerCtx, 2*time.Minute)
		defer cancel()

		workerMetrics.StartEnrichment()
		start := time.Now()
		enriched, err := app.EnrichUC.ProcessOne(enrichCtx, feedbackID)
		fallbackReason := ""
		if enriched != nil {
			fallbackReason = enriched.FallbackReason
		}
		workerMetrics.FinishEnrichment(serviceName, time.Since(start), err, fallbackReason)
		return err
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
