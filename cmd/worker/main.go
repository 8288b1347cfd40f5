package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"faceattend/internal/config"
	"faceattend/internal/logger"
	"faceattend/internal/notify"
	"faceattend/internal/store"
)

// Worker consumes queued notification jobs and delivers them over SMTP.
// Delivery failures are logged and never retried.
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var queue notify.Queue
	if cfg.QueueBackend == "memory" {
		queue = notify.NewInMemory(64)
	} else {
		queue = notify.NewRedisQueue(redisClient.Client, "faceattend:notifications")
	}

	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	if !mailer.Configured() {
		log.Warn("mailer not configured (SMTP_HOST / SMTP_FROM not set), jobs will be dropped")
	}

	jobs, err := queue.Consume(ctx)
	if err != nil {
		log.Fatal("queue consume init failed", zap.Error(err))
	}

	log.Info("worker started, waiting for notifications")
	for mail := range jobs {
		if !mailer.Configured() {
			log.Warn("dropping notification", zap.String("to", mail.To))
			continue
		}
		if err := mailer.Send(mail); err != nil {
			log.Error("mail delivery failed", zap.String("to", mail.To), zap.Error(err))
			continue
		}
		log.Info("notification sent", zap.String("to", mail.To))
	}

	log.Info("worker stopped")
}
