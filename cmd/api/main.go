package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"cloud.google.com/go/storage"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nexbuildhq/nexbuild-backend/internal/config"
	"github.com/nexbuildhq/nexbuild-backend/internal/db"
	"github.com/nexbuildhq/nexbuild-backend/internal/invoice"
	"github.com/nexbuildhq/nexbuild-backend/internal/mail"
	"github.com/nexbuildhq/nexbuild-backend/internal/notify"
	"github.com/nexbuildhq/nexbuild-backend/internal/payment"
	"github.com/nexbuildhq/nexbuild-backend/internal/server"
)

var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	srv := server.New(nil, buildDeps(logger), gitSHA, buildTime)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	errCh := make(chan error, 1)

	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	go func() {
		cfg, err := config.Load()
		if err != nil {
			log.Printf("config load error: %v", err)
			return
		}
		conn, err := db.Connect(cfg)
		if err != nil {
			log.Printf("db connect error: %v", err)
			return
		}
		srv.SetDB(conn)
		if err := db.Migrate(conn); err != nil {
			log.Printf("auto migrate error: %v", err)
		}
	}()

	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// buildDeps wires the optional collaborators from the environment. Anything
// not configured stays nil and the server skips that side effect.
func buildDeps(logger *zap.Logger) server.Deps {
	deps := server.Deps{
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
		Logger:            logger,
	}

	if host := os.Getenv("SMTP_HOST"); host != "" {
		port := 587
		if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
			port = p
		}
		from := os.Getenv("MAIL_FROM")
		if from == "" {
			from = "orders@nexbuild.example.com"
		}
		deps.Mailer = mail.NewSMTPMailer(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"), from, logger)
	}

	if key := os.Getenv("STRIPE_SECRET_KEY"); key != "" {
		deps.Gateway = payment.NewStripeGateway(key)
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		deps.Publisher = notify.NewRedisPublisher(addr, os.Getenv("REDIS_PASSWORD"), logger)
	}

	if bucket := os.Getenv("STORAGE_BUCKET"); bucket != "" {
		client, err := storage.NewClient(context.Background())
		if err != nil {
			logger.Warn("storage client init failed; invoices disabled", zap.Error(err))
		} else {
			deps.Invoices = invoice.NewGenerator(client, bucket, logger)
		}
	}

	return deps
}
