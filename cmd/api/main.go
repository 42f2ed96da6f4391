package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tuitionpay/internal/config"
	"tuitionpay/internal/handler"
	"tuitionpay/internal/repository"
	"tuitionpay/internal/service"
	"tuitionpay/pkg/db"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	customerRepo := repository.NewCustomerRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	txRepo := repository.NewTransactionRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)

	authService := service.NewAuthService(customerRepo, sessionRepo, cfg.SessionTTL)
	paymentService := service.NewPaymentService(pool, customerRepo, studentRepo, txRepo, service.LogOtpSender{}, cfg.OtpTTL)
	historyService := service.NewHistoryService(txRepo)

	h := handler.NewHTTPHandler(authService, paymentService, historyService)
	router := handler.NewRouter(cfg, h, authService)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.AppPort),
		Handler: router,
	}

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
		cancel()
	}()

	log.Printf("Tuition payment API listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to serve: %v", err)
	}
}
