package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"yarmouktailor/backend/internal/config"
	"yarmouktailor/backend/internal/handoff"
	"yarmouktailor/backend/internal/httpapi"
	"yarmouktailor/backend/internal/order"
	"yarmouktailor/backend/internal/service"
	"yarmouktailor/backend/internal/session"
	"yarmouktailor/backend/internal/store/memory"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	catalog := memory.NewSeeded()
	closers := make([]func() error, 0, 1)

	var sessionStore session.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("redis unavailable (%v), using in-memory sessions", err)
			_ = client.Close()
			sessionStore = session.NewMemoryStore(cfg.SessionTTL)
		} else {
			sessionStore = session.NewRedisStore(client, cfg.SessionTTL)
			closers = append(closers, client.Close)
			log.Println("sessions: redis")
		}
	} else {
		sessionStore = session.NewMemoryStore(cfg.SessionTTL)
		log.Println("sessions: in-memory")
	}

	dispatcher := &handoff.Dispatcher{
		Destination: cfg.WhatsAppNumber,
		Options: order.Options{
			ShopName:            cfg.ShopName,
			CurrencyLabel:       cfg.CurrencyLabel,
			ServiceFee:          cfg.TailoringFee,
			DepositPercent:      cfg.DepositPercent,
			CollectDeliveryDate: cfg.CollectDeliveryDate,
			IncludeOrderID:      cfg.IncludeOrderID,
			PaymentMethods:      cfg.PaymentMethods,
		},
	}

	sessions := session.NewManager(sessionStore)
	svc := service.New(catalog, sessions, dispatcher, cfg.TailoringFee, cfg.DispatchDelay)
	api := httpapi.New(svc, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("storefront backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}
