package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m1guelpf/chatgpt-paywall/src/adapters"
	"github.com/m1guelpf/chatgpt-paywall/src/api"
	"github.com/m1guelpf/chatgpt-paywall/src/config"
	"github.com/m1guelpf/chatgpt-paywall/src/paywall"
)

func main() {
	envConfig, err := config.LoadEnvConfig(".env")
	if err != nil {
		log.Fatalf("Couldn't load .env config: %v", err)
	}
	if err := envConfig.ValidateWithDefaults(); err != nil {
		log.Fatalf("Invalid .env config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	store := adapters.NewKVStore(envConfig.KVRestAPIURL, envConfig.KVRestAPIToken, envConfig.HTTPTimeout())
	verifier := adapters.NewStripeVerifier(envConfig.StripeWebhookSecret, envConfig.StripeIgnoreAPIVersion)
	svc := paywall.NewService(envConfig.StripePaymentLink, store, verifier, logger)

	router := api.NewRouter(svc, api.Options{
		PublicURL: envConfig.PublicURL,
		AppName:   envConfig.AppName,
	}, logger)
	server := api.NewServer(envConfig.ListenAddr, router, logger)

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	log.Printf("Started %s on %s", envConfig.AppName, envConfig.ListenAddr)

	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
