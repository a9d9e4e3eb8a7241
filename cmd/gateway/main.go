// ==============================================================================
// PAYMENT GATEWAY MAIN - cmd/gateway/main.go
// ==============================================================================
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"ripapay/internal/b2b"
	"ripapay/internal/chain"
	"ripapay/internal/fees"
	"ripapay/internal/handler"
	"ripapay/internal/middleware"
	"ripapay/internal/payment"
	"ripapay/internal/pos"
	"ripapay/internal/qr"
	"ripapay/internal/qubic"
	"ripapay/internal/wallet"
	"ripapay/pkg/config"
	"ripapay/pkg/logger"
	"ripapay/pkg/validator"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New("ripapay-gateway")

	log.Info("Starting RipaPay Gateway", map[string]interface{}{
		"port":     cfg.Server.Port,
		"chain":    cfg.Chain.DefaultChainID,
		"node_url": cfg.Qubic.RPCURL,
	})

	// Chain gateway and registry
	qubicClient := qubic.NewClient(cfg.Qubic, log)

	registry := chain.NewRegistry()
	if err := registry.Register(cfg.Chain.DefaultChainID, chain.Config{
		DisplayName: cfg.Chain.DisplayName,
		Enabled:     cfg.Chain.Enabled,
		Gateway:     qubicClient,
	}); err != nil {
		log.Fatal("Failed to register default chain", map[string]interface{}{"error": err.Error()})
	}

	// Core services
	calculator := fees.NewCalculatorWithRates(cfg.Fees.StandardRate, cfg.Fees.B2BRate)
	codec := qr.NewCodec()
	verifier := qr.NewVerifier(codec)

	paymentService := payment.NewService(registry, calculator, log)
	tracker := payment.NewTracker(qubicClient, log)
	walletService := wallet.NewService(qubicClient, log)
	posService := pos.NewService(codec, verifier, paymentService, log)

	directory := b2b.NewStaticDirectory(cfg.Chain.BusinessWallets)
	b2bService := b2b.NewService(directory, paymentService, registry, log)

	// Handlers
	val := validator.New()
	paymentHandler := handler.NewPaymentHandler(paymentService, tracker, val, log)
	qrHandler := handler.NewQRHandler(posService, verifier, val, log)
	posHandler := handler.NewPOSHandler(posService, val, log)
	walletHandler := handler.NewWalletHandler(walletService, val, log)
	b2bHandler := handler.NewB2BHandler(b2bService, val, log)
	systemHandler := handler.NewSystemHandler(qubicClient, log)

	// Router
	r := mux.NewRouter()

	r.Use(middleware.CORS(cfg.CORS.AllowedOrigin))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Recovery)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.NewLoggingMiddleware(log).Log)
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB global cap

	r.HandleFunc("/", systemHandler.Root).Methods("GET")
	r.HandleFunc("/health", systemHandler.Health).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/transactions", paymentHandler.CreateTransaction).Methods("POST")
	api.HandleFunc("/transactions/{id}", paymentHandler.GetTransaction).Methods("GET")
	api.HandleFunc("/transactions/{address}/inbound", paymentHandler.GetInbound).Methods("GET")
	api.HandleFunc("/transactions/{address}/outbound", paymentHandler.GetOutbound).Methods("GET")

	api.HandleFunc("/qr/generate", qrHandler.Generate).Methods("POST")
	api.HandleFunc("/qr/verify", qrHandler.VerifyPayment).Methods("POST")

	api.HandleFunc("/pos/create", posHandler.Create).Methods("POST")
	api.HandleFunc("/pos/process", posHandler.Process).Methods("POST")

	api.HandleFunc("/wallet/connect", walletHandler.Connect).Methods("POST")
	api.HandleFunc("/wallet/{address}/balance", walletHandler.GetBalance).Methods("GET")
	api.HandleFunc("/wallet/{address}/transactions", walletHandler.GetTransactions).Methods("GET")

	api.HandleFunc("/b2b/transfer", b2bHandler.Transfer).Methods("POST")
	api.HandleFunc("/b2b/supported-chains", b2bHandler.GetSupportedChains).Methods("GET")
	api.HandleFunc("/b2b/register-chain", b2bHandler.RegisterChain).Methods("POST")

	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Server exited", nil)
}
