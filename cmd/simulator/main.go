// Command simulator runs a demo simulation: a random-walk feed drives
// the broker engine while an HTTP surface exposes the latest frozen
// account snapshot, Prometheus metrics, and a WebSocket stream of fills.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/account"
	"github.com/quantsim/simbroker/internal/asset"
	"github.com/quantsim/simbroker/internal/currency"
	"github.com/quantsim/simbroker/internal/feed"
	"github.com/quantsim/simbroker/internal/metrics"
	"github.com/quantsim/simbroker/internal/order"
	"github.com/quantsim/simbroker/internal/sim"
	"github.com/quantsim/simbroker/internal/stream"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	symbols := strings.Split(envOr("SYMBOLS", "AAPL,MSFT,TSLA"), ",")
	steps := envInt("STEPS", 10000)

	assets := make([]asset.Asset, 0, len(symbols))
	for _, s := range symbols {
		assets = append(assets, asset.New(strings.TrimSpace(s), currency.USD))
	}

	// --- Broker wiring ---
	pricing, err := sim.NewSpreadPricingEngine(decimal.NewFromInt(10)) // 10 bps
	if err != nil {
		slog.Error("invalid pricing configuration", "err", err)
		os.Exit(1)
	}
	rates := currency.SingleCurrencyRates{}
	model, err := account.NewMarginAccountModelFromLeverage(decimal.NewFromInt(2), rates)
	if err != nil {
		slog.Error("invalid margin configuration", "err", err)
		os.Exit(1)
	}

	engine := sim.NewExecutionEngine(sim.NewDefaultRegistry(), pricing)
	broker := sim.NewBroker(engine, currency.USD, model)
	broker.Deposit(currency.NewAmount(currency.USD, decimal.NewFromInt(1_000_000)))

	// --- WebSocket hub ---
	hub := stream.NewHub()
	go hub.Run()

	// --- Feed and run loop ---
	start := time.Now().UTC()
	marketFeed := &feed.RandomWalkFeed{
		Assets:     assets,
		Start:      start,
		Interval:   time.Minute,
		Steps:      steps,
		StartPrice: decimal.NewFromInt(100),
		Volatility: 0.01,
		Seed:       42,
	}

	// Demo orders: a bracket per asset.
	var orders []order.Order
	for _, a := range assets {
		orders = append(orders, order.NewBracket(a,
			decimal.NewFromInt(100),      // size
			decimal.NewFromInt(110),      // take-profit
			decimal.NewFromFloat(0.05))) // 5% trailing stop
	}
	if err := broker.PlaceOrders(start, orders...); err != nil {
		slog.Error("order placement failed", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var latest atomic.Pointer[account.Account]
	latest.Store(broker.ToAccount())

	done := make(chan struct{})
	go func() {
		defer close(done)
		events := feed.Run(ctx, marketFeed, 100)
		processed := 0
		for ev := range events {
			snapshot, trades, err := broker.Process(ev)
			if err != nil {
				slog.Error("event processing failed", "err", err)
				cancel()
				return
			}
			latest.Store(snapshot)

			for _, tr := range trades {
				hub.Broadcast(stream.Message{
					Type:    "fill",
					OrderID: tr.Execution.OrderID,
					Asset:   tr.Execution.Asset.Symbol,
					Size:    tr.Execution.Size.String(),
					Price:   tr.Execution.Price.String(),
					PnL:     tr.PnL.String(),
					Time:    tr.Execution.Time.Format(time.RFC3339),
				})
			}

			if equity, err := snapshot.Equity(rates); err == nil {
				hub.Broadcast(stream.Message{
					Type:   "equity",
					Equity: equity.StringFixed(2),
					Time:   ev.Time.Format(time.RFC3339),
				})
			}

			processed++
			if processed%1000 == 0 {
				broker.Compact()
			}
		}
		slog.Info("feed exhausted", "events", processed)
	}()

	// --- HTTP router ---
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"simbroker"}`))
	})

	// Prometheus metrics endpoint.
	r.Handle("/metrics", metrics.Handler())

	// Latest frozen account snapshot; safe to serve concurrently.
	r.Get("/account", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(latest.Load())
	})

	r.Get("/ws", hub.HandleWS)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("simbroker listening", "port", port, "assets", len(assets), "steps", steps)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: stop the run loop, then the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-done:
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	slog.Info("shutting down simbroker...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
	fmt.Println("simbroker stopped")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
