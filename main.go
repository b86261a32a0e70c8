package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"compsuite/cache"
	"compsuite/commission"
	"compsuite/config"
	"compsuite/database"
	"compsuite/jobs"
	"compsuite/network"
	"compsuite/routes"
	"compsuite/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	database.Connect()

	var store cache.Store = cache.NewMemory()
	if client := config.ConnectRedis(); client != nil {
		store = cache.NewRedis(client)
	}

	ttl := cache.DefaultTTL
	if raw := os.Getenv("CACHE_TTL_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}
	balanceCache := cache.NewBalanceCache(store, ttl)

	net := network.New(database.DB)
	rules := commission.DefaultRules()
	ledger := commission.NewLedger(database.DB)
	engine := commission.NewEngine(database.DB, net, ledger, rules, balanceCache)
	aggregator := wallet.NewAggregator(database.DB, ledger)

	host := os.Getenv("HOST")
	port := os.Getenv("PORT")

	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "3000"
	}

	app := fiber.New()
	routes.Setup(app, routes.Deps{
		Network:    net,
		Engine:     engine,
		Ledger:     ledger,
		Aggregator: aggregator,
		Cache:      balanceCache,
	})
	jobs.StartTeamVolumeScheduler(engine)

	addr := fmt.Sprintf("%s:%s", host, port)
	log.Println("Server running at", addr)

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Panicf("Failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Gracefully shutting down...")
	if err := app.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited cleanly")
}
