package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lunapos/print-bridge/internal/agent"
	"github.com/lunapos/print-bridge/internal/bridge"
	"github.com/lunapos/print-bridge/internal/model"
	"github.com/lunapos/print-bridge/internal/utils"
)

const (
	appName     = "print-bridge"
	appVersion  = "1.0.0"
	defaultPort = "9638"
)

// --- Main ---

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	gin.SetMode(gin.ReleaseMode)
	gin.EnableJsonDecoderDisallowUnknownFields()

	store := model.NewConfigStore(configPath())

	bridge.InitMetrics()

	r := gin.Default()
	r.Use(bridge.PrometheusMiddleware())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization", "X-Auth-Token"},
	}))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := bridge.NewHandler(store, appVersion)
	handler.RegisterRoutes(r, os.Getenv("BRIDGE_AUTH_TOKEN"))

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	// Background reachability probe for the configured network printer.
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.Every(30).Seconds().Do(func() {
		cfg := store.Get()
		if cfg.Type != model.PrinterTypeNetwork || cfg.NetworkIP == "" {
			return
		}
		if utils.Probe(cfg.NetworkIP, cfg.NetworkPort) {
			bridge.PrinterReachable.Set(1)
		} else {
			bridge.PrinterReachable.Set(0)
		}
	})
	scheduler.StartAsync()
	defer scheduler.Stop()

	// Optional cloud agent mode.
	if wsURL := os.Getenv("BRIDGE_WS_URL"); wsURL != "" {
		go agent.New(wsURL, os.Getenv("BRIDGE_AGENT_KEY"), store).Run(ctx)
	}

	port := os.Getenv("BRIDGE_PORT")
	if port == "" {
		port = defaultPort
	}
	// Loopback only: the bridge must never be reachable beyond this machine.
	addr := "127.0.0.1:" + port

	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		log.Printf("%s %s listening on %s", appName, appVersion, addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// The service is useless without its port.
			log.Fatalf("Cannot listen on %s: %v", addr, err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "printer.json")
}
