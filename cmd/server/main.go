package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contractlens/internal/analysis"
	"contractlens/internal/config"
	"contractlens/internal/handler"
	"contractlens/internal/hub"
	"contractlens/internal/loader"
	"contractlens/internal/loop"
	"contractlens/internal/metrics"
	"contractlens/internal/scene"
	"contractlens/internal/service"
	"contractlens/internal/watcher"
)

//go:embed web/*
var webFS embed.FS

func main() {
	// Command line flags override the config file
	configPath := flag.String("config", "", "Config file path (default: search standard locations)")
	addr := flag.String("addr", "", "HTTP listen address")
	analysisURL := flag.String("analysis-url", "", "Dependency analysis API base URL")
	payloadPath := flag.String("payload", "", "Dependency payload file to load at startup (JSON or YAML)")
	watch := flag.Bool("watch", false, "Reload the payload file when it changes")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting contractlens server...")

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *analysisURL != "" {
		cfg.Analysis.BaseURL = *analysisURL
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if path != "" {
		log.Printf("Config loaded: %s", path)
	}
	log.Println(cfg.Summary())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := metrics.DefaultRegistry()

	// Event loop owns every scene; everything else posts to it
	eventLoop := loop.New(cfg.Server.FrameInterval.Duration())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := eventLoop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Event loop stopped: %v", err)
		}
	}()

	// Initialize SSE hub
	sseHub := hub.New(reg)
	go sseHub.Run(ctx)

	// Connect event bus to SSE hub
	eventBus := service.NewEventBus()
	eventChan := make(chan scene.Event, 256)
	eventBus.Subscribe(eventChan)
	go sseHub.Consume(ctx, eventChan)

	client := analysis.NewClient(cfg.AnalysisClient(), reg)
	visualizer := service.NewVisualizer(eventLoop, client, eventBus, reg, service.Options{
		Scene:          cfg.SceneOptions(),
		StreamInterval: cfg.Server.StreamInterval.Duration(),
	})

	if *payloadPath != "" {
		if err := loadPayloadFile(ctx, visualizer, *payloadPath); err != nil {
			log.Fatalf("Failed to load payload: %v", err)
		}

		if *watch {
			w := watcher.New(*payloadPath, func() {
				if err := loadPayloadFile(ctx, visualizer, *payloadPath); err != nil {
					log.Printf("Reload failed: %v", err)
				}
			})
			go func() {
				if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("Watcher stopped: %v", err)
				}
			}()
		}
	} else if *watch {
		log.Println("-watch ignored without -payload")
	}

	// Setup routes
	mux := http.NewServeMux()
	handler.NewGraphHandler(visualizer).Register(mux)
	mux.Handle("GET /events", sseHub)
	mux.Handle("GET /metrics", reg.Handler())

	// Static files from embedded filesystem
	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		log.Fatalf("Failed to get embedded web content: %v", err)
	}
	mux.Handle("/", http.FileServer(http.FS(webContent)))

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS(cfg.Server.CORSOrigin),
		handler.Logger,
		handler.Metrics(reg),
	)

	// No write timeout: /events responses stay open
	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     finalHandler,
		ReadTimeout: cfg.Server.ReadTimeout.Duration(),
		IdleTimeout: cfg.Server.IdleTimeout.Duration(),
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := visualizer.Close(shutdownCtx); err != nil {
		log.Printf("Scene shutdown error: %v", err)
	}

	// Stopping the hub ends open event streams so Shutdown can finish
	cancel()
	<-loopDone

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

func loadPayloadFile(ctx context.Context, v *service.Visualizer, path string) error {
	payload, err := loader.LoadFile(path, "")
	if err != nil {
		return err
	}
	loaded, err := v.LoadPayload(ctx, payload)
	if err != nil {
		return err
	}
	log.Printf("Loaded %s: %d nodes, %d links", path, loaded.Nodes, loaded.Links)
	return nil
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}
