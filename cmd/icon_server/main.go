package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fileicon/internal/cache_service"
	"fileicon/internal/constants"
	"fileicon/internal/metrics_service"
	"fileicon/internal/settings"
	"fileicon/internal/utils"
)

// Version is set at build time via -ldflags "-X main.Version=x.x.x"
var Version = "dev"

var IconCache *cache_service.PngCache

func main() {
	rootCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	if err := settings.InitializeServer(); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if !utils.FileExists("fileicon_config.json") {
		loadDefaults(&CONFIG)
		if err := saveConfig(&CONFIG); err != nil {
			fmt.Println("Error writing default config:", err)
			return
		}
		fmt.Println("Default settings written to fileicon_config.json")
	}

	readFile(&CONFIG)
	readEnv(&CONFIG)
	loadDefaults(&CONFIG)

	logger, err := NewFileLogger(CONFIG.LogFile)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("starting icon server", "version", Version, "port", CONFIG.Port)

	shutdownTelemetry, err := metrics_service.Setup(rootCtx, constants.SERVICE_NAME)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Error("telemetry shutdown failed", "error", err.Error())
		}
	}()

	if !CONFIG.NoCache {
		IconCache = cache_service.NewPngCache(CONFIG.CacheSize)
		defer IconCache.Close()
		log.Printf("Icon cache enabled, max %d entries", CONFIG.CacheSize)
	}

	addr := fmt.Sprintf("%s:%s", CONFIG.Host, CONFIG.Port)
	server := NewAPIServer(addr)
	err = server.Run()
	logger.Error("server stopped", "error", err.Error())
	println(err.Error())
}
