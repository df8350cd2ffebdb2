package main

import (
	"log"
	"testwave_backend/internal/app"
	"testwave_backend/internal/config"
	"testwave_backend/pkg/configwatcher"
	"testwave_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// Hot-reload the shared config on file changes. Middlewares read fields
	// like the JWT secret per request, so swapping the struct is enough for
	// the values that matter at runtime.
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		if updated, ok := newCfg.(*config.Config); ok {
			*cfg = *updated
			logger.Log.Info("Configuration reloaded")
		}
	})

	application.Run()
}
