package main

import (
	"context"
	"log"

	"dataportal/internal/api"
	"dataportal/internal/config"
	"dataportal/internal/container"
	"dataportal/internal/logging"
	"dataportal/ui"
	"dataportal/ui/datatable"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Default.SetLevel(logging.ParseLevel(appConfig.LogLevel))

	appContainer, err := container.New(context.Background(), appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown()

	content := api.NewRouter(appContainer.ContentHandler(), appConfig.Server.GinMode)

	uiConfig := ui.Config{
		ScriptRoot:    appConfig.Server.ScriptRoot,
		FetchTimeout:  appConfig.Server.FetchTimeout,
		ViewCacheSize: appConfig.Cache.ViewCacheSize,
		Content:       content,
	}
	if uiConfig.ScriptRoot == "" {
		uiConfig.Source = datatable.FromDatasetSource(appContainer.Catalog)
		log.Printf("Dataset table reads the in-process catalog")
	} else {
		log.Printf("Dataset table fetches from %s", datatable.NewRemoteSource(uiConfig.ScriptRoot, nil).URL())
	}

	app, err := ui.NewApp(uiConfig)
	if err != nil {
		log.Fatalf("Failed to initialize UI: %v", err)
	}

	if err := app.Start(":" + appConfig.Server.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
