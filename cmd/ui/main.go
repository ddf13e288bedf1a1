package main

import (
	"log"

	"dataportal/internal/config"
	"dataportal/internal/logging"
	"dataportal/ui"

	"github.com/joho/godotenv"
)

// Serves only the dataset browser. Rows are fetched from the content API at
// SCRIPT_ROOT, typically a cmd/api deployment.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Default.SetLevel(logging.ParseLevel(appConfig.LogLevel))

	if appConfig.Server.ScriptRoot == "" {
		log.Fatal("SCRIPT_ROOT must point at the content API")
	}

	app, err := ui.NewApp(ui.Config{
		ScriptRoot:    appConfig.Server.ScriptRoot,
		FetchTimeout:  appConfig.Server.FetchTimeout,
		ViewCacheSize: appConfig.Cache.ViewCacheSize,
	})
	if err != nil {
		log.Fatal("Failed to create UI app:", err)
	}

	log.Printf("Starting dataset browser on http://localhost:%s", appConfig.Server.Port)
	log.Fatal(app.Start(":" + appConfig.Server.Port))
}
