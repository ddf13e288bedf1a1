package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"dataportal/internal/api"
	"dataportal/internal/config"
	"dataportal/internal/container"
	"dataportal/internal/logging"

	"github.com/joho/godotenv"
)

// Serves only the content API, for deployments where the dataset browser
// runs elsewhere and points SCRIPT_ROOT here.
func main() {
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

	server := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           api.Compressed(api.NewRouter(appContainer.ContentHandler(), appConfig.Server.GinMode)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Starting content API on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
