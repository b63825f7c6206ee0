package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"telegram-admin/config"
	"telegram-admin/internal/handlers"
	"telegram-admin/internal/repositories"
	"telegram-admin/internal/services"
)

// @title Telegram Admin API
// @version 1.0
// @description Admin dashboard backend for a Telegram campaign tool: session-scoped CRUD plus a proxy to the automation service
// @host localhost:8081
// @BasePath /api/v1
func main() {
	cfg := config.LoadFromEnv()

	// The handle connects lazily; a missing database only degrades
	// reads, it does not stop the server.
	db := config.NewDatabase(cfg.DatabaseURL)
	defer db.Close()

	userRepo := repositories.NewSQLUserRepository(db, cfg.OwnerOpenID)
	contactRepo := repositories.NewSQLContactRepository(db)
	chatRepo := repositories.NewSQLChatRepository(db)
	messageRepo := repositories.NewSQLMessageRepository(db)
	campaignRepo := repositories.NewSQLCampaignRepository(db)

	sessions := services.NewSessionManager(os.Getenv("COOKIE_SECURE") == "true")
	telethonClient := services.NewTelethonClient(cfg.PythonAPIURL)

	httpHandler := handlers.NewHTTPHandler(userRepo, contactRepo, chatRepo, messageRepo, campaignRepo, sessions)
	telethonHandler := handlers.NewTelethonHandler(telethonClient)
	configHandler := handlers.NewConfigHandler(config.NewEnvFile(""))

	router := mux.NewRouter().PathPrefix("/api/v1").Subrouter()

	// Session
	router.HandleFunc("/auth/login", httpHandler.Login).Methods("POST", "OPTIONS")
	router.HandleFunc("/auth/me", httpHandler.Me).Methods("GET", "OPTIONS")
	router.HandleFunc("/auth/logout", httpHandler.Logout).Methods("POST", "OPTIONS")

	// Session-scoped entities
	router.HandleFunc("/contacts", httpHandler.RequireUser(httpHandler.ListContacts)).Methods("GET", "OPTIONS")
	router.HandleFunc("/contacts", httpHandler.RequireUser(httpHandler.CreateContact)).Methods("POST")
	router.HandleFunc("/chats", httpHandler.RequireUser(httpHandler.ListChats)).Methods("GET", "OPTIONS")
	router.HandleFunc("/chats", httpHandler.RequireUser(httpHandler.CreateChat)).Methods("POST")
	router.HandleFunc("/messages/contact/{contactId}", httpHandler.RequireUser(httpHandler.GetMessagesByContact)).Methods("GET", "OPTIONS")
	router.HandleFunc("/messages", httpHandler.RequireUser(httpHandler.CreateMessage)).Methods("POST", "OPTIONS")
	router.HandleFunc("/campaigns", httpHandler.RequireUser(httpHandler.ListCampaigns)).Methods("GET", "OPTIONS")
	router.HandleFunc("/campaigns", httpHandler.RequireUser(httpHandler.CreateCampaign)).Methods("POST")
	router.HandleFunc("/campaigns/{campaignId}/status", httpHandler.RequireUser(httpHandler.UpdateCampaignStatus)).Methods("PATCH", "OPTIONS")

	// Automation proxy
	router.HandleFunc("/telethon/connect", httpHandler.RequireUser(telethonHandler.Connect)).Methods("POST", "OPTIONS")
	router.HandleFunc("/telethon/sync-contacts", httpHandler.RequireUser(telethonHandler.SyncContacts)).Methods("POST", "OPTIONS")
	router.HandleFunc("/telethon/groups-channels", httpHandler.RequireUser(telethonHandler.GroupsAndChannels)).Methods("GET", "OPTIONS")
	router.HandleFunc("/telethon/contacts", httpHandler.RequireUser(telethonHandler.GetContacts)).Methods("GET", "OPTIONS")
	router.HandleFunc("/telethon/contacts", httpHandler.RequireUser(telethonHandler.CreateContact)).Methods("POST")
	router.HandleFunc("/telethon/campaigns", httpHandler.RequireUser(telethonHandler.GetCampaigns)).Methods("GET", "OPTIONS")
	router.HandleFunc("/telethon/campaigns", httpHandler.RequireUser(telethonHandler.CreateCampaign)).Methods("POST")
	router.HandleFunc("/telethon/campaigns/send", httpHandler.RequireUser(telethonHandler.SendCampaign)).Methods("POST", "OPTIONS")
	router.HandleFunc("/telethon/messages/{contactId}", httpHandler.RequireUser(telethonHandler.GetMessages)).Methods("GET", "OPTIONS")
	router.HandleFunc("/telethon/messages", httpHandler.RequireUser(telethonHandler.SendMessage)).Methods("POST", "OPTIONS")

	// Setup wizard
	router.HandleFunc("/config", configHandler.GetConfig).Methods("GET", "OPTIONS")
	router.HandleFunc("/config/validate", configHandler.ValidateConfig).Methods("POST", "OPTIONS")
	router.HandleFunc("/config/save", configHandler.SaveConfig).Methods("POST", "OPTIONS")
	router.HandleFunc("/config/status", configHandler.Status).Methods("GET", "OPTIONS")

	// Live updates
	router.HandleFunc("/ws", handlers.WebSocketHandler)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")

	// Swagger static files and UI
	fs := http.FileServer(http.Dir("./docs"))
	router.PathPrefix("/swagger/").Handler(http.StripPrefix("/api/v1/swagger/", fs))
	router.PathPrefix("/swagger-ui/").Handler(httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%s/api/v1/swagger/swagger.json", cfg.Port)),
		httpSwagger.DeepLinking(true),
	))

	mainRouter := mux.NewRouter()
	mainRouter.PathPrefix("/api/v1").Handler(router)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: c.Handler(mainRouter),
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Printf("Server is running on http://localhost:%s\n", cfg.Port)
		fmt.Printf("Swagger UI available at: http://localhost:%s/api/v1/swagger-ui/\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-stop
	fmt.Println("\nShutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	fmt.Println("Server stopped successfully")
}
