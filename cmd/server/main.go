package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"leadgram-backend/internal/automation"
	"leadgram-backend/internal/config"
	"leadgram-backend/internal/database"
	"leadgram-backend/internal/handler"
	"leadgram-backend/internal/logger"
	"leadgram-backend/internal/middleware"
	"leadgram-backend/internal/repository"
	"leadgram-backend/internal/service"
	"leadgram-backend/internal/utils"
)

func main() {
	cfg := config.LoadConfig()

	log.Logger = logger.New(cfg)

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	clientRepo := repository.NewClientRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	attentionRepo := repository.NewAttentionRepository(db)
	listingRepo := repository.NewListingRepository(db)
	integrationRepo := repository.NewIntegrationRepository(db)
	automationRepo := repository.NewAutomationRepository(db)
	aiSettingsRepo := repository.NewAISettingsRepository(db)

	clientService := service.NewClientService(clientRepo)
	messageService := service.NewMessageService(messageRepo, clientRepo)
	attentionService := service.NewAttentionService(attentionRepo)
	integrationService := service.NewIntegrationService(integrationRepo, clientService, messageService)
	automationService := service.NewAutomationService(automationRepo, automation.NewN8NClient(cfg.N8NWebhookURL))
	aiService := service.NewAIService(clientRepo, messageRepo, aiSettingsRepo)

	clientHandler := handler.NewClientHandler(clientService)
	messageHandler := handler.NewMessageHandler(messageService)
	attentionHandler := handler.NewAttentionHandler(attentionService)
	listingHandler := handler.NewListingHandler(listingRepo)
	integrationHandler := handler.NewIntegrationHandler(integrationService)
	automationHandler := handler.NewAutomationHandler(automationService)
	aiHandler := handler.NewAIHandler(aiService)

	mw := middleware.NewMiddleware(cfg)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Public endpoints: liveness probes and the channel webhook receiver, which
	// authenticates by integration id instead of a user session.
	api.HandleFunc("/", healthCheck).Methods(http.MethodGet)
	api.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	api.HandleFunc("/integrations/webhook/{id}", integrationHandler.HandleWebhook).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(mw.AuthMiddleware)

	protected.HandleFunc("/clients", clientHandler.GetClients).Methods(http.MethodGet)
	protected.HandleFunc("/clients", clientHandler.CreateClient).Methods(http.MethodPost)
	protected.HandleFunc("/clients/recent", clientHandler.GetRecentChats).Methods(http.MethodGet)
	protected.HandleFunc("/clients/dashboard", clientHandler.GetDashboardStats).Methods(http.MethodGet)
	protected.HandleFunc("/clients/{id}", clientHandler.GetClient).Methods(http.MethodGet)
	protected.HandleFunc("/clients/{id}", clientHandler.UpdateClient).Methods(http.MethodPut)
	protected.HandleFunc("/clients/{id}/call", clientHandler.CallClient).Methods(http.MethodPost)
	protected.HandleFunc("/clients/{id}/close", clientHandler.CloseClient).Methods(http.MethodPost)

	protected.HandleFunc("/messages", messageHandler.GetRecentMessages).Methods(http.MethodGet)
	protected.HandleFunc("/messages", messageHandler.CreateMessage).Methods(http.MethodPost)
	protected.HandleFunc("/messages/unread-count", messageHandler.GetUnreadCount).Methods(http.MethodGet)
	protected.HandleFunc("/messages/search", messageHandler.SearchMessages).Methods(http.MethodGet)
	protected.HandleFunc("/messages/respond", messageHandler.SendResponse).Methods(http.MethodPost)
	protected.HandleFunc("/messages/client/{id}", messageHandler.GetClientMessages).Methods(http.MethodGet)
	protected.HandleFunc("/messages/{id}/read", messageHandler.MarkAsRead).Methods(http.MethodPatch)

	protected.HandleFunc("/attention/listings", attentionHandler.GetListings).Methods(http.MethodGet)
	protected.HandleFunc("/attention/summary", attentionHandler.GetSummary).Methods(http.MethodGet)

	protected.HandleFunc("/listings", listingHandler.GetListings).Methods(http.MethodGet)
	protected.HandleFunc("/listings", listingHandler.CreateListing).Methods(http.MethodPost)
	protected.HandleFunc("/listings/{id}", listingHandler.GetListing).Methods(http.MethodGet)
	protected.HandleFunc("/listings/{id}", listingHandler.UpdateListing).Methods(http.MethodPut)
	protected.HandleFunc("/listings/{id}", listingHandler.DeleteListing).Methods(http.MethodDelete)

	protected.HandleFunc("/integrations", integrationHandler.GetIntegrations).Methods(http.MethodGet)
	protected.HandleFunc("/integrations", integrationHandler.CreateIntegration).Methods(http.MethodPost)
	protected.HandleFunc("/integrations/test/{id}", integrationHandler.TestIntegration).Methods(http.MethodPost)
	protected.HandleFunc("/integrations/{id}", integrationHandler.GetIntegration).Methods(http.MethodGet)
	protected.HandleFunc("/integrations/{id}", integrationHandler.UpdateIntegration).Methods(http.MethodPut)
	protected.HandleFunc("/integrations/{id}", integrationHandler.DeleteIntegration).Methods(http.MethodDelete)

	protected.HandleFunc("/automation", automationHandler.GetAutomations).Methods(http.MethodGet)
	protected.HandleFunc("/automation", automationHandler.CreateAutomation).Methods(http.MethodPost)
	protected.HandleFunc("/automation/templates", automationHandler.GetTemplates).Methods(http.MethodGet)
	protected.HandleFunc("/automation/{id}", automationHandler.GetAutomation).Methods(http.MethodGet)
	protected.HandleFunc("/automation/{id}", automationHandler.UpdateAutomation).Methods(http.MethodPut)
	protected.HandleFunc("/automation/{id}", automationHandler.DeleteAutomation).Methods(http.MethodDelete)
	protected.HandleFunc("/automation/{id}/trigger", automationHandler.TriggerAutomation).Methods(http.MethodPost)
	protected.HandleFunc("/automation/{id}/logs", automationHandler.GetLogs).Methods(http.MethodGet)
	protected.HandleFunc("/automation/{id}/test", automationHandler.TestAutomation).Methods(http.MethodPost)

	protected.HandleFunc("/ai/suggest-response", aiHandler.SuggestResponse).Methods(http.MethodPost)
	protected.HandleFunc("/ai/close-deal-tips", aiHandler.CloseDealTips).Methods(http.MethodPost)
	protected.HandleFunc("/ai/analyze-listing", aiHandler.AnalyzeListing).Methods(http.MethodPost)
	protected.HandleFunc("/ai/generate-response", aiHandler.GenerateResponse).Methods(http.MethodPost)
	protected.HandleFunc("/ai/settings", aiHandler.GetSettings).Methods(http.MethodGet)
	protected.HandleFunc("/ai/settings", aiHandler.UpdateSettings).Methods(http.MethodPost)

	// CORS wraps the whole router so preflight requests are answered even for
	// unmatched methods.
	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      mw.CORS(mw.RateLimitMiddleware(r)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.AppPort).Str("environment", cfg.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.RawJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "leadgram-backend",
	})
}
