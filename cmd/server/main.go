package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"dollers-electro/config"
	"dollers-electro/controllers"
	"dollers-electro/images"
	"dollers-electro/logger"
	"dollers-electro/routes"
	"dollers-electro/sms"
	"dollers-electro/utils"
)

func main() {
	// Load environment variables from .env file; a missing file is fine,
	// the process environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	// Set the JWT signing parameters
	if cfg.JWT.Secret != "" {
		utils.JwtKey = []byte(cfg.JWT.Secret)
	}
	utils.JwtExpiration = time.Duration(cfg.JWT.ExpirationMinutes) * time.Minute

	// Connect to MongoDB
	client, err := utils.ConnectDB(cfg.Mongo.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()
	db := client.Database(cfg.Mongo.Database)

	// Initialize the notification adapters
	emailService := utils.NewEmailService(utils.EmailConfig{
		PostmarkToken:  cfg.Email.PostmarkToken,
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		Sender:         cfg.Email.Sender,
		BaseURL:        cfg.Email.BaseURL,
	}, log)
	smsService := sms.NewService(sms.Config{
		AccountSID: cfg.SMS.AccountSID,
		AuthToken:  cfg.SMS.AuthToken,
		FromNumber: cfg.SMS.FromNumber,
	}, log)
	imageService := images.NewService(images.Config{
		CloudName: cfg.Images.CloudName,
		APIKey:    cfg.Images.APIKey,
		APISecret: cfg.Images.APISecret,
		Folder:    cfg.Images.Folder,
	}, log)

	// Initialize controllers
	userController := controllers.NewUserController(db, emailService, log)
	productController := controllers.NewProductController(db, imageService, log)
	orderController := controllers.NewOrderController(db, emailService, smsService, cfg.SMS.AlertPhone, log)
	notificationController := controllers.NewNotificationController(smsService, emailService, log)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, productController, orderController, notificationController)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
