package main

import (
	"context"
	"encoding/base64"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/david2928/lengolf-booking/internal/app"
	"github.com/david2928/lengolf-booking/internal/config"
	"github.com/david2928/lengolf-booking/internal/server"
)

func main() {
	ctx := context.Background()
	godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	keyB64 := os.Getenv("SERVICE_ACCOUNT_KEY_BASE64")
	if keyB64 == "" {
		log.Fatal("SERVICE_ACCOUNT_KEY_BASE64 required")
	}
	credentialsJSON, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		log.Fatalf("failed to decode SERVICE_ACCOUNT_KEY_BASE64: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		log.Fatalf("invalid timezone %q: %v", cfg.Booking.Timezone, err)
	}
	cal, err := app.NewGoogleCalendar(ctx, credentialsJSON, loc)
	if err != nil {
		log.Fatalf("failed to create calendar client: %v", err)
	}

	appInstance, err := app.New(cfg, cal, nil)
	if err != nil {
		log.Fatalf("failed to assemble application: %v", err)
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			log.Fatalf("failed to connect to db: %v", err)
		}
		defer pool.Close()
		appInstance.Bookings = app.NewBookingRepo(pool)
	} else {
		log.Println("DATABASE_URL not set, booking history disabled")
	}

	if spreadsheetID := os.Getenv("SPREADSHEET_ID"); spreadsheetID != "" {
		customers, err := app.NewSheetsCustomerStore(ctx, credentialsJSON, spreadsheetID)
		if err != nil {
			log.Fatalf("failed to create sheets client: %v", err)
		}
		appInstance.Customers = customers
	} else {
		log.Println("SPREADSHEET_ID not set, customer sheet disabled")
	}

	appInstance.Notifier = app.NewNotifier(
		os.Getenv("LINE_NOTIFY_TOKEN"),
		os.Getenv("SENDGRID_API_KEY"),
		os.Getenv("SENDGRID_FROM_EMAIL"),
		os.Getenv("SENDGRID_FROM_NAME"),
	)

	if cfg.Scheduler.Enabled {
		scheduler := app.NewRefreshScheduler(appInstance, cfg.Scheduler.WindowDays, cfg.RefreshInterval())
		if err := scheduler.Start(); err != nil {
			log.Fatalf("failed to start refresh scheduler: %v", err)
		}
		defer scheduler.Stop()
	}

	router := gin.Default()

	api := router.Group("/api")
	api.POST("/auth/guest", appInstance.GuestTokenHandler)

	authed := api.Group("")
	authed.Use(app.AuthMiddlewareFromEnv())
	{
		bookings := authed.Group("/bookings")
		{
			bookings.GET("/available-slots", appInstance.GetAvailableSlotsHandler)
			bookings.POST("/book-slot", appInstance.BookSlotHandler)
			bookings.GET("/my-bookings", appInstance.MyBookingsHandler)
		}
		authed.POST("/util/clear-cache", appInstance.ClearCacheHandler)
	}

	server.Run(router, cfg.Server.Port)
}
