package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/database"
	"github.com/yeremiapane/reservation-app/identity"
	"github.com/yeremiapane/reservation-app/router"
	"github.com/yeremiapane/reservation-app/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	utils.InitLogger(cfg.LogLevel)

	// Set gin mode
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize DB
	db, err := config.InitDB(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	auth := newIdentityManager(cfg.Auth)
	unsubscribe := auth.Subscribe(func(e identity.Event) {
		entry := utils.InfoLogger.WithFields(logrus.Fields{
			"event": e.Type,
			"user":  e.Principal.Email,
		})
		if e.Type == identity.EventLoginFailed {
			entry.WithField("reason", e.Reason).Warn("Identity state changed")
			return
		}
		entry.Info("Identity state changed")
	})
	defer unsubscribe()

	r := router.SetupRouter(db, auth, cfg)

	// Set trusted proxies
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Fatal(err)
	}

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

// newIdentityManager wires the Microsoft provider when credentials exist.
// Without them the site runs read-only.
func newIdentityManager(cfg config.AuthConfig) *identity.Manager {
	if !cfg.Enabled() {
		utils.InfoLogger.Warn("AZURE_AD_CLIENT_ID/AZURE_AD_TENANT_ID not set, sign-in disabled")
		return identity.NewManager(nil, []byte(cfg.SessionSecret), cfg.SessionTTL)
	}

	provider := identity.NewAzureProvider(cfg.ClientID, cfg.ClientSecret, cfg.TenantID, cfg.RedirectURL)
	return identity.NewManager(provider, []byte(cfg.SessionSecret), cfg.SessionTTL)
}
