package main

import (
	"go.uber.org/zap"

	"github.com/nanda2463/mindmirror-ai--5/internal/config"
	"github.com/nanda2463/mindmirror-ai--5/internal/database"
	"github.com/nanda2463/mindmirror-ai--5/internal/engine"
	"github.com/nanda2463/mindmirror-ai--5/internal/logging"
	"github.com/nanda2463/mindmirror-ai--5/internal/models"
	"github.com/nanda2463/mindmirror-ai--5/internal/router"
	"github.com/nanda2463/mindmirror-ai--5/internal/services"
	"github.com/nanda2463/mindmirror-ai--5/internal/utils"
)

func main() {
	// Configuration loads before the real logger exists, so it gets a
	// plain development logger for its own messages.
	bootLog := zap.Must(zap.NewDevelopment())
	if err := config.Init(".", bootLog); err != nil {
		bootLog.Fatal("Failed to load configuration", zap.Error(err))
	}

	logConf := config.Conf.Logging
	log, err := logging.Init(logging.Rotation{
		Directory:  logConf.Directory,
		MaxSize:    logConf.MaxSize,
		MaxBackups: logConf.MaxBackups,
		MaxAge:     logConf.MaxAge,
		Compress:   logConf.Compress,
	})
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	if config.Conf.Server.SessionSecret == "" {
		secret, err := utils.GenerateSecureToken(32)
		if err != nil {
			log.Fatal("Failed to generate session secret", zap.Error(err))
		}
		config.Conf.Server.SessionSecret = secret
		log.Warn("No session secret configured; generated an ephemeral one. Sessions will not survive a restart.")
	}

	// Initialize Database
	database.Init(log)

	// Build the classifier configuration, with an optional named profile
	// overlaid on the base thresholds.
	engineConfig := loadEngineConfig(log)

	focusService := services.NewFocusService(log, engineConfig)

	// Setup router, passing the logger to it
	r := router.Setup(log, focusService)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("MindMirror server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}

func loadEngineConfig(log *zap.Logger) engine.Config {
	focusConf := config.Conf.Focus
	if focusConf.Profile == "" || focusConf.ProfilesPath == "" {
		return focusConf.Engine()
	}

	set, err := models.LoadProfiles(focusConf.ProfilesPath)
	if err != nil {
		log.Fatal("Failed to load threshold profiles", zap.Error(err))
	}
	profile, ok := set.Profiles[focusConf.Profile]
	if !ok {
		log.Fatal("Unknown focus profile", zap.String("profile", focusConf.Profile))
	}
	log.Info("Applying focus threshold profile", zap.String("profile", focusConf.Profile))
	return profile.Apply(focusConf).Engine()
}
