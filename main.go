package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lefri/config"
	"lefri/cron"
	"lefri/database"
	"lefri/database/repository"
	"lefri/handlers"
	"lefri/middleware"
	"lefri/routes"
	"lefri/services/constitute"
	"lefri/services/consultation"
	"lefri/services/emergency"
	ai "lefri/services/intelligence"
	"lefri/services/messaging"
	"lefri/services/process"
	"lefri/services/socialAuth"
	"lefri/services/user"
	"lefri/services/voice"
	"lefri/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const conversationTTL = 30 * time.Minute

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer utils.SyncLogger()
	if err := config.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stopRoot := context.WithCancel(context.Background())
	defer stopRoot()

	database.InitDB()
	cacheClient := utils.GetCacheClient()
	authClient := utils.GetAuthCacheClient()
	utils.StartHealthMonitor(rootCtx, []*redis.Client{cacheClient, authClient}, database.MongoClient)

	repos := repository.New()

	// Gemini. Without a key every assistant call returns its canned fallback.
	var generator ai.TextGenerator = ai.Unavailable()
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		gemini, err := ai.NewGeminiClient(rootCtx, key, config.AppConfig.GeminiModel)
		if err != nil {
			logger.Warn("Gemini unavailable, using fallback responses", zap.Error(err))
		} else {
			defer gemini.Close()
			generator = gemini
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, using fallback responses")
	}
	assistant := ai.NewLegalAssistant(generator)

	var constitutionCache constitute.Cache = constitute.NewMemoryCache()
	var conversations ai.ConversationStore = ai.NewMemoryContextStore(conversationTTL)
	if cacheClient != nil {
		constitutionCache = constitute.NewRedisCache(cacheClient)
		conversations = ai.NewRedisContextStore(cacheClient, conversationTTL)
	}
	constitution := constitute.NewClient(config.AppConfig.ConstituteBaseURL, constitutionCache)

	// Messaging channels are optional; a nil channel is reported as a failed delivery.
	var whatsapp messaging.WhatsAppSender
	if wa := messaging.NewWhatsAppClient(config.AppConfig.WhatsAppAPIURL, config.AppConfig.WhatsAppPhoneNumber); wa.Configured() {
		whatsapp = wa
	} else {
		logger.Info("WhatsApp gateway not configured")
	}
	var mailer messaging.EmailSender
	if m := messaging.NewSMTPMailer(messaging.SMTPConfig{
		Host: config.AppConfig.SMTPHost,
		Port: config.AppConfig.SMTPPort,
		User: config.AppConfig.SMTPUser,
		Pass: config.AppConfig.SMTPPass,
	}); m.Configured() {
		mailer = m
	} else {
		logger.Info("SMTP not configured, emails are disabled")
	}
	var push messaging.PushNotifier
	if file := config.AppConfig.FirebaseServiceAccountFile; file != "" {
		fcm, err := messaging.NewFCMNotifier(rootCtx, file)
		if err != nil {
			logger.Warn("Firebase messaging unavailable", zap.Error(err))
		} else {
			push = fcm
		}
	}

	// Voice notes.
	var voiceOpts []voice.Option
	if url := config.AppConfig.CloudinaryURL; url != "" {
		mirror, err := voice.NewCloudinaryMirror(url)
		if err != nil {
			logger.Warn("Cloudinary unavailable, voice notes stay local", zap.Error(err))
		} else {
			voiceOpts = append(voiceOpts, voice.WithMirror(mirror))
		}
	} else if bucket := config.AppConfig.VoiceGCSBucket; bucket != "" {
		mirror, err := voice.NewGCSMirror(rootCtx, bucket, config.AppConfig.FirebaseServiceAccountFile)
		if err != nil {
			logger.Warn("Firebase Storage unavailable, voice notes stay local", zap.Error(err))
		} else {
			defer mirror.Close()
			voiceOpts = append(voiceOpts, voice.WithMirror(mirror))
		}
	}
	if file := config.AppConfig.GoogleServiceAccountFile; file != "" {
		stt, err := voice.NewSpeechTranscriber(rootCtx, file)
		if err != nil {
			logger.Warn("Cloud Speech unavailable, transcription disabled", zap.Error(err))
		} else {
			defer stt.Close()
			voiceOpts = append(voiceOpts, voice.WithTranscriber(stt))
		}
	}
	voiceStore, err := voice.NewStore(config.AppConfig.VoiceUploadDir, config.AppConfig.VoiceMaxBytes, voiceOpts...)
	if err != nil {
		logger.Fatal("main: failed to prepare voice upload directory", zap.Error(err))
	}

	// Services.
	userService := &user.DefaultUserService{
		Repo:        repos.Users,
		AllowLegacy: !config.IsProduction(),
	}
	if id := config.AppConfig.GoogleClientID; id != "" {
		userService.Verifier = socialAuth.NewGoogleVerifier(id)
	}
	if oauth := socialAuth.NewGoogleOAuth(
		config.AppConfig.GoogleClientID,
		config.AppConfig.GoogleClientSecret,
		config.AppConfig.GoogleRedirectURI,
	); oauth != nil {
		userService.OAuth = oauth
	}

	consultationService := &consultation.DefaultConsultationService{
		Repo:          repos.Consultations,
		Sections:      constitution,
		Assistant:     assistant,
		Conversations: conversations,
	}

	emergencyService := &emergency.DefaultEmergencyService{
		Users:     repos.Users,
		Contacts:  repos.Contacts,
		Alerts:    repos.Alerts,
		Assistant: assistant,
		WhatsApp:  whatsapp,
		Email:     mailer,
		Push:      push,
		Voice:     voiceStore,
	}

	processService := &process.DefaultProcessService{
		Repo:        repos.Processes,
		Users:       repos.Users,
		Assistant:   assistant,
		Coordinator: ai.NewCoordinator(generator, constitution),
		Email:       mailer,
		AppURL:      config.AppConfig.AppURL,
	}

	// Background jobs.
	if config.AppConfig.RedisAddr != "" {
		queue := asynq.NewClient(cron.RedisOpt())
		defer queue.Close()
		processService.Reminders = cron.NewReminderQueue(queue)
	}
	voiceMaxAge := time.Duration(config.AppConfig.VoiceMaxAgeHours) * time.Hour
	stopJobs := cron.Start(rootCtx, cron.Deps{
		Voice:       voiceStore,
		VoiceMaxAge: voiceMaxAge,
		Users:       repos.Users,
		Processes:   repos.Processes,
		Email:       mailer,
		AppURL:      config.AppConfig.AppURL,
	})
	defer stopJobs()

	handlerBundle := handlers.NewHandlerBundle(handlers.Services{
		Users:         userService,
		Consultations: consultationService,
		Emergency:     emergencyService,
		Processes:     processService,
		Voice:         voiceStore,
		VoiceMaxBytes: config.AppConfig.VoiceMaxBytes,
	})

	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("env", config.GetEnv()))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	database.Close(ctx)
	utils.CloseCaches()

	logger.Info("main: server stopped gracefully")
}
