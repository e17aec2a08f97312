package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quocanhngo/focushub/internal/config"
	"github.com/quocanhngo/focushub/internal/handler"
	"github.com/quocanhngo/focushub/internal/middleware"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/observability"
	"github.com/quocanhngo/focushub/internal/repository"
	"github.com/quocanhngo/focushub/internal/service"
	"github.com/quocanhngo/focushub/internal/ws"
	"github.com/quocanhngo/focushub/migrations"
	"github.com/quocanhngo/focushub/pkg/auth"
	"github.com/quocanhngo/focushub/pkg/mailer"
	"github.com/quocanhngo/focushub/pkg/notification"
	"github.com/quocanhngo/focushub/pkg/sounds"
	"github.com/quocanhngo/focushub/pkg/storage"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// @title           FocusHub API
// @version         1.0
// @description     Productivity hub API: study rooms, flashcards, FlashMatch, journal, planner, pomodoro and realtime sync.

// @contact.name   API Support
// @contact.email  support@focushub.local

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      api.localhost
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const serviceName = "focushub-api"

func main() {
	rollback := flag.Bool("rollback", false, "revert the last migration and exit")
	flag.Parse()

	// ==================== Config & Observability ====================
	cfg := config.Load()
	observability.InitLogger(cfg.Log.Level, serviceName)

	if *rollback {
		if err := migrations.Rollback(cfg.DB.URL()); err != nil {
			fatal("rollback failed", err)
		}
		return
	}
	slog.Info("starting FocusHub API server", "env", cfg.App.Env, "version", cfg.App.Version)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Env,
		Enabled:        cfg.Tracing.Enabled,
		Exporter:       cfg.Tracing.Exporter,
		OTLPEndpoint:   cfg.Tracing.OTLPEndpoint,
		SamplerRatio:   cfg.Tracing.SampleRatio,
	})
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	// ==================== Database (PostgreSQL) ====================
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.App.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		fatal("failed to connect to database", err)
	}
	slog.Info("connected to PostgreSQL")

	if err := migrations.Run(cfg.DB.URL()); err != nil {
		slog.Warn("migration failed, falling back to GORM AutoMigrate", "error", err)
		if err := db.AutoMigrate(model.All()...); err != nil {
			fatal("failed to migrate database", err)
		}
	}

	// ==================== Redis ====================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := rdb.Ping(ctx).Err(); err != nil {
		fatal("failed to connect to Redis", err)
	}
	slog.Info("connected to Redis", "addr", cfg.Redis.Addr())

	// ==================== External Services ====================
	mailClient := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})
	slog.Info("SMTP configured", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

	// MinIO is optional; uploads answer 503 without it
	var objects storage.Storage
	minioStorage, err := storage.NewMinIO(ctx, storage.Config{
		Endpoint:  cfg.MinIO.Endpoint,
		PublicURL: cfg.MinIO.PublicURL,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		slog.Warn("MinIO not available, file upload disabled", "error", err)
	} else {
		objects = minioStorage
		slog.Info("connected to MinIO", "bucket", cfg.MinIO.Bucket)
	}

	catalog, err := loadCatalog(cfg.Sounds.CatalogFile)
	if err != nil {
		fatal("failed to load sound catalog", err)
	}

	// ==================== Repositories ====================
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	flashcardRepo := repository.NewFlashcardRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	plannerRepo := repository.NewPlannerRepository(db)
	pomodoroRepo := repository.NewPomodoroRepository(db)
	prefsRepo := repository.NewPreferencesRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	chatRepo := repository.NewChatRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	var pusher service.Pusher
	if push := notification.NewPushService(ctx, cfg.Firebase.CredentialsFile, userRepo); push != nil {
		pusher = push
	}

	// ==================== WebSocket Hub ====================
	hub := ws.NewHub(rdb, func(userID uuid.UUID, online bool) {
		if err := userRepo.UpdateOnlineStatus(context.Background(), userID, online); err != nil {
			slog.Warn("failed to update online status", "user_id", userID, "error", err)
		}
	})
	go hub.Run(ctx)

	// ==================== Services ====================
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	blacklist := auth.NewBlacklist(rdb)

	var remover service.ObjectRemover
	if objects != nil {
		remover = objects
	}

	authService := service.NewAuthService(userRepo, otpRepo, jwtManager, blacklist, mailClient, remover, cfg.Google.ClientID)
	accountService := service.NewAccountService(accountRepo, userRepo, remover, authService)
	notificationService := service.NewNotificationService(notificationRepo, hub, pusher)
	roomService := service.NewRoomService(roomRepo, userRepo, notificationService, hub)
	chatService := service.NewChatService(chatRepo, roomRepo, hub)
	studyService := service.NewStudyService(categoryRepo, flashcardRepo, roomRepo, hub)
	journalService := service.NewJournalService(journalRepo, hub)
	plannerService := service.NewPlannerService(plannerRepo, journalRepo, hub)
	pomodoroService := service.NewPomodoroService(pomodoroRepo, roomRepo, hub)
	preferencesService := service.NewPreferencesService(prefsRepo, catalog, hub)
	migrationService := service.NewMigrationService(db, catalog, hub)
	matchService := service.NewFlashMatchService(matchRepo, flashcardRepo, categoryRepo, roomRepo, notificationService, hub, service.FlashMatchConfig{
		DefaultRounds:       cfg.FlashMatch.DefaultRounds,
		DefaultRoundSeconds: cfg.FlashMatch.DefaultRoundSeconds,
		CorrectThreshold:    cfg.FlashMatch.CorrectThreshold,
	})
	go matchService.RunRoundSweeper(ctx, cfg.FlashMatch.SweepInterval)
	go authService.RunOTPCleanup(ctx, 15*time.Minute)

	// ==================== Handlers ====================
	h := handlers{
		auth:         handler.NewAuthHandler(authService, objects),
		account:      handler.NewAccountHandler(migrationService, accountService),
		room:         handler.NewRoomHandler(roomService),
		chat:         handler.NewChatHandler(chatService),
		study:        handler.NewStudyHandler(studyService),
		journal:      handler.NewJournalHandler(journalService),
		planner:      handler.NewPlannerHandler(plannerService),
		pomodoro:     handler.NewPomodoroHandler(pomodoroService, preferencesService),
		notification: handler.NewNotificationHandler(notificationService),
		match:        handler.NewFlashMatchHandler(matchService),
		upload:       handler.NewUploadHandler(objects),
		ws:           handler.NewWSHandler(hub, chatService, jwtManager, blacklist, cfg.CORS.Origins),
	}

	// ==================== Gin Router ====================
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(cfg, rdb, jwtManager, blacklist, h)

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server failed", err)
		}
	}()

	slog.Info("FocusHub API listening",
		"addr", "http://0.0.0.0:"+cfg.App.Port,
		"docs", "/swagger/index.html",
		"websocket", "/ws?token=<jwt>",
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	// stops the hub and the round sweeper
	stop()

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Warn("tracer shutdown failed", "error", err)
	}
	if err := rdb.Close(); err != nil {
		slog.Warn("redis close failed", "error", err)
	}
	slog.Info("server exited gracefully")
}

type handlers struct {
	auth         *handler.AuthHandler
	account      *handler.AccountHandler
	room         *handler.RoomHandler
	chat         *handler.ChatHandler
	study        *handler.StudyHandler
	journal      *handler.JournalHandler
	planner      *handler.PlannerHandler
	pomodoro     *handler.PomodoroHandler
	notification *handler.NotificationHandler
	match        *handler.FlashMatchHandler
	upload       *handler.UploadHandler
	ws           *handler.WSHandler
}

func newRouter(cfg *config.Config, rdb *redis.Client, jwtManager *auth.JWTManager, blacklist *auth.Blacklist, h handlers) *gin.Engine {
	router := gin.New()

	// Serve swagger.json at /docs/swagger.json to avoid conflict with /swagger/* wildcard
	router.StaticFile("/docs/swagger.json", "./docs/swagger.json")
	url := ginSwagger.URL("/docs/swagger.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))

	// Global middleware
	router.Use(
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.RequestLogger(),
		gin.Recovery(),
		middleware.CORSMiddleware(cfg.CORS.Origins),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": cfg.App.Version,
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket endpoint (auth via query parameter)
	router.GET("/ws", h.ws.HandleWebSocket)

	authLimit := middleware.RateLimit(rdb, "auth", cfg.RateLimit.AuthPerMinute, time.Minute, cfg.RateLimit.Enabled)
	answerLimit := middleware.RateLimit(rdb, "answers", cfg.RateLimit.AnswersPerMinute, time.Minute, cfg.RateLimit.Enabled)

	// ==================== API Routes ====================
	api := router.Group("/api/v1")
	{
		// Auth routes (public)
		authGroup := api.Group("/auth", authLimit)
		{
			authGroup.POST("/register", h.auth.Register)
			authGroup.POST("/verify-otp", h.auth.VerifyOTP)
			authGroup.POST("/resend-otp", h.auth.ResendOTP)
			authGroup.POST("/login", h.auth.Login)
			authGroup.POST("/google", h.auth.GoogleLogin)
			authGroup.POST("/forgot-password", h.auth.ForgotPassword)
			authGroup.POST("/reset-password", h.auth.ResetPassword)
		}

		api.GET("/sounds", h.pomodoro.ListSounds)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager, blacklist))
		{
			// Auth & account
			protected.POST("/auth/logout", h.auth.Logout)
			protected.GET("/auth/profile", h.auth.GetProfile)
			protected.PUT("/auth/profile", h.auth.UpdateProfile)
			protected.POST("/auth/device", h.auth.RegisterDevice)
			protected.GET("/users/search", h.auth.SearchUsers)
			protected.POST("/me/import", h.account.ImportGuestData)
			protected.DELETE("/me", h.account.DeleteAccount)

			// Rooms
			protected.POST("/rooms", h.room.CreateRoom)
			protected.GET("/rooms", h.room.ListRooms)
			protected.POST("/rooms/join", h.room.JoinRoom)
			protected.GET("/rooms/:id", h.room.GetRoom)
			protected.PATCH("/rooms/:id", h.room.UpdateRoom)
			protected.DELETE("/rooms/:id", h.room.DeleteRoom)
			protected.POST("/rooms/:id/leave", h.room.LeaveRoom)
			protected.GET("/rooms/:id/members", h.room.ListMembers)
			protected.DELETE("/rooms/:id/members/:userId", h.room.RemoveMember)

			// Chat
			protected.GET("/rooms/:id/messages", h.chat.ListMessages)
			protected.POST("/rooms/:id/messages", h.chat.SendMessage)
			protected.DELETE("/messages/:id", h.chat.DeleteMessage)

			// Categories & flashcards
			protected.POST("/categories", h.study.CreateCategory)
			protected.GET("/categories", h.study.ListCategories)
			protected.PATCH("/categories/:id", h.study.UpdateCategory)
			protected.DELETE("/categories/:id", h.study.DeleteCategory)
			protected.POST("/flashcards", h.study.CreateFlashcard)
			protected.GET("/flashcards", h.study.ListFlashcards)
			protected.GET("/flashcards/:id", h.study.GetFlashcard)
			protected.PATCH("/flashcards/:id", h.study.UpdateFlashcard)
			protected.POST("/flashcards/:id/review", h.study.ReviewFlashcard)
			protected.DELETE("/flashcards/:id", h.study.DeleteFlashcard)

			// Journal
			protected.POST("/journal", h.journal.CreateEntry)
			protected.GET("/journal", h.journal.ListEntries)
			protected.GET("/journal/:id", h.journal.GetEntry)
			protected.PATCH("/journal/:id", h.journal.UpdateEntry)
			protected.DELETE("/journal/:id", h.journal.DeleteEntry)

			// Planner
			protected.POST("/goals", h.planner.CreateGoal)
			protected.GET("/goals", h.planner.ListGoals)
			protected.GET("/goals/:id", h.planner.GetGoal)
			protected.PATCH("/goals/:id", h.planner.UpdateGoal)
			protected.DELETE("/goals/:id", h.planner.DeleteGoal)
			protected.POST("/tasks", h.planner.CreateTask)
			protected.GET("/tasks", h.planner.ListTasks)
			protected.GET("/tasks/:id", h.planner.GetTask)
			protected.PATCH("/tasks/:id", h.planner.UpdateTask)
			protected.DELETE("/tasks/:id", h.planner.DeleteTask)
			protected.GET("/calendar", h.planner.Calendar)

			// Pomodoro & preferences
			protected.GET("/pomodoro/settings", h.pomodoro.GetSettings)
			protected.PUT("/pomodoro/settings", h.pomodoro.UpdateSettings)
			protected.POST("/pomodoro/sessions", h.pomodoro.RecordSession)
			protected.GET("/pomodoro/sessions", h.pomodoro.ListSessions)
			protected.GET("/pomodoro/summary", h.pomodoro.Summary)
			protected.GET("/preferences", h.pomodoro.GetPreferences)
			protected.PATCH("/preferences", h.pomodoro.UpdatePreferences)

			// Notifications
			protected.GET("/notifications", h.notification.ListNotifications)
			protected.POST("/notifications/read-all", h.notification.MarkAllRead)
			protected.POST("/notifications/:id/read", h.notification.MarkRead)
			protected.DELETE("/notifications/:id", h.notification.DeleteNotification)

			// FlashMatch
			protected.POST("/matches", h.match.CreateMatch)
			protected.GET("/matches", h.match.ListMatches)
			protected.GET("/matches/:id", h.match.GetMatch)
			protected.POST("/matches/:id/join", h.match.JoinMatch)
			protected.POST("/matches/:id/leave", h.match.LeaveMatch)
			protected.POST("/matches/:id/start", h.match.StartMatch)
			protected.POST("/matches/:id/answer", answerLimit, h.match.SubmitAnswer)
			protected.POST("/matches/:id/pass", answerLimit, h.match.PassRound)
			protected.GET("/matches/:id/rounds", h.match.RoundResults)

			// Upload
			protected.POST("/upload", h.upload.UploadFile)
			protected.POST("/upload/multiple", h.upload.UploadMultiple)
		}
	}

	return router
}

func loadCatalog(path string) (*sounds.Catalog, error) {
	if path == "" {
		return sounds.Default()
	}
	return sounds.LoadFile(path)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
