package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/innies-app/innies-backend/internal/cache"
	"github.com/innies-app/innies-backend/internal/config"
	"github.com/innies-app/innies-backend/internal/db"
	httpHandlers "github.com/innies-app/innies-backend/internal/http/handlers"
	"github.com/innies-app/innies-backend/internal/http/middleware"
	httpRouter "github.com/innies-app/innies-backend/internal/http/router"
	"github.com/innies-app/innies-backend/internal/logger"
	"github.com/innies-app/innies-backend/internal/repository"
	"github.com/innies-app/innies-backend/internal/service"
	"github.com/innies-app/innies-backend/internal/storage"
	"github.com/innies-app/innies-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Component("main").Fatalf("ошибка загрузки конфигурации: %v", err)
	}
	logger.Setup(cfg.Env)
	log := logger.Component("main")

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.DefaultPoolOptions)
	if err != nil {
		log.Fatalf("ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("ошибка миграций: %v", err)
	}

	checks := map[string]httpHandlers.Pinger{"database": dbConn}

	// Redis опционален: без него кэш и лимитер живут в памяти процесса.
	var (
		appCache     cache.Cache
		limiterStore limiter.Store
	)
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("ошибка подключения к redis: %v", err)
		}
		defer redisClient.Close()

		appCache = cache.NewRedisCache(redisClient, "innies:")
		limiterStore, err = redisstore.NewStoreWithOptions(redisClient, limiter.StoreOptions{
			Prefix:          "innies:limiter",
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		})
		if err != nil {
			log.Fatalf("ошибка инициализации лимитера: %v", err)
		}
		checks["redis"] = redisPinger(redisClient)
	} else {
		memoryCache := cache.NewMemoryCache(time.Minute)
		defer memoryCache.Close()

		appCache = memoryCache
		limiterStore = memory.NewStore()
	}

	attachments, err := storage.NewAttachmentStorage(cfg.AttachmentsPath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	categoryRepo := repository.NewCategoryRepository(dbConn)
	skillRepo := repository.NewSkillRepository(dbConn)
	bookingRepo := repository.NewBookingRepository(dbConn)
	paymentRepo := repository.NewPaymentRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	chatRepo := repository.NewChatRepository(dbConn)
	messageRepo := repository.NewMessageRepository(dbConn)
	contactRepo := repository.NewContactRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Сервисы.
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(categoryRepo, skillRepo, bookingRepo, appCache, cfg.CacheTTL)
	bookingService := service.NewBookingService(bookingRepo, userRepo, skillRepo)
	paymentService := service.NewPaymentService(paymentRepo, bookingRepo, userRepo)
	reviewService := service.NewReviewService(reviewRepo, bookingRepo, userRepo, appCache, cfg.CacheTTL)
	chatService := service.NewChatService(chatRepo, messageRepo, userRepo)
	contactService := service.NewContactService(contactRepo)
	notificationService := service.NewNotificationService(notificationRepo)

	identityVerifier := service.NewIdentityVerifier(cfg.IdentitySecret, cfg.IdentityIssuer)
	identityWebhook, err := service.NewIdentityWebhook(cfg.WebhookSecret, userService)
	if err != nil {
		log.Fatalf("некорректный WEBHOOK_SECRET: %v", err)
	}
	videoIssuer := service.NewVideoTokenIssuer(cfg.VideoAPIKey, cfg.VideoAPISecret, cfg.VideoServerURL, cfg.VideoTokenTTL)

	// Вебсокеты: события сервисов уходят пользователям и сохраняются как уведомления.
	hub := ws.NewHub(ctx)
	hub.SetNotificationSaver(ws.NewNotificationServiceAdapter(notificationService))
	go hub.Run()

	bookingService.SetPublisher(hub)
	paymentService.SetPublisher(hub)
	reviewService.SetPublisher(hub)
	chatService.SetPublisher(hub)

	auth := middleware.NewAuthenticator(identityVerifier, userService)

	// HTTP хэндлеры.
	h := httpRouter.Handlers{
		Health:       httpHandlers.NewHealthHandler(checks),
		Users:        httpHandlers.NewUserHandler(userService),
		Catalog:      httpHandlers.NewCatalogHandler(catalogService),
		Bookings:     httpHandlers.NewBookingHandler(bookingService),
		Payments:     httpHandlers.NewPaymentHandler(paymentService),
		Reviews:      httpHandlers.NewReviewHandler(reviewService),
		Chats:        httpHandlers.NewChatHandler(chatService, attachments),
		Contacts:     httpHandlers.NewContactHandler(contactService),
		Webhooks:     httpHandlers.NewWebhookHandler(identityWebhook),
		Video:        httpHandlers.NewVideoHandler(videoIssuer),
		Notification: httpHandlers.NewNotificationHandler(notificationService),
		WS:           httpHandlers.NewWSHandler(hub, auth, cfg.AllowedOrigins),
	}

	engine := httpRouter.SetupRouter(cfg, h, auth, limiterStore, attachments.Root())

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("ошибка остановки http сервера: %v", err)
		}
	}()

	log.WithField("port", cfg.HTTPPort).Info("HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("сервер завершился с ошибкой: %v", err)
	}
}

func redisPinger(client *redis.Client) httpHandlers.PingFunc {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		logger.Component("main").Errorf("ошибка закрытия базы: %v", err)
	}
}
