package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"roostermarket/internal/adapter/api"
	"roostermarket/internal/adapter/api/handler"
	apimiddleware "roostermarket/internal/adapter/api/middleware"
	"roostermarket/internal/adapter/api/router"
	"roostermarket/internal/adapter/repository"
	"roostermarket/internal/infrastructure/firebase"
	"roostermarket/internal/infrastructure/ratelimit"
	"roostermarket/internal/infrastructure/storage"
	"roostermarket/internal/infrastructure/websocket"
	"roostermarket/internal/usecase"
	"roostermarket/pkg/config"
	"roostermarket/pkg/logger"
	"roostermarket/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.Configure(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt, err := credentials(cfg)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:     cfg.FirebaseProject,
		DatabaseURL:   cfg.FirebaseDatabaseURL,
		StorageBucket: cfg.StorageBucket,
	}, opt)
	if err != nil {
		logger.Error("Failed to initialize Firebase: %v", err)
		os.Exit(1)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		logger.Error("Failed to initialize Firebase Auth: %v", err)
		os.Exit(1)
	}

	databaseClient, err := firebaseApp.Database(ctx)
	if err != nil {
		logger.Error("Failed to initialize Realtime Database: %v", err)
		os.Exit(1)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		logger.Error("Failed to create Firestore client: %v", err)
		os.Exit(1)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opt)
	if err != nil {
		logger.Error("Failed to initialize Cloud Storage: %v", err)
		os.Exit(1)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	roleRepo := repository.NewFirestoreRoleRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	feedbackRepo := repository.NewFirestoreFeedbackRepository(firestoreClient)
	mediaRepo := repository.NewFirestoreMediaRepository(firestoreClient)
	postRepo := repository.NewFirestorePostRepository(firestoreClient)
	chatRepo := repository.NewRealtimeChatRepository(databaseClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	limiter := ratelimit.NewRateLimiter()
	limiter.SetPolicy(ratelimit.ActionSendMessage, ratelimit.PerMinute(cfg.ChatMessagesPerMinute))
	go limiter.StartCleanupRoutine(ctx.Done())

	authUseCase := usecase.NewAuthUseCase(userRepo, roleRepo, firebaseAuthClient)
	userUseCase := usecase.NewUserUseCase(userRepo, mediaRepo)
	listingUseCase := usecase.NewListingUseCase(listingRepo, userRepo, mediaRepo, storageClient)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, listingRepo, userRepo)
	feedbackUseCase := usecase.NewFeedbackUseCase(feedbackRepo, orderRepo, userRepo, listingRepo)
	mediaUseCase := usecase.NewMediaUseCase(mediaRepo, listingRepo, storageClient, cfg.MaxUploadSize)
	communityUseCase := usecase.NewCommunityUseCase(postRepo, limiter)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, wsManager, limiter)

	handler.Setup(authUseCase, userUseCase, listingUseCase, orderUseCase, feedbackUseCase, mediaUseCase, communityUseCase, chatUseCase)
	handler.SetupHealthHandler(map[string]handler.HealthCheck{
		"firestore": func(ctx context.Context) error {
			_, err := firestoreClient.Collection("users").Limit(1).Documents(ctx).Next()
			if errors.Is(err, iterator.Done) {
				return nil
			}
			return err
		},
		"database": func(ctx context.Context) error {
			var v interface{}
			return databaseClient.NewRef("conversations").OrderByKey().LimitToFirst(1).Get(ctx, &v)
		},
	})

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(apimiddleware.Metrics)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: corsOrigins(cfg.AllowedOrigins),
	}))
	e.Use(middleware.BodyLimit(bodyLimit(cfg.MaxUploadSize)))
	e.Use(middleware.ContextTimeout(cfg.RequestTimeout))

	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		response.Error(c, err)
	}

	authMiddleware := apimiddleware.NewAuthMiddleware(authUseCase)
	wsHandler := handler.NewWebSocketHandler(wsManager, cfg.AllowedOrigins)

	router.Setup(e, authMiddleware, limiter, wsHandler)

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}

// credentials prefers inline JSON (production) over a key file (local development).
func credentials(cfg *config.Config) (option.ClientOption, error) {
	if cfg.ServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)), nil
	}

	if _, err := os.Stat(cfg.ServiceAccountPath); err != nil {
		return nil, errors.New("service account file does not exist: " + cfg.ServiceAccountPath)
	}
	logger.Info("Using Firebase service account from file: %s", cfg.ServiceAccountPath)
	return option.WithCredentialsFile(cfg.ServiceAccountPath), nil
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// bodyLimit leaves headroom over the upload cap for multipart framing.
func bodyLimit(maxUpload int64) string {
	return strconv.FormatInt(maxUpload/(1024*1024)+1, 10) + "M"
}
