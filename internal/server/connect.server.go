package server

import (
	"log"
	"net/http"

	"connect-service/internal/config"
	"connect-service/internal/events"
	"connect-service/internal/handler"
	"connect-service/internal/repository"
	"connect-service/internal/router"
	"connect-service/internal/service/stream"
	"connect-service/internal/usecase"
	"connect-service/pkg/id"
	"connect-service/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	HTTP   *http.Server
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Logger *zap.Logger
}

func NewServer(cfg config.AppConfig) *Server {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	// --- DB connection ---
	db, err := config.ConnectDB()
	if err != nil {
		logger.Fatal("failed to connect to DB", zap.Error(err))
	}

	// --- Redis client ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewFriendRequestRepository(db)
	groupRepo := repository.NewGroupRepository(db)

	// --- ID generation ---
	idGen := id.NewGenerator()

	// --- Provider + events ---
	streamClient := stream.NewClient(cfg.Stream.APIKey, cfg.Stream.APISecret, cfg.Stream.BaseURL, logger)
	publisher := events.NewEventPublisher(rdb, logger)

	// --- Usecases ---
	authUC := usecase.NewAuthUsecase(userRepo, streamClient, idGen, logger)
	friendUC := usecase.NewFriendUsecase(userRepo, requestRepo, publisher, idGen, logger)
	groupUC := usecase.NewGroupUsecase(groupRepo, publisher, idGen, logger)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authUC, cfg.JWTSecret, cfg.SessionTTL, logger)
	friendHandler := handler.NewFriendHandler(friendUC, logger)
	groupHandler := handler.NewGroupHandler(groupUC, logger)
	chatHandler := handler.NewChatHandler(streamClient, logger)

	// --- Middleware ---
	auth := middleware.NewAuthMiddleware(cfg.JWTSecret)

	// --- HTTP router ---
	r := chi.NewRouter()
	router.SetupRoutes(r, authHandler, friendHandler, groupHandler, chatHandler, auth, rdb)

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	return &Server{
		HTTP:   httpSrv,
		DB:     db,
		Redis:  rdb,
		Logger: logger,
	}
}

// StartHTTP runs the HTTP server.
func (s *Server) StartHTTP() error {
	s.Logger.Info("connect HTTP service listening", zap.String("addr", s.HTTP.Addr))
	return s.HTTP.ListenAndServe()
}

// Close releases the server's connections.
func (s *Server) Close() {
	if err := s.Redis.Close(); err != nil {
		s.Logger.Warn("error closing redis", zap.Error(err))
	}
	s.DB.Close()
	_ = s.Logger.Sync()
}
