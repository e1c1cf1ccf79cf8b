package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mentara/apiserver/config"
	"github.com/mentara/apiserver/internal/ai"
	"github.com/mentara/apiserver/internal/db"
	"github.com/mentara/apiserver/internal/handlers"
	"github.com/mentara/apiserver/internal/mq"
	"github.com/mentara/apiserver/internal/services"
	"github.com/mentara/apiserver/internal/storage"
	"github.com/mentara/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *mq.MQ
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to account store: %w", err)
	}

	accountRepo := store.NewAccountRepository(dbConn)
	studentRepo := store.NewStudentRepository(dbConn)
	teacherRepo := store.NewTeacherRepository(dbConn)
	postRepo := store.NewPostRepository(dbConn)
	notificationRepo := store.NewNotificationRepository(dbConn)
	classRepo := store.NewClassRepository(dbConn)
	gradeRepo := store.NewGradeRepository(dbConn)
	contentRepo := store.NewContentRepository(dbConn)

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	broker, err := openBroker(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	authService := services.NewAuthService(accountRepo, studentRepo, teacherRepo)
	communityService := services.NewCommunityService(postRepo)
	notificationService := services.NewNotificationService(notificationRepo, broker)
	analyticsService := services.NewAnalyticsService(gradeRepo, classRepo, studentRepo, notificationService)

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authService, jwtSecret)
	})
	router.Route("/community", func(r chi.Router) {
		handlers.CommunityRouter(r, communityService, authService, authMiddleware)
	})
	router.Route("/analytics", func(r chi.Router) {
		handlers.AnalyticsRouter(r, analyticsService, authService, authMiddleware)
	})
	router.Route("/notifications", func(r chi.Router) {
		handlers.NotificationRouter(r, notificationService, authService, authMiddleware)
	})

	// Generation routes are mounted only when the vendor and a media
	// bucket are configured; the rest of the platform works without them.
	if strings.TrimSpace(cfg.AI.BaseURL) != "" {
		generator, err := ai.NewClient(cfg.AI)
		if err != nil {
			_ = dbConn.Close()
			return nil, err
		}
		media, err := storage.NewFromConfig(ctx, cfg.Storage)
		if err != nil {
			_ = dbConn.Close()
			return nil, err
		}
		contentService := services.NewContentService(generator, contentRepo, media)
		router.Route("/content", func(r chi.Router) {
			handlers.ContentRouter(r, contentService, authService, authMiddleware)
		})
	} else {
		log.Println("AI_BASE_URL not set, content generation disabled")
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
	}, nil
}

func openBroker(ctx context.Context, cfg config.MQConfig) (*mq.MQ, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "rabbitmq":
		backend, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(backend), nil
	case "pubsub":
		backend, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(backend), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.Backend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.broker != nil {
		_ = s.broker.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
