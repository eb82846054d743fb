package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/events"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Log    *logrus.Logger
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

func Init(cfg *config.Config) (*Server, error) {
	log := newLogger(cfg.LogLevel)

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Board{},
		&model.List{},
		&model.Card{},
		&model.Comment{},
		&model.Notification{},
		&model.ActivityLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("Connected to database")

	r := gin.Default()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	listRepo := repository.NewListRepository(db)
	cardRepo := repository.NewCardRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	// Shared infrastructure
	bus := events.NewBus()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// Services
	notificationService := service.NewNotificationService(notificationRepo, bus, log)
	authService := service.NewAuthService(userRepo, tokens, log)
	userService := service.NewUserService(userRepo, log)
	boardService := service.NewBoardService(boardRepo, userRepo, activityRepo, bus, log)
	listService := service.NewListService(listRepo, boardRepo, activityRepo, bus, log)
	cardService := service.NewCardService(cardRepo, listRepo, boardRepo, activityRepo, bus, notificationService, log)
	commentService := service.NewCommentService(commentRepo, cardRepo, listRepo, boardRepo, activityRepo, bus, notificationService, log)
	analyticsService := service.NewAnalyticsService(userRepo, boardRepo, cardRepo, commentRepo, activityRepo, log)
	searchService := service.NewSearchService(boardRepo, cardRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	boardHandler := handler.NewBoardHandler(boardService)
	listHandler := handler.NewListHandler(listService)
	cardHandler := handler.NewCardHandler(cardService)
	commentHandler := handler.NewCommentHandler(commentService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	searchHandler := handler.NewSearchHandler(searchService)
	eventHandler := handler.NewEventHandler(bus, boardService, cardService)

	// Public routes
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens, userRepo))
	{
		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)

		// Board membership routes
		authorized.POST("/boards/:id/members", boardHandler.AddMember)
		authorized.DELETE("/boards/:id/members/:user_id", boardHandler.RemoveMember)
		authorized.POST("/boards/:id/admins", boardHandler.AddAdmin)
		authorized.DELETE("/boards/:id/admins/:user_id", boardHandler.RemoveAdmin)

		// List routes
		authorized.GET("/boards/:id/lists", listHandler.GetByBoardID)
		authorized.POST("/lists", listHandler.Create)
		authorized.PUT("/lists/:id", listHandler.Update)
		authorized.POST("/lists/move", listHandler.Move)
		authorized.DELETE("/lists/:id", listHandler.Delete)

		// Card routes
		authorized.POST("/cards", cardHandler.Create)
		authorized.GET("/cards/:id", cardHandler.GetByID)
		authorized.GET("/lists/:id/cards", cardHandler.GetByListID)
		authorized.PUT("/cards/:id", cardHandler.Update)
		authorized.POST("/cards/move", cardHandler.Move)
		authorized.DELETE("/cards/:id", cardHandler.Delete)
		authorized.POST("/cards/:id/assign", cardHandler.Assign)
		authorized.DELETE("/cards/:id/assign", cardHandler.Unassign)

		// Comment routes
		authorized.GET("/cards/:id/comments", commentHandler.GetByCardID)
		authorized.POST("/comments", commentHandler.Create)
		authorized.PUT("/comments/:id", commentHandler.Update)
		authorized.DELETE("/comments/:id", commentHandler.Delete)

		// User routes
		authorized.GET("/users", userHandler.GetAll)
		authorized.GET("/users/me", userHandler.Me)
		authorized.PUT("/users/me", userHandler.UpdateProfile)
		authorized.PUT("/users/me/password", userHandler.ChangePassword)
		authorized.GET("/users/:id", userHandler.GetByID)
		authorized.PUT("/users/:id/role", userHandler.UpdateRole)

		// Notification routes
		authorized.GET("/notifications", notificationHandler.GetAll)
		authorized.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		authorized.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
		authorized.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)

		// Analytics routes
		authorized.GET("/analytics", analyticsHandler.Get)
		authorized.GET("/analytics/activity", analyticsHandler.ActivityLogs)
		authorized.GET("/analytics/users/:id/activity", analyticsHandler.UserActivityLogs)

		// Search
		authorized.GET("/search", searchHandler.Search)

		// Server-Sent Events streams
		authorized.GET("/events/boards/:id", eventHandler.BoardStream)
		authorized.GET("/events/cards/:id", eventHandler.CardStream)
		authorized.GET("/events/notifications", eventHandler.NotificationStream)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		Log:    log,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.Log.Infof("Server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Log.Fatalf("Failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Log.Fatalf("Server forced to shutdown: %s", err)
	}

	s.Log.Info("Server exited properly")
}
