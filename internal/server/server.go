package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"chatline/internal/ai"
	"chatline/internal/config"
	"chatline/internal/handler"
	authHandler "chatline/internal/handler/auth"
	"chatline/internal/pkg/cache"
	"chatline/internal/pkg/jwt"
	"chatline/internal/pkg/mongodb"
	authRepo "chatline/internal/repository/auth"
	chatRepo "chatline/internal/repository/chat"
	"chatline/internal/server/middleware"
	"chatline/internal/service"
)

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
	redis  *cache.RedisCache
}

// New 创建服务器实例
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 初始化 MongoDB（必需：所有业务操作都依赖持久层）
	mongoClient, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	// 创建索引
	if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	// 初始化 Redis (可选)
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		mongo:  mongoClient,
		redis:  redisCache,
	}

	if err := srv.setupRoutes(); err != nil {
		return nil, err
	}

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() error {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS(s.cfg.Server.FrontendURL))

	// 健康检查
	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	db := s.mongo.Database()
	userRepo := authRepo.NewUserRepo(db)
	convRepo := chatRepo.NewConversationRepo(db)
	msgRepo := chatRepo.NewMessageRepo(db)

	// 外部生成服务
	aiClient, err := ai.NewClient(context.Background(), &s.cfg.AI)
	if err != nil {
		return err
	}

	authSvc := service.NewAuthService(userRepo, s.cfg.Auth.JWTSecret, s.cfg.Auth.TokenExpiry)
	oauthSvc := service.NewOAuthService(userRepo)
	chatSvc := service.NewChatService(aiClient, convRepo, msgRepo, s.redis)
	convSvc := service.NewConversationService(convRepo, msgRepo, s.redis)

	authHdl := authHandler.NewHandler(authSvc, oauthSvc, s.cfg)
	chatHdl := handler.NewChatHandler(chatSvc)
	convHdl := handler.NewConversationHandler(convSvc)

	jwtUtil := jwt.NewJWT(s.cfg.Auth.JWTSecret, s.cfg.Auth.TokenExpiry)

	api := s.engine.Group("/api")
	{
		// 认证接口（公开）
		api.POST("/auth/register", authHdl.Register)
		api.POST("/auth/login", authHdl.Login)
		api.GET("/auth/google", authHdl.GoogleLogin)
		api.GET("/auth/google/callback", authHdl.GoogleCallback)

		// 需要认证的接口：唯一的鉴权入口，任何路由不得绕过
		protected := api.Group("")
		protected.Use(middleware.Auth(jwtUtil))
		{
			protected.GET("/auth/me", authHdl.GetMe)
			protected.POST("/auth/logout", authHdl.Logout)

			protected.POST("/chat", chatHdl.Chat)
			protected.GET("/conversations", convHdl.List)
			protected.GET("/history/:conversationId", convHdl.History)
			protected.PUT("/history/:conversationId", convHdl.Rename)
			protected.DELETE("/history/:conversationId", convHdl.Clear)
			protected.DELETE("/history", convHdl.ClearAll)
		}
	}

	return nil
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		// 关闭连接
		if err := s.mongo.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close MongoDB connection")
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
