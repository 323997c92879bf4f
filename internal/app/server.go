// internal/app/server.go
package app

import (
	"fmt"
	"log"

	"gfsams-portal/internal/config"
	"gfsams-portal/internal/db"
	authHandler "gfsams-portal/internal/handlers/auth"
	pagesHandler "gfsams-portal/internal/handlers/pages"
	"gfsams-portal/internal/identity"
	"gfsams-portal/internal/middleware"
	"gfsams-portal/internal/pkg/session"
	authUsecase "gfsams-portal/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg         config.AppConfig
	engine      *gin.Engine
	logger      *zap.Logger
	authService *authUsecase.Service
}

func NewServer() (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{cfg: cfg, engine: gin.New()}, nil
}

func (s *Server) Start() error {
	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] connected")

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- Identity service client -----
	identityClient := identity.NewHTTPClient(s.cfg.IdentityServiceURL, s.cfg.OAuthClientID, nil)

	// ----- Session store & cookie codec -----
	sessionStore := session.NewStore(redisClient, s.cfg.SessionTTL)
	cookieCodec := session.NewCookieCodec(s.cfg.SessionSecret, s.cfg.SessionTTL)

	// ----- Services -----
	authService := authUsecase.NewService(identityClient, sessionStore, cookieCodec, logger)
	s.authService = authService

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authService, logger)
	pagesHandlerInst := pagesHandler.NewPagesHandler(logger)

	// ----- Middlewares -----
	guard := middleware.NewGuardMiddleware(authService, middleware.DefaultRules(), logger)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		guard.Guard(),
	)

	// ----- Templates -----
	s.engine.LoadHTMLGlob("web/templates/*.html")

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:     authHandlerInst,
		PagesHandler:    pagesHandlerInst,
		GuardMiddleware: guard,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("portal running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
