// internal/app/server.go
package app

import (
	"fmt"
	"log"

	"leadflow-service/internal/config"
	"leadflow-service/internal/db"
	leadHandler "leadflow-service/internal/handlers/lead"
	ledgerHandler "leadflow-service/internal/handlers/ledger"
	"leadflow-service/internal/middleware"
	"leadflow-service/internal/pkg/jwt"
	"leadflow-service/internal/repository/postgres"
	leadUsecase "leadflow-service/internal/service/lead"
	ledgerUsecase "leadflow-service/internal/service/ledger"
	"leadflow-service/internal/service/revenue"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] connected")

	// ----- JWT Verifier -----
	verifier, err := jwt.LoadVerifier(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT verifier: %w", err)
	}

	// ----- Repositories -----
	leadRepo := postgres.NewLeadRepository(pool)
	transactionRepo := postgres.NewLeadTransactionRepository(pool)
	partnerRepo := postgres.NewNetworkPartnerRepository(pool)

	// ----- Services -----
	splitter := revenue.NewSplitter(s.cfg.Split)
	leadService := leadUsecase.NewLeadService(leadRepo, partnerRepo, splitter, s.cfg.LeadExpiryDays, logger)
	ledgerService := ledgerUsecase.NewLedgerService(transactionRepo, redisClient, s.cfg.StatsCacheTTL, logger)

	// ----- Handlers -----
	leadHandlerInst := leadHandler.NewLeadHandler(leadService)
	transactionHandlerInst := ledgerHandler.NewTransactionHandler(ledgerService)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(verifier)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		LeadHandler:        leadHandlerInst,
		TransactionHandler: transactionHandlerInst,
		AuthMiddleware:     authMiddleware,
	}
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
