package main

import (
	"os"
	"time"

	"onwserver/archive"
	"onwserver/database"
	"onwserver/handlers"
	"onwserver/middlewares"
	"onwserver/oracle"
	"onwserver/store"
	"onwserver/utils"
	"onwserver/werewolf"
	"onwserver/werewolf/broadcast"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	sessionTTL = 24 * time.Hour
	memoryTTL  = 1 * time.Hour
)

func main() {
	logger, err := utils.InitLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded .env file")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Fatal("OPENAI_API_KEY is required")
	}
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gpt-5"
	}

	var oracleClient *oracle.Client
	if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
		oracleClient = oracle.NewClientWithBaseURL(apiKey, model, baseURL)
	} else {
		oracleClient = oracle.NewClient(apiKey, model)
	}

	// Session store: Redis when configured, otherwise in-process memory
	// with a cron-driven TTL sweep.
	var sessions werewolf.SessionStore
	var sweeper utils.Sweeper
	if os.Getenv("REDIS_ADDR") != "" {
		rdb, err := database.InitRedis(logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		sessions = store.NewRedisStore(rdb, sessionTTL, logger)
	} else {
		memory := store.NewMemoryStore(memoryTTL)
		sessions = memory
		sweeper = memory
		logger.Info("Using in-memory session store")
	}

	// PostgreSQL archive of finished games; skipped when config.json
	// is absent.
	var arc *archive.Archive
	if config, err := database.LoadConfig("config.json"); err != nil {
		logger.Warn("No database config, archiving disabled", zap.Error(err))
	} else {
		db, err := database.InitPostgreSQL(config, logger)
		if err != nil {
			logger.Fatal("Failed to initialize PostgreSQL", zap.Error(err))
		}
		arc = archive.New(db, logger)
		if err := arc.AutoMigrate(); err != nil {
			logger.Fatal("Failed to migrate archive schema", zap.Error(err))
		}
	}

	go utils.CronCleaner(sweeper, arc, logger)

	orch := werewolf.NewOrchestrator(sessions, oracleClient, logger)
	hub := broadcast.NewHub(logger)
	jwtKey := []byte(os.Getenv("JWT_KEY"))
	handler := handlers.New(orch, hub, arc, jwtKey, logger)

	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Api-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", handler.Health)
	router.POST("/auth/token", handler.IssueToken)

	game := router.Group("/game", middlewares.TokenAuth(jwtKey, logger))
	game.POST("/start", handler.StartGame)
	game.GET("/:id", handler.GameStatus)
	game.POST("/:id/step", handler.ExecuteStep)
	game.GET("/:id/watch", handler.Watch)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	if err := router.Run(addr); err != nil {
		logger.Fatal("Failed to run server", zap.Error(err))
	}
}
