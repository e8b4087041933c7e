package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mines-backend/internal/config"
	"mines-backend/internal/middleware"
	"mines-backend/internal/services"
)

// RouterDeps carries what NewRouter wires together. Limiter and Redis may be
// nil when the server runs without redis.
type RouterDeps struct {
	Config     config.Config
	GameEngine *services.GameEngine
	Hub        *WebSocketHub
	Limiter    middleware.RateLimiter
	Redis      Pinger
	Logger     *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimitMiddleware(deps.Limiter, deps.Config.RateLimit, deps.Logger))

	gameHandler := NewGameHandler(deps.GameEngine, deps.Config.Server.StaticDir, deps.Logger)
	healthHandler := NewHealthHandler(deps.Redis)

	router.GET("/", gameHandler.Index)
	router.GET("/health", healthHandler.Health)
	if deps.Hub != nil {
		router.GET("/ws", deps.Hub.HandleWebSocket)
	}

	game := router.Group("/game")
	{
		game.GET("/init", gameHandler.InitGame)
		game.POST("/start", gameHandler.StartGame)
		game.GET("/verify-cell", gameHandler.VerifyCell)
		game.POST("/end", gameHandler.EndGame)
		game.GET("/state", gameHandler.GetState)
		game.GET("/rules", gameHandler.GetRules)
		game.GET("/wallet", gameHandler.GetWallet)
		game.GET("/history", gameHandler.GetHistory)
	}

	router.NoRoute(staticFiles(deps.Config.Server.StaticDir))

	return router
}

// staticFiles serves the built frontend for any path not claimed by a route.
func staticFiles(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		name := path.Clean("/" + c.Request.URL.Path)
		file := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(name, "/")))
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		c.File(file)
	}
}
