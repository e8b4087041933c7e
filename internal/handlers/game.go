package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mines-backend/internal/mines"
	"mines-backend/internal/models"
	"mines-backend/internal/services"
)

type GameHandler struct {
	gameEngine *services.GameEngine
	staticDir  string
	logger     *zap.Logger
}

func NewGameHandler(gameEngine *services.GameEngine, staticDir string, logger *zap.Logger) *GameHandler {
	return &GameHandler{
		gameEngine: gameEngine,
		staticDir:  staticDir,
		logger:     logger,
	}
}

// Index resets the game and serves the frontend entry page.
func (h *GameHandler) Index(c *gin.Context) {
	h.gameEngine.Init(c.Request.Context())
	c.File(filepath.Join(h.staticDir, "index.html"))
}

func (h *GameHandler) InitGame(c *gin.Context) {
	c.JSON(http.StatusOK, h.gameEngine.Init(c.Request.Context()))
}

func (h *GameHandler) StartGame(c *gin.Context) {
	var req models.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request", err)
		return
	}
	if err := req.Validate(); err != nil {
		h.badRequest(c, "Invalid request", err)
		return
	}

	res, err := h.gameEngine.Start(c.Request.Context(), *req.Mines, *req.Bet)
	if err != nil {
		h.gameError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *GameHandler) VerifyCell(c *gin.Context) {
	var req models.RevealRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "row and column are required integers", err)
		return
	}

	res, err := h.gameEngine.Reveal(c.Request.Context(), *req.Row, *req.Column)
	if err != nil {
		h.gameError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *GameHandler) EndGame(c *gin.Context) {
	res, err := h.gameEngine.End(c.Request.Context())
	if err != nil {
		h.gameError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *GameHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.gameEngine.State())
}

func (h *GameHandler) GetRules(c *gin.Context) {
	c.JSON(http.StatusOK, h.gameEngine.Rules())
}

func (h *GameHandler) GetWallet(c *gin.Context) {
	c.JSON(http.StatusOK, h.gameEngine.Wallet())
}

func (h *GameHandler) GetHistory(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", strconv.Itoa(services.DefaultHistoryLimit))
	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit <= 0 || limit > services.MaxHistory {
		limit = services.DefaultHistoryLimit
	}

	txs, err := h.gameEngine.History(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to load history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": txs,
		"count":        len(txs),
	})
}

func (h *GameHandler) badRequest(c *gin.Context, msg string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   msg,
		"code":    "INVALID_REQUEST",
		"details": err.Error(),
		"state":   h.gameEngine.State(),
	})
}

// gameError reports a rejected transition along with the unchanged state.
func (h *GameHandler) gameError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, mines.ErrInvalidMineCount):
		status, code = http.StatusBadRequest, "INVALID_MINE_COUNT"
	case errors.Is(err, mines.ErrInvalidBet):
		status, code = http.StatusBadRequest, "INVALID_BET"
	case errors.Is(err, mines.ErrInvalidCell):
		status, code = http.StatusBadRequest, "INVALID_CELL"
	case errors.Is(err, mines.ErrInvalidState):
		status, code = http.StatusConflict, "INVALID_STATE"
	case errors.Is(err, mines.ErrDuplicateReveal):
		status, code = http.StatusConflict, "DUPLICATE_REVEAL"
	default:
		h.logger.Error("unexpected game error", zap.Error(err))
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  code,
		"state": h.gameEngine.State(),
	})
}
