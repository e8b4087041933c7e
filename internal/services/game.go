package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"mines-backend/internal/mines"
	"mines-backend/internal/models"
)

// GameEngine serializes every operation on the single process-wide game.
// Ledger writes and broadcasts run after the transition has committed and
// the lock is released.
type GameEngine struct {
	mu      sync.Mutex
	game    *mines.Game
	roundID string
	wallet  models.Wallet

	ledger      Ledger
	broadcaster Broadcaster
	logger      *zap.Logger
}

func NewGameEngine(game *mines.Game, ledger Ledger, logger *zap.Logger) *GameEngine {
	if ledger == nil {
		ledger = NewMemoryLedger()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameEngine{
		game:        game,
		wallet:      models.Wallet{Balance: game.Balance()},
		ledger:      ledger,
		broadcaster: nopBroadcaster{},
		logger:      logger,
	}
}

// SetBroadcaster attaches the live event sink. Passing nil detaches it.
func (ge *GameEngine) SetBroadcaster(b Broadcaster) {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	if b == nil {
		b = nopBroadcaster{}
	}
	ge.broadcaster = b
}

// Init discards any round in progress and reports the defaults.
func (ge *GameEngine) Init(ctx context.Context) models.InitResponse {
	ge.mu.Lock()
	defer ge.mu.Unlock()

	if state := ge.game.Snapshot().State; state != mines.StateIdle {
		ge.logger.Info("round discarded by init",
			zap.String("round_id", ge.roundID),
			zap.Stringer("state", state),
		)
	}
	res := ge.game.Initialize()
	ge.roundID = ""

	return models.InitResponse{
		Mines:     res.Mines,
		Bet:       res.Bet,
		GameState: res.GameState,
		Balance:   res.Balance,
	}
}

func (ge *GameEngine) Start(ctx context.Context, mineCount int, bet float64) (models.StartResponse, error) {
	ge.mu.Lock()
	before := ge.game.Balance()
	res, err := ge.game.Start(mineCount, bet)
	if err != nil {
		ge.mu.Unlock()
		ge.logger.Warn("start rejected",
			zap.Int("mines", mineCount),
			zap.Float64("bet", bet),
			zap.Error(err),
		)
		return models.StartResponse{}, err
	}
	roundID := models.GenerateRoundID()
	ge.roundID = roundID
	ge.wallet.Balance = res.Balance
	ge.wallet.TotalWagered += bet
	ge.wallet.RoundsPlayed++
	layout := ge.game.Mines()
	broadcaster := ge.broadcaster
	ge.mu.Unlock()

	ge.logger.Info("round started",
		zap.String("round_id", roundID),
		zap.Int("mines", mineCount),
		zap.Float64("bet", bet),
		zap.Float64("balance", res.Balance),
	)
	ge.logger.Debug("mine layout",
		zap.String("round_id", roundID),
		zap.Any("cells", layout),
	)

	ge.record(ctx, &models.Transaction{
		Type:          models.TransactionTypeBet,
		Amount:        -bet,
		BalanceBefore: before,
		BalanceAfter:  res.Balance,
		RoundID:       roundID,
		Description:   fmt.Sprintf("Placed %s on %d mines", models.FormatAmount(bet), mineCount),
	})
	broadcaster.Publish(&models.RoundEvent{
		Type:    models.EventRoundStarted,
		RoundID: roundID,
		Data: map[string]interface{}{
			"mines":   mineCount,
			"bet":     bet,
			"balance": res.Balance,
		},
		Timestamp: time.Now().Unix(),
	})

	return models.StartResponse{GameState: res.GameState, Balance: res.Balance}, nil
}

func (ge *GameEngine) Reveal(ctx context.Context, row, column int) (models.RevealResponse, error) {
	cell := mines.Cell{Row: row, Column: column}

	ge.mu.Lock()
	res, err := ge.game.Reveal(cell)
	if err != nil {
		ge.mu.Unlock()
		ge.logger.Debug("reveal rejected",
			zap.Int("row", row),
			zap.Int("column", column),
			zap.Error(err),
		)
		return models.RevealResponse{}, err
	}
	roundID := ge.roundID
	snap := ge.game.Snapshot()
	var layout []mines.Cell
	if res.HasMine {
		ge.wallet.RoundsLost++
		layout = ge.game.Mines()
	}
	broadcaster := ge.broadcaster
	ge.mu.Unlock()

	ge.logger.Debug("cell revealed",
		zap.String("round_id", roundID),
		zap.Int("row", row),
		zap.Int("column", column),
		zap.Bool("has_mine", res.HasMine),
		zap.Int("streak", snap.Streak),
		zap.Float64("multiplier", res.ProfitMultiplier),
	)

	data := map[string]interface{}{
		"row":              row,
		"column":           column,
		"hasMine":          res.HasMine,
		"profitMultiplier": res.ProfitMultiplier,
		"playerProfit":     res.PlayerProfit,
		"gameState":        res.GameState,
	}
	if res.HasMine {
		ge.logger.Info("round lost",
			zap.String("round_id", roundID),
			zap.Float64("bet", snap.Bet),
		)
		ge.record(ctx, &models.Transaction{
			Type:          models.TransactionTypeLoss,
			Amount:        0,
			BalanceBefore: snap.Balance,
			BalanceAfter:  snap.Balance,
			RoundID:       roundID,
			Description:   fmt.Sprintf("Hit a mine at (%d, %d), lost %s", row, column, models.FormatAmount(snap.Bet)),
		})
		data["minePositions"] = layout
	}
	broadcaster.Publish(&models.RoundEvent{
		Type:      models.EventCellRevealed,
		RoundID:   roundID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})

	return models.RevealResponse{
		HasMine:          res.HasMine,
		ProfitMultiplier: res.ProfitMultiplier,
		PlayerProfit:     res.PlayerProfit,
		GameState:        res.GameState,
	}, nil
}

// End pays out the profit of a round that was not lost and resets to Idle.
func (ge *GameEngine) End(ctx context.Context) (models.EndResponse, error) {
	ge.mu.Lock()
	before := ge.game.Balance()
	streak := ge.game.Snapshot().Streak
	res, err := ge.game.End()
	if err != nil {
		ge.mu.Unlock()
		ge.logger.Warn("end rejected", zap.Error(err))
		return models.EndResponse{}, err
	}
	roundID := ge.roundID
	ge.roundID = ""
	ge.wallet.Balance = res.Balance
	if !res.Lost {
		ge.wallet.TotalWon += res.Credited
	}
	broadcaster := ge.broadcaster
	ge.mu.Unlock()

	ge.logger.Info("round ended",
		zap.String("round_id", roundID),
		zap.Bool("lost", res.Lost),
		zap.Float64("credited", res.Credited),
		zap.Float64("balance", res.Balance),
	)

	if !res.Lost {
		ge.record(ctx, &models.Transaction{
			Type:          models.TransactionTypeWin,
			Amount:        res.Credited,
			BalanceBefore: before,
			BalanceAfter:  res.Balance,
			RoundID:       roundID,
			Description:   fmt.Sprintf("Cashed out %s after %d reveals", models.FormatAmount(res.Credited), streak),
		})
	}
	broadcaster.Publish(&models.RoundEvent{
		Type:    models.EventRoundEnded,
		RoundID: roundID,
		Data: map[string]interface{}{
			"balance":  res.Balance,
			"credited": res.Credited,
			"lost":     res.Lost,
		},
		Timestamp: time.Now().Unix(),
	})

	return models.EndResponse{Balance: res.Balance}, nil
}

func (ge *GameEngine) State() models.GameStateResponse {
	ge.mu.Lock()
	defer ge.mu.Unlock()

	snap := ge.game.Snapshot()
	return models.GameStateResponse{
		RoundID:    ge.roundID,
		GameState:  snap.State,
		Mines:      snap.MineCount,
		Bet:        snap.Bet,
		Multiplier: snap.Multiplier,
		Profit:     snap.Profit,
		Streak:     snap.Streak,
		Balance:    snap.Balance,
		Revealed:   snap.Revealed,
	}
}

func (ge *GameEngine) Rules() models.RulesResponse {
	rules := ge.game.Rules()
	return models.RulesResponse{
		GridSize:        rules.GridSize,
		DefaultMines:    rules.DefaultMines,
		DefaultBet:      rules.DefaultBet,
		HouseEdge:       rules.HouseEdge,
		StartingBalance: rules.StartingBalance,
		MaxMines:        rules.Cells(),
	}
}

func (ge *GameEngine) Wallet() models.Wallet {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	return ge.wallet
}

func (ge *GameEngine) History(ctx context.Context, limit int64) ([]*models.Transaction, error) {
	return ge.ledger.GetTransactions(ctx, limit)
}

// record stamps and stores tx. Ledger failures are logged and never undo
// the committed transition.
func (ge *GameEngine) record(ctx context.Context, tx *models.Transaction) {
	tx.ID = models.GenerateTransactionID()
	tx.CreatedAt = time.Now()
	if err := ge.ledger.SaveTransaction(ctx, tx); err != nil {
		ge.logger.Error("failed to record transaction",
			zap.String("round_id", tx.RoundID),
			zap.String("type", string(tx.Type)),
			zap.Error(err),
		)
	}
}
