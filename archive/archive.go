package archive

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"onwserver/models"
	"onwserver/werewolf"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Archive writes finished games to PostgreSQL so results survive the
// session store's eviction.
type Archive struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New wraps a gorm connection.
func New(db *gorm.DB, logger *zap.Logger) *Archive {
	return &Archive{db: db, logger: logger}
}

// AutoMigrate creates the game_records table.
func (a *Archive) AutoMigrate() error {
	if err := a.db.AutoMigrate(&models.GameRecord{}); err != nil {
		return fmt.Errorf("migrate game records: %w", err)
	}
	return nil
}

type finalRole struct {
	Original models.Role `json:"original"`
	Current  models.Role `json:"current"`
}

// SaveGame serializes a completed session into one record row.
func (a *Archive) SaveGame(gameID string, session *models.Session) error {
	state := session.State

	winners := make([]string, len(state.Winners))
	for i, team := range state.Winners {
		winners[i] = string(team)
	}

	roles := make(map[string]finalRole, len(state.Players))
	for _, p := range state.Players {
		roles[p.Name] = finalRole{Original: p.OriginalRole, Current: p.CurrentRole}
	}
	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("encode final roles: %w", err)
	}
	centerJSON, err := json.Marshal(state.CenterCards)
	if err != nil {
		return fmt.Errorf("encode center cards: %w", err)
	}

	record := models.GameRecord{
		GameID:       gameID,
		Winners:      strings.Join(winners, ","),
		Rounds:       state.CurrentRound,
		MessageCount: len(state.DayMessages),
		FinalRoles:   string(rolesJSON),
		CenterCards:  string(centerJSON),
		FinishTime:   time.Now().Unix(),
	}
	if p := werewolf.PlayerByID(state, state.EliminatedPlayerID); p != nil {
		record.EliminatedName = p.Name
		record.EliminatedRole = string(p.CurrentRole)
	}

	if err := a.db.Create(&record).Error; err != nil {
		return fmt.Errorf("insert game record: %w", err)
	}
	a.logger.Info("game archived",
		zap.String("gameID", gameID),
		zap.String("winners", record.Winners),
	)
	return nil
}

// PurgeOld deletes records finished before the cutoff and reports how
// many rows went away.
func (a *Archive) PurgeOld(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).Unix()
	result := a.db.Where("finish_time < ?", cutoff).Delete(&models.GameRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("purge game records: %w", result.Error)
	}
	return result.RowsAffected, nil
}
