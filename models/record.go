package models

import (
	"gorm.io/gorm"
)

// GameRecord is the archived row written for a completed game.
type GameRecord struct {
	gorm.Model
	GameID         string `gorm:"uniqueIndex;not null"`
	Winners        string `gorm:"not null"` // comma-joined team names
	EliminatedName string
	EliminatedRole string
	Rounds         int
	MessageCount   int
	FinalRoles     string // JSON: name -> {original, current}
	CenterCards    string // JSON: left/middle/right
	FinishTime     int64  `gorm:"not null"`
}
