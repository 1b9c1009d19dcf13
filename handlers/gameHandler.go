package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"onwserver/werewolf"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// stepTimeout bounds one step's oracle call. On expiry the step fails
// without mutating state and can be retried.
const stepTimeout = 60 * time.Second

const defaultRounds = 3

type startRequest struct {
	Rounds int `json:"rounds"`
}

// StartGame deals a new game and stores its session.
func (h *Handler) StartGame(c *gin.Context) {
	var req startRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	rounds := req.Rounds
	if rounds <= 0 {
		rounds = defaultRounds
	}
	if rounds > 10 {
		rounds = 10
	}

	gameID, session, err := h.orch.StartGame(c.Request.Context(), rounds)
	if err != nil {
		h.logger.Error("Failed to start game", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start game"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gameId":              gameID,
		"totalSteps":          len(session.Steps),
		"nextStepDescription": werewolf.StepDescription(session.Steps[0], session.State),
	})
}

// ExecuteStep runs the session's next step and reports the narration
// event. Oracle failures leave the step retryable and map to 502.
func (h *Handler) ExecuteStep(c *gin.Context) {
	gameID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), stepTimeout)
	defer cancel()

	result, err := h.orch.ExecuteStep(ctx, gameID)
	if err != nil {
		switch {
		case errors.Is(err, werewolf.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		case errors.Is(err, werewolf.ErrGameCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "game already completed"})
		case errors.Is(err, werewolf.ErrOracle):
			h.logger.Error("Oracle call failed", zap.String("gameID", gameID), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "oracle request failed", "retryable": true})
		default:
			h.logger.Error("Step execution failed", zap.String("gameID", gameID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "step execution failed"})
		}
		return
	}

	h.hub.BroadcastStep(gameID, result)

	if h.archive != nil && result.Event.Type == "game_end" {
		session, err := h.orch.Session(c.Request.Context(), gameID)
		if err == nil {
			if err := h.archive.SaveGame(gameID, session); err != nil {
				h.logger.Error("Failed to archive game", zap.String("gameID", gameID), zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"event":               result.Event,
		"completed":           result.Completed,
		"nextStepDescription": result.NextStepDescription,
		"currentStep":         result.CurrentStep,
		"totalSteps":          result.TotalSteps,
	})
}

// GameStatus reports where a session stands without running anything.
func (h *Handler) GameStatus(c *gin.Context) {
	gameID := c.Param("id")

	session, err := h.orch.Session(c.Request.Context(), gameID)
	if err != nil {
		if errors.Is(err, werewolf.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		h.logger.Error("Failed to load session", zap.String("gameID", gameID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load game"})
		return
	}

	next := ""
	if !session.Completed && session.StepIndex < len(session.Steps) {
		next = werewolf.StepDescription(session.Steps[session.StepIndex], session.State)
	}

	c.JSON(http.StatusOK, gin.H{
		"gameId":              gameID,
		"phase":               session.State.Phase,
		"currentStep":         session.StepIndex,
		"totalSteps":          len(session.Steps),
		"completed":           session.Completed,
		"nextStepDescription": next,
		"winners":             session.State.Winners,
	})
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
