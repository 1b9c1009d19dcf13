package werewolf

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"onwserver/models"
	"onwserver/oracle"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionStore is the keyed store sessions live in. Get returns
// (nil, nil) for an unknown id. Implementations must serialize
// reads/writes per key; serializing whole steps is the orchestrator's
// job.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Set(ctx context.Context, id string, session *models.Session) error
	UpdateState(ctx context.Context, id string, state *models.GameState) error
	AdvanceStep(ctx context.Context, id string) (*models.Session, error)
}

// Oracle is the external reasoning capability consulted for discussion
// turns, votes and choice-dependent night actions.
type Oracle interface {
	Query(ctx context.Context, systemPrompt, userPrompt string) (*oracle.Response, error)
	QueryStructured(ctx context.Context, systemPrompt, userPrompt string, schema *oracle.Schema) (*oracle.StructuredResponse, error)
}

// StepEvent is the narration record of one executed step, handed to
// the presentation layer.
type StepEvent struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// StepResult is what one ExecuteStep call reports back.
type StepResult struct {
	Event               *StepEvent `json:"event"`
	Completed           bool       `json:"completed"`
	NextStepDescription string     `json:"nextStepDescription,omitempty"`
	CurrentStep         int        `json:"currentStep"`
	TotalSteps          int        `json:"totalSteps"`
}

// Orchestrator drives games one step at a time against an injected
// store and oracle. Steps for the same game are serialized through a
// per-session lock; different games run concurrently.
type Orchestrator struct {
	store  SessionStore
	oracle Oracle
	logger *zap.Logger
	locks  sync.Map // game id -> *sync.Mutex
}

// NewOrchestrator wires an orchestrator to its collaborators.
func NewOrchestrator(store SessionStore, orc Oracle, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{store: store, oracle: orc, logger: logger}
}

func newRandGenerator() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (o *Orchestrator) sessionLock(id string) *sync.Mutex {
	m, _ := o.locks.LoadOrStore(id, &sync.Mutex{})
	return m.(*sync.Mutex)
}

// StartGame deals a fresh game, precomputes its step list and stores
// the session under a new id.
func (o *Orchestrator) StartGame(ctx context.Context, maxRounds int) (string, *models.Session, error) {
	state, err := CreateGame(maxRounds, newRandGenerator())
	if err != nil {
		return "", nil, err
	}

	session := &models.Session{
		State: state,
		Steps: BuildSteps(state),
	}
	id := uuid.New().String()
	if err := o.store.Set(ctx, id, session); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	o.logger.Info("game started",
		zap.String("gameID", id),
		zap.Int("totalSteps", len(session.Steps)),
		zap.Int("maxRounds", maxRounds),
	)
	return id, session, nil
}

// Session fetches a stored session for status reporting.
func (o *Orchestrator) Session(ctx context.Context, id string) (*models.Session, error) {
	session, err := o.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// ExecuteStep runs exactly one step of a session. On an oracle failure
// nothing is committed and the cursor stays put, so the same step can
// be retried. On success the state is persisted, the cursor advances
// by one, and the narration event plus the next step's description are
// returned.
func (o *Orchestrator) ExecuteStep(ctx context.Context, id string) (*StepResult, error) {
	mu := o.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	session, err := o.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Completed || session.StepIndex >= len(session.Steps) {
		return nil, ErrGameCompleted
	}

	state := session.State.Clone()
	step := session.Steps[session.StepIndex]

	event, err := o.runStep(ctx, state, step)
	if err != nil {
		return nil, err
	}

	if err := o.store.UpdateState(ctx, id, state); err != nil {
		return nil, fmt.Errorf("persist state: %w", err)
	}
	updated, err := o.store.AdvanceStep(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("advance step: %w", err)
	}

	result := &StepResult{
		Event:       event,
		Completed:   updated.Completed,
		CurrentStep: updated.StepIndex,
		TotalSteps:  len(updated.Steps),
	}
	if !updated.Completed {
		result.NextStepDescription = StepDescription(updated.Steps[updated.StepIndex], state)
	}

	o.logger.Info("step executed",
		zap.String("gameID", id),
		zap.String("kind", string(step.Kind)),
		zap.Int("step", updated.StepIndex),
		zap.Bool("completed", updated.Completed),
	)
	return result, nil
}

func (o *Orchestrator) runStep(ctx context.Context, state *models.GameState, step models.Step) (*StepEvent, error) {
	switch step.Kind {
	case models.StepSetup:
		players := make([]map[string]interface{}, len(state.Players))
		for i, p := range state.Players {
			players[i] = map[string]interface{}{
				"name":         p.Name,
				"originalRole": p.OriginalRole,
			}
		}
		return &StepEvent{Type: "setup", Data: map[string]interface{}{
			"players":     players,
			"centerCards": state.CenterCards,
		}}, nil

	case models.StepNightStart:
		state.Phase = models.PhaseNight
		return &StepEvent{Type: "phase_change", Data: map[string]interface{}{"phase": models.PhaseNight}}, nil

	case models.StepNightAction:
		return o.runNightAction(ctx, state, step)

	case models.StepDayStart:
		state.Phase = models.PhaseDay
		return &StepEvent{Type: "phase_change", Data: map[string]interface{}{"phase": models.PhaseDay}}, nil

	case models.StepDayRoundStart:
		state.CurrentRound++
		return &StepEvent{Type: "phase_change", Data: map[string]interface{}{
			"phase": models.PhaseDay,
			"round": step.Round,
		}}, nil

	case models.StepDayDiscussion:
		return o.runDiscussion(ctx, state, step)

	case models.StepVotingStart:
		state.Phase = models.PhaseVoting
		return &StepEvent{Type: "phase_change", Data: map[string]interface{}{"phase": models.PhaseVoting}}, nil

	case models.StepVote:
		return o.runVote(ctx, state, step)

	case models.StepResolution:
		ResolveVotes(state)
		DetermineWinners(state)

		eliminatedName := "No one"
		var eliminatedRole models.Role
		if p := PlayerByID(state, state.EliminatedPlayerID); p != nil {
			eliminatedName = p.Name
			eliminatedRole = p.CurrentRole
		}
		votes := make([]map[string]interface{}, len(state.Votes))
		for i, v := range state.Votes {
			votes[i] = map[string]interface{}{
				"voter":  playerName(state, v.VoterID),
				"target": playerName(state, v.TargetID),
			}
		}
		return &StepEvent{Type: "resolution", Data: map[string]interface{}{
			"eliminated":     eliminatedName,
			"eliminatedRole": eliminatedRole,
			"votes":          votes,
		}}, nil

	case models.StepGameEnd:
		finalRoles := make([]map[string]interface{}, len(state.Players))
		for i, p := range state.Players {
			finalRoles[i] = map[string]interface{}{
				"name":         p.Name,
				"originalRole": p.OriginalRole,
				"currentRole":  p.CurrentRole,
			}
		}
		return &StepEvent{Type: "game_end", Data: map[string]interface{}{
			"winners":     state.Winners,
			"finalRoles":  finalRoles,
			"centerCards": state.CenterCards,
		}}, nil

	default:
		return nil, fmt.Errorf("unhandled step kind %q", step.Kind)
	}
}

func playerName(state *models.GameState, id string) string {
	if p := PlayerByID(state, id); p != nil {
		return p.Name
	}
	return id
}

func (o *Orchestrator) runNightAction(ctx context.Context, state *models.GameState, step models.Step) (*StepEvent, error) {
	player := state.Players[step.PlayerIndex]
	ability, ok := AbilityFor(step.Role)
	if !ok {
		return nil, fmt.Errorf("role %q has no night ability", step.Role)
	}

	data := map[string]interface{}{
		"player": player.Name,
		"role":   step.Role,
	}

	if !ability.NeedsDecision {
		result, err := ability.Resolve(state, player.ID, nil)
		if err != nil {
			return nil, err
		}
		data["result"] = result
		return &StepEvent{Type: "night_action", Data: data}, nil
	}

	systemPrompt := oracle.BuildSystemPrompt(player, state)
	action, ok := oracle.BuildNightActionPrompt(player, state)
	if !ok {
		return nil, fmt.Errorf("no night prompt for role %q", step.Role)
	}

	resp, err := o.oracle.QueryStructured(ctx, systemPrompt, action.Prompt, action.Schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracle, err)
	}

	rawResponse, _ := json.Marshal(resp.Fields)
	data["systemPrompt"] = systemPrompt
	data["userPrompt"] = action.Prompt
	data["llmResponse"] = string(rawResponse)
	data["reasoning"] = resp.Rationale

	// An invalid selection drops the action rather than failing the
	// step: the game must not deadlock on one bad response.
	result := "No action taken"
	if dec, valid := decodeNightDecision(state, player, resp); valid {
		resolved, err := ability.Resolve(state, player.ID, dec)
		if err != nil {
			o.logger.Warn("night action rejected",
				zap.String("player", player.Name),
				zap.String("role", string(step.Role)),
				zap.Error(err),
			)
		} else {
			result = resolved
		}
	} else {
		o.logger.Warn("night action response failed validation",
			zap.String("player", player.Name),
			zap.String("role", string(step.Role)),
			zap.String("response", string(rawResponse)),
		)
	}

	data["result"] = result
	return &StepEvent{Type: "night_action", Data: data}, nil
}

func decodeNightDecision(state *models.GameState, player models.Player, resp *oracle.StructuredResponse) (*NightDecision, bool) {
	switch player.OriginalRole {
	case models.RoleSeer:
		switch resp.StringField("action") {
		case "look_at_player":
			target := PlayerByName(state, resp.StringField("target_player"))
			if target == nil || target.ID == player.ID {
				return nil, false
			}
			return &NightDecision{Action: "look_at_player", TargetID: target.ID}, true
		case "look_at_center":
			var positions []models.CenterPosition
			for _, raw := range resp.StringSliceField("center_cards") {
				switch pos := models.CenterPosition(raw); pos {
				case models.CenterLeft, models.CenterMiddle, models.CenterRight:
					positions = append(positions, pos)
				}
				if len(positions) == 2 {
					break
				}
			}
			if len(positions) == 0 {
				return nil, false
			}
			return &NightDecision{Action: "look_at_center", Positions: positions}, true
		}
		return nil, false

	case models.RoleRobber:
		target := PlayerByName(state, resp.StringField("target_player"))
		if target == nil || target.ID == player.ID {
			return nil, false
		}
		return &NightDecision{TargetID: target.ID}, true

	case models.RoleTroublemaker:
		first := PlayerByName(state, resp.StringField("player1"))
		second := PlayerByName(state, resp.StringField("player2"))
		if first == nil || second == nil {
			return nil, false
		}
		if first.ID == second.ID || first.ID == player.ID || second.ID == player.ID {
			return nil, false
		}
		return &NightDecision{TargetID: first.ID, SecondTargetID: second.ID}, true
	}
	return nil, false
}

func (o *Orchestrator) runDiscussion(ctx context.Context, state *models.GameState, step models.Step) (*StepEvent, error) {
	player := state.Players[step.PlayerIndex]
	systemPrompt := oracle.BuildSystemPrompt(player, state)
	userPrompt := oracle.BuildDayDiscussionPrompt(player, state, step.Round)

	resp, err := o.oracle.Query(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracle, err)
	}

	if err := AddDayMessage(state, player.ID, resp.Text); err != nil {
		return nil, err
	}

	return &StepEvent{Type: "day_message", Data: map[string]interface{}{
		"player":       player.Name,
		"message":      resp.Text,
		"round":        step.Round,
		"systemPrompt": systemPrompt,
		"userPrompt":   userPrompt,
		"llmResponse":  resp.Text,
		"reasoning":    resp.Rationale,
	}}, nil
}

func (o *Orchestrator) runVote(ctx context.Context, state *models.GameState, step models.Step) (*StepEvent, error) {
	player := state.Players[step.PlayerIndex]
	systemPrompt := oracle.BuildSystemPrompt(player, state)
	action := oracle.BuildVotingPrompt(player, state)

	resp, err := o.oracle.QueryStructured(ctx, systemPrompt, action.Prompt, action.Schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracle, err)
	}

	rawResponse, _ := json.Marshal(resp.Fields)
	voteName := resp.StringField("vote")
	targetName := voteName

	// A vote that does not resolve to another player is dropped; the
	// step still advances so the game keeps moving.
	if target := PlayerByName(state, voteName); target != nil && target.ID != player.ID {
		if err := AddVote(state, player.ID, target.ID); err != nil {
			o.logger.Warn("vote rejected",
				zap.String("voter", player.Name),
				zap.String("target", target.Name),
				zap.Error(err),
			)
		} else {
			targetName = target.Name
		}
	} else {
		o.logger.Warn("vote response failed validation",
			zap.String("voter", player.Name),
			zap.String("response", string(rawResponse)),
		)
	}

	return &StepEvent{Type: "vote", Data: map[string]interface{}{
		"voter":        player.Name,
		"target":       targetName,
		"systemPrompt": systemPrompt,
		"userPrompt":   action.Prompt,
		"llmResponse":  string(rawResponse),
		"reasoning":    resp.Rationale,
	}}, nil
}
