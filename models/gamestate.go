package models

// GamePhase tracks where in the night/day cycle a game is.
type GamePhase string

const (
	PhaseSetup  GamePhase = "setup"
	PhaseNight  GamePhase = "night"
	PhaseDay    GamePhase = "day"
	PhaseVoting GamePhase = "voting"
	PhaseEnd    GamePhase = "end"
)

// CenterPosition addresses one of the three undealt cards.
type CenterPosition string

const (
	CenterLeft   CenterPosition = "left"
	CenterMiddle CenterPosition = "middle"
	CenterRight  CenterPosition = "right"
)

// Player is one seat at the table. OriginalRole is fixed at the deal;
// CurrentRole changes only through a Robber or Troublemaker swap.
type Player struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	OriginalRole   Role     `json:"originalRole"`
	CurrentRole    Role     `json:"currentRole"`
	NightKnowledge []string `json:"nightKnowledge"`
}

// CenterCards holds the three roles not dealt to any player.
type CenterCards struct {
	Left   Role `json:"left"`
	Middle Role `json:"middle"`
	Right  Role `json:"right"`
}

// At returns the card at a position.
func (c CenterCards) At(pos CenterPosition) Role {
	switch pos {
	case CenterLeft:
		return c.Left
	case CenterMiddle:
		return c.Middle
	default:
		return c.Right
	}
}

// NightActionRecord is an audit log entry for one resolved night action.
// It is narration-only and never read back for game logic.
type NightActionRecord struct {
	PlayerID string `json:"playerId"`
	Role     Role   `json:"role"`
	Action   string `json:"action"`
	Result   string `json:"result"`
}

// DayMessage is one statement made during a discussion round.
type DayMessage struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
	Round      int    `json:"round"`
}

// Vote records one player's elimination vote.
type Vote struct {
	VoterID  string `json:"voterId"`
	TargetID string `json:"targetId"`
}

// GameState is the full mutable state of one game.
type GameState struct {
	ID                 string              `json:"id"`
	Phase              GamePhase           `json:"phase"`
	Players            []Player            `json:"players"`
	CenterCards        CenterCards         `json:"centerCards"`
	NightActions       []NightActionRecord `json:"nightActions"`
	DayMessages        []DayMessage        `json:"dayMessages"`
	Votes              []Vote              `json:"votes"`
	EliminatedPlayerID string              `json:"eliminatedPlayerId"`
	Winners            []Team              `json:"winners"`
	CurrentRound       int                 `json:"currentRound"`
	MaxRounds          int                 `json:"maxRounds"`
}

// Clone returns a deep copy so a step can work on state without
// touching the stored version until it commits.
func (s *GameState) Clone() *GameState {
	cp := *s
	cp.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		cp.Players[i] = p
		cp.Players[i].NightKnowledge = append([]string(nil), p.NightKnowledge...)
	}
	cp.NightActions = append([]NightActionRecord(nil), s.NightActions...)
	cp.DayMessages = append([]DayMessage(nil), s.DayMessages...)
	cp.Votes = append([]Vote(nil), s.Votes...)
	cp.Winners = append([]Team(nil), s.Winners...)
	return &cp
}
