package models

// StepKind enumerates every unit of orchestration work. The set is
// closed; the orchestrator switches over all kinds and treats an
// unknown kind as an internal error.
type StepKind string

const (
	StepSetup         StepKind = "setup"
	StepNightStart    StepKind = "night_start"
	StepNightAction   StepKind = "night_action"
	StepDayStart      StepKind = "day_start"
	StepDayRoundStart StepKind = "day_round_start"
	StepDayDiscussion StepKind = "day_discussion"
	StepVotingStart   StepKind = "voting_start"
	StepVote          StepKind = "vote"
	StepResolution    StepKind = "resolution"
	StepGameEnd       StepKind = "game_end"
)

// Step is one entry in a game's precomputed step list. Role is set for
// night_action steps, PlayerIndex for per-player steps, Round for
// discussion steps.
type Step struct {
	Kind        StepKind `json:"kind"`
	Role        Role     `json:"role,omitempty"`
	PlayerIndex int      `json:"playerIndex,omitempty"`
	Round       int      `json:"round,omitempty"`
}
