package werewolf

import (
	"fmt"

	"onwserver/models"
)

// BuildSteps enumerates every step of a full game up front. The list
// depends only on the deal (which roles wake) and the configured round
// count, and is never regenerated once the game starts.
func BuildSteps(state *models.GameState) []models.Step {
	steps := []models.Step{
		{Kind: models.StepSetup},
		{Kind: models.StepNightStart},
	}

	for _, role := range models.WakeOrder() {
		for i := range state.Players {
			if state.Players[i].OriginalRole == role {
				steps = append(steps, models.Step{
					Kind:        models.StepNightAction,
					Role:        role,
					PlayerIndex: i,
				})
			}
		}
	}

	steps = append(steps, models.Step{Kind: models.StepDayStart})
	for round := 1; round <= state.MaxRounds; round++ {
		steps = append(steps, models.Step{Kind: models.StepDayRoundStart, Round: round})
		for i := range state.Players {
			steps = append(steps, models.Step{
				Kind:        models.StepDayDiscussion,
				Round:       round,
				PlayerIndex: i,
			})
		}
	}

	steps = append(steps, models.Step{Kind: models.StepVotingStart})
	for i := range state.Players {
		steps = append(steps, models.Step{Kind: models.StepVote, PlayerIndex: i})
	}

	steps = append(steps,
		models.Step{Kind: models.StepResolution},
		models.Step{Kind: models.StepGameEnd},
	)
	return steps
}

// StepDescription renders the human-readable summary of a step. It is
// a pure function of the step and the state, so repeated lookups for
// the same step return identical text.
func StepDescription(step models.Step, state *models.GameState) string {
	switch step.Kind {
	case models.StepSetup:
		return "Show game setup"
	case models.StepNightStart:
		return "Begin night phase"
	case models.StepNightAction:
		p := state.Players[step.PlayerIndex]
		return fmt.Sprintf("%s (%s) performs night action", p.Name, step.Role)
	case models.StepDayStart:
		return "Begin day phase"
	case models.StepDayRoundStart:
		return fmt.Sprintf("Start discussion round %d", step.Round)
	case models.StepDayDiscussion:
		return fmt.Sprintf("%s speaks", state.Players[step.PlayerIndex].Name)
	case models.StepVotingStart:
		return "Begin voting phase"
	case models.StepVote:
		return fmt.Sprintf("%s votes", state.Players[step.PlayerIndex].Name)
	case models.StepResolution:
		return "Resolve votes and determine outcome"
	case models.StepGameEnd:
		return "Show final results"
	default:
		return string(step.Kind)
	}
}
