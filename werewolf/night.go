package werewolf

import (
	"fmt"

	"onwserver/models"
)

// NightDecision carries the oracle's parsed and validated choice for
// roles that need one. Which fields are set depends on the role.
type NightDecision struct {
	// Seer: "look_at_player" or "look_at_center".
	Action string
	// Seer (player look) and robber target.
	TargetID string
	// Troublemaker second target.
	SecondTargetID string
	// Seer center look: exactly two positions.
	Positions []models.CenterPosition
}

// NightAbility describes how one waking role resolves at night.
// NeedsDecision marks the roles whose action depends on an external
// choice; the others resolve from state alone.
type NightAbility struct {
	NeedsDecision bool
	Resolve       func(state *models.GameState, playerID string, dec *NightDecision) (string, error)
}

var nightAbilities = map[models.Role]NightAbility{
	models.RoleWerewolf: {
		Resolve: func(state *models.GameState, playerID string, _ *NightDecision) (string, error) {
			return ResolveWerewolfNight(state, playerID)
		},
	},
	models.RoleSeer: {
		NeedsDecision: true,
		Resolve: func(state *models.GameState, playerID string, dec *NightDecision) (string, error) {
			if dec.Action == "look_at_player" {
				return ResolveSeerPlayerLook(state, playerID, dec.TargetID)
			}
			return ResolveSeerCenterLook(state, playerID, dec.Positions)
		},
	},
	models.RoleRobber: {
		NeedsDecision: true,
		Resolve: func(state *models.GameState, playerID string, dec *NightDecision) (string, error) {
			return ResolveRobberNight(state, playerID, dec.TargetID)
		},
	},
	models.RoleTroublemaker: {
		NeedsDecision: true,
		Resolve: func(state *models.GameState, playerID string, dec *NightDecision) (string, error) {
			return ResolveTroublemakerNight(state, playerID, dec.TargetID, dec.SecondTargetID)
		},
	},
	models.RoleInsomniac: {
		Resolve: func(state *models.GameState, playerID string, _ *NightDecision) (string, error) {
			return ResolveInsomniacNight(state, playerID)
		},
	},
}

// AbilityFor looks up the night behavior for a role. The second return
// is false for roles that never wake.
func AbilityFor(role models.Role) (NightAbility, bool) {
	a, ok := nightAbilities[role]
	return a, ok
}

func recordNightAction(state *models.GameState, playerID string, role models.Role, action, result string) {
	state.NightActions = append(state.NightActions, models.NightActionRecord{
		PlayerID: playerID,
		Role:     role,
		Action:   action,
		Result:   result,
	})
	if p := PlayerByID(state, playerID); p != nil {
		p.NightKnowledge = append(p.NightKnowledge, result)
	}
}

// ResolveWerewolfNight reveals the other werewolf, or the left center
// card when the actor is the lone wolf.
func ResolveWerewolfNight(state *models.GameState, playerID string) (string, error) {
	if PlayerByID(state, playerID) == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	wolves := werewolvesInDeal(state)

	var result string
	if len(wolves) == 1 {
		result = fmt.Sprintf("You are the only Werewolf. The left center card is %s.", state.CenterCards.Left)
	} else {
		for _, w := range wolves {
			if w.ID != playerID {
				result = fmt.Sprintf("The other Werewolf is %s.", w.Name)
				break
			}
		}
	}

	recordNightAction(state, playerID, models.RoleWerewolf, "Looked for other werewolves", result)
	return result, nil
}

// ResolveSeerPlayerLook reveals one other player's current role.
func ResolveSeerPlayerLook(state *models.GameState, playerID, targetID string) (string, error) {
	target := PlayerByID(state, targetID)
	if target == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlayer, targetID)
	}
	if targetID == playerID {
		return "", ErrSelfTarget
	}

	result := fmt.Sprintf("%s's card is %s.", target.Name, target.CurrentRole)
	recordNightAction(state, playerID, models.RoleSeer,
		fmt.Sprintf("Looked at %s's card", target.Name), result)
	return result, nil
}

// ResolveSeerCenterLook reveals two of the three center cards.
func ResolveSeerCenterLook(state *models.GameState, playerID string, positions []models.CenterPosition) (string, error) {
	if PlayerByID(state, playerID) == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if len(positions) > 2 {
		positions = positions[:2]
	}

	result := "Center cards - "
	for i, pos := range positions {
		if i > 0 {
			result += ", "
		}
		result += fmt.Sprintf("%s: %s", pos, state.CenterCards.At(pos))
	}
	result += "."

	recordNightAction(state, playerID, models.RoleSeer, "Looked at center cards", result)
	return result, nil
}

// ResolveRobberNight swaps the actor's card with the target's. The
// actor learns the stolen role; the target is left holding the literal
// robber card.
func ResolveRobberNight(state *models.GameState, playerID, targetID string) (string, error) {
	actor := PlayerByID(state, playerID)
	if actor == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	target := PlayerByID(state, targetID)
	if target == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlayer, targetID)
	}
	if targetID == playerID {
		return "", ErrSelfTarget
	}

	stolen := target.CurrentRole
	actor.CurrentRole = stolen
	target.CurrentRole = models.RoleRobber

	result := fmt.Sprintf("You swapped cards with %s and are now the %s.", target.Name, stolen)
	recordNightAction(state, playerID, models.RoleRobber,
		fmt.Sprintf("Swapped with %s", target.Name), result)
	return result, nil
}

// ResolveTroublemakerNight blindly swaps two other players' cards.
// Neither swapped role is revealed, not even to the actor.
func ResolveTroublemakerNight(state *models.GameState, playerID, firstID, secondID string) (string, error) {
	if PlayerByID(state, playerID) == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	first := PlayerByID(state, firstID)
	second := PlayerByID(state, secondID)
	if first == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlayer, firstID)
	}
	if second == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlayer, secondID)
	}
	if firstID == playerID || secondID == playerID {
		return "", ErrSelfTarget
	}
	if firstID == secondID {
		return "", ErrSameTarget
	}

	first.CurrentRole, second.CurrentRole = second.CurrentRole, first.CurrentRole

	result := fmt.Sprintf("You swapped %s's and %s's cards.", first.Name, second.Name)
	recordNightAction(state, playerID, models.RoleTroublemaker,
		fmt.Sprintf("Swapped %s and %s", first.Name, second.Name), result)
	return result, nil
}

// ResolveInsomniacNight shows the actor their present card, which may
// have changed since the deal.
func ResolveInsomniacNight(state *models.GameState, playerID string) (string, error) {
	actor := PlayerByID(state, playerID)
	if actor == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}

	var result string
	if actor.CurrentRole == actor.OriginalRole {
		result = fmt.Sprintf("Your card is still %s.", actor.CurrentRole)
	} else {
		result = fmt.Sprintf("Your card is now %s!", actor.CurrentRole)
	}

	recordNightAction(state, playerID, models.RoleInsomniac, "Looked at own card", result)
	return result, nil
}
