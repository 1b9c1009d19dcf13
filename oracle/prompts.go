package oracle

import (
	"fmt"
	"strings"

	"onwserver/models"
)

const allRolesExplanation = `
ROLES IN THIS GAME (8 cards total: 5 dealt to players, 3 in center):

WEREWOLF TEAM:
• Werewolf (x2): Werewolves wake at night and see each other. If you're the only werewolf among players, you may look at one center card. Your goal is to avoid being eliminated.

VILLAGE TEAM:
• Seer: At night, look at one player's card OR two center cards. Use this information to find werewolves.
• Robber: At night, swap your card with another player's card, then look at your new card. You become whatever role you stole and are now on THAT team.
• Troublemaker: At night, swap two OTHER players' cards without looking. Those players are now swapped roles (but don't know it).
• Villager: No night action. Listen carefully during the day to find werewolves.
• Insomniac: Wakes at the END of night to look at your own card, seeing if it changed.

SOLO:
• Tanner: You WANT to die. You only win if YOU are eliminated. You're not on any team.

CENTER CARDS:
Three cards are placed in the center and not dealt to any player. This means:
- Some roles might not be in play (both Werewolves could be in the center!)
- The Seer can look at center cards to see what's NOT in players' hands
- If no Werewolves are among players, the village must vote to eliminate NO ONE to win
`

// ActionPrompt pairs a prompt with the schema the answer must match.
type ActionPrompt struct {
	Prompt string
	Schema *Schema
}

func otherPlayerNames(state *models.GameState, playerID string) []string {
	var names []string
	for _, p := range state.Players {
		if p.ID != playerID {
			names = append(names, p.Name)
		}
	}
	return names
}

// BuildSystemPrompt builds the standing instructions for one seat:
// identity, starting role, rules and win conditions.
func BuildSystemPrompt(player models.Player, state *models.GameState) string {
	role := models.DescribeRole(player.OriginalRole)
	others := strings.Join(otherPlayerNames(state, player.ID), ", ")

	return fmt.Sprintf(`You are playing One Night Ultimate Werewolf as %s.

YOUR STARTING ROLE: %s
%s

OTHER PLAYERS: %s
%s
GAME FLOW:
1. NIGHT: Roles wake in order (Werewolves → Seer → Robber → Troublemaker → Insomniac) and perform actions
2. DAY: Everyone discusses, tries to figure out who the werewolves are (or were swapped into being werewolves)
3. VOTE: Everyone simultaneously votes to eliminate one player
4. RESOLUTION: The eliminated player reveals their FINAL card (which may differ from starting role)

WIN CONDITIONS:
- Village team wins if at least one Werewolf (by current card) is eliminated
- Werewolf team wins if no Werewolf is eliminated
- If NO werewolves are among the 5 players (both in center), village must eliminate NO ONE to win
- Tanner wins ONLY if the Tanner (by current card) is eliminated - this is a solo victory

IMPORTANT:
- Stay in character as %s
- Be conversational and natural
- You may do anything: lie, bluff, or tell the truth strategically
- Pay attention to contradictions in what others claim
- Keep responses concise (2-3 sentences for discussion)`,
		player.Name, strings.ToUpper(string(role.Name)), role.Description, others, allRolesExplanation, player.Name)
}

// BuildNightActionPrompt builds the choice prompt for roles whose
// night action depends on a decision. The second return is false for
// roles that act on their own.
func BuildNightActionPrompt(player models.Player, state *models.GameState) (*ActionPrompt, bool) {
	names := otherPlayerNames(state, player.ID)

	switch player.OriginalRole {
	case models.RoleSeer:
		return &ActionPrompt{
			Prompt: fmt.Sprintf(`It is night. As the Seer, you may either:
1. Look at ONE other player's card
2. Look at TWO center cards

Other players: %s
Center positions: left, middle, right

What do you choose?`, strings.Join(names, ", ")),
			Schema: &Schema{
				Type: "object",
				Properties: map[string]Property{
					"action": {
						Type: "string",
						Enum: []string{"look_at_player", "look_at_center"},
					},
					"target_player": {
						Type:        "string",
						Nullable:    true,
						Description: "Player name if looking at a player, null otherwise",
						Enum:        names,
					},
					"center_cards": {
						Type:        "array",
						Nullable:    true,
						Items:       &Property{Type: "string", Enum: []string{"left", "middle", "right"}},
						Description: "Two center positions if looking at center, null otherwise",
					},
				},
				Required: []string{"action", "target_player", "center_cards"},
			},
		}, true

	case models.RoleRobber:
		return &ActionPrompt{
			Prompt: fmt.Sprintf(`It is night. As the Robber, you MUST exchange your card with another player's card and see your new role.

Other players: %s

Who do you want to rob?`, strings.Join(names, ", ")),
			Schema: &Schema{
				Type: "object",
				Properties: map[string]Property{
					"target_player": {Type: "string", Enum: names},
				},
				Required: []string{"target_player"},
			},
		}, true

	case models.RoleTroublemaker:
		return &ActionPrompt{
			Prompt: fmt.Sprintf(`It is night. As the Troublemaker, you may exchange the cards of two OTHER players (not yourself). You won't see what the cards are.

Other players: %s

Which two players do you want to swap? (Pick two different players)`, strings.Join(names, ", ")),
			Schema: &Schema{
				Type: "object",
				Properties: map[string]Property{
					"player1": {Type: "string", Enum: names},
					"player2": {Type: "string", Enum: names},
				},
				Required: []string{"player1", "player2"},
			},
		}, true

	default:
		// Werewolf, insomniac, villager and tanner make no choices.
		return nil, false
	}
}

func transcript(state *models.GameState) string {
	var lines []string
	for _, m := range state.DayMessages {
		lines = append(lines, fmt.Sprintf("%s: %q", m.PlayerName, m.Message))
	}
	return strings.Join(lines, "\n")
}

func knowledgeSection(player models.Player) string {
	if len(player.NightKnowledge) > 0 {
		return "\nWHAT YOU LEARNED AT NIGHT:\n" + strings.Join(player.NightKnowledge, "\n")
	}
	return "\nYou did not learn anything specific during the night."
}

// BuildDayDiscussionPrompt builds one discussion turn: what the seat
// privately knows, how certain it can be about its own card, and the
// conversation so far.
func BuildDayDiscussionPrompt(player models.Player, state *models.GameState, round int) string {
	var roleStatus string
	switch player.OriginalRole {
	case models.RoleInsomniac:
		roleStatus = "\nYOUR ROLE STATUS: You are the Insomniac. You checked your card at the end of the night (see what you learned above)."
	case models.RoleRobber:
		roleStatus = "\nYOUR ROLE STATUS: You started as the Robber and swapped cards (see what you learned above). " +
			"However, the Troublemaker acts AFTER you - if they swapped your card with someone else's, you wouldn't know. " +
			"Your card might not be what you think it is."
	default:
		roleStatus = fmt.Sprintf("\nYOUR ROLE STATUS: You started as the %s. "+
			"You do NOT know if your card was swapped by the Robber or Troublemaker during the night. "+
			"Your actual card right now might be different from what you started with!", player.OriginalRole)
	}

	discussion := "No one has spoken yet. You are speaking first."
	if t := transcript(state); t != "" {
		discussion = "DISCUSSION SO FAR:\n" + t + "\n"
	}

	return fmt.Sprintf(`Day phase - Round %d of %d. Time to discuss and find the werewolves!
%s
%s

REMEMBER: Win/lose is based on the card in front of you NOW, not your starting role. If you were swapped to Werewolf, you're on the Werewolf team even if you don't know it.

%s

What do you say? Be strategic. You can do anything, including but not limited to:
- Claim a role (truthfully or as a bluff)
- Share information you learned (real or fake)
- Accuse someone of being a werewolf
- Defend yourself
- Ask questions to find contradictions

Respond with just your statement (1-3 sentences).`,
		round, state.MaxRounds, knowledgeSection(player), roleStatus, discussion)
}

// BuildVotingPrompt builds the elimination vote prompt. The schema
// restricts the vote to the other players' names.
func BuildVotingPrompt(player models.Player, state *models.GameState) *ActionPrompt {
	names := otherPlayerNames(state, player.ID)

	var roleReminder string
	switch player.OriginalRole {
	case models.RoleInsomniac:
		roleReminder = "You are the Insomniac and checked your card at the end of the night - you know your current role."
	case models.RoleRobber:
		roleReminder = "You started as Robber and know what you robbed, BUT the Troublemaker acts after you. " +
			"Your card may have been swapped again without your knowledge."
	case models.RoleTanner:
		roleReminder = "You started as Tanner. If you're still Tanner, you WIN by being eliminated. " +
			"But if someone swapped your card, you might be something else now and shouldn't want to die!"
	case models.RoleWerewolf:
		roleReminder = "You started as Werewolf. Your card may have been swapped - if the Robber took your Werewolf card, " +
			"THEY are now the Werewolf and you want them eliminated! Vote strategically based on what you heard."
	default:
		roleReminder = fmt.Sprintf("You started as %s. Your card may have been swapped by Robber or Troublemaker. "+
			"You might be a Werewolf now without knowing it!", player.OriginalRole)
	}

	knowledge := ""
	if len(player.NightKnowledge) > 0 {
		knowledge = "\nWHAT YOU KNOW FROM NIGHT:\n" + strings.Join(player.NightKnowledge, "\n")
	}

	discussion := transcript(state)
	if discussion == "" {
		discussion = "(No discussion occurred)"
	}

	return &ActionPrompt{
		Prompt: fmt.Sprintf(`Time to vote! You must vote for one player to eliminate.
%s

ROLE UNCERTAINTY: %s

WINNING REMINDER:
- If you are currently a Werewolf (by card), you want NO werewolf eliminated
- If you are currently a Villager/Seer/etc (by card), you want a Werewolf eliminated
- If you are currently Tanner (by card), you want to be eliminated yourself
- If no Werewolves are among players (both in center), village should eliminate no one - but you can't vote for "no one", so vote for who you think is most suspicious

DISCUSSION RECAP:
%s

Players you can vote for: %s

Based on the discussion and what you know, who do you vote to eliminate?`,
			knowledge, roleReminder, discussion, strings.Join(names, ", ")),
		Schema: &Schema{
			Type: "object",
			Properties: map[string]Property{
				"vote": {
					Type:        "string",
					Description: "Name of the player you vote for",
					Enum:        names,
				},
			},
			Required: []string{"vote"},
		},
	}
}
