package models

// Role is one of the eight cards in the deck.
type Role string

const (
	RoleWerewolf     Role = "werewolf"
	RoleSeer         Role = "seer"
	RoleRobber       Role = "robber"
	RoleTroublemaker Role = "troublemaker"
	RoleTanner       Role = "tanner"
	RoleVillager     Role = "villager"
	RoleInsomniac    Role = "insomniac"
)

// Team is the faction a role wins with.
type Team string

const (
	TeamWerewolf Team = "werewolf"
	TeamVillage  Team = "village"
	TeamTanner   Team = "tanner"
)

// RoleDefinition is the static metadata for a role. WakeOrder 0 means
// the role never wakes at night; lower values wake earlier.
type RoleDefinition struct {
	Name        Role
	Team        Team
	WakeOrder   int
	Description string
}

// RoleDefinitions is the full role catalog for the 8-card game.
var RoleDefinitions = map[Role]RoleDefinition{
	RoleWerewolf: {
		Name:      RoleWerewolf,
		Team:      TeamWerewolf,
		WakeOrder: 1,
		Description: "You are a Werewolf. At night, all Werewolves open their eyes and look for other werewolves. " +
			"If no one else opens their eyes, the other Werewolves are in the center. Werewolves are on the werewolf team. " +
			"Lone Wolf Option: If there is only one Werewolf, the Werewolf may view one center card. " +
			"This is extremely beneficial to a Werewolf who doesn't have a partner, and provides him with a useful tool for deceiving the rest of the players.",
	},
	RoleSeer: {
		Name:      RoleSeer,
		Team:      TeamVillage,
		WakeOrder: 2,
		Description: "You are the Seer. At night, the Seer may look either at one other player's card or at two of the center cards, " +
			"but does not move them. The Seer is on the village team.",
	},
	RoleRobber: {
		Name:      RoleRobber,
		Team:      TeamVillage,
		WakeOrder: 3,
		Description: "You are the Robber. At night, the Robber may choose to rob a card from another player and place his Robber card " +
			"where the other card was. Then the Robber looks at his new card. The player who receives the Robber card is on the village team. " +
			"The Robber is on the team of the card he takes, however, he does not do the action of his new role at night.",
	},
	RoleTroublemaker: {
		Name:      RoleTroublemaker,
		Team:      TeamVillage,
		WakeOrder: 4,
		Description: "You are the Troublemaker. At night, the Troublemaker may switch the cards of two other players without looking at those cards. " +
			"The players who receive a different card are now the role (and team) of their new card, even though they don't know what role that is " +
			"until the end of the game. The Troublemaker is on the village team.",
	},
	RoleInsomniac: {
		Name:      RoleInsomniac,
		Team:      TeamVillage,
		WakeOrder: 5,
		Description: "You are the Insomniac. The Insomniac wakes up and looks at her card (to see if it has changed). " +
			"The Insomniac is on the village team.",
	},
	RoleVillager: {
		Name: RoleVillager,
		Team: TeamVillage,
		Description: "You are a Villager. The Villager has no special abilities, but he is definitely not a werewolf. " +
			"Players may often claim to be a Villager. The Villager is on the village team.",
	},
	RoleTanner: {
		Name: RoleTanner,
		Team: TeamTanner,
		Description: "You are the Tanner. The Tanner hates his job so much that he wants to die. The Tanner only wins if he dies. " +
			"If the Tanner dies and no Werewolves die, the Werewolves do not win. If the Tanner dies and a Werewolf also dies, the village team wins too. " +
			"The Tanner is considered a member of the village (but is not on their team), so if the Tanner dies when all werewolves are in the center, " +
			"the village team loses. The Tanner is not on the werewolf or the villager team.",
	},
}

// GameRoles is the fixed deck: 8 cards, dealt 5 to players and 3 to the center.
var GameRoles = []Role{
	RoleWerewolf,
	RoleWerewolf,
	RoleSeer,
	RoleRobber,
	RoleTroublemaker,
	RoleTanner,
	RoleVillager,
	RoleInsomniac,
}

// DescribeRole returns the catalog entry for a role.
func DescribeRole(role Role) RoleDefinition {
	return RoleDefinitions[role]
}

// WakeOrder returns the roles that wake at night, earliest first.
func WakeOrder() []Role {
	order := make([]Role, 0, len(RoleDefinitions))
	for _, def := range RoleDefinitions {
		if def.WakeOrder > 0 {
			order = append(order, def.Name)
		}
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && RoleDefinitions[order[j]].WakeOrder < RoleDefinitions[order[j-1]].WakeOrder; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}
