package werewolf

import (
	"fmt"
	"math/rand"
	"strings"

	"onwserver/models"

	"github.com/google/uuid"
)

// PlayerNames are the five fixed seats, dealt in this order.
var PlayerNames = []string{"Alice", "Bob", "Charlie", "Diana", "Eve"}

// CreateGame shuffles the fixed deck and deals 5 cards to players and 3
// to the center. The random source is injected so deals are
// reproducible in tests.
func CreateGame(maxRounds int, rng *rand.Rand) (*models.GameState, error) {
	if err := validateRolePool(models.GameRoles); err != nil {
		return nil, err
	}

	shuffled := append([]models.Role(nil), models.GameRoles...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	players := make([]models.Player, len(PlayerNames))
	for i, name := range PlayerNames {
		players[i] = models.Player{
			ID:             uuid.New().String(),
			Name:           name,
			OriginalRole:   shuffled[i],
			CurrentRole:    shuffled[i],
			NightKnowledge: []string{},
		}
	}

	return &models.GameState{
		ID:      uuid.New().String(),
		Phase:   models.PhaseSetup,
		Players: players,
		CenterCards: models.CenterCards{
			Left:   shuffled[5],
			Middle: shuffled[6],
			Right:  shuffled[7],
		},
		NightActions: []models.NightActionRecord{},
		DayMessages:  []models.DayMessage{},
		Votes:        []models.Vote{},
		Winners:      []models.Team{},
		MaxRounds:    maxRounds,
	}, nil
}

// validateRolePool checks that the deck is exactly the fixed multiset:
// 2 werewolves, 1 tanner and 5 village-aligned cards.
func validateRolePool(pool []models.Role) error {
	if len(pool) != 8 {
		return fmt.Errorf("%w: %d cards", ErrBadRolePool, len(pool))
	}
	counts := map[models.Role]int{}
	for _, r := range pool {
		counts[r]++
	}
	want := map[models.Role]int{
		models.RoleWerewolf:     2,
		models.RoleSeer:         1,
		models.RoleRobber:       1,
		models.RoleTroublemaker: 1,
		models.RoleTanner:       1,
		models.RoleVillager:     1,
		models.RoleInsomniac:    1,
	}
	for role, n := range want {
		if counts[role] != n {
			return fmt.Errorf("%w: expected %d %s, got %d", ErrBadRolePool, n, role, counts[role])
		}
	}
	return nil
}

// PlayerByID returns a pointer into the state's player slice, or nil.
func PlayerByID(state *models.GameState, id string) *models.Player {
	for i := range state.Players {
		if state.Players[i].ID == id {
			return &state.Players[i]
		}
	}
	return nil
}

// PlayerByName matches case-insensitively, the way oracle responses
// name players.
func PlayerByName(state *models.GameState, name string) *models.Player {
	for i := range state.Players {
		if strings.EqualFold(state.Players[i].Name, name) {
			return &state.Players[i]
		}
	}
	return nil
}

// OtherPlayers returns every player except the given one.
func OtherPlayers(state *models.GameState, playerID string) []models.Player {
	others := make([]models.Player, 0, len(state.Players)-1)
	for _, p := range state.Players {
		if p.ID != playerID {
			others = append(others, p)
		}
	}
	return others
}

func werewolvesInDeal(state *models.GameState) []models.Player {
	var wolves []models.Player
	for _, p := range state.Players {
		if p.OriginalRole == models.RoleWerewolf {
			wolves = append(wolves, p)
		}
	}
	return wolves
}

// AddDayMessage appends one discussion statement tagged with the
// current round.
func AddDayMessage(state *models.GameState, playerID, message string) error {
	player := PlayerByID(state, playerID)
	if player == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	state.DayMessages = append(state.DayMessages, models.DayMessage{
		PlayerID:   playerID,
		PlayerName: player.Name,
		Message:    message,
		Round:      state.CurrentRound,
	})
	return nil
}

// AddVote appends one vote. Self-votes, duplicate votes from the same
// voter and votes outside the voting phase are rejected.
func AddVote(state *models.GameState, voterID, targetID string) error {
	if state.Phase != models.PhaseVoting {
		return fmt.Errorf("%w: phase %s", ErrWrongPhase, state.Phase)
	}
	if PlayerByID(state, voterID) == nil {
		return fmt.Errorf("%w: voter %s", ErrUnknownPlayer, voterID)
	}
	if PlayerByID(state, targetID) == nil {
		return fmt.Errorf("%w: target %s", ErrUnknownPlayer, targetID)
	}
	if voterID == targetID {
		return ErrSelfVote
	}
	for _, v := range state.Votes {
		if v.VoterID == voterID {
			return ErrDuplicateVote
		}
	}
	state.Votes = append(state.Votes, models.Vote{VoterID: voterID, TargetID: targetID})
	return nil
}

// ResolveVotes tallies votes in submission order and eliminates the
// first target to reach the maximum count. If every player received
// exactly one vote (a fully dispersed tally) no one is eliminated.
// Ends the game phase either way.
func ResolveVotes(state *models.GameState) {
	counts := map[string]int{}
	var order []string
	for _, v := range state.Votes {
		if counts[v.TargetID] == 0 {
			order = append(order, v.TargetID)
		}
		counts[v.TargetID]++
	}

	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}

	var top []string
	for _, id := range order {
		if counts[id] == max {
			top = append(top, id)
		}
	}

	// Full dispersion: everyone has exactly one vote, nobody dies.
	// Any other tie falls to the first target seen in vote order.
	if len(top) > 0 && len(top) != len(state.Players) {
		state.EliminatedPlayerID = top[0]
	}
	state.Phase = models.PhaseEnd
}

// DetermineWinners fills in state.Winners from the elimination outcome.
// The tanner rule is checked first and overrides everything else.
func DetermineWinners(state *models.GameState) {
	var eliminated *models.Player
	if state.EliminatedPlayerID != "" {
		eliminated = PlayerByID(state, state.EliminatedPlayerID)
	}

	if eliminated != nil && eliminated.CurrentRole == models.RoleTanner {
		state.Winners = []models.Team{models.TeamTanner}
		return
	}

	wolves := 0
	for _, p := range state.Players {
		if p.CurrentRole == models.RoleWerewolf {
			wolves++
		}
	}

	if wolves == 0 {
		// Both werewolf cards ended up in the center: the village wins
		// only by eliminating no one.
		if eliminated == nil {
			state.Winners = []models.Team{models.TeamVillage}
		} else {
			state.Winners = []models.Team{models.TeamWerewolf}
		}
		return
	}

	if eliminated != nil && eliminated.CurrentRole == models.RoleWerewolf {
		state.Winners = []models.Team{models.TeamVillage}
	} else {
		state.Winners = []models.Team{models.TeamWerewolf}
	}
}
