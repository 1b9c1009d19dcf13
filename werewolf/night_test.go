package werewolf

import (
	"errors"
	"strings"
	"testing"

	"onwserver/models"
)

func TestWerewolfNightSeesPartner(t *testing.T) {
	state := testState([]models.Role{
		models.RoleWerewolf,
		models.RoleWerewolf,
		models.RoleSeer,
		models.RoleVillager,
		models.RoleTanner,
	}, models.CenterCards{}, 3)

	result, err := ResolveWerewolfNight(state, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result, "Bob") {
		t.Errorf("expected partner Bob in result, got %q", result)
	}
	if len(state.NightActions) != 1 {
		t.Fatalf("expected 1 night action record, got %d", len(state.NightActions))
	}
	if k := state.Players[0].NightKnowledge; len(k) != 1 || k[0] != result {
		t.Errorf("expected knowledge %q, got %v", result, k)
	}
}

func TestWerewolfNightLoneWolfSeesLeftCenter(t *testing.T) {
	state := testState(basicDeal(), models.CenterCards{
		Left:   models.RoleTroublemaker,
		Middle: models.RoleWerewolf,
		Right:  models.RoleInsomniac,
	}, 3)

	result, err := ResolveWerewolfNight(state, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result, "only Werewolf") || !strings.Contains(result, "troublemaker") {
		t.Errorf("expected lone wolf left-card reveal, got %q", result)
	}
}

func TestSeerPlayerLook(t *testing.T) {
	state := testState(basicDeal(), models.CenterCards{}, 3)

	result, err := ResolveSeerPlayerLook(state, "p2", "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Alice's card is werewolf." {
		t.Errorf("unexpected result: %q", result)
	}

	if _, err := ResolveSeerPlayerLook(state, "p2", "p2"); !errors.Is(err, ErrSelfTarget) {
		t.Errorf("expected ErrSelfTarget, got %v", err)
	}
}

func TestSeerCenterLook(t *testing.T) {
	state := testState(basicDeal(), models.CenterCards{
		Left:   models.RoleTroublemaker,
		Middle: models.RoleWerewolf,
		Right:  models.RoleInsomniac,
	}, 3)

	result, err := ResolveSeerCenterLook(state, "p2", []models.CenterPosition{models.CenterLeft, models.CenterRight})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Center cards - left: troublemaker, right: insomniac." {
		t.Errorf("unexpected result: %q", result)
	}
}

func TestRobberSwap(t *testing.T) {
	state := testState(basicDeal(), models.CenterCards{}, 3)

	// Charlie (robber) robs Bob (seer).
	result, err := ResolveRobberNight(state, "p3", "p2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := state.Players[2].CurrentRole; got != models.RoleSeer {
		t.Errorf("robber should now hold seer, got %s", got)
	}
	if got := state.Players[1].CurrentRole; got != models.RoleRobber {
		t.Errorf("target should hold the robber card, got %s", got)
	}
	if !strings.Contains(result, "seer") {
		t.Errorf("robber should learn the stolen role, got %q", result)
	}

	// Everyone else is untouched, and originals never change.
	for i, p := range state.Players {
		if i != 1 && i != 2 && p.CurrentRole != p.OriginalRole {
			t.Errorf("player %s changed without being targeted", p.Name)
		}
		if p.OriginalRole != basicDeal()[i] {
			t.Errorf("player %s originalRole mutated", p.Name)
		}
	}
}

func TestRobberRejectsSelf(t *testing.T) {
	state := testState(basicDeal(), models.CenterCards{}, 3)
	if _, err := ResolveRobberNight(state, "p3", "p3"); !errors.Is(err, ErrSelfTarget) {
		t.Errorf("expected ErrSelfTarget, got %v", err)
	}
	if state.Players[2].CurrentRole != models.RoleRobber {
		t.Errorf("rejected swap must not mutate roles")
	}
}

func TestTroublemakerSwap(t *testing.T) {
	state := testState([]models.Role{
		models.RoleTroublemaker,
		models.RoleVillager,
		models.RoleTanner,
		models.RoleWerewolf,
		models.RoleSeer,
	}, models.CenterCards{}, 3)

	// Alice swaps Bob (villager) and Charlie (tanner), blind.
	result, err := ResolveTroublemakerNight(state, "p1", "p2", "p3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Players[1].CurrentRole != models.RoleTanner {
		t.Errorf("Bob should hold tanner, got %s", state.Players[1].CurrentRole)
	}
	if state.Players[2].CurrentRole != models.RoleVillager {
		t.Errorf("Charlie should hold villager, got %s", state.Players[2].CurrentRole)
	}
	if state.Players[0].CurrentRole != models.RoleTroublemaker {
		t.Errorf("actor's own role must not change")
	}
	if strings.Contains(result, "villager") || strings.Contains(result, "tanner") {
		t.Errorf("troublemaker must not learn the swapped roles: %q", result)
	}
}

func TestTroublemakerRejectsBadTargets(t *testing.T) {
	state := testState(basicDeal(), models.CenterCards{}, 3)

	if _, err := ResolveTroublemakerNight(state, "p5", "p5", "p2"); !errors.Is(err, ErrSelfTarget) {
		t.Errorf("expected ErrSelfTarget, got %v", err)
	}
	if _, err := ResolveTroublemakerNight(state, "p5", "p2", "p2"); !errors.Is(err, ErrSameTarget) {
		t.Errorf("expected ErrSameTarget, got %v", err)
	}
	if _, err := ResolveTroublemakerNight(state, "p5", "p2", "ghost"); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("expected ErrUnknownPlayer, got %v", err)
	}
}

func TestInsomniacSeesCurrentCard(t *testing.T) {
	state := testState([]models.Role{
		models.RoleInsomniac,
		models.RoleVillager,
		models.RoleSeer,
		models.RoleWerewolf,
		models.RoleTanner,
	}, models.CenterCards{}, 3)

	result, err := ResolveInsomniacNight(state, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Your card is still insomniac." {
		t.Errorf("unexpected result: %q", result)
	}

	// After a swap the insomniac notices the change.
	state.Players[0].CurrentRole = models.RoleWerewolf
	result, err = ResolveInsomniacNight(state, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Your card is now werewolf!" {
		t.Errorf("unexpected result: %q", result)
	}
}

func TestAbilityTable(t *testing.T) {
	needsDecision := map[models.Role]bool{
		models.RoleWerewolf:     false,
		models.RoleSeer:         true,
		models.RoleRobber:       true,
		models.RoleTroublemaker: true,
		models.RoleInsomniac:    false,
	}
	for role, want := range needsDecision {
		ability, ok := AbilityFor(role)
		if !ok {
			t.Fatalf("expected ability for %s", role)
		}
		if ability.NeedsDecision != want {
			t.Errorf("%s: NeedsDecision = %v, want %v", role, ability.NeedsDecision, want)
		}
	}
	for _, role := range []models.Role{models.RoleVillager, models.RoleTanner} {
		if _, ok := AbilityFor(role); ok {
			t.Errorf("%s should have no night ability", role)
		}
	}
}
