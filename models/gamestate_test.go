package models

import "testing"

func TestGameStateCloneIsolation(t *testing.T) {
	original := &GameState{
		ID:    "g1",
		Phase: PhaseNight,
		Players: []Player{
			{ID: "p1", Name: "Alice", OriginalRole: RoleSeer, CurrentRole: RoleSeer, NightKnowledge: []string{"saw nothing"}},
			{ID: "p2", Name: "Bob", OriginalRole: RoleRobber, CurrentRole: RoleRobber},
		},
		Votes:   []Vote{{VoterID: "p1", TargetID: "p2"}},
		Winners: []Team{TeamVillage},
	}

	clone := original.Clone()
	clone.Phase = PhaseEnd
	clone.Players[0].CurrentRole = RoleWerewolf
	clone.Players[0].NightKnowledge = append(clone.Players[0].NightKnowledge, "new fact")
	clone.Votes[0].TargetID = "p1"
	clone.Winners[0] = TeamWerewolf

	if original.Phase != PhaseNight {
		t.Errorf("phase leaked through the clone: %s", original.Phase)
	}
	if original.Players[0].CurrentRole != RoleSeer {
		t.Errorf("player role leaked through the clone: %s", original.Players[0].CurrentRole)
	}
	if len(original.Players[0].NightKnowledge) != 1 {
		t.Errorf("night knowledge leaked through the clone: %v", original.Players[0].NightKnowledge)
	}
	if original.Votes[0].TargetID != "p2" {
		t.Errorf("votes leaked through the clone: %v", original.Votes)
	}
	if original.Winners[0] != TeamVillage {
		t.Errorf("winners leaked through the clone: %v", original.Winners)
	}
}

func TestCenterCardsAt(t *testing.T) {
	center := CenterCards{Left: RoleSeer, Middle: RoleVillager, Right: RoleTanner}
	tests := []struct {
		pos  CenterPosition
		want Role
	}{
		{CenterLeft, RoleSeer},
		{CenterMiddle, RoleVillager},
		{CenterRight, RoleTanner},
	}
	for _, tc := range tests {
		if got := center.At(tc.pos); got != tc.want {
			t.Errorf("position %s: expected %s, got %s", tc.pos, tc.want, got)
		}
	}
}
