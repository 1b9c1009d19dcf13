package models

// Session pairs a game's state with its step cursor. It is the unit
// kept in the session store; the step list is built once at game start
// and never regenerated.
type Session struct {
	State     *GameState `json:"state"`
	Steps     []Step     `json:"steps"`
	StepIndex int        `json:"stepIndex"`
	Completed bool       `json:"completed"`
}

// Clone deep-copies the session. Steps are immutable after creation so
// the slice header copy is enough for them.
func (s *Session) Clone() *Session {
	cp := *s
	cp.State = s.State.Clone()
	cp.Steps = append([]Step(nil), s.Steps...)
	return &cp
}
