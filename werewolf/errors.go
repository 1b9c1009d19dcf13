package werewolf

import "errors"

var (
	// ErrSessionNotFound means the game id is unknown to the store.
	ErrSessionNotFound = errors.New("session not found")
	// ErrGameCompleted means every step of the session has already run.
	ErrGameCompleted = errors.New("game already completed")
	// ErrBadRolePool means the configured deck is not the fixed 8-role multiset.
	ErrBadRolePool = errors.New("malformed role pool")
	// ErrUnknownPlayer means a player id did not resolve in this game.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrSelfTarget means a night action targeted its own actor.
	ErrSelfTarget = errors.New("cannot target self")
	// ErrSameTarget means the troublemaker picked the same player twice.
	ErrSameTarget = errors.New("targets must be distinct")
	// ErrSelfVote means a player voted for themselves.
	ErrSelfVote = errors.New("cannot vote for self")
	// ErrDuplicateVote means a player tried to vote twice.
	ErrDuplicateVote = errors.New("voter already voted")
	// ErrWrongPhase means a mutation was attempted outside its phase.
	ErrWrongPhase = errors.New("not allowed in current phase")
	// ErrOracle wraps any reasoning-oracle failure. Steps failing with
	// ErrOracle do not advance the cursor and may be retried.
	ErrOracle = errors.New("oracle request failed")
)
