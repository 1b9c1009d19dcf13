package store

import "errors"

// ErrNoSession is returned by mutating calls against an id the store
// does not hold. The orchestrator maps unknown ids to its own
// not-found error before mutating, so hitting this mid-step indicates
// an eviction race.
var ErrNoSession = errors.New("store: no such session")
