package catchment

import (
	"github.com/pkg/errors"
)

// Fatal conditions of the catchment area pipeline. Components return these
// (possibly wrapped); only the orchestrator converts them into a terminal
// job status.
var (
	// ErrNetworkUnavailable marks the backing network database as unreachable during partition load
	ErrNetworkUnavailable = errors.New("network database unavailable")
	// ErrBufferExceedsNetwork marks a request whose search buffer reaches outside the loaded network extent
	ErrBufferExceedsNetwork = errors.New("catchment area buffer exceeds available network cells")
	// ErrDisconnectedOrigin marks an origin point which could not be snapped to any eligible segment
	ErrDisconnectedOrigin = errors.New("origin point(s) are disconnected from the street network")
	// ErrInvalidScenario marks a reference to a scenario overlay which does not exist
	ErrInvalidScenario = errors.New("referenced scenario does not exist")
)
