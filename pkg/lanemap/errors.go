package lanemap

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBadConfig       = errors.New("lanemap: invalid configuration")
	ErrUnresolvedPoint = errors.New("way references an unknown node")
	ErrUnresolvedWay   = errors.New("lanelet references an unknown way")
	ErrMissingBound    = errors.New("lanelet is missing its left or right bound")
	ErrDegenerateBound = errors.New("lanelet bound has fewer than two points")
	ErrUnknownRole     = errors.New("lanelet has an unknown member role")
	ErrDuplicateRole   = errors.New("lanelet has a repeated member role")
	ErrUnknownLane     = errors.New("unknown lane id")
	ErrBadMaxCells     = errors.New("max cells must be positive")
)

// TopologyError reports a connected component whose lanelets have no unique front-to-back order.
// Err is datastructure.ErrCycle or datastructure.ErrAmbiguousOrder.
type TopologyError struct {
	Component  int
	LaneletIDs []int64
	Err        error
}

func (e *TopologyError) Error() string {
	ids := make([]string, len(e.LaneletIDs))
	for i, id := range e.LaneletIDs {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("lanelet component %d [%s]: %v", e.Component, strings.Join(ids, ", "), e.Err)
}

func (e *TopologyError) Unwrap() error {
	return e.Err
}
