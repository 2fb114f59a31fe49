package lanemap

import (
	"github.com/lintang-b-s/lanemap/pkg/concurrent"
)

// Query is one point to match, typically one agent in one simulation step.
type Query struct {
	X, Y       float64
	TargetLane *int
	MaxCells   int // 0 uses the map default
}

func (q Query) options() []MatchOption {
	opts := make([]MatchOption, 0, 2)
	if q.TargetLane != nil {
		opts = append(opts, WithTargetLane(*q.TargetLane))
	}
	if q.MaxCells != 0 {
		opts = append(opts, WithMaxCells(q.MaxCells))
	}
	return opts
}

type BatchMatch struct {
	Result MatchResult
	Err    error
}

type BatchFrenetMatch struct {
	Result FrenetResult
	Err    error
}

// MatchBatch. Match for every query on workers goroutines; results keep the query order.
func (m *Map) MatchBatch(queries []Query, workers int) []BatchMatch {
	return concurrent.Map(workers, queries, func(q Query) BatchMatch {
		res, err := m.Match(q.X, q.Y, q.options()...)
		return BatchMatch{Result: res, Err: err}
	})
}

func (m *Map) MatchFrenetBatch(queries []Query, workers int) []BatchFrenetMatch {
	return concurrent.Map(workers, queries, func(q Query) BatchFrenetMatch {
		res, err := m.MatchFrenet(q.X, q.Y, q.options()...)
		return BatchFrenetMatch{Result: res, Err: err}
	})
}
