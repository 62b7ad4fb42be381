package chess

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/park285/cheese-board/internal/rules"
)

var ErrNoMoves = errors.New("no legal moves to choose from")

// SelectMove picks one move with a fixed priority: the most valuable capture,
// then the first checking move, then a uniformly random move drawn from r.
// Equal-value captures resolve to the earliest one in enumeration order.
func SelectMove(moves []rules.Move, r *rand.Rand) (rules.Move, error) {
	if len(moves) == 0 {
		return rules.Move{}, ErrNoMoves
	}

	best, bestValue := -1, -1
	for i, m := range moves {
		if !m.Capture {
			continue
		}
		if v := PieceValue(m.Captured); v > bestValue {
			best, bestValue = i, v
		}
	}
	if best >= 0 {
		return moves[best], nil
	}

	for _, m := range moves {
		if m.Check {
			return m, nil
		}
	}

	if r == nil {
		return moves[0], nil
	}
	return moves[r.Intn(len(moves))], nil
}

// HeuristicSelector owns the random source used by the fallback tier.
type HeuristicSelector struct {
	randMu sync.Mutex
	rand   *rand.Rand
}

// NewHeuristicSelector uses r for random choices; nil seeds from the clock.
func NewHeuristicSelector(r *rand.Rand) *HeuristicSelector {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &HeuristicSelector{rand: r}
}

func (s *HeuristicSelector) Choose(moves []rules.Move) (rules.Move, error) {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return SelectMove(moves, s.rand)
}

func (s *HeuristicSelector) SetRandomSeed(seed int64) {
	s.randMu.Lock()
	s.rand = rand.New(rand.NewSource(seed))
	s.randMu.Unlock()
}
