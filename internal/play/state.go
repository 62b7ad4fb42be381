package play

import (
	"github.com/park285/cheese-board/internal/chess"
	"github.com/park285/cheese-board/internal/domain"
	"github.com/park285/cheese-board/internal/rules"
)

type State int

const (
	WaitingForSelection State = iota
	PieceSelected
	MovePending
	OpponentThinking
	GameOver
)

func (s State) String() string {
	switch s {
	case WaitingForSelection:
		return "waiting_for_selection"
	case PieceSelected:
		return "piece_selected"
	case MovePending:
		return "move_pending"
	case OpponentThinking:
		return "opponent_thinking"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

type OutcomeKind int

const (
	Ongoing OutcomeKind = iota
	Checkmate
	Stalemate
	Draw
)

func (k OutcomeKind) String() string {
	switch k {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

// Outcome classifies the position. Winner is set only for Checkmate.
type Outcome struct {
	Kind   OutcomeKind
	Winner rules.Side
}

func (o Outcome) Terminal() bool { return o.Kind != Ongoing }

// Result returns the PGN result token.
func (o Outcome) Result() string {
	switch o.Kind {
	case Checkmate:
		if o.Winner == rules.First {
			return domain.ResultFirstWon
		}
		return domain.ResultSecondWon
	case Stalemate, Draw:
		return domain.ResultDraw
	default:
		return domain.ResultOngoing
	}
}

// TerminalEvent is emitted once when a game ends.
type TerminalEvent struct {
	GameID  string
	Outcome Outcome
	Message string
	Winner  rules.Side
	Record  *domain.GameRecord
}

// Snapshot is a copy of everything the presentation layer needs. It shares
// no memory with the controller.
type Snapshot struct {
	GameID       string
	State        State
	Grid         rules.Grid
	SideToMove   rules.Side
	Automated    rules.Side
	Selection    rules.Square
	Destinations []rules.Square
	Thinking     bool
	Outcome      Outcome
	Ply          int
	LastMove     *rules.Move
	History      []string
	Material     chess.MaterialScore
	Fault        error
}

func (s Snapshot) HasSelection() bool { return s.Selection.Valid() }
