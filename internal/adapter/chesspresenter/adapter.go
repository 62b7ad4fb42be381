package chesspresenter

import (
	"errors"
	"strings"

	"github.com/park285/cheese-board/internal/domain"
	"github.com/park285/cheese-board/internal/play"
	"github.com/park285/cheese-board/internal/rules"
	"github.com/park285/cheese-board/pkg/chessdto"
)

func ToDTOState(s play.Snapshot) *chessdto.BoardState {
	state := &chessdto.BoardState{
		GameID:    s.GameID,
		State:     s.State.String(),
		Turn:      s.SideToMove.String(),
		Automated: s.Automated.String(),
		Board:     toDTOBoard(s.Grid),
		Thinking:  s.Thinking,
		MovesUCI:  append([]string(nil), s.History...),
		MoveCount: s.Ply,
		Material:  chessdto.MaterialScore{White: s.Material.First, Black: s.Material.Second},
		Outcome:   s.Outcome.Kind.String(),
	}
	if s.HasSelection() {
		state.Selection = s.Selection.String()
	}
	for _, d := range s.Destinations {
		state.Destinations = append(state.Destinations, d.String())
	}
	if s.LastMove != nil {
		state.LastMove = s.LastMove.String()
	}
	if s.Outcome.Kind == play.Checkmate {
		state.Winner = s.Outcome.Winner.String()
	}
	if s.Fault != nil {
		state.Fault = s.Fault.Error()
	}
	return state
}

func toDTOBoard(grid rules.Grid) [][]string {
	if len(grid) == 0 {
		return nil
	}
	board := make([][]string, len(grid))
	for i, row := range grid {
		board[i] = make([]string, len(row))
		for j, cell := range row {
			board[i][j] = pieceLetter(cell)
		}
	}
	return board
}

func pieceLetter(c rules.Cell) string {
	letter := c.Piece.Letter()
	if c.Side == rules.First {
		return strings.ToUpper(letter)
	}
	return letter
}

func ToDTORecord(r *domain.GameRecord) *chessdto.GameRecord {
	if r == nil {
		return nil
	}
	return &chessdto.GameRecord{
		ID:           r.ID,
		Result:       r.Result,
		ResultMethod: r.ResultMethod,
		Winner:       r.Winner,
		Automated:    r.Automated,
		MovesUCI:     append([]string(nil), r.MovesUCI...),
		PGN:          r.PGN,
		ECOCode:      r.ECOCode,
		ECOTitle:     r.ECOTitle,
		StartedAt:    r.StartedAt,
		EndedAt:      r.EndedAt,
		Duration:     r.Duration,
	}
}

// ToDTOError classifies a controller error. nil maps to nil.
func ToDTOError(err error) *chessdto.DomainError {
	if err == nil {
		return nil
	}
	out := &chessdto.DomainError{Code: chessdto.CodeUnknown, Message: err.Error()}
	switch {
	case errors.Is(err, play.ErrSquareOutOfRange):
		out.Code, out.Retryable = chessdto.CodeOutOfRange, true
	case errors.Is(err, play.ErrGameOver):
		out.Code = chessdto.CodeGameOver
	case errors.Is(err, play.ErrOpponentThinking), errors.Is(err, play.ErrAutomatedMoveInFlight):
		out.Code, out.Retryable = chessdto.CodeOpponentThinking, true
	case errors.Is(err, play.ErrStaleAutomatedMove):
		out.Code, out.Retryable = chessdto.CodeStaleMove, true
	case errors.Is(err, play.ErrEngineInvariant):
		out.Code = chessdto.CodeEngineFault
	}
	return out
}
