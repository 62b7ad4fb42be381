// Package chessrules implements the rules engine contract for standard chess
// on top of github.com/corentings/chess/v2.
package chessrules

import (
	"fmt"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
	"github.com/park285/cheese-board/internal/rules"
)

var (
	ecoOnce sync.Once
	ecoBook *opening.BookECO
)

// Engine wraps a single chess game. It is not safe for concurrent use; the
// controller serialises access.
type Engine struct {
	game *nchess.Game
}

var _ rules.Engine = (*Engine)(nil)

func New() *Engine {
	return &Engine{game: nchess.NewGame()}
}

func FromFEN(fen string) (*Engine, error) {
	fen = strings.TrimSpace(fen)
	if fen == "" || fen == "startpos" {
		return New(), nil
	}
	opt, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	return &Engine{game: nchess.NewGame(opt)}, nil
}

// Factory validates fen once and returns a factory producing fresh games from it.
func Factory(fen string) (rules.Factory, error) {
	if _, err := FromFEN(fen); err != nil {
		return nil, err
	}
	return func() rules.Engine {
		e, err := FromFEN(fen)
		if err != nil {
			return New()
		}
		return e
	}, nil
}

func (e *Engine) SideToMove() rules.Side {
	return sideFrom(e.game.Position().Turn())
}

func (e *Engine) LegalMoves() []rules.Move {
	return e.legalMoves(rules.NoSquare)
}

func (e *Engine) LegalMovesFrom(origin rules.Square) []rules.Move {
	if !origin.Valid() {
		return nil
	}
	return e.legalMoves(origin)
}

func (e *Engine) legalMoves(origin rules.Square) []rules.Move {
	if e.game.Outcome() != nchess.NoOutcome {
		return nil
	}
	board := e.game.Position().Board()
	valid := e.game.ValidMoves()
	out := make([]rules.Move, 0, len(valid))
	for i := range valid {
		mv := valid[i]
		from := squareFrom(mv.S1())
		if origin != rules.NoSquare && from != origin {
			continue
		}
		m := rules.Move{
			Origin:      from,
			Destination: squareFrom(mv.S2()),
			Check:       mv.HasTag(nchess.Check),
			Promotion:   pieceTypeFrom(mv.Promo()),
		}
		switch {
		case mv.HasTag(nchess.EnPassant):
			m.Capture = true
			m.Captured = rules.Pawn
		case mv.HasTag(nchess.Capture):
			m.Capture = true
			m.Captured = pieceTypeFrom(board.Piece(mv.S2()).Type())
		}
		out = append(out, m)
	}
	return out
}

// ApplyMove plays the legal move matching origin and destination. The
// promotion choice only matters when the move promotes.
func (e *Engine) ApplyMove(origin, destination rules.Square, promotion rules.PieceType) bool {
	for _, m := range e.LegalMovesFrom(origin) {
		if m.Destination != destination {
			continue
		}
		if m.Promotion != rules.NoPieceType && m.Promotion != promotion {
			continue
		}
		if err := e.game.PushNotationMove(m.String(), nchess.UCINotation{}, nil); err != nil {
			return false
		}
		return true
	}
	return false
}

func (e *Engine) IsGameOver() bool { return e.game.Outcome() != nchess.NoOutcome }

func (e *Engine) IsCheckmate() bool { return e.game.Method() == nchess.Checkmate }

func (e *Engine) IsStalemate() bool { return e.game.Method() == nchess.Stalemate }

// IsDraw covers every drawn ending other than stalemate.
func (e *Engine) IsDraw() bool {
	return e.game.Outcome() == nchess.Draw && e.game.Method() != nchess.Stalemate
}

func (e *Engine) BoardGrid() rules.Grid {
	board := e.game.Position().Board()
	grid := make(rules.Grid, rules.BoardRanks)
	for row := 0; row < rules.BoardRanks; row++ {
		rank := rules.BoardRanks - 1 - row
		grid[row] = make([]rules.Cell, rules.BoardFiles)
		for file := 0; file < rules.BoardFiles; file++ {
			p := board.Piece(nchess.NewSquare(nchess.File(file), nchess.Rank(rank)))
			if p == nchess.NoPiece {
				continue
			}
			grid[row][file] = rules.Cell{Piece: pieceTypeFrom(p.Type()), Side: sideFrom(p.Color())}
		}
	}
	return grid
}

func (e *Engine) FEN() string { return e.game.FEN() }

func (e *Engine) PGN() string { return e.game.String() }

// Opening names the ECO opening reached so far, if any.
func (e *Engine) Opening() (string, string) {
	ecoOnce.Do(func() { ecoBook = opening.NewBookECO() })
	if ecoBook == nil {
		return "", ""
	}
	if eco := ecoBook.Find(e.game.Moves()); eco != nil {
		return eco.Code(), eco.Title()
	}
	return "", ""
}

func sideFrom(c nchess.Color) rules.Side {
	switch c {
	case nchess.White:
		return rules.First
	case nchess.Black:
		return rules.Second
	default:
		return rules.NoSide
	}
}

func squareFrom(sq nchess.Square) rules.Square {
	return rules.NewSquare(int(sq.File()), int(sq.Rank()))
}

func pieceTypeFrom(pt nchess.PieceType) rules.PieceType {
	switch pt {
	case nchess.Pawn:
		return rules.Pawn
	case nchess.Knight:
		return rules.Knight
	case nchess.Bishop:
		return rules.Bishop
	case nchess.Rook:
		return rules.Rook
	case nchess.Queen:
		return rules.Queen
	case nchess.King:
		return rules.King
	default:
		return rules.NoPieceType
	}
}
