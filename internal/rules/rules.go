// Package rules defines the contract between the interaction controller and
// the rules engine that owns legality, move application and termination.
package rules

import (
	"fmt"
	"strings"
)

// Side identifies one of the two players.
type Side int

const (
	NoSide Side = iota
	First
	Second
)

func (s Side) Opponent() Side {
	switch s {
	case First:
		return Second
	case Second:
		return First
	default:
		return NoSide
	}
}

func (s Side) String() string {
	switch s {
	case First:
		return "white"
	case Second:
		return "black"
	default:
		return "none"
	}
}

// ParseSide accepts color and ordinal spellings. Anything else is NoSide.
func ParseSide(s string) Side {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w", "first":
		return First
	case "black", "b", "second":
		return Second
	default:
		return NoSide
	}
}

type PieceType int

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (p PieceType) String() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Letter returns the lower-case piece letter used in coordinate notation.
func (p PieceType) Letter() string {
	switch p {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return ""
	}
}

func ParsePieceType(s string) (PieceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "pawn":
		return Pawn, nil
	case "n", "knight":
		return Knight, nil
	case "b", "bishop":
		return Bishop, nil
	case "r", "rook":
		return Rook, nil
	case "q", "queen":
		return Queen, nil
	case "k", "king":
		return King, nil
	default:
		return NoPieceType, fmt.Errorf("unknown piece type %q", s)
	}
}

const (
	BoardFiles = 8
	BoardRanks = 8
)

// Square is a board coordinate; file and rank are zero based, a1 is 0.
type Square int8

const NoSquare Square = -1

func NewSquare(file, rank int) Square {
	if file < 0 || file >= BoardFiles || rank < 0 || rank >= BoardRanks {
		return NoSquare
	}
	return Square(rank*BoardFiles + file)
}

func (sq Square) Valid() bool { return sq >= 0 && int(sq) < BoardFiles*BoardRanks }

func (sq Square) File() int { return int(sq) % BoardFiles }

func (sq Square) Rank() int { return int(sq) / BoardFiles }

func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare reads algebraic coordinates such as "e2".
func ParseSquare(s string) (Square, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if len(v) != 2 {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	sq := NewSquare(int(v[0])-'a', int(v[1])-'1')
	if !sq.Valid() {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return sq, nil
}

// Move is a legal move as enumerated by the engine, with its metadata.
type Move struct {
	Origin      Square
	Destination Square
	Capture     bool
	Check       bool
	Captured    PieceType
	Promotion   PieceType
}

// String renders the move in coordinate notation, e.g. "e7e8q".
func (m Move) String() string {
	return m.Origin.String() + m.Destination.String() + m.Promotion.Letter()
}

// SameAs compares the identifying part of two moves, ignoring metadata.
func (m Move) SameAs(o Move) bool {
	return m.Origin == o.Origin && m.Destination == o.Destination && m.Promotion == o.Promotion
}

type Cell struct {
	Piece PieceType
	Side  Side
}

func (c Cell) Empty() bool { return c.Piece == NoPieceType }

// Grid is the displayed board; row 0 is the rank farthest from First.
type Grid [][]Cell

func (g Grid) At(sq Square) Cell {
	if !sq.Valid() {
		return Cell{}
	}
	row := len(g) - 1 - sq.Rank()
	if row < 0 || row >= len(g) || sq.File() >= len(g[row]) {
		return Cell{}
	}
	return g[row][sq.File()]
}

func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i := range g {
		out[i] = append([]Cell(nil), g[i]...)
	}
	return out
}

// Engine is the authoritative rules engine. The core never mutates the
// position except through ApplyMove.
type Engine interface {
	SideToMove() Side
	// LegalMoves returns every legal move for the side to move.
	LegalMoves() []Move
	LegalMovesFrom(origin Square) []Move
	// ApplyMove reports false when the move is illegal; the position is then unchanged.
	ApplyMove(origin, destination Square, promotion PieceType) bool
	IsGameOver() bool
	IsCheckmate() bool
	IsStalemate() bool
	IsDraw() bool
	BoardGrid() Grid
}

// Factory builds an engine holding a fresh initial position.
type Factory func() Engine

// Optional engine capabilities, discovered by type assertion.
type (
	FENer interface {
		FEN() string
	}
	PGNer interface {
		PGN() string
	}
	OpeningNamer interface {
		Opening() (code, title string)
	}
)
