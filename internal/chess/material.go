package chess

import "github.com/park285/cheese-board/internal/rules"

var pieceValues = map[rules.PieceType]int{
	rules.Pawn:   1,
	rules.Knight: 3,
	rules.Bishop: 3,
	rules.Rook:   5,
	rules.Queen:  9,
}

// PieceValue returns the material value of a piece type. Kings are worth 0.
func PieceValue(pt rules.PieceType) int {
	return pieceValues[pt]
}

type MaterialScore struct {
	First  int
	Second int
}

func (m MaterialScore) Diff() int {
	return m.First - m.Second
}

// MaterialFromGrid sums the material still on the board for each side.
func MaterialFromGrid(grid rules.Grid) MaterialScore {
	var score MaterialScore
	for _, row := range grid {
		for _, cell := range row {
			switch cell.Side {
			case rules.First:
				score.First += PieceValue(cell.Piece)
			case rules.Second:
				score.Second += PieceValue(cell.Piece)
			}
		}
	}
	return score
}
