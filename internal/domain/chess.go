package domain

import "time"

// GameRecord summarises a finished game. It travels on the game-over event.
type GameRecord struct {
	ID           string
	Result       string
	ResultMethod string
	Winner       string
	Automated    string
	MovesUCI     []string
	Plies        int
	PGN          string
	ECOCode      string
	ECOTitle     string
	StartedAt    time.Time
	EndedAt      time.Time
	Duration     time.Duration
}

// PGN result tokens.
const (
	ResultFirstWon  = "1-0"
	ResultSecondWon = "0-1"
	ResultDraw      = "1/2-1/2"
	ResultOngoing   = "*"
)
