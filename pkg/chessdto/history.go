package chessdto

import "time"

type GameRecord struct {
	ID           string
	Result       string
	ResultMethod string
	Winner       string
	Automated    string
	MovesUCI     []string
	PGN          string
	ECOCode      string
	ECOTitle     string
	StartedAt    time.Time
	EndedAt      time.Time
	Duration     time.Duration
}
