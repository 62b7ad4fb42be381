package chessdto

type MaterialScore struct {
	White int
	Black int
}

// BoardState is a presentation copy of one controller snapshot. Board rows
// run from rank 8 down to rank 1; each cell is a piece letter, upper case for
// white, or "" when empty.
type BoardState struct {
	GameID       string
	State        string
	Turn         string
	Automated    string
	Board        [][]string
	Selection    string
	Destinations []string
	LastMove     string
	Thinking     bool
	MovesUCI     []string
	MoveCount    int
	Material     MaterialScore
	Outcome      string
	Winner       string
	Fault        string
}

func (s *BoardState) IsDestination(square string) bool {
	if s == nil {
		return false
	}
	for _, d := range s.Destinations {
		if d == square {
			return true
		}
	}
	return false
}
