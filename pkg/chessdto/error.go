package chessdto

// Error codes carried by DomainError.
const (
	CodeOutOfRange       = "square_out_of_range"
	CodeGameOver         = "game_over"
	CodeOpponentThinking = "opponent_thinking"
	CodeStaleMove        = "stale_automated_move"
	CodeEngineFault      = "engine_fault"
	CodeUnknown          = "unknown"
)

// DomainError is the presentation form of a controller error. Retryable
// errors clear up on their own; the rest need a new game.
type DomainError struct {
	Code      string
	Message   string
	Retryable bool
}

func (e DomainError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Code != "":
		return e.Code
	default:
		return "chess board error"
	}
}
