package play

import (
	"fmt"

	"github.com/park285/cheese-board/internal/rules"
	"go.uber.org/zap"
)

// Renderer resolves message templates; *msgcat.Catalog satisfies it.
type Renderer interface {
	Render(key string, data any) (string, error)
}

// MessageKeys lists the catalog entries the controller renders.
func MessageKeys() []string {
	kinds := []OutcomeKind{Ongoing, Checkmate, Stalemate, Draw}
	keys := make([]string, 0, len(kinds))
	for _, k := range kinds {
		keys = append(keys, outcomeKey(k))
	}
	return keys
}

func outcomeKey(k OutcomeKind) string { return "outcome." + k.String() }

// SideLabel is the display name of a side, shared by outcome and status text.
func SideLabel(s rules.Side) string {
	switch s {
	case rules.First:
		return "백(White)"
	case rules.Second:
		return "흑(Black)"
	default:
		return ""
	}
}

func fallbackOutcomeMessage(o Outcome) string {
	switch o.Kind {
	case Checkmate:
		return fmt.Sprintf("체크메이트! %s 승리입니다.", SideLabel(o.Winner))
	case Stalemate:
		return "스테일메이트로 무승부입니다."
	case Draw:
		return "무승부로 종료되었습니다."
	default:
		return "대국이 진행 중입니다."
	}
}

func (c *Controller) outcomeMessage(o Outcome) string {
	if c.messages == nil {
		return fallbackOutcomeMessage(o)
	}
	key := outcomeKey(o.Kind)
	msg, err := c.messages.Render(key, map[string]string{"Winner": SideLabel(o.Winner)})
	if err != nil || msg == "" {
		c.logger.Warn("failed to render outcome message", zap.String("key", key), zap.Error(err))
		return fallbackOutcomeMessage(o)
	}
	return msg
}
