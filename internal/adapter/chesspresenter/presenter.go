package chesspresenter

import (
	"strings"

	"github.com/park285/cheese-board/pkg/chessdto"
)

// Presenter delivers formatted text without coupling to the input loop.
type Presenter struct {
	sendMessage func(message string) error
	formatter   *Formatter
}

func NewPresenter(sendMessage func(message string) error, formatter *Formatter) *Presenter {
	return &Presenter{
		sendMessage: sendMessage,
		formatter:   formatter,
	}
}

func (p *Presenter) Message(message string) error {
	if p == nil || p.sendMessage == nil {
		return nil
	}
	if strings.TrimSpace(message) == "" {
		return nil
	}
	return p.sendMessage(message)
}

// Board sends message, if any, followed by the board and its status lines.
func (p *Presenter) Board(message string, state *chessdto.BoardState) error {
	if p == nil {
		return nil
	}
	if err := p.Message(message); err != nil {
		return err
	}
	if state == nil || p.formatter == nil {
		return nil
	}
	return p.Message(p.formatter.Board(state) + "\n" + p.formatter.Status(state))
}

func (p *Presenter) GameOver(message string, record *chessdto.GameRecord) error {
	if p == nil || p.formatter == nil {
		return p.Message(message)
	}
	return p.Message(p.formatter.GameOver(message, record))
}

func (p *Presenter) Error(err *chessdto.DomainError) error {
	if p == nil || err == nil || p.formatter == nil {
		return nil
	}
	return p.Message(p.formatter.Error(err))
}
