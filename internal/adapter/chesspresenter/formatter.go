package chesspresenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/park285/cheese-board/internal/play"
	"github.com/park285/cheese-board/internal/rules"
	"github.com/park285/cheese-board/pkg/chessdto"
)

const (
	materialScoreNeutral = 39
	recentMovesLimit     = 6
)

// Renderer resolves message templates; *msgcat.Catalog satisfies it.
type Renderer interface {
	Render(key string, data any) (string, error)
}

// MessageKeys lists the catalog entries the formatter renders.
func MessageKeys() []string {
	return []string{
		"status.turn", "status.thinking", "status.selected",
		"cli.help", "cli.new_game", "cli.bad_square", "cli.game_over", "cli.busy",
	}
}

// Formatter renders board DTOs into terminal text blocks.
type Formatter struct {
	messages Renderer
}

func NewFormatter(messages Renderer) *Formatter {
	return &Formatter{messages: messages}
}

func (f *Formatter) render(key string, data any, fallback string) string {
	if f == nil || f.messages == nil {
		return fallback
	}
	text, err := f.messages.Render(key, data)
	if err != nil || strings.TrimSpace(text) == "" {
		return fallback
	}
	return text
}

// Board draws the grid with file and rank labels. The selected piece is
// bracketed, empty destinations show '*' and capturable pieces are wrapped
// in parentheses.
func (f *Formatter) Board(state *chessdto.BoardState) string {
	if state == nil || len(state.Board) == 0 {
		return ""
	}
	files := len(state.Board[0])
	var header strings.Builder
	header.WriteString("  ")
	for file := 0; file < files; file++ {
		header.WriteString(fmt.Sprintf(" %c ", 'a'+file))
	}

	var sb strings.Builder
	sb.WriteString(header.String())
	sb.WriteString("\n")
	for i, row := range state.Board {
		rank := len(state.Board) - i
		sb.WriteString(fmt.Sprintf("%d ", rank))
		for file, piece := range row {
			square := fmt.Sprintf("%c%d", 'a'+file, rank)
			sb.WriteString(formatCell(piece, square == state.Selection, state.IsDestination(square)))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", rank))
	}
	sb.WriteString(header.String())
	return sb.String()
}

func formatCell(piece string, selected, destination bool) string {
	switch {
	case selected:
		return "[" + piece + "]"
	case destination && piece == "":
		return " * "
	case destination:
		return "(" + piece + ")"
	case piece == "":
		return " . "
	default:
		return " " + piece + " "
	}
}

func (f *Formatter) Status(state *chessdto.BoardState) string {
	if state == nil {
		return f.Help()
	}
	var sb strings.Builder
	if state.Outcome != "" && state.Outcome != "ongoing" {
		sb.WriteString(fmt.Sprintf("• 종료: %s\n", formatOutcome(state.Outcome, state.Winner)))
	} else {
		turn := f.render("status.turn",
			map[string]any{"Side": sideName(state.Turn), "Ply": state.MoveCount},
			fmt.Sprintf("%s 차례 • %d수", sideName(state.Turn), state.MoveCount))
		sb.WriteString("• " + turn + "\n")
	}
	if state.Thinking {
		sb.WriteString("• " + f.render("status.thinking", nil, "상대가 수를 고르는 중입니다...") + "\n")
	}
	if state.Selection != "" {
		dests := "-"
		if len(state.Destinations) > 0 {
			dests = strings.Join(state.Destinations, " ")
		}
		sb.WriteString("• " + f.render("status.selected",
			map[string]any{"Square": state.Selection, "Destinations": dests},
			fmt.Sprintf("선택: %s → %s", state.Selection, dests)) + "\n")
	}
	if state.LastMove != "" {
		sb.WriteString(fmt.Sprintf("• 최근 %s\n", formatRecentMoves(state.MovesUCI)))
	}
	appendMaterialLine(&sb, state.Material)
	if state.Fault != "" {
		sb.WriteString(fmt.Sprintf("⚠️ 규칙 엔진 오류: %s\n", state.Fault))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (f *Formatter) GameOver(message string, record *chessdto.GameRecord) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(message))
	if record == nil {
		return sb.String()
	}
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("• 결과: %s (%s)\n", formatResultBadge(record.Result), record.ResultMethod))
	sb.WriteString(fmt.Sprintf("• 진행 %d수\n", len(record.MovesUCI)))
	if record.ECOCode != "" {
		sb.WriteString(fmt.Sprintf("• 오프닝: %s %s\n", record.ECOCode, record.ECOTitle))
	}
	if d := formatGameDuration(record.Duration); d != "" {
		sb.WriteString(fmt.Sprintf("• 소요 %s\n", d))
	}
	if len(record.MovesUCI) > 0 {
		sb.WriteString(fmt.Sprintf("• 기보 %s\n", strings.Join(record.MovesUCI, " ")))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (f *Formatter) Help() string {
	return f.render("cli.help", nil, "commands: <square> (e.g. e2), new, board, help, quit")
}

func (f *Formatter) NewGame() string {
	return f.render("cli.new_game", nil, "새 대국을 시작했습니다.")
}

func (f *Formatter) BadSquare(input string) string {
	return f.render("cli.bad_square", map[string]any{"Input": input}, "invalid square: "+input)
}

func (f *Formatter) Error(err *chessdto.DomainError) string {
	if err == nil {
		return ""
	}
	switch err.Code {
	case chessdto.CodeGameOver:
		return f.render("cli.game_over", nil, err.Error())
	case chessdto.CodeOpponentThinking:
		return f.render("cli.busy", nil, err.Error())
	case chessdto.CodeEngineFault:
		return fmt.Sprintf("⚠️ 규칙 엔진 오류: %s", err.Error())
	default:
		return err.Error()
	}
}

func sideName(side string) string {
	if label := play.SideLabel(rules.ParseSide(side)); label != "" {
		return label
	}
	return "-"
}

func formatOutcome(outcome, winner string) string {
	switch strings.ToLower(strings.TrimSpace(outcome)) {
	case "checkmate":
		return "체크메이트, " + sideName(winner) + " 승"
	case "stalemate":
		return "스테일메이트 무승부"
	case "draw":
		return "무승부"
	default:
		return "진행 중"
	}
}

func formatResultBadge(result string) string {
	switch strings.TrimSpace(result) {
	case "1-0":
		return "⬜ 백 승"
	case "0-1":
		return "⬛ 흑 승"
	case "1/2-1/2":
		return "🤝 무"
	default:
		return "▫️ 진행"
	}
}

func formatRecentMoves(moves []string) string {
	if len(moves) == 0 {
		return "-"
	}
	if len(moves) <= recentMovesLimit {
		return strings.Join(moves, " ")
	}
	return "… " + strings.Join(moves[len(moves)-recentMovesLimit:], " ")
}

func formatGameDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}

func appendMaterialLine(sb *strings.Builder, material chessdto.MaterialScore) {
	if sb == nil {
		return
	}
	sb.WriteString("• 잡은 기물 점수 ")
	sb.WriteString(formatMaterial(material))
	sb.WriteString("\n")
}

func formatMaterial(score chessdto.MaterialScore) string {
	whiteCaptured := materialScoreNeutral - score.Black
	blackCaptured := materialScoreNeutral - score.White
	if whiteCaptured < 0 {
		whiteCaptured = 0
	}
	if blackCaptured < 0 {
		blackCaptured = 0
	}

	var parts []string
	if whiteCaptured > 0 {
		parts = append(parts, fmt.Sprintf("백 +%d", whiteCaptured))
	}
	if blackCaptured > 0 {
		parts = append(parts, fmt.Sprintf("흑 +%d", blackCaptured))
	}
	if len(parts) == 0 {
		return "없음"
	}
	return strings.Join(parts, " / ")
}
