package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/park285/cheese-board/internal/adapter/chesspresenter"
	"github.com/park285/cheese-board/internal/chess"
	appcfg "github.com/park285/cheese-board/internal/config"
	"github.com/park285/cheese-board/internal/msgcat"
	"github.com/park285/cheese-board/internal/obslog"
	"github.com/park285/cheese-board/internal/play"
	"github.com/park285/cheese-board/internal/rules"
	"github.com/park285/cheese-board/internal/rules/chessrules"
	"go.uber.org/zap"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := obslog.Init(obslog.Options{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		Console:  cfg.Log.ToConsole,
		FilePath: cfg.LogFile(),
		Caller:   cfg.Log.Caller,
	})
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()

	catalog, err := msgcat.New(cfg.MessageDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}
	if err := catalog.Require(append(play.MessageKeys(), chesspresenter.MessageKeys()...)...); err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	factory, err := chessrules.Factory(cfg.StartFEN)
	if err != nil {
		log.Fatalf("start position error: %v", err)
	}

	selector := chess.NewHeuristicSelector(nil)
	if cfg.RandomSeed != 0 {
		selector.SetRandomSeed(cfg.RandomSeed)
	}

	var outMu sync.Mutex
	out := bufio.NewWriter(os.Stdout)
	send := func(message string) error {
		outMu.Lock()
		defer outMu.Unlock()
		if _, err := fmt.Fprintln(out, message); err != nil {
			return err
		}
		return out.Flush()
	}
	formatter := chesspresenter.NewFormatter(catalog)
	presenter := chesspresenter.NewPresenter(send, formatter)

	ctrl, err := play.NewController(factory, selector, play.Config{
		Automated:  cfg.Automated(),
		Promotion:  cfg.PromotionPiece(),
		ThinkDelay: cfg.ThinkDelay(),
		AutoPlay:   true,
	}, logger.Named("play"),
		play.WithMessages(catalog),
		play.WithGameOverHandler(func(ev play.TerminalEvent) {
			if err := presenter.GameOver(ev.Message, chesspresenter.ToDTORecord(ev.Record)); err != nil {
				logger.Warn("failed to print game over", zap.Error(err))
			}
		}),
	)
	if err != nil {
		log.Fatalf("controller init error: %v", err)
	}

	logger.Info("cheese-board started",
		zap.String("config", cfg.Source),
		zap.String("automated", cfg.Automated().String()),
		zap.String("promotion", cfg.PromotionPiece().String()),
	)

	_ = presenter.Message(formatter.Help())
	ctrl.Wait()
	showBoard(presenter, ctrl, "")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if !handleLine(strings.TrimSpace(scanner.Text()), ctrl, presenter, formatter) {
			break
		}
	}
	ctrl.Wait()
	if err := scanner.Err(); err != nil {
		logger.Warn("input closed with error", zap.Error(err))
	}
}

// handleLine runs one command and reports whether the loop should continue.
func handleLine(line string, ctrl *play.Controller, presenter *chesspresenter.Presenter, formatter *chesspresenter.Formatter) bool {
	if line == "" {
		return true
	}
	switch strings.ToLower(line) {
	case "quit", "exit", "q":
		return false
	case "help", "?":
		_ = presenter.Message(formatter.Help())
		return true
	case "new", "reset":
		ctrl.Reset()
		ctrl.Wait()
		showBoard(presenter, ctrl, formatter.NewGame())
		return true
	case "board":
		showBoard(presenter, ctrl, "")
		return true
	}

	sq, err := rules.ParseSquare(line)
	if err != nil {
		_ = presenter.Message(formatter.BadSquare(line))
		return true
	}
	snap, err := ctrl.SelectOrMove(sq)
	if err != nil {
		_ = presenter.Error(chesspresenter.ToDTOError(err))
		return true
	}
	_ = presenter.Board("", chesspresenter.ToDTOState(snap))
	if snap.State == play.OpponentThinking {
		ctrl.Wait()
		showBoard(presenter, ctrl, "")
	}
	return true
}

func showBoard(presenter *chesspresenter.Presenter, ctrl *play.Controller, message string) {
	_ = presenter.Board(message, chesspresenter.ToDTOState(ctrl.Snapshot()))
}
