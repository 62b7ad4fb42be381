// Package play implements the interaction controller: piece selection,
// destination highlighting, move submission, terminal detection and the
// sequencing of an automated opponent against an external rules engine.
package play

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/park285/cheese-board/internal/chess"
	"github.com/park285/cheese-board/internal/domain"
	"github.com/park285/cheese-board/internal/rules"
	"go.uber.org/zap"
)

// Selector picks the automated side's move from the full legal set.
type Selector interface {
	Choose(moves []rules.Move) (rules.Move, error)
}

// SelectorFunc adapts a plain function to Selector.
type SelectorFunc func(moves []rules.Move) (rules.Move, error)

func (f SelectorFunc) Choose(moves []rules.Move) (rules.Move, error) { return f(moves) }

type Config struct {
	// Automated is the side played by the selector; NoSide means both sides are human.
	Automated rules.Side
	// Promotion is the piece submitted with every human move.
	Promotion rules.PieceType
	// ThinkDelay pauses the automated side before it chooses.
	ThinkDelay time.Duration
	// AutoPlay runs the automated move on its own goroutine as soon as it is due.
	AutoPlay bool
}

type Option func(*Controller)

// WithGameOverHandler registers fn to receive the terminal event of each game.
// It runs outside the controller lock and may call back into the controller.
func WithGameOverHandler(fn func(TerminalEvent)) Option {
	return func(c *Controller) { c.onGameOver = fn }
}

func WithMessages(r Renderer) Option {
	return func(c *Controller) { c.messages = r }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

type automatedTurn struct {
	generation uint64
	ply        int
	side       rules.Side
}

// followUp carries the work a transition leaves for after the lock is released.
type followUp struct {
	event      *TerminalEvent
	schedule   bool
	generation uint64
}

type Controller struct {
	factory    rules.Factory
	selector   Selector
	cfg        Config
	logger     *zap.Logger
	messages   Renderer
	onGameOver func(TerminalEvent)
	now        func() time.Time

	mu           sync.Mutex
	engine       rules.Engine
	gameID       string
	generation   uint64
	state        State
	grid         rules.Grid
	selection    rules.Square
	destinations []rules.Move
	thinking     bool
	pending      *automatedTurn
	outcome      Outcome
	fault        error
	ply          int
	lastMove     *rules.Move
	history      []string
	startedAt    time.Time
	notified     bool

	wg sync.WaitGroup
}

func NewController(factory rules.Factory, selector Selector, cfg Config, logger *zap.Logger, opts ...Option) (*Controller, error) {
	if factory == nil {
		return nil, fmt.Errorf("rules engine factory is required")
	}
	if selector == nil {
		return nil, fmt.Errorf("move selector is required")
	}
	if cfg.Promotion == rules.NoPieceType {
		cfg.Promotion = rules.Queen
	}
	if cfg.Promotion == rules.Pawn || cfg.Promotion == rules.King {
		return nil, fmt.Errorf("invalid promotion piece: %s", cfg.Promotion)
	}
	if cfg.ThinkDelay < 0 {
		cfg.ThinkDelay = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		factory:   factory,
		selector:  selector,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		selection: rules.NoSquare,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.Reset()
	return c, nil
}

// Reset replaces the position with a fresh one from the factory. Any
// automated move still being chosen for the old position is discarded.
func (c *Controller) Reset() Snapshot {
	c.mu.Lock()
	next := c.resetLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.run(next)
	return snap
}

func (c *Controller) resetLocked() followUp {
	c.generation++
	c.gameID = uuid.NewString()
	c.pending = nil
	c.thinking = false
	c.fault = nil
	c.outcome = Outcome{}
	c.ply = 0
	c.history = nil
	c.lastMove = nil
	c.notified = false
	c.startedAt = c.now()
	c.state = WaitingForSelection
	c.clearSelectionLocked()

	c.engine = c.factory()
	if c.engine == nil {
		c.grid = nil
		c.failLocked(invariant("factory returned no engine", nil))
		return followUp{}
	}
	c.grid = c.engine.BoardGrid()
	c.logger.Info("game reset",
		zap.String("game_id", c.gameID),
		zap.Uint64("generation", c.generation),
		zap.String("automated", c.cfg.Automated.String()),
		zap.String("side_to_move", c.engine.SideToMove().String()),
	)
	return c.settleLocked()
}

// SelectOrMove handles one click. With nothing selected it selects a piece of
// the side to move, or clears the selection. With a selection it submits a
// move; an illegal destination is treated as a new selection attempt.
func (c *Controller) SelectOrMove(sq rules.Square) (Snapshot, error) {
	if !sq.Valid() {
		return c.Snapshot(), ErrSquareOutOfRange
	}
	c.mu.Lock()
	if err := c.humanGateLocked(); err != nil {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, err
	}
	var next followUp
	if c.selection.Valid() {
		next = c.submitLocked(sq)
	} else {
		c.selectLocked(sq)
	}
	snap := c.snapshotLocked()
	err := c.fault
	c.mu.Unlock()
	c.run(next)
	return snap, err
}

func (c *Controller) humanGateLocked() error {
	switch {
	case c.fault != nil:
		return c.fault
	case c.state == GameOver || c.outcome.Terminal():
		return ErrGameOver
	case c.state == OpponentThinking || c.pending != nil:
		return ErrOpponentThinking
	}
	return nil
}

func (c *Controller) selectLocked(sq rules.Square) {
	cell := c.grid.At(sq)
	side := c.engine.SideToMove()
	if cell.Empty() || cell.Side != side {
		if c.selection.Valid() {
			c.logger.Debug("selection cleared", zap.String("game_id", c.gameID), zap.String("square", sq.String()))
		}
		c.clearSelectionLocked()
		return
	}
	c.selection = sq
	c.destinations = c.engine.LegalMovesFrom(sq)
	c.state = PieceSelected
	c.logger.Debug("piece selected",
		zap.String("game_id", c.gameID),
		zap.String("square", sq.String()),
		zap.String("piece", cell.Piece.String()),
		zap.Int("destinations", len(c.destinations)),
	)
}

func (c *Controller) clearSelectionLocked() {
	c.selection = rules.NoSquare
	c.destinations = nil
	if c.state == PieceSelected || c.state == MovePending {
		c.state = WaitingForSelection
	}
}

func (c *Controller) submitLocked(dest rules.Square) followUp {
	origin := c.selection
	mover := c.engine.SideToMove()
	move, listed := c.destinationMoveLocked(dest)
	c.state = MovePending

	if !c.engine.ApplyMove(origin, dest, c.cfg.Promotion) {
		c.logger.Debug("illegal move reinterpreted as selection",
			zap.String("game_id", c.gameID),
			zap.String("from", origin.String()),
			zap.String("to", dest.String()),
		)
		c.clearSelectionLocked()
		c.selectLocked(dest)
		return followUp{}
	}
	if !listed {
		c.clearSelectionLocked()
		c.grid = c.engine.BoardGrid()
		c.failLocked(invariant(fmt.Sprintf("engine accepted unlisted move %s%s", origin, dest), nil))
		return followUp{}
	}
	c.recordMoveLocked(move, mover)
	return c.settleLocked()
}

func (c *Controller) destinationMoveLocked(dest rules.Square) (rules.Move, bool) {
	for _, m := range c.destinations {
		if m.Destination != dest {
			continue
		}
		if m.Promotion == rules.NoPieceType || m.Promotion == c.cfg.Promotion {
			return m, true
		}
	}
	return rules.Move{}, false
}

func (c *Controller) recordMoveLocked(move rules.Move, mover rules.Side) {
	c.clearSelectionLocked()
	c.grid = c.engine.BoardGrid()
	c.ply++
	c.history = append(c.history, move.String())
	m := move
	c.lastMove = &m

	fields := []zap.Field{
		zap.String("game_id", c.gameID),
		zap.Int("ply", c.ply),
		zap.String("side", mover.String()),
		zap.String("move_uci", move.String()),
		zap.Bool("capture", move.Capture),
		zap.Bool("check", move.Check),
	}
	if f, ok := c.engine.(rules.FENer); ok {
		fields = append(fields, zap.String("fen", f.FEN()))
	}
	if o, ok := c.engine.(rules.OpeningNamer); ok {
		if code, title := o.Opening(); code != "" {
			fields = append(fields, zap.String("eco_code", code), zap.String("eco_title", title))
		}
	}
	c.logger.Info("ply applied", fields...)
}

// settleLocked recomputes the outcome after the position changed and moves
// the state machine to GameOver, OpponentThinking or WaitingForSelection.
func (c *Controller) settleLocked() followUp {
	outcome, err := c.evaluateLocked()
	if err != nil {
		c.failLocked(err)
		return followUp{}
	}
	c.outcome = outcome
	if outcome.Terminal() {
		c.state = GameOver
		c.thinking = false
		if c.notified {
			return followUp{}
		}
		c.notified = true
		ev := c.terminalEventLocked(outcome)
		c.logger.Info("game over",
			zap.String("game_id", c.gameID),
			zap.String("outcome", outcome.Kind.String()),
			zap.String("winner", outcome.Winner.String()),
			zap.String("result", ev.Record.Result),
			zap.Int("plies", c.ply),
		)
		return followUp{event: &ev}
	}
	if c.cfg.Automated != rules.NoSide && c.engine.SideToMove() == c.cfg.Automated {
		c.state = OpponentThinking
		c.thinking = true
		return followUp{schedule: c.cfg.AutoPlay, generation: c.generation}
	}
	c.state = WaitingForSelection
	c.thinking = false
	return followUp{}
}

func (c *Controller) evaluateLocked() (Outcome, error) {
	e := c.engine
	over := e.IsGameOver()
	mate, stale, draw := e.IsCheckmate(), e.IsStalemate(), e.IsDraw()
	flagged := mate || stale || draw
	switch {
	case !over && flagged:
		return Outcome{}, invariant("terminal flag set on a game that is not over", nil)
	case over && !flagged:
		return Outcome{}, invariant("game over without checkmate, stalemate or draw", nil)
	case mate:
		return Outcome{Kind: Checkmate, Winner: e.SideToMove().Opponent()}, nil
	case stale:
		return Outcome{Kind: Stalemate}, nil
	case draw:
		return Outcome{Kind: Draw}, nil
	default:
		return Outcome{Kind: Ongoing}, nil
	}
}

func (c *Controller) terminalEventLocked(o Outcome) TerminalEvent {
	ev := TerminalEvent{
		GameID:  c.gameID,
		Outcome: o,
		Message: c.outcomeMessage(o),
		Winner:  o.Winner,
	}
	if o.Terminal() {
		ev.Record = c.recordLocked(o)
	}
	return ev
}

func (c *Controller) recordLocked(o Outcome) *domain.GameRecord {
	ended := c.now()
	rec := &domain.GameRecord{
		ID:           c.gameID,
		Result:       o.Result(),
		ResultMethod: o.Kind.String(),
		Automated:    c.cfg.Automated.String(),
		MovesUCI:     append([]string(nil), c.history...),
		Plies:        c.ply,
		StartedAt:    c.startedAt,
		EndedAt:      ended,
		Duration:     ended.Sub(c.startedAt),
	}
	if o.Kind == Checkmate {
		rec.Winner = o.Winner.String()
	}
	if p, ok := c.engine.(rules.PGNer); ok {
		rec.PGN = p.PGN()
	}
	if n, ok := c.engine.(rules.OpeningNamer); ok {
		rec.ECOCode, rec.ECOTitle = n.Opening()
	}
	return rec
}

func (c *Controller) failLocked(err error) {
	c.fault = err
	c.pending = nil
	c.thinking = false
	c.logger.Error("rules engine invariant violated",
		zap.String("game_id", c.gameID),
		zap.Int("ply", c.ply),
		zap.Error(err),
	)
}

// TriggerAutomatedMove is the entry action of OpponentThinking: it asks the
// selector for a move and applies it if the position is still the one the
// move was chosen for.
func (c *Controller) TriggerAutomatedMove() (Snapshot, error) {
	return c.triggerAutomated(0, false)
}

func (c *Controller) triggerAutomated(generation uint64, scheduled bool) (Snapshot, error) {
	c.mu.Lock()
	if scheduled && generation != c.generation {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrStaleAutomatedMove
	}
	if err := c.automatedGateLocked(); err != nil {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, err
	}
	moves := c.engine.LegalMoves()
	if len(moves) == 0 {
		var next followUp
		if c.engine.IsGameOver() {
			next = c.settleLocked()
		} else {
			c.failLocked(invariant("no legal moves in a position reported as ongoing", nil))
		}
		snap := c.snapshotLocked()
		err := c.fault
		c.mu.Unlock()
		c.run(next)
		return snap, err
	}
	turn := &automatedTurn{generation: c.generation, ply: c.ply, side: c.engine.SideToMove()}
	c.pending = turn
	gameID := c.gameID
	c.mu.Unlock()

	if c.cfg.ThinkDelay > 0 {
		time.Sleep(c.cfg.ThinkDelay)
	}
	chosen, selErr := c.selector.Choose(append([]rules.Move(nil), moves...))

	c.mu.Lock()
	if c.pending != turn || c.generation != turn.generation || c.ply != turn.ply {
		c.logger.Warn("stale automated move discarded",
			zap.String("game_id", gameID),
			zap.Uint64("generation", turn.generation),
			zap.Int("ply", turn.ply),
			zap.String("move_uci", chosen.String()),
		)
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrStaleAutomatedMove
	}
	c.pending = nil

	var next followUp
	switch {
	case selErr != nil:
		c.failLocked(invariant("move selector failed", selErr))
	case !containsMove(moves, chosen):
		c.failLocked(invariant(fmt.Sprintf("selector chose %s outside the legal set", chosen), nil))
	case !c.engine.ApplyMove(chosen.Origin, chosen.Destination, promotionFor(chosen, c.cfg.Promotion)):
		c.failLocked(invariant(fmt.Sprintf("engine rejected its own legal move %s", chosen), nil))
	default:
		c.thinking = false
		c.logger.Info("automated move chosen",
			zap.String("game_id", gameID),
			zap.String("move_uci", chosen.String()),
			zap.Int("candidates", len(moves)),
		)
		c.recordMoveLocked(chosen, turn.side)
		next = c.settleLocked()
	}
	snap := c.snapshotLocked()
	err := c.fault
	c.mu.Unlock()
	c.run(next)
	return snap, err
}

func (c *Controller) automatedGateLocked() error {
	switch {
	case c.fault != nil:
		return c.fault
	case c.state == GameOver:
		return ErrGameOver
	case c.pending != nil:
		return ErrAutomatedMoveInFlight
	case c.state != OpponentThinking:
		return ErrNotAutomatedTurn
	}
	return nil
}

func containsMove(moves []rules.Move, m rules.Move) bool {
	for _, x := range moves {
		if x.SameAs(m) {
			return true
		}
	}
	return false
}

func promotionFor(m rules.Move, fallback rules.PieceType) rules.PieceType {
	if m.Promotion != rules.NoPieceType {
		return m.Promotion
	}
	return fallback
}

// EvaluateTerminal classifies the current position and records the outcome.
// It does not change the state machine or emit notifications.
func (c *Controller) EvaluateTerminal() (TerminalEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fault != nil {
		return TerminalEvent{}, c.fault
	}
	o, err := c.evaluateLocked()
	if err != nil {
		c.failLocked(err)
		return TerminalEvent{}, err
	}
	c.outcome = o
	return c.terminalEventLocked(o), nil
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Wait blocks until every automated move scheduled by AutoPlay has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		GameID:     c.gameID,
		State:      c.state,
		Grid:       c.grid.Clone(),
		Automated:  c.cfg.Automated,
		Selection:  c.selection,
		Thinking:   c.thinking,
		Outcome:    c.outcome,
		Ply:        c.ply,
		History:    append([]string(nil), c.history...),
		Material:   chess.MaterialFromGrid(c.grid),
		Fault:      c.fault,
		SideToMove: rules.NoSide,
	}
	if c.engine != nil {
		snap.SideToMove = c.engine.SideToMove()
	}
	if c.lastMove != nil {
		m := *c.lastMove
		snap.LastMove = &m
	}
	seen := make(map[rules.Square]struct{}, len(c.destinations))
	for _, m := range c.destinations {
		if _, ok := seen[m.Destination]; ok {
			continue
		}
		seen[m.Destination] = struct{}{}
		snap.Destinations = append(snap.Destinations, m.Destination)
	}
	return snap
}

func (c *Controller) run(next followUp) {
	if next.event != nil && c.onGameOver != nil {
		c.onGameOver(*next.event)
	}
	if !next.schedule {
		return
	}
	c.wg.Add(1)
	go func(generation uint64) {
		defer c.wg.Done()
		if _, err := c.triggerAutomated(generation, true); err != nil {
			c.logger.Debug("scheduled automated move did not apply", zap.Error(err))
		}
	}(next.generation)
}
