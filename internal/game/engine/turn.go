package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lorcanasim/lorcana-engine/internal/game/abilities"
	"github.com/lorcanasim/lorcana-engine/internal/game/effects"
	"github.com/lorcanasim/lorcana-engine/internal/game/protocol"
	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
	"github.com/lorcanasim/lorcana-engine/internal/game/targeting"
)

// phaseProcedure returns the procedure run when the queue is empty in a
// phase other than Play.
func phaseProcedure(p rules.Phase) abilities.Effect {
	switch p {
	case rules.PhaseReady:
		return abilities.ReadyPhase{}
	case rules.PhaseSet:
		return abilities.SetPhase{}
	case rules.PhaseDraw:
		return abilities.DrawPhase{}
	default:
		return nil
	}
}

// enqueueProcedure queues a rules procedure for the active player.
func (e *Engine) enqueueProcedure(effect abilities.Effect) {
	active := e.game.Turn.ActivePlayer()
	ctx := abilities.TriggerContext{
		Game:         e.game,
		ControllerID: active,
		Watchers:     e.watchers,
		Keywords:     e.abilities,
	}
	e.queue.Enqueue(effect, []targeting.Target{targeting.PlayerTarget(active)}, ctx, "rules: "+effect.String())
}

func (e *Engine) readyPhase(a QueuedAction) (protocol.Step, bool) {
	p := e.playerOf(a)
	if p == nil {
		return stale(a, "player gone")
	}
	effects.CleanupStartOfTurn(e.game.Modifiers, p.ID)
	for _, card := range p.InPlay() {
		card.Exerted = false
		card.Dry = true
	}
	p.Ink.Refresh()

	turn := e.game.Turn.TurnNumber()
	e.logger.Info("turn began",
		zap.String("game_id", e.game.ID),
		zap.String("player_id", p.ID),
		zap.Int("turn", turn),
	)
	e.emit(e.event(rules.EventTurnBegan, "", "", p.ID, turn))
	e.emit(e.event(rules.EventReadyStep, "", "", p.ID, 0))
	e.enqueueProcedure(abilities.AdvancePhase{})
	return protocol.Step{
		Kind:        protocol.StepTurnBegan,
		PlayerID:    p.ID,
		Amount:      turn,
		Description: fmt.Sprintf("turn %d: %s readies", turn, p.Name),
	}, true
}

func (e *Engine) setPhase(a QueuedAction) (protocol.Step, bool) {
	e.enqueueProcedure(abilities.AdvancePhase{})
	return protocol.Step{
		Kind:        protocol.StepPhaseAdvanced,
		PlayerID:    e.game.Turn.ActivePlayer(),
		Description: "set phase",
	}, true
}

func (e *Engine) drawPhase(a QueuedAction) (protocol.Step, bool) {
	p := e.playerOf(a)
	if p == nil {
		return stale(a, "player gone")
	}
	e.enqueueProcedure(abilities.AdvancePhase{})
	step := protocol.Step{Kind: protocol.StepCardDrawn, PlayerID: p.ID}
	turn := e.game.Turn
	if e.opts.FirstPlayerSkipsDraw && turn.TurnNumber() == 1 && p.ID == turn.FirstPlayer() {
		step.Description = p.Name + " skips the first draw"
		return step, true
	}
	step.Amount = e.draw(p, 1)
	step.Description = fmt.Sprintf("%s draws %d", p.Name, step.Amount)
	return step, true
}

// advancePhase moves to the next phase. Turn trackers reset on reaching Set.
func (e *Engine) advancePhase(a QueuedAction) (protocol.Step, bool) {
	phase, _ := e.game.Turn.AdvancePhase()
	if phase == rules.PhaseSet {
		e.game.ResetTurnTrackers()
	}
	active := e.game.Turn.ActivePlayer()
	evt := e.event(rules.EventPhaseChanged, "", "", active, e.game.Turn.TurnNumber())
	evt.Data = phase.String()
	e.emit(evt)
	e.logger.Debug("phase advanced",
		zap.String("player_id", active),
		zap.String("phase", phase.String()),
	)
	return protocol.Step{
		Kind:        protocol.StepPhaseAdvanced,
		PlayerID:    active,
		Description: "phase " + phase.String(),
	}, true
}

// endTurn closes the active player's turn. A turn with no action counts
// toward the stalemate limit; any action resets it.
func (e *Engine) endTurn(a QueuedAction) (protocol.Step, bool) {
	active := e.game.Turn.ActivePlayer()
	trackers := &e.game.Trackers
	if trackers.ActionsThisTurn == 0 {
		trackers.ConsecutivePasses++
	} else {
		trackers.ConsecutivePasses = 0
	}

	e.emit(e.event(rules.EventTurnEnded, "", "", active, e.game.Turn.TurnNumber()))
	effects.CleanupEndOfTurn(e.game.Modifiers)
	e.watchers.ResetScope(rules.WatcherScopeTurn)

	for e.game.Turn.CurrentPhase() != rules.PhaseReady {
		e.game.Turn.AdvancePhase()
	}
	e.logger.Info("turn ended",
		zap.String("game_id", e.game.ID),
		zap.String("player_id", active),
		zap.String("next_player", e.game.Turn.ActivePlayer()),
		zap.Int("consecutive_passes", trackers.ConsecutivePasses),
	)
	return protocol.Step{
		Kind:        protocol.StepTurnEnded,
		PlayerID:    active,
		Amount:      trackers.ConsecutivePasses,
		Description: "turn ended",
	}, true
}

// checkTerminal records a terminal result when one applies. Lore is checked
// first, then deck exhaustion at the start of a turn, then stalemate.
func (e *Engine) checkTerminal() bool {
	gs := e.game
	if gs.Finished() {
		return true
	}
	for _, p := range e.seatOrderFromActive() {
		if p.Lore >= e.opts.LoreToWin {
			gs.Finish(state.ResultLoreVictory, p.ID)
			return true
		}
	}

	turn := gs.Turn
	if turn.TurnNumber() > 1 && turn.CurrentPhase() == rules.PhaseReady && !e.queue.HasPending() {
		if p := gs.CurrentPlayer(); p != nil && len(p.Deck) == 0 && len(p.Hand) == 0 {
			winner := ""
			if opps := gs.Opponents(p.ID); len(opps) == 1 {
				winner = opps[0].ID
			}
			gs.Finish(state.ResultDeckExhaustion, winner)
			return true
		}
	}

	if e.opts.MaxConsecutivePasses > 0 && gs.Trackers.ConsecutivePasses >= e.opts.MaxConsecutivePasses {
		gs.Finish(state.ResultStalemate, "")
		return true
	}
	return false
}

func (e *Engine) seatOrderFromActive() []*state.Player {
	players := e.game.Players
	start := e.game.Turn.ActiveIndex()
	out := make([]*state.Player, 0, len(players))
	for i := range players {
		out = append(out, players[(start+i)%len(players)])
	}
	return out
}
