package engine

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/lorcanasim/lorcana-engine/internal/game/abilities"
	"github.com/lorcanasim/lorcana-engine/internal/game/choice"
	"github.com/lorcanasim/lorcana-engine/internal/game/effects"
	"github.com/lorcanasim/lorcana-engine/internal/game/protocol"
	"github.com/lorcanasim/lorcana-engine/internal/game/resolution"
	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
	"github.com/lorcanasim/lorcana-engine/internal/game/targeting"
)

// apply is the queue's ApplyFunc. Events published while the action runs
// are collected onto the result.
func (e *Engine) apply(a QueuedAction) ActionResult {
	e.collected = nil
	step, ok := e.applyEffect(a)
	if step.Kind == "" {
		step.Kind = protocol.StepNoOp
	}
	step.Events = e.collected
	e.collected = nil
	return ActionResult{
		Success:         ok,
		Step:            step,
		EventsEmitted:   step.Events,
		ChoiceRequested: step.Kind == protocol.StepChoiceRequested,
	}
}

// emit publishes an event and records it for the step being built.
func (e *Engine) emit(evt rules.Event) {
	e.collected = append(e.collected, evt)
	e.bus.Publish(evt)
}

func (e *Engine) event(t rules.EventType, target, source, player string, amount int) rules.Event {
	return rules.NewEventWithAmount(t, target, source, player, amount)
}

// stale builds the no-op step for an action whose target is gone.
func stale(a QueuedAction, why string) (protocol.Step, bool) {
	return protocol.Step{
		Kind:        protocol.StepNoOp,
		PlayerID:    a.Context.ControllerID,
		SourceID:    a.Context.SourceID,
		TargetID:    a.Target.ID(),
		Description: fmt.Sprintf("%s: %s", a.Effect, why),
	}, false
}

// cardIn resolves the action's card target and requires it in zone.
func (e *Engine) cardIn(a QueuedAction, zone state.Zone) (*state.Card, bool) {
	card := e.game.Card(a.Target.CardID)
	if card == nil || card.Zone != zone {
		return nil, false
	}
	return card, true
}

// playerOf resolves the player an action affects: the targeted player, the
// owner of a targeted card, or else the controller.
func (e *Engine) playerOf(a QueuedAction) *state.Player {
	switch {
	case a.Target.PlayerID != "":
		return e.game.Player(a.Target.PlayerID)
	case a.Target.CardID != "":
		if card := e.game.Card(a.Target.CardID); card != nil {
			return e.game.Player(card.OwnerID)
		}
		return nil
	default:
		return e.game.Player(a.Context.ControllerID)
	}
}

func (e *Engine) applyEffect(a QueuedAction) (protocol.Step, bool) {
	switch eff := a.Effect.(type) {
	case abilities.ModifyStat:
		return e.applyModifyStat(a, eff)
	case abilities.DealDamage:
		return e.applyDealDamage(a, eff)
	case abilities.Heal:
		return e.applyHeal(a, eff)
	case abilities.DrawCards:
		return e.applyDrawCards(a, eff)
	case abilities.DiscardCards:
		return e.applyDiscardCards(a, eff)
	case abilities.DiscardCard:
		return e.applyDiscardCard(a)
	case abilities.Banish:
		return e.applyBanish(a)
	case abilities.ReturnToHand:
		return e.applyReturnToHand(a)
	case abilities.Exert:
		return e.applyExert(a)
	case abilities.Ready:
		return e.applyReady(a)
	case abilities.GrantKeyword:
		return e.applyGrantKeyword(a, eff)
	case abilities.ModifyCost:
		return e.applyModifyCost(a, eff)
	case abilities.GainLore:
		return e.applyGainLore(a, eff)
	case abilities.LoseLore:
		return e.applyLoseLore(a, eff)
	case abilities.NoEffect:
		return protocol.Step{
			Kind:        protocol.StepNoOp,
			PlayerID:    a.Context.ControllerID,
			SourceID:    a.Context.SourceID,
			Description: eff.String(),
		}, true
	case abilities.Sequence:
		return e.applyBranch(a, eff)
	case abilities.Conditional:
		branch := eff.Else
		if eff.Guard == nil || eff.Guard(e.liveContext(a.Context)) {
			branch = eff.Then
		}
		return e.applyBranch(a, branch)
	case abilities.May:
		return e.applyMay(a, eff)
	case abilities.ChooseTargets:
		return e.applyChooseTargets(a, eff)
	case abilities.ChooseOne:
		return e.applyChooseOne(a, eff)
	case abilities.InkCard:
		return e.applyInkCard(a)
	case abilities.PlayCard:
		return e.applyPlayCard(a, eff)
	case abilities.Quest:
		return e.applyQuest(a)
	case abilities.CollectLore:
		return e.applyCollectLore(a)
	case abilities.DeclareChallenge:
		return e.applyDeclareChallenge(a, eff)
	case abilities.ExchangeChallengeDamage:
		return e.applyExchangeChallengeDamage(a, eff)
	case abilities.SingSong:
		return e.applySingSong(a, eff)
	case abilities.ReadyPhase:
		return e.readyPhase(a)
	case abilities.SetPhase:
		return e.setPhase(a)
	case abilities.DrawPhase:
		return e.drawPhase(a)
	case abilities.AdvancePhase:
		return e.advancePhase(a)
	case abilities.EndTurn:
		return e.endTurn(a)
	default:
		return stale(a, "unsupported effect")
	}
}

// liveContext refreshes the game pointer of a stored context so guards read
// current state.
func (e *Engine) liveContext(ctx abilities.TriggerContext) abilities.TriggerContext {
	ctx.Game = e.game
	if ctx.Watchers == nil {
		ctx.Watchers = e.watchers
	}
	if ctx.Keywords == nil {
		ctx.Keywords = e.abilities
	}
	return ctx
}

// applyBranch applies the first part of a branch now and queues the rest at
// the head, so a branch still costs one step per part.
func (e *Engine) applyBranch(a QueuedAction, branch abilities.Effect) (protocol.Step, bool) {
	parts := abilities.Flatten(branch)
	if len(parts) == 0 {
		return protocol.Step{
			Kind:        protocol.StepNoOp,
			PlayerID:    a.Context.ControllerID,
			SourceID:    a.Context.SourceID,
			Description: "condition not met",
		}, true
	}
	if len(parts) > 1 {
		rest := Build(abilities.Then(parts[1:]...), []targeting.Target{a.Target}, a.Context, a.Provenance)
		e.queue.PushFront(rest...)
	}
	a.Effect = parts[0]
	return e.applyEffect(a)
}

func (e *Engine) applyModifyStat(a QueuedAction, eff abilities.ModifyStat) (protocol.Step, bool) {
	card, ok := e.cardIn(a, state.ZonePlay)
	if !ok {
		return stale(a, "target not in play")
	}
	amount := eff.Amount
	if eff.Scaling != effects.StatNone {
		source := e.game.Card(a.Context.SourceID)
		if source == nil {
			return stale(a, "source gone")
		}
		amount = e.game.Snapshot(source).Value(eff.Scaling)
	}
	mod := effects.NewStatModifier(a.Context.SourceID, a.Context.ControllerID, card.ID, eff.Stat, amount, eff.Duration)
	e.game.Modifiers.AddEffect(mod)

	evt := e.event(rules.EventStatModified, card.ID, a.Context.SourceID, a.Context.ControllerID, amount)
	evt.Data = eff.Stat.String()
	e.emit(evt)

	step := protocol.Step{
		Kind:        protocol.StepStatModified,
		PlayerID:    a.Context.ControllerID,
		SourceID:    a.Context.SourceID,
		TargetID:    card.ID,
		Amount:      amount,
		Description: fmt.Sprintf("%s gets %+d %s", card.FullName(), amount, eff.Stat),
	}
	if card.IsCharacter() && !e.game.IsAlive(card) {
		e.banish(card, a.Context.SourceID, false)
		step.Description += " and is banished"
	}
	return step, true
}

func (e *Engine) applyDealDamage(a QueuedAction, eff abilities.DealDamage) (protocol.Step, bool) {
	target, ok := e.cardIn(a, state.ZonePlay)
	if !ok || !target.IsCharacter() {
		return stale(a, "target not a character in play")
	}
	source := e.game.Card(a.Context.SourceID)
	amount := e.damage.Calculate(source, target, eff.Amount, resolution.DamageAbility)
	step := protocol.Step{
		Kind:        protocol.StepDamageDealt,
		PlayerID:    a.Context.ControllerID,
		SourceID:    a.Context.SourceID,
		TargetID:    target.ID,
		Amount:      amount,
		Description: fmt.Sprintf("%d damage to %s", amount, target.FullName()),
	}
	if e.dealDamage(source, target, amount) {
		e.banish(target, a.Context.SourceID, false)
		step.Description += ", banished"
	}
	return step, true
}

// dealDamage puts damage on target and reports whether it must be banished.
func (e *Engine) dealDamage(source, target *state.Card, amount int) bool {
	if amount > 0 {
		target.Damage += amount
		sourceID, player := "", ""
		if source != nil {
			sourceID, player = source.ID, source.OwnerID
		}
		e.emit(e.event(rules.EventDamageDealt, target.ID, sourceID, player, amount))
		e.emit(e.event(rules.EventDamageTaken, target.ID, sourceID, target.OwnerID, amount))
	}
	return !e.game.IsAlive(target)
}

func (e *Engine) applyHeal(a QueuedAction, eff abilities.Heal) (protocol.Step, bool) {
	target, ok := e.cardIn(a, state.ZonePlay)
	if !ok || !target.IsCharacter() {
		return stale(a, "target not a character in play")
	}
	healed := eff.Amount
	if healed > target.Damage {
		healed = target.Damage
	}
	target.Damage -= healed
	if healed > 0 {
		e.emit(e.event(rules.EventHealed, target.ID, a.Context.SourceID, target.OwnerID, healed))
	}
	return protocol.Step{
		Kind:        protocol.StepHealed,
		PlayerID:    a.Context.ControllerID,
		SourceID:    a.Context.SourceID,
		TargetID:    target.ID,
		Amount:      healed,
		Description: fmt.Sprintf("removed %d damage from %s", healed, target.FullName()),
	}, true
}

func (e *Engine) applyDrawCards(a QueuedAction, eff abilities.DrawCards) (protocol.Step, bool) {
	p := e.playerOf(a)
	if p == nil {
		return stale(a, "player gone")
	}
	drawn := e.draw(p, eff.Count)
	return protocol.Step{
		Kind:        protocol.StepCardDrawn,
		PlayerID:    p.ID,
		SourceID:    a.Context.SourceID,
		Amount:      drawn,
		Description: fmt.Sprintf("%s draws %d", p.Name, drawn),
	}, true
}

// draw draws up to n cards, stopping quietly at an empty deck.
func (e *Engine) draw(p *state.Player, n int) int {
	drawn := 0
	for i := 0; i < n; i++ {
		card, err := e.game.Draw(p.ID)
		if err != nil {
			break
		}
		e.abilities.Sync(card.ID)
		e.emit(e.event(rules.EventCardDrawn, card.ID, "", p.ID, 1))
		drawn++
	}
	return drawn
}

func (e *Engine) applyDiscardCards(a QueuedAction, eff abilities.DiscardCards) (protocol.Step, bool) {
	p := e.playerOf(a)
	if p == nil {
		return stale(a, "player gone")
	}
	step := protocol.Step{
		Kind:     protocol.StepCardsDiscarded,
		PlayerID: p.ID,
		SourceID: a.Context.SourceID,
	}
	if len(p.Hand) <= eff.Count {
		hand := append([]*state.Card(nil), p.Hand...)
		for _, card := range hand {
			e.discard(card)
		}
		step.Amount = len(hand)
		step.Description = fmt.Sprintf("%s discards %d", p.Name, len(hand))
		return step, true
	}

	options := make([]choice.Option, 0, len(p.Hand))
	for _, card := range p.Hand {
		options = append(options, choice.Option{ID: card.ID, Label: card.FullName()})
	}
	prompt := fmt.Sprintf("Choose %d card(s) to discard", eff.Count)
	ctx := choice.SelectTargets(p.ID, a.Context.SourceID, prompt, options, eff.Count, eff.Count, false, func(selection []string) error {
		targets := make([]targeting.Target, 0, len(selection))
		for _, id := range selection {
			targets = append(targets, targeting.CardTarget(id))
		}
		e.queue.PushFront(Build(abilities.DiscardCard{}, targets, a.Context, a.Provenance)...)
		return nil
	})
	return e.requestChoice(a, ctx)
}

func (e *Engine) applyDiscardCard(a QueuedAction) (protocol.Step, bool) {
	card, ok := e.cardIn(a, state.ZoneHand)
	if !ok {
		return stale(a, "card not in hand")
	}
	e.discard(card)
	return protocol.Step{
		Kind:        protocol.StepCardsDiscarded,
		PlayerID:    card.OwnerID,
		SourceID:    a.Context.SourceID,
		TargetID:    card.ID,
		Amount:      1,
		Description: "discarded " + card.FullName(),
	}, true
}

func (e *Engine) discard(card *state.Card) {
	if _, err := e.game.MoveCard(card, state.ZoneDiscard); err != nil {
		e.logger.Warn("discard failed", zap.String("card_id", card.ID), zap.Error(err))
		return
	}
	e.abilities.Sync(card.ID)
	e.emit(e.event(rules.EventCardDiscarded, card.ID, "", card.OwnerID, 1))
}

func (e *Engine) applyBanish(a QueuedAction) (protocol.Step, bool) {
	card, ok := e.cardIn(a, state.ZonePlay)
	if !ok {
		return stale(a, "target not in play")
	}
	e.banish(card, a.Context.SourceID, false)
	return protocol.Step{
		Kind:        protocol.StepCharacterBanished,
		PlayerID:    card.OwnerID,
		SourceID:    a.Context.SourceID,
		TargetID:    card.ID,
		Description: card.FullName() + " banished",
	}, true
}

// banish announces the card leaving play while it is still live, so its own
// leave-play triggers fire, then moves it to the discard.
func (e *Engine) banish(card *state.Card, sourceID string, inChallenge bool) {
	if card.IsCharacter() {
		e.emit(e.event(rules.EventCharacterLeftPlay, card.ID, sourceID, card.OwnerID, 0))
	}
	e.emit(e.event(rules.EventCharacterBanished, card.ID, sourceID, card.OwnerID, 0))
	if inChallenge {
		e.emit(e.event(rules.EventBanishedInChallenge, card.ID, sourceID, card.OwnerID, 0))
	}
	e.leavePlay(card, state.ZoneDiscard)
}

// leavePlay moves a card out of play and drops the modifiers bound to it.
func (e *Engine) leavePlay(card *state.Card, to state.Zone) {
	if _, err := e.game.MoveCard(card, to); err != nil {
		e.logger.Warn("move out of play failed", zap.String("card_id", card.ID), zap.Error(err))
		return
	}
	effects.CleanupTargetLeftPlay(e.game.Modifiers, card.ID)
	effects.CleanupSourceLeftPlay(e.game.Modifiers, card.ID)
	e.abilities.Sync(card.ID)
}

func (e *Engine) applyReturnToHand(a QueuedAction) (protocol.Step, bool) {
	card, ok := e.cardIn(a, state.ZonePlay)
	if !ok {
		return stale(a, "target not in play")
	}
	if card.IsCharacter() {
		e.emit(e.event(rules.EventCharacterLeftPlay, card.ID, a.Context.SourceID, card.OwnerID, 0))
	}
	e.emit(e.event(rules.EventReturnedToHand, card.ID, a.Context.SourceID, card.OwnerID, 0))
	e.leavePlay(card, state.ZoneHand)
	return protocol.Step{
		Kind:        protocol.StepReturnedToHand,
		PlayerID:    card.OwnerID,
		SourceID:    a.Context.SourceID,
		TargetID:    card.ID,
		Description: card.FullName() + " returned to hand",
	}, true
}

func (e *Engine) applyExert(a QueuedAction) (protocol.Step, bool) {
	card, ok := e.cardIn(a, state.ZonePlay)
	if !ok {
		return stale(a, "target not in play")
	}
	card.Exerted = true
	e.emit(e.event(rules.EventCharacterExerted, card.ID, a.Context.SourceID, card.OwnerID, 0))
	return protocol.Step{
		Kind:        protocol.StepCharacterExerted,
		PlayerID:    card.OwnerID,
		SourceID:    a.Context.SourceID,
		TargetID:    card.ID,
		Description: card.FullName() + " exerted",
	}, true
}

// applyReady readies a card. A character that already acted this turn stays
// unable to act again.
func (e *Engine) applyReady(a QueuedAction) (protocol.Step, bool) {
	card, ok := e.cardIn(a, state.ZonePlay)
	if !ok {
		return stale(a, "target not in play")
	}
	card.Exerted = false
	e.emit(e.event(rules.EventCharacterReadied, card.ID, a.Context.SourceID, card.OwnerID, 0))
	return protocol.Step{
		Kind:        protocol.StepCharacterReadied,
		PlayerID:    card.OwnerID,
		SourceID:    a.Context.SourceID,
		TargetID:    card.ID,
		Description: card.FullName() + " readied",
	}, true
}

func (e *Engine) applyGrantKeyword(a QueuedAction, eff abilities.GrantKeyword) (protocol.Step, bool) {
	card, ok := e.cardIn(a, state.ZonePlay)
	if !ok {
		return stale(a, "target not in play")
	}
	grant := effects.NewKeywordGrant(a.Context.SourceID, a.Context.ControllerID, card.ID, eff.Keyword, eff.Value, eff.Duration)
	e.game.Modifiers.AddEffect(grant)
	evt := e.event(rules.EventKeywordGranted, card.ID, a.Context.SourceID, a.Context.ControllerID, eff.Value)
	evt.Data = string(eff.Keyword)
	e.emit(evt)
	return protocol.Step{
		Kind:        protocol.StepKeywordGranted,
		PlayerID:    a.Context.ControllerID,
		SourceID:    a.Context.SourceID,
		TargetID:    card.ID,
		Amount:      eff.Value,
		Description: fmt.Sprintf("%s gains %s", card.FullName(), eff.Keyword),
	}, true
}

func (e *Engine) applyModifyCost(a QueuedAction, eff abilities.ModifyCost) (protocol.Step, bool) {
	p := e.playerOf(a)
	if p == nil {
		return stale(a, "player gone")
	}
	mod := effects.NewCostModifier(a.Context.SourceID, p.ID, eff.Amount, eff.Filter, eff.Duration)
	e.game.Modifiers.AddEffect(mod)
	e.emit(e.event(rules.EventCostModified, "", a.Context.SourceID, p.ID, eff.Amount))
	return protocol.Step{
		Kind:        protocol.StepCostModified,
		PlayerID:    p.ID,
		SourceID:    a.Context.SourceID,
		Amount:      eff.Amount,
		Description: fmt.Sprintf("%s pays %+d", p.Name, eff.Amount),
	}, true
}

func (e *Engine) applyGainLore(a QueuedAction, eff abilities.GainLore) (protocol.Step, bool) {
	p := e.playerOf(a)
	if p == nil {
		return stale(a, "player gone")
	}
	e.gainLore(p, a.Context.SourceID, eff.Amount)
	return protocol.Step{
		Kind:        protocol.StepLoreGained,
		PlayerID:    p.ID,
		SourceID:    a.Context.SourceID,
		Amount:      eff.Amount,
		Description: fmt.Sprintf("%s gains %d lore (%d)", p.Name, eff.Amount, p.Lore),
	}, true
}

func (e *Engine) gainLore(p *state.Player, sourceID string, amount int) {
	if amount <= 0 {
		return
	}
	p.Lore += amount
	e.emit(e.event(rules.EventLoreGained, "", sourceID, p.ID, amount))
}

func (e *Engine) applyLoseLore(a QueuedAction, eff abilities.LoseLore) (protocol.Step, bool) {
	p := e.playerOf(a)
	if p == nil {
		return stale(a, "player gone")
	}
	lost := eff.Amount
	if lost > p.Lore {
		lost = p.Lore
	}
	p.Lore -= lost
	if lost > 0 {
		e.emit(e.event(rules.EventLoreLost, "", a.Context.SourceID, p.ID, lost))
	}
	return protocol.Step{
		Kind:        protocol.StepLoreLost,
		PlayerID:    p.ID,
		SourceID:    a.Context.SourceID,
		Amount:      lost,
		Description: fmt.Sprintf("%s loses %d lore (%d)", p.Name, lost, p.Lore),
	}, true
}

// requestChoice parks a choice; the pump reports it on the next call.
func (e *Engine) requestChoice(a QueuedAction, ctx *choice.Context) (protocol.Step, bool) {
	if err := e.choices.Request(ctx); err != nil {
		e.logger.Error("choice request failed", zap.String("action_id", a.ID), zap.Error(err))
		return stale(a, "choice already pending")
	}
	return protocol.Step{
		Kind:        protocol.StepChoiceRequested,
		PlayerID:    ctx.PlayerID,
		SourceID:    a.Context.SourceID,
		TargetID:    a.Target.ID(),
		Description: ctx.Prompt,
	}, true
}

func (e *Engine) applyMay(a QueuedAction, eff abilities.May) (protocol.Step, bool) {
	if a.Target.CardID != "" && e.game.Card(a.Target.CardID) == nil {
		return stale(a, "target gone")
	}
	prompt := eff.Prompt
	if prompt == "" {
		prompt = fmt.Sprintf("%s: %s?", a.Provenance, eff.Effect)
	}
	ctx := choice.YesNo(a.Context.ControllerID, a.Context.SourceID, prompt, func(selection []string) error {
		if selection[0] != choice.OptionYes {
			return nil
		}
		e.queue.PushFront(Build(eff.Effect, []targeting.Target{a.Target}, a.Context, a.Provenance)...)
		return nil
	})
	return e.requestChoice(a, ctx)
}

func (e *Engine) applyChooseTargets(a QueuedAction, eff abilities.ChooseTargets) (protocol.Step, bool) {
	chooser := a.Context.ControllerID
	ctx := e.liveContext(a.Context)
	candidates := e.validator.Candidates(targeting.Select(e.game, eff.Selector, ctx.Targeting()), chooser)
	if len(candidates) == 0 {
		return protocol.Step{
			Kind:        protocol.StepNoOp,
			PlayerID:    chooser,
			SourceID:    a.Context.SourceID,
			Description: "no valid targets",
		}, true
	}

	options := make([]choice.Option, 0, len(candidates))
	for _, t := range candidates {
		label := t.ID()
		if card := e.game.Card(t.CardID); card != nil {
			label = card.FullName()
		} else if p := e.game.Player(t.PlayerID); p != nil {
			label = p.Name
		}
		options = append(options, choice.Option{ID: t.ID(), Label: label})
	}
	prompt := eff.Prompt
	if prompt == "" {
		prompt = fmt.Sprintf("%s: choose targets", a.Provenance)
	}
	lo, hi := eff.Min, eff.Max
	if hi <= 0 {
		hi = 1
	}
	req := choice.SelectTargets(chooser, a.Context.SourceID, prompt, options, lo, hi, eff.Optional, func(selection []string) error {
		if len(selection) == 0 || (len(selection) == 1 && selection[0] == choice.OptionNone) {
			return nil
		}
		byID := make(map[string]targeting.Target, len(candidates))
		for _, t := range candidates {
			byID[t.ID()] = t
		}
		chosen := make([]targeting.Target, 0, len(selection))
		for _, id := range selection {
			t := byID[id]
			chosen = append(chosen, t)
			if t.CardID != "" {
				e.announceChosen(t.CardID, chooser, a.Context.SourceID)
			}
		}
		e.queue.PushFront(Build(eff.Effect, chosen, a.Context, a.Provenance)...)
		return nil
	})
	return e.requestChoice(a, req)
}

// announceChosen publishes that a card was chosen, tagging choices made by
// an action card.
func (e *Engine) announceChosen(cardID, chooser, sourceID string) {
	evt := e.event(rules.EventCharacterChosen, cardID, sourceID, chooser, 0)
	if source := e.game.Card(sourceID); source != nil && source.Kind == state.KindAction {
		evt = evt.WithMeta(abilities.MetaSourceKind, abilities.SourceKindAction)
	}
	e.emit(evt)
}

func (e *Engine) applyChooseOne(a QueuedAction, eff abilities.ChooseOne) (protocol.Step, bool) {
	if len(eff.Options) == 0 {
		return stale(a, "nothing to choose")
	}
	options := make([]choice.Option, 0, len(eff.Options))
	for i, o := range eff.Options {
		options = append(options, choice.Option{ID: strconv.Itoa(i), Label: o.Label})
	}
	prompt := eff.Prompt
	if prompt == "" {
		prompt = fmt.Sprintf("%s: choose one", a.Provenance)
	}
	ctx := choice.SelectOne(a.Context.ControllerID, a.Context.SourceID, prompt, options, func(selection []string) error {
		i, err := strconv.Atoi(selection[0])
		if err != nil || i < 0 || i >= len(eff.Options) {
			return fmt.Errorf("option %q out of range", selection[0])
		}
		e.queue.PushFront(Build(eff.Options[i].Effect, []targeting.Target{a.Target}, a.Context, a.Provenance)...)
		return nil
	})
	return e.requestChoice(a, ctx)
}
