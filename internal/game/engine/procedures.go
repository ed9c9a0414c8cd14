package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lorcanasim/lorcana-engine/internal/game/abilities"
	"github.com/lorcanasim/lorcana-engine/internal/game/ink"
	"github.com/lorcanasim/lorcana-engine/internal/game/protocol"
	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

func (e *Engine) applyInkCard(a QueuedAction) (protocol.Step, bool) {
	card, ok := e.cardIn(a, state.ZoneHand)
	if !ok {
		return stale(a, "card not in hand")
	}
	if _, err := e.game.MoveCard(card, state.ZoneInkwell); err != nil {
		return stale(a, err.Error())
	}
	e.abilities.Sync(card.ID)
	e.game.Trackers.InkPlayed = true
	e.game.Trackers.ActionsThisTurn++
	e.emit(e.event(rules.EventInkPlayed, card.ID, card.ID, card.OwnerID, 1))

	owner := e.game.Player(card.OwnerID)
	return protocol.Step{
		Kind:        protocol.StepInkPlayed,
		PlayerID:    card.OwnerID,
		SourceID:    card.ID,
		Amount:      owner.Ink.Capacity(),
		Description: fmt.Sprintf("%s inked %s", owner.Name, card.FullName()),
	}, true
}

func (e *Engine) applyPlayCard(a QueuedAction, eff abilities.PlayCard) (protocol.Step, bool) {
	card, ok := e.cardIn(a, state.ZoneHand)
	if !ok {
		return stale(a, "card not in hand")
	}
	owner := e.game.Player(card.OwnerID)

	var base *state.Card
	cost := e.cost.Cost(e.game, card)
	if eff.ShiftOnto != "" {
		base = e.game.Card(eff.ShiftOnto)
		if base == nil || base.Zone != state.ZonePlay || base.OwnerID != card.OwnerID {
			return stale(a, "shift target not in play")
		}
		shiftCost, ok := e.cost.ShiftCost(e.game, card)
		if !ok {
			return stale(a, "card has no shift")
		}
		cost = shiftCost
	}
	if !owner.Ink.CanPay(cost) {
		return stale(a, fmt.Sprintf("%v: need %d, have %d", ink.ErrInsufficientInk, cost, owner.Ink.Available()))
	}

	// ink is spent only once the card has moved
	switch {
	case card.Kind == state.KindAction:
		if _, err := e.game.MoveCard(card, state.ZoneDiscard); err != nil {
			return stale(a, err.Error())
		}
	case base != nil:
		if err := e.shift(card, base); err != nil {
			return stale(a, err.Error())
		}
	default:
		if _, err := e.game.MoveCard(card, state.ZonePlay); err != nil {
			return stale(a, err.Error())
		}
	}
	if err := owner.Ink.Pay(cost); err != nil {
		e.logger.Warn("ink payment failed after play", zap.String("card_id", card.ID), zap.Error(err))
	}
	e.game.Trackers.ActionsThisTurn++
	e.abilities.Sync(card.ID)

	step := protocol.Step{
		Kind:        protocol.StepCardPlayed,
		PlayerID:    owner.ID,
		SourceID:    card.ID,
		Amount:      cost,
		Description: fmt.Sprintf("%s played %s for %d", owner.Name, card.FullName(), cost),
	}
	e.emit(e.event(rules.EventCardPlayed, "", card.ID, owner.ID, cost))
	switch {
	case card.Kind == state.KindAction:
		e.emit(e.event(rules.EventActionPlayed, "", card.ID, owner.ID, cost))
	case card.Kind == state.KindItem:
		e.emit(e.event(rules.EventItemPlayed, "", card.ID, owner.ID, cost))
	default:
		if base != nil {
			step.TargetID = base.ID
			step.Description = fmt.Sprintf("%s shifted %s onto %s for %d", owner.Name, card.FullName(), base.FullName(), cost)
		}
		e.emit(e.event(rules.EventCharacterEnteredPlay, card.ID, card.ID, owner.ID, 0))
	}
	return step, true
}

// shift puts card into play on top of base. The new character keeps the
// base's exertion, dryness, damage and acted status; the base goes to the
// discard without being banished.
func (e *Engine) shift(card, base *state.Card) error {
	exerted, dry, damage := base.Exerted, base.Dry, base.Damage
	acted := e.game.HasActed(base.ID)

	if _, err := e.game.MoveCard(card, state.ZonePlay); err != nil {
		return fmt.Errorf("shift %s: %w", card.ID, err)
	}
	e.leavePlay(base, state.ZoneDiscard)
	card.Exerted = exerted
	card.Dry = dry
	card.Damage = damage
	if acted {
		e.game.MarkActed(card.ID)
	}
	return nil
}

func (e *Engine) applyQuest(a QueuedAction) (protocol.Step, bool) {
	card, ok := e.cardIn(a, state.ZonePlay)
	if !ok || !card.IsCharacter() {
		return stale(a, "quester not in play")
	}
	card.Exerted = true
	e.game.MarkActed(card.ID)
	e.game.Trackers.ActionsThisTurn++
	e.emit(e.event(rules.EventCharacterQuested, "", card.ID, card.OwnerID, e.game.LoreValue(card)))
	return protocol.Step{
		Kind:        protocol.StepCharacterQuested,
		PlayerID:    card.OwnerID,
		SourceID:    card.ID,
		Description: card.FullName() + " quests",
	}, true
}

func (e *Engine) applyCollectLore(a QueuedAction) (protocol.Step, bool) {
	card, ok := e.cardIn(a, state.ZonePlay)
	if !ok {
		return stale(a, "quester not in play")
	}
	owner := e.game.Player(card.OwnerID)
	lore := e.game.LoreValue(card)
	e.gainLore(owner, card.ID, lore)
	return protocol.Step{
		Kind:        protocol.StepLoreGained,
		PlayerID:    owner.ID,
		SourceID:    card.ID,
		Amount:      lore,
		Description: fmt.Sprintf("%s gains %d lore (%d)", owner.Name, lore, owner.Lore),
	}, true
}

func (e *Engine) applyDeclareChallenge(a QueuedAction, eff abilities.DeclareChallenge) (protocol.Step, bool) {
	attacker, ok := e.cardIn(a, state.ZonePlay)
	if !ok {
		return stale(a, "attacker not in play")
	}
	defender := e.game.Card(eff.DefenderID)
	if defender == nil || defender.Zone != state.ZonePlay {
		return stale(a, "defender not in play")
	}
	attacker.Exerted = true
	e.game.MarkActed(attacker.ID)
	e.game.Trackers.ActionsThisTurn++
	e.emit(e.event(rules.EventChallengeDeclared, defender.ID, attacker.ID, attacker.OwnerID, 0))
	return protocol.Step{
		Kind:        protocol.StepChallengeDeclared,
		PlayerID:    attacker.OwnerID,
		SourceID:    attacker.ID,
		TargetID:    defender.ID,
		Description: fmt.Sprintf("%s challenges %s", attacker.FullName(), defender.FullName()),
	}, true
}

// applyExchangeChallengeDamage deals both sides' damage from the state
// before either is applied, then banishes the defender before the attacker.
func (e *Engine) applyExchangeChallengeDamage(a QueuedAction, eff abilities.ExchangeChallengeDamage) (protocol.Step, bool) {
	attacker, ok := e.cardIn(a, state.ZonePlay)
	if !ok {
		return stale(a, "attacker not in play")
	}
	defender := e.game.Card(eff.DefenderID)
	if defender == nil || defender.Zone != state.ZonePlay {
		return stale(a, "defender not in play")
	}
	toDefender, toAttacker := e.damage.Challenge(e.game, attacker, defender)
	defenderDown := e.dealDamage(attacker, defender, toDefender)
	attackerDown := e.dealDamage(defender, attacker, toAttacker)

	desc := fmt.Sprintf("%s deals %d to %s and takes %d", attacker.FullName(), toDefender, defender.FullName(), toAttacker)
	if defenderDown {
		e.banish(defender, attacker.ID, true)
		desc += "; " + defender.FullName() + " banished"
	}
	if attackerDown {
		e.banish(attacker, defender.ID, true)
		desc += "; " + attacker.FullName() + " banished"
	}
	return protocol.Step{
		Kind:        protocol.StepChallengeResolved,
		PlayerID:    attacker.OwnerID,
		SourceID:    attacker.ID,
		TargetID:    defender.ID,
		Amount:      toDefender,
		Description: desc,
	}, true
}

func (e *Engine) applySingSong(a QueuedAction, eff abilities.SingSong) (protocol.Step, bool) {
	singer, ok := e.cardIn(a, state.ZonePlay)
	if !ok {
		return stale(a, "singer not in play")
	}
	song := e.game.Card(eff.SongID)
	if song == nil || song.Zone != state.ZoneHand || song.OwnerID != singer.OwnerID {
		return stale(a, "song not in hand")
	}
	singer.Exerted = true
	e.game.MarkActed(singer.ID)
	e.game.Trackers.ActionsThisTurn++
	if _, err := e.game.MoveCard(song, state.ZoneDiscard); err != nil {
		return stale(a, err.Error())
	}
	e.abilities.Sync(song.ID)

	e.emit(e.event(rules.EventSongSung, singer.ID, song.ID, singer.OwnerID, song.SongCost()))
	e.emit(e.event(rules.EventCardPlayed, "", song.ID, singer.OwnerID, 0))
	e.emit(e.event(rules.EventActionPlayed, "", song.ID, singer.OwnerID, 0))
	return protocol.Step{
		Kind:        protocol.StepSongSung,
		PlayerID:    singer.OwnerID,
		SourceID:    song.ID,
		TargetID:    singer.ID,
		Description: fmt.Sprintf("%s sings %s", singer.FullName(), song.FullName()),
	}, true
}
