package abilities

import (
	"fmt"
	"strings"

	"github.com/lorcanasim/lorcana-engine/internal/game/effects"
	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/targeting"
)

// EffectKind tags every effect variant.
type EffectKind int

const (
	// primitives
	KindModifyStat EffectKind = iota
	KindDealDamage
	KindHeal
	KindDrawCards
	KindDiscardCards
	KindBanish
	KindReturnToHand
	KindExert
	KindReady
	KindGrantKeyword
	KindModifyCost
	KindGainLore
	KindLoseLore
	KindNoEffect

	// combinators
	KindSequence
	KindConditional

	// choices
	KindMay
	KindChooseTargets
	KindChooseOne

	// rules procedures
	KindInkCard
	KindPlayCard
	KindQuest
	KindCollectLore
	KindDeclareChallenge
	KindExchangeChallengeDamage
	KindSingSong
	KindDiscardCard
	KindReadyPhase
	KindSetPhase
	KindDrawPhase
	KindAdvancePhase
	KindEndTurn
)

var effectKindNames = map[EffectKind]string{
	KindModifyStat:              "modify_stat",
	KindDealDamage:              "deal_damage",
	KindHeal:                    "heal",
	KindDrawCards:               "draw_cards",
	KindDiscardCards:            "discard_cards",
	KindBanish:                  "banish",
	KindReturnToHand:            "return_to_hand",
	KindExert:                   "exert",
	KindReady:                   "ready",
	KindGrantKeyword:            "grant_keyword",
	KindModifyCost:              "modify_cost",
	KindGainLore:                "gain_lore",
	KindLoseLore:                "lose_lore",
	KindNoEffect:                "no_effect",
	KindSequence:                "sequence",
	KindConditional:             "conditional",
	KindMay:                     "may",
	KindChooseTargets:           "choose_targets",
	KindChooseOne:               "choose_one",
	KindInkCard:                 "ink_card",
	KindPlayCard:                "play_card",
	KindQuest:                   "quest",
	KindCollectLore:             "collect_lore",
	KindDeclareChallenge:        "declare_challenge",
	KindExchangeChallengeDamage: "exchange_challenge_damage",
	KindSingSong:                "sing_song",
	KindDiscardCard:             "discard_card",
	KindReadyPhase:              "ready_phase",
	KindSetPhase:                "set_phase",
	KindDrawPhase:               "draw_phase",
	KindAdvancePhase:            "advance_phase",
	KindEndTurn:                 "end_turn",
}

func (k EffectKind) String() string {
	if name, ok := effectKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("effect_%d", int(k))
}

// Effect is a declarative description of a state change. Effects hold data
// only; the engine applies them.
type Effect interface {
	Kind() EffectKind
	String() string
}

// ModifyStat changes a stat of the target. When Scaling is set, the amount
// is the source card's current value of that stat instead of Amount.
type ModifyStat struct {
	Stat     effects.Stat
	Amount   int
	Duration effects.Duration
	Scaling  effects.Stat
}

func (ModifyStat) Kind() EffectKind { return KindModifyStat }
func (e ModifyStat) String() string {
	if e.Scaling != effects.StatNone {
		return fmt.Sprintf("+%s equal to %s (%s)", e.Stat, e.Scaling, e.Duration)
	}
	return fmt.Sprintf("%+d %s (%s)", e.Amount, e.Stat, e.Duration)
}

// DealDamage deals damage to the target character.
type DealDamage struct{ Amount int }

func (DealDamage) Kind() EffectKind { return KindDealDamage }
func (e DealDamage) String() string { return fmt.Sprintf("deal %d damage", e.Amount) }

// Heal removes up to Amount damage from the target character.
type Heal struct{ Amount int }

func (Heal) Kind() EffectKind { return KindHeal }
func (e Heal) String() string { return fmt.Sprintf("remove up to %d damage", e.Amount) }

// DrawCards makes the target player draw.
type DrawCards struct{ Count int }

func (DrawCards) Kind() EffectKind { return KindDrawCards }
func (e DrawCards) String() string { return fmt.Sprintf("draw %d", e.Count) }

// DiscardCards makes the target player discard Count cards of their choice.
type DiscardCards struct{ Count int }

func (DiscardCards) Kind() EffectKind { return KindDiscardCards }
func (e DiscardCards) String() string { return fmt.Sprintf("discard %d", e.Count) }

// Banish moves the target character or item to its owner's discard.
type Banish struct{}

func (Banish) Kind() EffectKind { return KindBanish }
func (Banish) String() string   { return "banish" }

// ReturnToHand returns the target card to its owner's hand.
type ReturnToHand struct{}

func (ReturnToHand) Kind() EffectKind { return KindReturnToHand }
func (ReturnToHand) String() string   { return "return to hand" }

// Exert exerts the target.
type Exert struct{}

func (Exert) Kind() EffectKind { return KindExert }
func (Exert) String() string   { return "exert" }

// Ready readies the target.
type Ready struct{}

func (Ready) Kind() EffectKind { return KindReady }
func (Ready) String() string   { return "ready" }

// GrantKeyword gives the target a keyword for a duration.
type GrantKeyword struct {
	Keyword  keywords.Keyword
	Value    int
	Duration effects.Duration
}

func (GrantKeyword) Kind() EffectKind { return KindGrantKeyword }
func (e GrantKeyword) String() string {
	if e.Value > 0 {
		return fmt.Sprintf("gain %s %d (%s)", e.Keyword, e.Value, e.Duration)
	}
	return fmt.Sprintf("gain %s (%s)", e.Keyword, e.Duration)
}

// ModifyCost changes what the target player pays for matching cards.
type ModifyCost struct {
	Amount   int
	Filter   func(*effects.Snapshot) bool
	Duration effects.Duration
}

func (ModifyCost) Kind() EffectKind { return KindModifyCost }
func (e ModifyCost) String() string { return fmt.Sprintf("cost %+d (%s)", e.Amount, e.Duration) }

// GainLore gives the target player lore.
type GainLore struct{ Amount int }

func (GainLore) Kind() EffectKind { return KindGainLore }
func (e GainLore) String() string { return fmt.Sprintf("gain %d lore", e.Amount) }

// LoseLore removes lore from the target player, never below zero.
type LoseLore struct{ Amount int }

func (LoseLore) Kind() EffectKind { return KindLoseLore }
func (e LoseLore) String() string { return fmt.Sprintf("lose %d lore", e.Amount) }

// NoEffect is applied as a visible step that changes nothing.
type NoEffect struct{ Reason string }

func (NoEffect) Kind() EffectKind { return KindNoEffect }
func (e NoEffect) String() string {
	if e.Reason == "" {
		return "no effect"
	}
	return "no effect: " + e.Reason
}

// Sequence is an ordered list of effects, each queued as its own step.
type Sequence struct{ Effects []Effect }

// Then builds a sequence.
func Then(effects ...Effect) Sequence { return Sequence{Effects: effects} }

func (Sequence) Kind() EffectKind { return KindSequence }
func (e Sequence) String() string {
	parts := make([]string, 0, len(e.Effects))
	for _, sub := range e.Effects {
		parts = append(parts, sub.String())
	}
	return "then(" + strings.Join(parts, "; ") + ")"
}

// Conditional applies Then when Guard holds at application time, Else
// otherwise. A nil branch does nothing.
type Conditional struct {
	Guard Condition
	Then  Effect
	Else  Effect
}

func (Conditional) Kind() EffectKind { return KindConditional }
func (e Conditional) String() string {
	if e.Else == nil {
		return fmt.Sprintf("if (...) %v", e.Then)
	}
	return fmt.Sprintf("if (...) %v else %v", e.Then, e.Else)
}

// May asks the controller whether to apply Effect.
type May struct {
	Prompt string
	Effect Effect
}

func (May) Kind() EffectKind { return KindMay }
func (e May) String() string { return "may: " + e.Effect.String() }

// ChooseTargets asks the controller to choose between Min and Max targets
// from the selector and applies Effect to each chosen target.
type ChooseTargets struct {
	Prompt   string
	Selector targeting.Selector
	Min      int
	Max      int
	Optional bool
	Effect   Effect
}

func (ChooseTargets) Kind() EffectKind { return KindChooseTargets }
func (e ChooseTargets) String() string {
	return fmt.Sprintf("choose %d-%d %s: %v", e.Min, e.Max, e.Selector, e.Effect)
}

// Option is one labeled branch of a ChooseOne.
type Option struct {
	Label  string
	Effect Effect
}

// ChooseOne asks the controller to pick one labeled effect.
type ChooseOne struct {
	Prompt  string
	Options []Option
}

func (ChooseOne) Kind() EffectKind { return KindChooseOne }
func (e ChooseOne) String() string {
	labels := make([]string, 0, len(e.Options))
	for _, o := range e.Options {
		labels = append(labels, o.Label)
	}
	return "choose one of: " + strings.Join(labels, " / ")
}

// InkCard puts the target card from hand into its owner's inkwell.
type InkCard struct{}

func (InkCard) Kind() EffectKind { return KindInkCard }
func (InkCard) String() string   { return "ink card" }

// PlayCard pays for and plays the target card from hand. ShiftOnto names the
// character the card is shifted onto, if any.
type PlayCard struct{ ShiftOnto string }

func (PlayCard) Kind() EffectKind { return KindPlayCard }
func (e PlayCard) String() string {
	if e.ShiftOnto != "" {
		return "shift onto " + e.ShiftOnto
	}
	return "play card"
}

// Quest exerts the target character and marks it as having acted.
type Quest struct{}

func (Quest) Kind() EffectKind { return KindQuest }
func (Quest) String() string   { return "quest" }

// CollectLore gives the questing character's controller its lore value.
type CollectLore struct{}

func (CollectLore) Kind() EffectKind { return KindCollectLore }
func (CollectLore) String() string   { return "collect lore" }

// DeclareChallenge exerts the target attacker and announces the challenge.
type DeclareChallenge struct{ DefenderID string }

func (DeclareChallenge) Kind() EffectKind { return KindDeclareChallenge }
func (e DeclareChallenge) String() string { return "challenge " + e.DefenderID }

// ExchangeChallengeDamage deals challenge damage between the target
// attacker and the defender simultaneously.
type ExchangeChallengeDamage struct{ DefenderID string }

func (ExchangeChallengeDamage) Kind() EffectKind { return KindExchangeChallengeDamage }
func (e ExchangeChallengeDamage) String() string {
	return "exchange challenge damage with " + e.DefenderID
}

// SingSong exerts the target singer and plays the song for free.
type SingSong struct{ SongID string }

func (SingSong) Kind() EffectKind { return KindSingSong }
func (e SingSong) String() string { return "sing " + e.SongID }

// DiscardCard moves the target card from hand to the discard.
type DiscardCard struct{}

func (DiscardCard) Kind() EffectKind { return KindDiscardCard }
func (DiscardCard) String() string   { return "discard card" }

// ReadyPhase readies the target player's cards and ink.
type ReadyPhase struct{}

func (ReadyPhase) Kind() EffectKind { return KindReadyPhase }
func (ReadyPhase) String() string   { return "ready phase" }

// SetPhase resets turn trackers.
type SetPhase struct{}

func (SetPhase) Kind() EffectKind { return KindSetPhase }
func (SetPhase) String() string   { return "set phase" }

// DrawPhase draws the turn's card.
type DrawPhase struct{}

func (DrawPhase) Kind() EffectKind { return KindDrawPhase }
func (DrawPhase) String() string   { return "draw phase" }

// AdvancePhase moves the turn to its next phase.
type AdvancePhase struct{}

func (AdvancePhase) Kind() EffectKind { return KindAdvancePhase }
func (AdvancePhase) String() string   { return "advance phase" }

// EndTurn ends the active player's turn.
type EndTurn struct{}

func (EndTurn) Kind() EffectKind { return KindEndTurn }
func (EndTurn) String() string   { return "end turn" }

// Flatten expands nested sequences into their primitive steps, in order.
func Flatten(e Effect) []Effect {
	seq, ok := e.(Sequence)
	if !ok {
		if e == nil {
			return nil
		}
		return []Effect{e}
	}
	var out []Effect
	for _, sub := range seq.Effects {
		out = append(out, Flatten(sub)...)
	}
	return out
}
