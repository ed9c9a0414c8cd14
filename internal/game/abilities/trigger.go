package abilities

import (
	"fmt"

	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
)

// TriggerKind enumerates the moments a triggered ability can react to.
type TriggerKind int

const (
	OnQuest TriggerKind = iota
	OnChallenge
	OnChallenged
	OnEnterPlay
	OnPlay
	OnLeavePlay
	OnBanished
	OnBanishedInChallenge
	OnDamageTaken
	OnDealsDamage
	OnTurnBegins
	OnTurnEnds
	OnReadyStep
	OnCardDrawn
	OnInkPlayed
	OnLoreGained
	OnSongSung
	OnActionPlayed
	OnItemPlayed
	OnExerted
	OnReadied
	OnChosen
)

// Subject names the event field a trigger's scope is checked against.
type Subject int

const (
	SubjectSource Subject = iota
	SubjectTarget
	SubjectPlayer
)

var triggerNames = map[TriggerKind]string{
	OnQuest:               "on_quest",
	OnChallenge:           "on_challenge",
	OnChallenged:          "on_challenged",
	OnEnterPlay:           "on_enter_play",
	OnPlay:                "on_play",
	OnLeavePlay:           "on_leave_play",
	OnBanished:            "on_banished",
	OnBanishedInChallenge: "on_banished_in_challenge",
	OnDamageTaken:         "on_damage_taken",
	OnDealsDamage:         "on_deals_damage",
	OnTurnBegins:          "on_turn_begins",
	OnTurnEnds:            "on_turn_ends",
	OnReadyStep:           "on_ready_step",
	OnCardDrawn:           "on_card_drawn",
	OnInkPlayed:           "on_ink_played",
	OnLoreGained:          "on_lore_gained",
	OnSongSung:            "on_song_sung",
	OnActionPlayed:        "on_action_played",
	OnItemPlayed:          "on_item_played",
	OnExerted:             "on_exerted",
	OnReadied:             "on_readied",
	OnChosen:              "on_chosen",
}

func (k TriggerKind) String() string {
	if name, ok := triggerNames[k]; ok {
		return name
	}
	return fmt.Sprintf("trigger_%d", int(k))
}

// ParseTriggerKind resolves a trigger kind by name.
func ParseTriggerKind(name string) (TriggerKind, bool) {
	for k, n := range triggerNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Binding returns the event type a trigger kind listens to and the event
// field naming its subject.
func (k TriggerKind) Binding() (rules.EventType, Subject) {
	switch k {
	case OnQuest:
		return rules.EventCharacterQuested, SubjectSource
	case OnChallenge:
		return rules.EventChallengeDeclared, SubjectSource
	case OnChallenged:
		return rules.EventChallengeDeclared, SubjectTarget
	case OnEnterPlay:
		return rules.EventCharacterEnteredPlay, SubjectTarget
	case OnPlay:
		return rules.EventCardPlayed, SubjectSource
	case OnLeavePlay:
		return rules.EventCharacterLeftPlay, SubjectTarget
	case OnBanished:
		return rules.EventCharacterBanished, SubjectTarget
	case OnBanishedInChallenge:
		return rules.EventBanishedInChallenge, SubjectTarget
	case OnDamageTaken:
		return rules.EventDamageTaken, SubjectTarget
	case OnDealsDamage:
		return rules.EventDamageDealt, SubjectSource
	case OnTurnBegins:
		return rules.EventTurnBegan, SubjectPlayer
	case OnTurnEnds:
		return rules.EventTurnEnded, SubjectPlayer
	case OnReadyStep:
		return rules.EventReadyStep, SubjectPlayer
	case OnCardDrawn:
		return rules.EventCardDrawn, SubjectPlayer
	case OnInkPlayed:
		return rules.EventInkPlayed, SubjectPlayer
	case OnLoreGained:
		return rules.EventLoreGained, SubjectPlayer
	case OnSongSung:
		return rules.EventSongSung, SubjectTarget
	case OnActionPlayed:
		return rules.EventActionPlayed, SubjectSource
	case OnItemPlayed:
		return rules.EventItemPlayed, SubjectSource
	case OnExerted:
		return rules.EventCharacterExerted, SubjectTarget
	case OnReadied:
		return rules.EventCharacterReadied, SubjectTarget
	case OnChosen:
		return rules.EventCharacterChosen, SubjectTarget
	default:
		return "", SubjectSource
	}
}

// TriggerScope restricts whose events a trigger reacts to.
type TriggerScope int

const (
	// ScopeSelf reacts only when the subject is the ability's own card (or,
	// for player events, its controller).
	ScopeSelf TriggerScope = iota
	// ScopeFriendly reacts to subjects controlled by the ability's controller.
	ScopeFriendly
	// ScopeOpposing reacts to subjects controlled by an opponent.
	ScopeOpposing
	// ScopeAny reacts to every subject.
	ScopeAny
)

func (s TriggerScope) String() string {
	switch s {
	case ScopeSelf:
		return "self"
	case ScopeFriendly:
		return "friendly"
	case ScopeOpposing:
		return "opposing"
	case ScopeAny:
		return "any"
	default:
		return fmt.Sprintf("scope_%d", int(s))
	}
}

// ParseTriggerScope resolves a scope by name.
func ParseTriggerScope(name string) (TriggerScope, bool) {
	for _, s := range []TriggerScope{ScopeSelf, ScopeFriendly, ScopeOpposing, ScopeAny} {
		if s.String() == name {
			return s, true
		}
	}
	return ScopeSelf, false
}

// TriggerSpec pairs a trigger kind with a scope.
type TriggerSpec struct {
	Kind  TriggerKind
	Scope TriggerScope
}

// When builds a trigger spec.
func When(kind TriggerKind, scope TriggerScope) TriggerSpec {
	return TriggerSpec{Kind: kind, Scope: scope}
}

func (t TriggerSpec) String() string {
	return t.Kind.String() + "/" + t.Scope.String()
}

// subject extracts the subject ID and its controlling player from an event.
func subject(ctx TriggerContext, s Subject) (id, controller string) {
	switch s {
	case SubjectSource:
		id = ctx.Event.SourceID
	case SubjectTarget:
		id = ctx.Event.TargetID
	case SubjectPlayer:
		return ctx.Event.PlayerID, ctx.Event.PlayerID
	}
	if card := ctx.Game.Card(id); card != nil {
		controller = card.OwnerID
	}
	return id, controller
}

// matches reports whether the event's subject satisfies the scope.
func (t TriggerSpec) matches(ctx TriggerContext) bool {
	_, s := t.Kind.Binding()
	id, controller := subject(ctx, s)
	if id == "" {
		return false
	}
	switch t.Scope {
	case ScopeSelf:
		if s == SubjectPlayer {
			return id == ctx.ControllerID
		}
		return id == ctx.SourceID
	case ScopeFriendly:
		return controller == ctx.ControllerID
	case ScopeOpposing:
		return controller != "" && controller != ctx.ControllerID
	case ScopeAny:
		return true
	default:
		return false
	}
}
