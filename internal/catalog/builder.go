package catalog

import (
	"fmt"
	"strings"

	"github.com/lorcanasim/lorcana-engine/internal/game/abilities"
	"github.com/lorcanasim/lorcana-engine/internal/game/effects"
	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
	"github.com/lorcanasim/lorcana-engine/internal/game/targeting"
)

// KeywordSource builds keyword abilities. *abilities.Registry implements it.
type KeywordSource interface {
	Keyword(k keywords.Keyword, value int) (abilities.Ability, bool)
}

type keywordRef struct {
	keyword keywords.Keyword
	value   int
}

// compiled is a definition with its ability specs already turned into
// records. Keyword abilities are produced per game from a KeywordSource.
type compiled struct {
	def       Definition
	keywords  []keywordRef
	abilities []abilities.Ability
}

// Builder maps ability specs to ability records.
type Builder struct {
	keywords *keywords.Registry
}

// NewBuilder creates a builder that resolves keyword names through kw.
func NewBuilder(kw *keywords.Registry) *Builder {
	if kw == nil {
		kw = keywords.NewRegistry()
	}
	return &Builder{keywords: kw}
}

// Abilities builds the non-keyword abilities of a definition.
func (b *Builder) Abilities(def Definition) ([]abilities.Ability, error) {
	c, err := b.compile(def)
	if err != nil {
		return nil, err
	}
	return c.abilities, nil
}

func (b *Builder) compile(def Definition) (compiled, error) {
	if err := def.Validate(); err != nil {
		return compiled{}, err
	}
	out := compiled{def: def}
	for _, ks := range def.Keywords {
		k, ok := b.keywords.Parse(ks.Keyword)
		if !ok {
			return compiled{}, b.fail(def, "unknown keyword %q", ks.Keyword)
		}
		out.keywords = append(out.keywords, keywordRef{keyword: k, value: ks.Value})
	}
	kind, _ := state.ParseKind(def.Kind)
	for i, spec := range def.Abilities {
		ability, err := b.ability(spec, kind)
		if err != nil {
			return compiled{}, b.fail(def, "ability %d (%s): %v", i, spec.Name, err)
		}
		out.abilities = append(out.abilities, ability)
	}
	return out, nil
}

func (b *Builder) fail(def Definition, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidDefinition, def.ID, fmt.Sprintf(format, args...))
}

func (b *Builder) ability(spec AbilitySpec, kind state.CardKind) (abilities.Ability, error) {
	name := spec.Name
	if spec.Static != nil {
		stat, ok := effects.ParseStat(spec.Static.Stat)
		if !ok {
			return abilities.Ability{}, fmt.Errorf("unknown stat %q", spec.Static.Stat)
		}
		return abilities.Aura(name, abilities.StaticSpec{
			Stat:        stat,
			Amount:      spec.Static.Amount,
			IncludeSelf: spec.Static.IncludeSelf,
			Subtype:     spec.Static.Subtype,
		}), nil
	}

	if spec.Effect == nil {
		return abilities.Ability{}, fmt.Errorf("missing effect")
	}
	effect, err := b.effect(*spec.Effect)
	if err != nil {
		return abilities.Ability{}, err
	}
	sel := targeting.Controller()
	if spec.Selector != nil {
		if sel, err = b.selector(*spec.Selector); err != nil {
			return abilities.Ability{}, err
		}
	}

	if spec.Trigger == "" {
		if kind != state.KindAction {
			return abilities.Ability{}, fmt.Errorf("only actions may omit a trigger")
		}
		return abilities.ActionEffect(name, sel, effect), nil
	}

	trigger, ok := abilities.ParseTriggerKind(spec.Trigger)
	if !ok {
		return abilities.Ability{}, fmt.Errorf("unknown trigger %q", spec.Trigger)
	}
	scope := abilities.ScopeSelf
	if spec.Scope != "" {
		if scope, ok = abilities.ParseTriggerScope(spec.Scope); !ok {
			return abilities.Ability{}, fmt.Errorf("unknown scope %q", spec.Scope)
		}
	}
	var cond abilities.Condition
	if spec.Condition != nil {
		if cond, err = b.condition(*spec.Condition); err != nil {
			return abilities.Ability{}, err
		}
	}
	return abilities.Triggered(name, abilities.When(trigger, scope), cond, sel, effect), nil
}

func (b *Builder) effect(spec EffectSpec) (abilities.Effect, error) {
	switch spec.Kind {
	case "modify_stat":
		stat, ok := effects.ParseStat(spec.Stat)
		if !ok {
			return nil, fmt.Errorf("unknown stat %q", spec.Stat)
		}
		scaling := effects.StatNone
		if spec.Scaling != "" {
			if scaling, ok = effects.ParseStat(spec.Scaling); !ok {
				return nil, fmt.Errorf("unknown scaling stat %q", spec.Scaling)
			}
		}
		return abilities.ModifyStat{
			Stat:     stat,
			Amount:   spec.Amount,
			Duration: effects.ParseDuration(spec.Duration),
			Scaling:  scaling,
		}, nil
	case "deal_damage":
		return abilities.DealDamage{Amount: spec.Amount}, nil
	case "heal":
		return abilities.Heal{Amount: spec.Amount}, nil
	case "draw_cards":
		return abilities.DrawCards{Count: max(spec.Count, 1)}, nil
	case "discard_cards":
		return abilities.DiscardCards{Count: max(spec.Count, 1)}, nil
	case "banish":
		return abilities.Banish{}, nil
	case "return_to_hand":
		return abilities.ReturnToHand{}, nil
	case "exert":
		return abilities.Exert{}, nil
	case "ready":
		return abilities.Ready{}, nil
	case "grant_keyword":
		k, ok := b.keywords.Parse(spec.Keyword)
		if !ok {
			return nil, fmt.Errorf("unknown keyword %q", spec.Keyword)
		}
		return abilities.GrantKeyword{Keyword: k, Value: spec.Value, Duration: effects.ParseDuration(spec.Duration)}, nil
	case "modify_cost":
		var filter func(*effects.Snapshot) bool
		if subtype := strings.TrimSpace(spec.Subtype); subtype != "" {
			filter = func(s *effects.Snapshot) bool { return s.HasSubtype(subtype) }
		}
		return abilities.ModifyCost{Amount: spec.Amount, Filter: filter, Duration: effects.ParseDuration(spec.Duration)}, nil
	case "gain_lore":
		return abilities.GainLore{Amount: spec.Amount}, nil
	case "lose_lore":
		return abilities.LoseLore{Amount: spec.Amount}, nil
	case "no_effect":
		return abilities.NoEffect{Reason: spec.Reason}, nil
	case "sequence":
		if len(spec.Effects) == 0 {
			return nil, fmt.Errorf("empty sequence")
		}
		parts := make([]abilities.Effect, 0, len(spec.Effects))
		for _, sub := range spec.Effects {
			e, err := b.effect(sub)
			if err != nil {
				return nil, err
			}
			parts = append(parts, e)
		}
		return abilities.Then(parts...), nil
	case "conditional":
		if spec.Guard == nil || spec.Then == nil {
			return nil, fmt.Errorf("conditional needs if and then")
		}
		guard, err := b.condition(*spec.Guard)
		if err != nil {
			return nil, err
		}
		then, err := b.effect(*spec.Then)
		if err != nil {
			return nil, err
		}
		out := abilities.Conditional{Guard: guard, Then: then}
		if spec.Else != nil {
			if out.Else, err = b.effect(*spec.Else); err != nil {
				return nil, err
			}
		}
		return out, nil
	case "may":
		inner, err := b.inner(spec)
		if err != nil {
			return nil, err
		}
		return abilities.May{Prompt: spec.Prompt, Effect: inner}, nil
	case "choose_targets":
		inner, err := b.inner(spec)
		if err != nil {
			return nil, err
		}
		if spec.Selector == nil {
			return nil, fmt.Errorf("choose_targets needs a selector")
		}
		sel, err := b.selector(*spec.Selector)
		if err != nil {
			return nil, err
		}
		lo, hi := max(spec.Min, 1), spec.Max
		if hi < lo {
			hi = lo
		}
		return abilities.ChooseTargets{
			Prompt:   spec.Prompt,
			Selector: sel,
			Min:      lo,
			Max:      hi,
			Optional: spec.Optional,
			Effect:   inner,
		}, nil
	case "choose_one":
		if len(spec.Options) < 2 {
			return nil, fmt.Errorf("choose_one needs at least two options")
		}
		out := abilities.ChooseOne{Prompt: spec.Prompt}
		for _, o := range spec.Options {
			e, err := b.effect(o.Effect)
			if err != nil {
				return nil, err
			}
			out.Options = append(out.Options, abilities.Option{Label: o.Label, Effect: e})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown effect kind %q", spec.Kind)
	}
}

func (b *Builder) inner(spec EffectSpec) (abilities.Effect, error) {
	if spec.Effect == nil {
		return nil, fmt.Errorf("%s needs an effect", spec.Kind)
	}
	return b.effect(*spec.Effect)
}

func (b *Builder) condition(spec ConditionSpec) (abilities.Condition, error) {
	switch spec.Kind {
	case "always":
		return abilities.Always(), nil
	case "during_your_turn":
		return abilities.DuringYourTurn(), nil
	case "during_opponents_turn":
		return abilities.DuringOpponentsTurn(), nil
	case "lore_at_least":
		return abilities.LoreAtLeast(spec.Value), nil
	case "songs_sung_at_least":
		return abilities.SongsSungThisTurnAtLeast(max(spec.Value, 1)), nil
	case "watcher_count_at_least":
		if spec.Key == "" {
			return nil, fmt.Errorf("watcher condition needs a key")
		}
		return abilities.WatcherCountAtLeast(spec.Key, spec.Value), nil
	case "has_character_with_subtype":
		return abilities.HasCharacterWithSubtype(spec.Subtype), nil
	case "event_amount_at_least":
		return abilities.EventAmountAtLeast(spec.Value), nil
	case "event_meta":
		return abilities.EventMeta(spec.Key, spec.Meta), nil
	case "chosen_by_opponent":
		return abilities.ChosenByOpponent(), nil
	case "and", "or":
		parts := make([]abilities.Condition, 0, len(spec.Conditions))
		for _, sub := range spec.Conditions {
			c, err := b.condition(sub)
			if err != nil {
				return nil, err
			}
			parts = append(parts, c)
		}
		if spec.Kind == "and" {
			return abilities.And(parts...), nil
		}
		return abilities.Or(parts...), nil
	case "not":
		if len(spec.Conditions) != 1 {
			return nil, fmt.Errorf("not takes exactly one condition")
		}
		c, err := b.condition(spec.Conditions[0])
		if err != nil {
			return nil, err
		}
		return abilities.Not(c), nil
	default:
		return nil, fmt.Errorf("unknown condition %q", spec.Kind)
	}
}

func (b *Builder) selector(spec SelectorSpec) (targeting.Selector, error) {
	var filters []targeting.Filter
	for _, fs := range spec.Filters {
		f, err := b.filter(fs)
		if err != nil {
			return targeting.Selector{}, err
		}
		filters = append(filters, f)
	}

	switch spec.Kind {
	case "self":
		return targeting.Self(), nil
	case "event_source":
		return targeting.EventSource(), nil
	case "event_target":
		return targeting.EventTarget(), nil
	case "controller":
		return targeting.Controller(), nil
	case "opponents":
		return targeting.Opponents(), nil
	case "your_characters":
		return targeting.YourCharacters(filters...), nil
	case "opposing_characters":
		return targeting.OpposingCharacters(filters...), nil
	case "all_characters":
		return targeting.AllCharacters(filters...), nil
	case "union", "except":
		parts := make([]targeting.Selector, 0, len(spec.Parts))
		for _, p := range spec.Parts {
			s, err := b.selector(p)
			if err != nil {
				return targeting.Selector{}, err
			}
			parts = append(parts, s)
		}
		if spec.Kind == "union" {
			return targeting.Union(parts...), nil
		}
		if len(parts) != 2 {
			return targeting.Selector{}, fmt.Errorf("except takes exactly two parts")
		}
		return targeting.Except(parts[0], parts[1]), nil
	default:
		return targeting.Selector{}, fmt.Errorf("unknown selector %q", spec.Kind)
	}
}

func (b *Builder) filter(spec FilterSpec) (targeting.Filter, error) {
	var f targeting.Filter
	switch spec.Kind {
	case "ready":
		f = targeting.Ready()
	case "exerted":
		f = targeting.Exerted()
	case "damaged":
		f = targeting.Damaged()
	case "not_self":
		f = targeting.NotSelf()
	case "cost_at_most":
		f = targeting.CostAtMost(spec.Value)
	case "strength_at_most":
		f = targeting.StrengthAtMost(spec.Value)
	case "has_subtype":
		f = targeting.HasSubtype(spec.Subtype)
	case "has_keyword":
		k, ok := b.keywords.Parse(spec.Keyword)
		if !ok {
			return nil, fmt.Errorf("unknown keyword %q", spec.Keyword)
		}
		f = targeting.HasKeyword(k)
	default:
		return nil, fmt.Errorf("unknown filter %q", spec.Kind)
	}
	if spec.Negate {
		f = targeting.Not(f)
	}
	return f, nil
}
