package rules

import (
	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/match"
)

// StatBonus is the summed stat contribution for one card. Bonuses are
// purely additive; clamping, if any, belongs to the display layer.
type StatBonus struct {
	Attack  int
	Defense int
}

func (b StatBonus) Add(other StatBonus) StatBonus {
	return StatBonus{Attack: b.Attack + other.Attack, Defense: b.Defense + other.Defense}
}

// ModifiersFor sums the continuous stat modifiers that currently apply to a
// card, recomputed on demand. Contributions come from the controller's own
// field spell, the opponent's field spell when its condition explicitly
// scopes to the opponent's monsters, and every face-up continuous
// spell/trap on the controller's side.
func ModifiersFor(card *match.CardInstance, ms *match.MatchState) StatBonus {
	var bonus StatBonus
	if card == nil {
		return bonus
	}
	player := card.Controller
	opp := ms.Opponent(player)

	// Own field spell.
	if fs := ms.FieldCard(player); fs != nil && !fs.FaceDown {
		bonus = bonus.Add(sourceContribution(fs, card, player, ms, false))
	}

	// Opponent's field spell affects this card only when its condition is
	// explicitly scoped to the opponent's monsters; field effects otherwise
	// apply to their controller's board alone.
	if fs := ms.FieldCard(opp); fs != nil && !fs.FaceDown {
		bonus = bonus.Add(sourceContribution(fs, card, opp, ms, true))
	}

	// Face-up continuous spell/traps on the controller's side.
	for _, st := range ms.FaceUpSpellTraps(player) {
		if !isContinuousSpellTrap(st.Def) {
			continue
		}
		bonus = bonus.Add(sourceContribution(st, card, player, ms, false))
	}

	return bonus
}

// sourceContribution sums a single source card's continuous modify_stat
// effects that match the given card. The evaluation perspective is the
// source's controller, so self/opponent scoping resolves from the source's
// side of the field.
func sourceContribution(source, card *match.CardInstance, perspective int, ms *match.MatchState, requireOpponentScope bool) StatBonus {
	var bonus StatBonus
	if source.Def.Ability == nil {
		return bonus
	}
	ctx := Context{State: ms, Source: source, Card: card, Player: perspective}

	for _, eff := range ability.Flatten(source.Def.Ability).Effects {
		if !eff.Continuous || eff.Kind != ability.KindModifyStat {
			continue
		}
		if requireOpponentScope && !scopesOpponent(eff.Condition) {
			continue
		}
		if !Evaluate(eff.Condition, ctx) {
			continue
		}
		switch eff.Stat {
		case ability.StatDefense:
			bonus.Defense += eff.Value
		case ability.StatBoth:
			bonus.Attack += eff.Value
			bonus.Defense += eff.Value
		default:
			bonus.Attack += eff.Value
		}
	}
	return bonus
}

// scopesOpponent reports whether a condition tree contains an explicit
// opponent-ownership constraint.
func scopesOpponent(c *ability.Condition) bool {
	if c == nil {
		return false
	}
	if c.Owner != nil && *c.Owner == ability.OwnerOpponent {
		return true
	}
	for _, child := range c.Children {
		if scopesOpponent(child) {
			return true
		}
	}
	return false
}

func isContinuousSpellTrap(def *ability.CardDef) bool {
	switch def.CardType {
	case ability.CardTypeSpell:
		return def.SpellSub == ability.SpellContinuous
	case ability.CardTypeTrap:
		return def.TrapSub == ability.TrapContinuous
	default:
		return false
	}
}

// LingeringFor sums the stat contribution of active lingering modify_stat
// records for a card. Lingering records are duration-bounded and outlive
// their source; their filters evaluate from the applying player's
// perspective.
func LingeringFor(card *match.CardInstance, ms *match.MatchState) StatBonus {
	var bonus StatBonus
	if card == nil {
		return bonus
	}
	for _, l := range ms.Lingering {
		if l.Kind != ability.KindModifyStat {
			continue
		}
		if l.AffectsPlayer != nil && *l.AffectsPlayer != card.Controller {
			continue
		}
		if l.Filter != nil && !Evaluate(l.Filter, Context{State: ms, Card: card, Player: l.Player}) {
			continue
		}
		switch l.Stat {
		case ability.StatDefense:
			bonus.Defense += l.Value
		case ability.StatBoth:
			bonus.Attack += l.Value
			bonus.Defense += l.Value
		default:
			bonus.Attack += l.Value
		}
	}
	return bonus
}
