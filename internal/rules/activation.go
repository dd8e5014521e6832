package rules

import (
	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/match"
)

// ActivationCheck is the engine's answer to "may this effect activate".
// Illegal activations are frequent, player-facing outcomes and are never
// surfaced as errors.
type ActivationCheck struct {
	CanActivate bool
	Reason      string
}

// CheckActivation decides whether the player may activate the flattened
// effect at effectIndex on the given card: the activation condition must
// hold, the once-per-turn restrictions must have reset, and the cost must
// be payable in principle (selection legality is re-checked at payment).
func CheckActivation(ms *match.MatchState, card *match.CardInstance, effectIndex, player int) ActivationCheck {
	if card == nil || card.Def.Ability == nil {
		return ActivationCheck{Reason: "card has no ability"}
	}
	flat := ability.Flatten(card.Def.Ability)
	if effectIndex < 0 || effectIndex >= len(flat.Effects) {
		return ActivationCheck{Reason: "no such effect"}
	}
	eff := flat.Effects[effectIndex]

	opt := eff.OncePerTurn || card.Def.Ability.OncePerTurn
	hopt := eff.HardOncePerTurn || card.Def.Ability.HardOncePerTurn
	if ok, reason := CanUseEffect(ms, card.ID, effectIndex, player, opt, hopt); !ok {
		return ActivationCheck{Reason: reason}
	}

	if !Evaluate(eff.Condition, Context{State: ms, Source: card, Card: card, Player: player}) {
		return ActivationCheck{Reason: "activation condition not met"}
	}

	if q := ValidateCost(ms, player, eff, nil); !q.CanPay {
		return ActivationCheck{Reason: q.Reason}
	}

	return ActivationCheck{CanActivate: true}
}
