// Package rules implements the card rules engine: condition evaluation,
// two-phase cost payment, continuous stat aggregation, and the usage
// restriction and lingering-effect duration trackers. Every function here is
// either pure or scoped to the one MatchState it is handed; expected
// player-facing outcomes are structured values, never errors.
package rules

import (
	"strings"

	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/match"
)

// Context bundles what a condition is evaluated against: the match-state
// snapshot, the card under consideration, the effect's source card, and the
// player from whose perspective self/opponent resolve.
type Context struct {
	State  *match.MatchState
	Source *match.CardInstance
	Card   *match.CardInstance
	Player int
}

// Evaluate recursively evaluates a condition tree. A nil or empty leaf
// condition is always true; and([]) is true, or([]) is false, and not
// negates only its first child (not([]) is true).
func Evaluate(c *ability.Condition, ctx Context) bool {
	if c == nil {
		return true
	}
	switch c.Op {
	case ability.OpAnd:
		for _, child := range c.Children {
			if !Evaluate(child, ctx) {
				return false
			}
		}
		return true
	case ability.OpOr:
		for _, child := range c.Children {
			if Evaluate(child, ctx) {
				return true
			}
		}
		return false
	case ability.OpNot:
		if len(c.Children) == 0 {
			return true
		}
		return !Evaluate(c.Children[0], ctx)
	}
	return evaluateLeaf(c, ctx)
}

// evaluateLeaf checks every present predicate conjunctively. The asymmetry
// here is deliberate and must be preserved: an absent field imposes no
// constraint, but a present constraint whose subject data is unavailable
// (e.g. an attack check against a spell card) fails to match.
func evaluateLeaf(c *ability.Condition, ctx Context) bool {
	card := ctx.Card

	if c.Archetype != nil {
		if card == nil || !archetypeMatches(*c.Archetype, card.Def) {
			return false
		}
	}
	if c.CardType != nil {
		if card == nil || card.Def.CardType != *c.CardType {
			return false
		}
	}
	if c.Rarity != nil {
		if card == nil || !strings.EqualFold(card.Def.Rarity, *c.Rarity) {
			return false
		}
	}
	if c.Name != nil {
		if card == nil || !strings.Contains(strings.ToLower(card.Def.Name), strings.ToLower(*c.Name)) {
			return false
		}
	}
	if c.NameIs != nil {
		if card == nil || !strings.EqualFold(card.Def.Name, *c.NameIs) {
			return false
		}
	}

	// Numeric stats only exist on monsters.
	if c.Level != nil {
		if card == nil || card.Def.CardType != ability.CardTypeMonster || !c.Level.Contains(card.Def.Level) {
			return false
		}
	}
	if c.Attack != nil {
		if card == nil || card.Def.CardType != ability.CardTypeMonster || !c.Attack.Contains(card.Def.ATK) {
			return false
		}
	}
	if c.Defense != nil {
		if card == nil || card.Def.CardType != ability.CardTypeMonster || !c.Defense.Contains(card.Def.DEF) {
			return false
		}
	}
	if c.Cost != nil {
		if card == nil || !c.Cost.Contains(card.Def.Cost) {
			return false
		}
	}

	if c.Position != nil {
		if card == nil || card.Position != *c.Position {
			return false
		}
	}
	if c.FaceDown != nil {
		if card == nil || card.FaceDown != *c.FaceDown {
			return false
		}
	}
	if c.HasAttacked != nil {
		if card == nil || card.HasAttacked != *c.HasAttacked {
			return false
		}
	}
	if c.Protected != nil {
		if card == nil || (len(card.Protection) > 0) != *c.Protected {
			return false
		}
	}
	if c.Owner != nil {
		if card == nil || !ownerMatches(*c.Owner, card.Controller, ctx.Player) {
			return false
		}
	}

	if c.Life != nil {
		if ctx.State == nil || !lifeMatches(c.Life, ctx) {
			return false
		}
	}
	if c.Turn != nil {
		if ctx.State == nil || !c.Turn.Contains(ctx.State.Turn) {
			return false
		}
	}
	if c.Phase != nil {
		if ctx.State == nil || !strings.EqualFold(ctx.State.Phase.Name(), *c.Phase) {
			return false
		}
	}
	if c.FieldCount != nil {
		if ctx.State == nil || !fieldCountMatches(c.FieldCount, ctx) {
			return false
		}
	}
	if c.Graveyard != nil {
		if ctx.State == nil || !graveyardMatches(c.Graveyard, ctx) {
			return false
		}
	}
	return true
}

// archetypeMatches matches case-insensitively on substring against both the
// archetype tag and the card name, so "Dragon"-named support cards match
// "dragon" without a formal tag.
func archetypeMatches(tag string, def *ability.CardDef) bool {
	tag = strings.ToLower(tag)
	return strings.Contains(strings.ToLower(def.Archetype), tag) ||
		strings.Contains(strings.ToLower(def.Name), tag)
}

func ownerMatches(want ability.Owner, controller, player int) bool {
	switch want {
	case ability.OwnerSelf:
		return controller == player
	case ability.OwnerOpponent:
		return controller != player
	default:
		return true
	}
}

func lifeMatches(lc *ability.LifeCheck, ctx Context) bool {
	player := ctx.Player
	if lc.Owner == ability.OwnerOpponent {
		player = ctx.State.Opponent(ctx.Player)
	}
	life := ctx.State.Players[player].Life

	if lc.Below != nil && life >= *lc.Below {
		return false
	}
	if lc.Above != nil && life <= *lc.Above {
		return false
	}
	if lc.Equal != nil && life != *lc.Equal {
		return false
	}
	return true
}

func fieldCountMatches(fc *ability.FieldCountCheck, ctx Context) bool {
	zone := fc.Zone
	if zone == ability.ZoneNone {
		zone = ability.ZoneBoard
	}

	count := 0
	for _, player := range scopedPlayers(fc.Owner, ctx) {
		for _, id := range ctx.State.ZoneList(player, zone) {
			ci := ctx.State.Card(id)
			if ci == nil {
				continue
			}
			if fc.Position != nil && ci.Position != *fc.Position {
				continue
			}
			if fc.FaceDown != nil && ci.FaceDown != *fc.FaceDown {
				continue
			}
			if fc.Filter != nil {
				sub := ctx
				sub.Card = ci
				if !Evaluate(fc.Filter, sub) {
					continue
				}
			}
			count++
		}
	}
	return fc.Count.Contains(count)
}

func graveyardMatches(gc *ability.GraveyardCheck, ctx Context) bool {
	count := 0
	for _, player := range scopedPlayers(gc.Owner, ctx) {
		for _, id := range ctx.State.ZoneList(player, ability.ZoneGraveyard) {
			ci := ctx.State.Card(id)
			if ci == nil {
				continue
			}
			if gc.CardType != nil && ci.Def.CardType != *gc.CardType {
				continue
			}
			if gc.Archetype != "" && !archetypeMatches(gc.Archetype, ci.Def) {
				continue
			}
			count++
		}
	}
	if gc.Count != nil {
		return gc.Count.Contains(count)
	}
	// Count omitted: the check asks for at least one matching card.
	return count > 0
}

// scopedPlayers resolves an owner scope to player indexes. OwnerAny spans
// both sides; OwnerSelf and OwnerOpponent resolve relative to the
// evaluating player.
func scopedPlayers(o ability.Owner, ctx Context) []int {
	switch o {
	case ability.OwnerOpponent:
		return []int{ctx.State.Opponent(ctx.Player)}
	case ability.OwnerSelf:
		return []int{ctx.Player}
	default:
		return []int{ctx.Player, ctx.State.Opponent(ctx.Player)}
	}
}
