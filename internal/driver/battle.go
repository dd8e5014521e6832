package driver

import (
	"fmt"

	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/log"
	"github.com/mkessel/duelcore/internal/match"
	"github.com/mkessel/duelcore/internal/rules"
)

// EffectiveATK returns a monster's attack after continuous and lingering
// modifiers, clamped at zero.
func (m *Match) EffectiveATK(ci *match.CardInstance) int {
	bonus := rules.ModifiersFor(ci, m.State).Add(rules.LingeringFor(ci, m.State))
	atk := ci.Def.ATK + bonus.Attack
	if atk < 0 {
		atk = 0
	}
	return atk
}

// EffectiveDEF returns a monster's defense after continuous and lingering
// modifiers, clamped at zero.
func (m *Match) EffectiveDEF(ci *match.CardInstance) int {
	bonus := rules.ModifiersFor(ci, m.State).Add(rules.LingeringFor(ci, m.State))
	def := ci.Def.DEF + bonus.Defense
	if def < 0 {
		def = 0
	}
	return def
}

func (m *Match) executeAttack(a Action) error {
	ms := m.State
	atk, def := a.Card, a.Target
	p := a.Player
	opp := ms.Opponent(p)

	atk.HasAttacked = true
	atk.AttacksLeft--
	m.log(log.NewAttackDeclareEvent(ms.Turn, p, atk.Def.Name, def.String()))

	// Face-down defenders flip on being attacked.
	if def.FaceDown {
		def.FaceDown = false
		m.log(log.NewEffectResolvedEvent(ms.Turn, ms.Phase.String(), opp, def.Def.Name, "flipped face-up"))
	}

	atkVal := m.EffectiveATK(atk)
	if def.Position == ability.PositionAttack {
		defVal := m.EffectiveATK(def)
		switch {
		case atkVal > defVal:
			m.damage(opp, atkVal-defVal, "battle")
			m.destroyByBattle(def, atk)
		case atkVal < defVal:
			m.damage(p, defVal-atkVal, "battle")
			m.destroyByBattle(atk, def)
		default:
			// Mutual destruction, no damage.
			m.destroyByBattle(def, atk)
			m.destroyByBattle(atk, def)
		}
	} else {
		defVal := m.EffectiveDEF(def)
		switch {
		case atkVal > defVal:
			m.destroyByBattle(def, atk)
		case atkVal < defVal:
			m.damage(p, defVal-atkVal, "attacked into defense")
		}
	}

	ms.CheckWinCondition()
	return nil
}

func (m *Match) executeDirectAttack(a Action) error {
	ms := m.State
	atk := a.Card
	p := a.Player
	opp := ms.Opponent(p)

	atk.HasAttacked = true
	atk.AttacksLeft--
	m.log(log.NewDirectAttackEvent(ms.Turn, p, atk.Def.Name))
	m.damage(opp, m.EffectiveATK(atk), "direct attack")
	ms.CheckWinCondition()
	return nil
}

func (m *Match) damage(player, amount int, reason string) {
	if amount <= 0 {
		return
	}
	ms := m.State
	ms.Players[player].Life -= amount
	m.log(log.NewDamageEvent(ms.Turn, ms.Phase.String(), player, amount, ms.Players[player].Life, reason))
}

func (m *Match) destroyByBattle(loser, winner *match.CardInstance) {
	if loser.HasProtection("cannot_be_destroyed_by_battle") {
		m.log(log.NewEffectResolvedEvent(m.State.Turn, m.State.Phase.String(), loser.Controller,
			loser.Def.Name, "survived battle (protected)"))
		return
	}
	m.destroyCard(loser, fmt.Sprintf("battle with %s", winner.Def.Name))
}
