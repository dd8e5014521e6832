package driver

import (
	"fmt"

	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/match"
	"github.com/mkessel/duelcore/internal/rules"
)

type ActionType int

const (
	ActionNormalSummon ActionType = iota
	ActionNormalSet
	ActionSetSpellTrap
	ActionActivate
	ActionAttack
	ActionDirectAttack
	ActionEnterBattlePhase
	ActionEndBattlePhase
	ActionEndTurn
)

func (a ActionType) String() string {
	switch a {
	case ActionNormalSummon:
		return "Normal Summon"
	case ActionNormalSet:
		return "Normal Set"
	case ActionSetSpellTrap:
		return "Set Spell/Trap"
	case ActionActivate:
		return "Activate"
	case ActionAttack:
		return "Attack"
	case ActionDirectAttack:
		return "Direct Attack"
	case ActionEnterBattlePhase:
		return "Enter Battle Phase"
	case ActionEndBattlePhase:
		return "End Battle Phase"
	case ActionEndTurn:
		return "End Turn"
	default:
		return "Unknown"
	}
}

// Action represents a player action with all necessary details.
type Action struct {
	Type        ActionType
	Player      int
	Card        *match.CardInstance // card being played/used
	Target      *match.CardInstance // attack target
	EffectIndex int                 // flattened effect index being activated
	Desc        string              // human-readable description
}

func (a Action) String() string {
	if a.Desc != "" {
		return a.Desc
	}
	return a.Type.String()
}

// computeMainPhaseActions enumerates every legal main-phase action for the
// turn player.
func (m *Match) computeMainPhaseActions(player int) []Action {
	ms := m.State
	var actions []Action

	boardRoom := len(ms.Players[player].Board) < match.BoardSize
	stRoom := len(ms.Players[player].SpellTrap) < match.SpellTrapSize

	for _, id := range ms.Players[player].Hand {
		ci := ms.Card(id)
		if ci == nil {
			continue
		}
		switch ci.Def.CardType {
		case ability.CardTypeMonster:
			if ms.NormalSummonUsed {
				continue
			}
			need := ci.Def.TributesRequired()
			if len(ms.Players[player].Board) < need {
				continue
			}
			if boardRoom || need > 0 {
				actions = append(actions,
					Action{Type: ActionNormalSummon, Player: player, Card: ci,
						Desc: fmt.Sprintf("Summon %s", ci.Def.Name)},
					Action{Type: ActionNormalSet, Player: player, Card: ci,
						Desc: fmt.Sprintf("Set %s", ci.Def.Name)},
				)
			}

		case ability.CardTypeSpell:
			if ci.Def.SpellSub == ability.SpellField {
				actions = append(actions, Action{Type: ActionActivate, Player: player, Card: ci,
					Desc: fmt.Sprintf("Activate field spell %s", ci.Def.Name)})
				continue
			}
			if !stRoom {
				continue
			}
			actions = append(actions, Action{Type: ActionSetSpellTrap, Player: player, Card: ci,
				Desc: fmt.Sprintf("Set %s", ci.Def.Name)})
			if idx, ok := m.firstActivatable(ci, player); ok {
				actions = append(actions, Action{Type: ActionActivate, Player: player, Card: ci, EffectIndex: idx,
					Desc: fmt.Sprintf("Activate %s", ci.Def.Name)})
			}

		case ability.CardTypeTrap:
			if stRoom {
				actions = append(actions, Action{Type: ActionSetSpellTrap, Player: player, Card: ci,
					Desc: fmt.Sprintf("Set %s", ci.Def.Name)})
			}
		}
	}

	// Ignition effects on face-up board monsters
	for _, ci := range ms.BoardCards(player) {
		if ci.FaceDown {
			continue
		}
		if idx, ok := m.firstActivatable(ci, player); ok {
			actions = append(actions, Action{Type: ActionActivate, Player: player, Card: ci, EffectIndex: idx,
				Desc: fmt.Sprintf("Activate %s effect", ci.Def.Name)})
		}
	}

	// Set traps and quick-plays flip face-up on activation from the zone.
	// Traps must wait a turn after being set.
	for _, ci := range m.instances(ms.Players[player].SpellTrap) {
		if ci.Def.CardType == ability.CardTypeTrap && ci.FaceDown && ci.TurnPlaced >= ms.Turn {
			continue
		}
		if idx, ok := m.firstActivatable(ci, player); ok {
			actions = append(actions, Action{Type: ActionActivate, Player: player, Card: ci, EffectIndex: idx,
				Desc: fmt.Sprintf("Activate %s", ci.Def.Name)})
		}
	}
	if fs := ms.FieldCard(player); fs != nil && !fs.FaceDown {
		if idx, ok := m.firstActivatable(fs, player); ok {
			actions = append(actions, Action{Type: ActionActivate, Player: player, Card: fs, EffectIndex: idx,
				Desc: fmt.Sprintf("Activate %s effect", fs.Def.Name)})
		}
	}

	if ms.Phase == match.PhaseMain1 && ms.Turn > 1 && len(ms.Players[player].Board) > 0 {
		actions = append(actions, Action{Type: ActionEnterBattlePhase, Player: player})
	}
	actions = append(actions, Action{Type: ActionEndTurn, Player: player})
	return actions
}

// firstActivatable returns the first flattened effect index on the card that
// passes the full activation check for the player.
func (m *Match) firstActivatable(ci *match.CardInstance, player int) (int, bool) {
	if ci.Def.Ability == nil {
		return 0, false
	}
	flat := ability.Flatten(ci.Def.Ability)
	for _, idx := range flat.EffectIndexes() {
		eff := flat.Effects[idx]
		if eff.Trigger != ability.TriggerIgnition {
			continue
		}
		// Continuous modifiers apply passively; they are not activated.
		if eff.Continuous && eff.Kind == ability.KindModifyStat {
			continue
		}
		if chk := rules.CheckActivation(m.State, ci, idx, player); chk.CanActivate {
			return idx, true
		}
	}
	return 0, false
}

// computeBattlePhaseActions enumerates attacks for the turn player.
func (m *Match) computeBattlePhaseActions() []Action {
	ms := m.State
	tp := ms.TurnPlayer
	opp := ms.Opponent(tp)
	var actions []Action

	oppBoard := ms.BoardCards(opp)
	for _, atk := range ms.BoardCards(tp) {
		if atk.FaceDown || atk.Position != ability.PositionAttack || atk.AttacksLeft <= 0 {
			continue
		}
		for _, def := range oppBoard {
			actions = append(actions, Action{Type: ActionAttack, Player: tp, Card: atk, Target: def,
				Desc: fmt.Sprintf("%s attacks %s", atk.Def.Name, def)})
		}
		if len(oppBoard) == 0 || atk.HasProtection("can_attack_directly") {
			actions = append(actions, Action{Type: ActionDirectAttack, Player: tp, Card: atk,
				Desc: fmt.Sprintf("%s attacks directly", atk.Def.Name)})
		}
	}

	actions = append(actions, Action{Type: ActionEndBattlePhase, Player: tp})
	return actions
}

func (m *Match) instances(ids []string) []*match.CardInstance {
	out := make([]*match.CardInstance, 0, len(ids))
	for _, id := range ids {
		if ci := m.State.Card(id); ci != nil {
			out = append(out, ci)
		}
	}
	return out
}
