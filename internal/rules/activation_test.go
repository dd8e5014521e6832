package rules

import (
	"testing"

	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/match"
)

func ignitionMonster(name string, eff *ability.Effect) *ability.CardDef {
	def := monsterDef(name, "", 4, 1000, 1000)
	def.Ability = &ability.Ability{ID: name, Effects: []*ability.Effect{eff}}
	return def
}

func TestCheckActivationConditionNotMet(t *testing.T) {
	ms := match.NewMatchState()
	ci := putCard(ms, ignitionMonster("Gated", &ability.Effect{
		Kind: ability.KindDraw,
		Condition: &ability.Condition{FieldCount: &ability.FieldCountCheck{
			Owner: ability.OwnerOpponent,
			Count: ability.AtLeast(1),
		}},
	}), 0, ability.ZoneBoard)

	if chk := CheckActivation(ms, ci, 0, 0); chk.CanActivate {
		t.Fatal("expected activation to fail with an empty opponent board")
	}

	putCard(ms, monsterDef("Target", "", 4, 100, 100), 1, ability.ZoneBoard)
	if chk := CheckActivation(ms, ci, 0, 0); !chk.CanActivate {
		t.Fatalf("expected activation once the condition holds: %s", chk.Reason)
	}
}

func TestCheckActivationCostUnpayable(t *testing.T) {
	ms := match.NewMatchState()
	ms.Players[0].Life = 200
	ci := putCard(ms, ignitionMonster("Costly", &ability.Effect{
		Kind: ability.KindDraw,
		Cost: &ability.Cost{Kind: ability.CostPayLife, Amount: 500},
	}), 0, ability.ZoneBoard)

	chk := CheckActivation(ms, ci, 0, 0)
	if chk.CanActivate {
		t.Fatal("expected activation to fail when the cost cannot be paid")
	}
	if chk.Reason == "" {
		t.Error("expected a player-facing reason")
	}
}

func TestCheckActivationRespectsUsageMarkers(t *testing.T) {
	ms := match.NewMatchState()
	ms.Turn = 1
	ci := putCard(ms, ignitionMonster("Once", &ability.Effect{
		Kind:        ability.KindDraw,
		OncePerTurn: true,
	}), 0, ability.ZoneBoard)

	if chk := CheckActivation(ms, ci, 0, 0); !chk.CanActivate {
		t.Fatalf("fresh effect should activate: %s", chk.Reason)
	}
	MarkEffectUsed(ms, ci.ID, 0, 0, true, false)
	if chk := CheckActivation(ms, ci, 0, 0); chk.CanActivate {
		t.Error("used effect should not activate again this turn")
	}
}

func TestCheckActivationAbilityLevelFlags(t *testing.T) {
	ms := match.NewMatchState()
	ms.Turn = 1
	def := ignitionMonster("Card Flag", &ability.Effect{Kind: ability.KindDraw})
	def.Ability.HardOncePerTurn = true
	ci := putCard(ms, def, 0, ability.ZoneBoard)

	if chk := CheckActivation(ms, ci, 0, 0); !chk.CanActivate {
		t.Fatalf("fresh effect should activate: %s", chk.Reason)
	}
	// The restriction flag lives on the ability, not the effect; the check
	// must still honor it.
	MarkEffectUsed(ms, ci.ID, 0, 0, false, true)
	if chk := CheckActivation(ms, ci, 0, 0); chk.CanActivate {
		t.Error("ability-level hard once-per-turn should gate activation")
	}
}

func TestCheckActivationBadInputs(t *testing.T) {
	ms := match.NewMatchState()
	vanilla := putCard(ms, monsterDef("Vanilla", "", 4, 1000, 1000), 0, ability.ZoneBoard)

	if chk := CheckActivation(ms, nil, 0, 0); chk.CanActivate {
		t.Error("nil card should not activate")
	}
	if chk := CheckActivation(ms, vanilla, 0, 0); chk.CanActivate {
		t.Error("card without an ability should not activate")
	}

	withEff := putCard(ms, ignitionMonster("Real", &ability.Effect{Kind: ability.KindDraw}), 0, ability.ZoneBoard)
	if chk := CheckActivation(ms, withEff, 5, 0); chk.CanActivate {
		t.Error("out-of-range effect index should not activate")
	}
}
