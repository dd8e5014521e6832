package rules

import (
	"testing"

	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/match"
)

func fieldSpellDef(name, archetype string, cond *ability.Condition, stat ability.Stat, value int) *ability.CardDef {
	return &ability.CardDef{
		Name:      name,
		CardType:  ability.CardTypeSpell,
		SpellSub:  ability.SpellField,
		Archetype: archetype,
		Ability: &ability.Ability{
			ID: name,
			Effects: []*ability.Effect{{
				Kind:       ability.KindModifyStat,
				Continuous: true,
				Stat:       stat,
				Value:      value,
				Condition:  cond,
			}},
		},
	}
}

func continuousSpellDef(name string, cond *ability.Condition, value int) *ability.CardDef {
	def := fieldSpellDef(name, "", cond, ability.StatAttack, value)
	def.SpellSub = ability.SpellContinuous
	return def
}

func TestFieldSpellBoostsMatchingMonsters(t *testing.T) {
	ms := match.NewMatchState()
	putCard(ms, fieldSpellDef("Infernal Hearth", "Infernal Dragon",
		ability.ArchetypeIs("Infernal Dragon"), ability.StatAttack, 500), 0, ability.ZoneField)
	dragon := putCard(ms, monsterDef("Whelp", "Infernal Dragon", 3, 1400, 1000), 0, ability.ZoneBoard)
	granite := putCard(ms, monsterDef("Sentinel", "Granite", 4, 800, 2000), 0, ability.ZoneBoard)

	if got := ModifiersFor(dragon, ms); got.Attack != 500 || got.Defense != 0 {
		t.Errorf("dragon bonus = %+v, want +500 ATK", got)
	}
	if got := ModifiersFor(granite, ms); got.Attack != 0 {
		t.Errorf("non-matching monster bonus = %+v, want none", got)
	}
}

func TestOpponentFieldSpellRequiresOpponentScope(t *testing.T) {
	ms := match.NewMatchState()
	mine := putCard(ms, monsterDef("Whelp", "Infernal Dragon", 3, 1400, 1000), 0, ability.ZoneBoard)

	// The opponent's field spell with a plain archetype condition stays on
	// their side of the field.
	putCard(ms, fieldSpellDef("Enemy Hearth", "Infernal Dragon",
		ability.ArchetypeIs("Infernal Dragon"), ability.StatAttack, 500), 1, ability.ZoneField)
	if got := ModifiersFor(mine, ms); got.Attack != 0 {
		t.Errorf("unscoped opponent field spell leaked %+v onto our monster", got)
	}

	// An explicit opponent-ownership constraint crosses the field.
	ms2 := match.NewMatchState()
	mine2 := putCard(ms2, monsterDef("Whelp", "Infernal Dragon", 3, 1400, 1000), 0, ability.ZoneBoard)
	opp := ability.OwnerOpponent
	debuff := &ability.Condition{Owner: &opp, CardType: cardTypePtr(ability.CardTypeMonster)}
	putCard(ms2, fieldSpellDef("Suppression Field", "",
		debuff, ability.StatAttack, -300), 1, ability.ZoneField)
	if got := ModifiersFor(mine2, ms2); got.Attack != -300 {
		t.Errorf("opponent-scoped field spell bonus = %+v, want -300 ATK", got)
	}
}

func cardTypePtr(ct ability.CardType) *ability.CardType {
	return &ct
}

func TestContinuousSpellTrapMustBeFaceUp(t *testing.T) {
	ms := match.NewMatchState()
	mine := putCard(ms, monsterDef("Whelp", "Infernal Dragon", 3, 1400, 1000), 0, ability.ZoneBoard)

	st := putCard(ms, continuousSpellDef("Burning Banner", nil, 200), 0, ability.ZoneSpellTrap)
	st.FaceDown = true
	if got := ModifiersFor(mine, ms); got.Attack != 0 {
		t.Errorf("face-down continuous spell contributed %+v", got)
	}

	st.FaceDown = false
	if got := ModifiersFor(mine, ms); got.Attack != 200 {
		t.Errorf("face-up continuous spell bonus = %+v, want +200 ATK", got)
	}
}

func TestBonusesAreAdditive(t *testing.T) {
	ms := match.NewMatchState()
	dragon := putCard(ms, monsterDef("Whelp", "Infernal Dragon", 3, 1400, 1000), 0, ability.ZoneBoard)
	putCard(ms, fieldSpellDef("Infernal Hearth", "Infernal Dragon",
		ability.ArchetypeIs("Infernal Dragon"), ability.StatAttack, 500), 0, ability.ZoneField)
	st := putCard(ms, continuousSpellDef("Burning Banner", nil, 200), 0, ability.ZoneSpellTrap)
	st.FaceDown = false

	if got := ModifiersFor(dragon, ms); got.Attack != 700 {
		t.Errorf("stacked bonus = %+v, want +700 ATK", got)
	}
}

func TestStatBothAppliesToBothStats(t *testing.T) {
	ms := match.NewMatchState()
	dragon := putCard(ms, monsterDef("Whelp", "Infernal Dragon", 3, 1400, 1000), 0, ability.ZoneBoard)
	putCard(ms, fieldSpellDef("Twin Hearth", "Infernal Dragon",
		nil, ability.StatBoth, 300), 0, ability.ZoneField)

	got := ModifiersFor(dragon, ms)
	if got.Attack != 300 || got.Defense != 300 {
		t.Errorf("bonus = %+v, want +300/+300", got)
	}
}

func TestLingeringForScopeAndFilter(t *testing.T) {
	ms := match.NewMatchState()
	mine := putCard(ms, monsterDef("Whelp", "Infernal Dragon", 3, 1400, 1000), 0, ability.ZoneBoard)
	granite := putCard(ms, monsterDef("Sentinel", "Granite", 4, 800, 2000), 0, ability.ZoneBoard)
	theirs := putCard(ms, monsterDef("Rival Dragon", "Infernal Dragon", 4, 1700, 1200), 1, ability.ZoneBoard)

	affected := 0
	ms.Lingering = []*match.LingeringEffect{{
		ID:            "l-1",
		Kind:          ability.KindModifyStat,
		Stat:          ability.StatAttack,
		Value:         300,
		Player:        0,
		AppliedTurn:   1,
		Duration:      ability.Duration{Kind: ability.DurationUntilTurnEnd},
		AffectsPlayer: &affected,
		Filter:        ability.ArchetypeIs("Infernal Dragon"),
	}}

	if got := LingeringFor(mine, ms); got.Attack != 300 {
		t.Errorf("matching card bonus = %+v, want +300 ATK", got)
	}
	if got := LingeringFor(granite, ms); got.Attack != 0 {
		t.Errorf("filtered-out card bonus = %+v, want none", got)
	}
	if got := LingeringFor(theirs, ms); got.Attack != 0 {
		t.Errorf("opponent card bonus = %+v, want none (player-scoped)", got)
	}
}
