package rules

import (
	"testing"

	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/match"
)

func payLifeEffect(amount int) *ability.Effect {
	return &ability.Effect{
		Kind: ability.KindDraw,
		Cost: &ability.Cost{Kind: ability.CostPayLife, Amount: amount},
	}
}

func discardEffect(amount int, filter *ability.Condition) *ability.Effect {
	return &ability.Effect{
		Kind: ability.KindDraw,
		Cost: &ability.Cost{Kind: ability.CostDiscard, Amount: amount, Filter: filter},
	}
}

func TestPayLifeCost(t *testing.T) {
	ms := match.NewMatchState()
	eff := payLifeEffect(500)

	if q := ValidateCost(ms, 0, eff, nil); !q.CanPay || q.RequiresSelection {
		t.Fatalf("expected payable life cost without selection, got %+v", q)
	}

	res := ExecuteCost(ms, 0, eff, nil)
	if !res.Success {
		t.Fatalf("expected payment to succeed: %s", res.Message)
	}
	if got := ms.Players[0].Life; got != match.StartingLife-500 {
		t.Errorf("life after payment = %d, want %d", got, match.StartingLife-500)
	}
	if res.Paid == nil || res.Paid.Amount != 500 {
		t.Errorf("paid record = %+v, want amount 500", res.Paid)
	}
}

func TestPayLifeCostInsufficient(t *testing.T) {
	ms := match.NewMatchState()
	ms.Players[0].Life = 300
	eff := payLifeEffect(500)

	if q := ValidateCost(ms, 0, eff, nil); q.CanPay {
		t.Error("expected unpayable cost at 300 LP")
	}
	if res := ExecuteCost(ms, 0, eff, nil); res.Success {
		t.Error("expected execution to fail at 300 LP")
	}
	if got := ms.Players[0].Life; got != 300 {
		t.Errorf("life changed on failed payment: %d", got)
	}
}

func TestDiscardCostTwoPhase(t *testing.T) {
	ms := match.NewMatchState()
	a := putCard(ms, monsterDef("A", "", 3, 100, 100), 0, ability.ZoneHand)
	b := putCard(ms, monsterDef("B", "", 3, 100, 100), 0, ability.ZoneHand)
	eff := discardEffect(1, nil)

	q := ValidateCost(ms, 0, eff, nil)
	if !q.CanPay || !q.RequiresSelection {
		t.Fatalf("expected payable cost requiring selection, got %+v", q)
	}
	if len(q.Choices) != 2 || q.Min != 1 || q.Max != 1 {
		t.Fatalf("choices = %v min=%d max=%d, want both hand cards, 1..1", q.Choices, q.Min, q.Max)
	}

	res := ExecuteCost(ms, 0, eff, []string{b.ID})
	if !res.Success {
		t.Fatalf("expected discard to succeed: %s", res.Message)
	}
	if !ms.InZone(0, ability.ZoneGraveyard, b.ID) {
		t.Error("discarded card should be in the graveyard")
	}
	if !ms.InZone(0, ability.ZoneHand, a.ID) {
		t.Error("unselected card should stay in hand")
	}
	if len(res.Paid.Cards) != 1 || res.Paid.Cards[0] != b.ID {
		t.Errorf("paid cards = %v, want [%s]", res.Paid.Cards, b.ID)
	}
}

func TestShortSelectionNoPartialDeduction(t *testing.T) {
	ms := match.NewMatchState()
	a := putCard(ms, monsterDef("A", "", 3, 100, 100), 0, ability.ZoneHand)
	putCard(ms, monsterDef("B", "", 3, 100, 100), 0, ability.ZoneHand)
	eff := discardEffect(2, nil)

	res := ExecuteCost(ms, 0, eff, []string{a.ID})
	if res.Success {
		t.Fatal("expected short selection to be rejected")
	}
	if len(ms.Players[0].Hand) != 2 {
		t.Errorf("hand size after failed payment = %d, want 2", len(ms.Players[0].Hand))
	}
	if len(ms.Players[0].Graveyard) != 0 {
		t.Error("no card should move on a failed payment")
	}
}

func TestDuplicateSelectionRejected(t *testing.T) {
	ms := match.NewMatchState()
	a := putCard(ms, monsterDef("A", "", 3, 100, 100), 0, ability.ZoneHand)
	putCard(ms, monsterDef("B", "", 3, 100, 100), 0, ability.ZoneHand)
	eff := discardEffect(2, nil)

	// Naming the same card twice would move one card but count two.
	if q := ValidateCost(ms, 0, eff, []string{a.ID, a.ID}); q.CanPay {
		t.Error("validation should reject a selection with a repeated card")
	}
	res := ExecuteCost(ms, 0, eff, []string{a.ID, a.ID})
	if res.Success {
		t.Fatal("execution should reject a selection with a repeated card")
	}
	if len(ms.Players[0].Hand) != 2 {
		t.Errorf("hand size after failed payment = %d, want 2", len(ms.Players[0].Hand))
	}
	if len(ms.Players[0].Graveyard) != 0 {
		t.Error("no card should move on a failed payment")
	}
}

func TestCostFilterRejection(t *testing.T) {
	ms := match.NewMatchState()
	dragon := putCard(ms, monsterDef("Whelp", "Infernal Dragon", 3, 1400, 1000), 0, ability.ZoneHand)
	granite := putCard(ms, monsterDef("Sentinel", "Granite", 4, 800, 2000), 0, ability.ZoneHand)
	eff := discardEffect(1, ability.ArchetypeIs("Infernal Dragon"))

	q := ValidateCost(ms, 0, eff, nil)
	if !q.CanPay {
		t.Fatalf("expected payable with one qualifying card: %s", q.Reason)
	}
	if len(q.Choices) != 1 || q.Choices[0] != dragon.ID {
		t.Fatalf("choices = %v, want only the dragon", q.Choices)
	}

	// Selecting the non-qualifying card fails both phases.
	if q := ValidateCost(ms, 0, eff, []string{granite.ID}); q.CanPay {
		t.Error("validation should reject a selection outside the filter")
	}
	if res := ExecuteCost(ms, 0, eff, []string{granite.ID}); res.Success {
		t.Error("execution should reject a selection outside the filter")
	}
	if len(ms.Players[0].Hand) != 2 {
		t.Error("hand should be untouched after rejections")
	}
}

func TestBanishCostDestination(t *testing.T) {
	ms := match.NewMatchState()
	fallen := putCard(ms, monsterDef("Fallen", "", 3, 100, 100), 0, ability.ZoneGraveyard)
	eff := &ability.Effect{
		Kind: ability.KindDraw,
		Cost: &ability.Cost{Kind: ability.CostBanish, Amount: 1},
	}

	res := ExecuteCost(ms, 0, eff, []string{fallen.ID})
	if !res.Success {
		t.Fatalf("expected banish to succeed: %s", res.Message)
	}
	if !ms.InZone(0, ability.ZoneBanished, fallen.ID) {
		t.Error("banished card should be in the banished zone")
	}
	if ms.InZone(0, ability.ZoneGraveyard, fallen.ID) {
		t.Error("banished card should have left the graveyard")
	}
}

func TestUnknownCostKindPermissive(t *testing.T) {
	ms := match.NewMatchState()
	eff := &ability.Effect{
		Kind: ability.KindDraw,
		Cost: &ability.Cost{Kind: ability.CostUnknown, RawKind: "sacrifice_soul", Amount: 3},
	}

	if q := ValidateCost(ms, 0, eff, nil); !q.CanPay {
		t.Error("unknown cost kinds should validate as payable")
	}
	res := ExecuteCost(ms, 0, eff, nil)
	if !res.Success {
		t.Error("unknown cost kinds should execute as paid")
	}
	if got := ms.Players[0].Life; got != match.StartingLife {
		t.Errorf("unknown cost should not touch state, life = %d", got)
	}
}
