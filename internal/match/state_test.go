package match

import (
	"testing"

	"github.com/mkessel/duelcore/internal/ability"
)

func testMonster(name string) *ability.CardDef {
	return &ability.CardDef{Name: name, CardType: ability.CardTypeMonster, Level: 4, ATK: 1000, DEF: 1000}
}

func TestDrawTakesTopOfDeck(t *testing.T) {
	ms := NewMatchState()
	bottom := ms.AddCard(testMonster("Bottom"), 0)
	top := ms.AddCard(testMonster("Top"), 0)
	// The top of the deck is the last element.
	ms.Players[0].Deck = []string{bottom.ID, top.ID}

	drawn := ms.Draw(0)
	if drawn == nil || drawn.ID != top.ID {
		t.Fatalf("drew %v, want the top card", drawn)
	}
	if len(ms.Players[0].Deck) != 1 || ms.Players[0].Deck[0] != bottom.ID {
		t.Errorf("deck after draw = %v, want only the bottom card", ms.Players[0].Deck)
	}
	if !ms.InZone(0, ability.ZoneHand, top.ID) {
		t.Error("drawn card should be in hand")
	}
}

func TestDrawFromEmptyDeck(t *testing.T) {
	ms := NewMatchState()
	if ms.Draw(0) != nil {
		t.Error("drawing from an empty deck should return nil")
	}
}

func TestMoveCardResetsBoardFlags(t *testing.T) {
	ms := NewMatchState()
	ci := ms.AddCard(testMonster("Fighter"), 0)
	ms.Players[0].Board = []string{ci.ID}
	ci.FaceDown = false
	ci.HasAttacked = true
	ci.AttacksLeft = 2
	ci.Protection["cannot_be_destroyed_by_battle"] = true

	if !ms.MoveCard(ci.ID, ability.ZoneBoard, ability.ZoneGraveyard) {
		t.Fatal("move failed")
	}
	if ci.HasAttacked || ci.AttacksLeft != 0 {
		t.Error("battle flags should reset on leaving the board")
	}
	if len(ci.Protection) != 0 {
		t.Error("protection flags should clear on leaving the board")
	}
	if !ms.InZone(0, ability.ZoneGraveyard, ci.ID) {
		t.Error("card should be in the graveyard")
	}
}

func TestMoveCardHandFlagsUntouched(t *testing.T) {
	ms := NewMatchState()
	ci := ms.AddCard(testMonster("Held"), 0)
	ms.Players[0].Hand = []string{ci.ID}

	if !ms.MoveCard(ci.ID, ability.ZoneHand, ability.ZoneGraveyard) {
		t.Fatal("move failed")
	}
	if ci.FaceDown {
		t.Error("graveyard cards are face-up")
	}
}

func TestFieldZoneHoldsOneCard(t *testing.T) {
	ms := NewMatchState()
	fs := ms.AddCard(&ability.CardDef{Name: "Hearth", CardType: ability.CardTypeSpell, SpellSub: ability.SpellField}, 0)
	ms.Players[0].Field = fs.ID

	list := ms.ZoneList(0, ability.ZoneField)
	if len(list) != 1 || list[0] != fs.ID {
		t.Fatalf("field zone list = %v, want the single field card", list)
	}
	if !ms.RemoveFromZone(0, ability.ZoneField, fs.ID) {
		t.Fatal("remove from field failed")
	}
	if ms.Players[0].Field != "" {
		t.Error("field should be empty after removal")
	}
	if got := ms.ZoneList(0, ability.ZoneField); got != nil {
		t.Errorf("empty field zone list = %v, want nil", got)
	}
}

func TestRemoveFromZoneMissingCard(t *testing.T) {
	ms := NewMatchState()
	if ms.RemoveFromZone(0, ability.ZoneHand, "no-such-id") {
		t.Error("removing a missing card should report false")
	}
}

func TestResetTurnFlags(t *testing.T) {
	ms := NewMatchState()
	ci := ms.AddCard(testMonster("Fighter"), 0)
	ms.Players[0].Board = []string{ci.ID}
	ci.HasAttacked = true
	ci.AttacksLeft = 0
	ms.NormalSummonUsed = true

	ms.ResetTurnFlags()
	if ms.NormalSummonUsed {
		t.Error("normal summon flag should reset")
	}
	if ci.HasAttacked || ci.AttacksLeft != 1 {
		t.Errorf("board card flags = attacked=%v attacksLeft=%d, want fresh", ci.HasAttacked, ci.AttacksLeft)
	}
}

func TestCheckWinCondition(t *testing.T) {
	ms := NewMatchState()
	if ms.CheckWinCondition() {
		t.Fatal("no winner at starting life")
	}

	ms.Players[1].Life = 0
	if !ms.CheckWinCondition() {
		t.Fatal("expected a win at 0 LP")
	}
	if ms.Winner != 0 || !ms.Over {
		t.Errorf("winner = %d over = %v, want player 0 win", ms.Winner, ms.Over)
	}
}

func TestCheckWinConditionDraw(t *testing.T) {
	ms := NewMatchState()
	ms.Players[0].Life = 0
	ms.Players[1].Life = -500

	if !ms.CheckWinCondition() {
		t.Fatal("expected the match to end")
	}
	if ms.Winner != -1 {
		t.Errorf("winner = %d, want -1 (draw)", ms.Winner)
	}
}
