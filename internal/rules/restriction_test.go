package rules

import (
	"testing"

	"github.com/mkessel/duelcore/internal/match"
)

func TestOPTResetsOnlyOnOwnTurn(t *testing.T) {
	ms := match.NewMatchState()
	ms.Turn = 1
	ms.TurnPlayer = 0

	MarkEffectUsed(ms, "card-1", 0, 0, true, false)
	if ok, _ := CanUseEffect(ms, "card-1", 0, 0, true, false); ok {
		t.Fatal("effect should be unusable after marking")
	}

	// The opponent's turn begins: player 0's marker survives.
	ms.Turn = 2
	ms.TurnPlayer = 1
	ResetRestrictions(ms, 1, 2)
	if ok, _ := CanUseEffect(ms, "card-1", 0, 0, true, false); ok {
		t.Error("opponent's turn start must not reset the marker")
	}

	// Player 0's own next turn: the marker clears.
	ms.Turn = 3
	ms.TurnPlayer = 0
	ResetRestrictions(ms, 0, 3)
	if ok, _ := CanUseEffect(ms, "card-1", 0, 0, true, false); !ok {
		t.Error("own turn start should reset the marker")
	}
}

func TestOPTKeyedPerPlayer(t *testing.T) {
	ms := match.NewMatchState()
	ms.Turn = 1

	MarkEffectUsed(ms, "card-1", 0, 0, true, false)
	if ok, _ := CanUseEffect(ms, "card-1", 0, 1, true, false); !ok {
		t.Error("the other player's usage key should be unaffected")
	}
	if ok, _ := CanUseEffect(ms, "card-1", 1, 0, true, false); !ok {
		t.Error("a different effect index should be unaffected")
	}
}

func TestHOPTSpansOpponentTurn(t *testing.T) {
	ms := match.NewMatchState()
	ms.Turn = 3
	ms.TurnPlayer = 0

	// Used during the player's own turn: resets two turns later.
	MarkEffectUsed(ms, "card-1", 0, 0, false, true)
	if got := ms.HOPTUsed[0].ResetTurn; got != 5 {
		t.Fatalf("reset turn = %d, want 5", got)
	}

	// The opponent's intervening turn does not release it.
	ms.Turn = 4
	ms.TurnPlayer = 1
	ResetRestrictions(ms, 1, 4)
	if ok, _ := CanUseEffect(ms, "card-1", 0, 0, false, true); ok {
		t.Error("hard once-per-turn must span the opponent's turn")
	}

	// The player's own next turn releases it.
	ms.Turn = 5
	ms.TurnPlayer = 0
	ResetRestrictions(ms, 0, 5)
	if ok, _ := CanUseEffect(ms, "card-1", 0, 0, false, true); !ok {
		t.Error("marker should clear on the player's next turn")
	}
}

func TestHOPTMarkedDuringOpponentTurn(t *testing.T) {
	ms := match.NewMatchState()
	ms.Turn = 4
	ms.TurnPlayer = 1

	// Player 0 activates during player 1's turn: the next turn of player 0's
	// parity is turn 5.
	MarkEffectUsed(ms, "card-1", 0, 0, false, true)
	if got := ms.HOPTUsed[0].ResetTurn; got != 5 {
		t.Fatalf("reset turn = %d, want 5", got)
	}
	if ok, _ := CanUseEffect(ms, "card-1", 0, 0, false, true); ok {
		t.Error("effect should be unusable for the rest of turn 4")
	}

	ms.Turn = 5
	ms.TurnPlayer = 0
	ResetRestrictions(ms, 0, 5)
	if ok, _ := CanUseEffect(ms, "card-1", 0, 0, false, true); !ok {
		t.Error("effect should be usable again on turn 5")
	}
}

func TestMarkEffectUsedIdempotent(t *testing.T) {
	ms := match.NewMatchState()
	ms.Turn = 2

	MarkEffectUsed(ms, "card-1", 0, 0, true, true)
	MarkEffectUsed(ms, "card-1", 0, 0, true, true)

	if len(ms.OPTUsed) != 1 {
		t.Errorf("duplicate marking created %d OPT records, want 1", len(ms.OPTUsed))
	}
	if len(ms.HOPTUsed) != 1 {
		t.Errorf("duplicate marking created %d HOPT records, want 1", len(ms.HOPTUsed))
	}
}
