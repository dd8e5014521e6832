package rules

import (
	"github.com/mkessel/duelcore/internal/match"
)

// Once-per-turn tracking. OPT resets at the start of the restricted
// player's own turn; an opponent's intervening turn is "a new turn" but not
// that player's turn, so their markers survive it. HOPT spans the
// opponent's turn by construction and resets on the next turn of the
// activating player's parity.

// HOPTResetTurn computes the turn a hard once-per-turn use becomes
// available again. Turns alternate starting at turn 1 = host, so the reset
// turn is the next turn of the activating player's parity strictly greater
// than the current turn: current+2 during the player's own turn, current+1
// during the opponent's.
func HOPTResetTurn(currentTurn int, ownTurn bool) int {
	if ownTurn {
		return currentTurn + 2
	}
	return currentTurn + 1
}

// CanUseEffect reports whether the (card, effect index, player) key is
// currently usable under its once-per-turn flags.
func CanUseEffect(ms *match.MatchState, cardID string, effectIndex, player int, opt, hopt bool) (bool, string) {
	if opt {
		for _, r := range ms.OPTUsed {
			if r.CardID == cardID && r.EffectIndex == effectIndex && r.Player == player {
				return false, "effect already used this turn"
			}
		}
	}
	if hopt {
		for _, r := range ms.HOPTUsed {
			if r.CardID == cardID && r.EffectIndex == effectIndex && r.Player == player && r.ResetTurn > ms.Turn {
				return false, "effect already used; resets on your next turn"
			}
		}
	}
	return true, ""
}

// MarkEffectUsed records a usage. Marking an already-used key within the
// same validity window is a no-op, never a duplicate record.
func MarkEffectUsed(ms *match.MatchState, cardID string, effectIndex, player int, opt, hopt bool) {
	if opt {
		exists := false
		for _, r := range ms.OPTUsed {
			if r.CardID == cardID && r.EffectIndex == effectIndex && r.Player == player {
				exists = true
				break
			}
		}
		if !exists {
			ms.OPTUsed = append(ms.OPTUsed, match.OPTRecord{
				CardID:      cardID,
				EffectIndex: effectIndex,
				Player:      player,
				Turn:        ms.Turn,
			})
		}
	}
	if hopt {
		exists := false
		for _, r := range ms.HOPTUsed {
			if r.CardID == cardID && r.EffectIndex == effectIndex && r.Player == player && r.ResetTurn > ms.Turn {
				exists = true
				break
			}
		}
		if !exists {
			ms.HOPTUsed = append(ms.HOPTUsed, match.HOPTRecord{
				CardID:      cardID,
				EffectIndex: effectIndex,
				Player:      player,
				ResetTurn:   HOPTResetTurn(ms.Turn, ms.TurnPlayer == player),
			})
		}
	}
}

// ResetRestrictions clears expired usage markers for a player at the start
// of their turn. OPT markers belong to the turn player only; the opponent's
// markers stay used until that opponent's own turn begins.
func ResetRestrictions(ms *match.MatchState, player, turn int) {
	opt := ms.OPTUsed[:0]
	for _, r := range ms.OPTUsed {
		if r.Player != player {
			opt = append(opt, r)
		}
	}
	ms.OPTUsed = opt

	hopt := ms.HOPTUsed[:0]
	for _, r := range ms.HOPTUsed {
		if r.Player == player && r.ResetTurn <= turn {
			continue
		}
		hopt = append(hopt, r)
	}
	ms.HOPTUsed = hopt
}
