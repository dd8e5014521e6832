package rules

import (
	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/match"
)

// CleanupLingering removes expired lingering effects from the match state
// and returns what was removed. It is a pure filter over the records (no
// effect re-evaluation) and must be invoked by the driver at every phase
// and turn transition, since phase-scoped durations expire mid-turn.
func CleanupLingering(ms *match.MatchState, phase match.Phase, turn int) []*match.LingeringEffect {
	var removed []*match.LingeringEffect
	kept := ms.Lingering[:0]
	for _, l := range ms.Lingering {
		if lingeringExpired(l, phase, turn) {
			removed = append(removed, l)
		} else {
			kept = append(kept, l)
		}
	}
	ms.Lingering = kept
	return removed
}

func lingeringExpired(l *match.LingeringEffect, phase match.Phase, turn int) bool {
	switch l.Duration.Kind {
	case ability.DurationUntilEndPhase:
		if turn > l.AppliedTurn {
			return true
		}
		end := l.Duration.EndPhase
		if end == "" {
			end = "end"
		}
		return phase.Name() == end

	case ability.DurationUntilTurnEnd:
		return turn > l.AppliedTurn

	case ability.DurationUntilNextTurn:
		return turn > l.AppliedTurn+1

	case ability.DurationPermanent:
		return false

	case ability.DurationCustom:
		if turn < l.Duration.EndTurn {
			return false
		}
		if l.Duration.EndPhase != "" && turn == l.Duration.EndTurn {
			return phase.Name() == l.Duration.EndPhase
		}
		return true

	default:
		// Unknown duration kinds never expire through this path; the
		// catalog loader flags them for audit at load time.
		return false
	}
}
