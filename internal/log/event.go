package log

// EventType enumerates the engine's observable game events.
type EventType int

const (
	EventNewTurn EventType = iota
	EventPhaseChange
	EventDraw
	EventSummon
	EventSet
	EventActivate
	EventCostPaid
	EventEffectResolved
	EventLingeringApplied
	EventLingeringExpired
	EventRestrictionReset
	EventDamage
	EventLifeGain
	EventDestroy
	EventDiscard
	EventBanish
	EventMoveCard
	EventSearch
	EventNegate
	EventAttackDeclare
	EventDirectAttack
	EventWin
)

func (e EventType) String() string {
	switch e {
	case EventNewTurn:
		return "NewTurn"
	case EventPhaseChange:
		return "PhaseChange"
	case EventDraw:
		return "Draw"
	case EventSummon:
		return "Summon"
	case EventSet:
		return "Set"
	case EventActivate:
		return "Activate"
	case EventCostPaid:
		return "CostPaid"
	case EventEffectResolved:
		return "EffectResolved"
	case EventLingeringApplied:
		return "LingeringApplied"
	case EventLingeringExpired:
		return "LingeringExpired"
	case EventRestrictionReset:
		return "RestrictionReset"
	case EventDamage:
		return "Damage"
	case EventLifeGain:
		return "LifeGain"
	case EventDestroy:
		return "Destroy"
	case EventDiscard:
		return "Discard"
	case EventBanish:
		return "Banish"
	case EventMoveCard:
		return "MoveCard"
	case EventSearch:
		return "Search"
	case EventNegate:
		return "Negate"
	case EventAttackDeclare:
		return "AttackDeclare"
	case EventDirectAttack:
		return "DirectAttack"
	case EventWin:
		return "Win"
	default:
		return "Unknown"
	}
}

// GameEvent is a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based)
	Phase   string    // current phase name (e.g. "Main Phase 1")
	Player  int       // acting player (0 or 1)
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Details string    // human-readable detail string
}
