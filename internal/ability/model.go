// Package ability defines the declarative card ability model: effects,
// conditions, costs, targets and durations as authored in the card catalog.
// Everything here is pure data; interpretation happens in internal/rules and
// internal/driver.
package ability

import "strings"

// --- Enums ---

type CardType int

const (
	CardTypeNone CardType = iota
	CardTypeMonster
	CardTypeSpell
	CardTypeTrap
)

func (ct CardType) String() string {
	switch ct {
	case CardTypeMonster:
		return "Monster"
	case CardTypeSpell:
		return "Spell"
	case CardTypeTrap:
		return "Trap"
	default:
		return "None"
	}
}

// ParseCardType normalizes the card-type literals that appear across the
// historical catalog schemas. "creature" and "stereotype" are legacy
// spellings of "monster".
func ParseCardType(s string) CardType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monster", "creature", "stereotype":
		return CardTypeMonster
	case "spell", "program", "magic":
		return CardTypeSpell
	case "trap":
		return CardTypeTrap
	default:
		return CardTypeNone
	}
}

type SpellSubtype int

const (
	SpellNormal SpellSubtype = iota
	SpellQuickPlay
	SpellContinuous
	SpellField
)

type TrapSubtype int

const (
	TrapNormal TrapSubtype = iota
	TrapContinuous
	TrapCounter
)

type Position int

const (
	PositionAttack Position = iota
	PositionDefense
)

func (p Position) String() string {
	if p == PositionAttack {
		return "ATK"
	}
	return "DEF"
}

// Zone identifies a card location. Used by costs, targets and field-count
// conditions.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneDeck
	ZoneHand
	ZoneBoard
	ZoneSpellTrap
	ZoneGraveyard
	ZoneBanished
	ZoneField
)

func (z Zone) String() string {
	switch z {
	case ZoneDeck:
		return "Deck"
	case ZoneHand:
		return "Hand"
	case ZoneBoard:
		return "Board"
	case ZoneSpellTrap:
		return "Spell/Trap Zone"
	case ZoneGraveyard:
		return "Graveyard"
	case ZoneBanished:
		return "Banished"
	case ZoneField:
		return "Field Zone"
	default:
		return "None"
	}
}

func ParseZone(s string) Zone {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deck":
		return ZoneDeck
	case "hand":
		return ZoneHand
	case "board", "field_monsters", "monsters":
		return ZoneBoard
	case "spell_trap", "spelltrap", "backrow":
		return ZoneSpellTrap
	case "graveyard", "grave", "gy":
		return ZoneGraveyard
	case "banished", "removed":
		return ZoneBanished
	case "field", "field_zone":
		return ZoneField
	default:
		return ZoneNone
	}
}

// Owner scopes a condition or target relative to the evaluating player.
type Owner int

const (
	OwnerAny Owner = iota
	OwnerSelf
	OwnerOpponent
)

func ParseOwner(s string) Owner {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "self", "you", "controller":
		return OwnerSelf
	case "opponent", "enemy":
		return OwnerOpponent
	default:
		return OwnerAny
	}
}

// --- Effect kinds ---

type EffectKind int

const (
	KindUnknown EffectKind = iota
	KindDraw
	KindDestroy
	KindDealDamage
	KindGainLife
	KindModifyStat
	KindMoveCard
	KindSearch
	KindNegate
	KindMultiAttack
	KindDirectAttack
	KindGainResource
	KindProtect
)

func (k EffectKind) String() string {
	switch k {
	case KindDraw:
		return "draw"
	case KindDestroy:
		return "destroy"
	case KindDealDamage:
		return "deal_damage"
	case KindGainLife:
		return "gain_life"
	case KindModifyStat:
		return "modify_stat"
	case KindMoveCard:
		return "move_card"
	case KindSearch:
		return "search"
	case KindNegate:
		return "negate"
	case KindMultiAttack:
		return "multi_attack"
	case KindDirectAttack:
		return "direct_attack"
	case KindGainResource:
		return "gain_resource"
	case KindProtect:
		return "protect"
	default:
		return "unknown"
	}
}

// ParseEffectKind maps the effect-type tags found in authored content onto
// the canonical kinds. Both catalog schemas are covered; unrecognized tags
// come back as KindUnknown and are carried through rather than rejected.
func ParseEffectKind(s string) EffectKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draw", "draw_cards":
		return KindDraw
	case "destroy", "destroy_card":
		return KindDestroy
	case "deal_damage", "damage", "burn":
		return KindDealDamage
	case "gain_life", "gain_lp", "heal":
		return KindGainLife
	case "modify_stat", "stat_boost", "stat_change", "buff":
		return KindModifyStat
	case "move_card", "move", "send":
		return KindMoveCard
	case "search", "search_deck":
		return KindSearch
	case "negate", "negate_effect":
		return KindNegate
	case "multi_attack", "grant_multi_attack", "extra_attack":
		return KindMultiAttack
	case "direct_attack", "allow_direct_attack":
		return KindDirectAttack
	case "gain_resource":
		return KindGainResource
	case "protect", "protection":
		return KindProtect
	default:
		return KindUnknown
	}
}

// --- Triggers ---

type Trigger int

const (
	TriggerIgnition Trigger = iota // manual activation
	TriggerOnSummon
	TriggerOnDestroy
	TriggerOnDamage
	TriggerOnDraw
	TriggerOnStandby
	TriggerOnEndPhase
	TriggerOnAttack
	TriggerOnFlip
)

func (t Trigger) String() string {
	switch t {
	case TriggerOnSummon:
		return "on_summon"
	case TriggerOnDestroy:
		return "on_destroy"
	case TriggerOnDamage:
		return "on_damage"
	case TriggerOnDraw:
		return "on_draw"
	case TriggerOnStandby:
		return "on_standby"
	case TriggerOnEndPhase:
		return "on_end_phase"
	case TriggerOnAttack:
		return "on_attack"
	case TriggerOnFlip:
		return "on_flip"
	default:
		return "ignition"
	}
}

func ParseTrigger(s string) Trigger {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on_summon", "summon":
		return TriggerOnSummon
	case "on_destroy", "destroyed":
		return TriggerOnDestroy
	case "on_damage", "damage_taken":
		return TriggerOnDamage
	case "on_draw":
		return TriggerOnDraw
	case "on_standby", "standby":
		return TriggerOnStandby
	case "on_end_phase", "end_phase":
		return TriggerOnEndPhase
	case "on_attack", "attack":
		return TriggerOnAttack
	case "on_flip", "flip":
		return TriggerOnFlip
	default:
		return TriggerIgnition
	}
}

// Stat selects which stat a modify_stat effect applies to.
type Stat int

const (
	StatAttack Stat = iota
	StatDefense
	StatBoth
)

func ParseStat(s string) Stat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "defense", "def":
		return StatDefense
	case "both", "attack_defense":
		return StatBoth
	default:
		return StatAttack
	}
}

// --- Costs ---

type CostKind int

const (
	CostUnknown CostKind = iota
	CostDiscard
	CostPayLife
	CostTribute
	CostBanish
)

func (k CostKind) String() string {
	switch k {
	case CostDiscard:
		return "discard"
	case CostPayLife:
		return "pay_life"
	case CostTribute:
		return "tribute"
	case CostBanish:
		return "banish"
	default:
		return "unknown"
	}
}

func ParseCostKind(s string) CostKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "discard":
		return CostDiscard
	case "pay_life", "pay_lp", "life":
		return CostPayLife
	case "tribute", "sacrifice":
		return CostTribute
	case "banish", "remove":
		return CostBanish
	default:
		return CostUnknown
	}
}

// Cost is a resource requirement gating activation. It is paid before the
// effect resolves and is not itself an Effect.
type Cost struct {
	Kind    CostKind
	RawKind string // authored tag, kept for unknown kinds
	Amount  int
	Filter  *Condition // restricts which cards qualify
	Zone    Zone       // source zone; zero means the kind's default
}

// SourceZone returns the zone cards are paid from, falling back to the
// conventional zone for the cost kind when none was authored.
func (c *Cost) SourceZone() Zone {
	if c.Zone != ZoneNone {
		return c.Zone
	}
	switch c.Kind {
	case CostDiscard:
		return ZoneHand
	case CostTribute:
		return ZoneBoard
	case CostBanish:
		return ZoneGraveyard
	default:
		return ZoneNone
	}
}

// DestinationZone returns where paid cards end up.
func (c *Cost) DestinationZone() Zone {
	if c.Kind == CostBanish {
		return ZoneBanished
	}
	return ZoneGraveyard
}

// --- Targets ---

// Target is a selection specification for an effect. Costs reuse the same
// shape via Cost.Filter + Cost.Zone.
type Target struct {
	Zone   Zone
	Owner  Owner
	Count  int // required count; 0 with All set means "all matching"
	All    bool
	Filter *Condition
}

// --- Durations ---

type DurationKind int

const (
	DurationUnknown DurationKind = iota
	DurationUntilEndPhase
	DurationUntilTurnEnd
	DurationUntilNextTurn
	DurationPermanent
	DurationCustom
)

func (k DurationKind) String() string {
	switch k {
	case DurationUntilEndPhase:
		return "until_end_phase"
	case DurationUntilTurnEnd:
		return "until_turn_end"
	case DurationUntilNextTurn:
		return "until_next_turn"
	case DurationPermanent:
		return "permanent"
	case DurationCustom:
		return "custom"
	default:
		return "unknown"
	}
}

func ParseDurationKind(s string) DurationKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "until_end_phase", "end_phase":
		return DurationUntilEndPhase
	case "until_turn_end", "turn_end", "this_turn":
		return DurationUntilTurnEnd
	case "until_next_turn", "next_turn":
		return DurationUntilNextTurn
	case "permanent", "forever":
		return DurationPermanent
	case "custom":
		return DurationCustom
	default:
		return DurationUnknown
	}
}

// Duration describes how long a lingering effect persists once resolved.
type Duration struct {
	Kind     DurationKind
	RawKind  string // authored tag, kept for unknown kinds
	EndTurn  int    // custom: expires at or after this turn
	EndPhase string // until_end_phase/custom: gating phase name, "" = end
}

// --- Effects and abilities ---

// Effect is one atomic action. Effects form a singly linked Then chain at
// authoring time; Flatten expands the chain into execution order. An Or
// alternative represents a player choice and is never auto-expanded.
type Effect struct {
	Kind    EffectKind
	RawKind string // authored tag, kept for unknown kinds
	Trigger Trigger
	Value   int
	Stat    Stat // for modify_stat

	Target    *Target
	Cost      *Cost
	Condition *Condition

	Continuous      bool
	OncePerTurn     bool
	HardOncePerTurn bool

	Duration   *Duration
	Protection []string // protection flags granted (e.g. "cannot_be_targeted")

	Then *Effect
	Or   *Effect
}

// Ability is the declarative unit attached to a card definition. Immutable
// once authored.
type Ability struct {
	ID              string
	Speed           int // 1-3 priority tier, counter-style effects are 3
	OncePerTurn     bool
	HardOncePerTurn bool
	Effects         []*Effect
}

// CardDef is a static card definition from the catalog.
type CardDef struct {
	Name        string
	Description string
	CardType    CardType
	SpellSub    SpellSubtype
	TrapSub     TrapSubtype
	Archetype   string
	Rarity      string
	Level       int
	Cost        int // generic resource cost, used by cost-range conditions
	ATK         int
	DEF         int
	Ability     *Ability
}

func (c *CardDef) String() string {
	return c.Name
}

// TributesRequired returns the number of tributes needed to summon this
// monster from hand.
func (c *CardDef) TributesRequired() int {
	if c.Level <= 4 {
		return 0
	}
	if c.Level <= 6 {
		return 1
	}
	return 2
}
