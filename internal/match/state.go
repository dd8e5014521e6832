// Package match holds the mutable match-state record the rules engine
// operates on: card instances, per-player zones, and the runtime-only
// lingering-effect and usage-restriction records. All state lives on one
// explicit MatchState object passed by reference; there is no ambient state.
package match

import (
	"math/rand"

	"github.com/oklog/ulid/v2"

	"github.com/mkessel/duelcore/internal/ability"
)

const (
	StartingLife    = 8000
	InitialHandSize = 5
	MaxHandSize     = 6
	BoardSize       = 5
	SpellTrapSize   = 5
)

// --- Phases ---

type Phase int

const (
	PhaseNone Phase = iota
	PhaseDraw
	PhaseStandby
	PhaseMain1
	PhaseBattle
	PhaseMain2
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseDraw:
		return "Draw Phase"
	case PhaseStandby:
		return "Standby Phase"
	case PhaseMain1:
		return "Main Phase 1"
	case PhaseBattle:
		return "Battle Phase"
	case PhaseMain2:
		return "Main Phase 2"
	case PhaseEnd:
		return "End Phase"
	default:
		return "None"
	}
}

// Name returns the phase's authored-content name ("end", "battle", ...), the
// vocabulary duration descriptors and phase conditions use.
func (p Phase) Name() string {
	switch p {
	case PhaseDraw:
		return "draw"
	case PhaseStandby:
		return "standby"
	case PhaseMain1:
		return "main1"
	case PhaseBattle:
		return "battle"
	case PhaseMain2:
		return "main2"
	case PhaseEnd:
		return "end"
	default:
		return ""
	}
}

// --- Card instances ---

// CardInstance is a runtime card. Cards are referenced everywhere by their
// ULID identity; the instances themselves live in the MatchState arena.
type CardInstance struct {
	ID         string
	Def        *ability.CardDef
	Owner      int
	Controller int

	Position    ability.Position
	FaceDown    bool
	HasAttacked bool
	// AttacksLeft counts remaining attacks this turn; refreshed by the
	// driver, raised by multi-attack grants.
	AttacksLeft int
	Protection  map[string]bool
	TurnPlaced  int
}

func (ci *CardInstance) String() string {
	if ci == nil {
		return "(empty)"
	}
	if ci.FaceDown {
		return "face-down card"
	}
	return ci.Def.Name
}

// HasProtection reports whether the given protection flag is set.
func (ci *CardInstance) HasProtection(flag string) bool {
	return ci.Protection[flag]
}

// --- Runtime records ---

// LingeringEffect is a duration-bounded modifier created when an effect with
// a duration resolves. Distinct from a continuous effect, which is tied to a
// source still on the field and recomputed on demand.
type LingeringEffect struct {
	ID          string
	Kind        ability.EffectKind
	Stat        ability.Stat
	Value       int
	Source      string // card identity of the resolving card
	Player      int    // applying player
	AppliedTurn int
	Duration    ability.Duration
	// AffectsPlayer scopes the effect to one player's cards; nil = both.
	AffectsPlayer *int
	Filter        *ability.Condition
}

// OPTRecord marks a once-per-turn effect as used. Keyed by card identity,
// effect index and activating player; cleared at the start of that player's
// own turn.
type OPTRecord struct {
	CardID      string
	EffectIndex int
	Player      int
	Turn        int
}

// HOPTRecord marks a hard once-per-turn effect as used. ResetTurn is the
// next turn of the activating player's parity, spanning the opponent's
// intervening turn.
type HOPTRecord struct {
	CardID      string
	EffectIndex int
	Player      int
	ResetTurn   int
}

// --- Player state ---

// PlayerState is one player's side: life total plus card-identity lists per
// zone. The top of the deck is the last element.
type PlayerState struct {
	Life      int
	Deck      []string
	Hand      []string
	Board     []string
	SpellTrap []string
	Graveyard []string
	Banished  []string
	Field     string // field spell identity, "" if none
}

// --- MatchState ---

// MatchState is the complete mutable state of one match. Turn numbering is
// 1-based; player 0 (the host) takes the odd turns.
type MatchState struct {
	ID      string
	Cards   map[string]*CardInstance
	Players [2]*PlayerState

	Turn       int
	TurnPlayer int
	Phase      Phase

	Lingering []*LingeringEffect
	OPTUsed   []OPTRecord
	HOPTUsed  []HOPTRecord

	// Per-turn flags
	NormalSummonUsed bool

	// Match result, owned by the driver.
	Winner int
	Over   bool
	Result string
}

// NewMatchState creates a fresh match with both players at starting life.
func NewMatchState() *MatchState {
	return &MatchState{
		ID:    ulid.Make().String(),
		Cards: make(map[string]*CardInstance),
		Players: [2]*PlayerState{
			{Life: StartingLife},
			{Life: StartingLife},
		},
		Winner: -1,
	}
}

// AddCard creates a CardInstance for a definition, registers it in the
// arena, and returns it. The card starts in no zone.
func (ms *MatchState) AddCard(def *ability.CardDef, owner int) *CardInstance {
	ci := &CardInstance{
		ID:         ulid.Make().String(),
		Def:        def,
		Owner:      owner,
		Controller: owner,
		FaceDown:   true,
		Protection: make(map[string]bool),
	}
	ms.Cards[ci.ID] = ci
	return ci
}

// Card resolves an identity to its instance, or nil.
func (ms *MatchState) Card(id string) *CardInstance {
	return ms.Cards[id]
}

// Opponent returns the index of the other player.
func (ms *MatchState) Opponent(player int) int {
	return 1 - player
}

// ZoneList returns the identity list backing a zone for a player. The field
// zone is returned as a zero- or one-element slice.
func (ms *MatchState) ZoneList(player int, zone ability.Zone) []string {
	p := ms.Players[player]
	switch zone {
	case ability.ZoneDeck:
		return p.Deck
	case ability.ZoneHand:
		return p.Hand
	case ability.ZoneBoard:
		return p.Board
	case ability.ZoneSpellTrap:
		return p.SpellTrap
	case ability.ZoneGraveyard:
		return p.Graveyard
	case ability.ZoneBanished:
		return p.Banished
	case ability.ZoneField:
		if p.Field == "" {
			return nil
		}
		return []string{p.Field}
	default:
		return nil
	}
}

// InZone reports whether the given card identity currently sits in the
// given zone of the given player.
func (ms *MatchState) InZone(player int, zone ability.Zone, id string) bool {
	for _, cid := range ms.ZoneList(player, zone) {
		if cid == id {
			return true
		}
	}
	return false
}

// RemoveFromZone removes an identity from a zone list. Returns false if the
// card was not there.
func (ms *MatchState) RemoveFromZone(player int, zone ability.Zone, id string) bool {
	p := ms.Players[player]
	switch zone {
	case ability.ZoneDeck:
		p.Deck, _ = removeID(p.Deck, id)
		return true
	case ability.ZoneHand:
		var ok bool
		p.Hand, ok = removeID(p.Hand, id)
		return ok
	case ability.ZoneBoard:
		var ok bool
		p.Board, ok = removeID(p.Board, id)
		return ok
	case ability.ZoneSpellTrap:
		var ok bool
		p.SpellTrap, ok = removeID(p.SpellTrap, id)
		return ok
	case ability.ZoneGraveyard:
		var ok bool
		p.Graveyard, ok = removeID(p.Graveyard, id)
		return ok
	case ability.ZoneBanished:
		var ok bool
		p.Banished, ok = removeID(p.Banished, id)
		return ok
	case ability.ZoneField:
		if p.Field == id {
			p.Field = ""
			return true
		}
		return false
	default:
		return false
	}
}

func removeID(list []string, id string) ([]string, bool) {
	for i, cid := range list {
		if cid == id {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

// MoveCard moves a card identity between zones of its owner, resetting
// board-only flags when it leaves the board.
func (ms *MatchState) MoveCard(id string, from, to ability.Zone) bool {
	ci := ms.Cards[id]
	if ci == nil {
		return false
	}
	if !ms.RemoveFromZone(ci.Controller, from, id) {
		// Owner may still hold it (control changes return cards home).
		if !ms.RemoveFromZone(ci.Owner, from, id) {
			return false
		}
	}
	if from == ability.ZoneBoard || from == ability.ZoneField || from == ability.ZoneSpellTrap {
		ci.HasAttacked = false
		ci.AttacksLeft = 0
		ci.Protection = make(map[string]bool)
		ci.Controller = ci.Owner
	}

	p := ms.Players[ci.Owner]
	switch to {
	case ability.ZoneHand:
		ci.FaceDown = true
		p.Hand = append(p.Hand, id)
	case ability.ZoneGraveyard:
		ci.FaceDown = false
		p.Graveyard = append(p.Graveyard, id)
	case ability.ZoneBanished:
		ci.FaceDown = false
		p.Banished = append(p.Banished, id)
	case ability.ZoneDeck:
		ci.FaceDown = true
		p.Deck = append(p.Deck, id)
	case ability.ZoneBoard:
		p.Board = append(p.Board, id)
	case ability.ZoneSpellTrap:
		p.SpellTrap = append(p.SpellTrap, id)
	case ability.ZoneField:
		p.Field = id
	default:
		return false
	}
	return true
}

// Draw pops the top deck card into the hand. Returns nil on an empty deck.
func (ms *MatchState) Draw(player int) *CardInstance {
	p := ms.Players[player]
	if len(p.Deck) == 0 {
		return nil
	}
	id := p.Deck[len(p.Deck)-1]
	p.Deck = p.Deck[:len(p.Deck)-1]
	p.Hand = append(p.Hand, id)
	return ms.Cards[id]
}

// ShuffleDeck randomizes a player's deck order.
func (ms *MatchState) ShuffleDeck(player int, rng *rand.Rand) {
	deck := ms.Players[player].Deck
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// BoardCards returns the instances on a player's board.
func (ms *MatchState) BoardCards(player int) []*CardInstance {
	return ms.instances(ms.Players[player].Board)
}

// FaceUpSpellTraps returns the face-up cards in a player's spell/trap zone.
func (ms *MatchState) FaceUpSpellTraps(player int) []*CardInstance {
	var out []*CardInstance
	for _, ci := range ms.instances(ms.Players[player].SpellTrap) {
		if !ci.FaceDown {
			out = append(out, ci)
		}
	}
	return out
}

// FieldCard returns a player's active field spell, or nil.
func (ms *MatchState) FieldCard(player int) *CardInstance {
	if ms.Players[player].Field == "" {
		return nil
	}
	return ms.Cards[ms.Players[player].Field]
}

func (ms *MatchState) instances(ids []string) []*CardInstance {
	var out []*CardInstance
	for _, id := range ids {
		if ci := ms.Cards[id]; ci != nil {
			out = append(out, ci)
		}
	}
	return out
}

// ResetTurnFlags clears per-turn tracking at the start of a turn.
func (ms *MatchState) ResetTurnFlags() {
	ms.NormalSummonUsed = false
	for p := 0; p < 2; p++ {
		for _, ci := range ms.BoardCards(p) {
			ci.HasAttacked = false
			ci.AttacksLeft = 1
		}
	}
}

// CheckWinCondition marks the match over when a life total reaches zero.
func (ms *MatchState) CheckWinCondition() bool {
	p0Dead := ms.Players[0].Life <= 0
	p1Dead := ms.Players[1].Life <= 0

	switch {
	case p0Dead && p1Dead:
		ms.Over = true
		ms.Winner = -1
		ms.Result = "Draw — both players' life reached 0"
	case p0Dead:
		ms.Over = true
		ms.Winner = 1
		ms.Result = "P2 wins — P1's life reached 0"
	case p1Dead:
		ms.Over = true
		ms.Winner = 0
		ms.Result = "P1 wins — P2's life reached 0"
	default:
		return false
	}
	return true
}
