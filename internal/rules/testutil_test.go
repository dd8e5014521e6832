package rules

import (
	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/match"
)

// --- Test card helpers ---

func monsterDef(name, archetype string, level, atk, def int) *ability.CardDef {
	return &ability.CardDef{
		Name:      name,
		CardType:  ability.CardTypeMonster,
		Archetype: archetype,
		Level:     level,
		ATK:       atk,
		DEF:       def,
	}
}

func spellDef(name string) *ability.CardDef {
	return &ability.CardDef{Name: name, CardType: ability.CardTypeSpell}
}

// putCard registers a card instance and places it directly in a zone,
// bypassing the driver's movement rules.
func putCard(ms *match.MatchState, def *ability.CardDef, owner int, zone ability.Zone) *match.CardInstance {
	ci := ms.AddCard(def, owner)
	p := ms.Players[owner]
	switch zone {
	case ability.ZoneDeck:
		p.Deck = append(p.Deck, ci.ID)
	case ability.ZoneHand:
		p.Hand = append(p.Hand, ci.ID)
	case ability.ZoneBoard:
		ci.FaceDown = false
		p.Board = append(p.Board, ci.ID)
	case ability.ZoneSpellTrap:
		p.SpellTrap = append(p.SpellTrap, ci.ID)
	case ability.ZoneGraveyard:
		ci.FaceDown = false
		p.Graveyard = append(p.Graveyard, ci.ID)
	case ability.ZoneBanished:
		ci.FaceDown = false
		p.Banished = append(p.Banished, ci.ID)
	case ability.ZoneField:
		ci.FaceDown = false
		p.Field = ci.ID
	}
	return ci
}
