package driver

import (
	"context"
	"fmt"
	"testing"

	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/log"
	"github.com/mkessel/duelcore/internal/match"
)

// ScriptedController is a PlayerController that follows a predefined script of
// actions. Used in tests to deterministically drive a match.
type ScriptedController struct {
	t       *testing.T
	name    string
	actions []ScriptedAction
	pos     int

	// For ChooseCards prompts
	cardChoices []ScriptedCardChoice
	cardPos     int

	// For ChooseYesNo prompts
	yesNoChoices []bool
	yesNoPos     int
}

type ScriptedAction struct {
	// Match by ActionType — picks the first action of this type
	Type ActionType
	// Optional: match by card name as well
	CardName string
	// Optional: match by target card name
	TargetName string
}

type ScriptedCardChoice struct {
	// Choose cards by name
	Names []string
}

func NewScriptedController(t *testing.T, name string) *ScriptedController {
	return &ScriptedController{t: t, name: name}
}

func (sc *ScriptedController) AddAction(actionType ActionType, cardName string) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: actionType, CardName: cardName})
	return sc
}

func (sc *ScriptedController) AddAttack(attackerName, targetName string) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: ActionAttack, CardName: attackerName, TargetName: targetName})
	return sc
}

func (sc *ScriptedController) AddDirectAttack(attackerName string) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: ActionDirectAttack, CardName: attackerName})
	return sc
}

func (sc *ScriptedController) AddCardChoice(names ...string) *ScriptedController {
	sc.cardChoices = append(sc.cardChoices, ScriptedCardChoice{Names: names})
	return sc
}

func (sc *ScriptedController) AddYesNo(answer bool) *ScriptedController {
	sc.yesNoChoices = append(sc.yesNoChoices, answer)
	return sc
}

func (sc *ScriptedController) ChooseAction(ctx context.Context, state *match.MatchState, actions []Action) (Action, error) {
	if sc.pos >= len(sc.actions) {
		return defaultAction(actions), nil
	}

	// Peek at the next scripted action — only consume it if it matches an
	// available action. This lets scripts span multiple turns without
	// explicitly scripting "EndTurn".
	scripted := sc.actions[sc.pos]

	for _, a := range actions {
		if a.Type != scripted.Type {
			continue
		}
		if scripted.CardName != "" && (a.Card == nil || a.Card.Def.Name != scripted.CardName) {
			continue
		}
		if scripted.TargetName != "" && (a.Target == nil || a.Target.Def.Name != scripted.TargetName) {
			continue
		}
		// Found match — consume and return
		sc.pos++
		return a, nil
	}

	// Scripted action not yet available (probably a future turn)
	return defaultAction(actions), nil
}

// defaultAction prefers ending the current phase or turn over anything else.
func defaultAction(actions []Action) Action {
	for _, a := range actions {
		if a.Type == ActionEndTurn {
			return a
		}
	}
	for _, a := range actions {
		if a.Type == ActionEndBattlePhase {
			return a
		}
	}
	return actions[len(actions)-1]
}

func (sc *ScriptedController) ChooseCards(ctx context.Context, state *match.MatchState, prompt string, candidates []*match.CardInstance, min, max int) ([]*match.CardInstance, error) {
	if sc.cardPos >= len(sc.cardChoices) {
		// Default: choose the first min candidates
		if min > len(candidates) {
			min = len(candidates)
		}
		return candidates[:min], nil
	}

	choice := sc.cardChoices[sc.cardPos]
	sc.cardPos++

	var result []*match.CardInstance
	for _, name := range choice.Names {
		for _, c := range candidates {
			if c.Def.Name == name {
				result = append(result, c)
				break
			}
		}
	}

	if len(result) < min {
		return nil, fmt.Errorf("[%s] card choice: wanted %v but only found %d in candidates", sc.name, choice.Names, len(result))
	}
	return result, nil
}

func (sc *ScriptedController) ChooseYesNo(ctx context.Context, state *match.MatchState, prompt string) (bool, error) {
	if sc.yesNoPos >= len(sc.yesNoChoices) {
		return false, nil
	}
	answer := sc.yesNoChoices[sc.yesNoPos]
	sc.yesNoPos++
	return answer, nil
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

// --- Test card helpers ---

func vanillaMonster(name, archetype string, level, atk, def int) *ability.CardDef {
	return &ability.CardDef{
		Name:      name,
		CardType:  ability.CardTypeMonster,
		Archetype: archetype,
		Level:     level,
		ATK:       atk,
		DEF:       def,
	}
}

func effectMonster(name, archetype string, level, atk, def int, effects ...*ability.Effect) *ability.CardDef {
	c := vanillaMonster(name, archetype, level, atk, def)
	c.Ability = &ability.Ability{ID: name, Effects: effects}
	return c
}

func normalSpell(name string, effects ...*ability.Effect) *ability.CardDef {
	return &ability.CardDef{
		Name:     name,
		CardType: ability.CardTypeSpell,
		SpellSub: ability.SpellNormal,
		Ability:  &ability.Ability{ID: name, Effects: effects},
	}
}

func fieldSpell(name, archetype string, effects ...*ability.Effect) *ability.CardDef {
	return &ability.CardDef{
		Name:      name,
		CardType:  ability.CardTypeSpell,
		SpellSub:  ability.SpellField,
		Archetype: archetype,
		Ability:   &ability.Ability{ID: name, Effects: effects},
	}
}

func normalTrap(name string, effects ...*ability.Effect) *ability.CardDef {
	return &ability.CardDef{
		Name:     name,
		CardType: ability.CardTypeTrap,
		TrapSub:  ability.TrapNormal,
		Ability:  &ability.Ability{ID: name, Effects: effects},
	}
}

// makePaddedDeck creates a deck with the specified cards on top (drawn first)
// and filler to reach a minimum size. topCards are ordered so that index 0 is
// drawn first.
func makePaddedDeck(topCards []*ability.CardDef, minSize int) []*ability.CardDef {
	filler := vanillaMonster("Filler Token", "", 1, 0, 0)
	deck := make([]*ability.CardDef, 0, minSize)

	// Filler goes at the bottom (drawn last)
	for i := 0; i < minSize-len(topCards); i++ {
		deck = append(deck, filler)
	}

	// The deck top is the last slice element, so top cards go at the end in
	// reverse order: index 0 is drawn first.
	for i := len(topCards) - 1; i >= 0; i-- {
		deck = append(deck, topCards[i])
	}

	return deck
}

// runMatchToCompletion runs a match and returns it with its logger for
// inspection.
func runMatchToCompletion(t *testing.T, cfg Config, p0, p1 *ScriptedController) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	cfg.NoShuffle = true // deterministic tests
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 100 // reasonable default for tests
	}

	m := NewMatch(cfg, p0, p1)

	winner, err := m.Run(context.Background())
	if err != nil {
		t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
		t.Fatalf("Match error: %v", err)
	}

	// Always print the event log for visibility (tests are run with -v)
	t.Logf("Match result: winner=%d (%s)", winner, m.State.Result)
	t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))

	return m, logger
}
