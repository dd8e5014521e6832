// Package driver runs matches: the turn and phase loop, player action
// selection, and effect resolution. It is the only package that mutates
// match state in response to player decisions; internal/rules stays pure.
package driver

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/log"
	"github.com/mkessel/duelcore/internal/match"
	"github.com/mkessel/duelcore/internal/rules"
)

// PlayerController is the interface that both human (WebSocket) and AI (MCP) players implement.
type PlayerController interface {
	// ChooseAction presents available actions and waits for the player to pick one.
	ChooseAction(ctx context.Context, state *match.MatchState, actions []Action) (Action, error)

	// ChooseCards asks the player to select cards from a list (e.g., tribute or cost targets).
	ChooseCards(ctx context.Context, state *match.MatchState, prompt string, candidates []*match.CardInstance, min, max int) ([]*match.CardInstance, error)

	// ChooseYesNo asks the player a yes/no question (e.g., "resolve the alternative effect?").
	ChooseYesNo(ctx context.Context, state *match.MatchState, prompt string) (bool, error)

	// Notify sends a game event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// Config holds configuration for creating a new match.
type Config struct {
	Deck0     []*ability.CardDef // Player 0's deck (card definitions)
	Deck1     []*ability.CardDef // Player 1's deck (card definitions)
	Logger    log.EventLogger
	Seed      int64 // RNG seed (0 for random)
	NoShuffle bool  // skip deck shuffle (for deterministic tests)
	MaxTurns  int   // stop after this many turns (0 = no limit)
}

// Match orchestrates an entire match between two players.
type Match struct {
	State       *match.MatchState
	Controllers [2]PlayerController
	Logger      log.EventLogger
	ctx         context.Context
	rng         *rand.Rand
	noShuffle   bool
	maxTurns    int
}

// NewMatch creates a new match from the given config and player controllers.
func NewMatch(cfg Config, p0, p1 PlayerController) *Match {
	ms := match.NewMatchState()
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}

	for _, def := range cfg.Deck0 {
		ci := ms.AddCard(def, 0)
		ms.Players[0].Deck = append(ms.Players[0].Deck, ci.ID)
	}
	for _, def := range cfg.Deck1 {
		ci := ms.AddCard(def, 1)
		ms.Players[1].Deck = append(ms.Players[1].Deck, ci.ID)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	maxTurns := cfg.MaxTurns
	if maxTurns == 0 {
		maxTurns = 200 // safety limit
	}

	return &Match{
		State:       ms,
		Controllers: [2]PlayerController{p0, p1},
		Logger:      logger,
		ctx:         context.Background(),
		rng:         rand.New(rand.NewSource(seed)),
		noShuffle:   cfg.NoShuffle,
		maxTurns:    maxTurns,
	}
}

// Run executes the entire match loop. Returns the winner (0, 1, or -1 for draw).
func (m *Match) Run(ctx context.Context) (int, error) {
	m.ctx = ctx
	ms := m.State

	if !m.noShuffle {
		ms.ShuffleDeck(0, m.rng)
		ms.ShuffleDeck(1, m.rng)
	}

	// Draw initial hands
	for i := 0; i < match.InitialHandSize; i++ {
		for p := 0; p < 2; p++ {
			if ms.Draw(p) == nil {
				return -1, fmt.Errorf("player %d has insufficient cards for initial hand", p)
			}
		}
	}

	for !ms.Over {
		if ms.Turn >= m.maxTurns {
			ms.Over = true
			ms.Winner = -1
			ms.Result = fmt.Sprintf("Turn limit reached (%d turns)", m.maxTurns)
			break
		}
		if err := m.runTurn(); err != nil {
			return ms.Winner, err
		}
		if err := m.ctx.Err(); err != nil {
			return -1, err
		}
	}

	if ms.Winner >= 0 {
		m.log(log.NewWinEvent(ms.Turn, ms.Phase.String(), ms.Winner, ms.Result))
	}
	return ms.Winner, nil
}

// runTurn executes a single turn for the current turn player.
func (m *Match) runTurn() error {
	ms := m.State
	ms.Turn++
	ms.ResetTurnFlags()

	// Usage restrictions reset at the start of the restricted player's own
	// turn only; the opponent's markers survive.
	rules.ResetRestrictions(ms, ms.TurnPlayer, ms.Turn)

	m.log(log.NewTurnEvent(ms.Turn, ms.TurnPlayer))
	m.log(log.NewRestrictionResetEvent(ms.Turn, ms.TurnPlayer))

	if err := m.drawPhase(); err != nil || ms.Over {
		return err
	}
	if err := m.standbyPhase(); err != nil || ms.Over {
		return err
	}
	if err := m.mainPhase(match.PhaseMain1); err != nil || ms.Over {
		return err
	}

	enteredBattle := ms.Phase == match.PhaseBattle
	if enteredBattle {
		if err := m.battlePhase(); err != nil || ms.Over {
			return err
		}
		if err := m.mainPhase(match.PhaseMain2); err != nil || ms.Over {
			return err
		}
	}

	if err := m.endPhase(); err != nil {
		return err
	}

	ms.TurnPlayer = ms.Opponent(ms.TurnPlayer)
	return nil
}

// setPhase advances to a phase and expires phase-scoped lingering effects.
// Every phase transition goes through here so durations expire on time.
func (m *Match) setPhase(phase match.Phase) {
	ms := m.State
	ms.Phase = phase
	m.log(log.NewPhaseChangeEvent(ms.Turn, phase.String()))

	for _, l := range rules.CleanupLingering(ms, phase, ms.Turn) {
		name := "unknown card"
		if src := ms.Card(l.Source); src != nil {
			name = src.Def.Name
		}
		m.log(log.NewLingeringExpiredEvent(ms.Turn, phase.String(), name))
	}
}

func (m *Match) drawPhase() error {
	ms := m.State
	m.setPhase(match.PhaseDraw)

	card := ms.Draw(ms.TurnPlayer)
	if card == nil {
		ms.Over = true
		ms.Winner = ms.Opponent(ms.TurnPlayer)
		ms.Result = fmt.Sprintf("P%d decked out", ms.TurnPlayer+1)
		return nil
	}
	m.log(log.NewDrawEvent(ms.Turn, ms.Phase.String(), ms.TurnPlayer, card.Def.Name))
	return nil
}

func (m *Match) standbyPhase() error {
	m.setPhase(match.PhaseStandby)
	return m.processTriggers(ability.TriggerOnStandby)
}

func (m *Match) mainPhase(phase match.Phase) error {
	ms := m.State
	m.setPhase(phase)
	tp := ms.TurnPlayer

	for !ms.Over {
		actions := m.computeMainPhaseActions(tp)
		if len(actions) == 0 {
			break
		}

		chosen, err := m.Controllers[tp].ChooseAction(m.ctx, ms, actions)
		if err != nil {
			return err
		}

		switch chosen.Type {
		case ActionNormalSummon:
			if err := m.executeNormalSummon(chosen); err != nil {
				return err
			}
		case ActionNormalSet:
			if err := m.executeNormalSet(chosen); err != nil {
				return err
			}
		case ActionSetSpellTrap:
			if err := m.executeSetSpellTrap(chosen); err != nil {
				return err
			}
		case ActionActivate:
			if err := m.executeActivate(chosen); err != nil {
				return err
			}
		case ActionEnterBattlePhase:
			ms.Phase = match.PhaseBattle
			return nil
		case ActionEndTurn:
			return nil
		}
	}
	return nil
}

func (m *Match) battlePhase() error {
	ms := m.State
	m.setPhase(match.PhaseBattle)

	for !ms.Over {
		actions := m.computeBattlePhaseActions()
		if len(actions) == 0 {
			break
		}

		chosen, err := m.Controllers[ms.TurnPlayer].ChooseAction(m.ctx, ms, actions)
		if err != nil {
			return err
		}

		switch chosen.Type {
		case ActionAttack:
			if err := m.executeAttack(chosen); err != nil {
				return err
			}
		case ActionDirectAttack:
			if err := m.executeDirectAttack(chosen); err != nil {
				return err
			}
		case ActionEndBattlePhase:
			return nil
		}
	}
	return nil
}

func (m *Match) endPhase() error {
	ms := m.State
	m.setPhase(match.PhaseEnd)

	if err := m.processTriggers(ability.TriggerOnEndPhase); err != nil {
		return err
	}
	if ms.Over {
		return nil
	}

	// Hand size check: discard down to the limit
	tp := ms.TurnPlayer
	p := ms.Players[tp]
	for len(p.Hand) > match.MaxHandSize {
		hand := make([]*match.CardInstance, 0, len(p.Hand))
		for _, id := range p.Hand {
			hand = append(hand, ms.Card(id))
		}
		toDiscard, err := m.Controllers[tp].ChooseCards(
			m.ctx, ms,
			fmt.Sprintf("Discard to %d cards (you have %d)", match.MaxHandSize, len(p.Hand)),
			hand, 1, 1,
		)
		if err != nil {
			return err
		}
		if len(toDiscard) == 0 {
			toDiscard = hand[:1] // controller refused to choose; forced discard
		}
		card := toDiscard[0]
		ms.MoveCard(card.ID, ability.ZoneHand, ability.ZoneGraveyard)
		m.log(log.NewDiscardEvent(ms.Turn, ms.Phase.String(), tp, card.Def.Name))
	}
	return nil
}

// processTriggers offers each face-up card's phase-triggered effects to its
// controller. Mandatory triggers do not exist in the authored model; every
// trigger is optional and gated by a yes/no prompt.
func (m *Match) processTriggers(trigger ability.Trigger) error {
	ms := m.State
	for p := 0; p < 2; p++ {
		sources := append(ms.BoardCards(p), ms.FaceUpSpellTraps(p)...)
		if fs := ms.FieldCard(p); fs != nil && !fs.FaceDown {
			sources = append(sources, fs)
		}
		for _, ci := range sources {
			if ci.FaceDown || ci.Def.Ability == nil {
				continue
			}
			flat := ability.Flatten(ci.Def.Ability)
			for _, idx := range flat.EffectIndexes() {
				eff := flat.Effects[idx]
				if eff.Trigger != trigger {
					continue
				}
				if chk := rules.CheckActivation(ms, ci, idx, p); !chk.CanActivate {
					continue
				}
				yes, err := m.Controllers[p].ChooseYesNo(m.ctx, ms, "Activate "+ci.Def.Name+" effect?")
				if err != nil {
					return err
				}
				if !yes {
					continue
				}
				if err := m.activateEffect(ci, idx, p); err != nil {
					return err
				}
				if ms.Over {
					return nil
				}
			}
		}
	}
	return nil
}

// log emits a game event through the logger and notifies both players.
func (m *Match) log(event log.GameEvent) {
	m.Logger.Log(event)
	for i := 0; i < 2; i++ {
		_ = m.Controllers[i].Notify(m.ctx, event)
	}
}
