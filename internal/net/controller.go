package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/driver"
	"github.com/mkessel/duelcore/internal/log"
	"github.com/mkessel/duelcore/internal/match"
	"github.com/mkessel/duelcore/internal/rules"
)

// NetworkController implements driver.PlayerController over a TCP connection.
type NetworkController struct {
	conn   net.Conn
	enc    *json.Encoder
	dec    *json.Decoder
	player int // which player this controller is (0 or 1)
	mu     sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn, player int) *NetworkController {
	return &NetworkController{
		conn:   conn,
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		player: player,
	}
}

// effectiveATK computes a card's displayed attack after all modifiers.
func effectiveATK(ms *match.MatchState, ci *match.CardInstance) int {
	bonus := rules.ModifiersFor(ci, ms).Add(rules.LingeringFor(ci, ms))
	atk := ci.Def.ATK + bonus.Attack
	if atk < 0 {
		atk = 0
	}
	return atk
}

func effectiveDEF(ms *match.MatchState, ci *match.CardInstance) int {
	bonus := rules.ModifiersFor(ci, ms).Add(rules.LingeringFor(ci, ms))
	def := ci.Def.DEF + bonus.Defense
	if def < 0 {
		def = 0
	}
	return def
}

// BuildStateView creates a StateView from the perspective of the given player.
func BuildStateView(ms *match.MatchState, player int) *StateView {
	me := player
	opp := ms.Opponent(me)

	sv := &StateView{
		Turn:       ms.Turn,
		Phase:      ms.Phase.String(),
		IsYourTurn: ms.TurnPlayer == me,
	}
	sv.You = buildPlayerView(ms, me, true)
	sv.Opponent = buildPlayerView(ms, opp, false)
	return sv
}

func buildPlayerView(ms *match.MatchState, player int, isOwner bool) PlayerView {
	p := ms.Players[player]
	pv := PlayerView{
		Life:           p.Life,
		HandCount:      len(p.Hand),
		GraveyardCount: len(p.Graveyard),
		BanishedCount:  len(p.Banished),
		DeckCount:      len(p.Deck),
	}
	if isOwner {
		for _, id := range p.Hand {
			if ci := ms.Card(id); ci != nil {
				pv.Hand = append(pv.Hand, ci.Def.Name)
			}
		}
	}
	for _, id := range p.Board {
		pv.Board = append(pv.Board, monsterZoneView(ms, ms.Card(id), isOwner))
	}
	for _, id := range p.SpellTrap {
		pv.SpellTrap = append(pv.SpellTrap, backrowZoneView(ms.Card(id), isOwner))
	}
	if fc := ms.FieldCard(player); fc != nil {
		zv := backrowZoneView(fc, isOwner)
		pv.Field = &zv
	}
	return pv
}

// monsterZoneView creates a ZoneView for a board card. Face-down cards hide
// their identity from the opponent.
func monsterZoneView(ms *match.MatchState, ci *match.CardInstance, isOwner bool) ZoneView {
	if ci == nil {
		return ZoneView{}
	}
	if ci.FaceDown {
		if isOwner {
			return ZoneView{
				FaceDown: true,
				Name:     ci.Def.Name,
				ATK:      effectiveATK(ms, ci),
				DEF:      effectiveDEF(ms, ci),
				Position: ci.Position.String(),
			}
		}
		return ZoneView{FaceDown: true, Position: ci.Position.String()}
	}
	return ZoneView{
		Name:     ci.Def.Name,
		ATK:      effectiveATK(ms, ci),
		DEF:      effectiveDEF(ms, ci),
		Position: ci.Position.String(),
	}
}

// backrowZoneView creates a ZoneView for a spell/trap or field card.
func backrowZoneView(ci *match.CardInstance, isOwner bool) ZoneView {
	if ci == nil {
		return ZoneView{}
	}
	if ci.FaceDown {
		if isOwner {
			return ZoneView{FaceDown: true, Name: ci.Def.Name}
		}
		return ZoneView{FaceDown: true}
	}
	return ZoneView{Name: ci.Def.Name}
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// ChooseAction implements driver.PlayerController.
func (nc *NetworkController) ChooseAction(ctx context.Context, state *match.MatchState, actions []driver.Action) (driver.Action, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	var views []ActionView
	for i, a := range actions {
		views = append(views, ActionView{Index: i, Desc: a.String()})
	}

	msg := ServerMessage{
		Type:    "choose_action",
		Actions: views,
		State:   BuildStateView(state, nc.player),
	}
	if err := nc.send(msg); err != nil {
		return driver.Action{}, fmt.Errorf("send choose_action: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return driver.Action{}, fmt.Errorf("recv action: %w", err)
	}

	if resp.Index < 0 || resp.Index >= len(actions) {
		return actions[0], nil // fallback to first action
	}
	return actions[resp.Index], nil
}

// ChooseCards implements driver.PlayerController.
func (nc *NetworkController) ChooseCards(ctx context.Context, state *match.MatchState, prompt string, candidates []*match.CardInstance, min, max int) ([]*match.CardInstance, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	var views []CardView
	for i, c := range candidates {
		cv := CardView{Index: i, Name: c.Def.Name}
		if c.Def.CardType == ability.CardTypeMonster {
			cv.ATK = effectiveATK(state, c)
			cv.DEF = effectiveDEF(state, c)
		}
		views = append(views, cv)
	}

	msg := ServerMessage{
		Type:       "choose_cards",
		Prompt:     prompt,
		Candidates: views,
		Min:        min,
		Max:        max,
		State:      BuildStateView(state, nc.player),
	}
	if err := nc.send(msg); err != nil {
		return nil, fmt.Errorf("send choose_cards: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return nil, fmt.Errorf("recv cards: %w", err)
	}

	var result []*match.CardInstance
	for _, idx := range resp.Indices {
		if idx >= 0 && idx < len(candidates) {
			result = append(result, candidates[idx])
		}
	}
	return result, nil
}

// ChooseYesNo implements driver.PlayerController.
func (nc *NetworkController) ChooseYesNo(ctx context.Context, state *match.MatchState, prompt string) (bool, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{
		Type:   "choose_yes_no",
		Prompt: prompt,
		State:  BuildStateView(state, nc.player),
	}
	if err := nc.send(msg); err != nil {
		return false, fmt.Errorf("send choose_yes_no: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return false, fmt.Errorf("recv yes_no: %w", err)
	}

	return resp.Answer, nil
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(winner int, result string) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "game_over", Winner: winner, Result: result})
}

// Notify implements driver.PlayerController.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{
		Type: "notify",
		Event: &EventView{
			Turn:    event.Turn,
			Phase:   event.Phase,
			Player:  event.Player,
			Type:    event.Type.String(),
			Card:    event.Card,
			Details: event.Details,
		},
	}
	return nc.send(msg)
}
