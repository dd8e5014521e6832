// Package mcp exposes the match engine as MCP tools over stdio, letting an
// AI assistant play one seat while a human connects over TCP for the other.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	dcnet "github.com/mkessel/duelcore/internal/net"

	"github.com/mkessel/duelcore/internal/catalog"
	"github.com/mkessel/duelcore/internal/driver"
	"github.com/mkessel/duelcore/internal/log"

	stdnet "net"
)

// DecisionType identifies what kind of decision the match engine is waiting for.
type DecisionType string

const (
	DecisionChooseAction DecisionType = "choose_action"
	DecisionChooseCards  DecisionType = "choose_cards"
	DecisionChooseYesNo  DecisionType = "choose_yes_no"
	DecisionGameOver     DecisionType = "game_over"
)

// PendingDecision represents a decision the match engine is waiting for.
type PendingDecision struct {
	Type       DecisionType       `json:"type"`
	Player     int                `json:"player"`
	State      *dcnet.StateView   `json:"state"`
	Actions    []dcnet.ActionView `json:"actions,omitempty"`
	Prompt     string             `json:"prompt,omitempty"`
	Candidates []dcnet.CardView   `json:"candidates,omitempty"`
	Min        int                `json:"min,omitempty"`
	Max        int                `json:"max,omitempty"`
}

// Response types sent back from MCP tools to controllers.

type ActionResponse struct {
	Index int
}

type CardsResponse struct {
	Indices []int
}

type YesNoResponse struct {
	Answer bool
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []dcnet.EventView `json:"events"`
	State    *dcnet.StateView  `json:"state,omitempty"`
	Pending  *PendingView      `json:"pending,omitempty"`
	GameOver bool              `json:"game_over"`
	Winner   int               `json:"winner,omitempty"`
	Result   string            `json:"result,omitempty"`
	Port     string            `json:"port,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type       DecisionType       `json:"type"`
	ForPlayer  string             `json:"for_player"`
	Actions    []dcnet.ActionView `json:"actions,omitempty"`
	Prompt     string             `json:"prompt,omitempty"`
	Candidates []dcnet.CardView   `json:"candidates,omitempty"`
	Min        int                `json:"min,omitempty"`
	Max        int                `json:"max,omitempty"`
}

// GameSession holds the state of a single MCP match session.
type GameSession struct {
	match     *driver.Match
	aiCtrl    *MCPController
	humanCtrl *dcnet.NetworkController
	aiPlayer  int

	listener  stdnet.Listener
	humanConn stdnet.Conn

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []dcnet.EventView
	gameOver bool
	winner   int
	result   string
}

// NewGameSession creates a new match session. It starts a TCP listener,
// waits for the human player to connect via `duelcore-cli join`, then starts
// the match.
func NewGameSession(cardsFile, decksFile string, aiDeck, aiPlayer int, port string) (*GameSession, error) {
	loader := catalog.NewLoader(nil)
	defs, err := loader.LoadSet(cardsFile)
	if err != nil {
		return nil, fmt.Errorf("load card set: %w", err)
	}
	reg := catalog.NewRegistry()
	reg.Add(defs...)

	_, aiCards, err := catalog.DeckByNumber(decksFile, aiDeck, reg)
	if err != nil {
		return nil, fmt.Errorf("load AI deck: %w", err)
	}

	// Start TCP listener for human player
	ln, err := stdnet.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("listen on port %s: %w", port, err)
	}

	// Accept one connection (blocks until human runs `duelcore-cli join`)
	conn, err := ln.Accept()
	if err != nil {
		ln.Close()
		return nil, fmt.Errorf("accept: %w", err)
	}

	// Read join message to get human's deck choice
	dec := json.NewDecoder(conn)
	var joinMsg dcnet.ClientMessage
	if err := dec.Decode(&joinMsg); err != nil {
		conn.Close()
		ln.Close()
		return nil, fmt.Errorf("read join message: %w", err)
	}
	humanDeck := joinMsg.DeckNumber
	if humanDeck == 0 {
		humanDeck = 2
	}

	_, humanCards, err := catalog.DeckByNumber(decksFile, humanDeck, reg)
	if err != nil {
		conn.Close()
		ln.Close()
		return nil, fmt.Errorf("load human deck: %w", err)
	}

	sess := &GameSession{
		aiPlayer:  aiPlayer,
		pendingCh: make(chan *PendingDecision, 1),
		winner:    -1,
		listener:  ln,
		humanConn: conn,
	}

	humanPlayer := 1 - aiPlayer
	sess.aiCtrl = NewMCPController(aiPlayer, sess)
	sess.humanCtrl = dcnet.NewNetworkController(conn, humanPlayer)

	// Assign decks to player indices
	var deck0, deck1 = aiCards, humanCards
	var ctrl0, ctrl1 driver.PlayerController = sess.aiCtrl, sess.humanCtrl
	if aiPlayer != 0 {
		deck0, deck1 = humanCards, aiCards
		ctrl0, ctrl1 = sess.humanCtrl, sess.aiCtrl
	}

	cfg := driver.Config{
		Deck0:  deck0,
		Deck1:  deck1,
		Logger: log.NewMemoryLogger(),
	}

	sess.match = driver.NewMatch(cfg, ctrl0, ctrl1)

	// Start the match in a goroutine
	go func() {
		winner, err := sess.match.Run(context.Background())
		if err != nil {
			sess.mu.Lock()
			sess.gameOver = true
			sess.result = fmt.Sprintf("error: %v", err)
			sess.mu.Unlock()
		}

		result := sess.match.State.Result
		if result == "" {
			result = fmt.Sprintf("Match over. Winner: player %d", winner)
		}

		// Notify human over TCP
		_ = sess.humanCtrl.SendGameOver(winner, result)

		// Clean up TCP resources
		sess.humanConn.Close()
		sess.listener.Close()

		// Notify the AI via pending channel
		sess.pendingCh <- &PendingDecision{
			Type:   DecisionGameOver,
			Player: winner,
			State:  dcnet.BuildStateView(sess.match.State, sess.aiPlayer),
		}

		sess.mu.Lock()
		sess.gameOver = true
		sess.winner = winner
		sess.result = result
		sess.mu.Unlock()
	}()

	return sess, nil
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev dcnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []dcnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	return events
}

// waitForPending blocks until the next decision arrives from the match
// engine, then builds a ToolResponse with accumulated events + the pending
// decision.
func (s *GameSession) waitForPending() (*ToolResponse, error) {
	pending := <-s.pendingCh
	s.currentPending = pending

	events := s.drainEvents()

	resp := &ToolResponse{
		Events: events,
	}

	if pending.Type == DecisionGameOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winner = s.winner
		resp.Result = s.result
		s.mu.Unlock()
		resp.State = pending.State
		resp.Pending = nil
		return resp, nil
	}

	resp.State = pending.State
	resp.Pending = &PendingView{
		Type:       pending.Type,
		ForPlayer:  s.playerLabel(pending.Player),
		Actions:    pending.Actions,
		Prompt:     pending.Prompt,
		Candidates: pending.Candidates,
		Min:        pending.Min,
		Max:        pending.Max,
	}

	return resp, nil
}

// playerLabel returns "ai" or "human" for the given player index.
func (s *GameSession) playerLabel(player int) string {
	if player == s.aiPlayer {
		return "ai"
	}
	return "human"
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
