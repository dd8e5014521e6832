package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"

	"go.uber.org/zap"

	"github.com/mkessel/duelcore/internal/catalog"
	"github.com/mkessel/duelcore/internal/driver"
	"github.com/mkessel/duelcore/internal/log"
)

// Server hosts a match between two TCP clients.
type Server struct {
	CardFile string
	DeckFile string
	Port     string
	HostDeck int // host's deck number (1-indexed)
	Audit    *zap.Logger
}

// Run starts the server, waits for a client to join, then runs the match.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	fmt.Printf("Waiting for opponent on port %s...\n", s.Port)

	// Accept exactly one connection (the joiner)
	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	fmt.Printf("Opponent connected from %s\n", conn.RemoteAddr())

	// Read the joiner's deck choice
	dec := json.NewDecoder(conn)
	var joinMsg ClientMessage
	if err := dec.Decode(&joinMsg); err != nil {
		return fmt.Errorf("read join message: %w", err)
	}
	joinerDeck := joinMsg.DeckNumber
	if joinerDeck == 0 {
		joinerDeck = 2
	}

	fmt.Printf("Opponent chose deck %d\n", joinerDeck)

	// Load the catalog and decks
	loader := catalog.NewLoader(s.Audit)
	defs, err := loader.LoadSet(s.CardFile)
	if err != nil {
		return fmt.Errorf("load card set: %w", err)
	}
	reg := catalog.NewRegistry()
	reg.Add(defs...)

	hostDeckName, hostCards, err := catalog.DeckByNumber(s.DeckFile, s.HostDeck, reg)
	if err != nil {
		return fmt.Errorf("load host deck: %w", err)
	}
	joinerDeckName, joinerCards, err := catalog.DeckByNumber(s.DeckFile, joinerDeck, reg)
	if err != nil {
		return fmt.Errorf("load joiner deck: %w", err)
	}

	fmt.Printf("Host: %s (%d cards)\n", hostDeckName, len(hostCards))
	fmt.Printf("Joiner: %s (%d cards)\n", joinerDeckName, len(joinerCards))

	// Create a pipe for the host's local connection
	hostConn, hostServerConn := net.Pipe()

	// Player 0 = host, Player 1 = joiner
	hostCtrl := NewNetworkController(hostServerConn, 0)
	joinerCtrl := NewNetworkController(conn, 1)

	logger := log.NewTextLogger(os.Stdout)
	m := driver.NewMatch(driver.Config{
		Deck0:  hostCards,
		Deck1:  joinerCards,
		Logger: logger,
	}, hostCtrl, joinerCtrl)

	// Run the host's local REPL in a goroutine
	errCh := make(chan error, 2)
	go func() {
		client := &Client{conn: hostConn, playerName: "P1"}
		errCh <- client.RunREPL(ctx)
	}()

	// Run the match
	go func() {
		winner, err := m.Run(ctx)
		if err != nil {
			errCh <- fmt.Errorf("match error: %w", err)
			return
		}

		gameOverMsg := ServerMessage{
			Type:   "game_over",
			Winner: winner,
			Result: m.State.Result,
		}
		_ = joinerCtrl.SendGameOver(gameOverMsg.Winner, gameOverMsg.Result)
		_ = hostCtrl.SendGameOver(gameOverMsg.Winner, gameOverMsg.Result)

		errCh <- nil
	}()

	// Wait for either the match or the REPL to finish
	err = <-errCh
	return err
}
