// Package web serves the browser gateway: a JSON API over the card catalog
// and a WebSocket-to-TCP proxy so a browser client can join a match server.
package web

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/catalog"
)

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CardType    string `json:"cardType"`
	Level       int    `json:"level,omitempty"`
	Archetype   string `json:"archetype,omitempty"`
	Rarity      string `json:"rarity,omitempty"`
	ATK         int    `json:"atk,omitempty"`
	DEF         int    `json:"def,omitempty"`
	HasAbility  bool   `json:"hasAbility,omitempty"`
	Subtype     string `json:"subtype,omitempty"`
}

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Cards  []string `json:"cards"`
}

// Server is the duelcore web gateway.
type Server struct {
	cfg      Config
	registry *catalog.Registry
	mux      *http.ServeMux

	mu       sync.Mutex
	sessions map[string]string // session id → proxied match server address
}

// NewServer creates a new web server over a loaded card registry.
func NewServer(cfg Config, reg *catalog.Registry) *Server {
	s := &Server{
		cfg:      cfg,
		registry: reg,
		mux:      http.NewServeMux(),
		sessions: make(map[string]string),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /", s.handleIndex)
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!doctype html><title>duelcore</title>
<h1>duelcore gateway</h1>
<p>Endpoints: <a href="/api/cards">/api/cards</a>, <a href="/api/decks">/api/decks</a>, /ws (WebSocket proxy)</p>`)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	var cards []CardInfo
	for _, name := range s.registry.Names() {
		c, ok := s.registry.Lookup(name)
		if !ok {
			continue
		}
		ci := CardInfo{
			Name:        c.Name,
			Description: c.Description,
			Level:       c.Level,
			Archetype:   c.Archetype,
			Rarity:      c.Rarity,
			ATK:         c.ATK,
			DEF:         c.DEF,
			HasAbility:  c.Ability != nil,
		}
		switch c.CardType {
		case ability.CardTypeMonster:
			ci.CardType = "Monster"
		case ability.CardTypeSpell:
			ci.CardType = "Spell"
			ci.Subtype = spellSubtypeString(c.SpellSub)
		case ability.CardTypeTrap:
			ci.CardType = "Trap"
			ci.Subtype = trapSubtypeString(c.TrapSub)
		}
		cards = append(cards, ci)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.cfg.DeckFile)
	if err != nil {
		http.Error(w, "could not read decks file", http.StatusInternalServerError)
		return
	}

	var df catalog.DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		http.Error(w, "could not parse decks file", http.StatusInternalServerError)
		return
	}

	var decks []DeckInfo
	for i, d := range df.Decks {
		di := DeckInfo{
			Number: i + 1,
			Name:   d.Name,
		}
		// Unique card names for display
		seen := make(map[string]bool)
		for _, c := range d.Cards {
			if !seen[c.Name] {
				di.Cards = append(di.Cards, c.Name)
				seen[c.Name] = true
			}
		}
		decks = append(decks, di)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(decks)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	// Read initial connect message from browser
	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		log.Printf("WebSocket read connect: %v", err)
		return
	}

	var connectMsg struct {
		Type       string `json:"type"`
		Addr       string `json:"addr"`
		DeckNumber int    `json:"deck_number"`
	}
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	session := uuid.NewString()
	s.mu.Lock()
	s.sessions[session] = connectMsg.Addr
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.sessions, session)
		s.mu.Unlock()
	}()
	log.Printf("session %s proxying to %s", session, connectMsg.Addr)

	// Open TCP connection to match server
	tcpConn, err := net.Dial("tcp", connectMsg.Addr)
	if err != nil {
		errMsg, _ := json.Marshal(map[string]string{
			"type":   "error",
			"result": fmt.Sprintf("Could not connect to match server at %s: %v", connectMsg.Addr, err),
		})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	// Send join message over TCP
	joinMsg, _ := json.Marshal(map[string]interface{}{
		"type":        "join",
		"deck_number": connectMsg.DeckNumber,
	})
	joinMsg = append(joinMsg, '\n')
	if _, err := tcpConn.Write(joinMsg); err != nil {
		log.Printf("TCP write join: %v", err)
		return
	}

	done := make(chan struct{})

	// TCP → WebSocket (server messages to browser)
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if err != io.EOF {
					log.Printf("TCP read error: %v", err)
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}
		}
	}()

	// WebSocket → TCP (browser responses to server)
	go func() {
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				log.Printf("TCP write error: %v", err)
				return
			}
		}
	}()

	<-done
	wsConn.Close(websocket.StatusNormalClosure, "match ended")
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return http.ListenAndServe(s.cfg.Addr(), s.mux)
}

func spellSubtypeString(sub ability.SpellSubtype) string {
	switch sub {
	case ability.SpellNormal:
		return "Normal"
	case ability.SpellQuickPlay:
		return "Quick-Play"
	case ability.SpellContinuous:
		return "Continuous"
	case ability.SpellField:
		return "Field"
	default:
		return ""
	}
}

func trapSubtypeString(sub ability.TrapSubtype) string {
	switch sub {
	case ability.TrapNormal:
		return "Normal"
	case ability.TrapContinuous:
		return "Continuous"
	case ability.TrapCounter:
		return "Counter"
	default:
		return ""
	}
}
