// Package catalog loads authored card definitions into the canonical
// ability model. Both historical content schemas are accepted here and
// normalized exactly once; the rest of the engine never sees raw authored
// shapes. Schema oddities are tolerated but flagged through the audit
// logger for catalog review.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mkessel/duelcore/internal/ability"
)

// Loader parses authored content. The audit logger receives a warning for
// every unknown kind or unrecognized legacy construct kept permissively.
type Loader struct {
	audit *zap.Logger
}

// NewLoader creates a Loader. A nil audit logger disables auditing.
func NewLoader(audit *zap.Logger) *Loader {
	if audit == nil {
		audit = zap.NewNop()
	}
	return &Loader{audit: audit}
}

// ParseSetYAML parses a YAML card set.
func (l *Loader) ParseSetYAML(data []byte) ([]*ability.CardDef, error) {
	var doc setDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse card set YAML: %w", err)
	}
	return l.normalizeSet(&doc)
}

// ParseSetJSON parses a JSON card set (either historical schema).
func (l *Loader) ParseSetJSON(data []byte) ([]*ability.CardDef, error) {
	var doc setDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse card set JSON: %w", err)
	}
	return l.normalizeSet(&doc)
}

// LoadSet reads a card set file, dispatching on extension.
func (l *Loader) LoadSet(path string) ([]*ability.CardDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return l.ParseSetJSON(data)
	}
	return l.ParseSetYAML(data)
}

func (l *Loader) normalizeSet(doc *setDoc) ([]*ability.CardDef, error) {
	defs := make([]*ability.CardDef, 0, len(doc.Cards))
	for _, cd := range doc.Cards {
		if cd.Name == "" {
			return nil, fmt.Errorf("card set contains an unnamed card")
		}
		defs = append(defs, l.normalizeCard(cd))
	}
	return defs, nil
}

// --- Registry ---

// Registry maps card names to their definitions.
type Registry struct {
	defs map[string]*ability.CardDef
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ability.CardDef)}
}

// Add registers definitions, replacing earlier ones with the same name.
func (r *Registry) Add(defs ...*ability.CardDef) {
	for _, def := range defs {
		r.defs[def.Name] = def
	}
}

// Lookup returns the definition for a card name.
func (r *Registry) Lookup(name string) (*ability.CardDef, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Names returns all registered card names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered cards.
func (r *Registry) Len() int {
	return len(r.defs)
}

// --- Deck files ---

// DeckFile is the top-level YAML structure of a deck list file.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry is a single deck.
type DeckEntry struct {
	Name  string      `yaml:"name"`
	Cards []CardCount `yaml:"cards"`
}

// CardCount is a card and its copy count in a deck.
type CardCount struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// ParseDeckFile parses a YAML deck file against a registry, returning deck
// name to card definition slices.
func ParseDeckFile(path string, reg *Registry) (map[string][]*ability.CardDef, error) {
	df, err := readDeckFile(path)
	if err != nil {
		return nil, err
	}
	decks := make(map[string][]*ability.CardDef)
	for _, deck := range df.Decks {
		cards, err := expandDeck(deck, reg)
		if err != nil {
			return nil, err
		}
		decks[deck.Name] = cards
	}
	return decks, nil
}

// DeckByNumber returns the Nth deck (1-indexed) from a deck file.
func DeckByNumber(path string, n int, reg *Registry) (string, []*ability.CardDef, error) {
	df, err := readDeckFile(path)
	if err != nil {
		return "", nil, err
	}
	if n < 1 || n > len(df.Decks) {
		return "", nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}
	deck := df.Decks[n-1]
	cards, err := expandDeck(deck, reg)
	if err != nil {
		return "", nil, err
	}
	return deck.Name, cards, nil
}

func readDeckFile(path string) (*DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	return &df, nil
}

func expandDeck(deck DeckEntry, reg *Registry) ([]*ability.CardDef, error) {
	var cards []*ability.CardDef
	for _, entry := range deck.Cards {
		def, ok := reg.Lookup(entry.Name)
		if !ok {
			return nil, fmt.Errorf("deck %q references unknown card %q", deck.Name, entry.Name)
		}
		for i := 0; i < entry.Count; i++ {
			cards = append(cards, def)
		}
	}
	return cards, nil
}
