package ability

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Older authored content carries conditions as fixed-vocabulary strings like
// "level_4_or_lower" or "dragon_monsters" instead of structured objects.
// ParseLegacyCondition converts those to the structured form. The vocabulary
// is small and closed, so the grammar is deliberately strict; anything it
// does not recognize converts to nil, which callers treat as "no constraint"
// rather than an error.

type legacyExpr struct {
	Threshold *legacyThreshold `parser:"  @@"`
	Monsters  *legacyMonsters  `parser:"| @@"`
}

type legacyThreshold struct {
	Stat  string `parser:"@('level' | 'attack' | 'atk' | 'defense' | 'def')"`
	Value int    `parser:"@Int"`
	Dir   string `parser:"('or' @('lower' | 'less' | 'higher' | 'more' | 'greater'))?"`
}

type legacyMonsters struct {
	Words []string `parser:"@Word @Word*"`
}

var legacyParser = participle.MustBuild[legacyExpr](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Int", Pattern: `\d+`},
		{Name: "Word", Pattern: `[a-zA-Z]+`},
		{Name: "Sep", Pattern: `[_\s]+`},
	})),
	participle.Elide("Sep"),
)

// ParseLegacyCondition converts a legacy free-text condition to a structured
// Condition. Returns nil (no constraint) for empty or unrecognized input.
func ParseLegacyCondition(s string) *Condition {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return nil
	}
	expr, err := legacyParser.ParseString("", s)
	if err != nil {
		return nil
	}

	switch {
	case expr.Threshold != nil:
		return legacyThresholdCondition(expr.Threshold)
	case expr.Monsters != nil:
		return legacyMonstersCondition(expr.Monsters.Words)
	}
	return nil
}

func legacyThresholdCondition(t *legacyThreshold) *Condition {
	var r *NumRange
	switch t.Dir {
	case "lower", "less":
		r = AtMost(t.Value)
	case "higher", "more", "greater":
		r = AtLeast(t.Value)
	default:
		r = Exact(t.Value)
	}

	switch t.Stat {
	case "level":
		return LevelIn(r)
	case "attack", "atk":
		return AttackIn(r)
	default:
		return DefenseIn(r)
	}
}

func legacyMonstersCondition(words []string) *Condition {
	if len(words) == 0 || words[len(words)-1] != "monsters" {
		return nil
	}
	qualifier := words[:len(words)-1]

	cond := TypeIs(CardTypeMonster)
	if len(qualifier) == 0 {
		return nil // bare "monsters" is not in the vocabulary
	}
	if len(qualifier) == 1 {
		switch qualifier[0] {
		case "all":
			return cond
		case "opponent":
			opp := OwnerOpponent
			cond.Owner = &opp
			return cond
		}
	}
	// Remaining words are an archetype tag, underscore-joined as authored.
	tag := strings.Join(qualifier, "_")
	cond.Archetype = &tag
	return cond
}
