package ability

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// CompoundOp is the connective of a compound condition node. The zero value
// marks a leaf predicate bundle.
type CompoundOp int

const (
	OpLeaf CompoundOp = iota
	OpAnd
	OpOr
	OpNot
)

func (op CompoundOp) String() string {
	switch op {
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	default:
		return "leaf"
	}
}

// NumRange is a numeric constraint: either an exact value (Min == Max) or an
// inclusive {min, max} range with either bound optional. It unmarshals from
// a bare number or a {min, max} object in both JSON and YAML.
type NumRange struct {
	Min *int
	Max *int
}

// Exact returns a range matching only n.
func Exact(n int) *NumRange {
	v := n
	return &NumRange{Min: &v, Max: &v}
}

// Between returns an inclusive range.
func Between(min, max int) *NumRange {
	lo, hi := min, max
	return &NumRange{Min: &lo, Max: &hi}
}

// AtMost returns a range with only an upper bound.
func AtMost(n int) *NumRange {
	v := n
	return &NumRange{Max: &v}
}

// AtLeast returns a range with only a lower bound.
func AtLeast(n int) *NumRange {
	v := n
	return &NumRange{Min: &v}
}

// Contains reports whether v satisfies the range. A nil range or a range
// with both bounds absent is unconstrained.
func (r *NumRange) Contains(v int) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

type numRangeDoc struct {
	Min *int `json:"min" yaml:"min"`
	Max *int `json:"max" yaml:"max"`
}

func (r *NumRange) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		r.Min, r.Max = &n, cloneInt(n)
		return nil
	}
	var doc numRangeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("numeric range: %w", err)
	}
	r.Min, r.Max = doc.Min, doc.Max
	return nil
}

func (r *NumRange) UnmarshalYAML(node *yaml.Node) error {
	var n int
	if err := node.Decode(&n); err == nil {
		r.Min, r.Max = &n, cloneInt(n)
		return nil
	}
	var doc numRangeDoc
	if err := node.Decode(&doc); err != nil {
		return fmt.Errorf("numeric range: %w", err)
	}
	r.Min, r.Max = doc.Min, doc.Max
	return nil
}

func cloneInt(n int) *int {
	v := n
	return &v
}

// LifeCheck is a life-point threshold against a player's life total.
type LifeCheck struct {
	Owner Owner // whose life; default self
	Below *int
	Above *int
	Equal *int
}

// FieldCountCheck counts matching cards in a zone.
type FieldCountCheck struct {
	Zone     Zone
	Owner    Owner
	Count    *NumRange
	Position *Position
	FaceDown *bool
	Filter   *Condition
}

// GraveyardCheck inspects graveyard contents.
type GraveyardCheck struct {
	Owner     Owner
	Count     *NumRange
	CardType  *CardType
	Archetype string
}

// Condition is either a compound node (and/or/not over children) or a leaf
// predicate bundle. On a leaf every nil field imposes no constraint, so the
// empty condition is always true.
type Condition struct {
	Op       CompoundOp
	Children []*Condition

	// Leaf predicates. All optional; present checks are conjunctive.
	Archetype *string // substring, case-insensitive, also matched on name
	CardType  *CardType
	Rarity    *string
	Name      *string // substring, case-insensitive
	NameIs    *string // exact, case-insensitive

	Level   *NumRange
	Attack  *NumRange
	Defense *NumRange
	Cost    *NumRange

	Position    *Position
	FaceDown    *bool
	HasAttacked *bool
	Protected   *bool
	Owner       *Owner

	Life       *LifeCheck
	Turn       *NumRange
	Phase      *string
	FieldCount *FieldCountCheck
	Graveyard  *GraveyardCheck
}

// IsLeaf reports whether c is a leaf predicate bundle.
func (c *Condition) IsLeaf() bool {
	return c == nil || c.Op == OpLeaf
}

// And builds a conjunction. And() with no children is always true.
func And(children ...*Condition) *Condition {
	return &Condition{Op: OpAnd, Children: children}
}

// Or builds a disjunction. Or() with no children is always false.
func Or(children ...*Condition) *Condition {
	return &Condition{Op: OpOr, Children: children}
}

// Not negates its first child; Not() with no children is true.
func Not(children ...*Condition) *Condition {
	return &Condition{Op: OpNot, Children: children}
}

// Helper constructors for common leaf conditions.

func ArchetypeIs(tag string) *Condition {
	return &Condition{Archetype: &tag}
}

func TypeIs(ct CardType) *Condition {
	return &Condition{CardType: &ct}
}

func OwnedBy(o Owner) *Condition {
	return &Condition{Owner: &o}
}

func LevelIn(r *NumRange) *Condition {
	return &Condition{Level: r}
}

func AttackIn(r *NumRange) *Condition {
	return &Condition{Attack: r}
}

func DefenseIn(r *NumRange) *Condition {
	return &Condition{Defense: r}
}
