package catalog

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mkessel/duelcore/internal/ability"
)

// Two condition/effect schemas evolved independently in authored content: a
// narrow legacy one (free-text conditions, `count`/`type` spellings) and an
// extended one (structured conditions, `activationCondition`/`effectType`,
// richer duration vocabulary). Both load through the doc types below and
// normalize into the canonical ability model exactly once, here.

// conditionDoc accepts either a legacy free-text string or a structured
// condition object.
type conditionDoc struct {
	text string
	obj  *conditionObj
}

type conditionObj struct {
	And []*conditionDoc `json:"and" yaml:"and"`
	Or  []*conditionDoc `json:"or" yaml:"or"`
	Not []*conditionDoc `json:"not" yaml:"not"`

	Archetype *string `json:"archetype" yaml:"archetype"`
	CardType  *string `json:"cardType" yaml:"cardType"`
	Rarity    *string `json:"rarity" yaml:"rarity"`
	Name      *string `json:"name" yaml:"name"`
	NameIs    *string `json:"nameIs" yaml:"nameIs"`

	Level   *ability.NumRange `json:"level" yaml:"level"`
	Attack  *ability.NumRange `json:"attack" yaml:"attack"`
	Defense *ability.NumRange `json:"defense" yaml:"defense"`
	Cost    *ability.NumRange `json:"cost" yaml:"cost"`

	Position    *string `json:"position" yaml:"position"`
	FaceDown    *bool   `json:"faceDown" yaml:"faceDown"`
	HasAttacked *bool   `json:"hasAttacked" yaml:"hasAttacked"`
	Protected   *bool   `json:"protected" yaml:"protected"`
	Owner       *string `json:"owner" yaml:"owner"`

	LifePoints *lifeDoc          `json:"lifePoints" yaml:"lifePoints"`
	Turn       *ability.NumRange `json:"turn" yaml:"turn"`
	Phase      *string           `json:"phase" yaml:"phase"`

	FieldCount *fieldCountDoc `json:"fieldCount" yaml:"fieldCount"`
	Graveyard  *graveyardDoc  `json:"graveyard" yaml:"graveyard"`
}

type lifeDoc struct {
	Owner string `json:"owner" yaml:"owner"`
	Below *int   `json:"below" yaml:"below"`
	Above *int   `json:"above" yaml:"above"`
	Equal *int   `json:"equal" yaml:"equal"`
}

type fieldCountDoc struct {
	Zone     string            `json:"zone" yaml:"zone"`
	Owner    string            `json:"owner" yaml:"owner"`
	Count    *ability.NumRange `json:"count" yaml:"count"`
	Position *string           `json:"position" yaml:"position"`
	FaceDown *bool             `json:"faceDown" yaml:"faceDown"`
	Filter   *conditionDoc     `json:"filter" yaml:"filter"`
}

type graveyardDoc struct {
	Owner     string            `json:"owner" yaml:"owner"`
	Count     *ability.NumRange `json:"count" yaml:"count"`
	CardType  *string           `json:"cardType" yaml:"cardType"`
	Archetype string            `json:"archetype" yaml:"archetype"`
}

func (c *conditionDoc) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.text = s
		return nil
	}
	var obj conditionObj
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("condition: %w", err)
	}
	c.obj = &obj
	return nil
}

func (c *conditionDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&c.text)
	}
	var obj conditionObj
	if err := node.Decode(&obj); err != nil {
		return fmt.Errorf("condition: %w", err)
	}
	c.obj = &obj
	return nil
}

// durationDoc accepts either a bare kind string or an object.
type durationDoc struct {
	kind     string
	endTurn  int
	endPhase string
}

type durationObj struct {
	Type     string `json:"type" yaml:"type"`
	EndTurn  int    `json:"endTurn" yaml:"endTurn"`
	EndPhase string `json:"endPhase" yaml:"endPhase"`
}

func (d *durationDoc) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.kind = s
		return nil
	}
	var obj durationObj
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	d.kind, d.endTurn, d.endPhase = obj.Type, obj.EndTurn, obj.EndPhase
	return nil
}

func (d *durationDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&d.kind)
	}
	var obj durationObj
	if err := node.Decode(&obj); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	d.kind, d.endTurn, d.endPhase = obj.Type, obj.EndTurn, obj.EndPhase
	return nil
}

type costDoc struct {
	Type   string        `json:"type" yaml:"type"`
	Amount *int          `json:"amount" yaml:"amount"`
	Value  *int          `json:"value" yaml:"value"` // legacy alias
	Count  *int          `json:"count" yaml:"count"` // legacy alias
	Filter *conditionDoc `json:"filter" yaml:"filter"`
	Zone   string        `json:"zone" yaml:"zone"`
}

type targetDoc struct {
	Zone   string        `json:"zone" yaml:"zone"`
	Owner  string        `json:"owner" yaml:"owner"`
	Count  int           `json:"count" yaml:"count"`
	All    bool          `json:"all" yaml:"all"`
	Filter *conditionDoc `json:"filter" yaml:"filter"`
}

type effectDoc struct {
	Type       string `json:"type" yaml:"type"`
	EffectType string `json:"effectType" yaml:"effectType"` // extended-schema alias
	Trigger    string `json:"trigger" yaml:"trigger"`
	Value      *int   `json:"value" yaml:"value"`
	Count      *int   `json:"count" yaml:"count"` // legacy alias
	Stat       string `json:"stat" yaml:"stat"`

	Target              *targetDoc    `json:"target" yaml:"target"`
	Cost                *costDoc      `json:"cost" yaml:"cost"`
	Condition           *conditionDoc `json:"condition" yaml:"condition"`
	ActivationCondition *conditionDoc `json:"activationCondition" yaml:"activationCondition"`

	IsContinuous bool `json:"isContinuous" yaml:"isContinuous"`
	IsOPT        bool `json:"isOPT" yaml:"isOPT"`
	IsHOPT       bool `json:"isHOPT" yaml:"isHOPT"`

	Duration   *durationDoc `json:"duration" yaml:"duration"`
	Protection []string     `json:"protection" yaml:"protection"`

	Then *effectDoc `json:"then" yaml:"then"`
	Or   *effectDoc `json:"or" yaml:"or"`
}

type cardDoc struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	CardType    string `json:"cardType" yaml:"cardType"`
	Type        string `json:"type" yaml:"type"` // legacy alias
	Subtype     string `json:"subtype" yaml:"subtype"`
	Archetype   string `json:"archetype" yaml:"archetype"`
	Rarity      string `json:"rarity" yaml:"rarity"`
	Level       int    `json:"level" yaml:"level"`
	Cost        int    `json:"cost" yaml:"cost"`
	ATK         int    `json:"atk" yaml:"atk"`
	DEF         int    `json:"def" yaml:"def"`

	Speed   int          `json:"speed" yaml:"speed"`
	IsOPT   bool         `json:"isOPT" yaml:"isOPT"`
	IsHOPT  bool         `json:"isHOPT" yaml:"isHOPT"`
	Effects []*effectDoc `json:"effects" yaml:"effects"`
}

type setDoc struct {
	Cards []*cardDoc `json:"cards" yaml:"cards"`
}

// --- Normalization ---

func (l *Loader) normalizeCard(doc *cardDoc) *ability.CardDef {
	typeTag := doc.CardType
	if typeTag == "" {
		typeTag = doc.Type
	}
	ct := ability.ParseCardType(typeTag)
	if ct == ability.CardTypeNone && typeTag != "" {
		l.audit.Warn("unknown card type", zap.String("card", doc.Name), zap.String("cardType", typeTag))
	}

	def := &ability.CardDef{
		Name:        doc.Name,
		Description: doc.Description,
		CardType:    ct,
		Archetype:   doc.Archetype,
		Rarity:      doc.Rarity,
		Level:       doc.Level,
		Cost:        doc.Cost,
		ATK:         doc.ATK,
		DEF:         doc.DEF,
	}
	switch ct {
	case ability.CardTypeSpell:
		def.SpellSub = parseSpellSubtype(doc.Subtype)
	case ability.CardTypeTrap:
		def.TrapSub = parseTrapSubtype(doc.Subtype)
	}

	if len(doc.Effects) > 0 {
		ab := &ability.Ability{
			ID:              doc.Name,
			Speed:           doc.Speed,
			OncePerTurn:     doc.IsOPT,
			HardOncePerTurn: doc.IsHOPT,
		}
		if ab.Speed == 0 {
			ab.Speed = defaultSpeed(def)
		}
		for _, ed := range doc.Effects {
			ab.Effects = append(ab.Effects, l.normalizeEffect(doc.Name, ed))
		}
		def.Ability = ab
	}
	return def
}

func (l *Loader) normalizeEffect(card string, doc *effectDoc) *ability.Effect {
	if doc == nil {
		return nil
	}
	rawKind := doc.Type
	if rawKind == "" {
		rawKind = doc.EffectType
	}
	kind := ability.ParseEffectKind(rawKind)
	if kind == ability.KindUnknown {
		l.audit.Warn("unknown effect kind", zap.String("card", card), zap.String("kind", rawKind))
	}

	eff := &ability.Effect{
		Kind:            kind,
		RawKind:         rawKind,
		Trigger:         ability.ParseTrigger(doc.Trigger),
		Stat:            ability.ParseStat(doc.Stat),
		Continuous:      doc.IsContinuous,
		OncePerTurn:     doc.IsOPT,
		HardOncePerTurn: doc.IsHOPT,
		Protection:      doc.Protection,
	}
	// value with count as the legacy alias; value wins when both appear.
	if doc.Value != nil {
		eff.Value = *doc.Value
	} else if doc.Count != nil {
		eff.Value = *doc.Count
	}

	cond := doc.Condition
	if cond == nil {
		cond = doc.ActivationCondition
	}
	eff.Condition = l.normalizeCondition(card, cond)

	if doc.Target != nil {
		eff.Target = &ability.Target{
			Zone:   ability.ParseZone(doc.Target.Zone),
			Owner:  ability.ParseOwner(doc.Target.Owner),
			Count:  doc.Target.Count,
			All:    doc.Target.All,
			Filter: l.normalizeCondition(card, doc.Target.Filter),
		}
	}
	if doc.Cost != nil {
		eff.Cost = l.normalizeCost(card, doc.Cost)
	}
	if doc.Duration != nil {
		eff.Duration = l.normalizeDuration(card, doc.Duration)
	}
	if doc.Then != nil {
		eff.Then = l.normalizeEffect(card, doc.Then)
	}
	if doc.Or != nil {
		eff.Or = l.normalizeEffect(card, doc.Or)
	}
	return eff
}

func (l *Loader) normalizeCost(card string, doc *costDoc) *ability.Cost {
	kind := ability.ParseCostKind(doc.Type)
	if kind == ability.CostUnknown {
		l.audit.Warn("unknown cost kind", zap.String("card", card), zap.String("kind", doc.Type))
	}
	amount := 0
	switch {
	case doc.Amount != nil:
		amount = *doc.Amount
	case doc.Value != nil:
		amount = *doc.Value
	case doc.Count != nil:
		amount = *doc.Count
	}
	return &ability.Cost{
		Kind:    kind,
		RawKind: doc.Type,
		Amount:  amount,
		Filter:  l.normalizeCondition(card, doc.Filter),
		Zone:    ability.ParseZone(doc.Zone),
	}
}

func (l *Loader) normalizeDuration(card string, doc *durationDoc) *ability.Duration {
	kind := ability.ParseDurationKind(doc.kind)
	if kind == ability.DurationUnknown {
		l.audit.Warn("unknown duration kind; treated as non-expiring",
			zap.String("card", card), zap.String("kind", doc.kind))
	}
	return &ability.Duration{
		Kind:     kind,
		RawKind:  doc.kind,
		EndTurn:  doc.endTurn,
		EndPhase: doc.endPhase,
	}
}

func (l *Loader) normalizeCondition(card string, doc *conditionDoc) *ability.Condition {
	if doc == nil {
		return nil
	}
	if doc.obj == nil {
		if doc.text == "" {
			return nil
		}
		cond := ability.ParseLegacyCondition(doc.text)
		if cond == nil {
			// Unrecognized legacy text converts to "no constraint", kept
			// permissive for older authored content but flagged for audit.
			l.audit.Warn("unrecognized legacy condition text",
				zap.String("card", card), zap.String("condition", doc.text))
		}
		return cond
	}
	return l.normalizeConditionObj(card, doc.obj)
}

func (l *Loader) normalizeConditionObj(card string, obj *conditionObj) *ability.Condition {
	switch {
	case obj.And != nil:
		return ability.And(l.normalizeChildren(card, obj.And)...)
	case obj.Or != nil:
		return ability.Or(l.normalizeChildren(card, obj.Or)...)
	case obj.Not != nil:
		return ability.Not(l.normalizeChildren(card, obj.Not)...)
	}

	cond := &ability.Condition{
		Archetype:   obj.Archetype,
		Rarity:      obj.Rarity,
		Name:        obj.Name,
		NameIs:      obj.NameIs,
		Level:       obj.Level,
		Attack:      obj.Attack,
		Defense:     obj.Defense,
		Cost:        obj.Cost,
		FaceDown:    obj.FaceDown,
		HasAttacked: obj.HasAttacked,
		Protected:   obj.Protected,
		Turn:        obj.Turn,
		Phase:       obj.Phase,
	}
	if obj.CardType != nil {
		ct := ability.ParseCardType(*obj.CardType)
		if ct == ability.CardTypeNone {
			l.audit.Warn("unknown card type in condition",
				zap.String("card", card), zap.String("cardType", *obj.CardType))
		}
		cond.CardType = &ct
	}
	if obj.Position != nil {
		pos := parsePosition(*obj.Position)
		cond.Position = &pos
	}
	if obj.Owner != nil {
		o := ability.ParseOwner(*obj.Owner)
		cond.Owner = &o
	}
	if obj.LifePoints != nil {
		cond.Life = &ability.LifeCheck{
			Owner: ability.ParseOwner(obj.LifePoints.Owner),
			Below: obj.LifePoints.Below,
			Above: obj.LifePoints.Above,
			Equal: obj.LifePoints.Equal,
		}
	}
	if obj.FieldCount != nil {
		fc := &ability.FieldCountCheck{
			Zone:     ability.ParseZone(obj.FieldCount.Zone),
			Owner:    ability.ParseOwner(obj.FieldCount.Owner),
			Count:    obj.FieldCount.Count,
			FaceDown: obj.FieldCount.FaceDown,
			Filter:   l.normalizeCondition(card, obj.FieldCount.Filter),
		}
		if obj.FieldCount.Position != nil {
			pos := parsePosition(*obj.FieldCount.Position)
			fc.Position = &pos
		}
		cond.FieldCount = fc
	}
	if obj.Graveyard != nil {
		gc := &ability.GraveyardCheck{
			Owner:     ability.ParseOwner(obj.Graveyard.Owner),
			Count:     obj.Graveyard.Count,
			Archetype: obj.Graveyard.Archetype,
		}
		if obj.Graveyard.CardType != nil {
			ct := ability.ParseCardType(*obj.Graveyard.CardType)
			gc.CardType = &ct
		}
		cond.Graveyard = gc
	}
	return cond
}

func (l *Loader) normalizeChildren(card string, docs []*conditionDoc) []*ability.Condition {
	out := make([]*ability.Condition, 0, len(docs))
	for _, d := range docs {
		out = append(out, l.normalizeCondition(card, d))
	}
	return out
}

func parsePosition(s string) ability.Position {
	switch s {
	case "defense", "def", "DEF":
		return ability.PositionDefense
	default:
		return ability.PositionAttack
	}
}

func parseSpellSubtype(s string) ability.SpellSubtype {
	switch s {
	case "quick_play", "quick-play", "quickplay":
		return ability.SpellQuickPlay
	case "continuous":
		return ability.SpellContinuous
	case "field":
		return ability.SpellField
	default:
		return ability.SpellNormal
	}
}

func parseTrapSubtype(s string) ability.TrapSubtype {
	switch s {
	case "continuous":
		return ability.TrapContinuous
	case "counter":
		return ability.TrapCounter
	default:
		return ability.TrapNormal
	}
}

// defaultSpeed mirrors the conventional priority tiers: counter traps are
// tier 3, other traps and quick-play spells tier 2, everything else tier 1.
func defaultSpeed(def *ability.CardDef) int {
	switch def.CardType {
	case ability.CardTypeTrap:
		if def.TrapSub == ability.TrapCounter {
			return 3
		}
		return 2
	case ability.CardTypeSpell:
		if def.SpellSub == ability.SpellQuickPlay {
			return 2
		}
		return 1
	default:
		return 1
	}
}
