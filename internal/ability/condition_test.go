package ability

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestNumRangeUnmarshalBareNumber(t *testing.T) {
	var fromJSON NumRange
	if err := json.Unmarshal([]byte(`4`), &fromJSON); err != nil {
		t.Fatalf("JSON bare number: %v", err)
	}
	if fromJSON.Min == nil || fromJSON.Max == nil || *fromJSON.Min != 4 || *fromJSON.Max != 4 {
		t.Errorf("JSON bare number = %+v, want exact 4", fromJSON)
	}

	var fromYAML NumRange
	if err := yaml.Unmarshal([]byte(`7`), &fromYAML); err != nil {
		t.Fatalf("YAML bare number: %v", err)
	}
	if fromYAML.Min == nil || fromYAML.Max == nil || *fromYAML.Min != 7 || *fromYAML.Max != 7 {
		t.Errorf("YAML bare number = %+v, want exact 7", fromYAML)
	}
}

func TestNumRangeUnmarshalObject(t *testing.T) {
	var r NumRange
	if err := json.Unmarshal([]byte(`{"min": 2, "max": 5}`), &r); err != nil {
		t.Fatalf("JSON object: %v", err)
	}
	if r.Min == nil || *r.Min != 2 || r.Max == nil || *r.Max != 5 {
		t.Errorf("JSON object = %+v, want [2,5]", r)
	}

	var open NumRange
	if err := yaml.Unmarshal([]byte("min: 1000\n"), &open); err != nil {
		t.Fatalf("YAML object: %v", err)
	}
	if open.Min == nil || *open.Min != 1000 || open.Max != nil {
		t.Errorf("YAML open range = %+v, want min-only 1000", open)
	}
}

func TestNumRangeContains(t *testing.T) {
	if !(*NumRange)(nil).Contains(42) {
		t.Error("nil range should be unconstrained")
	}
	if !(&NumRange{}).Contains(42) {
		t.Error("empty range should be unconstrained")
	}

	r := Between(2, 4)
	for v, want := range map[int]bool{1: false, 2: true, 4: true, 5: false} {
		if got := r.Contains(v); got != want {
			t.Errorf("[2,4].Contains(%d) = %v, want %v", v, got, want)
		}
	}
	if AtMost(4).Contains(5) || !AtMost(4).Contains(4) {
		t.Error("AtMost bound should be inclusive")
	}
	if AtLeast(1500).Contains(1499) || !AtLeast(1500).Contains(1500) {
		t.Error("AtLeast bound should be inclusive")
	}
}

func TestParseCardTypeAliases(t *testing.T) {
	cases := map[string]CardType{
		"monster":    CardTypeMonster,
		"creature":   CardTypeMonster,
		"stereotype": CardTypeMonster,
		"Spell":      CardTypeSpell,
		"magic":      CardTypeSpell,
		"trap":       CardTypeTrap,
		"gizmo":      CardTypeNone,
	}
	for in, want := range cases {
		if got := ParseCardType(in); got != want {
			t.Errorf("ParseCardType(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseEffectKindAliases(t *testing.T) {
	cases := map[string]EffectKind{
		"draw":               KindDraw,
		"draw_cards":         KindDraw,
		"burn":               KindDealDamage,
		"stat_boost":         KindModifyStat,
		"buff":               KindModifyStat,
		"grant_multi_attack": KindMultiAttack,
		"heal":               KindGainLife,
		"send":               KindMoveCard,
		"summon_horde":       KindUnknown,
	}
	for in, want := range cases {
		if got := ParseEffectKind(in); got != want {
			t.Errorf("ParseEffectKind(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCostZoneDefaults(t *testing.T) {
	cases := []struct {
		kind CostKind
		src  Zone
		dest Zone
	}{
		{CostDiscard, ZoneHand, ZoneGraveyard},
		{CostTribute, ZoneBoard, ZoneGraveyard},
		{CostBanish, ZoneGraveyard, ZoneBanished},
	}
	for _, tc := range cases {
		c := &Cost{Kind: tc.kind}
		if got := c.SourceZone(); got != tc.src {
			t.Errorf("%s source zone = %v, want %v", tc.kind, got, tc.src)
		}
		if got := c.DestinationZone(); got != tc.dest {
			t.Errorf("%s destination zone = %v, want %v", tc.kind, got, tc.dest)
		}
	}

	// An authored zone overrides the kind's default.
	c := &Cost{Kind: CostDiscard, Zone: ZoneBoard}
	if got := c.SourceZone(); got != ZoneBoard {
		t.Errorf("explicit zone = %v, want board", got)
	}
}

func TestTributesRequired(t *testing.T) {
	cases := map[int]int{1: 0, 4: 0, 5: 1, 6: 1, 7: 2, 10: 2}
	for level, want := range cases {
		def := &CardDef{Name: "M", CardType: CardTypeMonster, Level: level}
		if got := def.TributesRequired(); got != want {
			t.Errorf("level %d requires %d tributes, want %d", level, got, want)
		}
	}
}
