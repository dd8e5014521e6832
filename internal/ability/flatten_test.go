package ability

import "testing"

func TestFlattenExpandsThenChains(t *testing.T) {
	third := &Effect{Kind: KindGainLife, Value: 300}
	second := &Effect{Kind: KindDealDamage, Value: 500, Then: third}
	first := &Effect{Kind: KindDraw, Value: 2, Then: second}

	fa := Flatten(&Ability{ID: "chain", Effects: []*Effect{first}})

	if len(fa.Effects) != 3 {
		t.Fatalf("flattened %d effects, want 3", len(fa.Effects))
	}
	wantOrder := []EffectKind{KindDraw, KindDealDamage, KindGainLife}
	for i, k := range wantOrder {
		if fa.Effects[i].Kind != k {
			t.Errorf("effect %d = %s, want %s", i, fa.Effects[i].Kind, k)
		}
	}
	if !fa.HasMultiPart {
		t.Error("a three-link chain should be marked multi-part")
	}
}

func TestFlattenKeepsOrAlternativesAttached(t *testing.T) {
	alt := &Effect{Kind: KindGainLife, Value: 500}
	eff := &Effect{Kind: KindDealDamage, Value: 500, Or: alt}

	fa := Flatten(&Ability{ID: "choice", Effects: []*Effect{eff}})

	// An Or alternative is a player choice; it must not become its own
	// execution step.
	if len(fa.Effects) != 1 {
		t.Fatalf("flattened %d effects, want 1", len(fa.Effects))
	}
	if fa.Effects[0].Or != alt {
		t.Error("the alternative should stay attached to its effect")
	}
	if fa.HasMultiPart {
		t.Error("a single effect with an alternative is not multi-part")
	}
}

func TestFlattenNilAbility(t *testing.T) {
	fa := Flatten(nil)
	if len(fa.Effects) != 0 || fa.HasMultiPart {
		t.Errorf("nil ability flattened to %+v", fa)
	}
}

func TestEffectIndexes(t *testing.T) {
	chainTail := &Effect{Kind: KindGainLife}
	a := &Effect{Kind: KindDraw, Then: chainTail} // occupies indexes 0,1
	b := &Effect{Kind: KindDestroy}               // index 2
	c := &Effect{Kind: KindSearch}                // index 3

	fa := Flatten(&Ability{ID: "multi", Effects: []*Effect{a, b, c}})

	idxs := fa.EffectIndexes()
	want := []int{0, 2, 3}
	if len(idxs) != len(want) {
		t.Fatalf("got %d indexes, want %d", len(idxs), len(want))
	}
	for i := range want {
		if idxs[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, idxs[i], want[i])
		}
	}
	// Each index points at the top-level effect that starts the chain.
	if fa.Effects[idxs[0]].Kind != KindDraw || fa.Effects[idxs[1]].Kind != KindDestroy {
		t.Error("indexes do not map back to their top-level effects")
	}
}
