package ability

// FlatAbility is the execution-ready form of an ability: Then chains
// expanded into one ordered list.
type FlatAbility struct {
	Ability *Ability
	Effects []*Effect
	// HasMultiPart is set when flattening produced more than one effect.
	// Informational only; it never changes execution order.
	HasMultiPart bool
}

// Flatten expands each top-level effect and its Then chain depth-first into
// an ordered list. Or alternatives represent a player choice and stay
// attached to their effect rather than being expanded.
func Flatten(a *Ability) FlatAbility {
	fa := FlatAbility{Ability: a}
	if a == nil {
		return fa
	}
	for _, eff := range a.Effects {
		fa.Effects = appendChain(fa.Effects, eff)
	}
	fa.HasMultiPart = len(fa.Effects) > 1
	return fa
}

func appendChain(out []*Effect, eff *Effect) []*Effect {
	for eff != nil {
		out = append(out, eff)
		eff = eff.Then
	}
	return out
}

// EffectIndexes returns the flattened index of each top-level effect,
// letting callers map an authored effect back to its execution position.
func (fa FlatAbility) EffectIndexes() []int {
	if fa.Ability == nil {
		return nil
	}
	var idxs []int
	i := 0
	for _, eff := range fa.Ability.Effects {
		idxs = append(idxs, i)
		for e := eff; e != nil; e = e.Then {
			i++
		}
	}
	return idxs
}
