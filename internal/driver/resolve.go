package driver

import (
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/log"
	"github.com/mkessel/duelcore/internal/match"
	"github.com/mkessel/duelcore/internal/rules"
)

func (m *Match) executeNormalSummon(a Action) error {
	ms := m.State
	ci := a.Card
	p := a.Player

	if err := m.payTributes(ci, p); err != nil {
		return err
	}
	ms.MoveCard(ci.ID, ability.ZoneHand, ability.ZoneBoard)
	ci.FaceDown = false
	ci.Position = ability.PositionAttack
	ci.TurnPlaced = ms.Turn
	ci.AttacksLeft = 1
	ms.NormalSummonUsed = true

	m.log(log.NewSummonEvent(ms.Turn, ms.Phase.String(), p, ci.Def.Name, m.EffectiveATK(ci)))
	return m.processSummonTriggers(ci, p)
}

func (m *Match) executeNormalSet(a Action) error {
	ms := m.State
	ci := a.Card
	p := a.Player

	if err := m.payTributes(ci, p); err != nil {
		return err
	}
	ms.MoveCard(ci.ID, ability.ZoneHand, ability.ZoneBoard)
	ci.FaceDown = true
	ci.Position = ability.PositionDefense
	ci.TurnPlaced = ms.Turn
	ms.NormalSummonUsed = true

	m.log(log.NewSetEvent(ms.Turn, ms.Phase.String(), p))
	return nil
}

func (m *Match) payTributes(ci *match.CardInstance, p int) error {
	need := ci.Def.TributesRequired()
	if need == 0 {
		return nil
	}
	ms := m.State
	board := ms.BoardCards(p)
	chosen, err := m.Controllers[p].ChooseCards(m.ctx, ms,
		fmt.Sprintf("Choose %d tribute(s) for %s", need, ci.Def.Name), board, need, need)
	if err != nil {
		return err
	}
	if len(chosen) < need {
		chosen = board[:need] // controller under-selected; take from the left
	}
	for _, t := range chosen[:need] {
		ms.MoveCard(t.ID, ability.ZoneBoard, ability.ZoneGraveyard)
		m.log(log.NewMoveCardEvent(ms.Turn, ms.Phase.String(), p, t.Def.Name, "graveyard (tribute)"))
	}
	return nil
}

func (m *Match) executeSetSpellTrap(a Action) error {
	ms := m.State
	ci := a.Card
	ms.MoveCard(ci.ID, ability.ZoneHand, ability.ZoneSpellTrap)
	ci.FaceDown = true
	ci.TurnPlaced = ms.Turn
	m.log(log.NewSetEvent(ms.Turn, ms.Phase.String(), a.Player))
	return nil
}

// executeActivate runs the full activation pipeline for a chosen action:
// placement (hand spells move to their zone first), the activation check,
// cost payment with any needed selection round-trip, then chain resolution.
func (m *Match) executeActivate(a Action) error {
	ms := m.State
	ci := a.Card
	p := a.Player

	// Hand spells enter their zone face-up on activation.
	fromHand := ms.InZone(p, ability.ZoneHand, ci.ID)
	if fromHand {
		dest := ability.ZoneSpellTrap
		if ci.Def.SpellSub == ability.SpellField {
			dest = ability.ZoneField
			// A new field spell replaces the old one.
			if old := ms.FieldCard(p); old != nil {
				ms.MoveCard(old.ID, ability.ZoneField, ability.ZoneGraveyard)
				m.log(log.NewDestroyEvent(ms.Turn, ms.Phase.String(), p, old.Def.Name, "replaced"))
			}
		}
		ms.MoveCard(ci.ID, ability.ZoneHand, dest)
		ci.TurnPlaced = ms.Turn
	}
	ci.FaceDown = false

	m.log(log.NewActivateEvent(ms.Turn, ms.Phase.String(), p, ci.Def.Name))

	if ci.Def.Ability == nil {
		return m.afterResolution(ci, p)
	}
	if chk := rules.CheckActivation(ms, ci, a.EffectIndex, p); !chk.CanActivate {
		m.log(log.NewEffectResolvedEvent(ms.Turn, ms.Phase.String(), p, ci.Def.Name, "fizzled: "+chk.Reason))
		return m.afterResolution(ci, p)
	}
	return m.activateEffect(ci, a.EffectIndex, p)
}

// activateEffect pays the cost for the flattened effect at idx, resolves its
// Then chain, and records once-per-turn usage. The caller has already
// verified activation legality.
func (m *Match) activateEffect(ci *match.CardInstance, idx, p int) error {
	ms := m.State
	flat := ability.Flatten(ci.Def.Ability)
	eff := flat.Effects[idx]

	// Cost payment, with a selection round-trip when the cost needs one.
	var selection []string
	if q := rules.ValidateCost(ms, p, eff, nil); q.RequiresSelection {
		chosen, err := m.Controllers[p].ChooseCards(m.ctx, ms,
			fmt.Sprintf("Choose %d card(s) to pay the cost of %s", q.Min, ci.Def.Name),
			m.instances(q.Choices), q.Min, q.Max)
		if err != nil {
			return err
		}
		for _, c := range chosen {
			selection = append(selection, c.ID)
		}
	}
	res := rules.ExecuteCost(ms, p, eff, selection)
	if !res.Success {
		m.log(log.NewEffectResolvedEvent(ms.Turn, ms.Phase.String(), p, ci.Def.Name, "cost not paid: "+res.Message))
		return m.afterResolution(ci, p)
	}
	if res.Paid != nil && res.Paid.Kind != 0 {
		m.log(log.NewCostPaidEvent(ms.Turn, ms.Phase.String(), p, ci.Def.Name, res.Message))
	}

	// Usage is marked after the cost is paid, before resolution, so an
	// effect cannot re-trigger itself within its own chain.
	opt := eff.OncePerTurn || ci.Def.Ability.OncePerTurn
	hopt := eff.HardOncePerTurn || ci.Def.Ability.HardOncePerTurn
	rules.MarkEffectUsed(ms, ci.ID, idx, p, opt, hopt)

	// Resolve the Then chain. Conditions on later links are re-evaluated
	// against the state the earlier links produced.
	for link := eff; link != nil; link = link.Then {
		resolved := link
		if link.Or != nil {
			useAlt, err := m.Controllers[p].ChooseYesNo(m.ctx, ms,
				fmt.Sprintf("Resolve the alternative effect of %s?", ci.Def.Name))
			if err != nil {
				return err
			}
			if useAlt {
				resolved = link.Or
			}
		}
		if link != eff && !rules.Evaluate(resolved.Condition, rules.Context{State: ms, Source: ci, Card: ci, Player: p}) {
			continue
		}
		if err := m.resolveEffect(ci, resolved, p); err != nil {
			return err
		}
		if ms.Over {
			return nil
		}
	}

	return m.afterResolution(ci, p)
}

// afterResolution sends spent one-shot spells and traps to the graveyard.
// Continuous and field cards stay on the field.
func (m *Match) afterResolution(ci *match.CardInstance, p int) error {
	ms := m.State
	switch ci.Def.CardType {
	case ability.CardTypeSpell:
		if ci.Def.SpellSub == ability.SpellNormal || ci.Def.SpellSub == ability.SpellQuickPlay {
			if ms.InZone(p, ability.ZoneSpellTrap, ci.ID) {
				ms.MoveCard(ci.ID, ability.ZoneSpellTrap, ability.ZoneGraveyard)
			}
		}
	case ability.CardTypeTrap:
		if ci.Def.TrapSub != ability.TrapContinuous {
			if ms.InZone(p, ability.ZoneSpellTrap, ci.ID) {
				ms.MoveCard(ci.ID, ability.ZoneSpellTrap, ability.ZoneGraveyard)
			}
		}
	}
	return nil
}

// resolveEffect applies one effect link to the match state.
func (m *Match) resolveEffect(src *match.CardInstance, eff *ability.Effect, p int) error {
	ms := m.State
	phase := ms.Phase.String()

	// Duration-bounded modifiers become lingering records instead of
	// resolving immediately. Continuous modifiers are not resolved at all;
	// the aggregator recomputes them on demand while the source is face-up.
	if eff.Kind == ability.KindModifyStat {
		if eff.Continuous {
			return nil
		}
		m.applyLingering(src, eff, p)
		return nil
	}

	switch eff.Kind {
	case ability.KindDraw:
		n := max1(eff.Value)
		for i := 0; i < n; i++ {
			card := ms.Draw(p)
			if card == nil {
				ms.Over = true
				ms.Winner = ms.Opponent(p)
				ms.Result = fmt.Sprintf("P%d decked out", p+1)
				return nil
			}
			m.log(log.NewDrawEvent(ms.Turn, phase, p, card.Def.Name))
		}

	case ability.KindDealDamage:
		target := ms.Opponent(p)
		if eff.Target != nil && eff.Target.Owner == ability.OwnerSelf {
			target = p
		}
		ms.Players[target].Life -= eff.Value
		m.log(log.NewDamageEvent(ms.Turn, phase, target, eff.Value, ms.Players[target].Life, src.Def.Name))
		ms.CheckWinCondition()

	case ability.KindGainLife, ability.KindGainResource:
		target := p
		if eff.Target != nil && eff.Target.Owner == ability.OwnerOpponent {
			target = ms.Opponent(p)
		}
		ms.Players[target].Life += eff.Value
		m.log(log.NewLifeGainEvent(ms.Turn, phase, target, eff.Value, ms.Players[target].Life, src.Def.Name))

	case ability.KindDestroy:
		targets, err := m.selectTargets(src, eff, p, "Choose card(s) to destroy")
		if err != nil {
			return err
		}
		for _, t := range targets {
			if t.HasProtection("cannot_be_destroyed_by_effects") {
				m.log(log.NewEffectResolvedEvent(ms.Turn, phase, p, src.Def.Name, t.Def.Name+" is protected"))
				continue
			}
			m.destroyCard(t, src.Def.Name)
		}

	case ability.KindMoveCard:
		targets, err := m.selectTargets(src, eff, p, "Choose card(s) to send to the graveyard")
		if err != nil {
			return err
		}
		for _, t := range targets {
			from := m.zoneOf(t)
			ms.MoveCard(t.ID, from, ability.ZoneGraveyard)
			m.log(log.NewMoveCardEvent(ms.Turn, phase, p, t.Def.Name, "graveyard"))
		}

	case ability.KindSearch:
		var candidates []*match.CardInstance
		for _, id := range ms.Players[p].Deck {
			ci := ms.Card(id)
			if ci == nil {
				continue
			}
			filter := targetFilter(eff)
			if filter != nil && !rules.Evaluate(filter, rules.Context{State: ms, Source: src, Card: ci, Player: p}) {
				continue
			}
			candidates = append(candidates, ci)
		}
		if len(candidates) == 0 {
			m.log(log.NewEffectResolvedEvent(ms.Turn, phase, p, src.Def.Name, "no matching card in deck"))
			break
		}
		n := max1(eff.Value)
		if n > len(candidates) {
			n = len(candidates)
		}
		chosen, err := m.Controllers[p].ChooseCards(m.ctx, ms, "Choose card(s) to add to your hand", candidates, n, n)
		if err != nil {
			return err
		}
		if len(chosen) == 0 {
			chosen = candidates[:n]
		}
		for _, c := range chosen {
			ms.MoveCard(c.ID, ability.ZoneDeck, ability.ZoneHand)
			m.log(log.NewSearchEvent(ms.Turn, phase, p, c.Def.Name))
		}
		ms.ShuffleDeck(p, m.rng)

	case ability.KindNegate:
		targets, err := m.selectTargets(src, eff, p, "Choose a card to negate")
		if err != nil {
			return err
		}
		for _, t := range targets {
			m.log(log.NewNegateEvent(ms.Turn, phase, p, t.Def.Name))
			m.destroyCard(t, src.Def.Name)
		}

	case ability.KindMultiAttack:
		targets, err := m.selectTargets(src, eff, p, "Choose a monster to grant an extra attack")
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			targets = []*match.CardInstance{src}
		}
		extra := max1(eff.Value)
		for _, t := range targets {
			t.AttacksLeft += extra
			m.log(log.NewEffectResolvedEvent(ms.Turn, phase, p, src.Def.Name,
				fmt.Sprintf("%s gains %d extra attack(s)", t.Def.Name, extra)))
		}

	case ability.KindDirectAttack:
		targets, err := m.selectTargets(src, eff, p, "Choose a monster that may attack directly")
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			targets = []*match.CardInstance{src}
		}
		for _, t := range targets {
			t.Protection["can_attack_directly"] = true
			m.log(log.NewEffectResolvedEvent(ms.Turn, phase, p, src.Def.Name, t.Def.Name+" may attack directly"))
		}

	case ability.KindProtect:
		targets, err := m.selectTargets(src, eff, p, "Choose a card to protect")
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			targets = []*match.CardInstance{src}
		}
		for _, t := range targets {
			for _, flag := range eff.Protection {
				t.Protection[flag] = true
			}
			m.log(log.NewEffectResolvedEvent(ms.Turn, phase, p, src.Def.Name, t.Def.Name+" gains protection"))
		}

	default:
		// Unknown kinds resolve as no-ops; the catalog loader has already
		// flagged them for audit.
		m.log(log.NewEffectResolvedEvent(ms.Turn, phase, p, src.Def.Name,
			fmt.Sprintf("unrecognized effect %q had no outcome", eff.RawKind)))
	}
	return nil
}

// applyLingering records a duration-bounded stat modifier.
func (m *Match) applyLingering(src *match.CardInstance, eff *ability.Effect, p int) {
	ms := m.State

	dur := ability.Duration{Kind: ability.DurationUntilTurnEnd}
	if eff.Duration != nil {
		dur = *eff.Duration
	}

	l := &match.LingeringEffect{
		ID:          ulid.Make().String(),
		Kind:        eff.Kind,
		Stat:        eff.Stat,
		Value:       eff.Value,
		Source:      src.ID,
		Player:      p,
		AppliedTurn: ms.Turn,
		Duration:    dur,
	}
	if eff.Target != nil {
		l.Filter = eff.Target.Filter
		switch eff.Target.Owner {
		case ability.OwnerSelf:
			affected := p
			l.AffectsPlayer = &affected
		case ability.OwnerOpponent:
			affected := ms.Opponent(p)
			l.AffectsPlayer = &affected
		}
	}
	ms.Lingering = append(ms.Lingering, l)
	m.log(log.NewLingeringAppliedEvent(ms.Turn, ms.Phase.String(), p, src.Def.Name,
		fmt.Sprintf("%+d %s (%s)", eff.Value, statName(eff.Stat), dur.Kind)))
}

// selectTargets resolves an effect's target specification to concrete cards,
// asking the controller to choose when the spec is not "all matching".
func (m *Match) selectTargets(src *match.CardInstance, eff *ability.Effect, p int, prompt string) ([]*match.CardInstance, error) {
	ms := m.State
	tgt := eff.Target
	if tgt == nil {
		return nil, nil
	}
	zone := tgt.Zone
	if zone == ability.ZoneNone {
		zone = ability.ZoneBoard
	}

	var players []int
	switch tgt.Owner {
	case ability.OwnerSelf:
		players = []int{p}
	case ability.OwnerOpponent:
		players = []int{ms.Opponent(p)}
	default:
		players = []int{p, ms.Opponent(p)}
	}

	var candidates []*match.CardInstance
	for _, owner := range players {
		for _, id := range ms.ZoneList(owner, zone) {
			ci := ms.Card(id)
			if ci == nil {
				continue
			}
			if tgt.Filter != nil && !rules.Evaluate(tgt.Filter, rules.Context{State: ms, Source: src, Card: ci, Player: p}) {
				continue
			}
			candidates = append(candidates, ci)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	if tgt.All {
		return candidates, nil
	}

	n := max1(tgt.Count)
	if n >= len(candidates) {
		return candidates, nil
	}
	chosen, err := m.Controllers[p].ChooseCards(m.ctx, ms, prompt, candidates, n, n)
	if err != nil {
		return nil, err
	}
	if len(chosen) == 0 {
		chosen = candidates[:n]
	}
	return chosen, nil
}

// destroyCard sends a card from wherever it sits to its owner's graveyard.
func (m *Match) destroyCard(ci *match.CardInstance, reason string) {
	ms := m.State
	from := m.zoneOf(ci)
	if from == ability.ZoneNone {
		return
	}
	ms.MoveCard(ci.ID, from, ability.ZoneGraveyard)
	m.log(log.NewDestroyEvent(ms.Turn, ms.Phase.String(), ci.Owner, ci.Def.Name, reason))
}

// zoneOf locates a card's current zone by scanning both players' lists.
func (m *Match) zoneOf(ci *match.CardInstance) ability.Zone {
	ms := m.State
	zones := []ability.Zone{
		ability.ZoneBoard, ability.ZoneSpellTrap, ability.ZoneField,
		ability.ZoneHand, ability.ZoneGraveyard, ability.ZoneBanished, ability.ZoneDeck,
	}
	for _, player := range []int{ci.Controller, ci.Owner} {
		for _, z := range zones {
			if ms.InZone(player, z, ci.ID) {
				return z
			}
		}
	}
	return ability.ZoneNone
}

// processSummonTriggers fires on_summon effects of the summoned card.
func (m *Match) processSummonTriggers(ci *match.CardInstance, p int) error {
	ms := m.State
	if ci.Def.Ability == nil {
		return nil
	}
	flat := ability.Flatten(ci.Def.Ability)
	for _, idx := range flat.EffectIndexes() {
		if flat.Effects[idx].Trigger != ability.TriggerOnSummon {
			continue
		}
		if chk := rules.CheckActivation(ms, ci, idx, p); !chk.CanActivate {
			continue
		}
		yes, err := m.Controllers[p].ChooseYesNo(m.ctx, ms, "Activate "+ci.Def.Name+" effect?")
		if err != nil {
			return err
		}
		if yes {
			if err := m.activateEffect(ci, idx, p); err != nil {
				return err
			}
		}
		if ms.Over {
			return nil
		}
	}
	return nil
}

func targetFilter(eff *ability.Effect) *ability.Condition {
	if eff.Target == nil {
		return nil
	}
	return eff.Target.Filter
}

func statName(s ability.Stat) string {
	switch s {
	case ability.StatDefense:
		return "DEF"
	case ability.StatBoth:
		return "ATK/DEF"
	default:
		return "ATK"
	}
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
