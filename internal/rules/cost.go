package rules

import (
	"fmt"

	"github.com/mkessel/duelcore/internal/ability"
	"github.com/mkessel/duelcore/internal/match"
)

// CostQuery is the structured answer to "can this cost be paid, and what
// selection does it need". Unpayable costs are an expected player-facing
// outcome, so they come back as CanPay=false with a reason, never an error.
type CostQuery struct {
	CanPay            bool
	Reason            string
	RequiresSelection bool
	Choices           []string // qualifying card identities in the source zone
	Min               int
	Max               int
}

// PaidCost records what ExecuteCost actually took.
type PaidCost struct {
	Kind   ability.CostKind
	Amount int
	Cards  []string
}

// CostResult is the outcome of ExecuteCost.
type CostResult struct {
	Success bool
	Message string
	Paid    *PaidCost
}

// ValidateCost checks whether the payer can pay an effect's cost. Raw
// sufficiency is checked before selection options are computed. When the
// caller already has a selection (from a UI round-trip), every chosen card
// is re-verified to reside in the claimed source zone and to satisfy the
// cost filter before payability is declared.
func ValidateCost(ms *match.MatchState, payer int, eff *ability.Effect, selection []string) CostQuery {
	if eff == nil || eff.Cost == nil {
		return CostQuery{CanPay: true}
	}
	cost := eff.Cost

	switch cost.Kind {
	case ability.CostPayLife:
		if ms.Players[payer].Life < cost.Amount {
			return CostQuery{Reason: fmt.Sprintf("not enough life points: have %d, need %d", ms.Players[payer].Life, cost.Amount)}
		}
		return CostQuery{CanPay: true}

	case ability.CostDiscard, ability.CostTribute, ability.CostBanish:
		return validateCardCost(ms, payer, cost, selection)

	default:
		// Unknown cost kinds are treated as payable for forward
		// compatibility with newer authored content. The catalog loader
		// flags them for audit.
		return CostQuery{CanPay: true}
	}
}

func validateCardCost(ms *match.MatchState, payer int, cost *ability.Cost, selection []string) CostQuery {
	zone := cost.SourceZone()
	pool := ms.ZoneList(payer, zone)

	// Raw sufficiency first: no point computing choices from a short zone.
	if len(pool) < cost.Amount {
		return CostQuery{
			Reason: fmt.Sprintf("not enough cards in %s: have %d, need %d", zone, len(pool), cost.Amount),
			Min:    cost.Amount,
			Max:    cost.Amount,
		}
	}

	var choices []string
	for _, id := range pool {
		ci := ms.Card(id)
		if ci == nil {
			continue
		}
		if cost.Filter != nil && !Evaluate(cost.Filter, Context{State: ms, Card: ci, Player: payer}) {
			continue
		}
		choices = append(choices, id)
	}
	if len(choices) < cost.Amount {
		return CostQuery{
			Reason:  fmt.Sprintf("only %d qualifying cards in %s, need %d", len(choices), zone, cost.Amount),
			Choices: choices,
			Min:     cost.Amount,
			Max:     cost.Amount,
		}
	}

	q := CostQuery{
		CanPay:            true,
		RequiresSelection: true,
		Choices:           choices,
		Min:               cost.Amount,
		Max:               cost.Amount,
	}

	if selection != nil {
		if len(selection) < cost.Amount {
			return CostQuery{
				Reason:  fmt.Sprintf("selection has %d cards, need %d", len(selection), cost.Amount),
				Choices: choices,
				Min:     cost.Amount,
				Max:     cost.Amount,
			}
		}
		seen := make(map[string]bool, len(selection))
		for _, id := range selection {
			if seen[id] {
				return CostQuery{
					Reason:  "selection names the same card twice",
					Choices: choices,
					Min:     cost.Amount,
					Max:     cost.Amount,
				}
			}
			seen[id] = true
			if !ms.InZone(payer, zone, id) {
				return CostQuery{
					Reason:  fmt.Sprintf("selected card is not in %s", zone),
					Choices: choices,
					Min:     cost.Amount,
					Max:     cost.Amount,
				}
			}
			if !containsID(choices, id) {
				return CostQuery{
					Reason:  "selected card does not satisfy the cost filter",
					Choices: choices,
					Min:     cost.Amount,
					Max:     cost.Amount,
				}
			}
		}
	}
	return q
}

// ExecuteCost atomically applies a cost payment. The provided selection is
// re-validated regardless of any earlier ValidateCost call, since a UI
// round-trip may separate the two phases; a short or illegal selection is
// rejected outright with no partial deduction.
func ExecuteCost(ms *match.MatchState, payer int, eff *ability.Effect, selection []string) CostResult {
	if eff == nil || eff.Cost == nil {
		return CostResult{Success: true, Message: "no cost"}
	}
	cost := eff.Cost

	switch cost.Kind {
	case ability.CostPayLife:
		if ms.Players[payer].Life < cost.Amount {
			return CostResult{Message: fmt.Sprintf("not enough life points: have %d, need %d", ms.Players[payer].Life, cost.Amount)}
		}
		ms.Players[payer].Life -= cost.Amount
		return CostResult{
			Success: true,
			Message: fmt.Sprintf("paid %d life points", cost.Amount),
			Paid:    &PaidCost{Kind: cost.Kind, Amount: cost.Amount},
		}

	case ability.CostDiscard, ability.CostTribute, ability.CostBanish:
		return executeCardCost(ms, payer, cost, selection)

	default:
		return CostResult{Success: true, Message: fmt.Sprintf("unrecognized cost kind %q treated as paid", cost.RawKind)}
	}
}

func executeCardCost(ms *match.MatchState, payer int, cost *ability.Cost, selection []string) CostResult {
	if len(selection) < cost.Amount {
		return CostResult{Message: fmt.Sprintf("selection has %d cards, need %d", len(selection), cost.Amount)}
	}
	zone := cost.SourceZone()
	paying := selection[:cost.Amount]

	// Validate the whole selection before touching state so a bad entry
	// cannot leave a half-paid cost behind. A repeated identity would move
	// once but count twice, underpaying the cost.
	seen := make(map[string]bool, len(paying))
	for _, id := range paying {
		if seen[id] {
			return CostResult{Message: "selection names the same card twice"}
		}
		seen[id] = true
		ci := ms.Card(id)
		if ci == nil || !ms.InZone(payer, zone, id) {
			return CostResult{Message: fmt.Sprintf("selected card is not in %s", zone)}
		}
		if cost.Filter != nil && !Evaluate(cost.Filter, Context{State: ms, Card: ci, Player: payer}) {
			return CostResult{Message: "selected card does not satisfy the cost filter"}
		}
	}

	dest := cost.DestinationZone()
	for _, id := range paying {
		ms.MoveCard(id, zone, dest)
	}
	return CostResult{
		Success: true,
		Message: fmt.Sprintf("%s %d card(s)", costVerb(cost.Kind), len(paying)),
		Paid:    &PaidCost{Kind: cost.Kind, Amount: cost.Amount, Cards: paying},
	}
}

func costVerb(k ability.CostKind) string {
	switch k {
	case ability.CostDiscard:
		return "discarded"
	case ability.CostTribute:
		return "tributed"
	case ability.CostBanish:
		return "banished"
	default:
		return "paid"
	}
}

func containsID(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
