// Package chains reconstructs roll chains from flat position records and
// computes their cash-flow aggregates. A chain is an original position plus
// every successive roll, linked by a shared chain identifier.
package chains

import (
	"sort"

	"wheelhouse/internal/models"
)

// Chain is an ordered sequence of positions sharing a chain id, oldest
// first. At most one member is open; earlier members are closed with a
// close reason.
type Chain struct {
	ID        string
	Positions []models.Position
}

// Current returns the chain's most recent member.
func (c *Chain) Current() *models.Position {
	if len(c.Positions) == 0 {
		return nil
	}
	return &c.Positions[len(c.Positions)-1]
}

// Group collects positions into chains ordered by open date. A position
// without a chain id forms a singleton chain keyed by its own id.
func Group(positions []models.Position) []Chain {
	byID := make(map[string][]models.Position)
	var order []string

	for _, p := range positions {
		key := p.ChainID
		if key == "" {
			key = p.ID
		}
		if _, seen := byID[key]; !seen {
			order = append(order, key)
		}
		byID[key] = append(byID[key], p)
	}

	chains := make([]Chain, 0, len(order))
	for _, key := range order {
		members := byID[key]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].OpenDate.Before(members[j].OpenDate)
		})
		chains = append(chains, Chain{ID: key, Positions: members})
	}
	return chains
}

// Summarize computes a chain's cash-flow aggregates.
//
// Net premium is the chain's true cash basis: every member's signed
// premium at open, reduced by the buy-back cost paid on members that were
// closed to roll. This deliberately differs from the current member's
// premium alone — the historical legs are part of the basis.
func Summarize(c Chain) models.ChainSummary {
	s := models.ChainSummary{ChainID: c.ID, Members: len(c.Positions)}
	if len(c.Positions) == 0 {
		return s
	}
	s.Ticker = c.Positions[0].Ticker

	for i := range c.Positions {
		p := &c.Positions[i]
		s.NetPremium += p.SignedPremiumTotal()
		if p.Reason == models.CloseRolled {
			s.NetPremium -= p.BuyBackCost
			s.HasRolls = true
		}
		s.RealizedPnL += realized(p)
	}

	s.Breakeven = Breakeven(c.Current(), s.NetPremium)
	return s
}

// realized returns the cash a member has already locked in. Open members
// contribute nothing.
func realized(p *models.Position) float64 {
	switch p.Status {
	case models.StatusAssigned:
		// Assignment converts the short put to shares with zero intrinsic
		// cost recorded; the full premium is realized at conversion.
		return p.SignedPremiumTotal()
	case models.StatusClosed:
	default:
		return 0
	}

	if p.Strategy.IsShort() {
		return p.SignedPremiumTotal() - p.BuyBackCost
	}
	// Long leg: what it sold for minus what it cost.
	return (p.ClosePrice - p.PremiumPaid()) * models.SharesPerContract * float64(p.Contracts)
}
