package marketdata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"wheelhouse/internal/models"
)

// OCC option symbols: 6-character space-padded ticker, YYMMDD expiry,
// P/C, then the strike times 1000 zero-padded to 8 digits.
// Example: "AAPL  260221P00200000" = AAPL Feb 21 2026 $200 put.
const occLength = 21

// OCCSymbol builds the OCC symbol for one option leg.
func OCCSymbol(ticker string, expiry time.Time, strike float64, isPut bool) (string, error) {
	if ticker == "" {
		return "", fmt.Errorf("occ: empty ticker")
	}
	if len(ticker) > 6 {
		return "", fmt.Errorf("occ: ticker %q longer than 6 characters", ticker)
	}
	if strike <= 0 {
		return "", fmt.Errorf("occ: invalid strike %v", strike)
	}

	pc := "C"
	if isPut {
		pc = "P"
	}
	return fmt.Sprintf("%-6s%s%s%08d",
		strings.ToUpper(ticker),
		expiry.Format("060102"),
		pc,
		int64(strike*1000+0.5),
	), nil
}

// OCCContract is a parsed OCC symbol.
type OCCContract struct {
	Ticker string
	Expiry time.Time
	Strike float64
	IsPut  bool
}

// ParseOCC parses an OCC symbol back into its components.
func ParseOCC(symbol string) (OCCContract, error) {
	occ := strings.ToUpper(strings.TrimSpace(symbol))
	if len(occ) < occLength {
		return OCCContract{}, fmt.Errorf("occ: invalid symbol length %d", len(occ))
	}

	ticker := strings.TrimSpace(occ[:6])
	expiry, err := time.Parse("060102", occ[6:12])
	if err != nil {
		return OCCContract{}, fmt.Errorf("occ: invalid expiry in %q: %w", symbol, err)
	}

	pc := occ[12]
	if pc != 'P' && pc != 'C' {
		return OCCContract{}, fmt.Errorf("occ: invalid put/call flag %q", string(pc))
	}

	strikeMils, err := strconv.ParseInt(occ[13:21], 10, 64)
	if err != nil {
		return OCCContract{}, fmt.Errorf("occ: invalid strike in %q: %w", symbol, err)
	}

	return OCCContract{
		Ticker: ticker,
		Expiry: expiry,
		Strike: float64(strikeMils) / 1000,
		IsPut:  pc == 'P',
	}, nil
}

// PositionSymbols returns the OCC symbols a position's quotes require:
// both legs for spreads, one for single-leg options, none for stock-only
// entries. Positions whose fields cannot produce a symbol are skipped.
func PositionSymbols(positions []models.Position) []string {
	var symbols []string
	for i := range positions {
		p := &positions[i]
		if !p.Strategy.Valid() {
			continue
		}

		isPut := p.Strategy.IsPut()
		if p.Strategy.IsSpread() {
			for _, strike := range []float64{p.BuyStrike, p.SellStrike} {
				if strike <= 0 {
					continue
				}
				if sym, err := OCCSymbol(p.Ticker, p.Expiry, strike, isPut); err == nil {
					symbols = append(symbols, sym)
				}
			}
			continue
		}

		if sym, err := OCCSymbol(p.Ticker, p.Expiry, p.Strike, isPut); err == nil {
			symbols = append(symbols, sym)
		}
	}
	return symbols
}
