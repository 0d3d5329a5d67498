package risk

import (
	"strings"

	"wheelhouse/internal/models"
)

// DefaultIV is the last-resort implied volatility guess, as a fraction.
const DefaultIV = 0.50

// Heuristic IV levels for tickers whose options chronically price rich.
const (
	leveragedETFIV = 0.80
	highVolNameIV  = 0.65
)

// leveragedETFs are leveraged or volatility products; their implied vols
// sit far above the broad market's.
var leveragedETFs = map[string]bool{
	"TQQQ": true, "SQQQ": true, "SOXL": true, "SOXS": true,
	"UPRO": true, "SPXU": true, "TNA": true, "TZA": true,
	"LABU": true, "LABD": true, "TSLL": true, "NVDL": true,
	"FNGU": true, "BOIL": true, "UVXY": true, "VXX": true,
}

// highVolNames are single names that persistently carry elevated IV.
var highVolNames = map[string]bool{
	"TSLA": true, "NVDA": true, "AMD": true, "COIN": true,
	"MSTR": true, "PLTR": true, "ARM": true, "SMCI": true,
	"GME": true, "AMC": true, "RIVN": true, "SOFI": true,
	"MARA": true, "RIOT": true,
}

// IVProvider returns an implied volatility estimate for a position, and
// whether it has one. Providers are composed in precedence order and the
// first success wins, which keeps the precedence testable in isolation.
type IVProvider func(p *models.Position) (float64, bool)

// LiveIV prefers a live quote's implied volatility when present.
func LiveIV(iv *float64) IVProvider {
	return func(*models.Position) (float64, bool) {
		if iv != nil && *iv > 0 {
			return *iv, true
		}
		return 0, false
	}
}

// SnapshotIV uses the IV recorded on the position at open.
func SnapshotIV() IVProvider {
	return func(p *models.Position) (float64, bool) {
		if p.IVSnapshot > 0 {
			return p.IVSnapshot, true
		}
		return 0, false
	}
}

// HeuristicIV guesses from the ticker: leveraged products highest,
// known high-vol names elevated, everything else DefaultIV.
func HeuristicIV() IVProvider {
	return func(p *models.Position) (float64, bool) {
		ticker := strings.ToUpper(p.Ticker)
		switch {
		case leveragedETFs[ticker]:
			return leveragedETFIV, true
		case highVolNames[ticker]:
			return highVolNameIV, true
		default:
			return DefaultIV, true
		}
	}
}

// ResolveIV runs providers in order and returns the first hit. It falls
// back to DefaultIV if every provider declines, so callers always get a
// usable vol.
func ResolveIV(p *models.Position, providers ...IVProvider) float64 {
	for _, provider := range providers {
		if iv, ok := provider(p); ok {
			return iv
		}
	}
	return DefaultIV
}
