// Package scoring derives profit scores for fetched contracts and selects
// the top candidates for a run.
package scoring

import (
	"math"

	"github.com/gundeep08/option-premium-analyzer/internal/model"
)

// Weights tunes the scoring policy. All weights are non-negative; a zero
// weight disables that dimension.
type Weights struct {
	Liquidity float64 // volume term
	Spread    float64 // bid/ask tightness term
	Moneyness float64 // distance-from-money term
}

// DefaultWeights weighs all three dimensions equally.
func DefaultWeights() Weights {
	return Weights{Liquidity: 1, Spread: 1, Moneyness: 1}
}

// Score computes the profit score for one contract snapshot. It is pure:
// identical inputs always produce identical output, and the result is always
// finite. Each dimension is monotonic: more volume, a tighter spread, and a
// strike closer to the reference price all raise the score. Missing inputs
// contribute the worst case (zero) for their dimension instead of failing.
//
//	score = wL·ln(1+volume) + wS·1/(1+spread/mid) + wM·1/(1+|strike-ref|/ref)
func Score(contract model.OptionContract, snap model.QuoteSnapshot, refPrice float64, w Weights) float64 {
	var liquidity float64
	if snap.Volume != nil && *snap.Volume > 0 {
		liquidity = math.Log1p(float64(*snap.Volume))
	}

	var tightness float64
	if snap.HasQuote() {
		mid := (*snap.Bid + *snap.Ask) / 2
		if mid > 0 {
			rel := (*snap.Ask - *snap.Bid) / mid
			if rel < 0 {
				rel = 0 // crossed quote; treat as perfectly tight
			}
			tightness = 1 / (1 + rel)
		}
	}

	var moneyness float64
	if refPrice > 0 && contract.Strike > 0 {
		dist := math.Abs(contract.Strike-refPrice) / refPrice
		moneyness = 1 / (1 + dist)
	}

	return w.Liquidity*liquidity + w.Spread*tightness + w.Moneyness*moneyness
}
