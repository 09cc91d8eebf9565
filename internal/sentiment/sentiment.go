package sentiment

import (
	"math"
	"math/rand"
	"time"
)

// JitterFunc supplies the random wobble for the heuristic tier. Production
// wires TimeJitter; tests pass nil or a fixed func to keep derivation
// deterministic.
type JitterFunc func() float64

// TimeJitter returns a wall-clock-seeded jitter in [-2, +2)
func TimeJitter() JitterFunc {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func() float64 {
		return r.Float64()*4 - 2
	}
}

// Inputs are the optional signals the reconciler merges. Nil means the
// source did not supply the value.
type Inputs struct {
	PosMentions       *float64 // explicit positive mention count from the feed
	NegMentions       *float64 // explicit negative mention count from the feed
	RawScore          *float64 // raw sentiment score (fraction or percentage)
	PriceChangePct    *float64 // market change percent; nil when no quote resolved
	MentionsChangePct float64  // mention trend from the detail page
	DetailBullishPct  *float64 // sentiment as reported by the detail page
}

// Derive reconciles the bullish percentage. Tiers, in strict priority order:
// explicit positive/negative counts, raw score, heuristic from price action
// and mention trend, detail-page value. Each tier applies only when every
// preceding tier's precondition fails. The result is an integer in [5, 95].
func Derive(in Inputs, jitter JitterFunc) int {
	bullish := 50.0

	switch {
	case in.PosMentions != nil && in.NegMentions != nil && *in.PosMentions+*in.NegMentions > 0:
		bullish = *in.PosMentions / (*in.PosMentions + *in.NegMentions) * 100

	case in.RawScore != nil:
		if *in.RawScore <= 1 {
			bullish = *in.RawScore * 100
		} else {
			bullish = *in.RawScore
		}

	case in.PriceChangePct != nil:
		priceInfluence := *in.PriceChangePct * 2
		mentionInfluence := clamp(in.MentionsChangePct*0.1, -10, 10)
		bullish = 50 + priceInfluence + mentionInfluence
		if jitter != nil {
			bullish += jitter()
		}

	case in.DetailBullishPct != nil:
		bullish = *in.DetailBullishPct
	}

	return int(clamp(math.Round(bullish), 5, 95))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
