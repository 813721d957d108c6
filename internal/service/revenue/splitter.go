// internal/service/revenue/splitter.go
package revenue

import (
	"math"

	"leadflow-service/internal/config"
)

// Split is the three-way division of a sale's proceeds.
type Split struct {
	PlatformTake float64 `json:"platform_take"`
	PosterTake   float64 `json:"poster_take"`
	ServiceFee   float64 `json:"service_fee"`
}

// Sum returns platform + poster + service fee. Because each component is
// rounded to the cent on its own, Sum is not guaranteed to equal the amount
// that was split; callers that care about the difference use Imbalance.
func (s Split) Sum() float64 {
	return roundCents(s.PlatformTake + s.PosterTake + s.ServiceFee)
}

// Imbalance returns Sum minus the original total, in currency units. A
// non-zero value is expected with the default rates (they add up to 100.6%)
// and is logged, not corrected, when a sale is recorded.
func (s Split) Imbalance(total float64) float64 {
	return roundCents(s.Sum() - total)
}

// Splitter computes revenue splits under a configured rate policy. It is a
// pure calculator: no storage, no side effects. Splits are computed once at
// sale time and persisted; they are never recomputed from the lead later.
type Splitter struct {
	platformRate   float64
	posterRate     float64
	serviceFeeRate float64
}

func NewSplitter(cfg config.SplitConfig) *Splitter {
	return &Splitter{
		platformRate:   cfg.PlatformRate,
		posterRate:     cfg.PosterRate,
		serviceFeeRate: cfg.ServiceFeeRate,
	}
}

// Split divides totalAmount per the configured rates, rounding each
// component independently, half-up to the cent.
func (s *Splitter) Split(totalAmount float64) Split {
	return Split{
		PlatformTake: roundCents(totalAmount * s.platformRate),
		PosterTake:   roundCents(totalAmount * s.posterRate),
		ServiceFee:   roundCents(totalAmount * s.serviceFeeRate),
	}
}

func roundCents(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}
