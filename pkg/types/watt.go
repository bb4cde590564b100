package types

import (
	"fmt"
	"math"
)

// Watts is a float64 wrapper representing electrical power in watts.
type Watts float64

// Humanized returns a human-readable string with automatic unit (mW, W, kW, MW).
func (w Watts) Humanized() string {
	v := float64(w)
	switch av := math.Abs(v); {
	case av >= 1e6:
		return fmt.Sprintf("%.2f MW", v/1e6)
	case av >= 1e3:
		return fmt.Sprintf("%.2f kW", v/1e3)
	case av >= 1 || v == 0:
		return fmt.Sprintf("%.2f W", v)
	default:
		return fmt.Sprintf("%.1f mW", v*1e3)
	}
}

// KW returns the number of kilowatts.
func (w Watts) KW() float64 { return float64(w) / 1e3 }

// MW returns the number of megawatts.
func (w Watts) MW() float64 { return float64(w) / 1e6 }
