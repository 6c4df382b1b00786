//go:build !fastmath

package dynamics

import "math"

// levelLog2 maps a linear peak level into the gain computer's log2 domain.
func levelLog2(level float64) float64 { return math.Log2(level) }

// gainExp2 maps a log2-domain gain back to a linear multiplier.
func gainExp2(g float64) float64 { return math.Exp2(g) }
