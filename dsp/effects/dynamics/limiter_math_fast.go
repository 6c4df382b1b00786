//go:build fastmath

package dynamics

import "github.com/meko-christian/algo-approx"

const ln2 = 0.693147180559945309417232121458

func levelLog2(level float64) float64 { return approx.FastLog(level) / ln2 }

func gainExp2(g float64) float64 { return approx.FastExp(g * ln2) }
