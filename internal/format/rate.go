// Package format renders byte rates as short SI-prefixed strings.
package format

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/nozo-moto/netspeed/pkg/types"
)

const scale = 1000

var units = []string{"B/s", "K/s", "M/s", "G/s", "T/s", "P/s", "E/s", "Z/s", "Y/s"}

// Rate formats a bytes-per-second value, e.g. "777 K/s" or "2.33 K/s".
// Values past the last unit stay in Y/s.
func Rate(amount float64) string {
	unit := 0
	for amount >= scale && unit < len(units)-1 {
		amount /= scale
		unit++
	}

	return toFixed(amount, digits(amount)) + " " + units[unit]
}

// Label is the combined down/up text pushed to the display.
func Label(r types.RateSample) string {
	return "↓ " + Rate(r.Down) + " ↑ " + Rate(r.Up)
}

func digits(amount float64) int {
	switch {
	case amount >= 100 || amount < 0.01:
		return 0
	case amount >= 10:
		return 1
	default:
		return 2
	}
}

// toFixed rounds to n decimals with exact ties going away from zero, and
// renders a negative value as "-" plus its magnitude.
func toFixed(x float64, n int) string {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.Abs(x) >= 1e21 {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}

	neg := x < 0
	if neg {
		x = -x
	}

	// 256 bits hold any float64 >= 0.01 scaled by 10^2 plus one half exactly.
	v := new(big.Float).SetPrec(256).SetFloat64(x)
	v.Mul(v, new(big.Float).SetPrec(256).SetFloat64(math.Pow10(n)))
	v.Add(v, big.NewFloat(0.5))
	i, _ := v.Int(nil)

	s := i.String()
	if n > 0 {
		if len(s) <= n {
			s = strings.Repeat("0", n-len(s)+1) + s
		}
		s = s[:len(s)-n] + "." + s[len(s)-n:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
