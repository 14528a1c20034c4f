package calculator

import (
	"math"
	"strconv"
	"strings"
)

// FormatResult renders a result the way the display shows it: the shortest
// decimal that round-trips, switching to exponent form for magnitudes of at
// least 1e21 or below 1e-6, with negative zero shown as 0.
func FormatResult(v float64) string {
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		// strconv pads the exponent to two digits ("1e-07"); drop the padding.
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
