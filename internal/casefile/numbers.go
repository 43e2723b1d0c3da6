package casefile

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// parseFloat accepts anything strconv does except NaN and infinities.
func parseFloat(tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrBadNumber, tok)
	}
	return v, nil
}

// parseInt accepts integer tokens and float-looking ones ("1.0", "2e0"),
// truncating the latter toward zero.
func parseInt(tok string) (int, error) {
	v, err := parseInt64(tok)
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("%w: %q out of range", ErrBadNumber, tok)
	}
	return int(v), nil
}

func parseInt64(tok string) (int64, error) {
	if v, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return v, nil
	}
	f, err := parseFloat(tok)
	if err != nil {
		return 0, err
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, fmt.Errorf("%w: %q out of range", ErrBadNumber, tok)
	}
	return int64(f), nil
}

// round4 keeps four decimal places, the precision branch and fixed demand
// magnitudes are stored at.
func round4(v float64) float64 {
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}
