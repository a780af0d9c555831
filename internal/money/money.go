// Package money stores prices as integer cents and renders them as
// two-decimal strings, so no float rounding ever reaches the database.
package money

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxDigits is the total number of digits a price may carry, cents included.
const MaxDigits = 5

var (
	ErrInvalidPrice   = errors.New("a valid number is required")
	ErrNegativePrice  = errors.New("ensure this value is greater than or equal to 0")
	ErrTooManyDecimal = errors.New("ensure that there are no more than 2 decimal places")
	ErrTooManyDigits  = fmt.Errorf("ensure that there are no more than %d digits in total", MaxDigits)
)

// Price is an amount in cents.
type Price int64

// ParsePrice converts a decimal string such as "5", "5.8" or "5.80" to cents.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidPrice
	}
	if strings.HasPrefix(s, "-") {
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return 0, ErrInvalidPrice
		}
		return 0, ErrNegativePrice
	}
	s = strings.TrimPrefix(s, "+")

	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (hasDot && !isDigits(frac)) {
		return 0, ErrInvalidPrice
	}

	frac = strings.TrimRight(frac, "0")
	if len(frac) > 2 {
		return 0, ErrTooManyDecimal
	}
	whole = strings.TrimLeft(whole, "0")
	if len(whole)+2 > MaxDigits {
		return 0, ErrTooManyDigits
	}

	for len(frac) < 2 {
		frac += "0"
	}
	cents, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	return Price(cents), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String renders p as "123.45".
func (p Price) String() string {
	sign := ""
	c := int64(p)
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// MarshalJSON renders the price as a JSON string ("5.00").
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either a JSON number or a numeric string.
func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return ErrInvalidPrice
		}
	} else if strings.ContainsAny(raw, "eE") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ErrInvalidPrice
		}
		raw = strconv.FormatFloat(f, 'f', -1, 64)
	}
	v, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
