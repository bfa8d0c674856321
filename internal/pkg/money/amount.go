package money

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Scale is the currency precision in decimal places.
const Scale = 2

var (
	hundred = big.NewInt(100)
	half    = big.NewRat(1, 2)
)

// Amount is an exact decimal amount of money.
// The zero value is 0.
type Amount struct {
	r *big.Rat
}

// ParseAmount parses a decimal string such as "150", "37.5" or "6.25".
func ParseAmount(raw string) (Amount, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Amount{}, fmt.Errorf("invalid amount %q", raw)
	}
	r, ok := new(big.Rat).SetString(raw)
	if !ok {
		return Amount{}, fmt.Errorf("invalid amount %q", raw)
	}
	return Amount{r: r}, nil
}

// MustParse is ParseAmount for constants and tests.
func MustParse(raw string) Amount {
	a, err := ParseAmount(raw)
	if err != nil {
		panic(err)
	}
	return a
}

// FromInt returns a whole amount.
func FromInt(v int64) Amount {
	return Amount{r: new(big.Rat).SetInt64(v)}
}

func (a Amount) rat() *big.Rat {
	if a.r == nil {
		return new(big.Rat)
	}
	return a.r
}

func (a Amount) Add(b Amount) Amount {
	return Amount{r: new(big.Rat).Add(a.rat(), b.rat())}
}

func (a Amount) Sub(b Amount) Amount {
	return Amount{r: new(big.Rat).Sub(a.rat(), b.rat())}
}

// Mul multiplies by an exact rational factor.
func (a Amount) Mul(factor *big.Rat) Amount {
	return Amount{r: new(big.Rat).Mul(a.rat(), factor)}
}

func (a Amount) MulInt(n int64) Amount {
	return Amount{r: new(big.Rat).Mul(a.rat(), new(big.Rat).SetInt64(n))}
}

// QuoInt divides by n. Dividing by zero returns the zero amount.
func (a Amount) QuoInt(n int64) Amount {
	if n == 0 {
		return Amount{}
	}
	return Amount{r: new(big.Rat).Quo(a.rat(), new(big.Rat).SetInt64(n))}
}

func (a Amount) Cmp(b Amount) int {
	return a.rat().Cmp(b.rat())
}

func (a Amount) Equal(b Amount) bool {
	return a.Cmp(b) == 0
}

func (a Amount) IsZero() bool {
	return a.rat().Sign() == 0
}

func (a Amount) IsNegative() bool {
	return a.rat().Sign() < 0
}

// Round rounds to currency precision, half away from zero.
func (a Amount) Round() Amount {
	r := a.rat()
	scaled := new(big.Rat).Mul(r, new(big.Rat).SetInt(hundred))
	abs := new(big.Rat).Abs(scaled)
	abs.Add(abs, half)
	q := new(big.Int).Quo(abs.Num(), abs.Denom())
	if scaled.Sign() < 0 {
		q.Neg(q)
	}
	return Amount{r: new(big.Rat).SetFrac(q, hundred)}
}

// String formats the amount rounded to currency precision.
func (a Amount) String() string {
	return a.Round().rat().FloatString(Scale)
}

// MarshalJSON writes the amount as a JSON number with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number, a numeric string or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseAmount(s)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}
	parsed, err := ParseAmount(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
