package domain

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyNumber = errors.New("empty_number")
	ErrNotNumber   = errors.New("not_a_number")
	ErrNotInteger  = errors.New("not_an_integer")
	ErrOutOfRange  = errors.New("out_of_range")
)

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// NumericText is a number field as held during editing: either the raw
// text the user typed or an already parsed value.
type NumericText interface {
	Text() string
	numeric()
}

// RawText is unparsed user input. It may be empty or partial.
type RawText string

func (t RawText) Text() string { return string(t) }
func (RawText) numeric() {}

// Parsed holds a value that never came from free text, such as a default.
type Parsed struct {
	Value decimal.Decimal
}

func ParsedInt(n int64) Parsed {
	return Parsed{Value: decimal.NewFromInt(n)}
}

func (p Parsed) Text() string { return p.Value.String() }
func (Parsed) numeric() {}

// Resolve coerces n to a decimal. It is called once, at assembly time.
func Resolve(n NumericText) (decimal.Decimal, error) {
	switch v := n.(type) {
	case Parsed:
		return v.Value, nil
	case RawText:
		s := strings.TrimSpace(string(v))
		if s == "" {
			return decimal.Zero, ErrEmptyNumber
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, ErrNotNumber
		}
		return d, nil
	default:
		return decimal.Zero, ErrEmptyNumber
	}
}

// ResolveInt coerces n to a whole number.
func ResolveInt(n NumericText) (int64, error) {
	d, err := Resolve(n)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, ErrNotInteger
	}
	if d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
		return 0, ErrOutOfRange
	}
	return d.IntPart(), nil
}
