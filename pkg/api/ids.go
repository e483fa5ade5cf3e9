package api

import (
	"errors"
	"fmt"
	"math"
	"strings"

	json "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
)

// ErrMalformed marks a field that could not be read as a number
var ErrMalformed = errors.New("malformed value")

var maxID = decimal.NewFromInt(math.MaxInt64)

// Exponents outside this window are rejected before any comparison or
// arithmetic, which would otherwise rescale to that many digits.
const (
	minExponent = -18
	maxExponent = 18
)

// parseDecimal parses s and rejects values with an extreme exponent
func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not numeric", ErrMalformed, s)
	}
	if exp := d.Exponent(); exp < minExponent || exp > maxExponent {
		return decimal.Zero, fmt.Errorf("%w: exponent %d out of range", ErrMalformed, exp)
	}
	return d, nil
}

// numericText returns the textual form of a JSON number or numeric string
func numericText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("%w: missing", ErrMalformed)
	}
	v := json.Get(raw)
	switch v.ValueType() {
	case json.NumberValue:
		return strings.TrimSpace(string(raw)), nil
	case json.StringValue:
		s := strings.TrimSpace(v.ToString())
		if s == "" {
			return "", fmt.Errorf("%w: empty string", ErrMalformed)
		}
		return s, nil
	case json.NilValue:
		return "", fmt.Errorf("%w: null", ErrMalformed)
	default:
		return "", fmt.Errorf("%w: %s is not a number", ErrMalformed, string(raw))
	}
}

// ParseNumericID normalizes a product ID: a positive integral number,
// or a string holding one
func ParseNumericID(raw json.RawMessage) (int64, error) {
	s, err := numericText(raw)
	if err != nil {
		return 0, err
	}
	d, err := parseDecimal(s)
	if err != nil {
		return 0, err
	}
	// int64 holds at most 19 digits
	if d.NumDigits()+int(d.Exponent()) > 19 {
		return 0, fmt.Errorf("%w: %s is out of range", ErrMalformed, s)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %s is not integral", ErrMalformed, s)
	}
	if !d.IsPositive() || d.GreaterThan(maxID) {
		return 0, fmt.Errorf("%w: %s is out of range", ErrMalformed, s)
	}
	return d.IntPart(), nil
}

// ParseAmount reads a price given as a number or numeric string
func ParseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	s, err := numericText(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return parseDecimal(s)
}

// Normalize resolves ID from productId, falling back to id
func (p *Product) Normalize() error {
	raw := p.RawID
	if len(raw) == 0 || string(raw) == "null" {
		raw = p.RawAltID
	}
	id, err := ParseNumericID(raw)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// normalizeProducts drops products without a usable ID
func normalizeProducts(products []Product, source string) []Product {
	out := products[:0]
	for i := range products {
		if err := products[i].Normalize(); err != nil {
			logger.Warn("Skipping product with invalid ID", "source", source, "index", i, "name", products[i].Name, "error", err)
			continue
		}
		out = append(out, products[i])
	}
	return out
}
