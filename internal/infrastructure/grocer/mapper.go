package grocer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/trolleywatch/backend/internal/domain"
)

// Package-level compiled regex patterns for size parsing. The multi-pack
// pattern is tried first, so "2 x 250g" is read as a pack of two rather
// than matching the bare "250g".
var (
	multiPackPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*x\s*(\d+(?:\.\d+)?)\s*(kg|g|ml|l)\b`)
	singleSizePattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(kg|g|ml|l)\b`)
	nonNumericPattern = regexp.MustCompile(`[^0-9.]`)
)

// ParseSizeToKg converts a free-text package size ("2 x 250g", "1L",
// "500 mL") into a kilogram-equivalent scalar. Mass and volume units are
// treated as numerically interchangeable (1g counted as 1ml), a known
// imprecision accepted for grocery-density approximation. Returns nil
// when no supported pattern matches.
func ParseSizeToKg(text string) *float64 {
	if text == "" {
		return nil
	}

	if m := multiPackPattern.FindStringSubmatch(text); m != nil {
		count, err1 := strconv.ParseFloat(m[1], 64)
		amount, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			if kg := unitToKg(amount, m[3]); kg != nil {
				total := count * *kg
				return &total
			}
		}
	}

	if m := singleSizePattern.FindStringSubmatch(text); m != nil {
		amount, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return unitToKg(amount, m[2])
		}
	}

	return nil
}

// unitToKg converts an amount in the given unit to kilograms. Units other
// than g/kg/ml/l are not recognized.
func unitToKg(amount float64, unit string) *float64 {
	var kg float64
	switch strings.ToLower(unit) {
	case "g", "ml":
		kg = amount / 1000
	case "kg", "l":
		kg = amount
	default:
		return nil
	}
	return &kg
}

// ToNumber coerces a raw provider value into a finite float. Strings are
// stripped of everything that is not a digit or decimal point before
// parsing, which tolerates currency symbols and thousands separators.
func ToNumber(value interface{}) *float64 {
	switch v := value.(type) {
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return finite(float64(v))
	case int64:
		return finite(float64(v))
	case string:
		stripped := nonNumericPattern.ReplaceAllString(v, "")
		parsed, err := strconv.ParseFloat(stripped, 64)
		if err != nil {
			return nil
		}
		return finite(parsed)
	default:
		return nil
	}
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Normalize maps an arbitrary provider payload into the canonical product
// record. Providers disagree on field names and casing, so each logical
// attribute is resolved by probing an ordered list of candidate keys,
// case-insensitively, taking the first present value. Missing fields
// degrade to empty/nil rather than failing the record.
func Normalize(raw map[string]interface{}) domain.Product {
	fields := lowerKeys(raw)

	product := domain.Product{
		Name:  pickString(fields, "productname", "name"),
		Size:  pickString(fields, "productsize", "packagesize", "size"),
		Price: ToNumber(pick(fields, "currentprice", "price")),
		URL:   pickString(fields, "producturl", "url", "link"),
		ID:    pickString(fields, "productid", "id", "sku"),
	}

	if product.Price != nil {
		if kg := ParseSizeToKg(product.Size); kg != nil && *kg > 0 {
			perKg := math.Round(*product.Price / *kg * 100) / 100
			product.PricePerKg = &perKg
		}
	}

	return product
}

// lowerKeys rebuilds the payload with lowercased keys so candidate
// probing ignores provider capitalization conventions.
func lowerKeys(raw map[string]interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		lowered := strings.ToLower(key)
		if _, exists := fields[lowered]; !exists {
			fields[lowered] = value
		}
	}
	return fields
}

// pick returns the first candidate key present in the payload.
func pick(fields map[string]interface{}, candidates ...string) interface{} {
	for _, candidate := range candidates {
		if value, ok := fields[candidate]; ok && value != nil {
			return value
		}
	}
	return nil
}

// pickString is pick restricted to string-ish values; numeric identifiers
// are formatted rather than dropped.
func pickString(fields map[string]interface{}, candidates ...string) string {
	switch v := pick(fields, candidates...).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
