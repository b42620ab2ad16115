package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"flightops/aerodata/internal/logging"
)

// The upstream provider is not contractually typed: numeric fields arrive as
// strings or numbers, booleans as "1"/"0"/"yes", identifiers in mixed case.
// These helpers coerce tolerantly — malformed input degrades to "absent"
// rather than an error, except out-of-domain coordinates which are rejected.

var truthy = map[string]bool{
	"1": true, "true": true, "yes": true, "y": true, "on": true, "enabled": true,
}

var falsy = map[string]bool{
	"0": true, "false": true, "no": true, "n": true, "off": true, "disabled": true, "": true,
}

// Float coerces a string/number wire value to float64.
// Returns false when the value is absent or unparseable.
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int coerces a wire value to int, truncating fractional parts.
func Int(v any) (int, bool) {
	f, ok := Float(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Bool coerces a wire value to bool. Recognizes the provider's string
// vocabulary first, falls back to numeric truthiness, else the supplied default.
func Bool(v any, def bool) bool {
	switch t := v.(type) {
	case nil:
		return def
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if truthy[s] {
			return true
		}
		if falsy[s] {
			return false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f != 0
		}
		return def
	default:
		if f, ok := Float(v); ok {
			return f != 0
		}
		return def
	}
}

// Coordinate parses a latitude or longitude. Out-of-domain values are a hard
// error: a coordinate outside its valid range cannot be degraded gracefully.
func Coordinate(v any, min, max float64) (float64, error) {
	f, ok := Float(v)
	if !ok {
		return 0, fmt.Errorf("coordinate value absent or unparseable: %v", v)
	}
	if f < min || f > max || math.IsNaN(f) {
		return 0, fmt.Errorf("coordinate %v outside valid range [%v, %v]", f, min, max)
	}
	return f, nil
}

// FloatChecked parses a numeric field and warns (but accepts) values outside
// the typical range for that field, e.g. an implausible runway length.
func FloatChecked(v any, field string, typicalMin, typicalMax float64) (float64, bool) {
	f, ok := Float(v)
	if !ok {
		return 0, false
	}
	if f < typicalMin || f > typicalMax {
		logging.Warn("Field value outside typical range",
			"field", field,
			"value", f,
			"typical_min", typicalMin,
			"typical_max", typicalMax,
		)
	}
	return f, true
}

// Ident canonicalizes an airport/runway identifier: trimmed and upper-cased.
func Ident(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Heading normalizes a heading to [0, 360)
func Heading(v any) (float64, bool) {
	f, ok := Float(v)
	if !ok {
		return 0, false
	}
	h := math.Mod(f, 360)
	if h < 0 {
		h += 360
	}
	return h, true
}

// AngularDiff returns the shortest-arc difference between two headings in degrees.
func AngularDiff(a, b float64) float64 {
	d := math.Abs(math.Mod(a-b, 360))
	if d > 180 {
		d = 360 - d
	}
	return d
}
