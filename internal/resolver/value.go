package resolver

import (
	"strconv"
	"strings"
)

// Value is a nullable float64. The zero value is null. Null stands in for
// "data legitimately absent" and propagates through all arithmetic; it never
// silently becomes 0 or 1.
type Value struct {
	F  float64
	OK bool
}

var Null = Value{}

func Some(f float64) Value {
	return Value{F: f, OK: true}
}

// Mul multiplies two values; null propagates.
func (v Value) Mul(o Value) Value {
	if !v.OK || !o.OK {
		return Null
	}
	return Some(v.F * o.F)
}

// GreaterThan compares two values as a binary outcome: 1 when v > o, else 0.
// Null on either side propagates.
func (v Value) GreaterThan(o Value) Value {
	if !v.OK || !o.OK {
		return Null
	}
	if v.F > o.F {
		return Some(1)
	}
	return Some(0)
}

// ParseValue coerces the wire form of an observation to a Value. Sources
// occasionally report sentinel markers instead of numbers (DBnomics writes
// "N/A" when no reading exists); those become null rather than an error.
func ParseValue(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "n/a") || strings.EqualFold(s, "nan") {
		return Null
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Null
	}
	return Some(f)
}
