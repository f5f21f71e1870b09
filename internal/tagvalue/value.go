// Package tagvalue defines the value types a TagStore can hold: the
// scalar bool/number/string variants and the structured timer, counter,
// and latch instances (spec §3).
package tagvalue

import "strconv"

// Kind discriminates a Value's active variant.
type Kind string

const (
	KindBool    Kind = "bool"
	KindNumber  Kind = "number"
	KindString  Kind = "string"
	KindTimer   Kind = "timer"
	KindCounter Kind = "counter"
	KindLatch   Kind = "latch"
)

// Value is a tagged union over the scalar and structured tag value
// types. The zero Value is an absent/false bool, matching the "absent
// defaults to false" read rule (spec §4.1, §4.2).
type Value struct {
	Kind    Kind
	Bool    bool
	Number  float64
	String  string
	Timer   *TimerInstance
	Counter *CounterInstance
	Latch   *LatchInstance
}

// Bool wraps a boolean scalar.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Number wraps a numeric scalar. Integer and real are not distinguished
// (spec §4.2).
func Number(n float64) Value { return Value{Kind: KindNumber, Number: n} }

// String wraps a string scalar.
func String(s string) Value { return Value{Kind: KindString, String: s} }

// FromTimer wraps a timer instance.
func FromTimer(t *TimerInstance) Value { return Value{Kind: KindTimer, Timer: t} }

// FromCounter wraps a counter instance.
func FromCounter(c *CounterInstance) Value { return Value{Kind: KindCounter, Counter: c} }

// FromLatch wraps a latch instance.
func FromLatch(l *LatchInstance) Value { return Value{Kind: KindLatch, Latch: l} }

// ToBool applies the to_bool coercion: bool as-is, non-zero number is
// true, non-empty string is true, structured values and the absent/zero
// value are false (spec §4.2).
func (v Value) ToBool() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number != 0
	case KindString:
		return v.String != ""
	default:
		return false
	}
}

// ToNumber applies the to_number coercion: number as-is, bool maps to
// 1/0, a numeric string parses, anything else (including unparseable
// strings and structured values) is 0 (spec §4.2).
func (v Value) ToNumber() float64 {
	switch v.Kind {
	case KindNumber:
		return v.Number
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindString:
		n, err := strconv.ParseFloat(v.String, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Equal implements the structural equality EQ/NE use instead of numeric
// coercion (spec §4.2).
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == other.Bool
	case KindNumber:
		return v.Number == other.Number
	case KindString:
		return v.String == other.String
	case KindTimer:
		return v.Timer == other.Timer || (v.Timer != nil && other.Timer != nil && *v.Timer == *other.Timer)
	case KindCounter:
		return v.Counter == other.Counter || (v.Counter != nil && other.Counter != nil && *v.Counter == *other.Counter)
	case KindLatch:
		return v.Latch == other.Latch || (v.Latch != nil && other.Latch != nil && *v.Latch == *other.Latch)
	default:
		return false
	}
}
