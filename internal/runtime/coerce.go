package runtime

import (
	"math"
	"strconv"
	"strings"
)

// ToBoolean implements truthiness: 0, NaN, "", null, undefined and false
// are falsy; everything else is truthy.
func ToBoolean(v Value) bool {
	switch val := v.(type) {
	case *UndefinedValue, *NullValue:
		return false
	case *BooleanValue:
		return val.Value
	case *NumberValue:
		return val.Value != 0 && !math.IsNaN(val.Value)
	case *StringValue:
		return val.Value != ""
	default:
		return true
	}
}

// ToNumber implements numeric coercion, returning NaN on failure.
func ToNumber(v Value) float64 {
	switch val := v.(type) {
	case *UndefinedValue:
		return math.NaN()
	case *NullValue:
		return 0
	case *BooleanValue:
		if val.Value {
			return 1
		}
		return 0
	case *NumberValue:
		return val.Value
	case *StringValue:
		return stringToNumber(val.Value)
	case *ArrayValue:
		// [] -> 0, [x] -> ToNumber(x), otherwise NaN
		switch len(val.Elements) {
		case 0:
			return 0
		case 1:
			return ToNumber(val.Get(0))
		default:
			return math.NaN()
		}
	default:
		return math.NaN()
	}
}

// stringToNumber parses a trimmed numeric string the way the unary plus
// operator does: "" is 0, hex/binary/octal prefixes are honored,
// "Infinity" parses, anything else is NaN.
func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if n, err := strconv.ParseUint(s[2:], 16, 64); err == nil {
			return float64(n)
		}
		return math.NaN()
	}
	if strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B") {
		if n, err := strconv.ParseUint(s[2:], 2, 64); err == nil {
			return float64(n)
		}
		return math.NaN()
	}
	if strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O") {
		if n, err := strconv.ParseUint(s[2:], 8, 64); err == nil {
			return float64(n)
		}
		return math.NaN()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return math.NaN()
}

// ToInt32 implements the 32-bit signed conversion used by bitwise
// operators, including the mod-2³² wraparound.
func ToInt32(v Value) int32 {
	return int32(ToUint32(v))
}

// ToUint32 implements the 32-bit unsigned conversion used by `>>>`.
func ToUint32(v Value) uint32 {
	f := ToNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(math.Trunc(f)))
}

// ToInteger truncates toward zero with NaN mapping to 0, for index
// arguments of native methods.
func ToInteger(v Value) int {
	f := ToNumber(v)
	if math.IsNaN(f) {
		return 0
	}
	if math.IsInf(f, 1) {
		return math.MaxInt32
	}
	if math.IsInf(f, -1) {
		return math.MinInt32
	}
	return int(math.Trunc(f))
}

// ToPropertyKey converts a computed index value into a property key
// string; integral numbers print without a decimal point, so a[1] and
// a["1"] address the same slot.
func ToPropertyKey(v Value) string {
	return v.String()
}

// StrictEquals implements `===`: no coercion, NaN never equal to itself,
// reference identity for objects.
func StrictEquals(a, b Value) bool {
	switch av := a.(type) {
	case *UndefinedValue:
		_, ok := b.(*UndefinedValue)
		return ok
	case *NullValue:
		_, ok := b.(*NullValue)
		return ok
	case *BooleanValue:
		bv, ok := b.(*BooleanValue)
		return ok && av.Value == bv.Value
	case *NumberValue:
		bv, ok := b.(*NumberValue)
		return ok && av.Value == bv.Value // NaN != NaN via float compare
	case *StringValue:
		bv, ok := b.(*StringValue)
		return ok && av.Value == bv.Value
	case *HostValue:
		bv, ok := b.(*HostValue)
		return ok && av == bv
	default:
		// objects, arrays, functions, instances: reference identity
		return a == b
	}
}

// LooseEquals implements `==` with the standard coercion ladder:
// null and undefined match each other, numbers and strings compare
// numerically, booleans coerce to numbers, and objects compare to
// primitives through their primitive form.
func LooseEquals(a, b Value) bool {
	// Fast path: same kind.
	if sameKind(a, b) {
		return StrictEquals(a, b)
	}
	switch {
	case IsNullish(a) && IsNullish(b):
		return true
	case IsNullish(a) || IsNullish(b):
		return false
	}

	an, aIsNum := a.(*NumberValue)
	bn, bIsNum := b.(*NumberValue)
	as, aIsStr := a.(*StringValue)
	bs, bIsStr := b.(*StringValue)
	ab, aIsBool := a.(*BooleanValue)
	bb, bIsBool := b.(*BooleanValue)

	switch {
	case aIsNum && bIsStr:
		return an.Value == stringToNumber(bs.Value)
	case aIsStr && bIsNum:
		return stringToNumber(as.Value) == bn.Value
	case aIsBool:
		return LooseEquals(Number(ToNumber(ab)), b)
	case bIsBool:
		return LooseEquals(a, Number(ToNumber(bb)))
	case (aIsNum || aIsStr) && isObjectKind(b):
		return LooseEquals(a, toPrimitive(b))
	case isObjectKind(a) && (bIsNum || bIsStr):
		return LooseEquals(toPrimitive(a), b)
	default:
		return false
	}
}

func sameKind(a, b Value) bool {
	switch a.(type) {
	case *UndefinedValue:
		_, ok := b.(*UndefinedValue)
		return ok
	case *NullValue:
		_, ok := b.(*NullValue)
		return ok
	case *BooleanValue:
		_, ok := b.(*BooleanValue)
		return ok
	case *NumberValue:
		_, ok := b.(*NumberValue)
		return ok
	case *StringValue:
		_, ok := b.(*StringValue)
		return ok
	default:
		return isObjectKind(b)
	}
}

func isObjectKind(v Value) bool {
	switch v.(type) {
	case *UndefinedValue, *NullValue, *BooleanValue, *NumberValue, *StringValue:
		return false
	}
	return true
}

// toPrimitive converts an object to its primitive form for loose equality:
// arrays join to their string form, everything else uses its display
// string.
func toPrimitive(v Value) Value {
	return NewString(v.String())
}

// Compare implements relational comparison. When both operands are
// strings the comparison is lexicographic; otherwise both are coerced to
// numbers. ok is false when either side is NaN, in which case every
// relational operator yields false.
func Compare(a, b Value) (cmp int, ok bool) {
	as, aIsStr := a.(*StringValue)
	bs, bIsStr := b.(*StringValue)
	if aIsStr && bIsStr {
		return strings.Compare(as.Value, bs.Value), true
	}
	an := ToNumber(a)
	bn := ToNumber(b)
	if math.IsNaN(an) || math.IsNaN(bn) {
		return 0, false
	}
	switch {
	case an < bn:
		return -1, true
	case an > bn:
		return 1, true
	default:
		return 0, true
	}
}
