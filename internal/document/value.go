// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which JSON type a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is one node of a document tree. The zero Value is JSON null.
//
// For Bool, Number and String the scalar text is kept as-is. Numbers keep their
// source literal for Raw but render from their parsed value in String, so 2.50
// reads "2.5" and 1e1 reads "10.0". For Array and Object, raw holds the
// compacted source text.
type Value struct {
	kind    Kind
	scalar  string
	raw     string
	elems   []Value
	members []Member
	index   map[string]int
}

// Kind returns the JSON type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == Null }

// Get returns the member value for key. The second return is false when v is
// not an object or has no such member.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	i, ok := v.index[key]
	if !ok {
		return Value{}, false
	}
	return v.members[i].Value, true
}

// Has reports whether v is an object holding key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Members returns the object members in source order. Nil for non-objects.
func (v Value) Members() []Member {
	if v.kind != Object {
		return nil
	}
	out := make([]Member, len(v.members))
	copy(out, v.members)
	return out
}

// Keys returns the object keys in source order.
func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.Key
	}
	return keys
}

// Elems returns the array elements. Nil for non-arrays.
func (v Value) Elems() []Value {
	if v.kind != Array {
		return nil
	}
	out := make([]Value, len(v.elems))
	copy(out, v.elems)
	return out
}

// Len returns the number of members or elements, 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.elems)
	case Object:
		return len(v.members)
	}
	return 0
}

// Int returns the value as an int64 when v is a number with an integral value
// that fits in 64 bits.
func (v Value) Int() (int64, bool) {
	if v.kind != Number {
		return 0, false
	}
	if i, err := strconv.ParseInt(v.scalar, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(v.scalar, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// String renders v the way a loosely typed JSON library would when asked for
// a value's string form: strings unquoted, booleans as their literal, numbers
// from their parsed value, null as "null", and composites as compact JSON.
func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Number:
		return canonicalNumber(v.scalar)
	case Bool, String:
		return v.scalar
	default:
		return v.raw
	}
}

// Raw returns v as compact JSON text.
func (v Value) Raw() string {
	switch v.kind {
	case Null:
		return "null"
	case String:
		return quote(v.scalar)
	case Bool, Number:
		return v.scalar
	default:
		return v.raw
	}
}

// Equal reports whether v and o hold the same JSON value. Numbers compare by
// type and value, so 1 and 1.0 differ while 2.50 and 2.5 do not. Objects by member set regardless of order, arrays
// element-wise.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case Null:
		return true
	case Bool, String:
		return v.scalar == o.scalar
	case Number:
		if v.scalar == o.scalar {
			return true
		}
		if isIntegral(v.scalar) != isIntegral(o.scalar) {
			return false
		}
		if isIntegral(v.scalar) {
			a, errA := strconv.ParseInt(v.scalar, 10, 64)
			b, errB := strconv.ParseInt(o.scalar, 10, 64)
			if errA == nil && errB == nil {
				return a == b
			}
		}
		a, errA := strconv.ParseFloat(v.scalar, 64)
		b, errB := strconv.ParseFloat(o.scalar, 64)
		return errA == nil && errB == nil && a == b
	case Array:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.members) != len(o.members) {
			return false
		}
		for _, m := range v.members {
			other, ok := o.Get(m.Key)
			if !ok || !m.Value.Equal(other) {
				return false
			}
		}
		return true
	}
	return false
}

// NewNull returns JSON null.
func NewNull() Value { return Value{} }

// NewBool returns a boolean value.
func NewBool(b bool) Value {
	return Value{kind: Bool, scalar: strconv.FormatBool(b)}
}

// NewString returns a string value.
func NewString(s string) Value {
	return Value{kind: String, scalar: s}
}

// NewInt returns an integer number value.
func NewInt(i int64) Value {
	return Value{kind: Number, scalar: strconv.FormatInt(i, 10)}
}

// NewNumber returns a number value from its JSON literal. The literal is not
// validated.
func NewNumber(literal string) Value {
	return Value{kind: Number, scalar: literal}
}

// NewArray returns an array holding elems.
func NewArray(elems ...Value) Value {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.Raw()
	}
	out := make([]Value, len(elems))
	copy(out, elems)
	return Value{kind: Array, elems: out, raw: "[" + strings.Join(parts, ",") + "]"}
}

// NewObject returns an object holding members in the given order. A repeated
// key keeps its first position and takes the last value.
func NewObject(members ...Member) Value {
	v := Value{kind: Object, index: make(map[string]int, len(members))}
	for _, m := range members {
		if i, ok := v.index[m.Key]; ok {
			v.members[i].Value = m.Value
			continue
		}
		v.index[m.Key] = len(v.members)
		v.members = append(v.members, m)
	}

	parts := make([]string, len(v.members))
	for i, m := range v.members {
		parts[i] = quote(m.Key) + ":" + m.Value.Raw()
	}
	v.raw = "{" + strings.Join(parts, ",") + "}"
	return v
}

func quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(b)
}

// isIntegral reports whether a number literal is written as an integer.
func isIntegral(lit string) bool {
	return !strings.ContainsAny(lit, ".eE")
}

// canonicalNumber renders a number literal from its value. Integers print in
// plain decimal. Fractions print like a double: plain decimal with at least one
// fraction digit inside [1e-3, 1e7), scientific notation outside it.
func canonicalNumber(lit string) string {
	if isIntegral(lit) {
		i, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return lit
		}
		return strconv.FormatInt(i, 10)
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(f, 0) {
		return lit
	}

	if abs := math.Abs(f); abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(f, 'E', -1, 64)
	mant, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	neg := strings.HasPrefix(exp, "-")
	exp = strings.TrimLeft(exp, "+-")
	exp = strings.TrimLeft(exp, "0")
	if neg {
		exp = "-" + exp
	}
	return mant + "E" + exp
}
