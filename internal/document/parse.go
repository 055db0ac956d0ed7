// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// ErrInvalidJSON is returned by Parse when the input is not valid JSON text.
var ErrInvalidJSON = errors.New("invalid JSON")

// Parse converts JSON text into a Value tree.
func Parse(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, ErrInvalidJSON
	}
	return FromResult(gjson.ParseBytes(data)), nil
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// MustParse is Parse that panics on error. Meant for tests and fixed literals.
func MustParse(s string) Value {
	v, err := ParseString(s)
	if err != nil {
		panic(fmt.Sprintf("document: %v: %s", err, s))
	}
	return v
}

// FromResult converts an already parsed gjson result into a Value tree. A
// result that does not exist converts to null.
func FromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Value{}
	case gjson.False, gjson.True:
		return Value{kind: Bool, scalar: r.Raw}
	case gjson.Number:
		return Value{kind: Number, scalar: r.Raw}
	case gjson.String:
		return Value{kind: String, scalar: r.Str}
	}

	raw := string(pretty.Ugly([]byte(r.Raw)))

	if r.IsArray() {
		var elems []Value
		r.ForEach(func(_, value gjson.Result) bool {
			elems = append(elems, FromResult(value))
			return true
		})
		return Value{kind: Array, elems: elems, raw: raw}
	}

	v := Value{kind: Object, raw: raw, index: map[string]int{}}
	r.ForEach(func(key, value gjson.Result) bool {
		m := Member{Key: key.String(), Value: FromResult(value)}
		if i, ok := v.index[m.Key]; ok {
			v.members[i].Value = m.Value
			return true
		}
		v.index[m.Key] = len(v.members)
		v.members = append(v.members, m)
		return true
	})
	return v
}
