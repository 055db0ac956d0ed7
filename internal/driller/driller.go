// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNoDocument is returned when a path does not select a JSON object.
var ErrNoDocument = errors.New("path does not select an object")

var segment = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(\[(\d+)?\])?$`)

// Select navigates JSON with a dot path whose segments are keys optionally
// followed by [n]. A bare key holding a one-element array steps into that
// element; longer arrays are returned whole. Invalid segments and out of range
// indexes yield an empty result.
func Select(jsonData string, path string) gjson.Result {
	current := gjson.Parse(jsonData)

	for _, p := range strings.Split(path, ".") {
		matches := segment.FindStringSubmatch(p)
		if len(matches) == 0 {
			return gjson.Result{}
		}

		index := -1
		if matches[3] != "" {
			i, err := strconv.Atoi(matches[3])
			if err != nil {
				return gjson.Result{}
			}
			index = i
		}

		val := current.Get(matches[1])
		if val.IsArray() {
			arr := val.Array()
			switch {
			case index == -1:
				if len(arr) == 1 {
					val = arr[0]
				}
			case index < len(arr):
				val = arr[index]
			default:
				return gjson.Result{}
			}
		} else if index != -1 {
			return gjson.Result{}
		}

		current = val
	}

	return current
}

// Drill returns the raw text of the object at path. An empty path returns
// data unchanged.
func Drill(data []byte, path string) ([]byte, error) {
	if path == "" {
		return data, nil
	}

	result := Select(string(data), path)
	if !result.IsObject() {
		return nil, fmt.Errorf("%w: %s", ErrNoDocument, path)
	}
	return []byte(result.Raw), nil
}
