// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var indexRe = regexp.MustCompile(`\[(\d+)\]`)

// Driller resolves path against json. Paths are dotted keys with optional [n]
// indexes, e.g. genres[0].description. Arrays holding a single element are
// drilled through transparently, so both a path that names the element and a
// path that skips over it resolve. A key applied to a larger array collects
// that key from every element.
func Driller(json string, path string) gjson.Result {
	current := drill(json, path)

	if current.IsArray() {
		if elems := current.Array(); len(elems) == 1 {
			return elems[0]
		}
	}

	return current
}

// Field resolves path like Driller but returns a terminal array as is, whatever
// its length. Output rows use it so a list keeps its shape.
func Field(json string, path string) gjson.Result {
	return drill(json, path)
}

func drill(json string, path string) gjson.Result {
	current := gjson.Parse(json)

	for _, seg := range segments(path) {
		if current.IsArray() {
			elems := current.Array()
			if idx, err := strconv.Atoi(seg); err == nil {
				if idx < 0 || idx >= len(elems) {
					return gjson.Result{}
				}
				current = elems[idx]
				continue
			}
			if len(elems) != 1 {
				current = current.Get("#." + escape(seg))
				continue
			}
			current = elems[0]
		}

		current = current.Get(escape(seg))
		if !current.Exists() {
			return gjson.Result{}
		}
	}

	return current
}

// segments splits path on dots after turning [n] into .n.
func segments(path string) []string {
	path = indexRe.ReplaceAllString(path, ".$1")
	var result []string
	for _, s := range strings.Split(path, ".") {
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

// escape quotes the characters gjson treats as path syntax.
func escape(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
