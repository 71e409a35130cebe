// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package registry

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

type kind uint8

const (
	kindNull kind = iota + 1
	kindBool
	kindUint
	kindCompact
	kindVec
	kindBytes
	kindOption
	kindArray
	kindTuple
	kindAccount
	kindHash
	kindEra
	kindCall
	kindAddress
	kindNamed
)

// typeNode is a parsed type expression. Nodes are immutable once parsed and
// shared between all users of the same expression.
type typeNode struct {
	kind  kind
	size  int
	elem  *typeNode
	items []*typeNode
	name  string
}

func (t *typeNode) isByte() bool {
	return t.kind == kindUint && t.size == 1
}

var builtins = map[string]*typeNode{
	"()":           {kind: kindNull},
	"bool":         {kind: kindBool},
	"u8":           {kind: kindUint, size: 1},
	"u16":          {kind: kindUint, size: 2},
	"u32":          {kind: kindUint, size: 4},
	"u64":          {kind: kindUint, size: 8},
	"u128":         {kind: kindUint, size: 16},
	"AccountId":    {kind: kindAccount},
	"AccountId32":  {kind: kindAccount},
	"H256":         {kind: kindHash},
	"Hash":         {kind: kindHash},
	"Bytes":        {kind: kindBytes},
	"Era":          {kind: kindEra},
	"ExtrinsicEra": {kind: kindEra},
	"Call":         {kind: kindCall},
	"RuntimeCall":  {kind: kindCall},
	"MultiAddress": {kind: kindAddress},
}

type canonicalKey struct {
	fingerprint uint64
	expr        string
}

// canonical caches parsed type expressions per metadata fingerprint, so that
// all references to an expression within one registry share a single node.
var canonical = struct {
	sync.Mutex
	types map[canonicalKey]*typeNode
}{
	types: make(map[canonicalKey]*typeNode),
}

func resetCanonical() {
	canonical.Lock()
	defer canonical.Unlock()
	canonical.types = make(map[canonicalKey]*typeNode)
}

func canonicalType(fingerprint uint64, expr string) (*typeNode, error) {
	key := canonicalKey{fingerprint: fingerprint, expr: normalize(expr)}

	canonical.Lock()
	typ, ok := canonical.types[key]
	canonical.Unlock()
	if ok {
		return typ, nil
	}

	typ, err := parseType(key.expr)
	if err != nil {
		return nil, err
	}

	canonical.Lock()
	canonical.types[key] = typ
	canonical.Unlock()

	return typ, nil
}

func normalize(expr string) string {
	return strings.Join(strings.Fields(expr), "")
}

func parseType(expr string) (*typeNode, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty type expression")
	}

	typ, ok := builtins[expr]
	if ok {
		return typ, nil
	}

	switch {

	case strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")"):
		parts, err := splitTopLevel(expr[1 : len(expr)-1])
		if err != nil {
			return nil, fmt.Errorf("invalid tuple (%s): %w", expr, err)
		}
		items := make([]*typeNode, 0, len(parts))
		for _, part := range parts {
			item, err := parseType(part)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return &typeNode{kind: kindTuple, items: items}, nil

	case strings.HasPrefix(expr, "[") && strings.HasSuffix(expr, "]"):
		inner := expr[1 : len(expr)-1]
		sep := strings.LastIndex(inner, ";")
		if sep < 0 {
			return nil, fmt.Errorf("missing array length (%s)", expr)
		}
		elem, err := parseType(inner[:sep])
		if err != nil {
			return nil, err
		}
		length, err := strconv.Atoi(inner[sep+1:])
		if err != nil || length < 0 {
			return nil, fmt.Errorf("invalid array length (%s)", expr)
		}
		return &typeNode{kind: kindArray, elem: elem, size: length}, nil

	case strings.HasSuffix(expr, ">"):
		open := strings.Index(expr, "<")
		if open <= 0 {
			return nil, fmt.Errorf("invalid generic type (%s)", expr)
		}
		elem, err := parseType(expr[open+1 : len(expr)-1])
		if err != nil {
			return nil, err
		}
		switch expr[:open] {
		case "Compact":
			if elem.kind != kindUint && elem.kind != kindNamed {
				return nil, fmt.Errorf("compact of non-integer type (%s)", expr)
			}
			return &typeNode{kind: kindCompact, elem: elem}, nil
		case "Vec":
			if elem.isByte() {
				return builtins["Bytes"], nil
			}
			return &typeNode{kind: kindVec, elem: elem}, nil
		case "Option":
			return &typeNode{kind: kindOption, elem: elem}, nil
		case "Box":
			return elem, nil
		default:
			return nil, fmt.Errorf("unsupported generic type (%s)", expr)
		}
	}

	if !isIdentifier(expr) {
		return nil, fmt.Errorf("invalid type expression (%s)", expr)
	}

	return &typeNode{kind: kindNamed, name: expr}, nil
}

// splitTopLevel splits a comma-separated list of type expressions, ignoring
// commas nested within brackets.
func splitTopLevel(list string) ([]string, error) {
	var parts []string
	depth := 0
	start := 0
	for i, c := range list {
		switch c {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced brackets")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, list[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets")
	}
	last := list[start:]
	if last != "" {
		parts = append(parts, last)
	}
	return parts, nil
}

func isIdentifier(s string) bool {
	for i, c := range s {
		if c == '_' || unicode.IsLetter(c) || (i > 0 && unicode.IsDigit(c)) {
			continue
		}
		return false
	}
	return true
}
