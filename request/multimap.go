// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// A Pair is one entry in a Multimap.
type Pair struct {
	Name  string
	Value string
}

// A Multimap is an ordered multi-map of names to values. Duplicate
// names are allowed and entries keep their insertion order.
//
// A Multimap is immutable: every method that changes the contents
// returns a new Multimap and leaves the receiver untouched. The zero
// value is an empty Multimap ready to use.
type Multimap struct {
	pairs []Pair
}

// NewMultimap returns a Multimap holding a copy of pairs, in order.
func NewMultimap(pairs ...Pair) Multimap {
	if len(pairs) == 0 {
		return Multimap{}
	}
	cp := make([]Pair, len(pairs))
	copy(cp, pairs)
	return Multimap{pairs: cp}
}

// FromValues converts url.Values into a Multimap. Because url.Values
// has no key order, names are sorted; the values under one name keep
// their order.
func FromValues(v url.Values) Multimap {
	return fromMap(v)
}

// FromHeader converts an http.Header into a Multimap. Names are sorted
// as in FromValues.
func FromHeader(h http.Header) Multimap {
	return fromMap(h)
}

func fromMap(m map[string][]string) Multimap {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	var pairs []Pair
	for _, name := range names {
		for _, value := range m[name] {
			pairs = append(pairs, Pair{name, value})
		}
	}
	return Multimap{pairs: pairs}
}

// Len returns the number of entries.
func (m Multimap) Len() int {
	return len(m.pairs)
}

// Pairs returns a copy of the entries in order.
func (m Multimap) Pairs() []Pair {
	return NewMultimap(m.pairs...).pairs
}

// Get returns the first value stored under name, or "" if there is
// none.
func (m Multimap) Get(name string) string {
	for _, p := range m.pairs {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

// Values returns all values stored under name, in order.
func (m Multimap) Values(name string) []string {
	var values []string
	for _, p := range m.pairs {
		if p.Name == name {
			values = append(values, p.Value)
		}
	}
	return values
}

// Has reports whether at least one entry is stored under name.
func (m Multimap) Has(name string) bool {
	for _, p := range m.pairs {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Add returns a new Multimap with one entry appended.
func (m Multimap) Add(name, value string) Multimap {
	return Multimap{pairs: append(m.pairs[:len(m.pairs):len(m.pairs)], Pair{name, value})}
}

// AddAll returns a new Multimap with every entry of other appended.
func (m Multimap) AddAll(other Multimap) Multimap {
	if len(other.pairs) == 0 {
		return m
	}
	return Multimap{pairs: append(m.pairs[:len(m.pairs):len(m.pairs)], other.pairs...)}
}

// Set returns a new Multimap in which every entry stored under name is
// removed and values are appended under name. Calling Set with no
// values removes name.
func (m Multimap) Set(name string, values ...string) Multimap {
	pairs := make([]Pair, 0, len(m.pairs)+len(values))
	for _, p := range m.pairs {
		if p.Name != name {
			pairs = append(pairs, p)
		}
	}
	for _, v := range values {
		pairs = append(pairs, Pair{name, v})
	}
	return Multimap{pairs: pairs}
}

// Header converts the Multimap to an http.Header. Names are used as
// given; callers wanting canonical header keys should add them in
// canonical form.
func (m Multimap) Header() http.Header {
	h := make(http.Header, len(m.pairs))
	for _, p := range m.pairs {
		h[p.Name] = append(h[p.Name], p.Value)
	}
	return h
}

// Encode encodes the Multimap in URL query form ("a=1&b=2&a=3"),
// keeping entry order.
func (m Multimap) Encode() string {
	var sb strings.Builder
	for i, p := range m.pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}
