// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Density is a single keyword's share of a text, as a percentage.
type Density struct {
	Keyword string
	Percent float64
}

// KeywordDensity maps keywords to their density while keeping the order in
// which keywords were first set. It encodes as a JSON object.
type KeywordDensity struct {
	entries []Density
}

// Set stores the density for keyword. An existing keyword keeps its position
// and takes the new value.
func (kd *KeywordDensity) Set(keyword string, percent float64) {
	for i := range kd.entries {
		if kd.entries[i].Keyword == keyword {
			kd.entries[i].Percent = percent
			return
		}
	}
	kd.entries = append(kd.entries, Density{Keyword: keyword, Percent: percent})
}

// Get returns the density stored for keyword.
func (kd KeywordDensity) Get(keyword string) (float64, bool) {
	for _, e := range kd.entries {
		if e.Keyword == keyword {
			return e.Percent, true
		}
	}
	return 0, false
}

// Len returns the number of distinct keywords.
func (kd KeywordDensity) Len() int { return len(kd.entries) }

// Entries returns a copy of the entries in insertion order.
func (kd KeywordDensity) Entries() []Density {
	out := make([]Density, len(kd.entries))
	copy(out, kd.entries)
	return out
}

// Keywords returns the keys in insertion order.
func (kd KeywordDensity) Keywords() []string {
	out := make([]string, len(kd.entries))
	for i, e := range kd.entries {
		out[i] = e.Keyword
	}
	return out
}

// Ordered returns a copy whose entries follow keys. Entries not named in
// keys keep their relative order after the named ones.
func (kd KeywordDensity) Ordered(keys []string) KeywordDensity {
	var out KeywordDensity
	for _, k := range keys {
		if v, ok := kd.Get(k); ok {
			out.Set(k, v)
		}
	}
	for _, e := range kd.entries {
		out.Set(e.Keyword, e.Percent)
	}
	return out
}

// MarshalJSON encodes the densities as a JSON object in insertion order.
func (kd KeywordDensity) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range kd.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Keyword)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Percent)
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %w", e.Keyword, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the document.
// A JSON null decodes to an empty set.
func (kd *KeywordDensity) UnmarshalJSON(data []byte) error {
	kd.entries = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("keyword density: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("keyword density: expected string key, got %v", tok)
		}
		var percent float64
		if err := dec.Decode(&percent); err != nil {
			return fmt.Errorf("keyword density %q: %w", key, err)
		}
		kd.Set(key, percent)
	}

	_, err = dec.Token()
	return err
}
