// Package alias maps message addresses to display names.
package alias

import (
	"regexp"
	"sort"

	"github.com/wesm/smsbackup/internal/address"
)

// pairRe matches "address=name" with exactly one '='.
var pairRe = regexp.MustCompile(`^([^=]+)=([^=]+)$`)

// Map holds display names keyed by address.Key. A Map is read-only once
// built; the zero value is an empty map.
type Map map[string]string

// Parse builds a Map from "address=name" pairs as given on the command line.
// Phone keys are truncated, email keys are kept byte-for-byte. A later pair
// for the same key overwrites an earlier one.
func Parse(pairs []string) (Map, error) {
	m := make(Map, len(pairs))
	for _, p := range pairs {
		match := pairRe.FindStringSubmatch(p)
		if match == nil {
			return nil, &address.ConfigError{
				Option: "--alias",
				Value:  p,
				Reason: "expected ADDRESS=NAME",
			}
		}
		if err := m.add("--alias", match[1], match[2]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// FromTable builds a Map from a config file [aliases] table.
// Keys are applied in sorted order so the result does not depend on map
// iteration.
func FromTable(table map[string]string) (Map, error) {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := make(Map, len(table))
	for _, k := range keys {
		if k == "" || table[k] == "" {
			return nil, &address.ConfigError{
				Option: "[aliases]",
				Value:  k,
				Reason: "address and name must both be non-empty",
			}
		}
		if err := m.add("[aliases]", k, table[k]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m Map) add(option, key, name string) error {
	if !address.IsEmail(key) && !address.IsValidPhone(key) {
		return &address.ConfigError{
			Option: option,
			Value:  key,
			Reason: "alias address is neither an email nor a valid phone number",
		}
	}
	m[address.Key(key)] = name
	return nil
}

// Merge returns a new Map with the entries of m overridden by those of other.
func (m Map) Merge(other Map) Map {
	out := make(Map, len(m)+len(other))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Resolve returns the display name for key, or fallback(raw) when no alias
// exists.
func (m Map) Resolve(key string, fallback func(string) string, raw string) string {
	if name, ok := m[key]; ok {
		return name
	}
	return fallback(raw)
}

// Len returns the number of aliases.
func (m Map) Len() int { return len(m) }

// Names returns every display name in the map.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for _, v := range m {
		names = append(names, v)
	}
	sort.Strings(names)
	return names
}
