package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// Lookup returns the value at a dotted key such as "project.urls.Homepage".
func (s *Settings) Lookup(key string) (any, bool) {
	if s == nil || len(s.data) == 0 || key == "" {
		return nil, false
	}
	x := jp.R()
	for _, segment := range strings.Split(key, ".") {
		x = x.C(segment)
	}
	v := x.First(s.data)
	return v, v != nil
}

// String returns the string at key. Numbers are formatted so that a version
// written as 1.0 in YAML still reads as "1.0".
func (s *Settings) String(key string) (string, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case int, int64, float64, bool:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}

// Bool returns the boolean at key.
func (s *Settings) Bool(key string) (bool, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Int returns the integer at key.
func (s *Settings) Int(key string) (int, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t == float64(int(t)) {
			return int(t), true
		}
	}
	return 0, false
}

// StringSlice returns the list of strings at key. Non-string items are skipped.
func (s *Settings) StringSlice(key string) ([]string, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out, true
}

// StringMap returns the table at key with string values. Non-string values are skipped.
func (s *Settings) StringMap(key string) (map[string]string, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return nil, false
	}
	table, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(table))
	for k, item := range table {
		if str, ok := item.(string); ok {
			out[k] = str
		}
	}
	return out, true
}

// Keys lists the keys of the table at key in sorted order.
func (s *Settings) Keys(key string) []string {
	v, ok := s.Lookup(key)
	if !ok {
		return nil
	}
	table, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tool returns the value at key below the docwiki tool table.
func (s *Settings) Tool(key string) (any, bool) {
	return s.Lookup(ToolSection + "." + key)
}

func toolKey(section, key string) string {
	if section == "" {
		return ToolSection + "." + key
	}
	return ToolSection + "." + section + "." + key
}
