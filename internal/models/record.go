package models

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Record is one loosely typed JSON object as returned by the backend API.
type Record map[string]any

// lookup resolves a key, descending into nested objects for dotted keys
// such as "coordenadas.lat".
func (r Record) lookup(key string) (any, bool) {
	var cur any = map[string]any(r)
	for _, part := range strings.Split(key, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			if rec, isRec := cur.(Record); isRec {
				obj = rec
			} else {
				return nil, false
			}
		}
		cur, ok = obj[part]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// String returns the first non-empty string found under keys. Numbers are
// formatted without exponent so numeric ids survive.
func (r Record) String(keys ...string) string {
	for _, key := range keys {
		v, ok := r.lookup(key)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case json.Number:
			return t.String()
		}
	}
	return ""
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads a number or a numeric string. Strings with trailing
// text ("12.5 kWh") yield their leading number.
func ParseNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		s := strings.TrimSpace(t)
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			m := leadingNumber.FindString(s)
			if m == "" {
				return 0, false
			}
			if n, err = strconv.ParseFloat(m, 64); err != nil {
				return 0, false
			}
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Number returns the first non-zero number found under keys, or 0.
func (r Record) Number(keys ...string) float64 {
	for _, key := range keys {
		v, ok := r.lookup(key)
		if !ok {
			continue
		}
		if f, ok := ParseNumber(v); ok && f != 0 {
			return f
		}
	}
	return 0
}

// Bool returns the first boolean-like value found under keys, nil when none.
func (r Record) Bool(keys ...string) *bool {
	for _, key := range keys {
		v, ok := r.lookup(key)
		if !ok {
			continue
		}
		var b bool
		switch t := v.(type) {
		case bool:
			b = t
		case float64:
			b = t != 0
		case json.Number:
			f, err := t.Float64()
			if err != nil {
				continue
			}
			b = f != 0
		case string:
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "true", "1", "si", "sí", "yes":
				b = true
			case "false", "0", "no":
				b = false
			default:
				continue
			}
		default:
			continue
		}
		return &b
	}
	return nil
}

// Time returns the first parseable timestamp found under keys. Zone-less
// strings are read in loc.
func (r Record) Time(loc *time.Location, keys ...string) time.Time {
	for _, key := range keys {
		v, ok := r.lookup(key)
		if !ok {
			continue
		}
		if t, ok := ParseTime(v, loc); ok {
			return t
		}
	}
	return time.Time{}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime reads ISO-8601 style strings and epoch milliseconds.
func ParseTime(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
				return ts, true
			}
		}
	case float64, json.Number:
		ms, ok := ParseNumber(t)
		if ok && ms > 0 {
			return time.UnixMilli(int64(ms)), true
		}
	}
	return time.Time{}, false
}
