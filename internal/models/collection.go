package models

import (
	"bytes"
	"encoding/json"
)

// DecodeCollection normalises a backend collection body to its records. The
// body may be a bare array or an object carrying the array under one of
// envelopeKeys ("data" when none given). Any other shape, including invalid
// JSON, yields an empty collection. Array elements that are not objects are
// dropped.
func DecodeCollection(body []byte, envelopeKeys ...string) []Record {
	if len(envelopeKeys) == 0 {
		envelopeKeys = []string{"data"}
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []Record{}
	}

	var items []json.RawMessage
	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &items); err != nil {
			return []Record{}
		}
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return []Record{}
		}
		for _, key := range envelopeKeys {
			raw, ok := envelope[key]
			if !ok {
				continue
			}
			if err := json.Unmarshal(raw, &items); err == nil {
				break
			}
			items = nil
		}
	default:
		return []Record{}
	}

	out := make([]Record, 0, len(items))
	for _, raw := range items {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil || rec == nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// DecodeObject reads a single-record body, unwrapping a {"data": {...}}
// envelope. ok is false when the body is not an object.
func DecodeObject(body []byte) (Record, bool) {
	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil || rec == nil {
		return nil, false
	}
	if inner, ok := rec["data"].(map[string]any); ok && len(rec) <= 3 {
		return Record(inner), true
	}
	return rec, true
}
