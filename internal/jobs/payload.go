package jobs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// wrapperKeys are the object members that may carry the posting list, in priority order.
var wrapperKeys = []string{"jobs", "results", "data", "items"}

// detailKeys may wrap a single posting returned by the detail endpoint.
var detailKeys = []string{"job", "data", "result"}

// Record is one posting as returned by the API.
type Record struct {
	Raw json.RawMessage
	// Fields is nil when the element is not a JSON object.
	Fields map[string]any
}

type member struct {
	key   string
	value json.RawMessage
}

// Payload is a decoded API response that remembers the order of its top-level members.
type Payload struct {
	raw     json.RawMessage
	array   []json.RawMessage
	members []member
	object  bool
}

func DecodePayload(data []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Payload{}, errors.New("empty payload")
	}

	switch trimmed[0] {
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return Payload{}, fmt.Errorf("decode array payload: %w", err)
		}
		if arr == nil {
			arr = []json.RawMessage{}
		}
		return Payload{raw: trimmed, array: arr}, nil
	case '{':
		members, err := decodeMembers(trimmed)
		if err != nil {
			return Payload{}, err
		}
		return Payload{raw: trimmed, members: members, object: true}, nil
	default:
		if !json.Valid(trimmed) {
			return Payload{}, errors.New("decode payload: invalid json")
		}
		return Payload{raw: trimmed}, nil
	}
}

func decodeMembers(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode object payload: %w", err)
	}
	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode object payload: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decode object payload: unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode member %q: %w", key, err)
		}
		members = append(members, member{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode object payload: %w", err)
	}
	return members, nil
}

func (p Payload) Raw() json.RawMessage {
	return p.raw
}

func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p.raw) == 0 {
		return []byte("null"), nil
	}
	return p.raw, nil
}

func (p Payload) member(key string) (json.RawMessage, bool) {
	for _, m := range p.members {
		if m.key == key {
			return m.value, true
		}
	}
	return nil, false
}

// Records locates the posting list. A bare array is used as is; an object yields its
// first wrapper member holding an array, else its first array-valued member. Anything
// else yields no records.
func (p Payload) Records() []Record {
	if p.array != nil {
		return toRecords(p.array)
	}
	if !p.object {
		return nil
	}
	for _, key := range wrapperKeys {
		if v, ok := p.member(key); ok && isKind(v, '[') {
			return decodeArray(v)
		}
	}
	for _, m := range p.members {
		if isKind(m.value, '[') {
			return decodeArray(m.value)
		}
	}
	return nil
}

// Unwrap returns the single posting of a detail response.
func (p Payload) Unwrap() Record {
	for _, key := range detailKeys {
		if v, ok := p.member(key); ok && isKind(v, '{') {
			return NewRecord(v)
		}
	}
	return NewRecord(p.raw)
}

func NewRecord(raw json.RawMessage) Record {
	rec := Record{Raw: raw}
	if !isKind(raw, '{') {
		return rec
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err == nil {
		rec.Fields = fields
	}
	return rec
}

func decodeArray(raw json.RawMessage) []Record {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil
	}
	return toRecords(arr)
}

func toRecords(arr []json.RawMessage) []Record {
	out := make([]Record, 0, len(arr))
	for _, raw := range arr {
		out = append(out, NewRecord(raw))
	}
	return out
}

func isKind(raw json.RawMessage, open byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == open
}
