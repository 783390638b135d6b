package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Common errors
var (
	ErrMovieNotFound  = errors.New("movie not found")
	ErrInvalidMovieID = errors.New("invalid movie id")
)

// Record field names that the API relies on. Every other field is opaque.
const (
	FieldID      = "id"
	FieldWatched = "watched"
)

// Movie is one movie or show entry of the guide. Only "id" and "watched" carry
// meaning here; every field keeps its raw JSON value and its position, so a
// record is written back exactly as it was read apart from the fields set.
type Movie struct {
	keys   []string
	fields map[string]json.RawMessage
	null   bool
}

// Keys returns the field names in file order.
func (m Movie) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Get decodes a field value; numbers come back as json.Number. The second
// result is false when the field is absent or not valid JSON.
func (m Movie) Get(key string) (interface{}, bool) {
	raw, ok := m.fields[key]
	if !ok {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// Set stores value under key, appending the key if it is new.
func (m *Movie) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode field %s: %w", key, err)
	}
	m.setRaw(key, raw)
	return nil
}

func (m *Movie) setRaw(key string, raw json.RawMessage) {
	if m.fields == nil {
		m.fields = make(map[string]json.RawMessage)
	}
	if _, exists := m.fields[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.fields[key] = raw
	m.null = false
}

// ID returns the integer id of the record. The second result is false when the
// id is missing or not an integral number.
func (m Movie) ID() (int, bool) {
	v, ok := m.Get(FieldID)
	if !ok {
		return 0, false
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int(f), true
}

// HasID reports whether the record's id equals id.
func (m Movie) HasID(id int) bool {
	got, ok := m.ID()
	return ok && got == id
}

// Watched returns the watched flag; non-boolean values read as false.
func (m Movie) Watched() bool {
	v, _ := m.Get(FieldWatched)
	watched, _ := v.(bool)
	return watched
}

// SetWatched sets the watched flag.
func (m *Movie) SetWatched(watched bool) {
	raw := json.RawMessage("false")
	if watched {
		raw = json.RawMessage("true")
	}
	m.setRaw(FieldWatched, raw)
}

// MarshalJSON writes the fields in their original order.
func (m Movie) MarshalJSON() ([]byte, error) {
	if m.null {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(m.fields[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order and raw values.
func (m *Movie) UnmarshalJSON(data []byte) error {
	*m = Movie{}

	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		m.null = true
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("movie record must be a JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		m.setRaw(key, raw)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	if m.fields == nil {
		m.fields = make(map[string]json.RawMessage)
	}
	return nil
}

// MarkWatched sets the watched flag on the first movie with the given id and
// reports whether one was found. Later duplicates are left untouched.
func MarkWatched(movies []Movie, id int, watched bool) bool {
	for i := range movies {
		if movies[i].HasID(id) {
			movies[i].SetWatched(watched)
			return true
		}
	}
	return false
}
