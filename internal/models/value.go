package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return "unknown"
}

// Value is an arbitrary JSON document: null, bool, number, string, list or map.
// Map keys keep their insertion order. The zero Value is null.
type Value struct {
	kind   Kind
	b      bool
	num    json.Number
	str    string
	items  []Value
	keys   []string
	fields map[string]Value
}

// Field is a single key/value pair of a map Value.
type Field struct {
	Key   string
	Value Value
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func List(items ...Value) Value {
	return Value{kind: KindList, items: append([]Value{}, items...)}
}

func Number(f float64) Value {
	return Value{kind: KindNumber, num: json.Number(strconv.FormatFloat(f, 'f', -1, 64))}
}

func Int(i int64) Value {
	return Value{kind: KindNumber, num: json.Number(strconv.FormatInt(i, 10))}
}

// Map builds a map Value from fields in order. Repeated keys keep their first
// position and their last value.
func Map(fields ...Field) Value {
	v := Value{kind: KindMap, fields: make(map[string]Value, len(fields))}
	for _, f := range fields {
		v.Set(f.Key, f.Value)
	}
	return v
}

// EmptyMap is the default payload for request and response bodies.
func EmptyMap() Value { return Map() }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) IsMap() bool { return v.kind == KindMap }

func (v Value) IsList() bool { return v.kind == KindList }

// Len returns the number of list items or map entries.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.items)
	case KindMap:
		return len(v.keys)
	}
	return 0
}

// Keys returns map keys in insertion order.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// Items returns the elements of a list.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return append([]Value(nil), v.items...)
}

// Get returns the value stored under key. ok is false for missing keys and non-map values.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	f, ok := v.fields[key]
	return f, ok
}

// Lookup is Get without the presence flag.
func (v Value) Lookup(key string) Value {
	f, _ := v.Get(key)
	return f
}

// Set stores key on a map Value, turning a null Value into an empty map first.
func (v *Value) Set(key string, val Value) {
	if v.kind == KindNull {
		*v = Value{kind: KindMap}
	}
	if v.kind != KindMap {
		return
	}
	if v.fields == nil {
		v.fields = make(map[string]Value)
	}
	if _, exists := v.fields[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.fields[key] = val
}

// Append adds an item to a list Value, turning a null Value into a list first.
func (v *Value) Append(val Value) {
	if v.kind == KindNull {
		*v = Value{kind: KindList}
	}
	if v.kind == KindList {
		v.items = append(v.items, val)
	}
}

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.num.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// AsInt narrows a number with no fractional part.
func (v Value) AsInt() (int64, bool) {
	f, ok := v.AsFloat()
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// Text returns the scalar as text: strings verbatim, numbers and booleans in
// their JSON spelling. Null, lists and maps have no text form.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindNumber:
		return v.num.String(), true
	case KindBool:
		return strconv.FormatBool(v.b), true
	}
	return "", false
}

// Truthy follows the loose truthiness webhook callers rely on: null, false,
// zero and the empty string are false; everything else is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		f, ok := v.AsFloat()
		return ok && f != 0 && !math.IsNaN(f)
	case KindString:
		return v.str != ""
	}
	return true
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// Time coerces a string date or a number of epoch milliseconds.
func (v Value) Time() (time.Time, error) {
	switch v.kind {
	case KindString:
		return ParseTime(v.str)
	case KindNumber:
		ms, ok := v.AsInt()
		if !ok {
			return time.Time{}, fmt.Errorf("invalid date %q", v.num)
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("cannot use %s as a date", v.kind)
}

// ParseTime accepts ISO-8601 timestamps and a few common date spellings.
// Values without a zone are read as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// StripNUL removes U+0000, which Postgres text and jsonb columns reject.
func StripNUL(s string) string {
	if !strings.ContainsRune(s, 0) {
		return s
	}
	return strings.ReplaceAll(s, "\x00", "")
}

// StripNUL returns a copy with U+0000 removed from every string and map key.
func (v Value) StripNUL() Value {
	switch v.kind {
	case KindString:
		return String(StripNUL(v.str))
	case KindList:
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			items[i] = item.StripNUL()
		}
		return Value{kind: KindList, items: items}
	case KindMap:
		m := Value{kind: KindMap, fields: make(map[string]Value, len(v.keys))}
		for _, k := range v.keys {
			m.Set(StripNUL(k), v.fields[k].StripNUL())
		}
		return m
	}
	return v
}

// Equal reports deep equality. Map key order is ignored.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		a, _ := v.AsFloat()
		b, _ := o.AsFloat()
		return a == b
	case KindString:
		return v.str == o.str
	case KindList:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.keys) != len(o.keys) {
			return false
		}
		for k, a := range v.fields {
			b, ok := o.fields[k]
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.num.String())
	case KindString:
		s, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(s)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := v.fields[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %d", v.kind)
	}
	return nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MaxDepth bounds the nesting of lists and maps ParseValue accepts.
const MaxDepth = 10000

var ErrTooDeep = fmt.Errorf("json nesting exceeds %d levels", MaxDepth)

// ParseValue decodes exactly one JSON document.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, errors.New("unexpected data after JSON value")
	}
	return v, nil
}

// ParseObject decodes a request body. Anything that is not a JSON object,
// malformed input included, yields an empty map.
func ParseObject(data []byte) Value {
	v, err := ParseValue(data)
	if err != nil || !v.IsMap() {
		return EmptyMap()
	}
	return v
}

// ValueOf converts any JSON-encodable Go value.
func ValueOf(x any) (Value, error) {
	if v, ok := x.(Value); ok {
		return v, nil
	}
	data, err := json.Marshal(x)
	if err != nil {
		return Value{}, err
	}
	return ParseValue(data)
}

func decodeValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Value{kind: KindNumber, num: t}, nil
	case string:
		return String(t), nil
	case json.Delim:
		if depth >= MaxDepth {
			return Value{}, ErrTooDeep
		}
		switch t {
		case '{':
			m := Value{kind: KindMap, fields: make(map[string]Value)}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := kt.(string)
				if !ok {
					return Value{}, fmt.Errorf("unexpected object key %v", kt)
				}
				child, err := decodeValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				m.Set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return m, nil
		case '[':
			l := Value{kind: KindList, items: []Value{}}
			for dec.More() {
				child, err := decodeValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				l.items = append(l.items, child)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return l, nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}
