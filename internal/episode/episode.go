// Package episode defines the episode record and the pure accessors used by
// filtering, sorting, export, and display.
//
// Source documents are loosely typed: any field may be missing, null, a
// number where a string was expected, or the other way around. Scalars decode
// into [Value], which keeps enough of the original JSON to answer "was it
// present", "was it a number", and "what does it look like as text" without
// ever failing the decode.
package episode

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
)

// Episode is one broadcast episode as it appears in a source document.
type Episode struct {
	Rank          Value             `json:"rank"`
	Title         Value             `json:"title"`
	Series        Value             `json:"series"`
	Era           Value             `json:"era"`
	BroadcastDate Value             `json:"broadcast_date"`
	Director      Value             `json:"director"`
	Writer        Value             `json:"writer"`
	Doctor        *Person           `json:"doctor,omitempty"`
	Companion     *Person           `json:"companion,omitempty"`
	Cast          []json.RawMessage `json:"cast,omitempty"`
}

// CastCount returns the number of cast entries (0 when absent).
func (e Episode) CastCount() int {
	return len(e.Cast)
}

// Person is the nested doctor or companion object. Doctors carry an
// incarnation, companions a character.
type Person struct {
	Actor       Value `json:"actor"`
	Incarnation Value `json:"incarnation"`
	Character   Value `json:"character"`
}

// UnmarshalJSON decodes a doctor or companion object. Values that are not
// objects (strings, arrays, numbers) decode as a Person with no actor.
func (p *Person) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*p = Person{}
		return nil
	}

	type plain Person
	var raw plain
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	*p = Person(raw)
	return nil
}

// Kind identifies the JSON type a Value was decoded from.
type Kind int

const (
	KindAbsent Kind = iota
	KindNull
	KindString
	KindNumber
	KindBool
	KindOther
)

// Value is a tolerant JSON scalar.
//
// The zero Value is absent. Decoding never fails for well-formed JSON;
// objects and arrays are kept as their compact text form with KindOther.
type Value struct {
	kind Kind
	text string
	num  float64
}

// String returns a Value holding s.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Number returns a Value holding n.
func Number(n float64) Value {
	return Value{kind: KindNumber, text: strconv.FormatFloat(n, 'f', -1, 64), num: n}
}

// Null returns an explicit JSON null.
func Null() Value {
	return Value{kind: KindNull}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		*v = Value{}
		return nil
	}

	switch trimmed[0] {
	case 'n':
		*v = Value{kind: KindNull}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = Value{kind: KindString, text: s}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = Value{kind: KindBool, text: strconv.FormatBool(b)}
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return err
		}
		*v = Value{kind: KindOther, text: buf.String()}
	default:
		// Out-of-range literals such as 1e999 decode to ±Inf and are
		// reported as non-finite by Float.
		n, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return err
		}
		*v = Value{kind: KindNumber, text: string(trimmed), num: n}
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Absent values marshal as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.text)
	case KindNumber, KindBool, KindOther:
		return []byte(v.text), nil
	default:
		return []byte("null"), nil
	}
}

// Kind reports which JSON type the value came from.
func (v Value) Kind() Kind { return v.kind }

// Present reports whether the field carried a non-null value.
func (v Value) Present() bool {
	return v.kind != KindAbsent && v.kind != KindNull
}

// Blank reports whether the field is absent, null, or the empty string.
func (v Value) Blank() bool {
	return !v.Present() || (v.kind == KindString && v.text == "")
}

// Text returns the value as text; absent and null values are "".
// Numbers keep their source spelling ("7", "2.5").
func (v Value) Text() string {
	if !v.Present() {
		return ""
	}
	return v.text
}

// Float returns the numeric value when the field is a finite JSON number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber || math.IsNaN(v.num) || math.IsInf(v.num, 0) {
		return 0, false
	}
	return v.num, true
}
