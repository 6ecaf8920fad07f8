// Package jsondoc decodes raw JSON text into a generic value tree, keeping
// object members in document order. It checks syntax only.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrInvalidJSON = errors.New("jsondoc: invalid JSON")

// maxDepth matches the nesting limit of encoding/json.
const maxDepth = 10000

// Member is one name/value pair of a JSON object.
type Member struct {
	Key   string
	Value any
}

// Object is a decoded JSON object. Members keep their document order. A
// repeated name keeps its first position and takes the last value.
type Object []Member

// Get returns the value of the last member named key.
func (o Object) Get(key string) (any, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}
	return nil, false
}

// Map flattens the object into a map, nested objects included.
func (o Object) Map() map[string]any {
	out := make(map[string]any, len(o))
	for _, m := range o {
		out[m.Key] = plain(m.Value)
	}
	return out
}

func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func plain(v any) any {
	switch t := v.(type) {
	case Object:
		return t.Map()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	}
	return v
}

// DecodeString is Decode for text input.
func DecodeString(s string) (any, error) {
	return Decode([]byte(s))
}

// Decode parses exactly one JSON value. Objects become Object, arrays []any,
// numbers json.Number; strings, booleans and null decode as usual.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return nil, wrap(err, dec)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("extra data")
		}
		return nil, wrap(err, dec)
	}
	return v, nil
}

// decodeValue reads one value nested inside depth containers.
func decodeValue(dec *json.Decoder, depth int) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		if (t == '{' || t == '[') && depth >= maxDepth {
			return nil, fmt.Errorf("exceeded max depth %d", maxDepth)
		}
		switch t {
		case '{':
			return decodeObject(dec, depth+1)
		case '[':
			return decodeArray(dec, depth+1)
		}
		return nil, fmt.Errorf("unexpected %q", rune(t))
	}
	return tok, nil
}

func decodeObject(dec *json.Decoder, depth int) (Object, error) {
	obj := Object{}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}
		val, err := decodeValue(dec, depth)
		if err != nil {
			return nil, err
		}
		if i, ok := index[key]; ok {
			obj[i].Value = val
			continue
		}
		index[key] = len(obj)
		obj = append(obj, Member{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder, depth int) ([]any, error) {
	arr := []any{}
	for dec.More() {
		val, err := decodeValue(dec, depth)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

func wrap(err error, dec *json.Decoder) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: unexpected end of input at offset %d", ErrInvalidJSON, dec.InputOffset())
	}
	var serr *json.SyntaxError
	if errors.As(err, &serr) {
		return fmt.Errorf("%w: %s (offset %d)", ErrInvalidJSON, serr.Error(), serr.Offset)
	}
	return fmt.Errorf("%w: %s (offset %d)", ErrInvalidJSON, err.Error(), dec.InputOffset())
}
