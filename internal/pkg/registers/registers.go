// Package registers parses and validates AS3935 register maps.
//
// A register map arrives as a JSON object whose keys are register addresses
// written as "0x0A", "10" or 10 and whose values are the bytes to write, as
// integers or digit-only strings. Validate normalizes it into a Map or
// rejects it as a whole; there are no partial maps.
package registers

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/anicoll/as3935-integration/internal/pkg/jsondoc"
)

const maxByte = 0xFF

// Map is a normalized register map, address to value.
type Map map[uint8]uint8

// Entry is a single un-normalized register assignment.
type Entry struct {
	Key   IntOrString
	Value IntOrString
}

type rawEntry struct {
	key   any
	value any
}

// Validate normalizes a decoded register map. value may be a jsondoc.Object
// (validated in document order), a map[string]any or map[int]int (validated in
// ascending key order), an already normalized Map, or a []Entry. Validation
// stops at the first invalid entry. When two keys normalize to the same
// address the later one wins.
func Validate(value any) (Map, error) {
	switch v := value.(type) {
	case jsondoc.Object:
		entries := make([]rawEntry, 0, len(v))
		for _, m := range v {
			entries = append(entries, rawEntry{key: m.Key, value: m.Value})
		}
		return validate(entries)
	case map[string]any:
		keys := lo.Keys(v)
		slices.Sort(keys)
		entries := make([]rawEntry, 0, len(v))
		for _, k := range keys {
			entries = append(entries, rawEntry{key: k, value: v[k]})
		}
		return validate(entries)
	case map[int]int:
		keys := lo.Keys(v)
		slices.Sort(keys)
		entries := make([]rawEntry, 0, len(v))
		for _, k := range keys {
			entries = append(entries, rawEntry{key: k, value: v[k]})
		}
		return validate(entries)
	case Map:
		return maps.Clone(v), nil
	case []Entry:
		return ValidateEntries(v)
	}
	return nil, fmt.Errorf("%w: got %T", ErrInvalidMapShape, value)
}

// ValidateEntries validates typed entries in slice order.
func ValidateEntries(entries []Entry) (Map, error) {
	raw := make([]rawEntry, 0, len(entries))
	for _, e := range entries {
		raw = append(raw, rawEntry{key: e.Key, value: e.Value})
	}
	return validate(raw)
}

func validate(entries []rawEntry) (Map, error) {
	out := make(Map, len(entries))
	for _, e := range entries {
		addr, err := ParseAnyKey(e.key)
		if err != nil {
			return nil, err
		}
		if addr < 0 || addr > maxByte {
			return nil, fmt.Errorf("%w: %d", ErrAddressOutOfRange, addr)
		}
		val, err := coerceValue(e.key, e.value)
		if err != nil {
			return nil, err
		}
		if val < 0 || val > maxByte {
			return nil, fmt.Errorf("%w for key %s: %d", ErrValueOutOfRange, keyText(e.key), val)
		}
		out[uint8(addr)] = uint8(val)
	}
	return out, nil
}

func coerceValue(key, value any) (int, error) {
	invalid := fmt.Errorf("%w for key %s", ErrInvalidValueType, keyText(key))
	switch v := value.(type) {
	case IntOrString:
		if v.Kind == Int {
			return v.IntVal, nil
		}
		return coerceDigits(key, v.StrVal, invalid)
	case string:
		return coerceDigits(key, v, invalid)
	case json.Number:
		i, err := strconv.Atoi(v.String())
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w for key %s: %s", ErrValueOutOfRange, keyText(key), v)
		}
		if err != nil {
			return 0, invalid
		}
		return i, nil
	}
	if i, ok := asInt(value); ok {
		return i, nil
	}
	return 0, invalid
}

func coerceDigits(key any, s string, invalid error) (int, error) {
	if !isDigits(s) {
		return 0, invalid
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w for key %s: %s", ErrValueOutOfRange, keyText(key), s)
	}
	return i, nil
}

func keyText(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case IntOrString:
		if k.Kind == String {
			return k.StrVal
		}
		return strconv.Itoa(k.IntVal)
	}
	return fmt.Sprint(key)
}

// Addresses returns the map's addresses in ascending order.
func (m Map) Addresses() []uint8 {
	addrs := lo.Keys(m)
	slices.Sort(addrs)
	return addrs
}

// MarshalJSON writes the map as the device expects it: {"0x01": 10, ...}.
func (m Map) MarshalJSON() ([]byte, error) {
	out := make(map[string]uint8, len(m))
	for addr, val := range m {
		out[fmt.Sprintf("0x%02x", addr)] = val
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes and validates a register map document.
func (m *Map) UnmarshalJSON(data []byte) error {
	doc, err := jsondoc.Decode(data)
	if err != nil {
		return err
	}
	out, err := Validate(doc)
	if err != nil {
		return err
	}
	*m = out
	return nil
}
