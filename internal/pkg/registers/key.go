package registers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var hexKeyRe = regexp.MustCompile(`^0x[0-9a-fA-F]+$`)

// ParseKey parses a register key that can be an integer, a 0x-prefixed hex
// string or a decimal string. Integers are returned unchanged; range checking
// happens in Validate.
func ParseKey(key IntOrString) (int, error) {
	if key.Kind == Int {
		return key.IntVal, nil
	}
	s := strings.TrimSpace(key.StrVal)
	switch {
	case hexKeyRe.MatchString(s):
		return parseKeyInt(s[2:], 16)
	case isDigits(s):
		return parseKeyInt(s, 10)
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKeyFormat, key.StrVal)
}

// ParseAnyKey is ParseKey for keys coming out of a decoded document.
func ParseAnyKey(key any) (int, error) {
	k, ok := keyFromAny(key)
	if !ok {
		return 0, fmt.Errorf("%w: register keys must be string or int, got %v (%T)", ErrInvalidKeyFormat, key, key)
	}
	return ParseKey(k)
}

func keyFromAny(key any) (IntOrString, bool) {
	switch k := key.(type) {
	case IntOrString:
		return k, true
	case string:
		return FromString(k), true
	case json.Number:
		i, err := strconv.Atoi(k.String())
		if err != nil {
			return IntOrString{}, false
		}
		return FromInt(i), true
	}
	if i, ok := asInt(key); ok {
		return FromInt(i), true
	}
	return IntOrString{}, false
}

func parseKeyInt(digits string, base int) (int, error) {
	n, err := strconv.ParseInt(digits, base, 0)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %s", ErrAddressOutOfRange, digits)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKeyFormat, digits)
	}
	return int(n), nil
}

// isDigits reports whether s is non-empty and only ASCII decimal digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// asInt unwraps the Go integer kinds; bool is not one. Values that do not
// fit an int saturate so the range checks in Validate reject them.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return clampInt(int64(n)), true
	case int64:
		return clampInt(n), true
	case uint:
		return clampUint(uint64(n)), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return clampUint(uint64(n)), true
	case uint64:
		return clampUint(n), true
	case uintptr:
		return clampUint(uint64(n)), true
	}
	return 0, false
}

func clampInt(n int64) int {
	switch {
	case n > math.MaxInt:
		return math.MaxInt
	case n < math.MinInt:
		return math.MinInt
	}
	return int(n)
}

func clampUint(n uint64) int {
	if n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}
