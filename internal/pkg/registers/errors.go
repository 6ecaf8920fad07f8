package registers

import "errors"

// Use errors.Is() to check for these in calling code; messages carry the
// offending key or value.
var (
	// ErrInvalidKeyFormat is returned when a key is neither 0x-prefixed hex nor decimal.
	ErrInvalidKeyFormat = errors.New("registers: invalid register key")

	// ErrInvalidMapShape is returned when the input is not a key-value mapping.
	ErrInvalidMapShape = errors.New("registers: register map must be a JSON object")

	// ErrAddressOutOfRange is returned when a parsed address is outside 0-255.
	ErrAddressOutOfRange = errors.New("registers: register address out of range")

	// ErrInvalidValueType is returned when a value is not an integer or digit-only string.
	ErrInvalidValueType = errors.New("registers: register value must be integer 0-255")

	// ErrValueOutOfRange is returned when a value is outside 0-255.
	ErrValueOutOfRange = errors.New("registers: register value out of range 0-255")
)
