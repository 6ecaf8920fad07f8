package registers

import (
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey_AllBytes(t *testing.T) {
	for n := 0; n <= 0xFF; n++ {
		hex, err := ParseKey(FromString(fmt.Sprintf("0x%x", n)))
		require.NoError(t, err)
		assert.Equal(t, n, hex)

		upper, err := ParseKey(FromString(fmt.Sprintf("0x%02X", n)))
		require.NoError(t, err)
		assert.Equal(t, n, upper)

		dec, err := ParseKey(FromString(strconv.Itoa(n)))
		require.NoError(t, err)
		assert.Equal(t, n, dec)
	}
}

func TestParseKey(t *testing.T) {
	tests := map[string]struct {
		key  IntOrString
		want int
	}{
		"hex":                   {key: FromString("0x0A"), want: 0x0A},
		"hex upper digits":      {key: FromString("0xFF"), want: 0xFF},
		"decimal":               {key: FromString("10"), want: 10},
		"leading zeros":         {key: FromString("007"), want: 7},
		"surrounding space":     {key: FromString("  0x0a\n"), want: 10},
		"int passthrough":       {key: FromInt(5), want: 5},
		"int not range checked": {key: FromInt(300), want: 300},
		"negative int":          {key: FromInt(-1), want: -1},
		"hex above a byte":      {key: FromString("0x123"), want: 0x123},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseKey(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKey_InvalidFormat(t *testing.T) {
	for _, raw := range []string{"", "   ", "x12", "0x", "0X1F", "0xZZ", "-1", "+1", "1.5", "1e3", "ten", "0x1 2", "0b101", "١٢"} {
		t.Run(strconv.Quote(raw), func(t *testing.T) {
			_, err := ParseKey(FromString(raw))
			require.ErrorIs(t, err, ErrInvalidKeyFormat)
			assert.Contains(t, err.Error(), strconv.Quote(raw))
		})
	}
}

func TestParseKey_Overflow(t *testing.T) {
	_, err := ParseKey(FromString("0xFFFFFFFFFFFFFFFFFFFF"))
	assert.ErrorIs(t, err, ErrAddressOutOfRange)

	_, err = ParseKey(FromString("99999999999999999999999"))
	assert.ErrorIs(t, err, ErrAddressOutOfRange)
}

func TestParseAnyKey(t *testing.T) {
	got, err := ParseAnyKey("0x10")
	require.NoError(t, err)
	assert.Equal(t, 16, got)

	got, err = ParseAnyKey(int64(3))
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = ParseAnyKey(uint(4))
	require.NoError(t, err)
	assert.Equal(t, 4, got)

	got, err = ParseAnyKey(uint64(math.MaxUint64))
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, got, "oversized keys saturate and fail the address range check")

	for _, key := range []any{nil, true, 1.5, []any{}, struct{}{}} {
		_, err := ParseAnyKey(key)
		assert.ErrorIs(t, err, ErrInvalidKeyFormat, "key %v", key)
	}
}

func TestIntOrString_JSON(t *testing.T) {
	var v IntOrString
	require.NoError(t, v.UnmarshalJSON([]byte(`"0x01"`)))
	assert.Equal(t, FromString("0x01"), v)

	require.NoError(t, v.UnmarshalJSON([]byte(`42`)))
	assert.Equal(t, FromInt(42), v)

	assert.Error(t, v.UnmarshalJSON([]byte(`4.2`)))
	assert.Error(t, v.UnmarshalJSON([]byte(`true`)))

	b, err := FromString("0x01").MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"0x01"`, string(b))

	b, err = FromInt(7).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `7`, string(b))
}
