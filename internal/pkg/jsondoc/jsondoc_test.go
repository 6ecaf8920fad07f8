package jsondoc

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := map[string]struct {
		input string
		want  any
	}{
		"object keeps order": {
			input: `{"b": 1, "a": "x", "c": null}`,
			want:  Object{{Key: "b", Value: json.Number("1")}, {Key: "a", Value: "x"}, {Key: "c", Value: nil}},
		},
		"duplicate name takes last value": {
			input: `{"a": 1, "b": 0, "a": 2}`,
			want:  Object{{Key: "a", Value: json.Number("2")}, {Key: "b", Value: json.Number("0")}},
		},
		"nested": {
			input: `{"regs": {"0x01": 2}, "list": [true, 1.5, []]}`,
			want: Object{
				{Key: "regs", Value: Object{{Key: "0x01", Value: json.Number("2")}}},
				{Key: "list", Value: []any{true, json.Number("1.5"), []any{}}},
			},
		},
		"array":        {input: `[1, "2"]`, want: []any{json.Number("1"), "2"}},
		"scalar":       {input: ` 42 `, want: json.Number("42")},
		"string":       {input: `"hi"`, want: "hi"},
		"null":         {input: `null`, want: nil},
		"empty object": {input: `{}`, want: Object{}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := map[string]struct {
		input string
		msg   string
	}{
		"empty":           {input: ``, msg: "unexpected end of input"},
		"whitespace":      {input: "  \n", msg: "unexpected end of input"},
		"unterminated":    {input: `{"a": 1`, msg: "unexpected end of input"},
		"single quotes":   {input: `{'a': 1}`, msg: "invalid character"},
		"trailing comma":  {input: `[1,]`, msg: "invalid character"},
		"missing colon":   {input: `{"a" 1}`, msg: "invalid character"},
		"extra data":      {input: `{} {}`, msg: "extra data"},
		"bad literal":     {input: `tru`, msg: "offset"},
		"stray delimiter": {input: `}`, msg: "invalid character"},
		"too deep":        {input: strings.Repeat("[", maxDepth+1) + strings.Repeat("]", maxDepth+1), msg: "exceeded max depth"},
		"far too deep":    {input: strings.Repeat(`{"a":`, 1_000_000), msg: "exceeded max depth"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeString(tt.input)
			require.ErrorIs(t, err, ErrInvalidJSON)
			assert.Nil(t, got)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDecode_MaxDepth(t *testing.T) {
	v, err := DecodeString(strings.Repeat("[", maxDepth) + strings.Repeat("]", maxDepth))
	require.NoError(t, err)
	assert.IsType(t, []any{}, v)
}

func TestObject_GetAndMap(t *testing.T) {
	v, err := DecodeString(`{"a": 1, "b": {"c": [2]}, "a": 3}`)
	require.NoError(t, err)
	obj := v.(Object)

	a, ok := obj.Get("a")
	assert.True(t, ok)
	assert.Equal(t, json.Number("3"), a)

	_, ok = obj.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, map[string]any{
		"a": json.Number("3"),
		"b": map[string]any{"c": []any{json.Number("2")}},
	}, obj.Map())
}

func TestObject_MarshalJSON(t *testing.T) {
	v, err := DecodeString(`{"z": 1, "a": {"y": [true, null]}}`)
	require.NoError(t, err)

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":{"y":[true,null]}}`, string(b))
}
