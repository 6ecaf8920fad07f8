package registers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type Kind int

const (
	Int Kind = iota
	String
)

// IntOrString holds either an integer or a string, the two forms a register
// key or value may arrive in.
type IntOrString struct {
	Kind   Kind
	IntVal int
	StrVal string
}

func FromInt(i int) IntOrString {
	return IntOrString{Kind: Int, IntVal: i}
}

func FromString(s string) IntOrString {
	return IntOrString{Kind: String, StrVal: s}
}

func (v IntOrString) String() string {
	if v.Kind == String {
		return strconv.Quote(v.StrVal)
	}
	return strconv.Itoa(v.IntVal)
}

func (v IntOrString) MarshalJSON() ([]byte, error) {
	if v.Kind == String {
		return json.Marshal(v.StrVal)
	}
	return json.Marshal(v.IntVal)
}

// UnmarshalJSON accepts a JSON string or an integer literal.
func (v *IntOrString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FromString(s)
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("int or string expected, got %s", data)
	}
	i, err := strconv.Atoi(n.String())
	if err != nil {
		return fmt.Errorf("int or string expected, got %s", data)
	}
	*v = FromInt(i)
	return nil
}
