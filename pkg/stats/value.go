package stats

import "encoding/json"

// DataType is the type of data a stat holds.
type DataType int

const (
	DataTypeUndefined DataType = iota
	DataTypeNumber
	DataTypeString
)

func (t DataType) String() string {
	switch t {
	case DataTypeNumber:
		return "number"
	case DataTypeString:
		return "string"
	default:
		return "undefined"
	}
}

// Value is a single named statistic. Numbers and integers share one
// numeric representation; the integer accessor truncates.
type Value struct {
	name     string
	number   float64
	str      string
	dataType DataType
}

// NumberValue builds a numeric stat value.
func NumberValue(name string, v float64) Value {
	return Value{name: name, number: v, dataType: DataTypeNumber}
}

// StringValue builds a string stat value.
func StringValue(name, v string) Value {
	return Value{name: name, str: v, dataType: DataTypeString}
}

func (v Value) Name() string { return v.name }

func (v Value) DataType() DataType { return v.dataType }

// AsNumber returns the numeric data. Zero for non-numeric stats.
func (v Value) AsNumber() float64 { return v.number }

// AsInteger returns the numeric data truncated to an integer.
func (v Value) AsInteger() int64 { return int64(v.number) }

// AsString returns the string data. Empty for non-string stats.
func (v Value) AsString() string { return v.str }

type valueJSON struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Number *float64 `json:"number,omitempty"`
	String *string  `json:"string,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{Name: v.name, Type: v.dataType.String()}
	switch v.dataType {
	case DataTypeNumber:
		n := v.number
		out.Number = &n
	case DataTypeString:
		s := v.str
		out.String = &s
	}
	return json.Marshal(out)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	v.name = in.Name
	switch in.Type {
	case "number":
		v.dataType = DataTypeNumber
		if in.Number != nil {
			v.number = *in.Number
		}
	case "string":
		v.dataType = DataTypeString
		if in.String != nil {
			v.str = *in.String
		}
	default:
		v.dataType = DataTypeUndefined
	}
	return nil
}
