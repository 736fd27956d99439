package foreign

import (
	"fmt"

	"github.com/nasdf/forma/value"
)

// Value is the foreign form of a variant, tagged with its value kind.
type Value struct {
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value" yaml:"value"`
}

// FromVariant converts a variant into its foreign form. Points encode as
// two-element lists; arrays encode as lists of their items.
func FromVariant(v value.Variant) Value {
	return Value{
		Type:  v.ValueType().String(),
		Value: rawValue(v),
	}
}

func rawValue(v value.Variant) any {
	switch v.ValueType() {
	case value.TypePoint:
		p, _ := v.ToPoint()
		return []any{p.X, p.Y}
	case value.TypeInt, value.TypeDouble, value.TypeBool, value.TypeString:
		return v.Raw()
	default:
		items := v.Items()
		raw := make([]any, len(items))
		for i, item := range items {
			raw[i] = rawValue(item)
		}
		return raw
	}
}

// Variant converts the foreign form back into a variant.
func (f Value) Variant() (value.Variant, error) {
	switch f.Type {
	case "int":
		i, err := asInt(f.Value)
		if err != nil {
			return value.Variant{}, err
		}
		return value.Int(i), nil
	case "double":
		d, err := asDouble(f.Value)
		if err != nil {
			return value.Variant{}, err
		}
		return value.Double(d), nil
	case "bool":
		b, ok := f.Value.(bool)
		if !ok {
			return value.Variant{}, fmt.Errorf("invalid bool value %v", f.Value)
		}
		return value.Bool(b), nil
	case "string":
		s, ok := f.Value.(string)
		if !ok {
			return value.Variant{}, fmt.Errorf("invalid string value %v", f.Value)
		}
		return value.String(s), nil
	case "point":
		p, err := asPoint(f.Value)
		if err != nil {
			return value.Variant{}, err
		}
		return value.PointValue(p), nil
	case "array<int>":
		return collect(f.Value, asInt, value.IntArray)
	case "array<double>":
		return collect(f.Value, asDouble, value.DoubleArray)
	case "array<bool>":
		return collect(f.Value, asBool, value.BoolArray)
	case "array<string>":
		return collect(f.Value, asString, value.StringArray)
	case "array<point>":
		return collect(f.Value, asPoint, value.PointArray)
	default:
		return value.Variant{}, fmt.Errorf("invalid value type %q", f.Type)
	}
}

func collect[T any](raw any, convert func(any) (T, error), wrap func([]T) value.Variant) (value.Variant, error) {
	list, ok := raw.([]any)
	if !ok {
		return value.Variant{}, fmt.Errorf("invalid array value %v", raw)
	}
	items := make([]T, len(list))
	for i, item := range list {
		converted, err := convert(item)
		if err != nil {
			return value.Variant{}, err
		}
		items[i] = converted
	}
	return wrap(items), nil
}

func asInt(raw any) (int64, error) {
	switch t := raw.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	default:
		return 0, fmt.Errorf("invalid int value %v", raw)
	}
}

func asDouble(raw any) (float64, error) {
	switch t := raw.(type) {
	case float64:
		return t, nil
	case int64:
		return float64(t), nil
	case int:
		return float64(t), nil
	default:
		return 0, fmt.Errorf("invalid double value %v", raw)
	}
}

func asBool(raw any) (bool, error) {
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("invalid bool value %v", raw)
	}
	return b, nil
}

func asString(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("invalid string value %v", raw)
	}
	return s, nil
}

func asPoint(raw any) (value.Point, error) {
	list, ok := raw.([]any)
	if !ok || len(list) != 2 {
		return value.Point{}, fmt.Errorf("invalid point value %v", raw)
	}
	x, err := asDouble(list[0])
	if err != nil {
		return value.Point{}, err
	}
	y, err := asDouble(list[1])
	if err != nil {
		return value.Point{}, err
	}
	return value.Point{X: x, Y: y}, nil
}
