// Package value provides the tagged variant type stored in object attributes.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// NotComparableError is returned when two values have no defined ordering.
type NotComparableError struct {
	Lhs Type
	Rhs Type
}

func (e *NotComparableError) Error() string {
	return fmt.Sprintf("values of type %s and %s are not comparable", e.Lhs, e.Rhs)
}

// ConversionError is returned when a value cannot be converted to the requested type.
type ConversionError struct {
	From Type
	To   Type
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert value of type %s to %s", e.From, e.To)
}

// Variant is a tagged value: an atom or a homogeneous array of atoms.
//
// The zero Variant is the int value 0.
type Variant struct {
	typ Type
	val any
}

// Int returns a variant holding the given int.
func Int(v int64) Variant {
	return Variant{typ: TypeInt, val: v}
}

// Double returns a variant holding the given double.
func Double(v float64) Variant {
	return Variant{typ: TypeDouble, val: v}
}

// Bool returns a variant holding the given bool.
func Bool(v bool) Variant {
	return Variant{typ: TypeBool, val: v}
}

// String returns a variant holding the given string.
func String(v string) Variant {
	return Variant{typ: TypeString, val: v}
}

// PointValue returns a variant holding the given point.
func PointValue(v Point) Variant {
	return Variant{typ: TypePoint, val: v}
}

// IntArray returns a variant holding a copy of the given int slice.
func IntArray(v []int64) Variant {
	return Variant{typ: TypeIntArray, val: append([]int64(nil), v...)}
}

// DoubleArray returns a variant holding a copy of the given double slice.
func DoubleArray(v []float64) Variant {
	return Variant{typ: TypeDoubleArray, val: append([]float64(nil), v...)}
}

// BoolArray returns a variant holding a copy of the given bool slice.
func BoolArray(v []bool) Variant {
	return Variant{typ: TypeBoolArray, val: append([]bool(nil), v...)}
}

// StringArray returns a variant holding a copy of the given string slice.
func StringArray(v []string) Variant {
	return Variant{typ: TypeStringArray, val: append([]string(nil), v...)}
}

// PointArray returns a variant holding a copy of the given point slice.
func PointArray(v []Point) Variant {
	return Variant{typ: TypePointArray, val: append([]Point(nil), v...)}
}

// ValueType returns the type tag of the variant.
func (v Variant) ValueType() Type {
	return v.typ
}

// IsArray returns true if the variant holds an array.
func (v Variant) IsArray() bool {
	return v.typ.IsArray()
}

// Raw returns the underlying Go value.
func (v Variant) Raw() any {
	if v.val == nil {
		return int64(0)
	}
	return v.val
}

func (v Variant) intVal() int64 {
	if v.val == nil {
		return 0
	}
	return v.val.(int64)
}

// ToInt converts the value to an int.
func (v Variant) ToInt() (int64, error) {
	switch v.typ {
	case TypeInt:
		return v.intVal(), nil
	case TypeDouble:
		return int64(v.val.(float64)), nil
	case TypeString:
		i, err := strconv.ParseInt(strings.TrimSpace(v.val.(string)), 10, 64)
		if err != nil {
			return 0, &ConversionError{From: v.typ, To: TypeInt}
		}
		return i, nil
	default:
		return 0, &ConversionError{From: v.typ, To: TypeInt}
	}
}

// ToDouble converts the value to a double.
func (v Variant) ToDouble() (float64, error) {
	switch v.typ {
	case TypeInt:
		return float64(v.intVal()), nil
	case TypeDouble:
		return v.val.(float64), nil
	case TypeString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.val.(string)), 64)
		if err != nil {
			return 0, &ConversionError{From: v.typ, To: TypeDouble}
		}
		return f, nil
	default:
		return 0, &ConversionError{From: v.typ, To: TypeDouble}
	}
}

// ToBool converts the value to a bool. Only bools and the strings
// "true" and "false" convert.
func (v Variant) ToBool() (bool, error) {
	switch v.typ {
	case TypeBool:
		return v.val.(bool), nil
	case TypeString:
		switch strings.TrimSpace(v.val.(string)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return false, &ConversionError{From: v.typ, To: TypeBool}
	default:
		return false, &ConversionError{From: v.typ, To: TypeBool}
	}
}

// ToPoint converts the value to a point.
func (v Variant) ToPoint() (Point, error) {
	switch v.typ {
	case TypePoint:
		return v.val.(Point), nil
	case TypeString:
		p, err := ParsePoint(v.val.(string))
		if err != nil {
			return Point{}, &ConversionError{From: v.typ, To: TypePoint}
		}
		return p, nil
	default:
		return Point{}, &ConversionError{From: v.typ, To: TypePoint}
	}
}

// ToString converts the value to its textual form. Every atom converts;
// arrays do not.
func (v Variant) ToString() (string, error) {
	switch v.typ {
	case TypeInt:
		return strconv.FormatInt(v.intVal(), 10), nil
	case TypeDouble:
		return strconv.FormatFloat(v.val.(float64), 'g', -1, 64), nil
	case TypeBool:
		return strconv.FormatBool(v.val.(bool)), nil
	case TypeString:
		return v.val.(string), nil
	case TypePoint:
		return v.val.(Point).String(), nil
	default:
		return "", &ConversionError{From: v.typ, To: TypeString}
	}
}

// Convert converts the value to the given type.
func (v Variant) Convert(to Type) (Variant, error) {
	switch to {
	case TypeInt:
		i, err := v.ToInt()
		if err != nil {
			return Variant{}, err
		}
		return Int(i), nil
	case TypeDouble:
		f, err := v.ToDouble()
		if err != nil {
			return Variant{}, err
		}
		return Double(f), nil
	case TypeBool:
		b, err := v.ToBool()
		if err != nil {
			return Variant{}, err
		}
		return Bool(b), nil
	case TypeString:
		s, err := v.ToString()
		if err != nil {
			return Variant{}, err
		}
		return String(s), nil
	case TypePoint:
		p, err := v.ToPoint()
		if err != nil {
			return Variant{}, err
		}
		return PointValue(p), nil
	default:
		if v.typ == to {
			return v, nil
		}
		return Variant{}, &ConversionError{From: v.typ, To: to}
	}
}

// IsConvertible returns true if a value of this type is declared convertible
// to the given type. Conversions from strings may still fail at runtime when
// the text does not parse.
func IsConvertible(from, to Type) bool {
	if from == to {
		return true
	}
	switch {
	case from.IsArray() || to.IsArray():
		return false
	case to == TypeString:
		return true
	case from == TypeString:
		return true
	case from.IsNumeric() && to.IsNumeric():
		return true
	default:
		return false
	}
}

// IsConvertible returns true if the value is declared convertible to the
// given type.
func (v Variant) IsConvertible(to Type) bool {
	return IsConvertible(v.typ, to)
}

// Equal returns true if the two values are equal. Int and double values are
// compared by double promotion.
func (v Variant) Equal(other Variant) bool {
	if v.typ.IsNumeric() && other.typ.IsNumeric() {
		lhs, _ := v.ToDouble()
		rhs, _ := other.ToDouble()
		return lhs == rhs
	}
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeIntArray:
		return equalSlices(v.val.([]int64), other.val.([]int64))
	case TypeDoubleArray:
		return equalSlices(v.val.([]float64), other.val.([]float64))
	case TypeBoolArray:
		return equalSlices(v.val.([]bool), other.val.([]bool))
	case TypeStringArray:
		return equalSlices(v.val.([]string), other.val.([]string))
	case TypePointArray:
		return equalSlices(v.val.([]Point), other.val.([]Point))
	default:
		return v.Raw() == other.Raw()
	}
}

func equalSlices[T comparable](lhs, rhs []T) bool {
	if len(lhs) != len(rhs) {
		return false
	}
	for i := range lhs {
		if lhs[i] != rhs[i] {
			return false
		}
	}
	return true
}

// Compare orders two values. It returns a negative number, zero, or a
// positive number when the receiver is less than, equal to, or greater than
// the other value. Numeric values of mixed kind compare by double promotion;
// points, arrays, and values of mismatched kind are not comparable.
func (v Variant) Compare(other Variant) (int, error) {
	if v.typ.IsNumeric() && other.typ.IsNumeric() {
		if v.typ == TypeInt && other.typ == TypeInt {
			return compareOrdered(v.intVal(), other.intVal()), nil
		}
		lhs, _ := v.ToDouble()
		rhs, _ := other.ToDouble()
		return compareOrdered(lhs, rhs), nil
	}
	if v.typ == TypeString && other.typ == TypeString {
		return strings.Compare(v.val.(string), other.val.(string)), nil
	}
	return 0, &NotComparableError{Lhs: v.typ, Rhs: other.typ}
}

func compareOrdered[T int64 | float64](lhs, rhs T) int {
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

// Hash returns a canonical string form usable as a map key. Equal numeric
// values of different kinds hash to the same key.
func (v Variant) Hash() string {
	switch v.typ {
	case TypeInt:
		return "n:" + strconv.FormatFloat(float64(v.intVal()), 'g', -1, 64)
	case TypeDouble:
		return "n:" + strconv.FormatFloat(v.val.(float64), 'g', -1, 64)
	case TypeBool:
		return "b:" + strconv.FormatBool(v.val.(bool))
	case TypeString:
		return "s:" + v.val.(string)
	case TypePoint:
		return "p:" + v.val.(Point).String()
	default:
		var sb strings.Builder
		sb.WriteString("a:")
		sb.WriteString(v.typ.String())
		sb.WriteString(":")
		for _, item := range v.Items() {
			sb.WriteString(item.Hash())
			sb.WriteString(";")
		}
		return sb.String()
	}
}

// Items returns the elements of an array value as variants.
//
// Calling Items on an atom is a programming error.
func (v Variant) Items() []Variant {
	switch v.typ {
	case TypeIntArray:
		return wrapSlice(v.val.([]int64), Int)
	case TypeDoubleArray:
		return wrapSlice(v.val.([]float64), Double)
	case TypeBoolArray:
		return wrapSlice(v.val.([]bool), Bool)
	case TypeStringArray:
		return wrapSlice(v.val.([]string), String)
	case TypePointArray:
		return wrapSlice(v.val.([]Point), PointValue)
	default:
		panic("value: items of non-array value")
	}
}

func wrapSlice[T any](items []T, wrap func(T) Variant) []Variant {
	result := make([]Variant, len(items))
	for i, item := range items {
		result[i] = wrap(item)
	}
	return result
}

// String returns the textual form of the variant.
func (v Variant) String() string {
	s, err := v.ToString()
	if err == nil {
		return s
	}
	items := v.Items()
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
