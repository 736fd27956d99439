package expr

import (
	"fmt"
	"strings"

	"github.com/nasdf/forma/value"
)

// UnionType constrains the type of a function argument: any type, one
// concrete type, or a union of concrete types.
type UnionType struct {
	// Types is nil for the any type.
	Types []value.Type
}

// AnyType returns the union matching every value type.
func AnyType() UnionType {
	return UnionType{}
}

// ConcreteType returns the union matching exactly one value type.
func ConcreteType(t value.Type) UnionType {
	return UnionType{Types: []value.Type{t}}
}

// Union returns the union matching any of the given value types.
func Union(types ...value.Type) UnionType {
	return UnionType{Types: types}
}

// Matches returns true if a value of the given type satisfies the union.
// Convertibility between value types governs the match.
func (u UnionType) Matches(t value.Type) bool {
	if u.Types == nil {
		return true
	}
	for _, member := range u.Types {
		if value.IsConvertible(t, member) {
			return true
		}
	}
	return false
}

func (u UnionType) String() string {
	if u.Types == nil {
		return "any"
	}
	names := make([]string, len(u.Types))
	for i, t := range u.Types {
		names[i] = t.String()
	}
	return strings.Join(names, "|")
}

// Argument describes one function argument.
type Argument struct {
	Name string
	Type UnionType
}

// Signature describes the positional arguments, the optional variadic tail,
// and the return type of a function.
type Signature struct {
	Positional []Argument
	Variadic   *Argument
	Returns    value.Type
}

// InvalidArityError is reported when a call has the wrong number of arguments.
type InvalidArityError struct {
	Function string
	Expected int
	Got      int
}

func (e *InvalidArityError) Error() string {
	return fmt.Sprintf("function %s expects %d arguments, got %d", e.Function, e.Expected, e.Got)
}

// Mismatch describes one argument whose type does not satisfy the signature.
type Mismatch struct {
	Index    int
	Expected UnionType
	Got      value.Type
}

// TypeMismatchError is reported when call arguments do not satisfy the
// signature.
type TypeMismatchError struct {
	Function   string
	Mismatches []Mismatch
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("function %s called with mismatched argument types", e.Function)
}

// Indexes returns the positions of the mismatched arguments.
func (e *TypeMismatchError) Indexes() []int {
	indexes := make([]int, len(e.Mismatches))
	for i, m := range e.Mismatches {
		indexes[i] = m.Index
	}
	return indexes
}

// Validate checks the given argument types against the signature.
func (s Signature) Validate(types []value.Type) error {
	if len(types) < len(s.Positional) || (s.Variadic == nil && len(types) > len(s.Positional)) {
		return &InvalidArityError{Expected: len(s.Positional), Got: len(types)}
	}
	var mismatched []Mismatch
	for i, t := range types {
		arg := s.argumentAt(i)
		if !arg.Type.Matches(t) {
			mismatched = append(mismatched, Mismatch{Index: i, Expected: arg.Type, Got: t})
		}
	}
	if len(mismatched) > 0 {
		return &TypeMismatchError{Mismatches: mismatched}
	}
	return nil
}

func (s Signature) argumentAt(i int) Argument {
	if i < len(s.Positional) {
		return s.Positional[i]
	}
	return *s.Variadic
}

// Function is a host-supplied callable with its signature.
type Function struct {
	Name      string
	Signature Signature
	Apply     func(args []value.Variant) (value.Variant, error)
}

// numericType is the union accepted by the numeric function helpers.
var numericType = Union(value.TypeInt, value.TypeDouble)

// NumericFunction returns a function over doubles with the given arity,
// accepting int arguments by promotion.
func NumericFunction(name string, arity int, apply func(args []float64) float64) *Function {
	positional := make([]Argument, arity)
	for i := range positional {
		positional[i] = Argument{Name: fmt.Sprintf("arg%d", i), Type: numericType}
	}
	return &Function{
		Name: name,
		Signature: Signature{
			Positional: positional,
			Returns:    value.TypeDouble,
		},
		Apply: func(args []value.Variant) (value.Variant, error) {
			doubles := make([]float64, len(args))
			for i, arg := range args {
				d, err := arg.ToDouble()
				if err != nil {
					return value.Variant{}, err
				}
				doubles[i] = d
			}
			return value.Double(apply(doubles)), nil
		},
	}
}

// VariadicNumericFunction returns a function over any number of numeric
// arguments.
func VariadicNumericFunction(name string, apply func(args []float64) float64) *Function {
	fn := NumericFunction(name, 0, apply)
	fn.Signature.Variadic = &Argument{Name: "values", Type: numericType}
	return fn
}
