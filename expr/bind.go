package expr

import (
	"fmt"

	"github.com/nasdf/forma/value"
)

// VariableReference identifies a resolved variable: either an object in the
// design or a built-in variable provided by the host.
type VariableReference struct {
	object  uint64
	builtin string
}

// ObjectRef returns a reference to the object with the given identity.
func ObjectRef(id uint64) VariableReference {
	return VariableReference{object: id}
}

// BuiltinRef returns a reference to the named built-in variable.
func BuiltinRef(name string) VariableReference {
	return VariableReference{builtin: name}
}

// Object returns the referenced object identity. The bool result is false
// for built-in references.
func (r VariableReference) Object() (uint64, bool) {
	if r.builtin != "" {
		return 0, false
	}
	return r.object, true
}

// Builtin returns the referenced built-in name. The bool result is false for
// object references.
func (r VariableReference) Builtin() (string, bool) {
	if r.builtin == "" {
		return "", false
	}
	return r.builtin, true
}

func (r VariableReference) String() string {
	if r.builtin != "" {
		return "builtin(" + r.builtin + ")"
	}
	return fmt.Sprintf("object(%d)", r.object)
}

// UnknownVariableError is reported when a variable name has no reference.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %s", e.Name)
}

// UnknownFunctionError is reported when a function name has no signature.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %s", e.Name)
}

// Bind resolves every variable and function reference of an unbound
// expression. Variables resolve through the given name map; function calls
// are validated against the signatures of the given function map.
func Bind(expr UnboundExpression, variables map[string]VariableReference, functions map[string]*Function) (BoundExpression, error) {
	switch e := expr.(type) {
	case *Value[string]:
		return &Value[VariableReference]{Literal: e.Literal}, nil

	case *Variable[string]:
		ref, ok := variables[e.Ref]
		if !ok {
			return nil, &UnknownVariableError{Name: e.Ref}
		}
		return &Variable[VariableReference]{Ref: ref}, nil

	case *Unary[string]:
		operand, err := Bind(e.Operand, variables, functions)
		if err != nil {
			return nil, err
		}
		return &Unary[VariableReference]{Op: e.Op, Operand: operand}, nil

	case *Binary[string]:
		left, err := Bind(e.Left, variables, functions)
		if err != nil {
			return nil, err
		}
		right, err := Bind(e.Right, variables, functions)
		if err != nil {
			return nil, err
		}
		return &Binary[VariableReference]{Op: e.Op, Left: left, Right: right}, nil

	case *Call[string]:
		fn, ok := functions[e.Name]
		if !ok {
			return nil, &UnknownFunctionError{Name: e.Name}
		}
		args := make([]BoundExpression, len(e.Args))
		types := make([]typeHint, len(e.Args))
		for i, arg := range e.Args {
			bound, err := Bind(arg, variables, functions)
			if err != nil {
				return nil, err
			}
			args[i] = bound
			types[i] = staticType(arg)
		}
		if err := validateHints(fn, types); err != nil {
			return nil, err
		}
		return &Call[VariableReference]{Name: e.Name, Args: args}, nil

	default:
		panic("expr: unknown expression node")
	}
}

// typeHint is the statically known type of an argument expression. Variable
// references and operator results have no static type and match any
// signature.
type typeHint struct {
	typ   value.Type
	known bool
}

func staticType(expr UnboundExpression) typeHint {
	if v, ok := expr.(*Value[string]); ok {
		return typeHint{typ: v.Literal.ValueType(), known: true}
	}
	return typeHint{}
}

func validateHints(fn *Function, hints []typeHint) error {
	s := fn.Signature
	if len(hints) < len(s.Positional) || (s.Variadic == nil && len(hints) > len(s.Positional)) {
		return &InvalidArityError{Function: fn.Name, Expected: len(s.Positional), Got: len(hints)}
	}
	var mismatched []Mismatch
	for i, hint := range hints {
		if !hint.known {
			continue
		}
		if !s.argumentAt(i).Type.Matches(hint.typ) {
			mismatched = append(mismatched, Mismatch{Index: i, Expected: s.argumentAt(i).Type, Got: hint.typ})
		}
	}
	if len(mismatched) > 0 {
		return &TypeMismatchError{Function: fn.Name, Mismatches: mismatched}
	}
	return nil
}
