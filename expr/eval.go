package expr

import (
	"errors"
	"fmt"
	"math"

	"github.com/nasdf/forma/value"
)

var (
	// ErrDivisionByZero is reported when a division or modulo divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrArithmeticOverflow is reported when integer arithmetic overflows.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
)

// FunctionError wraps a failure raised by a host-supplied function.
type FunctionError struct {
	Name string
	Err  error
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("function %s failed: %v", e.Name, e.Err)
}

func (e *FunctionError) Unwrap() error {
	return e.Err
}

// Variables maps resolved variable references to their current values.
type Variables map[VariableReference]value.Variant

// Evaluate computes the value of a bound expression. Arithmetic over two
// ints is checked 64-bit integer arithmetic; when either operand is a
// double, both are promoted and the operation computes in double.
func Evaluate(expr BoundExpression, variables Variables, functions map[string]*Function) (value.Variant, error) {
	switch e := expr.(type) {
	case *Value[VariableReference]:
		return e.Literal, nil

	case *Variable[VariableReference]:
		v, ok := variables[e.Ref]
		if !ok {
			return value.Variant{}, fmt.Errorf("no value for variable %s", e.Ref)
		}
		return v, nil

	case *Unary[VariableReference]:
		operand, err := Evaluate(e.Operand, variables, functions)
		if err != nil {
			return value.Variant{}, err
		}
		return applyUnary(e.Op, operand)

	case *Binary[VariableReference]:
		left, err := Evaluate(e.Left, variables, functions)
		if err != nil {
			return value.Variant{}, err
		}
		right, err := Evaluate(e.Right, variables, functions)
		if err != nil {
			return value.Variant{}, err
		}
		return applyBinary(e.Op, left, right)

	case *Call[VariableReference]:
		fn, ok := functions[e.Name]
		if !ok {
			return value.Variant{}, &UnknownFunctionError{Name: e.Name}
		}
		args := make([]value.Variant, len(e.Args))
		for i, arg := range e.Args {
			v, err := Evaluate(arg, variables, functions)
			if err != nil {
				return value.Variant{}, err
			}
			args[i] = v
		}
		result, err := fn.Apply(args)
		if err != nil {
			return value.Variant{}, &FunctionError{Name: e.Name, Err: err}
		}
		return result, nil

	default:
		panic("expr: unknown expression node")
	}
}

func applyUnary(op string, operand value.Variant) (value.Variant, error) {
	if op != "-" {
		panic("expr: unknown unary operator " + op)
	}
	switch operand.ValueType() {
	case value.TypeInt:
		i, _ := operand.ToInt()
		if i == math.MinInt64 {
			return value.Variant{}, ErrArithmeticOverflow
		}
		return value.Int(-i), nil
	case value.TypeDouble:
		f, _ := operand.ToDouble()
		return value.Double(-f), nil
	default:
		return value.Variant{}, fmt.Errorf("cannot negate value of type %s", operand.ValueType())
	}
}

func applyBinary(op string, left, right value.Variant) (value.Variant, error) {
	if !left.ValueType().IsNumeric() || !right.ValueType().IsNumeric() {
		return value.Variant{}, fmt.Errorf("operator %s requires numeric operands", op)
	}
	if left.ValueType() == value.TypeDouble || right.ValueType() == value.TypeDouble {
		lhs, _ := left.ToDouble()
		rhs, _ := right.ToDouble()
		return applyDouble(op, lhs, rhs)
	}
	lhs, _ := left.ToInt()
	rhs, _ := right.ToInt()
	return applyInt(op, lhs, rhs)
}

func applyDouble(op string, lhs, rhs float64) (value.Variant, error) {
	switch op {
	case "+":
		return value.Double(lhs + rhs), nil
	case "-":
		return value.Double(lhs - rhs), nil
	case "*":
		return value.Double(lhs * rhs), nil
	case "/":
		if rhs == 0 {
			return value.Variant{}, ErrDivisionByZero
		}
		return value.Double(lhs / rhs), nil
	case "%":
		if rhs == 0 {
			return value.Variant{}, ErrDivisionByZero
		}
		return value.Double(math.Mod(lhs, rhs)), nil
	default:
		panic("expr: unknown binary operator " + op)
	}
}

func applyInt(op string, lhs, rhs int64) (value.Variant, error) {
	switch op {
	case "+":
		result := lhs + rhs
		if (result > lhs) != (rhs > 0) {
			return value.Variant{}, ErrArithmeticOverflow
		}
		return value.Int(result), nil
	case "-":
		result := lhs - rhs
		if (result < lhs) != (rhs > 0) {
			return value.Variant{}, ErrArithmeticOverflow
		}
		return value.Int(result), nil
	case "*":
		if lhs != 0 && rhs != 0 {
			if (lhs == math.MinInt64 && rhs == -1) || (lhs == -1 && rhs == math.MinInt64) {
				return value.Variant{}, ErrArithmeticOverflow
			}
			result := lhs * rhs
			if result/rhs != lhs {
				return value.Variant{}, ErrArithmeticOverflow
			}
			return value.Int(result), nil
		}
		return value.Int(0), nil
	case "/":
		if rhs == 0 {
			return value.Variant{}, ErrDivisionByZero
		}
		if lhs == math.MinInt64 && rhs == -1 {
			return value.Variant{}, ErrArithmeticOverflow
		}
		return value.Int(lhs / rhs), nil
	case "%":
		if rhs == 0 {
			return value.Variant{}, ErrDivisionByZero
		}
		if lhs == math.MinInt64 && rhs == -1 {
			return value.Variant{}, ErrArithmeticOverflow
		}
		return value.Int(lhs % rhs), nil
	default:
		panic("expr: unknown binary operator " + op)
	}
}
