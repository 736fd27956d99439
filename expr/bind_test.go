package expr

import (
	"testing"

	"github.com/nasdf/forma/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindResolvesVariables(t *testing.T) {
	cst, err := Parse("a + time")
	require.NoError(t, err)

	variables := map[string]VariableReference{
		"a":    ObjectRef(10),
		"time": BuiltinRef("time"),
	}
	bound, err := Bind(cst.ToUnbound(), variables, nil)
	require.NoError(t, err)

	binary, ok := bound.(*Binary[VariableReference])
	require.True(t, ok)

	left := binary.Left.(*Variable[VariableReference])
	id, ok := left.Ref.Object()
	require.True(t, ok)
	assert.Equal(t, uint64(10), id)

	right := binary.Right.(*Variable[VariableReference])
	name, ok := right.Ref.Builtin()
	require.True(t, ok)
	assert.Equal(t, "time", name)
}

func TestBindUnknownVariable(t *testing.T) {
	cst, err := Parse("a + b")
	require.NoError(t, err)

	_, err = Bind(cst.ToUnbound(), map[string]VariableReference{"a": ObjectRef(1)}, nil)
	var unknown *UnknownVariableError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "b", unknown.Name)
}

func TestBindUnknownFunction(t *testing.T) {
	cst, err := Parse("mystery(1)")
	require.NoError(t, err)

	_, err = Bind(cst.ToUnbound(), nil, nil)
	var unknown *UnknownFunctionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "mystery", unknown.Name)
}

func TestBindInvalidArity(t *testing.T) {
	functions := map[string]*Function{
		"abs": NumericFunction("abs", 1, func(args []float64) float64 { return args[0] }),
	}
	cst, err := Parse("abs(1, 2)")
	require.NoError(t, err)

	_, err = Bind(cst.ToUnbound(), nil, functions)
	var arity *InvalidArityError
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, 1, arity.Expected)
	assert.Equal(t, 2, arity.Got)
}

func TestBindArgumentTypeMismatch(t *testing.T) {
	functions := map[string]*Function{
		"flag": {
			Name: "flag",
			Signature: Signature{
				Positional: []Argument{{Name: "on", Type: ConcreteType(value.TypeBool)}},
				Returns:    value.TypeBool,
			},
		},
	}
	cst, err := Parse("flag(1)")
	require.NoError(t, err)

	_, err = Bind(cst.ToUnbound(), nil, functions)
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "flag", mismatch.Function)
	assert.Equal(t, []int{0}, mismatch.Indexes())
}

func TestBindDeterminism(t *testing.T) {
	cst, err := Parse("a + b * c")
	require.NoError(t, err)

	variables := map[string]VariableReference{
		"a": ObjectRef(1),
		"b": ObjectRef(2),
		"c": ObjectRef(3),
	}
	first, err := Bind(cst.ToUnbound(), variables, nil)
	require.NoError(t, err)
	second, err := Bind(cst.ToUnbound(), variables, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSignatureValidate(t *testing.T) {
	signature := Signature{
		Positional: []Argument{
			{Name: "value", Type: Union(value.TypeInt, value.TypeDouble)},
			{Name: "label", Type: ConcreteType(value.TypeString)},
		},
		Returns: value.TypeDouble,
	}

	require.NoError(t, signature.Validate([]value.Type{value.TypeInt, value.TypeString}))
	// double is a member of the first union, double converts to string
	require.NoError(t, signature.Validate([]value.Type{value.TypeDouble, value.TypeDouble}))

	err := signature.Validate([]value.Type{value.TypeInt})
	var arity *InvalidArityError
	require.ErrorAs(t, err, &arity)

	err = signature.Validate([]value.Type{value.TypeBool, value.TypeString})
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, []int{0}, mismatch.Indexes())
	assert.Equal(t, value.TypeBool, mismatch.Mismatches[0].Got)
}

func TestSignatureVariadic(t *testing.T) {
	variadic := Argument{Name: "values", Type: ConcreteType(value.TypeDouble)}
	signature := Signature{Variadic: &variadic, Returns: value.TypeDouble}

	require.NoError(t, signature.Validate(nil))
	require.NoError(t, signature.Validate([]value.Type{value.TypeDouble, value.TypeInt}))

	err := signature.Validate([]value.Type{value.TypePointArray})
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestUnionTypeMatches(t *testing.T) {
	assert.True(t, AnyType().Matches(value.TypePoint))
	assert.True(t, ConcreteType(value.TypeDouble).Matches(value.TypeInt))
	assert.False(t, ConcreteType(value.TypeBool).Matches(value.TypeInt))
	assert.True(t, Union(value.TypeBool, value.TypeInt).Matches(value.TypeInt))
}

func TestToUnboundDropsTrivia(t *testing.T) {
	cst, err := Parse("  ( a +  2 ) ")
	require.NoError(t, err)

	expr := cst.ToUnbound()
	binary, ok := expr.(*Binary[string])
	require.True(t, ok)
	assert.Equal(t, "+", binary.Op)

	variable := binary.Left.(*Variable[string])
	assert.Equal(t, "a", variable.Ref)

	literal := binary.Right.(*Value[string])
	assert.True(t, literal.Literal.Equal(value.Int(2)))
}
