package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantValueType(t *testing.T) {
	assert.Equal(t, TypeInt, Int(1).ValueType())
	assert.Equal(t, TypeDouble, Double(1.5).ValueType())
	assert.Equal(t, TypeBool, Bool(true).ValueType())
	assert.Equal(t, TypeString, String("a").ValueType())
	assert.Equal(t, TypePoint, PointValue(Point{X: 1, Y: 2}).ValueType())
	assert.Equal(t, TypeIntArray, IntArray([]int64{1, 2}).ValueType())
}

func TestVariantToInt(t *testing.T) {
	i, err := Int(10).ToInt()
	require.NoError(t, err)
	assert.Equal(t, int64(10), i)

	i, err = Double(3.7).ToInt()
	require.NoError(t, err)
	assert.Equal(t, int64(3), i)

	i, err = String("42").ToInt()
	require.NoError(t, err)
	assert.Equal(t, int64(42), i)

	_, err = String("forty").ToInt()
	assert.Error(t, err)

	_, err = Bool(true).ToInt()
	assert.Error(t, err)
}

func TestVariantToDouble(t *testing.T) {
	f, err := Int(2).ToDouble()
	require.NoError(t, err)
	assert.Equal(t, 2.0, f)

	f, err = String("1.5").ToDouble()
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)

	_, err = PointValue(Point{}).ToDouble()
	assert.Error(t, err)
}

func TestVariantToBool(t *testing.T) {
	b, err := String("true").ToBool()
	require.NoError(t, err)
	assert.True(t, b)

	b, err = String("false").ToBool()
	require.NoError(t, err)
	assert.False(t, b)

	_, err = Int(1).ToBool()
	assert.Error(t, err)
}

func TestVariantToString(t *testing.T) {
	s, err := Double(1.5).ToString()
	require.NoError(t, err)
	assert.Equal(t, "1.5", s)

	s, err = Bool(false).ToString()
	require.NoError(t, err)
	assert.Equal(t, "false", s)

	s, err = PointValue(Point{X: 1, Y: 2}).ToString()
	require.NoError(t, err)
	assert.Equal(t, "(1, 2)", s)

	_, err = IntArray([]int64{1}).ToString()
	assert.Error(t, err)
}

func TestVariantEqualNumericPromotion(t *testing.T) {
	assert.True(t, Int(2).Equal(Double(2.0)))
	assert.True(t, Double(2.0).Equal(Int(2)))
	assert.False(t, Int(2).Equal(Double(2.5)))
	assert.False(t, Int(1).Equal(String("1")))
	assert.True(t, StringArray([]string{"a"}).Equal(StringArray([]string{"a"})))
	assert.False(t, StringArray([]string{"a"}).Equal(StringArray([]string{"b"})))
}

func TestVariantCompare(t *testing.T) {
	c, err := Int(1).Compare(Int(2))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Int(3).Compare(Double(2.5))
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = String("a").Compare(String("a"))
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	_, err = Int(1).Compare(String("1"))
	var cmpErr *NotComparableError
	require.ErrorAs(t, err, &cmpErr)
	assert.Equal(t, TypeInt, cmpErr.Lhs)
	assert.Equal(t, TypeString, cmpErr.Rhs)

	_, err = PointValue(Point{}).Compare(PointValue(Point{}))
	assert.Error(t, err)
}

func TestIsConvertible(t *testing.T) {
	assert.True(t, IsConvertible(TypeInt, TypeString))
	assert.True(t, IsConvertible(TypeString, TypeInt))
	assert.True(t, IsConvertible(TypeInt, TypeDouble))
	assert.True(t, IsConvertible(TypeDouble, TypeInt))
	assert.True(t, IsConvertible(TypeString, TypeBool))
	assert.False(t, IsConvertible(TypeInt, TypeBool))
	assert.False(t, IsConvertible(TypeBool, TypeInt))
	assert.False(t, IsConvertible(TypeIntArray, TypeString))
}

func TestVariantHash(t *testing.T) {
	assert.Equal(t, Int(2).Hash(), Double(2.0).Hash())
	assert.NotEqual(t, Int(2).Hash(), String("2").Hash())
	assert.Equal(t, IntArray([]int64{1, 2}).Hash(), IntArray([]int64{1, 2}).Hash())
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("(1.5, -2)")
	require.NoError(t, err)
	assert.Equal(t, Point{X: 1.5, Y: -2}, p)

	_, err = ParsePoint("1.5, -2")
	assert.Error(t, err)
}
