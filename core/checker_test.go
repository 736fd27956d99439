package core

import (
	"testing"

	"github.com/nasdf/forma/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicateAlgebra(t *testing.T) {
	memory := newTestMemory(t)
	stock, _ := memory.Metamodel().TypeByName("Stock")
	thing, _ := memory.Metamodel().TypeByName("Thing")

	frame := memory.CreateFrame()
	a := createNode(t, frame, stock, "a")
	b, err := frame.Create(thing, UnstructuredStructure(), nil)
	require.NoError(t, err)

	matched := Select(frame, IsType("Stock"))
	require.Len(t, matched, 1)
	assert.Equal(t, a, matched[0].ObjectID())

	matched = Select(frame, HasTrait("Text"))
	require.Len(t, matched, 1)
	assert.Equal(t, b, matched[0].ObjectID())

	matched = Select(frame, Not(IsType("Stock")))
	require.Len(t, matched, 1)
	assert.Equal(t, b, matched[0].ObjectID())

	matched = Select(frame, Or(IsType("Stock"), IsType("Thing")))
	assert.Len(t, matched, 2)

	matched = Select(frame, And(Any(), IsType("Stock")))
	assert.Len(t, matched, 1)
}

func TestUniqueAttribute(t *testing.T) {
	memory := newTestMemory(t)
	stock, _ := memory.Metamodel().TypeByName("Stock")

	frame := memory.CreateFrame()
	a := createNode(t, frame, stock, "water")
	b := createNode(t, frame, stock, "water")
	createNode(t, frame, stock, "fire")

	violators := UniqueAttribute("name").Check(frame, Select(frame, IsType("Stock")))
	assert.Equal(t, []ID{a, b}, violators)
}

func TestUnidirectionalEdge(t *testing.T) {
	memory := newTestMemory(t)
	stock, _ := memory.Metamodel().TypeByName("Stock")
	parameter, _ := memory.Metamodel().TypeByName("Parameter")

	frame := memory.CreateFrame()
	a := createNode(t, frame, stock, "a")
	b := createNode(t, frame, stock, "b")
	c := createNode(t, frame, stock, "c")

	forward, err := frame.Create(parameter, EdgeStructure(a, b), nil)
	require.NoError(t, err)
	backward, err := frame.Create(parameter, EdgeStructure(b, a), nil)
	require.NoError(t, err)
	_, err = frame.Create(parameter, EdgeStructure(b, c), nil)
	require.NoError(t, err)

	violators := UnidirectionalEdge().Check(frame, Select(frame, IsType("Parameter")))
	assert.Equal(t, []ID{forward, backward}, violators)
}

func TestAcyclicGraph(t *testing.T) {
	memory := newTestMemory(t)
	stock, _ := memory.Metamodel().TypeByName("Stock")
	parameter, _ := memory.Metamodel().TypeByName("Parameter")

	frame := memory.CreateFrame()
	a := createNode(t, frame, stock, "a")
	b := createNode(t, frame, stock, "b")
	c := createNode(t, frame, stock, "c")

	ab, err := frame.Create(parameter, EdgeStructure(a, b), nil)
	require.NoError(t, err)
	bc, err := frame.Create(parameter, EdgeStructure(b, c), nil)
	require.NoError(t, err)

	requirement := AcyclicGraph(IsType("Parameter"))
	assert.Empty(t, requirement.Check(frame, nil))

	ca, err := frame.Create(parameter, EdgeStructure(c, a), nil)
	require.NoError(t, err)
	violators := requirement.Check(frame, nil)
	assert.Equal(t, []ID{ab, bc, ca}, violators)
}

func TestCheckConstraints(t *testing.T) {
	metamodel := testMetamodel(t)
	metamodel.Constraints = []Constraint{
		{Name: "unique-name", Predicate: HasTrait("Name"), Requirement: UniqueAttribute("name")},
		{Name: "always-holds", Predicate: Any(), Requirement: AcceptAll()},
	}
	memory, err := NewMemory(metamodel)
	require.NoError(t, err)
	stock, _ := metamodel.TypeByName("Stock")

	frame := memory.CreateFrame()
	createNode(t, frame, stock, "water")
	createNode(t, frame, stock, "water")

	violations := CheckConstraints(frame, metamodel)
	require.Len(t, violations, 1)
	assert.Equal(t, "unique-name", violations[0].Constraint.Name)
	assert.Len(t, violations[0].Objects, 2)
}

func TestValidateFrameTypeErrors(t *testing.T) {
	memory := newTestMemory(t)
	stock, _ := memory.Metamodel().TypeByName("Stock")

	frame := memory.CreateFrame()

	// missing required attribute
	missing, err := frame.Create(stock, NodeStructure(), nil)
	require.NoError(t, err)

	// mistyped attribute
	mistyped, err := frame.Create(stock, NodeStructure(), map[string]value.Variant{
		"name": value.Int(1),
	})
	require.NoError(t, err)

	// unknown attribute
	unknown, err := frame.Create(stock, NodeStructure(), map[string]value.Variant{
		"name":  value.String("ok"),
		"bogus": value.Bool(true),
	})
	require.NoError(t, err)

	_, err = memory.Accept(frame, true)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	require.Len(t, validation.TypeErrors[missing], 1)
	assert.Equal(t, TypeErrorMissingAttribute, validation.TypeErrors[missing][0].Kind)

	require.Len(t, validation.TypeErrors[mistyped], 1)
	assert.Equal(t, TypeErrorTypeMismatch, validation.TypeErrors[mistyped][0].Kind)

	require.Len(t, validation.TypeErrors[unknown], 1)
	assert.Equal(t, TypeErrorUnknownAttribute, validation.TypeErrors[unknown][0].Kind)
	assert.Equal(t, "bogus", validation.TypeErrors[unknown][0].Attribute)
}
