package core

import (
	"testing"

	"github.com/nasdf/forma/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertPreconditions(t *testing.T) {
	memory := newTestMemory(t)
	stock, _ := memory.Metamodel().TypeByName("Stock")

	frame := memory.CreateFrame()
	snapshot, err := memory.CreateSnapshot(stock, NodeStructure(), map[string]value.Variant{
		"name": value.String("a"),
	})
	require.NoError(t, err)

	// borrowed insert requires a validated snapshot
	assert.Panics(t, func() { frame.Insert(snapshot, false) })

	frame.Insert(snapshot, true)

	// same object twice
	assert.Panics(t, func() { frame.Insert(snapshot, true) })
}

func TestMutableObjectUnknownPanics(t *testing.T) {
	memory := newTestMemory(t)
	frame := memory.CreateFrame()
	assert.Panics(t, func() { frame.MutableObject(7) })
}

func TestHierarchyEdits(t *testing.T) {
	memory := newTestMemory(t)
	stock, _ := memory.Metamodel().TypeByName("Stock")

	frame := memory.CreateFrame()
	parent := createNode(t, frame, stock, "parent")
	child := createNode(t, frame, stock, "child")

	frame.AddChild(parent, child)
	parentSnapshot, _ := frame.Object(parent)
	childSnapshot, _ := frame.Object(child)
	assert.True(t, parentSnapshot.HasChild(child))
	got, ok := childSnapshot.Parent()
	require.True(t, ok)
	assert.Equal(t, parent, got)

	other := createNode(t, frame, stock, "other")
	frame.SetParent(child, &other)
	parentSnapshot, _ = frame.Object(parent)
	otherSnapshot, _ := frame.Object(other)
	childSnapshot, _ = frame.Object(child)
	assert.False(t, parentSnapshot.HasChild(child))
	assert.True(t, otherSnapshot.HasChild(child))
	got, _ = childSnapshot.Parent()
	assert.Equal(t, other, got)

	frame.RemoveFromParent(child)
	childSnapshot, _ = frame.Object(child)
	_, ok = childSnapshot.Parent()
	assert.False(t, ok)
	otherSnapshot, _ = frame.Object(other)
	assert.False(t, otherSnapshot.HasChild(child))
}

func TestHierarchyCopyOnWrite(t *testing.T) {
	memory := newTestMemory(t)
	stock, _ := memory.Metamodel().TypeByName("Stock")

	frame := memory.DeriveFrame()
	parent := createNode(t, frame, stock, "parent")
	child := createNode(t, frame, stock, "child")
	frame.AddChild(parent, child)
	acceptFrame(t, memory, frame)

	derived := memory.DeriveFrame()
	require.False(t, derived.Owns(parent))
	derived.RemoveChild(parent, child)
	assert.True(t, derived.Owns(parent))
	assert.True(t, derived.Owns(child))
}

func TestRemoveCascading(t *testing.T) {
	memory := newTestMemory(t)
	stock, _ := memory.Metamodel().TypeByName("Stock")
	parameter, _ := memory.Metamodel().TypeByName("Parameter")

	frame := memory.CreateFrame()
	a := createNode(t, frame, stock, "a")
	b := createNode(t, frame, stock, "b")
	c := createNode(t, frame, stock, "c")
	frame.AddChild(a, b)

	edge, err := frame.Create(parameter, EdgeStructure(b, c), nil)
	require.NoError(t, err)

	removed := frame.RemoveCascading(a)
	assert.Equal(t, []ID{a, b, edge}, removed)
	assert.False(t, frame.Contains(a))
	assert.False(t, frame.Contains(b))
	assert.False(t, frame.Contains(edge))
	assert.True(t, frame.Contains(c))
	assert.Equal(t, []ID{a, b, edge}, frame.RemovedObjects())
}

func TestRemoveCascadingDetachesFromSurvivingParent(t *testing.T) {
	memory := newTestMemory(t)
	stock, _ := memory.Metamodel().TypeByName("Stock")

	frame := memory.CreateFrame()
	parent := createNode(t, frame, stock, "parent")
	child := createNode(t, frame, stock, "child")
	frame.AddChild(parent, child)

	frame.RemoveCascading(child)
	parentSnapshot, _ := frame.Object(parent)
	assert.False(t, parentSnapshot.HasChild(child))
	assert.True(t, frame.Contains(parent))
}

func TestRemoveCascadingTransitiveEdges(t *testing.T) {
	memory := newTestMemory(t)
	stock, _ := memory.Metamodel().TypeByName("Stock")
	parameter, _ := memory.Metamodel().TypeByName("Parameter")

	frame := memory.CreateFrame()
	a := createNode(t, frame, stock, "a")
	b := createNode(t, frame, stock, "b")
	first, err := frame.Create(parameter, EdgeStructure(a, b), nil)
	require.NoError(t, err)
	second, err := frame.Create(parameter, EdgeStructure(first, b), nil)
	require.NoError(t, err)

	removed := frame.RemoveCascading(a)
	assert.Contains(t, removed, first)
	assert.Contains(t, removed, second)
	assert.True(t, frame.Contains(b))
}
