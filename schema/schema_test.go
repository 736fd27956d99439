package schema

import (
	"testing"

	"github.com/nasdf/forma/core"
	"github.com/nasdf/forma/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
interface Named {
	name: String
}

interface Positioned {
	position: Point
}

type Stock implements Named & Positioned @node {
	name: String
	position: Point
	capacity: Float @default(value: "100")
}

type Parameter @edge {
	weight: Float @default(value: "1")
}

type Note {
	text: String @default(value: "")
	tags: [String]
}
`

func TestLoadMetamodel(t *testing.T) {
	metamodel, err := LoadMetamodel(testSchema)
	require.NoError(t, err)
	require.NoError(t, metamodel.Validate())

	require.Len(t, metamodel.Traits, 2)

	stock, ok := metamodel.TypeByName("Stock")
	require.True(t, ok)
	assert.Equal(t, core.StructuralNode, stock.Structural)
	assert.True(t, stock.HasTrait("Named"))
	assert.True(t, stock.HasTrait("Positioned"))

	capacity, ok := stock.Attribute("capacity")
	require.True(t, ok)
	assert.Equal(t, value.TypeDouble, capacity.Type)
	require.NotNil(t, capacity.Default)
	assert.True(t, capacity.Default.Equal(value.Double(100)))

	position, ok := stock.Attribute("position")
	require.True(t, ok)
	assert.Equal(t, value.TypePoint, position.Type)

	parameter, ok := metamodel.TypeByName("Parameter")
	require.True(t, ok)
	assert.Equal(t, core.StructuralEdge, parameter.Structural)

	note, ok := metamodel.TypeByName("Note")
	require.True(t, ok)
	assert.Equal(t, core.StructuralUnstructured, note.Structural)

	tags, ok := note.Attribute("tags")
	require.True(t, ok)
	assert.Equal(t, value.TypeStringArray, tags.Type)
}

func TestLoadMetamodelBadSyntax(t *testing.T) {
	_, err := LoadMetamodel(`type Broken {`)
	assert.Error(t, err)
}

func TestLoadMetamodelBadAttributeType(t *testing.T) {
	_, err := LoadMetamodel(`
type Pair { left: Pair }
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid attribute type")
}

func TestLoadMetamodelBadDefault(t *testing.T) {
	_, err := LoadMetamodel(`
type Broken @node { count: Int @default(value: "many") }
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid default")
}

func TestLoadMetamodelConflictingDirectives(t *testing.T) {
	_, err := LoadMetamodel(`
type Broken @node @edge { name: String }
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "structural directive")
}

func TestLoadMetamodelMemoryIntegration(t *testing.T) {
	metamodel, err := LoadMetamodel(testSchema)
	require.NoError(t, err)

	memory, err := core.NewMemory(metamodel)
	require.NoError(t, err)

	stock, _ := metamodel.TypeByName("Stock")
	frame := memory.CreateFrame()
	id, err := frame.Create(stock, core.NodeStructure(), map[string]value.Variant{
		"name":     value.String("water"),
		"position": value.PointValue(value.Point{X: 1, Y: 2}),
	})
	require.NoError(t, err)

	snapshot, _ := frame.Object(id)
	capacity, ok := snapshot.Attribute("capacity")
	require.True(t, ok)
	assert.True(t, capacity.Equal(value.Double(100)))

	_, err = memory.Accept(frame, true)
	require.NoError(t, err)
}
