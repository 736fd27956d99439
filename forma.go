// Package forma is a versioned object-graph design store. A memory holds a
// typed, attributed graph of objects and records its edit history as a
// sequence of immutable frames forming an undo/redo timeline.
package forma

import (
	"context"

	"github.com/ipld/go-ipld-prime/datamodel"

	"github.com/nasdf/forma/core"
	"github.com/nasdf/forma/foreign"
	"github.com/nasdf/forma/schema"
	"github.com/nasdf/forma/storage"
)

// Open creates a new empty memory bound to the metamodel declared by the
// given schema.
func Open(schemaSource string) (*core.Memory, error) {
	metamodel, err := schema.LoadMetamodel(schemaSource)
	if err != nil {
		return nil, err
	}
	return core.NewMemory(metamodel)
}

// Load reconstructs a memory from the head archive of the given storage,
// binding it to the metamodel declared by the given schema.
func Load(ctx context.Context, store storage.Storage, schemaSource string) (*core.Memory, error) {
	metamodel, err := schema.LoadMetamodel(schemaSource)
	if err != nil {
		return nil, err
	}
	return foreign.Import(ctx, store, metamodel)
}

// Save archives the memory into the given storage and returns the link of
// the archive.
func Save(ctx context.Context, memory *core.Memory, store storage.Storage) (datamodel.Link, error) {
	return foreign.Export(ctx, memory, store)
}
