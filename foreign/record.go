// Package foreign implements the serialization contract of the memory:
// snapshots and frames convert to and from foreign records that an external
// archive layer can persist and replay.
package foreign

import (
	"fmt"

	"github.com/nasdf/forma/core"
	"github.com/nasdf/forma/value"
)

// UnknownObjectTypeError is reported when a record names a type the bound
// metamodel does not declare.
type UnknownObjectTypeError struct {
	Name string
}

func (e *UnknownObjectTypeError) Error() string {
	return fmt.Sprintf("unknown object type %s", e.Name)
}

// Record is the foreign form of one snapshot.
type Record struct {
	ID         uint64           `json:"id" yaml:"id"`
	SnapshotID uint64           `json:"snapshot_id" yaml:"snapshot_id"`
	Type       string           `json:"type" yaml:"type"`
	Structure  string           `json:"structure" yaml:"structure"`
	Origin     *uint64          `json:"origin,omitempty" yaml:"origin,omitempty"`
	Target     *uint64          `json:"target,omitempty" yaml:"target,omitempty"`
	Parent     *uint64          `json:"parent,omitempty" yaml:"parent,omitempty"`
	Children   []uint64         `json:"children,omitempty" yaml:"children,omitempty"`
	Attributes map[string]Value `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// FromSnapshot converts a snapshot into its foreign record.
func FromSnapshot(snapshot *core.Snapshot) Record {
	record := Record{
		ID:         uint64(snapshot.ObjectID()),
		SnapshotID: uint64(snapshot.SnapshotID()),
		Type:       snapshot.Type().Name,
		Structure:  snapshot.Structure().Kind().String(),
	}
	if origin, target, ok := snapshot.Structure().Endpoints(); ok {
		o, t := uint64(origin), uint64(target)
		record.Origin = &o
		record.Target = &t
	}
	if parent, ok := snapshot.Parent(); ok {
		p := uint64(parent)
		record.Parent = &p
	}
	for _, child := range snapshot.Children() {
		record.Children = append(record.Children, uint64(child))
	}
	names := snapshot.AttributeNames()
	if len(names) > 0 {
		record.Attributes = make(map[string]Value, len(names))
		for _, name := range names {
			v, _ := snapshot.Attribute(name)
			record.Attributes[name] = FromVariant(v)
		}
	}
	return record
}

// CreateSnapshot reconstructs the snapshot of a record inside the given
// memory, reserving the identities the record carries. The type name
// resolves against the metamodel the memory is bound to.
func CreateSnapshot(memory *core.Memory, record Record) (*core.Snapshot, error) {
	typ, ok := memory.Metamodel().TypeByName(record.Type)
	if !ok {
		return nil, &UnknownObjectTypeError{Name: record.Type}
	}
	structure, err := recordStructure(record)
	if err != nil {
		return nil, err
	}
	attributes := make(map[string]value.Variant, len(record.Attributes))
	for name, v := range record.Attributes {
		variant, err := v.Variant()
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		attributes[name] = variant
	}
	var parent *core.ID
	if record.Parent != nil {
		p := core.ID(*record.Parent)
		parent = &p
	}
	children := make([]core.ID, len(record.Children))
	for i, child := range record.Children {
		children[i] = core.ID(child)
	}
	return memory.CreateSnapshotWithID(
		core.ID(record.ID), core.ID(record.SnapshotID),
		typ, structure, attributes, parent, children)
}

func recordStructure(record Record) (core.Structure, error) {
	kind, err := core.ParseStructuralKind(record.Structure)
	if err != nil {
		return core.Structure{}, err
	}
	switch kind {
	case core.StructuralEdge:
		if record.Origin == nil || record.Target == nil {
			return core.Structure{}, fmt.Errorf("edge record %d is missing endpoints", record.ID)
		}
		return core.EdgeStructure(core.ID(*record.Origin), core.ID(*record.Target)), nil
	case core.StructuralNode:
		return core.NodeStructure(), nil
	default:
		return core.UnstructuredStructure(), nil
	}
}
