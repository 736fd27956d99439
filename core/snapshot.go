package core

import (
	"fmt"
	"slices"

	"github.com/nasdf/forma/value"
)

// ID identifies objects, snapshots, and frames. All three kinds share one
// identity space within a memory.
type ID uint64

// State is the lifecycle state of a snapshot.
type State int

const (
	StateUninitialized State = iota
	StateTransient
	StateValidated
)

// Structure is the structural payload of a snapshot: unstructured, node, or
// an edge with its endpoints.
type Structure struct {
	kind   StructuralKind
	origin ID
	target ID
}

// UnstructuredStructure returns the structural payload of an unstructured object.
func UnstructuredStructure() Structure {
	return Structure{kind: StructuralUnstructured}
}

// NodeStructure returns the structural payload of a node.
func NodeStructure() Structure {
	return Structure{kind: StructuralNode}
}

// EdgeStructure returns the structural payload of an edge with the given endpoints.
func EdgeStructure(origin, target ID) Structure {
	return Structure{kind: StructuralEdge, origin: origin, target: target}
}

// Kind returns the structural kind of the payload.
func (s Structure) Kind() StructuralKind {
	return s.kind
}

// Endpoints returns the origin and target of an edge payload. The bool result
// is false for nodes and unstructured payloads.
func (s Structure) Endpoints() (origin, target ID, ok bool) {
	if s.kind != StructuralEdge {
		return 0, 0, false
	}
	return s.origin, s.target, true
}

// Snapshot is one immutable-after-validation version of one object.
//
// A snapshot is mutable while transient. Once its frame is accepted the
// snapshot is validated and any mutation panics.
type Snapshot struct {
	objectID   ID
	snapshotID ID
	typ        *ObjectType
	structure  Structure
	attributes map[string]value.Variant
	parent     *ID
	children   []ID
	state      State
}

// ObjectID returns the identity of the object this snapshot is a version of.
func (s *Snapshot) ObjectID() ID {
	return s.objectID
}

// SnapshotID returns the unique identity of this snapshot.
func (s *Snapshot) SnapshotID() ID {
	return s.snapshotID
}

// Type returns the object type.
func (s *Snapshot) Type() *ObjectType {
	return s.typ
}

// Structure returns the structural payload.
func (s *Snapshot) Structure() Structure {
	return s.structure
}

// State returns the lifecycle state.
func (s *Snapshot) State() State {
	return s.state
}

// Attribute returns the value of the named attribute.
func (s *Snapshot) Attribute(name string) (value.Variant, bool) {
	v, ok := s.attributes[name]
	return v, ok
}

// AttributeNames returns the names of all attributes set on the snapshot in
// ascending order.
func (s *Snapshot) AttributeNames() []string {
	names := make([]string, 0, len(s.attributes))
	for name := range s.attributes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SetAttribute sets the value of the named attribute.
func (s *Snapshot) SetAttribute(name string, v value.Variant) {
	s.ensureMutable()
	s.attributes[name] = v
}

// Parent returns the parent object. The bool result is false when the
// snapshot has no parent.
func (s *Snapshot) Parent() (ID, bool) {
	if s.parent == nil {
		return 0, false
	}
	return *s.parent, true
}

// Children returns the child objects.
func (s *Snapshot) Children() []ID {
	return slices.Clone(s.children)
}

// HasChild returns true if the given object is a child of the snapshot.
func (s *Snapshot) HasChild(id ID) bool {
	return slices.Contains(s.children, id)
}

func (s *Snapshot) setParent(parent *ID) {
	s.ensureMutable()
	s.parent = parent
}

func (s *Snapshot) addChild(id ID) {
	s.ensureMutable()
	if !slices.Contains(s.children, id) {
		s.children = append(s.children, id)
	}
}

func (s *Snapshot) removeChild(id ID) {
	s.ensureMutable()
	s.children = slices.DeleteFunc(s.children, func(c ID) bool { return c == id })
}

func (s *Snapshot) ensureMutable() {
	if s.state == StateValidated {
		panic(fmt.Sprintf("core: mutation of validated snapshot %d", s.snapshotID))
	}
}

func (s *Snapshot) promote() {
	s.state = StateValidated
}

// references returns every object the snapshot structurally depends on:
// edge endpoints, the parent, and the children.
func (s *Snapshot) references() []ID {
	var refs []ID
	if origin, target, ok := s.structure.Endpoints(); ok {
		refs = append(refs, origin, target)
	}
	if s.parent != nil {
		refs = append(refs, *s.parent)
	}
	refs = append(refs, s.children...)
	return refs
}
