package core

import (
	"fmt"
	"maps"
	"slices"

	"github.com/nasdf/forma/value"
)

// Memory is the versioned object memory. It allocates identities, owns every
// known snapshot, tracks stable and mutable frames, and maintains the
// undo/redo history over one linear active timeline.
//
// A memory is bound to one metamodel at construction; rebinding is not
// supported. All operations against one memory must execute on one logical
// agent; the memory performs no internal locking.
type Memory struct {
	metamodel *Metamodel
	counter   ID
	snapshots map[ID]*Snapshot
	stable    map[ID]*StableFrame
	mutable   map[ID]*MutableFrame
	current   *ID
	undoable  []ID
	redoable  []ID
}

// NewMemory creates an empty memory bound to the given metamodel.
func NewMemory(metamodel *Metamodel) (*Memory, error) {
	if err := metamodel.Validate(); err != nil {
		return nil, err
	}
	return &Memory{
		metamodel: metamodel,
		counter:   1,
		snapshots: make(map[ID]*Snapshot),
		stable:    make(map[ID]*StableFrame),
		mutable:   make(map[ID]*MutableFrame),
	}, nil
}

// Metamodel returns the metamodel the memory is bound to.
func (m *Memory) Metamodel() *Metamodel {
	return m.metamodel
}

// AllocateID returns a fresh identity from the memory counter.
func (m *Memory) AllocateID() ID {
	id := m.counter
	m.counter++
	return id
}

// ReserveID reserves a specific identity, advancing the counter past it.
// Reserving an identity already used by a snapshot or frame is a programming
// error.
func (m *Memory) ReserveID(id ID) ID {
	if m.idInUse(id) {
		panic(fmt.Sprintf("core: identity %d is already in use", id))
	}
	if id >= m.counter {
		m.counter = id + 1
	}
	return id
}

func (m *Memory) idInUse(id ID) bool {
	if _, ok := m.snapshots[id]; ok {
		return true
	}
	if _, ok := m.stable[id]; ok {
		return true
	}
	if _, ok := m.mutable[id]; ok {
		return true
	}
	return false
}

// CreateSnapshot creates a transient snapshot of a new object. The structure
// must match the structural kind of the type. Missing attributes with
// declared defaults are filled in.
func (m *Memory) CreateSnapshot(typ *ObjectType, structure Structure, attributes map[string]value.Variant) (*Snapshot, error) {
	return m.CreateSnapshotWithID(m.AllocateID(), m.AllocateID(), typ, structure, attributes, nil, nil)
}

// CreateSnapshotWithID is like CreateSnapshot but reserves the given object
// and snapshot identities and restores the hierarchy references, as required
// when reconstructing from foreign records.
func (m *Memory) CreateSnapshotWithID(objectID, snapshotID ID, typ *ObjectType, structure Structure, attributes map[string]value.Variant, parent *ID, children []ID) (*Snapshot, error) {
	if structure.Kind() != typ.Structural {
		return nil, fmt.Errorf("type %s requires %s structure, got %s", typ.Name, typ.Structural, structure.Kind())
	}
	if _, ok := m.snapshots[snapshotID]; ok {
		panic(fmt.Sprintf("core: duplicate snapshot identity %d", snapshotID))
	}
	if snapshotID >= m.counter {
		m.counter = snapshotID + 1
	}
	if objectID >= m.counter {
		m.counter = objectID + 1
	}
	attrs := make(map[string]value.Variant, len(attributes))
	maps.Copy(attrs, attributes)
	for _, attr := range typ.Attributes() {
		if _, ok := attrs[attr.Name]; !ok && attr.Default != nil {
			attrs[attr.Name] = *attr.Default
		}
	}
	snapshot := &Snapshot{
		objectID:   objectID,
		snapshotID: snapshotID,
		typ:        typ,
		structure:  structure,
		attributes: attrs,
		parent:     parent,
		children:   slices.Clone(children),
		state:      StateTransient,
	}
	m.snapshots[snapshotID] = snapshot
	return snapshot, nil
}

// DeriveSnapshot produces a fresh transient snapshot of the same object as
// the origin snapshot, copying its type, structure, attributes, parent, and
// children.
func (m *Memory) DeriveSnapshot(originSnapshotID ID) *Snapshot {
	origin := m.Snapshot(originSnapshotID)
	derived := &Snapshot{
		objectID:   origin.objectID,
		snapshotID: m.AllocateID(),
		typ:        origin.typ,
		structure:  origin.structure,
		attributes: maps.Clone(origin.attributes),
		parent:     origin.parent,
		children:   slices.Clone(origin.children),
		state:      StateTransient,
	}
	m.snapshots[derived.snapshotID] = derived
	return derived
}

// Snapshot returns the snapshot with the given identity. An unknown identity
// is a programming error.
func (m *Memory) Snapshot(id ID) *Snapshot {
	snapshot, ok := m.snapshots[id]
	if !ok {
		panic(fmt.Sprintf("core: unknown snapshot %d", id))
	}
	return snapshot
}

// ContainsSnapshot returns true if the memory knows the snapshot identity.
func (m *Memory) ContainsSnapshot(id ID) bool {
	_, ok := m.snapshots[id]
	return ok
}

// CreateFrame starts a new empty mutable frame.
func (m *Memory) CreateFrame() *MutableFrame {
	return m.newFrame(m.AllocateID())
}

// CreateFrameWithID starts a new empty mutable frame with a reserved identity.
func (m *Memory) CreateFrameWithID(id ID) *MutableFrame {
	return m.newFrame(m.ReserveID(id))
}

func (m *Memory) newFrame(id ID) *MutableFrame {
	frame := &MutableFrame{
		memory:  m,
		id:      id,
		entries: make(map[ID]*frameEntry),
		removed: make(map[ID]struct{}),
	}
	m.mutable[id] = frame
	return frame
}

// DeriveFrame starts a new mutable frame whose initial contents are borrowed
// from the current frame. With no current frame the new frame is empty.
func (m *Memory) DeriveFrame() *MutableFrame {
	if m.current == nil {
		return m.CreateFrame()
	}
	return m.DeriveFrameFrom(*m.current)
}

// DeriveFrameFrom starts a new mutable frame whose initial contents are
// borrowed from the given stable frame.
func (m *Memory) DeriveFrameFrom(originalID ID) *MutableFrame {
	original, ok := m.stable[originalID]
	if !ok {
		panic(fmt.Sprintf("core: unknown stable frame %d", originalID))
	}
	frame := m.CreateFrame()
	for id, snapshot := range original.snapshots {
		frame.entries[id] = &frameEntry{snapshot: snapshot, owned: false}
	}
	return frame
}

// Frame returns the frame with the given identity, stable or mutable.
func (m *Memory) Frame(id ID) (Frame, bool) {
	if frame, ok := m.stable[id]; ok {
		return frame, true
	}
	if frame, ok := m.mutable[id]; ok {
		return frame, true
	}
	return nil, false
}

// StableFrame returns the stable frame with the given identity.
func (m *Memory) StableFrame(id ID) (*StableFrame, bool) {
	frame, ok := m.stable[id]
	return frame, ok
}

// ContainsFrame returns true if the memory holds a frame with the given
// identity.
func (m *Memory) ContainsFrame(id ID) bool {
	_, ok := m.Frame(id)
	return ok
}

// CurrentFrame returns the stable frame at the head of the active timeline.
// The bool result is false when no frame has been accepted yet.
func (m *Memory) CurrentFrame() (*StableFrame, bool) {
	if m.current == nil {
		return nil, false
	}
	return m.stable[*m.current], true
}

// CurrentFrameID returns the identity of the current frame.
func (m *Memory) CurrentFrameID() (ID, bool) {
	if m.current == nil {
		return 0, false
	}
	return *m.current, true
}

// UndoableFrames returns the identities of the frames that can be undone to,
// oldest first.
func (m *Memory) UndoableFrames() []ID {
	return slices.Clone(m.undoable)
}

// RedoableFrames returns the identities of the frames that can be redone to,
// oldest first.
func (m *Memory) RedoableFrames() []ID {
	return slices.Clone(m.redoable)
}

// Accept validates the frame and promotes it to a stable frame. When
// appendHistory is true, the previous current frame is pushed onto the undo
// list, the redo list is cleared, and the accepted frame becomes current.
//
// Acceptance is atomic: on validation failure the frame stays open and no
// memory state changes.
func (m *Memory) Accept(frame *MutableFrame, appendHistory bool) (*StableFrame, error) {
	if frame.memory != m {
		panic("core: frame belongs to a different memory")
	}
	if frame.state != frameOpen {
		panic(fmt.Sprintf("core: frame %d is not open", frame.id))
	}
	if _, ok := m.stable[frame.id]; ok {
		panic(fmt.Sprintf("core: frame %d is already stable", frame.id))
	}

	if err := validateFrame(frame, m.metamodel); err != nil {
		return nil, err
	}

	snapshots := make(map[ID]*Snapshot, len(frame.entries))
	for id, entry := range frame.entries {
		if entry.owned {
			entry.snapshot.promote()
		}
		snapshots[id] = entry.snapshot
	}
	frame.state = frameValidated
	stable := &StableFrame{id: frame.id, snapshots: snapshots}
	m.stable[stable.id] = stable
	delete(m.mutable, frame.id)

	if appendHistory {
		if m.current != nil {
			m.undoable = append(m.undoable, *m.current)
		}
		m.redoable = nil
		current := stable.id
		m.current = &current
	}
	return stable, nil
}

// Discard abandons a mutable frame. Owned snapshots that were never
// validated are dropped from the memory.
func (m *Memory) Discard(frame *MutableFrame) {
	if frame.memory != m {
		panic("core: frame belongs to a different memory")
	}
	if frame.state != frameOpen {
		panic(fmt.Sprintf("core: frame %d is not open", frame.id))
	}
	for _, entry := range frame.entries {
		if entry.owned && entry.snapshot.State() != StateValidated {
			delete(m.snapshots, entry.snapshot.SnapshotID())
		}
	}
	delete(m.mutable, frame.id)
}

// RemoveFrame removes a frame from the memory. Removing the current frame or
// a frame on the history timeline is a programming error.
func (m *Memory) RemoveFrame(id ID) {
	if m.current != nil && *m.current == id {
		panic(fmt.Sprintf("core: frame %d is the current frame", id))
	}
	if slices.Contains(m.undoable, id) || slices.Contains(m.redoable, id) {
		panic(fmt.Sprintf("core: frame %d is on the history timeline", id))
	}
	if frame, ok := m.mutable[id]; ok {
		m.Discard(frame)
		return
	}
	if _, ok := m.stable[id]; !ok {
		panic(fmt.Sprintf("core: unknown frame %d", id))
	}
	delete(m.stable, id)
}

// StableFrameIDs returns the identities of every stable frame in ascending
// order.
func (m *Memory) StableFrameIDs() []ID {
	ids := make(map[ID]struct{}, len(m.stable))
	for id := range m.stable {
		ids[id] = struct{}{}
	}
	return sortedIDs(ids)
}

// RestoreHistory replaces the history timeline, as required when
// reconstructing from foreign records. Every referenced frame must be
// stable.
func (m *Memory) RestoreHistory(current *ID, undoable, redoable []ID) {
	for _, id := range append(slices.Clone(undoable), redoable...) {
		if _, ok := m.stable[id]; !ok {
			panic(fmt.Sprintf("core: unknown stable frame %d", id))
		}
	}
	if current != nil {
		if _, ok := m.stable[*current]; !ok {
			panic(fmt.Sprintf("core: unknown stable frame %d", *current))
		}
		id := *current
		m.current = &id
	} else {
		m.current = nil
	}
	m.undoable = slices.Clone(undoable)
	m.redoable = slices.Clone(redoable)
}

// CanUndo returns true if there is a frame to undo to.
func (m *Memory) CanUndo() bool {
	return len(m.undoable) > 0
}

// CanRedo returns true if there is a frame to redo to.
func (m *Memory) CanRedo() bool {
	return len(m.redoable) > 0
}

// Undo moves the active timeline back to the given frame. The frame must
// appear in the undoable list. Frames between the target and the current
// frame become redoable.
func (m *Memory) Undo(to ID) {
	i := slices.Index(m.undoable, to)
	if i < 0 {
		panic(fmt.Sprintf("core: frame %d is not undoable", to))
	}
	moved := slices.Clone(m.undoable[i+1:])
	if m.current != nil {
		moved = append(moved, *m.current)
	}
	m.redoable = append(moved, m.redoable...)
	m.undoable = m.undoable[:i]
	current := to
	m.current = &current
}

// Redo moves the active timeline forward to the given frame. The frame must
// appear in the redoable list.
func (m *Memory) Redo(to ID) {
	i := slices.Index(m.redoable, to)
	if i < 0 {
		panic(fmt.Sprintf("core: frame %d is not redoable", to))
	}
	if m.current != nil {
		m.undoable = append(m.undoable, *m.current)
	}
	m.undoable = append(m.undoable, m.redoable[:i]...)
	m.redoable = slices.Clone(m.redoable[i+1:])
	current := to
	m.current = &current
}
