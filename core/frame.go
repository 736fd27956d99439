package core

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/nasdf/forma/value"
)

// Frame is a set of snapshots keyed by object ID constituting one version of
// the design. Stable and mutable frames both satisfy Frame.
type Frame interface {
	// ID returns the frame identity.
	ID() ID
	// Contains returns true if the frame holds a snapshot of the given object.
	Contains(id ID) bool
	// Object returns the snapshot of the given object. The bool result is
	// false when the frame does not contain the object.
	Object(id ID) (*Snapshot, bool)
	// Snapshots returns the snapshots in the frame ordered by ascending
	// object ID.
	Snapshots() []*Snapshot
}

// StableFrame is an accepted, immutable frame. All of its snapshots are
// validated and it is eligible for the undo/redo history.
type StableFrame struct {
	id        ID
	snapshots map[ID]*Snapshot
}

// ID returns the frame identity.
func (f *StableFrame) ID() ID {
	return f.id
}

// Contains returns true if the frame holds a snapshot of the given object.
func (f *StableFrame) Contains(id ID) bool {
	_, ok := f.snapshots[id]
	return ok
}

// Object returns the snapshot of the given object.
func (f *StableFrame) Object(id ID) (*Snapshot, bool) {
	s, ok := f.snapshots[id]
	return s, ok
}

// Snapshots returns the snapshots in the frame ordered by ascending object ID.
func (f *StableFrame) Snapshots() []*Snapshot {
	return sortedSnapshots(f.snapshots)
}

type frameState int

const (
	frameOpen frameState = iota
	frameValidated
)

type frameEntry struct {
	snapshot *Snapshot
	owned    bool
}

// MutableFrame is a frame under construction. Entries are either owned, which
// the frame may mutate, or borrowed from a parent stable frame and read-only.
// Mutation of a borrowed entry routes through MutableObject, which replaces
// it with an owned copy-on-write derivation.
type MutableFrame struct {
	memory  *Memory
	id      ID
	state   frameState
	entries map[ID]*frameEntry
	removed map[ID]struct{}
}

// ID returns the frame identity.
func (f *MutableFrame) ID() ID {
	return f.id
}

// Contains returns true if the frame holds a snapshot of the given object.
func (f *MutableFrame) Contains(id ID) bool {
	_, ok := f.entries[id]
	return ok
}

// Object returns the snapshot of the given object.
func (f *MutableFrame) Object(id ID) (*Snapshot, bool) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, false
	}
	return entry.snapshot, true
}

// Snapshots returns the snapshots in the frame ordered by ascending object ID.
func (f *MutableFrame) Snapshots() []*Snapshot {
	snapshots := make(map[ID]*Snapshot, len(f.entries))
	for id, entry := range f.entries {
		snapshots[id] = entry.snapshot
	}
	return sortedSnapshots(snapshots)
}

// RemovedObjects returns the objects removed from the frame since it was
// derived, in ascending order.
func (f *MutableFrame) RemovedObjects() []ID {
	return sortedIDs(f.removed)
}

// Owns returns true if the frame owns the snapshot of the given object.
func (f *MutableFrame) Owns(id ID) bool {
	entry, ok := f.entries[id]
	return ok && entry.owned
}

// Insert adds a snapshot to the frame. Owned snapshots must be mutable;
// borrowed snapshots must be validated. Inserting into a frame that already
// holds the object or the snapshot is a programming error.
func (f *MutableFrame) Insert(snapshot *Snapshot, owned bool) {
	f.ensureOpen()
	if snapshot.State() == StateUninitialized {
		panic("core: insert of uninitialized snapshot")
	}
	if owned && snapshot.State() == StateValidated {
		panic("core: owned insert of validated snapshot")
	}
	if !owned && snapshot.State() != StateValidated {
		panic("core: borrowed insert of transient snapshot")
	}
	if _, ok := f.entries[snapshot.ObjectID()]; ok {
		panic(fmt.Sprintf("core: frame %d already contains object %d", f.id, snapshot.ObjectID()))
	}
	for _, entry := range f.entries {
		if entry.snapshot.SnapshotID() == snapshot.SnapshotID() {
			panic(fmt.Sprintf("core: frame %d already contains snapshot %d", f.id, snapshot.SnapshotID()))
		}
	}
	f.entries[snapshot.ObjectID()] = &frameEntry{snapshot: snapshot, owned: owned}
	delete(f.removed, snapshot.ObjectID())
}

// Create allocates a new object of the given type, creates its first
// snapshot, and inserts it owned into the frame.
func (f *MutableFrame) Create(typ *ObjectType, structure Structure, attributes map[string]value.Variant) (ID, error) {
	f.ensureOpen()
	snapshot, err := f.memory.CreateSnapshot(typ, structure, attributes)
	if err != nil {
		return 0, err
	}
	f.Insert(snapshot, true)
	return snapshot.ObjectID(), nil
}

// MutableObject returns an owned, mutable snapshot of the given object. A
// borrowed entry is replaced by a fresh derived snapshot: this is the single
// copy-on-write point of the memory.
func (f *MutableFrame) MutableObject(id ID) *Snapshot {
	f.ensureOpen()
	entry, ok := f.entries[id]
	if !ok {
		panic(fmt.Sprintf("core: frame %d does not contain object %d", f.id, id))
	}
	if entry.owned {
		return entry.snapshot
	}
	derived := f.memory.DeriveSnapshot(entry.snapshot.SnapshotID())
	f.entries[id] = &frameEntry{snapshot: derived, owned: true}
	return derived
}

// RemoveCascading removes the object with the given ID together with all of
// its descendants and every object structurally dependent on any of them.
// It returns the set of removed objects in ascending order.
func (f *MutableFrame) RemoveCascading(id ID) []ID {
	f.ensureOpen()
	if _, ok := f.entries[id]; !ok {
		panic(fmt.Sprintf("core: frame %d does not contain object %d", f.id, id))
	}

	// collect the target and all descendants through the child hierarchy
	collected := map[ID]struct{}{}
	queue := []ID{id}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, ok := collected[next]; ok {
			continue
		}
		collected[next] = struct{}{}
		if entry, ok := f.entries[next]; ok {
			queue = append(queue, entry.snapshot.children...)
		}
	}

	// collect objects whose structural dependencies point at a collected
	// object, repeating until no new dependent is found
	for {
		grown := false
		for oid, entry := range f.entries {
			if _, ok := collected[oid]; ok {
				continue
			}
			origin, target, ok := entry.snapshot.Structure().Endpoints()
			if !ok {
				continue
			}
			_, originHit := collected[origin]
			_, targetHit := collected[target]
			if originHit || targetHit {
				collected[oid] = struct{}{}
				grown = true
			}
		}
		if !grown {
			break
		}
	}

	removed := sortedIDs(collected)
	for _, oid := range removed {
		f.remove(oid, collected)
	}
	return removed
}

// remove deletes a single entry, detaching it from a surviving parent.
func (f *MutableFrame) remove(id ID, removing map[ID]struct{}) {
	entry := f.entries[id]
	if parent, ok := entry.snapshot.Parent(); ok {
		if _, gone := removing[parent]; !gone {
			if _, present := f.entries[parent]; present {
				f.MutableObject(parent).removeChild(id)
			}
		}
	}
	delete(f.entries, id)
	f.removed[id] = struct{}{}
}

// AddChild adds the child to the parent's children and sets the child's
// parent. Both endpoints are mutated copy-on-write.
func (f *MutableFrame) AddChild(parent, child ID) {
	f.ensureOpen()
	p := parent
	f.MutableObject(parent).addChild(child)
	f.MutableObject(child).setParent(&p)
}

// RemoveChild removes the child from the parent's children and clears the
// child's parent.
func (f *MutableFrame) RemoveChild(parent, child ID) {
	f.ensureOpen()
	f.MutableObject(parent).removeChild(child)
	f.MutableObject(child).setParent(nil)
}

// SetParent moves the child under the given parent, detaching it from any
// previous parent. A nil parent detaches the child.
func (f *MutableFrame) SetParent(child ID, parent *ID) {
	f.ensureOpen()
	snapshot := f.MutableObject(child)
	if previous, ok := snapshot.Parent(); ok {
		f.MutableObject(previous).removeChild(child)
	}
	if parent == nil {
		snapshot.setParent(nil)
		return
	}
	f.AddChild(*parent, child)
}

// RemoveFromParent detaches the child from its parent, if any.
func (f *MutableFrame) RemoveFromParent(child ID) {
	f.SetParent(child, nil)
}

func (f *MutableFrame) ensureOpen() {
	if f.state != frameOpen {
		panic(fmt.Sprintf("core: mutation of validated frame %d", f.id))
	}
}

func sortedSnapshots(snapshots map[ID]*Snapshot) []*Snapshot {
	result := make([]*Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		result = append(result, s)
	}
	slices.SortFunc(result, func(a, b *Snapshot) int {
		return cmp.Compare(a.ObjectID(), b.ObjectID())
	})
	return result
}

func sortedIDs(ids map[ID]struct{}) []ID {
	result := make([]ID, 0, len(ids))
	for id := range ids {
		result = append(result, id)
	}
	slices.Sort(result)
	return result
}
