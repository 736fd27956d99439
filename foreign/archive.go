package foreign

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nasdf/forma/core"
)

// FrameRecord is the foreign form of one stable frame: the identities of the
// snapshots it holds.
type FrameRecord struct {
	ID        uint64   `json:"id" yaml:"id"`
	Snapshots []uint64 `json:"snapshots,omitempty" yaml:"snapshots,omitempty"`
}

// Archive is the foreign form of a whole memory: every snapshot, every
// stable frame, and the history timeline. Each archive carries a unique
// identity assigned at export.
type Archive struct {
	ID           string        `json:"id" yaml:"id"`
	Snapshots    []Record      `json:"snapshots,omitempty" yaml:"snapshots,omitempty"`
	Frames       []FrameRecord `json:"frames,omitempty" yaml:"frames,omitempty"`
	CurrentFrame *uint64       `json:"current_frame,omitempty" yaml:"current_frame,omitempty"`
	Undoable     []uint64      `json:"undoable,omitempty" yaml:"undoable,omitempty"`
	Redoable     []uint64      `json:"redoable,omitempty" yaml:"redoable,omitempty"`
}

// NewArchive converts the stable frames and history of a memory into an
// archive. Mutable frames are not archived.
func NewArchive(memory *core.Memory) *Archive {
	archive := &Archive{ID: uuid.NewString()}

	seen := make(map[core.ID]struct{})
	for _, frameID := range memory.StableFrameIDs() {
		frame, _ := memory.StableFrame(frameID)
		record := FrameRecord{ID: uint64(frameID)}
		for _, snapshot := range frame.Snapshots() {
			record.Snapshots = append(record.Snapshots, uint64(snapshot.SnapshotID()))
			if _, ok := seen[snapshot.SnapshotID()]; ok {
				continue
			}
			seen[snapshot.SnapshotID()] = struct{}{}
			archive.Snapshots = append(archive.Snapshots, FromSnapshot(snapshot))
		}
		archive.Frames = append(archive.Frames, record)
	}

	if current, ok := memory.CurrentFrameID(); ok {
		id := uint64(current)
		archive.CurrentFrame = &id
	}
	for _, id := range memory.UndoableFrames() {
		archive.Undoable = append(archive.Undoable, uint64(id))
	}
	for _, id := range memory.RedoableFrames() {
		archive.Redoable = append(archive.Redoable, uint64(id))
	}
	return archive
}

// Restore reconstructs a memory from the archive. Frames are replayed in
// creation order and re-validated against the given metamodel.
func (a *Archive) Restore(metamodel *core.Metamodel) (*core.Memory, error) {
	memory, err := core.NewMemory(metamodel)
	if err != nil {
		return nil, err
	}

	records := make(map[uint64]Record, len(a.Snapshots))
	for _, record := range a.Snapshots {
		records[record.SnapshotID] = record
	}

	created := make(map[uint64]*core.Snapshot)
	for _, frameRecord := range a.Frames {
		frame := memory.CreateFrameWithID(core.ID(frameRecord.ID))
		for _, snapshotID := range frameRecord.Snapshots {
			if snapshot, ok := created[snapshotID]; ok {
				frame.Insert(snapshot, false)
				continue
			}
			record, ok := records[snapshotID]
			if !ok {
				return nil, fmt.Errorf("frame %d references unknown snapshot %d", frameRecord.ID, snapshotID)
			}
			snapshot, err := CreateSnapshot(memory, record)
			if err != nil {
				return nil, fmt.Errorf("frame %d: %w", frameRecord.ID, err)
			}
			frame.Insert(snapshot, true)
			created[snapshotID] = snapshot
		}
		if _, err := memory.Accept(frame, false); err != nil {
			return nil, fmt.Errorf("frame %d: %w", frameRecord.ID, err)
		}
	}

	var current *core.ID
	if a.CurrentFrame != nil {
		id := core.ID(*a.CurrentFrame)
		current = &id
	}
	undoable := make([]core.ID, len(a.Undoable))
	for i, id := range a.Undoable {
		undoable[i] = core.ID(id)
	}
	redoable := make([]core.ID, len(a.Redoable))
	for i, id := range a.Redoable {
		redoable[i] = core.ID(id)
	}
	memory.RestoreHistory(current, undoable, redoable)
	return memory, nil
}
