// Package graph projects a frame as a graph of nodes and edges and provides
// neighborhood selection and topological ordering.
package graph

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/nasdf/forma/core"
)

// View is a transient projection of a frame. Snapshots with the node
// structural kind surface as nodes; edges surface with their endpoints
// resolved against the same frame.
type View struct {
	frame core.Frame
}

// NewView creates a view over the given frame.
func NewView(frame core.Frame) *View {
	return &View{frame: frame}
}

// Frame returns the frame the view projects.
func (v *View) Frame() core.Frame {
	return v.frame
}

// Nodes returns the node snapshots in the frame ordered by ascending object ID.
func (v *View) Nodes() []*core.Snapshot {
	return v.selectKind(core.StructuralNode)
}

// Edges returns the edge snapshots in the frame ordered by ascending object ID.
func (v *View) Edges() []*core.Snapshot {
	return v.selectKind(core.StructuralEdge)
}

func (v *View) selectKind(kind core.StructuralKind) []*core.Snapshot {
	var result []*core.Snapshot
	for _, snapshot := range v.frame.Snapshots() {
		if snapshot.Structure().Kind() == kind {
			result = append(result, snapshot)
		}
	}
	return result
}

// Node returns the node with the given object ID.
func (v *View) Node(id core.ID) (*core.Snapshot, bool) {
	snapshot, ok := v.frame.Object(id)
	if !ok || snapshot.Structure().Kind() != core.StructuralNode {
		return nil, false
	}
	return snapshot, true
}

// Edge returns the edge with the given object ID.
func (v *View) Edge(id core.ID) (*core.Snapshot, bool) {
	snapshot, ok := v.frame.Object(id)
	if !ok || snapshot.Structure().Kind() != core.StructuralEdge {
		return nil, false
	}
	return snapshot, true
}

// ContainsNode returns true if the frame holds a node with the given ID.
func (v *View) ContainsNode(id core.ID) bool {
	_, ok := v.Node(id)
	return ok
}

// ContainsEdge returns true if the frame holds an edge with the given ID.
func (v *View) ContainsEdge(id core.ID) bool {
	_, ok := v.Edge(id)
	return ok
}

// Outgoing returns the edges whose origin is the given node.
func (v *View) Outgoing(origin core.ID) []*core.Snapshot {
	var result []*core.Snapshot
	for _, edge := range v.Edges() {
		o, _, _ := edge.Structure().Endpoints()
		if o == origin {
			result = append(result, edge)
		}
	}
	return result
}

// Incoming returns the edges whose target is the given node.
func (v *View) Incoming(target core.ID) []*core.Snapshot {
	var result []*core.Snapshot
	for _, edge := range v.Edges() {
		_, t, _ := edge.Structure().Endpoints()
		if t == target {
			result = append(result, edge)
		}
	}
	return result
}

// Neighbours returns the edges touching the given node in either direction.
func (v *View) Neighbours(id core.ID) []*core.Snapshot {
	var result []*core.Snapshot
	for _, edge := range v.Edges() {
		origin, target, _ := edge.Structure().Endpoints()
		if origin == id || target == id {
			result = append(result, edge)
		}
	}
	return result
}

// SelectNodes returns the nodes matching the predicate.
func (v *View) SelectNodes(predicate core.Predicate) []*core.Snapshot {
	var result []*core.Snapshot
	for _, node := range v.Nodes() {
		if predicate.Match(node) {
			result = append(result, node)
		}
	}
	return result
}

// SelectEdges returns the edges matching the predicate.
func (v *View) SelectEdges(predicate core.Predicate) []*core.Snapshot {
	var result []*core.Snapshot
	for _, edge := range v.Edges() {
		if predicate.Match(edge) {
			result = append(result, edge)
		}
	}
	return result
}

// Direction selects which endpoint of an edge faces a node.
type Direction int

const (
	DirectionOutgoing Direction = iota
	DirectionIncoming
)

// Selector filters the edges around a node by direction and predicate.
type Selector struct {
	Direction Direction
	Predicate core.Predicate
}

// Neighborhood is the set of edges around a node matching a selector,
// together with the nodes at their opposite endpoints.
type Neighborhood struct {
	// Origin is the node the neighborhood was selected around.
	Origin core.ID
	// Edges are the matching edges.
	Edges []*core.Snapshot
	// Nodes are the nodes at the opposite endpoints of the edges.
	Nodes []*core.Snapshot
}

// Hood returns the neighborhood of the given node under the selector.
func (v *View) Hood(id core.ID, selector Selector) Neighborhood {
	var candidates []*core.Snapshot
	switch selector.Direction {
	case DirectionOutgoing:
		candidates = v.Outgoing(id)
	case DirectionIncoming:
		candidates = v.Incoming(id)
	}
	hood := Neighborhood{Origin: id}
	for _, edge := range candidates {
		if selector.Predicate != nil && !selector.Predicate.Match(edge) {
			continue
		}
		hood.Edges = append(hood.Edges, edge)
		origin, target, _ := edge.Structure().Endpoints()
		opposite := target
		if selector.Direction == DirectionIncoming {
			opposite = origin
		}
		if node, ok := v.frame.Object(opposite); ok {
			hood.Nodes = append(hood.Nodes, node)
		}
	}
	return hood
}

// CycleError reports the edges that could not be ordered: the edges on a
// cycle and the edges reachable from one.
type CycleError struct {
	Edges []core.ID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("graph contains a cycle through %d edges", len(e.Edges))
}

// TopologicalSort orders the given nodes so that every edge points from an
// earlier node to a later one. Only edges between the given nodes are
// considered. Ties break by ascending object ID for reproducibility. A
// cyclic graph fails with a CycleError carrying every considered edge that
// could not be ordered, in ascending ID order.
func (v *View) TopologicalSort(nodes []core.ID, edges []core.ID) ([]core.ID, error) {
	inNodes := make(map[core.ID]struct{}, len(nodes))
	for _, node := range nodes {
		inNodes[node] = struct{}{}
	}

	type edgeRef struct {
		id             core.ID
		origin, target core.ID
	}
	outgoing := make(map[core.ID][]edgeRef)
	incoming := make(map[core.ID]int)
	var induced []edgeRef
	for _, id := range edges {
		edge, ok := v.Edge(id)
		if !ok {
			continue
		}
		origin, target, _ := edge.Structure().Endpoints()
		if _, ok := inNodes[origin]; !ok {
			continue
		}
		if _, ok := inNodes[target]; !ok {
			continue
		}
		ref := edgeRef{id: id, origin: origin, target: target}
		induced = append(induced, ref)
		outgoing[origin] = append(outgoing[origin], ref)
		incoming[target]++
	}

	var ready []core.ID
	for _, node := range nodes {
		if incoming[node] == 0 {
			ready = append(ready, node)
		}
	}

	var sorted []core.ID
	satisfied := make(map[core.ID]struct{})
	for len(ready) > 0 {
		slices.SortFunc(ready, func(a, b core.ID) int { return cmp.Compare(a, b) })
		node := ready[0]
		ready = ready[1:]
		sorted = append(sorted, node)
		for _, ref := range outgoing[node] {
			satisfied[ref.id] = struct{}{}
			incoming[ref.target]--
			if incoming[ref.target] == 0 {
				ready = append(ready, ref.target)
			}
		}
	}

	if len(sorted) != len(nodes) {
		var back []core.ID
		for _, ref := range induced {
			if _, ok := satisfied[ref.id]; !ok {
				back = append(back, ref.id)
			}
		}
		slices.Sort(back)
		return nil, &CycleError{Edges: back}
	}
	return sorted, nil
}
