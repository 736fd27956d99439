package core

// Requirement checks a set of candidate objects and returns the subset that
// violates it.
type Requirement interface {
	// Check returns the identities of the violating objects in ascending
	// order. An empty result means the requirement holds.
	Check(frame Frame, candidates []*Snapshot) []ID
}

// Constraint is a named (predicate, requirement) pair that every accepted
// frame must satisfy.
type Constraint struct {
	Name        string
	Predicate   Predicate
	Requirement Requirement
}

type rejectAll struct{}

func (rejectAll) Check(frame Frame, candidates []*Snapshot) []ID {
	violators := make([]ID, 0, len(candidates))
	for _, s := range candidates {
		violators = append(violators, s.ObjectID())
	}
	return violators
}

// RejectAll returns a requirement violated by every candidate.
func RejectAll() Requirement {
	return rejectAll{}
}

type acceptAll struct{}

func (acceptAll) Check(Frame, []*Snapshot) []ID { return nil }

// AcceptAll returns a requirement that always holds.
func AcceptAll() Requirement {
	return acceptAll{}
}

type uniqueAttribute struct {
	name string
}

func (r uniqueAttribute) Check(frame Frame, candidates []*Snapshot) []ID {
	groups := make(map[string][]ID)
	var keys []string
	for _, s := range candidates {
		v, ok := s.Attribute(r.name)
		if !ok {
			continue
		}
		key := v.Hash()
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], s.ObjectID())
	}
	var violators []ID
	for _, key := range keys {
		if len(groups[key]) > 1 {
			violators = append(violators, groups[key]...)
		}
	}
	return sortedSlice(violators)
}

// UniqueAttribute returns a requirement violated by candidates sharing the
// same value of the named attribute.
func UniqueAttribute(name string) Requirement {
	return uniqueAttribute{name: name}
}

type unidirectionalEdge struct{}

func (unidirectionalEdge) Check(frame Frame, candidates []*Snapshot) []ID {
	type pair struct{ origin, target ID }
	forward := make(map[pair][]ID)
	for _, s := range candidates {
		origin, target, ok := s.Structure().Endpoints()
		if !ok {
			continue
		}
		forward[pair{origin, target}] = append(forward[pair{origin, target}], s.ObjectID())
	}
	var violators []ID
	for p, ids := range forward {
		if p.origin == p.target {
			continue
		}
		if _, ok := forward[pair{p.target, p.origin}]; ok {
			violators = append(violators, ids...)
		}
	}
	return sortedSlice(violators)
}

// UnidirectionalEdge returns a requirement violated by candidate edges that
// have an opposite counterpart among the candidates.
func UnidirectionalEdge() Requirement {
	return unidirectionalEdge{}
}

type acyclicGraph struct {
	edges Predicate
}

func (r acyclicGraph) Check(frame Frame, candidates []*Snapshot) []ID {
	// induced graph over the edges selected by the requirement predicate
	outgoing := make(map[ID][]*Snapshot)
	incoming := make(map[ID]int)
	var edges []*Snapshot
	for _, s := range Select(frame, r.edges) {
		origin, target, ok := s.Structure().Endpoints()
		if !ok {
			continue
		}
		edges = append(edges, s)
		outgoing[origin] = append(outgoing[origin], s)
		incoming[target]++
		if _, ok := incoming[origin]; !ok {
			incoming[origin] = 0
		}
	}

	// peel nodes with no incoming edges until only cyclic remainder is left
	var ready []ID
	for node, degree := range incoming {
		if degree == 0 {
			ready = append(ready, node)
		}
	}
	removed := make(map[ID]struct{})
	for len(ready) > 0 {
		node := ready[0]
		ready = ready[1:]
		for _, edge := range outgoing[node] {
			removed[edge.ObjectID()] = struct{}{}
			_, target, _ := edge.Structure().Endpoints()
			incoming[target]--
			if incoming[target] == 0 {
				ready = append(ready, target)
			}
		}
	}

	var violators []ID
	for _, edge := range edges {
		if _, ok := removed[edge.ObjectID()]; !ok {
			violators = append(violators, edge.ObjectID())
		}
	}
	return sortedSlice(violators)
}

// AcyclicGraph returns a requirement over the graph formed by the edges
// matching the given predicate. It is violated by every edge that lies on a
// cycle or is reachable from one, since such edges can never be peeled off
// in topological order.
func AcyclicGraph(edges Predicate) Requirement {
	return acyclicGraph{edges: edges}
}

func sortedSlice(ids []ID) []ID {
	set := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return sortedIDs(set)
}
