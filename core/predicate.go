package core

// Predicate selects candidate objects from a frame. Predicates form a small
// combinator algebra: Any, IsType, HasTrait, And, Or, Not.
type Predicate interface {
	// Match returns true if the snapshot satisfies the predicate.
	Match(snapshot *Snapshot) bool
}

// Select returns the snapshots in the frame matching the predicate, ordered
// by ascending object ID.
func Select(frame Frame, predicate Predicate) []*Snapshot {
	var result []*Snapshot
	for _, snapshot := range frame.Snapshots() {
		if predicate.Match(snapshot) {
			result = append(result, snapshot)
		}
	}
	return result
}

type anyPredicate struct{}

func (anyPredicate) Match(*Snapshot) bool { return true }

// Any returns a predicate matching every object.
func Any() Predicate {
	return anyPredicate{}
}

type typePredicate struct {
	name string
}

func (p typePredicate) Match(s *Snapshot) bool {
	return s.Type().Name == p.name
}

// IsType returns a predicate matching objects of the type with the given name.
func IsType(name string) Predicate {
	return typePredicate{name: name}
}

type traitPredicate struct {
	name string
}

func (p traitPredicate) Match(s *Snapshot) bool {
	return s.Type().HasTrait(p.name)
}

// HasTrait returns a predicate matching objects whose type carries the trait
// with the given name.
func HasTrait(name string) Predicate {
	return traitPredicate{name: name}
}

type andPredicate struct {
	operands []Predicate
}

func (p andPredicate) Match(s *Snapshot) bool {
	for _, operand := range p.operands {
		if !operand.Match(s) {
			return false
		}
	}
	return true
}

// And returns a predicate matching objects that satisfy every operand.
func And(operands ...Predicate) Predicate {
	return andPredicate{operands: operands}
}

type orPredicate struct {
	operands []Predicate
}

func (p orPredicate) Match(s *Snapshot) bool {
	for _, operand := range p.operands {
		if operand.Match(s) {
			return true
		}
	}
	return false
}

// Or returns a predicate matching objects that satisfy any operand.
func Or(operands ...Predicate) Predicate {
	return orPredicate{operands: operands}
}

type notPredicate struct {
	operand Predicate
}

func (p notPredicate) Match(s *Snapshot) bool {
	return !p.operand.Match(s)
}

// Not returns a predicate matching objects that do not satisfy the operand.
func Not(operand Predicate) Predicate {
	return notPredicate{operand: operand}
}
