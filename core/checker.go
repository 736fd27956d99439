package core

import (
	"fmt"
	"strings"
)

// TypeErrorKind discriminates attribute type errors found during frame
// validation.
type TypeErrorKind int

const (
	// TypeErrorUnknownAttribute marks an attribute not declared by the type.
	TypeErrorUnknownAttribute TypeErrorKind = iota
	// TypeErrorMissingAttribute marks a declared attribute without a default
	// that the snapshot does not carry.
	TypeErrorMissingAttribute
	// TypeErrorTypeMismatch marks an attribute whose value kind does not
	// match the declared kind.
	TypeErrorTypeMismatch
)

// TypeError describes one attribute error on one object.
type TypeError struct {
	Kind      TypeErrorKind
	Attribute string
}

func (e TypeError) String() string {
	switch e.Kind {
	case TypeErrorUnknownAttribute:
		return fmt.Sprintf("unknown attribute %s", e.Attribute)
	case TypeErrorMissingAttribute:
		return fmt.Sprintf("missing attribute %s", e.Attribute)
	default:
		return fmt.Sprintf("mistyped attribute %s", e.Attribute)
	}
}

// ConstraintViolation reports the objects violating one constraint.
type ConstraintViolation struct {
	Constraint Constraint
	Objects    []ID
}

// ValidationError aggregates every error found while validating a frame:
// broken structural references, attribute type errors, and constraint
// violations. All errors are collected before the frame is rejected.
type ValidationError struct {
	BrokenReferences []ID
	TypeErrors       map[ID][]TypeError
	Violations       []ConstraintViolation
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.BrokenReferences) > 0 {
		parts = append(parts, fmt.Sprintf("%d broken references", len(e.BrokenReferences)))
	}
	if len(e.TypeErrors) > 0 {
		parts = append(parts, fmt.Sprintf("type errors on %d objects", len(e.TypeErrors)))
	}
	if len(e.Violations) > 0 {
		names := make([]string, len(e.Violations))
		for i, v := range e.Violations {
			names[i] = v.Constraint.Name
		}
		parts = append(parts, "violated constraints: "+strings.Join(names, ", "))
	}
	return "frame validation failed: " + strings.Join(parts, "; ")
}

// CheckConstraints applies every constraint of the metamodel to the frame
// and collects the violations. The frame is not modified.
func CheckConstraints(frame Frame, metamodel *Metamodel) []ConstraintViolation {
	var violations []ConstraintViolation
	for _, constraint := range metamodel.Constraints {
		candidates := Select(frame, constraint.Predicate)
		violators := constraint.Requirement.Check(frame, candidates)
		if len(violators) > 0 {
			violations = append(violations, ConstraintViolation{
				Constraint: constraint,
				Objects:    violators,
			})
		}
	}
	return violations
}

// validateFrame runs referential integrity, attribute type checks, and
// constraint checks, accumulating every error before returning.
func validateFrame(frame Frame, metamodel *Metamodel) error {
	broken := make(map[ID]struct{})
	typeErrors := make(map[ID][]TypeError)

	for _, snapshot := range frame.Snapshots() {
		for _, ref := range snapshot.references() {
			if !frame.Contains(ref) {
				broken[ref] = struct{}{}
			}
		}
		typeErrors[snapshot.ObjectID()] = checkAttributes(snapshot)
		if len(typeErrors[snapshot.ObjectID()]) == 0 {
			delete(typeErrors, snapshot.ObjectID())
		}
	}

	violations := CheckConstraints(frame, metamodel)

	if len(broken) == 0 && len(typeErrors) == 0 && len(violations) == 0 {
		return nil
	}
	return &ValidationError{
		BrokenReferences: sortedIDs(broken),
		TypeErrors:       typeErrors,
		Violations:       violations,
	}
}

func checkAttributes(snapshot *Snapshot) []TypeError {
	var errs []TypeError
	typ := snapshot.Type()
	for _, attr := range typ.Attributes() {
		v, ok := snapshot.Attribute(attr.Name)
		if !ok {
			if attr.Default == nil {
				errs = append(errs, TypeError{Kind: TypeErrorMissingAttribute, Attribute: attr.Name})
			}
			continue
		}
		if v.ValueType() != attr.Type {
			errs = append(errs, TypeError{Kind: TypeErrorTypeMismatch, Attribute: attr.Name})
		}
	}
	for _, name := range snapshot.AttributeNames() {
		if _, ok := typ.Attribute(name); !ok {
			errs = append(errs, TypeError{Kind: TypeErrorUnknownAttribute, Attribute: name})
		}
	}
	return errs
}
