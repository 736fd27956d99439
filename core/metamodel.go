// Package core implements the versioned object memory: the metamodel, object
// snapshots, frames, and the undo/redo history.
package core

import (
	"fmt"

	"github.com/nasdf/forma/value"
)

// StructuralKind determines the structural payload of objects of a type.
type StructuralKind int

const (
	StructuralUnstructured StructuralKind = iota
	StructuralNode
	StructuralEdge
)

var structuralNames = map[StructuralKind]string{
	StructuralUnstructured: "unstructured",
	StructuralNode:         "node",
	StructuralEdge:         "edge",
}

// String returns the textual name of the structural kind.
func (k StructuralKind) String() string {
	return structuralNames[k]
}

// ParseStructuralKind parses a structural kind from its textual name.
func ParseStructuralKind(s string) (StructuralKind, error) {
	for k, n := range structuralNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("invalid structural kind %q", s)
}

// Attribute describes a named, typed attribute with an optional default.
type Attribute struct {
	Name    string
	Type    value.Type
	Default *value.Variant
	Doc     string
}

// Trait is a named, reusable group of attribute descriptors mixed into
// object types.
type Trait struct {
	Name       string
	Attributes []Attribute
}

// Attribute returns the descriptor with the given name.
func (t *Trait) Attribute(name string) (Attribute, bool) {
	for _, attr := range t.Attributes {
		if attr.Name == name {
			return attr, true
		}
	}
	return Attribute{}, false
}

// ObjectType is a named type with a structural kind and an ordered list of
// traits. The attribute descriptors of a type are derived from its traits.
type ObjectType struct {
	Name       string
	Structural StructuralKind
	Traits     []*Trait

	attributes []Attribute
}

// NewObjectType creates an object type from the given traits. Attribute
// names must be unambiguous across traits.
func NewObjectType(name string, structural StructuralKind, traits ...*Trait) (*ObjectType, error) {
	seen := make(map[string]string)
	var attributes []Attribute
	for _, trait := range traits {
		for _, attr := range trait.Attributes {
			owner, ok := seen[attr.Name]
			if ok {
				return nil, fmt.Errorf("type %s: attribute %s declared by both %s and %s", name, attr.Name, owner, trait.Name)
			}
			seen[attr.Name] = trait.Name
			attributes = append(attributes, attr)
		}
	}
	return &ObjectType{
		Name:       name,
		Structural: structural,
		Traits:     traits,
		attributes: attributes,
	}, nil
}

// MustObjectType is like NewObjectType but panics on error.
func MustObjectType(name string, structural StructuralKind, traits ...*Trait) *ObjectType {
	t, err := NewObjectType(name, structural, traits...)
	if err != nil {
		panic(err)
	}
	return t
}

// Attributes returns the attribute descriptors derived from the type traits
// in trait order.
func (t *ObjectType) Attributes() []Attribute {
	return t.attributes
}

// Attribute returns the descriptor with the given name. Traits are searched
// in order and the first match wins.
func (t *ObjectType) Attribute(name string) (Attribute, bool) {
	for _, attr := range t.attributes {
		if attr.Name == name {
			return attr, true
		}
	}
	return Attribute{}, false
}

// HasTrait returns true if the type carries the trait with the given name.
func (t *ObjectType) HasTrait(name string) bool {
	for _, trait := range t.Traits {
		if trait.Name == name {
			return true
		}
	}
	return false
}

// BuiltinVariable is a variable provided by the host application to
// expressions evaluated against the design.
type BuiltinVariable struct {
	Name string
	Type value.Type
}

// Metamodel aggregates the object types, traits, built-in variables, and
// constraints that a memory is bound to.
type Metamodel struct {
	Types       []*ObjectType
	Traits      []*Trait
	Variables   []BuiltinVariable
	Constraints []Constraint
}

// TypeByName returns the object type with the given name.
func (m *Metamodel) TypeByName(name string) (*ObjectType, bool) {
	for _, t := range m.Types {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// TraitByName returns the trait with the given name.
func (m *Metamodel) TraitByName(name string) (*Trait, bool) {
	for _, t := range m.Traits {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// VariableByName returns the built-in variable with the given name.
func (m *Metamodel) VariableByName(name string) (BuiltinVariable, bool) {
	for _, v := range m.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return BuiltinVariable{}, false
}

// Validate checks the metamodel for duplicate type, trait, and constraint
// names.
func (m *Metamodel) Validate() error {
	types := make(map[string]struct{})
	for _, t := range m.Types {
		if _, ok := types[t.Name]; ok {
			return fmt.Errorf("duplicate object type %s", t.Name)
		}
		types[t.Name] = struct{}{}
	}
	traits := make(map[string]struct{})
	for _, t := range m.Traits {
		if _, ok := traits[t.Name]; ok {
			return fmt.Errorf("duplicate trait %s", t.Name)
		}
		traits[t.Name] = struct{}{}
	}
	constraints := make(map[string]struct{})
	for _, c := range m.Constraints {
		if _, ok := constraints[c.Name]; ok {
			return fmt.Errorf("duplicate constraint %s", c.Name)
		}
		constraints[c.Name] = struct{}{}
	}
	return nil
}
