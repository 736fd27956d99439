// Package schema loads a metamodel from a GraphQL schema definition.
//
// Interfaces declare traits, object types declare object types, and the
// @node, @edge, and @unstructured directives select the structural kind.
// Fields declared directly on an object type form an implicit trait named
// after the type.
package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/nasdf/forma/core"
	"github.com/nasdf/forma/value"
)

// prelude declares the directives and scalars available to every metamodel
// definition.
const prelude = `
directive @node on OBJECT
directive @edge on OBJECT
directive @unstructured on OBJECT
directive @default(value: String!) on FIELD_DEFINITION
scalar Point
`

// LoadMetamodel parses a GraphQL schema definition into a metamodel.
// Errors of separate interface and type definitions are collected before
// returning; within one object type, the first failing step (structural
// directives, interfaces, own fields) ends processing of that type.
func LoadMetamodel(source string) (*core.Metamodel, error) {
	s, err := gqlparser.LoadSchema(&ast.Source{Input: prelude + source})
	if err != nil {
		return nil, err
	}

	var errs []error
	metamodel := &core.Metamodel{}
	traits := make(map[string]*core.Trait)

	for _, d := range s.Types {
		if d.BuiltIn || d.Kind != ast.Interface {
			continue
		}
		trait, err := spawnTrait(d.Name, d.Fields)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		traits[d.Name] = trait
		metamodel.Traits = append(metamodel.Traits, trait)
	}

	for _, d := range s.Types {
		if d.BuiltIn || d.Kind != ast.Object {
			continue
		}
		typ, err := spawnType(d, traits)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		metamodel.Types = append(metamodel.Types, typ)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// gqlparser stores definitions in a map; order the result for
	// reproducibility
	slices.SortFunc(metamodel.Traits, func(a, b *core.Trait) int {
		return strings.Compare(a.Name, b.Name)
	})
	slices.SortFunc(metamodel.Types, func(a, b *core.ObjectType) int {
		return strings.Compare(a.Name, b.Name)
	})
	return metamodel, nil
}

func spawnTrait(name string, fields ast.FieldList) (*core.Trait, error) {
	var errs []error
	trait := &core.Trait{Name: name}
	for _, f := range fields {
		attr, err := spawnAttribute(f)
		if err != nil {
			errs = append(errs, fmt.Errorf("trait %s: %w", name, err))
			continue
		}
		trait.Attributes = append(trait.Attributes, attr)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return trait, nil
}

func spawnType(d *ast.Definition, traits map[string]*core.Trait) (*core.ObjectType, error) {
	structural, err := structuralKind(d)
	if err != nil {
		return nil, err
	}

	var typeTraits []*core.Trait
	inherited := make(map[string]struct{})
	for _, name := range d.Interfaces {
		trait, ok := traits[name]
		if !ok {
			return nil, fmt.Errorf("type %s: unknown trait %s", d.Name, name)
		}
		typeTraits = append(typeTraits, trait)
		for _, attr := range trait.Attributes {
			inherited[attr.Name] = struct{}{}
		}
	}

	// fields declared on the type itself become an implicit trait
	var own ast.FieldList
	for _, f := range d.Fields {
		if _, ok := inherited[f.Name]; !ok {
			own = append(own, f)
		}
	}
	if len(own) > 0 {
		trait, err := spawnTrait(d.Name, own)
		if err != nil {
			return nil, err
		}
		typeTraits = append(typeTraits, trait)
	}

	return core.NewObjectType(d.Name, structural, typeTraits...)
}

func structuralKind(d *ast.Definition) (core.StructuralKind, error) {
	var kinds []core.StructuralKind
	if d.Directives.ForName("node") != nil {
		kinds = append(kinds, core.StructuralNode)
	}
	if d.Directives.ForName("edge") != nil {
		kinds = append(kinds, core.StructuralEdge)
	}
	if d.Directives.ForName("unstructured") != nil {
		kinds = append(kinds, core.StructuralUnstructured)
	}
	switch len(kinds) {
	case 0:
		return core.StructuralUnstructured, nil
	case 1:
		return kinds[0], nil
	default:
		return 0, fmt.Errorf("type %s: more than one structural directive", d.Name)
	}
}

func spawnAttribute(f *ast.FieldDefinition) (core.Attribute, error) {
	typ, err := attributeType(f.Type)
	if err != nil {
		return core.Attribute{}, fmt.Errorf("field %s: %w", f.Name, err)
	}
	attr := core.Attribute{
		Name: f.Name,
		Type: typ,
		Doc:  f.Description,
	}
	if directive := f.Directives.ForName("default"); directive != nil {
		raw := directive.Arguments.ForName("value").Value.Raw
		v, err := value.String(raw).Convert(typ)
		if err != nil {
			return core.Attribute{}, fmt.Errorf("field %s: invalid default %q: %w", f.Name, raw, err)
		}
		attr.Default = &v
	}
	return attr, nil
}

func attributeType(t *ast.Type) (value.Type, error) {
	if t.Elem != nil {
		item, err := attributeType(t.Elem)
		if err != nil {
			return 0, err
		}
		if item.IsArray() {
			return 0, fmt.Errorf("nested list type")
		}
		return value.ArrayOf(item), nil
	}
	switch t.NamedType {
	case "Int":
		return value.TypeInt, nil
	case "Float":
		return value.TypeDouble, nil
	case "Boolean":
		return value.TypeBool, nil
	case "String":
		return value.TypeString, nil
	case "Point":
		return value.TypePoint, nil
	default:
		return 0, fmt.Errorf("invalid attribute type %s", t.NamedType)
	}
}
