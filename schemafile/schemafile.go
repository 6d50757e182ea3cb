// Package schemafile implements accessible's schema reflection against a
// YAML document describing entities, columns, relations, and enumerations.
// It serves the CLI and callers that have no Go model structs to reflect on.
//
// Document shape:
//
//	entities:
//	  Article:
//	    table: articles
//	    columns:
//	      id: id
//	      owner_id: owner_id
//	    enums:
//	      status:
//	        draft: 0
//	        published: 1
//	    relations:
//	      comments:
//	        target: Comment
//	        steps:
//	          - table: comments
//	            on:
//	              - {left: id, right: article_id}
package schemafile

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/jeremyyap/accessible"
)

// Document is the top-level YAML schema document.
type Document struct {
	Entities map[string]EntitySpec `json:"entities"`
}

// EntitySpec describes one entity.
type EntitySpec struct {
	Table     string                        `json:"table"`
	Columns   map[string]string             `json:"columns"`
	Enums     map[string]accessible.EnumSet `json:"enums"`
	Relations map[string]RelationSpec       `json:"relations"`
}

// RelationSpec describes one association and its physical join steps.
type RelationSpec struct {
	Target string     `json:"target"`
	Steps  []StepSpec `json:"steps"`
}

// StepSpec is one join hop.
type StepSpec struct {
	Table string   `json:"table"`
	On    []OnSpec `json:"on"`
}

// OnSpec is one ON condition of a join hop.
type OnSpec struct {
	Left  string `json:"left"`
	Right string `json:"right"`
	Value string `json:"value"`
}

// Catalog resolves entity names to accessible.Entity values backed by the
// loaded document. Read-only after Load; safe for concurrent use.
type Catalog struct {
	doc Document
}

// Load reads and validates a schema document from path.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return Parse(raw)
}

// Parse validates a schema document from raw YAML bytes.
func Parse(raw []byte) (*Catalog, error) {
	var doc Document
	if err := yaml.UnmarshalStrict(raw, &doc); err != nil {
		return nil, fmt.Errorf("schemafile: parsing document: %w", err)
	}

	for name, spec := range doc.Entities {
		if spec.Table == "" {
			return nil, fmt.Errorf("schemafile: entity %s has no table", name)
		}
		for relName, rel := range spec.Relations {
			if _, ok := doc.Entities[rel.Target]; !ok {
				return nil, fmt.Errorf("schemafile: relation %s.%s targets unknown entity %q",
					name, relName, rel.Target)
			}
			if len(rel.Steps) == 0 {
				return nil, fmt.Errorf("schemafile: relation %s.%s has no join steps", name, relName)
			}
		}
	}

	return &Catalog{doc: doc}, nil
}

// Entity returns the named entity, or false if the document does not
// define it.
func (c *Catalog) Entity(name string) (accessible.Entity, bool) {
	spec, ok := c.doc.Entities[name]
	if !ok {
		return nil, false
	}
	return &entity{catalog: c, name: name, spec: spec}, true
}

type entity struct {
	catalog *Catalog
	name    string
	spec    EntitySpec
}

func (e *entity) Name() string { return e.name }

func (e *entity) Table() string { return e.spec.Table }

func (e *entity) Column(name string) (string, bool) {
	column, ok := e.spec.Columns[name]
	return column, ok
}

func (e *entity) Relation(name string) (*accessible.Relation, bool) {
	spec, ok := e.spec.Relations[name]
	if !ok {
		return nil, false
	}
	target, ok := e.catalog.Entity(spec.Target)
	if !ok {
		// Load validated targets; an unknown one here means the document
		// was built by hand. Treat it as an unknown relation.
		return nil, false
	}

	steps := make([]accessible.JoinStep, len(spec.Steps))
	for i, step := range spec.Steps {
		on := make([]accessible.ColumnPair, len(step.On))
		for j, pair := range step.On {
			on[j] = accessible.ColumnPair{Left: pair.Left, Right: pair.Right, Value: pair.Value}
		}
		steps[i] = accessible.JoinStep{Table: step.Table, On: on}
	}
	return &accessible.Relation{Name: name, Target: target, Steps: steps}, true
}

func (e *entity) Enum(attribute string) (accessible.EnumSet, bool) {
	set, ok := e.spec.Enums[attribute]
	return set, ok
}

// LoadRules reads an ordered rule list from a YAML file. Each element has a
// grants flag and a condition tree:
//
//	- grants: true
//	  conditions:
//	    owner_id: 5
//	- grants: false
//	  conditions:
//	    locked: true
func LoadRules(path string) ([]accessible.Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}

	var specs []struct {
		Grants     bool           `json:"grants"`
		Conditions map[string]any `json:"conditions"`
	}
	if err := yaml.Unmarshal(raw, &specs); err != nil {
		return nil, fmt.Errorf("schemafile: parsing rules: %w", err)
	}

	rules := make([]accessible.Rule, len(specs))
	for i, spec := range specs {
		rules[i] = accessible.Rule{Grants: spec.Grants, Conditions: spec.Conditions}
	}
	return rules, nil
}
